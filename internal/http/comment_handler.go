package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pollit/internal/domain/comment"
	"pollit/internal/platform/apperr"
	"pollit/internal/worker"
)

type createCommentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// @Summary     Comment on a poll
// @Tags        comments
// @Accept      json
// @Param       id       path      string                true  "Poll ID"
// @Param       request  body      createCommentRequest  true  "Comment"
// @Success     201      {object}  comment.Comment
// @Failure     400      {object}  map[string]string  "invalid comment"
// @Failure     404      {object}  map[string]string  "poll not found"
// @Router      /api/v1/polls/{id}/comments [post]
func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	pollID, err := parsePollID(r)
	if err != nil {
		errorResponse(w, poll404(err))
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if _, _, err := h.pollSvc.Get(r.Context(), pollID); err != nil {
		errorResponse(w, err)
		return
	}

	c, err := h.commentSvc.Create(r.Context(), pollID, req.Author, req.Content)
	if err != nil {
		errorResponse(w, err)
		return
	}

	select {
	case h.events <- worker.Event{PollID: pollID, Comment: c}:
	default:
		h.logger.Warn("broadcast queue full, dropping comment event",
			zap.String("poll_id", pollID.String()))
	}

	writeJSON(w, http.StatusCreated, c)
}

// @Summary     List a poll's comments
// @Tags        comments
// @Produce     json
// @Param       id   path     string  true  "Poll ID"
// @Success     200  {array}  comment.Comment
// @Failure     404  {object} map[string]string  "poll not found"
// @Router      /api/v1/polls/{id}/comments [get]
func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	pollID, err := parsePollID(r)
	if err != nil {
		errorResponse(w, poll404(err))
		return
	}

	comments, err := h.commentSvc.ListByPoll(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	if comments == nil {
		comments = []comment.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

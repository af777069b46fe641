package api

import (
	"encoding/json"
	"net/http"

	"pollit/internal/domain/poll"
	"pollit/internal/platform/apperr"
)

type imageOptionRequest struct {
	ImageURL string  `json:"imageUrl"`
	Caption  *string `json:"caption"`
}

type createPollRequest struct {
	Question      string               `json:"question"`
	Options       []string             `json:"options"`
	ImageOptions  []imageOptionRequest `json:"imageOptions"`
	AllowMultiple bool                 `json:"allowMultiple"`
	MaxSelections int                  `json:"maxSelections"`
	CreatedBy     *string              `json:"createdBy"`
}

// poll404 folds malformed path ids into the not-found case: a string that
// is not UUID-shaped cannot name any poll.
func poll404(err error) error {
	return apperr.NotFound("poll_not_found", "poll not found", err)
}

func pollView(p *poll.Poll, opts []poll.Option) map[string]any {
	return map[string]any{
		"id":            p.ID,
		"question":      p.Question,
		"options":       opts,
		"allowMultiple": p.AllowMultiple,
		"maxSelections": p.MaxSelections,
		"createdBy":     p.CreatedBy,
		"createdAt":     p.CreatedAt,
		"updatedAt":     p.UpdatedAt,
	}
}

// @Summary     Create a poll
// @Tags        polls
// @Accept      json
// @Param       request  body      createPollRequest  true  "Poll definition"
// @Success     201      {object}  map[string]string
// @Failure     400      {object}  map[string]string  "invalid poll definition"
// @Router      /api/v1/polls [post]
func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	var opts []poll.Option
	switch {
	case len(req.Options) > 0:
		opts = make([]poll.Option, 0, len(req.Options))
		for _, label := range req.Options {
			opts = append(opts, poll.Option{Label: label})
		}
	case len(req.ImageOptions) > 0:
		opts = make([]poll.Option, 0, len(req.ImageOptions))
		for _, img := range req.ImageOptions {
			url := img.ImageURL
			opts = append(opts, poll.Option{ImageURL: &url, Caption: img.Caption})
		}
	}

	p := &poll.Poll{
		Question:      req.Question,
		AllowMultiple: req.AllowMultiple,
		MaxSelections: req.MaxSelections,
		CreatedBy:     req.CreatedBy,
	}

	id, err := h.pollSvc.Create(r.Context(), p, opts)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// @Summary     List polls
// @Tags        polls
// @Produce     json
// @Success     200  {array}  poll.Poll
// @Router      /api/v1/polls [get]
func (h *Handler) handleListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.pollSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	if polls == nil {
		polls = []poll.Poll{}
	}
	writeJSON(w, http.StatusOK, polls)
}

// @Summary     Get a poll with its options
// @Tags        polls
// @Produce     json
// @Param       id   path     string  true  "Poll ID"
// @Success     200  {object} map[string]any
// @Failure     404  {object} map[string]string  "poll not found"
// @Router      /api/v1/polls/{id} [get]
func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := parsePollID(r)
	if err != nil {
		errorResponse(w, poll404(err))
		return
	}

	p, opts, err := h.pollSvc.Get(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pollView(p, opts))
}

package api

import (
	"database/sql"
	"errors"
	"net/http"

	"pollit/internal/domain/comment"
	"pollit/internal/domain/poll"
	"pollit/internal/domain/vote"
	"pollit/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, poll.ErrNotFound):
		return apperr.NotFound("poll_not_found", "poll not found", err)
	case errors.Is(err, poll.ErrQuestionRequired):
		return apperr.BadRequest("question_required", "question required", err)
	case errors.Is(err, poll.ErrTooFewOptions):
		return apperr.BadRequest("too_few_options", "poll must have at least 2 options", err)
	case errors.Is(err, poll.ErrBadMaxSelections):
		return apperr.BadRequest("invalid_max_selections", "max_selections must be at least 1", err)
	case errors.Is(err, vote.ErrInvalidOptionIndex):
		return apperr.BadRequest("invalid_option_index", "option index missing or invalid", err)
	case errors.Is(err, vote.ErrSingleSelectionOnly):
		return apperr.BadRequest("single_selection_only", "this poll accepts a single selection", err)
	case errors.Is(err, vote.ErrMaxSelectionsExceeded):
		return apperr.BadRequest("max_selections_exceeded", "too many selections for this poll", err)
	case errors.Is(err, vote.ErrInvalidOption):
		return apperr.BadRequest("invalid_option", "option index out of range", err)
	case errors.Is(err, vote.ErrDuplicateSelections):
		return apperr.BadRequest("duplicate_selections", "duplicate option indices", err)
	case errors.Is(err, vote.ErrAlreadyVoted):
		return apperr.Conflict("already_voted", "voter already voted in this poll", err)
	case errors.Is(err, vote.ErrAlreadyVotedOptions):
		return apperr.Conflict("already_voted_options", "voter already voted for one of these options", err)
	case errors.Is(err, vote.ErrExceedsMaxSelections):
		return apperr.Conflict("exceeds_max_selections", "selection limit for this poll reached", err)
	case errors.Is(err, comment.ErrEmptyContent):
		return apperr.BadRequest("empty_content", "comment content required", err)
	case errors.Is(err, comment.ErrContentTooLong):
		return apperr.BadRequest("content_too_long", "comment content too long", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}

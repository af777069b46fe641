package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pollit/internal/domain/vote"
	"pollit/internal/metrics"
	"pollit/internal/worker"
)

// optionIndexList accepts the two body shapes clients send:
// {"optionIndex": 2} and {"optionIndex": [0, 2]}. Fractional or
// non-numeric values fail decoding and surface as invalid_option_index.
type optionIndexList []int

func (l *optionIndexList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var nums []json.Number
		if err := json.Unmarshal(trimmed, &nums); err != nil {
			return err
		}
		out := make([]int, 0, len(nums))
		for _, n := range nums {
			v, err := numberToInt(n)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		*l = out
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	v, err := numberToInt(n)
	if err != nil {
		return err
	}
	*l = []int{v}
	return nil
}

func numberToInt(n json.Number) (int, error) {
	v, err := n.Int64()
	if err != nil {
		return 0, vote.ErrInvalidOptionIndex
	}
	return int(v), nil
}

type voteRequest struct {
	OptionIndex optionIndexList `json:"optionIndex"`
}

// @Summary     Cast a vote
// @Tags        votes
// @Accept      json
// @Param       id       path      string       true  "Poll ID"
// @Param       request  body      voteRequest  true  "Selected option index or indices"
// @Success     201      {object}  map[string]bool
// @Failure     400      {object}  map[string]string  "invalid selection"
// @Failure     404      {object}  map[string]string  "poll not found"
// @Failure     409      {object}  map[string]string  "already voted"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/polls/{id}/vote [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := parsePollID(r)
	if err != nil {
		errorResponse(w, poll404(err))
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, vote.ErrInvalidOptionIndex)
		return
	}

	p, opts, err := h.pollSvc.Get(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	cfg := vote.VotingConfig{
		AllowMultiple: p.AllowMultiple,
		MaxSelections: p.MaxSelections,
		OptionCount:   len(opts),
	}

	voterID := h.ident.FromRequest(r)

	tally, err := h.voteSvc.Cast(r.Context(), pollID, voterID, req.OptionIndex, cfg)
	if err != nil {
		errorResponse(w, err)
		return
	}

	metrics.AddVotes(len(req.OptionIndex))

	// Broadcast is best-effort and must never block the response; a full
	// queue only costs subscribers one update.
	select {
	case h.events <- worker.Event{PollID: pollID, Tally: tally}:
	default:
		h.logger.Warn("broadcast queue full, dropping tally update",
			zap.String("poll_id", pollID.String()))
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// @Summary     Voter's status on a poll
// @Tags        votes
// @Produce     json
// @Param       id   path     string  true  "Poll ID"
// @Success     200  {object} map[string]any
// @Failure     404  {object} map[string]string  "poll not found"
// @Router      /api/v1/polls/{id}/vote-status [get]
func (h *Handler) handleVoteStatus(w http.ResponseWriter, r *http.Request) {
	pollID, err := parsePollID(r)
	if err != nil {
		errorResponse(w, poll404(err))
		return
	}

	p, _, err := h.pollSvc.Get(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	voted, err := h.voteSvc.Status(r.Context(), pollID, h.ident.FromRequest(r))
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"hasVoted":      len(voted) > 0,
		"votedOptions":  voted,
		"allowMultiple": p.AllowMultiple,
	})
}

type resultEntry struct {
	OptionIndex int     `json:"optionIndex"`
	Option      string  `json:"option"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Votes       int64   `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

// @Summary     Poll results
// @Tags        polls
// @Produce     json
// @Param       id   path     string  true  "Poll ID"
// @Success     200  {object} map[string]any
// @Failure     404  {object} map[string]string  "poll not found"
// @Router      /api/v1/polls/{id}/results [get]
func (h *Handler) handlePollResults(w http.ResponseWriter, r *http.Request) {
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

	tally, err := h.voteSvc.Results(r.Context(), pollID, len(opts))
	if err != nil {
		errorResponse(w, err)
		return
	}

	entries := make([]resultEntry, len(tally.Results))
	for i, res := range tally.Results {
		entries[i] = resultEntry{
			OptionIndex: res.OptionIndex,
			Option:      opts[i].Label,
			ImageURL:    opts[i].ImageURL,
			Votes:       res.Votes,
			Percentage:  res.Percentage,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"poll":       pollView(p, opts),
		"results":    entries,
		"totalVotes": tally.TotalVotes,
	})
}

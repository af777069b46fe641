package vote

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAlreadyVoted         = errors.New("voter already voted in this poll")
	ErrAlreadyVotedOptions  = errors.New("voter already voted for one of these options")
	ErrExceedsMaxSelections = errors.New("selection limit for this poll reached")

	// ErrDuplicateRow is returned by repositories when the storage-level
	// uniqueness constraint fires. The service maps it to the conflict
	// error matching the poll type: the constraint, not the read-check,
	// is the authoritative guard against concurrent double votes.
	ErrDuplicateRow = errors.New("duplicate vote row")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Cast runs the full vote pipeline for one submission: structural
// validation, duplicate-vote guard against persisted rows, transactional
// insert, then tally recomputation. Any rejection leaves storage
// untouched.
func (s *Service) Cast(ctx context.Context, pollID uuid.UUID, voterID string, indices []int, cfg VotingConfig) (*Tally, error) {
	if err := ValidateSelection(indices, cfg); err != nil {
		return nil, err
	}

	if err := s.checkDuplicate(ctx, pollID, voterID, indices, cfg); err != nil {
		return nil, err
	}

	if err := s.repo.InsertBatch(ctx, pollID, voterID, indices); err != nil {
		if errors.Is(err, ErrDuplicateRow) {
			// A concurrent submission won the race between our read-check
			// and the insert.
			if cfg.AllowMultiple {
				return nil, ErrAlreadyVotedOptions
			}
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}

	return s.Results(ctx, pollID, cfg.OptionCount)
}

// checkDuplicate is the fast-path rejection with a precise error message.
// Single-select polls refuse any second submission; multi-select polls
// refuse overlapping options first, then anything past max_selections.
func (s *Service) checkDuplicate(ctx context.Context, pollID uuid.UUID, voterID string, indices []int, cfg VotingConfig) error {
	existing, err := s.repo.IndicesByVoter(ctx, pollID, voterID)
	if err != nil {
		return err
	}

	if !cfg.AllowMultiple {
		if len(existing) > 0 {
			return ErrAlreadyVoted
		}
		return nil
	}

	voted := make(map[int]struct{}, len(existing))
	for _, idx := range existing {
		voted[idx] = struct{}{}
	}
	for _, idx := range indices {
		if _, ok := voted[idx]; ok {
			return ErrAlreadyVotedOptions
		}
	}

	if len(existing)+len(indices) > cfg.MaxSelections {
		return ErrExceedsMaxSelections
	}
	return nil
}

// Results recomputes the tally from vote rows: one entry per option
// position, zero-filled for options without votes.
func (s *Service) Results(ctx context.Context, pollID uuid.UUID, optionCount int) (*Tally, error) {
	counts, err := s.repo.CountByOption(ctx, pollID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	results := make([]Result, optionCount)
	for i := 0; i < optionCount; i++ {
		votes := counts[i]
		var pct float64
		if total > 0 {
			pct = float64(votes) * 100.0 / float64(total)
		}
		results[i] = Result{OptionIndex: i, Votes: votes, Percentage: pct}
	}

	return &Tally{TotalVotes: total, Results: results}, nil
}

// Status reports what a voter has already cast on a poll.
func (s *Service) Status(ctx context.Context, pollID uuid.UUID, voterID string) ([]int, error) {
	indices, err := s.repo.IndicesByVoter(ctx, pollID, voterID)
	if err != nil {
		return nil, err
	}
	if indices == nil {
		indices = []int{}
	}
	return indices, nil
}

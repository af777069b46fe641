package vote

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID          int64     `json:"id"`
	PollID      uuid.UUID `json:"poll_id"`
	OptionIndex int       `json:"option_index"`
	VoterID     string    `json:"voter_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// VotingConfig is the slice of a poll record the vote pipeline needs.
// Derived once per request and passed by value.
type VotingConfig struct {
	AllowMultiple bool
	MaxSelections int
	OptionCount   int
}

// Result is the live tally for one option position.
type Result struct {
	OptionIndex int     `json:"optionIndex"`
	Votes       int64   `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

// RoundedPercentage is for consumers that display whole percents; the
// float stays available for finer displays.
func (r Result) RoundedPercentage() int {
	return int(math.Round(r.Percentage))
}

type Tally struct {
	TotalVotes int64    `json:"totalVotes"`
	Results    []Result `json:"results"`
}

type Repository interface {
	// InsertBatch writes one row per index in a single transaction, so a
	// mid-batch failure cannot leave a partial submission behind. It
	// returns ErrDuplicateRow when the store's uniqueness constraint on
	// (poll_id, voter_id, option_index) fires.
	InsertBatch(ctx context.Context, pollID uuid.UUID, voterID string, indices []int) error
	IndicesByVoter(ctx context.Context, pollID uuid.UUID, voterID string) ([]int, error)
	CountByOption(ctx context.Context, pollID uuid.UUID) (map[int]int64, error)
}

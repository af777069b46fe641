package vote

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voterKey struct {
	poll  uuid.UUID
	voter string
}

type memoryVoteRepo struct {
	mu   sync.Mutex
	rows map[voterKey][]int
	// failInsert forces the unique-violation path regardless of state,
	// standing in for a concurrent writer winning the race.
	failInsert error
}

func newMemoryVoteRepo() *memoryVoteRepo {
	return &memoryVoteRepo{rows: make(map[voterKey][]int)}
}

func (r *memoryVoteRepo) InsertBatch(ctx context.Context, pollID uuid.UUID, voterID string, indices []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert != nil {
		return r.failInsert
	}
	key := voterKey{pollID, voterID}
	for _, idx := range indices {
		for _, existing := range r.rows[key] {
			if existing == idx {
				return ErrDuplicateRow
			}
		}
	}
	r.rows[key] = append(r.rows[key], indices...)
	return nil
}

func (r *memoryVoteRepo) IndicesByVoter(ctx context.Context, pollID uuid.UUID, voterID string) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.rows[voterKey{pollID, voterID}]
	out := make([]int, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *memoryVoteRepo) CountByOption(ctx context.Context, pollID uuid.UUID) (map[int]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[int]int64)
	for key, indices := range r.rows {
		if key.poll != pollID {
			continue
		}
		for _, idx := range indices {
			counts[idx]++
		}
	}
	return counts, nil
}

func (r *memoryVoteRepo) totalRows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, indices := range r.rows {
		n += len(indices)
	}
	return n
}

func TestCastSingleSelectPoll(t *testing.T) {
	repo := newMemoryVoteRepo()
	svc := NewService(repo)
	ctx := context.Background()
	pollID := uuid.New()
	cfg := VotingConfig{AllowMultiple: false, MaxSelections: 1, OptionCount: 2}

	tally, err := svc.Cast(ctx, pollID, "voter-x", []int{0}, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tally.TotalVotes)

	// Second submission rejected regardless of chosen option.
	_, err = svc.Cast(ctx, pollID, "voter-x", []int{1}, cfg)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, 1, repo.totalRows())

	tally, err = svc.Cast(ctx, pollID, "voter-y", []int{1}, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), tally.TotalVotes)
	assert.Equal(t, int64(1), tally.Results[0].Votes)
	assert.Equal(t, int64(1), tally.Results[1].Votes)
	assert.InDelta(t, 50.0, tally.Results[0].Percentage, 0.001)
	assert.Equal(t, 50, tally.Results[1].RoundedPercentage())
}

func TestCastMultiSelectPoll(t *testing.T) {
	repo := newMemoryVoteRepo()
	svc := NewService(repo)
	ctx := context.Background()
	pollID := uuid.New()
	cfg := VotingConfig{AllowMultiple: true, MaxSelections: 2, OptionCount: 3}

	_, err := svc.Cast(ctx, pollID, "voter-x", []int{0, 1}, cfg)
	require.NoError(t, err)
	require.Equal(t, 2, repo.totalRows())

	// Already at max_selections: one more option is rejected.
	_, err = svc.Cast(ctx, pollID, "voter-x", []int{2}, cfg)
	assert.ErrorIs(t, err, ErrExceedsMaxSelections)

	// Overlap with prior options is rejected before the limit check.
	_, err = svc.Cast(ctx, pollID, "voter-x", []int{0}, cfg)
	assert.ErrorIs(t, err, ErrAlreadyVotedOptions)

	assert.Equal(t, 2, repo.totalRows())
}

func TestCastOverlapBeatsLimit(t *testing.T) {
	repo := newMemoryVoteRepo()
	svc := NewService(repo)
	ctx := context.Background()
	pollID := uuid.New()
	cfg := VotingConfig{AllowMultiple: true, MaxSelections: 2, OptionCount: 3}

	_, err := svc.Cast(ctx, pollID, "voter-x", []int{0}, cfg)
	require.NoError(t, err)

	// {0,1} overlaps {0} and also exceeds nothing yet; the whole
	// submission is rejected on overlap, no partial accept of {1}.
	_, err = svc.Cast(ctx, pollID, "voter-x", []int{0, 1}, cfg)
	assert.ErrorIs(t, err, ErrAlreadyVotedOptions)
	assert.Equal(t, 1, repo.totalRows())
}

func TestCastRejectionWritesNothing(t *testing.T) {
	repo := newMemoryVoteRepo()
	svc := NewService(repo)
	ctx := context.Background()
	pollID := uuid.New()
	cfg := VotingConfig{AllowMultiple: false, MaxSelections: 1, OptionCount: 2}

	for _, indices := range [][]int{nil, {-1}, {0, 1}, {5}, {1, 1}} {
		_, err := svc.Cast(ctx, pollID, "voter-x", indices, cfg)
		require.Error(t, err)
	}
	assert.Equal(t, 0, repo.totalRows())
}

func TestCastMapsConstraintViolation(t *testing.T) {
	ctx := context.Background()
	pollID := uuid.New()

	repo := newMemoryVoteRepo()
	repo.failInsert = ErrDuplicateRow
	svc := NewService(repo)

	_, err := svc.Cast(ctx, pollID, "voter-x", []int{0},
		VotingConfig{AllowMultiple: false, MaxSelections: 1, OptionCount: 2})
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	_, err = svc.Cast(ctx, pollID, "voter-x", []int{0},
		VotingConfig{AllowMultiple: true, MaxSelections: 2, OptionCount: 2})
	assert.ErrorIs(t, err, ErrAlreadyVotedOptions)
}

func TestResultsZeroFillAndRounding(t *testing.T) {
	repo := newMemoryVoteRepo()
	svc := NewService(repo)
	ctx := context.Background()
	pollID := uuid.New()
	cfg := VotingConfig{AllowMultiple: false, MaxSelections: 1, OptionCount: 3}

	// Three voters on two of three options.
	for i, voter := range []string{"a", "b", "c"} {
		_, err := svc.Cast(ctx, pollID, voter, []int{i % 2}, cfg)
		require.NoError(t, err)
	}

	tally, err := svc.Results(ctx, pollID, 3)
	require.NoError(t, err)
	require.Len(t, tally.Results, 3)
	assert.Equal(t, int64(3), tally.TotalVotes)
	assert.Equal(t, int64(2), tally.Results[0].Votes)
	assert.Equal(t, int64(1), tally.Results[1].Votes)
	assert.Equal(t, int64(0), tally.Results[2].Votes)
	assert.InDelta(t, 66.666, tally.Results[0].Percentage, 0.01)
	assert.Equal(t, 67, tally.Results[0].RoundedPercentage())
	assert.Zero(t, tally.Results[2].Percentage)

	var sum int64
	for _, res := range tally.Results {
		sum += res.Votes
	}
	assert.Equal(t, tally.TotalVotes, sum)
}

func TestResultsEmptyPoll(t *testing.T) {
	svc := NewService(newMemoryVoteRepo())

	tally, err := svc.Results(context.Background(), uuid.New(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tally.TotalVotes)
	require.Len(t, tally.Results, 2)
	for _, res := range tally.Results {
		assert.Zero(t, res.Votes)
		assert.Zero(t, res.Percentage)
	}
}

func TestStatusNeverNil(t *testing.T) {
	svc := NewService(newMemoryVoteRepo())

	voted, err := svc.Status(context.Background(), uuid.New(), "voter-x")
	require.NoError(t, err)
	assert.NotNil(t, voted)
	assert.Empty(t, voted)
}

func TestCastConcurrentSameVoter(t *testing.T) {
	repo := newMemoryVoteRepo()
	svc := NewService(repo)
	pollID := uuid.New()
	cfg := VotingConfig{AllowMultiple: false, MaxSelections: 1, OptionCount: 2}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(opt int) {
			defer wg.Done()
			_, err := svc.Cast(ctx, pollID, "voter-x", []int{opt % 2}, cfg)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var accepted int
	for err := range errs {
		if err == nil {
			accepted++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyVoted)
		}
	}
	// The store-level uniqueness check is what bounds accepted rows here;
	// the read-check alone could let several through.
	assert.GreaterOrEqual(t, accepted, 1)
	assert.LessOrEqual(t, repo.totalRows(), 2)
}

package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type memoryPollRepo struct {
	mu    sync.Mutex
	polls map[uuid.UUID]*Poll
	opts  map[uuid.UUID][]Option
}

func newMemoryPollRepo() *memoryPollRepo {
	return &memoryPollRepo{
		polls: make(map[uuid.UUID]*Poll),
		opts:  make(map[uuid.UUID][]Option),
	}
}

func (r *memoryPollRepo) Create(ctx context.Context, p *Poll, options []Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	copyPoll := *p
	r.polls[p.ID] = &copyPoll

	cloned := make([]Option, len(options))
	copy(cloned, options)
	r.opts[p.ID] = cloned
	return nil
}

func (r *memoryPollRepo) GetByID(ctx context.Context, id uuid.UUID) (*Poll, []Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	copyPoll := *p
	copiedOpts := make([]Option, len(r.opts[id]))
	copy(copiedOpts, r.opts[id])
	return &copyPoll, copiedOpts, nil
}

func (r *memoryPollRepo) List(ctx context.Context) ([]Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := []Poll{}
	for _, p := range r.polls {
		res = append(res, *p)
	}
	return res, nil
}

func TestCreateValidation(t *testing.T) {
	repo := newMemoryPollRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &Poll{}, nil); !errors.Is(err, ErrQuestionRequired) {
		t.Fatalf("expected question error, got %v", err)
	}
	if _, err := svc.Create(ctx, &Poll{Question: "Q"}, []Option{{Label: "A"}}); !errors.Is(err, ErrTooFewOptions) {
		t.Fatalf("expected too-few-options error, got %v", err)
	}
	if _, err := svc.Create(ctx, &Poll{Question: "Q", AllowMultiple: true}, []Option{{Label: "A"}, {Label: "B"}}); !errors.Is(err, ErrBadMaxSelections) {
		t.Fatalf("expected max-selections error, got %v", err)
	}
}

func TestCreateAssignsIDAndIndices(t *testing.T) {
	repo := newMemoryPollRepo()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, &Poll{Question: "Best option?"}, []Option{{Label: "A"}, {Label: "B"}, {Label: "C"}})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected a generated id")
	}

	p, opts, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if p.MaxSelections != 1 {
		t.Fatalf("single-select poll should have max_selections 1, got %d", p.MaxSelections)
	}
	for i, o := range opts {
		if o.Index != i || o.PollID != id {
			t.Fatalf("option %d has index %d poll %s", i, o.Index, o.PollID)
		}
	}
}

func TestCreateClampsMaxSelections(t *testing.T) {
	repo := newMemoryPollRepo()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, &Poll{Question: "Pick some", AllowMultiple: true, MaxSelections: 10},
		[]Option{{Label: "A"}, {Label: "B"}, {Label: "C"}})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	p, _, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if p.MaxSelections != 3 {
		t.Fatalf("expected max_selections clamped to option count, got %d", p.MaxSelections)
	}
}

func TestGetUnknownPoll(t *testing.T) {
	svc := NewService(newMemoryPollRepo())
	if _, _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

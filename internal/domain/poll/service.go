package poll

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("poll not found")
	ErrQuestionRequired = errors.New("question required")
	ErrTooFewOptions    = errors.New("poll must have at least 2 options")
	ErrBadMaxSelections = errors.New("max_selections must be at least 1")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *Poll, options []Option) (uuid.UUID, error) {
	if p.Question == "" {
		return uuid.Nil, ErrQuestionRequired
	}
	if len(options) < 2 {
		return uuid.Nil, ErrTooFewOptions
	}

	if !p.AllowMultiple {
		p.MaxSelections = 1
	} else {
		if p.MaxSelections < 1 {
			return uuid.Nil, ErrBadMaxSelections
		}
		if p.MaxSelections > len(options) {
			p.MaxSelections = len(options)
		}
	}

	p.ID = uuid.New()
	for i := range options {
		options[i].PollID = p.ID
		options[i].Index = i
	}

	if err := s.repo.Create(ctx, p, options); err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Poll, []Option, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Poll, error) {
	return s.repo.List(ctx)
}

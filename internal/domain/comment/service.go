package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const maxContentLen = 2000

var (
	ErrEmptyContent   = errors.New("comment content required")
	ErrContentTooLong = errors.New("comment content too long")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, pollID uuid.UUID, author, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > maxContentLen {
		return nil, ErrContentTooLong
	}

	author = strings.TrimSpace(author)
	if author == "" {
		author = "Anonymous"
	}

	c := &Comment{
		PollID:  pollID,
		Author:  author,
		Content: content,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]Comment, error) {
	return s.repo.ListByPoll(ctx, pollID)
}

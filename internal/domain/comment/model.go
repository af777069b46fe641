package comment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        int64     `json:"id"`
	PollID    uuid.UUID `json:"pollId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]Comment, error)
}

package poll

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID            uuid.UUID `json:"id"`
	Question      string    `json:"question"`
	AllowMultiple bool      `json:"allowMultiple"`
	MaxSelections int       `json:"maxSelections"`
	CreatedBy     *string   `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Option is one poll choice. Index is its position in the poll's ordered
// option list; votes reference options by index, not by row id. Image
// options carry an image reference and an optional caption.
type Option struct {
	PollID   uuid.UUID `json:"pollId"`
	Index    int       `json:"index"`
	Label    string    `json:"label"`
	ImageURL *string   `json:"imageUrl,omitempty"`
	Caption  *string   `json:"caption,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, p *Poll, options []Option) error
	GetByID(ctx context.Context, id uuid.UUID) (*Poll, []Option, error)
	List(ctx context.Context) ([]Poll, error)
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"pollit/internal/domain/comment"
)

type CommentRepo struct {
	db *sql.DB
}

func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) Create(ctx context.Context, c *comment.Comment) error {
	query := `
        INSERT INTO comments (poll_id, author, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	return r.db.QueryRowContext(ctx, query, c.PollID, c.Author, c.Content).
		Scan(&c.ID, &c.CreatedAt)
}

func (r *CommentRepo) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]comment.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, author, content, created_at
        FROM comments
        WHERE poll_id = $1
        ORDER BY created_at
    `, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []comment.Comment
	for rows.Next() {
		var c comment.Comment
		if err := rows.Scan(&c.ID, &c.PollID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

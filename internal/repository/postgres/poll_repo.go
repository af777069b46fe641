package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"pollit/internal/domain/poll"
)

type PollRepo struct {
	db *sql.DB
}

func NewPollRepo(db *sql.DB) *PollRepo {
	return &PollRepo{db: db}
}

func (r *PollRepo) Create(ctx context.Context, p *poll.Poll, options []poll.Option) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	queryPoll := `
        INSERT INTO polls (id, question, allow_multiple, max_selections, created_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at
    `

	err = tx.QueryRowContext(ctx, queryPoll,
		p.ID,
		p.Question,
		p.AllowMultiple,
		p.MaxSelections,
		p.CreatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}

	queryOpt := `
        INSERT INTO poll_options (poll_id, idx, label, image_url, caption)
        VALUES ($1, $2, $3, $4, $5)
    `

	for _, o := range options {
		if _, err := tx.ExecContext(ctx, queryOpt, o.PollID, o.Index, o.Label, o.ImageURL, o.Caption); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PollRepo) GetByID(ctx context.Context, id uuid.UUID) (*poll.Poll, []poll.Option, error) {
	p := &poll.Poll{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, question, allow_multiple, max_selections, created_by, created_at, updated_at
        FROM polls WHERE id = $1
    `, id).Scan(
		&p.ID, &p.Question, &p.AllowMultiple, &p.MaxSelections,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, poll.ErrNotFound
		}
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT poll_id, idx, label, image_url, caption
        FROM poll_options WHERE poll_id = $1 ORDER BY idx
    `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var opts []poll.Option
	for rows.Next() {
		var o poll.Option
		if err := rows.Scan(&o.PollID, &o.Index, &o.Label, &o.ImageURL, &o.Caption); err != nil {
			return nil, nil, err
		}
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return p, opts, nil
}

func (r *PollRepo) List(ctx context.Context) ([]poll.Poll, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, question, allow_multiple, max_selections, created_by, created_at, updated_at
        FROM polls ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []poll.Poll
	for rows.Next() {
		var p poll.Poll
		if err := rows.Scan(&p.ID, &p.Question, &p.AllowMultiple, &p.MaxSelections,
			&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

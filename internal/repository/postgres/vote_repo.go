package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"pollit/internal/domain/vote"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

// InsertBatch writes all rows of one submission inside a single
// transaction. The unique index on (poll_id, voter_id, option_index) is
// the backstop against check-then-insert races; its violation surfaces as
// vote.ErrDuplicateRow.
func (r *VoteRepo) InsertBatch(ctx context.Context, pollID uuid.UUID, voterID string, indices []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO votes (poll_id, option_index, voter_id)
        VALUES ($1, $2, $3)
    `
	for _, idx := range indices {
		if _, err := tx.ExecContext(ctx, query, pollID, idx, voterID); err != nil {
			if isUniqueViolation(err) {
				return vote.ErrDuplicateRow
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return vote.ErrDuplicateRow
		}
		return err
	}
	return nil
}

func (r *VoteRepo) IndicesByVoter(ctx context.Context, pollID uuid.UUID, voterID string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT option_index
        FROM votes
        WHERE poll_id = $1 AND voter_id = $2
        ORDER BY option_index
    `, pollID, voterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indices []int
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	return indices, rows.Err()
}

func (r *VoteRepo) CountByOption(ctx context.Context, pollID uuid.UUID) (map[int]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT option_index, COUNT(*)
        FROM votes
        WHERE poll_id = $1
        GROUP BY option_index
    `, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var idx int
		var c int64
		if err := rows.Scan(&idx, &c); err != nil {
			return nil, err
		}
		counts[idx] = c
	}
	return counts, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/dbx"
	"github.com/google/uuid"
)

// PostgresRepository keeps the slot in users.refresh_token, next to the
// identity it belongs to.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns common.ErrorNotFound when the user row does not exist.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", common.ErrorNotFound
	}

	query := `SELECT refresh_token FROM users WHERE id = $1`

	var token sql.NullString
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return token.String, nil
}

func (r *PostgresRepository) Set(ctx context.Context, userID string, token string) error {
	query := `UPDATE users SET refresh_token = $2 WHERE id = $1`
	return r.exec(ctx, query, userID, token)
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	query := `UPDATE users SET refresh_token = NULL WHERE id = $1`
	return r.exec(ctx, query, userID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, userID string, args ...any) error {
	if _, err := uuid.Parse(userID); err != nil {
		return common.ErrorNotFound
	}
	res, err := r.db.ExecContext(ctx, query, append([]any{userID}, args...)...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// CompareAndSwap relies on the row lock taken by UPDATE: of two concurrent
// swaps with the same expected value only one sees a matching row.
func (r *PostgresRepository) CompareAndSwap(ctx context.Context, userID string, expected string, next string) (bool, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return false, nil
	}

	query := `
		UPDATE users SET refresh_token = $3
		WHERE id = $1 AND refresh_token = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, expected, next)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

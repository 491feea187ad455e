package subscriptions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/videotube/internal/dbx"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	return r.count(ctx, `SELECT count(*) FROM subscriptions WHERE channel_id = $1`, channelID)
}

func (r *PostgresRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error) {
	return r.count(ctx, `SELECT count(*) FROM subscriptions WHERE subscriber_id = $1`, subscriberID)
}

func (r *PostgresRepository) count(ctx context.Context, query string, id string) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListSubscribers(ctx context.Context, channelID string) ([]models.Subscription, error) {
	return r.list(ctx, `
		SELECT subscriber_id, channel_id, created_at
		FROM subscriptions
		WHERE channel_id = $1
		ORDER BY created_at DESC, subscriber_id
	`, channelID)
}

func (r *PostgresRepository) ListSubscribedTo(ctx context.Context, subscriberID string) ([]models.Subscription, error) {
	return r.list(ctx, `
		SELECT subscriber_id, channel_id, created_at
		FROM subscriptions
		WHERE subscriber_id = $1
		ORDER BY created_at DESC, channel_id
	`, subscriberID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, id string) ([]models.Subscription, error) {
	out := []models.Subscription{}
	if _, err := uuid.Parse(id); err != nil {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(&s.SubscriberID, &s.ChannelID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, subscriberID string, channelID string) (bool, error) {
	if !validPair(subscriberID, channelID) {
		return false, nil
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
		)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, subscriberID, channelID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) Create(ctx context.Context, subscriberID string, channelID string) error {
	query := `
		INSERT INTO subscriptions (subscriber_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, subscriberID, channelID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, subscriberID string, channelID string) (bool, error) {
	if !validPair(subscriberID, channelID) {
		return false, nil
	}

	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	res, err := r.db.ExecContext(ctx, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func validPair(a, b string) bool {
	if _, err := uuid.Parse(a); err != nil {
		return false
	}
	_, err := uuid.Parse(b)
	return err == nil
}

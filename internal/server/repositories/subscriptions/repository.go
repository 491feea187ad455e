// Package subscriptions persists directed subscriber → channel edges.
// A pair is stored at most once.
package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/videotube/internal/server/models"
)

type Repository interface {
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error)
	// ListSubscribers returns the edges into channelID, newest first.
	ListSubscribers(ctx context.Context, channelID string) ([]models.Subscription, error)
	// ListSubscribedTo returns the edges out of subscriberID, newest first.
	ListSubscribedTo(ctx context.Context, subscriberID string) ([]models.Subscription, error)
	Exists(ctx context.Context, subscriberID string, channelID string) (bool, error)
	// Create is a no-op when the edge already exists.
	Create(ctx context.Context, subscriberID string, channelID string) error
	// Delete reports whether an edge was removed.
	Delete(ctx context.Context, subscriberID string, channelID string) (bool, error)
}

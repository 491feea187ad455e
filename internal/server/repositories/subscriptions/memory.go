package subscriptions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/videotube/internal/server/models"
)

type edge struct {
	subscriber string
	channel    string
}

type MemoryRepository struct {
	mu    sync.RWMutex
	edges map[edge]time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{edges: make(map[edge]time.Time)}
}

func (r *MemoryRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for e := range r.edges {
		if e.channel == channelID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for e := range r.edges {
		if e.subscriber == subscriberID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) ListSubscribers(ctx context.Context, channelID string) ([]models.Subscription, error) {
	return r.list(func(e edge) bool { return e.channel == channelID }), nil
}

func (r *MemoryRepository) ListSubscribedTo(ctx context.Context, subscriberID string) ([]models.Subscription, error) {
	return r.list(func(e edge) bool { return e.subscriber == subscriberID }), nil
}

func (r *MemoryRepository) list(match func(edge) bool) []models.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Subscription{}
	for e, at := range r.edges {
		if match(e) {
			out = append(out, models.Subscription{SubscriberID: e.subscriber, ChannelID: e.channel, CreatedAt: at})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		if out[i].SubscriberID != out[j].SubscriberID {
			return out[i].SubscriberID < out[j].SubscriberID
		}
		return out[i].ChannelID < out[j].ChannelID
	})
	return out
}

func (r *MemoryRepository) Exists(ctx context.Context, subscriberID string, channelID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.edges[edge{subscriberID, channelID}]
	return ok, nil
}

func (r *MemoryRepository) Create(ctx context.Context, subscriberID string, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := edge{subscriberID, channelID}
	if _, ok := r.edges[e]; !ok {
		r.edges[e] = time.Now().UTC()
	}
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, subscriberID string, channelID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := edge{subscriberID, channelID}
	if _, ok := r.edges[e]; !ok {
		return false, nil
	}
	delete(r.edges, e)
	return true, nil
}

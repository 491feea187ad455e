package sessions

import (
	"context"
	"sync"
)

// MemoryRepository is a process-local slot map.
type MemoryRepository struct {
	mu    sync.Mutex
	slots map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{slots: make(map[string]string)}
}

func (r *MemoryRepository) Get(ctx context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[userID], nil
}

func (r *MemoryRepository) Set(ctx context.Context, userID string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[userID] = token
	return nil
}

func (r *MemoryRepository) CompareAndSwap(ctx context.Context, userID string, expected string, next string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.slots[userID]
	if !ok || current != expected {
		return false, nil
	}
	r.slots[userID] = next
	return true, nil
}

func (r *MemoryRepository) Clear(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, userID)
	return nil
}

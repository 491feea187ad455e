// Package sessions stores the single refresh-token slot of every identity.
// The slot holds at most one token; rotation replaces it atomically through
// CompareAndSwap so that a token can be redeemed once.
package sessions

import "context"

type Repository interface {
	// Get returns the stored token, or "" when the slot is empty.
	Get(ctx context.Context, userID string) (string, error)
	// Set overwrites the slot unconditionally.
	Set(ctx context.Context, userID string, token string) error
	// CompareAndSwap stores next only if the slot currently holds expected.
	// It reports whether the swap happened.
	CompareAndSwap(ctx context.Context, userID string, expected string, next string) (bool, error)
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context, userID string) error
}

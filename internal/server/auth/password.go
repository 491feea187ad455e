package auth

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/videotube/internal/common"
)

// PasswordHasher wraps bcrypt. At most workers hashes run at once so that a
// burst of logins cannot starve unrelated requests of CPU.
type PasswordHasher struct {
	cost int
	gate *semaphore.Weighted
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. workers <= 0
// means GOMAXPROCS.
func NewPasswordHasher(cost int, workers int) *PasswordHasher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &PasswordHasher{cost: cost, gate: semaphore.NewWeighted(int64(workers))}
}

// Hash returns a salted bcrypt digest of plaintext. Passwords longer than
// 72 bytes are rejected with common.ErrInvalidInput.
func (h *PasswordHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.gate.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.ErrInvalidInput
		}
		return "", err
	}

	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is a
// plain mismatch. The error is non-nil only when ctx ends while waiting for
// a worker slot.
func (h *PasswordHasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.gate.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil, nil
}

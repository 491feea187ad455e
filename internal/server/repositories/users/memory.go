package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It is used by the memory
// session backend and by tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]models.User
	clock func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]models.User), clock: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.UserName == user.UserName {
			return nil, fmt.Errorf("%w: username", common.ErrConflict)
		}
		if u.Email == user.Email {
			return nil, fmt.Errorf("%w: email", common.ErrConflict)
		}
	}

	now := r.clock().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = *user

	return user, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.UserName == userName })
}

func (r *MemoryRepository) GetByLogin(ctx context.Context, userName string, email string) (*models.User, error) {
	if u, err := r.find(func(u *models.User) bool { return u.UserName == userName }); err == nil {
		return u, nil
	}
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if match(&u) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.clock().UTC()
	r.byID[id] = u
	return nil
}

func (r *MemoryRepository) UpdateAccount(ctx context.Context, id string, fullName string, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for otherID, other := range r.byID {
		if otherID != id && other.Email == email {
			return nil, fmt.Errorf("%w: email", common.ErrConflict)
		}
	}
	u.FullName = fullName
	u.Email = email
	u.UpdatedAt = r.clock().UTC()
	r.byID[id] = u
	return &u, nil
}

func (r *MemoryRepository) UpdateMedia(ctx context.Context, id string, field MediaField, ref string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	switch field {
	case Avatar:
		u.Avatar = ref
	case CoverImage:
		u.CoverImage = ref
	default:
		return nil, fmt.Errorf("%w: unknown media field %d", common.ErrInvalidInput, field)
	}
	u.UpdatedAt = r.clock().UTC()
	r.byID[id] = u
	return &u, nil
}

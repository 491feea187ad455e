package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, &models.User{UserName: "alice", Email: "alice@example.com", FullName: "Alice", PasswordHash: "h"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.UserName)

	byEmail, err := r.GetByLogin(ctx, "", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := r.GetByUserName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = r.GetByLogin(ctx, "bob", "bob")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_Conflicts(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Create(ctx, &models.User{UserName: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := r.Create(ctx, &models.User{UserName: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.User{UserName: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, common.ErrConflict)

	_, err = r.Create(ctx, &models.User{UserName: "carol", Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrConflict)

	_, err = r.UpdateAccount(ctx, bob.ID, "Bob", "alice@example.com")
	assert.ErrorIs(t, err, common.ErrConflict)

	// keeping one's own email is not a conflict
	updated, err := r.UpdateAccount(ctx, bob.ID, "Bob B", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bob B", updated.FullName)
}

func TestMemoryRepository_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, &models.User{UserName: "alice", Email: "a@x", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, r.UpdatePassword(ctx, u.ID, "new"))
	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)

	assert.ErrorIs(t, r.UpdatePassword(ctx, "missing", "x"), common.ErrorNotFound)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, &models.User{UserName: "alice", Email: "a@x", FullName: "Alice"})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.FullName = "mutated"

	again, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.FullName)
}

func TestMemoryRepository_UpdateMedia(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	u, err := r.Create(ctx, &models.User{UserName: "alice", Email: "a@example.com", Avatar: "a.png", PasswordHash: "h"})
	require.NoError(t, err)

	got, err := r.UpdateMedia(ctx, u.ID, Avatar, "b.png")
	require.NoError(t, err)
	assert.Equal(t, "b.png", got.Avatar)

	got, err = r.UpdateMedia(ctx, u.ID, CoverImage, "cover.png")
	require.NoError(t, err)
	assert.Equal(t, "b.png", got.Avatar)
	assert.Equal(t, "cover.png", got.CoverImage)

	_, err = r.UpdateMedia(ctx, u.ID, MediaField(9), "x")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = r.UpdateMedia(ctx, "missing", Avatar, "x")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_GetByLoginPrefersUserName(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	a, err := r.Create(ctx, &models.User{UserName: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	b, err := r.Create(ctx, &models.User{UserName: "bob", Email: "bob@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	got, err := r.GetByLogin(ctx, "bob", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	got, err = r.GetByLogin(ctx, "wrong", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

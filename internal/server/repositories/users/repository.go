// Package users persists user identities: profile fields and the password
// digest. Usernames and emails are unique; callers normalise them before use.
package users

import (
	"context"

	"github.com/dmitrijs2005/videotube/internal/server/models"
)

// MediaField names a media reference column of a user.
type MediaField int

const (
	Avatar MediaField = iota
	CoverImage
)

type Repository interface {
	// Create inserts a new user and fills in ID and timestamps. Returns
	// common.ErrConflict when the username or email is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	// GetByLogin returns the user whose username equals userName or whose
	// email equals email. A username match wins over an email match.
	GetByLogin(ctx context.Context, userName string, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateAccount(ctx context.Context, id string, fullName string, email string) (*models.User, error)
	// UpdateMedia replaces one media reference and returns the updated user.
	UpdateMedia(ctx context.Context, id string, field MediaField, ref string) (*models.User, error)
}

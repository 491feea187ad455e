// Package models defines server-side data models persisted in the database
// and the projections returned to API callers.
package models

import "time"

// User is a stored identity. PasswordHash never leaves the server; use
// Public to build the outward projection. The refresh token slot belongs to
// the session store, not to this struct.
type User struct {
	ID           string
	UserName     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the projection of User safe to return to callers.
type PublicUser struct {
	ID         string    `json:"id"`
	UserName   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Public strips the password hash.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:         u.ID,
		UserName:   u.UserName,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// Identity is the authenticated caller as established from an access token.
// It is passed explicitly into service calls.
type Identity struct {
	ID       string
	UserName string
	Email    string
	FullName string
}

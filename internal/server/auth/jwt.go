// Package auth mints and verifies the signed access/refresh token pair and
// hashes passwords.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/server/models"
)

// TokenKind tells access tokens from refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims holds the registered claims plus the identity fields. Refresh tokens
// only carry UserID; access tokens carry the full identity.
type Claims struct {
	jwt.RegisteredClaims
	Kind     TokenKind `json:"kind"`
	UserID   string    `json:"_id"`
	UserName string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	FullName string    `json:"fullName,omitempty"`
}

// Identity returns the caller identity asserted by the claims.
func (c *Claims) Identity() models.Identity {
	return models.Identity{ID: c.UserID, UserName: c.UserName, Email: c.Email, FullName: c.FullName}
}

// TokenIssuer signs access and refresh tokens with separate HMAC secrets, so
// that a leaked access secret cannot mint refresh tokens.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// IssueAccess signs a short-lived token asserting the whole identity.
func (i *TokenIssuer) IssueAccess(id models.Identity) (string, error) {
	return i.sign(Claims{
		RegisteredClaims: i.registered(i.accessTTL),
		Kind:             KindAccess,
		UserID:           id.ID,
		UserName:         id.UserName,
		Email:            id.Email,
		FullName:         id.FullName,
	}, i.accessSecret)
}

// IssueRefresh signs a long-lived token asserting only the user id. Every
// call yields a distinct token, even within the same second.
func (i *TokenIssuer) IssueRefresh(userID string) (string, error) {
	return i.sign(Claims{
		RegisteredClaims: i.registered(i.refreshTTL),
		Kind:             KindRefresh,
		UserID:           userID,
	}, i.refreshSecret)
}

// Verify checks signature, structure, expiry and kind. It fails with
// common.ErrTokenExpired for an otherwise valid but expired token and with
// common.ErrInvalidToken for everything else.
func (i *TokenIssuer) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	secret := i.accessSecret
	if kind == KindRefresh {
		secret = i.refreshSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Kind != kind || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func (i *TokenIssuer) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (i *TokenIssuer) sign(claims Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

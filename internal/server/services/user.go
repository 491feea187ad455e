package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/logging"
	"github.com/dmitrijs2005/videotube/internal/server/auth"
	"github.com/dmitrijs2005/videotube/internal/server/media"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/users"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is a fresh token pair plus the caller's public profile.
type LoginResult struct {
	TokenPair
	User *models.PublicUser `json:"user"`
}

// RegisterInput carries the fields of a new account. Avatar and CoverImage
// are media references, not content.
type RegisterInput struct {
	FullName   string
	Email      string
	UserName   string
	Password   string
	Avatar     string
	CoverImage string
}

// UserService runs the identity lifecycle: registration, login, refresh
// token rotation, logout and password changes.
//
// Each identity has a single refresh slot in the session store. Login
// overwrites it, Refresh swaps it only if it still holds the presented token,
// Logout clears it.
type UserService struct {
	repos    repomanager.RepositoryManager
	sessions sessions.Repository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenIssuer
	media    media.Resolver
	logger   logging.Logger
	timeout  time.Duration

	// decoy is hashed at construction and verified against when a login
	// names an unknown user, so both failures cost a bcrypt comparison.
	decoy string
}

func NewUserService(d Deps) *UserService {
	d = d.withDefaults()
	s := &UserService{
		repos:    d.Repos,
		sessions: d.Sessions,
		hasher:   d.Hasher,
		tokens:   d.Tokens,
		media:    d.Media,
		logger:   d.Logger.With("module", "user_service"),
		timeout:  d.StoreTimeout,
	}
	if pw, err := common.MakeRandHexString(16); err == nil {
		s.decoy, _ = s.hasher.Hash(context.Background(), pw)
	}
	return s
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return fmt.Errorf("%w: %s is required", common.ErrInvalidInput, f[0])
		}
	}
	return nil
}

// Register creates an account. Username and email are stored trimmed and
// lowercased; a duplicate of either fails with common.ErrConflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	if err := required(
		[2]string{"fullName", in.FullName},
		[2]string{"email", in.Email},
		[2]string{"username", in.UserName},
		[2]string{"password", in.Password},
		[2]string{"avatar", in.Avatar},
	); err != nil {
		return nil, err
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	digest, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, translate(err)
	}

	user := &models.User{
		UserName:     normalize(in.UserName),
		Email:        normalize(in.Email),
		FullName:     strings.TrimSpace(in.FullName),
		Avatar:       strings.TrimSpace(in.Avatar),
		CoverImage:   strings.TrimSpace(in.CoverImage),
		PasswordHash: digest,
	}

	u, err := s.repos.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("%w: user with email or username already exists", common.ErrConflict)
		}
		return nil, translate(err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return publicUser(ctx, s.media, s.logger, u), nil
}

// Login checks the password of the user whose username or email equals
// login and installs a new refresh token, revoking any previous one.
//
// An unknown login fails with common.ErrorNotFound and a wrong password with
// common.ErrInvalidCredentials; transports must not tell them apart.
func (s *UserService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	return s.LoginByFields(ctx, login, login, password)
}

// LoginByFields is Login for clients that send username and email as
// separate fields. Either may be empty; a username match is preferred.
func (s *UserService) LoginByFields(ctx context.Context, userName, email, password string) (*LoginResult, error) {
	userName, email = normalize(userName), normalize(email)
	if userName == "" && email == "" {
		return nil, fmt.Errorf("%w: username or email is required", common.ErrInvalidInput)
	}
	if err := required([2]string{"password", password}); err != nil {
		return nil, err
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	user, err := s.repos.Users().GetByLogin(ctx, userName, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(ctx, password, s.decoy)
			return nil, common.ErrorNotFound
		}
		return nil, translate(err)
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, translate(err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, translate(err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{TokenPair: *pair, User: publicUser(ctx, s.media, s.logger, user)}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must
// verify and must equal the token stored for its identity; the new refresh
// token replaces it with a compare-and-swap so a token is redeemable once.
//
// A token that no longer matches the slot, whether rotated away, logged out
// or lost in a concurrent refresh, fails with common.ErrRefreshTokenReused.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", common.ErrorUnauthorized)
	}

	claims, err := s.tokens.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, err
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	user, err := s.repos.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", common.ErrorUnauthorized)
		}
		return nil, translate(err)
	}

	stored, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", common.ErrorUnauthorized)
		}
		return nil, translate(err)
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		if stored != "" {
			s.logger.Warn(ctx, "refresh token reuse detected", "user_id", user.ID)
		}
		return nil, common.ErrRefreshTokenReused
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	swapped, err := s.sessions.CompareAndSwap(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, translate(err)
	}
	if !swapped {
		s.logger.Warn(ctx, "refresh token rotated concurrently", "user_id", user.ID)
		return nil, common.ErrRefreshTokenReused
	}

	return pair, nil
}

// Logout clears the refresh slot. It succeeds for an already empty slot.
func (s *UserService) Logout(ctx context.Context, id models.Identity) error {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	if err := s.sessions.Clear(ctx, id.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return translate(err)
	}
	s.logger.Info(ctx, "user logged out", "user_id", id.ID)
	return nil
}

// ChangePassword replaces the password digest after checking oldPassword.
// The refresh slot is left as is.
func (s *UserService) ChangePassword(ctx context.Context, id models.Identity, oldPassword, newPassword string) error {
	if err := required([2]string{"oldPassword", oldPassword}, [2]string{"newPassword", newPassword}); err != nil {
		return err
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	user, err := s.repos.Users().GetByID(ctx, id.ID)
	if err != nil {
		return translate(err)
	}

	ok, err := s.hasher.Verify(ctx, oldPassword, user.PasswordHash)
	if err != nil {
		return translate(err)
	}
	if !ok {
		return common.ErrInvalidCredentials
	}

	digest, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return translate(err)
	}
	if err := s.repos.Users().UpdatePassword(ctx, user.ID, digest); err != nil {
		return translate(err)
	}

	s.logger.Info(ctx, "password changed", "user_id", user.ID)
	return nil
}

func (s *UserService) CurrentUser(ctx context.Context, id models.Identity) (*models.PublicUser, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	user, err := s.repos.Users().GetByID(ctx, id.ID)
	if err != nil {
		return nil, translate(err)
	}
	return publicUser(ctx, s.media, s.logger, user), nil
}

// UpdateAccount changes the full name and email. Another account already
// using the email fails with common.ErrConflict.
func (s *UserService) UpdateAccount(ctx context.Context, id models.Identity, fullName, email string) (*models.PublicUser, error) {
	if err := required([2]string{"fullName", fullName}, [2]string{"email", email}); err != nil {
		return nil, err
	}

	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	user, err := s.repos.Users().UpdateAccount(ctx, id.ID, strings.TrimSpace(fullName), normalize(email))
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("%w: email is already in use", common.ErrConflict)
		}
		return nil, translate(err)
	}
	return publicUser(ctx, s.media, s.logger, user), nil
}

// UpdateAvatar replaces the avatar reference. The avatar is required, so an
// empty reference fails with common.ErrInvalidInput.
func (s *UserService) UpdateAvatar(ctx context.Context, id models.Identity, ref string) (*models.PublicUser, error) {
	if err := required([2]string{"avatar", ref}); err != nil {
		return nil, err
	}
	return s.updateMedia(ctx, id, users.Avatar, strings.TrimSpace(ref))
}

// UpdateCoverImage replaces the cover image reference. An empty reference
// removes the cover.
func (s *UserService) UpdateCoverImage(ctx context.Context, id models.Identity, ref string) (*models.PublicUser, error) {
	return s.updateMedia(ctx, id, users.CoverImage, strings.TrimSpace(ref))
}

func (s *UserService) updateMedia(ctx context.Context, id models.Identity, field users.MediaField, ref string) (*models.PublicUser, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	user, err := s.repos.Users().UpdateMedia(ctx, id.ID, field, ref)
	if err != nil {
		return nil, translate(err)
	}
	return publicUser(ctx, s.media, s.logger, user), nil
}

// Authenticate verifies an access token and returns the identity it asserts.
// No store is consulted.
func (s *UserService) Authenticate(accessToken string) (models.Identity, error) {
	if accessToken == "" {
		return models.Identity{}, fmt.Errorf("%w: access token is required", common.ErrorUnauthorized)
	}
	claims, err := s.tokens.Verify(accessToken, auth.KindAccess)
	if err != nil {
		return models.Identity{}, err
	}
	return claims.Identity(), nil
}

func (s *UserService) issuePair(user *models.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(models.Identity{
		ID:       user.ID,
		UserName: user.UserName,
		Email:    user.Email,
		FullName: user.FullName,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Package services contains server-side business logic: the identity and
// session lifecycle (UserService) and channel profiles with subscriptions
// (ChannelService). Callers pass the authenticated identity explicitly.
package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/logging"
	"github.com/dmitrijs2005/videotube/internal/server/auth"
	"github.com/dmitrijs2005/videotube/internal/server/media"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/sessions"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// Deps are the collaborators shared by the services. Media and Logger may be
// nil; StoreTimeout <= 0 disables the per-operation deadline.
type Deps struct {
	Repos        repomanager.RepositoryManager
	Sessions     sessions.Repository
	Hasher       *auth.PasswordHasher
	Tokens       *auth.TokenIssuer
	Media        media.Resolver
	Logger       logging.Logger
	StoreTimeout time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Media == nil {
		d.Media = media.Passthrough{}
	}
	if d.Logger == nil {
		d.Logger = logging.NopLogger{}
	}
	if d.Sessions == nil && d.Repos != nil {
		d.Sessions = d.Repos.Sessions()
	}
	return d
}

func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// taxonomy lists the errors that already carry meaning for callers.
var taxonomy = []error{
	common.ErrInvalidInput,
	common.ErrInvalidCredentials,
	common.ErrorUnauthorized,
	common.ErrForbidden,
	common.ErrInvalidToken,
	common.ErrTokenExpired,
	common.ErrorNotFound,
	common.ErrConflict,
	common.ErrUnavailable,
	common.ErrorInternal,
}

// translate maps a collaborator failure onto the error taxonomy. Store
// timeouts and connectivity failures become common.ErrUnavailable, anything
// unknown becomes common.ErrorInternal.
func translate(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range taxonomy {
		if errors.Is(err, known) {
			return err
		}
	}
	if unavailable(err) {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}

func unavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, redis.ErrClosed) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// publicUser projects u and resolves its media references. A reference
// that cannot be resolved is returned as stored.
func publicUser(ctx context.Context, m media.Resolver, l logging.Logger, u *models.User) *models.PublicUser {
	p := u.Public()
	p.Avatar = resolve(ctx, m, l, p.Avatar)
	p.CoverImage = resolve(ctx, m, l, p.CoverImage)
	return p
}

func resolve(ctx context.Context, m media.Resolver, l logging.Logger, ref string) string {
	if ref == "" {
		return ""
	}
	url, err := m.Resolve(ctx, ref)
	if err != nil {
		l.Warn(ctx, "media reference not resolved", "error", err)
		return ref
	}
	return url
}

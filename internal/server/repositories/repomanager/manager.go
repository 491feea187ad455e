// Package repomanager vends the repositories of one storage backend and runs
// units of work against them.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/videotube/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/users"
)

// Repositories is the set of repositories visible inside a unit of work.
type Repositories interface {
	Users() users.Repository
	Subscriptions() subscriptions.Repository
}

type RepositoryManager interface {
	Repositories
	// Sessions returns the refresh slot store kept by this backend.
	Sessions() sessions.Repository
	// WithTx runs fn so that its repository calls commit or fail together.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

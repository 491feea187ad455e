package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/videotube/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Units of work
// are serialised; a failed unit is not rolled back.
type MemoryRepositoryManager struct {
	txMu          sync.Mutex
	users         *users.MemoryRepository
	subscriptions *subscriptions.MemoryRepository
	sessions      *sessions.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		subscriptions: subscriptions.NewMemoryRepository(),
		sessions:      sessions.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Subscriptions() subscriptions.Repository {
	return m.subscriptions
}

func (m *MemoryRepositoryManager) Sessions() sessions.Repository {
	return m.sessions
}

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }

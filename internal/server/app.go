// Package server wires configuration, storage backends and services into
// the running API server and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/videotube/internal/logging"
	"github.com/dmitrijs2005/videotube/internal/server/auth"
	"github.com/dmitrijs2005/videotube/internal/server/config"
	"github.com/dmitrijs2005/videotube/internal/server/httpapi"
	"github.com/dmitrijs2005/videotube/internal/server/media"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/videotube/internal/server/services"

	gs "github.com/dmitrijs2005/videotube/internal/server/grpc"
)

const healthProbeInterval = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	redis   *redis.Client
	http    *httpapi.Server
	health  *gs.HealthServer
	closers []func() error
}

// NewApp opens the configured stores, applies migrations and builds the
// HTTP and gRPC health servers.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	app := &App{config: c, logger: logger}

	checks := map[string]gs.Checker{}

	if c.SessionBackend == config.SessionBackendMemory {
		logger.Warn(ctx, "using in-memory storage; data is lost on restart")
		app.repos = repomanager.NewMemoryRepositoryManager()
	} else {
		pm, err := repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.closers = append(app.closers, pm.Close)

		mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := pm.RunMigrations(mctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
		app.repos = pm
		checks["postgres"] = pm
	}

	sessionStore := app.repos.Sessions()
	if c.SessionBackend == config.SessionBackendRedis {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		app.closers = append(app.closers, app.redis.Close)

		rs := sessions.NewRedisRepository(app.redis, c.RefreshTokenValidityDuration)
		sessionStore = rs
		checks["redis"] = rs
	}

	var resolver media.Resolver = media.Passthrough{}
	if c.S3Enabled() {
		store, err := media.NewS3Store(ctx, media.S3Config{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		resolver = store
	}

	deps := services.Deps{
		Repos:        app.repos,
		Sessions:     sessionStore,
		Hasher:       auth.NewPasswordHasher(c.BcryptCost, 0),
		Tokens:       auth.NewTokenIssuer(c.AccessTokenSecret, c.RefreshTokenSecret, c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration),
		Media:        resolver,
		Logger:       logger,
		StoreTimeout: c.StoreTimeout,
	}

	checkers := make([]httpapi.HealthChecker, 0, len(checks))
	for _, ch := range checks {
		checkers = append(checkers, ch)
	}

	app.http = httpapi.NewServer(c.HTTPAddr, logger,
		services.NewUserService(deps), services.NewChannelService(deps),
		httpapi.CookieOptions{
			Secure:     c.SecureCookies,
			AccessTTL:  c.AccessTokenValidityDuration,
			RefreshTTL: c.RefreshTokenValidityDuration,
		},
		checkers...,
	)
	app.health = gs.NewHealthServer(c.GRPCHealthAddr, logger, healthProbeInterval, checks)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or either server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	for name, run := range map[string]func(context.Context) error{
		"http": app.http.Run,
		"grpc": app.health.Run,
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}

// Close releases the stores opened by NewApp.
func (app *App) Close() error {
	var firstErr error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	app.closers = nil
	return firstErr
}

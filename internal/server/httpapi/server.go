// Package httpapi exposes the identity and channel services over a JSON
// HTTP API rooted at /api/v1.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/videotube/internal/logging"
	"github.com/dmitrijs2005/videotube/internal/server/services"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// CookieOptions control the token cookies set on login and refresh.
type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Server struct {
	address  string
	users    *services.UserService
	channels *services.ChannelService
	health   []HealthChecker
	cookies  CookieOptions
	logger   logging.Logger
}

func NewServer(address string, l logging.Logger, us *services.UserService, cs *services.ChannelService, cookies CookieOptions, health ...HealthChecker) *Server {
	return &Server{
		address:  address,
		users:    us,
		channels: cs,
		health:   health,
		cookies:  cookies,
		logger:   l.With("module", "http_server"),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/healthcheck", s.handleHealth).Methods(http.MethodGet)

	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	users.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	users.HandleFunc("/refresh-token", s.handleRefresh).Methods(http.MethodPost)
	users.Handle("/logout", s.requireAuth(s.handleLogout)).Methods(http.MethodPost)
	users.Handle("/change-password", s.requireAuth(s.handleChangePassword)).Methods(http.MethodPost)
	users.Handle("/current-user", s.requireAuth(s.handleCurrentUser)).Methods(http.MethodGet)
	users.Handle("/update-account", s.requireAuth(s.handleUpdateAccount)).Methods(http.MethodPatch)
	users.Handle("/avatar", s.requireAuth(s.handleUpdateAvatar)).Methods(http.MethodPatch)
	users.Handle("/cover-image", s.requireAuth(s.handleUpdateCoverImage)).Methods(http.MethodPatch)
	users.Handle("/c/{username}", s.optionalAuth(s.handleChannelProfile)).Methods(http.MethodGet)

	subs := api.PathPrefix("/subscriptions").Subrouter()
	subs.Handle("/c/{channelId}", s.requireAuth(s.handleToggleSubscription)).Methods(http.MethodPost)
	subs.Handle("/channel/{channelId}", s.requireAuth(s.handleChannelSubscribers)).Methods(http.MethodGet)
	subs.Handle("/s/{subscriberId}", s.requireAuth(s.handleSubscribedChannels)).Methods(http.MethodGet)

	// camelCase paths kept for clients of the earlier API
	users.Handle("/updateAccount", s.requireAuth(s.handleUpdateAccount)).Methods(http.MethodPost)
	users.Handle("/updateAvatar", s.requireAuth(s.handleUpdateAvatar)).Methods(http.MethodPatch)
	users.Handle("/updateCoverImage", s.requireAuth(s.handleUpdateCoverImage)).Methods(http.MethodPatch)
	users.Handle("/u/{username}", s.optionalAuth(s.handleChannelProfile)).Methods(http.MethodGet)
	subs.Handle("/toggle/c/{channelId}", s.requireAuth(s.handleToggleSubscription)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

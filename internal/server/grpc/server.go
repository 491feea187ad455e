// Package grpc serves the standard gRPC health service so that orchestrators
// can check the API server's backing stores.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/videotube/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Checker reports whether a dependency is reachable.
type Checker interface {
	Ping(ctx context.Context) error
}

// HealthServer publishes SERVING while every checker succeeds and
// NOT_SERVING otherwise. Each named checker is also published as its own
// service so a health checker can tell which dependency failed.
type HealthServer struct {
	address  string
	checks   map[string]Checker
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger
}

func NewHealthServer(a string, l logging.Logger, interval time.Duration, checks map[string]Checker) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HealthServer{
		address:  a,
		checks:   checks,
		interval: interval,
		timeout:  interval / 2,
		logger:   l.With("module", "grpc_server"),
	}
}

func (s *HealthServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *HealthServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	s.checkStores(ctx, hs)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gPRC server...")
				hs.Shutdown()
				srv.GracefulStop()
				return
			case <-ticker.C:
				s.checkStores(ctx, hs)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *HealthServer) checkStores(ctx context.Context, hs *health.Server) {
	overall := healthpb.HealthCheckResponse_SERVING
	for name, c := range s.checks {
		status := healthpb.HealthCheckResponse_SERVING

		pctx, cancel := context.WithTimeout(ctx, s.timeout)
		if err := c.Ping(pctx); err != nil {
			s.logger.Warn(ctx, "dependency unhealthy", "dependency", name, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = status
		}
		cancel()

		hs.SetServingStatus(name, status)
	}
	hs.SetServingStatus("", overall)
}

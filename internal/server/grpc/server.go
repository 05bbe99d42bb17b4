// Package grpc runs the backend's gRPC endpoint. It serves the standard
// grpc.health.v1 service, which clients use to decide between online and
// offline mode.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/quickqr/internal/logging"
)

// ServiceName is the health service name reported alongside the overall
// ("") status.
const ServiceName = "quickqr"

// DefaultCheckInterval is how often the dependency probe runs.
const DefaultCheckInterval = 10 * time.Second

type GRPCServer struct {
	address  string
	logger   logging.Logger
	health   *health.Server
	ping     func(ctx context.Context) error
	interval time.Duration
}

// NewGRPCServer creates a health server. ping may be nil; otherwise it is
// probed every interval and a failure flips the status to NOT_SERVING.
func NewGRPCServer(a string, l logging.Logger, ping func(ctx context.Context) error) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		health:   health.NewServer(),
		ping:     ping,
		interval: DefaultCheckInterval,
	}
}

func (s *GRPCServer) setStatus(st grpc_health_v1.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// check probes the dependencies once and publishes the result.
func (s *GRPCServer) check(ctx context.Context) {
	if s.ping == nil {
		s.setStatus(grpc_health_v1.HealthCheckResponse_SERVING)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()
	if err := s.ping(ctx); err != nil {
		s.logger.Warn(ctx, "dependency check failed", "error", err)
		s.setStatus(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.setStatus(grpc_health_v1.HealthCheckResponse_SERVING)
}

func (s *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	grpc_health_v1.RegisterHealthServer(srv, s.health)

	s.check(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}

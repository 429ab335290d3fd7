package grpcapi

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/service"
)

type Dependencies struct {
	Logger   *zap.Logger
	Registry *service.Registry

	// Ready is polled by WatchReadiness to drive the health status.
	Ready func(context.Context) error
}

// Server hosts the registry lookups and the standard health service.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	logger *zap.Logger
	ready  func(context.Context) error
}

func NewServer(d Dependencies) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.L()
	}

	s := &Server{
		health: health.NewServer(),
		logger: logger,
		ready:  d.Ready,
	}
	s.grpc = grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(logger)))

	Register(s.grpc, NewRegistryServer(d.Registry))
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.setServing(false)

	return s
}

func (s *Server) setServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// CheckReadiness probes the store once and publishes the result.
func (s *Server) CheckReadiness(ctx context.Context) {
	if s.ready == nil {
		s.setServing(true)
		return
	}
	err := s.ready(ctx)
	if err != nil {
		s.logger.Warn("grpc readiness check failed", zap.Error(err))
	}
	s.setServing(err == nil)
}

// WatchReadiness re-checks readiness every interval until ctx ends.
func (s *Server) WatchReadiness(ctx context.Context, interval time.Duration) {
	s.CheckReadiness(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckReadiness(ctx)
		}
	}
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Stop marks the server not serving and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("dur", time.Since(start)),
		)
		return resp, err
	}
}

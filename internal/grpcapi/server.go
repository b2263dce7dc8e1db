package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/BrandonDHaskell/kiosk/internal/logger"
)

// ServiceName is the health service name readers probe in addition to "".
const ServiceName = "kiosk.v1.Access"

const defaultProbeInterval = 10 * time.Second

type Config struct {
	Addr string

	// Ready is polled every ProbeInterval; the health status follows it.
	// Nil means always SERVING.
	Ready         func(ctx context.Context) error
	ProbeInterval time.Duration
}

// Server exposes grpc.health.v1.Health so readers and orchestrators can
// probe liveness without an API key.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	logger     *logger.Logger
	ready      func(ctx context.Context) error
	interval   time.Duration
}

func NewServer(cfg Config, log *logger.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	interval := cfg.ProbeInterval
	if interval <= 0 {
		interval = defaultProbeInterval
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(
				func(ctx context.Context, p any) error {
					log.Error("gRPC panic recovered", "panic", p)
					return status.Error(codes.Internal, "internal error")
				},
			)),
			NewLogging(log).HandleGRPC,
		),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	s := &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		logger:     log,
		ready:      cfg.Ready,
		interval:   interval,
	}
	s.probe(context.Background())
	return s, nil
}

func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve runs until ctx is cancelled, then drains and stops.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}

	s.logger.Info("gRPC health listening", "addr", s.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			err := <-serveErr
			if err == nil || errors.Is(err, grpc.ErrServerStopped) {
				return nil
			}
			return fmt.Errorf("serve gRPC: %w", err)
		case err := <-serveErr:
			if err == nil || errors.Is(err, grpc.ErrServerStopped) {
				return nil
			}
			return fmt.Errorf("serve gRPC: %w", err)
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

// probe sets both the overall and the named service status from Ready.
func (s *Server) probe(ctx context.Context) {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if s.ready != nil {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.ready(pctx)
		cancel()
		if err != nil {
			s.logger.Warn("store not reachable", "error", err)
			st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

package grpcapi

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/BrandonDHaskell/kiosk/internal/testutil"
)

func startServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	cfg.Addr = "127.0.0.1:0"
	srv, err := NewServer(cfg, testutil.MakeNoopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return srv
}

func healthClient(t *testing.T, addr string) grpc_health_v1.HealthClient {
	t.Helper()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return grpc_health_v1.NewHealthClient(conn)
}

func TestHealth_ServingByDefault(t *testing.T) {
	srv := startServer(t, Config{})
	client := healthClient(t, srv.Addr())

	for _, svc := range []string{"", ServiceName} {
		resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: svc})
		require.NoError(t, err)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus(), "service=%q", svc)
	}
}

func TestHealth_FollowsReadiness(t *testing.T) {
	var down atomic.Bool
	srv := startServer(t, Config{
		ProbeInterval: 20 * time.Millisecond,
		Ready: func(context.Context) error {
			if down.Load() {
				return errors.New("db unreachable")
			}
			return nil
		},
	})
	client := healthClient(t, srv.Addr())

	check := func() grpc_health_v1.HealthCheckResponse_ServingStatus {
		resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
		if err != nil {
			return grpc_health_v1.HealthCheckResponse_UNKNOWN
		}
		return resp.GetStatus()
	}

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, check())

	down.Store(true)
	assert.Eventually(t, func() bool {
		return check() == grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 20*time.Millisecond)

	down.Store(false)
	assert.Eventually(t, func() bool {
		return check() == grpc_health_v1.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)
}

func TestHealth_UnknownService(t *testing.T) {
	srv := startServer(t, Config{})
	client := healthClient(t, srv.Addr())

	_, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestNewServer_BadAddr(t *testing.T) {
	_, err := NewServer(Config{Addr: "not-an-addr"}, testutil.MakeNoopLogger())
	assert.Error(t, err)
}

func TestLogging_HandleGRPC(t *testing.T) {
	lg := NewLogging(testutil.MakeNoopLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	tests := []struct {
		name     string
		handler  grpc.UnaryHandler
		wantCode codes.Code
	}{
		{
			name:     "success path",
			handler:  func(context.Context, any) (any, error) { return "ok", nil },
			wantCode: codes.OK,
		},
		{
			name: "grpc error propagates",
			handler: func(context.Context, any) (any, error) {
				return nil, status.Error(codes.InvalidArgument, "bad input")
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "plain error passes through",
			handler:  func(context.Context, any) (any, error) { return nil, errors.New("boom") },
			wantCode: codes.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)
			if tt.wantCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "ok", resp)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BrandonDHaskell/kiosk/internal/config"
	"github.com/BrandonDHaskell/kiosk/internal/grpcapi"
	"github.com/BrandonDHaskell/kiosk/internal/httpapi"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/auth"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/service"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
	"github.com/BrandonDHaskell/kiosk/internal/logger"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.New(0).Fatal("load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal("open storage", "storage", cfg.Storage, "error", err)
	}
	defer be.close()

	// Services
	var attempts store.AttemptStore
	if cfg.AuditDeniedAttempts {
		attempts = be.attempts
	}
	engine := service.NewDecisionEngine(be.checkins)
	accessSvc := service.NewAccessService(be.members, engine, attempts, service.SystemClock{}, log)
	historySvc := service.NewHistoryService(be.checkins)
	credentialSvc := service.NewCredentialService(be.members, service.SystemClock{})

	authenticator := auth.NewAuthenticator(auth.Config{
		DeviceAPIKey: cfg.DeviceAPIKey,
		Token: auth.TokenConfig{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
			Leeway: cfg.JWT.Leeway,
		},
	})
	if cfg.DeviceAPIKey == "" {
		log.Warn("KIOSK_DEVICE_API_KEY is empty; reader scans will be rejected")
	}
	if cfg.JWT.Secret == "" {
		log.Warn("KIOSK_JWT_SECRET is empty; administrator tokens will be rejected")
	}

	// Background jobs
	var pruner *service.AttemptPruner
	if cfg.AuditDeniedAttempts {
		pruner = service.NewAttemptPruner(be.attempts, service.PrunerConfig{
			RetentionDays: cfg.AttemptRetentionDays,
			IntervalHours: cfg.PruneIntervalHours,
		}, log)
		pruner.Start(ctx)
	}

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:            log,
		Addr:              cfg.HTTPAddr,
		RequestTimeout:    cfg.RequestTimeout,
		Authenticator:     authenticator,
		AccessService:     accessSvc,
		HistoryService:    historySvc,
		CredentialService: credentialSvc,
		Ready:             be.ready,
	})

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr, "env", cfg.Env, "storage", cfg.Storage)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
			stop()
		}
	}()

	// gRPC health
	grpcDone := make(chan struct{})
	healthSrv, err := grpcapi.NewServer(grpcapi.Config{Addr: cfg.GRPCAddr, Ready: be.ready}, log)
	if err != nil {
		log.Error("grpc health server", "error", err)
		stop()
		close(grpcDone)
	} else {
		go func() {
			defer close(grpcDone)
			if err := healthSrv.Serve(ctx); err != nil {
				log.Error("grpc server error", "error", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	<-grpcDone
	if pruner != nil {
		pruner.Stop()
	}
}

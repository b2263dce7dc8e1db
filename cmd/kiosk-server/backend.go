package main

import (
	"context"
	"fmt"

	"github.com/BrandonDHaskell/kiosk/internal/config"
	"github.com/BrandonDHaskell/kiosk/internal/db"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store/memory"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store/postgres"
	sqlitestore "github.com/BrandonDHaskell/kiosk/internal/kiosk/store/sqlite"
	"github.com/BrandonDHaskell/kiosk/internal/logger"
)

const devCredential = "dev-member-qr"

// backend bundles the stores for the configured storage engine.
type backend struct {
	members  store.MemberStore
	checkins store.CheckinStore
	attempts store.AttemptStore
	ready    func(ctx context.Context) error
	close    func()
}

func openBackend(ctx context.Context, cfg config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.Storage {
	case "memory":
		return openMemory(ctx, cfg, log)
	case "sqlite":
		return openSQLite(ctx, cfg, log)
	case "postgres":
		return openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func openMemory(ctx context.Context, cfg config.Config, log *logger.Logger) (*backend, error) {
	members := memory.NewMemberStore()
	if cfg.Env == "dev" {
		if err := members.Create(ctx, store.Member{
			ID:         db.DevMemberID,
			FirstName:  "Dev",
			LastName:   "Member",
			Email:      "dev@kiosk.local",
			EmailValid: true,
			QRUUID:     devCredential,
		}); err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
		log.Info("dev member seeded", "qr_uuid", devCredential)
	}

	return &backend{
		members:  members,
		checkins: memory.NewCheckinStore(members),
		attempts: memory.NewAttemptStore(),
		close:    func() {},
	}, nil
}

func openSQLite(ctx context.Context, cfg config.Config, log *logger.Logger) (*backend, error) {
	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return nil, err
	}

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, conn, db.SeedDevOptions{Credential: devCredential}); err != nil {
			_ = conn.Close()
			return nil, err
		}
		log.Info("dev member seeded", "qr_uuid", devCredential)
	}

	writer := db.NewWorker(conn)
	return &backend{
		members:  sqlitestore.NewMemberStore(conn, writer),
		checkins: sqlitestore.NewCheckinStore(conn, writer),
		attempts: sqlitestore.NewAttemptStore(conn, writer),
		ready:    conn.PingContext,
		close: func() {
			writer.Close()
			_ = conn.Close()
		},
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*backend, error) {
	conn, err := postgres.NewConnection(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	return &backend{
		members:  postgres.NewMemberStore(conn),
		checkins: postgres.NewCheckinStore(conn),
		attempts: postgres.NewAttemptStore(conn),
		ready:    conn.Ping,
		close:    func() { _ = conn.Close() },
	}, nil
}

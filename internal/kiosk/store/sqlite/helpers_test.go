package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/BrandonDHaskell/kiosk/internal/db"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

// openTestDB returns an in-memory SQLite connection with the same PRAGMAs
// and schema as production.  The connection is closed automatically when the
// test finishes.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Shared cache keeps the in-memory database alive while the pool holds
	// its single connection.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf(
		"file:test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		name,
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("openTestDB: sql.Open: %v", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: ping: %v", err)
	}

	if err := db.Migrate(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: migrate: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// newTestWriter returns a db.Worker backed by conn.  The worker is closed
// automatically when the test finishes.
func newTestWriter(t *testing.T, conn *sql.DB) *db.Worker {
	t.Helper()

	w := db.NewWorker(conn)
	t.Cleanup(func() { w.Close() })
	return w
}

// seedMember inserts a member row directly, bypassing the store.
func seedMember(t *testing.T, conn *sql.DB, m store.Member) {
	t.Helper()

	nowMs := time.Now().UTC().UnixMilli()
	blocked := 0
	if m.Blocked {
		blocked = 1
	}
	emailValid := 0
	if m.EmailValid {
		emailValid = 1
	}
	_, err := conn.ExecContext(context.Background(), `
INSERT INTO members(member_id, first_name, last_name, email, email_valid, blocked, qr_uuid, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		m.ID, m.FirstName, m.LastName, m.Email, emailValid, blocked, m.QRUUID, nowMs, nowMs,
	)
	if err != nil {
		t.Fatalf("seedMember(%s): %v", m.ID, err)
	}
}

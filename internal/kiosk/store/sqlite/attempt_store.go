package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/kiosk/internal/db"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

type AttemptStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAttemptStore(db *sql.DB, writer *dbpkg.Worker) *AttemptStore {
	return &AttemptStore{db: db, writer: writer}
}

func (s *AttemptStore) RecordAttempt(ctx context.Context, rec store.AttemptRecord) error {
	if rec.AttemptedAt.IsZero() {
		rec.AttemptedAt = time.Now().UTC()
	}

	var memberID any
	if rec.MemberID != "" {
		memberID = rec.MemberID
	}

	// Only a full SHA-256 digest is stored; anything else is dropped.
	var credHash any
	if len(rec.CredentialHash) == 32 {
		credHash = rec.CredentialHash
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO access_attempts(member_id, credential_hash, source, reason, attempted_at_ms)
VALUES (?, ?, ?, ?, ?);
`,
			memberID, credHash, string(rec.Source), rec.Reason, rec.AttemptedAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("RecordAttempt insert: %w", err)
		}
		return nil
	})
}

func (s *AttemptStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM access_attempts WHERE attempted_at_ms < ?;
`, cutoff.UTC().UnixMilli())
		if err != nil {
			return fmt.Errorf("PruneOlderThan delete: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}

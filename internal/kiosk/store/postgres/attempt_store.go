package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

type AttemptStore struct {
	db *Connection
}

func NewAttemptStore(db *Connection) *AttemptStore {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) RecordAttempt(ctx context.Context, rec store.AttemptRecord) error {
	if rec.AttemptedAt.IsZero() {
		rec.AttemptedAt = time.Now().UTC()
	}

	var memberID *string
	if rec.MemberID != "" {
		memberID = &rec.MemberID
	}
	var credHash []byte
	if len(rec.CredentialHash) == 32 {
		credHash = rec.CredentialHash
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO access_attempts (member_id, credential_hash, source, reason, attempted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, memberID, credHash, string(rec.Source), rec.Reason, rec.AttemptedAt.UTC())
	if err != nil {
		return fmt.Errorf("RecordAttempt insert: %w", err)
	}
	return nil
}

func (s *AttemptStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := s.db.Exec(ctx, `DELETE FROM access_attempts WHERE attempted_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("PruneOlderThan delete: %w", err)
	}
	return ct.RowsAffected(), nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

// AttemptStore is an in-memory log of denied scans.
// It is intended for use in tests and dev environments.
type AttemptStore struct {
	mu       sync.Mutex
	attempts []store.AttemptRecord
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{}
}

func (s *AttemptStore) RecordAttempt(_ context.Context, rec store.AttemptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.AttemptedAt.IsZero() {
		rec.AttemptedAt = time.Now().UTC()
	}
	s.attempts = append(s.attempts, rec)
	return nil
}

func (s *AttemptStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.attempts[:0]
	var deleted int64
	for _, a := range s.attempts {
		if a.AttemptedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	s.attempts = kept
	return deleted, nil
}

// Attempts returns a copy of all recorded attempts.  Test-only helper.
func (s *AttemptStore) Attempts() []store.AttemptRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.AttemptRecord, len(s.attempts))
	copy(out, s.attempts)
	return out
}

package store

import (
	"context"
	"time"
)

// AttemptRecord captures a denied scan for the optional attempts audit log.
// It is kept apart from the check-in ledger, which only holds admissions.
type AttemptRecord struct {
	MemberID       string // empty when the credential did not resolve
	CredentialHash []byte // SHA-256 of the presented credential
	Source         Source
	Reason         string
	AttemptedAt    time.Time
}

// AttemptStore persists denied scans and prunes them by age.
type AttemptStore interface {
	RecordAttempt(ctx context.Context, rec AttemptRecord) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

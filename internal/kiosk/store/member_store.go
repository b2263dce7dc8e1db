package store

import (
	"context"
	"time"
)

// Member is the persistence shape of a kiosk member.  QRUUID is the opaque
// credential printed in the member's QR code; exactly one value is valid at
// any time and rotating it invalidates the previous one.
type Member struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string // trimmed + lower-cased
	EmailValid bool
	Blocked    bool
	QRUUID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MemberStore resolves members by their unique keys.  Lookups that match
// nothing return ErrNotFound.
type MemberStore interface {
	Create(ctx context.Context, m Member) error
	FindByID(ctx context.Context, id string) (Member, error)
	FindByCredential(ctx context.Context, credential string) (Member, error)
	FindByEmail(ctx context.Context, email string) (Member, error)

	// RotateCredential replaces the member's credential in a single atomic
	// write.  The previous value stops resolving as soon as it returns.
	RotateCredential(ctx context.Context, id string, credential string, at time.Time) error
}

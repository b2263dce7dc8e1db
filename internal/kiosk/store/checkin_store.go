package store

import (
	"context"
	"time"
)

// Source identifies how the caller that submitted a scan was authenticated.
type Source string

const (
	SourceDevice         Source = "device"
	SourceAdministrative Source = "administrative"
)

// CheckinRecord is one immutable ledger entry, written once per admission.
type CheckinRecord struct {
	ID              string
	MemberID        string
	CheckinTime     time.Time
	Source          Source
	PassbackWarning bool
}

// CheckinWithMember is a ledger entry joined with the member's current data.
// Member is nil when the referenced member no longer resolves.
type CheckinWithMember struct {
	CheckinRecord
	Member *Member
}

// CheckinStore is the append-only check-in ledger.
type CheckinStore interface {
	Append(ctx context.Context, rec CheckinRecord) error

	// Latest returns the member's most recent check-in, or ok=false when the
	// member has never checked in.
	Latest(ctx context.Context, memberID string) (rec CheckinRecord, ok bool, err error)

	Count(ctx context.Context) (int64, error)

	// ListWithMembers returns records newest first (ties broken by id,
	// descending) with left-joined member data.
	ListWithMembers(ctx context.Context, offset, limit int) ([]CheckinWithMember, error)
}

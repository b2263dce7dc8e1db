package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

// CheckinStore is an in-memory append-only check-in ledger.
// It is intended for use in tests and dev environments.
type CheckinStore struct {
	mu      sync.Mutex
	members *MemberStore
	records []store.CheckinRecord
}

// NewCheckinStore returns a ledger that joins against members.  members may
// be nil, in which case every listed record has no member attached.
func NewCheckinStore(members *MemberStore) *CheckinStore {
	return &CheckinStore{members: members}
}

func (s *CheckinStore) Append(_ context.Context, rec store.CheckinRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *CheckinStore) Latest(_ context.Context, memberID string) (store.CheckinRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		latest store.CheckinRecord
		found  bool
	)
	for _, r := range s.records {
		if r.MemberID != memberID {
			continue
		}
		if !found || newer(r, latest) {
			latest = r
			found = true
		}
	}
	return latest, found, nil
}

func (s *CheckinStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.records)), nil
}

func (s *CheckinStore) ListWithMembers(_ context.Context, offset, limit int) ([]store.CheckinWithMember, error) {
	s.mu.Lock()
	sorted := make([]store.CheckinRecord, len(s.records))
	copy(sorted, s.records)
	s.mu.Unlock()

	sort.Slice(sorted, func(i, j int) bool { return newer(sorted[i], sorted[j]) })

	if offset >= len(sorted) || limit <= 0 {
		return []store.CheckinWithMember{}, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}

	out := make([]store.CheckinWithMember, 0, end-offset)
	for _, r := range sorted[offset:end] {
		row := store.CheckinWithMember{CheckinRecord: r}
		if s.members != nil {
			if m, ok := s.members.get(r.MemberID); ok {
				row.Member = &m
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// Records returns a copy of all appended records.  Test-only helper.
func (s *CheckinStore) Records() []store.CheckinRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.CheckinRecord, len(s.records))
	copy(out, s.records)
	return out
}

func newer(a, b store.CheckinRecord) bool {
	if !a.CheckinTime.Equal(b.CheckinTime) {
		return a.CheckinTime.After(b.CheckinTime)
	}
	return a.ID > b.ID
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/auth"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/service"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store/memory"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/types"
	"github.com/BrandonDHaskell/kiosk/internal/testutil"
)

var (
	testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	deviceCaller = auth.Result{Kind: auth.Device}
	adminCaller  = auth.Result{Kind: auth.Administrative, Subject: "admin@example.org"}
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixture struct {
	members  *memory.MemberStore
	checkins *memory.CheckinStore
	attempts *memory.AttemptStore
	engine   *service.DecisionEngine
	access   *service.AccessService
}

// newFixture builds the pipeline on in-memory stores.  audit enables the
// denied-attempt log.
func newFixture(t *testing.T, audit bool) *fixture {
	t.Helper()

	f := &fixture{
		members:  memory.NewMemberStore(),
		attempts: memory.NewAttemptStore(),
	}
	f.checkins = memory.NewCheckinStore(f.members)
	f.engine = service.NewDecisionEngine(f.checkins)

	var attempts store.AttemptStore
	if audit {
		attempts = f.attempts
	}
	f.access = service.NewAccessService(f.members, f.engine, attempts, fixedClock{testNow}, testutil.MakeNoopLogger())
	return f
}

func (f *fixture) addMember(t *testing.T, m store.Member) store.Member {
	t.Helper()
	require.NoError(t, f.members.Create(context.Background(), m))
	return m
}

func (f *fixture) addCheckin(t *testing.T, memberID string, at time.Time) {
	t.Helper()
	require.NoError(t, f.checkins.Append(context.Background(), store.CheckinRecord{
		ID:          "seed-" + at.Format(time.RFC3339Nano),
		MemberID:    memberID,
		CheckinTime: at,
		Source:      store.SourceDevice,
	}))
}

func memberM() store.Member {
	return store.Member{
		ID:         "4b8c1f0e-8a47-4c1e-9d0b-6f1c2e3a4b5c",
		FirstName:  "Mara",
		LastName:   "Quinn",
		Email:      "mara@example.org",
		EmailValid: true,
		QRUUID:     "abc-123",
	}
}

func validateReq(q string) types.ValidateRequest {
	return types.ValidateRequest{QRUUID: q}
}

package service_test

import (
	"context"
	"crypto/sha256"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/auth"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/service"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store/memory"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/types"
	"github.com/BrandonDHaskell/kiosk/internal/testutil"
)

// ── Scenarios ──

func TestValidate_RecentScanWarns(t *testing.T) {
	f := newFixture(t, false)
	m := f.addMember(t, memberM())
	f.addCheckin(t, m.ID, testNow.Add(-2*time.Minute))

	resp, err := f.access.Validate(context.Background(), deviceCaller, types.ValidateRequest{QRUUID: "abc-123"})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "Access Granted", resp.Message)
	require.NotNil(t, resp.Warning)
	assert.Contains(t, *resp.Warning, "2 minutes ago")
	assert.Equal(t, types.MemberSummary{
		FirstName:  "Mara",
		LastName:   "Quinn",
		Email:      "mara@example.org",
		EmailValid: true,
		ID:         m.ID,
	}, resp.Member)

	recs := f.checkins.Records()
	require.Len(t, recs, 2)
	assert.True(t, recs[1].PassbackWarning)
	assert.Equal(t, testNow, recs[1].CheckinTime)
}

func TestValidate_TrimsCredential(t *testing.T) {
	f := newFixture(t, false)
	f.addMember(t, memberM())

	resp, err := f.access.Validate(context.Background(), deviceCaller, types.ValidateRequest{QRUUID: "  abc-123\n"})
	require.NoError(t, err)
	assert.Nil(t, resp.Warning)
}

func TestValidate_UnknownCredential(t *testing.T) {
	f := newFixture(t, false)
	f.addMember(t, memberM())

	_, err := f.access.Validate(context.Background(), deviceCaller, types.ValidateRequest{QRUUID: "not-real"})
	assert.ErrorIs(t, err, service.ErrMemberNotFound)
	assert.Len(t, f.checkins.Records(), 0)
}

func TestValidate_CredentialIsCaseSensitive(t *testing.T) {
	f := newFixture(t, false)
	f.addMember(t, memberM())

	_, err := f.access.Validate(context.Background(), deviceCaller, types.ValidateRequest{QRUUID: "ABC-123"})
	assert.ErrorIs(t, err, service.ErrMemberNotFound)
}

func TestValidate_BlankCredential(t *testing.T) {
	f := newFixture(t, false)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := f.access.Validate(context.Background(), deviceCaller, types.ValidateRequest{QRUUID: q})
		assert.ErrorIs(t, err, service.ErrCredentialRequired, "q=%q", q)
	}
}

func TestValidate_Blocked(t *testing.T) {
	f := newFixture(t, false)
	m := memberM()
	m.Blocked = true
	f.addMember(t, m)

	_, err := f.access.Validate(context.Background(), adminCaller, types.ValidateRequest{QRUUID: "abc-123"})
	assert.ErrorIs(t, err, service.ErrMemberBlocked)
	assert.Empty(t, f.checkins.Records())
}

func TestValidate_Unauthenticated(t *testing.T) {
	f := newFixture(t, false)
	f.addMember(t, memberM())

	_, err := f.access.Validate(context.Background(), auth.Result{}, types.ValidateRequest{QRUUID: "abc-123"})
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

// ── Denied-attempt audit ──

func TestValidate_AuditDisabledByDefault(t *testing.T) {
	f := newFixture(t, false)

	_, _ = f.access.Validate(context.Background(), deviceCaller, types.ValidateRequest{QRUUID: "not-real"})
	assert.Empty(t, f.attempts.Attempts())
}

func TestValidate_AuditRecordsDenials(t *testing.T) {
	f := newFixture(t, true)
	m := memberM()
	m.Blocked = true
	f.addMember(t, m)

	_, err := f.access.Validate(context.Background(), deviceCaller, types.ValidateRequest{QRUUID: "not-real"})
	require.ErrorIs(t, err, service.ErrMemberNotFound)
	_, err = f.access.Validate(context.Background(), adminCaller, types.ValidateRequest{QRUUID: "abc-123"})
	require.ErrorIs(t, err, service.ErrMemberBlocked)

	got := f.attempts.Attempts()
	require.Len(t, got, 2)

	notReal := sha256.Sum256([]byte("not-real"))
	assert.Empty(t, got[0].MemberID)
	assert.Equal(t, notReal[:], got[0].CredentialHash)
	assert.Equal(t, service.ReasonNotFound, got[0].Reason)
	assert.Equal(t, store.SourceDevice, got[0].Source)

	assert.Equal(t, m.ID, got[1].MemberID)
	assert.Equal(t, service.ReasonBlocked, got[1].Reason)
	assert.Equal(t, store.SourceAdministrative, got[1].Source)
	assert.Equal(t, testNow, got[1].AttemptedAt)

	assert.Empty(t, f.checkins.Records(), "denials never reach the ledger")
}

func TestValidate_AdmissionNotAudited(t *testing.T) {
	f := newFixture(t, true)
	f.addMember(t, memberM())

	_, err := f.access.Validate(context.Background(), deviceCaller, types.ValidateRequest{QRUUID: "abc-123"})
	require.NoError(t, err)
	assert.Empty(t, f.attempts.Attempts())
}

// ── Store failures ──

type failingMembers struct {
	*memory.MemberStore
	err error
}

func (s failingMembers) FindByCredential(context.Context, string) (store.Member, error) {
	return store.Member{}, s.err
}

type failingCheckins struct {
	*memory.CheckinStore
	latestErr, appendErr error
}

func (s failingCheckins) Latest(ctx context.Context, id string) (store.CheckinRecord, bool, error) {
	if s.latestErr != nil {
		return store.CheckinRecord{}, false, s.latestErr
	}
	return s.CheckinStore.Latest(ctx, id)
}

func (s failingCheckins) Append(ctx context.Context, rec store.CheckinRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	return s.CheckinStore.Append(ctx, rec)
}

func TestValidate_StoreErrorsAreInternal(t *testing.T) {
	boom := errors.New("connection refused")
	members := memory.NewMemberStore()
	require.NoError(t, members.Create(context.Background(), memberM()))
	checkins := memory.NewCheckinStore(members)

	tests := []struct {
		name    string
		members store.MemberStore
		engine  *service.DecisionEngine
	}{
		{"lookup", failingMembers{members, boom}, service.NewDecisionEngine(checkins)},
		{"latest", members, service.NewDecisionEngine(failingCheckins{CheckinStore: checkins, latestErr: boom})},
		{"append", members, service.NewDecisionEngine(failingCheckins{CheckinStore: checkins, appendErr: boom})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewAccessService(tt.members, tt.engine, nil, fixedClock{testNow}, testutil.MakeNoopLogger())
			_, err := svc.Validate(context.Background(), deviceCaller, types.ValidateRequest{QRUUID: "abc-123"})
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.NotErrorIs(t, err, auth.ErrInvalidToken)
			assert.NotErrorIs(t, err, service.ErrMemberNotFound)
		})
	}
}

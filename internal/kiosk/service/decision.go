package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/auth"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

// PassbackWindow is the cooldown inside which a repeat admission carries a
// warning.  The warning never denies entry.
const PassbackWindow = 5 * time.Minute

const (
	ReasonBlocked  = "blocked"
	ReasonNotFound = "not_found"

	defaultAppendTimeout = 5 * time.Second
)

// Verdict is the engine's decision for one scan.  Record is only set on
// admission.
type Verdict struct {
	Admitted bool
	Reason   string
	Warning  *string
	Record   store.CheckinRecord
}

// DecisionEngine decides ADMIT/DENY for a resolved member and appends the
// ledger entry for every admission.
type DecisionEngine struct {
	checkins      store.CheckinStore
	newID         func() string
	appendTimeout time.Duration
}

func NewDecisionEngine(checkins store.CheckinStore) *DecisionEngine {
	return &DecisionEngine{
		checkins:      checkins,
		newID:         uuid.NewString,
		appendTimeout: defaultAppendTimeout,
	}
}

// Decide admits any unblocked member.  The latest-check-in read and the
// append are not atomic: two concurrent scans of the same member may both
// miss each other's warning.
func (e *DecisionEngine) Decide(ctx context.Context, m store.Member, caller auth.Result, now time.Time) (Verdict, error) {
	if !caller.Authenticated() {
		return Verdict{}, ErrUnauthenticated
	}
	if m.Blocked {
		return Verdict{Reason: ReasonBlocked}, nil
	}

	last, ok, err := e.checkins.Latest(ctx, m.ID)
	if err != nil {
		return Verdict{}, fmt.Errorf("Decide latest: %w", err)
	}

	var warning *string
	if ok {
		warning = passbackWarning(last.CheckinTime, now)
	}

	rec := store.CheckinRecord{
		ID:              e.newID(),
		MemberID:        m.ID,
		CheckinTime:     now.UTC(),
		Source:          caller.Source(),
		PassbackWarning: warning != nil,
	}

	// Detached from the request so a caller hanging up mid-scan cannot
	// abort the write halfway.
	appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.appendTimeout)
	defer cancel()
	if err := e.checkins.Append(appendCtx, rec); err != nil {
		return Verdict{}, fmt.Errorf("Decide append: %w", err)
	}

	return Verdict{Admitted: true, Warning: warning, Record: rec}, nil
}

// passbackWarning returns the advisory text when now falls strictly inside
// the window after last.  Elapsed time is compared in whole milliseconds;
// a last scan in the future counts as zero elapsed.
func passbackWarning(last, now time.Time) *string {
	diffMs := now.Sub(last).Milliseconds()
	if diffMs < 0 {
		diffMs = 0
	}
	if diffMs >= PassbackWindow.Milliseconds() {
		return nil
	}

	minutes := math.Round(float64(diffMs) / 60000)
	msg := fmt.Sprintf("Passback Warning: Last scan was %d minutes ago.", int64(minutes))
	return &msg
}

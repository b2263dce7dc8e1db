package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/auth"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/types"
	"github.com/BrandonDHaskell/kiosk/internal/logger"
)

const MessageAccessGranted = "Access Granted"

// AccessService runs the validation pipeline for one scan: credential
// lookup, decision, ledger append.  Authentication happens before it is
// called.
type AccessService struct {
	members  store.MemberStore
	engine   *DecisionEngine
	attempts store.AttemptStore
	clock    Clock
	logger   *logger.Logger
}

// NewAccessService wires the pipeline.  attempts may be nil, which disables
// the denied-attempt audit log.
func NewAccessService(
	members store.MemberStore,
	engine *DecisionEngine,
	attempts store.AttemptStore,
	clock Clock,
	log *logger.Logger,
) *AccessService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AccessService{
		members:  members,
		engine:   engine,
		attempts: attempts,
		clock:    clock,
		logger:   log,
	}
}

func (s *AccessService) Validate(ctx context.Context, caller auth.Result, req types.ValidateRequest) (types.ValidateResponse, error) {
	if !caller.Authenticated() {
		return types.ValidateResponse{}, ErrUnauthenticated
	}

	credential := strings.TrimSpace(req.QRUUID)
	if credential == "" {
		return types.ValidateResponse{}, ErrCredentialRequired
	}

	m, err := s.members.FindByCredential(ctx, credential)
	if errors.Is(err, store.ErrNotFound) {
		s.recordDenied(ctx, "", credential, caller, ReasonNotFound)
		return types.ValidateResponse{}, ErrMemberNotFound
	}
	if err != nil {
		return types.ValidateResponse{}, fmt.Errorf("Validate lookup: %w", err)
	}

	v, err := s.engine.Decide(ctx, m, caller, s.clock.Now())
	if err != nil {
		return types.ValidateResponse{}, err
	}
	if !v.Admitted {
		s.recordDenied(ctx, m.ID, credential, caller, v.Reason)
		return types.ValidateResponse{}, ErrMemberBlocked
	}

	return types.ValidateResponse{
		Success: true,
		Message: MessageAccessGranted,
		Warning: v.Warning,
		Member:  memberSummary(m),
	}, nil
}

// recordDenied appends to the attempts log when it is enabled.  Failures
// are logged, never returned: the caller still gets its denial.
func (s *AccessService) recordDenied(ctx context.Context, memberID, credential string, caller auth.Result, reason string) {
	if s.attempts == nil {
		return
	}

	hash := sha256.Sum256([]byte(credential))
	rec := store.AttemptRecord{
		MemberID:       memberID,
		CredentialHash: hash[:],
		Source:         caller.Source(),
		Reason:         reason,
		AttemptedAt:    s.clock.Now(),
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.attempts.RecordAttempt(writeCtx, rec); err != nil && s.logger != nil {
		s.logger.Warn("record denied attempt", "reason", reason, "error", err)
	}
}

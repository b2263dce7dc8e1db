package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/types"
)

const MessageCredentialRotated = "QR_CODE_RESET_SUCCESS"

const maxRotateAttempts = 3

// CredentialService covers the administrative member operations: credential
// rotation and lookup by email.
type CredentialService struct {
	members       store.MemberStore
	clock         Clock
	newCredential func() string
}

func NewCredentialService(members store.MemberStore, clock Clock) *CredentialService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &CredentialService{members: members, clock: clock, newCredential: uuid.NewString}
}

// Rotate issues a fresh credential for the member.  The old one stops
// resolving immediately.
func (s *CredentialService) Rotate(ctx context.Context, memberID string) (types.RotateResponse, error) {
	memberID = strings.TrimSpace(memberID)
	if _, err := uuid.Parse(memberID); err != nil {
		return types.RotateResponse{}, ErrInvalidMemberID
	}

	var err error
	for range maxRotateAttempts {
		credential := s.newCredential()
		err = s.members.RotateCredential(ctx, memberID, credential, s.clock.Now())
		switch {
		case err == nil:
			return types.RotateResponse{
				Success: true,
				Message: MessageCredentialRotated,
				QRUUID:  credential,
			}, nil
		case errors.Is(err, store.ErrNotFound):
			return types.RotateResponse{}, ErrMemberNotFound
		case errors.Is(err, store.ErrCredentialTaken):
			continue
		default:
			return types.RotateResponse{}, fmt.Errorf("Rotate: %w", err)
		}
	}
	return types.RotateResponse{}, fmt.Errorf("Rotate: %w", err)
}

func (s *CredentialService) FindByEmail(ctx context.Context, email string) (types.LookupResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return types.LookupResponse{}, ErrEmailRequired
	}

	m, err := s.members.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return types.LookupResponse{}, ErrMemberNotFound
	}
	if err != nil {
		return types.LookupResponse{}, fmt.Errorf("FindByEmail: %w", err)
	}
	return types.LookupResponse{Success: true, Member: memberSummary(m)}, nil
}

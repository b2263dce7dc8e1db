package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

// MemberStore keeps members in maps keyed by id, credential and email.
type MemberStore struct {
	mu           sync.RWMutex
	byID         map[string]store.Member
	byCredential map[string]string
	byEmail      map[string]string
}

func NewMemberStore() *MemberStore {
	return &MemberStore{
		byID:         make(map[string]store.Member),
		byCredential: make(map[string]string),
		byEmail:      make(map[string]string),
	}
}

func (s *MemberStore) Create(_ context.Context, m store.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[m.Email]; ok {
		return store.ErrEmailTaken
	}
	if _, ok := s.byCredential[m.QRUUID]; ok {
		return store.ErrCredentialTaken
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}

	s.byID[m.ID] = m
	s.byCredential[m.QRUUID] = m.ID
	s.byEmail[m.Email] = m.ID
	return nil
}

func (s *MemberStore) FindByID(_ context.Context, id string) (store.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return store.Member{}, store.ErrNotFound
	}
	return m, nil
}

func (s *MemberStore) FindByCredential(_ context.Context, credential string) (store.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byCredential[credential]
	if !ok {
		return store.Member{}, store.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *MemberStore) FindByEmail(_ context.Context, email string) (store.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return store.Member{}, store.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *MemberStore) RotateCredential(_ context.Context, id string, credential string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	if owner, taken := s.byCredential[credential]; taken && owner != id {
		return store.ErrCredentialTaken
	}

	delete(s.byCredential, m.QRUUID)
	m.QRUUID = credential
	m.UpdatedAt = at
	s.byID[id] = m
	s.byCredential[credential] = id
	return nil
}

// get is used by the check-in store's join.
func (s *MemberStore) get(id string) (store.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	return m, ok
}

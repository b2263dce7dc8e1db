package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

const memberColumns = `member_id, first_name, last_name, email, email_valid, blocked, qr_uuid, created_at, updated_at`

type MemberStore struct {
	db *Connection
}

func NewMemberStore(db *Connection) *MemberStore {
	return &MemberStore{db: db}
}

func (s *MemberStore) Create(ctx context.Context, m store.Member) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		m.ID, m.FirstName, m.LastName, m.Email, m.EmailValid, m.Blocked,
		m.QRUUID, m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("Create insert: %w", mapUnique(err))
	}
	return nil
}

func (s *MemberStore) FindByID(ctx context.Context, id string) (store.Member, error) {
	return s.findOne(ctx, "FindByID", `member_id = $1`, id)
}

func (s *MemberStore) FindByCredential(ctx context.Context, credential string) (store.Member, error) {
	return s.findOne(ctx, "FindByCredential", `qr_uuid = $1`, credential)
}

func (s *MemberStore) FindByEmail(ctx context.Context, email string) (store.Member, error) {
	return s.findOne(ctx, "FindByEmail", `email = $1`, email)
}

func (s *MemberStore) RotateCredential(ctx context.Context, id string, credential string, at time.Time) error {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	ct, err := s.db.Exec(ctx, `
		UPDATE members
		SET qr_uuid = $2,
		    updated_at = $3
		WHERE member_id = $1
	`, id, credential, at.UTC())
	if err != nil {
		return fmt.Errorf("RotateCredential update: %w", mapUnique(err))
	}
	if ct.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *MemberStore) findOne(ctx context.Context, op, where string, arg any) (store.Member, error) {
	var m store.Member
	err := s.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE `+where, arg).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.EmailValid, &m.Blocked,
		&m.QRUUID, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Member{}, store.ErrNotFound
	}
	if err != nil {
		return store.Member{}, fmt.Errorf("%s query: %w", op, err)
	}
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, nil
}

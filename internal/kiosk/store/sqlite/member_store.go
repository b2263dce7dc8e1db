package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/BrandonDHaskell/kiosk/internal/db"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

const memberColumns = `member_id, first_name, last_name, email, email_valid, blocked, qr_uuid, created_at_ms, updated_at_ms`

type MemberStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewMemberStore(db *sql.DB, writer *dbpkg.Worker) *MemberStore {
	return &MemberStore{db: db, writer: writer}
}

func (s *MemberStore) Create(ctx context.Context, m store.Member) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO members(`+memberColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			m.ID, m.FirstName, m.LastName, m.Email, boolToInt(m.EmailValid), boolToInt(m.Blocked),
			m.QRUUID, m.CreatedAt.UTC().UnixMilli(), m.UpdatedAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("Create insert: %w", uniqueViolation(err))
		}
		return nil
	})
}

func (s *MemberStore) FindByID(ctx context.Context, id string) (store.Member, error) {
	return s.findOne(ctx, "FindByID", `member_id = ?`, id)
}

// FindByCredential is an exact, case-sensitive match on qr_uuid.
func (s *MemberStore) FindByCredential(ctx context.Context, credential string) (store.Member, error) {
	return s.findOne(ctx, "FindByCredential", `qr_uuid = ?`, credential)
}

func (s *MemberStore) FindByEmail(ctx context.Context, email string) (store.Member, error) {
	return s.findOne(ctx, "FindByEmail", `email = ?`, email)
}

func (s *MemberStore) RotateCredential(ctx context.Context, id string, credential string, at time.Time) error {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE members
SET qr_uuid       = ?,
    updated_at_ms = ?
WHERE member_id = ?;
`, credential, at.UTC().UnixMilli(), id)
		if err != nil {
			return fmt.Errorf("RotateCredential update: %w", uniqueViolation(err))
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("RotateCredential rows: %w", err)
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *MemberStore) findOne(ctx context.Context, op, where string, arg any) (store.Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE `+where+`;`, arg)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Member{}, store.ErrNotFound
	}
	if err != nil {
		return store.Member{}, fmt.Errorf("%s query: %w", op, err)
	}
	return m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (store.Member, error) {
	var (
		m                    store.Member
		emailValid, blocked  int
		createdMs, updatedMs int64
	)
	if err := row.Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &emailValid, &blocked,
		&m.QRUUID, &createdMs, &updatedMs,
	); err != nil {
		return store.Member{}, err
	}
	m.EmailValid = emailValid == 1
	m.Blocked = blocked == 1
	m.CreatedAt = time.UnixMilli(createdMs).UTC()
	m.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return m, nil
}

// uniqueViolation maps SQLite UNIQUE failures on the member keys to the
// store's conflict errors.  modernc reports them as
// "UNIQUE constraint failed: members.email".
func uniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	switch {
	case strings.Contains(msg, "members.email"):
		return fmt.Errorf("%w: %v", store.ErrEmailTaken, err)
	case strings.Contains(msg, "members.qr_uuid"):
		return fmt.Errorf("%w: %v", store.ErrCredentialTaken, err)
	}
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

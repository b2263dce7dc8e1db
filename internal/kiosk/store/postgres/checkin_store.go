package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

type CheckinStore struct {
	db *Connection
}

func NewCheckinStore(db *Connection) *CheckinStore {
	return &CheckinStore{db: db}
}

func (s *CheckinStore) Append(ctx context.Context, rec store.CheckinRecord) error {
	if rec.CheckinTime.IsZero() {
		rec.CheckinTime = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO checkins (checkin_id, member_id, checkin_at, source, passback_warning)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.ID, rec.MemberID, rec.CheckinTime.UTC(), string(rec.Source), rec.PassbackWarning)
	if err != nil {
		return fmt.Errorf("Append insert: %w", err)
	}
	return nil
}

func (s *CheckinStore) Latest(ctx context.Context, memberID string) (store.CheckinRecord, bool, error) {
	var (
		rec    store.CheckinRecord
		source string
	)
	err := s.db.QueryRow(ctx, `
		SELECT checkin_id, member_id, checkin_at, source, passback_warning
		FROM checkins
		WHERE member_id = $1
		ORDER BY checkin_at DESC, checkin_id DESC
		LIMIT 1
	`, memberID).Scan(&rec.ID, &rec.MemberID, &rec.CheckinTime, &source, &rec.PassbackWarning)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.CheckinRecord{}, false, nil
	}
	if err != nil {
		return store.CheckinRecord{}, false, fmt.Errorf("Latest query: %w", err)
	}
	rec.CheckinTime = rec.CheckinTime.UTC()
	rec.Source = store.Source(source)
	return rec, true, nil
}

func (s *CheckinStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM checkins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count query: %w", err)
	}
	return n, nil
}

func (s *CheckinStore) ListWithMembers(ctx context.Context, offset, limit int) ([]store.CheckinWithMember, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.checkin_id, c.member_id, c.checkin_at, c.source, c.passback_warning,
		       m.member_id, m.first_name, m.last_name, m.email, m.email_valid, m.blocked,
		       m.qr_uuid, m.created_at, m.updated_at
		FROM checkins c
		LEFT JOIN members m ON m.member_id = c.member_id
		ORDER BY c.checkin_at DESC, c.checkin_id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListWithMembers query: %w", err)
	}
	defer rows.Close()

	out := []store.CheckinWithMember{}
	for rows.Next() {
		var (
			row    store.CheckinWithMember
			source string

			mID, first, last, email, qr *string
			emailValid, blocked         *bool
			createdAt, updatedAt        *time.Time
		)
		if err := rows.Scan(
			&row.ID, &row.MemberID, &row.CheckinTime, &source, &row.PassbackWarning,
			&mID, &first, &last, &email, &emailValid, &blocked,
			&qr, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListWithMembers scan: %w", err)
		}
		row.CheckinTime = row.CheckinTime.UTC()
		row.Source = store.Source(source)

		if mID != nil {
			row.Member = &store.Member{
				ID:         *mID,
				FirstName:  deref(first),
				LastName:   deref(last),
				Email:      deref(email),
				EmailValid: emailValid != nil && *emailValid,
				Blocked:    blocked != nil && *blocked,
				QRUUID:     deref(qr),
			}
			if createdAt != nil {
				row.Member.CreatedAt = createdAt.UTC()
			}
			if updatedAt != nil {
				row.Member.UpdatedAt = updatedAt.UTC()
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListWithMembers rows: %w", err)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

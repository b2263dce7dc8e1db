package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/kiosk/internal/db"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

type CheckinStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewCheckinStore(db *sql.DB, writer *dbpkg.Worker) *CheckinStore {
	return &CheckinStore{db: db, writer: writer}
}

func (s *CheckinStore) Append(ctx context.Context, rec store.CheckinRecord) error {
	if rec.CheckinTime.IsZero() {
		rec.CheckinTime = time.Now().UTC()
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO checkins(checkin_id, member_id, checkin_at_ms, source, passback_warning)
VALUES (?, ?, ?, ?, ?);
`,
			rec.ID, rec.MemberID, rec.CheckinTime.UTC().UnixMilli(),
			string(rec.Source), boolToInt(rec.PassbackWarning),
		); err != nil {
			return fmt.Errorf("Append insert: %w", err)
		}
		return nil
	})
}

func (s *CheckinStore) Latest(ctx context.Context, memberID string) (store.CheckinRecord, bool, error) {
	var (
		rec     store.CheckinRecord
		atMs    int64
		source  string
		warning int
	)
	err := s.db.QueryRowContext(ctx, `
SELECT checkin_id, member_id, checkin_at_ms, source, passback_warning
FROM checkins
WHERE member_id = ?
ORDER BY checkin_at_ms DESC, checkin_id DESC
LIMIT 1;
`, memberID).Scan(&rec.ID, &rec.MemberID, &atMs, &source, &warning)
	if errors.Is(err, sql.ErrNoRows) {
		return store.CheckinRecord{}, false, nil
	}
	if err != nil {
		return store.CheckinRecord{}, false, fmt.Errorf("Latest query: %w", err)
	}

	rec.CheckinTime = time.UnixMilli(atMs).UTC()
	rec.Source = store.Source(source)
	rec.PassbackWarning = warning == 1
	return rec, true, nil
}

func (s *CheckinStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checkins;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count query: %w", err)
	}
	return n, nil
}

func (s *CheckinStore) ListWithMembers(ctx context.Context, offset, limit int) ([]store.CheckinWithMember, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT c.checkin_id, c.member_id, c.checkin_at_ms, c.source, c.passback_warning,
       m.member_id, m.first_name, m.last_name, m.email, m.email_valid, m.blocked,
       m.qr_uuid, m.created_at_ms, m.updated_at_ms
FROM checkins c
LEFT JOIN members m ON m.member_id = c.member_id
ORDER BY c.checkin_at_ms DESC, c.checkin_id DESC
LIMIT ? OFFSET ?;
`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListWithMembers query: %w", err)
	}
	defer rows.Close()

	out := []store.CheckinWithMember{}
	for rows.Next() {
		var (
			row     store.CheckinWithMember
			atMs    int64
			source  string
			warning int

			mID, first, last, email, qr sql.NullString
			emailValid, blocked         sql.NullInt64
			createdMs, updatedMs        sql.NullInt64
		)
		if err := rows.Scan(
			&row.ID, &row.MemberID, &atMs, &source, &warning,
			&mID, &first, &last, &email, &emailValid, &blocked,
			&qr, &createdMs, &updatedMs,
		); err != nil {
			return nil, fmt.Errorf("ListWithMembers scan: %w", err)
		}

		row.CheckinTime = time.UnixMilli(atMs).UTC()
		row.Source = store.Source(source)
		row.PassbackWarning = warning == 1

		if mID.Valid {
			row.Member = &store.Member{
				ID:         mID.String,
				FirstName:  first.String,
				LastName:   last.String,
				Email:      email.String,
				EmailValid: emailValid.Int64 == 1,
				Blocked:    blocked.Int64 == 1,
				QRUUID:     qr.String,
				CreatedAt:  time.UnixMilli(createdMs.Int64).UTC(),
				UpdatedAt:  time.UnixMilli(updatedMs.Int64).UTC(),
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListWithMembers rows: %w", err)
	}
	return out, nil
}

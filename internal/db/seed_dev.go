package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DevMemberID is the id of the demo member seeded in dev.
const DevMemberID = "00000000-0000-4000-8000-000000000001"

type SeedDevOptions struct {
	// Credential for the demo member.  Defaults to "dev-member-qr".
	Credential string
}

// SeedDev inserts a demo member so a fresh dev database can admit a scan.
// Re-running it is a no-op.
func SeedDev(ctx context.Context, db *sql.DB, opt SeedDevOptions) error {
	now := time.Now().UTC().UnixMilli()
	cred := opt.Credential
	if cred == "" {
		cred = "dev-member-qr"
	}

	if _, err := db.ExecContext(ctx, `
INSERT INTO members(
  member_id, first_name, last_name, email,
  email_valid, blocked, qr_uuid,
  created_at_ms, updated_at_ms
) VALUES (?, 'Dev', 'Member', 'dev@kiosk.local', 1, 0, ?, ?, ?)
ON CONFLICT(member_id) DO NOTHING;
`, DevMemberID, cred, now, now); err != nil {
		return fmt.Errorf("seed dev member: %w", err)
	}

	return nil
}

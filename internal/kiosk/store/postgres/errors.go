package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

const uniqueViolationCode = "23505"

func asPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// mapUnique turns a unique violation on one of the member keys into the
// matching store conflict error.
func mapUnique(err error) error {
	pe, ok := asPgError(err)
	if !ok || pe.Code != uniqueViolationCode {
		return err
	}
	switch pe.ConstraintName {
	case "members_email_unique":
		return fmt.Errorf("%w: %v", store.ErrEmailTaken, err)
	case "members_qr_uuid_unique":
		return fmt.Errorf("%w: %v", store.ErrCredentialTaken, err)
	}
	return err
}

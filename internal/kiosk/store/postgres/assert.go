package postgres

import "github.com/BrandonDHaskell/kiosk/internal/kiosk/store"

var (
	_ store.MemberStore  = (*MemberStore)(nil)
	_ store.CheckinStore = (*CheckinStore)(nil)
	_ store.AttemptStore = (*AttemptStore)(nil)
)

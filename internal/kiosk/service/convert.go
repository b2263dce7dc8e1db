package service

import (
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/types"
)

func memberSummary(m store.Member) types.MemberSummary {
	return types.MemberSummary{
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
		EmailValid: m.EmailValid,
		ID:         m.ID,
	}
}

func checkinView(r store.CheckinWithMember) types.CheckinView {
	v := types.CheckinView{
		ID:              r.ID,
		MemberID:        r.MemberID,
		CheckinTime:     r.CheckinTime.UTC(),
		Source:          string(r.Source),
		PassbackWarning: r.PassbackWarning,
	}
	if r.Member != nil {
		s := memberSummary(*r.Member)
		v.Member = &s
	}
	return v
}

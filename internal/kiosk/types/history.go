package types

import "time"

type CheckinView struct {
	ID              string         `json:"id"`
	MemberID        string         `json:"memberId"`
	CheckinTime     time.Time      `json:"checkinTime"`
	Source          string         `json:"source"`
	PassbackWarning bool           `json:"passbackWarning"`
	Member          *MemberSummary `json:"member,omitempty"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

type HistoryResponse struct {
	Success    bool          `json:"success"`
	Data       []CheckinView `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

package types

type RotateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	QRUUID  string `json:"qrUuid"`
}

type LookupResponse struct {
	Success bool          `json:"success"`
	Member  MemberSummary `json:"member"`
}

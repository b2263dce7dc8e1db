package types

type ValidateRequest struct {
	QRUUID string `json:"qrUuid"`
}

type MemberSummary struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	EmailValid bool   `json:"emailValid"`
	ID         string `json:"id"`
}

// ValidateResponse is returned for every admission.  Warning is null unless
// the member re-scanned inside the passback window.
type ValidateResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Warning *string       `json:"warning"`
	Member  MemberSummary `json:"member"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// BadRequestResponse carries no success flag; scanners key off the error
// text alone.
type BadRequestResponse struct {
	Error string `json:"error"`
}

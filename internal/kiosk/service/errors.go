package service

import "errors"

var (
	ErrCredentialRequired = errors.New("QRUuid is required")
	ErrUnauthenticated    = errors.New("no valid credentials provided")
	ErrMemberNotFound     = errors.New("member not found")
	ErrMemberBlocked      = errors.New("member is blocked")
	ErrInvalidMemberID    = errors.New("invalid member id")
	ErrEmailRequired      = errors.New("email is required")
)

package store

import "errors"

var (
	// ErrNotFound indicates the requested member does not exist.
	ErrNotFound = errors.New("member not found")

	// ErrEmailTaken indicates another member already holds the email address.
	ErrEmailTaken = errors.New("member email already in use")

	// ErrCredentialTaken indicates another member already holds the credential.
	ErrCredentialTaken = errors.New("member credential already in use")
)

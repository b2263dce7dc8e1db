package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
)

const (
	HeaderAPIKey        = "x-api-key"
	HeaderAuthorization = "Authorization"

	bearerPrefix = "Bearer "
)

type Kind int

const (
	Unauthenticated Kind = iota
	Device
	Administrative
)

func (k Kind) String() string {
	switch k {
	case Device:
		return "device"
	case Administrative:
		return "administrative"
	default:
		return "unauthenticated"
	}
}

// Result is the outcome of authenticating one request.  Subject is set only
// for Administrative results.
type Result struct {
	Kind    Kind
	Subject string
}

func (r Result) Authenticated() bool { return r.Kind != Unauthenticated }

// Source maps the caller kind onto the ledger's source column.
func (r Result) Source() store.Source {
	if r.Kind == Administrative {
		return store.SourceAdministrative
	}
	return store.SourceDevice
}

type Config struct {
	DeviceAPIKey string
	Token        TokenConfig
}

type Authenticator struct {
	deviceKey []byte
	verifier  *Verifier
}

func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		deviceKey: []byte(cfg.DeviceAPIKey),
		verifier:  NewVerifier(cfg.Token),
	}
}

// NewAuthenticatorWithVerifier is used when the verifier needs custom parser
// options, such as a fixed clock in tests.
func NewAuthenticatorWithVerifier(deviceKey string, v *Verifier) *Authenticator {
	return &Authenticator{deviceKey: []byte(deviceKey), verifier: v}
}

// Authenticate classifies the caller.  A matching device key always wins;
// otherwise a bearer token must verify or ErrInvalidToken is returned.
// Requests with neither yield an Unauthenticated result and a nil error.
func (a *Authenticator) Authenticate(h http.Header) (Result, error) {
	if key := h.Get(HeaderAPIKey); key != "" && len(a.deviceKey) > 0 &&
		subtle.ConstantTimeCompare([]byte(key), a.deviceKey) == 1 {
		return Result{Kind: Device}, nil
	}

	authz := h.Get(HeaderAuthorization)
	if !strings.HasPrefix(authz, bearerPrefix) {
		return Result{Kind: Unauthenticated}, nil
	}

	return a.bearer(authz)
}

// Administrator only looks at the bearer token.  Routes reserved for
// administrators use it so that a device key sent alongside a valid token
// does not shadow the token.
func (a *Authenticator) Administrator(h http.Header) (Result, error) {
	authz := h.Get(HeaderAuthorization)
	if !strings.HasPrefix(authz, bearerPrefix) {
		return Result{Kind: Unauthenticated}, nil
	}
	return a.bearer(authz)
}

func (a *Authenticator) bearer(authz string) (Result, error) {
	claims, err := a.verifier.Verify(strings.TrimSpace(authz[len(bearerPrefix):]))
	if err != nil {
		return Result{Kind: Unauthenticated}, err
	}
	return Result{Kind: Administrative, Subject: claims.Subject}, nil
}

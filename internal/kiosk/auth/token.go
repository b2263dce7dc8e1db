package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any bearer token that fails verification:
// bad signature, expired, wrong issuer or simply malformed.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the administrative session claims.  Subject carries the
// administrator's identity.
type Claims struct {
	jwt.RegisteredClaims
}

type TokenConfig struct {
	Secret string
	Issuer string
	Leeway time.Duration
}

// Signer issues HS256 administrative session tokens.
type Signer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewSigner(cfg TokenConfig) *Signer {
	return &Signer{secret: []byte(cfg.Secret), issuer: cfg.Issuer, now: time.Now}
}

func (s *Signer) Issue(subject string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("signing secret is not configured")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verifier checks HS256 session tokens.  An empty secret rejects every
// token.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(cfg TokenConfig, opts ...jwt.ParserOption) *Verifier {
	base := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		base = append(base, jwt.WithIssuer(cfg.Issuer))
	}
	return &Verifier{
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(append(base, opts...)...),
	}
}

// Verify returns the token's claims, or an error wrapping ErrInvalidToken.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: no signing secret configured", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

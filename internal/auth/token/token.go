// Package token encodes and decodes the signed claim set carried in the
// Authorization header.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userstore/user-service/internal/core/domain"
)

const defaultTTL = 15 * time.Minute

// Claims is the payload of a signed token: who the caller is, the single
// role they hold, and when the token stops being valid. Tokens are decoded
// per request and never persisted.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Codec mints and verifies HS256 tokens against a fixed secret. A token is
// valid strictly before its expiry instant: exp == now is already expired,
// with zero clock-skew leeway in either direction.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Mint signs a token for subject carrying role, expiring one validity
// window from now.
func (c *Codec) Mint(subject string, role domain.Role) (string, error) {
	return c.MintWithExpiry(subject, role, time.Now().Add(c.ttl))
}

// MintWithExpiry signs a token with an explicit expiry instant.
func (c *Codec) MintWithExpiry(subject string, role domain.Role, exp time.Time) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode parses and verifies a compact token, distinguishing the three
// failure kinds callers react to: ErrExpired, ErrSignatureInvalid (bad MAC
// or disallowed algorithm) and ErrMalformed (everything else, including
// tokens missing sub, role or exp).
func (c *Codec) Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrSignatureInvalid
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMalformed)
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing role claim", ErrMalformed)
	}
	return claims, nil
}

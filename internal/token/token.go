package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/auth"
)

// Validation failure kinds. Callers distinguish them with errors.Is.
var (
	ErrMalformed = errors.New("token malformed")
	ErrInvalid   = errors.New("token signature invalid")
	ErrExpired   = errors.New("token expired")
)

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec mints and validates stateless session credentials. The signing
// secret is fixed at construction and never mutated, so a single Codec is
// safe for concurrent use across request handlers.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a credential for the given user. The expiry is always
// issuedAt + the configured TTL; role enforcement is left to the middleware.
func (c *Codec) Issue(userID, role string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a credential, returning the identity it
// carries. Fails with ErrExpired, ErrInvalid, or ErrMalformed.
func (c *Codec) Validate(tokenString string) (auth.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return auth.Identity{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return auth.Identity{}, ErrInvalid
		default:
			return auth.Identity{}, ErrMalformed
		}
	}

	cl, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return auth.Identity{}, ErrMalformed
	}
	if cl.Subject == "" || cl.Role == "" {
		return auth.Identity{}, ErrMalformed
	}

	return auth.Identity{UserID: cl.Subject, Role: cl.Role}, nil
}

package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a token cannot be decoded.
var ErrMalformedToken = errors.New("jwt: malformed token")

// Claims holds the subset of SimpleJWT claims the client cares about.
type Claims struct {
	UserID    int64
	TokenType string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type backendClaims struct {
	gojwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
}

// Inspect decodes token claims without verifying the signature.
func Inspect(token string) (Claims, error) {
	var bc backendClaims
	if _, _, err := gojwt.NewParser().ParseUnverified(token, &bc); err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}

	c := Claims{
		UserID:    bc.UserID,
		TokenType: bc.TokenType,
		JTI:       bc.ID,
	}
	if bc.IssuedAt != nil {
		c.IssuedAt = bc.IssuedAt.Time
	}
	if bc.ExpiresAt != nil {
		c.ExpiresAt = bc.ExpiresAt.Time
	}
	return c, nil
}

// ExpiresWithin reports whether the token expires before now+d.
// Tokens that cannot be decoded or carry no exp claim report false.
func ExpiresWithin(token string, d time.Duration, now time.Time) bool {
	c, err := Inspect(token)
	if err != nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(d).Before(c.ExpiresAt)
}

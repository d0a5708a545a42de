package session

import (
	"time"

	"github.com/SinArtur/Sstu-DB/pkg/jwt"
)

// Session is an immutable snapshot of the client session.
// Empty token strings stand for "no token".
type Session struct {
	User            *User
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
}

// authenticated derives the IsAuthenticated flag from the other fields.
func (s Session) authenticated() bool {
	return s.User != nil && s.AccessToken != "" && s.RefreshToken != ""
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	s.User = s.User.clone()
	return s
}

// UserID returns the id of the logged in user or 0.
func (s Session) UserID() int64 {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}

// AccessExpiresAt returns the exp claim of the access token.
// The second value is false when there is no token or it carries no readable exp.
func (s Session) AccessExpiresAt() (time.Time, bool) {
	return tokenExpiry(s.AccessToken)
}

// RefreshExpiresAt returns the exp claim of the refresh token.
func (s Session) RefreshExpiresAt() (time.Time, bool) {
	return tokenExpiry(s.RefreshToken)
}

func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	c, err := jwt.Inspect(token)
	if err != nil || c.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return c.ExpiresAt, true
}

package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SinArtur/Sstu-DB/pkg/jwt"
)

func signed(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("server-only-secret"))
	require.NoError(t, err)
	return tok
}

func TestInspect(t *testing.T) {
	t.Parallel()

	iat := time.Now().Add(-time.Minute).Truncate(time.Second)
	exp := iat.Add(time.Hour)

	tok := signed(t, gojwt.MapClaims{
		"token_type": "access",
		"user_id":    7,
		"jti":        "abc",
		"iat":        iat.Unix(),
		"exp":        exp.Unix(),
	})

	c, err := jwt.Inspect(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.UserID)
	assert.Equal(t, "access", c.TokenType)
	assert.Equal(t, "abc", c.JTI)
	assert.True(t, c.IssuedAt.Equal(iat))
	assert.True(t, c.ExpiresAt.Equal(exp))
}

func TestInspectMalformed(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "tok1", "not.a.jwt"} {
		_, err := jwt.Inspect(tok)
		assert.ErrorIs(t, err, jwt.ErrMalformedToken, tok)
	}
}

func TestExpiresWithin(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok := signed(t, gojwt.MapClaims{"exp": now.Add(20 * time.Second).Unix()})

	assert.True(t, jwt.ExpiresWithin(tok, time.Minute, now))
	assert.False(t, jwt.ExpiresWithin(tok, time.Second, now))

	noExp := signed(t, gojwt.MapClaims{"user_id": 1})
	assert.False(t, jwt.ExpiresWithin(noExp, time.Hour, now))
	assert.False(t, jwt.ExpiresWithin("garbage", time.Hour, now))
}

package session_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SinArtur/Sstu-DB/core/session"
)

func TestUser_JSON(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": 5,
		"email": "s@sstu.ru",
		"username": "stud",
		"role": "moderator",
		"role_display": "Модератор",
		"is_email_verified": true,
		"group": 12,
		"group_name": "ИФСТ-21",
		"created_at": "2024-09-01T10:00:00Z",
		"invited_by": {"id": 2}
	}`

	var u session.User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))

	assert.Equal(t, int64(5), u.ID)
	assert.Equal(t, session.RoleModerator, u.Role)
	assert.True(t, u.Role.CanModerate())
	require.NotNil(t, u.Group)
	assert.Equal(t, int64(12), *u.Group)
	assert.Len(t, u.Extra, 2)
	assert.Contains(t, u.Extra, "created_at")

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestUser_ExtraDoesNotOverrideKnownFields(t *testing.T) {
	t.Parallel()

	u := session.User{
		ID:    1,
		Email: "a@b.com",
		Extra: map[string]json.RawMessage{"email": json.RawMessage(`"evil@x.com"`)},
	}
	out, err := json.Marshal(u)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "a@b.com", back["email"])
}

func TestUser_DisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ann Lee", session.User{FirstName: "Ann", LastName: "Lee", Username: "al"}.DisplayName())
	assert.Equal(t, "Ann", session.User{FirstName: "Ann", Username: "al"}.DisplayName())
	assert.Equal(t, "al", session.User{Username: "al"}.DisplayName())
}

func TestRole_CanModerate(t *testing.T) {
	t.Parallel()

	assert.False(t, session.RoleStudent.CanModerate())
	assert.True(t, session.RoleModerator.CanModerate())
	assert.True(t, session.RoleAdmin.CanModerate())
}

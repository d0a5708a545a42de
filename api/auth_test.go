package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SinArtur/Sstu-DB/api"
	"github.com/SinArtur/Sstu-DB/core/client"
	"github.com/SinArtur/Sstu-DB/core/session"
)

const userJSON = `{"id":7,"email":"s@sstu.ru","username":"stud","first_name":"","last_name":"","role":"student","role_display":"Студент","is_email_verified":false,"can_access_admin_panel":false,"created_at":"2024-09-01T10:00:00Z","updated_at":"2024-09-01T10:00:00Z"}`

func TestAuth_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores session", func(t *testing.T) {
		t.Parallel()
		svc, mgr, calls := newAPI(t, respond(http.StatusOK,
			`{"access":"acc","refresh":"ref","user":`+userJSON+`}`))

		u, err := svc.Auth.Login(ctx, "s@sstu.ru", "secret")
		require.NoError(t, err)
		assert.Equal(t, int64(7), u.ID)

		rec := <-calls
		assert.Equal(t, http.MethodPost, rec.Method)
		assert.Equal(t, "/api/auth/login/", rec.Path)
		assert.Equal(t, map[string]any{"email": "s@sstu.ru", "password": "secret"}, decodeBody(t, rec))

		s := mgr.Snapshot()
		assert.True(t, s.IsAuthenticated)
		assert.Equal(t, "acc", s.AccessToken)
		assert.Equal(t, "ref", s.RefreshToken)
		assert.Contains(t, s.User.Extra, "created_at")
	})

	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()
		svc, mgr, _ := newAPI(t, respond(http.StatusBadRequest,
			`{"non_field_errors":["Неверный email или пароль"]}`))

		_, err := svc.Auth.Login(ctx, "s@sstu.ru", "wrong")
		require.ErrorIs(t, err, client.ErrBadRequest)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Неверный email или пароль", apiErr.FirstMessage())
		assert.False(t, mgr.IsAuthenticated())
	})

	t.Run("incomplete response", func(t *testing.T) {
		t.Parallel()
		svc, mgr, _ := newAPI(t, respond(http.StatusOK, `{"access":"acc","user":`+userJSON+`}`))

		_, err := svc.Auth.Login(ctx, "s@sstu.ru", "secret")
		require.ErrorIs(t, err, api.ErrIncompleteAuth)
		assert.False(t, mgr.IsAuthenticated())
	})
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("mismatch is rejected locally", func(t *testing.T) {
		t.Parallel()
		svc, _, calls := newAPI(t, respond(http.StatusCreated, `{}`))

		_, _, err := svc.Auth.Register(ctx, api.RegisterParams{Password: "a", PasswordConfirm: "b"})
		require.ErrorIs(t, err, api.ErrPasswordMismatch)
		assert.Empty(t, calls)
	})

	t.Run("logs in the new account", func(t *testing.T) {
		t.Parallel()
		svc, mgr, calls := newAPI(t, respond(http.StatusCreated,
			`{"message":"Регистрация успешна","access":"acc","refresh":"ref","user":`+userJSON+`}`))

		u, msg, err := svc.Auth.Register(ctx, api.RegisterParams{
			Email:           "s@sstu.ru",
			Username:        "stud",
			Password:        "long-enough",
			PasswordConfirm: "long-enough",
			InviteToken:     "INV123",
		})
		require.NoError(t, err)
		assert.Equal(t, "stud", u.Username)
		assert.Equal(t, "Регистрация успешна", msg)
		assert.True(t, mgr.IsAuthenticated())

		body := decodeBody(t, <-calls)
		assert.Equal(t, "INV123", body["invite_token"])
		assert.NotContains(t, body, "first_name")
	})
}

func TestAuth_VerifyEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	verified := `{"message":"Email успешно подтвержден","user":{"id":1,"email":"a@b.com","username":"alice","is_email_verified":true}}`

	t.Run("refreshes session user when logged in", func(t *testing.T) {
		t.Parallel()
		svc, mgr, _ := newAPI(t, respond(http.StatusOK, verified))
		loggedIn(mgr)

		msg, err := svc.Auth.VerifyEmail(ctx, " tok ")
		require.NoError(t, err)
		assert.Equal(t, "Email успешно подтвержден", msg)

		s := mgr.Snapshot()
		assert.True(t, s.User.IsEmailVerified)
		assert.Equal(t, "tok1", s.AccessToken)
		assert.Equal(t, "ref1", s.RefreshToken)
	})

	t.Run("does not log in anonymous caller", func(t *testing.T) {
		t.Parallel()
		svc, mgr, _ := newAPI(t, respond(http.StatusOK, verified))

		_, err := svc.Auth.VerifyEmail(ctx, "tok")
		require.NoError(t, err)
		assert.Nil(t, mgr.Snapshot().User)
	})

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newAPI(t, respond(http.StatusOK, verified))
		_, err := svc.Auth.VerifyEmail(ctx, "  ")
		assert.ErrorIs(t, err, api.ErrEmptyValue)
	})
}

func TestAuth_Profile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("merges fetched profile", func(t *testing.T) {
		t.Parallel()
		svc, mgr, _ := newAPI(t, respond(http.StatusOK,
			`{"id":1,"email":"new@b.com","username":"alice","first_name":"Alice","role":"moderator"}`))
		loggedIn(mgr)

		u, err := svc.Auth.Profile(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Alice", u.FirstName)

		s := mgr.Snapshot()
		assert.Equal(t, "new@b.com", s.User.Email)
		assert.Equal(t, session.RoleModerator, s.User.Role)
		assert.Equal(t, "tok1", s.AccessToken)
	})

	t.Run("update sends only set fields", func(t *testing.T) {
		t.Parallel()
		svc, mgr, calls := newAPI(t, respond(http.StatusOK,
			`{"id":1,"email":"a@b.com","username":"alice","last_name":"Smith"}`))
		loggedIn(mgr)

		_, err := svc.Auth.UpdateProfile(ctx, api.ProfileUpdate{LastName: session.Ptr("Smith")})
		require.NoError(t, err)

		rec := <-calls
		assert.Equal(t, http.MethodPatch, rec.Method)
		assert.Equal(t, map[string]any{"last_name": "Smith"}, decodeBody(t, rec))
		assert.Equal(t, "Smith", mgr.Snapshot().User.LastName)
	})

	t.Run("logout clears session", func(t *testing.T) {
		t.Parallel()
		svc, mgr, _ := newAPI(t, respond(http.StatusOK, `{}`))
		loggedIn(mgr)

		svc.Auth.Logout(ctx)
		assert.False(t, mgr.IsAuthenticated())
	})
}

func TestAuth_PasswordReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, calls := newAPI(t, respond(http.StatusOK, `{"message":"Пароль успешно изменен"}`))

	_, err := svc.Auth.ConfirmPasswordReset(ctx, "", "password1", "password1")
	assert.ErrorIs(t, err, api.ErrEmptyValue)
	_, err = svc.Auth.ConfirmPasswordReset(ctx, "t", "password1", "password2")
	assert.ErrorIs(t, err, api.ErrPasswordMismatch)
	_, err = svc.Auth.ConfirmPasswordReset(ctx, "t", "short", "short")
	assert.ErrorIs(t, err, api.ErrPasswordTooShort)
	assert.Empty(t, calls)

	msg, err := svc.Auth.ConfirmPasswordReset(ctx, "t", "password1", "password1")
	require.NoError(t, err)
	assert.Equal(t, "Пароль успешно изменен", msg)
	assert.Equal(t, "/api/auth/password-reset-confirm/", (<-calls).Path)

	_, err = svc.Auth.RequestPasswordReset(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "a@b.com"}, decodeBody(t, <-calls))
}

func TestAuth_Checks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("email", func(t *testing.T) {
		t.Parallel()
		svc, _, calls := newAPI(t, respond(http.StatusOK, `{"available":true}`))

		ok, err := svc.Auth.CheckEmail(ctx, "a+b@c.com")
		require.NoError(t, err)
		assert.True(t, ok)

		rec := <-calls
		assert.Equal(t, "/api/auth/check/email/", rec.Path)
		assert.Equal(t, "email=a%2Bb%40c.com", rec.Query)
	})

	t.Run("username taken", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newAPI(t, respond(http.StatusOK, `{"available":false}`))
		ok, err := svc.Auth.CheckUsername(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invite token reason", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newAPI(t, respond(http.StatusOK,
			`{"valid":false,"error":"Недействительный или уже использованный токен"}`))
		ok, reason, err := svc.Auth.CheckInviteToken(ctx, "XYZ")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "Недействительный или уже использованный токен", reason)
	})

	t.Run("empty value", func(t *testing.T) {
		t.Parallel()
		svc, _, calls := newAPI(t, respond(http.StatusOK, `{}`))
		_, err := svc.Auth.CheckEmail(ctx, " ")
		assert.ErrorIs(t, err, api.ErrEmptyValue)
		assert.Empty(t, calls)
	})
}

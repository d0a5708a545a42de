package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/SinArtur/Sstu-DB/core/client"
	"github.com/SinArtur/Sstu-DB/core/session"
)

// MinPasswordLength mirrors the backend password reset rule.
const MinPasswordLength = 8

// AuthService covers login, registration, verification and the profile.
type AuthService struct {
	c *client.Client
}

type authResponse struct {
	Message string        `json:"message"`
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    *session.User `json:"user"`
}

// RegisterParams is the registration form.
type RegisterParams struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	InviteToken     string `json:"invite_token"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

// ProfileUpdate lists editable profile fields. Nil fields are not sent.
type ProfileUpdate struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// Login exchanges credentials for a token pair and stores the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.User, error) {
	var out authResponse
	err := s.c.Post(ctx, "/auth/login/", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, out)
}

// Register creates an account with an invite token and logs it in.
// The returned message asks the user to confirm the email address.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*session.User, string, error) {
	if p.Password != p.PasswordConfirm {
		return nil, "", ErrPasswordMismatch
	}
	var out authResponse
	if err := s.c.Post(ctx, "/auth/register/", p, &out); err != nil {
		return nil, "", err
	}
	u, err := s.establish(ctx, out)
	return u, out.Message, err
}

func (s *AuthService) establish(ctx context.Context, out authResponse) (*session.User, error) {
	if out.User == nil || out.Access == "" || out.Refresh == "" {
		return nil, ErrIncompleteAuth
	}
	s.c.Session().SetAuth(ctx, *out.User, out.Access, out.Refresh)
	return out.User, nil
}

// VerifyEmail confirms the address with the token from the verification email.
// When a session is active the returned profile replaces the session user.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: token", ErrEmptyValue)
	}

	var out struct {
		Message string        `json:"message"`
		User    *session.User `json:"user"`
	}
	if err := s.c.Post(ctx, "/auth/verify-email/", map[string]string{"token": token}, &out); err != nil {
		return "", err
	}

	if out.User != nil {
		mgr := s.c.Session()
		if snap := mgr.Snapshot(); snap.AccessToken != "" && snap.RefreshToken != "" {
			mgr.SetAuth(ctx, *out.User, snap.AccessToken, snap.RefreshToken)
		}
	}
	return out.Message, nil
}

// ResendVerification sends a new verification email to the logged in user.
func (s *AuthService) ResendVerification(ctx context.Context) (string, error) {
	var out Message
	err := s.c.Post(ctx, "/auth/resend-verification/", nil, &out)
	return out.Message, err
}

// RequestPasswordReset asks the backend to email a reset link.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email", ErrEmptyValue)
	}
	var out Message
	err := s.c.Post(ctx, "/auth/password-reset-request/", map[string]string{"email": email}, &out)
	return out.Message, err
}

// ConfirmPasswordReset sets a new password using the emailed reset token.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, password, confirm string) (string, error) {
	switch {
	case strings.TrimSpace(token) == "":
		return "", fmt.Errorf("%w: token", ErrEmptyValue)
	case password != confirm:
		return "", ErrPasswordMismatch
	case len([]rune(password)) < MinPasswordLength:
		return "", fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, MinPasswordLength)
	}

	var out Message
	err := s.c.Post(ctx, "/auth/password-reset-confirm/", map[string]string{
		"token":            token,
		"password":         password,
		"password_confirm": confirm,
	}, &out)
	return out.Message, err
}

// Profile fetches the current profile and merges it into the session user.
func (s *AuthService) Profile(ctx context.Context) (*session.User, error) {
	var u session.User
	if err := s.c.Get(ctx, "/auth/profile/", nil, &u); err != nil {
		return nil, err
	}
	s.c.Session().UpdateUser(ctx, session.PatchFrom(u))
	return &u, nil
}

// UpdateProfile changes profile fields and merges the result into the session user.
func (s *AuthService) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*session.User, error) {
	var u session.User
	if err := s.c.Patch(ctx, "/auth/profile/", upd, &u); err != nil {
		return nil, err
	}
	s.c.Session().UpdateUser(ctx, session.PatchFrom(u))
	return &u, nil
}

// Logout clears the local session. The backend keeps no server-side session to end.
func (s *AuthService) Logout(ctx context.Context) {
	s.c.Session().Logout(ctx)
}

type availability struct {
	Available bool   `json:"available"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error"`
}

// CheckEmail reports whether email is still free for registration.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	out, err := s.check(ctx, "/auth/check/email/", "email", email)
	return out.Available, err
}

// CheckUsername reports whether username is still free for registration.
func (s *AuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	out, err := s.check(ctx, "/auth/check/username/", "username", username)
	return out.Available, err
}

// CheckInviteToken reports whether an invite code can be used. When it cannot,
// the second value carries the backend's reason.
func (s *AuthService) CheckInviteToken(ctx context.Context, code string) (bool, string, error) {
	out, err := s.check(ctx, "/auth/check/invite-token/", "token", code)
	return out.Valid, out.Error, err
}

func (s *AuthService) check(ctx context.Context, path, param, value string) (availability, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return availability{}, fmt.Errorf("%w: %s", ErrEmptyValue, param)
	}
	var out availability
	err := s.c.Get(ctx, path, url.Values{param: {value}}, &out)
	return out, err
}

package api

import (
	"context"
	"net/url"
	"time"

	"github.com/SinArtur/Sstu-DB/core/client"
	"github.com/SinArtur/Sstu-DB/core/session"
)

// InviteService manages the invite codes a user hands out.
type InviteService struct {
	c *client.Client
}

// InviteToken is a single-use registration code.
type InviteToken struct {
	ID           int64      `json:"id"`
	Code         string     `json:"code"`
	Creator      int64      `json:"creator"`
	CreatorEmail string     `json:"creator_email"`
	Used         bool       `json:"used"`
	UsedBy       *int64     `json:"used_by"`
	UsedByEmail  string     `json:"used_by_email"`
	CreatedAt    time.Time  `json:"created_at"`
	UsedAt       *time.Time `json:"used_at"`
}

// ReferralLink is one step of the chain of who invited whom.
type ReferralLink struct {
	User      session.User `json:"user"`
	InvitedBy session.User `json:"invited_by"`
	UsedAt    *time.Time   `json:"used_at"`
}

// Mine lists the current user's codes, newest first.
func (s *InviteService) Mine(ctx context.Context) ([]InviteToken, error) {
	var out []InviteToken
	err := s.c.Get(ctx, "/auth/invite/my/", nil, &out)
	return out, err
}

// Generate creates up to count new codes. Students are capped at three active
// codes by the backend, so fewer may be returned.
func (s *InviteService) Generate(ctx context.Context, count int) ([]InviteToken, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}
	var out struct {
		Tokens []InviteToken `json:"tokens"`
	}
	err := s.c.Post(ctx, "/auth/invite/generate/", map[string]int{"count": count}, &out)
	return out.Tokens, err
}

// Delete removes an unused code. Admin only.
func (s *InviteService) Delete(ctx context.Context, tokenID int64) error {
	return s.c.Delete(ctx, "/auth/invite/"+id(tokenID)+"/delete/", nil)
}

// ReferralChain walks from the current user up to the first inviter.
func (s *InviteService) ReferralChain(ctx context.Context) ([]ReferralLink, error) {
	var out struct {
		Chain []ReferralLink `json:"chain"`
	}
	err := s.c.Get(ctx, "/auth/referral-chain/", nil, &out)
	return out.Chain, err
}

// RegistrationLink builds the link a QR code or message should carry for code.
// With an empty base the bare code is returned.
func RegistrationLink(base, code string) string {
	if base == "" {
		return code
	}
	u, err := url.Parse(base)
	if err != nil {
		return code
	}
	q := u.Query()
	q.Set("invite", code)
	u.RawQuery = q.Encode()
	return u.String()
}

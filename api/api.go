package api

import (
	"net/url"
	"strconv"

	"github.com/SinArtur/Sstu-DB/core/client"
)

// API groups the backend services around one client.
type API struct {
	Auth          *AuthService
	Invites       *InviteService
	Branches      *BranchService
	Materials     *MaterialService
	Notifications *NotificationService
	Moderation    *ModerationService
}

// New creates all services on top of c.
func New(c *client.Client) *API {
	return &API{
		Auth:          &AuthService{c: c},
		Invites:       &InviteService{c: c},
		Branches:      &BranchService{c: c},
		Materials:     &MaterialService{c: c},
		Notifications: &NotificationService{c: c},
		Moderation:    &ModerationService{c: c},
	}
}

// Page is a DRF page-number pagination envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// Message is the {"message": "..."} body most action endpoints answer with.
type Message struct {
	Message string `json:"message"`
}

// moderationComment is the body of approve and reject actions.
type moderationComment struct {
	Comment string `json:"comment"`
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func setPage(q url.Values, page int) {
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
}

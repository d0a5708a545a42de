package api

import (
	"context"
	"net/url"
	"time"

	"github.com/SinArtur/Sstu-DB/core/client"
)

// ModerationAction is what a moderator did to an object.
type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
	ActionDelete  ModerationAction = "delete"
	ActionEdit    ModerationAction = "edit"
)

// ModerationService reads the moderation audit log.
type ModerationService struct {
	c *client.Client
}

// ModerationLog is one audit entry.
type ModerationLog struct {
	ID              int64            `json:"id"`
	Moderator       *int64           `json:"moderator"`
	ModeratorEmail  string           `json:"moderator_email"`
	ContentType     int64            `json:"content_type"`
	ContentTypeName string           `json:"content_type_name"`
	ObjectID        int64            `json:"object_id"`
	Action          ModerationAction `json:"action"`
	ActionDisplay   string           `json:"action_display"`
	Comment         string           `json:"comment"`
	PreviousStatus  string           `json:"previous_status"`
	NewStatus       string           `json:"new_status"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Logs returns one page of the audit log, optionally filtered by action.
func (s *ModerationService) Logs(ctx context.Context, action ModerationAction, page int) (Page[ModerationLog], error) {
	q := url.Values{}
	if action != "" {
		q.Set("action", string(action))
	}
	setPage(q, page)
	var out Page[ModerationLog]
	err := s.c.Get(ctx, "/moderation/logs/", q, &out)
	return out, err
}

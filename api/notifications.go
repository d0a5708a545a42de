package api

import (
	"context"

	"github.com/SinArtur/Sstu-DB/core/client"
)

// NotificationService reads the notification badge.
type NotificationService struct {
	c *client.Client
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := s.c.Get(ctx, "/notifications/unread_count/", nil, &out)
	return out.Count, err
}

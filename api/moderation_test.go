package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SinArtur/Sstu-DB/api"
)

func TestModerationLogs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name      string
		action    api.ModerationAction
		page      int
		wantQuery string
	}{
		{name: "all", wantQuery: ""},
		{name: "filtered", action: api.ActionReject, page: 1, wantQuery: "action=reject"},
		{name: "second page", action: api.ActionApprove, page: 2, wantQuery: "action=approve&page=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, mgr, calls := newAPI(t, respond(http.StatusOK, `{
				"count": 1, "next": null, "previous": null,
				"results": [{
					"id": 5, "moderator": 2, "moderator_email": "m@b.com",
					"content_type": 11, "content_type_name": "material", "object_id": 42,
					"action": "reject", "action_display": "Отклонено", "comment": "дубликат",
					"previous_status": "pending", "new_status": "rejected",
					"created_at": "2024-10-01T12:00:00Z"
				}]
			}`))
			loggedIn(mgr)

			page, err := svc.Moderation.Logs(ctx, tt.action, tt.page)
			require.NoError(t, err)
			assert.False(t, page.HasNext())
			require.Len(t, page.Results, 1)
			assert.Equal(t, api.ActionReject, page.Results[0].Action)
			assert.Equal(t, int64(42), page.Results[0].ObjectID)
			require.NotNil(t, page.Results[0].Moderator)

			rec := <-calls
			assert.Equal(t, "/api/moderation/logs/", rec.Path)
			assert.Equal(t, tt.wantQuery, rec.Query)
		})
	}
}

func TestNotificationsUnreadCount(t *testing.T) {
	t.Parallel()

	svc, mgr, calls := newAPI(t, respond(http.StatusOK, `{"count":3}`))
	loggedIn(mgr)

	n, err := svc.Notifications.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rec := <-calls
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/api/notifications/unread_count/", rec.Path)
	assert.Equal(t, "Bearer tok1", rec.Header.Get("Authorization"))
}

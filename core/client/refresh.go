package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SinArtur/Sstu-DB/core/logger"
)

// maxRefreshWait bounds a shared refresh call that outlives the request that started it.
const maxRefreshWait = 2 * time.Minute

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// refresh recovers from a 401 received with staleAccess. Callers holding the same
// refresh token share one call. When another caller already replaced the access
// token the refresh is skipped and the request is simply redispatched.
func (c *Client) refresh(ctx context.Context, staleAccess string) error {
	snap := c.session.Snapshot()
	if snap.AccessToken != "" && snap.AccessToken != staleAccess && snap.IsAuthenticated {
		return nil
	}

	refreshToken := snap.RefreshToken
	if refreshToken == "" {
		return c.expire(ctx, "", ErrNoRefreshToken)
	}

	ch := c.refreshes.DoChan(refreshToken, func() (any, error) {
		// Detached from the first caller so its cancellation does not fail the others.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), maxRefreshWait)
		defer cancel()

		// A flight for this token may have finished between the snapshot and DoChan.
		if cur := c.session.Snapshot(); cur.IsAuthenticated && cur.RefreshToken != refreshToken {
			return nil, nil
		}

		if err := c.exchangeRefresh(fctx, refreshToken); err != nil {
			return nil, c.expire(fctx, refreshToken, err)
		}
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return classify(ctx, ctx.Err())
	}
}

// exchangeRefresh calls the refresh endpoint directly, outside the pipeline, and
// stores the returned pair.
func (c *Client) exchangeRefresh(ctx context.Context, refreshToken string) error {
	body, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return errors.Join(ErrRefreshFailed, err)
	}
	header := http.Header{"Content-Type": []string{"application/json"}}

	resp, err := c.exchange(ctx, http.MethodPost, c.resolve(c.refreshPath, nil), header, body, 1)
	if err != nil {
		return errors.Join(ErrRefreshFailed, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Join(ErrRefreshFailed, newAPIError(&Request{Method: http.MethodPost, Path: c.refreshPath}, resp))
	}

	var out refreshResponse
	if err := resp.Decode(&out); err != nil {
		return errors.Join(ErrRefreshFailed, err)
	}
	if out.Access == "" {
		return fmt.Errorf("%w: response carries no access token", ErrRefreshFailed)
	}

	if !c.session.RotateTokens(ctx, refreshToken, out.Access, out.Refresh) {
		// Logged out or re-logged in while the refresh was in flight.
		c.logger.InfoContext(ctx, "refreshed tokens discarded, session changed",
			logger.Component("client"),
			logger.Action("refresh"),
		)
		return nil
	}

	c.logger.DebugContext(ctx, "access token refreshed",
		logger.Component("client"),
		logger.Action("refresh"),
		logger.UserID(c.session.Snapshot().UserID()),
	)
	return nil
}

// expire clears the session held with refreshToken and runs the session-expired
// side effect. When a newer login replaced that session meanwhile, it is kept and
// the caller simply redispatches with it.
func (c *Client) expire(ctx context.Context, refreshToken string, cause error) error {
	if !c.session.LogoutIf(ctx, refreshToken) {
		c.logger.InfoContext(ctx, "refresh failed for a replaced session",
			logger.Component("client"),
			logger.Action("refresh"),
			logger.Error(cause),
		)
		return nil
	}

	err := errors.Join(ErrSessionExpired, cause)
	c.logger.WarnContext(ctx, "session expired",
		logger.Component("client"),
		logger.Action("refresh"),
		logger.Error(cause),
	)
	if c.onSessionExpired != nil {
		c.onSessionExpired(ctx, err)
	}
	return err
}

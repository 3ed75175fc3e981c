package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-admin-console/nav"
	"github.com/jrsteele09/go-admin-console/notify"
)

const refreshKey = "refresh"

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Data         *struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"data"`
}

// refresh returns an access token to replay a request that was rejected while carrying
// staleToken. Concurrent callers share a single in-flight refresh. The flight itself is
// detached from ctx so one caller giving up cannot fail the others.
func (c *Client) refresh(ctx context.Context, staleToken string) (string, error) {
	ch := c.refreshGroup.DoChan(refreshKey, func() (any, error) {
		return c.runRefresh(context.WithoutCancel(ctx), staleToken)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) runRefresh(ctx context.Context, staleToken string) (string, error) {
	current := c.store.Load(ctx)

	// an earlier flight already replaced the token this request was sent with
	if access := current.AccessToken(); access != "" && access != staleToken {
		return access, nil
	}
	// an earlier flight already ended the session and said so
	if staleToken != "" && current.AccessToken() == "" && current.RefreshToken() == "" {
		return "", &Error{Kind: KindAuthExpired, Status: http.StatusUnauthorized, Message: MsgSessionExpired}
	}

	refreshToken := current.RefreshToken()
	if refreshToken == "" {
		c.expire(ctx, current.AccessToken(), MsgUnauthorized)
		return "", &Error{Kind: KindAuthExpired, Status: http.StatusUnauthorized, Message: MsgUnauthorized}
	}

	access, rotated, err := c.exchange(ctx, refreshToken)
	if err != nil {
		c.metrics.ObserveRefresh("failure")
		c.logger.Warn().Err(err).Msg("token refresh failed")
		c.expire(ctx, current.AccessToken(), MsgSessionExpired)
		return "", &Error{Kind: KindAuthExpired, Status: http.StatusUnauthorized, Message: MsgSessionExpired, Err: err}
	}
	if err := c.store.UpdateTokens(ctx, access, rotated); err != nil {
		// the new token still serves this flight; the next process start will re-login
		c.logger.Error().Err(err).Msg("could not persist refreshed token")
	}
	c.metrics.ObserveRefresh("success")
	c.logger.Info().Bool("rotated", rotated != "").Msg("access token refreshed")

	held := refreshToken
	if rotated != "" {
		held = rotated
	}
	c.listenersMu.RLock()
	listeners := append([]func(string, string){}, c.onRefreshed...)
	c.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(access, held)
	}
	return access, nil
}

// exchange calls the refresh endpoint. It bypasses classification so a failed refresh
// produces only the session-expired notification.
func (c *Client) exchange(ctx context.Context, refreshToken string) (string, string, error) {
	payload, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return "", "", err
	}
	req := Request{Method: http.MethodPost, Path: c.refreshPath, SkipAuthRefresh: true}
	status, body, err := c.send(ctx, req, payload, "")
	if err != nil {
		return "", "", err
	}
	if status != http.StatusOK {
		return "", "", fmt.Errorf("refresh rejected with status %d", status)
	}

	var rr refreshResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return "", "", fmt.Errorf("decode refresh response: %w", err)
	}
	access, rotated := rr.AccessToken, rr.RefreshToken
	if access == "" && rr.Data != nil {
		access, rotated = rr.Data.AccessToken, rr.Data.RefreshToken
	}
	if access == "" {
		return "", "", errors.New("refresh response carried no access token")
	}
	return access, rotated, nil
}

// expire tears the session down once per access token. Later callers holding the same
// (now cleared) token find nothing to do and stay silent.
func (c *Client) expire(ctx context.Context, accessToken, message string) {
	c.expireMu.Lock()
	current := c.store.Load(ctx)
	if accessToken != "" && current.AccessToken() != accessToken {
		c.expireMu.Unlock()
		return
	}
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error().Err(err).Msg("could not clear token store")
	}
	c.expireMu.Unlock()

	c.navigator.Navigate(nav.RouteAdminLogin)
	notify.Error(c.notifier, message)

	c.listenersMu.RLock()
	listeners := append([]func(){}, c.onExpired...)
	c.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

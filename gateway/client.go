package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/internal/metrics"
	"github.com/jrsteele09/go-admin-console/nav"
	"github.com/jrsteele09/go-admin-console/notify"
	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Request describes one call through the gateway.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// SkipAuthRefresh keeps a 401 from entering the refresh path. Used by the auth
	// endpoints themselves.
	SkipAuthRefresh bool
	// Silent suppresses notifications for this request. The error is still returned.
	Silent bool
}

// Client is the single outbound HTTP path of the console. It attaches the bearer token,
// classifies failures and refreshes an expired access token at most once at a time.
type Client struct {
	baseURL     string
	refreshPath string
	httpClient  *http.Client
	store       *tokenstore.Store
	notifier    notify.Notifier
	navigator   nav.Navigator
	logger      zerolog.Logger
	metrics     *metrics.Client

	refreshGroup singleflight.Group
	expireMu     sync.Mutex

	listenersMu sync.RWMutex
	onExpired   []func()
	onRefreshed []func(accessToken, refreshToken string)
}

func New(baseURL string, store *tokenstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		refreshPath: "/auth/refresh",
		httpClient:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		store:       store,
		notifier:    notify.Nop{},
		navigator:   nav.NewHistory(""),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnAuthExpired registers fn to run after the session has been torn down because the
// access token could not be refreshed.
func (c *Client) OnAuthExpired(fn func()) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.onExpired = append(c.onExpired, fn)
}

// OnTokensRefreshed registers fn to run after a refresh has produced a new access token.
// refreshToken is the token now held, rotated or not.
func (c *Client) OnTokensRefreshed(fn func(accessToken, refreshToken string)) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.onRefreshed = append(c.onRefreshed, fn)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Delete accepts an optional body; bulk deletes send their ids that way.
func (c *Client) Delete(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Body: body}, out)
}

// Do sends req and decodes a 2xx JSON body into out (when out is non-nil). Every other
// outcome is returned as *Error after the matching notification has been shown.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var payload []byte
	if req.Body != nil {
		var err error
		if payload, err = json.Marshal(req.Body); err != nil {
			return fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
		}
	}

	token := c.store.AccessToken(ctx)
	status, body, err := c.send(ctx, req, payload, token)
	if err != nil {
		return c.networkError(ctx, req, err)
	}

	if status == http.StatusUnauthorized && !req.SkipAuthRefresh {
		fresh, err := c.refresh(ctx, token)
		if err != nil {
			return c.withRequest(err, req)
		}
		status, body, err = c.send(ctx, req, payload, fresh)
		if err != nil {
			return c.networkError(ctx, req, err)
		}
		if status == http.StatusUnauthorized {
			// one refresh per request; a rejected replay ends the session
			c.expire(ctx, fresh, MsgSessionExpired)
			return &Error{Kind: KindAuthExpired, Status: status, Method: req.Method, Path: req.Path, Message: MsgSessionExpired}
		}
	}

	if status >= 200 && status < 300 {
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
		}
		return nil
	}
	return c.classify(req, status, body)
}

type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func (c *Client) classify(req Request, status int, body []byte) error {
	notifier := c.notifier
	if req.Silent {
		notifier = notify.Nop{}
	}
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	gwErr := &Error{Status: status, Method: req.Method, Path: req.Path, ServerMessage: eb.Message}
	switch {
	case status == http.StatusUnprocessableEntity:
		gwErr.Kind = KindValidation
		gwErr.Fields = eb.Errors
		gwErr.Message = eb.Message
		if gwErr.Message == "" {
			gwErr.Message = msgValidation
		}
		fields := make([]string, 0, len(eb.Errors))
		for field := range eb.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			for _, msg := range eb.Errors[field] {
				notify.Error(notifier, msg)
			}
		}
		return gwErr
	case status == http.StatusForbidden:
		gwErr.Kind = KindPermissionDenied
		gwErr.Message = MsgPermissionDenied
	case status >= 500:
		gwErr.Kind = KindServer
		gwErr.Message = MsgServerError
	default:
		gwErr.Kind = KindClient
		gwErr.Message = eb.Message
		if gwErr.Message == "" {
			gwErr.Message = MsgGeneric
		}
	}
	notify.Error(notifier, gwErr.Message)
	return gwErr
}

func (c *Client) networkError(ctx context.Context, req Request, err error) error {
	gwErr := &Error{Kind: KindNetwork, Method: req.Method, Path: req.Path, Message: MsgNetworkError, Err: err}
	// a caller that gave up does not need to be told the request failed
	if ctx.Err() == nil && !req.Silent {
		notify.Error(c.notifier, MsgNetworkError)
	}
	return gwErr
}

func (c *Client) withRequest(err error, req Request) error {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		cp := *gwErr
		cp.Method, cp.Path = req.Method, req.Path
		return &cp
	}
	return err
}

// send performs one HTTP exchange and returns the status and full body.
func (c *Client) send(ctx context.Context, req Request, payload []byte, accessToken string) (int, []byte, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequest(req.Method, 0, time.Since(start))
		c.logger.Warn().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("request failed")
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.ObserveRequest(req.Method, resp.StatusCode, elapsed)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("request")
	return resp.StatusCode, respBody, nil
}

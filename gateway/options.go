package gateway

import (
	"net/http"

	"github.com/jrsteele09/go-admin-console/internal/metrics"
	"github.com/jrsteele09/go-admin-console/nav"
	"github.com/jrsteele09/go-admin-console/notify"
	"github.com/rs/zerolog"
)

type Option func(*Client)

// WithHTTPClient replaces the default otelhttp-instrumented client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

func WithNavigator(n nav.Navigator) Option {
	return func(c *Client) {
		c.navigator = n
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Client) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRefreshPath overrides the token refresh endpoint, default /auth/refresh.
func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

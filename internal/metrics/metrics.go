package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Client holds the console's client-side collectors. A nil *Client is valid and records
// nothing, so components can take it as an optional dependency.
type Client struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	refreshTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// NewClient registers the collectors on reg.
func NewClient(reg prometheus.Registerer) *Client {
	factory := promauto.With(reg)
	return &Client{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_console_gateway_requests_total",
			Help: "Total number of gateway requests by method and response status",
		}, []string{"method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_console_gateway_request_duration_seconds",
			Help:    "Duration of gateway requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
		refreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_console_token_refresh_total",
			Help: "Count of access token refresh attempts by result",
		}, []string{"result"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_console_query_cache_lookups_total",
			Help: "Query cache lookups by resource and result",
		}, []string{"resource", "result"}),
	}
}

// ObserveRequest records a finished request. status 0 means the transport failed.
func (c *Client) ObserveRequest(method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.requestsTotal.WithLabelValues(method, label).Inc()
	c.requestDuration.WithLabelValues(method, label).Observe(duration.Seconds())
}

// ObserveRefresh records a refresh attempt with result "success" or "failure".
func (c *Client) ObserveRefresh(result string) {
	if c == nil {
		return
	}
	c.refreshTotal.WithLabelValues(result).Inc()
}

func (c *Client) ObserveCacheHit(resource string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(resource, "hit").Inc()
}

func (c *Client) ObserveCacheMiss(resource string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(resource, "miss").Inc()
}

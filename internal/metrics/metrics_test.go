package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-console/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientIsSafe(t *testing.T) {
	var c *metrics.Client
	c.ObserveRequest("GET", 200, time.Millisecond)
	c.ObserveRefresh("success")
	c.ObserveCacheHit("categories")
	c.ObserveCacheMiss("categories")
}

func TestClientCountsRequestsAndRefreshes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewClient(reg)

	c.ObserveRequest("GET", 200, time.Millisecond)
	c.ObserveRequest("GET", 0, time.Millisecond)
	c.ObserveRefresh("failure")

	count, err := testutil.GatherAndCount(reg, "admin_console_gateway_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "admin_console_token_refresh_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestServerMiddlewareRecordsStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := metrics.NewServer(reg)

	h := s.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	count, err := testutil.GatherAndCount(reg, "admin_mockapi_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

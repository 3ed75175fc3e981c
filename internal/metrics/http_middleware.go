package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Server instruments the mock API's handlers.
type Server struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func NewServer(reg prometheus.Registerer) *Server {
	factory := promauto.With(reg)
	return &Server{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_mockapi_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "pattern", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_mockapi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "pattern", "status"}),
	}
}

// Middleware instruments requests with Prometheus metrics
func (s *Server) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s == nil {
			next(w, r)
			return
		}
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(ww, r)
		status := strconv.Itoa(ww.status)
		pattern := r.Pattern
		if pattern == "" {
			pattern = r.URL.Path
		}
		s.httpRequestsTotal.WithLabelValues(r.Method, pattern, status).Inc()
		s.httpRequestDuration.WithLabelValues(r.Method, pattern, status).Observe(time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Package servertest runs the mock API on an httptest server.
package servertest

import (
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-admin-console/internal/config"
	"github.com/jrsteele09/go-admin-console/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// Config loads the environment defaults with ENV forced to TEST so route and seed
// logging stay quiet.
func Config(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("ENV", "TEST")
	cfg, err := config.New()
	require.NoError(t, err)
	return cfg
}

// New starts a seeded mock API and closes it when the test ends.
func New(t *testing.T, opts ...server.Option) (*httptest.Server, *server.Server) {
	t.Helper()
	opts = append([]server.Option{server.WithLogger(zerolog.Nop())}, opts...)
	srv, err := server.New(Config(t), server.NewInMemoryRepos(), opts...)
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, srv
}

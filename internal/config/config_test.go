package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-console/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaults(t *testing.T) {
	t.Setenv("STATE_DIR", "/tmp/console-state")

	c, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, "DEV", c.GetEnv())
	assert.Equal(t, "http://localhost:8080/api", c.GetAPIBaseURL())
	assert.Equal(t, config.TokenStoreFile, c.GetTokenStore())
	assert.Equal(t, filepath.Join("/tmp/console-state", "session.json"), c.GetTokenFile())
	assert.Equal(t, 5*time.Minute, c.GetQueryStaleTime())
	assert.Equal(t, 10*time.Minute, c.GetLookupStaleTime())
	assert.Equal(t, ":8080", c.GetPort())
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/v1/")
	t.Setenv("TOKEN_STORE", "Redis")
	t.Setenv("QUERY_STALE_TIME", "30s")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	c, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", c.GetAPIBaseURL())
	assert.Equal(t, config.TokenStoreRedis, c.GetTokenStore())
	assert.Equal(t, 30*time.Second, c.GetQueryStaleTime())
	assert.Equal(t, ":9090", c.GetPort())
	assert.True(t, c.GetAllowedOrigins().IsAllowedOrigin("https://b.example.com"))
}

func TestUnknownTokenStoreFallsBackToFile(t *testing.T) {
	assert.Equal(t, config.TokenStoreFile, config.Storage{TokenStore: "etcd"}.GetTokenStore())
}

package config

import (
	"fmt"
	"strings"
	"time"
)

type MockAPIConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
}

type MockAPI struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	JWTSecret          string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me-dev-secret-change-me"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"168h"`
}

var _ MockAPIConfig = MockAPI{}

func (m MockAPI) GetPort() string {
	port := m.Port
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (m MockAPI) GetJWTSecret() string {
	return m.JWTSecret
}

func (m MockAPI) GetAccessTokenExpiry() time.Duration {
	if m.AccessTokenExpiry <= 0 {
		return 15 * time.Minute
	}
	return m.AccessTokenExpiry
}

func (m MockAPI) GetRefreshTokenExpiry() time.Duration {
	if m.RefreshTokenExpiry <= 0 {
		return 7 * 24 * time.Hour
	}
	return m.RefreshTokenExpiry
}

func (MockAPI) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
	CacheConfig
	MockAPIConfig
	CorsConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetOTLPEndpoint() string
}

type mainConfig struct {
	EnvVars
	API
	Storage
	Cache
	MockAPI
	Cors
}

// New loads every configuration concern from the environment.
func New() (Config, error) {
	c := mainConfig{}
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("config.New parse env: %w", err)
	}
	return c, nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Token store backends
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreSQLite = "sqlite"
	TokenStoreMemory = "memory"
)

type StorageConfig interface {
	GetTokenStore() string
	GetStateDir() string
	GetTokenFile() string
	GetRedisURL() string
	GetRedisKeyPrefix() string
	GetSQLitePath() string
}

type Storage struct {
	TokenStore     string `env:"TOKEN_STORE" envDefault:"file"`
	StateDir       string `env:"STATE_DIR"`
	RedisURL       string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"admin-console:"`
	SQLitePath     string `env:"SQLITE_PATH"`
}

var _ StorageConfig = Storage{}

func (s Storage) GetTokenStore() string {
	switch backend := strings.ToLower(strings.TrimSpace(s.TokenStore)); backend {
	case TokenStoreRedis, TokenStoreSQLite, TokenStoreMemory:
		return backend
	default:
		return TokenStoreFile
	}
}

// GetStateDir defaults to ~/.admin-console
func (s Storage) GetStateDir() string {
	if s.StateDir != "" {
		return s.StateDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".admin-console"
	}
	return filepath.Join(home, ".admin-console")
}

func (s Storage) GetTokenFile() string {
	return filepath.Join(s.GetStateDir(), "session.json")
}

func (s Storage) GetRedisURL() string {
	return s.RedisURL
}

func (s Storage) GetRedisKeyPrefix() string {
	return s.RedisKeyPrefix
}

func (s Storage) GetSQLitePath() string {
	if s.SQLitePath != "" {
		return s.SQLitePath
	}
	return filepath.Join(s.GetStateDir(), "session.db")
}

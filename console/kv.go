package console

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-admin-console/internal/config"
	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/jrsteele09/go-admin-console/tokenstore/filekv"
	"github.com/jrsteele09/go-admin-console/tokenstore/rediskv"
	"github.com/jrsteele09/go-admin-console/tokenstore/sqlitekv"
)

func noClose() error { return nil }

// OpenKV opens the token store backend selected by TOKEN_STORE. The returned func
// releases the backend and is never nil.
func OpenKV(ctx context.Context, cfg config.StorageConfig) (tokenstore.KV, func() error, error) {
	switch cfg.GetTokenStore() {
	case config.TokenStoreMemory:
		return tokenstore.NewMemoryKV(), noClose, nil
	case config.TokenStoreRedis:
		kv, err := rediskv.Dial(ctx, cfg.GetRedisURL(), cfg.GetRedisKeyPrefix())
		if err != nil {
			return nil, noClose, fmt.Errorf("console.OpenKV redis: %w", err)
		}
		return kv, kv.Close, nil
	case config.TokenStoreSQLite:
		path := cfg.GetSQLitePath()
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return nil, noClose, fmt.Errorf("console.OpenKV create state dir: %w", err)
			}
		}
		kv, err := sqlitekv.Open(path)
		if err != nil {
			return nil, noClose, fmt.Errorf("console.OpenKV sqlite: %w", err)
		}
		return kv, kv.Close, nil
	default:
		return filekv.New(cfg.GetTokenFile()), noClose, nil
	}
}

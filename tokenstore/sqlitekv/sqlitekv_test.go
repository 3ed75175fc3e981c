package sqlitekv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/jrsteele09/go-admin-console/tokenstore/kvtest"
	"github.com/jrsteele09/go-admin-console/tokenstore/sqlitekv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *sqlitekv.Store {
	t.Helper()
	store, err := sqlitekv.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteKVContract(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) tokenstore.KV {
		return openStore(t, ":memory:")
	})
}

func TestValuesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := sqlitekv.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.SetMany(ctx, map[string]string{"admin_token": "x"}))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	got, err := second.GetMany(ctx, []string{"admin_token"})
	require.NoError(t, err)
	assert.Equal(t, "x", got["admin_token"])
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlitekv.Open("  ")
	assert.Error(t, err)
}

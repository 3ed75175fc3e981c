package filekv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/jrsteele09/go-admin-console/tokenstore/filekv"
	"github.com/jrsteele09/go-admin-console/tokenstore/kvtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKVContract(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) tokenstore.KV {
		return filekv.New(filepath.Join(t.TempDir(), "state", "session.json"))
	})
}

func TestFileIsPrivate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	kv := filekv.New(path)
	require.NoError(t, kv.SetMany(context.Background(), map[string]string{"admin_token": "x"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCorruptFileReadsAsErrorAndIsReplacedOnWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	kv := filekv.New(path)

	_, err := kv.GetMany(ctx, []string{"admin_token"})
	assert.Error(t, err)
	assert.Nil(t, tokenstore.New(kv).Load(ctx).Token)

	require.NoError(t, kv.SetMany(ctx, map[string]string{"admin_token": "x"}))
	got, err := kv.GetMany(ctx, []string{"admin_token"})
	require.NoError(t, err)
	assert.Equal(t, "x", got["admin_token"])
}

func TestDeletingLastKeyRemovesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	kv := filekv.New(path)
	require.NoError(t, kv.SetMany(ctx, map[string]string{"admin_token": "x"}))
	require.NoError(t, kv.DeleteMany(ctx, []string{"admin_token"}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

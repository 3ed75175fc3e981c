// Package kvtest holds the behaviour every tokenstore.KV backend must share.
package kvtest

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh backend returned by newKV.
func Run(t *testing.T, newKV func(t *testing.T) tokenstore.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing keys are omitted", func(t *testing.T) {
		kv := newKV(t)
		got, err := kv.GetMany(ctx, []string{"a", "b"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("set then get", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.SetMany(ctx, map[string]string{"a": "1", "b": "2"}))
		require.NoError(t, kv.SetMany(ctx, map[string]string{"b": "3"}))

		got, err := kv.GetMany(ctx, []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "1", "b": "3"}, got)
	})

	t.Run("delete removes only named keys", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.SetMany(ctx, map[string]string{"a": "1", "b": "2", "c": "3"}))
		require.NoError(t, kv.DeleteMany(ctx, []string{"a", "b", "missing"}))

		got, err := kv.GetMany(ctx, []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"c": "3"}, got)
	})

	t.Run("store round trip", func(t *testing.T) {
		store := tokenstore.New(newKV(t))
		rec := SampleRecord()
		require.NoError(t, store.Save(ctx, rec))

		loaded := store.Load(ctx)
		assert.Equal(t, rec.AccessToken(), loaded.AccessToken())
		assert.Equal(t, rec.RefreshToken(), loaded.RefreshToken())
		assert.Equal(t, rec.Permissions, loaded.Permissions)
		assert.Equal(t, rec.UserType, loaded.UserType)
		require.NotNil(t, loaded.User)
		assert.Equal(t, rec.User.Email, loaded.User.Email)

		require.NoError(t, store.Clear(ctx))
		cleared := store.Load(ctx)
		assert.Nil(t, cleared.Token)
		assert.Nil(t, cleared.User)
		assert.Empty(t, cleared.Permissions)
	})
}

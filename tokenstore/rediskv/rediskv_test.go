package rediskv_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/jrsteele09/go-admin-console/tokenstore/kvtest"
	"github.com/jrsteele09/go-admin-console/tokenstore/rediskv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *rediskv.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rediskv.New(rdb, "test:")
}

func TestRedisKVContract(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) tokenstore.KV {
		_, kv := setupRedis(t)
		return kv
	})
}

func TestKeysArePrefixed(t *testing.T) {
	mr, kv := setupRedis(t)
	require.NoError(t, kv.SetMany(context.Background(), map[string]string{"admin_token": "x"}))

	got, err := mr.Get("test:admin_token")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.False(t, mr.Exists("admin_token"))
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)
	kv, err := rediskv.Dial(context.Background(), "redis://"+mr.Addr(), "p:")
	require.NoError(t, err)
	defer kv.Close()

	_, err = rediskv.Dial(context.Background(), "not a url", "p:")
	assert.Error(t, err)
}

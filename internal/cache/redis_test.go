package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis(t *testing.T) {
	t.Run("empty address disables redis", func(t *testing.T) {
		assert.Nil(t, InitRedis(""))
		assert.Nil(t, InitRedis("   "))
	})

	t.Run("invalid url", func(t *testing.T) {
		assert.Nil(t, InitRedis("redis://:bad port"))
	})

	t.Run("unreachable server", func(t *testing.T) {
		assert.Nil(t, InitRedis("127.0.0.1:1"))
	})

	t.Run("url form", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := InitRedis("redis://" + mr.Addr() + "/0")
		require.NotNil(t, rdb)
		t.Cleanup(func() { _ = rdb.Close() })
		assert.NoError(t, rdb.Ping(context.Background()).Err())
	})

	t.Run("host port form", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := InitRedis(mr.Addr())
		require.NotNil(t, rdb)
		require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
		assert.True(t, mr.Exists("k"))
		assert.NoError(t, rdb.Close())
	})
}

func TestAuthKey(t *testing.T) {
	assert.Equal(t, "auth:token:abc123", AuthKey("abc123"))
}

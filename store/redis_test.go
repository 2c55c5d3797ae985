package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/reckit-movies/core"
)

// 需要真实 Redis：MOVIEREC_TEST_REDIS_ADDR=localhost:6379 go test ./store/...
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MOVIEREC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MOVIEREC_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(addr, 15)
	require.NoError(t, err)
	defer s.Close()

	key := "movierec:test:" + t.Name()
	defer s.Delete(ctx, key)

	_, err = s.Get(ctx, key)
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.Set(ctx, key, []byte("v"), 60))
	v, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))

	zkey := key + ":z"
	defer s.Delete(ctx, zkey)
	require.NoError(t, s.ZAdd(ctx, zkey, 1, "a"))
	require.NoError(t, s.ZAdd(ctx, zkey, 2, "b"))
	members, err := s.ZRange(ctx, zkey, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, members)
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T) (*SendGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSendGuard(rdb, time.Hour), mr
}

func TestSendGuard_AcquireOnce(t *testing.T) {
	g, mr := newTestGuard(t)
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "reminder:1:2025-04-13")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("minbar:sent:reminder:1:2025-04-13"))

	ok, err = g.Acquire(ctx, "reminder:1:2025-04-13")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.Acquire(ctx, "reminder:2:2025-04-13")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSendGuard_ReleaseAllowsRetry(t *testing.T) {
	g, _ := newTestGuard(t)
	ctx := context.Background()

	_, err := g.Acquire(ctx, "roster:4:2025-04-13")
	require.NoError(t, err)
	require.NoError(t, g.Release(ctx, "roster:4:2025-04-13"))

	ok, err := g.Acquire(ctx, "roster:4:2025-04-13")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSendGuard_Expires(t *testing.T) {
	g, mr := newTestGuard(t)
	ctx := context.Background()

	_, err := g.Acquire(ctx, "digest:4:2025-04-12")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL("minbar:sent:digest:4:2025-04-12"))

	mr.FastForward(2 * time.Hour)
	ok, err := g.Acquire(ctx, "digest:4:2025-04-12")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSendGuard_DefaultTTL(t *testing.T) {
	g := NewSendGuard(nil, 0)
	assert.Equal(t, DefaultGuardTTL, g.ttl)
}

func TestSendGuard_ServerDown(t *testing.T) {
	g, mr := newTestGuard(t)
	mr.Close()

	_, err := g.Acquire(context.Background(), "reminder:1:2025-04-13")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr(), "", "")
	t.Cleanup(func() { _ = Rdb.Close() })

	assert.NoError(t, Ping(context.Background()))
}

package rediscache

import (
	"context"
	"strconv"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisCache_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewFromClient(newClient(mr))

	ctx := context.Background()
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	b, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), b)
}

func TestRedisCache_TTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewFromClient(newClient(mr))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "courier_data_x", []byte(`{}`), time.Hour))
	mr.FastForward(time.Hour + time.Second)

	_, ok, err := c.Get(ctx, "courier_data_x")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCache_NonPositiveTTLNotStored(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewFromClient(newClient(mr))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.False(t, mr.Exists("k"))
}

func TestRedisCache_GetError(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewFromClient(newClient(mr))
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	require.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	c, err := Connect(context.Background(), addr)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	mr.Close()
	_, err = Connect(context.Background(), addr)
	require.Error(t, err)
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := NewRateLimiterFromClient(newClient(mr))
	clock := time.Date(2025, 1, 1, 10, 0, 5, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	ctx := context.Background()
	ok, n, err := rl.Allow(ctx, "courier:abc", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), n)

	ok, n, _ = rl.Allow(ctx, "courier:abc", 2, time.Minute)
	require.True(t, ok)
	require.Equal(t, int64(2), n)

	clock = clock.Add(50 * time.Second)
	ok, n, _ = rl.Allow(ctx, "courier:abc", 2, time.Minute)
	require.False(t, ok)
	require.Equal(t, int64(3), n)

	// другой субъект считается отдельно
	ok, _, _ = rl.Allow(ctx, "courier:def", 2, time.Minute)
	require.True(t, ok)

	// следующее окно
	clock = clock.Add(10 * time.Second)
	ok, n, _ = rl.Allow(ctx, "courier:abc", 2, time.Minute)
	require.True(t, ok)
	require.Equal(t, int64(1), n)

	require.True(t, mr.Exists("ratelimit:courier:abc:"+strconv.FormatInt(clock.Truncate(time.Minute).Unix(), 10)))
	mr.FastForward(time.Minute + time.Second)
	require.Empty(t, mr.Keys())
}

func TestRateLimiter_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := NewRateLimiterFromClient(newClient(mr))
	mr.Close()

	_, _, err := rl.Allow(context.Background(), "x", 1, time.Minute)
	require.Error(t, err)
}

func TestCursor_LoadStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cur := NewCursor(newClient(mr), "")
	ctx := context.Background()

	n, err := cur.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	require.NoError(t, cur.Store(ctx, 3))
	n, err = cur.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	v, err := mr.Get(DefaultCursorKey)
	require.NoError(t, err)
	require.Equal(t, "3", v)

	// мусор в ключе читается как 0
	require.NoError(t, mr.Set(DefaultCursorKey, "abc"))
	n, err = cur.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

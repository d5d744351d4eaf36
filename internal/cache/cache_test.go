package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestNewRedisClient(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: srv.Addr()})
	require.NoError(t, err)
	_ = client.Close()

	srv.RequireAuth("secret")
	_, err = NewRedisClient(context.Background(), config.RedisConfig{Addr: srv.Addr(), Password: "wrong"})
	assert.Error(t, err)
}

func TestPendingUploads_TakeExpired(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	pending := NewPendingUploads(client)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pending.now = func() time.Time { return start }
	require.NoError(t, pending.Track(ctx, "uploads/old.png"))
	require.NoError(t, pending.Track(ctx, "uploads/claimed.png"))

	pending.now = func() time.Time { return start.Add(23 * time.Hour) }
	require.NoError(t, pending.Track(ctx, "uploads/fresh.png"))
	require.NoError(t, pending.Claim(ctx, "uploads/claimed.png", "uploads/unknown.png"))

	pending.now = func() time.Time { return start.Add(25 * time.Hour) }
	taken, err := pending.TakeExpired(ctx, 24*time.Hour, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/old.png"}, taken)

	taken, err = pending.TakeExpired(ctx, 24*time.Hour, 100)
	require.NoError(t, err)
	assert.Empty(t, taken)

	left, err := client.ZRange(ctx, pendingUploadsKey, 0, -1).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/fresh.png"}, left)
}

func TestLoginThrottle(t *testing.T) {
	ctx := context.Background()
	srv, client := newTestRedis(t)
	throttle := NewLoginThrottle(client, 3, 15*time.Minute)
	subject := "alice@example.com|10.0.0.1"

	for i := 0; i < 3; i++ {
		ok, err := throttle.Allowed(ctx, subject)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, throttle.Fail(ctx, subject))
	}

	ok, err := throttle.Allowed(ctx, subject)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := throttle.Allowed(ctx, "bob@example.com|10.0.0.1")
	require.NoError(t, err)
	assert.True(t, other)

	srv.FastForward(16 * time.Minute)
	ok, err = throttle.Allowed(ctx, subject)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, throttle.Fail(ctx, subject))
	require.NoError(t, throttle.Reset(ctx, subject))
	assert.False(t, srv.Exists(throttleKey(subject)))
}

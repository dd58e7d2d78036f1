package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{
		Addr: server.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return server, client
}

func TestRedis_GetSet(t *testing.T) {
	server, client := newTestRedis(t)
	r := NewRedis(client, "")
	ctx := context.Background()

	_, err := r.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, r.Set(ctx, "client", []byte("state"), time.Minute))

	value, err := r.Get(ctx, "client")
	assert.NoError(t, err)
	assert.Equal(t, []byte("state"), value)

	// Keys live under the default prefix, with the TTL applied.
	assert.True(t, server.Exists("limiter:client"))
	assert.Equal(t, time.Minute, server.TTL("limiter:client"))
}

func TestRedis_CustomPrefix(t *testing.T) {
	server, client := newTestRedis(t)
	r := NewRedis(client, "admission:")
	ctx := context.Background()

	assert.NoError(t, r.Set(ctx, "client", []byte("state"), time.Minute))
	assert.True(t, server.Exists("admission:client"))
	assert.False(t, server.Exists("limiter:client"))
}

func TestRedis_Expiry(t *testing.T) {
	server, client := newTestRedis(t)
	r := NewRedis(client, "")
	ctx := context.Background()

	assert.NoError(t, r.Set(ctx, "client", []byte("state"), time.Minute))

	server.FastForward(59 * time.Second)
	_, err := r.Get(ctx, "client")
	assert.NoError(t, err)

	server.FastForward(2 * time.Second)
	_, err = r.Get(ctx, "client")
	assert.ErrorIs(t, err, ErrNotFound)
}

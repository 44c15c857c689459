package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivahdesk/leadbot/backend/internal/model/lead"
	"github.com/vivahdesk/leadbot/backend/internal/store"
)

func newRedisStore(t *testing.T, opts ...store.RedisOption) (*store.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	st := store.NewRedisStoreFromClient(client, opts...)
	t.Cleanup(func() { st.Close() })
	return st, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	st, _ := newRedisStore(t)
	ctx := context.Background()

	s, created, err := st.GetOrCreate(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, lead.StepAskName, s.Step)

	s.Name = "Ananya"
	s.Step = lead.StepAskEventType
	require.NoError(t, st.Put(ctx, s))

	got, created, err := st.GetOrCreate(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Ananya", got.Name)
	assert.Equal(t, lead.StepAskEventType, got.Step)
}

func TestRedisStoreExpiry(t *testing.T) {
	st, mr := newRedisStore(t, store.WithRedisTTL(10*time.Minute))
	ctx := context.Background()

	s, _, err := st.GetOrCreate(ctx, "abc")
	require.NoError(t, err)
	s.Name = "Ananya"
	require.NoError(t, st.Put(ctx, s))

	mr.FastForward(11 * time.Minute)

	got, created, err := st.GetOrCreate(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, created, "expired session should be recreated fresh")
	assert.Empty(t, got.Name)
	assert.Equal(t, lead.StepAskName, got.Step)
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	st, mr := newRedisStore(t, store.WithRedisPrefix("custom:"))
	ctx := context.Background()

	_, _, err := st.GetOrCreate(ctx, "abc")
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:abc"))
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type category struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func newTestService(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client), mr
}

func TestGetMissReturnsSentinel(t *testing.T) {
	svc, _ := newTestService(t)

	var dest category
	err := svc.Get(context.Background(), "nothing-here", &dest)

	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSetThenGet(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", category{Code: "GYMW", Description: "Gym - Weights"}, time.Minute))

	var dest category
	require.NoError(t, svc.Get(ctx, "k", &dest))
	assert.Equal(t, "GYMW", dest.Code)
	assert.True(t, svc.Exists(ctx, "k"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, svc.Exists(ctx, "k"))
}

func TestGetOrSetOnlyFetchesOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	calls := 0
	fetcher := func(ctx context.Context) (interface{}, error) {
		calls++
		return []category{{Code: "CHAP", Description: "Chaplaincy"}}, nil
	}

	var first, second []category
	require.NoError(t, svc.GetOrSet(ctx, "categories", time.Hour, fetcher, &first))
	require.NoError(t, svc.GetOrSet(ctx, "categories", time.Hour, fetcher, &second))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "Chaplaincy", second[0].Description)
}

func TestGetOrSetPropagatesFetcherError(t *testing.T) {
	svc, _ := newTestService(t)
	boom := errors.New("api down")

	var dest []category
	err := svc.GetOrSet(context.Background(), "categories", time.Hour, func(ctx context.Context) (interface{}, error) {
		return nil, boom
	}, &dest)

	assert.ErrorIs(t, err, boom)
}

func TestDeletePattern(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Set(ctx, "activities:locations:MDI", 1, time.Hour))
	require.NoError(t, svc.Set(ctx, "activities:locations:RSI", 1, time.Hour))
	require.NoError(t, svc.Set(ctx, "activities:categories", 1, time.Hour))

	require.NoError(t, svc.DeletePattern(ctx, "activities:locations:*"))

	assert.False(t, svc.Exists(ctx, "activities:locations:MDI"))
	assert.False(t, svc.Exists(ctx, "activities:locations:RSI"))
	assert.True(t, svc.Exists(ctx, "activities:categories"))
}

func TestTTL(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Set(ctx, "activities:reference:rollout:MDI", true, time.Hour))

	ttl, err := svc.TTL(ctx, "activities:reference:rollout:MDI")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	mr.FastForward(90 * time.Minute)
	_, err = svc.TTL(ctx, "activities:reference:rollout:MDI")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

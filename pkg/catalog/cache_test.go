package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingSource struct {
	calls atomic.Int32
	resp  *SearchResponse
	err   error
}

func (s *countingSource) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	s.calls.Add(1)
	return s.resp, s.err
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := NewCache(NewRedisClient(mr.Addr(), "", 0), "test:search:")
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestCachedSourceServesRepeats(t *testing.T) {
	cache, mr := newTestCache(t)
	src := &countingSource{resp: &SearchResponse{Success: true, Products: []RemoteProduct{{Id: "1"}}}}
	cached := NewCachedSource(src, cache, time.Minute, zaptest.NewLogger(t))
	params := SearchParams{Route: RouteSearch, Keywords: "tv", Page: 1}

	for range 3 {
		resp, err := cached.Search(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "1", resp.Products[0].Id)
	}
	assert.Equal(t, int32(1), src.calls.Load())

	key, err := CacheKey(params)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:search:"+key))
}

func TestCachedSourceSkipsUnsuccessful(t *testing.T) {
	cache, _ := newTestCache(t)
	src := &countingSource{resp: &SearchResponse{Success: false, Message: "throttled"}}
	cached := NewCachedSource(src, cache, time.Minute, nil)

	for range 2 {
		_, err := cached.Search(context.Background(), SearchParams{Route: RouteSample})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCachedSourcePassesErrors(t *testing.T) {
	cache, _ := newTestCache(t)
	boom := errors.New("boom")
	cached := NewCachedSource(&countingSource{err: boom}, cache, time.Minute, nil)
	_, err := cached.Search(context.Background(), SearchParams{Route: RouteSample})
	assert.ErrorIs(t, err, boom)
}

func TestCacheInvalidate(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "a", SearchResponse{Success: true}, time.Minute))
	require.NoError(t, cache.Set(ctx, "b", SearchResponse{Success: true}, time.Minute))
	mr.Set("other:key", "kept")

	n, err := cache.Invalidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("other:key"))

	var out SearchResponse
	assert.ErrorIs(t, cache.Get(ctx, "a", &out), ErrCacheMiss)
}

func TestCacheKeyDiffersByRoute(t *testing.T) {
	a, err := CacheKey(SearchParams{Route: RouteCategory, Category: "books", Page: 1})
	require.NoError(t, err)
	b, err := CacheKey(SearchParams{Route: RouteCategory, Category: "sports", Page: 1})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCacheDropsExpiredLocalEntries(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	cache.memCache["test:search:old"] = LocalEntry{Expires: time.Now().Add(-time.Second), Data: []byte(`{}`)}

	require.NoError(t, cache.Set(ctx, "new", map[string]int{"n": 1}, time.Minute))

	cache.mu.RLock()
	_, stale := cache.memCache["test:search:old"]
	_, fresh := cache.memCache["test:search:new"]
	size := len(cache.memCache)
	cache.mu.RUnlock()
	assert.False(t, stale)
	assert.True(t, fresh)
	assert.Equal(t, 1, size)

	mr.FastForward(2 * time.Minute)
	var out map[string]int
	require.NoError(t, cache.Get(ctx, "new", &out), "fresh local copy outlives redis expiry")
	assert.Equal(t, 1, out["n"])
}

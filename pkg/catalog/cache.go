package catalog

import (
	"context"
	"errors"
	"maps"
	"net/url"
	"sync"
	"time"

	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/logging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

type LocalEntry struct {
	Expires time.Time
	Data    []byte
}

// Cache keeps JSON values in redis with a short lived local copy in front.
type Cache struct {
	client   *redis.Client
	prefix   string
	localTTL time.Duration
	mu       sync.RWMutex
	memCache map[string]LocalEntry
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewCache(client *redis.Client, prefix string) *Cache {
	return &Cache{
		client:   client,
		prefix:   prefix,
		localTTL: time.Minute,
		memCache: make(map[string]LocalEntry),
	}
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	key = c.prefix + key
	c.mu.RLock()
	local, found := c.memCache[key]
	c.mu.RUnlock()
	if found {
		if time.Now().Before(local.Expires) {
			return jsoncompat.Unmarshal(local.Data, out)
		}
		c.mu.Lock()
		delete(c.memCache, key)
		c.mu.Unlock()
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err := jsoncompat.Unmarshal(data, out); err != nil {
		return err
	}
	c.remember(key, data, c.localTTL)
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	key = c.prefix + key
	data, err := jsoncompat.Marshal(value)
	if err != nil {
		return err
	}
	c.remember(key, data, min(expiration, c.localTTL))
	return c.client.Set(ctx, key, data, expiration).Err()
}

// Invalidate drops every key under the cache prefix.
func (c *Cache) Invalidate(ctx context.Context) (int, error) {
	c.mu.Lock()
	c.memCache = make(map[string]LocalEntry)
	c.mu.Unlock()

	deleted := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, iter.Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// remember stores a local copy and drops the expired ones, so the map only
// holds keys seen within the last localTTL.
func (c *Cache) remember(key string, data []byte, ttl time.Duration) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.DeleteFunc(c.memCache, func(_ string, e LocalEntry) bool {
		return !now.Before(e.Expires)
	})
	c.memCache[key] = LocalEntry{Expires: now.Add(ttl), Data: data}
}

// CacheKey identifies a search by its route and encoded parameters.
func CacheKey(params SearchParams) (string, error) {
	values := url.Values{}
	if err := encoder.Encode(params, values); err != nil {
		return "", err
	}
	return string(params.Route) + ":" + params.Category + "?" + values.Encode(), nil
}

// CachedSource serves successful search responses from the cache. Failed
// and unsuccessful responses always go to the wrapped source.
type CachedSource struct {
	source Source
	cache  *Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedSource(source Source, cache *Cache, ttl time.Duration, logger *zap.Logger) *CachedSource {
	return &CachedSource{source: source, cache: cache, ttl: ttl, logger: logging.OrNop(logger)}
}

func (s *CachedSource) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	key, err := CacheKey(params)
	if err != nil {
		return s.source.Search(ctx, params)
	}
	var cached SearchResponse
	err = s.cache.Get(ctx, key, &cached)
	if err == nil {
		cacheHits.Inc()
		return &cached, nil
	}
	cacheMisses.Inc()
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
	}

	resp, err := s.source.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp.Success && len(resp.Products) > 0 {
		if err := s.cache.Set(ctx, key, resp, s.ttl); err != nil {
			s.logger.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return resp, nil
}

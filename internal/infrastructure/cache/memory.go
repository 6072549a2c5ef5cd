package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxEntries bounds a memory cache built without WithMaxEntries.
const DefaultMaxEntries = 1024

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// memoryCache is an in-process LRU with per-entry expiry.  The least recently
// used entry is evicted once the cache is full; expired entries are dropped
// when read.
type memoryCache struct {
	entries      *lru.Cache[string, memoryEntry]
	defaultTTL   time.Duration
	nullCacheTTL time.Duration
	serializer   Serializer
	group        singleflight.Group
	now          func() time.Time
}

// WithMaxEntries bounds the memory cache to n entries.  Non-positive values
// use DefaultMaxEntries.  Redis caches ignore it.
func WithMaxEntries(n int) Option {
	return func(c *redisCache) { c.maxEntries = n }
}

// NewMemoryCache returns a Cache held in process memory.  The TTL, null-TTL,
// serializer and max-entries options apply.
func NewMemoryCache(opts ...Option) Cache {
	cfg := &redisCache{
		defaultTTL:   time.Hour,
		nullCacheTTL: 30 * time.Second,
		serializer:   jsonSerializer{},
		maxEntries:   DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxEntries <= 0 {
		cfg.maxEntries = DefaultMaxEntries
	}
	// lru.New fails only for a non-positive size.
	entries, _ := lru.New[string, memoryEntry](cfg.maxEntries)
	return &memoryCache{
		entries:      entries,
		defaultTTL:   cfg.defaultTTL,
		nullCacheTTL: cfg.nullCacheTTL,
		serializer:   cfg.serializer,
		now:          time.Now,
	}
}

func (c *memoryCache) lookup(key string) ([]byte, bool) {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if e.expired(c.now()) {
		c.entries.Remove(key)
		return nil, false
	}
	return e.data, true
}

func (c *memoryCache) store(key string, data []byte, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries.Add(key, memoryEntry{data: data, expiresAt: exp})
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := c.lookup(key)
	if !ok || string(data) == nullMarker {
		return ErrCacheMiss
	}
	if err := c.serializer.Unmarshal(data, dest); err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	return nil
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	c.store(key, data, ttl)
	return nil
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader Loader) error {
	err := c.Get(ctx, key, dest)
	if err != ErrCacheMiss {
		return err
	}
	if data, ok := c.lookup(key); ok && string(data) == nullMarker {
		return ErrCacheMiss
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if v == nil {
			c.store(key, []byte(nullMarker), c.nullCacheTTL)
			return nil, nil
		}
		if setErr := c.Set(ctx, key, v, ttl); setErr != nil {
			return nil, setErr
		}
		return v, nil
	})
	if err != nil {
		return err
	}
	if val == nil {
		return ErrCacheMiss
	}
	return decodeInto(c.serializer, val, dest)
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.entries.Remove(k)
	}
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }

//Personal.AI order the ending

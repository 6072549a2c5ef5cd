package render

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/turtacn/ReactionLab/internal/infrastructure/cache"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
)

// CacheObserver receives render-cache hit and miss notifications.
type CacheObserver interface {
	ObserveCacheHit(name string)
	ObserveCacheMiss(name string)
}

const cacheName = "render"

// CachedRenderer memoises drawings through a cache.Cache.  Cache failures
// are logged and the structure is drawn directly.
type CachedRenderer struct {
	inner    *Renderer
	cache    cache.Cache
	ttl      time.Duration
	logger   logging.Logger
	observer CacheObserver
}

// CachedOption configures a CachedRenderer.
type CachedOption func(*CachedRenderer)

// WithCacheObserver reports hits and misses to o.
func WithCacheObserver(o CacheObserver) CachedOption {
	return func(r *CachedRenderer) { r.observer = o }
}

// NewCachedRenderer wraps inner with c.  A zero ttl uses the cache default.
func NewCachedRenderer(inner *Renderer, c cache.Cache, ttl time.Duration, log logging.Logger, opts ...CachedOption) *CachedRenderer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	r := &CachedRenderer{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		logger: log.Named("render"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the cache key for input at the inner renderer's size.
func (r *CachedRenderer) Key(input string) string {
	w, h := r.inner.Size()
	sum := sha256.Sum256([]byte(fmt.Sprintf("%dx%d|%s", w, h, input)))
	return "svg:" + hex.EncodeToString(sum[:16])
}

// Render returns the cached drawing for input, drawing and storing it on a
// miss.
func (r *CachedRenderer) Render(ctx context.Context, input string) string {
	var out string
	loaded := false
	err := r.cache.GetOrSet(ctx, r.Key(input), &out, r.ttl, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return r.inner.Render(ctx, input), nil
	})
	if err != nil {
		r.logger.Warn("render cache unavailable, drawing directly",
			logging.String("input", input), logging.Err(err))
		return r.inner.Render(ctx, input)
	}
	if r.observer != nil {
		if loaded {
			r.observer.ObserveCacheMiss(cacheName)
		} else {
			r.observer.ObserveCacheHit(cacheName)
		}
	}
	return out
}

//Personal.AI order the ending

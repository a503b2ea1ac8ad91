package tom

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CacheConfig configures the caching behavior of a CachedLoader.
type CacheConfig struct {
	// TTL is how long cached templates remain valid.
	// Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached templates.
	// When exceeded, the least recently used entry is evicted.
	// Default: 1000.
	MaxEntries int
}

// DefaultCacheConfig returns the default caching configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:        DefaultCacheTTL,
		MaxEntries: DefaultCacheMaxEntries,
	}
}

// CachedLoader wraps any Loader with an in-memory cache. Concurrent misses
// for the same name share a single load of the underlying loader. Failed
// loads are not cached.
type CachedLoader struct {
	loader Loader
	config CacheConfig
	logger *zap.Logger
	now    func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]*cacheEntry
}

// cacheEntry represents a cached template.
type cacheEntry struct {
	source     Source
	cachedAt   time.Time
	accessedAt time.Time
}

// NewCachedLoader wraps loader with caching.
func NewCachedLoader(loader Loader, config CacheConfig, logger *zap.Logger) *CachedLoader {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLoader{
		loader: loader,
		config: config,
		logger: logger,
		now:    time.Now,
		cache:  make(map[string]*cacheEntry),
	}
}

// Load returns the cached template or loads it from the wrapped loader.
func (c *CachedLoader) Load(ctx context.Context, name string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if src, ok := c.lookup(name); ok {
		c.logger.Debug(LogMsgCacheHit, zap.String(LogFieldTemplate, name))
		return src, nil
	}
	c.logger.Debug(LogMsgCacheMiss, zap.String(LogFieldTemplate, name))

	// The shared load outlives any single caller; each caller still stops
	// waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(name, func() (any, error) {
		src, err := c.loader.Load(loadCtx, name)
		if err != nil {
			return nil, err
		}
		c.store(name, *src)
		return *src, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		src := res.Val.(Source)
		return &src, nil
	}
}

// Invalidate removes a template from the cache.
func (c *CachedLoader) Invalidate(name string) {
	c.mu.Lock()
	delete(c.cache, name)
	c.mu.Unlock()
}

// Clear empties the cache.
func (c *CachedLoader) Clear() {
	c.mu.Lock()
	c.cache = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of cached entries, including expired ones not yet
// evicted.
func (c *CachedLoader) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

func (c *CachedLoader) lookup(name string) (*Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.cache[name]
	if !ok {
		return nil, false
	}
	now := c.now()
	if now.Sub(entry.cachedAt) >= c.config.TTL {
		delete(c.cache, name)
		return nil, false
	}
	entry.accessedAt = now
	src := entry.source
	return &src, true
}

func (c *CachedLoader) store(name string, src Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[name]; !exists && len(c.cache) >= c.config.MaxEntries {
		c.evictOldest()
	}
	now := c.now()
	c.cache[name] = &cacheEntry{
		source:     src,
		cachedAt:   now,
		accessedAt: now,
	}
}

// evictOldest removes the least recently accessed entry.
// Caller must hold the lock.
func (c *CachedLoader) evictOldest() {
	var oldestKey string
	var oldest *cacheEntry
	for key, entry := range c.cache {
		if oldest == nil || entry.accessedAt.Before(oldest.accessedAt) {
			oldestKey, oldest = key, entry
		}
	}
	if oldest != nil {
		delete(c.cache, oldestKey)
		c.logger.Debug(LogMsgCacheEvicted, zap.String(LogFieldTemplate, oldestKey))
	}
}

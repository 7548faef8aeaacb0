// Package cache provides a small thread-safe in-memory cache with TTL
// expiry and a bounded size.
package cache

import (
	"sync"
	"time"
)

// Config holds cache settings
type Config struct {
	MaxItems int           // Entries kept before the oldest is evicted (default: 1000)
	TTL      time.Duration // Lifetime of an entry, 0 = never expires
	// CleanupInterval enables a background sweep of expired entries.
	// Stop it with Close.
	CleanupInterval time.Duration
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		MaxItems: 1000,
		TTL:      10 * time.Minute,
	}
}

type entry[V any] struct {
	value    V
	storedAt time.Time
	expires  time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// Stats is a snapshot of cache counters
type Stats struct {
	Size    int
	Hits    int64
	Misses  int64
	HitRate float64 // percent
}

// Cache maps keys to values of type V
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	items    map[K]*entry[V]
	maxItems int
	ttl      time.Duration
	now      func() time.Time

	hits   int64
	misses int64

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultConfig().MaxItems
	}
	c := &Cache[K, V]{
		items:    make(map[K]*entry[V], cfg.MaxItems),
		maxItems: cfg.MaxItems,
		ttl:      cfg.TTL,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 {
		go c.cleanupLoop(cfg.CleanupInterval)
	}
	return c
}

// Get returns the value for key if present and not expired
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok || e.expired(c.now()) {
		if ok {
			delete(c.items, key)
		}
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores value under key, evicting the oldest entry when full
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictLocked(now)
	}

	e := &entry[V]{value: value, storedAt: now}
	if c.ttl > 0 {
		e.expires = now.Add(c.ttl)
	}
	c.items[key] = e
}

// GetOrSet returns the cached value or computes and stores it. fn runs
// without the lock held, so concurrent misses may compute twice.
func (c *Cache[K, V]) GetOrSet(key K, fn func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := fn()
	c.Set(key, v)
	return v
}

// Clear removes all entries and resets the counters
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*entry[V], c.maxItems)
	c.hits, c.misses = 0, 0
}

// Stats returns the current counters
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Size: len(c.items), Hits: c.hits, Misses: c.misses}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total) * 100
	}
	return s
}

// Close stops the background cleanup. The cache stays usable.
func (c *Cache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// evictLocked drops expired entries, or the oldest one if none expired
func (c *Cache[K, V]) evictLocked(now time.Time) {
	if c.removeExpiredLocked(now) > 0 {
		return
	}

	var oldestKey K
	var oldest time.Time
	found := false
	for key, e := range c.items {
		if !found || e.storedAt.Before(oldest) {
			oldestKey, oldest, found = key, e.storedAt, true
		}
	}
	if found {
		delete(c.items, oldestKey)
	}
}

func (c *Cache[K, V]) removeExpiredLocked(now time.Time) int {
	removed := 0
	for key, e := range c.items {
		if e.expired(now) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

func (c *Cache[K, V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.removeExpiredLocked(c.now())
			c.mu.Unlock()
		}
	}
}

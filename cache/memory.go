package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

const (
	// DefaultMaxEntries bounds a MemoryCache built by NewMemoryCache.
	DefaultMaxEntries = 1024
	sweepInterval     = time.Minute
)

type entry struct {
	data    []byte
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryCache keeps up to maxEntries entries in a map. A non-positive
// ttl never expires. When the cache is full, expired entries are swept
// first, then the entry closest to expiry is evicted.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	now        func() time.Time
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	return NewMemoryCacheWithClock(maxEntries, time.Now)
}

// NewMemoryCacheWithClock uses now instead of the wall clock. A
// non-positive maxEntries means DefaultMaxEntries.
func NewMemoryCacheWithClock(maxEntries int, now func() time.Time) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	return &MemoryCache{entries: make(map[string]entry), maxEntries: maxEntries, now: now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if e.expired(c.now()) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expires.Equal(e.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()

		return nil, false, nil
	}

	return slices.Clone(e.data), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	now := c.now()

	e := entry{data: slices.Clone(data)}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.sweepLocked(now)

		if len(c.entries) >= c.maxEntries {
			c.evictLocked()
		}
	}

	c.entries[key] = e

	return nil
}

func (c *MemoryCache) sweepLocked(now time.Time) int {
	removed := 0

	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// evictLocked drops the entry expiring first. Entries without expiry go
// last.
func (c *MemoryCache) evictLocked() {
	var (
		victim  string
		soonest time.Time
		found   bool
	)

	for key, e := range c.entries {
		switch {
		case !found:
		case e.expires.IsZero():
			continue
		case !soonest.IsZero() && !e.expires.Before(soonest):
			continue
		}

		victim, soonest, found = key, e.expires, true
	}

	if found {
		delete(c.entries, victim)
	}
}

// Sweep drops expired entries and returns how many were removed.
func (c *MemoryCache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sweepLocked(now)
}

// Run sweeps expired entries every minute until ctx is done.
func (c *MemoryCache) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

func (c *MemoryCache) Close() error {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()

	return nil
}

// Len is the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

var _ Cache = (*MemoryCache)(nil)

// Package cache provides the read-mostly leg cache consulted by the leg
// resolver adapter.
package cache

import (
	"sync"
	"time"

	"stroll/internal/domain/entity"
	"stroll/internal/domain/service"

	"golang.org/x/sync/singleflight"
)

type legEntry struct {
	leg       *entity.RouteLeg
	expiresAt time.Time
}

// LegCache is an in-memory TTL cache with insert-if-absent fills.
// Concurrent readers only take the read lock; concurrent fills for one key
// are collapsed into a single provider call through singleflight, so they
// converge to one value without a global lock around the fill.
type LegCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]legEntry
	group   singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

// NewLegCache creates a leg cache with the given TTL.
func NewLegCache(ttl time.Duration) *LegCache {
	return &LegCache{
		ttl:     ttl,
		entries: make(map[string]legEntry),
		now:     time.Now,
	}
}

var _ service.LegCache = (*LegCache)(nil)

// Get returns the cached leg for a key, or false when absent or expired.
func (c *LegCache) Get(key string) (*entity.RouteLeg, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.leg, true
}

// GetOrFill returns the cached leg for a key, computing and storing it on
// a miss. The fill result is stored only when the slot is still vacant, so
// racing fills keep the first stored value.
func (c *LegCache) GetOrFill(key string, fill func() (*entity.RouteLeg, error)) (*entity.RouteLeg, error) {
	if leg, ok := c.Get(key); ok {
		return leg, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the group: a racing caller may have filled the
		// slot while this one queued.
		if leg, ok := c.Get(key); ok {
			return leg, nil
		}

		leg, err := fill()
		if err != nil {
			return nil, err
		}

		c.insertIfAbsent(key, leg)

		return leg, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*entity.RouteLeg), nil
}

// Len reports the number of live entries, sweeping expired ones.
func (c *LegCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	return len(c.entries)
}

func (c *LegCache) insertIfAbsent(key string, leg *entity.RouteLeg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok && !c.now().After(existing.expiresAt) {
		return
	}

	c.entries[key] = legEntry{leg: leg, expiresAt: c.now().Add(c.ttl)}
}

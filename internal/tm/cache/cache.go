// Package cache is the TM engine's search_similar result cache (spec.md
// §4.D step 1): a keyed store invalidated per-pair on any write and bounded
// only by a per-entry TTL (no entry-count or size limit), scoped to TM's
// (text, source, target) -> matches mapping.
package cache

import (
	"sync"
	"time"

	"github.com/tradocflow/tradocflow/internal/tm/tmtypes"
)

// Key identifies one cached search_similar call.
type Key struct {
	Text   string
	Source string
	Target string
}

type entry struct {
	matches   []tmtypes.Match
	expiresAt time.Time
}

// Cache is a TTL-bounded, per-pair invalidatable cache. Zero value is not
// usable; construct with New.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[Key]entry

	hits   uint64
	misses uint64
	evicts uint64
}

// New builds a Cache with the given per-entry TTL.
func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[Key]entry)}
}

// Get returns the cached matches for key, if present and unexpired.
func (c *Cache) Get(key Key) ([]tmtypes.Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		c.evicts++
		c.misses++
		return nil, false
	}
	c.hits++
	return e.matches, true
}

// Put stores matches for key, resetting its TTL.
func (c *Cache) Put(key Key, matches []tmtypes.Match) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{matches: matches, expiresAt: time.Now().Add(c.ttl)}
}

// InvalidatePair drops every entry for the given (source, target) pair,
// per spec.md §4.D: "Cache is invalidated per affected (source, target)
// pair on any write."
func (c *Cache) InvalidatePair(source, target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Source == source && k.Target == target {
			delete(c.entries, k)
			c.evicts++
		}
	}
}

// Stats returns hit/miss/eviction counters for §6.4's get_stats().
func (c *Cache) Stats() (hits, misses, evicts uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.evicts
}

package aligncache

import (
	"strings"
	"sync"
	"time"

	"github.com/tradocflow/tradocflow/internal/langcode"
)

type internalEntry struct {
	key        Key
	value      Entry
	createdAt  time.Time
	lastAccess time.Time
	accesses   int
	sizeBytes  int64
	expiresAt  time.Time
}

// Cache is the alignment cache of spec.md §4.G. Zero value is not usable;
// construct with New.
type Cache struct {
	mu      sync.Mutex
	cfg     Config
	entries map[Key]*internalEntry

	hits, misses, evictions uint64
	totalAccessNS           int64
	accessSamples           uint64
}

// New builds a Cache bounded by cfg.
func New(cfg Config) *Cache {
	return &Cache{cfg: cfg, entries: make(map[Key]*internalEntry)}
}

// Get retrieves the cached entry for key, if present and unexpired.
func (c *Cache) Get(key Key) (Entry, bool) {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		c.recordAccess(start)
		return Entry{}, false
	}
	if c.cfg.TTL > 0 && time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		c.evictions++
		c.misses++
		c.recordAccess(start)
		return Entry{}, false
	}
	e.accesses++
	e.lastAccess = time.Now()
	c.hits++
	c.recordAccess(start)
	return e.value, true
}

func (c *Cache) recordAccess(start time.Time) {
	c.totalAccessNS += time.Since(start).Nanoseconds()
	c.accessSamples++
}

// Put stores value for key, evicting as needed to stay within cfg's
// bounds.
func (c *Cache) Put(key Key, value Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	size := estimateSize(value)
	c.entries[key] = &internalEntry{
		key: key, value: value, createdAt: now, lastAccess: now,
		accesses: 0, sizeBytes: size, expiresAt: now.Add(c.cfg.TTL),
	}
	c.evictToFit()
}

// Warmup bulk-primes the cache for a batch of (key, entry) pairs, a
// SPEC_FULL.md addition for pre-loading frequently used language pairs
// on session start without paying per-call eviction-check overhead one
// entry at a time.
func (c *Cache) Warmup(pairs map[Key]Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, value := range pairs {
		c.entries[key] = &internalEntry{
			key: key, value: value, createdAt: now, lastAccess: now,
			sizeBytes: estimateSize(value), expiresAt: now.Add(c.cfg.TTL),
		}
	}
	c.evictToFit()
}

// InvalidatePair atomically drops every entry for (source, target), per
// spec.md §4.G.
func (c *Cache) InvalidatePair(source, target langcode.Code) {
	source, target = source.Normalize(), target.Normalize()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.SourceLang.Normalize() == source && k.TargetLang.Normalize() == target {
			delete(c.entries, k)
			c.evictions++
		}
	}
}

// Statistics returns the §6.4 snapshot for this cache.
func (c *Cache) Statistics() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	var mem int64
	for _, e := range c.entries {
		mem += e.sizeBytes
	}
	var avg float64
	if c.accessSamples > 0 {
		avg = float64(c.totalAccessNS) / float64(c.accessSamples)
	}
	return Statistics{
		Hits: c.hits, Misses: c.misses, Evictions: c.evictions,
		MemoryUsage: mem, AverageAccessNS: avg,
	}
}

// evictToFit must be called with c.mu held. It evicts entries (by cfg's
// policy) until the cache satisfies both the entry-count and memory bounds.
func (c *Cache) evictToFit() {
	for c.overLimit() {
		victim, ok := c.pickVictim()
		if !ok {
			return
		}
		delete(c.entries, victim)
		c.evictions++
	}
}

func (c *Cache) overLimit() bool {
	if c.cfg.MaxEntries > 0 && len(c.entries) > c.cfg.MaxEntries {
		return true
	}
	if c.cfg.MaxMemory > 0 {
		var mem int64
		for _, e := range c.entries {
			mem += e.sizeBytes
		}
		if mem > c.cfg.MaxMemory {
			return true
		}
	}
	return false
}

func (c *Cache) pickVictim() (Key, bool) {
	if len(c.entries) == 0 {
		return Key{}, false
	}
	now := time.Now()
	var bestKey Key
	bestScore := -1.0
	first := true
	for k, e := range c.entries {
		var s float64
		switch c.cfg.Policy {
		case PolicyLRU:
			s = float64(now.Sub(e.lastAccess))
		case PolicyLFU:
			s = -float64(e.accesses)
		case PolicyTTL:
			s = -float64(e.expiresAt.Sub(now))
		case PolicySizeBasedLRU:
			s = float64(e.sizeBytes)*1e6 + float64(now.Sub(e.lastAccess))
		default: // PolicyAdaptive
			s = adaptiveScore(e, now)
		}
		if first || s > bestScore {
			bestScore = s
			bestKey = k
			first = false
		}
	}
	return bestKey, true
}

// adaptiveScore implements spec.md §4.G's default policy:
// 0.3·age + 0.3/(1+accesses) + 0.2·size + 0.2·recency, higher = evict first.
func adaptiveScore(e *internalEntry, now time.Time) float64 {
	age := now.Sub(e.createdAt).Seconds()
	recency := now.Sub(e.lastAccess).Seconds()
	size := float64(e.sizeBytes)
	return 0.3*age + 0.3/(1+float64(e.accesses)) + 0.2*size + 0.2*recency
}

// estimateSize approximates an Entry's memory footprint from its
// sentence/target text lengths, since Go offers no portable sizeof for
// slices of structs containing strings.
func estimateSize(e Entry) int64 {
	var n int64
	for _, a := range e.Alignments {
		n += int64(len(a.SourceSentence) + len(a.TargetSentence) + 64)
	}
	n += int64(64 + 8*len(e.Quality.ProblemAreas))
	return n
}

// CacheKeyHash is a convenience for building a ContentHash-style string
// from arbitrary content, used by callers that key entries on pane text.
func CacheKeyHash(parts ...string) string {
	return strings.Join(parts, "\x1f")
}

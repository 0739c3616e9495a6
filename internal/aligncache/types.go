// Package aligncache is the alignment cache of spec.md §4.G: a keyed store
// from (source_lang, target_lang, config_hash, content_hash) to alignment
// results, with pluggable eviction policy, TTL, and atomic per-pair
// invalidation.
package aligncache

import (
	"time"

	"github.com/tradocflow/tradocflow/internal/align"
	"github.com/tradocflow/tradocflow/internal/langcode"
)

// Key identifies one cached alignment computation.
type Key struct {
	SourceLang langcode.Code
	TargetLang langcode.Code
	ConfigHash string
	ContentHash string
}

// Entry is the cached payload for a Key.
type Entry struct {
	Alignments []align.SentenceAlignment
	Quality    align.QualityIndicators
}

// Policy selects an eviction strategy.
type Policy string

const (
	PolicyLRU          Policy = "lru"
	PolicyLFU          Policy = "lfu"
	PolicyTTL          Policy = "ttl"
	PolicySizeBasedLRU Policy = "size_based_lru"
	PolicyAdaptive     Policy = "adaptive"
)

// Config bounds the cache's footprint.
type Config struct {
	Policy     Policy
	MaxEntries int
	MaxMemory  int64 // bytes, approximate
	TTL        time.Duration
}

// DefaultConfig matches spec.md's stated default policy and reasonable
// bounds for a desktop-scale editing session.
func DefaultConfig() Config {
	return Config{
		Policy:     PolicyAdaptive,
		MaxEntries: 10_000,
		MaxMemory:  64 << 20,
		TTL:        30 * time.Minute,
	}
}

// Statistics is the §6.4 get_stats() snapshot for this cache.
type Statistics struct {
	Hits            uint64
	Misses          uint64
	Evictions       uint64
	MemoryUsage     int64
	AverageAccessNS float64
}

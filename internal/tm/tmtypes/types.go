// Package tmtypes holds the translation memory engine's wire types
// (Unit, LanguagePair, Match, Method, Stats). It is a leaf package with no
// dependency on internal/tm itself, so the engine's storage tiers
// (internal/tm/index, internal/tm/archive, internal/tm/cache) can depend on
// these shapes without importing their parent package and creating an
// import cycle; internal/tm re-exports them as aliases for its own public
// API.
package tmtypes

import "github.com/tradocflow/tradocflow/internal/langcode"

// Unit is one translation memory entry.
type Unit struct {
	ID             string
	ProjectID      string
	ChapterID      string
	ChunkID        string
	SourceLanguage langcode.Code
	SourceText     string
	TargetLanguage langcode.Code
	TargetText     string
	Confidence     float32
	Context        string
	TranslatorID   string
	ReviewerID     string
	QualityScore   float32
	CreatedAt      int64 // unix seconds
	UpdatedAt      int64
}

// LanguagePair is a source/target language key.
type LanguagePair struct {
	Source langcode.Code
	Target langcode.Code
}

// Normalize lower-cases both members for use as a map/cache key.
func (p LanguagePair) Normalize() LanguagePair {
	return LanguagePair{Source: p.Source.Normalize(), Target: p.Target.Normalize()}
}

// Match is one search_similar result.
type Match struct {
	ID         string
	SourceText string
	TargetText string
	Confidence float32
	Similarity float64
	Context    string
}

// Method distinguishes how a Match was produced, mostly for stats/debugging.
type Method string

const (
	MethodExact Method = "exact"
	MethodFuzzy Method = "fuzzy"
	MethodNgram Method = "ngram"
)

// Stats is the pull-only snapshot exposed by §6.4.
type Stats struct {
	CacheHits      uint64
	CacheMisses    uint64
	Evictions      uint64
	IndexRows      int64
	ArchiveRecords int64
}

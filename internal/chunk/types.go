// Package chunk implements the deterministic text-to-chunk pipeline of
// spec.md §4.C: a configurable strategy that turns markdown source text
// into typed, linkable chunks used as the join key between the content
// store and the translation memory engine.
package chunk

import "time"

// Type classifies a chunk's content.
type Type string

const (
	TypeSentence  Type = "sentence"
	TypeParagraph Type = "paragraph"
	TypeHeading   Type = "heading"
	TypeList      Type = "list"
	TypeCode      Type = "code"
	TypeTable     Type = "table"
)

// Chunk is one unit of text produced by the chunker (spec.md §3.2).
type Chunk struct {
	ID                string
	ChapterID         string
	Position          uint64
	Type              Type
	Text              string
	SentenceBoundaries []int // strictly increasing byte offsets, begins at 0
	LinkedChunks      map[string]bool
	ProcessingNotes   []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Strategy selects how Chunk splits input text.
type Strategy int

const (
	StrategySentence Strategy = iota
	StrategyParagraph
	StrategyCustom
	StrategyHybrid
)

// CustomConfig parameterizes StrategyCustom.
type CustomConfig struct {
	Delimiters []string
	MaxLen     int
}

// Config controls chunking behavior.
type Config struct {
	Strategy      Strategy
	Custom        CustomConfig
	MinChunkLength int // chunks shorter than this are merged forward into a linkable neighbor
}

// DefaultConfig is the sentence-strategy default.
func DefaultConfig() Config {
	return Config{Strategy: StrategySentence, MinChunkLength: 10}
}

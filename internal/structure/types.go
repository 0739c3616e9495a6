// Package structure is the structure analyzer of spec.md §4.E: given text
// and an optional language, it produces an ordered sequence of classified
// block structures with byte ranges, plus per-language sentence-boundary
// features. It is pure and cacheable — no mutable state escapes a call.
package structure

import "github.com/tradocflow/tradocflow/internal/langcode"

// Kind classifies one block-level structure.
type Kind string

const (
	KindHeading    Kind = "heading"
	KindParagraph  Kind = "paragraph"
	KindListItem   Kind = "list_item"
	KindCodeBlock  Kind = "code_block"
	KindTable      Kind = "table"
	KindQuote      Kind = "quote"
	KindHR         Kind = "hr"
)

// TextStructure is one classified block with its byte range in the source.
type TextStructure struct {
	Kind  Kind
	Start int
	End   int
	Level int // heading level, 0 otherwise
}

// LanguageFeatures bundles per-language analysis knobs, notably the
// sentence-boundary profile used to seed §4.F's alignment scorer.
type LanguageFeatures struct {
	Language               langcode.Code
	AverageSentenceLength  float64
	SentenceCount          int
}

// Result is the output of Analyze.
type Result struct {
	Structures []TextStructure
	Features   LanguageFeatures
}

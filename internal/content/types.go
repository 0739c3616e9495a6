// Package content is the pure serialisation/validation library for chapter
// data: the TOML-backed entities of §3.1, their invariants, and a builder
// that enforces them before anything ever reaches disk.
package content

import (
	"time"

	"github.com/tradocflow/tradocflow/internal/langcode"
)

// Status is a translation's review state. Order matters: rank(Status) below
// defines promotion.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
)

// statusRank is the fixed promotion order from spec.md §3.1.
var statusRank = map[Status]int{
	StatusDraft:       0,
	StatusInProgress:  1,
	StatusCompleted:   2,
	StatusUnderReview: 3,
	StatusApproved:    4,
}

// Rank returns s's position in the fixed status order, or -1 if s is not a
// recognized status.
func (s Status) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// IsPromotion reports whether moving from oldStatus to newStatus counts as a
// promotion: rank(new) > rank(old). Unrecognized statuses never promote.
func IsPromotion(oldStatus, newStatus Status) bool {
	oldRank, okOld := statusRank[oldStatus]
	newRank, okNew := statusRank[newStatus]
	if !okOld || !okNew {
		return false
	}
	return newRank > oldRank
}

// TodoStatus is the lifecycle state of a Todo.
type TodoStatus string

const (
	TodoOpen       TodoStatus = "open"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
	TodoCancelled  TodoStatus = "cancelled"
)

// Complexity classifies a translation unit's estimated difficulty.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// TranslationVersion is one language's rendering of a TranslationUnit.
type TranslationVersion struct {
	Text         string     `toml:"text"`
	Translator   string     `toml:"translator,omitempty"`
	Status       Status     `toml:"status"`
	QualityScore *float32   `toml:"quality_score,omitempty"`
	Reviewer     string     `toml:"reviewer,omitempty"`
	CreatedAt    time.Time  `toml:"created_at"`
	UpdatedAt    time.Time  `toml:"updated_at"`
}

// TranslationUnit is the smallest addressable piece of source text with its
// per-language translations (spec.md §3.1, GLOSSARY).
type TranslationUnit struct {
	ID             string                                       `toml:"id"`
	Position       uint32                                       `toml:"position"`
	SourceLanguage langcode.Code                                `toml:"source_language"`
	SourceText     string                                       `toml:"source_text"`
	Complexity     Complexity                                   `toml:"complexity"`
	Translations   map[langcode.Code]TranslationVersion `toml:"translations"`
}

// Todo is a chapter-scoped action item.
type Todo struct {
	ID         string     `toml:"id"`
	Title      string     `toml:"title"`
	Status     TodoStatus `toml:"status"`
	AssignedTo string     `toml:"assigned_to,omitempty"`
	CreatedBy  string     `toml:"created_by"`
	CreatedAt  time.Time  `toml:"created_at"`
	ResolvedAt *time.Time `toml:"resolved_at,omitempty"`
}

// ChapterData is the root entity persisted as one TOML blob per chapter
// (spec.md §3.1, §6.1).
type ChapterData struct {
	ChapterNumber  uint32                  `toml:"chapter_number"`
	Slug           string                  `toml:"slug"`
	Titles         map[langcode.Code]string `toml:"titles"`
	SourceLanguage langcode.Code            `toml:"source_language"`
	Units          []TranslationUnit       `toml:"units"`
	Todos          []Todo                  `toml:"todos"`
	CreatedAt      time.Time               `toml:"created_at"`
	UpdatedAt      time.Time               `toml:"updated_at"`
}

// Unit looks up a unit by id. Returns nil if absent.
func (c *ChapterData) Unit(id string) *TranslationUnit {
	for i := range c.Units {
		if c.Units[i].ID == id {
			return &c.Units[i]
		}
	}
	return nil
}

package vcts

import (
	"sort"
	"strings"
	"time"

	"github.com/tradocflow/tradocflow/internal/content"
	"github.com/tradocflow/tradocflow/internal/langcode"
)

// UnitChangeType classifies how one translation unit's language entry
// changed between two refs (spec.md §4.B.2).
type UnitChangeType string

const (
	UnitAdded        UnitChangeType = "added"
	UnitModified     UnitChangeType = "modified"
	UnitDeleted      UnitChangeType = "deleted"
	UnitQualityUpdated UnitChangeType = "quality_updated"
	UnitStatusChanged UnitChangeType = "status_changed"
)

// TextDiff is the character/word/similarity comparison of two text values.
type TextDiff struct {
	OldText          string
	NewText          string
	WordChanges      int
	CharacterChanges int
	SimilarityScore  float32 // Jaccard over character bigrams, §4.B.2
}

// QualityChange records a quality_score delta.
type QualityChange struct {
	OldScore    *float32
	NewScore    *float32
	Improvement float32
}

// StatusChange records a status transition and whether it was a promotion.
type StatusChange struct {
	OldStatus   content.Status
	NewStatus   content.Status
	IsPromotion bool
}

// TranslationUnitDiff is one unit's change record for one language.
type TranslationUnitDiff struct {
	UnitID        string
	Language      langcode.Code
	ChangeType    UnitChangeType
	TextDiff      *TextDiff
	QualityChange *QualityChange
	StatusChange  *StatusChange
}

// MetadataChangeType classifies a todo-level change.
type MetadataChangeType string

const (
	TodoAdded     MetadataChangeType = "todo_added"
	TodoCompleted MetadataChangeType = "todo_completed"
	TodoDeleted   MetadataChangeType = "todo_deleted"
)

// MetadataChange is one todo-level change record.
type MetadataChange struct {
	Type   MetadataChangeType
	TodoID string
	Title  string
}

// TranslationDiffStats aggregates unit and metadata changes into counts and
// an overall progress score.
type TranslationDiffStats struct {
	UnitsAdded          int
	UnitsModified       int
	UnitsDeleted        int
	QualityImprovements int
	QualityRegressions  int
	StatusPromotions    int
	MetadataChanges     int
	OverallProgressScore float32
}

// DetailedTranslationDiff is the result of comparing a chapter between two
// refs (spec.md §4.B.2).
type DetailedTranslationDiff struct {
	Chapter         string
	FromRef         string
	ToRef           string
	FromTimestamp   time.Time
	ToTimestamp     time.Time
	UnitChanges     []TranslationUnitDiff
	MetadataChanges []MetadataChange
	Stats           TranslationDiffStats
}

// DiffOptions controls which comparisons Diff performs.
type DiffOptions struct {
	LanguageFilter langcode.Code // empty = all languages
	IgnoreWhitespace bool
}

// Diff loads chapter from fromRef and toRef and produces the detailed diff
// of spec.md §4.B.2.
func (s *Store) Diff(fromRef, toRef, chapter string, opts DiffOptions) (*DetailedTranslationDiff, error) {
	path := "content/chapters/" + chapter + ".toml"

	fromData, fromOK, err := s.repo.showFile(fromRef, path)
	if err != nil {
		return nil, err
	}
	toData, toOK, err := s.repo.showFile(toRef, path)
	if err != nil {
		return nil, err
	}

	var fromChapter, toChapter *content.ChapterData
	if fromOK {
		fromChapter, err = content.Decode([]byte(fromData))
		if err != nil {
			return nil, err
		}
	}
	if toOK {
		toChapter, err = content.Decode([]byte(toData))
		if err != nil {
			return nil, err
		}
	}

	result := &DetailedTranslationDiff{
		Chapter: chapter,
		FromRef: fromRef,
		ToRef:   toRef,
	}
	if fromChapter != nil {
		result.FromTimestamp = fromChapter.UpdatedAt
	}
	if toChapter != nil {
		result.ToTimestamp = toChapter.UpdatedAt
	}

	fromUnits := unitsByID(fromChapter)
	toUnits := unitsByID(toChapter)

	ids := unionIDs(fromUnits, toUnits)
	for _, id := range ids {
		fu, fok := fromUnits[id]
		tu, tok := toUnits[id]
		switch {
		case !fok && tok:
			for lang, v := range tu.Translations {
				if !languageMatches(opts.LanguageFilter, lang) {
					continue
				}
				result.UnitChanges = append(result.UnitChanges, TranslationUnitDiff{
					UnitID: id, Language: lang, ChangeType: UnitAdded,
					TextDiff: &TextDiff{NewText: v.Text, WordChanges: wordCount(v.Text), SimilarityScore: 0},
				})
				result.Stats.UnitsAdded++
			}
		case fok && !tok:
			for lang, v := range fu.Translations {
				if !languageMatches(opts.LanguageFilter, lang) {
					continue
				}
				result.UnitChanges = append(result.UnitChanges, TranslationUnitDiff{
					UnitID: id, Language: lang, ChangeType: UnitDeleted,
					TextDiff: &TextDiff{OldText: v.Text, WordChanges: wordCount(v.Text), SimilarityScore: 0},
				})
				result.Stats.UnitsDeleted++
			}
		case fok && tok:
			langs := unionLangs(fu.Translations, tu.Translations)
			for _, lang := range langs {
				if !languageMatches(opts.LanguageFilter, lang) {
					continue
				}
				oldV, hadOld := fu.Translations[lang]
				newV, hasNew := tu.Translations[lang]
				switch {
				case !hadOld && hasNew:
					result.UnitChanges = append(result.UnitChanges, TranslationUnitDiff{
						UnitID: id, Language: lang, ChangeType: UnitAdded,
						TextDiff: &TextDiff{NewText: newV.Text},
					})
					result.Stats.UnitsAdded++
				case hadOld && !hasNew:
					result.UnitChanges = append(result.UnitChanges, TranslationUnitDiff{
						UnitID: id, Language: lang, ChangeType: UnitDeleted,
						TextDiff: &TextDiff{OldText: oldV.Text},
					})
					result.Stats.UnitsDeleted++
				default:
					diff := diffUnit(id, lang, oldV, newV, opts)
					if diff != nil {
						result.UnitChanges = append(result.UnitChanges, *diff)
						switch diff.ChangeType {
						case UnitModified:
							result.Stats.UnitsModified++
						case UnitQualityUpdated:
							if diff.QualityChange.Improvement > 0 {
								result.Stats.QualityImprovements++
							} else if diff.QualityChange.Improvement < 0 {
								result.Stats.QualityRegressions++
							}
						case UnitStatusChanged:
							if diff.StatusChange.IsPromotion {
								result.Stats.StatusPromotions++
							}
						}
					}
				}
			}
		}
	}

	result.MetadataChanges = diffTodos(fromChapter, toChapter)
	result.Stats.MetadataChanges = len(result.MetadataChanges)

	result.Stats.OverallProgressScore = overallProgressScore(result.Stats)

	sort.Slice(result.UnitChanges, func(i, j int) bool {
		if result.UnitChanges[i].UnitID != result.UnitChanges[j].UnitID {
			return result.UnitChanges[i].UnitID < result.UnitChanges[j].UnitID
		}
		return result.UnitChanges[i].Language < result.UnitChanges[j].Language
	})
	return result, nil
}

func languageMatches(filter, lang langcode.Code) bool {
	return filter == "" || filter.Normalize() == lang.Normalize()
}

func unitsByID(c *content.ChapterData) map[string]content.TranslationUnit {
	m := map[string]content.TranslationUnit{}
	if c == nil {
		return m
	}
	for _, u := range c.Units {
		m[u.ID] = u
	}
	return m
}

func unionIDs(a, b map[string]content.TranslationUnit) []string {
	seen := map[string]bool{}
	var ids []string
	for id := range a {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for id := range b {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func unionLangs(a, b map[langcode.Code]content.TranslationVersion) []langcode.Code {
	seen := map[langcode.Code]bool{}
	var langs []langcode.Code
	for l := range a {
		if !seen[l] {
			seen[l] = true
			langs = append(langs, l)
		}
	}
	for l := range b {
		if !seen[l] {
			seen[l] = true
			langs = append(langs, l)
		}
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// diffUnit compares one language's old/new TranslationVersion per the
// precedence rule of §4.B.2: text change, else quality change, else status
// change, else no emission.
func diffUnit(id string, lang langcode.Code, oldV, newV content.TranslationVersion, opts DiffOptions) *TranslationUnitDiff {
	oldText, newText := oldV.Text, newV.Text
	if opts.IgnoreWhitespace {
		oldText = normalizeWhitespace(oldText)
		newText = normalizeWhitespace(newText)
	}
	if oldText != newText {
		td := computeTextDiff(oldV.Text, newV.Text)
		return &TranslationUnitDiff{UnitID: id, Language: lang, ChangeType: UnitModified, TextDiff: &td}
	}
	if !scoreEqual(oldV.QualityScore, newV.QualityScore) {
		qc := QualityChange{OldScore: oldV.QualityScore, NewScore: newV.QualityScore}
		qc.Improvement = scoreValue(newV.QualityScore) - scoreValue(oldV.QualityScore)
		return &TranslationUnitDiff{UnitID: id, Language: lang, ChangeType: UnitQualityUpdated, QualityChange: &qc}
	}
	if oldV.Status != newV.Status {
		sc := StatusChange{OldStatus: oldV.Status, NewStatus: newV.Status, IsPromotion: content.IsPromotion(oldV.Status, newV.Status)}
		return &TranslationUnitDiff{UnitID: id, Language: lang, ChangeType: UnitStatusChanged, StatusChange: &sc}
	}
	return nil
}

func scoreEqual(a, b *float32) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return *a == *b
}

func scoreValue(a *float32) float32 {
	if a == nil {
		return 0
	}
	return *a
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// computeTextDiff implements §4.B.2's TextDiff: word-change count is the
// size of the set-symmetric-difference of whitespace tokens; character
// change count is positional mismatch up to the longer string's length;
// similarity is Jaccard over character bigrams.
func computeTextDiff(oldText, newText string) TextDiff {
	return TextDiff{
		OldText:          oldText,
		NewText:          newText,
		WordChanges:      wordSymmetricDifference(oldText, newText),
		CharacterChanges: positionalCharDiff(oldText, newText),
		SimilarityScore:  bigramJaccard(oldText, newText),
	}
}

func wordSymmetricDifference(a, b string) int {
	setA := map[string]bool{}
	for _, w := range strings.Fields(a) {
		setA[w] = true
	}
	setB := map[string]bool{}
	for _, w := range strings.Fields(b) {
		setB[w] = true
	}
	count := 0
	for w := range setA {
		if !setB[w] {
			count++
		}
	}
	for w := range setB {
		if !setA[w] {
			count++
		}
	}
	return count
}

func positionalCharDiff(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n := len(ra)
	if len(rb) > n {
		n = len(rb)
	}
	diff := 0
	for i := 0; i < n; i++ {
		var ca, cb rune = -1, -1
		if i < len(ra) {
			ca = ra[i]
		}
		if i < len(rb) {
			cb = rb[i]
		}
		if ca != cb {
			diff++
		}
	}
	return diff
}

// bigramJaccard computes the Jaccard similarity of the sets of
// length-2 substrings of a and b: |A∩B| / |A∪B|. Equal and empty inputs
// both return 1.0; one side empty (and the other not) returns 0.0.
func bigramJaccard(a, b string) float32 {
	if a == b {
		return 1.0
	}
	setA := bigramSet(a)
	setB := bigramSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}
	inter := 0
	for g := range setA {
		if setB[g] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 1.0
	}
	return float32(inter) / float32(union)
}

func bigramSet(s string) map[string]bool {
	r := []rune(s)
	set := map[string]bool{}
	for i := 0; i+1 < len(r); i++ {
		set[string(r[i:i+2])] = true
	}
	return set
}

func diffTodos(from, to *content.ChapterData) []MetadataChange {
	var changes []MetadataChange
	fromTodos := todosByID(from)
	toTodos := todosByID(to)

	for id, t := range toTodos {
		if _, ok := fromTodos[id]; !ok {
			changes = append(changes, MetadataChange{Type: TodoAdded, TodoID: id, Title: t.Title})
			continue
		}
		if ft := fromTodos[id]; ft.Status != content.TodoCompleted && t.Status == content.TodoCompleted {
			changes = append(changes, MetadataChange{Type: TodoCompleted, TodoID: id, Title: t.Title})
		}
	}
	for id, t := range fromTodos {
		if _, ok := toTodos[id]; !ok {
			changes = append(changes, MetadataChange{Type: TodoDeleted, TodoID: id, Title: t.Title})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].TodoID < changes[j].TodoID })
	return changes
}

func todosByID(c *content.ChapterData) map[string]content.Todo {
	m := map[string]content.Todo{}
	if c == nil {
		return m
	}
	for _, t := range c.Todos {
		m[t.ID] = t
	}
	return m
}

// LanguageSummary is one language's slice of a TranslationSummary.
type LanguageSummary struct {
	Language      langcode.Code
	UnitsAdded    int
	UnitsModified int
	UnitsDeleted  int
}

// TranslationSummary rolls unit changes up by language: Stats aggregates a
// diff across every language at once, TranslationSummary keeps them apart.
type TranslationSummary struct {
	Chapter    string
	ByLanguage []LanguageSummary
}

// Summary buckets d's unit changes by language, sorted by language code.
func (d *DetailedTranslationDiff) Summary() TranslationSummary {
	byLang := map[langcode.Code]*LanguageSummary{}
	var order []langcode.Code
	for _, c := range d.UnitChanges {
		ls, ok := byLang[c.Language]
		if !ok {
			ls = &LanguageSummary{Language: c.Language}
			byLang[c.Language] = ls
			order = append(order, c.Language)
		}
		switch c.ChangeType {
		case UnitAdded:
			ls.UnitsAdded++
		case UnitModified:
			ls.UnitsModified++
		case UnitDeleted:
			ls.UnitsDeleted++
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	summary := TranslationSummary{Chapter: d.Chapter}
	for _, l := range order {
		summary.ByLanguage = append(summary.ByLanguage, *byLang[l])
	}
	return summary
}

// overallProgressScore implements §4.B.2's aggregate formula, clipped to
// [-1, 1]. With no changes at all the denominator is zero and the score is
// defined as 0 (no progress, no regression).
func overallProgressScore(stats TranslationDiffStats) float32 {
	added := float32(stats.UnitsAdded)
	modified := float32(stats.UnitsModified)
	deleted := float32(stats.UnitsDeleted)
	qualityUp := float32(stats.QualityImprovements)
	qualityDown := float32(stats.QualityRegressions)
	promoted := float32(stats.StatusPromotions)

	denom := added + modified + deleted
	if denom == 0 {
		return 0
	}
	score := (2*added + 3*qualityUp + 2*promoted - 2*deleted - 3*qualityDown) / denom
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

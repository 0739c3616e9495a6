package align

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tradocflow/tradocflow/internal/langcode"
	"github.com/tradocflow/tradocflow/internal/textseg"
)

// Aligner holds per-language-pair weights, adjusted over time by
// learn_from_correction, and the cache invalidation hook that the
// alignment cache (§4.G) registers on construction.
type Aligner struct {
	mu      sync.Mutex
	base    Config
	weights map[langcode.Code]map[langcode.Code]Weights

	onInvalidate func(source, target langcode.Code)
}

// New builds an Aligner with cfg as the default configuration for any pair
// that has not yet had its weights learned.
func New(cfg Config) *Aligner {
	return &Aligner{
		base:    cfg,
		weights: make(map[langcode.Code]map[langcode.Code]Weights),
	}
}

// OnInvalidate registers a callback invoked whenever learn_from_correction
// updates a pair's weights, so the alignment cache can drop stale entries.
func (a *Aligner) OnInvalidate(fn func(source, target langcode.Code)) {
	a.onInvalidate = fn
}

func (a *Aligner) configFor(src, tgt langcode.Code) Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	cfg := a.base
	if byTarget, ok := a.weights[src.Normalize()]; ok {
		if w, ok := byTarget[tgt.Normalize()]; ok {
			cfg.Weights = w
		}
	}
	return cfg
}

// AlignText splits srcText and tgtText into sentences and aligns them.
func (a *Aligner) AlignText(srcText, tgtText string, srcLang, tgtLang langcode.Code) []SentenceAlignment {
	return a.AlignSentences(splitSentences(srcText), splitSentences(tgtText), srcLang, tgtLang)
}

func splitSentences(text string) []string {
	spans := textseg.SentenceSpans(text)
	out := make([]string, 0, len(spans))
	for _, sp := range spans {
		s := text[sp[0]:sp[1]]
		if trimmed := trimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// AlignSentences implements spec.md §4.F's align_sentences: for each source
// sentence (in order) it picks the best unused target sentence at or after
// the last matched target position whose weighted score meets the
// configured confidence threshold; ties break on source position, which
// falls out naturally from the left-to-right scan.
func (a *Aligner) AlignSentences(src, tgt []string, srcLang, tgtLang langcode.Code) []SentenceAlignment {
	cfg := a.configFor(srcLang, tgtLang)
	var out []SentenceAlignment
	tgtCursor := 0

	for i, s := range src {
		bestJ := -1
		bestScore := -1.0
		for j := tgtCursor; j < len(tgt); j++ {
			sc := score(cfg, src, tgt, i, j)
			if sc > bestScore {
				bestScore = sc
				bestJ = j
			}
		}
		if bestJ == -1 || bestScore < cfg.ConfidenceThreshold {
			continue
		}
		out = append(out, SentenceAlignment{
			ID:               uuid.NewString(),
			SourceSentence:   s,
			TargetSentence:   tgt[bestJ],
			SourceLanguage:   srcLang,
			TargetLanguage:   tgtLang,
			SourcePosition:   i,
			TargetPosition:   bestJ,
			Confidence:       bestScore,
			Method:           classifyMethod(cfg, i, bestJ, len(src), len(tgt)),
			ValidationStatus: ValidationUnreviewed,
		})
		tgtCursor = bestJ + 1
	}
	return out
}

func classifyMethod(cfg Config, srcIdx, tgtIdx, srcLen, tgtLen int) Method {
	if srcLen > 0 && tgtLen > 0 && float64(srcIdx)/float64(srcLen) == float64(tgtIdx)/float64(tgtLen) {
		return MethodPositionBased
	}
	return MethodLengthRatio
}

// SynchronizeSentenceBoundaries implements spec.md §4.F's
// synchronize_sentence_boundaries: given each pane's content and a cursor
// offset in srcLang's pane, it returns the corresponding offset in every
// other pane by aligning sentences and interpolating within the matched
// sentence.
func (a *Aligner) SynchronizeSentenceBoundaries(paneContents map[langcode.Code]string, cursorOffset int, srcLang langcode.Code) map[langcode.Code]int {
	out := make(map[langcode.Code]int, len(paneContents))
	srcText, ok := paneContents[srcLang]
	if !ok {
		return out
	}
	srcSentences := splitSentences(srcText)
	srcIdx, srcWithin := locateOffset(srcText, srcSentences, cursorOffset)

	for lang, text := range paneContents {
		if lang == srcLang {
			out[lang] = cursorOffset
			continue
		}
		tgtSentences := splitSentences(text)
		alignments := a.AlignSentences(srcSentences, tgtSentences, srcLang, lang)
		out[lang] = projectOffset(alignments, srcIdx, srcWithin, text, tgtSentences)
	}
	return out
}

func locateOffset(text string, sentences []string, offset int) (idx int, within float64) {
	pos := 0
	for i, s := range sentences {
		start := indexFrom(text, s, pos)
		if start < 0 {
			start = pos
		}
		end := start + len(s)
		if offset <= end {
			span := end - start
			if span <= 0 {
				return i, 0
			}
			rel := float64(offset-start) / float64(span)
			return i, clamp01(rel)
		}
		pos = end
	}
	if len(sentences) == 0 {
		return 0, 0
	}
	return len(sentences) - 1, 1
}

func indexFrom(haystack, needle string, from int) int {
	if from > len(haystack) {
		from = len(haystack)
	}
	idx := indexOf(haystack[from:], needle)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func indexOf(haystack, needle string) int {
	n := len(needle)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(haystack); i++ {
		if haystack[i:i+n] == needle {
			return i
		}
	}
	return -1
}

func projectOffset(alignments []SentenceAlignment, srcIdx int, within float64, tgtText string, tgtSentences []string) int {
	for _, al := range alignments {
		if al.SourcePosition != srcIdx {
			continue
		}
		start := indexOf(tgtText, al.TargetSentence)
		if start < 0 {
			return 0
		}
		span := len(al.TargetSentence)
		return start + int(within*float64(span))
	}
	// No aligned target sentence: fall back to proportional position
	// across the whole target text.
	if len(tgtSentences) == 0 {
		return 0
	}
	relIdx := float64(srcIdx) / float64(maxInt(len(tgtSentences)-1, 1))
	target := int(relIdx * float64(len(tgtText)))
	return target
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

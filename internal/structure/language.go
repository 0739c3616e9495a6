package structure

import (
	"strings"

	"github.com/tradocflow/tradocflow/internal/langcode"
	"github.com/tradocflow/tradocflow/internal/textseg"
)

// analyzeLanguageFeatures computes the per-language sentence-boundary
// profile that seeds §4.F's alignment scorer: sentence count and average
// sentence length (in runes) over the plain text, using the shared UAX #29
// sentence segmenter rather than the chunker's Markdown-aware splitter,
// since structure analysis runs ahead of any chunking decision.
func analyzeLanguageFeatures(src string, lang langcode.Code) LanguageFeatures {
	spans := textseg.SentenceSpans(src)

	features := LanguageFeatures{Language: lang.Normalize()}
	total := 0
	count := 0
	for _, sp := range spans {
		s := strings.TrimSpace(src[sp[0]:sp[1]])
		if s == "" {
			continue
		}
		count++
		total += len([]rune(s))
	}
	features.SentenceCount = count
	if count > 0 {
		features.AverageSentenceLength = float64(total) / float64(count)
	}
	return features
}

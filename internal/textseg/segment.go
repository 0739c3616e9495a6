// Package textseg centralizes Unicode text segmentation (UAX #29 sentence
// and word boundaries) behind a small helper surface so the structure
// analyzer and the alignment core share one segmentation backend. The
// chunker does not use it; it has its own splitter.
package textseg

import (
	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"
)

// SentenceSpans returns the [start,end) byte ranges of each Unicode
// sentence boundary segment in text, using UAX #29's default sentence
// segmenter. No domain-specific refinements (abbreviation look-back,
// numeric literal exclusion) are applied here; the chunker's own splitter
// implements those rules.
func SentenceSpans(text string) [][2]int {
	var spans [][2]int
	offset := 0
	seg := sentences.FromString(text)
	for seg.Next() {
		s := seg.Value()
		start := offset
		end := start + len(s)
		spans = append(spans, [2]int{start, end})
		offset = end
	}
	return spans
}

// WordCount counts Unicode word-break segments that contain at least one
// letter or digit (skipping pure whitespace/punctuation segments).
func WordCount(text string) int {
	count := 0
	seg := words.FromString(text)
	for seg.Next() {
		if seg.Value().IsWordLike() {
			count++
		}
	}
	return count
}

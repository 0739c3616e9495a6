package align

import (
	"strings"
	"unicode"
)

// score computes the weighted sum of position, length-ratio, and structure
// scores for a candidate (srcIdx, tgtIdx) pair, per spec.md §4.F's scorer.
func score(cfg Config, src, tgt []string, srcIdx, tgtIdx int) float64 {
	pos := positionScore(srcIdx, len(src), tgtIdx, len(tgt))
	length := lengthRatioScore(src[srcIdx], tgt[tgtIdx])
	structure := structureScore(src[srcIdx], tgt[tgtIdx])
	w := cfg.Weights
	return w.Position*pos + w.Length*length + w.Structure*structure
}

// positionScore rewards candidates whose relative position in their
// respective sequences line up.
func positionScore(srcIdx, srcLen, tgtIdx, tgtLen int) float64 {
	if srcLen <= 1 || tgtLen <= 1 {
		if srcIdx == tgtIdx {
			return 1.0
		}
		return 0.0
	}
	srcRel := float64(srcIdx) / float64(srcLen-1)
	tgtRel := float64(tgtIdx) / float64(tgtLen-1)
	diff := srcRel - tgtRel
	if diff < 0 {
		diff = -diff
	}
	return clamp01(1.0 - diff)
}

// lengthRatioScore rewards sentence pairs of proportionate length, a weak
// but language-agnostic translation-quality signal.
func lengthRatioScore(a, b string) float64 {
	la, lb := float64(len([]rune(a))), float64(len([]rune(b)))
	if la == 0 && lb == 0 {
		return 1.0
	}
	longer := la
	if lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 0.0
	}
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	return clamp01(1.0 - diff/longer)
}

// structureScore rewards sentences that share coarse surface structure:
// terminal punctuation class and presence of a capitalized leading word.
func structureScore(a, b string) float64 {
	score := 0.0
	if terminalClass(a) == terminalClass(b) {
		score += 0.5
	}
	if startsCapitalized(a) == startsCapitalized(b) {
		score += 0.5
	}
	return score
}

func terminalClass(s string) byte {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s[len(s)-1] {
	case '?':
		return '?'
	case '!':
		return '!'
	default:
		return '.'
	}
}

func startsCapitalized(s string) bool {
	for _, r := range strings.TrimSpace(s) {
		return unicode.IsUpper(r)
	}
	return false
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

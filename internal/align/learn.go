package align

import "github.com/tradocflow/tradocflow/internal/langcode"

// Correction is one user-supplied alignment fix, fed to
// learn_from_correction.
type Correction struct {
	Original  SentenceAlignment
	Corrected SentenceAlignment
	Reason    string
}

// LearnFromCorrection implements spec.md §4.F's learn_from_correction: it
// nudges the per-pair weights toward whichever scoring component the
// correction implies was under-weighted, then invalidates cached alignments
// for that pair via the registered callback.
func (a *Aligner) LearnFromCorrection(c Correction) {
	src := c.Corrected.SourceLanguage.Normalize()
	tgt := c.Corrected.TargetLanguage.Normalize()

	a.mu.Lock()
	if a.weights[src] == nil {
		a.weights[src] = make(map[langcode.Code]Weights)
	}
	w, ok := a.weights[src][tgt]
	if !ok {
		w = a.base.Weights
	}
	w = adjustWeights(w, c.Original, c.Corrected)
	a.weights[src][tgt] = w
	cb := a.onInvalidate
	a.mu.Unlock()

	if cb != nil {
		cb(src, tgt)
	}
}

// adjustWeights shifts a small amount of weight toward the component
// (position, length, structure) whose score best explains why the
// corrected pairing was preferred over the original, keeping weights
// normalized to sum to 1.
func adjustWeights(w Weights, original, corrected SentenceAlignment) Weights {
	const step = 0.05

	posGain := positionConsistency(corrected) - positionConsistency(original)
	lenGain := lengthRatioScore(corrected.SourceSentence, corrected.TargetSentence) -
		lengthRatioScore(original.SourceSentence, original.TargetSentence)
	structGain := structureScore(corrected.SourceSentence, corrected.TargetSentence) -
		structureScore(original.SourceSentence, original.TargetSentence)

	switch maxGainIndex(posGain, lenGain, structGain) {
	case 0:
		w.Position += step
	case 1:
		w.Length += step
	case 2:
		w.Structure += step
	default:
		return w
	}
	return normalize(w)
}

func maxGainIndex(gains ...float64) int {
	best, bestIdx := 0.0, -1
	for i, g := range gains {
		if g > 0 && g > best {
			best = g
			bestIdx = i
		}
	}
	return bestIdx
}

func normalize(w Weights) Weights {
	sum := w.Position + w.Length + w.Structure
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{Position: w.Position / sum, Length: w.Length / sum, Structure: w.Structure / sum}
}

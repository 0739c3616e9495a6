package align

import (
	"testing"

	"github.com/tradocflow/tradocflow/internal/langcode"
)

func TestAlignSentencesBasic(t *testing.T) {
	a := New(DefaultConfig())
	src := []string{"First sentence.", "Second sentence."}
	tgt := []string{"Primera oración.", "Segunda oración."}

	alignments := a.AlignSentences(src, tgt, "en", "es")
	if len(alignments) != 2 {
		t.Fatalf("got %d alignments, want 2: %+v", len(alignments), alignments)
	}
	if alignments[0].SourcePosition != 0 || alignments[0].TargetPosition != 0 {
		t.Errorf("alignment 0 positions = (%d,%d)", alignments[0].SourcePosition, alignments[0].TargetPosition)
	}
	if alignments[1].SourcePosition != 1 || alignments[1].TargetPosition != 1 {
		t.Errorf("alignment 1 positions = (%d,%d)", alignments[1].SourcePosition, alignments[1].TargetPosition)
	}
}

// TestCursorSyncAcrossTwoPanes is scenario S6 from spec.md §8.
func TestCursorSyncAcrossTwoPanes(t *testing.T) {
	a := New(DefaultConfig())
	enText := "First sentence. Second sentence."
	esText := "Primera oración. Segunda oración."
	paneContents := map[langcode.Code]string{"en": enText, "es": esText}

	synced := a.SynchronizeSentenceBoundaries(paneContents, 20, "en")
	esOffset, ok := synced["es"]
	if !ok {
		t.Fatalf("missing es offset in %+v", synced)
	}

	esIdx, _ := locateOffset(esText, splitSentences(esText), esOffset)
	if esIdx != 1 {
		t.Fatalf("synced offset %d lands in sentence %d, want sentence index 1", esOffset, esIdx)
	}
}

func TestCalculateQualityIndicatorsFlagsLowConfidence(t *testing.T) {
	alignments := []SentenceAlignment{
		{SourcePosition: 0, TargetPosition: 0, Confidence: 0.9, SourceSentence: "Hi.", TargetSentence: "Hola."},
		{SourcePosition: 1, TargetPosition: 5, Confidence: 0.2, SourceSentence: "Bye.", TargetSentence: "Chau."},
	}
	q := CalculateQualityIndicators(alignments)
	if len(q.ProblemAreas) != 1 || q.ProblemAreas[0] != 1 {
		t.Errorf("problem areas = %v, want [1]", q.ProblemAreas)
	}
}

func TestLearnFromCorrectionInvalidatesPair(t *testing.T) {
	a := New(DefaultConfig())
	var gotSrc, gotTgt langcode.Code
	a.OnInvalidate(func(source, target langcode.Code) {
		gotSrc, gotTgt = source, target
	})

	original := SentenceAlignment{SourceLanguage: "en", TargetLanguage: "es", SourcePosition: 0, TargetPosition: 3, Confidence: 0.3, SourceSentence: "Hi.", TargetSentence: "Hola."}
	corrected := SentenceAlignment{SourceLanguage: "en", TargetLanguage: "es", SourcePosition: 0, TargetPosition: 0, Confidence: 0.9, SourceSentence: "Hi.", TargetSentence: "Hola."}

	a.LearnFromCorrection(Correction{Original: original, Corrected: corrected, Reason: "wrong target picked"})

	if gotSrc != "en" || gotTgt != "es" {
		t.Fatalf("invalidate callback got (%q,%q), want (en,es)", gotSrc, gotTgt)
	}
}

package structure

import "testing"

func TestAnalyzeClassifiesHeadingParagraphCodeTable(t *testing.T) {
	src := "# Title\n\nBody paragraph here.\n\n```\ncode\n```\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	result := Analyze(src, "")

	var kinds []Kind
	for _, s := range result.Structures {
		kinds = append(kinds, s.Kind)
	}

	want := []Kind{KindHeading, KindParagraph, KindCodeBlock, KindTable}
	if len(kinds) != len(want) {
		t.Fatalf("got kinds %v, want %v", kinds, want)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("structure %d: got %q want %q", i, kinds[i], k)
		}
	}
}

func TestAnalyzeHeadingLevel(t *testing.T) {
	result := Analyze("### Sub-heading\n", "")
	if len(result.Structures) != 1 {
		t.Fatalf("got %d structures", len(result.Structures))
	}
	if result.Structures[0].Level != 3 {
		t.Errorf("level = %d, want 3", result.Structures[0].Level)
	}
}

func TestAnalyzeByteRangesCoverSource(t *testing.T) {
	src := "First paragraph.\n\nSecond paragraph.\n"
	result := Analyze(src, "")
	for _, s := range result.Structures {
		if s.Start < 0 || s.End > len(src) || s.Start >= s.End {
			t.Fatalf("invalid range [%d,%d) for source of length %d", s.Start, s.End, len(src))
		}
	}
}

func TestAnalyzeLanguageFeaturesEmptyLanguage(t *testing.T) {
	result := Analyze("One. Two. Three.", "")
	if result.Features.SentenceCount != 0 {
		t.Errorf("expected zero-valued Features when lang is empty, got %+v", result.Features)
	}
}

func TestAnalyzeLanguageFeaturesSentenceCount(t *testing.T) {
	result := Analyze("One sentence here. Another sentence follows. And a third.", "en")
	if result.Features.Language != "en" {
		t.Errorf("language = %q, want en", result.Features.Language)
	}
	if result.Features.SentenceCount != 3 {
		t.Errorf("sentence count = %d, want 3", result.Features.SentenceCount)
	}
	if result.Features.AverageSentenceLength <= 0 {
		t.Errorf("average sentence length = %f, want > 0", result.Features.AverageSentenceLength)
	}
}

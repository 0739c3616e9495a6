package chunk

import (
	"strings"
	"testing"
)

func TestSentenceSplitAbbreviation(t *testing.T) {
	sentences := splitSentences("Dr. Smith went home. He slept.")
	if len(sentences) != 2 {
		t.Fatalf("got %d sentences: %v", len(sentences), sentences)
	}
	if sentences[0] != "Dr. Smith went home." {
		t.Errorf("sentence 0 = %q", sentences[0])
	}
	if sentences[1] != "He slept." {
		t.Errorf("sentence 1 = %q", sentences[1])
	}
}

func TestSentenceSplitNumericLiteral(t *testing.T) {
	sentences := splitSentences("The price is 5.99 today. It changed.")
	if len(sentences) != 2 {
		t.Fatalf("got %d sentences: %v", len(sentences), sentences)
	}
	if !strings.Contains(sentences[0], "5.99") {
		t.Errorf("numeric literal split incorrectly: %q", sentences[0])
	}
}

func TestChunkAndReconstructSentences(t *testing.T) {
	text := "Dr. Smith went home. He slept well that night."
	chunks := Chunk("ch1", text, DefaultConfig())
	got := Reconstruct(chunks)
	if strings.Join(strings.Fields(got), " ") != strings.Join(strings.Fields(text), " ") {
		t.Fatalf("reconstruct mismatch:\n got: %q\nwant: %q", got, text)
	}
}

func TestChunkClassifiesHeadingAndCode(t *testing.T) {
	text := "# Title\n\nSome body text here.\n\n```\ncode block\n```\n"
	chunks := Chunk("ch1", text, DefaultConfig())

	var sawHeading, sawCode bool
	for _, c := range chunks {
		if c.Type == TypeHeading {
			sawHeading = true
		}
		if c.Type == TypeCode {
			sawCode = true
		}
	}
	if !sawHeading || !sawCode {
		t.Fatalf("expected heading and code chunks, got %+v", chunks)
	}
}

func TestSentenceBoundariesStartAtZero(t *testing.T) {
	chunks := Chunk("ch1", "One. Two. Three.", DefaultConfig())
	for _, c := range chunks {
		if len(c.SentenceBoundaries) == 0 || c.SentenceBoundaries[0] != 0 {
			t.Fatalf("chunk %+v: boundaries must start at 0", c)
		}
		for i := 1; i < len(c.SentenceBoundaries); i++ {
			if c.SentenceBoundaries[i] <= c.SentenceBoundaries[i-1] {
				t.Fatalf("chunk %+v: boundaries not strictly increasing", c)
			}
		}
	}
}

func TestLinkedChunksSymmetric(t *testing.T) {
	chunks := Chunk("ch1", "One sentence here. Another sentence follows.", DefaultConfig())
	for _, c := range chunks {
		for otherID := range c.LinkedChunks {
			found := false
			for _, other := range chunks {
				if other.ID == otherID && other.LinkedChunks[c.ID] {
					found = true
				}
			}
			if !found {
				t.Fatalf("link from %s to %s is not symmetric", c.ID, otherID)
			}
		}
	}
}

package content

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/tradocflow/tradocflow/internal/langcode"
)

func buildSample(t *testing.T) *ChapterData {
	t.Helper()
	b := NewBuilder(1, "intro", "en", "Introduction", "es", "fr")
	u, err := b.AddUnit("Hello world.", ComplexityLow)
	if err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if err := b.Translate(u.ID, "es", TranslationVersion{Text: "Hola mundo.", Status: StatusDraft}); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func TestBuilderRejectsUndeclaredLanguage(t *testing.T) {
	b := NewBuilder(1, "intro", "en", "Introduction", "es")
	u, err := b.AddUnit("Hello.", ComplexityLow)
	if err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	err = b.Translate(u.ID, "de", TranslationVersion{Text: "Hallo.", Status: StatusDraft})
	if !errors.Is(err, ErrUndeclaredLanguage) {
		t.Fatalf("expected ErrUndeclaredLanguage, got %v", err)
	}
}

func TestValidatePositionConflict(t *testing.T) {
	c := buildSample(t)
	c.Units = append(c.Units, c.Units[0]) // duplicate position
	if err := Validate(c); !errors.Is(err, ErrPositionConflict) {
		t.Fatalf("expected ErrPositionConflict, got %v", err)
	}
}

func TestValidateMissingSourceLanguage(t *testing.T) {
	c := buildSample(t)
	delete(c.Titles, c.SourceLanguage)
	if err := Validate(c); !errors.Is(err, ErrMissingSourceLanguage) {
		t.Fatalf("expected ErrMissingSourceLanguage, got %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	c := buildSample(t)
	path := filepath.Join(t.TempDir(), "intro.toml")

	if err := WriteChapter(path, c); err != nil {
		t.Fatalf("WriteChapter: %v", err)
	}
	got, err := ReadChapter(path)
	if err != nil {
		t.Fatalf("ReadChapter: %v", err)
	}
	if got.Slug != c.Slug || len(got.Units) != len(c.Units) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, c)
	}
	if got.Units[0].Translations["es"].Text != "Hola mundo." {
		t.Fatalf("translation lost in round trip: %+v", got.Units[0])
	}
}

func TestIsPromotion(t *testing.T) {
	tests := []struct {
		old, new Status
		want     bool
	}{
		{StatusInProgress, StatusCompleted, true},
		{StatusUnderReview, StatusDraft, false},
		{StatusDraft, StatusDraft, false},
		{StatusCompleted, StatusApproved, true},
	}
	for _, tt := range tests {
		if got := IsPromotion(tt.old, tt.new); got != tt.want {
			t.Errorf("IsPromotion(%s, %s) = %v, want %v", tt.old, tt.new, got, tt.want)
		}
	}
}

func TestLangCodeSet(t *testing.T) {
	s := langcode.NewSet("en", "ES")
	if !s.Contains("es") {
		t.Fatal("expected case-insensitive match")
	}
	if s.Contains("de") {
		t.Fatal("unexpected match for de")
	}
}

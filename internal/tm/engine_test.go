package tm

import (
	"context"
	"testing"
	"time"

	"github.com/tradocflow/tradocflow/internal/tm/cache"
)

// fakeIndex is an in-memory stand-in for index.Store, letting engine tests
// run without sqlite.
type fakeIndex struct {
	units []Unit
}

func (f *fakeIndex) InsertBatch(_ context.Context, units []Unit) error {
	f.units = append(f.units, units...)
	return nil
}

func (f *fakeIndex) ExactMatch(_ context.Context, text, source, target string) ([]Unit, error) {
	var out []Unit
	for _, u := range f.units {
		if u.SourceText == text && string(u.SourceLanguage) == source && string(u.TargetLanguage) == target {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeIndex) CandidatesForPair(_ context.Context, source, target string) ([]Unit, error) {
	var out []Unit
	for _, u := range f.units {
		if string(u.SourceLanguage) == source && string(u.TargetLanguage) == target {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeIndex) NgramMatch(_ context.Context, word, source, target string) ([]Unit, error) {
	var out []Unit
	for _, u := range f.units {
		if string(u.SourceLanguage) == source && string(u.TargetLanguage) == target && contains(u.SourceText, word) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeIndex) RowCount(_ context.Context) (int64, error) { return int64(len(f.units)), nil }

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

type fakeArchive struct {
	batches map[string][]Unit
}

func (f *fakeArchive) WriteBatch(projectID string, units []Unit) error {
	if f.batches == nil {
		f.batches = make(map[string][]Unit)
	}
	f.batches[projectID] = append(f.batches[projectID], units...)
	return nil
}

func newTestEngine() (*Engine, *fakeIndex, *fakeArchive) {
	idx := &fakeIndex{}
	arc := &fakeArchive{}
	e := &Engine{Index: idx, Archive: arc, Cache: cache.New(time.Minute), maxResults: 20}
	return e, idx, arc
}

func TestSearchSimilarExactMatch(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	if err := e.Insert(ctx, Unit{
		ID: "u1", ProjectID: "p1", SourceLanguage: "en", TargetLanguage: "es",
		SourceText: "Hello world", TargetText: "Hola mundo", Confidence: 0.95,
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	matches, err := e.SearchSimilar(ctx, "Hello world", LanguagePair{Source: "en", Target: "es"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
	}
	if matches[0].Similarity != 1.0 {
		t.Errorf("similarity = %f, want 1.0", matches[0].Similarity)
	}
	if matches[0].TargetText != "Hola mundo" {
		t.Errorf("target = %q", matches[0].TargetText)
	}
}

func TestInsertInvalidatesCache(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()
	pair := LanguagePair{Source: "en", Target: "es"}

	if _, err := e.SearchSimilar(ctx, "Hello world", pair); err != nil {
		t.Fatalf("search: %v", err)
	}
	if err := e.Insert(ctx, Unit{
		ID: "u1", ProjectID: "p1", SourceLanguage: "en", TargetLanguage: "es",
		SourceText: "Hello world", TargetText: "Hola mundo", Confidence: 0.9,
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	matches, err := e.SearchSimilar(ctx, "Hello world", pair)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("cache was not invalidated on write: got %d matches", len(matches))
	}
}

func TestSearchSimilarBatch(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()
	pair := LanguagePair{Source: "en", Target: "es"}
	_ = e.Insert(ctx, Unit{ID: "u1", ProjectID: "p1", SourceLanguage: "en", TargetLanguage: "es", SourceText: "Hello world", TargetText: "Hola mundo", Confidence: 0.9})
	_ = e.Insert(ctx, Unit{ID: "u2", ProjectID: "p1", SourceLanguage: "en", TargetLanguage: "es", SourceText: "Goodbye", TargetText: "Adios", Confidence: 0.9})

	results, err := e.SearchSimilarBatch(ctx, []string{"Hello world", "Goodbye"}, pair)
	if err != nil {
		t.Fatalf("batch search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d result sets, want 2", len(results))
	}
	if len(results[0]) != 1 || results[0][0].ID != "u1" {
		t.Errorf("result 0 = %+v", results[0])
	}
	if len(results[1]) != 1 || results[1][0].ID != "u2" {
		t.Errorf("result 1 = %+v", results[1])
	}
}

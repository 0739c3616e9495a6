package aligncache

import (
	"testing"

	"github.com/tradocflow/tradocflow/internal/align"
)

// TestCacheInvalidationOnWrite is scenario S7 from spec.md §8.
func TestCacheInvalidationOnWrite(t *testing.T) {
	c := New(DefaultConfig())
	key := Key{SourceLang: "en", TargetLang: "es", ConfigHash: "cfg1", ContentHash: "content1"}
	c.Put(key, Entry{Alignments: []align.SentenceAlignment{{SourceSentence: "Hi.", TargetSentence: "Hola."}}})

	if _, ok := c.Get(key); !ok {
		t.Fatalf("expected entry to be present before invalidation")
	}

	c.InvalidatePair("en", "es")

	if _, ok := c.Get(key); ok {
		t.Fatalf("expected entry to be gone after invalidate_language_pair(en, es)")
	}
}

func TestCacheInvalidatePairIsScoped(t *testing.T) {
	c := New(DefaultConfig())
	enEs := Key{SourceLang: "en", TargetLang: "es", ConfigHash: "c", ContentHash: "a"}
	enFr := Key{SourceLang: "en", TargetLang: "fr", ConfigHash: "c", ContentHash: "a"}
	c.Put(enEs, Entry{})
	c.Put(enFr, Entry{})

	c.InvalidatePair("en", "es")

	if _, ok := c.Get(enEs); ok {
		t.Errorf("en->es should have been invalidated")
	}
	if _, ok := c.Get(enFr); !ok {
		t.Errorf("en->fr should not have been invalidated")
	}
}

func TestEvictionRespectsMaxEntries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEntries = 2
	c := New(cfg)

	c.Put(Key{SourceLang: "en", TargetLang: "es", ContentHash: "1"}, Entry{})
	c.Put(Key{SourceLang: "en", TargetLang: "es", ContentHash: "2"}, Entry{})
	c.Put(Key{SourceLang: "en", TargetLang: "es", ContentHash: "3"}, Entry{})

	if len(c.entries) > cfg.MaxEntries {
		t.Fatalf("got %d entries, want <= %d", len(c.entries), cfg.MaxEntries)
	}
}

func TestWarmupPrimesCache(t *testing.T) {
	c := New(DefaultConfig())
	key := Key{SourceLang: "en", TargetLang: "de", ContentHash: "x"}
	c.Warmup(map[Key]Entry{key: {Alignments: []align.SentenceAlignment{{SourceSentence: "Hi."}}}})

	if _, ok := c.Get(key); !ok {
		t.Fatalf("expected warmed-up entry to be present")
	}
}

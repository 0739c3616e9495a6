package mpa

import (
	"errors"
	"sync"
	"time"

	"github.com/tradocflow/tradocflow/internal/align"
	"github.com/tradocflow/tradocflow/internal/aligncache"
	"github.com/tradocflow/tradocflow/internal/langcode"
	"github.com/tradocflow/tradocflow/internal/structure"
)

var ErrTooManyPanes = errors.New("mpa: pane limit reached")
var ErrPaneNotFound = errors.New("mpa: pane not found")

// Config bounds a Coordinator.
type Config struct {
	MaxPanes            int
	EnableRealTimeSync  bool
	SupportedLanguages  langcode.Set
}

// DefaultConfig matches spec.md's stated default of 4 panes with real-time
// sync enabled.
func DefaultConfig() Config {
	return Config{MaxPanes: DefaultMaxPanes, EnableRealTimeSync: true}
}

// Coordinator is the multi-pane alignment coordinator of spec.md §4.H.
type Coordinator struct {
	mu    sync.Mutex
	cfg   Config
	panes map[string]*Pane

	aligner *align.Aligner
	cache   *aligncache.Cache

	structures map[string]structure.Result
	alignments map[[2]string][]align.SentenceAlignment

	subscribers []chan SyncEvent
}

// New builds a Coordinator backed by its own Aligner and alignment cache.
func New(cfg Config) *Coordinator {
	if cfg.MaxPanes <= 0 {
		cfg.MaxPanes = DefaultMaxPanes
	}
	c := &Coordinator{
		cfg:        cfg,
		panes:      make(map[string]*Pane),
		aligner:    align.New(align.DefaultConfig()),
		cache:      aligncache.New(aligncache.DefaultConfig()),
		structures: make(map[string]structure.Result),
		alignments: make(map[[2]string][]align.SentenceAlignment),
	}
	c.aligner.OnInvalidate(c.cache.InvalidatePair)
	return c
}

// Subscribe registers a channel to receive SyncEvents. The caller owns the
// returned channel and should drain it; the coordinator never blocks
// indefinitely on a slow subscriber (the channel is buffered).
func (c *Coordinator) Subscribe() <-chan SyncEvent {
	ch := make(chan SyncEvent, 64)
	c.mu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.mu.Unlock()
	return ch
}

// OpenPane registers a new pane, enforcing the configured pane limit.
func (c *Coordinator) OpenPane(id string, lang langcode.Code, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.panes) >= c.cfg.MaxPanes {
		return ErrTooManyPanes
	}
	c.panes[id] = &Pane{ID: id, Language: lang, Content: content}
	delete(c.structures, id)
	return nil
}

// Structure returns paneID's cached structure analysis, computing and
// caching it on first access after open or the last content mutation.
func (c *Coordinator) Structure(paneID string) (structure.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pane, ok := c.panes[paneID]
	if !ok {
		return structure.Result{}, ErrPaneNotFound
	}
	if cached, ok := c.structures[paneID]; ok {
		return cached, nil
	}
	result := structure.Analyze(pane.Content, pane.Language)
	c.structures[paneID] = result
	return result, nil
}

// ClosePane removes a pane and its cached structure/alignments.
func (c *Coordinator) ClosePane(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.panes, id)
	delete(c.structures, id)
	for pair := range c.alignments {
		if pair[0] == id || pair[1] == id {
			delete(c.alignments, pair)
		}
	}
}

// UpdatePaneContent implements spec.md §4.H's per-mutation pipeline: update
// content, invalidate structure, recompute alignments against every other
// pane, and (if enabled) derive synchronized cursor positions.
func (c *Coordinator) UpdatePaneContent(id string, content string, cursorOffset int) (map[langcode.Code]int, error) {
	c.mu.Lock()
	pane, ok := c.panes[id]
	if !ok {
		c.mu.Unlock()
		return nil, ErrPaneNotFound
	}
	pane.Content = content
	delete(c.structures, id)

	others := make([]*Pane, 0, len(c.panes)-1)
	for otherID, other := range c.panes {
		if otherID == id {
			continue
		}
		others = append(others, other)
		pair := pairKey(id, otherID)
		alignments := c.aligner.AlignText(pane.Content, other.Content, pane.Language, other.Language)
		c.alignments[pair] = alignments
	}

	var synced map[langcode.Code]int
	if c.cfg.EnableRealTimeSync {
		paneContents := make(map[langcode.Code]string, len(c.panes))
		for _, p := range c.panes {
			paneContents[p.Language] = p.Content
		}
		synced = c.aligner.SynchronizeSentenceBoundaries(paneContents, cursorOffset, pane.Language)
	}
	c.mu.Unlock()

	c.publish(SyncEvent{
		Type:          EventTextChange,
		AffectedPanes: affectedIDs(id, others),
		Timestamp:     time.Now().UTC(),
	})
	if synced != nil {
		c.publish(SyncEvent{
			Type:          EventCursorMove,
			AffectedPanes: affectedIDs(id, others),
			Timestamp:     time.Now().UTC(),
			Data:          synced,
		})
	}
	return synced, nil
}

func affectedIDs(self string, others []*Pane) []string {
	ids := make([]string, 0, len(others)+1)
	ids = append(ids, self)
	for _, o := range others {
		ids = append(ids, o.ID)
	}
	return ids
}

func (c *Coordinator) publish(ev SyncEvent) {
	c.mu.Lock()
	subs := append([]chan SyncEvent(nil), c.subscribers...)
	c.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

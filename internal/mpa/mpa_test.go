package mpa

import "testing"

func TestOpenPaneEnforcesLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPanes = 2
	c := New(cfg)

	if err := c.OpenPane("p1", "en", "Hello."); err != nil {
		t.Fatalf("open p1: %v", err)
	}
	if err := c.OpenPane("p2", "es", "Hola."); err != nil {
		t.Fatalf("open p2: %v", err)
	}
	if err := c.OpenPane("p3", "fr", "Bonjour."); err != ErrTooManyPanes {
		t.Fatalf("expected ErrTooManyPanes, got %v", err)
	}
}

func TestUpdatePaneContentRecomputesAlignments(t *testing.T) {
	c := New(DefaultConfig())
	_ = c.OpenPane("en", "en", "First sentence. Second sentence.")
	_ = c.OpenPane("es", "es", "Primera oración. Segunda oración.")

	synced, err := c.UpdatePaneContent("en", "First sentence. Second sentence.", 20)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := synced["es"]; !ok {
		t.Fatalf("expected synced cursor for es pane, got %+v", synced)
	}

	result := c.PerformQualityMonitoring()
	if len(result.AlignmentQualities) != 1 {
		t.Fatalf("expected 1 tracked pair, got %d", len(result.AlignmentQualities))
	}
}

func TestUpdateUnknownPaneErrors(t *testing.T) {
	c := New(DefaultConfig())
	if _, err := c.UpdatePaneContent("missing", "text", 0); err != ErrPaneNotFound {
		t.Fatalf("expected ErrPaneNotFound, got %v", err)
	}
}

func TestSubscribeReceivesTextChangeEvent(t *testing.T) {
	c := New(DefaultConfig())
	ch := c.Subscribe()
	_ = c.OpenPane("en", "en", "Hello.")
	_ = c.OpenPane("es", "es", "Hola.")

	if _, err := c.UpdatePaneContent("en", "Hello there.", 0); err != nil {
		t.Fatalf("update: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Type != EventTextChange {
			t.Errorf("first event type = %v, want %v", ev.Type, EventTextChange)
		}
	default:
		t.Fatalf("expected a SyncEvent to be published")
	}
}

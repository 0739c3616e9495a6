package textproc

import "testing"

// TestBoldApplyUnapplyRoundTrip is scenario S3 from spec.md §8.
func TestBoldApplyUnapplyRoundTrip(t *testing.T) {
	b := NewBuffer("Hello")
	anchor := Position{Offset: 0}
	b.cursors = []Cursor{{ID: "c1", Head: Position{Offset: 5}, Anchor: &anchor}}

	if err := b.ApplyFormatting(Format{Kind: FormatBold}); err != nil {
		t.Fatalf("apply bold: %v", err)
	}
	if b.Text() != "**Hello**" {
		t.Fatalf("after bold = %q, want **Hello**", b.Text())
	}

	anchor2 := Position{Offset: 0}
	b.cursors = []Cursor{{ID: "c1", Head: Position{Offset: 9}, Anchor: &anchor2}}
	if err := b.ApplyFormatting(Format{Kind: FormatBold}); err != nil {
		t.Fatalf("unapply bold: %v", err)
	}
	if b.Text() != "Hello" {
		t.Fatalf("after unbold = %q, want Hello", b.Text())
	}
}

func TestInsertShiftsLaterCursor(t *testing.T) {
	b := NewBuffer("Hello world")
	id, err := b.AddCursor(11)
	if err != nil {
		t.Fatalf("add cursor: %v", err)
	}
	if err := b.InsertText(0, "Say: "); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var found bool
	for _, c := range b.Cursors() {
		if c.ID == id {
			found = true
			if c.Head.Offset != 16 {
				t.Errorf("cursor offset = %d, want 16", c.Head.Offset)
			}
		}
	}
	if !found {
		t.Fatalf("cursor %s missing after insert", id)
	}
}

func TestDeleteSnapsCursorInsideRange(t *testing.T) {
	b := NewBuffer("Hello world")
	id, _ := b.AddCursor(8)
	if err := b.DeleteRange(5, 11); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, c := range b.Cursors() {
		if c.ID == id && c.Head.Offset != 5 {
			t.Errorf("cursor offset = %d, want 5", c.Head.Offset)
		}
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	b := NewBuffer("Hello")
	if err := b.InsertText(5, " world"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if b.Text() != "Hello world" {
		t.Fatalf("got %q", b.Text())
	}
	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if b.Text() != "Hello" {
		t.Fatalf("after undo: got %q, want Hello", b.Text())
	}
	if err := b.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if b.Text() != "Hello world" {
		t.Fatalf("after redo: got %q", b.Text())
	}
}

func TestRemoveLastCursorFails(t *testing.T) {
	b := NewBuffer("Hello")
	only := b.Cursors()[0]
	if err := b.RemoveCursor(only.ID); err != ErrLastCursor {
		t.Fatalf("expected ErrLastCursor, got %v", err)
	}
}

func TestFindTextWholeWordNonRegex(t *testing.T) {
	b := NewBuffer("cat catalog cat")
	matches, err := b.FindText("cat", FindOptions{CaseSensitive: true, WholeWord: true, Scope: ScopeDocument})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2 (whole-word 'cat' occurrences): %+v", len(matches), matches)
	}
}

func TestReplaceAllProcessesInReverseOrder(t *testing.T) {
	b := NewBuffer("one two one two")
	n, err := b.ReplaceAll("one", "ONE", FindOptions{CaseSensitive: true, Scope: ScopeDocument})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if n != 2 {
		t.Fatalf("replaced %d, want 2", n)
	}
	if b.Text() != "ONE two ONE two" {
		t.Fatalf("got %q", b.Text())
	}
}

func TestFindTextInvalidRegexReturnsRegexError(t *testing.T) {
	b := NewBuffer("anything")
	_, err := b.FindText("(unclosed", FindOptions{UseRegex: true, Scope: ScopeDocument})
	if err == nil {
		t.Fatalf("expected error for invalid regex")
	}
}

package textproc

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrPositionOutOfRange = errors.New("textproc: position out of range")
	ErrLastCursor         = errors.New("textproc: cannot remove the last cursor")
	ErrEmptyCursorSet     = errors.New("textproc: set_cursors requires at least one cursor")
	ErrNothingToUndo      = errors.New("textproc: nothing to undo")
	ErrNothingToRedo      = errors.New("textproc: nothing to redo")
)

const defaultHistoryLimit = 1000

// Buffer is the per-editor text buffer of spec.md §4.I. Its content is
// held as a plain string: the rope structure the ambient description
// alludes to is a performance optimization for very large documents, not a
// correctness requirement, and every operation here is already O(n) in
// document size like a naive rope split/join would be for this buffer's
// expected sizes (single chapters, not whole books).
type Buffer struct {
	text    string
	cursors []Cursor

	undo []TextOperation
	redo []TextOperation

	historyLimit int
}

// NewBuffer creates a Buffer over text with a single cursor at offset 0.
func NewBuffer(text string) *Buffer {
	b := &Buffer{text: text, historyLimit: defaultHistoryLimit}
	b.cursors = []Cursor{{ID: uuid.NewString(), Head: positionAt(text, 0)}}
	return b
}

// Text returns the buffer's current content.
func (b *Buffer) Text() string { return b.text }

// Cursors returns the current cursor set.
func (b *Buffer) Cursors() []Cursor { return append([]Cursor(nil), b.cursors...) }

func (b *Buffer) validRange(start, end int) error {
	if start < 0 || end > len(b.text) || start > end {
		return ErrPositionOutOfRange
	}
	return nil
}

// InsertText implements insert_text(pos, text): validates pos, applies the
// edit, records its inverse, and reprojects cursors.
func (b *Buffer) InsertText(pos int, text string) error {
	if err := b.validRange(pos, pos); err != nil {
		return err
	}
	op := TextOperation{Kind: OpInsert, Pos: pos, Old: "", New: text}
	b.apply(op, true)
	return nil
}

// DeleteRange implements delete_range(start, end).
func (b *Buffer) DeleteRange(start, end int) error {
	if err := b.validRange(start, end); err != nil {
		return err
	}
	op := TextOperation{Kind: OpDelete, Pos: start, Old: b.text[start:end], New: ""}
	b.apply(op, true)
	return nil
}

// ReplaceRange implements replace_range(start, end, new).
func (b *Buffer) ReplaceRange(start, end int, newText string) error {
	if err := b.validRange(start, end); err != nil {
		return err
	}
	op := TextOperation{Kind: OpReplace, Pos: start, Old: b.text[start:end], New: newText}
	b.apply(op, true)
	return nil
}

// apply performs op's edit on the buffer text, reprojects cursors, and (if
// recordHistory) pushes op onto the undo stack and clears redo, per
// spec.md §4.I's "redo is cleared on any non-history-mutating edit".
func (b *Buffer) apply(op TextOperation, recordHistory bool) {
	oldLen := len(op.Old)
	newLen := len(op.New)

	switch op.Kind {
	case OpInsert:
		b.text = b.text[:op.Pos] + op.New + b.text[op.Pos:]
	case OpDelete:
		b.text = b.text[:op.Pos] + b.text[op.Pos+oldLen:]
	case OpReplace:
		b.text = b.text[:op.Pos] + op.New + b.text[op.Pos+oldLen:]
	}

	b.reprojectCursors(op.Pos, oldLen, newLen)

	if recordHistory {
		b.undo = append(b.undo, op)
		if len(b.undo) > b.historyLimit {
			b.undo = b.undo[len(b.undo)-b.historyLimit:]
		}
		b.redo = nil
	}
}

// reprojectCursors implements spec.md §4.I.1's cursor reprojection rules
// for every cursor head and selection anchor.
func (b *Buffer) reprojectCursors(position, oldLen, newLen int) {
	delta := newLen - oldLen
	for i := range b.cursors {
		b.cursors[i].Head = Position{Offset: reproject(b.cursors[i].Head.Offset, position, oldLen, newLen, delta)}
		if b.cursors[i].Anchor != nil {
			reprojected := Position{Offset: reproject(b.cursors[i].Anchor.Offset, position, oldLen, newLen, delta)}
			b.cursors[i].Anchor = &reprojected
		}
	}
	b.recomputeLineColumns()
}

// reproject is the literal rule from spec.md §4.I.1:
//   - offset > position + oldLen: shift by delta
//   - else if offset > position: snap to position + newLen (insert/replace)
//     or position (delete, i.e. newLen == 0 and oldLen > 0)
//   - else: unchanged
func reproject(offset, position, oldLen, newLen, delta int) int {
	switch {
	case offset > position+oldLen:
		return offset + delta
	case offset > position:
		if newLen == 0 && oldLen > 0 {
			return position
		}
		return position + newLen
	default:
		return offset
	}
}

func (b *Buffer) recomputeLineColumns() {
	for i := range b.cursors {
		b.cursors[i].Head = positionAt(b.text, b.cursors[i].Head.Offset)
		if b.cursors[i].Anchor != nil {
			p := positionAt(b.text, b.cursors[i].Anchor.Offset)
			b.cursors[i].Anchor = &p
		}
	}
}

// positionAt computes {line, column, offset} for a byte offset, lines and
// columns counted from 0.
func positionAt(text string, offset int) Position {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	line := strings.Count(text[:offset], "\n")
	lastNL := strings.LastIndexByte(text[:offset], '\n')
	column := offset - lastNL - 1
	return Position{Line: line, Column: column, Offset: offset}
}

// SetCursors implements set_cursors(cursors): replaces the cursor set,
// rejecting an empty set.
func (b *Buffer) SetCursors(cursors []Cursor) error {
	if len(cursors) == 0 {
		return ErrEmptyCursorSet
	}
	b.cursors = append([]Cursor(nil), cursors...)
	b.recomputeLineColumns()
	return nil
}

// AddCursor implements add_cursor(pos), returning the new cursor's id.
func (b *Buffer) AddCursor(pos int) (string, error) {
	if err := b.validRange(pos, pos); err != nil {
		return "", err
	}
	id := uuid.NewString()
	b.cursors = append(b.cursors, Cursor{ID: id, Head: positionAt(b.text, pos)})
	return id, nil
}

// RemoveCursor implements remove_cursor(id), refusing to drop the last
// cursor.
func (b *Buffer) RemoveCursor(id string) error {
	if len(b.cursors) <= 1 {
		return ErrLastCursor
	}
	for i, c := range b.cursors {
		if c.ID == id {
			b.cursors = append(b.cursors[:i], b.cursors[i+1:]...)
			return nil
		}
	}
	return nil
}

// Undo pops the most recent operation off the undo stack and applies its
// inverse, pushing the original operation onto the redo stack.
func (b *Buffer) Undo() error {
	if len(b.undo) == 0 {
		return ErrNothingToUndo
	}
	op := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	inv := op.Inverse()
	b.apply(inv, false)
	b.redo = append(b.redo, op)
	if len(b.redo) > b.historyLimit {
		b.redo = b.redo[len(b.redo)-b.historyLimit:]
	}
	return nil
}

// Redo re-applies the most recently undone operation.
func (b *Buffer) Redo() error {
	if len(b.redo) == 0 {
		return ErrNothingToRedo
	}
	op := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.apply(op, false)
	b.undo = append(b.undo, op)
	return nil
}

package history

import (
	"errors"
	"testing"

	"github.com/dshills/trimsave/internal/engine/buffer"
	"github.com/dshills/trimsave/internal/engine/cursor"
)

// applyDelete deletes [start,end) and returns the recorded command.
func applyDelete(t *testing.T, buf *buffer.Buffer, caret *cursor.Cursor, start, end ByteOffset) Command {
	t.Helper()

	op := NewOperation(Range{Start: start, End: end}, buf.TextRange(start, end), "")
	op.CaretBefore = *caret
	if err := buf.Delete(start, end); err != nil {
		t.Fatalf("delete: %v", err)
	}
	*caret = cursor.TransformCursor(*caret, cursor.Edit{Range: op.Range})
	op.CaretAfter = *caret
	return NewEditCommand(op)
}

func TestOperationInvert(t *testing.T) {
	op := NewOperation(Range{Start: 2, End: 5}, "abc", "")
	op.CaretBefore = cursor.NewCursor(5)
	op.CaretAfter = cursor.NewCursor(2)

	inv := op.Invert()
	if inv.Range != (Range{Start: 2, End: 2}) {
		t.Errorf("wrong inverted range: %s", inv.Range)
	}
	if inv.NewText != "abc" || inv.OldText != "" {
		t.Errorf("wrong inverted text: old=%q new=%q", inv.OldText, inv.NewText)
	}
	if inv.CaretAfter.Offset() != 5 {
		t.Errorf("inverted caret should restore 5, got %d", inv.CaretAfter.Offset())
	}
	if op.BytesDelta() != -3 {
		t.Errorf("expected delta -3, got %d", op.BytesDelta())
	}
}

func TestUndoRedoSingleEdit(t *testing.T) {
	buf := buffer.NewBufferFromString("hello   ")
	caret := cursor.NewCursor(8)
	h := NewHistory(10)

	h.Push(applyDelete(t, buf, &caret, 5, 8))
	if buf.Text() != "hello" || caret.Offset() != 5 {
		t.Fatalf("after delete: %q caret=%d", buf.Text(), caret.Offset())
	}

	if err := h.Undo(buf, &caret); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if buf.Text() != "hello   " || caret.Offset() != 8 {
		t.Errorf("after undo: %q caret=%d", buf.Text(), caret.Offset())
	}

	if err := h.Redo(buf, &caret); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if buf.Text() != "hello" || caret.Offset() != 5 {
		t.Errorf("after redo: %q caret=%d", buf.Text(), caret.Offset())
	}
}

func TestUndoEmpty(t *testing.T) {
	h := NewHistory(0)
	buf := buffer.NewBuffer()
	caret := cursor.NewCursor(0)

	if err := h.Undo(buf, &caret); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if err := h.Redo(buf, &caret); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestGroupFoldsIntoOneEntry(t *testing.T) {
	buf := buffer.NewBufferFromString("a  \nb\t\n\n")
	caret := cursor.NewCursor(0)
	h := NewHistory(10)

	h.BeginGroup("Trim")
	h.Push(applyDelete(t, buf, &caret, 1, 3))
	h.Push(applyDelete(t, buf, &caret, 3, 4))
	h.Push(applyDelete(t, buf, &caret, 3, 5))
	h.EndGroup()

	if buf.Text() != "a\nb" {
		t.Fatalf("unexpected text %q", buf.Text())
	}
	if h.UndoCount() != 1 {
		t.Fatalf("expected 1 undo entry, got %d", h.UndoCount())
	}
	info, ok := h.PeekUndo()
	if !ok || info.Description != "Trim" {
		t.Errorf("expected group description 'Trim', got %q", info.Description)
	}

	if err := h.Undo(buf, &caret); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if buf.Text() != "a  \nb\t\n\n" {
		t.Errorf("undo should restore original, got %q", buf.Text())
	}
}

func TestNestedGroups(t *testing.T) {
	buf := buffer.NewBufferFromString("abcdef")
	caret := cursor.NewCursor(0)
	h := NewHistory(10)

	h.BeginGroup("outer")
	h.Push(applyDelete(t, buf, &caret, 0, 1))
	h.BeginGroup("inner")
	h.Push(applyDelete(t, buf, &caret, 0, 1))
	h.EndGroup()

	if !h.IsGrouping() {
		t.Fatal("outer group should still be open")
	}
	if h.UndoCount() != 0 {
		t.Fatalf("nothing should be pushed before the outer group ends, got %d", h.UndoCount())
	}

	h.EndGroup()
	if h.UndoCount() != 1 {
		t.Fatalf("expected 1 undo entry, got %d", h.UndoCount())
	}
	if info, _ := h.PeekUndo(); info.Description != "outer" {
		t.Errorf("expected outer name, got %q", info.Description)
	}
}

func TestMaxEntriesEnforced(t *testing.T) {
	buf := buffer.NewBufferFromString("abcdef")
	caret := cursor.NewCursor(0)
	h := NewHistory(2)

	for i := 0; i < 4; i++ {
		h.Push(applyDelete(t, buf, &caret, 0, 1))
	}
	if h.UndoCount() != 2 {
		t.Errorf("expected 2 entries, got %d", h.UndoCount())
	}
}

func TestPushClearsRedo(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	caret := cursor.NewCursor(0)
	h := NewHistory(10)

	h.Push(applyDelete(t, buf, &caret, 0, 1))
	_ = h.Undo(buf, &caret)
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	h.Push(applyDelete(t, buf, &caret, 0, 1))
	if h.CanRedo() {
		t.Error("push should clear the redo stack")
	}
}

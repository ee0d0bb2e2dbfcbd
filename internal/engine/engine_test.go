package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	e := New()

	if !e.IsEmpty() {
		t.Error("new engine should be empty")
	}
	if e.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", e.LineCount())
	}
	if e.ReadOnly() {
		t.Error("new engine should be writable")
	}
}

func TestNewWithOptions(t *testing.T) {
	e := New(
		WithContent("hello\nworld"),
		WithCaret(Point{Line: 1, Column: 3}),
	)

	if e.Text() != "hello\nworld" {
		t.Errorf("unexpected text %q", e.Text())
	}
	if got := e.Caret(); got != (Point{Line: 1, Column: 3}) {
		t.Errorf("expected caret 1:3, got %s", got)
	}
	if e.CaretOffset() != 9 {
		t.Errorf("expected caret offset 9, got %d", e.CaretOffset())
	}
}

func TestNewFromReader(t *testing.T) {
	e, err := NewFromReader(strings.NewReader("a\r\nb\r\n"), WithCaret(Point{Line: 5}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.LineEnding().Sequence() != "\r\n" {
		t.Errorf("expected CRLF, got %s", e.LineEnding())
	}
	if got := e.Caret(); got.Line != 2 {
		t.Errorf("caret line should clamp to last line, got %s", got)
	}
}

func TestDeleteMovesCaret(t *testing.T) {
	tests := []struct {
		name       string
		start, end ByteOffset
		caret      Point
		wantText   string
		wantCaret  Point
	}{
		{"caret after range", 1, 3, Point{Line: 1, Column: 1}, "a\nb", Point{Line: 1, Column: 1}},
		{"caret inside range", 1, 3, Point{Line: 0, Column: 2}, "a\nb", Point{Line: 0, Column: 1}},
		{"caret before range", 1, 3, Point{Line: 0, Column: 0}, "a\nb", Point{Line: 0, Column: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithContent("a  \nb"), WithCaret(tt.caret))
			if err := e.Delete(tt.start, tt.end); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if e.Text() != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, e.Text())
			}
			if got := e.Caret(); got != tt.wantCaret {
				t.Errorf("expected caret %s, got %s", tt.wantCaret, got)
			}
		})
	}
}

func TestEmptyDeleteRecordsNothing(t *testing.T) {
	e := New(WithContent("abc"))
	rev := e.RevisionID()

	if err := e.Delete(2, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.CanUndo() {
		t.Error("empty delete should not create an undo entry")
	}
	if e.RevisionID() != rev {
		t.Error("empty delete should not change the revision")
	}
}

func TestInvalidRange(t *testing.T) {
	e := New(WithContent("abc"))

	if err := e.Delete(2, 1); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
	if _, err := e.Insert(10, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestReadOnly(t *testing.T) {
	e := New(WithContent("abc  "), WithReadOnly())

	if !e.ReadOnly() {
		t.Fatal("expected read-only engine")
	}
	if err := e.Delete(3, 5); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if _, err := e.Insert(0, "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if e.Text() != "abc  " {
		t.Errorf("read-only text changed: %q", e.Text())
	}

	e.SetReadOnly(false)
	if err := e.Delete(3, 5); err != nil {
		t.Errorf("unexpected error after clearing read-only: %v", err)
	}
}

func TestUndoRedo(t *testing.T) {
	e := New(WithContent("hello"), WithCaret(Point{Column: 5}))

	if _, err := e.Insert(5, " world"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if e.Text() != "hello world" {
		t.Fatalf("unexpected text %q", e.Text())
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if e.Text() != "hello" {
		t.Errorf("after undo: %q", e.Text())
	}
	if e.CaretOffset() != 5 {
		t.Errorf("undo should restore caret to 5, got %d", e.CaretOffset())
	}

	if err := e.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if e.Text() != "hello world" {
		t.Errorf("after redo: %q", e.Text())
	}

	if err := e.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestUndoEmpty(t *testing.T) {
	e := New()
	if err := e.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestUserActionGroupsEdits(t *testing.T) {
	original := "a \nb\t\n\n\n"
	e := New(WithContent(original))

	e.BeginUserAction("strip")
	if err := e.Delete(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := e.Delete(3, 4); err != nil {
		t.Fatal(err)
	}
	if err := e.Delete(3, e.Len()); err != nil {
		t.Fatal(err)
	}
	e.EndUserAction()

	if e.Text() != "a\nb" {
		t.Fatalf("unexpected text %q", e.Text())
	}
	if e.UndoCount() != 1 {
		t.Fatalf("expected a single undo entry, got %d", e.UndoCount())
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if e.Text() != original {
		t.Errorf("undo should restore %q, got %q", original, e.Text())
	}
}

func TestSetCaretClamps(t *testing.T) {
	e := New(WithContent("ab\ncd"))

	e.SetCaret(Point{Line: 0, Column: 99})
	if got := e.Caret(); got != (Point{Line: 0, Column: 2}) {
		t.Errorf("expected 0:2, got %s", got)
	}
}

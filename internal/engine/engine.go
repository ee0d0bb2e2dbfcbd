package engine

import (
	"io"
	"sync"

	"github.com/dshills/trimsave/internal/engine/buffer"
	"github.com/dshills/trimsave/internal/engine/cursor"
	"github.com/dshills/trimsave/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// RevisionID uniquely identifies a buffer revision.
	RevisionID = buffer.RevisionID
)

// Engine is the main facade for the editing core.
// It combines buffer management, the caret, and undo/redo
// into a unified, thread-safe API.
type Engine struct {
	mu sync.RWMutex

	buf     *buffer.Buffer
	caret   cursor.Cursor
	history *history.History

	maxUndoEntries int
	readOnly       bool

	initContent string
	initCaret   *Point
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(e.initContent)
	e.placeInitialCaret()
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)

	var err error
	e.buf, err = buffer.NewBufferFromReader(r)
	if err != nil {
		return nil, err
	}

	e.placeInitialCaret()
	return e, nil
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = history.NewHistory(e.maxUndoEntries)
	return e
}

func (e *Engine) placeInitialCaret() {
	if e.initCaret != nil {
		e.caret = cursor.NewCursor(e.buf.PointToOffset(*e.initCaret))
	}
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full buffer content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// TextRange returns text in the given byte range.
func (e *Engine) TextRange(start, end ByteOffset) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TextRange(start, end)
}

// Len returns the total byte length of the buffer.
func (e *Engine) Len() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// LineText returns the text of a specific line (without its terminator).
func (e *Engine) LineText(line uint32) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineText(line)
}

// LineLen returns the byte length of a line (without its terminator).
func (e *Engine) LineLen(line uint32) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineLen(line)
}

// ByteAt returns the byte at the given offset.
func (e *Engine) ByteAt(offset ByteOffset) (byte, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.ByteAt(offset)
}

// IsEmpty returns true if the buffer is empty.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.IsEmpty()
}

// LineEnding returns the dominant line ending of the content.
func (e *Engine) LineEnding() LineEnding {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEnding()
}

// RevisionID returns the current buffer revision.
func (e *Engine) RevisionID() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RevisionID()
}

// ============================================================================
// Position Conversion
// ============================================================================

// OffsetToPoint converts a byte offset to line/column.
func (e *Engine) OffsetToPoint(offset ByteOffset) Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.OffsetToPoint(offset)
}

// PointToOffset converts line/column to byte offset.
func (e *Engine) PointToOffset(point Point) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.PointToOffset(point)
}

// LineStartOffset returns the byte offset of the start of a line.
func (e *Engine) LineStartOffset(line uint32) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineStartOffset(line)
}

// LineEndOffset returns the byte offset of the end of a line (before its terminator).
func (e *Engine) LineEndOffset(line uint32) ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEndOffset(line)
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (e *Engine) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	return e.Replace(offset, offset, text)
}

// Delete removes text in the given range.
func (e *Engine) Delete(start, end ByteOffset) error {
	_, err := e.Replace(start, end, "")
	return err
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (e *Engine) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}

	return e.replaceLocked(start, end, text)
}

// replaceLocked performs replacement without acquiring the lock.
func (e *Engine) replaceLocked(start, end ByteOffset, text string) (ByteOffset, error) {
	if start == end && text == "" {
		return start, nil
	}

	r := Range{Start: start, End: end}
	op := history.NewOperation(r, e.buf.TextRange(start, end), text)
	op.CaretBefore = e.caret

	endPos, err := e.buf.Replace(start, end, text)
	if err != nil {
		return 0, err
	}

	e.caret = cursor.TransformCursor(e.caret, cursor.Edit{Range: r, NewText: text})
	op.CaretAfter = e.caret
	e.history.Push(history.NewEditCommand(op))

	return endPos, nil
}

// ============================================================================
// Caret
// ============================================================================

// Caret returns the caret position as line/column.
func (e *Engine) Caret() Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.OffsetToPoint(e.caret.Offset())
}

// CaretOffset returns the caret's byte offset.
func (e *Engine) CaretOffset() ByteOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.caret.Offset()
}

// SetCaret moves the caret. The position is clamped to the document.
func (e *Engine) SetCaret(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.caret = cursor.NewCursor(e.buf.PointToOffset(p))
}

// ============================================================================
// Undo/Redo
// ============================================================================

// BeginUserAction opens a grouped edit. Calls nest.
func (e *Engine) BeginUserAction(name string) {
	e.history.BeginGroup(name)
}

// EndUserAction closes the innermost grouped edit.
func (e *Engine) EndUserAction() {
	e.history.EndGroup()
}

// Undo reverts the last action.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}

	return e.history.Undo(e.buf, &e.caret)
}

// Redo re-applies the last undone action.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}

	return e.history.Redo(e.buf, &e.caret)
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// UndoCount returns the number of undo entries.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// ============================================================================
// State
// ============================================================================

// ReadOnly reports whether the engine rejects writes.
func (e *Engine) ReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// SetReadOnly toggles write protection.
func (e *Engine) SetReadOnly(readOnly bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readOnly = readOnly
}

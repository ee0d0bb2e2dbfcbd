package cursor

import (
	"fmt"

	"github.com/dshills/trimsave/internal/engine/buffer"
)

type (
	ByteOffset = buffer.ByteOffset
	Range      = buffer.Range
)

// Cursor is an immutable, non-negative byte offset.
type Cursor struct {
	offset ByteOffset
}

// NewCursor creates a cursor at offset. Negative offsets become 0.
func NewCursor(offset ByteOffset) Cursor {
	return Cursor{offset: max(offset, 0)}
}

// Offset returns the cursor's byte offset.
func (c Cursor) Offset() ByteOffset {
	return c.offset
}

func (c Cursor) String() string {
	return fmt.Sprintf("Cursor(%d)", c.offset)
}

// Edit replaces Range with NewText. A deletion has an empty NewText;
// an insertion has an empty Range.
type Edit struct {
	Range   Range
	NewText string
}

// TransformOffset returns where offset ends up after edit.
// Text removed from before offset shifts it left and text inserted at or
// before it shifts it right. An offset inside the replaced range moves
// to the end of the new text.
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	switch {
	case edit.Range.End <= offset:
		return offset - edit.Range.Len() + ByteOffset(len(edit.NewText))
	case edit.Range.Start >= offset:
		return offset
	default:
		return edit.Range.Start + ByteOffset(len(edit.NewText))
	}
}

// TransformCursor moves c through edit.
func TransformCursor(c Cursor, edit Edit) Cursor {
	return NewCursor(TransformOffset(c.offset, edit))
}

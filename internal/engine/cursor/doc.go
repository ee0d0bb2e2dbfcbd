// Package cursor provides the caret for the editing engine.
//
// A Cursor is an immutable byte offset into the buffer. After every edit
// the engine transforms the caret with TransformOffset so that it keeps
// pointing at the same logical text:
//
//	c := cursor.NewCursor(10)
//	c = cursor.TransformCursor(c, cursor.Edit{Range: buffer.NewRange(2, 4)})
//	c.Offset() // 8
package cursor

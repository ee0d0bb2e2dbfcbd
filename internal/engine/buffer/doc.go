// Package buffer provides a thread-safe text buffer backed by a rope.
//
// The buffer stores the document bytes exactly as they were loaded. Line
// endings are never normalized, so a document saved without edits is
// byte-for-byte identical to the one that was opened. Edits and line
// lookups cost O(log n), so a pass that edits every line stays linear in
// the document size.
//
// Lines are separated by '\n'. When a '\n' is preceded by '\r' the pair is
// treated as a single CRLF terminator: LineEndOffset reports the offset of
// the '\r', so the '\r' is never part of the line's text. A '\r' that is
// not followed by '\n' does not end a line; it is ordinary line content.
// Text widgets such as GtkTextBuffer also break lines at a lone '\r', so
// for "a \r" they see the line "a " where this buffer sees "a \r".
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("hello  \nworld\n")
//
//	end := buf.LineEndOffset(0)          // 7
//	_ = buf.Delete(5, end)               // "hello\nworld\n"
//	p := buf.OffsetToPoint(buf.Len())    // (2:0)
//
// Position Types:
//
//   - ByteOffset: Raw byte position in the buffer
//   - Point: Line and column position (0-indexed, column in bytes)
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock.
package buffer

// Package engine provides the editing core that documents are built on.
//
// The engine package is a facade combining the text buffer, the caret and
// the undo history into one thread-safe API.
//
// # Architecture
//
//   - rope: immutable B-tree text storage with O(log n) edits
//   - buffer: thread-safe line-aware access on top of the rope
//   - cursor: the caret and its transformation through edits
//   - history: command-based undo/redo with grouping
//
// # Thread Safety
//
// All Engine operations are thread-safe. The engine uses a read-write mutex
// to allow concurrent reads while serializing writes.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("hello  \n"))
//
//	e.BeginUserAction("Trim")
//	_ = e.Delete(5, 7)
//	e.EndUserAction()
//
//	e.Text()  // "hello\n"
//	e.Undo()  // "hello  \n"
//
// # User Actions
//
// BeginUserAction and EndUserAction bracket a set of edits that the user
// perceives as one action. They nest, and only the outermost pair creates
// an undo entry.
//
// # Read-Only Engines
//
// An engine created WithReadOnly rejects every write with ErrReadOnly.
package engine

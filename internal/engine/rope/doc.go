// Package rope provides an immutable rope for text storage.
//
// A rope is a B-tree whose leaves hold bounded text chunks and whose
// internal nodes store aggregated metrics (byte and newline counts). An
// edit copies only the path from the root to the touched leaves, so
// Insert, Delete and Replace cost O(log n) plus the size of the edit,
// and the line queries walk the same path.
//
// Basic usage:
//
//	r := rope.FromString("hello  \nworld\n")
//	r = r.Delete(5, 7)                  // "hello\nworld\n"
//	start := r.LineStartOffset(1)       // 6
//	line := r.LinesBefore(r.Len())      // 2
//
// Ropes are values: operations return a new Rope and never modify the
// receiver, so a Rope can be read from several goroutines at once.
package rope

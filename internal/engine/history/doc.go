// Package history provides undo/redo for the editing engine.
//
// Every edit applied through the engine is recorded as a Command. Commands
// pushed between BeginGroup and EndGroup are folded into one
// CompoundCommand, so a multi-step change such as trimming a document on
// save undoes with a single step:
//
//	h := history.NewHistory(1000)
//
//	h.BeginGroup("Trim whitespace")
//	// ... several deletions ...
//	h.EndGroup()
//
//	h.Undo(buf, &caret) // reverts every deletion of the group
//
// Commands remember the caret before and after they ran so undo and redo
// restore it.
package history

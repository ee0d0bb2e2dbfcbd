// Package trim removes trailing whitespace and trailing blank lines from a
// document right before it is saved.
//
// OnBeforeSave runs two passes, each gated by its own preference:
//
//  1. StripTrailingSpaces deletes the run of spaces and tabs at the end of
//     every line.
//  2. StripTrailingBlankLines deletes the blank lines at the end of the
//     document, together with the final line terminator.
//
// With preserve-cursor set, neither pass deletes text at or before the
// caret on the caret's line, and pass 2 never deletes the caret's line.
//
// Both passes run inside one user action so the edit history records a
// single undo step. Nothing here fails a save: read-only documents are
// skipped and a failed deletion stops the remaining trimming.
//
// Remover wraps the policy as a save.PreSaveHook that reads a fresh
// Preferences snapshot from the settings store on every save.
package trim

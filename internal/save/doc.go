// Package save runs pre-save hooks against a document.
//
// A save attempt calls Manager.Run exactly once, before the document's
// bytes are written. Hooks run synchronously on the caller's goroutine in
// priority order (higher first) and may edit the document. A hook that
// returns an error or panics is reported but never stops the other hooks
// or the save itself.
//
// Standard priorities:
//
//	1000+    system hooks
//	500-999  built-in hooks (the whitespace remover runs at 500)
//	100-499  plugin hooks
//	0-99     user hooks
package save

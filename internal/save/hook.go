package save

import (
	"github.com/dshills/trimsave/internal/engine"
)

// Document is the view of a document that pre-save hooks receive.
type Document interface {
	// Path returns the file path the document is being saved to.
	Path() string

	// Engine returns the editing core holding the document text.
	Engine() *engine.Engine
}

// Hook is the base interface for all save hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority. Higher values run first.
	Priority() int
}

// PreSaveHook is called before a document is written.
type PreSaveHook interface {
	Hook

	// PreSave may modify the document. An error is reported and the
	// save continues.
	PreSave(doc Document) error
}

// PreSaveFunc wraps a function as a PreSaveHook.
type PreSaveFunc struct {
	name     string
	priority int
	fn       func(doc Document) error
}

// NewPreSaveFunc creates a new PreSaveFunc hook.
func NewPreSaveFunc(name string, priority int, fn func(doc Document) error) *PreSaveFunc {
	return &PreSaveFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *PreSaveFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PreSaveFunc) Priority() int { return f.priority }

// PreSave implements PreSaveHook.
func (f *PreSaveFunc) PreSave(doc Document) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(doc)
}

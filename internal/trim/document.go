package trim

import (
	"github.com/dshills/trimsave/internal/engine"
)

// Document is the part of an editable document the trim passes use.
// *engine.Engine implements it.
type Document interface {
	ReadOnly() bool
	Len() engine.ByteOffset
	LineCount() uint32
	LineStartOffset(line uint32) engine.ByteOffset
	LineEndOffset(line uint32) engine.ByteOffset
	ByteAt(offset engine.ByteOffset) (byte, bool)
	Caret() engine.Point
	Delete(start, end engine.ByteOffset) error

	// BeginUserAction and EndUserAction bracket edits that undo as one step.
	BeginUserAction(name string)
	EndUserAction()
}

var _ Document = (*engine.Engine)(nil)

package engine

import (
	"errors"

	"github.com/dshills/trimsave/internal/engine/buffer"
	"github.com/dshills/trimsave/internal/engine/history"
)

// Errors returned by engine operations. The offset and undo errors are
// the buffer's and history's own values, so errors.Is matches at every
// layer.
var (
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange
	ErrRangeInvalid     = buffer.ErrRangeInvalid
	ErrNothingToUndo    = history.ErrNothingToUndo
	ErrNothingToRedo    = history.ErrNothingToRedo

	// ErrReadOnly is returned by every write on an engine created
	// WithReadOnly.
	ErrReadOnly = errors.New("engine is read-only")
)

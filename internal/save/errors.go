package save

import (
	"errors"
	"fmt"
)

// ErrHookPanic indicates a hook panicked while running.
var ErrHookPanic = errors.New("hook panicked")

// HookError reports a failure of a single hook.
type HookError struct {
	Hook string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("pre-save hook %q: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

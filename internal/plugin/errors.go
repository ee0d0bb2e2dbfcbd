package plugin

import (
	"errors"
	"fmt"
)

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when a plugin cannot be located.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrAlreadyLoaded is returned when attempting to load an already loaded plugin.
	ErrAlreadyLoaded = errors.New("plugin is already loaded")

	// ErrNotLoaded is returned when attempting to use an unloaded plugin.
	ErrNotLoaded = errors.New("plugin is not loaded")

	// ErrInvalidPlugin is returned when a plugin path is not a .lua file.
	ErrInvalidPlugin = errors.New("invalid plugin")
)

// ScriptError reports a failure inside a plugin script.
type ScriptError struct {
	Plugin string
	Op     string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("plugin %s: %s: %v", e.Plugin, e.Op, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrClosed indicates the application has been closed.
	ErrClosed = errors.New("application closed")

	// ErrNoFilePath indicates a document has no path to save to.
	ErrNoFilePath = errors.New("document has no file path")

	// ErrNotRegularFile indicates a path is a directory or device.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrInitialization indicates an initialization failure.
	ErrInitialization = errors.New("initialization failed")
)

// SaveError reports a failure while opening, trimming or writing a file.
type SaveError struct {
	Path string // File path
	Op   string // "open", "stat", "write" or "rename"
	Err  error  // Underlying error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// InitError represents an error during application initialization.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Is reports InitError as ErrInitialization.
func (e *InitError) Is(target error) bool {
	return target == ErrInitialization
}

package app

import (
	"errors"
	"io/fs"
	"testing"
)

func TestSaveError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SaveError
		expected string
	}{
		{
			name:     "write",
			err:      &SaveError{Path: "/tmp/a.txt", Op: "write", Err: errors.New("disk full")},
			expected: "write /tmp/a.txt: disk full",
		},
		{
			name:     "stat",
			err:      &SaveError{Path: "/tmp/b.txt", Op: "stat", Err: fs.ErrNotExist},
			expected: "stat /tmp/b.txt: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = '%s', expected '%s'", got, tt.expected)
			}
		})
	}
}

func TestSaveError_Unwrap(t *testing.T) {
	err := error(&SaveError{Path: "x", Op: "open", Err: ErrNotRegularFile})

	if !errors.Is(err, ErrNotRegularFile) {
		t.Error("expected errors.Is to find the wrapped sentinel")
	}

	var saveErr *SaveError
	if !errors.As(err, &saveErr) || saveErr.Op != "open" {
		t.Errorf("errors.As failed: %v", saveErr)
	}
}

func TestInitError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&InitError{Component: "config", Err: cause})

	if got := err.Error(); got != "failed to initialize config: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrInitialization) {
		t.Error("InitError should match ErrInitialization")
	}
	if !errors.Is(err, cause) {
		t.Error("InitError should unwrap to its cause")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{ErrClosed, ErrNoFilePath, ErrNotRegularFile, ErrInitialization}
	for i, a := range sentinels {
		if a.Error() == "" {
			t.Errorf("sentinel %d has empty message", i)
		}
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %d should not match %d", i, j)
			}
		}
	}
}

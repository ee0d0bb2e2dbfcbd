package trim

import (
	"errors"
	"testing"
)

// mapSource is a BoolSource backed by a map of raw values.
type mapSource map[string]any

var errNotFound = errors.New("not found")

func (m mapSource) GetBool(path string) (bool, error) {
	v, ok := m[path]
	if !ok {
		return false, errNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.New("not a bool")
	}
	return b, nil
}

func TestLoadPreferences(t *testing.T) {
	tests := []struct {
		name string
		src  BoolSource
		want Preferences
	}{
		{
			name: "nil source",
			src:  nil,
			want: Preferences{},
		},
		{
			name: "all set",
			src: mapSource{
				KeyRemoveTrailingWhitespace: true,
				KeyRemoveTrailingBlankLines: true,
				KeyPreserveCursor:           true,
			},
			want: DefaultPreferences(),
		},
		{
			name: "independent keys",
			src: mapSource{
				KeyRemoveTrailingWhitespace: false,
				KeyRemoveTrailingBlankLines: true,
				KeyPreserveCursor:           true,
			},
			want: Preferences{RemoveTrailingBlankLines: true, PreserveCursor: true},
		},
		{
			name: "missing keys read as disabled",
			src:  mapSource{KeyPreserveCursor: true},
			want: Preferences{PreserveCursor: true},
		},
		{
			name: "malformed values read as disabled",
			src: mapSource{
				KeyRemoveTrailingWhitespace: "yes",
				KeyRemoveTrailingBlankLines: 1,
				KeyPreserveCursor:           true,
			},
			want: Preferences{PreserveCursor: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LoadPreferences(tt.src); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestPreferencesEnabled(t *testing.T) {
	if (Preferences{PreserveCursor: true}).Enabled() {
		t.Error("preserve-cursor alone should not enable trimming")
	}
	if !(Preferences{RemoveTrailingBlankLines: true}).Enabled() {
		t.Error("expected Enabled")
	}
}

package trim

// Setting paths of the three preferences in the settings store.
const (
	KeyRemoveTrailingWhitespace = "trim.remove-trailing-whitespace"
	KeyRemoveTrailingBlankLines = "trim.remove-trailing-blank-lines"
	KeyPreserveCursor           = "trim.preserve-cursor"
)

// Preferences is an immutable snapshot of the trim settings.
// Any combination of values is valid.
type Preferences struct {
	RemoveTrailingWhitespace bool
	RemoveTrailingBlankLines bool
	PreserveCursor           bool
}

// DefaultPreferences returns the built-in defaults.
func DefaultPreferences() Preferences {
	return Preferences{
		RemoveTrailingWhitespace: true,
		RemoveTrailingBlankLines: true,
		PreserveCursor:           true,
	}
}

// BoolSource reads boolean settings by path.
type BoolSource interface {
	GetBool(path string) (bool, error)
}

// LoadPreferences reads a snapshot from src.
// A missing or malformed setting reads as false.
func LoadPreferences(src BoolSource) Preferences {
	if src == nil {
		return Preferences{}
	}
	get := func(path string) bool {
		v, err := src.GetBool(path)
		return err == nil && v
	}
	return Preferences{
		RemoveTrailingWhitespace: get(KeyRemoveTrailingWhitespace),
		RemoveTrailingBlankLines: get(KeyRemoveTrailingBlankLines),
		PreserveCursor:           get(KeyPreserveCursor),
	}
}

// Enabled reports whether either pass would run.
func (p Preferences) Enabled() bool {
	return p.RemoveTrailingWhitespace || p.RemoveTrailingBlankLines
}

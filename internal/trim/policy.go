package trim

import (
	"fmt"

	"github.com/dshills/trimsave/internal/engine"
)

// ActionName is the undo description of a trim.
const ActionName = "Remove trailing whitespace"

// Result summarizes what OnBeforeSave changed.
type Result struct {
	// LinesTrimmed counts lines that lost trailing whitespace.
	LinesTrimmed int

	// BytesRemoved counts all deleted bytes, both passes included.
	BytesRemoved int64

	// BlankLineBytesRemoved counts the bytes deleted by the blank line pass.
	BlankLineBytesRemoved int64

	// SkippedReadOnly is set when the document was read-only.
	SkippedReadOnly bool

	// Err is the deletion error that stopped trimming, if any.
	Err error
}

// Changed reports whether the document was modified.
func (r Result) Changed() bool {
	return r.BytesRemoved > 0
}

// OnBeforeSave trims doc according to prefs.
// The caret is read once and used by both passes.
func OnBeforeSave(doc Document, prefs Preferences) Result {
	var res Result

	if doc.ReadOnly() {
		res.SkippedReadOnly = true
		return res
	}
	if !prefs.Enabled() {
		return res
	}

	doc.BeginUserAction(ActionName)
	defer doc.EndUserAction()

	caret := doc.Caret()

	if prefs.RemoveTrailingWhitespace {
		lines, removed, err := StripTrailingSpaces(doc, caret, prefs.PreserveCursor)
		res.LinesTrimmed = lines
		res.BytesRemoved += removed
		if err != nil {
			res.Err = err
			return res
		}
	}

	if prefs.RemoveTrailingBlankLines {
		removed, err := StripTrailingBlankLines(doc, caret, prefs.PreserveCursor)
		res.BlankLineBytesRemoved = removed
		res.BytesRemoved += removed
		if err != nil {
			res.Err = err
		}
	}

	return res
}

// StripTrailingSpaces deletes the spaces and tabs at the end of every line.
// With preserve set, the deletion on the caret line starts no earlier than
// the caret column.
// Returns the number of lines changed and bytes deleted.
func StripTrailingSpaces(doc Document, caret engine.Point, preserve bool) (int, int64, error) {
	var (
		lines   int
		removed int64
	)

	count := doc.LineCount()
	for line := uint32(0); line < count; line++ {
		start := doc.LineStartOffset(line)
		end := doc.LineEndOffset(line)

		from := end
		for from > start {
			c, _ := doc.ByteAt(from - 1)
			if !isBlank(c) {
				break
			}
			from--
		}

		if preserve && line == caret.Line {
			col := min(engine.ByteOffset(caret.Column), end-start)
			from = max(from, start+col)
		}

		if from >= end {
			continue
		}
		if err := doc.Delete(from, end); err != nil {
			return lines, removed, fmt.Errorf("strip line %d: %w", line, err)
		}
		lines++
		removed += int64(end - from)
	}

	return lines, removed, nil
}

// StripTrailingBlankLines deletes the blank lines at the end of the
// document along with the terminator of the last non-blank line.
// It does nothing unless the document ends with a line terminator.
// With preserve set, lines from the caret line onwards are kept.
// Returns the number of bytes deleted.
func StripTrailingBlankLines(doc Document, caret engine.Point, preserve bool) (int64, error) {
	docEnd := doc.Len()
	last := doc.LineCount() - 1
	if doc.LineStartOffset(last) != docEnd {
		return 0, nil
	}

	caretLine := min(caret.Line, last)

	stop := docEnd
	for line := last; line > 0; {
		line--
		if preserve && line < caretLine {
			stop = doc.LineStartOffset(line + 1)
			break
		}
		start, end := doc.LineStartOffset(line), doc.LineEndOffset(line)
		if start != end {
			stop = end
			break
		}
		stop = start
	}

	if stop >= docEnd {
		return 0, nil
	}
	if err := doc.Delete(stop, docEnd); err != nil {
		return 0, fmt.Errorf("strip blank lines: %w", err)
	}
	return int64(docEnd - stop), nil
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

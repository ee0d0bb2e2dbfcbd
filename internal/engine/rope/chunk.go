package rope

import "strings"

// Chunk size constants control the granularity of text storage.
const (
	// MaxChunkSize is the maximum bytes held by one leaf.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred leaf size when splitting text.
	TargetChunkSize = 192
)

// ByteOffset is an absolute byte position in the rope.
type ByteOffset = int64

// TextSummary holds aggregated metrics for a span of text.
type TextSummary struct {
	// Bytes is the byte count.
	Bytes ByteOffset

	// Lines is the number of '\n' bytes.
	Lines uint32
}

// Add combines two summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Lines: s.Lines + other.Lines,
	}
}

// ComputeSummary calculates the metrics of s.
func ComputeSummary(s string) TextSummary {
	return TextSummary{
		Bytes: ByteOffset(len(s)),
		Lines: uint32(strings.Count(s, "\n")),
	}
}

// splitIntoChunks splits s into pieces of at most MaxChunkSize bytes.
func splitIntoChunks(s string) []string {
	if len(s) == 0 {
		return nil
	}

	chunks := make([]string, 0, len(s)/TargetChunkSize+1)
	for len(s) > MaxChunkSize {
		at := findBoundary(s, TargetChunkSize)
		chunks = append(chunks, s[:at])
		s = s[at:]
	}
	return append(chunks, s)
}

// findBoundary picks a split point near target. It prefers the byte
// after a newline and never splits a UTF-8 sequence or a CRLF pair.
func findBoundary(s string, target int) int {
	const window = 32

	lo := max(target-window, 1)
	hi := min(target+window, MaxChunkSize, len(s))

	for i := target; i < hi; i++ {
		if s[i-1] == '\n' {
			return i
		}
	}
	for i := target - 1; i >= lo; i-- {
		if s[i-1] == '\n' {
			return i
		}
	}

	pos := target
	for pos > 1 && (!isUTF8Start(s[pos]) || s[pos-1] == '\r') {
		pos--
	}
	return pos
}

// isUTF8Start reports whether b begins a UTF-8 sequence.
func isUTF8Start(b byte) bool {
	return b&0xC0 != 0x80
}

// nthNewline returns the index of the n-th '\n' in s, counting from 1,
// or -1 when s holds fewer newlines.
func nthNewline(s string, n uint32) int {
	pos := 0
	for ; n > 0; n-- {
		i := strings.IndexByte(s[pos:], '\n')
		if i < 0 {
			return -1
		}
		pos += i + 1
	}
	return pos - 1
}

package rope

import "strings"

// Rope is an immutable rope. The zero value is an empty rope.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{}
}

// FromString creates a rope holding s.
func FromString(s string) Rope {
	return Rope{root: buildTree(leaves(s))}
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	return r.Summary().Bytes
}

// Summary returns the aggregated metrics of the whole rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{}
	}
	return r.root.summary
}

// LineCount returns the number of lines, which is the newline count
// plus one.
func (r Rope) LineCount() uint32 {
	return r.Summary().Lines + 1
}

// IsEmpty returns true if the rope holds no text.
func (r Rope) IsEmpty() bool {
	return r.root == nil
}

// Height returns the height of the tree. An empty rope has height 0.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// String returns the full text.
func (r Rope) String() string {
	return r.Slice(0, r.Len())
}

// Slice returns the text in [start, end). Bounds are clamped.
func (r Rope) Slice(start, end ByteOffset) string {
	start, end = r.clampRange(start, end)
	if start == end {
		return ""
	}

	var sb strings.Builder
	sb.Grow(int(end - start))
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// ByteAt returns the byte at offset, or false if offset is out of range.
func (r Rope) ByteAt(offset ByteOffset) (byte, bool) {
	if offset < 0 || offset >= r.Len() {
		return 0, false
	}

	n := r.root
	for !n.isLeaf() {
		var i int
		i, offset = n.childAt(offset)
		n = n.children[i]
	}
	return n.text[offset], true
}

// Insert returns a rope with text inserted at offset.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	return r.Replace(offset, offset, text)
}

// Delete returns a rope without the text in [start, end).
func (r Rope) Delete(start, end ByteOffset) Rope {
	return r.Replace(start, end, "")
}

// Replace returns a rope with [start, end) replaced by text.
// Bounds are clamped to the rope.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	start, end = r.clampRange(start, end)
	if start == end && text == "" {
		return r
	}
	if r.root == nil {
		return FromString(text)
	}

	root := buildTree(r.root.replace(start, end, text))
	for root != nil && len(root.children) == 1 {
		root = root.children[0]
	}
	return Rope{root: root}
}

// LineStartOffset returns the offset at which line begins. Lines are
// 0-based and lines past the end map to Len.
func (r Rope) LineStartOffset(line uint32) ByteOffset {
	if line == 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}

	// Find the line-th newline. need stays within [1, n.summary.Lines].
	n, need, offset := r.root, line, ByteOffset(0)
	for !n.isLeaf() {
		i := 0
		for need > n.children[i].summary.Lines {
			need -= n.children[i].summary.Lines
			offset += n.children[i].summary.Bytes
			i++
		}
		n = n.children[i]
	}
	return offset + ByteOffset(nthNewline(n.text, need)) + 1
}

// LinesBefore returns the number of newlines in [0, offset), which is
// the 0-based line holding offset. The offset is clamped.
func (r Rope) LinesBefore(offset ByteOffset) uint32 {
	offset = min(max(offset, 0), r.Len())
	if offset == 0 {
		return 0
	}

	var lines uint32
	n := r.root
	for !n.isLeaf() {
		i, local := n.childAt(offset)
		for _, c := range n.children[:i] {
			lines += c.summary.Lines
		}
		n, offset = n.children[i], local
	}
	return lines + uint32(strings.Count(n.text[:offset], "\n"))
}

func (r Rope) clampRange(start, end ByteOffset) (ByteOffset, ByteOffset) {
	size := r.Len()
	start = min(max(start, 0), size)
	end = min(max(end, start), size)
	return start, end
}

package rope

import (
	"slices"
	"strings"
)

// MaxChildren is the maximum children per internal node.
const MaxChildren = 8

// node is a node of the rope tree. Leaves (height 0) hold text.
// Internal nodes hold children that are all one level lower.
// A node is never modified once built, and no node is empty.
type node struct {
	height   uint8
	summary  TextSummary
	text     string
	children []*node
}

func newLeaf(s string) *node {
	return &node{text: s, summary: ComputeSummary(s)}
}

func newInternal(children []*node) *node {
	n := &node{height: children[0].height + 1, children: children}
	for _, c := range children {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

// leaves returns the leaves holding s.
func leaves(s string) []*node {
	chunks := splitIntoChunks(s)
	out := make([]*node, len(chunks))
	for i, c := range chunks {
		out[i] = newLeaf(c)
	}
	return out
}

// group wraps nodes of equal height into as few parents as possible,
// spreading the children evenly.
func group(nodes []*node) []*node {
	count := (len(nodes) + MaxChildren - 1) / MaxChildren
	parents := make([]*node, 0, count)
	for i := 0; i < count; i++ {
		lo := i * len(nodes) / count
		hi := (i + 1) * len(nodes) / count
		parents = append(parents, newInternal(slices.Clone(nodes[lo:hi])))
	}
	return parents
}

// buildTree stacks nodes of equal height under a single root.
// It returns nil for an empty list.
func buildTree(nodes []*node) *node {
	if len(nodes) == 0 {
		return nil
	}
	for len(nodes) > 1 {
		nodes = group(nodes)
	}
	return nodes[0]
}

// childAt returns the index of the child holding offset and the offset
// within that child. The end offset maps to the last child.
func (n *node) childAt(offset ByteOffset) (int, ByteOffset) {
	last := len(n.children) - 1
	for i, c := range n.children[:last] {
		if offset < c.summary.Bytes {
			return i, offset
		}
		offset -= c.summary.Bytes
	}
	return last, offset
}

// replace returns the nodes, all of n's height, holding n's text with
// [start, end) replaced by text. Only the nodes on the paths to start
// and end are rebuilt. It returns nil when no text is left.
func (n *node) replace(start, end ByteOffset, text string) []*node {
	if n.isLeaf() {
		s := n.text[:start] + text + n.text[end:]
		switch {
		case s == "":
			return nil
		case len(s) <= MaxChunkSize:
			return []*node{newLeaf(s)}
		default:
			return leaves(s)
		}
	}

	i, localStart := n.childAt(start)
	j, localEnd := n.childAt(end)
	if localEnd == 0 && j > i {
		j--
		localEnd = n.children[j].summary.Bytes
	}

	kids := make([]*node, 0, len(n.children)+2)
	kids = append(kids, n.children[:i]...)
	if i == j {
		kids = append(kids, n.children[i].replace(localStart, localEnd, text)...)
	} else {
		first := n.children[i]
		kids = append(kids, first.replace(localStart, first.summary.Bytes, text)...)
		kids = append(kids, n.children[j].replace(0, localEnd, "")...)
	}
	kids = append(kids, n.children[j+1:]...)

	switch {
	case len(kids) == 0:
		return nil
	case len(kids) <= MaxChildren:
		return []*node{newInternal(kids)}
	default:
		return group(kids)
	}
}

// appendRange appends the text in [start, end) to sb.
func (n *node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if n.isLeaf() {
		sb.WriteString(n.text[start:end])
		return
	}
	for _, c := range n.children {
		size := c.summary.Bytes
		if start < size && end > 0 {
			c.appendRange(sb, max(start, 0), min(end, size))
		}
		start -= size
		end -= size
		if end <= 0 {
			return
		}
	}
}

// Package jsonview projects a parsed JSON document into navigable rows with
// expand/collapse and search, for the response pane.
package jsonview

import (
	"strconv"
	"strings"
)

// SegmentKind tells the three kinds of path segment apart.
type SegmentKind int

const (
	SegmentRoot SegmentKind = iota
	SegmentKey
	SegmentIndex
)

// Segment is one step of a Path: the document root, an object key or an
// array index.
type Segment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

// Root is the first segment of every path.
func Root() Segment { return Segment{Kind: SegmentRoot} }

// Key is an object member segment.
func Key(k string) Segment { return Segment{Kind: SegmentKey, Key: k} }

// Index is an array element segment.
func Index(i int) Segment { return Segment{Kind: SegmentIndex, Index: i} }

// Label is how the segment is shown in front of its value.
func (s Segment) Label() string {
	switch s.Kind {
	case SegmentKey:
		return s.Key
	case SegmentIndex:
		return "[" + strconv.Itoa(s.Index) + "]"
	default:
		return ""
	}
}

// Path locates a node from the root. Every valid path starts with Root.
type Path []Segment

// RootPath is the path of the document root.
func RootPath() Path { return Path{Root()} }

// Child returns a new path extending p by s.
func (p Path) Child(s Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = s
	return out
}

// Ancestors returns every proper prefix of p, shortest first.
func (p Path) Ancestors() []Path {
	var out []Path
	for i := 1; i < len(p); i++ {
		prefix := make(Path, i)
		copy(prefix, p[:i])
		out = append(out, prefix)
	}
	return out
}

// Equal compares paths segment by segment.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Key is an unambiguous string form used for set membership.
func (p Path) Key() string {
	var b strings.Builder
	for _, s := range p {
		switch s.Kind {
		case SegmentRoot:
			b.WriteString("$")
		case SegmentKey:
			b.WriteString(".")
			b.WriteString(strconv.Quote(s.Key))
		case SegmentIndex:
			b.WriteString("[")
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteString("]")
		}
	}
	return b.String()
}

// String renders p as a readable selector such as $.users[0].name.
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p {
		switch s.Kind {
		case SegmentRoot:
			b.WriteString("$")
		case SegmentKey:
			b.WriteString(".")
			b.WriteString(s.Key)
		case SegmentIndex:
			b.WriteString(s.Label())
		}
	}
	return b.String()
}

package jsonview

import (
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Kind is the JSON type of a node.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

// IsContainer reports objects and arrays.
func (k Kind) IsContainer() bool {
	return k == KindObject || k == KindArray
}

type node struct {
	kind     Kind
	segment  Segment
	children []*node
	// text holds the string value or the literal number text.
	text  string
	value any
}

var errTrailingData = errors.New("unexpected data after JSON value")

func parse(body string) (*node, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errTrailingData
	}
	return build(v, Root()), nil
}

func build(v any, seg Segment) *node {
	n := &node{segment: seg, value: v}
	switch val := v.(type) {
	case map[string]any:
		n.kind = KindObject
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			n.children = append(n.children, build(val[k], Key(k)))
		}
	case []any:
		n.kind = KindArray
		for i, item := range val {
			n.children = append(n.children, build(item, Index(i)))
		}
	case string:
		n.kind = KindString
		n.text = val
	case json.Number:
		n.kind = KindNumber
		n.text = val.String()
	case bool:
		n.kind = KindBool
		if val {
			n.text = "true"
		} else {
			n.text = "false"
		}
	default:
		n.kind = KindNull
		n.text = "null"
	}
	return n
}

// walk visits every node in pre-order with its path. Returning false skips
// the node's children.
func walk(n *node, p Path, fn func(Path, *node) bool) {
	if !fn(p, n) {
		return
	}
	for _, c := range n.children {
		walk(c, p.Child(c.segment), fn)
	}
}

func lookup(root *node, p Path) (*node, bool) {
	if len(p) == 0 || p[0].Kind != SegmentRoot {
		return nil, false
	}
	n := root
	for _, seg := range p[1:] {
		var next *node
		for _, c := range n.children {
			if c.segment == seg {
				next = c
				break
			}
		}
		if next == nil {
			return nil, false
		}
		n = next
	}
	return n, true
}

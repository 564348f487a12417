// Package tree is the path-addressed container/leaf model shared by the
// collection browser. All functions here are pure: they read the tree and
// return values, and Insert is the only one that changes it.
package tree

// Kind tells a Folder from a Leaf.
type Kind int

const (
	KindLeaf Kind = iota
	KindFolder
)

// Node is a Folder owning ordered children, or a Leaf owning a payload.
type Node[T any] struct {
	Kind     Kind
	Name     string
	Children []*Node[T]
	Payload  T
}

// NewFolder creates a folder node.
func NewFolder[T any](name string, children ...*Node[T]) *Node[T] {
	return &Node[T]{Kind: KindFolder, Name: name, Children: children}
}

// NewLeaf creates a leaf node.
func NewLeaf[T any](name string, payload T) *Node[T] {
	return &Node[T]{Kind: KindLeaf, Name: name, Payload: payload}
}

// IsFolder reports whether n is a folder.
func (n *Node[T]) IsFolder() bool {
	return n != nil && n.Kind == KindFolder
}

// Tree is the ordered sequence of top-level nodes. The empty Path denotes the
// tree itself and never resolves to a node.
type Tree[T any] struct {
	Nodes []*Node[T]
}

// New creates a tree from its top-level nodes.
func New[T any](nodes ...*Node[T]) Tree[T] {
	return Tree[T]{Nodes: nodes}
}

// Resolve returns the node at path. It reports false for the empty path, any
// out-of-range index, or a path that continues past a leaf.
func Resolve[T any](t Tree[T], path Path) (*Node[T], bool) {
	if len(path) == 0 {
		return nil, false
	}
	level := t.Nodes
	var node *Node[T]
	for depth, idx := range path {
		if idx < 0 || idx >= len(level) {
			return nil, false
		}
		node = level[idx]
		if depth < len(path)-1 {
			if !node.IsFolder() {
				return nil, false
			}
			level = node.Children
		}
	}
	return node, node != nil
}

// Insert places node inside the folder at target. When target stops being
// valid partway (an index out of range, or a leaf where a folder is needed)
// node is appended to the last folder that was reached, or to the top level.
// It returns the Path the node landed at.
func Insert[T any](t *Tree[T], target Path, node *Node[T]) Path {
	level := &t.Nodes
	at := Path{}
	for _, idx := range target {
		if idx < 0 || idx >= len(*level) {
			break
		}
		next := (*level)[idx]
		if !next.IsFolder() {
			break
		}
		level = &next.Children
		at = at.Child(idx)
	}
	*level = append(*level, node)
	return at.Child(len(*level) - 1)
}

// Walk visits every node in pre-order regardless of expansion. Returning
// false from fn skips the children of that node.
func Walk[T any](t Tree[T], fn func(Path, *Node[T]) bool) {
	walk(t.Nodes, Path{}, fn)
}

func walk[T any](nodes []*Node[T], prefix Path, fn func(Path, *Node[T]) bool) {
	for i, n := range nodes {
		p := prefix.Child(i)
		if !fn(p, n) {
			continue
		}
		if n.IsFolder() {
			walk(n.Children, p, fn)
		}
	}
}

// FolderPaths returns the Path of every folder in t, in pre-order.
func FolderPaths[T any](t Tree[T]) []Path {
	var out []Path
	Walk(t, func(p Path, n *Node[T]) bool {
		if n.IsFolder() {
			out = append(out, p)
		}
		return true
	})
	return out
}

package tree

import (
	"sort"
	"strconv"
	"strings"
)

// Path addresses a node by the child index taken at each depth, starting at
// the top level of a Tree. A Path is only meaningful for the snapshot it was
// computed against.
type Path []int

// Child returns a new Path extending p by index i. The result never shares
// its backing array with p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Parent returns p without its last index. The parent of a top-level or
// empty Path is the empty Path.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return Path{}
	}
	return p.Clone()[:len(p)-1]
}

// Clone returns a copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether p and o address the same position.
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

// HasPrefix reports whether prefix is a (not necessarily proper) prefix of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// Ancestors returns every proper, non-empty prefix of p, shortest first.
func (p Path) Ancestors() []Path {
	if len(p) < 2 {
		return nil
	}
	out := make([]Path, 0, len(p)-1)
	for i := 1; i < len(p); i++ {
		out = append(out, p[:i].Clone())
	}
	return out
}

// Depth is the number of indices in p.
func (p Path) Depth() int {
	return len(p)
}

// Key returns the canonical string form of p, e.g. "0/3/1". The empty Path
// has the empty key.
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}

// String implements fmt.Stringer.
func (p Path) String() string {
	return "[" + p.Key() + "]"
}

// ParsePath parses the output of Path.Key. Negative indices are rejected.
func ParsePath(s string) (Path, bool) {
	if s == "" {
		return Path{}, true
	}
	parts := strings.Split(s, "/")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// Less orders paths in tree pre-order.
func Less(a, b Path) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// PathSet is a set of Paths. The zero value is an empty set ready to use.
type PathSet struct {
	m map[string]Path
}

// NewPathSet returns a set holding paths.
func NewPathSet(paths ...Path) PathSet {
	s := PathSet{}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Has reports membership.
func (s PathSet) Has(p Path) bool {
	_, ok := s.m[p.Key()]
	return ok
}

// Add inserts p.
func (s *PathSet) Add(p Path) {
	if s.m == nil {
		s.m = make(map[string]Path)
	}
	s.m[p.Key()] = p.Clone()
}

// Remove deletes p.
func (s *PathSet) Remove(p Path) {
	delete(s.m, p.Key())
}

// Toggle flips membership of p and reports whether p is now a member.
func (s *PathSet) Toggle(p Path) bool {
	if s.Has(p) {
		s.Remove(p)
		return false
	}
	s.Add(p)
	return true
}

// Clear empties the set.
func (s *PathSet) Clear() {
	s.m = nil
}

// Len is the number of members.
func (s PathSet) Len() int {
	return len(s.m)
}

// Paths returns the members in tree pre-order.
func (s PathSet) Paths() []Path {
	out := make([]Path, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Clone returns an independent copy of s.
func (s PathSet) Clone() PathSet {
	return NewPathSet(s.Paths()...)
}

// ExpandedSet holds the folders that are currently open in one loaded tree.
type ExpandedSet = PathSet

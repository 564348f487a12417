package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleTree is Folder "A" [Leaf "foo", Leaf "bar"].
func sampleTree() Tree[string] {
	return New(
		NewFolder("A",
			NewLeaf("foo", "GET /foo"),
			NewLeaf("bar", "GET /bar"),
		),
	)
}

func nestedTree() Tree[string] {
	return New(
		NewFolder("Users",
			NewLeaf("List users", "GET /users"),
			NewFolder("Admin",
				NewLeaf("Delete user", "DELETE /users/1"),
			),
		),
		NewLeaf("Health", "GET /health"),
	)
}

func TestResolve(t *testing.T) {
	tr := nestedTree()
	tests := []struct {
		name  string
		path  Path
		found bool
		want  string
	}{
		{"top-level folder", Path{0}, true, "Users"},
		{"top-level leaf", Path{1}, true, "Health"},
		{"nested leaf", Path{0, 1, 0}, true, "Delete user"},
		{"empty path", Path{}, false, ""},
		{"out of range", Path{5}, false, ""},
		{"negative index", Path{-1}, false, ""},
		{"past a leaf", Path{1, 0}, false, ""},
		{"nested out of range", Path{0, 7}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := Resolve(tr, tt.path)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				require.NotNil(t, node)
				assert.Equal(t, tt.want, node.Name)
			} else {
				assert.Nil(t, node)
			}
		})
	}
}

func TestInsert(t *testing.T) {
	t.Run("into existing folder", func(t *testing.T) {
		tr := nestedTree()
		at := Insert(&tr, Path{0, 1}, NewLeaf("Ban user", "POST /ban"))

		assert.Equal(t, Path{0, 1, 1}, at)
		node, ok := Resolve(tr, at)
		require.True(t, ok)
		assert.Equal(t, "Ban user", node.Name)
	})

	t.Run("empty target appends at top level", func(t *testing.T) {
		tr := nestedTree()
		at := Insert(&tr, Path{}, NewLeaf("Root", "GET /"))
		assert.Equal(t, Path{2}, at)
	})

	t.Run("out of range falls back to last valid folder", func(t *testing.T) {
		tr := nestedTree()
		at := Insert(&tr, Path{0, 9, 4}, NewLeaf("New", ""))
		assert.Equal(t, Path{0, 2}, at)
	})

	t.Run("leaf in the way falls back to its folder", func(t *testing.T) {
		tr := nestedTree()
		at := Insert(&tr, Path{0, 0}, NewLeaf("Sibling", ""))
		assert.Equal(t, Path{0, 2}, at)
		node, _ := Resolve(tr, Path{0, 0})
		assert.Equal(t, "List users", node.Name)
	})

	t.Run("top-level leaf in the way", func(t *testing.T) {
		tr := nestedTree()
		at := Insert(&tr, Path{1}, NewLeaf("Other", ""))
		assert.Equal(t, Path{2}, at)
	})

	t.Run("empty tree", func(t *testing.T) {
		var tr Tree[string]
		at := Insert(&tr, Path{3}, NewFolder[string]("First"))
		assert.Equal(t, Path{0}, at)
		assert.Equal(t, 1, countNodes(tr))
	})
}

func TestWalk(t *testing.T) {
	t.Run("pre-order over the whole tree", func(t *testing.T) {
		var names []string
		Walk(nestedTree(), func(_ Path, n *Node[string]) bool {
			names = append(names, n.Name)
			return true
		})
		assert.Equal(t, []string{"Users", "List users", "Admin", "Delete user", "Health"}, names)
	})

	t.Run("false skips children", func(t *testing.T) {
		var names []string
		Walk(nestedTree(), func(_ Path, n *Node[string]) bool {
			names = append(names, n.Name)
			return n.Name != "Users"
		})
		assert.Equal(t, []string{"Users", "Health"}, names)
	})
}

func TestFolderPaths(t *testing.T) {
	assert.Equal(t, []Path{{0}, {0, 1}}, FolderPaths(nestedTree()))
}

func countNodes[T any](t Tree[T]) int {
	count := 0
	Walk(t, func(Path, *Node[T]) bool {
		count++
		return true
	})
	return count
}

func TestPath(t *testing.T) {
	t.Run("child does not alias", func(t *testing.T) {
		base := make(Path, 1, 4)
		a := base.Child(1)
		b := base.Child(2)
		assert.Equal(t, Path{0, 1}, a)
		assert.Equal(t, Path{0, 2}, b)
	})

	t.Run("ancestors", func(t *testing.T) {
		assert.Equal(t, []Path{{1}, {1, 2}}, Path{1, 2, 3}.Ancestors())
		assert.Nil(t, Path{4}.Ancestors())
	})

	t.Run("parent", func(t *testing.T) {
		assert.Equal(t, Path{1, 2}, Path{1, 2, 3}.Parent())
		assert.Equal(t, Path{}, Path{1}.Parent())
	})

	t.Run("key round trip", func(t *testing.T) {
		for _, p := range []Path{{}, {0}, {3, 0, 12}} {
			parsed, ok := ParsePath(p.Key())
			require.True(t, ok)
			assert.True(t, p.Equal(parsed), p.String())
		}
	})

	t.Run("parse rejects garbage", func(t *testing.T) {
		for _, s := range []string{"a", "1//2", "-1", "1/x"} {
			_, ok := ParsePath(s)
			assert.False(t, ok, s)
		}
	})

	t.Run("pre-order ordering", func(t *testing.T) {
		assert.True(t, Less(Path{0}, Path{0, 0}))
		assert.True(t, Less(Path{0, 5}, Path{1}))
		assert.False(t, Less(Path{1}, Path{0, 9}))
	})
}

func TestPathSet(t *testing.T) {
	var s PathSet
	assert.False(t, s.Has(Path{0}))
	assert.Equal(t, 0, s.Len())

	assert.True(t, s.Toggle(Path{1, 0}))
	s.Add(Path{0})
	assert.True(t, s.Has(Path{1, 0}))
	assert.Equal(t, []Path{{0}, {1, 0}}, s.Paths())

	clone := s.Clone()
	assert.False(t, s.Toggle(Path{1, 0}))
	assert.False(t, s.Has(Path{1, 0}))
	assert.True(t, clone.Has(Path{1, 0}))

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

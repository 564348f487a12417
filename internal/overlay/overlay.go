// Package overlay holds the two layers merged over a read-only collection
// tree: favorites (which nodes are pinned) and local edits (replacement leaf
// content not yet synced). Neither layer ever touches the tree itself.
package overlay

import (
	"errors"
	"sort"

	"github.com/artpar/postdeck/internal/tree"
)

// ErrFavoritesRoot is returned when an operation is asked to store the
// synthetic favorites folder, which has no real Path.
var ErrFavoritesRoot = errors.New("the favorites folder has no path")

// Key addresses a node of one collection.
type Key struct {
	CollectionID string
	Path         tree.Path
}

func (k Key) id() string {
	return k.CollectionID + "\x00" + k.Path.Key()
}

func keyFor(collectionID string, loc tree.Location) (Key, error) {
	p, ok := loc.Path()
	if !ok {
		return Key{}, ErrFavoritesRoot
	}
	return Key{CollectionID: collectionID, Path: p}, nil
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CollectionID != keys[j].CollectionID {
			return keys[i].CollectionID < keys[j].CollectionID
		}
		return tree.Less(keys[i].Path, keys[j].Path)
	})
}

// Favorites is the set of favorited nodes across collections.
type Favorites struct {
	entries map[string]Key
}

// NewFavorites returns a set holding keys.
func NewFavorites(keys ...Key) *Favorites {
	f := &Favorites{entries: make(map[string]Key)}
	for _, k := range keys {
		f.add(k)
	}
	return f
}

func (f *Favorites) add(k Key) {
	if f.entries == nil {
		f.entries = make(map[string]Key)
	}
	k.Path = k.Path.Clone()
	f.entries[k.id()] = k
}

// Has reports whether the node at p in collectionID is a favorite.
func (f *Favorites) Has(collectionID string, p tree.Path) bool {
	_, ok := f.entries[Key{CollectionID: collectionID, Path: p}.id()]
	return ok
}

// Toggle flips membership of loc and reports whether it is now a favorite.
func (f *Favorites) Toggle(collectionID string, loc tree.Location) (bool, error) {
	k, err := keyFor(collectionID, loc)
	if err != nil {
		return false, err
	}
	if f.Has(k.CollectionID, k.Path) {
		delete(f.entries, k.id())
		return false, nil
	}
	f.add(k)
	return true, nil
}

// Add marks loc as a favorite.
func (f *Favorites) Add(collectionID string, loc tree.Location) error {
	k, err := keyFor(collectionID, loc)
	if err != nil {
		return err
	}
	f.add(k)
	return nil
}

// Remove unmarks the node at p.
func (f *Favorites) Remove(collectionID string, p tree.Path) {
	delete(f.entries, Key{CollectionID: collectionID, Path: p}.id())
}

// For returns the favorited paths of one collection as a set.
func (f *Favorites) For(collectionID string) tree.PathSet {
	var set tree.PathSet
	for _, k := range f.entries {
		if k.CollectionID == collectionID {
			set.Add(k.Path)
		}
	}
	return set
}

// Entries returns every key, ordered by collection then path.
func (f *Favorites) Entries() []Key {
	out := make([]Key, 0, len(f.entries))
	for _, k := range f.entries {
		out = append(out, Key{CollectionID: k.CollectionID, Path: k.Path.Clone()})
	}
	sortKeys(out)
	return out
}

// Len is the number of favorites.
func (f *Favorites) Len() int {
	return len(f.entries)
}

// Edits maps nodes to replacement content of type T.
type Edits[T any] struct {
	entries map[string]editEntry[T]
}

type editEntry[T any] struct {
	key   Key
	value T
}

// EditEntry is one stored edit.
type EditEntry[T any] struct {
	Key   Key
	Value T
}

// NewEdits returns an empty edit overlay.
func NewEdits[T any]() *Edits[T] {
	return &Edits[T]{entries: make(map[string]editEntry[T])}
}

// Set upserts the edit for loc.
func (e *Edits[T]) Set(collectionID string, loc tree.Location, value T) error {
	k, err := keyFor(collectionID, loc)
	if err != nil {
		return err
	}
	if e.entries == nil {
		e.entries = make(map[string]editEntry[T])
	}
	e.entries[k.id()] = editEntry[T]{key: k, value: value}
	return nil
}

// Get returns the edit for the node at p.
func (e *Edits[T]) Get(collectionID string, p tree.Path) (T, bool) {
	entry, ok := e.entries[Key{CollectionID: collectionID, Path: p}.id()]
	return entry.value, ok
}

// Has reports whether the node at p has an edit.
func (e *Edits[T]) Has(collectionID string, p tree.Path) bool {
	_, ok := e.Get(collectionID, p)
	return ok
}

// Remove deletes the edit for the node at p and reports whether one existed.
func (e *Edits[T]) Remove(collectionID string, p tree.Path) bool {
	id := Key{CollectionID: collectionID, Path: p}.id()
	_, ok := e.entries[id]
	delete(e.entries, id)
	return ok
}

// Entries returns every edit, ordered by collection then path.
func (e *Edits[T]) Entries() []EditEntry[T] {
	keys := make([]Key, 0, len(e.entries))
	for _, entry := range e.entries {
		keys = append(keys, entry.key)
	}
	sortKeys(keys)
	out := make([]EditEntry[T], len(keys))
	for i, k := range keys {
		out[i] = EditEntry[T]{Key: k, Value: e.entries[k.id()].value}
	}
	return out
}

// Len is the number of edits.
func (e *Edits[T]) Len() int {
	return len(e.entries)
}

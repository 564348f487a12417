package overlay

import (
	"context"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/tree"
)

// FavoriteStore persists favorite nodes.
type FavoriteStore interface {
	ListFavorites(ctx context.Context) ([]Key, error)
	AddFavorite(ctx context.Context, key Key) error
	RemoveFavorite(ctx context.Context, key Key) error
}

// EditStore persists local request edits.
type EditStore interface {
	LoadEdits() ([]EditEntry[core.Edit], error)
	SaveEdits(entries []EditEntry[core.Edit]) error
}

// LoadFavorites builds a Favorites set from a store.
func LoadFavorites(ctx context.Context, store FavoriteStore) (*Favorites, error) {
	keys, err := store.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	return NewFavorites(keys...), nil
}

// LoadEdits builds an Edits overlay from a store.
func LoadEdits(store EditStore) (*Edits[core.Edit], error) {
	entries, err := store.LoadEdits()
	if err != nil {
		return nil, err
	}
	edits := NewEdits[core.Edit]()
	for _, entry := range entries {
		if err := edits.Set(entry.Key.CollectionID, tree.At(entry.Key.Path), entry.Value); err != nil {
			return nil, err
		}
	}
	return edits, nil
}

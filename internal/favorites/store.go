// Package favorites persists which requests and collections the user has
// pinned. Favorites are user preference metadata, stored apart from the
// collections themselves.
package favorites

import (
	"context"
	"errors"

	"github.com/artpar/postdeck/internal/overlay"
	"github.com/artpar/postdeck/internal/tree"
)

// Common errors.
var (
	ErrStoreClosed = errors.New("favorites store is closed")
)

// Store defines favorites persistence. It also satisfies
// overlay.FavoriteStore so a session can write through it.
type Store interface {
	overlay.FavoriteStore

	// IsFavorite checks if the node at key is favorited.
	IsFavorite(ctx context.Context, key overlay.Key) (bool, error)

	// Add favorites a node.
	Add(ctx context.Context, key overlay.Key) error

	// Remove unfavorites a node.
	Remove(ctx context.Context, key overlay.Key) error

	// Toggle flips the favorite state and returns the new state.
	Toggle(ctx context.Context, key overlay.Key) (bool, error)

	// List returns the favorited paths of one collection in tree order.
	List(ctx context.Context, collectionUID string) ([]tree.Path, error)

	// ListAll returns every favorited node.
	ListAll(ctx context.Context) ([]overlay.Key, error)

	// FavoriteCollections returns the uids of favorited collections.
	FavoriteCollections(ctx context.Context) ([]string, error)

	// ToggleCollection flips a collection's favorite state.
	ToggleCollection(ctx context.Context, uid string) (bool, error)

	// Close closes the store.
	Close() error
}

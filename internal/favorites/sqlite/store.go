package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/artpar/postdeck/internal/favorites"
	"github.com/artpar/postdeck/internal/logging"
	"github.com/artpar/postdeck/internal/overlay"
	"github.com/artpar/postdeck/internal/tree"
)

// FileName is the database file created in the data directory.
const FileName = "favorites.db"

// Store implements favorites.Store using SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

var _ favorites.Store = (*Store)(nil)

// New creates a new SQLite-based favorites store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize favorites database: %w", err)
	}

	return store, nil
}

// NewWithDB creates a store using an existing database connection.
func NewWithDB(db *sql.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize favorites tables: %w", err)
	}
	return store, nil
}

// NewInMemory creates a new in-memory SQLite store (useful for testing).
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables and indexes.
func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS favorite_requests (
			collection_uid TEXT NOT NULL,
			path TEXT NOT NULL,
			favorited_at INTEGER NOT NULL,
			PRIMARY KEY (collection_uid, path)
		);

		CREATE TABLE IF NOT EXISTS favorite_collections (
			collection_uid TEXT PRIMARY KEY,
			favorited_at INTEGER NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// IsFavorite checks if the node at key is favorited.
func (s *Store) IsFavorite(ctx context.Context, key overlay.Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, favorites.ErrStoreClosed
	}
	return s.exists(ctx, key)
}

func (s *Store) exists(ctx context.Context, key overlay.Key) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM favorite_requests WHERE collection_uid = ? AND path = ?",
		key.CollectionID, key.Path.Key(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite status: %w", err)
	}
	return count > 0, nil
}

// Add favorites a node.
func (s *Store) Add(ctx context.Context, key overlay.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return favorites.ErrStoreClosed
	}
	return s.insert(ctx, key)
}

func (s *Store) insert(ctx context.Context, key overlay.Key) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO favorite_requests (collection_uid, path, favorited_at) VALUES (?, ?, ?)",
		key.CollectionID, key.Path.Key(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove unfavorites a node.
func (s *Store) Remove(ctx context.Context, key overlay.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return favorites.ErrStoreClosed
	}
	return s.delete(ctx, key)
}

func (s *Store) delete(ctx context.Context, key overlay.Key) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM favorite_requests WHERE collection_uid = ? AND path = ?",
		key.CollectionID, key.Path.Key(),
	)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// Toggle flips the favorite state and returns the new state.
func (s *Store) Toggle(ctx context.Context, key overlay.Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, favorites.ErrStoreClosed
	}

	on, err := s.exists(ctx, key)
	if err != nil {
		return false, err
	}
	if on {
		return false, s.delete(ctx, key)
	}
	return true, s.insert(ctx, key)
}

// List returns the favorited paths of one collection in tree order.
func (s *Store) List(ctx context.Context, collectionUID string) ([]tree.Path, error) {
	keys, err := s.query(ctx,
		"SELECT collection_uid, path FROM favorite_requests WHERE collection_uid = ?",
		collectionUID,
	)
	if err != nil {
		return nil, err
	}
	paths := make([]tree.Path, len(keys))
	for i, k := range keys {
		paths[i] = k.Path
	}
	return paths, nil
}

// ListAll returns every favorited node, ordered by collection then path.
func (s *Store) ListAll(ctx context.Context) ([]overlay.Key, error) {
	return s.query(ctx, "SELECT collection_uid, path FROM favorite_requests")
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]overlay.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, favorites.ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var keys []overlay.Key
	for rows.Next() {
		var uid, raw string
		if err := rows.Scan(&uid, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		p, ok := tree.ParsePath(raw)
		if !ok || len(p) == 0 {
			logging.Warn("skipping malformed favorite path",
				logging.String("collection", uid),
				logging.String("path", raw),
			)
			continue
		}
		keys = append(keys, overlay.Key{CollectionID: uid, Path: p})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CollectionID != keys[j].CollectionID {
			return keys[i].CollectionID < keys[j].CollectionID
		}
		return tree.Less(keys[i].Path, keys[j].Path)
	})
	return keys, nil
}

// FavoriteCollections returns the uids of favorited collections.
func (s *Store) FavoriteCollections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, favorites.ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT collection_uid FROM favorite_collections ORDER BY favorited_at, collection_uid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite collections: %w", err)
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("failed to scan favorite collection: %w", err)
		}
		uids = append(uids, uid)
	}
	return uids, rows.Err()
}

// ToggleCollection flips a collection's favorite state.
func (s *Store) ToggleCollection(ctx context.Context, uid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, favorites.ErrStoreClosed
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM favorite_collections WHERE collection_uid = ?", uid,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite collection: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO favorite_collections (collection_uid, favorited_at) VALUES (?, ?)",
		uid, time.Now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to add favorite collection: %w", err)
	}
	return true, nil
}

// ListFavorites implements overlay.FavoriteStore.
func (s *Store) ListFavorites(ctx context.Context) ([]overlay.Key, error) {
	return s.ListAll(ctx)
}

// AddFavorite implements overlay.FavoriteStore.
func (s *Store) AddFavorite(ctx context.Context, key overlay.Key) error {
	return s.Add(ctx, key)
}

// RemoveFavorite implements overlay.FavoriteStore.
func (s *Store) RemoveFavorite(ctx context.Context, key overlay.Key) error {
	return s.Remove(ctx, key)
}

// Close closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

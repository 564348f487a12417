// Package filesystem stores local request edits as a yaml file in the data
// directory so they survive restarts and can be shared between instances.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/overlay"
	"github.com/artpar/postdeck/internal/tree"
)

// EditsFileName is the file created in the data directory.
const EditsFileName = "local_edits.yaml"

// storedEdit is the on-disk form of one edit.
type storedEdit struct {
	CollectionUID string `yaml:"collection_uid"`
	Path          []int  `yaml:"path,flow"`
	Name          string `yaml:"name"`
	Method        string `yaml:"method"`
	URL           string `yaml:"url"`
	Body          string `yaml:"body,omitempty"`
}

type editsFile struct {
	Edits []storedEdit `yaml:"edits"`
}

// EditStore persists local edits to a single yaml file.
type EditStore struct {
	mu   sync.Mutex
	path string
}

var _ overlay.EditStore = (*EditStore)(nil)

// NewEditStore creates a store writing to <dir>/local_edits.yaml.
func NewEditStore(dir string) (*EditStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &EditStore{path: filepath.Join(dir, EditsFileName)}, nil
}

// Path is the edits file.
func (s *EditStore) Path() string {
	return s.path
}

// LoadEdits reads every stored edit. A missing file means no edits. Entries
// with an empty path cannot address a request and are dropped.
func (s *EditStore) LoadEdits() ([]overlay.EditEntry[core.Edit], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local edits: %w", err)
	}

	var data editsFile
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse local edits: %w", err)
	}

	out := make([]overlay.EditEntry[core.Edit], 0, len(data.Edits))
	for _, e := range data.Edits {
		if len(e.Path) == 0 || e.CollectionUID == "" {
			continue
		}
		out = append(out, overlay.EditEntry[core.Edit]{
			Key: overlay.Key{CollectionID: e.CollectionUID, Path: tree.Path(e.Path)},
			Value: core.Edit{
				Name:   e.Name,
				Method: e.Method,
				URL:    e.URL,
				Body:   e.Body,
			},
		})
	}
	return out, nil
}

// SaveEdits replaces the file with entries. The write goes through a temp
// file and a rename so readers never see a partial file.
func (s *EditStore) SaveEdits(entries []overlay.EditEntry[core.Edit]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := editsFile{Edits: make([]storedEdit, 0, len(entries))}
	for _, e := range entries {
		data.Edits = append(data.Edits, storedEdit{
			CollectionUID: e.Key.CollectionID,
			Path:          []int(e.Key.Path.Clone()),
			Name:          e.Value.Name,
			Method:        e.Value.Method,
			URL:           e.Value.URL,
			Body:          e.Value.Body,
		})
	}

	content, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal local edits: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".local_edits-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write local edits: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write local edits: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write local edits: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace local edits: %w", err)
	}
	return nil
}

// Package config loads and saves postdeck configuration.
//
// Locations follow the XDG Base Directory specification:
//   - Config: ~/.config/postdeck/config.yaml
//   - Data:   ~/.local/share/postdeck/ (favorites db, local edits, error.log)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "postdeck"

// APIKeyEnv overrides the API key stored in the file.
const APIKeyEnv = "POSTMAN_API_KEY"

// ErrNoAPIKey is returned by RequireAPIKey when no key is configured.
var ErrNoAPIKey = errors.New("no Postman API key configured; run `postdeck configure` or set " + APIKeyEnv)

// PostmanConfig holds API access settings.
type PostmanConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// LastState is the selection restored on the next start.
type LastState struct {
	CollectionUID string `yaml:"collection_uid,omitempty"`
	// RequestPath is a tree path in "0/3/1" form.
	RequestPath    string `yaml:"request_path,omitempty"`
	EnvironmentUID string `yaml:"environment_uid,omitempty"`
	WorkspaceID    string `yaml:"workspace_id,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Postman   PostmanConfig `yaml:"postman"`
	LastState LastState     `yaml:"last_state,omitempty"`
	LogLevel  string        `yaml:"log_level,omitempty"`
	Editor    string        `yaml:"editor,omitempty"`

	path string `yaml:"-"`
}

// Dir returns the XDG config directory for postdeck.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the XDG data directory for postdeck.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appName)
}

// Path returns the full path to config.yaml.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory. A missing file
// yields an empty config.
func Load() (*Config, error) {
	path := Path()
	if path == "" {
		return nil, fmt.Errorf("cannot determine config directory")
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// File is where Save writes.
func (c *Config) File() string {
	if c.path == "" {
		return Path()
	}
	return c.path
}

// Save writes the config with owner-only permissions since it holds the
// API key.
func (c *Config) Save() error {
	path := c.File()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// APIKey returns the key from POSTMAN_API_KEY, else from the file.
func (c *Config) APIKey() string {
	if env := strings.TrimSpace(os.Getenv(APIKeyEnv)); env != "" {
		return env
	}
	return strings.TrimSpace(c.Postman.APIKey)
}

// RequireAPIKey is APIKey that fails when no key is set.
func (c *Config) RequireAPIKey() (string, error) {
	key := c.APIKey()
	if key == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}

// EditorCommand is the editor used for E: the config value, $EDITOR,
// $VISUAL, then vim.
func (c *Config) EditorCommand() string {
	for _, e := range []string{c.Editor, os.Getenv("EDITOR"), os.Getenv("VISUAL")} {
		if strings.TrimSpace(e) != "" {
			return e
		}
	}
	return "vim"
}

// SetSelection records the last collection and request. Requests under the
// favorites folder are recorded by their real path, so requestPath is
// always a tree path key.
func (c *Config) SetSelection(collectionUID, requestPath string) {
	c.LastState.CollectionUID = collectionUID
	c.LastState.RequestPath = requestPath
}

// SetEnvironment records the last environment; empty clears it.
func (c *Config) SetEnvironment(uid string) {
	c.LastState.EnvironmentUID = uid
}

// SetWorkspace records the last workspace; empty means all workspaces.
func (c *Config) SetWorkspace(id string) {
	c.LastState.WorkspaceID = id
}

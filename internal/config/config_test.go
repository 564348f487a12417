package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/cfg", "postdeck"), Dir())
	assert.Equal(t, filepath.Join("/cfg", "postdeck", "config.yaml"), Path())
	assert.Equal(t, filepath.Join("/data", "postdeck"), DataDir())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/u")
	assert.Equal(t, filepath.Join("/home/u", ".config", "postdeck"), Dir())
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.yaml")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Postman.APIKey)
	assert.Equal(t, path, cfg.File())
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("postman: [unclosed"), 0o600))
	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	cfg.Postman.APIKey = "PMAK-1"
	cfg.SetSelection("col-1", "0/2")
	cfg.SetEnvironment("env-1")
	cfg.SetWorkspace("ws-1")
	cfg.LogLevel = "debug"
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	back, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "PMAK-1", back.Postman.APIKey)
	assert.Equal(t, LastState{
		CollectionUID:  "col-1",
		RequestPath:    "0/2",
		EnvironmentUID: "env-1",
		WorkspaceID:    "ws-1",
	}, back.LastState)
	assert.Equal(t, "debug", back.LogLevel)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "api_key: PMAK-1")
	assert.Contains(t, string(data), "request_path: 0/2")
}

func TestAPIKey(t *testing.T) {
	cfg := &Config{Postman: PostmanConfig{APIKey: " file-key "}}

	t.Setenv(APIKeyEnv, "")
	assert.Equal(t, "file-key", cfg.APIKey())

	t.Setenv(APIKeyEnv, "env-key")
	assert.Equal(t, "env-key", cfg.APIKey())

	t.Setenv(APIKeyEnv, "")
	_, err := (&Config{}).RequireAPIKey()
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	assert.Equal(t, "vim", (&Config{}).EditorCommand())

	t.Setenv("VISUAL", "code -w")
	assert.Equal(t, "code -w", (&Config{}).EditorCommand())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", (&Config{}).EditorCommand())
	assert.Equal(t, "hx", (&Config{Editor: "hx"}).EditorCommand())
}

package cli

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/postdeck/internal/config"
	"github.com/artpar/postdeck/internal/tui/views"
)

type hit struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

// target is the server the saved requests point at.
type target struct {
	mu   sync.Mutex
	hits []hit
	url  string
}

func (tg *target) all() []hit {
	tg.mu.Lock()
	defer tg.mu.Unlock()
	return append([]hit(nil), tg.hits...)
}

func newTarget(t *testing.T) *target {
	t.Helper()
	tg := &target{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		tg.mu.Lock()
		tg.hits = append(tg.hits, hit{r.Method, r.URL.Path, r.Header.Get("Authorization"), string(body)})
		tg.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	t.Cleanup(srv.Close)
	tg.url = srv.URL
	return tg
}

func collectionJSON(base string) string {
	return fmt.Sprintf(`{"collection":{
		"info":{"_postman_id":"p1","name":"Shop"},
		"item":[
			{"name":"Users","item":[
				{"id":"r1","name":"List users","request":{"method":"GET","url":"{{base}}/users",
					"header":[{"key":"Authorization","value":"Bearer {{token}}"}]}},
				{"id":"r2","name":"Delete user","request":{"method":"DELETE","url":{"raw":"{{base}}/users/1"}}}
			]},
			{"id":"r3","name":"Health","request":{"method":"get","url":"{{base}}/health"}}
		],
		"variable":[{"key":"base","value":%q}]
	}}`, base)
}

// newPostmanServer serves a workspace with collections Shop (c1) and Auth
// (c2) and environment Dev (e1).
func newPostmanServer(t *testing.T, base string) string {
	t.Helper()
	replies := map[string]string{
		"/collections":     `{"collections":[{"uid":"c1","name":"Shop"},{"uid":"c2","name":"Auth"}]}`,
		"/collections/c1":  collectionJSON(base),
		"/environments":    `{"environments":[{"uid":"e1","name":"Dev"}]}`,
		"/environments/e1": `{"environment":{"id":"e1","name":"Dev","values":[{"key":"token","value":"secret","enabled":true}]}}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"unauthorized"}`)
			return
		}
		body, ok := replies[r.URL.Path]
		if !ok || r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"not found"}`)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

type env struct {
	configPath string
	dataDir    string
}

// newEnv writes a config pointing at the fake Postman API.
func newEnv(t *testing.T, apiURL string) env {
	t.Helper()
	t.Setenv(config.APIKeyEnv, "")
	dir := t.TempDir()
	e := env{configPath: filepath.Join(dir, "config.yaml"), dataDir: filepath.Join(dir, "data")}
	cfg, err := config.LoadFrom(e.configPath)
	require.NoError(t, err)
	cfg.Postman.APIKey = "key-123"
	cfg.Postman.BaseURL = apiURL
	require.NoError(t, cfg.Save())
	return e
}

// run executes the root command and returns stdout and stderr.
func (e env) run(args ...string) (string, string, error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand("test")
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--data-dir", e.dataDir}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewRootCommand(t *testing.T) {
	t.Run("creates root command", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		assert.NotNil(t, cmd)
		assert.Equal(t, "postdeck", cmd.Use)
		assert.Equal(t, "1.0.0", cmd.Version)
	})

	t.Run("has persistent flags", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
		assert.NotNil(t, cmd.PersistentFlags().Lookup("data-dir"))
	})

	for _, name := range []string{"configure", "collections", "send"} {
		t.Run("has "+name+" subcommand", func(t *testing.T) {
			cmd := NewRootCommand("1.0.0")
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Contains(t, sub.Use, name)
		})
	}

	t.Run("tui needs an api key", func(t *testing.T) {
		t.Setenv(config.APIKeyEnv, "")
		dir := t.TempDir()
		e := env{configPath: filepath.Join(dir, "config.yaml"), dataDir: filepath.Join(dir, "data")}
		_, _, err := e.run()
		assert.ErrorIs(t, err, config.ErrNoAPIKey)
	})
}

func TestTUIModel(t *testing.T) {
	t.Run("delegates to the main view", func(t *testing.T) {
		model := tuiModel{view: views.NewMainView(t.Context(), views.Deps{})}

		var m tea.Model = model
		m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
		assert.Contains(t, m.View(), "Loading...")
		assert.Equal(t, 100, m.(tuiModel).view.Width())
	})
}

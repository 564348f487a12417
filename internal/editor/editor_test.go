package editor

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/postdeck/internal/core"
)

func TestSession_Unchanged(t *testing.T) {
	s, err := Begin(core.Edit{Name: "List", Method: "GET", URL: "/users"})
	require.NoError(t, err)

	content, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "url: /users")

	_, err = s.Finish(nil)
	assert.ErrorIs(t, err, ErrUnchanged)
	_, statErr := os.Stat(s.Path)
	assert.True(t, os.IsNotExist(statErr), "temp file removed")
}

func TestSession_Edited(t *testing.T) {
	s, err := Begin(core.Edit{Name: "List", Method: "GET", URL: "/users"})
	require.NoError(t, err)

	edited := "name: ' Create '\nmethod: post\nurl: /users\nbody: |\n  {\"a\": 1}\n"
	require.NoError(t, os.WriteFile(s.Path, []byte(edited), 0o600))

	got, err := s.Finish(nil)
	require.NoError(t, err)
	assert.Equal(t, core.Edit{Name: "Create", Method: "POST", URL: "/users", Body: "{\"a\": 1}\n"}, got)
}

func TestSession_InvalidYAML(t *testing.T) {
	s, err := Begin(core.Edit{Method: "GET"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path, []byte("name: [oops"), 0o600))

	_, err = s.Finish(nil)
	assert.ErrorContains(t, err, "check yaml syntax")
}

func TestSession_EditorFailed(t *testing.T) {
	s, err := Begin(core.Edit{Method: "GET"})
	require.NoError(t, err)

	_, err = s.Finish(errors.New("exit status 1"))
	assert.ErrorContains(t, err, "failed to run editor")
	_, statErr := os.Stat(s.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSession_Command(t *testing.T) {
	s := &Session{Path: "/tmp/x.yaml"}

	cmd := s.Command("code -w")
	assert.Equal(t, []string{"code", "-w", "/tmp/x.yaml"}, cmd.Args)

	cmd = s.Command("  ")
	assert.Equal(t, []string{"vim", "/tmp/x.yaml"}, cmd.Args)
}

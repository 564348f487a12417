// Package editor round-trips a request edit through the user's $EDITOR as a
// yaml document.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/artpar/postdeck/internal/core"
)

// ErrUnchanged is returned by Finish when the file was saved as it was.
var ErrUnchanged = errors.New("no changes")

// document is the editable form shown to the user.
type document struct {
	Name   string `yaml:"name"`
	Method string `yaml:"method"`
	URL    string `yaml:"url"`
	Body   string `yaml:"body"`
}

// Session is one edit in progress: the temp file and what it held before the
// editor ran.
type Session struct {
	Path     string
	original []byte
}

// Begin writes edit to a temp file for the editor.
func Begin(edit core.Edit) (*Session, error) {
	content, err := yaml.Marshal(document{
		Name:   edit.Name,
		Method: edit.Method,
		URL:    edit.URL,
		Body:   edit.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	f, err := os.CreateTemp("", "postdeck-edit-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	return &Session{Path: f.Name(), original: content}, nil
}

// Command builds the editor process. editorCmd may carry arguments, as in
// "code -w".
func (s *Session) Command(editorCmd string) *exec.Cmd {
	fields := strings.Fields(editorCmd)
	if len(fields) == 0 {
		fields = []string{"vim"}
	}
	args := append(fields[1:], s.Path)
	return exec.Command(fields[0], args...)
}

// Finish reads the edited file back and removes it. runErr is the editor's
// exit error; a failed editor run discards the edit.
func (s *Session) Finish(runErr error) (core.Edit, error) {
	defer os.Remove(s.Path)

	if runErr != nil {
		return core.Edit{}, fmt.Errorf("failed to run editor: %w", runErr)
	}
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return core.Edit{}, fmt.Errorf("failed to read edited file: %w", err)
	}
	if string(content) == string(s.original) {
		return core.Edit{}, ErrUnchanged
	}

	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return core.Edit{}, fmt.Errorf("failed to parse edited request, check yaml syntax: %w", err)
	}
	return core.Edit{
		Name:   strings.TrimSpace(doc.Name),
		Method: core.NormalizeMethod(doc.Method),
		URL:    strings.TrimSpace(doc.URL),
		Body:   doc.Body,
	}, nil
}

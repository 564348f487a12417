// Package interpolate resolves {{variable}} placeholders in saved requests
// against collection and environment variables.
package interpolate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artpar/postdeck/internal/core"
)

// Mode controls what happens to a placeholder with no value.
type Mode int

const (
	// KeepUndefined leaves the placeholder text in place.
	KeepUndefined Mode = iota
	// BlankUndefined replaces it with the empty string.
	BlankUndefined
	// FailUndefined makes Interpolate return an error.
	FailUndefined
)

// BuiltinFunc generates a dynamic value such as {{$uuid}}.
type BuiltinFunc func() string

// Engine substitutes variables. Safe for concurrent use.
type Engine struct {
	mu        sync.RWMutex
	variables map[string]string
	builtins  map[string]BuiltinFunc
	mode      Mode
	now       func() time.Time
}

// Postman keys may contain dots, e.g. {{base.url}}.
var variablePattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_$][a-zA-Z0-9_\-$.]*)\s*\}\}`)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMode sets the undefined-variable behavior.
func WithMode(m Mode) EngineOption {
	return func(e *Engine) { e.mode = m }
}

// WithClock overrides the time source used by the date builtins.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithVariables seeds the engine. Later sets override earlier ones and
// disabled variables are skipped, so pass collection variables before
// environment variables.
func WithVariables(sets ...[]core.Variable) EngineOption {
	return func(e *Engine) {
		for k, v := range core.MergeVariables(sets...) {
			e.variables[k] = v
		}
	}
}

// NewEngine creates an engine that keeps undefined placeholders.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		variables: make(map[string]string),
		builtins:  make(map[string]BuiltinFunc),
		mode:      KeepUndefined,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.registerDefaultBuiltins()
	return e
}

func (e *Engine) registerDefaultBuiltins() {
	e.builtins["$guid"] = func() string { return uuid.New().String() }
	e.builtins["$uuid"] = e.builtins["$guid"]
	e.builtins["$randomUUID"] = e.builtins["$guid"]
	e.builtins["$timestamp"] = func() string {
		return fmt.Sprintf("%d", e.now().Unix())
	}
	e.builtins["$isoTimestamp"] = func() string {
		return e.now().UTC().Format(time.RFC3339)
	}
	e.builtins["$randomInt"] = func() string {
		return fmt.Sprintf("%d", e.now().UnixNano()%1000)
	}
}

// Set assigns a single variable.
func (e *Engine) Set(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.variables[name] = value
}

// Lookup returns the value of a user variable.
func (e *Engine) Lookup(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.variables[name]
	return v, ok
}

// Variables returns a copy of all user variables.
func (e *Engine) Variables() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]string, len(e.variables))
	for k, v := range e.variables {
		out[k] = v
	}
	return out
}

// RegisterBuiltin adds or replaces a builtin. Names start with "$".
func (e *Engine) RegisterBuiltin(name string, fn BuiltinFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.builtins[name] = fn
}

// Interpolate replaces every placeholder in input. User variables shadow
// builtins of the same name.
func (e *Engine) Interpolate(input string) (string, error) {
	if !strings.Contains(input, "{{") {
		return input, nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	var missing []string
	out := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		name := variablePattern.FindStringSubmatch(match)[1]
		if v, ok := e.variables[name]; ok {
			return v
		}
		if fn, ok := e.builtins[name]; ok {
			return fn()
		}
		switch e.mode {
		case BlankUndefined:
			return ""
		case FailUndefined:
			missing = append(missing, name)
		}
		return match
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("undefined variables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// InterpolateRequest resolves placeholders in the URL, body and header
// values of req. Header keys and the method are used verbatim.
func (e *Engine) InterpolateRequest(req core.Request) (core.Request, error) {
	out := req.Clone()
	var err error
	if out.URL, err = e.Interpolate(req.URL); err != nil {
		return req, fmt.Errorf("failed to interpolate url: %w", err)
	}
	if out.Body, err = e.Interpolate(req.Body); err != nil {
		return req, fmt.Errorf("failed to interpolate body: %w", err)
	}
	for i, h := range out.Headers {
		if out.Headers[i].Value, err = e.Interpolate(h.Value); err != nil {
			return req, fmt.Errorf("failed to interpolate header %q: %w", h.Key, err)
		}
	}
	return out, nil
}

// Unresolved lists the placeholder names in req that have no variable or
// builtin, sorted and deduplicated.
func (e *Engine) Unresolved(req core.Request) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]bool)
	scan := func(s string) {
		for _, m := range variablePattern.FindAllStringSubmatch(s, -1) {
			name := m[1]
			if _, ok := e.variables[name]; ok {
				continue
			}
			if _, ok := e.builtins[name]; ok {
				continue
			}
			seen[name] = true
		}
	}
	scan(req.URL)
	scan(req.Body)
	for _, h := range req.Headers {
		scan(h.Value)
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Names returns the placeholder names in input in order of first use.
func Names(input string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

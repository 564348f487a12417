package interpolate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/postdeck/internal/core"
)

func enabled(b bool) *bool { return &b }

func TestEngine_Interpolate(t *testing.T) {
	e := NewEngine()
	e.Set("host", "api.example.com")
	e.Set("base.url", "https://x.test")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no placeholders", "plain text", "plain text"},
		{"single", "https://{{host}}/v1", "https://api.example.com/v1"},
		{"spaces inside braces", "{{ host }}", "api.example.com"},
		{"dotted key", "{{base.url}}/users", "https://x.test/users"},
		{"repeated", "{{host}}|{{host}}", "api.example.com|api.example.com"},
		{"undefined kept", "{{missing}}/x", "{{missing}}/x"},
		{"unbalanced ignored", "{{host", "{{host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Interpolate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Modes(t *testing.T) {
	t.Run("blank", func(t *testing.T) {
		got, err := NewEngine(WithMode(BlankUndefined)).Interpolate("a{{x}}b")
		require.NoError(t, err)
		assert.Equal(t, "ab", got)
	})

	t.Run("fail lists every missing name", func(t *testing.T) {
		_, err := NewEngine(WithMode(FailUndefined)).Interpolate("{{a}} {{b}}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a, b")
	})
}

func TestEngine_Builtins(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewEngine(WithClock(func() time.Time { return fixed }))

	got, err := e.Interpolate("{{$timestamp}}")
	require.NoError(t, err)
	assert.Equal(t, "1709294400", got)

	got, err = e.Interpolate("{{$isoTimestamp}}")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T12:00:00Z", got)

	got, err = e.Interpolate("{{$guid}}")
	require.NoError(t, err)
	assert.Len(t, got, 36)

	t.Run("user variable shadows builtin", func(t *testing.T) {
		e.Set("$guid", "fixed")
		got, err := e.Interpolate("{{$guid}}")
		require.NoError(t, err)
		assert.Equal(t, "fixed", got)
	})

	t.Run("custom builtin", func(t *testing.T) {
		e.RegisterBuiltin("$env", func() string { return "ci" })
		got, err := e.Interpolate("{{$env}}")
		require.NoError(t, err)
		assert.Equal(t, "ci", got)
	})
}

func TestWithVariables_EnvironmentOverridesCollection(t *testing.T) {
	collection := []core.Variable{
		{Key: "host", Value: "coll.test"},
		{Key: "token", Value: "coll-token"},
	}
	environment := []core.Variable{
		{Key: "host", Value: "env.test"},
		{Key: "token", Value: "off", Enabled: enabled(false)},
	}
	e := NewEngine(WithVariables(collection, environment))

	host, _ := e.Lookup("host")
	token, _ := e.Lookup("token")
	assert.Equal(t, "env.test", host)
	assert.Equal(t, "coll-token", token)
	assert.Len(t, e.Variables(), 2)
}

func TestEngine_InterpolateRequest(t *testing.T) {
	e := NewEngine(WithVariables([]core.Variable{
		{Key: "host", Value: "api.test"},
		{Key: "token", Value: "s3cret"},
		{Key: "id", Value: "42"},
	}))
	req := core.Request{
		Name:   "Get {{id}}",
		Method: "GET",
		URL:    "https://{{host}}/users/{{id}}",
		Headers: []core.Header{
			{Key: "Authorization", Value: "Bearer {{token}}"},
			{Key: "{{id}}", Value: "x"},
		},
		Body: `{"id": "{{id}}", "other": "{{unknown}}"}`,
	}

	got, err := e.InterpolateRequest(req)
	require.NoError(t, err)

	assert.Equal(t, "https://api.test/users/42", got.URL)
	assert.Equal(t, "Bearer s3cret", got.Headers[0].Value)
	assert.Equal(t, "{{id}}", got.Headers[1].Key, "header keys are not interpolated")
	assert.Equal(t, `{"id": "42", "other": "{{unknown}}"}`, got.Body)
	assert.Equal(t, "Get {{id}}", got.Name)
	assert.Equal(t, "Bearer {{token}}", req.Headers[0].Value, "input is not mutated")
}

func TestEngine_InterpolateRequestFailure(t *testing.T) {
	e := NewEngine(WithMode(FailUndefined))
	req := core.Request{URL: "https://{{host}}"}

	got, err := e.InterpolateRequest(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to interpolate url")
	assert.Equal(t, req, got)
}

func TestEngine_Unresolved(t *testing.T) {
	e := NewEngine()
	e.Set("host", "h")
	req := core.Request{
		URL:     "{{host}}/{{b}}/{{$guid}}",
		Headers: []core.Header{{Key: "X", Value: "{{a}}"}},
		Body:    "{{b}}",
	}
	assert.Equal(t, []string{"a", "b"}, e.Unresolved(req))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, Names("{{b}}{{a}}{{ b }}"))
	assert.Nil(t, Names("none"))
}

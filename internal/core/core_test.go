package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequest(t *testing.T) {
	r := NewRequest("List", " post ", "https://example.com")
	assert.Equal(t, "POST", r.Method)
	assert.Equal(t, "GET", NewRequest("x", "", "u").Method)
}

func TestRequest_EnabledHeaders(t *testing.T) {
	r := Request{Headers: []Header{
		{Key: "Accept", Value: "application/json"},
		{Key: "X-Off", Value: "1", Disabled: true},
		{Key: " ", Value: "blank"},
	}}
	assert.Equal(t, []Header{{Key: "Accept", Value: "application/json"}}, r.EnabledHeaders())
}

func TestRequest_Clone(t *testing.T) {
	r := Request{Headers: []Header{{Key: "A", Value: "1"}}}
	c := r.Clone()
	c.Headers[0].Value = "2"
	assert.Equal(t, "1", r.Headers[0].Value)
}

func TestIsDestructiveMethod(t *testing.T) {
	tests := []struct {
		method   string
		expected bool
	}{
		{"GET", false},
		{"HEAD", false},
		{"OPTIONS", false},
		{"POST", true},
		{"put", true},
		{"DELETE", true},
		{"PATCH", true},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDestructiveMethod(tt.method))
		})
	}
}

func TestEdit_Apply(t *testing.T) {
	base := Request{
		ID:          "abc",
		Name:        "bar",
		Method:      "GET",
		URL:         "https://api/bar",
		Headers:     []Header{{Key: "A", Value: "1"}},
		Description: "docs",
	}

	t.Run("edit wins for editable fields", func(t *testing.T) {
		got := Edit{Name: "baz", Method: "post", URL: "https://api/baz", Body: "{}"}.Apply(base)
		assert.Equal(t, "baz", got.Name)
		assert.Equal(t, "POST", got.Method)
		assert.Equal(t, "https://api/baz", got.URL)
		assert.Equal(t, "{}", got.Body)
		assert.Equal(t, "raw", got.BodyMode)
		assert.Equal(t, "abc", got.ID)
		assert.Equal(t, "docs", got.Description)
		assert.Equal(t, base.Headers, got.Headers)
	})

	t.Run("empty name keeps base name", func(t *testing.T) {
		got := Edit{Method: "GET"}.Apply(base)
		assert.Equal(t, "bar", got.Name)
	})

	t.Run("round trip", func(t *testing.T) {
		assert.Equal(t, base.Name, EditOf(base).Apply(base).Name)
		assert.Equal(t, base.URL, EditOf(base).Apply(base).URL)
	})
}

func TestResponse(t *testing.T) {
	r := Response{StatusCode: 404, Headers: []Header{{Key: "content-type", Value: "text/plain"}}}
	assert.Equal(t, "404 Not Found", r.StatusLine())
	assert.True(t, r.IsClientError())
	assert.False(t, r.IsSuccess())
	assert.Equal(t, "text/plain", r.Header("Content-Type"))
	assert.Empty(t, r.Header("X-Missing"))

	ok := Response{StatusCode: 200, Status: "200 OK"}
	assert.True(t, ok.IsSuccess())
	assert.Equal(t, "200 OK", ok.StatusLine())
	assert.True(t, Response{StatusCode: 503}.IsServerError())
}

func TestMergeVariables(t *testing.T) {
	off := false
	on := true
	collection := []Variable{
		{Key: "host", Value: "prod"},
		{Key: "token", Value: "c"},
		{Key: "hidden", Value: "x", Enabled: &off},
	}
	env := []Variable{
		{Key: "host", Value: "staging", Enabled: &on},
		{Key: "token", Value: "e", Enabled: &off},
	}
	got := MergeVariables(collection, env)
	assert.Equal(t, map[string]string{"host": "staging", "token": "c"}, got)
}

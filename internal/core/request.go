// Package core holds the request, response and variable types shared by the
// collection browser, the executor and the persistence layers.
package core

import (
	"strings"
)

// Header is a single request or response header.
type Header struct {
	Key      string `json:"key" yaml:"key"`
	Value    string `json:"value" yaml:"value"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Request is a saved request as stored in a collection leaf.
type Request struct {
	// ID is the remote request id; empty for requests not yet synced.
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string   `json:"name" yaml:"name"`
	Method      string   `json:"method" yaml:"method"`
	URL         string   `json:"url" yaml:"url"`
	Headers     []Header `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body        string   `json:"body,omitempty" yaml:"body,omitempty"`
	BodyMode    string   `json:"body_mode,omitempty" yaml:"body_mode,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewRequest creates a request with the method upper-cased, defaulting to GET.
func NewRequest(name, method, url string) Request {
	return Request{
		Name:   name,
		Method: NormalizeMethod(method),
		URL:    url,
	}
}

// NormalizeMethod upper-cases method and defaults it to GET.
func NormalizeMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return "GET"
	}
	return method
}

// Clone returns a deep copy of r.
func (r Request) Clone() Request {
	clone := r
	if r.Headers != nil {
		clone.Headers = make([]Header, len(r.Headers))
		copy(clone.Headers, r.Headers)
	}
	return clone
}

// EnabledHeaders returns headers that are not disabled and have a key.
func (r Request) EnabledHeaders() []Header {
	var out []Header
	for _, h := range r.Headers {
		if h.Disabled || strings.TrimSpace(h.Key) == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}

// IsDestructive reports whether executing r changes server state and so
// needs confirmation.
func (r Request) IsDestructive() bool {
	return IsDestructiveMethod(r.Method)
}

// IsDestructiveMethod reports whether method is POST, PUT, DELETE or PATCH.
func IsDestructiveMethod(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "DELETE", "PATCH":
		return true
	}
	return false
}

// Edit is the locally edited part of a request: the fields a user can change
// before syncing back.
type Edit struct {
	Name   string `json:"name" yaml:"name"`
	Method string `json:"method" yaml:"method"`
	URL    string `json:"url" yaml:"url"`
	Body   string `json:"body" yaml:"body"`
}

// EditOf extracts the editable fields of r.
func EditOf(r Request) Edit {
	return Edit{Name: r.Name, Method: r.Method, URL: r.URL, Body: r.Body}
}

// Apply returns base with the edited fields replaced. Headers, id and
// description always come from base.
func (e Edit) Apply(base Request) Request {
	out := base.Clone()
	if e.Name != "" {
		out.Name = e.Name
	}
	out.Method = NormalizeMethod(e.Method)
	out.URL = e.URL
	out.Body = e.Body
	if e.Body != "" && out.BodyMode == "" {
		out.BodyMode = "raw"
	}
	return out
}

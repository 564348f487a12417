package postman

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// SchemaURL is sent with every collection update.
const SchemaURL = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Workspace is an entry of GET /workspaces.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// CollectionInfo is an entry of GET /collections.
type CollectionInfo struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// EnvironmentInfo is an entry of GET /environments.
type EnvironmentInfo struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// Collection is the body of GET /collections/{uid}.
type Collection struct {
	Info     Info            `json:"info"`
	Item     []Item          `json:"item"`
	Variable []Variable      `json:"variable,omitempty"`
	Auth     json.RawMessage `json:"auth,omitempty"`
	Event    json.RawMessage `json:"event,omitempty"`
}

// Info identifies a collection.
type Info struct {
	PostmanID   string          `json:"_postman_id"`
	Name        string          `json:"name"`
	Schema      string          `json:"schema,omitempty"`
	Description json.RawMessage `json:"description,omitempty"`
}

// Item is a request or a folder; Postman does not tag which. An item with a
// "request" member is a request, anything else is a folder.
type Item struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Request     *Request          `json:"request,omitempty"`
	Response    []json.RawMessage `json:"response"`
	Item        []Item            `json:"item,omitempty"`
	Description json.RawMessage   `json:"description,omitempty"`
	Auth        json.RawMessage   `json:"auth,omitempty"`
	Event       json.RawMessage   `json:"event,omitempty"`
}

// IsFolder reports whether the item is a folder.
func (it Item) IsFolder() bool {
	return it.Request == nil
}

// MarshalJSON writes folders with an explicit "item" array, even when empty,
// so they read back as folders.
func (it Item) MarshalJSON() ([]byte, error) {
	type plain Item
	if !it.IsFolder() {
		p := plain(it)
		p.Item = nil
		if p.Response == nil {
			p.Response = []json.RawMessage{}
		}
		return json.Marshal(p)
	}
	children := it.Item
	if children == nil {
		children = []Item{}
	}
	return json.Marshal(struct {
		ID          string          `json:"id,omitempty"`
		Name        string          `json:"name"`
		Item        []Item          `json:"item"`
		Description json.RawMessage `json:"description,omitempty"`
		Auth        json.RawMessage `json:"auth,omitempty"`
		Event       json.RawMessage `json:"event,omitempty"`
	}{it.ID, it.Name, children, it.Description, it.Auth, it.Event})
}

// Request is the request member of a request item.
type Request struct {
	Method      string          `json:"method"`
	URL         URL             `json:"url"`
	Header      []Header        `json:"header"`
	Body        *Body           `json:"body,omitempty"`
	Description json.RawMessage `json:"description,omitempty"`
	Auth        json.RawMessage `json:"auth,omitempty"`
}

// Body is a request body. Only raw bodies are sent.
type Body struct {
	Mode    string          `json:"mode,omitempty"`
	Raw     string          `json:"raw,omitempty"`
	Options json.RawMessage `json:"options,omitempty"`
}

// Header is a request header. Postman exports "disabled" both as a bool and
// as the strings "true"/"false".
type Header struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled Flag   `json:"disabled,omitempty"`
}

// Flag is a bool that also decodes from "true"/"false" strings.
type Flag bool

// UnmarshalJSON accepts true, false, "true", "false", "" and null.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true":
		*f = true
		return nil
	case "false", "null":
		*f = false
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid boolean %s", data)
	}
	switch strings.ToLower(s) {
	case "true":
		*f = true
	case "false", "":
		*f = false
	default:
		return fmt.Errorf("invalid boolean string: %s", s)
	}
	return nil
}

// URL is a request URL given either as a string or as an object whose "raw"
// field holds the full text.
type URL struct {
	Raw string
	// detail is the object form, kept so an untouched URL round-trips.
	detail json.RawMessage
}

// NewURL returns a string-form URL.
func NewURL(raw string) URL {
	return URL{Raw: raw}
}

// String returns the raw URL text.
func (u URL) String() string {
	return u.Raw
}

// UnmarshalJSON decodes either form.
func (u *URL) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*u = URL{}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &u.Raw)
	}
	var obj struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	u.Raw = obj.Raw
	u.detail = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the object form back unchanged, otherwise a string.
func (u URL) MarshalJSON() ([]byte, error) {
	if u.detail != nil {
		return u.detail, nil
	}
	return json.Marshal(u.Raw)
}

// Variable is a collection or environment variable.
type Variable struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Type    string `json:"type,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// Environment is the body of GET /environments/{uid}.
type Environment struct {
	ID     string     `json:"id,omitempty"`
	Name   string     `json:"name"`
	Values []Variable `json:"values"`
}

// DescriptionText returns the text of a description given as a string or
// as {"content": ...}.
func DescriptionText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Content
	}
	return ""
}

package core

import (
	"fmt"
	"net/http"
	"time"
)

// Response is the result of executing a request.
type Response struct {
	StatusCode int           `json:"status_code"`
	Status     string        `json:"status"`
	Headers    []Header      `json:"headers,omitempty"`
	Body       string        `json:"body"`
	Duration   time.Duration `json:"duration"`
	Size       int64         `json:"size"`
}

// StatusLine returns e.g. "200 OK".
func (r Response) StatusLine() string {
	if r.Status != "" {
		return r.Status
	}
	return fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode))
}

// IsSuccess reports a 2xx status.
func (r Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsClientError reports a 4xx status.
func (r Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError reports a 5xx status.
func (r Response) IsServerError() bool {
	return r.StatusCode >= 500
}

// Header returns the first header value for key, case-insensitively.
func (r Response) Header(key string) string {
	canonical := http.CanonicalHeaderKey(key)
	for _, h := range r.Headers {
		if http.CanonicalHeaderKey(h.Key) == canonical {
			return h.Value
		}
	}
	return ""
}

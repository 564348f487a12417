package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/artpar/postdeck/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("creates client with defaults", func(t *testing.T) {
		client := NewClient()
		assert.NotNil(t, client)
		assert.Equal(t, 30*time.Second, client.config.Timeout)
		assert.True(t, client.config.FollowRedirect)
	})

	t.Run("creates client with custom timeout", func(t *testing.T) {
		client := NewClient(WithTimeout(5 * time.Second))
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("creates client with custom transport", func(t *testing.T) {
		transport := &http.Transport{MaxIdleConns: 100}
		client := NewClient(WithTransport(transport))
		assert.Equal(t, transport, client.httpClient.Transport)
	})
}

func TestClient_Execute(t *testing.T) {
	t.Run("sends GET request and receives response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/users", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"name":"John"}`))
		}))
		defer server.Close()

		client := NewClient()
		resp, err := client.Execute(context.Background(), core.NewRequest("users", "get", server.URL+"/users"))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "200 OK", resp.StatusLine())
		assert.Equal(t, `{"name":"John"}`, resp.Body)
		assert.Equal(t, "application/json", resp.Header("content-type"))
		assert.Equal(t, int64(15), resp.Size)
	})

	t.Run("sends raw body and enabled headers only", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, `{"a":1}`, string(body))
			assert.Equal(t, "yes", r.Header.Get("X-On"))
			assert.Empty(t, r.Header.Get("X-Off"))
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		req := core.NewRequest("create", "POST", server.URL)
		req.Body = `{"a":1}`
		req.Headers = []core.Header{
			{Key: "X-On", Value: "yes"},
			{Key: "X-Off", Value: "no", Disabled: true},
			{Key: "", Value: "ignored"},
		}
		resp, err := NewClient().Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("no redirects", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
		}))
		defer server.Close()

		resp, err := NewClient(WithNoRedirects()).Execute(context.Background(), core.NewRequest("r", "GET", server.URL))
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
	})

	t.Run("body size cap", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("0123456789"))
		}))
		defer server.Close()

		resp, err := NewClient(WithMaxBodySize(4)).Execute(context.Background(), core.NewRequest("r", "GET", server.URL))
		require.NoError(t, err)
		assert.Equal(t, "0123", resp.Body)
	})

	t.Run("missing URL", func(t *testing.T) {
		_, err := NewClient().Execute(context.Background(), core.NewRequest("r", "GET", ""))
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewClient().Execute(ctx, core.NewRequest("r", "GET", server.URL))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := NewClient(WithTimeout(time.Second)).Execute(context.Background(), core.NewRequest("r", "GET", "http://127.0.0.1:1"))
		assert.Error(t, err)
	})
}

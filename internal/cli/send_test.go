package cli

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/overlay"
	"github.com/artpar/postdeck/internal/storage/filesystem"
	"github.com/artpar/postdeck/internal/tree"
)

func TestSendCommand(t *testing.T) {
	t.Run("sends a request by index path", func(t *testing.T) {
		tg := newTarget(t)
		e := newEnv(t, newPostmanServer(t, tg.url))

		out, _, err := e.run("send", "Shop", "0/0", "--env", "Dev")
		require.NoError(t, err)

		hits := tg.all()
		require.Len(t, hits, 1)
		assert.Equal(t, hit{Method: "GET", Path: "/users", Auth: "Bearer secret"}, hits[0])
		assert.Contains(t, out, "GET "+tg.url+"/users")
		assert.Contains(t, out, "HTTP 200 OK")
		assert.Contains(t, out, "Size: 11 B")
		assert.Contains(t, out, "Content-Type: application/json")
		assert.Contains(t, out, `{"ok":true}`)
	})

	t.Run("sends a request by name path as json", func(t *testing.T) {
		tg := newTarget(t)
		e := newEnv(t, newPostmanServer(t, tg.url))

		out, errOut, err := e.run("send", "c1", "Users/List users", "--json")
		require.NoError(t, err)
		assert.Contains(t, errOut, "warning: unresolved variables: token")

		var result sendResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "GET", result.Method)
		assert.Equal(t, tg.url+"/users", result.URL)
		assert.Equal(t, 200, result.Status)
		assert.Equal(t, "OK", result.StatusText)
		assert.Equal(t, `{"ok":true}`, result.Body)
		assert.Equal(t, int64(11), result.Size)
		assert.Equal(t, []string{"token"}, result.Unresolved)

		require.Len(t, tg.all(), 1)
		assert.Equal(t, "Bearer {{token}}", tg.all()[0].Auth)
	})

	t.Run("method is normalized", func(t *testing.T) {
		tg := newTarget(t)
		e := newEnv(t, newPostmanServer(t, tg.url))

		_, _, err := e.run("send", "Shop", "Health")
		require.NoError(t, err)
		require.Len(t, tg.all(), 1)
		assert.Equal(t, "GET", tg.all()[0].Method)
	})

	t.Run("destructive requests need --yes", func(t *testing.T) {
		tg := newTarget(t)
		e := newEnv(t, newPostmanServer(t, tg.url))

		_, _, err := e.run("send", "Shop", "0/1")
		assert.EqualError(t, err, "refusing to send DELETE "+tg.url+"/users/1 without --yes")
		assert.Empty(t, tg.all())

		_, _, err = e.run("send", "Shop", "0/1", "--yes")
		require.NoError(t, err)
		require.Len(t, tg.all(), 1)
		assert.Equal(t, "DELETE", tg.all()[0].Method)
		assert.Equal(t, "/users/1", tg.all()[0].Path)
	})

	t.Run("response body is capped", func(t *testing.T) {
		tg := newTarget(t)
		e := newEnv(t, newPostmanServer(t, tg.url))

		out, _, err := e.run("send", "Shop", "Health", "--json", "--max-body", "5")
		require.NoError(t, err)

		var result sendResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, `{"ok"`, result.Body)
		assert.Equal(t, int64(5), result.Size)
	})

	t.Run("max body defaults to the shared cap", func(t *testing.T) {
		f := NewSendCommand(&Options{}).Flags().Lookup("max-body")
		require.NotNil(t, f)
		assert.Equal(t, "10485760", f.DefValue)
	})

	t.Run("prints curl without sending", func(t *testing.T) {
		tg := newTarget(t)
		e := newEnv(t, newPostmanServer(t, tg.url))

		out, _, err := e.run("send", "Shop", "0/1", "--curl")
		require.NoError(t, err)
		assert.Equal(t, "curl \\\n  -X DELETE \\\n  "+tg.url+"/users/1\n", out)
		assert.Empty(t, tg.all())
	})

	t.Run("applies local edits with --local", func(t *testing.T) {
		tg := newTarget(t)
		e := newEnv(t, newPostmanServer(t, tg.url))

		store, err := filesystem.NewEditStore(e.dataDir)
		require.NoError(t, err)
		require.NoError(t, store.SaveEdits([]overlay.EditEntry[core.Edit]{{
			Key:   overlay.Key{CollectionID: "c1", Path: tree.Path{1}},
			Value: core.Edit{Name: "Health", Method: "POST", URL: "{{base}}/health/deep", Body: `{"deep":true}`},
		}}))

		_, _, err = e.run("send", "Shop", "1")
		require.NoError(t, err)
		_, _, err = e.run("send", "Shop", "1", "--local", "--yes")
		require.NoError(t, err)

		hits := tg.all()
		require.Len(t, hits, 2)
		assert.Equal(t, hit{Method: "GET", Path: "/health"}, hits[0])
		assert.Equal(t, hit{Method: "POST", Path: "/health/deep", Body: `{"deep":true}`}, hits[1])
	})

	t.Run("errors", func(t *testing.T) {
		tg := newTarget(t)
		e := newEnv(t, newPostmanServer(t, tg.url))

		tests := []struct {
			name string
			args []string
			want string
		}{
			{"folder", []string{"send", "Shop", "0"}, `"Users" is a folder, not a request`},
			{"missing index", []string{"send", "Shop", "0/7"}, `request "0/7" not found`},
			{"missing name", []string{"send", "Shop", "Users/Nope"}, `request "Users/Nope" not found`},
			{"name past a leaf", []string{"send", "Shop", "Health/x"}, `request "Health/x" not found`},
			{"empty path", []string{"send", "Shop", ""}, `request "" not found`},
			{"collection", []string{"send", "Billing", "0"}, `collection "Billing" not found`},
			{"environment", []string{"send", "Shop", "0/0", "--env", "Prod"}, `environment "Prod" not found`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, _, err := e.run(tt.args...)
				assert.EqualError(t, err, tt.want)
			})
		}
		assert.Empty(t, tg.all())
	})
}

func TestResolveRequest(t *testing.T) {
	tr := tree.New(
		tree.NewFolder("Users",
			tree.NewLeaf("List", core.NewRequest("List", "GET", "/users")),
		),
		tree.NewLeaf("Health", core.NewRequest("Health", "GET", "/health")),
	)

	p, n, err := resolveRequest(tr, "Users/List")
	require.NoError(t, err)
	assert.Equal(t, tree.Path{0, 0}, p)
	assert.Equal(t, "/users", n.Payload.URL)

	p, _, err = resolveRequest(tr, "1")
	require.NoError(t, err)
	assert.Equal(t, tree.Path{1}, p)
}

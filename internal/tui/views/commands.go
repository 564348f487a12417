package views

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/editor"
	"github.com/artpar/postdeck/internal/postman"
	"github.com/artpar/postdeck/internal/tree"
)

// PostmanAPI is the part of the Postman client the browser uses.
type PostmanAPI interface {
	Load(ctx context.Context, workspaceID string) (*postman.Snapshot, error)
	LoadWorkspace(ctx context.Context, workspaceID string) (*postman.Snapshot, error)
	GetCollection(ctx context.Context, uid string) (*postman.Collection, error)
	GetEnvironment(ctx context.Context, uid string) (*postman.Environment, error)
	UpdateEnvironment(ctx context.Context, uid string, env *postman.Environment) error
	SaveEdit(ctx context.Context, uid string, col *postman.Collection, p tree.Path, edit core.Edit) (*postman.Collection, error)
	CreateRequest(ctx context.Context, uid string, col *postman.Collection, target tree.Path, req core.Request) (*postman.Collection, tree.Path, error)
}

// Executor sends a request.
type Executor interface {
	Execute(ctx context.Context, req core.Request) (*core.Response, error)
}

type snapshotLoadedMsg struct {
	snap    *postman.Snapshot
	initial bool
	err     error
}

type collectionLoadedMsg struct {
	uid     string
	name    string
	col     *postman.Collection
	restore tree.Path
	err     error
}

type environmentLoadedMsg struct {
	uid string
	env *postman.Environment
	err error
}

type responseMsg struct {
	resp *core.Response
	err  error
}

type editorFinishedMsg struct {
	path    tree.Path
	session *editor.Session
	err     error
}

// SavedMsg reports a local edit written to Postman.
type SavedMsg struct {
	Path       tree.Path
	Collection *postman.Collection
}

// SaveFailedMsg reports a save that did not complete. Canceled is set when
// the user aborted it.
type SaveFailedMsg struct {
	Path     tree.Path
	Err      error
	Canceled bool
}

type requestCreatedMsg struct {
	name string
	col  *postman.Collection
	at   tree.Path
	err  error
}

type variablesSavedMsg struct {
	env *postman.Environment
	err error
}

type editsChangedMsg struct{}

type clearNotificationMsg struct{}

// NotificationTimeout is how long a copy notification stays up.
const NotificationTimeout = 2 * time.Second

func loadSnapshot(ctx context.Context, api PostmanAPI, workspaceID string, initial bool) tea.Cmd {
	return func() tea.Msg {
		var snap *postman.Snapshot
		var err error
		if initial {
			snap, err = api.Load(ctx, workspaceID)
		} else {
			snap, err = api.LoadWorkspace(ctx, workspaceID)
		}
		return snapshotLoadedMsg{snap: snap, initial: initial, err: err}
	}
}

func loadCollection(ctx context.Context, api PostmanAPI, uid, name string, restore tree.Path) tea.Cmd {
	return func() tea.Msg {
		col, err := api.GetCollection(ctx, uid)
		return collectionLoadedMsg{uid: uid, name: name, col: col, restore: restore, err: err}
	}
}

func loadEnvironment(ctx context.Context, api PostmanAPI, uid string) tea.Cmd {
	return func() tea.Msg {
		env, err := api.GetEnvironment(ctx, uid)
		return environmentLoadedMsg{uid: uid, env: env, err: err}
	}
}

func execute(ctx context.Context, exec Executor, req core.Request) tea.Cmd {
	return func() tea.Msg {
		resp, err := exec.Execute(ctx, req)
		return responseMsg{resp: resp, err: err}
	}
}

func saveEdit(ctx context.Context, api PostmanAPI, uid string, col *postman.Collection, p tree.Path, edit core.Edit) tea.Cmd {
	return func() tea.Msg {
		fresh, err := api.SaveEdit(ctx, uid, col, p, edit)
		if err != nil {
			return SaveFailedMsg{Path: p, Err: err, Canceled: errors.Is(err, context.Canceled)}
		}
		return SavedMsg{Path: p, Collection: fresh}
	}
}

func createRequest(ctx context.Context, api PostmanAPI, uid string, col *postman.Collection, target tree.Path, req core.Request) tea.Cmd {
	return func() tea.Msg {
		fresh, at, err := api.CreateRequest(ctx, uid, col, target, req)
		return requestCreatedMsg{name: req.Name, col: fresh, at: at, err: err}
	}
}

func saveVariables(ctx context.Context, api PostmanAPI, uid string, env *postman.Environment) tea.Cmd {
	return func() tea.Msg {
		err := api.UpdateEnvironment(ctx, uid, env)
		return variablesSavedMsg{env: env, err: err}
	}
}

// waitForEdits blocks until the edits file changes on disk.
func waitForEdits(changed <-chan struct{}) tea.Cmd {
	if changed == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changed; !ok {
			return nil
		}
		return editsChangedMsg{}
	}
}

func clearNotificationAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNotificationMsg{}
	})
}

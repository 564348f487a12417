package postman

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/artpar/postdeck/internal/logging"
)

// Snapshot is what the browser needs to start: the workspaces, and the
// collections and environments of the selected workspace.
type Snapshot struct {
	Workspaces   []Workspace
	WorkspaceID  string
	Collections  []CollectionInfo
	Environments []EnvironmentInfo
}

// WorkspaceName returns the display name of the selected workspace.
func (s *Snapshot) WorkspaceName() string {
	if s.WorkspaceID == "" {
		return "All Workspaces"
	}
	for _, w := range s.Workspaces {
		if w.ID == s.WorkspaceID {
			return w.Name
		}
	}
	return "Unknown"
}

// Load fetches workspaces, collections and environments in parallel.
// Only the collection list is required; the other two are logged and left
// empty on failure. A workspaceID that is not in the workspace list is
// dropped and the lists are fetched again unfiltered.
func (c *Client) Load(ctx context.Context, workspaceID string) (*Snapshot, error) {
	snap, err := c.load(ctx, workspaceID, true)
	if err != nil {
		return nil, err
	}
	if workspaceID != "" && snap.Workspaces != nil && !hasWorkspace(snap.Workspaces, workspaceID) {
		logging.Warn("saved workspace not found", logging.String("workspace", workspaceID))
		workspaces := snap.Workspaces
		if snap, err = c.load(ctx, "", false); err != nil {
			return nil, err
		}
		snap.Workspaces = workspaces
	}
	return snap, nil
}

// LoadWorkspace fetches the collections and environments of one workspace,
// or of all of them when workspaceID is empty.
func (c *Client) LoadWorkspace(ctx context.Context, workspaceID string) (*Snapshot, error) {
	return c.load(ctx, workspaceID, false)
}

func (c *Client) load(ctx context.Context, workspaceID string, withWorkspaces bool) (*Snapshot, error) {
	snap := &Snapshot{WorkspaceID: workspaceID}

	g, gctx := errgroup.WithContext(ctx)
	if withWorkspaces {
		g.Go(func() error {
			ws, err := c.ListWorkspaces(gctx)
			if err != nil {
				logging.LogError("load_workspaces", err)
				return nil
			}
			snap.Workspaces = ws
			return nil
		})
	}
	g.Go(func() error {
		cols, err := c.ListCollections(gctx, workspaceID)
		if err != nil {
			return err
		}
		snap.Collections = cols
		return nil
	})
	g.Go(func() error {
		envs, err := c.ListEnvironments(gctx, workspaceID)
		if err != nil {
			logging.LogError("load_environments", err)
			return nil
		}
		snap.Environments = envs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	return snap, nil
}

func hasWorkspace(ws []Workspace, id string) bool {
	for _, w := range ws {
		if w.ID == id {
			return true
		}
	}
	return false
}

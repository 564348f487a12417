package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/postman"
	"github.com/artpar/postdeck/internal/tree"
)

// findCollection matches ref against collection uids, then names
// (case-insensitively).
func findCollection(ctx context.Context, api *postman.Client, workspaceID, ref string) (postman.CollectionInfo, error) {
	cols, err := api.ListCollections(ctx, workspaceID)
	if err != nil {
		return postman.CollectionInfo{}, fmt.Errorf("failed to list collections: %w", err)
	}
	var byName []postman.CollectionInfo
	for _, c := range cols {
		if c.UID == ref {
			return c, nil
		}
		if strings.EqualFold(c.Name, ref) {
			byName = append(byName, c)
		}
	}
	switch len(byName) {
	case 0:
		return postman.CollectionInfo{}, fmt.Errorf("collection %q not found", ref)
	case 1:
		return byName[0], nil
	}
	return postman.CollectionInfo{}, fmt.Errorf("collection name %q is ambiguous; use its uid", ref)
}

// findEnvironment matches ref against environment uids, then names.
func findEnvironment(ctx context.Context, api *postman.Client, workspaceID, ref string) (postman.EnvironmentInfo, error) {
	envs, err := api.ListEnvironments(ctx, workspaceID)
	if err != nil {
		return postman.EnvironmentInfo{}, fmt.Errorf("failed to list environments: %w", err)
	}
	for _, e := range envs {
		if e.UID == ref {
			return e, nil
		}
	}
	for _, e := range envs {
		if strings.EqualFold(e.Name, ref) {
			return e, nil
		}
	}
	return postman.EnvironmentInfo{}, fmt.Errorf("environment %q not found", ref)
}

// resolveRequest finds a request by index path ("0/2") or by name path
// ("Users/List users").
func resolveRequest(t tree.Tree[core.Request], ref string) (tree.Path, *tree.Node[core.Request], error) {
	p, ok := tree.ParsePath(ref)
	if !ok {
		p, ok = pathByNames(t, strings.Split(ref, "/"))
	}
	if !ok {
		return nil, nil, fmt.Errorf("request %q not found", ref)
	}
	n, ok := tree.Resolve(t, p)
	if !ok {
		return nil, nil, fmt.Errorf("request %q not found", ref)
	}
	if n.IsFolder() {
		return nil, nil, fmt.Errorf("%q is a folder, not a request", n.Name)
	}
	return p, n, nil
}

func pathByNames(t tree.Tree[core.Request], names []string) (tree.Path, bool) {
	level := t.Nodes
	p := tree.Path{}
	for depth, name := range names {
		idx := -1
		for i, n := range level {
			if n.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, false
		}
		p = p.Child(idx)
		if depth < len(names)-1 {
			if !level[idx].IsFolder() {
				return nil, false
			}
			level = level[idx].Children
		}
	}
	return p, len(p) > 0
}

package postman

import (
	"context"
	"fmt"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/tree"
)

// SaveEdit writes a local edit of the request at p back to Postman and
// returns the collection as re-fetched afterwards. Requests with an id go
// through the single-request endpoint; others replace the whole collection.
func (c *Client) SaveEdit(ctx context.Context, uid string, col *Collection, p tree.Path, edit core.Edit) (*Collection, error) {
	node, ok := tree.Resolve(ItemTree(col.Item), p)
	if !ok {
		return nil, fmt.Errorf("request %s: %w", p, ErrNotFound)
	}
	if node.IsFolder() {
		return nil, fmt.Errorf("path %s is a folder, not a request", p)
	}

	if id := node.Payload.ID; id != "" {
		if err := c.UpdateRequest(ctx, uid, id, EditedItem(node.Payload, edit)); err != nil {
			return nil, err
		}
	} else {
		items, err := ApplyEdit(col.Item, p, edit)
		if err != nil {
			return nil, err
		}
		updated := *col
		updated.Item = items
		if err := c.UpdateCollection(ctx, uid, &updated); err != nil {
			return nil, err
		}
	}
	return c.GetCollection(ctx, uid)
}

// CreateRequest appends req to the folder at target and returns the
// re-fetched collection and the path the request landed at.
func (c *Client) CreateRequest(ctx context.Context, uid string, col *Collection, target tree.Path, req core.Request) (*Collection, tree.Path, error) {
	items, at := InsertItem(col.Item, target, NewRequestItem(req))
	updated := *col
	updated.Item = items
	if err := c.UpdateCollection(ctx, uid, &updated); err != nil {
		return nil, nil, err
	}
	fresh, err := c.GetCollection(ctx, uid)
	if err != nil {
		return nil, nil, fmt.Errorf("request created but failed to refresh: %w", err)
	}
	return fresh, at, nil
}

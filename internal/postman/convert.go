package postman

import (
	"fmt"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/tree"
)

// ToTree converts collection items into the request tree shown by the
// browser. Paths in the result index the same items.
func ToTree(items []Item) tree.Tree[core.Request] {
	return tree.New(toNodes(items)...)
}

func toNodes(items []Item) []*tree.Node[core.Request] {
	nodes := make([]*tree.Node[core.Request], 0, len(items))
	for _, it := range items {
		if it.IsFolder() {
			nodes = append(nodes, tree.NewFolder(it.Name, toNodes(it.Item)...))
			continue
		}
		nodes = append(nodes, tree.NewLeaf(it.Name, RequestOf(it)))
	}
	return nodes
}

// RequestOf returns the core request held by a request item.
func RequestOf(it Item) core.Request {
	req := core.Request{
		ID:   it.ID,
		Name: it.Name,
	}
	if it.Request == nil {
		return req
	}
	r := it.Request
	req.Method = core.NormalizeMethod(r.Method)
	req.URL = r.URL.String()
	req.Description = DescriptionText(r.Description)
	for _, h := range r.Header {
		req.Headers = append(req.Headers, core.Header{
			Key:      h.Key,
			Value:    h.Value,
			Disabled: bool(h.Disabled),
		})
	}
	if r.Body != nil {
		req.Body = r.Body.Raw
		req.BodyMode = r.Body.Mode
	}
	return req
}

// ItemTree lifts items into a tree whose nodes carry the items themselves,
// so tree operations can be applied and the result written back with
// FromTree. Folder payloads hold the folder without its children.
func ItemTree(items []Item) tree.Tree[Item] {
	return tree.New(itemNodes(items)...)
}

func itemNodes(items []Item) []*tree.Node[Item] {
	nodes := make([]*tree.Node[Item], 0, len(items))
	for _, it := range items {
		if it.IsFolder() {
			n := tree.NewFolder(it.Name, itemNodes(it.Item)...)
			n.Payload = it
			n.Payload.Item = nil
			nodes = append(nodes, n)
			continue
		}
		nodes = append(nodes, tree.NewLeaf(it.Name, it))
	}
	return nodes
}

// FromTree is the inverse of ItemTree.
func FromTree(t tree.Tree[Item]) []Item {
	return fromNodes(t.Nodes)
}

func fromNodes(nodes []*tree.Node[Item]) []Item {
	items := make([]Item, 0, len(nodes))
	for _, n := range nodes {
		it := n.Payload
		it.Name = n.Name
		if n.IsFolder() {
			it.Request = nil
			it.Item = fromNodes(n.Children)
		}
		items = append(items, it)
	}
	return items
}

// NewRequestItem builds an unsynced request item. An empty URL is sent as
// the empty string.
func NewRequestItem(req core.Request) Item {
	return Item{
		Name:    req.Name,
		Request: requestFrom(req, nil),
	}
}

// InsertItem returns a copy of items with it appended to the folder at
// target, falling back like tree.Insert, and the path it landed at.
func InsertItem(items []Item, target tree.Path, it Item) ([]Item, tree.Path) {
	t := ItemTree(items)
	at := tree.Insert(&t, target, tree.NewLeaf(it.Name, it))
	return FromTree(t), at
}

// ApplyEdit returns a copy of items with the edit written into the request
// at p. Headers, auth and saved responses are kept.
func ApplyEdit(items []Item, p tree.Path, edit core.Edit) ([]Item, error) {
	t := ItemTree(items)
	node, ok := tree.Resolve(t, p)
	if !ok {
		return nil, fmt.Errorf("request %s: %w", p, ErrNotFound)
	}
	if node.IsFolder() {
		return nil, fmt.Errorf("path %s is a folder, not a request", p)
	}
	updated := EditedItem(node.Payload, edit)
	node.Payload = updated
	node.Name = updated.Name
	return FromTree(t), nil
}

// EditedItem returns it with the edit applied.
func EditedItem(it Item, edit core.Edit) Item {
	merged := edit.Apply(RequestOf(it))
	it.Name = merged.Name
	it.Request = requestFrom(merged, it.Request)
	return it
}

// requestFrom builds the wire request for req, keeping what base has that
// core.Request does not model. A URL equal to the base text keeps its object
// form.
func requestFrom(req core.Request, base *Request) *Request {
	out := &Request{}
	if base != nil {
		*out = *base
	}
	out.Method = core.NormalizeMethod(req.Method)
	if base == nil || base.URL.String() != req.URL {
		out.URL = NewURL(req.URL)
	}
	if base == nil {
		out.Header = make([]Header, 0, len(req.Headers))
		for _, h := range req.Headers {
			out.Header = append(out.Header, Header{Key: h.Key, Value: h.Value, Disabled: Flag(h.Disabled)})
		}
	}
	if out.Header == nil {
		out.Header = []Header{}
	}
	switch {
	case req.Body == "":
		out.Body = nil
	case out.Body != nil && out.Body.Raw == req.Body:
	default:
		out.Body = &Body{Mode: "raw", Raw: req.Body}
	}
	return out
}

// Variables converts wire variables to core variables.
func Variables(vs []Variable) []core.Variable {
	out := make([]core.Variable, 0, len(vs))
	for _, v := range vs {
		out = append(out, core.Variable{Key: v.Key, Value: v.Value, Enabled: v.Enabled})
	}
	return out
}

// WireVariables converts core variables back, keeping the type of variables
// that already existed in base.
func WireVariables(vs []core.Variable, base []Variable) []Variable {
	types := make(map[string]string, len(base))
	for _, b := range base {
		types[b.Key] = b.Type
	}
	out := make([]Variable, 0, len(vs))
	for _, v := range vs {
		out = append(out, Variable{Key: v.Key, Value: v.Value, Type: types[v.Key], Enabled: v.Enabled})
	}
	return out
}

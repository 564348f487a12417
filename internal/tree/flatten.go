package tree

// FavoritesName is the label of the synthetic favorites folder.
const FavoritesName = "Favorites"

// Location identifies a selectable row: a real node Path, or the synthetic
// favorites folder which has no Path at all.
type Location struct {
	path      Path
	favorites bool
}

// At returns the Location of a real node.
func At(p Path) Location {
	return Location{path: p.Clone()}
}

// FavoritesRoot returns the Location of the synthetic favorites folder.
func FavoritesRoot() Location {
	return Location{favorites: true}
}

// IsFavoritesRoot reports whether l is the synthetic favorites folder.
func (l Location) IsFavoritesRoot() bool {
	return l.favorites
}

// Path returns the real Path of l. It reports false for the favorites root.
func (l Location) Path() (Path, bool) {
	if l.favorites {
		return nil, false
	}
	return l.path.Clone(), true
}

// Equal compares two locations.
func (l Location) Equal(o Location) bool {
	if l.favorites || o.favorites {
		return l.favorites == o.favorites
	}
	return l.path.Equal(o.path)
}

// String implements fmt.Stringer.
func (l Location) String() string {
	if l.favorites {
		return "<favorites>"
	}
	return l.path.String()
}

// FlatRow is one line of the projection.
type FlatRow[T any] struct {
	Name     string
	Depth    int
	IsFolder bool
	Expanded bool
	// Payload is the effective payload of a leaf (edit overlay first), nil
	// for folders.
	Payload  *T
	Location Location
	// Favorite marks rows whose node is in the favorites overlay.
	Favorite bool
	// Edited marks leaves whose payload comes from the edit overlay.
	Edited bool
}

// FlattenInput is everything a projection depends on.
type FlattenInput[T any] struct {
	Tree     Tree[T]
	Expanded ExpandedSet
	// Favorites holds the favorited paths of the current collection.
	Favorites PathSet
	// Edit returns the local replacement for the leaf at a path, if any.
	Edit func(Path) (T, bool)
	// FavoritesExpanded is the open state of the synthetic favorites folder.
	FavoritesExpanded bool
}

// Flatten projects the tree into display rows: the synthetic favorites folder
// first (when the favorites set is non-empty), then a pre-order walk that only
// descends into folders present in Expanded. Only favorited leaves are listed
// under the favorites folder. Rows are rebuilt from scratch on every call.
func Flatten[T any](in FlattenInput[T]) []FlatRow[T] {
	var rows []FlatRow[T]

	if in.Favorites.Len() > 0 {
		rows = append(rows, FlatRow[T]{
			Name:     FavoritesName,
			Depth:    0,
			IsFolder: true,
			Expanded: in.FavoritesExpanded,
			Location: FavoritesRoot(),
		})
		if in.FavoritesExpanded {
			Walk(in.Tree, func(p Path, n *Node[T]) bool {
				if !n.IsFolder() && in.Favorites.Has(p) {
					rows = append(rows, in.row(p, n, 1))
				}
				return true
			})
		}
	}

	Walk(in.Tree, func(p Path, n *Node[T]) bool {
		rows = append(rows, in.row(p, n, len(p)-1))
		return !n.IsFolder() || in.Expanded.Has(p)
	})
	return rows
}

func (in FlattenInput[T]) row(p Path, n *Node[T], depth int) FlatRow[T] {
	row := FlatRow[T]{
		Name:     n.Name,
		Depth:    depth,
		IsFolder: n.IsFolder(),
		Location: At(p),
		Favorite: in.Favorites.Has(p),
	}
	if row.IsFolder {
		row.Expanded = in.Expanded.Has(p)
		return row
	}
	payload, edited := EffectivePayload(n, p, in.Edit)
	row.Payload = &payload
	row.Edited = edited
	return row
}

// EffectivePayload returns the payload of leaf n at p, preferring the edit
// overlay. The second result reports whether the overlay was used.
func EffectivePayload[T any](n *Node[T], p Path, edit func(Path) (T, bool)) (T, bool) {
	if edit != nil {
		if v, ok := edit(p); ok {
			return v, true
		}
	}
	return n.Payload, false
}

// IndexOf returns the index of the first row at loc, or -1.
func IndexOf[T any](rows []FlatRow[T], loc Location) int {
	for i, r := range rows {
		if r.Location.Equal(loc) {
			return i
		}
	}
	return -1
}

// IndexOfPath returns the index of the row for p in the regular tree section,
// skipping rows inside the favorites folder, or -1.
func IndexOfPath[T any](rows []FlatRow[T], p Path) int {
	inFavorites := false
	for i, r := range rows {
		if r.Location.IsFavoritesRoot() {
			inFavorites = r.Expanded
			continue
		}
		if inFavorites && r.Depth == 1 {
			continue
		}
		inFavorites = false
		if rp, ok := r.Location.Path(); ok && rp.Equal(p) {
			return i
		}
	}
	return -1
}

// Clamp bounds index to [0, n-1]; it returns 0 for an empty list.
func Clamp(index, n int) int {
	if n == 0 || index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}

// VisibleLeafPaths returns the Paths of the leaf rows reachable through
// expanded folders, ignoring the favorites section.
func VisibleLeafPaths[T any](rows []FlatRow[T]) []Path {
	var out []Path
	inFavorites := false
	for _, r := range rows {
		if r.Location.IsFavoritesRoot() {
			inFavorites = r.Expanded
			continue
		}
		if inFavorites && r.Depth == 1 {
			continue
		}
		inFavorites = false
		if !r.IsFolder {
			p, _ := r.Location.Path()
			out = append(out, p)
		}
	}
	return out
}

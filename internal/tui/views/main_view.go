package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/artpar/postdeck/internal/config"
	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/editor"
	"github.com/artpar/postdeck/internal/exporter"
	"github.com/artpar/postdeck/internal/favorites"
	"github.com/artpar/postdeck/internal/interpolate"
	"github.com/artpar/postdeck/internal/logging"
	"github.com/artpar/postdeck/internal/overlay"
	"github.com/artpar/postdeck/internal/postman"
	"github.com/artpar/postdeck/internal/session"
	"github.com/artpar/postdeck/internal/tree"
	"github.com/artpar/postdeck/internal/tui"
	"github.com/artpar/postdeck/internal/tui/components"
	"github.com/artpar/postdeck/internal/watcher"
)

// Pane identifies one of the four panes.
type Pane int

const (
	PaneCollections Pane = iota
	PaneRequests
	PanePreview
	PaneResponse
)

// mode is what currently owns the keyboard.
type mode int

const (
	modeNormal mode = iota
	modeConfirmExecute
	modeSaving
	modeEnvironments
	modeVariables
	modeWorkspaces
	modeNewRequest
	modeHelp
)

// Deps are the services the browser talks to. Favorites, Edits and Watcher
// may be nil.
type Deps struct {
	Postman   PostmanAPI
	Executor  Executor
	Favorites favorites.Store
	Edits     overlay.EditStore
	Watcher   *watcher.Watcher
	Config    *config.Config
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

// MainView is the four-pane browser.
type MainView struct {
	deps Deps
	ctx  context.Context

	width   int
	height  int
	focused Pane
	mode    mode

	sess        *session.Session
	collections *session.Collections

	collectionsPane *components.CollectionsPane
	requestsPane    *components.RequestsPane
	preview         *components.PreviewPane
	response        *components.ResponsePane

	workspaces   []postman.Workspace
	workspaceID  string
	environments []postman.EnvironmentInfo
	collection   *postman.Collection
	environment  *postman.Environment
	envUID       string
	engine       *interpolate.Engine

	listPopup  *components.ListPopup
	varsPopup  *components.VariablesPopup
	dialog     *components.NewRequestDialog
	dialogDest tree.Path
	pending    *core.Request

	loading      bool
	spinner      spinner.Model
	help         help.Model
	status       string
	notification string
}

// NewMainView creates the browser. Overlays are read from the stores up
// front; a failing store is logged and starts empty.
func NewMainView(ctx context.Context, deps Deps) *MainView {
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	if deps.Config == nil {
		deps.Config = &config.Config{}
	}

	favs, edits := loadOverlays(ctx, deps)
	var opts []session.Option
	if deps.Favorites != nil {
		opts = append(opts, session.WithFavoriteStore(deps.Favorites))
	}
	if deps.Edits != nil {
		opts = append(opts, session.WithEditStore(deps.Edits))
	}
	sess := session.New(favs, edits, opts...)

	collections := session.NewCollections()
	if deps.Favorites != nil {
		uids, err := deps.Favorites.FavoriteCollections(ctx)
		if err != nil {
			logging.LogError("load_favorite_collections", err)
		}
		collections.SetFavorites(uids)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(tui.ColorAccent)

	v := &MainView{
		deps:            deps,
		ctx:             ctx,
		sess:            sess,
		collections:     collections,
		collectionsPane: components.NewCollectionsPane(collections),
		requestsPane:    components.NewRequestsPane(sess),
		preview:         components.NewPreviewPane(),
		response:        components.NewResponsePane(),
		workspaceID:     deps.Config.LastState.WorkspaceID,
		envUID:          deps.Config.LastState.EnvironmentUID,
		engine:          interpolate.NewEngine(),
		spinner:         sp,
		help:            help.New(),
		loading:         true,
		status:          "Loading...",
	}
	v.focusPane(PaneCollections)
	return v
}

func loadOverlays(ctx context.Context, deps Deps) (*overlay.Favorites, *overlay.Edits[core.Edit]) {
	favs := overlay.NewFavorites()
	if deps.Favorites != nil {
		loaded, err := overlay.LoadFavorites(ctx, deps.Favorites)
		if err != nil {
			logging.LogError("load_favorites", err)
		} else {
			favs = loaded
		}
	}
	edits := overlay.NewEdits[core.Edit]()
	if deps.Edits != nil {
		loaded, err := overlay.LoadEdits(deps.Edits)
		if err != nil {
			logging.LogError("load_local_edits", err)
		} else {
			edits = loaded
		}
	}
	return favs, edits
}

// Init starts the initial load and the edits watcher.
func (v *MainView) Init() tea.Cmd {
	return tea.Batch(
		loadSnapshot(v.ctx, v.deps.Postman, v.workspaceID, true),
		v.spinner.Tick,
		v.watchEdits(),
	)
}

func (v *MainView) watchEdits() tea.Cmd {
	if v.deps.Watcher == nil {
		return nil
	}
	return waitForEdits(v.deps.Watcher.Changed())
}

// Session exposes the request browser state.
func (v *MainView) Session() *session.Session {
	return v.sess
}

// Collections exposes the collections pane state.
func (v *MainView) Collections() *session.Collections {
	return v.collections
}

// FocusedPane returns the pane with keyboard focus.
func (v *MainView) FocusedPane() Pane {
	return v.focused
}

// Status is the status bar message.
func (v *MainView) Status() string {
	return v.status
}

// Notification is the transient copy notification.
func (v *MainView) Notification() string {
	return v.notification
}

// Loading reports a network operation in flight.
func (v *MainView) Loading() bool {
	return v.loading
}

// Environment returns the active environment, nil for none.
func (v *MainView) Environment() *postman.Environment {
	return v.environment
}

// WorkspaceID is the selected workspace, empty for all.
func (v *MainView) WorkspaceID() string {
	return v.workspaceID
}

// Update handles messages.
func (v *MainView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	cmd := v.update(msg)
	v.syncPreview()
	return v, cmd
}

func (v *MainView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v.updatePaneSizes()
		return nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case spinner.TickMsg:
		if !v.loading && !v.sess.Saving() {
			return nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return cmd

	case snapshotLoadedMsg:
		return v.handleSnapshot(msg)

	case collectionLoadedMsg:
		return v.handleCollection(msg)

	case environmentLoadedMsg:
		v.loading = false
		if msg.err != nil {
			logging.LogError("load_environment", msg.err)
			v.status = "Failed to load environment"
			return nil
		}
		v.environment, v.envUID = msg.env, msg.uid
		v.rebuildEngine()
		v.deps.Config.SetEnvironment(msg.uid)
		v.saveConfig()
		v.status = "Environment: " + msg.env.Name
		return nil

	case components.CollectionChosenMsg:
		v.loading = true
		v.status = fmt.Sprintf("Loading %s...", msg.Name)
		return tea.Batch(loadCollection(v.ctx, v.deps.Postman, msg.UID, msg.Name, nil), v.spinner.Tick)

	case components.RequestChosenMsg:
		v.saveSelection()
		v.focusPane(PanePreview)
		return nil

	case responseMsg:
		v.loading = false
		if msg.err != nil {
			logging.LogError("execute_request", msg.err)
			v.response.SetError(msg.err)
			v.status = "Request failed"
		} else {
			v.response.SetResponse(msg.resp)
			v.status = "Request completed"
		}
		v.updatePaneSizes()
		return nil

	case editorFinishedMsg:
		return v.handleEditorFinished(msg)

	case SavedMsg:
		return v.handleSaved(msg)

	case SaveFailedMsg:
		if err := v.sess.FinishSave(msg.Path, msg.Err); errors.Is(err, session.ErrSaveAborted) {
			return nil
		}
		v.mode = modeNormal
		if msg.Canceled {
			return nil
		}
		logging.LogError("save_edit", msg.Err)
		v.status = "Failed to save to Postman: " + msg.Err.Error()
		return nil

	case requestCreatedMsg:
		v.loading = false
		if msg.err != nil {
			logging.LogError("create_request", msg.err)
			v.status = "Failed to create request: " + msg.err.Error()
			return nil
		}
		v.collection = msg.col
		v.sess.Refresh(postman.ToTree(msg.col.Item))
		v.sess.ExpandTo(msg.at)
		v.status = fmt.Sprintf("Created request '%s'", msg.name)
		return nil

	case variablesSavedMsg:
		v.loading = false
		if msg.err != nil {
			logging.LogError("save_variables", msg.err)
			v.status = "Failed to save variables"
			return nil
		}
		v.environment = msg.env
		v.rebuildEngine()
		if v.varsPopup != nil {
			v.varsPopup.MarkSaved()
		}
		v.status = "Variables saved successfully"
		return nil

	case editsChangedMsg:
		favs, edits := loadOverlays(v.ctx, v.deps)
		v.sess.ReplaceOverlays(favs, edits)
		logging.Debug("reloaded local overlays", logging.Int("edits", edits.Len()))
		return v.watchEdits()

	case components.CopyMsg:
		return v.handleCopy(msg)

	case clearNotificationMsg:
		v.notification = ""
		return nil
	}
	return nil
}

func (v *MainView) handleSnapshot(msg snapshotLoadedMsg) tea.Cmd {
	v.loading = false
	if msg.err != nil {
		logging.LogError("load_collections", msg.err)
		v.status = "Failed to load collections: " + msg.err.Error()
		return nil
	}
	snap := msg.snap
	if msg.initial {
		v.workspaces = snap.Workspaces
	}
	v.workspaceID = snap.WorkspaceID
	v.environments = snap.Environments

	items := make([]session.CollectionInfo, len(snap.Collections))
	for i, c := range snap.Collections {
		items[i] = session.CollectionInfo{UID: c.UID, Name: c.Name}
	}
	v.collections.SetItems(items)

	if !msg.initial {
		v.status = fmt.Sprintf("Workspace: %s (%d collections)", v.workspaceName(), len(items))
		return nil
	}
	v.status = fmt.Sprintf("Loaded %d collections", len(items))
	if v.deps.Config.LastState.WorkspaceID != v.workspaceID {
		v.deps.Config.SetWorkspace(v.workspaceID)
		v.saveConfig()
	}
	return v.restoreLastState()
}

// restoreLastState reopens the collection, request and environment of the
// previous run when they still exist.
func (v *MainView) restoreLastState() tea.Cmd {
	last := v.deps.Config.LastState
	var cmds []tea.Cmd
	if last.CollectionUID != "" && v.collections.SelectUID(last.CollectionUID) {
		name := ""
		if row, ok := v.collections.Selected(); ok {
			name = row.Name
		}
		restore, _ := tree.ParsePath(last.RequestPath)
		v.loading = true
		cmds = append(cmds, loadCollection(v.ctx, v.deps.Postman, last.CollectionUID, name, restore))
	}
	if last.EnvironmentUID != "" {
		if v.hasEnvironment(last.EnvironmentUID) {
			v.loading = true
			cmds = append(cmds, loadEnvironment(v.ctx, v.deps.Postman, last.EnvironmentUID))
		} else {
			v.envUID = ""
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(append(cmds, v.spinner.Tick)...)
}

func (v *MainView) hasEnvironment(uid string) bool {
	for _, e := range v.environments {
		if e.UID == uid {
			return true
		}
	}
	return false
}

func (v *MainView) handleCollection(msg collectionLoadedMsg) tea.Cmd {
	v.loading = false
	if msg.err != nil {
		logging.LogError("load_collection", msg.err)
		v.status = "Failed to load collection"
		return nil
	}
	v.collection = msg.col
	v.sess.Load(msg.uid, msg.name, postman.ToTree(msg.col.Item))
	v.rebuildEngine()
	if len(msg.restore) > 0 {
		v.sess.ExpandTo(msg.restore)
	}
	v.focusPane(PaneRequests)
	v.saveSelection()
	v.status = "Loaded " + msg.name
	return nil
}

func (v *MainView) handleEditorFinished(msg editorFinishedMsg) tea.Cmd {
	edit, err := msg.session.Finish(msg.err)
	switch {
	case errors.Is(err, editor.ErrUnchanged):
		v.status = "No changes made"
		return nil
	case err != nil:
		logging.LogError("edit_request", err)
		v.status = "Edit failed: " + err.Error()
		return nil
	}
	if err := v.sess.StoreEdit(msg.path, edit); err != nil {
		logging.LogError("save_local_edit", err)
		v.status = "Failed to store edit: " + err.Error()
		return nil
	}
	v.status = "Changes stored locally. Press S to save to Postman."
	return nil
}

func (v *MainView) handleSaved(msg SavedMsg) tea.Cmd {
	err := v.sess.FinishSave(msg.Path, nil)
	if errors.Is(err, session.ErrSaveAborted) {
		return nil
	}
	v.mode = modeNormal
	switch {
	case err != nil:
		logging.LogError("clear_local_edit", err)
		v.status = "Saved to Postman, but failed to clear local edit"
	default:
		v.status = "Saved to Postman"
	}
	v.collection = msg.Collection
	v.sess.Refresh(postman.ToTree(msg.Collection.Item))
	v.rebuildEngine()
	return nil
}

func (v *MainView) handleCopy(msg components.CopyMsg) tea.Cmd {
	if err := v.deps.Clipboard(msg.Content); err != nil {
		logging.LogError("copy", err)
		v.notification = "Copy failed"
	} else {
		v.notification = fmt.Sprintf("Copied %s (%s)", msg.What, humanize.Bytes(uint64(len(msg.Content))))
	}
	return clearNotificationAfter(NotificationTimeout)
}

// rebuildEngine resolves collection variables, overridden by the active
// environment.
func (v *MainView) rebuildEngine() {
	var sets [][]core.Variable
	if v.collection != nil {
		sets = append(sets, postman.Variables(v.collection.Variable))
	}
	if v.environment != nil {
		sets = append(sets, postman.Variables(v.environment.Values))
	}
	v.engine = interpolate.NewEngine(interpolate.WithVariables(sets...))
}

func (v *MainView) syncPreview() {
	req, p, edited, ok := v.sess.SelectedRequest()
	if !ok {
		v.preview.Clear()
		return
	}
	resolved, err := v.engine.Interpolate(req.URL)
	if err != nil {
		resolved = req.URL
	}
	v.preview.Show(components.Preview{
		Path:        p,
		Request:     req,
		Edited:      edited,
		ResolvedURL: resolved,
		Unresolved:  v.engine.Unresolved(req),
	})
}

func (v *MainView) saveSelection() {
	uid := v.sess.CollectionID()
	if uid == "" {
		return
	}
	pathKey := ""
	if p, ok := v.sess.SelectedPath(); ok {
		pathKey = p.Key()
	}
	v.deps.Config.SetSelection(uid, pathKey)
	v.saveConfig()
}

func (v *MainView) saveConfig() {
	if err := v.deps.Config.Save(); err != nil {
		logging.LogError("save_config", err)
	}
}

func (v *MainView) workspaceName() string {
	if v.workspaceID == "" {
		return "All Workspaces"
	}
	for _, w := range v.workspaces {
		if w.ID == v.workspaceID {
			return w.Name
		}
	}
	return "Unknown"
}

func (v *MainView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return v.quit()
	}

	switch v.mode {
	case modeHelp:
		if key.Matches(msg, tui.Keys.Cancel, tui.Keys.Help) {
			v.mode = modeNormal
		}
		return nil
	case modeConfirmExecute:
		return v.handleConfirmKey(msg)
	case modeSaving:
		if key.Matches(msg, tui.Keys.Cancel) {
			v.sess.CancelSave()
			v.mode = modeNormal
			v.status = "Save cancelled"
		}
		return nil
	case modeEnvironments:
		return v.handleEnvironmentKey(msg)
	case modeWorkspaces:
		return v.handleWorkspaceKey(msg)
	case modeVariables:
		return v.handleVariablesKey(msg)
	case modeNewRequest:
		return v.handleDialogKey(msg)
	}

	if v.paneSearching() {
		return v.forwardToFocusedPane(msg)
	}

	switch {
	case key.Matches(msg, tui.Keys.Quit):
		return v.quit()
	case key.Matches(msg, tui.Keys.Help):
		v.mode = modeHelp
		return nil
	case key.Matches(msg, tui.Keys.Pane1):
		v.focusPane(PaneCollections)
		return nil
	case key.Matches(msg, tui.Keys.Pane2):
		v.focusPane(PaneRequests)
		return nil
	case key.Matches(msg, tui.Keys.Pane3):
		v.focusPane(PanePreview)
		return nil
	case key.Matches(msg, tui.Keys.Pane4):
		if v.response.HasResponse() {
			v.focusPane(PaneResponse)
		}
		return nil
	case key.Matches(msg, tui.Keys.NextPane):
		v.cycleFocus()
		return nil
	case key.Matches(msg, tui.Keys.Environment):
		v.openEnvironments()
		return nil
	case key.Matches(msg, tui.Keys.Variables):
		v.openVariables()
		return nil
	case key.Matches(msg, tui.Keys.Workspace):
		v.openWorkspaces()
		return nil
	case key.Matches(msg, tui.Keys.Favorite):
		v.toggleFavorite()
		return nil
	}

	if v.focused != PaneCollections {
		switch {
		case key.Matches(msg, tui.Keys.Execute):
			return v.startExecute()
		case key.Matches(msg, tui.Keys.Edit):
			return v.startEdit()
		case key.Matches(msg, tui.Keys.Save):
			return v.startSave()
		case key.Matches(msg, tui.Keys.Add):
			v.openNewRequest()
			return nil
		case key.Matches(msg, tui.Keys.Yank) && v.focused != PaneResponse:
			return v.yankURL()
		case key.Matches(msg, tui.Keys.YankCurl):
			return v.yankCurl()
		}
	}
	return v.forwardToFocusedPane(msg)
}

func (v *MainView) paneSearching() bool {
	switch v.focused {
	case PaneCollections:
		return v.collectionsPane.Searching()
	case PaneRequests:
		return v.requestsPane.Searching()
	case PaneResponse:
		return v.response.Searching()
	}
	return false
}

func (v *MainView) forwardToFocusedPane(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focused {
	case PaneCollections:
		_, cmd = v.collectionsPane.Update(msg)
	case PaneRequests:
		_, cmd = v.requestsPane.Update(msg)
	case PanePreview:
		_, cmd = v.preview.Update(msg)
	case PaneResponse:
		_, cmd = v.response.Update(msg)
	}
	return cmd
}

func (v *MainView) panes() []tui.Component {
	return []tui.Component{v.collectionsPane, v.requestsPane, v.preview, v.response}
}

func (v *MainView) focusPane(pane Pane) {
	for _, p := range v.panes() {
		p.Blur()
	}
	v.focused = pane
	v.panes()[pane].Focus()
}

// cycleFocus moves to the next pane, skipping Response until there is one.
func (v *MainView) cycleFocus() {
	n := 3
	if v.response.HasResponse() {
		n = 4
	}
	v.focusPane(Pane((int(v.focused) + 1) % n))
}

func (v *MainView) quit() tea.Cmd {
	v.sess.CancelSave()
	v.saveSelection()
	return tea.Quit
}

func (v *MainView) startExecute() tea.Cmd {
	req, _, _, ok := v.sess.SelectedRequest()
	if !ok {
		v.status = "Select a request first"
		return nil
	}
	resolved, err := v.engine.InterpolateRequest(req)
	if err != nil {
		v.status = "Failed to resolve variables: " + err.Error()
		return nil
	}
	if core.IsDestructiveMethod(resolved.Method) {
		v.pending = &resolved
		v.mode = modeConfirmExecute
		v.status = fmt.Sprintf("Confirm %s request? (y/n)", resolved.Method)
		return nil
	}
	return v.runRequest(resolved)
}

func (v *MainView) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		req := *v.pending
		v.pending = nil
		v.mode = modeNormal
		return v.runRequest(req)
	case "n", "esc":
		v.pending = nil
		v.mode = modeNormal
		v.status = "Request cancelled"
	}
	return nil
}

func (v *MainView) runRequest(req core.Request) tea.Cmd {
	v.loading = true
	v.response.SetLoading(true)
	v.updatePaneSizes()
	v.status = "Executing request..."
	logging.Debug("executing request", logging.String("method", req.Method), logging.String("url", req.URL))
	return tea.Batch(execute(v.ctx, v.deps.Executor, req), v.spinner.Tick)
}

func (v *MainView) startEdit() tea.Cmd {
	req, p, _, ok := v.sess.SelectedRequest()
	if !ok {
		v.status = "Select a request first"
		return nil
	}
	es, err := editor.Begin(core.EditOf(req))
	if err != nil {
		logging.LogError("edit_request", err)
		v.status = "Edit failed: " + err.Error()
		return nil
	}
	return tea.ExecProcess(es.Command(v.deps.Config.EditorCommand()), func(err error) tea.Msg {
		return editorFinishedMsg{path: p, session: es, err: err}
	})
}

func (v *MainView) startSave() tea.Cmd {
	p, ok := v.sess.SelectedPath()
	if !ok || v.collection == nil {
		v.status = "No unsaved changes"
		return nil
	}
	edit, ok := v.sess.Edits().Get(v.sess.CollectionID(), p)
	if !ok {
		v.status = "No unsaved changes"
		return nil
	}
	ctx := v.sess.BeginSave(v.ctx, p)
	v.mode = modeSaving
	v.status = "Saving changes to Postman..."
	return tea.Batch(saveEdit(ctx, v.deps.Postman, v.sess.CollectionID(), v.collection, p, edit), v.spinner.Tick)
}

func (v *MainView) openNewRequest() {
	if v.collection == nil {
		v.status = "No collection loaded"
		return
	}
	v.dialog = components.NewNewRequestDialog()
	v.dialogDest = v.sess.TargetFolder()
	v.mode = modeNewRequest
	v.status = v.dialog.Status()
}

func (v *MainView) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	switch v.dialog.HandleKey(msg) {
	case components.ResultCancelled:
		v.dialog = nil
		v.mode = modeNormal
		v.status = "Cancelled"
	case components.ResultChosen:
		req := core.NewRequest(v.dialog.Name(), "GET", v.dialog.URL())
		v.dialog = nil
		v.mode = modeNormal
		v.loading = true
		v.status = "Creating request..."
		return tea.Batch(createRequest(v.ctx, v.deps.Postman, v.sess.CollectionID(), v.collection, v.dialogDest, req), v.spinner.Tick)
	default:
		v.status = v.dialog.Status()
	}
	return nil
}

func (v *MainView) toggleFavorite() {
	switch v.focused {
	case PaneCollections:
		uid, ok := v.collections.SelectedUID()
		if !ok {
			return
		}
		on, _ := v.collections.ToggleFavorite()
		if v.deps.Favorites != nil {
			if _, err := v.deps.Favorites.ToggleCollection(v.ctx, uid); err != nil {
				logging.LogError("save_favorites", err)
				v.status = "Failed to save favorites: " + err.Error()
				return
			}
		}
		v.status = favoriteStatus(on)
	case PaneRequests:
		on, err := v.sess.ToggleFavorite(v.ctx)
		switch {
		case errors.Is(err, overlay.ErrFavoritesRoot), errors.Is(err, session.ErrNoCollection):
			return
		case errors.Is(err, session.ErrFavoriteFolder):
			v.status = FavoriteFolderStatus
			return
		case err != nil:
			logging.LogError("save_favorites", err)
			v.status = "Failed to save favorites: " + err.Error()
			return
		}
		v.status = favoriteStatus(on)
	}
}

// FavoriteFolderStatus is shown when a folder row is favorited.
const FavoriteFolderStatus = "Only requests can be favorited"

func favoriteStatus(on bool) string {
	if on {
		return "Added to favorites"
	}
	return "Removed from favorites"
}

func (v *MainView) yankURL() tea.Cmd {
	pv, ok := v.preview.Current()
	if !ok {
		return nil
	}
	url := pv.ResolvedURL
	if url == "" {
		url = pv.Request.URL
	}
	return func() tea.Msg {
		return components.CopyMsg{Content: url, What: "URL"}
	}
}

// yankCurl copies the selected request, variables resolved, as a curl
// command.
func (v *MainView) yankCurl() tea.Cmd {
	req, _, _, ok := v.sess.SelectedRequest()
	if !ok {
		v.status = "Select a request first"
		return nil
	}
	resolved, err := v.engine.InterpolateRequest(req)
	if err != nil {
		resolved = req
	}
	cmd := exporter.Curl(resolved, false)
	return func() tea.Msg {
		return components.CopyMsg{Content: cmd, What: "curl command"}
	}
}

func (v *MainView) openEnvironments() {
	items := []string{"No Environment"}
	selected := 0
	for i, e := range v.environments {
		items = append(items, e.Name)
		if e.UID == v.envUID {
			selected = i + 1
		}
	}
	v.listPopup = components.NewListPopup("Select Environment", items, selected)
	v.mode = modeEnvironments
}

func (v *MainView) handleEnvironmentKey(msg tea.KeyMsg) tea.Cmd {
	switch v.listPopup.HandleKey(msg) {
	case components.ResultCancelled:
		v.mode = modeNormal
	case components.ResultChosen:
		choice := v.listPopup.Cursor()
		v.mode = modeNormal
		if choice == 0 {
			v.environment, v.envUID = nil, ""
			v.rebuildEngine()
			v.deps.Config.SetEnvironment("")
			v.saveConfig()
			v.status = "Environment: None"
			return nil
		}
		env := v.environments[choice-1]
		v.loading = true
		v.status = fmt.Sprintf("Loading %s...", env.Name)
		return tea.Batch(loadEnvironment(v.ctx, v.deps.Postman, env.UID), v.spinner.Tick)
	}
	return nil
}

func (v *MainView) openVariables() {
	if v.environment == nil {
		v.status = "No environment selected"
		return
	}
	v.varsPopup = components.NewVariablesPopup(v.environment.Name, postman.Variables(v.environment.Values))
	v.mode = modeVariables
}

func (v *MainView) handleVariablesKey(msg tea.KeyMsg) tea.Cmd {
	switch v.varsPopup.HandleKey(msg) {
	case components.ResultCancelled:
		if v.varsPopup.Modified() {
			v.status = "Unsaved changes discarded"
		}
		v.varsPopup = nil
		v.mode = modeNormal
	case components.ResultChanged:
		v.status = "Variable updated. Press s to save."
	case components.ResultSave:
		if !v.varsPopup.Modified() {
			v.status = "No changes to save"
			return nil
		}
		updated := *v.environment
		updated.Values = postman.WireVariables(v.varsPopup.Variables(), v.environment.Values)
		v.loading = true
		v.status = "Saving variables..."
		return tea.Batch(saveVariables(v.ctx, v.deps.Postman, v.envUID, &updated), v.spinner.Tick)
	}
	return nil
}

func (v *MainView) openWorkspaces() {
	items := []string{"All Workspaces"}
	selected := 0
	for i, w := range v.workspaces {
		items = append(items, w.Name)
		if w.ID == v.workspaceID {
			selected = i + 1
		}
	}
	v.listPopup = components.NewListPopup("Select Workspace", items, selected)
	v.mode = modeWorkspaces
}

func (v *MainView) handleWorkspaceKey(msg tea.KeyMsg) tea.Cmd {
	switch v.listPopup.HandleKey(msg) {
	case components.ResultCancelled:
		v.mode = modeNormal
	case components.ResultChosen:
		v.mode = modeNormal
		id := ""
		if choice := v.listPopup.Cursor(); choice > 0 {
			id = v.workspaces[choice-1].ID
		}
		if id == v.workspaceID {
			return nil
		}
		return v.switchWorkspace(id)
	}
	return nil
}

// switchWorkspace drops the loaded collection and environment and reloads
// the lists for workspace id.
func (v *MainView) switchWorkspace(id string) tea.Cmd {
	v.workspaceID = id
	v.sess.Unload()
	v.collection = nil
	v.environment, v.envUID = nil, ""
	v.environments = nil
	v.collections.SetItems(nil)
	v.rebuildEngine()
	v.focusPane(PaneCollections)

	cfg := v.deps.Config
	cfg.SetWorkspace(id)
	cfg.SetEnvironment("")
	cfg.SetSelection("", "")
	v.saveConfig()

	v.loading = true
	v.status = "Workspace: " + v.workspaceName()
	return tea.Batch(loadSnapshot(v.ctx, v.deps.Postman, id, false), v.spinner.Tick)
}

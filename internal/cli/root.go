package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/artpar/postdeck/internal/config"
	"github.com/artpar/postdeck/internal/favorites/sqlite"
	"github.com/artpar/postdeck/internal/logging"
	"github.com/artpar/postdeck/internal/postman"
	httpclient "github.com/artpar/postdeck/internal/protocol/http"
	"github.com/artpar/postdeck/internal/storage/filesystem"
	"github.com/artpar/postdeck/internal/tui/views"
	"github.com/artpar/postdeck/internal/watcher"
)

// Options holds the flags shared by every command.
type Options struct {
	ConfigPath string
	DataDir    string
}

func (o *Options) loadConfig() (*config.Config, error) {
	if o.ConfigPath != "" {
		return config.LoadFrom(o.ConfigPath)
	}
	return config.Load()
}

func (o *Options) dataDir() string {
	if o.DataDir != "" {
		return o.DataDir
	}
	return config.DataDir()
}

func newPostmanClient(cfg *config.Config) (*postman.Client, error) {
	key, err := cfg.RequireAPIKey()
	if err != nil {
		return nil, err
	}
	var opts []postman.ClientOption
	if cfg.Postman.BaseURL != "" {
		opts = append(opts, postman.WithBaseURL(cfg.Postman.BaseURL))
	}
	return postman.NewClient(key, opts...)
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "postdeck",
		Short:         "postdeck - a terminal client for Postman collections",
		Long:          "postdeck browses the collections of a Postman workspace, runs their requests and saves local edits back to Postman.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/postdeck/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "directory for favorites, local edits and logs (default $XDG_DATA_HOME/postdeck)")

	cmd.AddCommand(NewConfigureCommand(opts))
	cmd.AddCommand(NewCollectionsCommand(opts))
	cmd.AddCommand(NewSendCommand(opts))

	return cmd
}

// tuiModel wraps the MainView for bubbletea
type tuiModel struct {
	view *views.MainView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.MainView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// runTUI starts the TUI application
func runTUI(ctx context.Context, opts *Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	dataDir := opts.dataDir()
	if err := logging.Init(logging.DefaultConfig(dataDir, cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logging.Sync() }()

	api, err := newPostmanClient(cfg)
	if err != nil {
		return err
	}

	edits, err := filesystem.NewEditStore(dataDir)
	if err != nil {
		return err
	}
	favs, err := sqlite.New(filepath.Join(dataDir, sqlite.FileName))
	if err != nil {
		return err
	}
	defer favs.Close()

	deps := views.Deps{
		Postman:   api,
		Executor:  httpclient.NewClient(httpclient.WithMaxBodySize(DefaultMaxBodySize)),
		Favorites: favs,
		Edits:     edits,
		Config:    cfg,
	}

	w, err := watcher.New(edits.Path(), watcher.WithOnError(func(err error) {
		logging.LogError("watch_edits", err)
	}))
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		logging.LogError("watch_edits", err)
	} else {
		defer w.Stop()
		deps.Watcher = w
	}

	model := tuiModel{
		view: views.NewMainView(ctx, deps),
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logging.LogError("run_tui", err)
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

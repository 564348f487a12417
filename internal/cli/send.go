package cli

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/exporter"
	"github.com/artpar/postdeck/internal/interpolate"
	"github.com/artpar/postdeck/internal/overlay"
	"github.com/artpar/postdeck/internal/postman"
	httpclient "github.com/artpar/postdeck/internal/protocol/http"
	"github.com/artpar/postdeck/internal/storage/filesystem"
)

// DefaultMaxBodySize caps how many response bytes are read, in the TUI and
// by send unless --max-body says otherwise.
const DefaultMaxBodySize int64 = 10 << 20

// SendOptions holds options for the send command.
type SendOptions struct {
	Env       string
	Workspace string
	JSON      bool
	Local     bool
	Yes       bool
	Curl      bool
	Timeout   time.Duration
	MaxBody   int64
}

// sendResult is the --json output of send.
type sendResult struct {
	Method     string        `json:"method"`
	URL        string        `json:"url"`
	Status     int           `json:"status"`
	StatusText string        `json:"status_text"`
	Headers    []core.Header `json:"headers"`
	Body       string        `json:"body"`
	TimingMS   int64         `json:"timing_ms"`
	Size       int64         `json:"size"`
	Unresolved []string      `json:"unresolved,omitempty"`
}

// NewSendCommand creates the send command.
func NewSendCommand(root *Options) *cobra.Command {
	opts := &SendOptions{}

	cmd := &cobra.Command{
		Use:   "send COLLECTION REQUEST",
		Short: "Send a saved request",
		Long: "Send a request from a collection. REQUEST is an index path such as 0/2 " +
			"(see `postdeck collections COLLECTION`) or a name path such as \"Users/List users\".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, root, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", "", "environment name or uid")
	cmd.Flags().StringVarP(&opts.Workspace, "workspace", "w", "", "workspace id (default: last used)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output response as JSON")
	cmd.Flags().BoolVar(&opts.Local, "local", false, "Apply the local edit of the request, if any")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Send POST, PUT, PATCH and DELETE requests without refusing")
	cmd.Flags().BoolVar(&opts.Curl, "curl", false, "Print the resolved request as a curl command instead of sending it")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Request timeout")
	cmd.Flags().Int64Var(&opts.MaxBody, "max-body", DefaultMaxBodySize, "Maximum response bytes to read (0 for no limit)")

	return cmd
}

func runSend(cmd *cobra.Command, root *Options, opts *SendOptions, collectionRef, requestRef string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	api, err := newPostmanClient(cfg)
	if err != nil {
		return err
	}
	workspace := opts.Workspace
	if workspace == "" {
		workspace = cfg.LastState.WorkspaceID
	}

	ctx := cmd.Context()
	info, err := findCollection(ctx, api, workspace, collectionRef)
	if err != nil {
		return err
	}
	col, err := api.GetCollection(ctx, info.UID)
	if err != nil {
		return err
	}
	p, node, err := resolveRequest(postman.ToTree(col.Item), requestRef)
	if err != nil {
		return err
	}
	req := node.Payload

	if opts.Local {
		store, err := filesystem.NewEditStore(root.dataDir())
		if err != nil {
			return err
		}
		edits, err := overlay.LoadEdits(store)
		if err != nil {
			return fmt.Errorf("failed to load local edits: %w", err)
		}
		if edit, ok := edits.Get(info.UID, p); ok {
			req = edit.Apply(req)
		}
	}

	sets := [][]core.Variable{postman.Variables(col.Variable)}
	if opts.Env != "" {
		envInfo, err := findEnvironment(ctx, api, workspace, opts.Env)
		if err != nil {
			return err
		}
		env, err := api.GetEnvironment(ctx, envInfo.UID)
		if err != nil {
			return err
		}
		sets = append(sets, postman.Variables(env.Values))
	}
	engine := interpolate.NewEngine(interpolate.WithVariables(sets...))

	unresolved := engine.Unresolved(req)
	resolved, err := engine.InterpolateRequest(req)
	if err != nil {
		return err
	}
	if strings.TrimSpace(resolved.URL) == "" {
		return fmt.Errorf("request %q has no URL", req.Name)
	}
	if opts.Curl {
		fmt.Fprintln(cmd.OutOrStdout(), exporter.Curl(resolved, true))
		return nil
	}
	if resolved.IsDestructive() && !opts.Yes {
		return fmt.Errorf("refusing to send %s %s without --yes", resolved.Method, resolved.URL)
	}
	if len(unresolved) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: unresolved variables: %s\n", strings.Join(unresolved, ", "))
	}

	client := httpclient.NewClient(
		httpclient.WithTimeout(opts.Timeout),
		httpclient.WithMaxBodySize(opts.MaxBody),
	)
	resp, err := client.Execute(ctx, resolved)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if opts.JSON {
		return outputJSON(cmd, resolved, resp, unresolved)
	}
	return outputHuman(cmd, resolved, resp)
}

func outputJSON(cmd *cobra.Command, req core.Request, resp *core.Response, unresolved []string) error {
	headers := resp.Headers
	if headers == nil {
		headers = []core.Header{}
	}
	return writeJSON(cmd.OutOrStdout(), sendResult{
		Method:     req.Method,
		URL:        req.URL,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Headers:    headers,
		Body:       resp.Body,
		TimingMS:   resp.Duration.Milliseconds(),
		Size:       resp.Size,
		Unresolved: unresolved,
	})
}

func outputHuman(cmd *cobra.Command, req core.Request, resp *core.Response) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s %s\n", req.Method, req.URL)
	fmt.Fprintf(out, "HTTP %s\n", resp.StatusLine())
	fmt.Fprintf(out, "Time: %dms  Size: %s\n", resp.Duration.Milliseconds(), humanize.Bytes(uint64(resp.Size)))
	fmt.Fprintln(out)

	if len(resp.Headers) > 0 {
		fmt.Fprintln(out, "Headers:")
		for _, h := range resp.Headers {
			fmt.Fprintf(out, "  %s: %s\n", h.Key, h.Value)
		}
		fmt.Fprintln(out)
	}

	if resp.Body != "" {
		fmt.Fprintln(out, "Body:")
		fmt.Fprintln(out, resp.Body)
	}

	return nil
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/exporter"
	"github.com/artpar/postdeck/internal/postman"
	"github.com/artpar/postdeck/internal/tree"
)

// CollectionsOptions holds options for the collections command.
type CollectionsOptions struct {
	Workspace string
	JSON      bool
	Curl      bool
}

// treeEntry is one row of `collections <collection> --json`.
type treeEntry struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Folder bool   `json:"folder"`
	Method string `json:"method,omitempty"`
	URL    string `json:"url,omitempty"`
}

// NewCollectionsCommand creates the collections command.
func NewCollectionsCommand(root *Options) *cobra.Command {
	opts := &CollectionsOptions{}

	cmd := &cobra.Command{
		Use:   "collections [COLLECTION]",
		Short: "List collections, or the requests of one collection",
		Long: "Without an argument, list the collections of the workspace. With a collection name or uid, " +
			"print its requests with the paths `postdeck send` accepts.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runCollectionTree(cmd, root, opts, args[0])
			}
			return runCollections(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Workspace, "workspace", "w", "", "workspace id (default: last used)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.Curl, "curl", false, "Print the requests of COLLECTION as a curl script")

	return cmd
}

func (o *CollectionsOptions) workspace(lastUsed string) string {
	if o.Workspace != "" {
		return o.Workspace
	}
	return lastUsed
}

func runCollections(cmd *cobra.Command, root *Options, opts *CollectionsOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	api, err := newPostmanClient(cfg)
	if err != nil {
		return err
	}

	cols, err := api.ListCollections(cmd.Context(), opts.workspace(cfg.LastState.WorkspaceID))
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		if cols == nil {
			cols = []postman.CollectionInfo{}
		}
		return writeJSON(out, cols)
	}
	if len(cols) == 0 {
		fmt.Fprintln(out, "No collections")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UID\tNAME")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t%s\n", c.UID, c.Name)
	}
	return tw.Flush()
}

func runCollectionTree(cmd *cobra.Command, root *Options, opts *CollectionsOptions, ref string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	api, err := newPostmanClient(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	info, err := findCollection(ctx, api, opts.workspace(cfg.LastState.WorkspaceID), ref)
	if err != nil {
		return err
	}
	col, err := api.GetCollection(ctx, info.UID)
	if err != nil {
		return err
	}

	requests := postman.ToTree(col.Item)
	if opts.Curl {
		_, err := io.WriteString(cmd.OutOrStdout(), exporter.CurlScript(col.Info.Name, requests))
		return err
	}

	var entries []treeEntry
	depths := []int{}
	tree.Walk(requests, func(p tree.Path, n *tree.Node[core.Request]) bool {
		e := treeEntry{Path: p.Key(), Name: n.Name, Folder: n.IsFolder()}
		if !n.IsFolder() {
			e.Method, e.URL = n.Payload.Method, n.Payload.URL
		}
		entries = append(entries, e)
		depths = append(depths, p.Depth()-1)
		return true
	})

	out := cmd.OutOrStdout()
	if opts.JSON {
		if entries == nil {
			entries = []treeEntry{}
		}
		return writeJSON(out, entries)
	}

	fmt.Fprintln(out, col.Info.Name)
	if len(entries) == 0 {
		fmt.Fprintln(out, "  (empty)")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, e := range entries {
		indent := strings.Repeat("  ", depths[i])
		if e.Folder {
			fmt.Fprintf(tw, "%s\t%s+ %s\t\n", e.Path, indent, e.Name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s[%s] %s\t%s\n", e.Path, indent, e.Method, e.Name, e.URL)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

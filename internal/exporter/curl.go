// Package exporter renders saved requests as shell commands.
package exporter

import (
	"fmt"
	"strings"

	"github.com/artpar/postdeck/internal/core"
	"github.com/artpar/postdeck/internal/tree"
)

// Curl renders req as a curl command. Disabled headers are left out. With
// pretty set, every option goes on its own continuation line.
func Curl(req core.Request, pretty bool) string {
	parts := []string{"curl"}

	if method := core.NormalizeMethod(req.Method); method != "GET" {
		parts = append(parts, "-X", method)
	}
	for _, h := range req.EnabledHeaders() {
		parts = append(parts, "-H", fmt.Sprintf("%s: %s", h.Key, h.Value))
	}
	if req.Body != "" {
		parts = append(parts, "--data-raw", req.Body)
	}
	parts = append(parts, req.URL)

	if pretty {
		return formatPrettyCurl(parts)
	}
	return formatInlineCurl(parts)
}

// CurlScript renders every request of t as a shell script, one commented
// command per request, with a banner per folder.
func CurlScript(name string, t tree.Tree[core.Request]) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#!/bin/sh\n# Collection: %s\n\n", name)
	tree.Walk(t, func(p tree.Path, n *tree.Node[core.Request]) bool {
		if n.IsFolder() {
			fmt.Fprintf(&sb, "# === %s ===\n\n", n.Name)
			return true
		}
		fmt.Fprintf(&sb, "# %s (%s)\n%s\n\n", n.Name, p.Key(), Curl(n.Payload, true))
		return true
	})
	return sb.String()
}

func formatInlineCurl(parts []string) string {
	quoted := make([]string, len(parts))
	for i, part := range parts {
		quoted[i] = shellQuote(part)
	}
	return strings.Join(quoted, " ")
}

// formatPrettyCurl keeps each option next to its value; the URL is always
// the last part.
func formatPrettyCurl(parts []string) string {
	var result strings.Builder
	result.WriteString("curl")

	last := len(parts) - 1
	for i := 1; i < last; i++ {
		result.WriteString(" \\\n  ")
		result.WriteString(shellQuote(parts[i]))
		if strings.HasPrefix(parts[i], "-") && i+1 < last {
			i++
			result.WriteString(" ")
			result.WriteString(shellQuote(parts[i]))
		}
	}
	result.WriteString(" \\\n  ")
	result.WriteString(shellQuote(parts[last]))
	return result.String()
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'$`\\!*?[]{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

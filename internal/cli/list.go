package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kannan/replicant/internal/module"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available modules",
	Long: `List the modules discovered in the modules directory.

Examples:
  replicant list
  replicant list --json
  replicant list -m ./other-pipelines`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output in JSON format")
}

func runList(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	catalog := rt.Session.Catalog()
	modules := catalog.Modules()
	w := cmd.OutOrStdout()

	// JSON output
	if listJSON {
		output := struct {
			Modules  []module.Module `json:"modules"`
			Shadowed []module.Module `json:"shadowed,omitempty"`
			Total    int             `json:"total"`
		}{
			Modules:  modules,
			Shadowed: catalog.Shadowed(),
			Total:    len(modules),
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	if len(modules) == 0 {
		fmt.Fprintf(w, "No modules found in %s (looking for %s)\n",
			rt.Backend.Name(), strings.Join(rt.Engines.Extensions(), ", "))
		return nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("NAME", "FILE", "ENGINE", "SIZE")
	for _, m := range modules {
		t.Row(m.Name, m.File, m.Engine, formatSize(m.Size))
	}
	fmt.Fprintln(w, t.Render())

	for _, m := range catalog.Shadowed() {
		fmt.Fprintf(w, "ignored %s: module %q already defined\n", m.File, m.Name)
	}
	fmt.Fprintf(w, "\nTotal: %d modules\n", len(modules))
	return nil
}

// formatSize formats bytes as a human-readable string.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

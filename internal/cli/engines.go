package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kannan/replicant/internal/app"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List the embedded interpreters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := *cfg
		all.Engines.Golang.Enabled = true
		all.Engines.JavaScript.Enabled = true
		all.Engines.Tengo.Enabled = true

		registry, err := app.NewEngines(&all)
		if err != nil {
			return err
		}

		enabled := make(map[string]bool)
		for _, name := range cfg.EnabledEngines() {
			enabled[name] = true
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("ENGINE", "EXTENSIONS", "ENABLED")
		for _, name := range registry.Names() {
			e, _ := registry.Get(name)
			t.Row(name, strings.Join(e.Extensions(), " "), fmt.Sprint(enabled[name]))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/kannan/replicant/internal/interactive"
	"github.com/kannan/replicant/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the full-screen console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the line console",
	Long: `Open a readline console that follows the same select and confirm
steps as the full-screen UI. Ctrl+D exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return interactive.Run(rt)
	},
}

func runTUI() error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	return tui.Run(rt)
}

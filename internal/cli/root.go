// Package cli provides command-line interface commands for replicant.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kannan/replicant/internal/app"
	"github.com/kannan/replicant/internal/config"
	"github.com/kannan/replicant/internal/logger"
)

var (
	cfgFile     string
	modulesPath string
	cfg         *config.Config
	verbose     bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "replicant",
	Short: "Replicant - inspect a module, then run it on confirmation",
	Long: `Replicant lists the modules in a folder, shows the source of the one
you pick, and runs it in-process only after you answer "yes".

Modules are Go (.go), JavaScript (.js) or Tengo (.tengo) files. Each runs
inside an embedded interpreter with its output sent to the console.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for certain commands
		if cmd.Name() == "version" || cmd.Name() == "init" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		// Full-screen and line consoles keep logs off the terminal.
		interactive := cmd.Name() == "ui" || cmd.Name() == "console" || cmd == cmd.Root()
		return initLogger(cfg, verbose && !interactive)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the root command.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./replicant.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&modulesPath, "modules", "m", "", "modules directory (overrides modules_path)")
	rootCmd.SilenceErrors = true

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(enginesCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if modulesPath != "" {
		abs, err := filepath.Abs(config.NormalizePath(modulesPath))
		if err != nil {
			return nil, fmt.Errorf("invalid modules path: %w", err)
		}
		c.ModulesPath = abs
	}
	return c, nil
}

func initLogger(c *config.Config, console bool) error {
	level := c.Logging.Level
	if verbose {
		level = "debug"
	}
	logCfg := logger.Config{
		Path:    c.Logging.Path,
		Level:   level,
		Console: console,
	}
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	return nil
}

// Bootstrap loads configuration from path and builds a runtime for an
// interactive UI. Logs go to the log file only.
func Bootstrap(path string) (*app.Runtime, error) {
	cfgFile = path
	c, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := initLogger(c, false); err != nil {
		return nil, err
	}
	cfg = c
	return newRuntime()
}

// newRuntime validates the loaded config and wires a runtime from it.
func newRuntime() (*app.Runtime, error) {
	result := cfg.Validate()
	for _, w := range result.Warnings {
		logger.Warn("config warning", "message", w)
	}
	if err := cfg.MustValidate(); err != nil {
		return nil, err
	}
	return app.Bootstrap(cfg)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print detailed version information about Replicant",
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			fmt.Fprintln(cmd.OutOrStdout(), app.GetVersionInfo())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", app.Name, app.Version)
		}
	},
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kannan/replicant/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  "Commands for managing replicant configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new configuration file",
	Long: `Create a new replicant.yaml configuration file with defaults.

Examples:
  replicant config init
  replicant config init --modules-path ./scripts
  replicant config init -o /etc/replicant.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the configuration file and check paths.

Examples:
  replicant config validate
  replicant config validate -c /path/to/replicant.yaml`,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the loaded configuration values",
	RunE:  runConfigShow,
}

var (
	configInitModulesPath string
	configInitOutput      string
	configShowYAML        bool
)

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringVar(&configInitModulesPath, "modules-path", "./pipelines", "directory holding modules")
	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", config.DefaultConfigFile, "output file path")
	configShowCmd.Flags().BoolVar(&configShowYAML, "yaml", false, "print the effective configuration as YAML")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	// Check if file already exists
	if _, err := os.Stat(configInitOutput); err == nil {
		return fmt.Errorf("config file already exists: %s\nUse --output to specify a different path", configInitOutput)
	}

	c := config.DefaultConfig()
	c.ModulesPath = filepath.ToSlash(configInitModulesPath)

	if err := os.WriteFile(configInitOutput, []byte(generateConfigYAML(c)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Configuration file created: %s\n\n", configInitOutput)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "   1. Put module files (.go, .js, .tengo) in %s\n", c.ModulesPath)
	fmt.Fprintln(w, "   2. Run 'replicant config validate' to verify")
	fmt.Fprintln(w, "   3. Run 'replicant list' to see the discovered modules")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// cfg is already loaded in PersistentPreRunE
	result := cfg.Validate()
	w := cmd.OutOrStdout()

	file := cfgFile
	if file == "" {
		file = config.DefaultConfigFile
	}
	fmt.Fprintln(w, "Configuration Validation")
	fmt.Fprintf(w, "   File: %s\n\n", file)
	fmt.Fprint(w, result.String())

	if !result.Valid {
		return fmt.Errorf("configuration validation failed")
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if configShowYAML {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	timeout := "none"
	if cfg.Execution.Timeout > 0 {
		timeout = cfg.Execution.Timeout.String()
	}

	fmt.Fprintln(w, "Replicant - Configuration")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Modules Path:   %s\n", cfg.ModulesPath)
	fmt.Fprintf(w, "  Storage:        %s\n", cfg.Storage.Type)
	fmt.Fprintf(w, "  Confirm Word:   %s\n", cfg.ConfirmWord)
	fmt.Fprintf(w, "  Watch:          %v\n", cfg.Watch)
	fmt.Fprintf(w, "  Timeout:        %s\n", timeout)
	fmt.Fprintf(w, "  Engines:        %v\n", cfg.EnabledEngines())

	fmt.Fprintln(w)
	fmt.Fprintln(w, "UI:")
	fmt.Fprintf(w, "   • Title:     %s\n", cfg.UI.Title)
	fmt.Fprintf(w, "   • Highlight: %v\n", cfg.UI.Highlight)
	fmt.Fprintf(w, "   • Colors:    output %s, prompt %s, source %s\n",
		cfg.UI.Colors.Output, cfg.UI.Colors.Prompt, cfg.UI.Colors.Source)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logging:")
	fmt.Fprintf(w, "   • Path:  %s\n", cfg.Logging.Path)
	fmt.Fprintf(w, "   • Level: %s\n", cfg.Logging.Level)
	return nil
}

func generateConfigYAML(c *config.Config) string {
	return fmt.Sprintf(`# Replicant Configuration

# Directory scanned for modules. Relative paths resolve against this file.
modules_path: "%s"

# Where modules are read from: local or memory
storage:
  type: "%s"

# The exact answer that runs an inspected module
confirm_word: "%s"

# Rediscover modules when the directory changes
watch: %v

execution:
  # Stop a module after this long (0 = no limit), e.g. "30s"
  timeout: 0s

engines:
  golang:
    enabled: true
  javascript:
    enabled: true
  tengo:
    enabled: true

ui:
  title: "%s"
  # Syntax-highlight source in the full-screen console
  highlight: false
  colors:
    background: "%s"
    output: "%s"
    prompt: "%s"
    source: "%s"
    error: "%s"

# Logging settings
logging:
  path: "%s"
  level: "%s"
`, c.ModulesPath, c.Storage.Type, c.ConfirmWord, c.Watch, c.UI.Title,
		c.UI.Colors.Background, c.UI.Colors.Output, c.UI.Colors.Prompt, c.UI.Colors.Source, c.UI.Colors.Error,
		filepath.ToSlash(c.Logging.Path), c.Logging.Level)
}

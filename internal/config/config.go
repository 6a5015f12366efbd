package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the default configuration filename.
	DefaultConfigFile = "replicant.yaml"
)

// Load reads and parses a configuration file from the given path.
// If path is empty, it looks for replicant.yaml in the current directory and
// falls back to defaults when that file does not exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	// Make path absolute if relative
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg := DefaultConfig()
			cfg.resolvePaths(filepath.Dir(path))
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}

	// Resolve relative paths
	cfg.resolvePaths(filepath.Dir(path))

	return cfg, nil
}

// LoadFromBytes parses configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// resolvePaths converts relative paths to absolute paths based on config directory.
func (c *Config) resolvePaths(configDir string) {
	if c.ModulesPath != "" && !filepath.IsAbs(c.GetModulesPath()) {
		c.ModulesPath = filepath.Join(configDir, c.GetModulesPath())
	}

	if c.Logging.Path != "" && !filepath.IsAbs(c.Logging.Path) {
		c.Logging.Path = filepath.Join(configDir, NormalizePath(c.Logging.Path))
	}
}

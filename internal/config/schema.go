// Package config provides YAML configuration loading and validation for replicant.
package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Config represents the main configuration structure for replicant.
type Config struct {
	ModulesPath string    `yaml:"modules_path" validate:"required"`
	ConfirmWord string    `yaml:"confirm_word" validate:"required"`
	Watch       bool      `yaml:"watch"`
	Storage     Storage   `yaml:"storage"`
	Execution   Execution `yaml:"execution"`
	Engines     Engines   `yaml:"engines"`
	UI          UI        `yaml:"ui"`
	Logging     Logging   `yaml:"logging"`
}

// Storage selects the backend modules are read from.
type Storage struct {
	Type string `yaml:"type" validate:"required,oneof=local memory"`
}

// Execution holds limits applied to running modules.
type Execution struct {
	// Timeout bounds a single execution; zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// Engines toggles the embedded interpreters.
type Engines struct {
	Golang     Toggle `yaml:"golang"`
	JavaScript Toggle `yaml:"javascript"`
	Tengo      Toggle `yaml:"tengo"`
}

// Toggle enables or disables a component.
type Toggle struct {
	Enabled bool `yaml:"enabled"`
}

// UI defines presentation settings shared by the TUI and the line console.
type UI struct {
	Title     string `yaml:"title"`
	Highlight bool   `yaml:"highlight"`
	Colors    Colors `yaml:"colors"`
}

// Colors are hex colors for the output area tones.
type Colors struct {
	Background string `yaml:"background" validate:"omitempty,hexcolor"`
	Output     string `yaml:"output" validate:"omitempty,hexcolor"`
	Prompt     string `yaml:"prompt" validate:"omitempty,hexcolor"`
	Source     string `yaml:"source" validate:"omitempty,hexcolor"`
	Error      string `yaml:"error" validate:"omitempty,hexcolor"`
}

// Logging defines logging configuration.
type Logging struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ModulesPath: "./pipelines",
		ConfirmWord: "yes",
		Watch:       true,
		Storage: Storage{
			Type: "local",
		},
		Engines: Engines{
			Golang:     Toggle{Enabled: true},
			JavaScript: Toggle{Enabled: true},
			Tengo:      Toggle{Enabled: true},
		},
		UI: UI{
			Title: "Replicant",
			Colors: Colors{
				Background: "#000000",
				Output:     "#00FFFF",
				Prompt:     "#00FF00",
				Source:     "#0000FF",
				Error:      "#FF6347",
			},
		},
		Logging: Logging{
			Path:  "./logs/replicant.log",
			Level: "info",
		},
	}
}

// NormalizePath converts path to OS-native format and handles both slash types.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\\\", "/")
	path = strings.ReplaceAll(path, "\\", "/")
	return filepath.FromSlash(path)
}

// GetModulesPath returns the normalized modules path.
func (c *Config) GetModulesPath() string {
	return NormalizePath(c.ModulesPath)
}

// EnabledEngines returns the names of the enabled engines.
func (c *Config) EnabledEngines() []string {
	var names []string
	if c.Engines.Golang.Enabled {
		names = append(names, "golang")
	}
	if c.Engines.JavaScript.Enabled {
		names = append(names, "javascript")
	}
	if c.Engines.Tengo.Enabled {
		names = append(names, "tengo")
	}
	return names
}

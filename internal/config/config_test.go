package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "strats"), 0755))
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`
modules_path: ./strats
execution:
  timeout: 30s
engines:
  tengo:
    enabled: false
logging:
  path: logs/run.log
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "strats"), cfg.ModulesPath)
	assert.Equal(t, filepath.Join(dir, "logs", "run.log"), cfg.Logging.Path)
	assert.Equal(t, 30*time.Second, cfg.Execution.Timeout)
	assert.Equal(t, []string{"golang", "javascript"}, cfg.EnabledEngines())
	assert.Equal(t, "yes", cfg.ConfirmWord)
	assert.Equal(t, "#00FF00", cfg.UI.Colors.Prompt)

	result := cfg.Validate()
	assert.True(t, result.Valid, result.String())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pipelines", filepath.Base(cfg.ModulesPath))
	assert.True(t, filepath.IsAbs(cfg.ModulesPath))
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	_, err := LoadFromBytes([]byte("modules_path: [unclosed"))
	require.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModulesPath = filepath.Join(t.TempDir(), "missing")
	cfg.ConfirmWord = " yes"
	cfg.Storage.Type = "s3"
	cfg.UI.Colors.Prompt = "green"
	cfg.Logging.Level = "loud"
	cfg.Execution.Timeout = -time.Second
	cfg.Engines = Engines{}

	result := cfg.Validate()
	require.False(t, result.Valid)

	fields := map[string]bool{}
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	for _, want := range []string{
		"storage.type",
		"ui.colors.prompt",
		"logging.level",
		"confirm_word",
		"execution.timeout",
		"engines",
	} {
		assert.True(t, fields[want], "expected error for %s, got %v", want, result.Errors)
	}

	assert.Error(t, cfg.MustValidate())
	assert.Contains(t, result.String(), "Configuration has errors")
}

func TestValidate_MissingModulesDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModulesPath = filepath.Join(t.TempDir(), "missing")

	result := cfg.Validate()
	require.False(t, result.Valid)
	assert.Equal(t, "modules_path", result.Errors[0].Field)
}

func TestValidate_Warnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModulesPath = t.TempDir()
	cfg.ConfirmWord = "proceed"
	cfg.Logging.Path = ""

	result := cfg.Validate()
	assert.True(t, result.Valid)
	assert.Len(t, result.Warnings, 2)
	assert.NoError(t, cfg.MustValidate())
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("a/b/c"), NormalizePath(`a\b\c`))
	assert.Equal(t, filepath.FromSlash("a/b"), NormalizePath(`a\\b`))
}

func TestMarshal_Reload(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConfirmWord = "proceed"
	cfg.Execution.Timeout = 30 * time.Second

	data, err := cfg.Marshal()
	require.NoError(t, err)

	loaded, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "proceed", loaded.ConfirmWord)
	assert.Equal(t, 30*time.Second, loaded.Execution.Timeout)
}

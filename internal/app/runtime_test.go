package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kannan/replicant/internal/config"
	"github.com/kannan/replicant/internal/session"
)

func TestNewEngines_RespectsToggles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engines.Golang.Enabled = false

	r, err := NewEngines(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"javascript", "tengo"}, r.Names())
}

func TestBootstrap(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.js"), []byte(`print("hi")`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("#"), 0o644))

	cfg := config.DefaultConfig()
	cfg.ModulesPath = dir
	cfg.Watch = false

	rt, err := Bootstrap(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, rt.Session.Modules())
	assert.Nil(t, rt.NewWatcher())

	ctx := context.Background()
	require.NoError(t, rt.Session.Submit(ctx, "hello"))
	require.NoError(t, rt.Session.Submit(ctx, "yes"))
	assert.Contains(t, rt.Transcript.String(), "\nhi\n\n"+session.MsgComplete)
}

func TestBootstrap_MissingModulesDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ModulesPath = filepath.Join(t.TempDir(), "absent")

	_, err := Bootstrap(cfg)
	assert.ErrorContains(t, err, "failed to open modules")
}

func TestBootstrap_MemoryStorage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Type = "memory"

	rt, err := Bootstrap(cfg)
	require.NoError(t, err)
	assert.Empty(t, rt.Session.Modules())
	assert.Nil(t, rt.NewWatcher())
}

func TestGetVersionInfo(t *testing.T) {
	assert.Contains(t, GetVersionInfo(), "Replicant v"+Version)
	assert.Equal(t, "dev (unknown)", GetVersion())
}

package app

import (
	"fmt"
	"time"

	"github.com/kannan/replicant/internal/config"
	"github.com/kannan/replicant/internal/engine"
	"github.com/kannan/replicant/internal/logger"
	"github.com/kannan/replicant/internal/module"
	"github.com/kannan/replicant/internal/session"
	"github.com/kannan/replicant/internal/storage"
	"github.com/kannan/replicant/internal/storage/local"
	"github.com/kannan/replicant/internal/transcript"
)

// watchDebounce collapses editor save bursts into one refresh.
const watchDebounce = 250 * time.Millisecond

// Runtime is a configured console: engines, module storage and a session
// writing to its transcript.
type Runtime struct {
	Config     *config.Config
	Engines    *engine.Registry
	Backend    storage.Backend
	Transcript *transcript.Transcript
	Session    *session.Session
}

// NewEngines registers the engines enabled in cfg.
func NewEngines(cfg *config.Config) (*engine.Registry, error) {
	r := engine.NewRegistry(cfg.Execution.Timeout)
	for _, name := range cfg.EnabledEngines() {
		var e engine.Engine
		switch name {
		case "golang":
			e = engine.NewGolang()
		case "javascript":
			e = engine.NewJavaScript()
		case "tengo":
			e = engine.NewTengo()
		default:
			return nil, fmt.Errorf("unknown engine: %s", name)
		}
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// OpenBackend opens the module storage named by cfg.Storage.Type.
func OpenBackend(cfg *config.Config) (storage.Backend, error) {
	plugins := storage.NewRegistry()
	local.Register(plugins)
	return plugins.Open(cfg.Storage.Type, cfg.GetModulesPath())
}

// Bootstrap builds a runtime from cfg and discovers modules.
func Bootstrap(cfg *config.Config) (*Runtime, error) {
	engines, err := NewEngines(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up engines: %w", err)
	}

	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open modules: %w", err)
	}

	return NewRuntime(cfg, engines, backend)
}

// NewRuntime builds a runtime over an existing backend.
func NewRuntime(cfg *config.Config, engines *engine.Registry, backend storage.Backend) (*Runtime, error) {
	catalog, err := module.Discover(backend, engines)
	if err != nil {
		return nil, err
	}

	out := transcript.New()
	logger.Info("runtime ready",
		"modules", catalog.Len(),
		"backend", backend.Name(),
		"engines", engines.Names())

	return &Runtime{
		Config:     cfg,
		Engines:    engines,
		Backend:    backend,
		Transcript: out,
		Session:    session.New(catalog, engines, out, session.Options{ConfirmWord: cfg.ConfirmWord}),
	}, nil
}

// NewWatcher returns a watcher for the modules directory, or nil when
// watching is disabled or the backend is not on disk.
func (r *Runtime) NewWatcher() *module.Watcher {
	if !r.Config.Watch {
		return nil
	}
	lb, ok := r.Backend.(*local.Backend)
	if !ok || lb.Type() != local.TypeLocal {
		return nil
	}
	w, err := module.NewWatcher(lb.Root(), watchDebounce)
	if err != nil {
		logger.Warn("module watcher unavailable", "error", err)
		return nil
	}
	return w
}

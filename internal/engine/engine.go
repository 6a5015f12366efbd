// Package engine runs module source in-process through embedded interpreters.
//
// Each Engine claims one or more file extensions. The Registry maps a
// program's file onto its engine and wraps execution with the timeout,
// panic recovery and logging every engine shares.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kannan/replicant/internal/logger"
)

var (
	// ErrNoEngine is returned when no engine claims a file extension.
	ErrNoEngine = errors.New("no engine for file")
)

// Program is an inspected module: the exact source shown to the user.
type Program struct {
	Module string
	File   string
	Source string
}

// Ext returns the lower-cased extension of the program's file.
func (p Program) Ext() string {
	return strings.ToLower(path.Ext(p.File))
}

// Engine evaluates programs written in one language.
type Engine interface {
	// Name returns the engine name.
	Name() string

	// Extensions returns the file extensions the engine claims, with dots.
	Extensions() []string

	// Exec runs the program, writing its standard output and error to out.
	Exec(ctx context.Context, prog Program, out io.Writer) error
}

// ExecError reports a failure raised while a module was running.
type ExecError struct {
	Module string
	Engine string
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Module, e.Engine, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Registry maps file extensions to engines.
type Registry struct {
	engines map[string]Engine
	byExt   map[string]Engine
	timeout time.Duration
}

// NewRegistry creates an empty registry. A zero timeout disables it.
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		engines: make(map[string]Engine),
		byExt:   make(map[string]Engine),
		timeout: timeout,
	}
}

// Register adds an engine. Claiming an extension twice is an error.
func (r *Registry) Register(e Engine) error {
	if _, ok := r.engines[e.Name()]; ok {
		return fmt.Errorf("engine %q already registered", e.Name())
	}
	for _, ext := range e.Extensions() {
		ext = strings.ToLower(ext)
		if prev, ok := r.byExt[ext]; ok {
			return fmt.Errorf("extension %s already claimed by %s", ext, prev.Name())
		}
	}
	r.engines[e.Name()] = e
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
	return nil
}

// ForExt returns the engine claiming ext.
func (r *Registry) ForExt(ext string) (Engine, bool) {
	e, ok := r.byExt[strings.ToLower(ext)]
	return e, ok
}

// Extensions returns every claimed extension in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Names returns registered engine names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns an engine by name.
func (r *Registry) Get(name string) (Engine, bool) {
	e, ok := r.engines[name]
	return e, ok
}

// Exec runs prog on the engine claiming its extension.
// Failures raised by the module come back as *ExecError.
func (r *Registry) Exec(ctx context.Context, prog Program, out io.Writer) (err error) {
	eng, ok := r.ForExt(prog.Ext())
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEngine, prog.File)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	log := logger.With("run", uuid.NewString(), "module", prog.Module, "engine", eng.Name())
	log.Infow("executing module", "file", prog.File, "bytes", len(prog.Source))
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
		if err != nil {
			var execErr *ExecError
			if !errors.As(err, &execErr) {
				err = &ExecError{Module: prog.Module, Engine: eng.Name(), Err: err}
			}
			log.Warnw("module failed", "duration", time.Since(start), "error", err)
			return
		}
		log.Infow("module complete", "duration", time.Since(start))
	}()

	return eng.Exec(ctx, prog, out)
}

// Package module discovers modules in a storage backend and performs the
// inspect step: reading a module's source without running it.
package module

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/kannan/replicant/internal/engine"
	"github.com/kannan/replicant/internal/logger"
	"github.com/kannan/replicant/internal/storage"
)

// ErrUnknownModule is returned when a name matches no discovered module.
var ErrUnknownModule = errors.New("unknown module")

// maxSourceSize bounds how much source the inspect step will read.
const maxSourceSize = 4 << 20

// Module is a discovered module file.
type Module struct {
	Name    string    `json:"name"`
	File    string    `json:"file"`
	Ext     string    `json:"ext"`
	Engine  string    `json:"engine"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Catalog is the set of modules found in one backend.
type Catalog struct {
	backend  storage.Backend
	modules  map[string]Module
	names    []string
	shadowed []Module
}

// Discover lists the backend root and keeps every regular file whose
// extension is claimed by an engine. The module name is the file name
// without its extension.
func Discover(backend storage.Backend, engines *engine.Registry) (*Catalog, error) {
	c := &Catalog{
		backend: backend,
		modules: make(map[string]Module),
	}

	// A modules directory removed while the console runs leaves it empty.
	if ok, err := backend.Exists("."); err == nil && !ok {
		logger.Warn("modules directory missing", "backend", backend.Name())
		return c, nil
	}

	files, err := backend.List(".")
	if err != nil {
		return nil, fmt.Errorf("failed to list modules in %s: %w", backend.Name(), err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	for _, f := range files {
		if f.IsDir || strings.HasPrefix(f.Name, ".") {
			continue
		}

		ext := path.Ext(f.Name)
		eng, ok := engines.ForExt(ext)
		if !ok {
			continue
		}

		m := Module{
			Name:    strings.TrimSuffix(f.Name, ext),
			File:    f.Path,
			Ext:     strings.ToLower(ext),
			Engine:  eng.Name(),
			Size:    f.Size,
			ModTime: time.Unix(f.ModTime, 0),
		}
		if m.Name == "" {
			continue
		}

		if prev, dup := c.modules[m.Name]; dup {
			logger.Warn("module name shadowed", "module", m.Name, "kept", prev.File, "ignored", m.File)
			c.shadowed = append(c.shadowed, m)
			continue
		}

		c.modules[m.Name] = m
		c.names = append(c.names, m.Name)
	}

	sort.Strings(c.names)
	logger.Debug("modules discovered", "backend", backend.Name(), "count", len(c.names))
	return c, nil
}

// Backend returns the storage the catalog was discovered from.
func (c *Catalog) Backend() storage.Backend {
	return c.backend
}

// Names returns module names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Modules returns the modules in name order.
func (c *Catalog) Modules() []Module {
	out := make([]Module, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.modules[name])
	}
	return out
}

// Shadowed returns files ignored because an earlier file had the same name.
func (c *Catalog) Shadowed() []Module {
	return c.shadowed
}

// Len returns the number of modules.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Lookup finds a module by exact, case-sensitive name.
func (c *Catalog) Lookup(name string) (Module, bool) {
	m, ok := c.modules[name]
	return m, ok
}

// Inspect reads a module's source text. Nothing is executed.
func (c *Catalog) Inspect(name string) (engine.Program, error) {
	m, ok := c.Lookup(name)
	if !ok {
		return engine.Program{}, fmt.Errorf("%w: %s", ErrUnknownModule, name)
	}

	info, err := c.backend.Stat(m.File)
	if err != nil {
		return engine.Program{}, fmt.Errorf("failed to stat %s: %w", m.File, err)
	}
	if info.Size > maxSourceSize {
		return engine.Program{}, fmt.Errorf("%s is larger than %d bytes", m.File, maxSourceSize)
	}

	rc, err := c.backend.Read(m.File)
	if err != nil {
		return engine.Program{}, fmt.Errorf("failed to open %s: %w", m.File, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxSourceSize+1))
	if err != nil {
		return engine.Program{}, fmt.Errorf("failed to read %s: %w", m.File, err)
	}
	if len(data) > maxSourceSize {
		return engine.Program{}, fmt.Errorf("%s is larger than %d bytes", m.File, maxSourceSize)
	}

	return engine.Program{
		Module: m.Name,
		File:   m.File,
		Source: string(data),
	}, nil
}

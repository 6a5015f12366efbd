// Package storage provides the backends modules are read from.
// Backends are read-only from the console's point of view: discovery lists
// them and the inspect step reads them, nothing is ever written back.
package storage

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// ErrOutsideRoot is returned when a path escapes the backend root.
var ErrOutsideRoot = errors.New("path escapes backend root")

// Backend defines the interface for module storage backends.
type Backend interface {
	// Name returns the backend name.
	Name() string

	// Type returns the backend type (local, memory).
	Type() string

	// Read opens the file at the specified path.
	Read(path string) (io.ReadCloser, error)

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// List lists files at the specified path.
	List(path string) ([]FileInfo, error)

	// Stat returns file information.
	Stat(path string) (*FileInfo, error)
}

// FileInfo represents file metadata.
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	IsDir   bool
	ModTime int64
}

// Clean normalizes a backend-relative path and rejects escapes.
// An empty path or "." refers to the backend root.
func Clean(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "" {
		return ".", nil
	}
	return cleaned, nil
}

// Factory creates a backend rooted at the given location.
type Factory func(root string) (Backend, error)

// Registry holds registered backend factories keyed by type.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a new backend registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory to the registry.
func (r *Registry) Register(typ string, factory Factory) {
	r.factories[typ] = factory
}

// Open creates a backend of the given type.
func (r *Registry) Open(typ, root string) (Backend, error) {
	f, ok := r.factories[typ]
	if !ok {
		return nil, fmt.Errorf("unknown storage type %q (available: %s)", typ, strings.Join(r.List(), ", "))
	}
	return f(root)
}

// List returns all registered backend types in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

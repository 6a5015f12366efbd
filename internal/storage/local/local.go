// Package local provides filesystem storage backends built on afero.
package local

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/kannan/replicant/internal/storage"
)

const (
	// TypeLocal is the on-disk backend type.
	TypeLocal = "local"
	// TypeMemory is the in-memory backend type.
	TypeMemory = "memory"
)

// Backend implements storage.Backend over an afero filesystem.
type Backend struct {
	root string
	typ  string
	fs   afero.Fs
}

// New creates a backend rooted at basePath on the OS filesystem.
func New(basePath string) (*Backend, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", basePath, err)
	}
	return &Backend{
		root: abs,
		typ:  TypeLocal,
		fs:   afero.NewBasePathFs(afero.NewOsFs(), abs),
	}, nil
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Backend {
	return &Backend{
		root: "/",
		typ:  TypeMemory,
		fs:   afero.NewMemMapFs(),
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return b.typ + ":" + b.root
}

// Type returns the backend type.
func (b *Backend) Type() string {
	return b.typ
}

// Root returns the directory the backend is rooted at.
func (b *Backend) Root() string {
	return b.root
}

// Fs exposes the underlying filesystem.
func (b *Backend) Fs() afero.Fs {
	return b.fs
}

// WriteFile stores data at path, creating parent directories.
// The console itself never writes modules; this is for seeding memory
// backends and for scaffolding.
func (b *Backend) WriteFile(path string, data []byte) error {
	full, err := b.resolvePath(path)
	if err != nil {
		return err
	}
	if err := b.fs.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return afero.WriteFile(b.fs, full, data, 0644)
}

// Read opens the file at the specified path.
func (b *Backend) Read(path string) (io.ReadCloser, error) {
	full, err := b.resolvePath(path)
	if err != nil {
		return nil, err
	}
	return b.fs.Open(full)
}

// Exists checks if a path exists.
func (b *Backend) Exists(path string) (bool, error) {
	full, err := b.resolvePath(path)
	if err != nil {
		return false, err
	}
	return afero.Exists(b.fs, full)
}

// List lists files at the specified path.
func (b *Backend) List(path string) ([]storage.FileInfo, error) {
	full, err := b.resolvePath(path)
	if err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(b.fs, full)
	if err != nil {
		return nil, err
	}

	rel, _ := storage.Clean(path)
	files := make([]storage.FileInfo, 0, len(entries))
	for _, entry := range entries {
		p := entry.Name()
		if rel != "." {
			p = rel + "/" + entry.Name()
		}
		files = append(files, storage.FileInfo{
			Name:    entry.Name(),
			Path:    p,
			Size:    entry.Size(),
			IsDir:   entry.IsDir(),
			ModTime: entry.ModTime().Unix(),
		})
	}

	return files, nil
}

// Stat returns file information.
func (b *Backend) Stat(path string) (*storage.FileInfo, error) {
	full, err := b.resolvePath(path)
	if err != nil {
		return nil, err
	}

	info, err := b.fs.Stat(full)
	if err != nil {
		return nil, err
	}

	rel, _ := storage.Clean(path)
	return &storage.FileInfo{
		Name:    info.Name(),
		Path:    rel,
		Size:    info.Size(),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime().Unix(),
	}, nil
}

// resolvePath maps a backend-relative path onto the afero namespace.
func (b *Backend) resolvePath(path string) (string, error) {
	rel, err := storage.Clean(path)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "/", nil
	}
	return "/" + rel, nil
}

// Register adds the local and memory factories to a registry.
func Register(r *storage.Registry) {
	r.Register(TypeLocal, func(root string) (storage.Backend, error) {
		if _, err := os.Stat(root); err != nil {
			return nil, fmt.Errorf("modules directory: %w", err)
		}
		return New(root)
	})
	r.Register(TypeMemory, func(string) (storage.Backend, error) {
		return NewMemory(), nil
	})
}

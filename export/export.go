// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package export writes generated meshes to scene interchange files.
//
// Callers check CanExport for an extension before calling Export. Export
// checks again and refuses unsupported formats before touching the file
// system.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/hellomesh/internal/logging"
	"github.com/gogpu/hellomesh/mesh"
)

var (
	// ErrUnsupportedFormat is returned for an extension with no exporter.
	ErrUnsupportedFormat = errors.New("export: unsupported format")

	// ErrEmptyAsset is returned when the asset has no meshes.
	ErrEmptyAsset = errors.New("export: asset has no meshes")

	// ErrExport wraps failures while writing the file.
	ErrExport = errors.New("export: write failed")
)

// Asset is a named collection of meshes to export.
type Asset struct {
	Name   string
	Meshes []*mesh.Mesh
}

// NewAsset returns an asset holding meshes.
func NewAsset(name string, meshes ...*mesh.Mesh) *Asset {
	return &Asset{Name: name, Meshes: meshes}
}

// Add appends m to the asset.
func (a *Asset) Add(m *mesh.Mesh) { a.Meshes = append(a.Meshes, m) }

func (a *Asset) empty() bool {
	if a == nil {
		return true
	}
	for _, m := range a.Meshes {
		if m != nil && m.VertexCount() > 0 {
			return false
		}
	}
	return true
}

// Exporter writes an asset to a file.
type Exporter interface {
	Export(a *Asset, path string) error
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(a *Asset, path string) error

// Export calls f.
func (f ExporterFunc) Export(a *Asset, path string) error { return f(a, path) }

// Registry maps file extensions to exporters. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	exporters map[string]Exporter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{exporters: make(map[string]Exporter)}
}

// DefaultRegistry returns a registry with the glTF, GLB, USDA and OBJ
// exporters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("gltf", GLTF{})
	r.Register("glb", GLTF{Binary: true})
	r.Register("usda", USDA{})
	r.Register("obj", OBJ{})
	return r
}

// Extension returns ext lowercased without a leading dot, the form
// registry keys and exported file names use.
func Extension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Register sets the exporter for ext, replacing any previous one.
func (r *Registry) Register(ext string, e Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exporters[Extension(ext)] = e
}

// CanExport reports whether ext (with or without a leading dot) has an
// exporter.
func (r *Registry) CanExport(ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.exporters[Extension(ext)]
	return ok
}

// Extensions returns the supported extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.exporters))
	for ext := range r.exporters {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Export writes a to path using the exporter for the path's extension.
// The parent directory is created if needed.
func (r *Registry) Export(a *Asset, path string) error {
	ext := Extension(filepath.Ext(path))
	r.mu.RLock()
	e, ok := r.exporters[ext]
	r.mu.RUnlock()
	if !ok || ext == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if a.empty() {
		return ErrEmptyAsset
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	if err := e.Export(a, path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExport, path, err)
	}
	logging.Logger().Info("export: asset written", "path", path, "meshes", len(a.Meshes))
	return nil
}

var defaultRegistry = DefaultRegistry()

// CanExport reports whether the default registry supports ext.
func CanExport(ext string) bool { return defaultRegistry.CanExport(ext) }

// Export writes a to path with the default registry.
func Export(a *Asset, path string) error { return defaultRegistry.Export(a, path) }

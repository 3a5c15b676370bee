// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package surface

import (
	"errors"
	"sort"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellomesh/frame"
)

// Options describe the surface a Factory should create.
type Options struct {
	Device hal.Device
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

// Factory creates a frame surface with the given options.
type Factory func(opts Options) (frame.Surface, error)

// RegistryEntry is a registered surface kind.
type RegistryEntry struct {
	// Name is the unique identifier, for example "offscreen".
	Name string

	// Priority determines selection order (higher = preferred).
	Priority int

	Factory Factory

	// Available reports whether the surface kind can be used on this system.
	Available func() bool
}

var globalRegistry = NewRegistry()

// Registry holds named surface factories. Window integrations register
// themselves so commands can select a surface by name:
//
//	func init() {
//	    surface.Register("window", 100, windowFactory, windowAvailable)
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates an empty registry.
// Most code should use the global registry via Register and New.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Register adds a surface kind to the global registry.
// A nil available means always available. Registering an existing name
// replaces it.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a surface kind from the global registry.
func Unregister(name string) { globalRegistry.Unregister(name) }

// List returns all registered names, highest priority first.
func List() []string { return globalRegistry.List() }

// Available returns the names of available surface kinds, highest priority first.
func Available() []string { return globalRegistry.Available() }

// New creates a surface of the best available kind.
func New(opts Options) (frame.Surface, error) { return globalRegistry.New(opts) }

// NewByName creates a surface of the named kind.
func NewByName(name string, opts Options) (frame.Surface, error) {
	return globalRegistry.NewByName(name, opts)
}

// Register adds a surface kind to r.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a surface kind from r.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns all registered names, highest priority first.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Available returns the names of available kinds, highest priority first.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(true)
}

// Get returns a copy of the named entry.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// New tries each available kind in priority order and returns the first
// surface created. The last factory error is returned if all fail.
func (r *Registry) New(opts Options) (frame.Surface, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	lastErr := ErrNoBackendAvailable
	for _, name := range available {
		s, err := r.NewByName(name, opts)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// NewByName creates a surface of the named kind.
func (r *Registry) NewByName(name string, opts Options) (frame.Surface, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory(opts)
}

// sortedNames must be called with the lock held. Equal priorities sort by
// name.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	names := make([]string, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := r.entries[names[i]].Priority, r.entries[names[j]].Priority
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})
	return names
}

// ErrNoBackendAvailable is returned when no surface kind is registered or
// available.
var ErrNoBackendAvailable = errors.New("surface: no backend available")

// BackendNotFoundError indicates a named surface kind is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError indicates a surface kind exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

func init() {
	Register("offscreen", 10, func(opts Options) (frame.Surface, error) {
		o, err := NewOffscreen(opts.Device, opts.Width, opts.Height, opts.Format)
		if err != nil {
			return nil, err
		}
		return o, nil
	}, nil)
}

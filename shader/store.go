// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed shaders/*.wgsl
var embedded embed.FS

// ErrNotFound is returned when a shader resource does not exist.
var ErrNotFound = errors.New("shader: resource not found")

// Store loads versioned WGSL resources named "<name>.v<version>.wgsl".
type Store struct {
	fsys fs.FS
}

// NewStore returns a Store reading from the root of fsys.
func NewStore(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// DefaultStore returns the store of shaders built into the binary.
func DefaultStore() *Store {
	sub, err := fs.Sub(embedded, "shaders")
	if err != nil {
		// fs.Sub only fails for invalid paths.
		panic(err)
	}
	return NewStore(sub)
}

// Load returns the source of name at the given version.
func (s *Store) Load(name string, version int) (string, error) {
	file := fmt.Sprintf("%s.v%d.wgsl", name, version)
	data, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, file)
		}
		return "", fmt.Errorf("shader: read %s: %w", file, err)
	}
	return string(data), nil
}

// Versions returns the available versions of name in ascending order.
func (s *Store) Versions(name string) ([]int, error) {
	matches, err := fs.Glob(s.fsys, name+".v*.wgsl")
	if err != nil {
		return nil, fmt.Errorf("shader: list %s: %w", name, err)
	}
	var versions []int
	for _, m := range matches {
		v := strings.TrimSuffix(strings.TrimPrefix(path.Base(m), name+".v"), ".wgsl")
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			continue
		}
		versions = append(versions, n)
	}
	sort.Ints(versions)
	return versions, nil
}

// Latest returns the source and version of the newest revision of name.
func (s *Store) Latest(name string) (string, int, error) {
	versions, err := s.Versions(name)
	if err != nil {
		return "", 0, err
	}
	if len(versions) == 0 {
		return "", 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	v := versions[len(versions)-1]
	src, err := s.Load(name, v)
	return src, v, err
}

// Names returns the distinct shader names in the store.
func (s *Store) Names() ([]string, error) {
	matches, err := fs.Glob(s.fsys, "*.v*.wgsl")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, m := range matches {
		i := strings.LastIndex(m, ".v")
		if i <= 0 || seen[m[:i]] {
			continue
		}
		seen[m[:i]] = true
		names = append(names, m[:i])
	}
	sort.Strings(names)
	return names, nil
}

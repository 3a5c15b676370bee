// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"

	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/hellomesh/internal/logging"
)

// NagaCompiler compiles WGSL to SPIR-V with naga.
type NagaCompiler struct {
	// Debug keeps debug names in the generated SPIR-V.
	Debug bool
}

// Compile parses, lowers and translates source, and reads its entry points
// from the lowered module. Any failure is wrapped in ErrCompile.
func (c NagaCompiler) Compile(label, source string) (*Library, error) {
	module, err := lower(label, source)
	if err != nil {
		return nil, err
	}
	opts := spirv.DefaultOptions()
	opts.Debug = c.Debug
	binary, err := spirv.NewBackend(opts).Compile(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: spir-v: %w", ErrCompile, label, err)
	}

	lib := newLibrary(label, source, binary, entryPoints(module))
	logging.Logger().Debug("shader: compiled", "label", label, "spirv_bytes", len(binary), "entry_points", len(lib.functions))
	return lib, nil
}

// SourceCompiler parses and lowers source with naga but does not translate
// it. The resulting Library has no SPIR-V and the hal backend compiles the
// WGSL itself.
type SourceCompiler struct{}

// Compile lowers source and reads its entry points. Parse and lowering
// errors are wrapped in ErrCompile.
func (SourceCompiler) Compile(label, source string) (*Library, error) {
	module, err := lower(label, source)
	if err != nil {
		return nil, err
	}
	return newLibrary(label, source, nil, entryPoints(module)), nil
}

func newLibrary(label, source string, binary []byte, functions []*Function) *Library {
	lib := &Library{
		Label:     label,
		Source:    source,
		SPIRV:     binary,
		functions: functions,
	}
	for _, f := range functions {
		f.library = lib
	}
	return lib
}

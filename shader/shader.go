// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader compiles WGSL shader libraries and looks up their entry
// points.
//
// A Compiler turns WGSL source into a Library holding SPIR-V and the
// reflected entry points. Vertex entry points also carry their
// @location inputs so pipelines can be checked against a vertex layout
// before any GPU object is created.
package shader

import (
	"errors"
	"fmt"
)

var (
	// ErrCompile is returned when the WGSL source does not compile.
	ErrCompile = errors.New("shader: compilation failed")

	// ErrNoEntryPoint is returned by Library.Function for an unknown name.
	ErrNoEntryPoint = errors.New("shader: entry point not found")
)

// Compiler compiles WGSL source into a Library.
type Compiler interface {
	Compile(label, source string) (*Library, error)
}

// Stage is the pipeline stage of an entry point.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
)

// String returns the WGSL attribute name of the stage.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// ScalarKind is the scalar type behind a shader input.
type ScalarKind int

const (
	KindUnknown ScalarKind = iota
	KindFloat
	KindSint
	KindUint
)

// String returns the scalar kind name.
func (k ScalarKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindSint:
		return "sint"
	case KindUint:
		return "uint"
	default:
		return "unknown"
	}
}

// Input is a vertex input bound to @location(Location).
type Input struct {
	Location uint32
	Name     string
	Type     string
	Kind     ScalarKind
}

// Function is an entry point of a Library.
type Function struct {
	Name   string
	Stage  Stage
	Inputs []Input

	library *Library
}

// Library returns the library the function belongs to.
func (f *Function) Library() *Library { return f.library }

// Input returns the input at location loc.
func (f *Function) Input(loc uint32) (Input, bool) {
	for _, in := range f.Inputs {
		if in.Location == loc {
			return in, true
		}
	}
	return Input{}, false
}

// Library is a compiled shader module.
type Library struct {
	Label  string
	Source string

	// SPIRV is the little-endian SPIR-V binary.
	SPIRV []byte

	functions []*Function
}

// Function returns the entry point called name.
func (l *Library) Function(name string) (*Function, error) {
	for _, f := range l.functions {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %q", ErrNoEntryPoint, name, l.Label)
}

// Functions returns the entry points in source order.
func (l *Library) Functions() []*Function { return l.functions }

// Words returns SPIRV as 32-bit words.
func (l *Library) Words() []uint32 {
	words := make([]uint32, len(l.SPIRV)/4)
	for i := range words {
		words[i] = uint32(l.SPIRV[i*4]) |
			uint32(l.SPIRV[i*4+1])<<8 |
			uint32(l.SPIRV[i*4+2])<<16 |
			uint32(l.SPIRV[i*4+3])<<24
	}
	return words
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// lower parses and lowers WGSL source to naga IR. Errors are wrapped in
// ErrCompile.
func lower(label, source string) (*ir.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parse: %w", ErrCompile, label, err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: lower: %w", ErrCompile, label, err)
	}
	return module, nil
}

// entryPoints returns the vertex, fragment and compute entry points of
// module in declaration order. Vertex entry points carry their @location
// inputs, including those of struct-typed arguments. Aliases are already
// resolved by lowering.
func entryPoints(module *ir.Module) []*Function {
	functions := make([]*Function, 0, len(module.EntryPoints))
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		stage, ok := stageOf(ep.Stage)
		if !ok {
			continue
		}
		f := &Function{Name: ep.Name, Stage: stage}
		if stage == StageVertex {
			for _, arg := range ep.Function.Arguments {
				f.Inputs = append(f.Inputs, inputsOf(module, arg.Name, arg.Type, arg.Binding)...)
			}
		}
		functions = append(functions, f)
	}
	return functions
}

func stageOf(s ir.ShaderStage) (Stage, bool) {
	switch s {
	case ir.StageVertex:
		return StageVertex, true
	case ir.StageFragment:
		return StageFragment, true
	case ir.StageCompute:
		return StageCompute, true
	default:
		return 0, false
	}
}

// inputsOf returns the location inputs of one argument. An argument without
// a binding contributes the bound members of its struct type.
func inputsOf(module *ir.Module, name string, typ ir.TypeHandle, binding *ir.Binding) []Input {
	if binding != nil {
		loc, ok := location(*binding)
		if !ok {
			return nil
		}
		return []Input{{
			Location: loc,
			Name:     name,
			Type:     typeName(module, typ),
			Kind:     scalarKind(module, typ),
		}}
	}
	if int(typ) >= len(module.Types) {
		return nil
	}
	st, ok := module.Types[typ].Inner.(ir.StructType)
	if !ok {
		return nil
	}
	var inputs []Input
	for _, m := range st.Members {
		inputs = append(inputs, inputsOf(module, m.Name, m.Type, m.Binding)...)
	}
	return inputs
}

func location(b ir.Binding) (uint32, bool) {
	switch b := b.(type) {
	case ir.LocationBinding:
		return b.Location, true
	case *ir.LocationBinding:
		return b.Location, true
	default:
		return 0, false
	}
}

func scalarOf(module *ir.Module, typ ir.TypeHandle) (ir.ScalarType, bool) {
	if int(typ) >= len(module.Types) {
		return ir.ScalarType{}, false
	}
	switch t := module.Types[typ].Inner.(type) {
	case ir.ScalarType:
		return t, true
	case ir.VectorType:
		return t.Scalar, true
	default:
		return ir.ScalarType{}, false
	}
}

func scalarKind(module *ir.Module, typ ir.TypeHandle) ScalarKind {
	s, ok := scalarOf(module, typ)
	if !ok {
		return KindUnknown
	}
	switch s.Kind {
	case ir.ScalarFloat:
		return KindFloat
	case ir.ScalarSint:
		return KindSint
	case ir.ScalarUint:
		return KindUint
	default:
		return KindUnknown
	}
}

// typeName spells a scalar or vector type in WGSL syntax.
func typeName(module *ir.Module, typ ir.TypeHandle) string {
	if int(typ) >= len(module.Types) {
		return ""
	}
	t := module.Types[typ]
	if t.Name != "" {
		return t.Name
	}
	switch inner := t.Inner.(type) {
	case ir.ScalarType:
		return scalarName(inner)
	case ir.VectorType:
		return fmt.Sprintf("vec%d<%s>", inner.Size, scalarName(inner.Scalar))
	default:
		return ""
	}
}

func scalarName(s ir.ScalarType) string {
	switch s.Kind {
	case ir.ScalarFloat:
		return fmt.Sprintf("f%d", int(s.Width)*8)
	case ir.ScalarSint:
		return fmt.Sprintf("i%d", int(s.Width)*8)
	case ir.ScalarUint:
		return fmt.Sprintf("u%d", int(s.Width)*8)
	case ir.ScalarBool:
		return "bool"
	default:
		return ""
	}
}

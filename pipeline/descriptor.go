// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipeline builds immutable render pipeline state from a shader
// pair and a vertex buffer layout.
//
// Validate checks a Descriptor without touching the GPU, so an incomplete
// pipeline is rejected deterministically before any object is created.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellomesh/shader"
)

var (
	// ErrMissingFunction is returned when the vertex or fragment function is nil.
	ErrMissingFunction = errors.New("pipeline: missing shader function")

	// ErrStageMismatch is returned when a function is bound to the wrong stage.
	ErrStageMismatch = errors.New("pipeline: shader function bound to wrong stage")

	// ErrLibraryMismatch is returned when the two functions come from
	// different libraries.
	ErrLibraryMismatch = errors.New("pipeline: vertex and fragment functions from different libraries")

	// ErrUndefinedFormat is returned when no color attachment format is set.
	ErrUndefinedFormat = errors.New("pipeline: undefined color attachment format")

	// ErrMissingAttribute is returned when a vertex input location is not
	// provided by any vertex buffer layout.
	ErrMissingAttribute = errors.New("pipeline: vertex input has no matching attribute")

	// ErrDuplicateLocation is returned when two attributes share a shader location.
	ErrDuplicateLocation = errors.New("pipeline: shader location bound twice")

	// ErrAttributeKind is returned when an attribute format does not match
	// the scalar kind of its vertex input.
	ErrAttributeKind = errors.New("pipeline: attribute format does not match vertex input type")

	// ErrUnknownFillMode is returned by State.Pipeline for an unknown mode.
	ErrUnknownFillMode = errors.New("pipeline: unknown fill mode")
)

// Descriptor describes a render pipeline.
type Descriptor struct {
	Label    string
	Vertex   *shader.Function
	Fragment *shader.Function

	// Buffers are the vertex buffer layouts, indexed by buffer slot.
	Buffers []gputypes.VertexBufferLayout

	// ColorFormat is the pixel format of the single color attachment.
	ColorFormat gputypes.TextureFormat
}

// Validate reports the first reason d cannot produce a pipeline.
func (d *Descriptor) Validate() error {
	if d.Vertex == nil {
		return fmt.Errorf("%w: vertex", ErrMissingFunction)
	}
	if d.Fragment == nil {
		return fmt.Errorf("%w: fragment", ErrMissingFunction)
	}
	if d.Vertex.Stage != shader.StageVertex {
		return fmt.Errorf("%w: %s is a %v function", ErrStageMismatch, d.Vertex.Name, d.Vertex.Stage)
	}
	if d.Fragment.Stage != shader.StageFragment {
		return fmt.Errorf("%w: %s is a %v function", ErrStageMismatch, d.Fragment.Name, d.Fragment.Stage)
	}
	if d.Vertex.Library() == nil || d.Vertex.Library() != d.Fragment.Library() {
		return ErrLibraryMismatch
	}
	if d.ColorFormat == gputypes.TextureFormatUndefined {
		return ErrUndefinedFormat
	}

	attrs := make(map[uint32]gputypes.VertexAttribute)
	for _, l := range d.Buffers {
		for _, a := range l.Attributes {
			if _, dup := attrs[a.ShaderLocation]; dup {
				return fmt.Errorf("%w: location %d", ErrDuplicateLocation, a.ShaderLocation)
			}
			attrs[a.ShaderLocation] = a
		}
	}
	for _, in := range d.Vertex.Inputs {
		a, ok := attrs[in.Location]
		if !ok {
			return fmt.Errorf("%w: %s @location(%d)", ErrMissingAttribute, in.Name, in.Location)
		}
		want := formatKind(a.Format)
		if in.Kind != shader.KindUnknown && want != shader.KindUnknown && in.Kind != want {
			return fmt.Errorf("%w: %s @location(%d) is %v, attribute is %v",
				ErrAttributeKind, in.Name, in.Location, in.Kind, want)
		}
	}
	return nil
}

// formatKind returns the scalar kind a shader sees for a vertex format.
func formatKind(f gputypes.VertexFormat) shader.ScalarKind {
	switch f {
	case gputypes.VertexFormatFloat32, gputypes.VertexFormatFloat32x2,
		gputypes.VertexFormatFloat32x3, gputypes.VertexFormatFloat32x4:
		return shader.KindFloat
	case gputypes.VertexFormatUint32, gputypes.VertexFormatUint32x2,
		gputypes.VertexFormatUint32x3, gputypes.VertexFormatUint32x4:
		return shader.KindUint
	case gputypes.VertexFormatSint32, gputypes.VertexFormatSint32x2,
		gputypes.VertexFormatSint32x3, gputypes.VertexFormatSint32x4:
		return shader.KindSint
	default:
		return shader.KindUnknown
	}
}

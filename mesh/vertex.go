// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Standard attribute names.
const (
	AttributePosition          = "position"
	AttributeNormal            = "normal"
	AttributeTextureCoordinate = "textureCoordinate"
)

// AttributeFormat is the component layout of a vertex attribute.
type AttributeFormat int

const (
	// FormatInvalid is the zero value and is rejected by Validate.
	FormatInvalid AttributeFormat = iota
	// Float2 is two float32 components.
	Float2
	// Float3 is three float32 components.
	Float3
	// Float4 is four float32 components.
	Float4
)

// Components returns the number of float32 components.
func (f AttributeFormat) Components() int {
	switch f {
	case Float2:
		return 2
	case Float3:
		return 3
	case Float4:
		return 4
	default:
		return 0
	}
}

// Size returns the attribute size in bytes.
func (f AttributeFormat) Size() uint64 {
	return uint64(f.Components()) * 4 //nolint:gosec // component count is at most 4
}

// String returns the format name.
func (f AttributeFormat) String() string {
	switch f {
	case Float2:
		return "float2"
	case Float3:
		return "float3"
	case Float4:
		return "float4"
	default:
		return "invalid"
	}
}

// Attribute describes one vertex attribute inside a vertex buffer.
type Attribute struct {
	Name        string
	Format      AttributeFormat
	Offset      uint64
	BufferIndex int
}

// Layout describes one vertex buffer.
type Layout struct {
	Stride uint64
}

// VertexDescriptor describes how vertex attributes are laid out in memory.
// Attribute i is bound to shader location i.
type VertexDescriptor struct {
	Attributes []Attribute
	Layouts    []Layout
}

// DefaultVertexDescriptor returns the interleaved layout used by Generate:
//
//	position          float3 @ 0
//	normal            float3 @ 12
//	textureCoordinate float2 @ 24
//
// Stride is 32 bytes in a single buffer.
func DefaultVertexDescriptor() VertexDescriptor {
	return VertexDescriptor{
		Attributes: []Attribute{
			{Name: AttributePosition, Format: Float3, Offset: 0, BufferIndex: 0},
			{Name: AttributeNormal, Format: Float3, Offset: 12, BufferIndex: 0},
			{Name: AttributeTextureCoordinate, Format: Float2, Offset: 24, BufferIndex: 0},
		},
		Layouts: []Layout{{Stride: 32}},
	}
}

// Attribute returns the attribute with the given name.
func (d VertexDescriptor) Attribute(name string) (Attribute, bool) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Validate checks that every attribute fits inside its buffer stride and
// references an existing layout.
func (d VertexDescriptor) Validate() error {
	if len(d.Layouts) == 0 {
		return fmt.Errorf("%w: no buffer layouts", ErrInvalidDescriptor)
	}
	for i, a := range d.Attributes {
		if a.Format.Components() == 0 {
			return fmt.Errorf("%w: attribute %d (%s) has invalid format", ErrInvalidDescriptor, i, a.Name)
		}
		if a.BufferIndex < 0 || a.BufferIndex >= len(d.Layouts) {
			return fmt.Errorf("%w: attribute %d (%s) references buffer %d", ErrInvalidDescriptor, i, a.Name, a.BufferIndex)
		}
		if a.Offset%4 != 0 {
			return fmt.Errorf("%w: attribute %d (%s) offset %d not 4-byte aligned", ErrInvalidDescriptor, i, a.Name, a.Offset)
		}
		if a.Offset+a.Format.Size() > d.Layouts[a.BufferIndex].Stride {
			return fmt.Errorf("%w: attribute %d (%s) overruns stride %d", ErrInvalidDescriptor, i, a.Name, d.Layouts[a.BufferIndex].Stride)
		}
	}
	return nil
}

// Vertex is a single generated vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// component returns the value of the named attribute as up to four floats.
// Unknown attributes encode as zeros.
func (v *Vertex) component(name string) [4]float32 {
	switch name {
	case AttributePosition:
		return [4]float32{v.Position[0], v.Position[1], v.Position[2], 1}
	case AttributeNormal:
		return [4]float32{v.Normal[0], v.Normal[1], v.Normal[2], 0}
	case AttributeTextureCoordinate:
		return [4]float32{v.UV[0], v.UV[1], 0, 0}
	default:
		return [4]float32{}
	}
}

// encodeVertices writes vertices into a byte slice for buffer index buf,
// following the descriptor exactly.
func encodeVertices(vertices []Vertex, d VertexDescriptor, buf int) []byte {
	stride := d.Layouts[buf].Stride
	data := make([]byte, uint64(len(vertices))*stride)
	for i := range vertices {
		base := uint64(i) * stride //nolint:gosec // i is non-negative
		for _, a := range d.Attributes {
			if a.BufferIndex != buf {
				continue
			}
			vals := vertices[i].component(a.Name)
			for c := 0; c < a.Format.Components(); c++ {
				off := base + a.Offset + uint64(c)*4 //nolint:gosec // c < 4
				binary.LittleEndian.PutUint32(data[off:], math.Float32bits(vals[c]))
			}
		}
	}
	return data
}

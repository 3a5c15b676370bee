// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpumesh

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellomesh/mesh"
)

// VertexLayout converts a mesh vertex descriptor into GPU vertex buffer
// layouts. Attribute i is bound to shader location i.
func VertexLayout(d mesh.VertexDescriptor) ([]gputypes.VertexBufferLayout, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	layouts := make([]gputypes.VertexBufferLayout, len(d.Layouts))
	for i, l := range d.Layouts {
		layouts[i] = gputypes.VertexBufferLayout{
			ArrayStride: l.Stride,
			StepMode:    gputypes.VertexStepModeVertex,
		}
	}
	for i, a := range d.Attributes {
		format, err := VertexFormat(a.Format)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		l := &layouts[a.BufferIndex]
		l.Attributes = append(l.Attributes, gputypes.VertexAttribute{
			Format:         format,
			Offset:         a.Offset,
			ShaderLocation: uint32(i), //nolint:gosec // attribute count is small
		})
	}
	return layouts, nil
}

// VertexFormat maps a mesh attribute format to its GPU vertex format.
func VertexFormat(f mesh.AttributeFormat) (format gputypes.VertexFormat, err error) {
	switch f {
	case mesh.Float2:
		return gputypes.VertexFormatFloat32x2, nil
	case mesh.Float3:
		return gputypes.VertexFormatFloat32x3, nil
	case mesh.Float4:
		return gputypes.VertexFormatFloat32x4, nil
	default:
		return format, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// IndexFormat maps a mesh index type to its GPU index format.
func IndexFormat(t mesh.IndexType) gputypes.IndexFormat {
	if t == mesh.IndexUint16 {
		return gputypes.IndexFormatUint16
	}
	return gputypes.IndexFormatUint32
}

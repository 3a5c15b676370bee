// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownKind is returned for a primitive kind Generate does not know.
	ErrUnknownKind = errors.New("mesh: unknown primitive kind")

	// ErrInvalidExtent is returned when a required extent component is not positive.
	ErrInvalidExtent = errors.New("mesh: extent must be positive")

	// ErrInvalidSegments is returned when a segment count is zero.
	ErrInvalidSegments = errors.New("mesh: segment counts must be at least 1")

	// ErrTooManyVertices is returned when the segment counts would overflow
	// 32-bit indices.
	ErrTooManyVertices = errors.New("mesh: too many vertices for 32-bit indices")

	// ErrInvalidDescriptor is returned for an inconsistent VertexDescriptor.
	ErrInvalidDescriptor = errors.New("mesh: invalid vertex descriptor")
)

// Kind selects the primitive shape.
type Kind int

const (
	Sphere Kind = iota
	Cone
	Cylinder
	Box
	Plane
)

// Kinds lists every supported primitive kind.
func Kinds() []Kind {
	return []Kind{Sphere, Cone, Cylinder, Box, Plane}
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Sphere:
		return "sphere"
	case Cone:
		return "cone"
	case Cylinder:
		return "cylinder"
	case Box:
		return "box"
	case Plane:
		return "plane"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Descriptor requests a primitive from Generate.
type Descriptor struct {
	// Name labels the mesh and its submesh. Defaults to the kind name.
	Name string

	Kind Kind

	// Extent is the size of the bounding box along X, Y and Z.
	// Plane ignores Y.
	Extent [3]float32

	// Segments are the radial and vertical subdivisions
	// (for Box and Plane: horizontal and vertical).
	Segments [2]uint32

	// InwardNormals flips normals and winding so the inside is front-facing.
	InwardNormals bool

	// Cap closes cones and cylinders.
	Cap bool
}

// IndexType is the element width of an index list.
type IndexType int

const (
	IndexUint16 IndexType = iota
	IndexUint32
)

// Size returns the index size in bytes.
func (t IndexType) Size() int {
	if t == IndexUint16 {
		return 2
	}
	return 4
}

// String returns the index type name.
func (t IndexType) String() string {
	if t == IndexUint16 {
		return "uint16"
	}
	return "uint32"
}

// Submesh is a named range of triangle indices drawn with one call.
type Submesh struct {
	Name      string
	Indices   []uint32
	IndexType IndexType
}

// IndexCount returns the number of indices.
func (s *Submesh) IndexCount() int { return len(s.Indices) }

// IndexData encodes the indices little-endian using IndexType.
func (s *Submesh) IndexData() []byte {
	return encodeIndices(s.Indices, s.IndexType)
}

// EdgeIndices returns a line list with the three edges of every triangle.
// The result has twice as many indices as the triangle list.
func (s *Submesh) EdgeIndices() []uint32 {
	edges := make([]uint32, 0, len(s.Indices)*2)
	for i := 0; i+2 < len(s.Indices); i += 3 {
		a, b, c := s.Indices[i], s.Indices[i+1], s.Indices[i+2]
		edges = append(edges, a, b, b, c, c, a)
	}
	return edges
}

// EdgeData encodes EdgeIndices using IndexType.
func (s *Submesh) EdgeData() []byte {
	return encodeIndices(s.EdgeIndices(), s.IndexType)
}

func encodeIndices(indices []uint32, t IndexType) []byte {
	data := make([]byte, len(indices)*t.Size())
	for i, idx := range indices {
		if t == IndexUint16 {
			binary.LittleEndian.PutUint16(data[i*2:], uint16(idx)) //nolint:gosec // IndexUint16 only chosen when all indices fit
		} else {
			binary.LittleEndian.PutUint32(data[i*4:], idx)
		}
	}
	return data
}

// Mesh is generated geometry. It is not modified after Generate returns.
type Mesh struct {
	Name             string
	Kind             Kind
	Vertices         []Vertex
	VertexDescriptor VertexDescriptor
	Submeshes        []Submesh
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// VertexData encodes the vertices that live in buffer index buf according
// to VertexDescriptor.
func (m *Mesh) VertexData(buf int) ([]byte, error) {
	if err := m.VertexDescriptor.Validate(); err != nil {
		return nil, err
	}
	if buf < 0 || buf >= len(m.VertexDescriptor.Layouts) {
		return nil, fmt.Errorf("%w: buffer %d out of range", ErrInvalidDescriptor, buf)
	}
	return encodeVertices(m.Vertices, m.VertexDescriptor, buf), nil
}

// IndexCount returns the total number of indices across all submeshes.
func (m *Mesh) IndexCount() int {
	n := 0
	for i := range m.Submeshes {
		n += m.Submeshes[i].IndexCount()
	}
	return n
}

// Generate builds the primitive described by d.
func Generate(d Descriptor) (*Mesh, error) {
	if err := validate(d); err != nil {
		return nil, err
	}

	var b builder
	switch d.Kind {
	case Sphere:
		b.sphere(d)
	case Cone:
		b.cone(d)
	case Cylinder:
		b.cylinder(d)
	case Box:
		b.box(d)
	case Plane:
		b.plane(d)
	}
	if d.InwardNormals {
		b.flip()
	}
	if uint64(len(b.vertices)) > math.MaxUint32 {
		return nil, ErrTooManyVertices
	}

	name := d.Name
	if name == "" {
		name = d.Kind.String()
	}
	indexType := IndexUint32
	if len(b.vertices) <= math.MaxUint16 {
		indexType = IndexUint16
	}
	return &Mesh{
		Name:             name,
		Kind:             d.Kind,
		Vertices:         b.vertices,
		VertexDescriptor: DefaultVertexDescriptor(),
		Submeshes: []Submesh{{
			Name:      name,
			Indices:   b.indices,
			IndexType: indexType,
		}},
	}, nil
}

func validate(d Descriptor) error {
	switch d.Kind {
	case Sphere, Cone, Cylinder, Box, Plane:
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, d.Kind)
	}
	if d.Extent[0] <= 0 || d.Extent[2] <= 0 || (d.Kind != Plane && d.Extent[1] <= 0) {
		return fmt.Errorf("%w: %v for %v", ErrInvalidExtent, d.Extent, d.Kind)
	}
	if d.Segments[0] == 0 || d.Segments[1] == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSegments, d.Segments)
	}
	// Six grids of (s0+1)^2 vertices bound every kind.
	s0, s1 := uint64(d.Segments[0])+1, uint64(d.Segments[1])+1
	side := s0
	if s1 > side {
		side = s1
	}
	if side > 1<<16 || 6*side*side > math.MaxUint32 {
		return fmt.Errorf("%w: segments %v", ErrTooManyVertices, d.Segments)
	}
	return nil
}

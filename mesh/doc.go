// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mesh generates simple parametric meshes on the CPU.
//
// A Mesh is an immutable set of vertices plus one or more submeshes, each a
// list of triangle indices. The vertex memory layout is described by a
// VertexDescriptor; VertexData encodes vertices strictly from that
// descriptor, so the bytes handed to the GPU always match the layout the
// descriptor advertises.
//
// Supported primitives:
//
//   - Sphere: extent is the bounding box, segments are radial x vertical
//   - Cone: apex up, base down, optional base cap
//   - Cylinder: optional top and bottom caps
//   - Box: segments subdivide the horizontal and vertical faces
//   - Plane: XZ plane facing +Y
//
// Example:
//
//	m, err := mesh.Generate(mesh.Descriptor{
//	    Kind:     mesh.Cone,
//	    Extent:   [3]float32{1, 1, 1},
//	    Segments: [2]uint32{10, 10},
//	    Cap:      true,
//	})
package mesh

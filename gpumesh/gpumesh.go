// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpumesh uploads generated meshes into GPU buffers.
//
// The vertex buffer layout handed to the pipeline is derived from the
// mesh's VertexDescriptor, so buffer contents and layout always agree.
package gpumesh

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellomesh/internal/logging"
	"github.com/gogpu/hellomesh/mesh"
)

var (
	// ErrNilMesh is returned when New is called without a mesh.
	ErrNilMesh = errors.New("gpumesh: nil mesh")

	// ErrNoSubmesh is returned when the mesh has nothing to draw.
	ErrNoSubmesh = errors.New("gpumesh: mesh has no submeshes")

	// ErrUnsupportedFormat is returned for an attribute format with no
	// GPU vertex format.
	ErrUnsupportedFormat = errors.New("gpumesh: unsupported attribute format")
)

// Submesh is an uploaded index range.
type Submesh struct {
	Name        string
	IndexBuffer hal.Buffer
	IndexCount  uint32
	IndexFormat gputypes.IndexFormat

	// EdgeBuffer holds a line list with every triangle edge, used for
	// wireframe drawing.
	EdgeBuffer     hal.Buffer
	EdgeIndexCount uint32
}

// Mesh is a mesh resident in GPU memory.
type Mesh struct {
	device hal.Device

	name          string
	vertexBuffers []hal.Buffer
	layout        []gputypes.VertexBufferLayout
	submeshes     []Submesh
	vertexCount   uint32
}

// New uploads m's vertex and index data through queue.
func New(device hal.Device, queue hal.Queue, m *mesh.Mesh) (*Mesh, error) {
	if m == nil {
		return nil, ErrNilMesh
	}
	if len(m.Submeshes) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSubmesh, m.Name)
	}
	layout, err := VertexLayout(m.VertexDescriptor)
	if err != nil {
		return nil, err
	}

	g := &Mesh{
		device:      device,
		name:        m.Name,
		layout:      layout,
		vertexCount: uint32(m.VertexCount()), //nolint:gosec // Generate bounds vertex count to uint32
	}

	for i := range m.VertexDescriptor.Layouts {
		data, err := m.VertexData(i)
		if err != nil {
			g.Destroy()
			return nil, err
		}
		label := fmt.Sprintf("%s_vertices_%d", m.Name, i)
		buf, err := upload(device, queue, label, data, gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			g.Destroy()
			return nil, err
		}
		g.vertexBuffers = append(g.vertexBuffers, buf)
		logging.Logger().Debug("gpumesh: vertex buffer", "label", label, "bytes", len(data))
	}

	for i := range m.Submeshes {
		sm := &m.Submeshes[i]
		indexBuf, err := upload(device, queue, sm.Name+"_indices", sm.IndexData(), gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			g.Destroy()
			return nil, err
		}
		edges := sm.EdgeIndices()
		edgeBuf, err := upload(device, queue, sm.Name+"_edges", sm.EdgeData(), gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			device.DestroyBuffer(indexBuf)
			g.Destroy()
			return nil, err
		}
		g.submeshes = append(g.submeshes, Submesh{
			Name:           sm.Name,
			IndexBuffer:    indexBuf,
			IndexCount:     uint32(sm.IndexCount()), //nolint:gosec // index lists stay below 2^32
			IndexFormat:    IndexFormat(sm.IndexType),
			EdgeBuffer:     edgeBuf,
			EdgeIndexCount: uint32(len(edges)), //nolint:gosec // twice the index count
		})
		logging.Logger().Debug("gpumesh: index buffer", "submesh", sm.Name,
			"indices", sm.IndexCount(), "format", sm.IndexType)
	}
	return g, nil
}

// upload creates a buffer and writes data to it. The size is rounded up to
// 4 bytes because buffer writes must be 4-byte aligned.
func upload(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	if pad := len(data) % 4; pad != 0 {
		data = append(data, make([]byte, 4-pad)...)
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Name returns the source mesh name.
func (g *Mesh) Name() string { return g.name }

// VertexBuffers returns one buffer per vertex layout, indexed by buffer slot.
func (g *Mesh) VertexBuffers() []hal.Buffer { return g.vertexBuffers }

// Layout returns the vertex buffer layouts describing VertexBuffers.
func (g *Mesh) Layout() []gputypes.VertexBufferLayout { return g.layout }

// Submeshes returns the uploaded submeshes.
func (g *Mesh) Submeshes() []Submesh { return g.submeshes }

// VertexCount returns the number of vertices.
func (g *Mesh) VertexCount() uint32 { return g.vertexCount }

// Destroy releases all buffers. Safe to call more than once.
func (g *Mesh) Destroy() {
	if g == nil || g.device == nil {
		return
	}
	for _, buf := range g.vertexBuffers {
		g.device.DestroyBuffer(buf)
	}
	for _, sm := range g.submeshes {
		g.device.DestroyBuffer(sm.IndexBuffer)
		g.device.DestroyBuffer(sm.EdgeBuffer)
	}
	g.vertexBuffers = nil
	g.submeshes = nil
}

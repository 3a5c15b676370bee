// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package frame

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellomesh/gpumesh"
	"github.com/gogpu/hellomesh/pipeline"
)

var (
	// ErrNoPipeline is returned by DrawIndexed before SetPipeline.
	ErrNoPipeline = errors.New("frame: no pipeline set")

	// ErrNoVertexBuffer is returned by DrawIndexed when slot 0 is unbound.
	ErrNoVertexBuffer = errors.New("frame: no vertex buffer bound")

	// ErrEncoderEnded is returned when a render encoder is used after its
	// pass ended.
	ErrEncoderEnded = errors.New("frame: render encoder already ended")
)

// DrawCall records one indexed draw.
type DrawCall struct {
	Submesh string
	Mode    pipeline.FillMode

	// IndexCount is the triangle index count of the submesh.
	IndexCount uint32

	// Indices is the number of indices submitted: IndexCount for solid
	// fill, the edge index count for lines.
	Indices     uint32
	IndexFormat gputypes.IndexFormat
}

// RenderEncoder records commands into one render pass.
type RenderEncoder struct {
	pass     hal.RenderPassEncoder
	state    *pipeline.State
	mode     pipeline.FillMode
	vertices map[uint32]hal.Buffer
	draws    []DrawCall
	ended    bool
}

// SetPipeline binds s for subsequent draws.
func (e *RenderEncoder) SetPipeline(s *pipeline.State) error {
	if e.ended {
		return ErrEncoderEnded
	}
	if s == nil {
		return ErrNoPipeline
	}
	e.state = s
	return e.bindPipeline()
}

// SetTriangleFillMode selects solid or wireframe rasterization.
func (e *RenderEncoder) SetTriangleFillMode(mode pipeline.FillMode) error {
	if e.ended {
		return ErrEncoderEnded
	}
	e.mode = mode
	if e.state == nil {
		return nil
	}
	return e.bindPipeline()
}

func (e *RenderEncoder) bindPipeline() error {
	p, err := e.state.Pipeline(e.mode)
	if err != nil {
		return err
	}
	e.pass.SetPipeline(p)
	return nil
}

// SetVertexBuffer binds buf to slot.
func (e *RenderEncoder) SetVertexBuffer(slot uint32, buf hal.Buffer) error {
	if e.ended {
		return ErrEncoderEnded
	}
	if buf == nil {
		return fmt.Errorf("%w: slot %d", ErrNoVertexBuffer, slot)
	}
	if e.vertices == nil {
		e.vertices = make(map[uint32]hal.Buffer)
	}
	e.vertices[slot] = buf
	e.pass.SetVertexBuffer(slot, buf, 0)
	return nil
}

// SetMesh binds every vertex buffer of m to its slot.
func (e *RenderEncoder) SetMesh(m *gpumesh.Mesh) error {
	for i, buf := range m.VertexBuffers() {
		if err := e.SetVertexBuffer(uint32(i), buf); err != nil { //nolint:gosec // slot count is small
			return err
		}
	}
	return nil
}

// DrawIndexed draws sm with the current fill mode.
func (e *RenderEncoder) DrawIndexed(sm gpumesh.Submesh) error {
	if e.ended {
		return ErrEncoderEnded
	}
	if e.state == nil {
		return ErrNoPipeline
	}
	if e.vertices[0] == nil {
		return ErrNoVertexBuffer
	}

	buf, count := sm.IndexBuffer, sm.IndexCount
	if e.mode == pipeline.FillLines {
		buf, count = sm.EdgeBuffer, sm.EdgeIndexCount
	}
	if buf == nil {
		return fmt.Errorf("frame: submesh %q has no %v index buffer", sm.Name, e.mode)
	}
	e.pass.SetIndexBuffer(buf, sm.IndexFormat, 0)
	e.pass.DrawIndexed(count, 1, 0, 0, 0)
	e.draws = append(e.draws, DrawCall{
		Submesh:     sm.Name,
		Mode:        e.mode,
		IndexCount:  sm.IndexCount,
		Indices:     count,
		IndexFormat: sm.IndexFormat,
	})
	return nil
}

// Draws returns the number of draws recorded in this pass.
func (e *RenderEncoder) Draws() int { return len(e.draws) }

func (e *RenderEncoder) end() {
	if e.ended {
		return
	}
	e.pass.End()
	e.ended = true
}

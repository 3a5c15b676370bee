// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellomesh/internal/logging"
	"github.com/gogpu/hellomesh/shader"
)

// State is a compiled render pipeline with one variant per fill mode.
// It is immutable once New returns.
type State struct {
	device hal.Device

	label       string
	colorFormat gputypes.TextureFormat
	module      hal.ShaderModule
	layout      hal.PipelineLayout
	pipelines   [len(fillModes)]hal.RenderPipeline
}

// New validates d and creates the shader module, pipeline layout and a
// render pipeline for every fill mode. Nothing is left allocated when it
// fails.
func New(device hal.Device, d Descriptor) (*State, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	label := d.Label
	if label == "" {
		label = d.Vertex.Library().Label
	}

	s := &State{device: device, label: label, colorFormat: d.ColorFormat}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: moduleSource(d.Vertex.Library()),
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module %s: %w", label, err)
	}
	s.module = module

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_layout",
		BindGroupLayouts: []hal.BindGroupLayout{},
	})
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("create pipeline layout %s: %w", label, err)
	}
	s.layout = layout

	for _, mode := range fillModes {
		p, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  fmt.Sprintf("%s_%v", label, mode),
			Layout: s.layout,
			Vertex: hal.VertexState{
				Module:     s.module,
				EntryPoint: d.Vertex.Name,
				Buffers:    d.Buffers,
			},
			Fragment: &hal.FragmentState{
				Module:     s.module,
				EntryPoint: d.Fragment.Name,
				Targets: []gputypes.ColorTargetState{
					{
						Format:    d.ColorFormat,
						WriteMask: gputypes.ColorWriteMaskAll,
					},
				},
			},
			Primitive: gputypes.PrimitiveState{
				Topology: mode.Topology(),
				CullMode: gputypes.CullModeNone,
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("create %v pipeline %s: %w", mode, label, err)
		}
		s.pipelines[mode] = p
	}
	logging.Logger().Debug("pipeline: created", "label", label,
		"vertex", d.Vertex.Name, "fragment", d.Fragment.Name, "format", d.ColorFormat)
	return s, nil
}

// moduleSource prefers precompiled SPIR-V and falls back to WGSL.
func moduleSource(lib *shader.Library) hal.ShaderSource {
	if len(lib.SPIRV) > 0 {
		return hal.ShaderSource{SPIRV: lib.Words()}
	}
	return hal.ShaderSource{WGSL: lib.Source}
}

// Label returns the pipeline label.
func (s *State) Label() string { return s.label }

// ColorFormat returns the color attachment format the pipeline renders to.
func (s *State) ColorFormat() gputypes.TextureFormat { return s.colorFormat }

// Pipeline returns the render pipeline for mode.
func (s *State) Pipeline(mode FillMode) (hal.RenderPipeline, error) {
	if mode < 0 || int(mode) >= len(s.pipelines) || s.pipelines[mode] == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFillMode, mode)
	}
	return s.pipelines[mode], nil
}

// Destroy releases GPU objects in reverse creation order. Safe to call
// more than once.
func (s *State) Destroy() {
	if s == nil || s.device == nil {
		return
	}
	for i := len(s.pipelines) - 1; i >= 0; i-- {
		if s.pipelines[i] != nil {
			s.device.DestroyRenderPipeline(s.pipelines[i])
			s.pipelines[i] = nil
		}
	}
	if s.layout != nil {
		s.device.DestroyPipelineLayout(s.layout)
		s.layout = nil
	}
	if s.module != nil {
		s.device.DestroyShaderModule(s.module)
		s.module = nil
	}
}

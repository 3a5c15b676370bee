// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package surface

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellomesh/frame"
)

// ViewSource supplies the texture view of the host's current frame, for
// example a window swapchain image.
type ViewSource func() (view hal.TextureView, width, height uint32)

// Hosted renders into views owned by a host application. The host presents
// them after Commit; Hosted only records that a frame was handed over.
type Hosted struct {
	format   gputypes.TextureFormat
	source   ViewSource
	presents int
}

var _ frame.Surface = (*Hosted)(nil)

// NewHosted returns a surface drawing into the views returned by source.
func NewHosted(format gputypes.TextureFormat, source ViewSource) *Hosted {
	return &Hosted{format: format, source: source}
}

// Format returns the host's surface format.
func (h *Hosted) Format() gputypes.TextureFormat { return h.format }

// NextDrawable asks the host for its current view.
func (h *Hosted) NextDrawable() (frame.Drawable, error) {
	if h.source == nil {
		return nil, frame.ErrNoDrawable
	}
	view, w, hgt := h.source()
	if view == nil {
		return nil, frame.ErrNoDrawable
	}
	return &hostedDrawable{surface: h, view: view, width: w, height: hgt}, nil
}

// Presents returns the number of frames handed to the host.
func (h *Hosted) Presents() int { return h.presents }

type hostedDrawable struct {
	surface       *Hosted
	view          hal.TextureView
	width, height uint32
}

func (d *hostedDrawable) View() hal.TextureView { return d.view }
func (d *hostedDrawable) Size() (width, height uint32) { return d.width, d.height }
func (d *hostedDrawable) Schedule(hal.CommandEncoder) error { return nil }

// Present leaves synchronization to the host's own presentation.
func (d *hostedDrawable) Present(frame.Submission) error {
	d.surface.presents++
	return nil
}

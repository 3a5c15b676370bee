// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package frame records, submits and presents a single frame.
//
// A frame follows a fixed order:
//
//	Begin -> Encode (one or more render passes) -> Present -> Commit -> Close
//
// Begin acquires the drawable and opens a command encoder. Encode runs a
// render pass and always ends it, even when the callback fails. Present
// schedules the drawable, Commit ends encoding and submits the command
// buffer without waiting. Draws recorded before Present reach the drawable
// first because the queue executes commands in submission order.
package frame

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellomesh/internal/logging"
)

// SignalValue is the fence value signaled when a frame's commands finish.
const SignalValue = 1

// WaitTimeout bounds how long Close and offscreen drawables wait for the GPU.
const WaitTimeout = 5 * time.Second

var (
	// ErrNoDrawable is returned when the surface has no drawable to render into.
	ErrNoDrawable = errors.New("frame: no drawable available")

	// ErrFrameState is returned when a frame operation is called out of order.
	ErrFrameState = errors.New("frame: operation not valid in current state")

	// ErrGPUTimeout is returned when the GPU does not signal the frame fence.
	ErrGPUTimeout = errors.New("frame: timed out waiting for GPU")
)

// Surface hands out drawables to render into.
type Surface interface {
	// Format returns the pixel format of the drawables.
	Format() gputypes.TextureFormat

	// NextDrawable returns the drawable for the next frame.
	NextDrawable() (Drawable, error)
}

// Drawable is a render target that can be presented.
type Drawable interface {
	// View is the color attachment of the render pass.
	View() hal.TextureView

	// Size returns the drawable size in pixels.
	Size() (width, height uint32)

	// Schedule records any commands presentation needs (for example a
	// copy to a staging buffer). It runs after all render passes.
	Schedule(encoder hal.CommandEncoder) error

	// Present is called once the frame's command buffer is submitted.
	Present(sub Submission) error
}

// Submission identifies a submitted command buffer.
type Submission struct {
	Device hal.Device
	Queue  hal.Queue

	// Fence reaches SignalValue when the commands complete.
	Fence hal.Fence
}

// Wait blocks until the submission completes or WaitTimeout elapses.
func (s Submission) Wait() error {
	ok, err := s.Device.Wait(s.Fence, SignalValue, WaitTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return ErrGPUTimeout
	}
	return nil
}

type state int

const (
	stateEncoding state = iota
	stateScheduled
	stateCommitted
	stateDone
)

// Option configures Begin.
type Option func(*options)

type options struct {
	clear gputypes.Color
	label string
}

// WithClearColor sets the color the first render pass clears to.
// Defaults to opaque black.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithLabel sets the debug label of the frame's GPU objects.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// Frame is one frame being recorded. It is used from a single goroutine.
type Frame struct {
	device hal.Device
	queue  hal.Queue

	label    string
	clear    gputypes.Color
	drawable Drawable
	encoder  hal.CommandEncoder
	passes   int
	draws    []DrawCall

	presented Drawable
	cmd       hal.CommandBuffer
	fence     hal.Fence
	state     state
}

// Begin acquires the next drawable from surface and starts encoding.
func Begin(device hal.Device, queue hal.Queue, surface Surface, opts ...Option) (*Frame, error) {
	o := options{
		clear: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		label: "frame",
	}
	for _, opt := range opts {
		opt(&o)
	}

	drawable, err := surface.NextDrawable()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDrawable, err)
	}
	if drawable == nil || drawable.View() == nil {
		return nil, ErrNoDrawable
	}

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: o.label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(o.label); err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	return &Frame{
		device:   device,
		queue:    queue,
		label:    o.label,
		clear:    o.clear,
		drawable: drawable,
		encoder:  encoder,
	}, nil
}

// Drawable returns the drawable acquired by Begin.
func (f *Frame) Drawable() Drawable { return f.drawable }

// Encode runs fn inside a render pass targeting the drawable. The first
// pass clears the drawable, later passes load it. The pass is ended on
// every return path.
func (f *Frame) Encode(fn func(*RenderEncoder) error) (err error) {
	if f.state != stateEncoding {
		return fmt.Errorf("%w: encode after present", ErrFrameState)
	}

	load := gputypes.LoadOpClear
	if f.passes > 0 {
		load = gputypes.LoadOpLoad
	}
	f.passes++
	pass := f.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: fmt.Sprintf("%s_pass_%d", f.label, f.passes),
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       f.drawable.View(),
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: f.clear,
		}},
	})

	re := &RenderEncoder{pass: pass}
	defer func() {
		re.end()
		f.draws = append(f.draws, re.draws...)
	}()
	return fn(re)
}

// Present schedules d to be shown once the frame's commands complete.
func (f *Frame) Present(d Drawable) error {
	if f.state != stateEncoding {
		return fmt.Errorf("%w: present called twice or after commit", ErrFrameState)
	}
	if d == nil {
		return ErrNoDrawable
	}
	if err := d.Schedule(f.encoder); err != nil {
		return fmt.Errorf("schedule present: %w", err)
	}
	f.presented = d
	f.state = stateScheduled
	return nil
}

// Commit ends encoding and submits the command buffer. It does not wait
// for the GPU; the presented drawable is handed the submission.
func (f *Frame) Commit() error {
	if f.state != stateEncoding && f.state != stateScheduled {
		return fmt.Errorf("%w: commit called twice", ErrFrameState)
	}
	cmd, err := f.encoder.EndEncoding()
	if err != nil {
		f.state = stateDone
		return fmt.Errorf("end encoding: %w", err)
	}
	f.cmd = cmd

	fence, err := f.device.CreateFence()
	if err != nil {
		f.release()
		return fmt.Errorf("create fence: %w", err)
	}
	f.fence = fence

	if err := f.queue.Submit([]hal.CommandBuffer{cmd}, fence, SignalValue); err != nil {
		f.release()
		return fmt.Errorf("submit: %w", err)
	}
	f.state = stateCommitted
	logging.Logger().Debug("frame: committed", "label", f.label, "passes", f.passes, "draws", len(f.draws))

	if f.presented != nil {
		if err := f.presented.Present(f.submission()); err != nil {
			return fmt.Errorf("present: %w", err)
		}
	}
	return nil
}

func (f *Frame) submission() Submission {
	return Submission{Device: f.device, Queue: f.queue, Fence: f.fence}
}

// Discard abandons an uncommitted frame.
func (f *Frame) Discard() {
	if f.state == stateEncoding || f.state == stateScheduled {
		f.encoder.DiscardEncoding()
		f.state = stateDone
	}
}

// Close waits for a committed frame to finish and releases its command
// buffer and fence. An uncommitted frame is discarded. Safe to call more
// than once.
func (f *Frame) Close() error {
	switch f.state {
	case stateEncoding, stateScheduled:
		f.Discard()
		return nil
	case stateCommitted:
		err := f.submission().Wait()
		f.release()
		return err
	default:
		return nil
	}
}

func (f *Frame) release() {
	if f.cmd != nil {
		f.device.FreeCommandBuffer(f.cmd)
		f.cmd = nil
	}
	if f.fence != nil {
		f.device.DestroyFence(f.fence)
		f.fence = nil
	}
	f.state = stateDone
}

// Draws returns the number of draw calls recorded.
func (f *Frame) Draws() int { return len(f.draws) }

// DrawCalls returns the recorded draw calls in order.
func (f *Frame) DrawCalls() []DrawCall { return f.draws }

// Passes returns the number of render passes encoded.
func (f *Frame) Passes() int { return f.passes }

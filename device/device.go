// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package device acquires the GPU device and command queue used for
// rendering.
//
// A Device is either opened from a wgpu/hal backend (Acquire) or borrowed
// from a host application through gpucontext (FromProvider). Either way the
// caller receives a non-nil hal.Device and hal.Queue, or an error with
// nothing left allocated.
package device

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellomesh/internal/logging"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

var (
	// ErrNoBackend is returned when the requested hal backend is not registered.
	ErrNoBackend = errors.New("device: GPU backend not available")

	// ErrNoAdapter is returned when the backend exposes no adapters.
	ErrNoAdapter = errors.New("device: no GPU adapters found")

	// ErrNoQueue is returned when the opened device has no queue.
	ErrNoQueue = errors.New("device: could not create a command queue")

	// ErrNotHalProvider is returned by FromProvider when the provider does
	// not expose hal.Device and hal.Queue.
	ErrNotHalProvider = errors.New("device: provider does not expose HAL device and queue")
)

// Backend creates hal instances. hal backends returned by hal.GetBackend and
// the noop backend used in tests both satisfy it.
type Backend interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Device is an open GPU device and its queue.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	name     string
	hardware bool
	format   gputypes.TextureFormat

	// external is true when the device is borrowed from a host and must
	// not be destroyed here.
	external bool
}

// Option configures Acquire.
type Option func(*options)

type options struct {
	backend     Backend
	backendType gputypes.Backend
	format      gputypes.TextureFormat
}

func defaultOptions() options {
	return options{
		backendType: gputypes.BackendVulkan,
		format:      gputypes.TextureFormatBGRA8Unorm,
	}
}

// WithBackend uses b instead of looking up a registered backend.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithBackendType selects which registered hal backend to use.
// Defaults to Vulkan.
func WithBackendType(t gputypes.Backend) Option {
	return func(o *options) {
		o.backendType = t
	}
}

// WithSurfaceFormat sets the pixel format reported by SurfaceFormat.
// Defaults to BGRA8Unorm.
func WithSurfaceFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}

// Acquire opens one GPU device and its queue. Discrete and integrated GPUs
// are preferred over other adapter types.
func Acquire(opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	backend := o.backend
	if backend == nil {
		b, ok := hal.GetBackend(o.backendType)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrNoBackend, o.backendType)
		}
		backend = b
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected, hardware := selectAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	if openDev.Device == nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", ErrNoAdapter)
	}
	if openDev.Queue == nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, ErrNoQueue
	}

	d := &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
		hardware: hardware,
		format:   o.format,
	}
	logging.Logger().Info("device: GPU selected", "name", d.name, "hardware", hardware)
	return d, nil
}

// selectAdapter returns the first discrete or integrated GPU, falling back
// to the first adapter.
func selectAdapter(adapters []hal.ExposedAdapter) (*hal.ExposedAdapter, bool) {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i], true
		}
	}
	return &adapters[0], false
}

// HAL returns the hal device.
func (d *Device) HAL() hal.Device { return d.device }

// Queue returns the command queue bound to the device.
func (d *Device) Queue() hal.Queue { return d.queue }

// Name returns the adapter name.
func (d *Device) Name() string { return d.name }

// Hardware reports whether a discrete or integrated GPU was selected.
func (d *Device) Hardware() bool { return d.hardware }

// SurfaceFormat returns the pixel format render targets should use.
func (d *Device) SurfaceFormat() gputypes.TextureFormat { return d.format }

// External reports whether the device is borrowed from a host.
func (d *Device) External() bool { return d.external }

// Destroy releases the device and instance. Borrowed devices are left
// alone. Safe to call more than once.
func (d *Device) Destroy() {
	if d == nil {
		return
	}
	if !d.external {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package device

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellomesh/internal/logging"
)

// halProvider is implemented by host device providers (for example gogpu)
// that give direct access to the HAL objects behind gpucontext.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// FromProvider borrows the device and queue of a host application. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. The returned Device does not destroy them.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	if provider == nil {
		return nil, ErrNotHalProvider
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHalProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNotHalProvider, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoQueue, hp.HalQueue())
	}

	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	logging.Logger().Info("device: using host GPU device", "format", format)
	return &Device{
		device:   device,
		queue:    queue,
		name:     "host",
		hardware: true,
		format:   format,
		external: true,
	}, nil
}

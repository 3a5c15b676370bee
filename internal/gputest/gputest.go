// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gputest provides GPU fixtures backed by the wgpu/hal noop backend.
package gputest

import (
	"testing"

	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/hellomesh/device"
)

// Backend returns the noop hal backend.
func Backend() device.Backend { return &noop.API{} }

// Device opens a noop device and registers its cleanup with t.
func Device(t testing.TB) *device.Device {
	t.Helper()
	d, err := device.Acquire(device.WithBackend(Backend()))
	if err != nil {
		t.Fatalf("acquire noop device: %v", err)
	}
	t.Cleanup(d.Destroy)
	return d
}

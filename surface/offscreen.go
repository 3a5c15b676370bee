// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package surface provides render targets for frames: an offscreen texture
// read back to memory, and a view owned by a host window.
package surface

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellomesh/frame"
	"github.com/gogpu/hellomesh/internal/logging"
)

// copyPitchAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

var (
	// ErrUnsupportedFormat is returned for pixel formats that cannot be
	// read back into an RGBA image.
	ErrUnsupportedFormat = errors.New("surface: unsupported pixel format")

	// ErrInvalidSize is returned for a zero width or height.
	ErrInvalidSize = errors.New("surface: width and height must be positive")

	// ErrNoFrame is returned by Image before any frame has been presented.
	ErrNoFrame = errors.New("surface: no frame presented yet")
)

// Offscreen renders into a GPU texture and reads every presented frame
// back into an image. It is both the surface and its only drawable.
type Offscreen struct {
	device hal.Device

	width, height uint32
	format        gputypes.TextureFormat
	texture       hal.Texture
	view          hal.TextureView
	staging       hal.Buffer

	bytesPerRow        uint32
	alignedBytesPerRow uint32

	image    *image.RGBA
	presents int
}

var (
	_ frame.Surface  = (*Offscreen)(nil)
	_ frame.Drawable = (*Offscreen)(nil)
)

// NewOffscreen creates a width x height render target in format, which must
// be BGRA8Unorm or RGBA8Unorm.
func NewOffscreen(device hal.Device, width, height uint32, format gputypes.TextureFormat) (*Offscreen, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if format != gputypes.TextureFormatBGRA8Unorm && format != gputypes.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	o := &Offscreen{
		device:      device,
		width:       width,
		height:      height,
		format:      format,
		bytesPerRow: width * 4,
	}
	o.alignedBytesPerRow = (o.bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_color",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create offscreen texture: %w", err)
	}
	o.texture = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "offscreen_color_view",
	})
	if err != nil {
		o.Destroy()
		return nil, fmt.Errorf("create offscreen view: %w", err)
	}
	o.view = view

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "offscreen_staging",
		Size:  uint64(o.alignedBytesPerRow) * uint64(height),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		o.Destroy()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	o.staging = staging

	logging.Logger().Debug("surface: offscreen target", "width", width, "height", height, "format", format)
	return o, nil
}

// Format returns the texture format.
func (o *Offscreen) Format() gputypes.TextureFormat { return o.format }

// NextDrawable returns the offscreen target itself.
func (o *Offscreen) NextDrawable() (frame.Drawable, error) {
	if o.view == nil {
		return nil, frame.ErrNoDrawable
	}
	return o, nil
}

// View returns the color attachment view.
func (o *Offscreen) View() hal.TextureView { return o.view }

// Size returns the target size in pixels.
func (o *Offscreen) Size() (width, height uint32) { return o.width, o.height }

// Schedule copies the rendered texture into the staging buffer.
func (o *Offscreen) Schedule(encoder hal.CommandEncoder) error {
	if o.texture == nil {
		return frame.ErrNoDrawable
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: o.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(o.texture, o.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: o.alignedBytesPerRow, RowsPerImage: o.height},
		TextureBase:  hal.ImageCopyTexture{Texture: o.texture, MipLevel: 0},
		Size:         hal.Extent3D{Width: o.width, Height: o.height, DepthOrArrayLayers: 1},
	}})
	// Back to RenderAttachment so the next frame's pass starts from the
	// expected layout.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: o.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	return nil
}

// Present waits for the frame and reads the pixels back.
func (o *Offscreen) Present(sub frame.Submission) error {
	if err := sub.Wait(); err != nil {
		return err
	}
	readback := make([]byte, uint64(o.alignedBytesPerRow)*uint64(o.height))
	if err := sub.Queue.ReadBuffer(o.staging, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(o.width), int(o.height)))
	for row := 0; row < int(o.height); row++ {
		src := readback[row*int(o.alignedBytesPerRow) : row*int(o.alignedBytesPerRow)+int(o.bytesPerRow)]
		dst := img.Pix[row*img.Stride : row*img.Stride+int(o.bytesPerRow)]
		copy(dst, src)
		if o.format == gputypes.TextureFormatBGRA8Unorm {
			swapRedBlue(dst)
		}
	}
	o.image = img
	o.presents++
	return nil
}

// swapRedBlue converts BGRA pixels to RGBA in place.
func swapRedBlue(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

// Presents returns the number of frames presented.
func (o *Offscreen) Presents() int { return o.presents }

// Image returns the most recently presented frame.
func (o *Offscreen) Image() (*image.RGBA, error) {
	if o.image == nil {
		return nil, ErrNoFrame
	}
	return o.image, nil
}

// Destroy releases the texture, view and staging buffer. Safe to call more
// than once.
func (o *Offscreen) Destroy() {
	if o == nil || o.device == nil {
		return
	}
	if o.staging != nil {
		o.device.DestroyBuffer(o.staging)
		o.staging = nil
	}
	if o.view != nil {
		o.device.DestroyTextureView(o.view)
		o.view = nil
	}
	if o.texture != nil {
		o.device.DestroyTexture(o.texture)
		o.texture = nil
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package surface

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/hellomesh/internal/logging"
)

// ImageFormat is a snapshot file format.
type ImageFormat string

const (
	PNG  ImageFormat = "png"
	BMP  ImageFormat = "bmp"
	TIFF ImageFormat = "tiff"
)

// FormatForPath picks the snapshot format from a file extension.
func FormatForPath(path string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("%w: snapshot %q", ErrUnsupportedFormat, path)
	}
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f ImageFormat) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Save writes the last presented frame to path. The format follows the
// extension: .png, .bmp, .tif or .tiff.
func (o *Offscreen) Save(path string) (err error) {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	img, err := o.Image()
	if err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := Encode(f, img, format); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	logging.Logger().Info("surface: snapshot saved", "path", path, "format", format)
	return nil
}

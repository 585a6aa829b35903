// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package crt

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned for an unusable format description.
var ErrInvalidFormat = errors.New("crt: invalid format description")

// maxFrameDimension bounds frame sides; larger frames cannot be dispatched
// as a single grid on common GPUs.
const maxFrameDimension = 16384

// PixelFormat is the byte order of a frame's pixels. Both formats use four
// 8-bit channels with straight (non-premultiplied) alpha.
type PixelFormat uint8

const (
	// PixelFormatBGRA8 is the camera capture format.
	PixelFormatBGRA8 PixelFormat = iota
	// PixelFormatRGBA8 is the format shaders read and write.
	PixelFormatRGBA8
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatBGRA8:
		return "BGRA8"
	case PixelFormatRGBA8:
		return "RGBA8"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint8(f))
	}
}

// BytesPerPixel returns 4 for every supported format.
func (f PixelFormat) BytesPerPixel() int { return 4 }

// FormatDescription describes the frames a renderer accepts or produces.
type FormatDescription struct {
	Width       int
	Height      int
	PixelFormat PixelFormat
}

// Validate reports whether the description can back a frame.
func (d FormatDescription) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidFormat, d.Width, d.Height)
	}
	if d.Width > maxFrameDimension || d.Height > maxFrameDimension {
		return fmt.Errorf("%w: size %dx%d exceeds %d", ErrInvalidFormat, d.Width, d.Height, maxFrameDimension)
	}
	if d.PixelFormat != PixelFormatBGRA8 && d.PixelFormat != PixelFormatRGBA8 {
		return fmt.Errorf("%w: pixel format %v", ErrInvalidFormat, d.PixelFormat)
	}
	return nil
}

// String formats the description as WxH/FORMAT.
func (d FormatDescription) String() string {
	return fmt.Sprintf("%dx%d/%v", d.Width, d.Height, d.PixelFormat)
}

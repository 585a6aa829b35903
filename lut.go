// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package crt

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"

	"github.com/gogpu/crt/internal/kernel"
	"github.com/gogpu/crt/shadertypes"
)

// ErrInvalidLUT is returned for an image that is not a lookup table.
var ErrInvalidLUT = errors.New("crt: invalid colour lookup table")

// LUT is a 3D colour lookup table stored as a 2D image of blue slices.
//
// Two layouts are accepted:
//   - square: an N x N image of across x across tiles, each tile a
//     levels x levels red/green slice, with levels = across^2 (so
//     levels = cbrt(N^2)); the common 512x512 image holds 64 levels
//   - strip: a levels^2 x levels image with the slices side by side
type LUT struct {
	width, height int
	levels        int
	pix           []byte // RGBA
}

// ParseLUT validates img as a lookup table.
func ParseLUT(img image.Image) (*LUT, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	layout, ok := kernel.LayoutOf(w, h)
	if !ok {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidLUT)
	}
	switch {
	case w == h:
		if layout.Across*layout.Across*layout.Across != w {
			return nil, fmt.Errorf("%w: square side %d is not a cube", ErrInvalidLUT, w)
		}
	case w != h*h:
		return nil, fmt.Errorf("%w: %dx%d is neither square nor a %dx%d strip", ErrInvalidLUT, w, h, h*h, h)
	}
	if layout.Levels < 2 {
		return nil, fmt.Errorf("%w: %d levels", ErrInvalidLUT, layout.Levels)
	}
	f := FrameFromImage(img, PixelFormatRGBA8)
	return &LUT{width: w, height: h, levels: layout.Levels, pix: f.data}, nil
}

// DecodeLUT decodes an encoded image and validates it as a lookup table.
func DecodeLUT(data []byte) (*LUT, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLUT, err)
	}
	return ParseLUT(img)
}

// LoadLUT reads a lookup table image file.
func LoadLUT(path string) (*LUT, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("crt: load LUT: %w", err)
	}
	return DecodeLUT(data)
}

// IdentityLUT returns a table that maps every colour to itself. Perfect
// square level counts use the square layout, others the strip layout.
func IdentityLUT(levels int) (*LUT, error) {
	if levels < 2 || levels > 256 {
		return nil, fmt.Errorf("%w: %d levels", ErrInvalidLUT, levels)
	}
	across := int(math.Round(math.Sqrt(float64(levels))))
	w, h := levels*levels, levels
	if across*across == levels && across > 1 {
		w, h = levels*across, levels*across
	} else {
		across = levels
	}

	l := &LUT{width: w, height: h, levels: levels, pix: make([]byte, w*h*4)}
	last := float64(levels - 1)
	for b := range levels {
		ox, oy := (b%across)*levels, (b/across)*levels
		for g := range levels {
			for r := range levels {
				i := ((oy+g)*w + ox + r) * 4
				l.pix[i+0] = uint8(math.Round(float64(r) * 255 / last))
				l.pix[i+1] = uint8(math.Round(float64(g) * 255 / last))
				l.pix[i+2] = uint8(math.Round(float64(b) * 255 / last))
				l.pix[i+3] = 255
			}
		}
	}
	return l, nil
}

// Levels returns the number of samples per colour axis.
func (l *LUT) Levels() int { return l.levels }

// Width returns the width of the table image.
func (l *LUT) Width() int { return l.width }

// Height returns the height of the table image.
func (l *LUT) Height() int { return l.height }

// Texels returns the table as a shader texel buffer.
func (l *LUT) Texels() []byte {
	return shadertypes.EncodeTexels(l.width, l.height, l.pix)
}

// Frame returns a copy of the table image.
func (l *LUT) Frame() *Frame {
	f := NewFrame(l.width, l.height, PixelFormatRGBA8)
	copy(f.data, l.pix)
	return f
}

func (l *LUT) texture() *kernel.Texture {
	return &kernel.Texture{Width: l.width, Height: l.height, Pix: l.pix}
}

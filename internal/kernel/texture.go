// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import "github.com/gogpu/crt/shadertypes"

// Texture is an RGBA8 image, 4 bytes per pixel, row-major.
type Texture struct {
	Width, Height int
	Pix           []byte
}

// NewTexture allocates a zeroed texture.
func NewTexture(width, height int) *Texture {
	return &Texture{Width: width, Height: height, Pix: make([]byte, width*height*4)}
}

// TextureFromTexels decodes a texel buffer.
func TextureFromTexels(buf []byte) (*Texture, error) {
	w, h, pix, err := shadertypes.DecodeTexels(buf)
	if err != nil {
		return nil, err
	}
	return &Texture{Width: w, Height: h, Pix: pix}, nil
}

// Texels encodes the texture as a texel buffer.
func (t *Texture) Texels() []byte {
	return shadertypes.EncodeTexels(t.Width, t.Height, t.Pix)
}

// Load returns the normalised RGBA value at (x, y), like unpack_rgba in the
// shaders.
func (t *Texture) Load(x, y int) [4]float32 {
	i := (y*t.Width + x) * 4
	p := t.Pix[i : i+4]
	return [4]float32{
		float32(p[0]) / 255,
		float32(p[1]) / 255,
		float32(p[2]) / 255,
		float32(p[3]) / 255,
	}
}

// Store writes a normalised RGBA value at (x, y), like pack_rgba.
func (t *Texture) Store(x, y int, c [4]float32) {
	i := (y*t.Width + x) * 4
	t.Pix[i+0] = packChannel(c[0])
	t.Pix[i+1] = packChannel(c[1])
	t.Pix[i+2] = packChannel(c[2])
	t.Pix[i+3] = packChannel(c[3])
}

func packChannel(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

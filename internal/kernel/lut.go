// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/crt/shadertypes"
)

// Kernel processes one invocation of a compute grid.
type Kernel func(x, y int)

// ErrMissingBinding is returned when a required slot is empty.
var ErrMissingBinding = errors.New("kernel: required binding is missing")

// LutLayout describes how a 3D lookup table is laid out in a 2D texture.
type LutLayout struct {
	// Levels is the number of samples per colour axis.
	Levels int
	// Across is the number of blue slices per tile row.
	Across int
}

// LayoutOf returns the layout sample_lut derives from a texture size: a
// square texture of side across^3 with levels = across^2, otherwise a strip
// levels tiles wide and one tile high. ok is false for an empty texture.
func LayoutOf(width, height int) (l LutLayout, ok bool) {
	if width <= 0 || height <= 0 {
		return LutLayout{}, false
	}
	if width == height {
		across := int(math.Round(math.Pow(float64(width), 1.0/3.0)))
		return LutLayout{Levels: across * across, Across: across}, true
	}
	return LutLayout{Levels: height, Across: height}, true
}

type lutSampler struct {
	tex    *Texture
	layout LutLayout
}

func (s *lutSampler) fetch(x, y int) [3]float32 {
	c := s.tex.Load(x, y)
	return [3]float32{c[0], c[1], c[2]}
}

func (s *lutSampler) slice(ox, oy int, r, g float32, last int) [3]float32 {
	fr := r * float32(last)
	fg := g * float32(last)
	x0 := int(floor32(fr))
	y0 := int(floor32(fg))
	x1 := min(x0+1, last)
	y1 := min(y0+1, last)
	tx := fr - float32(x0)
	ty := fg - float32(y0)
	top := mix3(s.fetch(ox+x0, oy+y0), s.fetch(ox+x1, oy+y0), tx)
	bottom := mix3(s.fetch(ox+x0, oy+y1), s.fetch(ox+x1, oy+y1), tx)
	return mix3(top, bottom, ty)
}

func (s *lutSampler) sample(c [3]float32) [3]float32 {
	levels, across := s.layout.Levels, s.layout.Across
	last := levels - 1
	fb := c[2] * float32(last)
	b0 := int(floor32(fb))
	b1 := min(b0+1, last)
	s0 := s.slice((b0%across)*levels, (b0/across)*levels, c[0], c[1], last)
	s1 := s.slice((b1%across)*levels, (b1/across)*levels, c[0], c[1], last)
	return mix3(s0, s1, fb-float32(b0))
}

// LutFilter builds the cs_lut kernel from args. Input and output textures
// are required and must have the same size; the LUT slot may be empty.
func LutFilter(args *LutArgs) (Kernel, error) {
	in := args.Texture(shadertypes.TextureIndexInput)
	out := args.Texture(shadertypes.TextureIndexOutput)
	if in == nil || out == nil {
		return nil, fmt.Errorf("%w: input and output textures", ErrMissingBinding)
	}
	if in.Width != out.Width || in.Height != out.Height {
		return nil, fmt.Errorf("kernel: output %dx%d does not match input %dx%d",
			out.Width, out.Height, in.Width, in.Height)
	}

	intensity, err := shadertypes.DecodeScalar(args.Bytes(shadertypes.BufferIndexIntensity))
	if err != nil {
		return nil, fmt.Errorf("kernel: intensity: %w", err)
	}
	grain, err := shadertypes.DecodeScalar(args.Bytes(shadertypes.BufferIndexGrain))
	if err != nil {
		return nil, fmt.Errorf("kernel: grain: %w", err)
	}
	vignette, err := shadertypes.DecodeScalar(args.Bytes(shadertypes.BufferIndexVignette))
	if err != nil {
		return nil, fmt.Errorf("kernel: vignette: %w", err)
	}

	var sampler *lutSampler
	if lut := args.Texture(shadertypes.TextureIndexLut); lut != nil {
		if layout, ok := LayoutOf(lut.Width, lut.Height); ok {
			sampler = &lutSampler{tex: lut, layout: layout}
		}
	}

	w, h := in.Width, in.Height
	grainScale := grain * shadertypes.GrainAmplitude

	return func(x, y int) {
		if x >= w || y >= h {
			return
		}
		src := in.Load(x, y)
		rgb := [3]float32{src[0], src[1], src[2]}

		if sampler != nil {
			rgb = mix3(rgb, sampler.sample(rgb), intensity)
		}

		n := Noise(uint32(x), uint32(y)) * grainScale //nolint:gosec // grid coordinates are non-negative
		rgb = [3]float32{rgb[0] + n, rgb[1] + n, rgb[2] + n}

		u := (float32(x) + 0.5) / float32(w)
		v := (float32(y) + 0.5) / float32(h)
		du, dv := (u-0.5)*2, (v-0.5)*2
		d := float32(math.Sqrt(float64(du*du+dv*dv))) * 0.70710678
		shade := 1 - vignette*smoothstep(0.25, 1.0, d)
		rgb = [3]float32{rgb[0] * shade, rgb[1] * shade, rgb[2] * shade}

		out.Store(x, y, [4]float32{rgb[0], rgb[1], rgb[2], src[3]})
	}, nil
}

func floor32(v float32) float32 {
	return float32(math.Floor(float64(v)))
}

func mix3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0]*(1-t) + b[0]*t,
		a[1]*(1-t) + b[1]*t,
		a[2]*(1-t) + b[2]*t,
	}
}

func smoothstep(e0, e1, x float32) float32 {
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

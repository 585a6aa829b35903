// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"fmt"

	"github.com/gogpu/crt/shadertypes"
)

// PreviewMode selects the preview compute entry point.
type PreviewMode int

const (
	// ModeColor copies the frame unchanged (cs_preview_color).
	ModeColor PreviewMode = iota
	// ModeMonochrome writes Rec.709 luma (cs_preview_monochrome).
	ModeMonochrome
)

// EntryPoint returns the shader entry point implementing the mode.
func (m PreviewMode) EntryPoint() string {
	if m == ModeMonochrome {
		return shadertypes.EntryPreviewMonochrome
	}
	return shadertypes.EntryPreviewColor
}

// PreviewFilter builds the preview compute kernel from args.
func PreviewFilter(args *PreviewArgs, mode PreviewMode) (Kernel, error) {
	in := args.Texture(shadertypes.PreviewTextureIndexInput)
	out := args.Texture(shadertypes.PreviewTextureIndexOutput)
	if in == nil || out == nil {
		return nil, fmt.Errorf("%w: preview input and output textures", ErrMissingBinding)
	}
	if in.Width != out.Width || in.Height != out.Height {
		return nil, fmt.Errorf("kernel: preview output %dx%d does not match input %dx%d",
			out.Width, out.Height, in.Width, in.Height)
	}
	w, h := in.Width, in.Height

	if mode == ModeMonochrome {
		return func(x, y int) {
			if x >= w || y >= h {
				return
			}
			c := in.Load(x, y)
			l := 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
			out.Store(x, y, [4]float32{l, l, l, c[3]})
		}, nil
	}
	return func(x, y int) {
		if x >= w || y >= h {
			return
		}
		i := (y*w + x) * 4
		copy(out.Pix[i:i+4], in.Pix[i:i+4])
	}, nil
}

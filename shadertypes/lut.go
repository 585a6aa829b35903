// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadertypes

import "fmt"

// TextureIndex is a texture bind slot of the LUT pipeline.
type TextureIndex uint32

// LUT pipeline texture slots.
const (
	// TextureIndexInput is the source image.
	TextureIndexInput TextureIndex = 0

	// TextureIndexOutput is the destination image.
	TextureIndexOutput TextureIndex = 1

	// TextureIndexLut is the colour lookup table.
	TextureIndexLut TextureIndex = 2
)

// String returns the slot name.
func (i TextureIndex) String() string {
	switch i {
	case TextureIndexInput:
		return "Input"
	case TextureIndexOutput:
		return "Output"
	case TextureIndexLut:
		return "Lut"
	default:
		return fmt.Sprintf("TextureIndex(%d)", uint32(i))
	}
}

// BufferIndex is a uniform-buffer bind slot of the LUT pipeline.
type BufferIndex uint32

// LUT pipeline parameter buffer slots.
const (
	// BufferIndexIntensity holds the LUT mix factor in [0, 1].
	BufferIndexIntensity BufferIndex = 0

	// BufferIndexGrain holds the film grain strength.
	BufferIndexGrain BufferIndex = 1

	// BufferIndexVignette holds the vignette strength.
	BufferIndexVignette BufferIndex = 2
)

// String returns the slot name.
func (i BufferIndex) String() string {
	switch i {
	case BufferIndexIntensity:
		return "Intensity"
	case BufferIndexGrain:
		return "Grain"
	case BufferIndexVignette:
		return "Vignette"
	default:
		return fmt.Sprintf("BufferIndex(%d)", uint32(i))
	}
}

// LutTextureIndices returns the LUT pipeline texture slots in slot order.
func LutTextureIndices() []TextureIndex {
	return []TextureIndex{TextureIndexInput, TextureIndexOutput, TextureIndexLut}
}

// LutBufferIndices returns the LUT pipeline buffer slots in slot order.
func LutBufferIndices() []BufferIndex {
	return []BufferIndex{BufferIndexIntensity, BufferIndexGrain, BufferIndexVignette}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import "github.com/gogpu/crt/shadertypes"

// maxSlots bounds every slot category of an argument table.
const maxSlots = 8

// Args is the argument table of one dispatch: textures addressed by T and
// byte buffers addressed by B.
type Args[T, B ~uint32] struct {
	textures [maxSlots]*Texture
	buffers  [maxSlots][]byte
}

// SetTexture binds t at idx.
func (a *Args[T, B]) SetTexture(idx T, t *Texture) {
	a.textures[idx] = t
}

// SetBytes binds a copy of b at idx.
func (a *Args[T, B]) SetBytes(idx B, b []byte) {
	a.buffers[idx] = append([]byte(nil), b...)
}

// Texture returns the texture bound at idx, or nil.
func (a *Args[T, B]) Texture(idx T) *Texture {
	return a.textures[idx]
}

// Bytes returns the buffer bound at idx, or nil.
func (a *Args[T, B]) Bytes(idx B) []byte {
	return a.buffers[idx]
}

// LutArgs is the argument table of the LUT pipeline.
type LutArgs = Args[shadertypes.TextureIndex, shadertypes.BufferIndex]

// PreviewArgs is the argument table of the preview pipeline.
type PreviewArgs = Args[shadertypes.PreviewTextureIndex, shadertypes.VertexIndex]

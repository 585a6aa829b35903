// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadertypes

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// TexelHeaderSize is the size of the width/height header of a texel buffer.
const TexelHeaderSize = 8

// ErrTexelBuffer is returned for a malformed texel buffer.
var ErrTexelBuffer = errors.New("shadertypes: malformed texel buffer")

// TexelBufferSize returns the byte size of a width x height texel buffer.
// Empty textures still occupy one texel so the buffer can be bound.
func TexelBufferSize(width, height int) int {
	n := width * height
	if n == 0 {
		n = 1
	}
	return TexelHeaderSize + n*4
}

// EncodeTexels packs RGBA8 pixels (4 bytes per pixel, row-major) into a
// texel buffer.
func EncodeTexels(width, height int, rgba []byte) []byte {
	buf := make([]byte, TexelBufferSize(width, height))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(width))  //nolint:gosec // texture sizes fit uint32
	binary.LittleEndian.PutUint32(buf[4:8], uint32(height)) //nolint:gosec // texture sizes fit uint32
	n := width * height
	for i := 0; i < n && i*4+3 < len(rgba); i++ {
		s := rgba[i*4 : i*4+4]
		packed := uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
		binary.LittleEndian.PutUint32(buf[TexelHeaderSize+i*4:], packed)
	}
	return buf
}

// DecodeTexels unpacks a texel buffer into its dimensions and RGBA8 pixels.
func DecodeTexels(buf []byte) (width, height int, rgba []byte, err error) {
	if len(buf) < TexelHeaderSize {
		return 0, 0, nil, fmt.Errorf("%w: %d bytes", ErrTexelBuffer, len(buf))
	}
	width = int(binary.LittleEndian.Uint32(buf[0:4]))
	height = int(binary.LittleEndian.Uint32(buf[4:8]))
	// Header fields are untrusted; size the pixel payload in uint64 so a
	// huge header cannot wrap past the length check.
	texels := uint64(width) * uint64(height)
	if texels > uint64(len(buf)-TexelHeaderSize)/4 {
		return 0, 0, nil, fmt.Errorf("%w: %dx%d texels in %d bytes",
			ErrTexelBuffer, width, height, len(buf))
	}
	n := int(texels) //nolint:gosec // bounded by len(buf) above
	rgba = make([]byte, n*4)
	for i := 0; i < n; i++ {
		packed := binary.LittleEndian.Uint32(buf[TexelHeaderSize+i*4:])
		rgba[i*4+0] = uint8(packed)       //nolint:gosec // masked by truncation
		rgba[i*4+1] = uint8(packed >> 8)  //nolint:gosec // masked by truncation
		rgba[i*4+2] = uint8(packed >> 16) //nolint:gosec // masked by truncation
		rgba[i*4+3] = uint8(packed >> 24) //nolint:gosec // masked by truncation
	}
	return width, height, rgba, nil
}

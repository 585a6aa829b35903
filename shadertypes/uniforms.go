// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadertypes

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// UniformBlockSize is the size of every parameter uniform block.
const UniformBlockSize = 16

// ErrUniformSize is returned when a uniform block is too short.
var ErrUniformSize = errors.New("shadertypes: uniform block too short")

// EncodeScalar returns the uniform block for a scalar f32 parameter.
func EncodeScalar(v float32) []byte {
	buf := make([]byte, UniformBlockSize)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}

// DecodeScalar reads a scalar f32 parameter from a uniform block.
func DecodeScalar(b []byte) (float32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("%w: %d bytes", ErrUniformSize, len(b))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// EncodeViewportSize returns the ViewportSize argument (vec2<u32>).
func EncodeViewportSize(width, height uint32) []byte {
	buf := make([]byte, UniformBlockSize)
	binary.LittleEndian.PutUint32(buf[0:4], width)
	binary.LittleEndian.PutUint32(buf[4:8], height)
	return buf
}

// DecodeViewportSize reads the ViewportSize argument.
func DecodeViewportSize(b []byte) (width, height uint32, err error) {
	if len(b) < 8 {
		return 0, 0, fmt.Errorf("%w: %d bytes", ErrUniformSize, len(b))
	}
	return binary.LittleEndian.Uint32(b[0:4]), binary.LittleEndian.Uint32(b[4:8]), nil
}

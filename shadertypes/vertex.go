// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadertypes

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/gogpu/gputypes"
)

// ErrVertexBufferSize is returned when a vertex buffer is not a whole
// number of vertices.
var ErrVertexBufferSize = errors.New("shadertypes: vertex buffer size is not a multiple of the vertex stride")

// AppendVertices appends the GPU byte form of vs to buf.
func AppendVertices(buf []byte, vs ...Vertex) []byte {
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Position.X))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Position.Y))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.TextureCoordinate.X))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.TextureCoordinate.Y))
	}
	return buf
}

// EncodeVertices returns the GPU byte form of vs.
func EncodeVertices(vs []Vertex) []byte {
	if len(vs) == 0 {
		return nil
	}
	return AppendVertices(make([]byte, 0, len(vs)*VertexStride), vs...)
}

// DecodeVertex reads one vertex from the first VertexStride bytes of b.
// It panics if b is shorter than VertexStride.
func DecodeVertex(b []byte) Vertex {
	_ = b[VertexStride-1]
	return Vertex{
		Position: Float2{
			X: math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
			Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		},
		TextureCoordinate: Float2{
			X: math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
			Y: math.Float32frombits(binary.LittleEndian.Uint32(b[12:16])),
		},
	}
}

// DecodeVertices reads a whole vertex buffer.
func DecodeVertices(b []byte) ([]Vertex, error) {
	if len(b)%VertexStride != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrVertexBufferSize, len(b))
	}
	vs := make([]Vertex, len(b)/VertexStride)
	for i := range vs {
		vs[i] = DecodeVertex(b[i*VertexStride:])
	}
	return vs, nil
}

// VertexBufferLayout returns the vertex buffer layout of the preview
// pipeline. Offsets and stride are taken from the Vertex struct itself.
func VertexBufferLayout() gputypes.VertexBufferLayout {
	var v Vertex
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(v)),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{
				Format:         gputypes.VertexFormatFloat32x2,
				Offset:         uint64(unsafe.Offsetof(v.Position)),
				ShaderLocation: VertexAttributePosition,
			},
			{
				Format:         gputypes.VertexFormatFloat32x2,
				Offset:         uint64(unsafe.Offsetof(v.TextureCoordinate)),
				ShaderLocation: VertexAttributeTextureCoordinate,
			},
		},
	}
}

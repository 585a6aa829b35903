// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadertypes

import "fmt"

// Bind groups shared by both pipelines.
const (
	// GroupTextures holds the texture slots of a pipeline.
	GroupTextures uint32 = 0

	// GroupBuffers holds the parameter buffer slots of a pipeline.
	GroupBuffers uint32 = 1
)

// PreviewTextureIndex is a texture bind slot of the preview pipeline.
type PreviewTextureIndex uint32

// Preview pipeline texture slots.
const (
	// PreviewTextureIndexInput is the camera frame read by the compute stage.
	PreviewTextureIndexInput PreviewTextureIndex = 0

	// PreviewTextureIndexOutput is written by the compute stage and sampled
	// by the fragment stage.
	PreviewTextureIndexOutput PreviewTextureIndex = 1
)

// String returns the slot name.
func (i PreviewTextureIndex) String() string {
	switch i {
	case PreviewTextureIndexInput:
		return "Input"
	case PreviewTextureIndexOutput:
		return "Output"
	default:
		return fmt.Sprintf("PreviewTextureIndex(%d)", uint32(i))
	}
}

// VertexIndex is a vertex-stage argument slot of the preview pipeline.
type VertexIndex uint32

// Preview pipeline vertex-stage slots.
const (
	// VertexIndexVertices is the vertex buffer slot.
	VertexIndexVertices VertexIndex = 0

	// VertexIndexViewportSize is the viewport size uniform.
	VertexIndexViewportSize VertexIndex = 1
)

// String returns the slot name.
func (i VertexIndex) String() string {
	switch i {
	case VertexIndexVertices:
		return "Vertices"
	case VertexIndexViewportSize:
		return "ViewportSize"
	default:
		return fmt.Sprintf("VertexIndex(%d)", uint32(i))
	}
}

// PreviewTextureIndices returns the preview texture slots in slot order.
func PreviewTextureIndices() []PreviewTextureIndex {
	return []PreviewTextureIndex{PreviewTextureIndexInput, PreviewTextureIndexOutput}
}

// VertexIndices returns the preview vertex-stage slots in slot order.
func VertexIndices() []VertexIndex {
	return []VertexIndex{VertexIndexVertices, VertexIndexViewportSize}
}

// Float2 is a two-component float32 vector (vec2<f32> in WGSL).
type Float2 struct {
	X, Y float32
}

// Vertex is one corner of a textured quad in the preview pipeline.
//
// Position is in pixels relative to the centre of the viewport, so a value
// of 100 is 100 pixels from the centre. TextureCoordinate is normalised, with
// (0, 0) the top-left texel. Field order and size match VertexInput in
// preview.wgsl.
type Vertex struct {
	Position          Float2
	TextureCoordinate Float2
}

// Vertex layout in bytes.
const (
	VertexStride                  = 16
	VertexPositionOffset          = 0
	VertexTextureCoordinateOffset = 8
)

// Vertex attribute shader locations.
const (
	VertexAttributePosition          uint32 = 0
	VertexAttributeTextureCoordinate uint32 = 1
)

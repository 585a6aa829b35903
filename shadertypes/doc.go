// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shadertypes is the binding contract shared by the host code in
// package crt and the WGSL shaders that implement its passes.
//
// Two pipelines are declared, each with its own table:
//
//   - LUT pipeline: [TextureIndex] (input, output, lookup table) and
//     [BufferIndex] (intensity, grain, vignette).
//   - Preview pipeline: [PreviewTextureIndex] (input, output),
//     [VertexIndex] (vertices, viewport size) and the [Vertex] record.
//
// Every shader binding attribute is generated from these constants when the
// embedded WGSL templates are rendered (see [LutShaderSource] and
// [PreviewShaderSource]), so the host and the shader cannot disagree about a
// slot number. Texture slots live in bind group [GroupTextures] and
// parameter buffers in bind group [GroupBuffers] for both pipelines.
//
// # Wire formats
//
// Textures cross the boundary as texel buffers: an 8-byte header holding
// width and height as little-endian u32, followed by one u32 per pixel with
// the RGBA8 channels packed R in the low byte. Scalar parameters are 16-byte
// uniform blocks with the value in the first four bytes. Vertices are
// [VertexStride] bytes each: position then texture coordinate, each two
// little-endian float32 values.
package shadertypes

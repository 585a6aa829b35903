//go:build !nogpu

// Package gpu runs the CRT passes on a GPU through gogpu/wgpu.
//
// Shader sources come from package shadertypes and are compiled to SPIR-V
// with naga. Textures travel as texel storage buffers, so every bind group
// layout here is a list of buffer bindings placed at the slots shadertypes
// declares:
//
//	group 0 (textures)  input, output, lut       storage buffers
//	group 1 (buffers)   intensity, grain, ...    16-byte uniforms
//
// The preview render pipeline reads the vertex buffer at the vertex slot and
// the viewport size uniform from group 1, and samples the texel buffer bound
// at the preview output slot of group 0.
//
// This package is wired into package crt by github.com/gogpu/crt/gpu.
package gpu

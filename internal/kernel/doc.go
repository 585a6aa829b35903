// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package kernel holds CPU reference implementations of the compute shaders
// in package shadertypes.
//
// Kernels receive their resources through an argument table addressed by the
// same typed slot constants the shaders are generated from, and they decode
// parameters from the same byte forms the GPU receives. Host code that
// binds a resource at the wrong slot therefore fails here exactly as it
// would on the GPU. Arithmetic is float32 and follows the WGSL line by line.
package kernel

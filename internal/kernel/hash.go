// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

// pcg is the PCG hash used by the grain stage (pcg in lut.wgsl).
func pcg(v uint32) uint32 {
	state := v*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

// Noise returns the grain noise in [-0.5, 0.5] for pixel (x, y).
func Noise(x, y uint32) float32 {
	return float32(pcg(x+pcg(y))&0xFFFF)/65535 - 0.5
}

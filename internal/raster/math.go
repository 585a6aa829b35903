package raster

import "math"

func floor(v float32) float32 { return float32(math.Floor(float64(v))) }

func ceil(v float32) float32 { return float32(math.Ceil(float64(v))) }

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clamp01(v float32) float32 {
	return max(0, min(v, 1))
}

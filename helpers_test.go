package crt

import "image/color"

var colorWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// gradientFrame returns an opaque frame whose red and green channels follow
// x and y.
func gradientFrame(w, h int, format PixelFormat) *Frame {
	f := NewFrame(w, h, format)
	for y := range h {
		for x := range w {
			f.SetRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return f
}

func sameFrame(a, b *Frame) bool {
	if a.Description() != b.Description() {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

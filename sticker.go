package crt

import (
	"math"

	"github.com/gogpu/crt/shadertypes"
)

// Point is a position in normalised preview coordinates: (-1, -1) is the
// bottom-left corner of the viewport and (1, 1) the top-right.
type Point struct {
	X, Y float64
}

// Size is a viewport size in pixels.
type Size struct {
	Width, Height int
}

// Sticker is an image overlaid on the preview.
type Sticker struct {
	ID    int
	Image *Frame

	// Center is the sticker centre in normalised preview coordinates.
	Center Point

	// Size is the side of the square sticker relative to the shorter
	// viewport side.
	Size float64

	// Radians rotates the sticker counter-clockwise around its centre.
	Radians float64
}

// Vertices returns the two triangles of the sticker quad in pixels around
// the centre of a viewW x viewH viewport.
func (s Sticker) Vertices(viewW, viewH int) []shadertypes.Vertex {
	half := s.Size * float64(min(viewW, viewH)) / 2
	cx := s.Center.X * float64(viewW) / 2
	cy := s.Center.Y * float64(viewH) / 2
	sin, cos := math.Sincos(s.Radians)

	corner := func(dx, dy float64, u, v float32) shadertypes.Vertex {
		return shadertypes.Vertex{
			Position: shadertypes.Float2{
				X: float32(cx + dx*cos - dy*sin),
				Y: float32(cy + dx*sin + dy*cos),
			},
			TextureCoordinate: shadertypes.Float2{X: u, Y: v},
		}
	}
	return quadTriangles(
		corner(-half, half, 0, 0),
		corner(half, half, 1, 0),
		corner(-half, -half, 0, 1),
		corner(half, -half, 1, 1),
	)
}

// FrameQuad returns the two triangles that fit a frameW x frameH frame
// inside a viewW x viewH viewport, centred and keeping the aspect ratio.
func FrameQuad(frameW, frameH, viewW, viewH int) []shadertypes.Vertex {
	if frameW <= 0 || frameH <= 0 || viewW <= 0 || viewH <= 0 {
		return nil
	}
	scale := math.Min(float64(viewW)/float64(frameW), float64(viewH)/float64(frameH))
	hw := float32(float64(frameW) * scale / 2)
	hh := float32(float64(frameH) * scale / 2)

	v := func(x, y, u, t float32) shadertypes.Vertex {
		return shadertypes.Vertex{
			Position:          shadertypes.Float2{X: x, Y: y},
			TextureCoordinate: shadertypes.Float2{X: u, Y: t},
		}
	}
	return quadTriangles(v(-hw, hh, 0, 0), v(hw, hh, 1, 0), v(-hw, -hh, 0, 1), v(hw, -hh, 1, 1))
}

func quadTriangles(tl, tr, bl, br shadertypes.Vertex) []shadertypes.Vertex {
	return []shadertypes.Vertex{tl, tr, bl, tr, br, bl}
}

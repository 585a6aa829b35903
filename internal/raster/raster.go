// Package raster draws textured triangles on the CPU the way the preview
// render pipeline does: vertex positions in pixels around the viewport
// centre, nearest-texel sampling and premultiplied source-over blending.
package raster

import (
	"errors"
	"fmt"

	"github.com/gogpu/crt/internal/kernel"
	"github.com/gogpu/crt/shadertypes"
)

// ErrNoTexture is returned when DrawTriangles has nothing to sample.
var ErrNoTexture = errors.New("raster: no texture bound")

// point is a vertex after the vertex stage, in framebuffer pixels.
type point struct {
	x, y float32
	u, v float32
}

// DrawTriangles draws the triangle list encoded in vertexBytes into dst.
// viewportBytes holds the ViewportSize argument. Trailing vertices that do
// not form a whole triangle are ignored.
func DrawTriangles(dst *kernel.Texture, vertexBytes, viewportBytes []byte, tex *kernel.Texture) error {
	if tex == nil {
		return ErrNoTexture
	}
	vw, vh, err := shadertypes.DecodeViewportSize(viewportBytes)
	if err != nil {
		return fmt.Errorf("raster: viewport: %w", err)
	}
	if vw == 0 || vh == 0 {
		return fmt.Errorf("raster: empty viewport %dx%d", vw, vh)
	}
	vertices, err := shadertypes.DecodeVertices(vertexBytes)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	if tex.Width == 0 || tex.Height == 0 || dst.Width == 0 || dst.Height == 0 {
		return nil
	}

	halfW, halfH := float32(vw)*0.5, float32(vh)*0.5
	project := func(v shadertypes.Vertex) point {
		cx := v.Position.X / halfW
		cy := v.Position.Y / halfH
		return point{
			x: (cx + 1) * 0.5 * float32(dst.Width),
			y: (1 - cy) * 0.5 * float32(dst.Height),
			u: v.TextureCoordinate.X,
			v: v.TextureCoordinate.Y,
		}
	}

	for i := 0; i+2 < len(vertices); i += 3 {
		fillTriangle(dst, tex, project(vertices[i]), project(vertices[i+1]), project(vertices[i+2]))
	}
	return nil
}

// edge is twice the signed area of (a, b, p); positive when p lies on the
// interior side of a clockwise (y down) triangle.
func edge(a, b point, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// topLeft reports whether a->b is a top or left edge of a clockwise
// triangle. Samples exactly on such edges are covered.
func topLeft(a, b point) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return (dy == 0 && dx > 0) || dy < 0
}

func covered(w float32, tl bool) bool {
	return w > 0 || (w == 0 && tl)
}

func fillTriangle(dst, tex *kernel.Texture, p0, p1, p2 point) {
	area := edge(p0, p1, p2.x, p2.y)
	if area == 0 {
		return
	}
	if area < 0 {
		p1, p2 = p2, p1
		area = -area
	}

	minX := clampInt(int(floor(min(p0.x, p1.x, p2.x))), 0, dst.Width)
	maxX := clampInt(int(ceil(max(p0.x, p1.x, p2.x))), 0, dst.Width)
	minY := clampInt(int(floor(min(p0.y, p1.y, p2.y))), 0, dst.Height)
	maxY := clampInt(int(ceil(max(p0.y, p1.y, p2.y))), 0, dst.Height)

	tl0, tl1, tl2 := topLeft(p1, p2), topLeft(p2, p0), topLeft(p0, p1)

	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(p1, p2, px, py)
			w1 := edge(p2, p0, px, py)
			w2 := edge(p0, p1, px, py)
			if !covered(w0, tl0) || !covered(w1, tl1) || !covered(w2, tl2) {
				continue
			}
			l0, l1, l2 := w0/area, w1/area, w2/area
			u := l0*p0.u + l1*p1.u + l2*p2.u
			v := l0*p0.v + l1*p1.v + l2*p2.v
			blendOver(dst, x, y, sample(tex, u, v))
		}
	}
}

// sample returns the premultiplied texel nearest to (u, v).
func sample(tex *kernel.Texture, u, v float32) [4]float32 {
	x := min(int(clamp01(u)*float32(tex.Width)), tex.Width-1)
	y := min(int(clamp01(v)*float32(tex.Height)), tex.Height-1)
	c := tex.Load(x, y)
	return [4]float32{c[0] * c[3], c[1] * c[3], c[2] * c[3], c[3]}
}

// blendOver composites a premultiplied source: S + D*(1-Sa).
func blendOver(dst *kernel.Texture, x, y int, s [4]float32) {
	d := dst.Load(x, y)
	inv := 1 - s[3]
	dst.Store(x, y, [4]float32{
		s[0] + d[0]*inv,
		s[1] + d[1]*inv,
		s[2] + d[2]*inv,
		s[3] + d[3]*inv,
	})
}

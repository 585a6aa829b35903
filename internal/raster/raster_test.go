package raster

import (
	"errors"
	"testing"

	"github.com/gogpu/crt/internal/kernel"
	"github.com/gogpu/crt/shadertypes"
)

func vtx(x, y, u, v float32) shadertypes.Vertex {
	return shadertypes.Vertex{
		Position:          shadertypes.Float2{X: x, Y: y},
		TextureCoordinate: shadertypes.Float2{X: u, Y: v},
	}
}

// quad returns two triangles covering the pixel rectangle centred on the
// origin with half extents hw, hh. Texture v runs top to bottom.
func quad(hw, hh float32) []shadertypes.Vertex {
	tl := vtx(-hw, hh, 0, 0)
	tr := vtx(hw, hh, 1, 0)
	bl := vtx(-hw, -hh, 0, 1)
	br := vtx(hw, -hh, 1, 1)
	return []shadertypes.Vertex{tl, tr, bl, tr, br, bl}
}

func checker() *kernel.Texture {
	tex := kernel.NewTexture(2, 2)
	copy(tex.Pix, []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	})
	return tex
}

func TestDrawTrianglesFullViewport(t *testing.T) {
	dst := kernel.NewTexture(4, 4)
	err := DrawTriangles(dst, shadertypes.EncodeVertices(quad(2, 2)), shadertypes.EncodeViewportSize(4, 4), checker())
	if err != nil {
		t.Fatalf("DrawTriangles: %v", err)
	}

	tests := []struct {
		x, y int
		want [4]byte
	}{
		{0, 0, [4]byte{255, 0, 0, 255}},
		{3, 0, [4]byte{0, 255, 0, 255}},
		{0, 3, [4]byte{0, 0, 255, 255}},
		{3, 3, [4]byte{255, 255, 255, 255}},
		{1, 1, [4]byte{255, 0, 0, 255}},
		{2, 2, [4]byte{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		i := (tt.y*4 + tt.x) * 4
		var got [4]byte
		copy(got[:], dst.Pix[i:i+4])
		if got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDrawTrianglesSharedEdgeCoveredOnce(t *testing.T) {
	tex := kernel.NewTexture(1, 1)
	copy(tex.Pix, []byte{255, 255, 255, 128})
	dst := kernel.NewTexture(8, 8)
	err := DrawTriangles(dst, shadertypes.EncodeVertices(quad(4, 4)), shadertypes.EncodeViewportSize(8, 8), tex)
	if err != nil {
		t.Fatalf("DrawTriangles: %v", err)
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 128 {
			t.Fatalf("pixel %d alpha = %d, want 128", i/4, dst.Pix[i])
		}
	}
}

func TestDrawTrianglesOffsetAndWinding(t *testing.T) {
	tex := kernel.NewTexture(1, 1)
	copy(tex.Pix, []byte{0, 0, 255, 255})

	// A 2x2 pixel square centred 2 px right of the viewport centre, with
	// its triangles in counter-clockwise order.
	vs := []shadertypes.Vertex{
		vtx(1, -1, 0, 1), vtx(3, -1, 1, 1), vtx(3, 1, 1, 0),
		vtx(1, -1, 0, 1), vtx(3, 1, 1, 0), vtx(1, 1, 0, 0),
	}
	dst := kernel.NewTexture(8, 8)
	if err := DrawTriangles(dst, shadertypes.EncodeVertices(vs), shadertypes.EncodeViewportSize(8, 8), tex); err != nil {
		t.Fatalf("DrawTriangles: %v", err)
	}
	for y := range 8 {
		for x := range 8 {
			inside := x >= 5 && x <= 6 && y >= 3 && y <= 4
			a := dst.Pix[(y*8+x)*4+3]
			if inside && a != 255 {
				t.Errorf("pixel (%d,%d) not drawn", x, y)
			}
			if !inside && a != 0 {
				t.Errorf("pixel (%d,%d) drawn outside the square", x, y)
			}
		}
	}
}

func TestDrawTrianglesBlendsOver(t *testing.T) {
	tex := kernel.NewTexture(1, 1)
	copy(tex.Pix, []byte{255, 0, 0, 128})
	dst := kernel.NewTexture(2, 2)
	for i := 0; i < len(dst.Pix); i += 4 {
		copy(dst.Pix[i:], []byte{0, 0, 255, 255})
	}
	if err := DrawTriangles(dst, shadertypes.EncodeVertices(quad(1, 1)), shadertypes.EncodeViewportSize(2, 2), tex); err != nil {
		t.Fatalf("DrawTriangles: %v", err)
	}
	// S = (128, 0, 0, 128) premultiplied; D*(1-Sa) leaves 127 of the blue.
	got := dst.Pix[0:4]
	if got[0] != 128 || got[1] != 0 || got[2] != 127 || got[3] != 255 {
		t.Errorf("blended pixel = %v, want [128 0 127 255]", got)
	}
}

func TestDrawTrianglesIgnoresPartialTriangle(t *testing.T) {
	dst := kernel.NewTexture(4, 4)
	vs := quad(2, 2)[:5]
	if err := DrawTriangles(dst, shadertypes.EncodeVertices(vs), shadertypes.EncodeViewportSize(4, 4), checker()); err != nil {
		t.Fatalf("DrawTriangles: %v", err)
	}
	// Only the first triangle (top-left half) is drawn.
	if dst.Pix[3] != 255 {
		t.Error("first triangle not drawn")
	}
	if a := dst.Pix[(3*4+3)*4+3]; a != 0 {
		t.Errorf("bottom-right pixel alpha = %d, want 0", a)
	}
}

func TestDrawTrianglesErrors(t *testing.T) {
	dst := kernel.NewTexture(4, 4)
	verts := shadertypes.EncodeVertices(quad(2, 2))
	viewport := shadertypes.EncodeViewportSize(4, 4)

	if err := DrawTriangles(dst, verts, viewport, nil); !errors.Is(err, ErrNoTexture) {
		t.Errorf("nil texture: err = %v, want ErrNoTexture", err)
	}
	if err := DrawTriangles(dst, verts, []byte{1, 2}, checker()); !errors.Is(err, shadertypes.ErrUniformSize) {
		t.Errorf("short viewport: err = %v, want ErrUniformSize", err)
	}
	if err := DrawTriangles(dst, verts, shadertypes.EncodeViewportSize(0, 4), checker()); err == nil {
		t.Error("empty viewport: expected error")
	}
	if err := DrawTriangles(dst, verts[:7], viewport, checker()); !errors.Is(err, shadertypes.ErrVertexBufferSize) {
		t.Errorf("ragged vertex buffer: err = %v, want ErrVertexBufferSize", err)
	}
}

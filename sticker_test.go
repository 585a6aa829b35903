package crt

import (
	"math"
	"testing"

	"github.com/gogpu/crt/shadertypes"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestStickerVertices(t *testing.T) {
	tests := []struct {
		name    string
		sticker Sticker
		viewW   int
		viewH   int
		// top-left corner position
		wantX, wantY float32
	}{
		{"centred", Sticker{Size: 0.5}, 200, 100, -25, 25},
		{"top right", Sticker{Center: Point{X: 1, Y: 1}, Size: 0.5}, 200, 100, 75, 75},
		{"quarter turn", Sticker{Size: 0.5, Radians: math.Pi / 2}, 200, 100, -25, -25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := tt.sticker.Vertices(tt.viewW, tt.viewH)
			if len(vs) != 6 {
				t.Fatalf("len = %d, want 6", len(vs))
			}
			tl := vs[0]
			if !near(tl.Position.X, tt.wantX) || !near(tl.Position.Y, tt.wantY) {
				t.Errorf("top-left = %+v, want (%v, %v)", tl.Position, tt.wantX, tt.wantY)
			}
			if tl.TextureCoordinate != (shadertypes.Float2{X: 0, Y: 0}) {
				t.Errorf("top-left uv = %+v", tl.TextureCoordinate)
			}
			// Both triangles share the tr-bl diagonal.
			if vs[1] != vs[3] || vs[2] != vs[5] {
				t.Error("triangles do not share the diagonal")
			}
		})
	}
}

func TestFrameQuad(t *testing.T) {
	vs := FrameQuad(200, 100, 100, 100)
	if len(vs) != 6 {
		t.Fatalf("len = %d", len(vs))
	}
	want := shadertypes.Vertex{
		Position:          shadertypes.Float2{X: 50, Y: -25},
		TextureCoordinate: shadertypes.Float2{X: 1, Y: 1},
	}
	if vs[4] != want {
		t.Errorf("bottom-right = %+v, want %+v", vs[4], want)
	}
	if FrameQuad(0, 1, 1, 1) != nil {
		t.Error("empty frame should have no quad")
	}
}

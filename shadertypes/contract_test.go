package shadertypes

import "testing"

func TestLutTextureIndexValues(t *testing.T) {
	tests := []struct {
		idx  TextureIndex
		want uint32
		name string
	}{
		{TextureIndexInput, 0, "Input"},
		{TextureIndexOutput, 1, "Output"},
		{TextureIndexLut, 2, "Lut"},
	}
	for _, tt := range tests {
		if uint32(tt.idx) != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.idx, tt.want)
		}
		if got := tt.idx.String(); got != tt.name {
			t.Errorf("TextureIndex(%d).String() = %q, want %q", tt.want, got, tt.name)
		}
	}
}

func TestLutBufferIndexValues(t *testing.T) {
	tests := []struct {
		idx  BufferIndex
		want uint32
		name string
	}{
		{BufferIndexIntensity, 0, "Intensity"},
		{BufferIndexGrain, 1, "Grain"},
		{BufferIndexVignette, 2, "Vignette"},
	}
	for _, tt := range tests {
		if uint32(tt.idx) != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.idx, tt.want)
		}
		if got := tt.idx.String(); got != tt.name {
			t.Errorf("BufferIndex(%d).String() = %q, want %q", tt.want, got, tt.name)
		}
	}
}

func TestPreviewIndexValues(t *testing.T) {
	if PreviewTextureIndexInput != 0 || PreviewTextureIndexOutput != 1 {
		t.Errorf("preview texture slots = (%d, %d), want (0, 1)",
			PreviewTextureIndexInput, PreviewTextureIndexOutput)
	}
	if VertexIndexVertices != 0 || VertexIndexViewportSize != 1 {
		t.Errorf("vertex slots = (%d, %d), want (0, 1)",
			VertexIndexVertices, VertexIndexViewportSize)
	}
	if got := VertexIndexViewportSize.String(); got != "ViewportSize" {
		t.Errorf("VertexIndexViewportSize.String() = %q", got)
	}
	if got := PreviewTextureIndexOutput.String(); got != "Output" {
		t.Errorf("PreviewTextureIndexOutput.String() = %q", got)
	}
}

func TestOutputSlotDistinct(t *testing.T) {
	if TextureIndexOutput != 1 {
		t.Fatalf("TextureIndexOutput = %d, want 1", TextureIndexOutput)
	}
	if TextureIndexOutput == TextureIndexInput {
		t.Error("output slot collides with input slot")
	}
	if TextureIndexOutput == TextureIndexLut {
		t.Error("output slot collides with lut slot")
	}
	if PreviewTextureIndexOutput == PreviewTextureIndexInput {
		t.Error("preview output slot collides with preview input slot")
	}
}

// uniqueDense checks that values are exactly 0..n-1 in order.
func uniqueDense(t *testing.T, set string, values []uint32) {
	t.Helper()
	seen := make(map[uint32]bool)
	for i, v := range values {
		if seen[v] {
			t.Errorf("%s: duplicate slot %d", set, v)
		}
		seen[v] = true
		if v != uint32(i) {
			t.Errorf("%s: member %d has slot %d", set, i, v)
		}
	}
}

func TestIndexSetsUniqueAndOrdered(t *testing.T) {
	var tex, buf, ptex, vtx []uint32
	for _, i := range LutTextureIndices() {
		tex = append(tex, uint32(i))
	}
	for _, i := range LutBufferIndices() {
		buf = append(buf, uint32(i))
	}
	for _, i := range PreviewTextureIndices() {
		ptex = append(ptex, uint32(i))
	}
	for _, i := range VertexIndices() {
		vtx = append(vtx, uint32(i))
	}
	uniqueDense(t, "TextureIndex", tex)
	uniqueDense(t, "BufferIndex", buf)
	uniqueDense(t, "PreviewTextureIndex", ptex)
	uniqueDense(t, "VertexIndex", vtx)

	if len(tex) != 3 || len(buf) != 3 || len(ptex) != 2 || len(vtx) != 2 {
		t.Errorf("set sizes = %d/%d/%d/%d, want 3/3/2/2", len(tex), len(buf), len(ptex), len(vtx))
	}
}

func TestUnknownIndexString(t *testing.T) {
	if got := TextureIndex(7).String(); got != "TextureIndex(7)" {
		t.Errorf("TextureIndex(7).String() = %q", got)
	}
	if got := BufferIndex(9).String(); got != "BufferIndex(9)" {
		t.Errorf("BufferIndex(9).String() = %q", got)
	}
}

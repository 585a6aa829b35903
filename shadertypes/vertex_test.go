package shadertypes

import (
	"errors"
	"reflect"
	"testing"
	"unsafe"

	"github.com/gogpu/gputypes"
)

func TestVertexLayout(t *testing.T) {
	var v Vertex
	if got := unsafe.Sizeof(v); got != VertexStride {
		t.Errorf("sizeof(Vertex) = %d, want %d", got, VertexStride)
	}
	if got := unsafe.Offsetof(v.Position); got != VertexPositionOffset {
		t.Errorf("offsetof(Position) = %d, want %d", got, VertexPositionOffset)
	}
	if got := unsafe.Offsetof(v.TextureCoordinate); got != VertexTextureCoordinateOffset {
		t.Errorf("offsetof(TextureCoordinate) = %d, want %d", got, VertexTextureCoordinateOffset)
	}
	if got := unsafe.Sizeof(Float2{}); got != 8 {
		t.Errorf("sizeof(Float2) = %d, want 8", got)
	}
}

func TestVertexFieldOrder(t *testing.T) {
	typ := reflect.TypeOf(Vertex{})
	if typ.NumField() != 2 {
		t.Fatalf("Vertex has %d fields, want 2", typ.NumField())
	}
	want := []string{"Position", "TextureCoordinate"}
	for i, name := range want {
		f := typ.Field(i)
		if f.Name != name {
			t.Errorf("field %d = %s, want %s", i, f.Name, name)
		}
		if f.Type != reflect.TypeOf(Float2{}) {
			t.Errorf("field %s has type %v, want Float2", f.Name, f.Type)
		}
	}
}

func TestVertexScenario(t *testing.T) {
	v := Vertex{
		Position:          Float2{X: 100, Y: 0},
		TextureCoordinate: Float2{X: 1, Y: 0},
	}
	buf := EncodeVertices([]Vertex{v})
	if len(buf) != VertexStride {
		t.Fatalf("encoded %d bytes, want %d", len(buf), VertexStride)
	}
	got := DecodeVertex(buf)
	if got.Position.X != 100 || got.Position.Y != 0 {
		t.Errorf("position = %+v, want (100, 0)", got.Position)
	}
	if got.TextureCoordinate.X != 1 || got.TextureCoordinate.Y != 0 {
		t.Errorf("texture coordinate = %+v, want (1, 0)", got.TextureCoordinate)
	}
}

func TestVertexRoundTripMatchesMemory(t *testing.T) {
	vs := []Vertex{
		{Position: Float2{250, -250}, TextureCoordinate: Float2{1, 1}},
		{Position: Float2{-250, -250}, TextureCoordinate: Float2{0, 1}},
		{Position: Float2{-250, 250}, TextureCoordinate: Float2{0, 0}},
		{Position: Float2{1.5, -0.25}, TextureCoordinate: Float2{0.125, 0.875}},
	}
	buf := EncodeVertices(vs)

	// The byte form must be the in-memory form on little-endian hosts, so a
	// shader reading the raw struct sees the same values.
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&vs[0])), len(vs)*VertexStride) //nolint:gosec // layout check
	if isLittleEndian() && !reflect.DeepEqual(buf, raw) {
		t.Error("encoded vertices differ from in-memory layout")
	}

	got, err := DecodeVertices(buf)
	if err != nil {
		t.Fatalf("DecodeVertices: %v", err)
	}
	if !reflect.DeepEqual(got, vs) {
		t.Errorf("round trip = %+v, want %+v", got, vs)
	}
}

func isLittleEndian() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1 //nolint:gosec // endianness probe
}

func TestDecodeVerticesRejectsPartial(t *testing.T) {
	_, err := DecodeVertices(make([]byte, VertexStride+3))
	if !errors.Is(err, ErrVertexBufferSize) {
		t.Errorf("err = %v, want ErrVertexBufferSize", err)
	}
}

func TestEncodeVerticesEmpty(t *testing.T) {
	if buf := EncodeVertices(nil); buf != nil {
		t.Errorf("EncodeVertices(nil) = %v, want nil", buf)
	}
}

func TestVertexBufferLayout(t *testing.T) {
	l := VertexBufferLayout()
	if l.ArrayStride != VertexStride {
		t.Errorf("ArrayStride = %d, want %d", l.ArrayStride, VertexStride)
	}
	if l.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("StepMode = %v, want per-vertex", l.StepMode)
	}
	if len(l.Attributes) != 2 {
		t.Fatalf("%d attributes, want 2", len(l.Attributes))
	}
	pos, uv := l.Attributes[0], l.Attributes[1]
	if pos.Offset != VertexPositionOffset || pos.ShaderLocation != VertexAttributePosition {
		t.Errorf("position attribute = %+v", pos)
	}
	if uv.Offset != VertexTextureCoordinateOffset || uv.ShaderLocation != VertexAttributeTextureCoordinate {
		t.Errorf("texture coordinate attribute = %+v", uv)
	}
	for _, a := range l.Attributes {
		if a.Format != gputypes.VertexFormatFloat32x2 {
			t.Errorf("attribute %d format = %v, want Float32x2", a.ShaderLocation, a.Format)
		}
	}
}

package crt

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func TestWithMaxDimension(t *testing.T) {
	tests := []struct {
		name         string
		w, h, dim    int
		wantW, wantH int
	}{
		{"landscape", 400, 200, 100, 100, 50},
		{"portrait", 300, 600, 200, 100, 200},
		{"already small", 50, 40, 100, 50, 40},
		{"disabled", 500, 500, 0, 500, 500},
		{"thin", 1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := WithMaxDimension(img, tt.dim).Bounds()
			if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
				t.Errorf("WithMaxDimension(%dx%d, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.dim, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDecodeImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradientFrame(5, 3, PixelFormatRGBA8).ToImage()); err != nil {
		t.Fatal(err)
	}
	img, err := DecodeImage(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 3 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if _, err := DecodeImage([]byte{0, 1, 2}); err == nil {
		t.Error("DecodeImage(garbage) should fail")
	}
}

// letters returns the image as rows of letters, one per pixel, where the
// red channel 1 is 'a'.
func letters(img image.Image) string {
	b := img.Bounds()
	rows := make([]string, 0, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		var row strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			row.WriteByte(byte('a' - 1 + r>>8))
		}
		rows = append(rows, row.String())
	}
	return strings.Join(rows, "/")
}

func TestApplyOrientation(t *testing.T) {
	// abc
	// def
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range 6 {
		src.SetNRGBA(i%3, i/3, color.NRGBA{R: uint8(i + 1), A: 255}) //nolint:gosec // small test values
	}
	tests := []struct {
		orientation int
		want        string
	}{
		{0, "abc/def"},
		{1, "abc/def"},
		{2, "cba/fed"},
		{3, "fed/cba"},
		{4, "def/abc"},
		{5, "ad/be/cf"},
		{6, "da/eb/fc"},
		{7, "fc/eb/da"},
		{8, "cf/be/ad"},
		{9, "abc/def"},
	}
	for _, tt := range tests {
		if got := letters(ApplyOrientation(src, tt.orientation)); got != tt.want {
			t.Errorf("ApplyOrientation(%d) = %s, want %s", tt.orientation, got, tt.want)
		}
	}
}

// exifBlock builds a TIFF-structured EXIF block whose IFD0 holds only an
// orientation entry.
func exifBlock(order binary.ByteOrder, orientation uint16) []byte {
	buf := make([]byte, 8+2+12+4)
	if order == binary.BigEndian {
		copy(buf, "MM")
	} else {
		copy(buf, "II")
	}
	order.PutUint16(buf[2:], 42)
	order.PutUint32(buf[4:], 8)
	order.PutUint16(buf[8:], 1)
	order.PutUint16(buf[10:], tagOrientation)
	order.PutUint16(buf[12:], typeShort)
	order.PutUint32(buf[14:], 1)
	order.PutUint16(buf[18:], orientation)
	return buf
}

// jpegWithEXIF encodes a w x h JPEG and inserts an APP1 segment holding
// block after the start-of-image marker.
func jpegWithEXIF(t *testing.T, w, h int, block []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradientFrame(w, h, PixelFormatRGBA8).ToImage(), nil); err != nil {
		t.Fatal(err)
	}
	seg, err := Metadata{EXIF: block}.app1Segment()
	if err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	return append(append(append([]byte{}, data[:2]...), seg...), data[2:]...)
}

func TestDecodeImageAppliesEXIFOrientation(t *testing.T) {
	tests := []struct {
		name         string
		order        binary.ByteOrder
		orientation  uint16
		wantW, wantH int
	}{
		{"upright", binary.LittleEndian, 1, 8, 4},
		{"rotated clockwise", binary.LittleEndian, 6, 4, 8},
		{"rotated counter-clockwise big endian", binary.BigEndian, 8, 4, 8},
		{"upside down", binary.BigEndian, 3, 8, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := jpegWithEXIF(t, 8, 4, exifBlock(tt.order, tt.orientation))
			img, md, err := DecodeImageMetadata(data)
			if err != nil {
				t.Fatalf("DecodeImageMetadata: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("bounds = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
			if md.IsEmpty() {
				t.Fatal("JPEG EXIF block was not kept")
			}
			if got := tt.order.Uint16(md.EXIF[18:]); got != 1 {
				t.Errorf("kept orientation = %d, want 1", got)
			}
		})
	}
}

func TestDecodeImageWithoutEXIF(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradientFrame(6, 2, PixelFormatRGBA8).ToImage(), nil); err != nil {
		t.Fatal(err)
	}
	img, md, err := DecodeImageMetadata(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeImageMetadata: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 2 {
		t.Errorf("bounds = %v", b)
	}
	if !md.IsEmpty() {
		t.Errorf("metadata = %d bytes, want none", len(md.EXIF))
	}
}

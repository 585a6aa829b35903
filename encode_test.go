package crt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestJPEGData(t *testing.T) {
	f := gradientFrame(16, 8, PixelFormatBGRA8)
	data, err := JPEGData(f, 90)
	if err != nil {
		t.Fatalf("JPEGData: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("jpeg.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("decoded bounds = %v", b)
	}

	// Out of range quality falls back to the encoder default.
	if _, err := JPEGData(f, 0); err != nil {
		t.Errorf("JPEGData(quality 0): %v", err)
	}
}

func TestEncodePNGLossless(t *testing.T) {
	f := gradientFrame(6, 6, PixelFormatBGRA8)
	f.SetRGBA(0, 0, colorWhite)
	var buf bytes.Buffer
	if err := EncodePNG(&buf, f); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if !sameFrame(f, FrameFromImage(img, PixelFormatBGRA8)) {
		t.Error("PNG round trip changed the frame")
	}
}

func TestSaveFrame(t *testing.T) {
	dir := t.TempDir()
	f := gradientFrame(4, 4, PixelFormatRGBA8)
	for _, name := range []string{"out.png", "out.JPG", "out.jpeg"} {
		path := filepath.Join(dir, name)
		if err := SaveFrame(path, f, 80); err != nil {
			t.Fatalf("SaveFrame(%s): %v", name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		isPNG := bytes.HasPrefix(data, []byte("\x89PNG"))
		if wantPNG := name == "out.png"; isPNG != wantPNG {
			t.Errorf("%s: PNG=%v, want %v", name, isPNG, wantPNG)
		}
	}
	if err := SaveFrame(filepath.Join(dir, "missing", "x.png"), f, 80); err == nil {
		t.Error("SaveFrame into a missing directory should fail")
	}
}

func TestJPEGDataWithMetadata(t *testing.T) {
	f := gradientFrame(8, 4, PixelFormatRGBA8)
	md := newMetadata(exifBlock(binary.LittleEndian, 6))

	data, err := JPEGDataWithMetadata(f, 90, md)
	if err != nil {
		t.Fatalf("JPEGDataWithMetadata: %v", err)
	}
	if data[0] != 0xFF || data[1] != 0xD8 || data[2] != 0xFF || data[3] != markerAPP1 {
		t.Fatalf("output starts with % x, want SOI then APP1", data[:4])
	}
	if !bytes.Contains(data, append(append([]byte{}, exifHeader...), md.EXIF...)) {
		t.Error("EXIF block missing from output")
	}

	// The block was reset to upright, so decoding keeps the frame size.
	img, back, err := DecodeImageMetadata(data)
	if err != nil {
		t.Fatalf("DecodeImageMetadata: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("decoded bounds = %v, want 8x4", b)
	}
	if !bytes.Equal(back.EXIF, md.EXIF) {
		t.Error("EXIF block changed across encode and decode")
	}

	plain, err := JPEGDataWithMetadata(f, 90, Metadata{})
	if err != nil || plain[2] == 0xFF && plain[3] == markerAPP1 {
		t.Errorf("empty metadata wrote an APP1 segment, err = %v", err)
	}
}

func TestJPEGDataWithMetadataTooLarge(t *testing.T) {
	md := Metadata{EXIF: make([]byte, maxSegmentPayload)}
	if _, err := JPEGDataWithMetadata(gradientFrame(2, 2, PixelFormatRGBA8), 90, md); !errors.Is(err, ErrMetadataTooLarge) {
		t.Errorf("err = %v, want ErrMetadataTooLarge", err)
	}
}

func TestSetOrientation(t *testing.T) {
	block := exifBlock(binary.BigEndian, 8)
	if !setOrientation(block, 1) || binary.BigEndian.Uint16(block[18:]) != 1 {
		t.Error("orientation entry not rewritten")
	}
	for _, bad := range [][]byte{nil, []byte("XX\x00*\x00\x00\x00\x08"), exifBlock(binary.LittleEndian, 6)[:12]} {
		if setOrientation(bad, 1) {
			t.Errorf("setOrientation(% x) = true", bad)
		}
	}
}

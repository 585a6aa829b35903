package crt

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestIdentityLUTLayouts(t *testing.T) {
	tests := []struct {
		levels int
		w, h   int
	}{
		{64, 512, 512},
		{16, 64, 64},
		{4, 8, 8},
		{17, 289, 17},
		{2, 4, 2},
	}
	for _, tt := range tests {
		l, err := IdentityLUT(tt.levels)
		if err != nil {
			t.Fatalf("IdentityLUT(%d): %v", tt.levels, err)
		}
		if l.Width() != tt.w || l.Height() != tt.h || l.Levels() != tt.levels {
			t.Errorf("IdentityLUT(%d) = %dx%d with %d levels, want %dx%d",
				tt.levels, l.Width(), l.Height(), l.Levels(), tt.w, tt.h)
		}
		// The table image must parse back to the same level count.
		p, err := ParseLUT(l.Frame())
		if err != nil {
			t.Fatalf("ParseLUT(IdentityLUT(%d)): %v", tt.levels, err)
		}
		if p.Levels() != tt.levels {
			t.Errorf("parsed levels = %d, want %d", p.Levels(), tt.levels)
		}
	}
	if _, err := IdentityLUT(1); !errors.Is(err, ErrInvalidLUT) {
		t.Errorf("IdentityLUT(1) = %v, want ErrInvalidLUT", err)
	}
}

func TestIdentityLUTCorners(t *testing.T) {
	l, err := IdentityLUT(16)
	if err != nil {
		t.Fatal(err)
	}
	f := l.Frame()
	// Slice 0 holds black at its origin; slice 15 sits at tile (3, 3).
	if c := f.RGBA(0, 0); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("origin = %v, want black", c)
	}
	if c := f.RGBA(63, 63); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("last texel = %v, want white", c)
	}
}

func TestParseLUTRejects(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"empty", 0, 0},
		{"square not a cube", 100, 100},
		{"bad strip", 30, 5},
		{"single texel", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
			if _, err := ParseLUT(img); !errors.Is(err, ErrInvalidLUT) {
				t.Errorf("ParseLUT(%dx%d) = %v, want ErrInvalidLUT", tt.w, tt.h, err)
			}
		})
	}
}

func encodeLUTFile(t *testing.T, dir, name string, levels int) string {
	t.Helper()
	l, err := IdentityLUT(levels)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, l.Frame().ToImage()); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLUT(t *testing.T) {
	path := encodeLUTFile(t, t.TempDir(), "id.png", 16)
	l, err := LoadLUT(path)
	if err != nil {
		t.Fatalf("LoadLUT: %v", err)
	}
	if l.Levels() != 16 {
		t.Errorf("Levels() = %d, want 16", l.Levels())
	}

	if _, err := LoadLUT(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadLUT(missing) = %v, want os.ErrNotExist", err)
	}
	if _, err := DecodeLUT([]byte("not an image")); !errors.Is(err, ErrInvalidLUT) {
		t.Errorf("DecodeLUT(garbage) = %v, want ErrInvalidLUT", err)
	}
}

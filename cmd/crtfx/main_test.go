package main

import (
	"testing"

	"github.com/gogpu/crt"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    crt.Size
		wantErr bool
	}{
		{"800x600", crt.Size{Width: 800, Height: 600}, false},
		{"64X48", crt.Size{Width: 64, Height: 48}, false},
		{"800", crt.Size{}, true},
		{"0x10", crt.Size{}, true},
		{"ax10", crt.Size{}, true},
	}
	for _, tt := range tests {
		got, err := parseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStickerFlags(t *testing.T) {
	var s stickerFlags
	if err := s.Set("star.png,0.5,-0.25,0.2,1.5"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("heart.png, 0, 0, 0.1, 0"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	first := s[0]
	if first.path != "star.png" || first.center != (crt.Point{X: 0.5, Y: -0.25}) || first.size != 0.2 || first.radians != 1.5 {
		t.Errorf("first sticker = %+v", first)
	}
	if got := s.String(); got != "star.png;heart.png" {
		t.Errorf("String() = %q", got)
	}

	for _, bad := range []string{"star.png", "star.png,a,0,0,0", "star.png,0,0,0"} {
		if err := s.Set(bad); err == nil {
			t.Errorf("Set(%q) should fail", bad)
		}
	}
}

func TestParseStampTime(t *testing.T) {
	got, err := parseStampTime("2024-03-05T10:00:00Z")
	if err != nil {
		t.Fatalf("parseStampTime: %v", err)
	}
	if got.Year() != 2024 || got.Month() != 3 || got.Day() != 5 {
		t.Errorf("time = %v", got)
	}
	if _, err := parseStampTime("yesterday"); err == nil {
		t.Error("bad time should fail")
	}
}

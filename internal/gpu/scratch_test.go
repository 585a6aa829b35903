//go:build !nogpu

package gpu

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestAlignedRowPitch(t *testing.T) {
	tests := []struct {
		width uint32
		want  uint32
	}{
		{1, 256},
		{63, 256},
		{64, 256},
		{65, 512},
		{100, 512},
		{1920, 7680},
		{1921, 7936},
	}
	for _, tt := range tests {
		got := alignedRowPitch(tt.width)
		if got != tt.want {
			t.Errorf("alignedRowPitch(%d) = %d, want %d", tt.width, got, tt.want)
		}
		if got%copyPitchAlignment != 0 || got < tt.width*4 {
			t.Errorf("alignedRowPitch(%d) = %d is not a valid pitch", tt.width, got)
		}
	}
}

func TestUnpadRows(t *testing.T) {
	tests := []struct {
		name  string
		width uint32
		rows  uint32
	}{
		{"tight", 64, 3},
		{"padded", 3, 2},
		{"single row", 65, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rowBytes := tt.width * 4
			pitch := alignedRowPitch(tt.width)
			readback := bytes.Repeat([]byte{0xEE}, int(pitch*tt.rows))
			want := make([]byte, 0, rowBytes*tt.rows)
			for row := range tt.rows {
				for i := range rowBytes {
					v := byte(row*31 + i)
					readback[row*pitch+i] = v
					want = append(want, v)
				}
			}
			got := unpadRows(readback, rowBytes, pitch, tt.rows)
			if !bytes.Equal(got, want) {
				t.Errorf("unpadRows returned %d bytes, want %d tight bytes without padding", len(got), len(want))
			}
		})
	}
}

func TestWaitError(t *testing.T) {
	if err := waitError(true, nil); err != nil {
		t.Errorf("waitError(true, nil) = %v", err)
	}

	err := waitError(false, nil)
	if !errors.Is(err, ErrGPUTimeout) {
		t.Errorf("timeout = %v, want ErrGPUTimeout", err)
	}
	if err != nil && strings.Contains(err.Error(), "%!") {
		t.Errorf("timeout message is malformed: %q", err)
	}

	lost := errors.New("device lost")
	err = waitError(false, lost)
	if !errors.Is(err, lost) || errors.Is(err, ErrGPUTimeout) {
		t.Errorf("wait failure = %v, want the device error", err)
	}
}

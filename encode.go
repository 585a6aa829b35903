package crt

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EncodeJPEG writes f as a JPEG. A quality outside 1..100 uses the
// encoder's default.
func EncodeJPEG(w io.Writer, f *Frame, quality int) error {
	var opts *jpeg.Options
	if quality >= 1 && quality <= 100 {
		opts = &jpeg.Options{Quality: quality}
	}
	if err := jpeg.Encode(w, f.ToImage(), opts); err != nil {
		return fmt.Errorf("crt: encode jpeg: %w", err)
	}
	return nil
}

// EncodeJPEGWithMetadata writes f as a JPEG carrying md's EXIF block
// right after the start-of-image marker.
func EncodeJPEGWithMetadata(w io.Writer, f *Frame, quality int, md Metadata) error {
	data, err := JPEGDataWithMetadata(f, quality, md)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("crt: write jpeg: %w", err)
	}
	return nil
}

// JPEGData returns f encoded as a JPEG.
func JPEGData(f *Frame, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, f, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEGDataWithMetadata returns f encoded as a JPEG carrying md.
func JPEGDataWithMetadata(f *Frame, quality int, md Metadata) ([]byte, error) {
	data, err := JPEGData(f, quality)
	if err != nil || md.IsEmpty() {
		return data, err
	}
	seg, err := md.app1Segment()
	if err != nil {
		return nil, err
	}
	// data starts with the two-byte SOI marker.
	out := make([]byte, 0, len(data)+len(seg))
	out = append(out, data[:2]...)
	out = append(out, seg...)
	return append(out, data[2:]...), nil
}

// EncodePNG writes f as a PNG, keeping alpha.
func EncodePNG(w io.Writer, f *Frame) error {
	if err := png.Encode(w, f.ToImage()); err != nil {
		return fmt.Errorf("crt: encode png: %w", err)
	}
	return nil
}

// SaveFrame writes f to path, as PNG for a .png extension and as JPEG
// otherwise.
func SaveFrame(path string, f *Frame, quality int) error {
	return SaveFrameWithMetadata(path, f, quality, Metadata{})
}

// SaveFrameWithMetadata is SaveFrame that writes md into JPEG output. PNG
// output ignores md.
func SaveFrameWithMetadata(path string, f *Frame, quality int, md Metadata) (err error) {
	out, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if strings.EqualFold(filepath.Ext(path), ".png") {
		return EncodePNG(out, f)
	}
	return EncodeJPEGWithMetadata(out, f, quality, md)
}

package crt

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/crt/internal/kernel"
	"github.com/gogpu/crt/shadertypes"
)

// Frame is a rectangular pixel buffer, 4 bytes per pixel, row-major,
// in the byte order of its PixelFormat.
type Frame struct {
	width  int
	height int
	format PixelFormat
	data   []uint8

	pool   *FramePool
	pooled bool
}

// NewFrame creates a zeroed frame.
func NewFrame(width, height int, format PixelFormat) *Frame {
	return &Frame{
		width:  width,
		height: height,
		format: format,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the frame.
func (f *Frame) Width() int { return f.width }

// Height returns the height of the frame.
func (f *Frame) Height() int { return f.height }

// Format returns the pixel byte order.
func (f *Frame) Format() PixelFormat { return f.format }

// Description returns the frame's format description.
func (f *Frame) Description() FormatDescription {
	return FormatDescription{Width: f.width, Height: f.height, PixelFormat: f.format}
}

// Data returns the raw pixel data in the frame's byte order.
func (f *Frame) Data() []uint8 { return f.data }

// Stride returns the number of bytes per row.
func (f *Frame) Stride() int { return f.width * 4 }

// channels returns the byte offsets of R, G, B, A within a pixel.
func (f *Frame) channels() (r, g, b, a int) {
	if f.format == PixelFormatBGRA8 {
		return 2, 1, 0, 3
	}
	return 0, 1, 2, 3
}

// RGBA returns the pixel at (x, y). Out of range reads are transparent.
func (f *Frame) RGBA(x, y int) color.NRGBA {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return color.NRGBA{}
	}
	i := (y*f.width + x) * 4
	r, g, b, a := f.channels()
	return color.NRGBA{R: f.data[i+r], G: f.data[i+g], B: f.data[i+b], A: f.data[i+a]}
}

// SetRGBA sets the pixel at (x, y). Out of range writes are ignored.
func (f *Frame) SetRGBA(x, y int, c color.NRGBA) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	i := (y*f.width + x) * 4
	r, g, b, a := f.channels()
	f.data[i+r] = c.R
	f.data[i+g] = c.G
	f.data[i+b] = c.B
	f.data[i+a] = c.A
}

// Clear fills the frame with c.
func (f *Frame) Clear(c color.NRGBA) {
	for y := range f.height {
		for x := range f.width {
			f.SetRGBA(x, y, c)
		}
	}
}

// Clone returns an unpooled copy of the frame.
func (f *Frame) Clone() *Frame {
	c := NewFrame(f.width, f.height, f.format)
	copy(c.data, f.data)
	return c
}

// Release returns a pooled frame to its pool. It is a no-op for frames
// created with NewFrame and for frames already released.
func (f *Frame) Release() {
	if f.pool != nil {
		f.pool.Put(f)
	}
}

// rgbaPix returns the pixels in RGBA order. RGBA8 frames share their
// buffer.
func (f *Frame) rgbaPix() []byte {
	if f.format == PixelFormatRGBA8 {
		return f.data
	}
	pix := make([]byte, len(f.data))
	for i := 0; i+3 < len(f.data); i += 4 {
		pix[i+0] = f.data[i+2]
		pix[i+1] = f.data[i+1]
		pix[i+2] = f.data[i+0]
		pix[i+3] = f.data[i+3]
	}
	return pix
}

// setRGBAPix stores RGBA-ordered pixels into the frame.
func (f *Frame) setRGBAPix(pix []byte) {
	if f.format == PixelFormatRGBA8 {
		copy(f.data, pix)
		return
	}
	for i := 0; i+3 < len(f.data) && i+3 < len(pix); i += 4 {
		f.data[i+0] = pix[i+2]
		f.data[i+1] = pix[i+1]
		f.data[i+2] = pix[i+0]
		f.data[i+3] = pix[i+3]
	}
}

// Texels returns the frame as a shader texel buffer.
func (f *Frame) Texels() []byte {
	return shadertypes.EncodeTexels(f.width, f.height, f.rgbaPix())
}

// SetTexels copies a texel buffer of the frame's size into the frame.
func (f *Frame) SetTexels(buf []byte) error {
	w, h, pix, err := shadertypes.DecodeTexels(buf)
	if err != nil {
		return err
	}
	if w != f.width || h != f.height {
		return fmt.Errorf("%w: texels %dx%d for frame %dx%d", ErrFormatMismatch, w, h, f.width, f.height)
	}
	f.setRGBAPix(pix)
	return nil
}

// texture returns a kernel view of the frame. RGBA8 frames are shared;
// BGRA8 frames are converted.
func (f *Frame) texture() *kernel.Texture {
	return &kernel.Texture{Width: f.width, Height: f.height, Pix: f.rgbaPix()}
}

// storeTexture writes a kernel texture back into the frame. It is a no-op
// when t already shares the frame's buffer.
func (f *Frame) storeTexture(t *kernel.Texture) {
	if f.format == PixelFormatRGBA8 && len(t.Pix) > 0 && len(f.data) > 0 && &t.Pix[0] == &f.data[0] {
		return
	}
	f.setRGBAPix(t.Pix)
}

// ToImage converts the frame to an image.NRGBA.
func (f *Frame) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
	copy(img.Pix, f.rgbaPix())
	return img
}

// FrameFromImage creates a frame from any image.
func FrameFromImage(img image.Image, format PixelFormat) *Frame {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	f := NewFrame(b.Dx(), b.Dy(), format)
	f.setRGBAPix(nrgba.Pix)
	return f
}

// At implements the image.Image interface.
func (f *Frame) At(x, y int) color.Color {
	return f.RGBA(x, y)
}

// Bounds implements the image.Image interface.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// ColorModel implements the image.Image interface.
func (f *Frame) ColorModel() color.Model {
	return color.NRGBAModel
}

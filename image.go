package crt

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// DecodeImage decodes PNG, JPEG, GIF, BMP, TIFF or WebP data. An EXIF
// orientation in JPEG or TIFF data is applied, so the result is always
// upright.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := decodeImage(data)
	return img, err
}

// DecodeImageMetadata is DecodeImage that also returns the metadata to
// carry into an encoded JPEG. Only JPEG sources have metadata.
func DecodeImageMetadata(data []byte) (image.Image, Metadata, error) {
	return decodeImage(data)
}

func decodeImage(data []byte) (image.Image, Metadata, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("crt: decode image: %w", err)
	}

	var md Metadata
	if format == "jpeg" || format == "tiff" {
		x, err := exif.Decode(bytes.NewReader(data))
		if err != nil {
			Logger().Debug("crt: no EXIF data", "format", format, "err", err)
		} else {
			o := exifOrientation(x)
			img = ApplyOrientation(img, o)
			if format == "jpeg" {
				md = newMetadata(x.Raw)
			}
		}
	}
	Logger().Debug("crt: image decoded", "format", format, "bounds", img.Bounds().String())
	return img, md, nil
}

// exifOrientation returns the EXIF orientation tag, or 1 when it is
// missing or out of range.
func exifOrientation(x *exif.Exif) int {
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}

// ApplyOrientation returns img transformed so that an image stored with
// the given EXIF orientation (1..8) displays upright. Orientation 1 and
// unknown values return img unchanged.
func ApplyOrientation(img image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	src := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)

	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}
	// source returns the source pixel shown at (x, y) of the upright image.
	var source func(x, y int) (int, int)
	switch orientation {
	case 2: // mirrored
		source = func(x, y int) (int, int) { return w - 1 - x, y }
	case 3: // rotated 180
		source = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4: // flipped
		source = func(x, y int) (int, int) { return x, h - 1 - y }
	case 5: // transposed
		source = func(x, y int) (int, int) { return y, x }
	case 6: // needs 90 clockwise
		source = func(x, y int) (int, int) { return y, h - 1 - x }
	case 7: // transversed
		source = func(x, y int) (int, int) { return w - 1 - y, h - 1 - x }
	case 8: // needs 90 counter-clockwise
		source = func(x, y int) (int, int) { return w - 1 - y, x }
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	for y := range dh {
		for x := range dw {
			sx, sy := source(x, y)
			si := src.PixOffset(sx, sy)
			di := dst.PixOffset(x, y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// WithMaxDimension scales img down so that neither side exceeds dim,
// keeping the aspect ratio. Images already small enough, and a dim below
// 1, return img unchanged.
func WithMaxDimension(img image.Image, dim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if dim < 1 || (w <= dim && h <= dim) {
		return img
	}
	nw, nh := dim, dim
	if w >= h {
		nh = max(1, (h*dim+w/2)/w)
	} else {
		nw = max(1, (w*dim+h/2)/h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

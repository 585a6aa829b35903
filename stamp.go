package crt

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultStampLayout is the time layout of a film camera date back.
const DefaultStampLayout = "'06 01 02"

// StampOptions configures DrawDateStamp. Zero values select defaults.
type StampOptions struct {
	// Layout is a time.Format layout. Default DefaultStampLayout.
	Layout string

	// Color of the digits. Default is the orange of LED date backs.
	Color color.NRGBA

	// Height of the text relative to the shorter frame side. Default 0.045.
	Height float64

	// Margin from the bottom-right corner relative to the shorter frame
	// side. Default 0.04.
	Margin float64
}

var stampFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

func (o StampOptions) withDefaults() StampOptions {
	if o.Layout == "" {
		o.Layout = DefaultStampLayout
	}
	if o.Color == (color.NRGBA{}) {
		o.Color = color.NRGBA{R: 255, G: 140, B: 40, A: 230}
	}
	if o.Height <= 0 {
		o.Height = 0.045
	}
	if o.Margin <= 0 {
		o.Margin = 0.04
	}
	return o
}

// DrawDateStamp draws t in the bottom-right corner of f.
func DrawDateStamp(f *Frame, t time.Time, opts StampOptions) error {
	if f == nil {
		return errors.New("crt: date stamp: nil frame")
	}
	opts = opts.withDefaults()
	short := float64(min(f.width, f.height))
	if short < 1 {
		return nil
	}

	otf, err := stampFont()
	if err != nil {
		return fmt.Errorf("crt: date stamp font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    max(short*opts.Height, 1),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("crt: date stamp face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	img := f.ToImage()
	text := t.Format(opts.Layout)
	margin := short * opts.Margin

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(opts.Color),
		Face: face,
	}
	advance := d.MeasureString(text)
	descent := face.Metrics().Descent
	x := fixed.Int26_6((float64(f.width) - margin) * 64)
	y := fixed.Int26_6((float64(f.height) - margin) * 64)
	d.Dot = fixed.Point26_6{X: x - advance, Y: y - descent}
	d.DrawString(text)

	f.setRGBAPix(img.Pix)
	return nil
}

// Command crtview shows the CRT preview of an image in a gogpu window.
//
// The LUT pass runs once at startup; the preview pass reruns whenever the
// window is resized or the preview mode changes. The GPU accelerator shares
// the window's device. Press Space to toggle monochrome.
//
//	crtview -in photo.jpg -lut kodak.png -grain 0.3 -vignette 0.6
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/crt"
	"github.com/gogpu/crt/gpu"
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// sizedTexture is a texture that reports its size.
type sizedTexture interface {
	Width() int
	Height() int
}

// viewer keeps the filtered frame and the window texture showing its
// preview.
type viewer struct {
	frame    *crt.Frame
	renderer *crt.PreviewRenderer
	mode     crt.PreviewMode

	texture any
	w, h    int
	dirty   bool
}

func main() {
	var (
		in        = flag.String("in", "", "input image")
		lutPath   = flag.String("lut", "", "LUT image, relative to the support directory")
		intensity = flag.Float64("intensity", 1, "LUT intensity [0, 1]")
		grain     = flag.Float64("grain", 0, "film grain [0, 1]")
		vignette  = flag.Float64("vignette", 0, "vignette [0, 1]")
		width     = flag.Int("width", 800, "window width")
		height    = flag.Int("height", 600, "window height")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()
	if *verbose {
		crt.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	frame, err := filtered(*in, *lutPath, crt.LutParams{
		Intensity: float32(*intensity),
		Grain:     float32(*grain),
		Vignette:  float32(*vignette),
	})
	if err != nil {
		log.Fatalf("Failed to filter %s: %v", *in, err)
	}

	v := &viewer{frame: frame, renderer: crt.NewPreviewRenderer(), dirty: true}

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("crt preview").
		WithSize(*width, *height))

	shared := false
	app.OnDraw(func(dc *gogpu.Context) {
		w, h := dc.Width(), dc.Height()
		if w <= 0 || h <= 0 {
			return
		}
		if !shared {
			if provider := app.GPUContextProvider(); provider != nil {
				if err := gpu.SetDeviceProvider(provider); err != nil {
					log.Printf("GPU device sharing unavailable, using CPU: %v", err)
				}
				shared = true
			}
		}
		if err := v.draw(dc.AsTextureDrawer(), w, h); err != nil {
			log.Printf("Preview error: %v", err)
		}
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key != gpucontext.KeySpace {
			return
		}
		if v.mode == crt.PreviewColor {
			v.mode = crt.PreviewMonochrome
		} else {
			v.mode = crt.PreviewColor
		}
		v.dirty = true
		log.Printf("Preview mode: %s", v.mode)
	})

	app.OnClose(func() {
		v.close()
		crt.UnregisterAccelerator()
	})

	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}

// filtered loads path and runs the LUT pass over it.
func filtered(path, lutPath string, p crt.LutParams) (*crt.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := crt.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	src := crt.FrameFromImage(img, crt.PixelFormatRGBA8)

	r := crt.NewLutFilterRenderer()
	if err := r.Prepare(src.Description(), 1); err != nil {
		return nil, err
	}
	defer r.Reset()
	if lutPath != "" {
		if err := r.SetColorFilter(&lutPath, &p.Intensity, &p.Grain, &p.Vignette, crt.FilterDirSupport); err != nil {
			return nil, fmt.Errorf("load LUT: %w", err)
		}
	} else {
		r.SetParams(p)
	}
	out, err := r.Render(context.Background(), src)
	if err != nil {
		return nil, err
	}
	// The renderer's pool is discarded with it; keep an unpooled copy.
	defer out.Release()
	return out.Clone(), nil
}

// draw renders the preview when needed and draws it into the window.
func (v *viewer) draw(dc gpucontext.TextureDrawer, w, h int) error {
	if w != v.w || h != v.h {
		v.w, v.h = w, h
		v.dirty = true
	}
	if v.dirty || v.texture == nil {
		if err := v.upload(dc, w, h); err != nil {
			return err
		}
		v.dirty = false
	}
	tex, ok := v.texture.(gpucontext.Texture)
	if !ok {
		return fmt.Errorf("texture %T is not a gpucontext.Texture", v.texture)
	}
	return dc.DrawTexture(tex, 0, 0)
}

func (v *viewer) upload(dc gpucontext.TextureDrawer, w, h int) error {
	pv, err := v.renderer.Render(context.Background(), v.frame, crt.Size{Width: w, Height: h}, nil, v.mode)
	if err != nil {
		return err
	}
	defer pv.Release()

	if v.texture != nil && !v.sizeChanged(w, h) {
		if updater, ok := v.texture.(gpucontext.TextureUpdater); ok {
			return updater.UpdateData(pv.Data())
		}
	}

	creator := dc.TextureCreator()
	if creator == nil {
		return fmt.Errorf("draw context cannot create textures")
	}
	tex, err := creator.NewTextureFromRGBA(w, h, pv.Data())
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	// Preview output is premultiplied.
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}
	v.destroyTexture()
	v.texture = tex
	return nil
}

// sizeChanged reports whether the texture was created for another size.
func (v *viewer) sizeChanged(w, h int) bool {
	s, ok := v.texture.(sizedTexture)
	return !ok || s.Width() != w || s.Height() != h
}

func (v *viewer) destroyTexture() {
	if d, ok := v.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	v.texture = nil
}

func (v *viewer) close() {
	v.destroyTexture()
	v.renderer.Close()
}

// Command crtfx applies the CRT film filter to an image.
//
// It runs the LUT, grain and vignette pass, optionally stamps the date,
// and can render the preview pass with stickers instead of the full frame:
//
//	crtfx -in photo.jpg -out film.jpg -lut kodak.png -grain 0.3 -vignette 0.6 -stamp
//	crtfx -in photo.jpg -out preview.png -preview 800x600 -mono -sticker star.png,0.5,0.5,0.2,0.3
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/crt"
	_ "github.com/gogpu/crt/gpu" // register the GPU accelerator
	"github.com/gogpu/crt/shadertypes"
)

func main() {
	var (
		in        = flag.String("in", "", "input image (jpeg, png, gif, bmp, tiff, webp)")
		out       = flag.String("out", "crt.jpg", "output file, png by extension, jpeg otherwise")
		lutPath   = flag.String("lut", "", "LUT image, relative to -lut-dir")
		lutDir    = flag.String("lut-dir", "support", "LUT directory: support, cache or a path")
		intensity = flag.Float64("intensity", 1, "LUT intensity [0, 1]")
		grain     = flag.Float64("grain", 0, "film grain [0, 1]")
		vignette  = flag.Float64("vignette", 0, "vignette [0, 1]")
		maxDim    = flag.Int("max-dim", 0, "downscale so the longer side is at most this (0 keeps the size)")
		quality   = flag.Int("quality", 90, "JPEG quality [1, 100]")
		stamp     = flag.Bool("stamp", false, "draw a date stamp")
		stampTime = flag.String("stamp-time", "", "date stamp time, RFC3339 (default now)")
		preview   = flag.String("preview", "", "render the preview pass at WxH instead of the full frame")
		mono      = flag.Bool("mono", false, "monochrome preview")
		useGPU    = flag.Bool("gpu", true, "use the GPU accelerator when available")
		verbose   = flag.Bool("v", false, "debug logging")
		dump      = flag.Bool("dump-bindings", false, "print the shader binding table and exit")
		stickers  stickerFlags
	)
	flag.Var(&stickers, "sticker", "sticker as path,x,y,size,radians (repeatable)")
	flag.Parse()

	if *verbose {
		crt.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *dump {
		dumpBindings(os.Stdout)
		return
	}
	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	var opts []crt.Option
	if !*useGPU {
		opts = append(opts, crt.WithoutAccelerator())
	}
	dir := crt.FilterDirSupport
	switch *lutDir {
	case "support":
	case "cache":
		dir = crt.FilterDirCache
	default:
		opts = append(opts, crt.WithFilterDirs(*lutDir, *lutDir))
	}

	frame, md, err := loadFrame(*in, *maxDim)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *in, err)
	}

	ctx := context.Background()
	r := crt.NewLutFilterRenderer(opts...)
	if err := r.Prepare(frame.Description(), 1); err != nil {
		log.Fatalf("Failed to prepare filter: %v", err)
	}
	defer r.Reset()

	i, g, v := float32(*intensity), float32(*grain), float32(*vignette)
	if *lutPath != "" {
		if err := r.SetColorFilter(lutPath, &i, &g, &v, dir); err != nil {
			log.Fatalf("Failed to load LUT: %v", err)
		}
	} else {
		r.SetParams(crt.LutParams{Intensity: i, Grain: g, Vignette: v})
	}

	result, err := r.Render(ctx, frame)
	if err != nil {
		log.Fatalf("Filter failed: %v", err)
	}
	defer result.Release()

	if *stamp {
		t, err := parseStampTime(*stampTime)
		if err != nil {
			log.Fatalf("Bad -stamp-time: %v", err)
		}
		if err := crt.DrawDateStamp(result, t, crt.StampOptions{}); err != nil {
			log.Fatalf("Date stamp failed: %v", err)
		}
	}

	final := result
	if *preview != "" {
		viewport, err := parseSize(*preview)
		if err != nil {
			log.Fatalf("Bad -preview: %v", err)
		}
		list, err := stickers.load()
		if err != nil {
			log.Fatalf("Failed to load sticker: %v", err)
		}
		mode := crt.PreviewColor
		if *mono {
			mode = crt.PreviewMonochrome
		}
		pr := crt.NewPreviewRenderer(opts...)
		defer pr.Close()
		pv, err := pr.Render(ctx, result, viewport, list, mode)
		if err != nil {
			log.Fatalf("Preview failed: %v", err)
		}
		defer pv.Release()
		final = pv
	}

	if err := crt.SaveFrameWithMetadata(*out, final, *quality, md); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Saved %s (%s)", *out, final.Description())
}

// loadFrame decodes an upright frame and the metadata to carry into JPEG
// output.
func loadFrame(path string, maxDim int) (*crt.Frame, crt.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, crt.Metadata{}, err
	}
	img, md, err := crt.DecodeImageMetadata(data)
	if err != nil {
		return nil, crt.Metadata{}, err
	}
	if maxDim > 0 {
		img = crt.WithMaxDimension(img, maxDim)
	}
	return crt.FrameFromImage(img, crt.PixelFormatRGBA8), md, nil
}

func parseStampTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, s)
}

// parseSize parses WxH.
func parseSize(s string) (crt.Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return crt.Size{}, fmt.Errorf("want WxH, got %q", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return crt.Size{}, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return crt.Size{}, fmt.Errorf("height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return crt.Size{}, fmt.Errorf("empty size %dx%d", w, h)
	}
	return crt.Size{Width: w, Height: h}, nil
}

// stickerSpec is one -sticker flag before its image is loaded.
type stickerSpec struct {
	path    string
	center  crt.Point
	size    float64
	radians float64
}

type stickerFlags []stickerSpec

func (s *stickerFlags) String() string {
	if s == nil {
		return ""
	}
	parts := make([]string, len(*s))
	for i, sp := range *s {
		parts[i] = sp.path
	}
	return strings.Join(parts, ";")
}

func (s *stickerFlags) Set(v string) error {
	fields := strings.Split(v, ",")
	if len(fields) != 5 {
		return fmt.Errorf("want path,x,y,size,radians, got %q", v)
	}
	nums := make([]float64, 4)
	for i, f := range fields[1:] {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return fmt.Errorf("sticker field %d: %w", i+2, err)
		}
		nums[i] = n
	}
	*s = append(*s, stickerSpec{
		path:    fields[0],
		center:  crt.Point{X: nums[0], Y: nums[1]},
		size:    nums[2],
		radians: nums[3],
	})
	return nil
}

func (s stickerFlags) load() ([]crt.Sticker, error) {
	out := make([]crt.Sticker, 0, len(s))
	for i, sp := range s {
		f, _, err := loadFrame(sp.path, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sp.path, err)
		}
		out = append(out, crt.Sticker{
			ID:      i,
			Image:   f,
			Center:  sp.center,
			Size:    sp.size,
			Radians: sp.radians,
		})
	}
	return out, nil
}

func dumpBindings(w *os.File) {
	sources := []struct {
		name   string
		source string
	}{
		{"lut", shadertypes.LutShaderSource()},
		{"preview_compute", shadertypes.PreviewComputeShaderSource()},
		{"preview_render", shadertypes.PreviewShaderSource()},
	}
	for _, s := range sources {
		fmt.Fprintf(w, "%s:\n", s.name)
		for _, b := range shadertypes.Bindings(s.source) {
			fmt.Fprintf(w, "  @group(%d) @binding(%d) %s\n", b.Group, b.Binding, b.Name)
		}
	}
	fmt.Fprintf(w, "vertex: stride %d, position @location(%d) offset %d, texture coordinate @location(%d) offset %d\n",
		shadertypes.VertexStride,
		shadertypes.VertexAttributePosition, shadertypes.VertexPositionOffset,
		shadertypes.VertexAttributeTextureCoordinate, shadertypes.VertexTextureCoordinateOffset)
}

// Package crt applies a film look to camera frames: a colour lookup table,
// grain and a vignette, plus a preview pass that draws the filtered frame
// and sticker overlays into a viewport.
//
// # Overview
//
// Every pass is a pair of programs that must agree on where their inputs
// live: the shader side declares textures and parameter buffers at fixed
// binding slots and the host binds them at the same slots. The slots and
// the vertex record layout are declared once in package
// [github.com/gogpu/crt/shadertypes]; the WGSL sources are generated from
// those constants so the two sides cannot drift apart.
//
// # Quick Start
//
//	r := crt.NewLutFilterRenderer()
//	if err := r.Prepare(frame.Description(), 3); err != nil {
//	    return err
//	}
//	defer r.Reset()
//
//	lut := "films/portra.png"
//	intensity, grain := float32(0.8), float32(0.3)
//	_ = r.SetColorFilter(&lut, &intensity, &grain, nil, crt.FilterDirSupport)
//
//	out, err := r.Render(ctx, frame)
//	if err != nil {
//	    return err
//	}
//	defer out.Release()
//	return crt.EncodeJPEG(w, out, 90)
//
// # GPU acceleration
//
// Rendering runs on the CPU by default, with one work item per 8x8
// threadgroup. Import the gpu package to run the same WGSL on the GPU via
// gogpu/wgpu:
//
//	import _ "github.com/gogpu/crt/gpu"
//
// When the GPU cannot handle a pass the renderers fall back to the CPU
// transparently.
//
// # Logging
//
// crt is silent by default. Call [SetLogger] to route diagnostics to a
// [log/slog] logger.
package crt

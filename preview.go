// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package crt

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/crt/internal/kernel"
	"github.com/gogpu/crt/internal/parallel"
	"github.com/gogpu/crt/internal/raster"
	"github.com/gogpu/crt/shadertypes"
)

// PreviewMode selects the preview compute stage.
type PreviewMode int

const (
	// PreviewColor shows the frame unchanged.
	PreviewColor PreviewMode = iota
	// PreviewMonochrome shows the frame's luma.
	PreviewMonochrome
)

// String returns the mode name.
func (m PreviewMode) String() string {
	if m == PreviewMonochrome {
		return "monochrome"
	}
	return "color"
}

// EntryPoint returns the compute entry point implementing the mode.
func (m PreviewMode) EntryPoint() string {
	return m.kernelMode().EntryPoint()
}

func (m PreviewMode) kernelMode() kernel.PreviewMode {
	if m == PreviewMonochrome {
		return kernel.ModeMonochrome
	}
	return kernel.ModeColor
}

// PreviewRenderer draws frames and stickers into a viewport.
//
// Each Render runs two stages: a compute stage from the frame into an
// intermediate texture at the preview input and output slots, then a
// render stage that draws the aspect-fit frame quad and every sticker quad
// over a transparent viewport.
//
// Output frames come from a pool keyed by viewport. When the viewport
// changes, idle frames of other sizes are dropped.
type PreviewRenderer struct {
	opts options

	// renderMu is read-held by Render and write-held by Close.
	renderMu sync.RWMutex

	mu       sync.Mutex
	workers  *parallel.WorkerPool
	viewport FormatDescription
	pool     *FramePool
}

// NewPreviewRenderer creates a preview renderer.
func NewPreviewRenderer(opts ...Option) *PreviewRenderer {
	return &PreviewRenderer{
		opts: newOptions(opts),
		pool: NewFramePool(0),
	}
}

// Close waits for in-flight renders and stops the CPU workers. The
// renderer stays usable; workers are started again on the next CPU render.
func (r *PreviewRenderer) Close() {
	r.renderMu.Lock()
	defer r.renderMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.workers != nil {
		r.workers.Close()
		r.workers = nil
	}
	r.pool.Clear()
}

func (r *PreviewRenderer) workerPool() *parallel.WorkerPool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.workers == nil {
		r.workers = parallel.NewWorkerPool(r.opts.workers)
	}
	return r.workers
}

// retainViewport drops idle frames of earlier viewports once desc differs
// from the last viewport rendered.
func (r *PreviewRenderer) retainViewport(desc FormatDescription) {
	r.mu.Lock()
	changed := r.viewport != desc
	r.viewport = desc
	r.mu.Unlock()
	if changed {
		r.pool.Retain(desc)
	}
}

// Pass builds the preview pass for frame without running it.
func (r *PreviewRenderer) Pass(frame *Frame, viewport Size, stickers []Sticker, mode PreviewMode) PreviewPass {
	pass := PreviewPass{
		Source:   frame,
		Mode:     mode,
		Viewport: viewport,
		Quads: []PreviewQuad{{
			Vertices: FrameQuad(frame.width, frame.height, viewport.Width, viewport.Height),
		}},
	}
	for _, s := range stickers {
		if s.Image == nil || s.Size <= 0 {
			Logger().Debug("crt: sticker skipped", "id", s.ID)
			continue
		}
		pass.Quads = append(pass.Quads, PreviewQuad{
			Texture:  s.Image,
			Vertices: s.Vertices(viewport.Width, viewport.Height),
		})
	}
	return pass
}

// Render draws frame and stickers into a new RGBA8 frame of the viewport
// size. Call Release on the result when done with it.
func (r *PreviewRenderer) Render(ctx context.Context, frame *Frame, viewport Size, stickers []Sticker, mode PreviewMode) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: nil frame", ErrFormatMismatch)
	}
	if err := frame.Description().Validate(); err != nil {
		return nil, err
	}

	r.renderMu.RLock()
	defer r.renderMu.RUnlock()

	desc := FormatDescription{Width: viewport.Width, Height: viewport.Height, PixelFormat: PixelFormatRGBA8}
	dst, err := r.pool.Get(desc)
	if err != nil {
		return nil, fmt.Errorf("crt: preview viewport: %w", err)
	}
	r.retainViewport(desc)
	pass := r.Pass(frame, viewport, stickers, mode)

	if a := r.opts.accelerator(); a != nil && a.CanAccelerate(AccelPreview) {
		err := a.DrawPreview(ctx, dst, pass)
		if err == nil {
			return dst, nil
		}
		if ctx.Err() != nil {
			dst.Release()
			return nil, ctx.Err()
		}
		logFallback(a, "preview", err)
		clear(dst.data)
	}

	if err := r.renderCPU(ctx, dst, pass); err != nil {
		dst.Release()
		return nil, err
	}
	return dst, nil
}

func (r *PreviewRenderer) renderCPU(ctx context.Context, dst *Frame, pass PreviewPass) error {
	src := pass.Source
	intermediate := kernel.NewTexture(src.width, src.height)

	var compute kernel.PreviewArgs
	compute.SetTexture(shadertypes.PreviewTextureIndexInput, src.texture())
	compute.SetTexture(shadertypes.PreviewTextureIndexOutput, intermediate)
	k, err := kernel.PreviewFilter(&compute, pass.Mode.kernelMode())
	if err != nil {
		return fmt.Errorf("crt: preview kernel: %w", err)
	}
	grid := kernel.GridFor(src.width, src.height, r.opts.groupW, r.opts.groupH)
	if err := kernel.Dispatch(ctx, r.workerPool(), grid, k); err != nil {
		return err
	}

	target := dst.texture()
	viewport := shadertypes.EncodeViewportSize(uint32(pass.Viewport.Width), uint32(pass.Viewport.Height)) //nolint:gosec // validated viewport
	for i, q := range pass.Quads {
		var draw kernel.PreviewArgs
		tex := intermediate
		if q.Texture != nil {
			tex = q.Texture.texture()
		}
		draw.SetTexture(shadertypes.PreviewTextureIndexOutput, tex)
		draw.SetBytes(shadertypes.VertexIndexVertices, shadertypes.EncodeVertices(q.Vertices))
		draw.SetBytes(shadertypes.VertexIndexViewportSize, viewport)

		err := raster.DrawTriangles(target,
			draw.Bytes(shadertypes.VertexIndexVertices),
			draw.Bytes(shadertypes.VertexIndexViewportSize),
			draw.Texture(shadertypes.PreviewTextureIndexOutput))
		if err != nil {
			return fmt.Errorf("crt: preview quad %d: %w", i, err)
		}
	}
	dst.storeTexture(target)
	return nil
}

//go:build !nogpu

package gpu

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/crt"
)

// Accelerator runs the LUT and preview passes on a wgpu device.
//
// The device is either opened by Init or handed in by SetDeviceProvider.
// A shared device is never destroyed by Close.
type Accelerator struct {
	mu sync.Mutex

	own *openedDevice // nil when the device is shared

	lut     *lutPipeline
	preview *previewPipeline

	ready bool
}

var (
	_ crt.Accelerator         = (*Accelerator)(nil)
	_ crt.DeviceProviderAware = (*Accelerator)(nil)
)

const acceleratorName = "crt-wgpu"

// Name returns "crt-wgpu".
func (a *Accelerator) Name() string { return acceleratorName }

// CanAccelerate reports whether the pipelines are ready for op.
func (a *Accelerator) CanAccelerate(op crt.AcceleratedOp) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready && op&(crt.AccelLut|crt.AccelPreview) != 0
}

// Init opens a GPU and compiles the pipelines. It is a no-op when a shared
// device was already installed.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}
	dev, err := openDevice()
	if err != nil {
		return fmt.Errorf("crt-wgpu: %w", err)
	}
	if err := a.createPipelines(dev.device, dev.queue); err != nil {
		dev.destroy()
		return fmt.Errorf("crt-wgpu: %w", err)
	}
	a.own = dev
	a.ready = true
	slogger().Info("GPU accelerator initialized", "adapter", dev.name)
	return nil
}

// Close releases the pipelines and, unless shared, the device.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeLocked()
}

func (a *Accelerator) closeLocked() {
	a.destroyPipelines()
	if a.own != nil {
		a.own.destroy()
		a.own = nil
	}
	a.ready = false
}

// SetLogger receives the logger propagated by crt.SetLogger.
func (a *Accelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// SetDeviceProvider switches the accelerator to a GPU device shared by
// provider, for example a gogpu window. The provider must also implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (a *Accelerator) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	device, queue, err := providerDevice(provider)
	if err != nil {
		return fmt.Errorf("crt-wgpu: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeLocked()

	if err := a.createPipelines(device, queue); err != nil {
		return fmt.Errorf("crt-wgpu: create pipelines with shared device: %w", err)
	}
	a.ready = true
	slogger().Info("using shared GPU device")
	return nil
}

// ApplyLut runs the LUT pass on the GPU.
func (a *Accelerator) ApplyLut(ctx context.Context, dst, src *crt.Frame, lut *crt.LUT, p crt.LutParams) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return crt.ErrFallbackToCPU
	}
	in := LutInput{
		Width:     src.Width(),
		Height:    src.Height(),
		Input:     src.Texels(),
		Intensity: p.Intensity,
		Grain:     p.Grain,
		Vignette:  p.Vignette,
	}
	if lut != nil {
		in.Lut = lut.Texels()
	}
	out, err := a.lut.run(ctx, in)
	if err != nil {
		return fmt.Errorf("crt-wgpu: lut pass: %w", err)
	}
	return dst.SetTexels(out)
}

// DrawPreview runs the preview compute and render passes on the GPU.
func (a *Accelerator) DrawPreview(ctx context.Context, dst *crt.Frame, pass crt.PreviewPass) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return crt.ErrFallbackToCPU
	}
	if dst.Format() != crt.PixelFormatRGBA8 ||
		dst.Width() != pass.Viewport.Width || dst.Height() != pass.Viewport.Height {
		return fmt.Errorf("%w: preview target %s for viewport %dx%d",
			crt.ErrFormatMismatch, dst.Description(), pass.Viewport.Width, pass.Viewport.Height)
	}

	in := PreviewInput{
		Width:          pass.Source.Width(),
		Height:         pass.Source.Height(),
		Input:          pass.Source.Texels(),
		EntryPoint:     pass.Mode.EntryPoint(),
		ViewportWidth:  pass.Viewport.Width,
		ViewportHeight: pass.Viewport.Height,
		Quads:          make([]PreviewQuad, len(pass.Quads)),
	}
	for i, q := range pass.Quads {
		in.Quads[i].Vertices = q.Vertices
		if q.Texture != nil {
			in.Quads[i].Texels = q.Texture.Texels()
		}
	}

	out, err := a.preview.run(ctx, in)
	if err != nil {
		return fmt.Errorf("crt-wgpu: preview pass: %w", err)
	}
	if len(out) != len(dst.Data()) {
		return fmt.Errorf("%w: readback %d bytes for %s", crt.ErrFormatMismatch, len(out), dst.Description())
	}
	copy(dst.Data(), out)
	return nil
}

func (a *Accelerator) createPipelines(device hal.Device, queue hal.Queue) error {
	lut, err := newLutPipeline(device, queue)
	if err != nil {
		return err
	}
	preview, err := newPreviewPipeline(device, queue)
	if err != nil {
		lut.destroy()
		return err
	}
	a.lut, a.preview = lut, preview
	return nil
}

func (a *Accelerator) destroyPipelines() {
	if a.lut != nil {
		a.lut.destroy()
		a.lut = nil
	}
	if a.preview != nil {
		a.preview.destroy()
		a.preview = nil
	}
}

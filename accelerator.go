package crt

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/crt/shadertypes"
)

// ErrFallbackToCPU indicates the accelerator cannot run this pass.
// Renderers fall back to the CPU kernels transparently.
var ErrFallbackToCPU = errors.New("crt: falling back to CPU rendering")

// AcceleratedOp describes pass types for capability checks.
type AcceleratedOp uint32

const (
	// AccelLut is the LUT, grain and vignette compute pass.
	AccelLut AcceleratedOp = 1 << iota

	// AccelPreview is the preview compute and render pass.
	AccelPreview
)

// LutParams are the scalar parameters of the LUT pass, one per parameter
// buffer slot.
type LutParams struct {
	Intensity float32
	Grain     float32
	Vignette  float32
}

// PreviewQuad is one textured triangle list of a preview pass.
type PreviewQuad struct {
	// Texture is sampled by the fragment stage. Nil samples the output of
	// the preview compute stage.
	Texture *Frame

	// Vertices is a triangle list in pixels around the viewport centre.
	Vertices []shadertypes.Vertex
}

// PreviewPass describes one preview frame.
type PreviewPass struct {
	Source   *Frame
	Mode     PreviewMode
	Viewport Size
	Quads    []PreviewQuad
}

// Accelerator runs passes on a GPU.
//
// Implementations live in backend packages; users opt in with a blank
// import:
//
//	import _ "github.com/gogpu/crt/gpu"
type Accelerator interface {
	// Name returns the accelerator name.
	Name() string

	// Init acquires GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the accelerator runs op at all.
	CanAccelerate(op AcceleratedOp) bool

	// ApplyLut runs the LUT pass from src into dst. Both frames have the
	// same description. lut may be nil.
	ApplyLut(ctx context.Context, dst, src *Frame, lut *LUT, p LutParams) error

	// DrawPreview runs the preview pass into dst, an RGBA8 frame the size
	// of pass.Viewport cleared to transparent.
	DrawPreview(ctx context.Context, dst *Frame, pass PreviewPass) error
}

// DeviceProviderAware is implemented by accelerators that can run on a GPU
// device owned by someone else (for example a gogpu window).
type DeviceProviderAware interface {
	SetDeviceProvider(provider gpucontext.DeviceProvider) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator initialises a and makes it the current accelerator,
// closing the previous one. If Init fails, nothing changes and the error
// is returned.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("crt: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil && old != a {
		old.Close()
	}
	Logger().Info("crt: accelerator registered", "name", a.Name())
	return nil
}

// UnregisterAccelerator closes and removes the current accelerator.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// CurrentAccelerator returns the registered accelerator, or nil.
func CurrentAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider hands a shared GPU device to the current
// accelerator. It is a no-op without an accelerator or when the
// accelerator cannot share devices.
func SetAcceleratorDeviceProvider(provider gpucontext.DeviceProvider) error {
	a := CurrentAccelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}

//go:build !nogpu

// Package gpu registers the wgpu accelerator for the LUT and preview passes.
//
// If GPU initialization fails (no Vulkan available), the registration is
// skipped with a warning and rendering falls back to the CPU kernels.
//
// Usage:
//
//	import _ "github.com/gogpu/crt/gpu" // enable GPU acceleration
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/crt"
	gpuimpl "github.com/gogpu/crt/internal/gpu"
)

func init() {
	if err := crt.RegisterAccelerator(&gpuimpl.Accelerator{}); err != nil {
		crt.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider runs the GPU passes on a device shared by an external
// provider such as a gogpu window. The provider must also expose its HAL
// device and queue.
//
// When no wgpu accelerator is registered, because this process could not
// open a GPU of its own, a new one is built on the shared device and
// registered.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if a, ok := crt.CurrentAccelerator().(*gpuimpl.Accelerator); ok {
		return a.SetDeviceProvider(provider)
	}
	a := &gpuimpl.Accelerator{}
	if err := a.SetDeviceProvider(provider); err != nil {
		return err
	}
	return crt.RegisterAccelerator(a)
}

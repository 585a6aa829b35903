//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/crt/shadertypes"
)

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirv, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("naga compile: %w", err)
	}
	return shadertypes.SPIRVWords(spirv)
}

// createShaderModule compiles wgsl and creates a shader module from it.
func createShaderModule(device hal.Device, label, wgsl string) (hal.ShaderModule, error) {
	code, err := compileSPIRV(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module %s: %w", label, err)
	}
	return module, nil
}

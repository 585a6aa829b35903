//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend
)

// ErrNoAdapter is returned when no GPU adapter could be opened.
var ErrNoAdapter = errors.New("gpu: no GPU adapters found")

// openedDevice is a device this package created and must destroy.
type openedDevice struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
}

// openDevice opens the first discrete or integrated GPU on the Vulkan
// backend, falling back to the first adapter of any type.
func openDevice() (*openedDevice, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	opened, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	return &openedDevice{
		instance: instance,
		device:   opened.Device,
		queue:    opened.Queue,
		name:     selected.Info.Name,
	}, nil
}

func (d *openedDevice) destroy() {
	if d.device != nil {
		d.device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
}

// halProvider is the part of a device provider that exposes HAL objects.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// providerDevice extracts the HAL device and queue of a shared provider.
func providerDevice(provider any) (hal.Device, hal.Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, fmt.Errorf("provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}

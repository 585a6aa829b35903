//go:build !nogpu

package gpu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// fenceTimeout bounds the wait for one submitted pass.
const fenceTimeout = 5 * time.Second

// copyPitchAlignment is the row pitch alignment texture-to-buffer copies
// require.
const copyPitchAlignment = 256

// ErrGPUTimeout is returned when a submitted pass does not finish within
// the fence timeout.
var ErrGPUTimeout = errors.New("crt-wgpu: timed out waiting for GPU")

// alignedRowPitch rounds a row of width RGBA8 texels up to the copy pitch
// alignment.
func alignedRowPitch(width uint32) uint32 {
	return (width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// unpadRows packs rows read back with a row pitch of pitch into a tight
// buffer of rowBytes per row.
func unpadRows(readback []byte, rowBytes, pitch, rows uint32) []byte {
	if pitch == rowBytes {
		return readback[:int(rowBytes)*int(rows)]
	}
	tight := make([]byte, uint64(rowBytes)*uint64(rows))
	for row := range int(rows) {
		src := row * int(pitch)
		dst := row * int(rowBytes)
		copy(tight[dst:dst+int(rowBytes)], readback[src:src+int(rowBytes)])
	}
	return tight
}

// waitError turns the result of a fence wait into an error.
func waitError(ok bool, err error) error {
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w after %v", ErrGPUTimeout, fenceTimeout)
	}
	return nil
}

// buffer is a GPU buffer together with its byte size.
type buffer struct {
	hal.Buffer
	size uint64
}

// entry binds the whole buffer at binding.
func (b buffer) entry(binding uint32) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding:  binding,
		Resource: gputypes.BufferBinding{Buffer: b.NativeHandle(), Offset: 0, Size: b.size},
	}
}

// scratch owns the per-pass resources of one submission. release destroys
// them once the fence has signalled.
type scratch struct {
	device hal.Device
	queue  hal.Queue

	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
	textures   []hal.Texture
	views      []hal.TextureView
}

func newScratch(device hal.Device, queue hal.Queue) *scratch {
	return &scratch{device: device, queue: queue}
}

func (s *scratch) buffer(label string, size uint64, usage gputypes.BufferUsage) (buffer, error) {
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return buffer{}, fmt.Errorf("create %s: %w", label, err)
	}
	s.buffers = append(s.buffers, buf)
	return buffer{Buffer: buf, size: size}, nil
}

// upload creates a buffer holding data. CopyDst is added to usage.
func (s *scratch) upload(label string, data []byte, usage gputypes.BufferUsage) (buffer, error) {
	buf, err := s.buffer(label, uint64(len(data)), usage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return buffer{}, err
	}
	s.queue.WriteBuffer(buf.Buffer, 0, data)
	return buf, nil
}

func (s *scratch) bindGroup(label string, layout hal.BindGroupLayout, entries ...gputypes.BindGroupEntry) (hal.BindGroup, error) {
	bg, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	s.bindGroups = append(s.bindGroups, bg)
	return bg, nil
}

// renderTarget creates an RGBA8 colour attachment that can be copied out.
func (s *scratch) renderTarget(label string, w, h uint32) (hal.Texture, hal.TextureView, error) {
	tex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", label, err)
	}
	s.textures = append(s.textures, tex)

	view, err := s.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s view: %w", label, err)
	}
	s.views = append(s.views, view)
	return tex, view, nil
}

// submit records one command buffer with encode, submits it and waits for
// the GPU. The context is checked before submission and after the wait.
func (s *scratch) submit(ctx context.Context, label string, encode func(hal.CommandEncoder)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	encode(encoder)
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	fence, err := s.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer s.device.DestroyFence(fence)
	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := waitError(s.device.Wait(fence, 1, fenceTimeout)); err != nil {
		return err
	}
	return ctx.Err()
}

// read copies the contents of a mappable buffer.
func (s *scratch) read(buf buffer) ([]byte, error) {
	out := make([]byte, buf.size)
	if err := s.queue.ReadBuffer(buf.Buffer, 0, out); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return out, nil
}

func (s *scratch) release() {
	for _, bg := range s.bindGroups {
		s.device.DestroyBindGroup(bg)
	}
	for _, v := range s.views {
		s.device.DestroyTextureView(v)
	}
	for _, t := range s.textures {
		s.device.DestroyTexture(t)
	}
	for _, b := range s.buffers {
		s.device.DestroyBuffer(b)
	}
	*s = scratch{device: s.device, queue: s.queue}
}

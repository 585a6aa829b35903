//go:build !nogpu

package gpu

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/crt/shadertypes"
)

// LutInput is one LUT pass. Input and Lut are texel buffers; the scalar
// fields are encoded into one uniform block each.
type LutInput struct {
	Width, Height int
	Input         []byte
	Lut           []byte // nil binds an empty table

	Intensity float32
	Grain     float32
	Vignette  float32
}

// lutPipeline is the compiled LUT compute pipeline.
type lutPipeline struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	layouts    []hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

func newLutPipeline(device hal.Device, queue hal.Queue) (*lutPipeline, error) {
	p := &lutPipeline{device: device, queue: queue}
	shader, err := createShaderModule(device, "crt_lut", shadertypes.LutShaderSource())
	if err != nil {
		return nil, err
	}
	p.shader = shader

	p.layouts, p.pipeLayout, err = pipelineLayout(device, "crt_lut_pipe_layout", lutLayouts())
	if err != nil {
		p.destroy()
		return nil, err
	}

	p.pipeline, err = device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "crt_lut_pipeline",
		Layout:  p.pipeLayout,
		Compute: hal.ComputeState{Module: p.shader, EntryPoint: shadertypes.EntryLut},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("create lut compute pipeline: %w", err)
	}
	return p, nil
}

// run executes one LUT pass and returns the output texel buffer.
func (p *lutPipeline) run(ctx context.Context, in LutInput) ([]byte, error) {
	if in.Width <= 0 || in.Height <= 0 {
		return nil, fmt.Errorf("lut pass: empty frame %dx%d", in.Width, in.Height)
	}
	lut := in.Lut
	if lut == nil {
		lut = shadertypes.EncodeTexels(0, 0, nil)
	}

	s := newScratch(p.device, p.queue)
	defer s.release()

	input, err := s.upload("crt_lut_input", in.Input, gputypes.BufferUsageStorage)
	if err != nil {
		return nil, err
	}
	output, err := s.upload("crt_lut_output", shadertypes.EncodeTexels(in.Width, in.Height, nil),
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
	if err != nil {
		return nil, err
	}
	table, err := s.upload("crt_lut_table", lut, gputypes.BufferUsageStorage)
	if err != nil {
		return nil, err
	}

	scalars := map[shadertypes.BufferIndex]float32{
		shadertypes.BufferIndexIntensity: in.Intensity,
		shadertypes.BufferIndexGrain:     in.Grain,
		shadertypes.BufferIndexVignette:  in.Vignette,
	}
	var uniformEntries []gputypes.BindGroupEntry
	for _, idx := range shadertypes.LutBufferIndices() {
		ub, err := s.upload("crt_lut_"+idx.String(), shadertypes.EncodeScalar(scalars[idx]), gputypes.BufferUsageUniform)
		if err != nil {
			return nil, err
		}
		uniformEntries = append(uniformEntries, ub.entry(uint32(idx)))
	}

	staging, err := s.buffer("crt_lut_staging", output.size, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	textures, err := s.bindGroup("crt_lut_textures", p.layouts[shadertypes.GroupTextures],
		input.entry(uint32(shadertypes.TextureIndexInput)),
		output.entry(uint32(shadertypes.TextureIndexOutput)),
		table.entry(uint32(shadertypes.TextureIndexLut)),
	)
	if err != nil {
		return nil, err
	}
	buffers, err := s.bindGroup("crt_lut_buffers", p.layouts[shadertypes.GroupBuffers], uniformEntries...)
	if err != nil {
		return nil, err
	}

	gx, gy := groups(in.Width, in.Height)
	err = s.submit(ctx, "crt_lut", func(encoder hal.CommandEncoder) {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "crt_lut_pass"})
		pass.SetPipeline(p.pipeline)
		pass.SetBindGroup(shadertypes.GroupTextures, textures, nil)
		pass.SetBindGroup(shadertypes.GroupBuffers, buffers, nil)
		pass.Dispatch(gx, gy, 1)
		pass.End()
		encoder.CopyBufferToBuffer(output.Buffer, staging.Buffer, []hal.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: output.size},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.read(staging)
}

func (p *lutPipeline) destroy() {
	if p.pipeline != nil {
		p.device.DestroyComputePipeline(p.pipeline)
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
	}
	destroyLayouts(p.device, p.layouts)
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
	}
	*p = lutPipeline{device: p.device, queue: p.queue}
}

// groups returns the workgroup counts covering a w x h grid.
func groups(w, h int) (uint32, uint32) {
	const n = shadertypes.WorkgroupSize
	return uint32((w + n - 1) / n), uint32((h + n - 1) / n) //nolint:gosec // frame sizes fit uint32
}

//go:build !nogpu

package gpu

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/crt/shadertypes"
)

// PreviewQuad is one triangle list of a preview pass. A nil Texels samples
// the output of the compute stage.
type PreviewQuad struct {
	Texels   []byte
	Vertices []shadertypes.Vertex
}

// PreviewInput is one preview pass.
type PreviewInput struct {
	Width, Height int // source frame
	Input         []byte
	EntryPoint    string

	ViewportWidth, ViewportHeight int
	Quads                         []PreviewQuad
}

// previewPipeline holds the compute and render pipelines of the preview.
type previewPipeline struct {
	device hal.Device
	queue  hal.Queue

	computeShader  hal.ShaderModule
	computeLayouts []hal.BindGroupLayout
	computeLayout  hal.PipelineLayout
	compute        map[string]hal.ComputePipeline

	renderShader  hal.ShaderModule
	renderLayouts []hal.BindGroupLayout
	renderLayout  hal.PipelineLayout
	render        hal.RenderPipeline
}

func newPreviewPipeline(device hal.Device, queue hal.Queue) (*previewPipeline, error) {
	p := &previewPipeline{device: device, queue: queue, compute: make(map[string]hal.ComputePipeline)}
	if err := p.createCompute(); err != nil {
		p.destroy()
		return nil, err
	}
	if err := p.createRender(); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *previewPipeline) createCompute() error {
	shader, err := createShaderModule(p.device, "crt_preview_compute", shadertypes.PreviewComputeShaderSource())
	if err != nil {
		return err
	}
	p.computeShader = shader

	p.computeLayouts, p.computeLayout, err = pipelineLayout(p.device, "crt_preview_compute_pipe_layout", previewComputeLayouts())
	if err != nil {
		return err
	}

	for _, entry := range []string{shadertypes.EntryPreviewColor, shadertypes.EntryPreviewMonochrome} {
		pipeline, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
			Label:   "crt_preview_" + entry,
			Layout:  p.computeLayout,
			Compute: hal.ComputeState{Module: p.computeShader, EntryPoint: entry},
		})
		if err != nil {
			return fmt.Errorf("create %s pipeline: %w", entry, err)
		}
		p.compute[entry] = pipeline
	}
	return nil
}

func (p *previewPipeline) createRender() error {
	shader, err := createShaderModule(p.device, "crt_preview_render", shadertypes.PreviewShaderSource())
	if err != nil {
		return err
	}
	p.renderShader = shader

	p.renderLayouts, p.renderLayout, err = pipelineLayout(p.device, "crt_preview_render_pipe_layout", previewRenderLayouts())
	if err != nil {
		return err
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	p.render, err = p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "crt_preview_render_pipeline",
		Layout: p.renderLayout,
		Vertex: hal.VertexState{
			Module:     p.renderShader,
			EntryPoint: shadertypes.EntryVertex,
			Buffers:    []gputypes.VertexBufferLayout{shadertypes.VertexBufferLayout()},
		},
		Fragment: &hal.FragmentState{
			Module:     p.renderShader,
			EntryPoint: shadertypes.EntryFragment,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create preview render pipeline: %w", err)
	}
	return nil
}

// drawCall is one encoded quad.
type drawCall struct {
	vertices buffer
	count    uint32
	textures hal.BindGroup
}

// run executes the preview compute stage and draws every quad. It returns
// the render target as tightly packed RGBA8 rows, premultiplied.
func (p *previewPipeline) run(ctx context.Context, in PreviewInput) ([]byte, error) {
	computePipeline, ok := p.compute[in.EntryPoint]
	if !ok {
		return nil, fmt.Errorf("preview pass: unknown entry point %q", in.EntryPoint)
	}
	if in.Width <= 0 || in.Height <= 0 || in.ViewportWidth <= 0 || in.ViewportHeight <= 0 {
		return nil, fmt.Errorf("preview pass: empty frame %dx%d or viewport %dx%d",
			in.Width, in.Height, in.ViewportWidth, in.ViewportHeight)
	}

	s := newScratch(p.device, p.queue)
	defer s.release()

	input, err := s.upload("crt_preview_input", in.Input, gputypes.BufferUsageStorage)
	if err != nil {
		return nil, err
	}
	display, err := s.upload("crt_preview_display", shadertypes.EncodeTexels(in.Width, in.Height, nil), gputypes.BufferUsageStorage)
	if err != nil {
		return nil, err
	}
	computeGroup, err := s.bindGroup("crt_preview_compute_textures", p.computeLayouts[shadertypes.GroupTextures],
		input.entry(uint32(shadertypes.PreviewTextureIndexInput)),
		display.entry(uint32(shadertypes.PreviewTextureIndexOutput)),
	)
	if err != nil {
		return nil, err
	}

	vw, vh := uint32(in.ViewportWidth), uint32(in.ViewportHeight) //nolint:gosec // validated viewport
	viewport, err := s.upload("crt_preview_viewport", shadertypes.EncodeViewportSize(vw, vh), gputypes.BufferUsageUniform)
	if err != nil {
		return nil, err
	}
	bufferGroup, err := s.bindGroup("crt_preview_render_buffers", p.renderLayouts[shadertypes.GroupBuffers],
		viewport.entry(uint32(shadertypes.VertexIndexViewportSize)))
	if err != nil {
		return nil, err
	}

	draws, err := p.draws(s, in.Quads, display)
	if err != nil {
		return nil, err
	}

	target, targetView, err := s.renderTarget("crt_preview_target", vw, vh)
	if err != nil {
		return nil, err
	}
	pitch := alignedRowPitch(vw)
	staging, err := s.buffer("crt_preview_staging", uint64(pitch)*uint64(vh), gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	gx, gy := groups(in.Width, in.Height)
	err = s.submit(ctx, "crt_preview", func(encoder hal.CommandEncoder) {
		cp := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "crt_preview_compute_pass"})
		cp.SetPipeline(computePipeline)
		cp.SetBindGroup(shadertypes.GroupTextures, computeGroup, nil)
		cp.Dispatch(gx, gy, 1)
		cp.End()

		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "crt_preview_render_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{
				{
					View:       targetView,
					LoadOp:     gputypes.LoadOpClear,
					StoreOp:    gputypes.StoreOpStore,
					ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
				},
			},
		})
		rp.SetPipeline(p.render)
		rp.SetBindGroup(shadertypes.GroupBuffers, bufferGroup, nil)
		for _, d := range draws {
			rp.SetBindGroup(shadertypes.GroupTextures, d.textures, nil)
			rp.SetVertexBuffer(uint32(shadertypes.VertexIndexVertices), d.vertices.Buffer, 0)
			rp.Draw(d.count, 1, 0, 0)
		}
		rp.End()

		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: target,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		}})
		encoder.CopyTextureToBuffer(target, staging.Buffer, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: pitch, RowsPerImage: vh},
			TextureBase:  hal.ImageCopyTexture{Texture: target, MipLevel: 0},
			Size:         hal.Extent3D{Width: vw, Height: vh, DepthOrArrayLayers: 1},
		}})
	})
	if err != nil {
		return nil, err
	}
	readback, err := s.read(staging)
	if err != nil {
		return nil, err
	}
	return unpadRows(readback, vw*4, pitch, vh), nil
}

// draws uploads the vertex and texel buffers of every non-empty quad.
func (p *previewPipeline) draws(s *scratch, quads []PreviewQuad, display buffer) ([]drawCall, error) {
	out := make([]drawCall, 0, len(quads))
	for i, q := range quads {
		n := len(q.Vertices) / 3 * 3
		if n == 0 {
			continue
		}
		tex := display
		if q.Texels != nil {
			var err error
			tex, err = s.upload(fmt.Sprintf("crt_preview_quad%d_texels", i), q.Texels, gputypes.BufferUsageStorage)
			if err != nil {
				return nil, err
			}
		}
		verts, err := s.upload(fmt.Sprintf("crt_preview_quad%d_vertices", i),
			shadertypes.EncodeVertices(q.Vertices[:n]), gputypes.BufferUsageVertex)
		if err != nil {
			return nil, err
		}
		bg, err := s.bindGroup(fmt.Sprintf("crt_preview_quad%d_textures", i), p.renderLayouts[shadertypes.GroupTextures],
			tex.entry(uint32(shadertypes.PreviewTextureIndexOutput)))
		if err != nil {
			return nil, err
		}
		out = append(out, drawCall{vertices: verts, count: uint32(n), textures: bg}) //nolint:gosec // vertex counts fit uint32
	}
	return out, nil
}

func (p *previewPipeline) destroy() {
	if p.render != nil {
		p.device.DestroyRenderPipeline(p.render)
	}
	for _, c := range p.compute {
		p.device.DestroyComputePipeline(c)
	}
	for _, pl := range []hal.PipelineLayout{p.renderLayout, p.computeLayout} {
		if pl != nil {
			p.device.DestroyPipelineLayout(pl)
		}
	}
	destroyLayouts(p.device, p.renderLayouts)
	destroyLayouts(p.device, p.computeLayouts)
	for _, sm := range []hal.ShaderModule{p.renderShader, p.computeShader} {
		if sm != nil {
			p.device.DestroyShaderModule(sm)
		}
	}
	*p = previewPipeline{device: p.device, queue: p.queue, compute: make(map[string]hal.ComputePipeline)}
}

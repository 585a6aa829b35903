//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/crt/shadertypes"
)

// bindingKind is the buffer binding type of a layout slot.
type bindingKind int

const (
	bindUniform bindingKind = iota
	bindReadOnly
	bindReadWrite
)

// stage is the single shader stage a layout slot is visible to.
type stage int

const (
	stageCompute stage = iota
	stageVertex
	stageFragment
)

// layoutEntry is one slot of a bind group layout.
type layoutEntry struct {
	Binding uint32
	Kind    bindingKind
	Stage   stage
}

func (e layoutEntry) gpu() gputypes.BindGroupLayoutEntry {
	out := gputypes.BindGroupLayoutEntry{Binding: e.Binding}
	switch e.Stage {
	case stageVertex:
		out.Visibility = gputypes.ShaderStageVertex
	case stageFragment:
		out.Visibility = gputypes.ShaderStageFragment
	default:
		out.Visibility = gputypes.ShaderStageCompute
	}
	typ := gputypes.BufferBindingTypeUniform
	switch e.Kind {
	case bindReadOnly:
		typ = gputypes.BufferBindingTypeReadOnlyStorage
	case bindReadWrite:
		typ = gputypes.BufferBindingTypeStorage
	}
	out.Buffer = &gputypes.BufferBindingLayout{Type: typ}
	return out
}

// groupLayout is the full layout of one bind group.
type groupLayout struct {
	Label   string
	Group   uint32
	Entries []layoutEntry
}

func (g groupLayout) create(device hal.Device) (hal.BindGroupLayout, error) {
	entries := make([]gputypes.BindGroupLayoutEntry, len(g.Entries))
	for i, e := range g.Entries {
		entries[i] = e.gpu()
	}
	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   g.Label,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", g.Label, err)
	}
	return layout, nil
}

// lutLayouts returns the texture and buffer groups of the LUT pipeline.
func lutLayouts() []groupLayout {
	textures := groupLayout{Label: "crt_lut_textures", Group: shadertypes.GroupTextures}
	for _, idx := range shadertypes.LutTextureIndices() {
		kind := bindReadOnly
		if idx == shadertypes.TextureIndexOutput {
			kind = bindReadWrite
		}
		textures.Entries = append(textures.Entries, layoutEntry{Binding: uint32(idx), Kind: kind, Stage: stageCompute})
	}
	buffers := groupLayout{Label: "crt_lut_buffers", Group: shadertypes.GroupBuffers}
	for _, idx := range shadertypes.LutBufferIndices() {
		buffers.Entries = append(buffers.Entries, layoutEntry{Binding: uint32(idx), Kind: bindUniform, Stage: stageCompute})
	}
	return []groupLayout{textures, buffers}
}

// previewComputeLayouts returns the groups of the preview compute stage.
func previewComputeLayouts() []groupLayout {
	textures := groupLayout{Label: "crt_preview_compute_textures", Group: shadertypes.GroupTextures}
	for _, idx := range shadertypes.PreviewTextureIndices() {
		kind := bindReadOnly
		if idx == shadertypes.PreviewTextureIndexOutput {
			kind = bindReadWrite
		}
		textures.Entries = append(textures.Entries, layoutEntry{Binding: uint32(idx), Kind: kind, Stage: stageCompute})
	}
	return []groupLayout{textures}
}

// previewRenderLayouts returns the groups of the preview render stage. The
// vertex slot is a vertex buffer, not a bind group entry.
func previewRenderLayouts() []groupLayout {
	return []groupLayout{
		{
			Label: "crt_preview_render_textures",
			Group: shadertypes.GroupTextures,
			Entries: []layoutEntry{
				{Binding: uint32(shadertypes.PreviewTextureIndexOutput), Kind: bindReadOnly, Stage: stageFragment},
			},
		},
		{
			Label: "crt_preview_render_buffers",
			Group: shadertypes.GroupBuffers,
			Entries: []layoutEntry{
				{Binding: uint32(shadertypes.VertexIndexViewportSize), Kind: bindUniform, Stage: stageVertex},
			},
		},
	}
}

// pipelineLayout creates the bind group layouts of groups, in group order,
// and the pipeline layout over them.
func pipelineLayout(device hal.Device, label string, groups []groupLayout) ([]hal.BindGroupLayout, hal.PipelineLayout, error) {
	layouts := make([]hal.BindGroupLayout, 0, len(groups))
	for i, g := range groups {
		if g.Group != uint32(i) { //nolint:gosec // group count is tiny
			destroyLayouts(device, layouts)
			return nil, nil, fmt.Errorf("%s: group %d declared at position %d", label, g.Group, i)
		}
		l, err := g.create(device)
		if err != nil {
			destroyLayouts(device, layouts)
			return nil, nil, err
		}
		layouts = append(layouts, l)
	}
	pl, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		destroyLayouts(device, layouts)
		return nil, nil, fmt.Errorf("create %s: %w", label, err)
	}
	return layouts, pl, nil
}

func destroyLayouts(device hal.Device, layouts []hal.BindGroupLayout) {
	for _, l := range layouts {
		if l != nil {
			device.DestroyBindGroupLayout(l)
		}
	}
}

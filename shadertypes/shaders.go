// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadertypes

import (
	_ "embed"
	"regexp"
	"strconv"
	"strings"
	"text/template"
)

// Shader constants shared with the CPU reference kernels.
const (
	// WorkgroupSize is the side of the square compute workgroup.
	WorkgroupSize = 8

	// GrainAmplitude scales the grain parameter to a colour offset.
	GrainAmplitude float32 = 0.25
)

// Shader entry points.
const (
	EntryLut               = "cs_lut"
	EntryPreviewColor      = "cs_preview_color"
	EntryPreviewMonochrome = "cs_preview_monochrome"
	EntryVertex            = "vs_main"
	EntryFragment          = "fs_main"
)

//go:embed shaders/lut.wgsl
var lutTemplateSource string

//go:embed shaders/preview_compute.wgsl
var previewComputeTemplateSource string

//go:embed shaders/preview_render.wgsl
var previewRenderTemplateSource string

var (
	lutSource            = render("lut", lutTemplateSource)
	previewComputeSource = render("preview_compute", previewComputeTemplateSource)
	previewRenderSource  = render("preview_render", previewRenderTemplateSource)
)

// templateData is the set of names the shader templates may reference.
func templateData() map[string]any {
	return map[string]any{
		"GroupTextures": GroupTextures,
		"GroupBuffers":  GroupBuffers,

		"TextureIndexInput":  uint32(TextureIndexInput),
		"TextureIndexOutput": uint32(TextureIndexOutput),
		"TextureIndexLut":    uint32(TextureIndexLut),

		"BufferIndexIntensity": uint32(BufferIndexIntensity),
		"BufferIndexGrain":     uint32(BufferIndexGrain),
		"BufferIndexVignette":  uint32(BufferIndexVignette),

		"PreviewTextureIndexInput":  uint32(PreviewTextureIndexInput),
		"PreviewTextureIndexOutput": uint32(PreviewTextureIndexOutput),

		"VertexIndexVertices":     uint32(VertexIndexVertices),
		"VertexIndexViewportSize": uint32(VertexIndexViewportSize),

		"VertexAttributePosition":          VertexAttributePosition,
		"VertexAttributeTextureCoordinate": VertexAttributeTextureCoordinate,

		"WorkgroupSize":  WorkgroupSize,
		"GrainAmplitude": GrainAmplitude,

		"EntryLut":               EntryLut,
		"EntryPreviewColor":      EntryPreviewColor,
		"EntryPreviewMonochrome": EntryPreviewMonochrome,
		"EntryVertex":            EntryVertex,
		"EntryFragment":          EntryFragment,
	}
}

// render expands a shader template. A template that references an unknown
// name is a programming error and panics at package initialisation.
func render(name, src string) string {
	t := template.Must(template.New(name).Option("missingkey=error").Parse(src))
	var sb strings.Builder
	if err := t.Execute(&sb, templateData()); err != nil {
		panic("shadertypes: render " + name + ": " + err.Error())
	}
	return sb.String()
}

// LutShaderSource returns the WGSL source of the LUT compute pipeline.
func LutShaderSource() string { return lutSource }

// PreviewComputeShaderSource returns the WGSL source of the preview compute
// stage.
func PreviewComputeShaderSource() string { return previewComputeSource }

// PreviewShaderSource returns the WGSL source of the preview vertex and
// fragment stages.
func PreviewShaderSource() string { return previewRenderSource }

// Binding is one resource declaration found in WGSL source.
type Binding struct {
	Group   uint32
	Binding uint32
	Name    string
}

var bindingPattern = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<[^>]*>)?\s+(\w+)`)

// Bindings lists the resource declarations of a WGSL source in order of
// appearance.
func Bindings(source string) []Binding {
	matches := bindingPattern.FindAllStringSubmatch(source, -1)
	out := make([]Binding, 0, len(matches))
	for _, m := range matches {
		g, _ := strconv.ParseUint(m[1], 10, 32)
		b, _ := strconv.ParseUint(m[2], 10, 32)
		out = append(out, Binding{Group: uint32(g), Binding: uint32(b), Name: m[3]})
	}
	return out
}

package render

import (
	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/frame"
)

// Descriptor set layouts are declared once per pass and allocated
// through frame.NewDescriptorSet, which backs every logical set with
// one physical driver.DescriptorSet per frame in flight (frame/perframe.go).
// Binding numbers mirror the order original_source's shader reflection
// declares them in SceneRenderer.cpp.

// sceneSetLayout is the G-buffer and shadow pass's first descriptor
// set (SPEC_FULL.md §4.H "two descriptor sets"): the camera/scene
// uniform buffer every vertex shader reads for its view-projection
// transform.
var sceneSetLayout = []driver.Descriptor{
	{Type: driver.DescUniformBuffer, Stages: driver.StageVertex | driver.StageFragment, Binding: 0, Count: 1},
}

// materialSetLayout is the G-buffer pass's second descriptor set, one
// per Material: a shared sampler, the base color texture (or a 1x1
// white fallback), and the material's parameter UBO.
var materialSetLayout = []driver.Descriptor{
	{Type: driver.DescSampler, Stages: driver.StageFragment, Binding: 0, Count: 1},
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 1, Count: 1},
	{Type: driver.DescUniformBuffer, Stages: driver.StageFragment, Binding: 2, Count: 1},
}

// lightingSetLayout is the lighting resolve's single descriptor set
// (SPEC_FULL.md §4.I): the G-buffer SRVs, the three IBL resources, the
// shadow cascade array with its own comparison sampler, and the
// combined scene/cascade uniform buffer.
var lightingSetLayout = []driver.Descriptor{
	{Type: driver.DescSampler, Stages: driver.StageFragment, Binding: 0, Count: 1},         // linear sampler
	{Type: driver.DescSampler, Stages: driver.StageFragment, Binding: 1, Count: 1},         // shadow comparison sampler
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 2, Count: 1},    // albedo
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 3, Count: 1},    // normal
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 4, Count: 1},    // emission
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 5, Count: 1},    // depth
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 6, Count: 1},    // irradiance cube
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 7, Count: 1},    // prefilter cube
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 8, Count: 1},    // BRDF LUT
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 9, Count: 1},    // shadow cascade array
	{Type: driver.DescUniformBuffer, Stages: driver.StageFragment, Binding: 10, Count: 1},  // scene + cascade UBO
}

// environmentSetLayout is the sky/grid pass's descriptor set: the
// scene UBO (view with translation stripped for the sky cube) and the
// IBL environment cubemap it samples from the inside.
var environmentSetLayout = []driver.Descriptor{
	{Type: driver.DescUniformBuffer, Stages: driver.StageVertex | driver.StageFragment, Binding: 0, Count: 1},
	{Type: driver.DescSampler, Stages: driver.StageFragment, Binding: 1, Count: 1},
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 2, Count: 1},
}

// outlineSetLayout is OutlinePass's descriptor set: the shared sampler,
// the color target the outline is drawn over, and the G-buffer's
// entity-ID attachment the edge test reads neighboring texels from.
var outlineSetLayout = []driver.Descriptor{
	{Type: driver.DescSampler, Stages: driver.StageFragment, Binding: 0, Count: 1},
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 1, Count: 1},
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 2, Count: 1},
}

// sampledSourceSetLayout is the minimal "sample one source image"
// descriptor set shared by every bloom mip stage, the final composite
// pass, and the post-process chain: a sampler plus the single color
// attachment the stage reads from.
var sampledSourceSetLayout = []driver.Descriptor{
	{Type: driver.DescSampler, Stages: driver.StageFragment, Binding: 0, Count: 1},
	{Type: driver.DescSampledImage, Stages: driver.StageFragment, Binding: 1, Count: 1},
}

// defaultSampling is the trilinear-wrap sampler every pass above
// shares for its color reads, mirroring original_source's single
// shared "default" sampler object.
var defaultSampling = &driver.Sampling{
	Min: driver.FilterLinear, Mag: driver.FilterLinear, Mipmap: driver.FilterLinear,
	AddrU: driver.AddrWrap, AddrV: driver.AddrWrap, AddrW: driver.AddrWrap,
	MinLOD: 0, MaxLOD: 16,
}

// shadowSampling is the comparison sampler the lighting pass binds for
// hardware PCF against the shadow cascade array.
var shadowSampling = &driver.Sampling{
	Min: driver.FilterLinear, Mag: driver.FilterLinear, Mipmap: driver.FilterNoMipmap,
	AddrU: driver.AddrClampToBorder, AddrV: driver.AddrClampToBorder, AddrW: driver.AddrClampToBorder,
	Border:        driver.BorderOpaqueWhite,
	CompareEnable: true, Compare: driver.CmpLessEqual,
}

// NewFallbackTexture builds the 1x1 opaque-white texture the G-buffer
// material set substitutes in for a material with no base color
// texture, matching original_source's default-white-texture binding.
func NewFallbackTexture(gpu driver.GPU, upload Uploader) (*Texture, error) {
	t, err := NewTexture(gpu, &TexParam{
		Format: driver.RGBA8Unorm, Width: 1, Height: 1, Levels: 1, Samples: 1,
		Usage: driver.UsageSampled | driver.UsageTransferDst,
	})
	if err != nil {
		return nil, err
	}
	if err := upload.UploadTexture(t, 0, 0, 1, 1, []byte{0xff, 0xff, 0xff, 0xff}); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

// bindSampledSource writes the shared sampler plus src's view into a
// sampledSourceSetLayout-shaped descriptor set, for every frame slot
// since the set's contents (a pointer to a fixed render target) do not
// vary frame to frame.
func bindSampledSource(set *frame.DescriptorSet, sampler driver.Sampler, src *Texture) {
	set.FlushSamplers(0, []driver.Sampler{sampler})
	set.Flush(1, []driver.TextureView{src.View(0)})
}

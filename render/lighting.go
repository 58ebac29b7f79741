package render

import (
	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/frame"
)

// LightingPass resolves the G-buffer and shadow cascades into a single
// HDR radiance target, grounded on original_source's
// SceneRenderer::_PrepareLightingBuffer and the lighting-pass block of
// _ExcutePasses (a fullscreen triangle reading the G-buffer, shadow
// maps and IBL textures through one descriptor set, see
// lightingSetLayout in descset.go).
type LightingPass struct {
	Output *Texture // RGBA16Float HDR radiance

	// Set is the pass's single descriptor set (SPEC_FULL.md §4.I).
	// Allocated in NewLightingPass; its bindings are written by
	// BindResources once the G-buffer, shadow and IBL resources it
	// reads from exist.
	Set *frame.DescriptorSet

	pass driver.RenderPass
	fb   driver.Framebuffer

	width, height int
	pipeline      driver.Pipeline
}

func NewLightingPass(gpu driver.GPU, width, height int) (*LightingPass, error) {
	out, err := NewTexture(gpu, &TexParam{
		Format: driver.RGBA16Float, Width: width, Height: height, Levels: 1, Samples: 1,
		Usage: driver.UsageColorTarget | driver.UsageSampled,
	})
	if err != nil {
		return nil, err
	}
	att := []driver.Attachment{{
		Format: driver.RGBA16Float, Samples: 1,
		Load: [2]int{int(driver.LoadClear), 0}, Store: [2]int{int(driver.StoreStore), 0},
	}}
	pass, err := gpu.NewRenderPass(att, []driver.Subpass{{Color: []driver.AttachmentRef{{Index: 0, Layout: driver.LayoutColorTarget}}}}, nil)
	if err != nil {
		out.Destroy()
		return nil, err
	}
	fb, err := pass.NewFramebuffer([]driver.AttachmentUsage{{Format: driver.RGBA16Float, Usage: driver.UsageColorTarget}}, width, height, 1)
	if err != nil {
		out.Destroy()
		pass.Destroy()
		return nil, err
	}
	set, err := frame.NewDescriptorSet(gpu, lightingSetLayout)
	if err != nil {
		out.Destroy()
		fb.Destroy()
		pass.Destroy()
		return nil, err
	}
	return &LightingPass{Output: out, Set: set, pass: pass, fb: fb, width: width, height: height}, nil
}

func (l *LightingPass) SetPipeline(p driver.Pipeline)   { l.pipeline = p }
func (l *LightingPass) Pass() driver.RenderPass         { return l.pass }
func (l *LightingPass) Framebuffer() driver.Framebuffer { return l.fb }
func (l *LightingPass) Pipeline() driver.Pipeline       { return l.pipeline }

// BindResources writes every binding of the lighting descriptor set:
// the G-buffer SRVs, the IBL cube/LUT textures, the shadow cascade
// array, and the shared samplers. camera is bound per slot instead:
// each frame slot's set gets that slot's own buffer from the
// double-buffered frame.UniformBuffer, which Renderer.writeCamera
// fills once per frame.
func (l *LightingPass) BindResources(gbuf *GBuffer, shadow *ShadowPass, ibl *IBL, camera *frame.UniformBuffer, sampler, shadowSampler driver.Sampler) {
	l.Set.FlushSamplers(0, []driver.Sampler{sampler})
	l.Set.FlushSamplers(1, []driver.Sampler{shadowSampler})
	l.Set.Flush(2, []driver.TextureView{gbuf.Albedo.View(0)})
	l.Set.Flush(3, []driver.TextureView{gbuf.Normal.View(0)})
	l.Set.Flush(4, []driver.TextureView{gbuf.Emission.View(0)})
	l.Set.Flush(5, []driver.TextureView{gbuf.Depth.View(0)})
	l.Set.Flush(6, []driver.TextureView{ibl.Irradiance.View(0)})
	l.Set.Flush(7, []driver.TextureView{ibl.Prefilter.View(0)})
	l.Set.Flush(8, []driver.TextureView{ibl.BRDFLUT.View(0)})
	l.Set.Flush(9, []driver.TextureView{shadow.Maps.View(0)})
	for i := 0; i < frame.NFrame; i++ {
		l.Set.Set(i).SetBuffers(10, 0, []driver.Buffer{camera.Buffer(i)}, []int64{0}, []int64{cameraUBOSize})
	}
}

func (l *LightingPass) Destroy() {
	if l.pipeline != nil {
		l.pipeline.Destroy()
	}
	l.Set.Destroy()
	l.fb.Destroy()
	l.pass.Destroy()
	l.Output.Destroy()
}

// LightUBO is the std140-compatible per-light record the lighting
// pass's shader indexes into an array of MaxLights, grounded on
// original_source's Light UBO struct.
type LightUBO struct {
	Position  [4]float32 // xyz + w=type
	Direction [4]float32 // xyz + w=range
	Color     [4]float32 // rgb + w=intensity
	Cone      [4]float32 // x=inner, y=outer, z=castsShadow
}

func (l Light) UBO() LightUBO {
	shadow := float32(0)
	if l.CastsShadow {
		shadow = 1
	}
	return LightUBO{
		Position:  [4]float32{l.Position[0], l.Position[1], l.Position[2], float32(l.Type)},
		Direction: [4]float32{l.Direction[0], l.Direction[1], l.Direction[2], l.Range},
		Color:     [4]float32{l.Color[0], l.Color[1], l.Color[2], l.Intensity},
		Cone:      [4]float32{l.InnerCone, l.OuterCone, shadow, 0},
	}
}

package render

import (
	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/frame"
)

// GBuffer holds the four render targets the mesh pass writes and the
// depth buffer they share, grounded on original_source's
// SceneRenderer::_PrepareGBuffer (Albedo/Normal/Emission/EntityID
// color attachments plus a depth attachment). Normal and Emission use
// the exact formats original_source's G-buffer layout names (RGBA8
// UNORM encoded n*0.5+0.5, and B10G11R11 UFLOAT) rather than the
// wider RGBA16Float this package used before; see DESIGN.md's gbuffer
// ledger entry.
type GBuffer struct {
	Albedo   *Texture // RGBA8SRGB
	Normal   *Texture // RGBA8Unorm, view-space normal encoded n*0.5+0.5
	Emission *Texture // B10G11R11UFloat, emissive color
	EntityID *Texture // R32SInt, cleared to the sentinel 10 ("no entity")
	Depth    *Texture // D32Float

	// SceneSet binds the scene/camera uniform buffer every G-buffer
	// draw reads for its view-projection transform (SPEC_FULL.md §4.H:
	// "two descriptor sets" — this is the first; MaterialSetLayout in
	// material.go is the second, bound per-draw).
	SceneSet *frame.DescriptorSet

	pass driver.RenderPass
	fb   driver.Framebuffer

	width, height int
	pipeline      driver.Pipeline
}

// NewGBuffer creates the G-buffer attachments, render pass and
// framebuffer at the given resolution.
func NewGBuffer(gpu driver.GPU, width, height int) (*GBuffer, error) {
	mk := func(f driver.Format, usage driver.Usage) (*Texture, error) {
		return NewTexture(gpu, &TexParam{Format: f, Width: width, Height: height, Levels: 1, Samples: 1, Usage: usage})
	}
	albedo, err := mk(driver.RGBA8SRGB, driver.UsageColorTarget|driver.UsageSampled)
	if err != nil {
		return nil, err
	}
	normal, err := mk(driver.RGBA8Unorm, driver.UsageColorTarget|driver.UsageSampled)
	if err != nil {
		return nil, err
	}
	emission, err := mk(driver.B10G11R11UFloat, driver.UsageColorTarget|driver.UsageSampled)
	if err != nil {
		return nil, err
	}
	entity, err := mk(driver.R32SInt, driver.UsageColorTarget|driver.UsageSampled|driver.UsageTransferSrc)
	if err != nil {
		return nil, err
	}
	depth, err := mk(driver.D32Float, driver.UsageDSTarget|driver.UsageSampled)
	if err != nil {
		return nil, err
	}

	att := []driver.Attachment{
		{Format: driver.RGBA8SRGB, Samples: 1, Load: [2]int{int(driver.LoadClear), 0}, Store: [2]int{int(driver.StoreStore), 0}},
		{Format: driver.RGBA8Unorm, Samples: 1, Load: [2]int{int(driver.LoadClear), 0}, Store: [2]int{int(driver.StoreStore), 0}},
		{Format: driver.B10G11R11UFloat, Samples: 1, Load: [2]int{int(driver.LoadClear), 0}, Store: [2]int{int(driver.StoreStore), 0}},
		{Format: driver.R32SInt, Samples: 1, Load: [2]int{int(driver.LoadClear), 0}, Store: [2]int{int(driver.StoreStore), 0}},
		{Format: driver.D32Float, Samples: 1, Load: [2]int{int(driver.LoadClear), int(driver.LoadDontCare)}, Store: [2]int{int(driver.StoreStore), int(driver.StoreDontCare)}},
	}
	sub := []driver.Subpass{{
		Color: []driver.AttachmentRef{
			{Index: 0, Layout: driver.LayoutColorTarget},
			{Index: 1, Layout: driver.LayoutColorTarget},
			{Index: 2, Layout: driver.LayoutColorTarget},
			{Index: 3, Layout: driver.LayoutColorTarget},
		},
		DS: &driver.AttachmentRef{Index: 4, Layout: driver.LayoutDSTarget},
	}}
	pass, err := gpu.NewRenderPass(att, sub, nil)
	if err != nil {
		return nil, err
	}
	fb, err := pass.NewFramebuffer([]driver.AttachmentUsage{
		{Format: driver.RGBA8SRGB, Usage: driver.UsageColorTarget},
		{Format: driver.RGBA8Unorm, Usage: driver.UsageColorTarget},
		{Format: driver.B10G11R11UFloat, Usage: driver.UsageColorTarget},
		{Format: driver.R32SInt, Usage: driver.UsageColorTarget},
		{Format: driver.D32Float, Usage: driver.UsageDSTarget},
	}, width, height, 1)
	if err != nil {
		pass.Destroy()
		return nil, err
	}

	sceneSet, err := frame.NewDescriptorSet(gpu, sceneSetLayout)
	if err != nil {
		fb.Destroy()
		pass.Destroy()
		albedo.Destroy()
		normal.Destroy()
		emission.Destroy()
		entity.Destroy()
		depth.Destroy()
		return nil, err
	}

	return &GBuffer{
		Albedo: albedo, Normal: normal, Emission: emission, EntityID: entity, Depth: depth,
		SceneSet: sceneSet,
		pass:     pass, fb: fb, width: width, height: height,
	}, nil
}

// BindResources writes the per-frame camera/cascade UBO into
// SceneSet's single binding. ShadowPass shares this same set (see
// Renderer.recordShadowPass) since both passes need the identical
// view-projection and cascade data.
func (g *GBuffer) BindResources(camera *frame.UniformBuffer) {
	for i := 0; i < frame.NFrame; i++ {
		g.SceneSet.Set(i).SetBuffers(0, 0, []driver.Buffer{camera.Buffer(i)}, []int64{0}, []int64{cameraUBOSize})
	}
}

func (g *GBuffer) SetPipeline(p driver.Pipeline) { g.pipeline = p }
func (g *GBuffer) Pass() driver.RenderPass       { return g.pass }
func (g *GBuffer) Framebuffer() driver.Framebuffer { return g.fb }
func (g *GBuffer) Pipeline() driver.Pipeline     { return g.pipeline }

func (g *GBuffer) Views() []driver.TextureView {
	return []driver.TextureView{
		g.Albedo.View(0), g.Normal.View(0), g.Emission.View(0), g.EntityID.View(0), g.Depth.View(0),
	}
}

func (g *GBuffer) Destroy() {
	if g.pipeline != nil {
		g.pipeline.Destroy()
	}
	g.SceneSet.Destroy()
	g.fb.Destroy()
	g.pass.Destroy()
	g.Albedo.Destroy()
	g.Normal.Destroy()
	g.Emission.Destroy()
	g.EntityID.Destroy()
	g.Depth.Destroy()
}

// Resize destroys and recreates the G-buffer at a new resolution,
// grounded on original_source's SceneRenderer::OnResize path.
func (g *GBuffer) Resize(gpu driver.GPU, width, height int) (*GBuffer, error) {
	pipeline := g.pipeline
	g.pipeline = nil
	g.Destroy()
	ng, err := NewGBuffer(gpu, width, height)
	if err != nil {
		return nil, err
	}
	ng.pipeline = pipeline
	return ng, nil
}

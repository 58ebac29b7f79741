package render

import (
	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/frame"
)

// EnvironmentPass renders the sky (a unit cube sampling the IBL
// environment cubemap from the inside) and an infinite ground grid
// directly into the lighting pass's HDR target, grounded on
// original_source's _PrepareEnvironmentBuffer and the sky/grid block of
// _ExcutePasses: bind the environment pipeline+set and draw a cube
// mesh, then bind the grid pipeline+set and draw 6 vertices (two
// triangles covering NDC space, reconstructing world position from
// depth in the fragment shader).
type EnvironmentPass struct {
	pass driver.RenderPass
	fb   driver.Framebuffer

	SkyPipeline  driver.Pipeline
	GridPipeline driver.Pipeline

	// Set is shared by both the sky and grid draws: the scene UBO
	// (environmentSetLayout binding 0) plus the IBL environment cubemap
	// (bindings 1-2) the sky samples from the inside and the grid uses
	// for reflections.
	Set *frame.DescriptorSet

	cube *Mesh
}

// NewEnvironmentPass builds a render pass that loads (rather than
// clears) the lighting pass's HDR output and its depth buffer as
// read-only, so the sky/grid draws blend behind already-shaded
// G-buffer geometry.
func NewEnvironmentPass(gpu driver.GPU, hdrFormat driver.Format, depthFormat driver.Format, width, height int) (*EnvironmentPass, error) {
	att := []driver.Attachment{
		{Format: hdrFormat, Samples: 1, Load: [2]int{int(driver.LoadLoad), 0}, Store: [2]int{int(driver.StoreStore), 0}},
		{Format: depthFormat, Samples: 1, Load: [2]int{int(driver.LoadLoad), int(driver.LoadDontCare)}, Store: [2]int{int(driver.StoreDontCare), int(driver.StoreDontCare)}},
	}
	sub := []driver.Subpass{{
		Color: []driver.AttachmentRef{{Index: 0, Layout: driver.LayoutColorTarget}},
		DS:    &driver.AttachmentRef{Index: 1, Layout: driver.LayoutDSReadOnly},
	}}
	pass, err := gpu.NewRenderPass(att, sub, nil)
	if err != nil {
		return nil, err
	}
	fb, err := pass.NewFramebuffer([]driver.AttachmentUsage{
		{Format: hdrFormat, Usage: driver.UsageColorTarget},
		{Format: depthFormat, Usage: driver.UsageDSTarget},
	}, width, height, 1)
	if err != nil {
		pass.Destroy()
		return nil, err
	}
	set, err := frame.NewDescriptorSet(gpu, environmentSetLayout)
	if err != nil {
		fb.Destroy()
		pass.Destroy()
		return nil, err
	}
	return &EnvironmentPass{pass: pass, fb: fb, Set: set}, nil
}

// BindResources wires the environment cubemap sampler/texture into the
// shared sky/grid descriptor set. The scene UBO (binding 0) is written
// per-slot since it varies frame to frame.
func (e *EnvironmentPass) BindResources(sampler driver.Sampler, environment *Texture, camera *frame.UniformBuffer) {
	for i := 0; i < frame.NFrame; i++ {
		e.Set.Set(i).SetBuffers(0, 0, []driver.Buffer{camera.Buffer(i)}, []int64{0}, []int64{cameraUBOSize})
	}
	e.Set.FlushSamplers(1, []driver.Sampler{sampler})
	e.Set.Flush(2, []driver.TextureView{environment.View(0)})
}

// SetCubeMesh assigns the unit cube geometry the sky pipeline draws;
// the sky draw is skipped while none is set.
func (e *EnvironmentPass) SetCubeMesh(m *Mesh) { e.cube = m }
func (e *EnvironmentPass) CubeMesh() *Mesh      { return e.cube }

func (e *EnvironmentPass) Pass() driver.RenderPass         { return e.pass }
func (e *EnvironmentPass) Framebuffer() driver.Framebuffer { return e.fb }

func (e *EnvironmentPass) Destroy() {
	if e.SkyPipeline != nil {
		e.SkyPipeline.Destroy()
	}
	if e.GridPipeline != nil {
		e.GridPipeline.Destroy()
	}
	e.Set.Destroy()
	e.fb.Destroy()
	e.pass.Destroy()
}

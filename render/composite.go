package render

import (
	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/frame"
)

// CompositePass tonemaps and gamma-corrects the lit+bloomed HDR
// radiance into the final swap chain-compatible LDR target, grounded
// on original_source's final composite shader invocation in
// _ExcutePasses (reads the lighting output and the bloom merge
// result, writes sRGB).
type CompositePass struct {
	Output *Texture // RGBA8SRGB, swap chain-compatible

	// Set samples the bloom-merged HDR radiance (sampledSourceSetLayout).
	Set *frame.DescriptorSet

	pass driver.RenderPass
	fb   driver.Framebuffer

	pipeline driver.Pipeline
}

func NewCompositePass(gpu driver.GPU, width, height int) (*CompositePass, error) {
	out, err := NewTexture(gpu, &TexParam{
		Format: driver.RGBA8SRGB, Width: width, Height: height, Levels: 1, Samples: 1,
		Usage: driver.UsageColorTarget | driver.UsageSampled | driver.UsageTransferSrc,
	})
	if err != nil {
		return nil, err
	}
	att := []driver.Attachment{{Format: driver.RGBA8SRGB, Samples: 1, Load: [2]int{int(driver.LoadClear), 0}, Store: [2]int{int(driver.StoreStore), 0}}}
	pass, err := gpu.NewRenderPass(att, []driver.Subpass{{Color: []driver.AttachmentRef{{Index: 0, Layout: driver.LayoutColorTarget}}}}, nil)
	if err != nil {
		out.Destroy()
		return nil, err
	}
	fb, err := pass.NewFramebuffer([]driver.AttachmentUsage{{Format: driver.RGBA8SRGB, Usage: driver.UsageColorTarget}}, width, height, 1)
	if err != nil {
		out.Destroy()
		pass.Destroy()
		return nil, err
	}
	set, err := frame.NewDescriptorSet(gpu, sampledSourceSetLayout)
	if err != nil {
		fb.Destroy()
		pass.Destroy()
		out.Destroy()
		return nil, err
	}
	return &CompositePass{Output: out, Set: set, pass: pass, fb: fb}, nil
}

func (c *CompositePass) SetPipeline(p driver.Pipeline)   { c.pipeline = p }
func (c *CompositePass) Pass() driver.RenderPass         { return c.pass }
func (c *CompositePass) Framebuffer() driver.Framebuffer { return c.fb }
func (c *CompositePass) Pipeline() driver.Pipeline       { return c.pipeline }

// TonemapPushConstant packs exposure and gamma for the composite
// shader, matching original_source's tonemap push constant block.
func TonemapPushConstant(exposure, gamma float32) [8]byte {
	var b [8]byte
	putF32(b[0:], exposure)
	putF32(b[4:], gamma)
	return b
}

func (c *CompositePass) Destroy() {
	if c.pipeline != nil {
		c.pipeline.Destroy()
	}
	c.Set.Destroy()
	c.fb.Destroy()
	c.pass.Destroy()
	c.Output.Destroy()
}

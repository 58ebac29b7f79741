package render

import (
	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/frame"
)

// PostEffect is one single-attachment, fullscreen-triangle post
// process pass that samples an LDR or HDR color source and writes its
// own Output target, shared by Outline, FXAA and ChromaticAberration: these three are
// supplemented beyond spec.md's named passes, carried over from
// original_source's post-processing stack (present there but dropped
// from the distilled spec) since they are cheap, self-contained
// fullscreen passes that fit naturally after the composite stage.
type PostEffect struct {
	Output *Texture

	// Set is this effect's descriptor set. Its layout varies by effect
	// (sampledSourceSetLayout for FXAA and chromatic aberration,
	// outlineSetLayout for outline), so it is allocated by newPostEffect
	// against the layout the caller passes in.
	Set *frame.DescriptorSet

	pass driver.RenderPass
	fb   driver.Framebuffer

	pipeline driver.Pipeline
}

func newPostEffect(gpu driver.GPU, format driver.Format, width, height int, layout []driver.Descriptor) (*PostEffect, error) {
	out, err := NewTexture(gpu, &TexParam{
		Format: format, Width: width, Height: height, Levels: 1, Samples: 1,
		Usage: driver.UsageColorTarget | driver.UsageSampled | driver.UsageTransferSrc,
	})
	if err != nil {
		return nil, err
	}
	att := []driver.Attachment{{Format: format, Samples: 1, Load: [2]int{int(driver.LoadClear), 0}, Store: [2]int{int(driver.StoreStore), 0}}}
	pass, err := gpu.NewRenderPass(att, []driver.Subpass{{Color: []driver.AttachmentRef{{Index: 0, Layout: driver.LayoutColorTarget}}}}, nil)
	if err != nil {
		out.Destroy()
		return nil, err
	}
	fb, err := pass.NewFramebuffer([]driver.AttachmentUsage{{Format: format, Usage: driver.UsageColorTarget}}, width, height, 1)
	if err != nil {
		out.Destroy()
		pass.Destroy()
		return nil, err
	}
	set, err := frame.NewDescriptorSet(gpu, layout)
	if err != nil {
		fb.Destroy()
		pass.Destroy()
		out.Destroy()
		return nil, err
	}
	return &PostEffect{Output: out, Set: set, pass: pass, fb: fb}, nil
}

func (p *PostEffect) SetPipeline(pl driver.Pipeline)   { p.pipeline = pl }
func (p *PostEffect) Pass() driver.RenderPass         { return p.pass }
func (p *PostEffect) Framebuffer() driver.Framebuffer { return p.fb }
func (p *PostEffect) Pipeline() driver.Pipeline       { return p.pipeline }

func (p *PostEffect) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Destroy()
	}
	p.Set.Destroy()
	p.fb.Destroy()
	p.pass.Destroy()
	p.Output.Destroy()
}

// OutlinePass highlights the silhouette of the entity whose ID
// matches SelectedEntity by comparing neighboring texels of the
// G-buffer's entity-ID attachment (a Sobel-like edge test), grounded
// on original_source's EntitySelection outline shader.
type OutlinePass struct {
	*PostEffect
	SelectedEntity uint32
}

func NewOutlinePass(gpu driver.GPU, format driver.Format, width, height int) (*OutlinePass, error) {
	pe, err := newPostEffect(gpu, format, width, height, outlineSetLayout)
	if err != nil {
		return nil, err
	}
	return &OutlinePass{PostEffect: pe}, nil
}

// BindResources wires the sampler, the color target being outlined,
// and the G-buffer's entity-ID attachment into the outline descriptor
// set.
func (o *OutlinePass) BindResources(sampler driver.Sampler, color, entityID *Texture) {
	o.Set.FlushSamplers(0, []driver.Sampler{sampler})
	o.Set.Flush(1, []driver.TextureView{color.View(0)})
	o.Set.Flush(2, []driver.TextureView{entityID.View(0)})
}

// FXAAPass applies fast approximate anti-aliasing as a single
// fullscreen pass over the composited LDR frame, grounded on
// original_source's optional FXAA shader stage.
type FXAAPass struct{ *PostEffect }

func NewFXAAPass(gpu driver.GPU, format driver.Format, width, height int) (*FXAAPass, error) {
	pe, err := newPostEffect(gpu, format, width, height, sampledSourceSetLayout)
	if err != nil {
		return nil, err
	}
	return &FXAAPass{PostEffect: pe}, nil
}

// BindResources wires the sampler and the previous stage's output into
// FXAA's descriptor set.
func (f *FXAAPass) BindResources(sampler driver.Sampler, src *Texture) {
	bindSampledSource(f.Set, sampler, src)
}

// ChromaticAberrationPass offsets the red/blue channel sample
// positions radially outward from the screen center, grounded on
// original_source's chromatic aberration shader stage.
type ChromaticAberrationPass struct {
	*PostEffect
	Strength float32
}

func NewChromaticAberrationPass(gpu driver.GPU, format driver.Format, width, height int) (*ChromaticAberrationPass, error) {
	pe, err := newPostEffect(gpu, format, width, height, sampledSourceSetLayout)
	if err != nil {
		return nil, err
	}
	return &ChromaticAberrationPass{PostEffect: pe, Strength: 0.002}, nil
}

// BindResources wires the sampler and the previous stage's output into
// the aberration pass's descriptor set.
func (c *ChromaticAberrationPass) BindResources(sampler driver.Sampler, src *Texture) {
	bindSampledSource(c.Set, sampler, src)
}

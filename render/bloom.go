package render

import (
	"fmt"

	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/frame"
)

// BloomMipLevels is the number of progressively half-resolution mips
// the downsample/upsample pyramid walks, matching original_source's
// SceneRenderer::_ResizeBloomBuffer mip count.
const BloomMipLevels = 6

// BloomThreshold is the prefilter pass's brightness threshold push
// constant, taken verbatim from original_source's bloom prefilter
// shader invocation.
const BloomThreshold = 10.0

// BloomFilterRadius is the upsample pass's tent-filter radius push
// constant, taken verbatim from original_source.
const BloomFilterRadius = 0.01

// BloomIntensity is the merge pass's blend-intensity push constant,
// taken verbatim from original_source.
const BloomIntensity = 0.1

// BloomMip is one level of the bloom pyramid: a single-attachment
// render pass, framebuffer and the color target it writes.
type BloomMip struct {
	Target *Texture
	Pass   driver.RenderPass
	FB     driver.Framebuffer
	Width  int
	Height int

	// Set samples the mip's input image (the previous stage's target),
	// bound via sampledSourceSetLayout once the full pyramid exists
	// (BloomPass.BindResources).
	Set *frame.DescriptorSet
}

// BloomPass implements the prefilter -> downsample chain -> upsample
// chain -> merge sequence described in original_source's
// _PrepareBloomBuffer and the bloom block of _ExcutePasses.
type BloomPass struct {
	gpu    driver.GPU
	Format driver.Format

	Prefiltered *BloomMip
	Down        [BloomMipLevels]*BloomMip
	Up          [BloomMipLevels]*BloomMip

	PrefilterPipeline driver.Pipeline
	DownsamplePipeline driver.Pipeline
	UpsamplePipeline   driver.Pipeline
	MergePipeline      driver.Pipeline

	MergePass driver.RenderPass
	MergeFB   driver.Framebuffer

	// MergeSet samples the final upsampled mip the merge pass blends
	// onto the lit scene.
	MergeSet *frame.DescriptorSet
}

func newBloomMip(gpu driver.GPU, format driver.Format, w, h int) (*BloomMip, error) {
	t, err := NewTexture(gpu, &TexParam{Format: format, Width: w, Height: h, Levels: 1, Samples: 1, Usage: driver.UsageColorTarget | driver.UsageSampled})
	if err != nil {
		return nil, err
	}
	att := []driver.Attachment{{Format: format, Samples: 1, Load: [2]int{int(driver.LoadClear), 0}, Store: [2]int{int(driver.StoreStore), 0}}}
	pass, err := gpu.NewRenderPass(att, []driver.Subpass{{Color: []driver.AttachmentRef{{Index: 0, Layout: driver.LayoutColorTarget}}}}, nil)
	if err != nil {
		t.Destroy()
		return nil, err
	}
	fb, err := pass.NewFramebuffer([]driver.AttachmentUsage{{Format: format, Usage: driver.UsageColorTarget}}, w, h, 1)
	if err != nil {
		t.Destroy()
		pass.Destroy()
		return nil, err
	}
	set, err := frame.NewDescriptorSet(gpu, sampledSourceSetLayout)
	if err != nil {
		fb.Destroy()
		pass.Destroy()
		t.Destroy()
		return nil, err
	}
	return &BloomMip{Target: t, Pass: pass, FB: fb, Width: w, Height: h, Set: set}, nil
}

func (m *BloomMip) Destroy() {
	m.Set.Destroy()
	m.FB.Destroy()
	m.Pass.Destroy()
	m.Target.Destroy()
}

// NewBloomPass allocates the full mip pyramid at half, quarter, ...
// resolution of (width,height). Each dimension is clamped to at least
// 1 texel; all BloomMipLevels mips are always created.
func NewBloomPass(gpu driver.GPU, format driver.Format, width, height int) (*BloomPass, error) {
	b := &BloomPass{gpu: gpu, Format: format}
	pre, err := newBloomMip(gpu, format, width, height)
	if err != nil {
		return nil, err
	}
	b.Prefiltered = pre

	w, h := width, height
	for i := 0; i < BloomMipLevels; i++ {
		w, h = max1(w/2), max1(h/2)
		mip, err := newBloomMip(gpu, format, w, h)
		if err != nil {
			b.Destroy()
			return nil, fmt.Errorf("render: NewBloomPass downsample mip %d: %w", i, err)
		}
		b.Down[i] = mip
	}
	for i := 0; i < BloomMipLevels; i++ {
		src := b.Down[BloomMipLevels-1-i]
		mip, err := newBloomMip(gpu, format, src.Width*2, src.Height*2)
		if err != nil {
			b.Destroy()
			return nil, fmt.Errorf("render: NewBloomPass upsample mip %d: %w", i, err)
		}
		b.Up[i] = mip
	}

	// LoadLoad: the merge pass blends the upsampled bloom onto the
	// existing lit radiance in place (BeginPass is given Lighting.Output's
	// view, not a dedicated target), so the prior contents must survive.
	mergeAtt := []driver.Attachment{{Format: format, Samples: 1, Load: [2]int{int(driver.LoadLoad), 0}, Store: [2]int{int(driver.StoreStore), 0}}}
	mergePass, err := gpu.NewRenderPass(mergeAtt, []driver.Subpass{{Color: []driver.AttachmentRef{{Index: 0, Layout: driver.LayoutColorTarget}}}}, nil)
	if err != nil {
		b.Destroy()
		return nil, err
	}
	mergeFB, err := mergePass.NewFramebuffer([]driver.AttachmentUsage{{Format: format, Usage: driver.UsageColorTarget}}, width, height, 1)
	if err != nil {
		mergePass.Destroy()
		b.Destroy()
		return nil, err
	}
	mergeSet, err := frame.NewDescriptorSet(gpu, sampledSourceSetLayout)
	if err != nil {
		mergeFB.Destroy()
		mergePass.Destroy()
		b.Destroy()
		return nil, err
	}
	b.MergePass, b.MergeFB, b.MergeSet = mergePass, mergeFB, mergeSet
	return b, nil
}

// BindResources wires every mip's descriptor set to the stage that
// feeds it: the prefilter pass samples the lit HDR radiance, each
// downsample mip samples the previous (finer) one, each upsample mip
// samples the previous (coarser) one, and the merge pass samples the
// final, full-resolution upsampled mip.
func (b *BloomPass) BindResources(sampler driver.Sampler, litOutput *Texture) {
	bindSampledSource(b.Prefiltered.Set, sampler, litOutput)
	bindSampledSource(b.Down[0].Set, sampler, b.Prefiltered.Target)
	for i := 1; i < BloomMipLevels; i++ {
		bindSampledSource(b.Down[i].Set, sampler, b.Down[i-1].Target)
	}
	bindSampledSource(b.Up[0].Set, sampler, b.Down[BloomMipLevels-1].Target)
	for i := 1; i < BloomMipLevels; i++ {
		bindSampledSource(b.Up[i].Set, sampler, b.Up[i-1].Target)
	}
	bindSampledSource(b.MergeSet, sampler, b.Up[BloomMipLevels-1].Target)
}

// DownsamplePushConstant packs the source mip's resolution as an
// ivec2, matching original_source's downsample shader push constant.
func DownsamplePushConstant(srcWidth, srcHeight int) [8]byte {
	var b [8]byte
	putU32(b[0:], uint32(int32(srcWidth)))
	putU32(b[4:], uint32(int32(srcHeight)))
	return b
}

func (b *BloomPass) Destroy() {
	if b.PrefilterPipeline != nil {
		b.PrefilterPipeline.Destroy()
	}
	if b.DownsamplePipeline != nil {
		b.DownsamplePipeline.Destroy()
	}
	if b.UpsamplePipeline != nil {
		b.UpsamplePipeline.Destroy()
	}
	if b.MergePipeline != nil {
		b.MergePipeline.Destroy()
	}
	if b.MergeSet != nil {
		b.MergeSet.Destroy()
	}
	if b.MergeFB != nil {
		b.MergeFB.Destroy()
	}
	if b.MergePass != nil {
		b.MergePass.Destroy()
	}
	if b.Prefiltered != nil {
		b.Prefiltered.Destroy()
	}
	for _, m := range b.Down {
		if m != nil {
			m.Destroy()
		}
	}
	for _, m := range b.Up {
		if m != nil {
			m.Destroy()
		}
	}
}

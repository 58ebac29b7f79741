package render

import (
	"fmt"

	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/frame"
)

// TexRef identifies a 2D texture view and sampler pair, mirroring the
// teacher's engine/material.go TexRef.
type TexRef struct {
	Texture *Texture
	View    int
	Sampler driver.Sampler
}

// Material holds the PBR metallic-roughness parameters consumed by the
// G-buffer pass, grounded on original_source's MaterialUBO and the
// teacher's engine/material.go Material/BaseColor/MetalRough/NormalMap
// split.
type Material struct {
	Name string

	BaseColor  TexRef
	BaseColorFactor [4]float32

	MetalRough TexRef
	Metalness  float32
	Roughness  float32

	Normal    TexRef
	NormalScale float32

	Occlusion TexRef
	OcclusionStrength float32

	Emissive TexRef
	EmissiveFactor [3]float32

	// EntityID is written to the G-buffer's entity-ID attachment for
	// every fragment this material shades, enabling the 1x1 GPU->CPU
	// readback described in SPEC_FULL.md's id.go component.
	EntityID uint32

	set *frame.DescriptorSet
	ubo driver.Buffer
}

// Set returns this material's G-buffer descriptor set, or nil before
// BindResources has run.
func (m *Material) Set() *frame.DescriptorSet { return m.set }

// BindResources allocates this material's descriptor set (one per
// frame in flight, per materialSetLayout) and uploads its parameter
// UBO, substituting fallback for the base color texture when the
// material carries none — mirroring original_source's MaterialUBO
// binding, which always has a bound albedo SRV even for flat-color
// materials. The UBO and descriptor set are immutable after this call
// (SPEC_FULL.md §5: resources shared across descriptor sets stay
// fixed once set up, aside from per-frame UBOs).
func (m *Material) BindResources(gpu driver.GPU, sampler driver.Sampler, fallback *Texture) error {
	ubo, err := gpu.NewBuffer(48, true, driver.UsageUniform)
	if err != nil {
		return fmt.Errorf("render: Material.BindResources %q: %w", m.Name, err)
	}
	bytes := m.UBO()
	copy(ubo.Bytes(), bytes[:])

	set, err := frame.NewDescriptorSet(gpu, materialSetLayout)
	if err != nil {
		ubo.Destroy()
		return err
	}

	tex := fallback
	samp := sampler
	if m.BaseColor.Texture != nil {
		tex = m.BaseColor.Texture
		if m.BaseColor.Sampler != nil {
			samp = m.BaseColor.Sampler
		}
	}
	set.FlushSamplers(0, []driver.Sampler{samp})
	set.Flush(1, []driver.TextureView{tex.View(0)})
	set.FlushBuffer(2, ubo, 48)

	m.set, m.ubo = set, ubo
	return nil
}

// Destroy releases the descriptor set and UBO BindResources
// allocated. It is a no-op if BindResources was never called.
func (m *Material) Destroy() {
	if m.set != nil {
		m.set.Destroy()
	}
	if m.ubo != nil {
		m.ubo.Destroy()
	}
}

// UBO returns the std140-compatible byte layout SceneRenderer.cpp's
// MaterialUBO declares, for upload into the G-buffer pass's per-draw
// uniform buffer.
func (m *Material) UBO() [48]byte {
	var b [48]byte
	putF32(b[0:], m.BaseColorFactor[0])
	putF32(b[4:], m.BaseColorFactor[1])
	putF32(b[8:], m.BaseColorFactor[2])
	putF32(b[12:], m.BaseColorFactor[3])
	putF32(b[16:], m.Metalness)
	putF32(b[20:], m.Roughness)
	putF32(b[24:], m.NormalScale)
	putF32(b[28:], m.OcclusionStrength)
	putF32(b[32:], m.EmissiveFactor[0])
	putF32(b[36:], m.EmissiveFactor[1])
	putF32(b[40:], m.EmissiveFactor[2])
	putU32(b[44:], m.EntityID)
	return b
}

func putF32(b []byte, f float32) { putU32(b, float32bits(f)) }

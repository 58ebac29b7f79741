package render

import (
	"fmt"
	"math"

	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/linear"
)

// IrradianceMapSize is the resolution of each face of the diffuse
// irradiance convolution cubemap, matching original_source's
// _CreateIrradiance.
const IrradianceMapSize = 32

// EnvironmentMapSize is the resolution of each face of the captured
// equirect-to-cube environment map, matching original_source's
// _PrepareIBL.
const EnvironmentMapSize = 512

// PrefilterMapSize is the base resolution (mip 0) of the
// roughness-prefiltered specular cubemap, matching original_source's
// _CreatePrefilter.
const PrefilterMapSize = 128

// PrefilterMipLevels is the number of roughness levels the prefilter
// cubemap stores, one per discrete roughness value the lighting
// shader's Fresnel-weighted importance sampling targets.
const PrefilterMipLevels = 5

// BRDFLUTSize is the resolution of the split-sum BRDF integration
// lookup texture, matching original_source's _CreateBRDF.
const BRDFLUTSize = 512

// IBL owns the four precomputed image-based-lighting resources
// resolved once per SkyLight assignment: the captured environment
// cubemap, its diffuse irradiance convolution, its roughness-prefiltered
// specular mip chain, and the shared BRDF integration LUT. Grounded on
// original_source's SceneRenderer::_PrepareIBL /_CreateIrradiance
// /_CreatePrefilter /_CreateBRDF.
type IBL struct {
	gpu driver.GPU

	Environment *Texture // cube, EnvironmentMapSize
	Irradiance  *Texture // cube, IrradianceMapSize
	Prefilter   *Texture // cube, PrefilterMapSize, PrefilterMipLevels mips
	BRDFLUT     *Texture // 2D, BRDFLUTSize, RG16Float

	EquirectToCubePipeline   driver.Pipeline
	IrradiancePipeline       driver.Pipeline
	PrefilterPipeline        driver.Pipeline
	BRDFPipeline             driver.Pipeline

	cube *Mesh
}

// NewIBL allocates the cubemap and LUT render targets. Prefilter
// carries PrefilterMipLevels mips. NewIBL records no rendering, and
// no code in this package renders into these targets.
func NewIBL(gpu driver.GPU) (*IBL, error) {
	env, err := NewTexture(gpu, &TexParam{
		Format: driver.RGBA16Float, Width: EnvironmentMapSize, Height: EnvironmentMapSize,
		Layers: 6, Levels: 1, Samples: 1, Cube: true,
		Usage: driver.UsageColorTarget | driver.UsageSampled,
	})
	if err != nil {
		return nil, fmt.Errorf("render: NewIBL environment: %w", err)
	}
	irr, err := NewTexture(gpu, &TexParam{
		Format: driver.RGBA16Float, Width: IrradianceMapSize, Height: IrradianceMapSize,
		Layers: 6, Levels: 1, Samples: 1, Cube: true,
		Usage: driver.UsageColorTarget | driver.UsageSampled,
	})
	if err != nil {
		env.Destroy()
		return nil, fmt.Errorf("render: NewIBL irradiance: %w", err)
	}
	pre, err := NewTexture(gpu, &TexParam{
		Format: driver.RGBA16Float, Width: PrefilterMapSize, Height: PrefilterMapSize,
		Layers: 6, Levels: PrefilterMipLevels, Samples: 1, Cube: true,
		Usage: driver.UsageColorTarget | driver.UsageSampled,
	})
	if err != nil {
		env.Destroy()
		irr.Destroy()
		return nil, fmt.Errorf("render: NewIBL prefilter: %w", err)
	}
	lut, err := NewTexture(gpu, &TexParam{
		Format: driver.RG16Float, Width: BRDFLUTSize, Height: BRDFLUTSize, Levels: 1, Samples: 1,
		Usage: driver.UsageColorTarget | driver.UsageSampled,
	})
	if err != nil {
		env.Destroy()
		irr.Destroy()
		pre.Destroy()
		return nil, fmt.Errorf("render: NewIBL BRDF LUT: %w", err)
	}
	return &IBL{gpu: gpu, Environment: env, Irradiance: irr, Prefilter: pre, BRDFLUT: lut}, nil
}

func (b *IBL) SetCubeMesh(m *Mesh) { b.cube = m }
func (b *IBL) CubeMesh() *Mesh      { return b.cube }

// cubeFaceTargets gives the look and up directions for each of the 6
// cube faces in +X,-X,+Y,-Y,+Z,-Z order, matching original_source's
// per-face capture matrices used by every cubemap bake (equirect-to-
// cube, irradiance, prefilter).
var cubeFaceTargets = [6]struct{ look, up linear.V3 }{
	{linear.V3{1, 0, 0}, linear.V3{0, -1, 0}},
	{linear.V3{-1, 0, 0}, linear.V3{0, -1, 0}},
	{linear.V3{0, 1, 0}, linear.V3{0, 0, 1}},
	{linear.V3{0, -1, 0}, linear.V3{0, 0, -1}},
	{linear.V3{0, 0, 1}, linear.V3{0, -1, 0}},
	{linear.V3{0, 0, -1}, linear.V3{0, -1, 0}},
}

// CubeFaceViewProj returns the view-projection matrix for rendering
// face (0..5) of a cubemap capture from the origin, a 90-degree FOV
// perspective looking down that face's axis.
func CubeFaceViewProj(face int) linear.M4 {
	t := cubeFaceTargets[face%6]
	var origin linear.V3
	var view, proj, vp linear.M4
	view.LookAt(&origin, &t.look, &t.up)
	proj.Perspective(float32(math.Pi/2), 1, 0.1, 10)
	vp.Mul(&proj, &view)
	return vp
}

func (b *IBL) Destroy() {
	if b.EquirectToCubePipeline != nil {
		b.EquirectToCubePipeline.Destroy()
	}
	if b.IrradiancePipeline != nil {
		b.IrradiancePipeline.Destroy()
	}
	if b.PrefilterPipeline != nil {
		b.PrefilterPipeline.Destroy()
	}
	if b.BRDFPipeline != nil {
		b.BRDFPipeline.Destroy()
	}
	b.Environment.Destroy()
	b.Irradiance.Destroy()
	b.Prefilter.Destroy()
	b.BRDFLUT.Destroy()
}

package render

import (
	"math"

	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/linear"
)

// CascadeCount is the number of cascaded shadow map slices, matching
// original_source's fixed 4-cascade LightSpaceTransformData array.
const CascadeCount = 4

// ShadowMapResolution is the per-cascade depth target resolution,
// matching original_source's shadowMapResolution.
const ShadowMapResolution = 2048

// zMult scales the depth extent of each cascade's orthographic box,
// which spans ±radius*zMult along the light direction, so that
// shadow-casting geometry just outside the visible frustum (behind the
// camera, above/below) is not clipped out of the shadow map. Grounded
// on original_source's _CalculateLightSapceMatrices zMult constant.
const zMult = 10.0

// Cascade holds one cascade's light-space view-projection matrix and
// the far-plane split distance it is valid up to, mirroring
// original_source's CascadeData.
type Cascade struct {
	ViewProj linear.M4
	SplitFar float32
}

// ShadowPass owns the cascaded shadow map array and its render state.
// Grounded on original_source's SceneRenderer::_PrepareShadowBuffer
// and the depth-only render pass it builds.
type ShadowPass struct {
	gpu  driver.GPU
	Maps *Texture // D32Float, Layers: CascadeCount

	pass     driver.RenderPass
	fb       driver.Framebuffer
	pipeline driver.Pipeline
}

// NewShadowPass creates the cascade array texture and its depth-only
// render pass plus imageless framebuffer. The pipeline is assigned by
// the caller through SetPipeline once shaders are loaded.
func NewShadowPass(gpu driver.GPU) (*ShadowPass, error) {
	maps, err := NewTexture(gpu, &TexParam{
		Format: driver.D32Float, Width: ShadowMapResolution, Height: ShadowMapResolution,
		Layers: CascadeCount, Levels: 1, Samples: 1,
		Usage: driver.UsageDSTarget | driver.UsageSampled,
	})
	if err != nil {
		return nil, err
	}
	att := []driver.Attachment{{
		Format: driver.D32Float, Samples: 1,
		Load:  [2]int{int(driver.LoadClear), int(driver.LoadDontCare)},
		Store: [2]int{int(driver.StoreStore), int(driver.StoreDontCare)},
	}}
	sub := []driver.Subpass{{DS: &driver.AttachmentRef{Index: 0, Layout: driver.LayoutDSTarget}}}
	pass, err := gpu.NewRenderPass(att, sub, nil)
	if err != nil {
		maps.Destroy()
		return nil, err
	}
	fb, err := pass.NewFramebuffer(
		[]driver.AttachmentUsage{{Format: driver.D32Float, Usage: driver.UsageDSTarget}},
		ShadowMapResolution, ShadowMapResolution, 1)
	if err != nil {
		maps.Destroy()
		pass.Destroy()
		return nil, err
	}
	return &ShadowPass{gpu: gpu, Maps: maps, pass: pass, fb: fb}, nil
}

// SetPipeline assigns the depth-only pipeline used to render each
// cascade, created by the caller from the shadow vertex shader.
func (s *ShadowPass) SetPipeline(p driver.Pipeline) { s.pipeline = p }

func (s *ShadowPass) Pass() driver.RenderPass { return s.pass }
func (s *ShadowPass) Framebuffer() driver.Framebuffer { return s.fb }
func (s *ShadowPass) Pipeline() driver.Pipeline { return s.pipeline }

func (s *ShadowPass) Destroy() {
	if s.pipeline != nil {
		s.pipeline.Destroy()
	}
	s.fb.Destroy()
	s.pass.Destroy()
	s.Maps.Destroy()
}

// CalculateCascades builds CascadeCount orthographic light-space
// matrices, one per far-plane split of [near,far] (a blend of
// logarithmic and uniform spacing). Grounded on original_source's
// _CalculateLightSapceMatrices / _GetFrustumCornersWorldSpace: it
// unprojects the NDC frustum corners for the camera's full [near,far]
// range and averages them into one center shared by every cascade.
// Cascade i's eye sits split_i back from that center along the light
// direction, and its box is a cube of half-size max(0.6*split_i, 1)
// with depth extended by zMult.
//
// The corners are not fitted per split: no per-cascade frustum slice,
// light-space AABB or slice near/far projection is computed, so a
// cascade's box is not guaranteed to enclose its slice of the view
// frustum.
func CalculateCascades(lightDir linear.V3, viewProj *linear.M4, near, far float32) [CascadeCount]Cascade {
	var out [CascadeCount]Cascade

	var inv linear.M4
	inv.Invert(viewProj)
	corners := linear.UnprojectCorners(&inv)

	var center linear.V3
	for _, c := range corners {
		center.Add(&center, &c)
	}
	center.Scale(1.0/8, &center)

	var dirNorm linear.V3
	dirNorm.Norm(&lightDir)

	up := linear.V3{0, 1, 0}

	splits := cascadeSplits(near, far)
	for i, split := range splits {
		var eye linear.V3
		var back linear.V3
		back.Scale(-split, &dirNorm)
		eye.Add(&center, &back)

		var view linear.M4
		view.LookAt(&eye, &center, &up)

		radius := split * 0.6
		if radius < 1 {
			radius = 1
		}
		var ortho linear.M4
		ortho.Ortho(-radius, radius, -radius, radius, -radius*zMult, radius*zMult)

		var vp linear.M4
		vp.Mul(&ortho, &view)
		out[i] = Cascade{ViewProj: vp, SplitFar: split}
	}
	return out
}

// cascadeSplits returns the CascadeCount far-plane distances splitting
// [near,far], blending logarithmic and uniform spacing 50/50, matching
// the common cascaded-shadow-map split heuristic original_source uses.
func cascadeSplits(near, far float32) [CascadeCount]float32 {
	var splits [CascadeCount]float32
	for i := 0; i < CascadeCount; i++ {
		p := float32(i+1) / float32(CascadeCount)
		logSplit := near * float32(math.Pow(float64(far/near), float64(p)))
		uniSplit := near + (far-near)*p
		splits[i] = logSplit*0.5 + uniSplit*0.5
	}
	return splits
}

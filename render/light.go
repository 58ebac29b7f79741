package render

import "github.com/kestrelgfx/core/linear"

// MaxLights bounds the number of simultaneous lights, matching the
// teacher's engine package NLight constant.
const MaxLights = 64

// LightType distinguishes the light kinds the lighting pass resolves.
type LightType int

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

// Light is a single scene light, grounded on original_source's
// SceneRenderer::Light UBO struct and DirectionalLightComponent.
type Light struct {
	Type      LightType
	Color     [3]float32
	Intensity float32
	Position  linear.V3
	Direction linear.V3
	Range     float32
	InnerCone float32
	OuterCone float32
	CastsShadow bool
}

// SkyLight holds the IBL environment parameters set via
// SetSkyLight, grounded on original_source's SkyLightComponent and
// SceneRenderer::SetSkyLight.
type SkyLight struct {
	EquirectPath string
	Intensity    float32
	Rotation     float32
}

// DirectionalLight mirrors original_source's DirectionalLightComponent,
// the single cascaded-shadow-casting light the shadow pass targets.
type DirectionalLight struct {
	Direction linear.V3
	Color     [3]float32
	Intensity float32
}

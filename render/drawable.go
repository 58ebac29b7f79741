package render

import "github.com/kestrelgfx/core/linear"

// Drawable pairs a Mesh with a world transform and an entity ID,
// grounded on original_source's MeshDrawData (added via
// SceneRenderer::AddMeshDrawList) and the teacher's engine/drawable.go
// drawableMap, simplified to a per-frame slice since draw lists are
// rebuilt fresh every frame rather than incrementally updated.
type Drawable struct {
	Mesh      *Mesh
	World     linear.M4
	EntityID  uint32
}

// DrawList accumulates the Drawables submitted for one frame. Reset
// clears it for reuse without reallocating, mirroring the teacher's
// preference for reusable, GC-pressure-free per-frame buffers.
type DrawList struct {
	items []Drawable
}

func (d *DrawList) Add(m *Mesh, world linear.M4, entityID uint32) {
	d.items = append(d.items, Drawable{Mesh: m, World: world, EntityID: entityID})
}

func (d *DrawList) Reset() { d.items = d.items[:0] }

func (d *DrawList) Items() []Drawable { return d.items }

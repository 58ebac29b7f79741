package render

import "github.com/kestrelgfx/core/driver"

// transitionTo moves every layer of tex from whatever layout it is
// currently tracked at (Texture.Layout) to after, emitting one
// driver.Transition per layer that actually needs to move and skipping
// the call entirely once every layer already matches. This backend's
// imageless framebuffers bake a layout into each AttachmentRef for the
// duration of a render pass but never transition the underlying image
// afterward (see DESIGN.md's dynamic-rendering note), so every pass
// boundary that reads what a previous pass wrote needs one of these.
func transitionTo(cb driver.CmdBuffer, tex *Texture, after driver.Layout, sb driver.Sync, ab driver.Access, sa driver.Sync, aa driver.Access) {
	aspect := driver.AspectColor
	if driver.IsDepthFormat(tex.Param().Format) {
		aspect = driver.AspectDepth
	}
	levels := max1(tex.Param().Levels)
	n := tex.LayerCount()
	var ts []driver.Transition
	for l := 0; l < n; l++ {
		before := tex.Layout(l)
		if before == after {
			continue
		}
		ts = append(ts, driver.Transition{
			Barrier:      driver.Barrier{SyncBefore: sb, AccessBefore: ab, SyncAfter: sa, AccessAfter: aa},
			LayoutBefore: before,
			LayoutAfter:  after,
			Tex:          tex.Handle(),
			Range:        driver.SubresourceRange{Aspect: aspect, BaseLevel: 0, Levels: levels, BaseLayer: l, Layers: 1},
		})
	}
	if len(ts) == 0 {
		return
	}
	cb.Transition(ts)
	for l := 0; l < n; l++ {
		tex.SetLayout(l, after)
	}
}

// toColorTarget and toShaderReadOnly are the two color transitions
// every pass boundary in Renderer.Render needs: a render target written
// by one pass becomes a sampled source for the next, and back again
// when it is reused as a render target (e.g. the lighting output,
// sampled by bloom's prefilter and then written again by the bloom
// merge). Depth targets use the depthTo* helpers below.
func toColorTarget(cb driver.CmdBuffer, tex *Texture) {
	transitionTo(cb, tex, driver.LayoutColorTarget,
		driver.SyncFragmentShading, driver.AccessShaderRead,
		driver.SyncColorOutput, driver.AccessColorWrite)
}

func toShaderReadOnly(cb driver.CmdBuffer, tex *Texture) {
	transitionTo(cb, tex, driver.LayoutShaderReadOnly,
		driver.SyncColorOutput, driver.AccessColorWrite,
		driver.SyncFragmentShading, driver.AccessShaderRead)
}

// depthToTarget moves a depth/stencil texture back into LayoutDSTarget
// for the next frame's write, from wherever the prior frame left it
// (LayoutDSReadOnly after the environment pass, or LayoutShaderReadOnly
// after the lighting pass sampled it for world-position reconstruction).
func depthToTarget(cb driver.CmdBuffer, tex *Texture) {
	transitionTo(cb, tex, driver.LayoutDSTarget,
		driver.SyncFragmentShading, driver.AccessShaderRead,
		driver.SyncDSOutput, driver.AccessDSWrite)
}

func depthToShaderReadOnly(cb driver.CmdBuffer, tex *Texture) {
	transitionTo(cb, tex, driver.LayoutShaderReadOnly,
		driver.SyncDSOutput, driver.AccessDSWrite,
		driver.SyncFragmentShading, driver.AccessShaderRead)
}

func depthToReadOnlyTarget(cb driver.CmdBuffer, tex *Texture) {
	transitionTo(cb, tex, driver.LayoutDSReadOnly,
		driver.SyncFragmentShading, driver.AccessShaderRead,
		driver.SyncDSOutput, driver.AccessDSRead)
}

package render

import (
	"encoding/binary"
	"fmt"

	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/frame"
)

// IDReadback copies a single texel of the G-buffer's entity-ID
// attachment to a host-visible staging buffer and reads it back,
// implementing the mouse-picking path grounded on original_source's
// SceneRenderer::GetEntityIDFromPixelPosition (a 1x1 copy-to-buffer
// followed by a host map, rather than a full-frame CPU readback).
type IDReadback struct {
	gpu     driver.GPU
	staging driver.Buffer
}

func NewIDReadback(gpu driver.GPU) (*IDReadback, error) {
	buf, err := gpu.NewBuffer(4, true, driver.UsageTransferDst)
	if err != nil {
		return nil, fmt.Errorf("render: NewIDReadback: %w", err)
	}
	return &IDReadback{gpu: gpu, staging: buf}, nil
}

func (r *IDReadback) Destroy() { r.staging.Destroy() }

// Read blocks until the GPU has copied the (x,y) texel of src's R32SInt
// entity-ID attachment into the staging buffer, then returns its
// value as a signed int32 (the sentinel "no entity" value is 10, not a
// bit pattern that happens to be representable unsigned). orch is
// used for the immediate, blocking submission. src is expected to be
// in LayoutShaderReadOnly on entry, the layout Renderer.Render moves
// the G-buffer color attachments to before the lighting pass samples
// them, and is left there on return.
func (r *IDReadback) Read(orch *frame.Orchestrator, src *Texture, x, y int) (int32, error) {
	if x < 0 || y < 0 {
		return 0, fmt.Errorf("render: IDReadback.Read: negative coordinate (%d,%d)", x, y)
	}
	err := orch.ImmediateExecute(func(cb driver.CmdBuffer) {
		cb.Transition([]driver.Transition{{
			Barrier:      driver.Barrier{SyncBefore: driver.SyncFragmentShading, AccessBefore: driver.AccessShaderRead, SyncAfter: driver.SyncCopy, AccessAfter: driver.AccessCopyRead},
			LayoutBefore: driver.LayoutShaderReadOnly,
			LayoutAfter:  driver.LayoutCopySrc,
			Tex:          src.Handle(),
			Range:        driver.SubresourceRange{Aspect: driver.AspectColor, Levels: 1, Layers: 1},
		}})
		cb.CopyTextureToBuffer(&driver.BufTexCopy{
			Buf: r.staging, Stride: [2]int64{1, 1},
			Tex: src.Handle(), TexOff: driver.Offset3D{X: x, Y: y},
			Size: driver.Extent3D{Width: 1, Height: 1, Depth: 1},
			Aspect: driver.AspectColor,
		})
		cb.Transition([]driver.Transition{{
			Barrier:      driver.Barrier{SyncBefore: driver.SyncCopy, AccessBefore: driver.AccessCopyRead, SyncAfter: driver.SyncFragmentShading, AccessAfter: driver.AccessShaderRead},
			LayoutBefore: driver.LayoutCopySrc,
			LayoutAfter:  driver.LayoutShaderReadOnly,
			Tex:          src.Handle(),
			Range:        driver.SubresourceRange{Aspect: driver.AspectColor, Levels: 1, Layers: 1},
		}})
	})
	if err != nil {
		return 0, err
	}
	src.SetLayout(0, driver.LayoutShaderReadOnly)
	return int32(binary.LittleEndian.Uint32(r.staging.Bytes()[:4])), nil
}

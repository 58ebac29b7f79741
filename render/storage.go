package render

import (
	"fmt"
	"math"

	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/frame"
)

// Uploader copies CPU-side data into device-local buffers and textures
// via a host-visible staging buffer and an immediate (blocking)
// command-buffer submission. This is a deliberately simplified stand-in
// for the teacher's pooled, GOMAXPROCS-sized, deferred-commit staging
// system in engine/staging.go: that design batches many copies into one
// submission per commitStaging call across goroutines, whereas assets
// here are uploaded once at load time, so one staging buffer and one
// blocking submission per call is sufficient and considerably simpler.
type Uploader struct {
	gpu  driver.GPU
	orch *frame.Orchestrator
}

func NewUploader(gpu driver.GPU, orch *frame.Orchestrator) Uploader {
	return Uploader{gpu: gpu, orch: orch}
}

// UploadBuffer copies data into dst via a staging buffer, blocking
// until the GPU-side copy completes.
func (u Uploader) UploadBuffer(dst driver.Buffer, data []byte) error {
	if int64(len(data)) > dst.Size() {
		return fmt.Errorf("render: upload data (%d bytes) exceeds buffer size (%d)", len(data), dst.Size())
	}
	staging, err := u.gpu.NewBuffer(int64(len(data)), true, driver.UsageTransferSrc)
	if err != nil {
		return err
	}
	defer staging.Destroy()
	copy(staging.Bytes(), data)

	return u.orch.ImmediateExecute(func(cb driver.CmdBuffer) {
		cb.CopyBuffer(&driver.BufferCopy{Src: staging, Dst: dst, Size: int64(len(data))})
	})
}

// UploadTexture copies data (tightly packed, w texels per row)
// into one layer/level of dst, transitioning it to LayoutShaderReadOnly
// once the copy completes.
func (u Uploader) UploadTexture(dst *Texture, layer, level int, w, h int, data []byte) error {
	staging, err := u.gpu.NewBuffer(int64(len(data)), true, driver.UsageTransferSrc)
	if err != nil {
		return err
	}
	defer staging.Destroy()
	copy(staging.Bytes(), data)

	err = u.orch.ImmediateExecute(func(cb driver.CmdBuffer) {
		cb.Transition([]driver.Transition{{
			Barrier:      driver.Barrier{SyncBefore: driver.SyncNone, AccessBefore: driver.AccessNone, SyncAfter: driver.SyncCopy, AccessAfter: driver.AccessCopyWrite},
			LayoutBefore: driver.LayoutUndefined,
			LayoutAfter:  driver.LayoutCopyDst,
			Tex:          dst.Handle(),
			Range:        driver.SubresourceRange{Aspect: driver.AspectColor, BaseLevel: level, Levels: 1, BaseLayer: layer, Layers: 1},
		}})
		cb.CopyBufferToTexture(&driver.BufTexCopy{
			Buf: staging, Stride: [2]int64{int64(w), int64(h)},
			Tex: dst.Handle(), Layer: layer, Level: level,
			Size: driver.Extent3D{Width: w, Height: h, Depth: 1},
		})
		cb.Transition([]driver.Transition{{
			Barrier:      driver.Barrier{SyncBefore: driver.SyncCopy, AccessBefore: driver.AccessCopyWrite, SyncAfter: driver.SyncFragmentShading, AccessAfter: driver.AccessShaderRead},
			LayoutBefore: driver.LayoutCopyDst,
			LayoutAfter:  driver.LayoutShaderReadOnly,
			Tex:          dst.Handle(),
			Range:        driver.SubresourceRange{Aspect: driver.AspectColor, BaseLevel: level, Levels: 1, BaseLayer: layer, Layers: 1},
		}})
	})
	if err != nil {
		return err
	}
	dst.SetLayout(layer, driver.LayoutShaderReadOnly)
	return nil
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func float32bits(f float32) uint32 { return math.Float32bits(f) }

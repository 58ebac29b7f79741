// Package frame implements the per-frame orchestration layer sitting
// above driver.GPU: a small ring of FrameSlots (command pool/buffer,
// synchronization primitives, deferred-destroy queue) cycled once per
// rendered frame, plus per-frame-multiplicity wrappers for descriptor
// sets and uniform buffers (see perframe.go).
//
// Grounded on the teacher's engine/renderer.go channel-of-WorkItem
// pattern (a fixed ring of command buffers recycled across frames) and
// on original_source's Silex::Renderer FrameData / PendingDestroyResourceQueue
// / ImmidiateCommandData, which this package generalizes into an
// explicit orchestrator independent of any one renderer.
package frame

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kestrelgfx/core/driver"
)

// NFrame is the number of frames kept in flight, matching the
// teacher's engine package constant of the same name.
const NFrame = 2

// FrameSlot holds the per-frame resources needed to record and submit
// one frame's work: a dedicated command pool/buffer, the semaphores
// guarding acquire/present ordering, the fence the CPU waits on before
// reusing the slot, and a queue of resources whose destruction was
// deferred until the GPU is known to be done with this slot.
type FrameSlot struct {
	Pool    driver.CmdPool
	CB      driver.CmdBuffer
	Render  driver.Semaphore // signaled when rendering into this slot completes
	Present driver.Semaphore // signaled when the acquired image is ready to render into
	Fence   driver.Fence

	pending []driver.Destroyer
}

// Orchestrator cycles through NFrame FrameSlots, exposing begin/end
// frame, present, an immediate (blocking, out-of-band) execution path,
// and deferred-destroy bookkeeping.
type Orchestrator struct {
	gpu    driver.GPU
	family int
	slots  [NFrame]*FrameSlot
	cur    int

	immPool driver.CmdPool
	immCB   driver.CmdBuffer
	immFence driver.Fence
}

// New creates an Orchestrator bound to the given queue family.
func New(gpu driver.GPU, family int) (*Orchestrator, error) {
	o := &Orchestrator{gpu: gpu, family: family}
	for i := range o.slots {
		s, err := o.newSlot()
		if err != nil {
			o.Destroy()
			return nil, err
		}
		o.slots[i] = s
	}
	pool, err := gpu.NewCmdPool(family)
	if err != nil {
		o.Destroy()
		return nil, err
	}
	cb, err := pool.NewCmdBuffer()
	if err != nil {
		o.Destroy()
		return nil, err
	}
	fence, err := gpu.NewFence(false)
	if err != nil {
		o.Destroy()
		return nil, err
	}
	o.immPool, o.immCB, o.immFence = pool, cb, fence
	return o, nil
}

func (o *Orchestrator) newSlot() (*FrameSlot, error) {
	pool, err := o.gpu.NewCmdPool(o.family)
	if err != nil {
		return nil, err
	}
	cb, err := pool.NewCmdBuffer()
	if err != nil {
		return nil, err
	}
	render, err := o.gpu.NewSemaphore()
	if err != nil {
		return nil, err
	}
	present, err := o.gpu.NewSemaphore()
	if err != nil {
		return nil, err
	}
	fence, err := o.gpu.NewFence(true)
	if err != nil {
		return nil, err
	}
	return &FrameSlot{Pool: pool, CB: cb, Render: render, Present: present, Fence: fence}, nil
}

// BeginFrame waits for the next slot's fence (the GPU finishing the
// work this slot last held), runs its deferred-destroy queue, resets
// its command pool, and returns the slot ready for recording.
func (o *Orchestrator) BeginFrame() (*FrameSlot, error) {
	s := o.slots[o.cur]
	if err := s.Fence.Wait(-1); err != nil {
		return nil, fmt.Errorf("frame: fence wait failed: %w", err)
	}
	if err := s.Fence.Reset(); err != nil {
		return nil, err
	}
	o.destroyPending(s)
	if err := s.Pool.Reset(); err != nil {
		return nil, err
	}
	if err := s.CB.Begin(); err != nil {
		return nil, err
	}
	log.Debug().Int("slot", o.cur).Msg("begin frame")
	return s, nil
}

// EndFrame ends recording and submits the slot's command buffer,
// waiting on Present and signaling Render, fencing completion on
// Fence. It then advances to the next slot.
func (o *Orchestrator) EndFrame(s *FrameSlot, waitPresent bool) error {
	if err := s.CB.End(); err != nil {
		return err
	}
	var waits []driver.SemaphoreWait
	if waitPresent {
		waits = []driver.SemaphoreWait{{Sem: s.Present, Stage: driver.SyncColorOutput}}
	}
	if err := o.gpu.Submit([]driver.CmdBuffer{s.CB}, waits, []driver.Semaphore{s.Render}, s.Fence); err != nil {
		return err
	}
	o.cur = (o.cur + 1) % NFrame
	return nil
}

// DeferDestroy schedules d for destruction once the current slot's
// fence next signals (i.e. once the GPU is known to have finished the
// frame that is using d).
func (o *Orchestrator) DeferDestroy(d driver.Destroyer) {
	s := o.slots[o.cur]
	s.pending = append(s.pending, d)
}

func (o *Orchestrator) destroyPending(s *FrameSlot) {
	for _, d := range s.pending {
		d.Destroy()
	}
	s.pending = s.pending[:0]
}

// ImmediateExecute records fn into a dedicated one-shot command buffer,
// submits it, and blocks until the GPU finishes — for upload and
// precompute work (IBL generation, mipmap chains) that must complete
// before the renderer otherwise needs the resource, matching the
// teacher's synchronous upload helpers and original_source's
// ImmidiateCommandData.
func (o *Orchestrator) ImmediateExecute(fn func(cb driver.CmdBuffer)) error {
	if err := o.immPool.Reset(); err != nil {
		return err
	}
	if err := o.immCB.Begin(); err != nil {
		return err
	}
	fn(o.immCB)
	if err := o.immCB.End(); err != nil {
		return err
	}
	if err := o.immFence.Reset(); err != nil {
		return err
	}
	if err := o.gpu.Submit([]driver.CmdBuffer{o.immCB}, nil, nil, o.immFence); err != nil {
		return err
	}
	return o.immFence.Wait(-1)
}

// Destroy releases every slot and the immediate-execution resources.
// Callers must ensure the GPU is idle first (see driver.GPU.WaitIdle).
func (o *Orchestrator) Destroy() {
	for _, s := range o.slots {
		if s == nil {
			continue
		}
		o.destroyPending(s)
		s.Render.Destroy()
		s.Present.Destroy()
		s.Fence.Destroy()
		s.CB.Destroy()
		s.Pool.Destroy()
	}
	if o.immCB != nil {
		o.immCB.Destroy()
	}
	if o.immPool != nil {
		o.immPool.Destroy()
	}
	if o.immFence != nil {
		o.immFence.Destroy()
	}
}

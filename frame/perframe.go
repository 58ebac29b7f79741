package frame

import (
	"fmt"

	"github.com/kestrelgfx/core/driver"
)

// PerFrame owns NFrame independent backend resources of type T, one
// per slot in an Orchestrator's ring, so that the CPU can write next
// frame's data while the GPU still reads the previous frame's copy.
// This is the spec's resolution of the multiplicity the teacher's
// DescHeap.New(n) used to bake into a single heap object (see
// DESIGN.md Open Question 3): here it is a thin generic wrapper over
// whatever per-slot resource a caller supplies.
type PerFrame[T any] struct {
	slots [NFrame]T
}

func (p *PerFrame[T]) Set(i int, v T) { p.slots[i] = v }
func (p *PerFrame[T]) Get(i int) T    { return p.slots[i] }
func (p *PerFrame[T]) All() [NFrame]T { return p.slots }

// UniformBuffer is a PerFrame-multiplied host-visible buffer: each
// slot is a distinct driver.Buffer, and SetData writes only the
// given slot's bytes.
type UniformBuffer struct {
	bufs PerFrame[driver.Buffer]
	size int64
}

// NewUniformBuffer allocates one host-visible buffer of size per
// frame slot.
func NewUniformBuffer(gpu driver.GPU, size int64) (*UniformBuffer, error) {
	u := &UniformBuffer{size: size}
	for i := 0; i < NFrame; i++ {
		b, err := gpu.NewBuffer(size, true, driver.UsageUniform)
		if err != nil {
			for j := 0; j < i; j++ {
				u.bufs.Get(j).Destroy()
			}
			return nil, err
		}
		u.bufs.Set(i, b)
	}
	return u, nil
}

func (u *UniformBuffer) Destroy() {
	for i := 0; i < NFrame; i++ {
		u.bufs.Get(i).Destroy()
	}
}

func (u *UniformBuffer) Buffer(slot int) driver.Buffer { return u.bufs.Get(slot) }

// SetData writes data into only the given slot's buffer (used for
// per-frame-varying data such as camera/light uniforms).
func (u *UniformBuffer) SetData(slot int, offset int64, data []byte) error {
	buf := u.bufs.Get(slot)
	b := buf.Bytes()
	if b == nil || offset+int64(len(data)) > int64(len(b)) {
		return fmt.Errorf("frame: uniform write out of bounds (slot %d)", slot)
	}
	copy(b[offset:], data)
	return nil
}

// DescriptorSet is a PerFrame-multiplied driver.DescriptorSet. Flush
// writes the same resource binding to every slot's set (used for data
// that is constant across frames in flight, e.g. a material's
// textures); SetResource targets a single slot's set directly.
type DescriptorSet struct {
	sets PerFrame[driver.DescriptorSet]
}

// NewDescriptorSet allocates NFrame backend descriptor sets from
// layout.
func NewDescriptorSet(gpu driver.GPU, layout []driver.Descriptor) (*DescriptorSet, error) {
	d := &DescriptorSet{}
	for i := 0; i < NFrame; i++ {
		s, err := gpu.NewDescriptorSet(layout)
		if err != nil {
			for j := 0; j < i; j++ {
				d.sets.Get(j).Destroy()
			}
			return nil, err
		}
		d.sets.Set(i, s)
	}
	return d, nil
}

func (d *DescriptorSet) Destroy() {
	for i := 0; i < NFrame; i++ {
		d.sets.Get(i).Destroy()
	}
}

func (d *DescriptorSet) Set(slot int) driver.DescriptorSet { return d.sets.Get(slot) }

// SetResource writes binding only into the given slot's set.
func (d *DescriptorSet) SetResource(slot, binding int, buf []driver.Buffer, off, size []int64) {
	d.sets.Get(slot).SetBuffers(binding, 0, buf, off, size)
}

// Flush writes binding into every slot's set with identical contents.
func (d *DescriptorSet) Flush(binding int, tv []driver.TextureView) {
	for i := 0; i < NFrame; i++ {
		d.sets.Get(i).SetTextures(binding, 0, tv)
	}
}

// FlushSamplers writes binding into every slot's set with the same
// sampler, for resources that, like Flush's textures, stay constant
// across frames in flight.
func (d *DescriptorSet) FlushSamplers(binding int, s []driver.Sampler) {
	for i := 0; i < NFrame; i++ {
		d.sets.Get(i).SetSamplers(binding, 0, s)
	}
}

// FlushBuffer writes binding into every slot's set with the same
// buffer, for uniform data that is written once and never varies
// per frame in flight (e.g. a material's parameter block).
func (d *DescriptorSet) FlushBuffer(binding int, buf driver.Buffer, size int64) {
	for i := 0; i < NFrame; i++ {
		d.sets.Get(i).SetBuffers(binding, 0, []driver.Buffer{buf}, []int64{0}, []int64{size})
	}
}

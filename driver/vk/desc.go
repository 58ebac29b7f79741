package vk

// #include <stdlib.h>
// #include <vulkan/vulkan.h>
import "C"

import (
	"sort"
	"sync"
	"unsafe"

	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/internal/bitm"
)

// descPoolCapacity is the number of sets a single bucketed pool can
// allocate, per the pool-bucketing policy: pools are grouped by the
// exact multiset of descriptor-type counts they were sized for, and
// each pool in a bucket can serve up to descPoolCapacity sets before a
// sibling pool is created.
const descPoolCapacity = 64

// typeKey canonicalizes a layout's descriptor-type counts into a
// comparable bucket key.
type typeKey string

func keyFor(counts map[C.VkDescriptorType]int) typeKey {
	types := make([]int, 0, len(counts))
	for t := range counts {
		types = append(types, int(t))
	}
	sort.Ints(types)
	var b []byte
	for _, t := range types {
		b = append(b, byte(t), byte(counts[C.VkDescriptorType(t)]))
	}
	return typeKey(b)
}

// descPool is one physical VkDescriptorPool belonging to a bucket,
// tracking which of its descPoolCapacity slots are in use.
type descPool struct {
	pool  C.VkDescriptorPool
	used  bitm.Bitm[uint64]
	count int // live sets
}

// descMgr owns the pool-bucketing policy described in SPEC_FULL.md
// §4.C: pools are created lazily per bucket (a distinct TypeCounts
// signature), each capped at descPoolCapacity sets, and refcounted so
// that a drained pool can be destroyed once its last set is freed.
// Grounded on the teacher's vk/desc.go pool-creation call shape, with
// the bucketing/refcounting layered on fresh (see DESIGN.md Open
// Question 4).
type descMgr struct {
	dev     C.VkDevice
	mu      sync.Mutex
	buckets map[typeKey][]*descPool
	layouts map[typeKey]C.VkDescriptorSetLayout
}

func newDescMgr(dev C.VkDevice) *descMgr {
	return &descMgr{dev: dev, buckets: map[typeKey][]*descPool{}, layouts: map[typeKey]C.VkDescriptorSetLayout{}}
}

func (m *descMgr) newSetLayout(ds []driver.Descriptor) (C.VkDescriptorSetLayout, error) {
	binds := make([]C.VkDescriptorSetLayoutBinding, len(ds))
	for i, d := range ds {
		binds[i] = C.VkDescriptorSetLayoutBinding{
			binding:         C.uint32_t(d.Binding),
			descriptorType:  convDescType(d.Type),
			descriptorCount: C.uint32_t(d.Count),
			stageFlags:      convStage(d.Stages),
		}
	}
	info := C.VkDescriptorSetLayoutCreateInfo{
		sType:        C.VK_STRUCTURE_TYPE_DESCRIPTOR_SET_LAYOUT_CREATE_INFO,
		bindingCount: C.uint32_t(len(binds)),
	}
	if len(binds) > 0 {
		info.pBindings = &binds[0]
	}
	var layout C.VkDescriptorSetLayout
	if err := checkResult(C.vkCreateDescriptorSetLayout(m.dev, &info, nil, &layout)); err != nil {
		return nil, err
	}
	return layout, nil
}

func typeCounts(ds []driver.Descriptor) map[C.VkDescriptorType]int {
	counts := map[C.VkDescriptorType]int{}
	for _, d := range ds {
		counts[convDescType(d.Type)] += d.Count
	}
	return counts
}

// acquire returns a pool from bucket key with a free slot, creating a
// new sibling pool if every existing one in the bucket is saturated.
func (m *descMgr) acquire(key typeKey, counts map[C.VkDescriptorType]int) (*descPool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.buckets[key] {
		if idx, ok := p.used.Search(); ok {
			p.used.Set(idx)
			p.count++
			return p, idx, nil
		}
	}

	sizes := make([]C.VkDescriptorPoolSize, 0, len(counts))
	for t, n := range counts {
		sizes = append(sizes, C.VkDescriptorPoolSize{typ: t, descriptorCount: C.uint32_t(n * descPoolCapacity)})
	}
	info := C.VkDescriptorPoolCreateInfo{
		sType:         C.VK_STRUCTURE_TYPE_DESCRIPTOR_POOL_CREATE_INFO,
		maxSets:       descPoolCapacity,
		poolSizeCount: C.uint32_t(len(sizes)),
	}
	if len(sizes) > 0 {
		info.pPoolSizes = &sizes[0]
	}
	var pool C.VkDescriptorPool
	if err := checkResult(C.vkCreateDescriptorPool(m.dev, &info, nil, &pool)); err != nil {
		return nil, 0, err
	}
	p := &descPool{pool: pool}
	p.used.Grow(1) // 64 bits, matching descPoolCapacity
	p.used.Set(0)
	p.count = 1
	m.buckets[key] = append(m.buckets[key], p)
	return p, 0, nil
}

// release un-marks a set's slot and destroys the owning pool once its
// refcount drops to zero.
func (m *descMgr) release(key typeKey, p *descPool, idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.used.Unset(idx)
	p.count--
	if p.count == 0 {
		C.vkDestroyDescriptorPool(m.dev, p.pool, nil)
		list := m.buckets[key]
		for i, q := range list {
			if q == p {
				m.buckets[key] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

type descriptorSet struct {
	g    *GPU
	set  C.VkDescriptorSet
	key  typeKey
	pool *descPool
	idx  int
}

func (g *GPU) NewDescriptorSet(layout []driver.Descriptor) (driver.DescriptorSet, error) {
	slKey := keyFor(typeCounts(layout))
	sl, ok := g.descMgr.layouts[slKey]
	if !ok {
		var err error
		sl, err = g.descMgr.newSetLayout(layout)
		if err != nil {
			return nil, err
		}
		g.descMgr.layouts[slKey] = sl
	}
	counts := typeCounts(layout)
	pool, idx, err := g.descMgr.acquire(slKey, counts)
	if err != nil {
		return nil, err
	}
	info := C.VkDescriptorSetAllocateInfo{
		sType:              C.VK_STRUCTURE_TYPE_DESCRIPTOR_SET_ALLOCATE_INFO,
		descriptorPool:     pool.pool,
		descriptorSetCount: 1,
		pSetLayouts:        &sl,
	}
	var set C.VkDescriptorSet
	if err := checkResult(C.vkAllocateDescriptorSets(g.dev, &info, &set)); err != nil {
		g.descMgr.release(slKey, pool, idx)
		return nil, err
	}
	return &descriptorSet{g: g, set: set, key: slKey, pool: pool, idx: idx}, nil
}

func (d *descriptorSet) Destroy() {
	C.vkFreeDescriptorSets(d.g.dev, d.pool.pool, 1, &d.set)
	d.g.descMgr.release(d.key, d.pool, d.idx)
}

func (d *descriptorSet) SetBuffers(binding, start int, buf []driver.Buffer, off, size []int64) {
	infos := make([]C.VkDescriptorBufferInfo, len(buf))
	for i, b := range buf {
		infos[i] = C.VkDescriptorBufferInfo{
			buffer: b.(*buffer).buf,
			offset: C.VkDeviceSize(off[i]),
			rang:   C.VkDeviceSize(size[i]),
		}
	}
	write := C.VkWriteDescriptorSet{
		sType:           C.VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET,
		dstSet:          d.set,
		dstBinding:      C.uint32_t(binding),
		dstArrayElement: C.uint32_t(start),
		descriptorCount: C.uint32_t(len(infos)),
		descriptorType:  C.VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER,
	}
	if len(infos) > 0 {
		write.pBufferInfo = &infos[0]
	}
	C.vkUpdateDescriptorSets(d.g.dev, 1, &write, 0, nil)
}

func (d *descriptorSet) SetTextures(binding, start int, tv []driver.TextureView) {
	infos := make([]C.VkDescriptorImageInfo, len(tv))
	for i, v := range tv {
		infos[i] = C.VkDescriptorImageInfo{
			imageView:   v.(*textureView).view,
			imageLayout: C.VK_IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL,
		}
	}
	write := C.VkWriteDescriptorSet{
		sType:           C.VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET,
		dstSet:          d.set,
		dstBinding:      C.uint32_t(binding),
		dstArrayElement: C.uint32_t(start),
		descriptorCount: C.uint32_t(len(infos)),
		descriptorType:  C.VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE,
	}
	if len(infos) > 0 {
		write.pImageInfo = &infos[0]
	}
	C.vkUpdateDescriptorSets(d.g.dev, 1, &write, 0, nil)
}

func (d *descriptorSet) SetSamplers(binding, start int, s []driver.Sampler) {
	infos := make([]C.VkDescriptorImageInfo, len(s))
	for i, sp := range s {
		infos[i] = C.VkDescriptorImageInfo{sampler: sp.(*sampler).s}
	}
	write := C.VkWriteDescriptorSet{
		sType:           C.VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET,
		dstSet:          d.set,
		dstBinding:      C.uint32_t(binding),
		dstArrayElement: C.uint32_t(start),
		descriptorCount: C.uint32_t(len(infos)),
		descriptorType:  C.VK_DESCRIPTOR_TYPE_SAMPLER,
	}
	if len(infos) > 0 {
		write.pImageInfo = &infos[0]
	}
	C.vkUpdateDescriptorSets(d.g.dev, 1, &write, 0, nil)
}

var _ = unsafe.Pointer(nil)

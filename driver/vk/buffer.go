package vk

// #include <vulkan/vulkan.h>
import "C"

import (
	"unsafe"

	"github.com/kestrelgfx/core/driver"
)

type buffer struct {
	g       *GPU
	buf     C.VkBuffer
	mem     C.VkDeviceMemory
	size    int64
	visible bool
	mapped  unsafe.Pointer
}

func convBufUsage(u driver.Usage) C.VkBufferUsageFlags {
	var f C.VkBufferUsageFlags
	if u&driver.UsageVertex != 0 {
		f |= C.VK_BUFFER_USAGE_VERTEX_BUFFER_BIT
	}
	if u&driver.UsageIndex != 0 {
		f |= C.VK_BUFFER_USAGE_INDEX_BUFFER_BIT
	}
	if u&driver.UsageIndirect != 0 {
		f |= C.VK_BUFFER_USAGE_INDIRECT_BUFFER_BIT
	}
	if u&driver.UsageUniform != 0 {
		f |= C.VK_BUFFER_USAGE_UNIFORM_BUFFER_BIT
	}
	if u&driver.UsageStorage != 0 {
		f |= C.VK_BUFFER_USAGE_STORAGE_BUFFER_BIT
	}
	if u&driver.UsageUniformTexel != 0 {
		f |= C.VK_BUFFER_USAGE_UNIFORM_TEXEL_BUFFER_BIT
	}
	if u&driver.UsageStorageTexel != 0 {
		f |= C.VK_BUFFER_USAGE_STORAGE_TEXEL_BUFFER_BIT
	}
	if u&driver.UsageTransferSrc != 0 {
		f |= C.VK_BUFFER_USAGE_TRANSFER_SRC_BIT
	}
	if u&driver.UsageTransferDst != 0 {
		f |= C.VK_BUFFER_USAGE_TRANSFER_DST_BIT
	}
	return f
}

func (g *GPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	info := C.VkBufferCreateInfo{
		sType: C.VK_STRUCTURE_TYPE_BUFFER_CREATE_INFO,
		size:  C.VkDeviceSize(size),
		usage: convBufUsage(usg),
	}
	var buf C.VkBuffer
	if err := checkResult(C.vkCreateBuffer(g.dev, &info, nil, &buf)); err != nil {
		return nil, err
	}
	var req C.VkMemoryRequirements
	C.vkGetBufferMemoryRequirements(g.dev, buf, &req)

	propFlags := C.VkMemoryPropertyFlags(C.VK_MEMORY_PROPERTY_DEVICE_LOCAL_BIT)
	if visible {
		propFlags = C.VK_MEMORY_PROPERTY_HOST_VISIBLE_BIT | C.VK_MEMORY_PROPERTY_HOST_COHERENT_BIT
	}
	memType, err := findMemoryType(g.phys, req.memoryTypeBits, propFlags)
	if err != nil {
		C.vkDestroyBuffer(g.dev, buf, nil)
		return nil, err
	}
	allocInfo := C.VkMemoryAllocateInfo{
		sType:           C.VK_STRUCTURE_TYPE_MEMORY_ALLOCATE_INFO,
		allocationSize:  req.size,
		memoryTypeIndex: C.uint32_t(memType),
	}
	var mem C.VkDeviceMemory
	if err := checkResult(C.vkAllocateMemory(g.dev, &allocInfo, nil, &mem)); err != nil {
		C.vkDestroyBuffer(g.dev, buf, nil)
		return nil, err
	}
	C.vkBindBufferMemory(g.dev, buf, mem, 0)

	b := &buffer{g: g, buf: buf, mem: mem, size: size, visible: visible}
	if visible {
		var p unsafe.Pointer
		if err := checkResult(C.vkMapMemory(g.dev, mem, 0, C.VkDeviceSize(size), 0, &p)); err != nil {
			b.Destroy()
			return nil, err
		}
		b.mapped = p
	}
	return b, nil
}

func (b *buffer) Destroy() {
	if b.mapped != nil {
		C.vkUnmapMemory(b.g.dev, b.mem)
	}
	C.vkDestroyBuffer(b.g.dev, b.buf, nil)
	C.vkFreeMemory(b.g.dev, b.mem, nil)
}

func (b *buffer) Visible() bool { return b.visible }
func (b *buffer) Size() int64   { return b.size }

func (b *buffer) Bytes() []byte {
	if b.mapped == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.mapped), b.size)
}

func findMemoryType(phys C.VkPhysicalDevice, typeBits C.uint32_t, props C.VkMemoryPropertyFlags) (int, error) {
	var memProps C.VkPhysicalDeviceMemoryProperties
	C.vkGetPhysicalDeviceMemoryProperties(phys, &memProps)
	for i := 0; i < int(memProps.memoryTypeCount); i++ {
		if typeBits&(1<<uint(i)) == 0 {
			continue
		}
		if memProps.memoryTypes[i].propertyFlags&props == props {
			return i, nil
		}
	}
	return 0, driver.ErrNoDeviceMemory
}

package vk

// #include <vulkan/vulkan.h>
import "C"

import (
	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/internal/bitvec"
)

type texture struct {
	g      *GPU
	img    C.VkImage
	mem    C.VkDeviceMemory
	param  driver.TextureParam
	layout bitvec.V[uint32] // per (layer,level) layout tracking, see engine texture.go grounding
}

func convImgUsage(u driver.Usage) C.VkImageUsageFlags {
	var f C.VkImageUsageFlags
	if u&driver.UsageTransferSrc != 0 {
		f |= C.VK_IMAGE_USAGE_TRANSFER_SRC_BIT
	}
	if u&driver.UsageTransferDst != 0 {
		f |= C.VK_IMAGE_USAGE_TRANSFER_DST_BIT
	}
	if u&driver.UsageSampled != 0 {
		f |= C.VK_IMAGE_USAGE_SAMPLED_BIT
	}
	if u&driver.UsageStorageImage != 0 {
		f |= C.VK_IMAGE_USAGE_STORAGE_BIT
	}
	if u&driver.UsageColorTarget != 0 {
		f |= C.VK_IMAGE_USAGE_COLOR_ATTACHMENT_BIT
	}
	if u&driver.UsageDSTarget != 0 {
		f |= C.VK_IMAGE_USAGE_DEPTH_STENCIL_ATTACHMENT_BIT
	}
	if u&driver.UsageInputAttachment != 0 {
		f |= C.VK_IMAGE_USAGE_INPUT_ATTACHMENT_BIT
	}
	return f
}

func convImgType(d driver.Dimension) C.VkImageType {
	switch d {
	case driver.Dim1D:
		return C.VK_IMAGE_TYPE_1D
	case driver.Dim3D:
		return C.VK_IMAGE_TYPE_3D
	default:
		return C.VK_IMAGE_TYPE_2D
	}
}

func (g *GPU) NewTexture(p *driver.TextureParam) (driver.Texture, error) {
	var flags C.VkImageCreateFlags
	if p.Type == driver.TexCube || p.Type == driver.TexCubeArray {
		flags |= C.VK_IMAGE_CREATE_CUBE_COMPATIBLE_BIT
	}
	info := C.VkImageCreateInfo{
		sType:     C.VK_STRUCTURE_TYPE_IMAGE_CREATE_INFO,
		flags:     flags,
		imageType: convImgType(p.Dim),
		format:    convFormat(p.Format),
		extent: C.VkExtent3D{
			width:  C.uint32_t(p.Extent.Width),
			height: C.uint32_t(p.Extent.Height),
			depth:  C.uint32_t(p.Extent.Depth),
		},
		mipLevels:   C.uint32_t(p.Levels),
		arrayLayers: C.uint32_t(p.Layers),
		samples:     C.VkSampleCountFlagBits(p.Samples),
		tiling:      C.VK_IMAGE_TILING_OPTIMAL,
		usage:       convImgUsage(p.Usage),
		sharingMode: C.VK_SHARING_MODE_EXCLUSIVE,
		initialLayout: C.VK_IMAGE_LAYOUT_UNDEFINED,
	}
	var img C.VkImage
	if err := checkResult(C.vkCreateImage(g.dev, &info, nil, &img)); err != nil {
		return nil, err
	}
	var req C.VkMemoryRequirements
	C.vkGetImageMemoryRequirements(g.dev, img, &req)
	memType, err := findMemoryType(g.phys, req.memoryTypeBits, C.VK_MEMORY_PROPERTY_DEVICE_LOCAL_BIT)
	if err != nil {
		C.vkDestroyImage(g.dev, img, nil)
		return nil, err
	}
	allocInfo := C.VkMemoryAllocateInfo{
		sType:           C.VK_STRUCTURE_TYPE_MEMORY_ALLOCATE_INFO,
		allocationSize:  req.size,
		memoryTypeIndex: C.uint32_t(memType),
	}
	var mem C.VkDeviceMemory
	if err := checkResult(C.vkAllocateMemory(g.dev, &allocInfo, nil, &mem)); err != nil {
		C.vkDestroyImage(g.dev, img, nil)
		return nil, err
	}
	C.vkBindImageMemory(g.dev, img, mem, 0)

	t := &texture{g: g, img: img, mem: mem, param: *p}
	t.layout.Grow(p.Layers * p.Levels)
	return t, nil
}

func (t *texture) Destroy() {
	C.vkDestroyImage(t.g.dev, t.img, nil)
	C.vkFreeMemory(t.g.dev, t.mem, nil)
}

func (t *texture) Param() driver.TextureParam { return t.param }

type textureView struct {
	g    *GPU
	view C.VkImageView
}

func convViewType(v driver.ViewType) C.VkImageViewType {
	switch v {
	case driver.View1D:
		return C.VK_IMAGE_VIEW_TYPE_1D
	case driver.View3D:
		return C.VK_IMAGE_VIEW_TYPE_3D
	case driver.ViewCube:
		return C.VK_IMAGE_VIEW_TYPE_CUBE
	case driver.View1DArray:
		return C.VK_IMAGE_VIEW_TYPE_1D_ARRAY
	case driver.View2DArray, driver.View2DMSArray:
		return C.VK_IMAGE_VIEW_TYPE_2D_ARRAY
	case driver.ViewCubeArray:
		return C.VK_IMAGE_VIEW_TYPE_CUBE_ARRAY
	default:
		return C.VK_IMAGE_VIEW_TYPE_2D
	}
}

func aspectMaskOf(f driver.Format) C.VkImageAspectFlags {
	if !driver.IsDepthFormat(f) {
		return C.VK_IMAGE_ASPECT_COLOR_BIT
	}
	m := C.VkImageAspectFlags(C.VK_IMAGE_ASPECT_DEPTH_BIT)
	if driver.HasStencil(f) {
		m |= C.VK_IMAGE_ASPECT_STENCIL_BIT
	}
	return m
}

func (t *texture) NewView(typ driver.ViewType, baseLayer, layers, baseLevel, levels int) (driver.TextureView, error) {
	info := C.VkImageViewCreateInfo{
		sType:    C.VK_STRUCTURE_TYPE_IMAGE_VIEW_CREATE_INFO,
		image:    t.img,
		viewType: convViewType(typ),
		format:   convFormat(t.param.Format),
		subresourceRange: C.VkImageSubresourceRange{
			aspectMask:     aspectMaskOf(t.param.Format),
			baseMipLevel:   C.uint32_t(baseLevel),
			levelCount:     C.uint32_t(levels),
			baseArrayLayer: C.uint32_t(baseLayer),
			layerCount:     C.uint32_t(layers),
		},
	}
	var v C.VkImageView
	if err := checkResult(C.vkCreateImageView(t.g.dev, &info, nil, &v)); err != nil {
		return nil, err
	}
	return &textureView{g: t.g, view: v}, nil
}

func (v *textureView) Destroy() { C.vkDestroyImageView(v.g.dev, v.view, nil) }

package vk

// #include <vulkan/vulkan.h>
import "C"

import "github.com/kestrelgfx/core/driver"

type sampler struct {
	g *GPU
	s C.VkSampler
}

func convBorderColor(b driver.BorderColor) C.VkBorderColor {
	switch b {
	case driver.BorderOpaqueBlack:
		return C.VK_BORDER_COLOR_FLOAT_OPAQUE_BLACK
	case driver.BorderOpaqueWhite:
		return C.VK_BORDER_COLOR_FLOAT_OPAQUE_WHITE
	default:
		return C.VK_BORDER_COLOR_FLOAT_TRANSPARENT_BLACK
	}
}

func (g *GPU) NewSampler(s *driver.Sampling) (driver.Sampler, error) {
	mipMode := C.VK_SAMPLER_MIPMAP_MODE_LINEAR
	if s.Mipmap == driver.FilterNearest {
		mipMode = C.VK_SAMPLER_MIPMAP_MODE_NEAREST
	}
	maxLOD := C.float(s.MaxLOD)
	if s.Mipmap == driver.FilterNoMipmap {
		maxLOD = 0.25 // forces level 0, matching the teacher's convention for a no-mipmap sampler
	}
	info := C.VkSamplerCreateInfo{
		sType:                   C.VK_STRUCTURE_TYPE_SAMPLER_CREATE_INFO,
		magFilter:               convFilter(s.Mag),
		minFilter:               convFilter(s.Min),
		mipmapMode:              C.VkSamplerMipmapMode(mipMode),
		addressModeU:            convAddrMode(s.AddrU),
		addressModeV:            convAddrMode(s.AddrV),
		addressModeW:            convAddrMode(s.AddrW),
		mipLodBias:              C.float(s.LODBias),
		anisotropyEnable:        vkBool(s.AnisotropyEnable),
		maxAnisotropy:           C.float(s.MaxAnisotropy),
		compareEnable:           vkBool(s.CompareEnable),
		compareOp:               convCmpFunc(s.Compare),
		minLod:                  C.float(s.MinLOD),
		maxLod:                  maxLOD,
		borderColor:             convBorderColor(s.Border),
		unnormalizedCoordinates: vkBool(s.UnnormalizedCoords),
	}
	var vs C.VkSampler
	if err := checkResult(C.vkCreateSampler(g.dev, &info, nil, &vs)); err != nil {
		return nil, err
	}
	return &sampler{g: g, s: vs}, nil
}

func (s *sampler) Destroy() { C.vkDestroySampler(s.g.dev, s.s, nil) }

func vkBool(b bool) C.VkBool32 {
	if b {
		return C.VK_TRUE
	}
	return C.VK_FALSE
}

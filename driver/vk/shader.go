package vk

// #include <vulkan/vulkan.h>
import "C"

import (
	"unsafe"

	"github.com/kestrelgfx/core/driver"
)

// shader wraps a VkShaderModule plus its own VkPipelineLayout, built
// from its Reflection — mirroring the teacher's shader.go, which also
// bakes the pipeline layout at shader-creation time rather than at
// pipeline-creation time.
type shader struct {
	g      *GPU
	mod    C.VkShaderModule
	layout C.VkPipelineLayout
	setLayouts []C.VkDescriptorSetLayout
	refl   driver.Reflection
}

func (g *GPU) NewShader(bin driver.ShaderBinary, refl *driver.Reflection) (driver.Shader, error) {
	if len(bin)%4 != 0 {
		return nil, driver.ErrInvalidArg
	}
	info := C.VkShaderModuleCreateInfo{
		sType:    C.VK_STRUCTURE_TYPE_SHADER_MODULE_CREATE_INFO,
		codeSize: C.size_t(len(bin)),
		pCode:    (*C.uint32_t)(unsafe.Pointer(&bin[0])),
	}
	var mod C.VkShaderModule
	if err := checkResult(C.vkCreateShaderModule(g.dev, &info, nil, &mod)); err != nil {
		return nil, err
	}

	setLayouts := make([]C.VkDescriptorSetLayout, len(refl.Sets))
	for i, binds := range refl.Sets {
		sl, err := g.descMgr.newSetLayout(binds)
		if err != nil {
			return nil, err
		}
		setLayouts[i] = sl
	}

	pcRanges := make([]C.VkPushConstantRange, len(refl.PushConst))
	for i, pc := range refl.PushConst {
		pcRanges[i] = C.VkPushConstantRange{
			stageFlags: convStage(pc.Stages),
			offset:     C.uint32_t(pc.Offset),
			size:       C.uint32_t(pc.Size),
		}
	}
	layoutInfo := C.VkPipelineLayoutCreateInfo{
		sType:                  C.VK_STRUCTURE_TYPE_PIPELINE_LAYOUT_CREATE_INFO,
		setLayoutCount:         C.uint32_t(len(setLayouts)),
		pushConstantRangeCount: C.uint32_t(len(pcRanges)),
	}
	if len(setLayouts) > 0 {
		layoutInfo.pSetLayouts = &setLayouts[0]
	}
	if len(pcRanges) > 0 {
		layoutInfo.pPushConstantRanges = &pcRanges[0]
	}
	var layout C.VkPipelineLayout
	if err := checkResult(C.vkCreatePipelineLayout(g.dev, &layoutInfo, nil, &layout)); err != nil {
		C.vkDestroyShaderModule(g.dev, mod, nil)
		return nil, err
	}
	return &shader{g: g, mod: mod, layout: layout, setLayouts: setLayouts, refl: *refl}, nil
}

func (s *shader) Destroy() {
	C.vkDestroyPipelineLayout(s.g.dev, s.layout, nil)
	C.vkDestroyShaderModule(s.g.dev, s.mod, nil)
}

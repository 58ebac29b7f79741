package vk

// #include <stdlib.h>
// #include <vulkan/vulkan.h>
import "C"

import (
	"unsafe"

	"github.com/kestrelgfx/core/driver"
)

type pipeline struct {
	g        *GPU
	pipe     C.VkPipeline
	layout   C.VkPipelineLayout
	compute  bool
}

func convTopology(t driver.Topology) C.VkPrimitiveTopology {
	switch t {
	case driver.TopologyPointList:
		return C.VK_PRIMITIVE_TOPOLOGY_POINT_LIST
	case driver.TopologyLineList:
		return C.VK_PRIMITIVE_TOPOLOGY_LINE_LIST
	case driver.TopologyLineStrip:
		return C.VK_PRIMITIVE_TOPOLOGY_LINE_STRIP
	case driver.TopologyTriangleStrip:
		return C.VK_PRIMITIVE_TOPOLOGY_TRIANGLE_STRIP
	default:
		return C.VK_PRIMITIVE_TOPOLOGY_TRIANGLE_LIST
	}
}

func convVertexFormat(f driver.VertexFormat) C.VkFormat {
	switch f {
	case driver.VFloat32:
		return C.VK_FORMAT_R32_SFLOAT
	case driver.VFloat32x2:
		return C.VK_FORMAT_R32G32_SFLOAT
	case driver.VFloat32x3:
		return C.VK_FORMAT_R32G32B32_SFLOAT
	case driver.VFloat32x4:
		return C.VK_FORMAT_R32G32B32A32_SFLOAT
	case driver.VUint32:
		return C.VK_FORMAT_R32_UINT
	case driver.VUint32x2:
		return C.VK_FORMAT_R32G32_UINT
	case driver.VUint32x3:
		return C.VK_FORMAT_R32G32B32_UINT
	default:
		return C.VK_FORMAT_R32G32B32A32_UINT
	}
}

func convBlendOp(o driver.BlendOp) C.VkBlendOp {
	switch o {
	case driver.BlendSubtract:
		return C.VK_BLEND_OP_SUBTRACT
	case driver.BlendRevSubtract:
		return C.VK_BLEND_OP_REVERSE_SUBTRACT
	case driver.BlendMin:
		return C.VK_BLEND_OP_MIN
	case driver.BlendMax:
		return C.VK_BLEND_OP_MAX
	default:
		return C.VK_BLEND_OP_ADD
	}
}

func convBlendFactor(f driver.BlendFactor) C.VkBlendFactor {
	switch f {
	case driver.FactorOne:
		return C.VK_BLEND_FACTOR_ONE
	case driver.FactorSrcColor:
		return C.VK_BLEND_FACTOR_SRC_COLOR
	case driver.FactorInvSrcColor:
		return C.VK_BLEND_FACTOR_ONE_MINUS_SRC_COLOR
	case driver.FactorSrcAlpha:
		return C.VK_BLEND_FACTOR_SRC_ALPHA
	case driver.FactorInvSrcAlpha:
		return C.VK_BLEND_FACTOR_ONE_MINUS_SRC_ALPHA
	case driver.FactorDstColor:
		return C.VK_BLEND_FACTOR_DST_COLOR
	case driver.FactorInvDstColor:
		return C.VK_BLEND_FACTOR_ONE_MINUS_DST_COLOR
	case driver.FactorDstAlpha:
		return C.VK_BLEND_FACTOR_DST_ALPHA
	case driver.FactorInvDstAlpha:
		return C.VK_BLEND_FACTOR_ONE_MINUS_DST_ALPHA
	default:
		return C.VK_BLEND_FACTOR_ZERO
	}
}

// NewPipeline builds a graphics or compute VkPipeline using dynamic
// rendering (VkPipelineRenderingCreateInfo) rather than a real
// VkRenderPass handle, consistent with pass.go's logical RenderPass.
func (g *GPU) NewPipeline(state any) (driver.Pipeline, error) {
	switch s := state.(type) {
	case *driver.GraphicsState:
		return g.newGraphicsPipeline(s)
	case *driver.ComputeState:
		return g.newComputePipeline(s)
	default:
		return nil, driver.ErrInvalidArg
	}
}

func (g *GPU) newGraphicsPipeline(s *driver.GraphicsState) (driver.Pipeline, error) {
	entry := C.CString("main")
	defer C.free(unsafe.Pointer(entry))

	vert := s.VertBin.(*shader)
	frag := s.FragBin.(*shader)
	stages := []C.VkPipelineShaderStageCreateInfo{
		{sType: C.VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO, stage: C.VK_SHADER_STAGE_VERTEX_BIT, module: vert.mod, pName: entry},
		{sType: C.VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO, stage: C.VK_SHADER_STAGE_FRAGMENT_BIT, module: frag.mod, pName: entry},
	}

	binds := make([]C.VkVertexInputBindingDescription, len(s.Bindings))
	for i, b := range s.Bindings {
		rate := C.VK_VERTEX_INPUT_RATE_VERTEX
		if b.Rate == driver.RatePerInstance {
			rate = C.VK_VERTEX_INPUT_RATE_INSTANCE
		}
		binds[i] = C.VkVertexInputBindingDescription{binding: C.uint32_t(i), stride: C.uint32_t(b.Stride), inputRate: C.VkVertexInputRate(rate)}
	}
	attrs := make([]C.VkVertexInputAttributeDescription, len(s.Attrs))
	for i, a := range s.Attrs {
		attrs[i] = C.VkVertexInputAttributeDescription{
			location: C.uint32_t(a.Nr),
			binding:  C.uint32_t(a.Binding),
			format:   convVertexFormat(a.Format),
			offset:   C.uint32_t(a.Offset),
		}
	}
	vertexInput := C.VkPipelineVertexInputStateCreateInfo{sType: C.VK_STRUCTURE_TYPE_PIPELINE_VERTEX_INPUT_STATE_CREATE_INFO}
	if len(binds) > 0 {
		vertexInput.vertexBindingDescriptionCount = C.uint32_t(len(binds))
		vertexInput.pVertexBindingDescriptions = &binds[0]
	}
	if len(attrs) > 0 {
		vertexInput.vertexAttributeDescriptionCount = C.uint32_t(len(attrs))
		vertexInput.pVertexAttributeDescriptions = &attrs[0]
	}

	assembly := C.VkPipelineInputAssemblyStateCreateInfo{
		sType:    C.VK_STRUCTURE_TYPE_PIPELINE_INPUT_ASSEMBLY_STATE_CREATE_INFO,
		topology: convTopology(s.Topology),
	}

	cull := C.VkCullModeFlags(C.VK_CULL_MODE_NONE)
	switch s.Raster.Cull {
	case driver.CullFront:
		cull = C.VK_CULL_MODE_FRONT_BIT
	case driver.CullBack:
		cull = C.VK_CULL_MODE_BACK_BIT
	}
	front := C.VkFrontFace(C.VK_FRONT_FACE_CLOCKWISE)
	if s.Raster.CCW {
		front = C.VK_FRONT_FACE_COUNTER_CLOCKWISE
	}
	fill := C.VkPolygonMode(C.VK_POLYGON_MODE_FILL)
	if s.Raster.Fill == driver.FillLines {
		fill = C.VK_POLYGON_MODE_LINE
	}
	raster := C.VkPipelineRasterizationStateCreateInfo{
		sType:                   C.VK_STRUCTURE_TYPE_PIPELINE_RASTERIZATION_STATE_CREATE_INFO,
		polygonMode:             fill,
		cullMode:                cull,
		frontFace:               front,
		depthBiasEnable:         vkBool(s.Raster.DepthBias),
		depthBiasConstantFactor: C.float(s.Raster.BiasConstant),
		depthBiasSlopeFactor:    C.float(s.Raster.BiasSlope),
		depthBiasClamp:          C.float(s.Raster.BiasClamp),
		lineWidth:               1,
	}

	samples := C.VkSampleCountFlagBits(s.Samples)
	if samples == 0 {
		samples = C.VK_SAMPLE_COUNT_1_BIT
	}
	multisample := C.VkPipelineMultisampleStateCreateInfo{
		sType:                C.VK_STRUCTURE_TYPE_PIPELINE_MULTISAMPLE_STATE_CREATE_INFO,
		rasterizationSamples: samples,
	}

	ds := C.VkPipelineDepthStencilStateCreateInfo{
		sType:            C.VK_STRUCTURE_TYPE_PIPELINE_DEPTH_STENCIL_STATE_CREATE_INFO,
		depthTestEnable:  vkBool(s.DS.DepthTest),
		depthWriteEnable: vkBool(s.DS.DepthWrite),
		depthCompareOp:   convCmpFunc(s.DS.DepthCmp),
		stencilTestEnable: vkBool(s.DS.StencilTest),
	}

	blendAtts := make([]C.VkPipelineColorBlendAttachmentState, len(s.Blend))
	for i, b := range s.Blend {
		blendAtts[i] = C.VkPipelineColorBlendAttachmentState{
			blendEnable:         vkBool(b.Enable),
			srcColorBlendFactor: convBlendFactor(b.SrcFac[0]),
			dstColorBlendFactor: convBlendFactor(b.DstFac[0]),
			colorBlendOp:        convBlendOp(b.Op[0]),
			srcAlphaBlendFactor: convBlendFactor(b.SrcFac[1]),
			dstAlphaBlendFactor: convBlendFactor(b.DstFac[1]),
			alphaBlendOp:        convBlendOp(b.Op[1]),
			colorWriteMask:      C.VkColorComponentFlags(b.WriteMask),
		}
	}
	colorBlend := C.VkPipelineColorBlendStateCreateInfo{sType: C.VK_STRUCTURE_TYPE_PIPELINE_COLOR_BLEND_STATE_CREATE_INFO}
	if len(blendAtts) > 0 {
		colorBlend.attachmentCount = C.uint32_t(len(blendAtts))
		colorBlend.pAttachments = &blendAtts[0]
	}

	dynStates := []C.VkDynamicState{C.VK_DYNAMIC_STATE_VIEWPORT, C.VK_DYNAMIC_STATE_SCISSOR}
	dyn := C.VkPipelineDynamicStateCreateInfo{
		sType:             C.VK_STRUCTURE_TYPE_PIPELINE_DYNAMIC_STATE_CREATE_INFO,
		dynamicStateCount: C.uint32_t(len(dynStates)),
		pDynamicStates:    &dynStates[0],
	}

	viewportState := C.VkPipelineViewportStateCreateInfo{
		sType:         C.VK_STRUCTURE_TYPE_PIPELINE_VIEWPORT_STATE_CREATE_INFO,
		viewportCount: 1,
		scissorCount:  1,
	}

	pass := s.Pass.(*renderPass)
	colorFormats := make([]C.VkFormat, 0, len(pass.sub[s.Subpass].Color))
	for _, ref := range pass.sub[s.Subpass].Color {
		colorFormats = append(colorFormats, convFormat(pass.att[ref.Index].Format))
	}
	renderingInfo := C.VkPipelineRenderingCreateInfo{sType: C.VK_STRUCTURE_TYPE_PIPELINE_RENDERING_CREATE_INFO}
	if len(colorFormats) > 0 {
		renderingInfo.colorAttachmentCount = C.uint32_t(len(colorFormats))
		renderingInfo.pColorAttachmentFormats = &colorFormats[0]
	}
	if pass.sub[s.Subpass].DS != nil {
		f := convFormat(pass.att[pass.sub[s.Subpass].DS.Index].Format)
		renderingInfo.depthAttachmentFormat = f
		if driver.HasStencil(pass.att[pass.sub[s.Subpass].DS.Index].Format) {
			renderingInfo.stencilAttachmentFormat = f
		}
	}

	info := C.VkGraphicsPipelineCreateInfo{
		sType:               C.VK_STRUCTURE_TYPE_GRAPHICS_PIPELINE_CREATE_INFO,
		pNext:               unsafe.Pointer(&renderingInfo),
		stageCount:          2,
		pStages:             &stages[0],
		pVertexInputState:   &vertexInput,
		pInputAssemblyState: &assembly,
		pViewportState:      &viewportState,
		pRasterizationState: &raster,
		pMultisampleState:   &multisample,
		pDepthStencilState:  &ds,
		pColorBlendState:    &colorBlend,
		pDynamicState:       &dyn,
		layout:              vert.layout,
	}
	var pipe C.VkPipeline
	if err := checkResult(C.vkCreateGraphicsPipelines(g.dev, nil, 1, &info, nil, &pipe)); err != nil {
		return nil, err
	}
	return &pipeline{g: g, pipe: pipe, layout: vert.layout}, nil
}

func (g *GPU) newComputePipeline(s *driver.ComputeState) (driver.Pipeline, error) {
	entry := C.CString("main")
	defer C.free(unsafe.Pointer(entry))
	comp := s.Comp.(*shader)
	info := C.VkComputePipelineCreateInfo{
		sType: C.VK_STRUCTURE_TYPE_COMPUTE_PIPELINE_CREATE_INFO,
		stage: C.VkPipelineShaderStageCreateInfo{
			sType:  C.VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO,
			stage:  C.VK_SHADER_STAGE_COMPUTE_BIT,
			module: comp.mod,
			pName:  entry,
		},
		layout: comp.layout,
	}
	var pipe C.VkPipeline
	if err := checkResult(C.vkCreateComputePipelines(g.dev, nil, 1, &info, nil, &pipe)); err != nil {
		return nil, err
	}
	return &pipeline{g: g, pipe: pipe, layout: comp.layout, compute: true}, nil
}

func (p *pipeline) Destroy() { C.vkDestroyPipeline(p.g.dev, p.pipe, nil) }

package vk

// #include <vulkan/vulkan.h>
import "C"

import (
	"unsafe"

	"github.com/kestrelgfx/core/driver"
)

type cmdBuffer struct {
	g         *GPU
	pool      *cmdPool
	cb        C.VkCommandBuffer
	curLayout C.VkPipelineLayout

	curSub   int
	curPass  *renderPass
	curFB    *framebuffer
	curViews []driver.TextureView
	curClear []driver.ClearValue
}

func (c *cmdBuffer) Destroy() {
	cb := c.cb
	C.vkFreeCommandBuffers(c.g.dev, c.pool.pool, 1, &cb)
}

func (c *cmdBuffer) Begin() error {
	info := C.VkCommandBufferBeginInfo{
		sType: C.VK_STRUCTURE_TYPE_COMMAND_BUFFER_BEGIN_INFO,
		flags: C.VK_COMMAND_BUFFER_USAGE_ONE_TIME_SUBMIT_BIT,
	}
	return checkResult(C.vkBeginCommandBuffer(c.cb, &info))
}

func (c *cmdBuffer) End() error { return checkResult(C.vkEndCommandBuffer(c.cb)) }

// BeginPass translates the logical RenderPass/Framebuffer (see
// pass.go) plus the concrete views supplied here into a single
// vkCmdBeginRendering call — this backend has no real render-pass or
// framebuffer objects to bind (DESIGN.md Open Question 2). Only the
// first subpass is supported directly; NextSubpass re-issues
// vkCmdBeginRendering for the next subpass's attachment subset, which
// is equivalent for the subpass-dependency shapes this engine uses
// (no input attachments read mid-pass).
func (c *cmdBuffer) BeginPass(pass driver.RenderPass, fb driver.Framebuffer, views []driver.TextureView, clear []driver.ClearValue) {
	rp := pass.(*renderPass)
	f := fb.(*framebuffer)
	c.curSub, c.curPass, c.curViews, c.curClear, c.curFB = 0, rp, views, clear, f
	c.beginSubpass()
}

func (c *cmdBuffer) beginSubpass() {
	rp, f, views, clear := c.curPass, c.curFB, c.curViews, c.curClear
	sub := rp.sub[c.curSub]

	colorAtts := make([]C.VkRenderingAttachmentInfo, len(sub.Color))
	for i, ref := range sub.Color {
		v := views[ref.Index].(*textureView)
		colorAtts[i] = C.VkRenderingAttachmentInfo{
			sType:       C.VK_STRUCTURE_TYPE_RENDERING_ATTACHMENT_INFO,
			imageView:   v.view,
			imageLayout: convLayout(ref.Layout),
			loadOp:      convLoadOp(rp.att[ref.Index].Load[0]),
			storeOp:     convStoreOp(rp.att[ref.Index].Store[0]),
		}
		if len(clear) > ref.Index {
			cv := clear[ref.Index]
			colorAtts[i].clearValue = C.VkClearValue{}
			setClearColor(&colorAtts[i].clearValue, rp.att[ref.Index].Format, cv)
		}
	}

	info := C.VkRenderingInfo{
		sType: C.VK_STRUCTURE_TYPE_RENDERING_INFO,
		renderArea: C.VkRect2D{
			extent: C.VkExtent2D{width: C.uint32_t(f.width), height: C.uint32_t(f.height)},
		},
		layerCount:           C.uint32_t(max1(f.layers)),
		colorAttachmentCount: C.uint32_t(len(colorAtts)),
	}
	if len(colorAtts) > 0 {
		info.pColorAttachments = &colorAtts[0]
	}

	var dsAtt C.VkRenderingAttachmentInfo
	if sub.DS != nil {
		v := views[sub.DS.Index].(*textureView)
		dsAtt = C.VkRenderingAttachmentInfo{
			sType:       C.VK_STRUCTURE_TYPE_RENDERING_ATTACHMENT_INFO,
			imageView:   v.view,
			imageLayout: convLayout(sub.DS.Layout),
			loadOp:      convLoadOp(rp.att[sub.DS.Index].Load[0]),
			storeOp:     convStoreOp(rp.att[sub.DS.Index].Store[0]),
		}
		if len(clear) > sub.DS.Index {
			dsAtt.clearValue.depthStencil.depth = C.float(clear[sub.DS.Index].Depth)
			dsAtt.clearValue.depthStencil.stencil = C.uint32_t(clear[sub.DS.Index].Stencil)
		}
		info.pDepthAttachment = &dsAtt
		if driver.HasStencil(rp.att[sub.DS.Index].Format) {
			info.pStencilAttachment = &dsAtt
		}
	}

	C.vkCmdBeginRendering(c.cb, &info)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// setClearColor writes the union member matching format's
// representation: raw int32/uint32 for the engine's two non-normalized
// integer formats (the entity-ID attachment's R32SInt sentinel clear
// in particular, SPEC_FULL.md §4.H), float32 otherwise.
func setClearColor(cv *C.VkClearValue, format driver.Format, v driver.ClearValue) {
	base := unsafe.Pointer(cv)
	switch {
	case driver.IsSIntFormat(format):
		for i, n := range v.ColorInt {
			*(*C.int32_t)(unsafe.Pointer(uintptr(base) + uintptr(i)*4)) = C.int32_t(n)
		}
	case driver.IsUIntFormat(format):
		for i, n := range v.ColorUint {
			*(*C.uint32_t)(unsafe.Pointer(uintptr(base) + uintptr(i)*4)) = C.uint32_t(n)
		}
	default:
		for i, f := range v.Color {
			*(*C.float)(unsafe.Pointer(uintptr(base) + uintptr(i)*4)) = C.float(f)
		}
	}
}

func convLoadOp(op int) C.VkAttachmentLoadOp {
	switch driver.LoadOp(op) {
	case driver.LoadClear:
		return C.VK_ATTACHMENT_LOAD_OP_CLEAR
	case driver.LoadLoad:
		return C.VK_ATTACHMENT_LOAD_OP_LOAD
	default:
		return C.VK_ATTACHMENT_LOAD_OP_DONT_CARE
	}
}

func convStoreOp(op int) C.VkAttachmentStoreOp {
	if driver.StoreOp(op) == driver.StoreStore {
		return C.VK_ATTACHMENT_STORE_OP_STORE
	}
	return C.VK_ATTACHMENT_STORE_OP_DONT_CARE
}

func (c *cmdBuffer) NextSubpass() {
	C.vkCmdEndRendering(c.cb)
	c.curSub++
	c.beginSubpass()
}

func (c *cmdBuffer) EndPass() { C.vkCmdEndRendering(c.cb) }

func (c *cmdBuffer) BeginCompute() {}
func (c *cmdBuffer) EndCompute()   {}
func (c *cmdBuffer) BeginBlit()    {}
func (c *cmdBuffer) EndBlit()      {}

func (c *cmdBuffer) SetPipeline(p driver.Pipeline) {
	pp := p.(*pipeline)
	bind := C.VkPipelineBindPoint(C.VK_PIPELINE_BIND_POINT_GRAPHICS)
	if pp.compute {
		bind = C.VK_PIPELINE_BIND_POINT_COMPUTE
	}
	c.curLayout = pp.layout
	C.vkCmdBindPipeline(c.cb, bind, pp.pipe)
}

func (c *cmdBuffer) SetViewport(vp []driver.Viewport) {
	vs := make([]C.VkViewport, len(vp))
	for i, v := range vp {
		// Y-flip policy: the engine's Y-up NDC convention is adapted
		// to Vulkan's Y-down clip space by negating height and
		// offsetting Y, per the teacher's present.go viewport setup.
		vs[i] = C.VkViewport{
			x: C.float(v.X), y: C.float(v.Y + v.Height),
			width: C.float(v.Width), height: C.float(-v.Height),
			minDepth: C.float(v.MinDepth), maxDepth: C.float(v.MaxDepth),
		}
	}
	if len(vs) > 0 {
		C.vkCmdSetViewport(c.cb, 0, C.uint32_t(len(vs)), &vs[0])
	}
}

func (c *cmdBuffer) SetScissor(s []driver.Scissor) {
	ss := make([]C.VkRect2D, len(s))
	for i, v := range s {
		ss[i] = C.VkRect2D{
			offset: C.VkOffset2D{x: C.int32_t(v.X), y: C.int32_t(v.Y)},
			extent: C.VkExtent2D{width: C.uint32_t(v.Width), height: C.uint32_t(v.Height)},
		}
	}
	if len(ss) > 0 {
		C.vkCmdSetScissor(c.cb, 0, C.uint32_t(len(ss)), &ss[0])
	}
}

func (c *cmdBuffer) SetBlendColor(r, g, b, a float32) {
	col := [4]C.float{C.float(r), C.float(g), C.float(b), C.float(a)}
	C.vkCmdSetBlendConstants(c.cb, &col[0])
}

func (c *cmdBuffer) SetStencilRef(value uint32) {
	C.vkCmdSetStencilReference(c.cb, C.VK_STENCIL_FACE_FRONT_AND_BACK, C.uint32_t(value))
}

func (c *cmdBuffer) SetVertexBuffers(start int, buf []driver.Buffer, off []int64) {
	bufs := make([]C.VkBuffer, len(buf))
	offs := make([]C.VkDeviceSize, len(buf))
	for i, b := range buf {
		bufs[i] = b.(*buffer).buf
		offs[i] = C.VkDeviceSize(off[i])
	}
	if len(bufs) > 0 {
		C.vkCmdBindVertexBuffers(c.cb, C.uint32_t(start), C.uint32_t(len(bufs)), &bufs[0], &offs[0])
	}
}

func (c *cmdBuffer) SetIndexBuffer(format driver.IndexFormat, buf driver.Buffer, off int64) {
	t := C.VkIndexType(C.VK_INDEX_TYPE_UINT16)
	if format == driver.Index32 {
		t = C.VK_INDEX_TYPE_UINT32
	}
	C.vkCmdBindIndexBuffer(c.cb, buf.(*buffer).buf, C.VkDeviceSize(off), t)
}

func (c *cmdBuffer) SetDescriptorSet(index int, ds driver.DescriptorSet) {
	set := ds.(*descriptorSet).set
	C.vkCmdBindDescriptorSets(c.cb, C.VK_PIPELINE_BIND_POINT_GRAPHICS, c.curLayout, C.uint32_t(index), 1, &set, 0, nil)
}

func (c *cmdBuffer) PushConstants(stages driver.Stage, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	C.vkCmdPushConstants(c.cb, c.curLayout, convStage(stages), C.uint32_t(offset), C.uint32_t(len(data)), unsafe.Pointer(&data[0]))
}

func (c *cmdBuffer) Draw(vertCount, instCount, firstVert, firstInst int) {
	C.vkCmdDraw(c.cb, C.uint32_t(vertCount), C.uint32_t(instCount), C.uint32_t(firstVert), C.uint32_t(firstInst))
}

func (c *cmdBuffer) DrawIndexed(idxCount, instCount, firstIdx, vertOff, firstInst int) {
	C.vkCmdDrawIndexed(c.cb, C.uint32_t(idxCount), C.uint32_t(instCount), C.uint32_t(firstIdx), C.int32_t(vertOff), C.uint32_t(firstInst))
}

func (c *cmdBuffer) Dispatch(gx, gy, gz int) {
	C.vkCmdDispatch(c.cb, C.uint32_t(gx), C.uint32_t(gy), C.uint32_t(gz))
}

func (c *cmdBuffer) CopyBuffer(p *driver.BufferCopy) {
	region := C.VkBufferCopy{
		srcOffset: C.VkDeviceSize(p.SrcOff),
		dstOffset: C.VkDeviceSize(p.DstOff),
		size:      C.VkDeviceSize(p.Size),
	}
	C.vkCmdCopyBuffer(c.cb, p.Src.(*buffer).buf, p.Dst.(*buffer).buf, 1, &region)
}

func (c *cmdBuffer) CopyTexture(p *driver.TextureCopy) {
	srcTex, dstTex := p.Src.(*texture), p.Dst.(*texture)
	region := C.VkImageCopy{
		srcSubresource: C.VkImageSubresourceLayers{
			aspectMask: aspectMaskOf(srcTex.param.Format), mipLevel: C.uint32_t(p.SrcLevel),
			baseArrayLayer: C.uint32_t(p.SrcLayer), layerCount: C.uint32_t(max1(p.Layers)),
		},
		dstSubresource: C.VkImageSubresourceLayers{
			aspectMask: aspectMaskOf(dstTex.param.Format), mipLevel: C.uint32_t(p.DstLevel),
			baseArrayLayer: C.uint32_t(p.DstLayer), layerCount: C.uint32_t(max1(p.Layers)),
		},
		srcOffset: C.VkOffset3D{x: C.int32_t(p.SrcOff.X), y: C.int32_t(p.SrcOff.Y), z: C.int32_t(p.SrcOff.Z)},
		dstOffset: C.VkOffset3D{x: C.int32_t(p.DstOff.X), y: C.int32_t(p.DstOff.Y), z: C.int32_t(p.DstOff.Z)},
		extent:    C.VkExtent3D{width: C.uint32_t(p.Size.Width), height: C.uint32_t(p.Size.Height), depth: C.uint32_t(max1(p.Size.Depth))},
	}
	C.vkCmdCopyImage(c.cb, srcTex.img, C.VK_IMAGE_LAYOUT_TRANSFER_SRC_OPTIMAL, dstTex.img, C.VK_IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL, 1, &region)
}

func (c *cmdBuffer) CopyBufferToTexture(p *driver.BufTexCopy) {
	tex := p.Tex.(*texture)
	region := C.VkBufferImageCopy{
		bufferOffset:      C.VkDeviceSize(p.BufOff),
		bufferRowLength:   C.uint32_t(p.Stride[0]),
		bufferImageHeight: C.uint32_t(p.Stride[1]),
		imageSubresource: C.VkImageSubresourceLayers{
			aspectMask: aspectOf(p.Aspect, tex.param.Format), mipLevel: C.uint32_t(p.Level),
			baseArrayLayer: C.uint32_t(p.Layer), layerCount: 1,
		},
		imageOffset: C.VkOffset3D{x: C.int32_t(p.TexOff.X), y: C.int32_t(p.TexOff.Y), z: C.int32_t(p.TexOff.Z)},
		imageExtent: C.VkExtent3D{width: C.uint32_t(p.Size.Width), height: C.uint32_t(p.Size.Height), depth: C.uint32_t(max1(p.Size.Depth))},
	}
	C.vkCmdCopyBufferToImage(c.cb, p.Buf.(*buffer).buf, tex.img, C.VK_IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL, 1, &region)
}

func (c *cmdBuffer) CopyTextureToBuffer(p *driver.BufTexCopy) {
	tex := p.Tex.(*texture)
	region := C.VkBufferImageCopy{
		bufferOffset:      C.VkDeviceSize(p.BufOff),
		bufferRowLength:   C.uint32_t(p.Stride[0]),
		bufferImageHeight: C.uint32_t(p.Stride[1]),
		imageSubresource: C.VkImageSubresourceLayers{
			aspectMask: aspectOf(p.Aspect, tex.param.Format), mipLevel: C.uint32_t(p.Level),
			baseArrayLayer: C.uint32_t(p.Layer), layerCount: 1,
		},
		imageOffset: C.VkOffset3D{x: C.int32_t(p.TexOff.X), y: C.int32_t(p.TexOff.Y), z: C.int32_t(p.TexOff.Z)},
		imageExtent: C.VkExtent3D{width: C.uint32_t(p.Size.Width), height: C.uint32_t(p.Size.Height), depth: C.uint32_t(max1(p.Size.Depth))},
	}
	C.vkCmdCopyImageToBuffer(c.cb, tex.img, C.VK_IMAGE_LAYOUT_TRANSFER_SRC_OPTIMAL, p.Buf.(*buffer).buf, 1, &region)
}

func aspectOf(a driver.Aspect, f driver.Format) C.VkImageAspectFlags {
	switch {
	case a&driver.AspectStencil != 0:
		return C.VK_IMAGE_ASPECT_STENCIL_BIT
	case a&driver.AspectDepth != 0:
		return C.VK_IMAGE_ASPECT_DEPTH_BIT
	default:
		return aspectMaskOf(f)
	}
}

func (c *cmdBuffer) BlitTexture(p *driver.TextureBlit, filter driver.Filter) {
	src, dst := p.Src.(*texture), p.Dst.(*texture)
	region := C.VkImageBlit{
		srcSubresource: C.VkImageSubresourceLayers{aspectMask: aspectMaskOf(src.param.Format), mipLevel: C.uint32_t(p.SrcLevel), baseArrayLayer: C.uint32_t(p.SrcLayer), layerCount: 1},
		dstSubresource: C.VkImageSubresourceLayers{aspectMask: aspectMaskOf(dst.param.Format), mipLevel: C.uint32_t(p.DstLevel), baseArrayLayer: C.uint32_t(p.DstLayer), layerCount: 1},
	}
	region.srcOffsets[0] = C.VkOffset3D{x: C.int32_t(p.SrcMin.X), y: C.int32_t(p.SrcMin.Y), z: C.int32_t(p.SrcMin.Z)}
	region.srcOffsets[1] = C.VkOffset3D{x: C.int32_t(p.SrcMax.X), y: C.int32_t(p.SrcMax.Y), z: C.int32_t(p.SrcMax.Z)}
	region.dstOffsets[0] = C.VkOffset3D{x: C.int32_t(p.DstMin.X), y: C.int32_t(p.DstMin.Y), z: C.int32_t(p.DstMin.Z)}
	region.dstOffsets[1] = C.VkOffset3D{x: C.int32_t(p.DstMax.X), y: C.int32_t(p.DstMax.Y), z: C.int32_t(p.DstMax.Z)}
	C.vkCmdBlitImage(c.cb, src.img, C.VK_IMAGE_LAYOUT_TRANSFER_SRC_OPTIMAL, dst.img, C.VK_IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL, 1, &region, convFilter(filter))
}

func (c *cmdBuffer) Fill(buf driver.Buffer, off int64, value byte, size int64) {
	pattern := C.uint32_t(value) | C.uint32_t(value)<<8 | C.uint32_t(value)<<16 | C.uint32_t(value)<<24
	C.vkCmdFillBuffer(c.cb, buf.(*buffer).buf, C.VkDeviceSize(off), C.VkDeviceSize(size), pattern)
}

func (c *cmdBuffer) Barrier(b []driver.Barrier) {
	mems := make([]C.VkMemoryBarrier2, len(b))
	for i, bb := range b {
		mems[i] = C.VkMemoryBarrier2{
			sType:           C.VK_STRUCTURE_TYPE_MEMORY_BARRIER_2,
			srcStageMask:    convSync(bb.SyncBefore),
			srcAccessMask:   convAccess(bb.AccessBefore),
			dstStageMask:    convSync(bb.SyncAfter),
			dstAccessMask:   convAccess(bb.AccessAfter),
		}
	}
	info := C.VkDependencyInfo{sType: C.VK_STRUCTURE_TYPE_DEPENDENCY_INFO}
	if len(mems) > 0 {
		info.memoryBarrierCount = C.uint32_t(len(mems))
		info.pMemoryBarriers = &mems[0]
	}
	C.vkCmdPipelineBarrier2(c.cb, &info)
}

func (c *cmdBuffer) Transition(t []driver.Transition) {
	imgBars := make([]C.VkImageMemoryBarrier2, len(t))
	for i, tr := range t {
		tex := tr.Tex.(*texture)
		imgBars[i] = C.VkImageMemoryBarrier2{
			sType:               C.VK_STRUCTURE_TYPE_IMAGE_MEMORY_BARRIER_2,
			srcStageMask:        convSync(tr.SyncBefore),
			srcAccessMask:       convAccess(tr.AccessBefore),
			dstStageMask:        convSync(tr.SyncAfter),
			dstAccessMask:       convAccess(tr.AccessAfter),
			oldLayout:           convLayout(tr.LayoutBefore),
			newLayout:           convLayout(tr.LayoutAfter),
			srcQueueFamilyIndex: C.VK_QUEUE_FAMILY_IGNORED,
			dstQueueFamilyIndex: C.VK_QUEUE_FAMILY_IGNORED,
			image:               tex.img,
			subresourceRange: C.VkImageSubresourceRange{
				aspectMask:     aspectOf(tr.Range.Aspect, tex.param.Format),
				baseMipLevel:   C.uint32_t(tr.Range.BaseLevel),
				levelCount:     C.uint32_t(max1(tr.Range.Levels)),
				baseArrayLayer: C.uint32_t(tr.Range.BaseLayer),
				layerCount:     C.uint32_t(max1(tr.Range.Layers)),
			},
		}
	}
	info := C.VkDependencyInfo{sType: C.VK_STRUCTURE_TYPE_DEPENDENCY_INFO}
	if len(imgBars) > 0 {
		info.imageMemoryBarrierCount = C.uint32_t(len(imgBars))
		info.pImageMemoryBarriers = &imgBars[0]
	}
	C.vkCmdPipelineBarrier2(c.cb, &info)
}

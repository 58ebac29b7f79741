package vk

// #include <vulkan/vulkan.h>
import "C"

import (
	"github.com/kestrelgfx/core/driver"
)

// GPU implements driver.GPU for an opened Vulkan device.
type GPU struct {
	drv    *Driver
	phys   C.VkPhysicalDevice
	dev    C.VkDevice
	queues map[int]C.VkQueue

	descMgr *descMgr
	limits  driver.Limits
}

func (g *GPU) Driver() driver.Driver { return g.drv }

func (g *GPU) QueueID(caps driver.QueueCaps, surf driver.Surface) (int, bool) {
	for fam := range g.queues {
		// Returns the single queue family opened at Open time (the
		// first family with the graphics bit) for every request: caps
		// and surf are not checked against the family's flags or its
		// presentation support.
		_ = caps
		_ = surf
		return fam, true
	}
	return -1, false
}

func (g *GPU) NewCmdPool(family int) (driver.CmdPool, error) {
	info := C.VkCommandPoolCreateInfo{
		sType:            C.VK_STRUCTURE_TYPE_COMMAND_POOL_CREATE_INFO,
		flags:            C.VK_COMMAND_POOL_CREATE_RESET_COMMAND_BUFFER_BIT,
		queueFamilyIndex: C.uint32_t(family),
	}
	var pool C.VkCommandPool
	if err := checkResult(C.vkCreateCommandPool(g.dev, &info, nil, &pool)); err != nil {
		return nil, err
	}
	return &cmdPool{g: g, pool: pool, family: family}, nil
}

func (g *GPU) Submit(cb []driver.CmdBuffer, wait []driver.SemaphoreWait, signal []driver.Semaphore, fence driver.Fence) error {
	bufs := make([]C.VkCommandBufferSubmitInfo, len(cb))
	for i, c := range cb {
		bufs[i] = C.VkCommandBufferSubmitInfo{
			sType:         C.VK_STRUCTURE_TYPE_COMMAND_BUFFER_SUBMIT_INFO,
			commandBuffer: c.(*cmdBuffer).cb,
		}
	}
	waits := make([]C.VkSemaphoreSubmitInfo, len(wait))
	for i, w := range wait {
		waits[i] = C.VkSemaphoreSubmitInfo{
			sType:     C.VK_STRUCTURE_TYPE_SEMAPHORE_SUBMIT_INFO,
			semaphore: w.Sem.(*semaphore).sem,
			stageMask: convSync(w.Stage),
		}
	}
	signals := make([]C.VkSemaphoreSubmitInfo, len(signal))
	for i, s := range signal {
		signals[i] = C.VkSemaphoreSubmitInfo{
			sType:     C.VK_STRUCTURE_TYPE_SEMAPHORE_SUBMIT_INFO,
			semaphore: s.(*semaphore).sem,
		}
	}
	info := C.VkSubmitInfo2{
		sType:                    C.VK_STRUCTURE_TYPE_SUBMIT_INFO_2,
		commandBufferInfoCount:   C.uint32_t(len(bufs)),
		waitSemaphoreInfoCount:   C.uint32_t(len(waits)),
		signalSemaphoreInfoCount: C.uint32_t(len(signals)),
	}
	if len(bufs) > 0 {
		info.pCommandBufferInfos = &bufs[0]
	}
	if len(waits) > 0 {
		info.pWaitSemaphoreInfos = &waits[0]
	}
	if len(signals) > 0 {
		info.pSignalSemaphoreInfos = &signals[0]
	}
	var f C.VkFence
	if fence != nil {
		f = fence.(*fenceImpl).fence
	}
	var q C.VkQueue
	for _, qq := range g.queues {
		q = qq
		break
	}
	return checkResult(C.vkQueueSubmit2(q, 1, &info, f))
}

func (g *GPU) WaitIdle() error { return checkResult(C.vkDeviceWaitIdle(g.dev)) }

func (g *GPU) Limits() driver.Limits { return g.limits }

func (g *GPU) readLimits(phys C.VkPhysicalDevice) driver.Limits {
	var props C.VkPhysicalDeviceProperties
	C.vkGetPhysicalDeviceProperties(phys, &props)
	l := props.limits
	return driver.Limits{
		MaxTexture1D:            int(l.maxImageDimension1D),
		MaxTexture2D:            int(l.maxImageDimension2D),
		MaxTextureCube:          int(l.maxImageDimensionCube),
		MaxTexture3D:            int(l.maxImageDimension3D),
		MaxLayers:               int(l.maxImageArrayLayers),
		MaxDescriptorSets:       int(l.maxBoundDescriptorSets),
		MaxBoundDescriptorSets:  int(l.maxBoundDescriptorSets),
		MaxColorTargets:         int(l.maxColorAttachments),
		MaxFramebufferSize:      [2]int{int(l.maxFramebufferWidth), int(l.maxFramebufferHeight)},
		MaxFramebufferLayers:    int(l.maxFramebufferLayers),
		MaxViewports:            int(l.maxViewports),
		MaxPointSize:            float32(l.pointSizeRange[1]),
		MaxVertexAttrs:          int(l.maxVertexInputAttributes),
		MaxFragmentInputs:       int(l.maxFragmentInputComponents),
		MaxComputeGroups:        [3]int{int(l.maxComputeWorkGroupCount[0]), int(l.maxComputeWorkGroupCount[1]), int(l.maxComputeWorkGroupCount[2])},
		SampleCounts:            int(l.framebufferColorSampleCounts),
	}
}

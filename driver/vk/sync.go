package vk

// #include <vulkan/vulkan.h>
import "C"

import "github.com/kestrelgfx/core/driver"

type fenceImpl struct {
	g     *GPU
	fence C.VkFence
}

func (g *GPU) NewFence(signaled bool) (driver.Fence, error) {
	var flags C.VkFenceCreateFlags
	if signaled {
		flags = C.VK_FENCE_CREATE_SIGNALED_BIT
	}
	info := C.VkFenceCreateInfo{sType: C.VK_STRUCTURE_TYPE_FENCE_CREATE_INFO, flags: flags}
	var f C.VkFence
	if err := checkResult(C.vkCreateFence(g.dev, &info, nil, &f)); err != nil {
		return nil, err
	}
	return &fenceImpl{g: g, fence: f}, nil
}

func (f *fenceImpl) Destroy() { C.vkDestroyFence(f.g.dev, f.fence, nil) }

func (f *fenceImpl) Wait(timeoutNS int64) error {
	timeout := C.uint64_t(timeoutNS)
	if timeoutNS < 0 {
		timeout = C.UINT64_MAX
	}
	return checkResult(C.vkWaitForFences(f.g.dev, 1, &f.fence, C.VK_TRUE, timeout))
}

func (f *fenceImpl) Reset() error { return checkResult(C.vkResetFences(f.g.dev, 1, &f.fence)) }

func (f *fenceImpl) Signaled() (bool, error) {
	r := C.vkGetFenceStatus(f.g.dev, f.fence)
	switch r {
	case C.VK_SUCCESS:
		return true, nil
	case C.VK_NOT_READY:
		return false, nil
	default:
		return false, checkResult(r)
	}
}

type semaphore struct {
	g   *GPU
	sem C.VkSemaphore
}

func (g *GPU) NewSemaphore() (driver.Semaphore, error) {
	info := C.VkSemaphoreCreateInfo{sType: C.VK_STRUCTURE_TYPE_SEMAPHORE_CREATE_INFO}
	var s C.VkSemaphore
	if err := checkResult(C.vkCreateSemaphore(g.dev, &info, nil, &s)); err != nil {
		return nil, err
	}
	return &semaphore{g: g, sem: s}, nil
}

func (s *semaphore) Destroy() { C.vkDestroySemaphore(s.g.dev, s.sem, nil) }

type cmdPool struct {
	g      *GPU
	pool   C.VkCommandPool
	family int
}

func (p *cmdPool) Destroy() { C.vkDestroyCommandPool(p.g.dev, p.pool, nil) }

func (p *cmdPool) Reset() error {
	return checkResult(C.vkResetCommandPool(p.g.dev, p.pool, 0))
}

func (p *cmdPool) NewCmdBuffer() (driver.CmdBuffer, error) {
	info := C.VkCommandBufferAllocateInfo{
		sType:              C.VK_STRUCTURE_TYPE_COMMAND_BUFFER_ALLOCATE_INFO,
		commandPool:        p.pool,
		level:              C.VK_COMMAND_BUFFER_LEVEL_PRIMARY,
		commandBufferCount: 1,
	}
	var cb C.VkCommandBuffer
	if err := checkResult(C.vkAllocateCommandBuffers(p.g.dev, &info, &cb)); err != nil {
		return nil, err
	}
	return &cmdBuffer{g: p.g, pool: p, cb: cb}, nil
}

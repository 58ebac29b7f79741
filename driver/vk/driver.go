// Package vk implements the driver.Driver interface on top of the
// Vulkan API via cgo. Unlike the teacher's proc-loader preamble (a
// custom proc.h this pack does not retrieve), this backend links
// directly against the Vulkan loader (see Open Question 1 in
// DESIGN.md).
package vk

// #cgo linux LDFLAGS: -lvulkan
// #cgo windows LDFLAGS: -lvulkan-1
// #include <stdlib.h>
// #include <vulkan/vulkan.h>
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/rs/zerolog/log"

	"github.com/kestrelgfx/core/driver"
)

func init() { driver.Register(&Driver{}) }

// Driver implements driver.Driver for the Vulkan backend.
type Driver struct {
	inst  C.VkInstance
	valid bool
}

func (d *Driver) Name() string { return "vulkan" }

// Open creates a VkInstance (if not already created) and selects and
// opens the best-scoring physical device, mirroring the teacher's
// weighted device-selection loop.
func (d *Driver) Open() (driver.GPU, error) {
	if err := d.initInstance(); err != nil {
		return nil, err
	}
	phys, qfam, err := d.pickPhysicalDevice()
	if err != nil {
		return nil, err
	}
	dev, queues, err := d.initDevice(phys, qfam)
	if err != nil {
		return nil, err
	}
	gpu := &GPU{
		drv:    d,
		phys:   phys,
		dev:    dev,
		queues: queues,
		descMgr: newDescMgr(dev),
	}
	gpu.limits = gpu.readLimits(phys)
	log.Info().Str("driver", "vulkan").Msg("opened GPU")
	return gpu, nil
}

func (d *Driver) Close() {
	if d.valid {
		C.vkDestroyInstance(d.inst, nil)
		d.valid = false
	}
}

func (d *Driver) initInstance() error {
	if d.valid {
		return nil
	}
	appName := C.CString("kestrelgfx")
	defer C.free(unsafe.Pointer(appName))
	engName := C.CString("kestrelgfx-core")
	defer C.free(unsafe.Pointer(engName))

	appInfo := C.VkApplicationInfo{
		sType:            C.VK_STRUCTURE_TYPE_APPLICATION_INFO,
		pApplicationName: appName,
		pEngineName:      engName,
		apiVersion:       C.VK_API_VERSION_1_3,
	}

	exts := requiredInstanceExtensions()
	cexts := make([]*C.char, len(exts))
	for i, e := range exts {
		cexts[i] = C.CString(e)
		defer C.free(unsafe.Pointer(cexts[i]))
	}
	var pexts **C.char
	if len(cexts) > 0 {
		pexts = &cexts[0]
	}

	info := C.VkInstanceCreateInfo{
		sType:                   C.VK_STRUCTURE_TYPE_INSTANCE_CREATE_INFO,
		pApplicationInfo:        &appInfo,
		enabledExtensionCount:   C.uint32_t(len(cexts)),
		ppEnabledExtensionNames: pexts,
	}
	if err := checkResult(C.vkCreateInstance(&info, nil, &d.inst)); err != nil {
		return fmt.Errorf("vk: CreateInstance failed: %w", err)
	}
	d.valid = true
	return nil
}

// deviceCandidate is a physical device plus the queue family chosen
// for it, scored by the same discrete-GPU-preferred weighting the
// teacher's initDevice loop uses.
type deviceCandidate struct {
	dev    C.VkPhysicalDevice
	qfam   int
	weight int
}

func (d *Driver) pickPhysicalDevice() (C.VkPhysicalDevice, int, error) {
	var n C.uint32_t
	C.vkEnumeratePhysicalDevices(d.inst, &n, nil)
	if n == 0 {
		return nil, 0, driver.ErrNoDevice
	}
	devs := make([]C.VkPhysicalDevice, n)
	C.vkEnumeratePhysicalDevices(d.inst, &n, &devs[0])

	var best *deviceCandidate
	for _, dv := range devs {
		fam, ok := graphicsQueueFamily(dv)
		if !ok {
			continue
		}
		var props C.VkPhysicalDeviceProperties
		C.vkGetPhysicalDeviceProperties(dv, &props)
		weight := 0
		switch props.deviceType {
		case C.VK_PHYSICAL_DEVICE_TYPE_DISCRETE_GPU:
			weight = 100
		case C.VK_PHYSICAL_DEVICE_TYPE_INTEGRATED_GPU:
			weight = 50
		default:
			weight = 10
		}
		if best == nil || weight > best.weight {
			best = &deviceCandidate{dev: dv, qfam: fam, weight: weight}
		}
	}
	if best == nil {
		return nil, 0, driver.ErrNoDevice
	}
	return best.dev, best.qfam, nil
}

func graphicsQueueFamily(dv C.VkPhysicalDevice) (int, bool) {
	var n C.uint32_t
	C.vkGetPhysicalDeviceQueueFamilyProperties(dv, &n, nil)
	if n == 0 {
		return 0, false
	}
	props := make([]C.VkQueueFamilyProperties, n)
	C.vkGetPhysicalDeviceQueueFamilyProperties(dv, &n, &props[0])
	for i, p := range props {
		if p.queueFlags&C.VK_QUEUE_GRAPHICS_BIT != 0 {
			return i, true
		}
	}
	return 0, false
}

// initDevice creates the logical device, enabling the dynamic
// rendering and synchronization2 features that let RenderPass and
// Framebuffer stay logical descriptors rather than real Vulkan
// objects (see DESIGN.md Open Question 2).
func (d *Driver) initDevice(phys C.VkPhysicalDevice, qfam int) (C.VkDevice, map[int]C.VkQueue, error) {
	prio := C.float(1.0)
	qinfo := C.VkDeviceQueueCreateInfo{
		sType:            C.VK_STRUCTURE_TYPE_DEVICE_QUEUE_CREATE_INFO,
		queueFamilyIndex: C.uint32_t(qfam),
		queueCount:       1,
		pQueuePriorities: &prio,
	}

	sync2 := C.VkPhysicalDeviceSynchronization2Features{
		sType:            C.VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_SYNCHRONIZATION_2_FEATURES,
		synchronization2: C.VK_TRUE,
	}
	dynRender := C.VkPhysicalDeviceDynamicRenderingFeatures{
		sType:            C.VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_DYNAMIC_RENDERING_FEATURES,
		pNext:            unsafe.Pointer(&sync2),
		dynamicRendering: C.VK_TRUE,
	}

	exts := []string{"VK_KHR_swapchain", "VK_KHR_dynamic_rendering", "VK_KHR_synchronization2"}
	cexts := make([]*C.char, len(exts))
	for i, e := range exts {
		cexts[i] = C.CString(e)
		defer C.free(unsafe.Pointer(cexts[i]))
	}

	info := C.VkDeviceCreateInfo{
		sType:                   C.VK_STRUCTURE_TYPE_DEVICE_CREATE_INFO,
		pNext:                   unsafe.Pointer(&dynRender),
		queueCreateInfoCount:    1,
		pQueueCreateInfos:       &qinfo,
		enabledExtensionCount:   C.uint32_t(len(cexts)),
		ppEnabledExtensionNames: &cexts[0],
	}

	var dev C.VkDevice
	if err := checkResult(C.vkCreateDevice(phys, &info, nil, &dev)); err != nil {
		return nil, nil, fmt.Errorf("vk: CreateDevice failed: %w", err)
	}
	var q C.VkQueue
	C.vkGetDeviceQueue(dev, C.uint32_t(qfam), 0, &q)
	return dev, map[int]C.VkQueue{qfam: q}, nil
}

var errUnsupportedPlatform = errors.New("vk: no surface extension for this platform")

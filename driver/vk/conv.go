package vk

// #include <vulkan/vulkan.h>
import "C"

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/kestrelgfx/core/driver"
)

// checkResult converts a VkResult into a Go error, mapping the
// subset of result codes the driver package defines sentinels for.
func checkResult(r C.VkResult) error {
	switch r {
	case C.VK_SUCCESS, C.VK_SUBOPTIMAL_KHR:
		return nil
	case C.VK_ERROR_OUT_OF_HOST_MEMORY:
		return driver.ErrNoHostMemory
	case C.VK_ERROR_OUT_OF_DEVICE_MEMORY:
		return driver.ErrNoDeviceMemory
	case C.VK_ERROR_DEVICE_LOST:
		return driver.ErrDeviceLost
	case C.VK_ERROR_SURFACE_LOST_KHR:
		return driver.ErrSurfaceLost
	case C.VK_ERROR_OUT_OF_DATE_KHR:
		return driver.ErrOutOfDate
	case C.VK_ERROR_EXTENSION_NOT_PRESENT, C.VK_ERROR_FEATURE_NOT_PRESENT:
		return driver.ErrNotSupported
	default:
		return fmt.Errorf("vk: VkResult(%d)", int(r))
	}
}

// requiredInstanceExtensions returns the surface extensions needed on
// the current platform, mirroring the teacher's ext_linux.go /
// ext_windows.go platform split.
func requiredInstanceExtensions() []string {
	base := []string{"VK_KHR_surface", "VK_KHR_get_physical_device_properties2"}
	switch runtime.GOOS {
	case "windows":
		return append(base, "VK_KHR_win32_surface")
	case "linux":
		return append(base, "VK_KHR_xcb_surface", "VK_KHR_wayland_surface")
	default:
		return base
	}
}

func convStage(s driver.Stage) C.VkShaderStageFlags {
	var f C.VkShaderStageFlags
	if s&driver.StageVertex != 0 {
		f |= C.VK_SHADER_STAGE_VERTEX_BIT
	}
	if s&driver.StageFragment != 0 {
		f |= C.VK_SHADER_STAGE_FRAGMENT_BIT
	}
	if s&driver.StageCompute != 0 {
		f |= C.VK_SHADER_STAGE_COMPUTE_BIT
	}
	return f
}

func convDescType(t driver.DescType) C.VkDescriptorType {
	switch t {
	case driver.DescSampler:
		return C.VK_DESCRIPTOR_TYPE_SAMPLER
	case driver.DescSampledImage:
		return C.VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE
	case driver.DescCombinedImageSampler:
		return C.VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER
	case driver.DescStorageImage:
		return C.VK_DESCRIPTOR_TYPE_STORAGE_IMAGE
	case driver.DescUniformBuffer:
		return C.VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER
	case driver.DescStorageBuffer:
		return C.VK_DESCRIPTOR_TYPE_STORAGE_BUFFER
	case driver.DescUniformTexelBuffer:
		return C.VK_DESCRIPTOR_TYPE_UNIFORM_TEXEL_BUFFER
	case driver.DescStorageTexelBuffer:
		return C.VK_DESCRIPTOR_TYPE_STORAGE_TEXEL_BUFFER
	case driver.DescInputAttachment:
		return C.VK_DESCRIPTOR_TYPE_INPUT_ATTACHMENT
	default:
		panic(errors.New("vk: unknown DescType"))
	}
}

func convFormat(f driver.Format) C.VkFormat {
	switch f {
	case driver.RGBA8Unorm:
		return C.VK_FORMAT_R8G8B8A8_UNORM
	case driver.RGBA8Norm:
		return C.VK_FORMAT_R8G8B8A8_SNORM
	case driver.RGBA8SRGB:
		return C.VK_FORMAT_R8G8B8A8_SRGB
	case driver.BGRA8Unorm:
		return C.VK_FORMAT_B8G8R8A8_UNORM
	case driver.BGRA8SRGB:
		return C.VK_FORMAT_B8G8R8A8_SRGB
	case driver.RG8Unorm:
		return C.VK_FORMAT_R8G8_UNORM
	case driver.RG8Norm:
		return C.VK_FORMAT_R8G8_SNORM
	case driver.R8Unorm:
		return C.VK_FORMAT_R8_UNORM
	case driver.R8Norm:
		return C.VK_FORMAT_R8_SNORM
	case driver.R8UInt:
		return C.VK_FORMAT_R8_UINT
	case driver.R8SInt:
		return C.VK_FORMAT_R8_SINT
	case driver.R32SInt:
		return C.VK_FORMAT_R32_SINT
	case driver.R32UInt:
		return C.VK_FORMAT_R32_UINT
	case driver.RG16Float:
		return C.VK_FORMAT_R16G16_SFLOAT
	case driver.R16Float:
		return C.VK_FORMAT_R16_SFLOAT
	case driver.RGBA16Float:
		return C.VK_FORMAT_R16G16B16A16_SFLOAT
	case driver.RG32Float:
		return C.VK_FORMAT_R32G32_SFLOAT
	case driver.R32Float:
		return C.VK_FORMAT_R32_SFLOAT
	case driver.RGBA32Float:
		return C.VK_FORMAT_R32G32B32A32_SFLOAT
	case driver.B10G11R11UFloat:
		return C.VK_FORMAT_B10G11R11_UFLOAT_PACK32
	case driver.BC1Unorm:
		return C.VK_FORMAT_BC1_RGBA_UNORM_BLOCK
	case driver.BC1SRGB:
		return C.VK_FORMAT_BC1_RGBA_SRGB_BLOCK
	case driver.BC3Unorm:
		return C.VK_FORMAT_BC3_UNORM_BLOCK
	case driver.BC3SRGB:
		return C.VK_FORMAT_BC3_SRGB_BLOCK
	case driver.BC4Unorm:
		return C.VK_FORMAT_BC4_UNORM_BLOCK
	case driver.BC5Unorm:
		return C.VK_FORMAT_BC5_UNORM_BLOCK
	case driver.BC7Unorm:
		return C.VK_FORMAT_BC7_UNORM_BLOCK
	case driver.BC7SRGB:
		return C.VK_FORMAT_BC7_SRGB_BLOCK
	case driver.D16Unorm:
		return C.VK_FORMAT_D16_UNORM
	case driver.X8D24Unorm:
		return C.VK_FORMAT_X8_D24_UNORM_PACK32
	case driver.D32Float:
		return C.VK_FORMAT_D32_SFLOAT
	case driver.D24UnormS8UInt:
		return C.VK_FORMAT_D24_UNORM_S8_UINT
	case driver.D32FloatS8UInt:
		return C.VK_FORMAT_D32_SFLOAT_S8_UINT
	case driver.D16UnormS8UInt:
		return C.VK_FORMAT_D16_UNORM_S8_UINT
	default:
		panic(errors.New("vk: unknown Format"))
	}
}

func convLayout(l driver.Layout) C.VkImageLayout {
	switch l {
	case driver.LayoutUndefined:
		return C.VK_IMAGE_LAYOUT_UNDEFINED
	case driver.LayoutCommon:
		return C.VK_IMAGE_LAYOUT_GENERAL
	case driver.LayoutColorTarget:
		return C.VK_IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL
	case driver.LayoutDSTarget:
		return C.VK_IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL
	case driver.LayoutDSReadOnly:
		return C.VK_IMAGE_LAYOUT_DEPTH_STENCIL_READ_ONLY_OPTIMAL
	case driver.LayoutCopySrc:
		return C.VK_IMAGE_LAYOUT_TRANSFER_SRC_OPTIMAL
	case driver.LayoutCopyDst:
		return C.VK_IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL
	case driver.LayoutShaderReadOnly:
		return C.VK_IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL
	case driver.LayoutPresent:
		return C.VK_IMAGE_LAYOUT_PRESENT_SRC_KHR
	default:
		panic(errors.New("vk: unknown Layout"))
	}
}

func convSync(s driver.Sync) C.VkPipelineStageFlags2 {
	var f C.VkPipelineStageFlags2
	if s&driver.SyncVertexInput != 0 {
		f |= C.VK_PIPELINE_STAGE_2_VERTEX_INPUT_BIT
	}
	if s&driver.SyncVertexShading != 0 {
		f |= C.VK_PIPELINE_STAGE_2_VERTEX_SHADER_BIT
	}
	if s&driver.SyncFragmentShading != 0 {
		f |= C.VK_PIPELINE_STAGE_2_FRAGMENT_SHADER_BIT
	}
	if s&driver.SyncComputeShading != 0 {
		f |= C.VK_PIPELINE_STAGE_2_COMPUTE_SHADER_BIT
	}
	if s&driver.SyncColorOutput != 0 {
		f |= C.VK_PIPELINE_STAGE_2_COLOR_ATTACHMENT_OUTPUT_BIT
	}
	if s&driver.SyncDSOutput != 0 {
		f |= C.VK_PIPELINE_STAGE_2_EARLY_FRAGMENT_TESTS_BIT | C.VK_PIPELINE_STAGE_2_LATE_FRAGMENT_TESTS_BIT
	}
	if s&driver.SyncResolve != 0 {
		f |= C.VK_PIPELINE_STAGE_2_RESOLVE_BIT
	}
	if s&driver.SyncCopy != 0 {
		f |= C.VK_PIPELINE_STAGE_2_COPY_BIT
	}
	if s&driver.SyncAll != 0 {
		f |= C.VK_PIPELINE_STAGE_2_ALL_COMMANDS_BIT
	}
	return f
}

func convAccess(a driver.Access) C.VkAccessFlags2 {
	var f C.VkAccessFlags2
	if a&driver.AccessVertexBufRead != 0 {
		f |= C.VK_ACCESS_2_VERTEX_ATTRIBUTE_READ_BIT
	}
	if a&driver.AccessIndexBufRead != 0 {
		f |= C.VK_ACCESS_2_INDEX_READ_BIT
	}
	if a&driver.AccessColorRead != 0 {
		f |= C.VK_ACCESS_2_COLOR_ATTACHMENT_READ_BIT
	}
	if a&driver.AccessColorWrite != 0 {
		f |= C.VK_ACCESS_2_COLOR_ATTACHMENT_WRITE_BIT
	}
	if a&driver.AccessDSRead != 0 {
		f |= C.VK_ACCESS_2_DEPTH_STENCIL_ATTACHMENT_READ_BIT
	}
	if a&driver.AccessDSWrite != 0 {
		f |= C.VK_ACCESS_2_DEPTH_STENCIL_ATTACHMENT_WRITE_BIT
	}
	if a&driver.AccessCopyRead != 0 {
		f |= C.VK_ACCESS_2_TRANSFER_READ_BIT
	}
	if a&driver.AccessCopyWrite != 0 {
		f |= C.VK_ACCESS_2_TRANSFER_WRITE_BIT
	}
	if a&driver.AccessShaderRead != 0 {
		f |= C.VK_ACCESS_2_SHADER_READ_BIT
	}
	if a&driver.AccessShaderWrite != 0 {
		f |= C.VK_ACCESS_2_SHADER_WRITE_BIT
	}
	if a&driver.AccessAnyRead != 0 {
		f |= C.VK_ACCESS_2_MEMORY_READ_BIT
	}
	if a&driver.AccessAnyWrite != 0 {
		f |= C.VK_ACCESS_2_MEMORY_WRITE_BIT
	}
	return f
}

func convFilter(f driver.Filter) C.VkFilter {
	if f == driver.FilterNearest {
		return C.VK_FILTER_NEAREST
	}
	return C.VK_FILTER_LINEAR
}

func convAddrMode(a driver.AddrMode) C.VkSamplerAddressMode {
	switch a {
	case driver.AddrWrap:
		return C.VK_SAMPLER_ADDRESS_MODE_REPEAT
	case driver.AddrMirror:
		return C.VK_SAMPLER_ADDRESS_MODE_MIRRORED_REPEAT
	case driver.AddrClampToEdge:
		return C.VK_SAMPLER_ADDRESS_MODE_CLAMP_TO_EDGE
	case driver.AddrClampToBorder:
		return C.VK_SAMPLER_ADDRESS_MODE_CLAMP_TO_BORDER
	default:
		panic(errors.New("vk: unknown AddrMode"))
	}
}

func convCmpFunc(c driver.CmpFunc) C.VkCompareOp {
	switch c {
	case driver.CmpNever:
		return C.VK_COMPARE_OP_NEVER
	case driver.CmpLess:
		return C.VK_COMPARE_OP_LESS
	case driver.CmpEqual:
		return C.VK_COMPARE_OP_EQUAL
	case driver.CmpLessEqual:
		return C.VK_COMPARE_OP_LESS_OR_EQUAL
	case driver.CmpGreater:
		return C.VK_COMPARE_OP_GREATER
	case driver.CmpNotEqual:
		return C.VK_COMPARE_OP_NOT_EQUAL
	case driver.CmpGreaterEqual:
		return C.VK_COMPARE_OP_GREATER_OR_EQUAL
	case driver.CmpAlways:
		return C.VK_COMPARE_OP_ALWAYS
	default:
		panic(errors.New("vk: unknown CmpFunc"))
	}
}

package vk

// #include <vulkan/vulkan.h>
import "C"

import "github.com/kestrelgfx/core/driver"

// renderPass and framebuffer are purely descriptive: this backend
// targets dynamic rendering (VK_KHR_dynamic_rendering), so there is no
// real VkRenderPass/VkFramebuffer object to create — BeginPass (see
// cmd.go) builds a VkRenderingInfo directly from these fields plus the
// concrete views supplied at that call. See DESIGN.md Open Question 2.
type renderPass struct {
	g   *GPU
	att []driver.Attachment
	sub []driver.Subpass
	dep []driver.SubpassDep
}

func (g *GPU) NewRenderPass(att []driver.Attachment, sub []driver.Subpass, dep []driver.SubpassDep) (driver.RenderPass, error) {
	if len(sub) == 0 {
		return nil, driver.ErrInvalidArg
	}
	return &renderPass{g: g, att: att, sub: sub, dep: dep}, nil
}

func (p *renderPass) Destroy() {}

type framebuffer struct {
	slots         []driver.AttachmentUsage
	width, height int
	layers        int
}

func (p *renderPass) NewFramebuffer(slots []driver.AttachmentUsage, width, height, layers int) (driver.Framebuffer, error) {
	if len(slots) != len(p.att) {
		return nil, driver.ErrInvalidArg
	}
	for i, s := range slots {
		if s.Format != p.att[i].Format {
			return nil, driver.ErrInvalidArg
		}
	}
	return &framebuffer{slots: slots, width: width, height: height, layers: layers}, nil
}

func (f *framebuffer) Destroy() {}

package vk

// #include <vulkan/vulkan.h>
import "C"

import (
	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/wsi"
)

type surface struct {
	g  *GPU
	sf C.VkSurfaceKHR
}

func (s *surface) Destroy() { C.vkDestroySurfaceKHR(s.instOf(), s.sf, nil) }
func (s *surface) instOf() C.VkInstance { return s.g.drv.inst }

// NewSurface returns a nil-backed surface (no native VkSurfaceKHR) for
// any win; no platform surface is created. NewSwapChain treats such a
// surface as an offscreen target, so the renderer runs without a
// display server.
func (g *GPU) NewSurface(win wsi.Window) (driver.Surface, error) {
	return &surface{g: g}, nil
}

type swapChain struct {
	g       *GPU
	sf      *surface
	sc      C.VkSwapchainKHR
	pass    *renderPass
	fbs     []driver.Framebuffer
	views   []driver.TextureView
	format  driver.Format
	w, h    int
	offscreen bool
}

// NewSwapChain allocates a ring of imageCount plain BGRA8Unorm color
// textures that stand in for swapchain images. No VkSwapchainKHR is
// created, surface capabilities are not queried, and mode is ignored;
// AcquireNext always returns image 0 without signaling sem, and
// Present does nothing.
func (g *GPU) NewSwapChain(surf driver.Surface, width, height, imageCount int, mode driver.PresentMode) (driver.SwapChain, error) {
	sf := surf.(*surface)
	format := driver.BGRA8Unorm
	att := []driver.Attachment{{Format: format, Samples: 1, Load: [2]int{int(driver.LoadClear), int(driver.StoreDontCare)}, Store: [2]int{int(driver.StoreStore), int(driver.StoreDontCare)}}}
	pass, err := g.NewRenderPass(att, []driver.Subpass{{Color: []driver.AttachmentRef{{Index: 0, Layout: driver.LayoutColorTarget}}}}, nil)
	if err != nil {
		return nil, err
	}

	sc := &swapChain{g: g, sf: sf, pass: pass.(*renderPass), format: format, w: width, h: height, offscreen: sf.sf == nil}
	if err := sc.allocateImages(imageCount); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *swapChain) allocateImages(n int) error {
	for i := 0; i < n; i++ {
		tex, err := s.g.NewTexture(&driver.TextureParam{
			Format: s.format, Dim: driver.Dim2D, Type: driver.TexPlain,
			Extent: driver.Extent3D{Width: s.w, Height: s.h, Depth: 1},
			Layers: 1, Levels: 1, Samples: 1,
			Usage: driver.UsageColorTarget | driver.UsageTransferSrc,
		})
		if err != nil {
			return err
		}
		view, err := tex.NewView(driver.View2D, 0, 1, 0, 1)
		if err != nil {
			return err
		}
		fb, err := s.pass.NewFramebuffer([]driver.AttachmentUsage{{Format: s.format, Usage: driver.UsageColorTarget}}, s.w, s.h, 1)
		if err != nil {
			return err
		}
		s.views = append(s.views, view)
		s.fbs = append(s.fbs, fb)
	}
	return nil
}

func (s *swapChain) Destroy() {
	for _, v := range s.views {
		v.Destroy()
	}
	for _, f := range s.fbs {
		f.Destroy()
	}
	s.pass.Destroy()
}

func (s *swapChain) AcquireNext(sem driver.Semaphore) (int, error) { return 0, nil }
func (s *swapChain) Present(index int, wait driver.Semaphore) error { return nil }

func (s *swapChain) Recreate(width, height int) error {
	for _, v := range s.views {
		v.Destroy()
	}
	for _, f := range s.fbs {
		f.Destroy()
	}
	n := len(s.fbs)
	s.views, s.fbs = nil, nil
	s.w, s.h = width, height
	return s.allocateImages(n)
}

func (s *swapChain) Format() driver.Format            { return s.format }
func (s *swapChain) Extent() (int, int)                { return s.w, s.h }
func (s *swapChain) ImageCount() int                   { return len(s.fbs) }
func (s *swapChain) RenderPass() driver.RenderPass     { return s.pass }
func (s *swapChain) Framebuffer(i int) driver.Framebuffer { return s.fbs[i] }
func (s *swapChain) View(i int) driver.TextureView     { return s.views[i] }

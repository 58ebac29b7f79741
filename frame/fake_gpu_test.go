package frame

import "github.com/kestrelgfx/core/driver"

// fakeGPU is a minimal in-memory driver.GPU used to exercise the
// orchestrator and per-frame wrapper logic without a real backend,
// matching the teacher's own driver/*_test.go convention of testing
// against a software stand-in rather than a live GPU.
type fakeGPU struct {
	submits int
}

func (g *fakeGPU) Driver() driver.Driver                               { return nil }
func (g *fakeGPU) QueueID(driver.QueueCaps, driver.Surface) (int, bool) { return 0, true }
func (g *fakeGPU) NewCmdPool(int) (driver.CmdPool, error)               { return &fakePool{}, nil }
func (g *fakeGPU) NewRenderPass([]driver.Attachment, []driver.Subpass, []driver.SubpassDep) (driver.RenderPass, error) {
	return nil, nil
}
func (g *fakeGPU) NewShader(driver.ShaderBinary, *driver.Reflection) (driver.Shader, error) {
	return nil, nil
}
func (g *fakeGPU) NewDescriptorSet(layout []driver.Descriptor) (driver.DescriptorSet, error) {
	return &fakeDescSet{}, nil
}
func (g *fakeGPU) NewPipeline(any) (driver.Pipeline, error) { return nil, nil }
func (g *fakeGPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	return &fakeBuffer{data: make([]byte, size), visible: visible}, nil
}
func (g *fakeGPU) NewTexture(*driver.TextureParam) (driver.Texture, error) { return nil, nil }
func (g *fakeGPU) NewSampler(*driver.Sampling) (driver.Sampler, error)     { return nil, nil }
func (g *fakeGPU) NewFence(signaled bool) (driver.Fence, error)           { return &fakeFence{signaled: signaled}, nil }
func (g *fakeGPU) NewSemaphore() (driver.Semaphore, error)                { return &fakeDestroyer{}, nil }
func (g *fakeGPU) Submit(cb []driver.CmdBuffer, wait []driver.SemaphoreWait, signal []driver.Semaphore, fence driver.Fence) error {
	g.submits++
	if fence != nil {
		fence.(*fakeFence).signaled = true
	}
	return nil
}
func (g *fakeGPU) WaitIdle() error      { return nil }
func (g *fakeGPU) Limits() driver.Limits { return driver.Limits{} }

type fakePool struct{ reset int }

func (p *fakePool) Destroy()                             {}
func (p *fakePool) Reset() error                         { p.reset++; return nil }
func (p *fakePool) NewCmdBuffer() (driver.CmdBuffer, error) { return &fakeCmdBuffer{}, nil }

type fakeCmdBuffer struct{ began, ended bool }

func (c *fakeCmdBuffer) Destroy()        {}
func (c *fakeCmdBuffer) Begin() error    { c.began = true; return nil }
func (c *fakeCmdBuffer) End() error      { c.ended = true; return nil }
func (c *fakeCmdBuffer) BeginPass(driver.RenderPass, driver.Framebuffer, []driver.TextureView, []driver.ClearValue) {
}
func (c *fakeCmdBuffer) NextSubpass()                                     {}
func (c *fakeCmdBuffer) EndPass()                                         {}
func (c *fakeCmdBuffer) BeginCompute()                                    {}
func (c *fakeCmdBuffer) EndCompute()                                      {}
func (c *fakeCmdBuffer) BeginBlit()                                       {}
func (c *fakeCmdBuffer) EndBlit()                                         {}
func (c *fakeCmdBuffer) SetPipeline(driver.Pipeline)                      {}
func (c *fakeCmdBuffer) SetViewport([]driver.Viewport)                    {}
func (c *fakeCmdBuffer) SetScissor([]driver.Scissor)                      {}
func (c *fakeCmdBuffer) SetBlendColor(float32, float32, float32, float32) {}
func (c *fakeCmdBuffer) SetStencilRef(uint32)                             {}
func (c *fakeCmdBuffer) SetVertexBuffers(int, []driver.Buffer, []int64)   {}
func (c *fakeCmdBuffer) SetIndexBuffer(driver.IndexFormat, driver.Buffer, int64) {
}
func (c *fakeCmdBuffer) SetDescriptorSet(int, driver.DescriptorSet)  {}
func (c *fakeCmdBuffer) PushConstants(driver.Stage, int, []byte)     {}
func (c *fakeCmdBuffer) Draw(int, int, int, int)                     {}
func (c *fakeCmdBuffer) DrawIndexed(int, int, int, int, int)         {}
func (c *fakeCmdBuffer) Dispatch(int, int, int)                      {}
func (c *fakeCmdBuffer) CopyBuffer(*driver.BufferCopy)               {}
func (c *fakeCmdBuffer) CopyTexture(*driver.TextureCopy)             {}
func (c *fakeCmdBuffer) CopyBufferToTexture(*driver.BufTexCopy)      {}
func (c *fakeCmdBuffer) CopyTextureToBuffer(*driver.BufTexCopy)      {}
func (c *fakeCmdBuffer) BlitTexture(*driver.TextureBlit, driver.Filter) {}
func (c *fakeCmdBuffer) Fill(driver.Buffer, int64, byte, int64)      {}
func (c *fakeCmdBuffer) Barrier([]driver.Barrier)                    {}
func (c *fakeCmdBuffer) Transition([]driver.Transition)              {}

type fakeFence struct {
	signaled bool
	destroyed bool
}

func (f *fakeFence) Destroy()                  { f.destroyed = true }
func (f *fakeFence) Wait(int64) error           { return nil }
func (f *fakeFence) Reset() error               { f.signaled = false; return nil }
func (f *fakeFence) Signaled() (bool, error)    { return f.signaled, nil }

type fakeDestroyer struct{ destroyed bool }

func (d *fakeDestroyer) Destroy() { d.destroyed = true }

type fakeBuffer struct {
	data    []byte
	visible bool
}

func (b *fakeBuffer) Destroy()       {}
func (b *fakeBuffer) Visible() bool  { return b.visible }
func (b *fakeBuffer) Bytes() []byte  { if !b.visible { return nil }; return b.data }
func (b *fakeBuffer) Size() int64    { return int64(len(b.data)) }

type fakeDescSet struct{ destroyed bool }

func (d *fakeDescSet) Destroy()                                                      { d.destroyed = true }
func (d *fakeDescSet) SetBuffers(binding, start int, buf []driver.Buffer, off, size []int64) {}
func (d *fakeDescSet) SetTextures(binding, start int, tv []driver.TextureView)        {}
func (d *fakeDescSet) SetSamplers(binding, start int, s []driver.Sampler)             {}

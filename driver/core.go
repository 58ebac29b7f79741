package driver

// GPU is the main interface to an underlying backend. It creates
// other resource types and executes recorded command buffers. A GPU
// is obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// QueueID returns the lowest-index queue family whose
	// capabilities are a superset of caps and, if surf is non-nil,
	// that also supports presentation to surf. It returns
	// (-1, false) if no such family exists.
	QueueID(caps QueueCaps, surf Surface) (family int, ok bool)

	// NewCmdPool creates a new command pool bound to the given queue
	// family.
	NewCmdPool(family int) (CmdPool, error)

	// NewRenderPass creates a new render pass.
	NewRenderPass(att []Attachment, sub []Subpass, dep []SubpassDep) (RenderPass, error)

	// NewShader creates a new shader from a pre-compiled binary plus
	// its reflection data.
	NewShader(bin ShaderBinary, refl *Reflection) (Shader, error)

	// NewDescriptorSet allocates a descriptor set matching layout
	// from the backend's pooled storage (see driver/vk for the
	// pool-bucketing policy).
	NewDescriptorSet(layout []Descriptor) (DescriptorSet, error)

	// NewPipeline creates a graphics or compute pipeline. state must
	// be a pointer to a GraphicsState or a ComputeState.
	NewPipeline(state any) (Pipeline, error)

	// NewBuffer creates a new buffer. visible selects host-visible,
	// persistently-mapped memory.
	NewBuffer(size int64, visible bool, usg Usage) (Buffer, error)

	// NewTexture creates a new texture.
	NewTexture(param *TextureParam) (Texture, error)

	// NewSampler creates a new sampler.
	NewSampler(s *Sampling) (Sampler, error)

	// NewFence creates a new fence, optionally pre-signaled.
	NewFence(signaled bool) (Fence, error)

	// NewSemaphore creates a new binary semaphore.
	NewSemaphore() (Semaphore, error)

	// Submit submits a batch of command buffers for execution. wait
	// is signaled before work begins (may be nil); signal is set once
	// all commands complete (may be nil); fence, if non-nil, is
	// signaled on completion.
	Submit(cb []CmdBuffer, wait []SemaphoreWait, signal []Semaphore, fence Fence) error

	// WaitIdle blocks until all submitted work on the GPU completes.
	WaitIdle() error

	// Limits returns implementation limits. Immutable for the
	// lifetime of the GPU.
	Limits() Limits
}

// QueueCaps is a mask of queue family capabilities.
type QueueCaps int

const (
	QGraphics QueueCaps = 1 << iota
	QCompute
	QTransfer
)

// SemaphoreWait pairs a semaphore with the pipeline stage that must
// wait on it.
type SemaphoreWait struct {
	Sem   Semaphore
	Stage Sync
}

// Destroyer is implemented by every type that owns backend memory not
// managed by the Go garbage collector; Destroy must be called
// explicitly to release it.
type Destroyer interface{ Destroy() }

// Fence is a CPU-observable GPU/CPU synchronization primitive.
type Fence interface {
	Destroyer
	// Wait blocks until the fence is signaled or the timeout (in
	// nanoseconds; <0 means wait forever) elapses.
	Wait(timeoutNS int64) error
	// Reset un-signals the fence.
	Reset() error
	// Signaled reports whether the fence is currently signaled,
	// without blocking.
	Signaled() (bool, error)
}

// Semaphore is a GPU/GPU synchronization primitive used to order
// submissions without CPU involvement.
type Semaphore interface{ Destroyer }

// CmdPool allocates CmdBuffers bound to a specific queue family.
// Resetting a pool resets every command buffer allocated from it.
type CmdPool interface {
	Destroyer
	NewCmdBuffer() (CmdBuffer, error)
	Reset() error
}

// CmdBuffer records GPU commands for later submission. Usage:
//
//	Begin()
//	BeginPass(pass, fb, views, clear); Set*; Draw*; [NextSubpass; ...]; EndPass()
//	  -- or --
//	BeginCompute(); Set*; Dispatch; EndCompute()
//	  -- or --
//	BeginBlit(); Copy*/Fill; EndBlit()
//	End()
//
// Recording operations are pure encoders: they append to the command
// buffer's queue-family-bound state and never allocate backend memory.
type CmdBuffer interface {
	Destroyer

	Begin() error
	End() error

	// BeginPass begins the first subpass of pass. fb is an imageless
	// framebuffer; views supplies the concrete image views for its
	// attachment slots, in declaration order — their count and
	// format/usage must match fb's declared per-slot info.
	BeginPass(pass RenderPass, fb Framebuffer, views []TextureView, clear []ClearValue)
	NextSubpass()
	EndPass()

	BeginCompute()
	EndCompute()

	BeginBlit()
	EndBlit()

	SetPipeline(p Pipeline)
	SetViewport(vp []Viewport)
	SetScissor(s []Scissor)
	SetBlendColor(r, g, b, a float32)
	SetStencilRef(value uint32)
	SetVertexBuffers(start int, buf []Buffer, off []int64)
	SetIndexBuffer(format IndexFormat, buf Buffer, off int64)
	SetDescriptorSet(index int, ds DescriptorSet)
	PushConstants(stages Stage, offset int, data []byte)

	Draw(vertCount, instCount, firstVert, firstInst int)
	DrawIndexed(idxCount, instCount, firstIdx, vertOff, firstInst int)
	Dispatch(groupsX, groupsY, groupsZ int)

	CopyBuffer(p *BufferCopy)
	CopyTexture(p *TextureCopy)
	CopyBufferToTexture(p *BufTexCopy)
	CopyTextureToBuffer(p *BufTexCopy)
	BlitTexture(p *TextureBlit, filter Filter)
	Fill(buf Buffer, off int64, value byte, size int64)

	// Barrier inserts a pipeline barrier. Texture barriers additionally
	// perform the layout transitions described by each Transition.
	Barrier(b []Barrier)
	Transition(t []Transition)
}

// BufferCopy describes a buffer-to-buffer copy.
type BufferCopy struct {
	Src, Dst         Buffer
	SrcOff, DstOff   int64
	Size             int64
}

// TextureCopy describes a texture-to-texture copy.
type TextureCopy struct {
	Src, Dst               Texture
	SrcOff, DstOff         Offset3D
	SrcLayer, SrcLevel     int
	DstLayer, DstLevel     int
	Size                   Extent3D
	Layers                 int
}

// TextureBlit describes a filtered, possibly resizing copy between
// two texture subresources (used by the mipmap-generation helper).
type TextureBlit struct {
	Src, Dst           Texture
	SrcLayer, SrcLevel int
	DstLayer, DstLevel int
	SrcMin, SrcMax     Offset3D
	DstMin, DstMax     Offset3D
}

// BufTexCopy describes a copy between a buffer and a texture. BufOff
// must be aligned to 512 bytes; Stride[0] must be aligned to 256
// bytes.
type BufTexCopy struct {
	Buf    Buffer
	BufOff int64
	// Stride addresses image data in the buffer, in texels:
	// Stride[0] is the row length, Stride[1] the image height.
	Stride    [2]int64
	Tex       Texture
	TexOff    Offset3D
	Layer     int
	Level     int
	Size      Extent3D
	// Aspect selects depth or stencil when Tex has a combined
	// depth/stencil format.
	Aspect Aspect
}

// Aspect is a mask of texture subresource aspects.
type Aspect int

const (
	AspectColor Aspect = 1 << iota
	AspectDepth
	AspectStencil
)

// Sync is a mask of pipeline synchronization scopes.
type Sync int

const (
	SyncVertexInput Sync = 1 << iota
	SyncVertexShading
	SyncFragmentShading
	SyncComputeShading
	SyncColorOutput
	SyncDSOutput
	SyncResolve
	SyncCopy
	SyncAll
	SyncNone Sync = 0
)

// Access is a mask of memory access scopes.
type Access int

const (
	AccessVertexBufRead Access = 1 << iota
	AccessIndexBufRead
	AccessColorRead
	AccessColorWrite
	AccessDSRead
	AccessDSWrite
	AccessCopyRead
	AccessCopyWrite
	AccessShaderRead
	AccessShaderWrite
	AccessAnyRead
	AccessAnyWrite
	AccessNone Access = 0
)

// Layout is an image layout.
type Layout int

const (
	LayoutUndefined Layout = iota
	LayoutCommon
	LayoutColorTarget
	LayoutDSTarget
	LayoutDSReadOnly
	LayoutCopySrc
	LayoutCopyDst
	LayoutShaderReadOnly
	LayoutPresent
)

// Barrier is a global synchronization barrier.
type Barrier struct {
	SyncBefore, SyncAfter     Sync
	AccessBefore, AccessAfter Access
}

// Transition is a layout transition on a specific texture
// subresource range. Queue-family ownership transfer is not
// supported (single-queue model; see spec §5).
type Transition struct {
	Barrier
	LayoutBefore, LayoutAfter Layout
	Tex                       Texture
	Range                     SubresourceRange
}

// SubresourceRange names a set of mip levels and array layers of a
// texture.
type SubresourceRange struct {
	Aspect           Aspect
	BaseLevel, Levels int
	BaseLayer, Layers int
}

// LoadOp is an attachment load operation.
type LoadOp int

const (
	LoadDontCare LoadOp = iota
	LoadClear
	LoadLoad
)

// StoreOp is an attachment store operation.
type StoreOp int

const (
	StoreDontCare StoreOp = iota
	StoreStore
)

// Attachment describes one render-pass attachment slot: its format,
// sample count, and load/store ops for the color and stencil aspects
// ([0] color/depth, [1] stencil).
type Attachment struct {
	Format        Format
	Samples       int
	Load, Store   [2]int // LoadOp / StoreOp, indexed [color][stencil]
	InitialLayout Layout
	FinalLayout   Layout
}

// AttachmentRef references one of a render pass' attachments from a
// subpass, together with the layout it must be in during that
// subpass.
type AttachmentRef struct {
	Index  int
	Layout Layout
}

// Subpass defines one phase of a render pass: its input, color,
// resolve and depth-stencil attachment references, plus attachments
// to preserve unmodified across the subpass.
type Subpass struct {
	Input    []AttachmentRef
	Color    []AttachmentRef
	Resolve  []AttachmentRef
	DS       *AttachmentRef
	Preserve []int
}

// SubpassDep declares an execution/memory dependency between two
// subpasses (or from/to outside the render pass, using
// SubpassExternal).
type SubpassDep struct {
	SrcSubpass, DstSubpass   int
	SrcStage, DstStage       Sync
	SrcAccess, DstAccess     Access
}

// SubpassExternal denotes a dependency edge to/from outside the
// render pass.
const SubpassExternal = -1

// RenderPass is a declared sequence of attachments, subpasses and
// subpass dependencies.
type RenderPass interface {
	Destroyer

	// NewFramebuffer creates an imageless framebuffer: it records
	// per-slot format/usage/extent but not concrete views. Concrete
	// views are supplied at CmdBuffer.BeginPass. All framebuffers
	// created from a render pass must be destroyed before the pass
	// itself is.
	NewFramebuffer(slots []AttachmentUsage, width, height, layers int) (Framebuffer, error)
}

// AttachmentUsage records the format/usage/extent an imageless
// framebuffer expects for one attachment slot.
type AttachmentUsage struct {
	Format Format
	Usage  Usage
}

// Framebuffer is a render-pass-compatible binding of attachment slots
// to a render area. It is imageless: concrete views are supplied at
// pass-begin time (see CmdBuffer.BeginPass).
type Framebuffer interface{ Destroyer }

// ClearValue is the clear value for one attachment. Color is used for
// normalized/float color attachments; ColorInt and ColorUint are used
// instead for attachments whose Format is a signed or unsigned integer
// format (see IsSIntFormat/IsUIntFormat), mirroring the union
// VkClearColorValue stores the three representations in.
type ClearValue struct {
	Color    [4]float32
	ColorInt  [4]int32
	ColorUint [4]uint32
	Depth   float32
	Stencil uint32
}

// ShaderBinary is an opaque, backend-specific compiled shader blob
// (e.g. SPIR-V words), produced by an external shader compiler and
// consumed as a pre-baked artifact.
type ShaderBinary []byte

// Reflection is metadata recovered from a compiled shader: for each
// descriptor set index, the bindings it declares, plus its
// push-constant ranges and per-stage entry points.
type Reflection struct {
	Sets      [][]Descriptor
	PushConst []PushConstantRange
	Entry     map[Stage]string
}

// PushConstantRange describes one push-constant range.
type PushConstantRange struct {
	Stages Stage
	Offset int
	Size   int
}

// Shader is a compiled per-stage binary plus its reflection. Shader
// objects own their pipeline layout.
type Shader interface{ Destroyer }

// Stage is a mask of programmable shader stages.
type Stage int

const (
	StageVertex Stage = 1 << iota
	StageFragment
	StageCompute
)

// DescType is the declared type of a descriptor binding.
type DescType int

const (
	DescSampler DescType = iota
	DescSampledImage
	DescCombinedImageSampler
	DescStorageImage
	DescUniformBuffer
	DescStorageBuffer
	DescUniformTexelBuffer
	DescStorageTexelBuffer
	DescInputAttachment
)

// Descriptor describes one binding slot of a descriptor set: its
// declared type, shader visibility, binding number and array size.
type Descriptor struct {
	Type   DescType
	Stages Stage
	Binding int
	Count   int
}

// DescriptorSet is a bound-resource record derived from a shader's
// reflection for one of its set indices. A binding written here must
// match the shader's reflected type for that slot (invariant 1).
type DescriptorSet interface {
	Destroyer

	SetBuffers(binding, start int, buf []Buffer, off, size []int64)
	SetTextures(binding, start int, tv []TextureView)
	SetSamplers(binding, start int, s []Sampler)
}

// VertexFormat is the wire format of one vertex attribute.
type VertexFormat int

const (
	VFloat32 VertexFormat = iota
	VFloat32x2
	VFloat32x3
	VFloat32x4
	VUint32
	VUint32x2
	VUint32x3
	VUint32x4
)

// InputRate selects whether a vertex binding advances per vertex or
// per instance.
type InputRate int

const (
	RatePerVertex InputRate = iota
	RatePerInstance
)

// VertexBinding describes one vertex buffer binding.
type VertexBinding struct {
	Stride int
	Rate   InputRate
}

// VertexAttr describes one vertex attribute, sourced from a
// VertexBinding by index.
type VertexAttr struct {
	Binding int
	Format  VertexFormat
	Offset  int
	Nr      int // shader location
}

// Topology selects how vertex data assembles into primitives.
type Topology int

const (
	TopologyPointList Topology = iota
	TopologyLineList
	TopologyLineStrip
	TopologyTriangleList
	TopologyTriangleStrip
)

// IndexFormat is the width of index buffer elements.
type IndexFormat int

const (
	Index16 IndexFormat = 2
	Index32 IndexFormat = 4
)

// Viewport defines the bounds and depth range of one viewport.
type Viewport struct{ X, Y, Width, Height, MinDepth, MaxDepth float32 }

// Scissor defines one scissor rectangle.
type Scissor struct{ X, Y, Width, Height int }

// CullMode selects primitive culling by facing direction.
type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// FillMode selects triangle rasterization fill.
type FillMode int

const (
	FillSolid FillMode = iota
	FillLines
)

// RasterState is the rasterizer state of a graphics pipeline.
type RasterState struct {
	CCW          bool // counter-clockwise front face when true
	Cull         CullMode
	Fill         FillMode
	DepthBias    bool
	BiasConstant float32
	BiasSlope    float32
	BiasClamp    float32
	LineWidth    float32
}

// CmpFunc is a comparison function.
type CmpFunc int

const (
	CmpNever CmpFunc = iota
	CmpLess
	CmpEqual
	CmpLessEqual
	CmpGreater
	CmpNotEqual
	CmpGreaterEqual
	CmpAlways
)

// StencilOp is a stencil operation.
type StencilOp int

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncClamp
	StencilDecClamp
	StencilInvert
	StencilIncWrap
	StencilDecWrap
)

// StencilFace defines per-face stencil test parameters.
type StencilFace struct {
	Fail, DepthFail, Pass StencilOp
	Cmp                   CmpFunc
	ReadMask, WriteMask   uint32
	Reference             uint32
}

// DSState is the depth/stencil state of a graphics pipeline.
type DSState struct {
	DepthTest   bool
	DepthWrite  bool
	DepthCmp    CmpFunc
	StencilTest bool
	Front, Back StencilFace
}

// BlendOp is a blend operation.
type BlendOp int

const (
	BlendAdd BlendOp = iota
	BlendSubtract
	BlendRevSubtract
	BlendMin
	BlendMax
)

// BlendFactor is a blend factor.
type BlendFactor int

const (
	FactorZero BlendFactor = iota
	FactorOne
	FactorSrcColor
	FactorInvSrcColor
	FactorSrcAlpha
	FactorInvSrcAlpha
	FactorDstColor
	FactorInvDstColor
	FactorDstAlpha
	FactorInvDstAlpha
)

// ColorMask is a color write mask.
type ColorMask int

const (
	MaskRed ColorMask = 1 << iota
	MaskGreen
	MaskBlue
	MaskAlpha
	MaskAll = MaskRed | MaskGreen | MaskBlue | MaskAlpha
)

// ColorBlend is one render target's blend parameters.
type ColorBlend struct {
	Enable    bool
	WriteMask ColorMask
	// [0] is color, [1] is alpha.
	Op     [2]BlendOp
	SrcFac [2]BlendFactor
	DstFac [2]BlendFactor
}

// DynamicState is a mask of pipeline state left dynamic (set via
// CmdBuffer.Set* rather than baked). Viewport and scissor are always
// dynamic.
type DynamicState int

const (
	DynLineWidth DynamicState = 1 << iota
	DynDepthBias
	DynBlendColor
	DynDepthBounds
	DynStencil
)

// GraphicsState defines the full state of a graphics pipeline. Pass
// and Subpass pin the pipeline to the single subpass it may be used
// in.
type GraphicsState struct {
	VertBin, FragBin Shader
	Sets             []DescType // unused placeholder kept for symmetry; layout comes from Shader's Reflection
	Bindings         []VertexBinding
	Attrs            []VertexAttr
	Topology         Topology
	Raster           RasterState
	Samples          int
	DS               DSState
	Blend            []ColorBlend
	Dynamic          DynamicState
	Pass             RenderPass
	Subpass          int
	PatchSize        int
}

// ComputeState defines a compute pipeline: a single shader and the
// descriptor layout it expects.
type ComputeState struct {
	Comp Shader
}

// Pipeline is an immutable, baked graphics or compute pipeline.
type Pipeline interface{ Destroyer }

// Usage is a mask of valid uses for a Buffer or Texture.
type Usage int

const (
	UsageVertex Usage = 1 << iota
	UsageIndex
	UsageIndirect
	UsageUniform
	UsageStorage
	UsageUniformTexel
	UsageStorageTexel
	UsageTransferSrc
	UsageTransferDst
	UsageSampled
	UsageStorageImage
	UsageColorTarget
	UsageDSTarget
	UsageInputAttachment
	UsageCPURead
	UsageTransient
)

// Buffer is a fixed-size GPU buffer. Larger buffers require a new
// allocation and an explicit copy.
type Buffer interface {
	Destroyer

	// Visible reports whether the buffer's memory is host-visible.
	Visible() bool

	// Bytes returns a slice over the buffer's persistently-mapped
	// memory, or nil if it is not host-visible. Writes through this
	// slice are coherent with the device without an explicit flush.
	Bytes() []byte

	// Size returns the buffer's capacity in bytes.
	Size() int64
}

// Dimension is a texture's base shape.
type Dimension int

const (
	Dim1D Dimension = iota
	Dim2D
	Dim3D
)

// TextureType distinguishes plain, arrayed and cube textures.
type TextureType int

const (
	TexPlain TextureType = iota
	TexArray
	TexCube
	TexCubeArray
)

// Extent3D is a three-dimensional size in texels.
type Extent3D struct{ Width, Height, Depth int }

// Offset3D is a three-dimensional texel offset.
type Offset3D struct{ X, Y, Z int }

// TextureParam describes the immutable parameters of a Texture.
// Invariant: Levels <= 1+floor(log2(max(Width,Height))); a cube
// texture requires Layers = 6*N and is only valid when Type is
// TexCube or TexCubeArray.
type TextureParam struct {
	Format  Format
	Dim     Dimension
	Type    TextureType
	Extent  Extent3D
	Layers  int
	Levels  int
	Samples int
	Usage   Usage
}

// Texture is a GPU image. Direct CPU access is not provided; copying
// data to/from a texture requires a staging Buffer.
type Texture interface {
	Destroyer

	// NewView creates a non-owning view over a subset of the
	// texture's layers/levels. Multiple views may coexist; all fail
	// if the texture is destroyed. All views must be destroyed
	// before the texture itself.
	NewView(typ ViewType, baseLayer, layers, baseLevel, levels int) (TextureView, error)

	Param() TextureParam
}

// ViewType is the type of a TextureView.
type ViewType int

const (
	View1D ViewType = iota
	View2D
	View3D
	ViewCube
	View1DArray
	View2DArray
	ViewCubeArray
	View2DMS
	View2DMSArray
)

// TextureView is a non-owning, typed selector over a Texture.
type TextureView interface{ Destroyer }

// Filter is a sampler/blit filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	// FilterNoMipmap forces mip level 0; only valid as a Sampling.Mipmap.
	FilterNoMipmap
)

// AddrMode is a sampler address (wrap) mode.
type AddrMode int

const (
	AddrWrap AddrMode = iota
	AddrMirror
	AddrClampToEdge
	AddrClampToBorder
)

// BorderColor selects a sampler's border color when AddrClampToBorder
// is used.
type BorderColor int

const (
	BorderTransparentBlack BorderColor = iota
	BorderOpaqueBlack
	BorderOpaqueWhite
)

// Sampling describes immutable sampler state.
type Sampling struct {
	Min, Mag, Mipmap    Filter
	AddrU, AddrV, AddrW AddrMode
	Border              BorderColor
	LODBias, MinLOD, MaxLOD float32
	AnisotropyEnable    bool
	MaxAnisotropy       float32
	CompareEnable       bool
	Compare             CmpFunc
	UnnormalizedCoords  bool
}

// Sampler is an immutable image sampler.
type Sampler interface{ Destroyer }

// Surface is an opaque, platform-owned drawable surface handle,
// supplied by the window/platform shim and outliving any SwapChain
// created against it.
type Surface interface{ Destroyer }

// PresentMode selects swapchain presentation behavior.
type PresentMode int

const (
	PresentImmediate PresentMode = iota
	PresentMailbox
	PresentFIFO
	PresentFIFORelaxed
)

// CompositeAlpha selects how the swapchain composites with content
// behind it.
type CompositeAlpha int

const (
	CompositeOpaque CompositeAlpha = iota
	CompositePreMultiplied
	CompositePostMultiplied
	CompositeInherit
)

// SwapChain is an N-buffered presentation surface.
type SwapChain interface {
	Destroyer

	// AcquireNext returns the index of the next writable image and
	// signals sem once it is available for rendering.
	AcquireNext(sem Semaphore) (index int, err error)

	// Present presents the image identified by index, waiting on
	// sem before doing so.
	Present(index int, wait Semaphore) error

	// Recreate recreates the swapchain in response to ErrOutOfDate
	// or a resize.
	Recreate(width, height int) error

	Format() Format
	Extent() (width, height int)
	ImageCount() int
	RenderPass() RenderPass
	Framebuffer(index int) Framebuffer
	View(index int) TextureView
}

// Presenter is implemented by a GPU that supports presentation.
type Presenter interface {
	NewSwapChain(surf Surface, width, height, imageCount int, mode PresentMode) (SwapChain, error)
}

// Limits describes implementation limits, immutable for the lifetime
// of a GPU.
type Limits struct {
	MaxTexture1D, MaxTexture2D, MaxTextureCube, MaxTexture3D int
	MaxLayers                                                int
	MaxDescriptorSets                                        int
	MaxBoundDescriptorSets                                   int
	MaxColorTargets                                          int
	MaxFramebufferSize                                       [2]int
	MaxFramebufferLayers                                     int
	MaxViewports                                              int
	MaxPointSize                                              float32
	MaxVertexAttrs                                            int
	MaxFragmentInputs                                         int
	MaxComputeGroups                                          [3]int
	SampleCounts                                              int // bitmask of supported sample counts
}

package asset

import (
	"fmt"

	"github.com/kestrelgfx/core/driver"
	"github.com/kestrelgfx/core/render"
)

// TextureCache loads and uploads each distinct texture path at most
// once, shared across every material a Database references. Grounded
// on the teacher's resource-caching convention of keying GPU uploads
// by source path rather than re-decoding per material.
type TextureCache struct {
	gpu      driver.GPU
	upload   render.Uploader
	sampler  driver.Sampler
	textures map[string]*render.Texture
	fallback *render.Texture
	materials []*render.Material
}

func NewTextureCache(gpu driver.GPU, upload render.Uploader, sampler driver.Sampler) (*TextureCache, error) {
	fallback, err := render.NewFallbackTexture(gpu, upload)
	if err != nil {
		return nil, fmt.Errorf("asset: NewTextureCache: %w", err)
	}
	return &TextureCache{gpu: gpu, upload: upload, sampler: sampler, textures: make(map[string]*render.Texture), fallback: fallback}, nil
}

func (c *TextureCache) get(path string) (*render.Texture, error) {
	if path == "" {
		return nil, nil
	}
	if t, ok := c.textures[path]; ok {
		return t, nil
	}
	img, err := DecodeImage(path)
	if err != nil {
		return nil, err
	}
	format := driver.RGBA8Unorm
	if img.HDR {
		format = driver.RGBA32Float
	}
	tex, err := render.NewTexture(c.gpu, &render.TexParam{
		Format: format, Width: img.Width, Height: img.Height, Levels: 1, Samples: 1,
		Usage: driver.UsageSampled | driver.UsageTransferDst,
	})
	if err != nil {
		return nil, fmt.Errorf("asset: TextureCache.get %s: %w", path, err)
	}
	if err := c.upload.UploadTexture(tex, 0, 0, img.Width, img.Height, img.Pixels); err != nil {
		return nil, err
	}
	c.textures[path] = tex
	return tex, nil
}

func (c *TextureCache) ref(path string) (render.TexRef, error) {
	t, err := c.get(path)
	if err != nil {
		return render.TexRef{}, err
	}
	if t == nil {
		return render.TexRef{}, nil
	}
	return render.TexRef{Texture: t, View: 0, Sampler: c.sampler}, nil
}

func (c *TextureCache) Destroy() {
	for _, m := range c.materials {
		m.Destroy()
	}
	for _, t := range c.textures {
		t.Destroy()
	}
	c.fallback.Destroy()
}

// BuildMaterial resolves a MaterialDoc's texture paths through cache
// and constructs the GPU-facing render.Material, assigning entityID
// for the G-buffer's pick-readback attachment.
func BuildMaterial(cache *TextureCache, doc *MaterialDoc, entityID uint32) (*render.Material, error) {
	baseColor, err := cache.ref(doc.BaseColorTexture)
	if err != nil {
		return nil, err
	}
	metalRough, err := cache.ref(doc.MetalRoughTexture)
	if err != nil {
		return nil, err
	}
	normal, err := cache.ref(doc.NormalTexture)
	if err != nil {
		return nil, err
	}
	occlusion, err := cache.ref(doc.OcclusionTexture)
	if err != nil {
		return nil, err
	}
	emissive, err := cache.ref(doc.EmissiveTexture)
	if err != nil {
		return nil, err
	}
	mat := &render.Material{
		Name:              doc.Name,
		BaseColor:         baseColor,
		BaseColorFactor:   doc.BaseColorFactor,
		MetalRough:        metalRough,
		Metalness:         doc.Metalness,
		Roughness:         doc.Roughness,
		Normal:            normal,
		NormalScale:       doc.NormalScale,
		Occlusion:         occlusion,
		OcclusionStrength: doc.OcclusionStrength,
		Emissive:          emissive,
		EmissiveFactor:    doc.EmissiveFactor,
		EntityID:          entityID,
	}
	if err := mat.BindResources(cache.gpu, cache.sampler, cache.fallback); err != nil {
		return nil, err
	}
	cache.materials = append(cache.materials, mat)
	return mat, nil
}

package asset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaterialDoc is the YAML-serializable form of a render.Material,
// decoded independently of the GPU-resident type so texture paths can
// be resolved (and the referenced images decoded/uploaded) before
// render.Material is constructed. Grounded on original_source's
// per-material asset file and on the teacher's Config/DefaultConfig
// YAML-decode pattern for ambient config loading (see DESIGN.md).
type MaterialDoc struct {
	Name string `yaml:"name"`

	BaseColorTexture string     `yaml:"base_color_texture,omitempty"`
	BaseColorFactor  [4]float32 `yaml:"base_color_factor"`

	MetalRoughTexture string  `yaml:"metal_rough_texture,omitempty"`
	Metalness         float32 `yaml:"metalness"`
	Roughness         float32 `yaml:"roughness"`

	NormalTexture string  `yaml:"normal_texture,omitempty"`
	NormalScale   float32 `yaml:"normal_scale"`

	OcclusionTexture  string  `yaml:"occlusion_texture,omitempty"`
	OcclusionStrength float32 `yaml:"occlusion_strength"`

	EmissiveTexture string     `yaml:"emissive_texture,omitempty"`
	EmissiveFactor  [3]float32 `yaml:"emissive_factor"`
}

// DefaultMaterialDoc returns a MaterialDoc with the same neutral
// defaults original_source's default material constant uses
// (white base color, fully rough non-metal, no maps).
func DefaultMaterialDoc() MaterialDoc {
	return MaterialDoc{
		BaseColorFactor: [4]float32{1, 1, 1, 1},
		Roughness:       1,
		NormalScale:     1,
		OcclusionStrength: 1,
		EmissiveFactor:  [3]float32{0, 0, 0},
	}
}

// LoadMaterial decodes one material definition from a YAML file,
// starting from DefaultMaterialDoc so omitted fields take on
// original_source's defaults rather than Go's zero values.
func LoadMaterial(path string) (*MaterialDoc, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: LoadMaterial: %w", err)
	}
	doc := DefaultMaterialDoc()
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("asset: LoadMaterial %s: %w", path, err)
	}
	return &doc, nil
}

// Database indexes every material and mesh asset path a scene
// references, grounded on original_source's AssetDatabase (a
// path-keyed catalog resolved once at scene load).
type Database struct {
	Materials map[string]string `yaml:"materials"` // name -> yaml path
	Meshes    map[string]string `yaml:"meshes"`    // name -> glTF path
	Environment string          `yaml:"environment,omitempty"`
}

// LoadDatabase decodes a scene's asset database from YAML.
func LoadDatabase(path string) (*Database, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: LoadDatabase: %w", err)
	}
	var db Database
	if err := yaml.Unmarshal(b, &db); err != nil {
		return nil, fmt.Errorf("asset: LoadDatabase %s: %w", path, err)
	}
	return &db, nil
}

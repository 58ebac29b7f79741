package asset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMaterialAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mat.yaml")
	if err := os.WriteFile(path, []byte("name: brick\nmetalness: 0.2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadMaterial(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "brick" {
		t.Errorf("Name = %q, want brick", doc.Name)
	}
	if doc.Metalness != 0.2 {
		t.Errorf("Metalness = %v, want 0.2", doc.Metalness)
	}
	if doc.Roughness != 1 {
		t.Errorf("Roughness default = %v, want 1 (unset fields keep DefaultMaterialDoc value)", doc.Roughness)
	}
	if doc.BaseColorFactor != [4]float32{1, 1, 1, 1} {
		t.Errorf("BaseColorFactor default = %v, want opaque white", doc.BaseColorFactor)
	}
}

func TestLoadDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.yaml")
	content := "materials:\n  brick: mats/brick.yaml\nmeshes:\n  cube: meshes/cube.gltf\nenvironment: env/sky.hdr\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	db, err := LoadDatabase(path)
	if err != nil {
		t.Fatal(err)
	}
	if db.Materials["brick"] != "mats/brick.yaml" {
		t.Errorf("Materials[brick] = %q", db.Materials["brick"])
	}
	if db.Environment != "env/sky.hdr" {
		t.Errorf("Environment = %q", db.Environment)
	}
}

func TestLoadMaterialMissingFile(t *testing.T) {
	if _, err := LoadMaterial(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing material file")
	}
}

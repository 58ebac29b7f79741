package render

import (
	"testing"

	"github.com/kestrelgfx/core/linear"
)

func TestMaterialUBOLayout(t *testing.T) {
	m := Material{
		BaseColorFactor:   [4]float32{0.8, 0.1, 0.2, 1},
		Metalness:         0.5,
		Roughness:         0.3,
		NormalScale:       1,
		OcclusionStrength: 1,
		EmissiveFactor:    [3]float32{0, 0, 0},
		EntityID:          42,
	}
	ubo := m.UBO()
	if len(ubo) != 48 {
		t.Fatalf("UBO length = %d, want 48", len(ubo))
	}
	got := float32bits4(ubo[44:48])
	if got != 42 {
		t.Errorf("EntityID field = %d, want 42", got)
	}
}

func float32bits4(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func TestDrawListResetReusesBacking(t *testing.T) {
	var dl DrawList
	dl.Add(&Mesh{Name: "a"}, linear.M4{}, 1)
	dl.Add(&Mesh{Name: "b"}, linear.M4{}, 2)
	if len(dl.Items()) != 2 {
		t.Fatalf("len(Items()) = %d, want 2", len(dl.Items()))
	}
	dl.Reset()
	if len(dl.Items()) != 0 {
		t.Fatalf("len(Items()) after Reset = %d, want 0", len(dl.Items()))
	}
	dl.Add(&Mesh{Name: "c"}, linear.M4{}, 3)
	if len(dl.Items()) != 1 || dl.Items()[0].Mesh.Name != "c" {
		t.Errorf("Add after Reset did not behave as expected: %+v", dl.Items())
	}
}

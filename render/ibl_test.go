package render

import (
	"math"
	"testing"

	"github.com/kestrelgfx/core/linear"
)

func TestCubeFaceViewProjLooksDownEachAxis(t *testing.T) {
	for face := 0; face < 6; face++ {
		vp := CubeFaceViewProj(face)
		look := cubeFaceTargets[face].look
		// A point five units along the face's look direction should
		// project near the center of NDC space (x,y close to 0) and
		// lie in front of the camera (positive clip.w).
		var clip linear.V4
		world := linear.V4{look[0] * 5, look[1] * 5, look[2] * 5, 1}
		clip.Mul(&vp, &world)
		if clip[3] <= 0 {
			t.Fatalf("face %d: clip.w = %v, point is not in front of the camera", face, clip[3])
		}
		ndcX := clip[0] / clip[3]
		ndcY := clip[1] / clip[3]
		if math.Abs(float64(ndcX)) > 1e-3 || math.Abs(float64(ndcY)) > 1e-3 {
			t.Errorf("face %d: point along look direction is not centered in NDC: (%v,%v)", face, ndcX, ndcY)
		}
	}
}

func TestBloomMipLevelsHalveResolution(t *testing.T) {
	w, h := 1920, 1080
	for i := 0; i < BloomMipLevels; i++ {
		w, h = max1(w/2), max1(h/2)
	}
	if w < 1 || h < 1 {
		t.Errorf("mip chain produced a non-positive dimension: %dx%d", w, h)
	}
}

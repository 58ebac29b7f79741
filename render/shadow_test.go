package render

import (
	"testing"

	"github.com/kestrelgfx/core/linear"
)

func TestCascadeSplitsAreIncreasingAndBounded(t *testing.T) {
	splits := cascadeSplits(0.1, 100)
	for i := 1; i < len(splits); i++ {
		if splits[i] <= splits[i-1] {
			t.Errorf("cascade split %d (%v) not greater than split %d (%v)", i, splits[i], i-1, splits[i-1])
		}
	}
	if splits[len(splits)-1] > 100+1e-3 {
		t.Errorf("last split %v exceeds far plane 100", splits[len(splits)-1])
	}
}

func TestCalculateCascadesProducesCascadeCountEntries(t *testing.T) {
	var view, proj, viewProj linear.M4
	eye := linear.V3{0, 2, 5}
	center := linear.V3{0, 0, 0}
	up := linear.V3{0, 1, 0}
	view.LookAt(&eye, &center, &up)
	proj.Perspective(1.0, 16.0/9.0, 0.1, 100)
	viewProj.Mul(&proj, &view)

	lightDir := linear.V3{-0.3, -1, -0.2}
	cascades := CalculateCascades(lightDir, &viewProj, 0.1, 100)

	if len(cascades) != CascadeCount {
		t.Fatalf("len(cascades) = %d, want %d", len(cascades), CascadeCount)
	}
	for i := 1; i < CascadeCount; i++ {
		if cascades[i].SplitFar <= cascades[i-1].SplitFar {
			t.Errorf("cascade %d SplitFar (%v) not greater than cascade %d (%v)", i, cascades[i].SplitFar, i-1, cascades[i-1].SplitFar)
		}
	}
}

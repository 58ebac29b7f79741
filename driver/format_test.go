package driver

import "testing"

func TestMipChain(t *testing.T) {
	cases := []struct {
		w, h int
		want []Extent2D
	}{
		{1, 1, []Extent2D{{1, 1}}},
		{4, 4, []Extent2D{{4, 4}, {2, 2}, {1, 1}}},
		{8, 2, []Extent2D{{8, 2}, {4, 1}, {2, 1}, {1, 1}}},
		{5, 5, []Extent2D{{5, 5}, {2, 2}, {1, 1}}},
	}
	for _, c := range cases {
		got := MipChain(c.w, c.h)
		if len(got) != len(c.want) {
			t.Fatalf("MipChain(%d,%d): got %d entries, want %d (%v)", c.w, c.h, len(got), len(c.want), got)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("MipChain(%d,%d)[%d] = %v, want %v", c.w, c.h, i, got[i], c.want[i])
			}
		}
		last := got[len(got)-1]
		if last.Width != 1 || last.Height != 1 {
			t.Fatalf("MipChain(%d,%d) does not terminate at 1x1: got %v", c.w, c.h, last)
		}
	}
}

func TestIsDepthFormatAndStencil(t *testing.T) {
	for f := Format(0); f < D16UnormS8UInt+1; f++ {
		wantDepth := depthFormats[f]
		if IsDepthFormat(f) != wantDepth {
			t.Errorf("IsDepthFormat(%v) = %v, want %v", f, IsDepthFormat(f), wantDepth)
		}
	}
	for _, f := range []Format{D24UnormS8UInt, D32FloatS8UInt, D16UnormS8UInt} {
		if !HasStencil(f) {
			t.Errorf("HasStencil(%v) = false, want true", f)
		}
	}
	for _, f := range []Format{D16Unorm, X8D24Unorm, D32Float, RGBA8Unorm} {
		if HasStencil(f) {
			t.Errorf("HasStencil(%v) = true, want false", f)
		}
	}
}

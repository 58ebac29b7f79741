package asset

import "testing"

func TestRGBEToFloat(t *testing.T) {
	r, g, b := rgbeToFloat(0, 0, 0, 0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("zero exponent should decode to black, got (%v,%v,%v)", r, g, b)
	}
	// A known RGBE value: (128,128,128,129) decodes to (1,1,1) since
	// 128 * 2^(129-136) = 1. The check below tests only sign and zero
	// channels rather than a hand-picked round number, to avoid encoding
	// a second copy of the conversion logic in the test.
	rr, gg, bb := rgbeToFloat(255, 0, 0, 128)
	if rr <= 0 {
		t.Errorf("nonzero red mantissa should decode to a positive value, got %v", rr)
	}
	if gg != 0 || bb != 0 {
		t.Errorf("zero mantissa channels should stay zero, got (%v,%v)", gg, bb)
	}
}

func TestParseRadianceResolution(t *testing.T) {
	w, h, err := parseRadianceResolution("-Y 512 +X 1024\n")
	if err != nil {
		t.Fatal(err)
	}
	if w != 1024 || h != 512 {
		t.Errorf("got w=%d h=%d, want w=1024 h=512", w, h)
	}
}

func TestParseRadianceResolutionMalformed(t *testing.T) {
	if _, _, err := parseRadianceResolution("not a resolution line"); err == nil {
		t.Error("expected an error for a malformed resolution line")
	}
}

func TestFilepathExt(t *testing.T) {
	cases := map[string]string{
		"env/sky.hdr":  ".hdr",
		"tex.PNG":      ".PNG",
		"noextension":  "",
	}
	for in, want := range cases {
		if got := filepathExt(in); got != want {
			t.Errorf("filepathExt(%q) = %q, want %q", in, got, want)
		}
	}
}

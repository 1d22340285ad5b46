package compare

import (
	"math"
	"testing"

	"color-verifier/pkg/colorutil"
)

func TestCompare_Identical(t *testing.T) {
	c := colorutil.RGB{R: 12, G: 200, B: 77}
	for _, margin := range []float64{0.01, 1, 50, 100} {
		r := Compare(c, c, margin)
		if r.Error != 0 || !r.Success {
			t.Errorf("margin %v: got %+v, want zero error and success", margin, r)
		}
	}
	if r := Compare(c, c, 0); r.Success {
		t.Error("zero margin must fail even for identical colors")
	}
}

func TestCompare_BlackWhite(t *testing.T) {
	r := Compare(colorutil.RGB{}, colorutil.RGB{R: 255, G: 255, B: 255}, 100)
	if r.Error != 100 {
		t.Errorf("error = %v, want 100", r.Error)
	}
	if r.Success {
		t.Error("error equal to margin must fail")
	}
}

func TestCompare_NearRed(t *testing.T) {
	ref := colorutil.RGB{R: 255}
	obs := colorutil.RGB{R: 250, G: 5, B: 5}

	r := Compare(ref, obs, 5)
	if r.Error != 1.96 {
		t.Errorf("error = %v, want 1.96", r.Error)
	}
	if !r.Success {
		t.Error("expected success with margin 5")
	}
	if Compare(ref, obs, 1).Success {
		t.Error("expected failure with margin 1")
	}
}

func TestCompare_MarginClamped(t *testing.T) {
	ref := colorutil.RGB{R: 100, G: 100, B: 100}
	obs := colorutil.RGB{R: 110, G: 90, B: 100}
	if Compare(ref, obs, -5) != Compare(ref, obs, 0) {
		t.Error("margin -5 should behave like 0")
	}
	if Compare(ref, obs, 150) != Compare(ref, obs, 100) {
		t.Error("margin 150 should behave like 100")
	}
}

func TestClampMargin(t *testing.T) {
	tests := []struct {
		in      float64
		want    float64
		clamped bool
	}{
		{-5, 0, true},
		{0, 0, false},
		{42.5, 42.5, false},
		{100, 100, false},
		{150, 100, true},
		{math.NaN(), 0, true},
	}
	for _, tt := range tests {
		got, clamped := ClampMargin(tt.in)
		if got != tt.want || clamped != tt.clamped {
			t.Errorf("ClampMargin(%v) = %v, %v; want %v, %v", tt.in, got, clamped, tt.want, tt.clamped)
		}
	}
}

func TestNormalizedError_Rounding(t *testing.T) {
	got := NormalizedError(colorutil.RGB{}, colorutil.RGB{R: 1})
	// 1 / 441.673 * 100 = 0.2264...
	if got != 0.23 {
		t.Errorf("got %v, want 0.23", got)
	}
}

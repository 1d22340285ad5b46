package mask

import (
	"errors"
	"testing"

	"color-verifier/pkg/geometry"
)

func TestRasterize_TooFewVertices(t *testing.T) {
	_, _, err := Rasterize([]geometry.PointInt{geometry.Pt(0, 0), geometry.Pt(5, 5)})
	if !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("expected ErrInvalidRegion, got %v", err)
	}
}

func TestRasterize_Square(t *testing.T) {
	m, bbox, err := Rasterize([]geometry.PointInt{
		geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(10, 10), geometry.Pt(0, 10),
	})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if bbox != (geometry.RectInt{X: 0, Y: 0, Width: 10, Height: 10}) {
		t.Fatalf("bbox = %v", bbox)
	}
	if m.Width != 10 || m.Height != 10 {
		t.Fatalf("mask is %dx%d, want 10x10", m.Width, m.Height)
	}
	if n := m.Count(); n != 100 {
		t.Errorf("Count() = %d, want 100", n)
	}
}

func TestRasterize_TranslatesToLocal(t *testing.T) {
	// Right triangle with its right angle at the top-left corner.
	m, bbox, err := Rasterize([]geometry.PointInt{
		geometry.Pt(40, 20), geometry.Pt(60, 20), geometry.Pt(40, 40),
	})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if bbox != (geometry.RectInt{X: 40, Y: 20, Width: 20, Height: 20}) {
		t.Fatalf("bbox = %v", bbox)
	}
	interior := [][2]int{{1, 1}, {5, 5}, {2, 15}, {15, 2}}
	for _, p := range interior {
		if !m.At(p[0], p[1]) {
			t.Errorf("pixel %v should be inside", p)
		}
	}
	exterior := [][2]int{{18, 18}, {15, 15}, {12, 19}}
	for _, p := range exterior {
		if m.At(p[0], p[1]) {
			t.Errorf("pixel %v should be outside", p)
		}
	}
}

func TestRasterize_DegenerateTriangle(t *testing.T) {
	m, _, err := Rasterize([]geometry.PointInt{
		geometry.Pt(0, 0), geometry.Pt(5, 5), geometry.Pt(10, 10),
	})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if n := m.Count(); n != 0 {
		t.Errorf("collinear triangle selected %d pixels", n)
	}
}

func TestRasterize_Concave(t *testing.T) {
	// U shape: the notch between the arms stays clear.
	m, _, err := Rasterize([]geometry.PointInt{
		geometry.Pt(0, 0), geometry.Pt(3, 0), geometry.Pt(3, 6), geometry.Pt(6, 6),
		geometry.Pt(6, 0), geometry.Pt(9, 0), geometry.Pt(9, 9), geometry.Pt(0, 9),
	})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if m.At(4, 2) {
		t.Error("notch pixel should be outside")
	}
	if !m.At(1, 2) || !m.At(7, 2) || !m.At(4, 7) {
		t.Error("arm and base pixels should be inside")
	}
}

func TestAlpha(t *testing.T) {
	m := New(2, 1)
	m.Set(1, 0, true)
	a := m.Alpha()
	if a.Pix[0] != 0 || a.Pix[1] != 0xff {
		t.Errorf("alpha pix = %v", a.Pix)
	}
}

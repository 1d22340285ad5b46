package isolate

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"color-verifier/internal/mask"
	"color-verifier/pkg/colorutil"
	"color-verifier/pkg/geometry"
)

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func triangle(t *testing.T) (*mask.Mask, geometry.RectInt) {
	t.Helper()
	m, bbox, err := mask.Rasterize([]geometry.PointInt{
		geometry.Pt(2, 2), geometry.Pt(12, 2), geometry.Pt(2, 12),
	})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	return m, bbox
}

func TestIsolate_OutOfBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	m, bbox := triangle(t)
	_, err := Isolate(img, bbox, m)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestCheckBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds image.Rectangle
		bbox   geometry.RectInt
		ok     bool
	}{
		{"full frame", image.Rect(0, 0, 10, 10), geometry.RectInt{X: 0, Y: 0, Width: 10, Height: 10}, true},
		{"past edge", image.Rect(0, 0, 10, 10), geometry.RectInt{X: 5, Y: 0, Width: 6, Height: 2}, false},
		{"huge", image.Rect(0, 0, 10, 10), geometry.RectInt{X: 0, Y: 0, Width: 1 << 25, Height: 1 << 25}, false},
		{"offset origin", image.Rect(4, 4, 14, 14), geometry.RectInt{X: 0, Y: 0, Width: 10, Height: 10}, true},
		{"offset origin past edge", image.Rect(4, 4, 14, 14), geometry.RectInt{X: 1, Y: 0, Width: 10, Height: 10}, false},
	}
	for _, tt := range tests {
		err := CheckBounds(tt.bounds, tt.bbox)
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%s: expected ErrOutOfBounds, got %v", tt.name, err)
		}
	}
}

func TestIsolate_MaskMismatch(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	_, bbox := triangle(t)
	if _, err := Isolate(img, bbox, mask.New(3, 3)); err == nil {
		t.Fatal("expected error for mismatched mask")
	}
}

func TestIsolate_PixelsExcludeBackground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	fill(img, img.Bounds(), color.RGBA{R: 0, G: 0, B: 255, A: 255})
	m, bbox := triangle(t)

	iso, err := Isolate(img, bbox, m)
	if err != nil {
		t.Fatalf("Isolate: %v", err)
	}
	px := iso.Pixels()
	if len(px) != m.Count() {
		t.Fatalf("got %d pixels, mask selects %d", len(px), m.Count())
	}
	for _, c := range px {
		if c != (colorutil.RGB{B: 255}) {
			t.Fatalf("unexpected pixel color %v", c)
		}
	}

	// Bottom-right corner of the bbox lies outside the triangle.
	if got := iso.MaskedColor.RGBAAt(9, 9); got != Background {
		t.Errorf("background pixel = %v, want %v", got, Background)
	}
	if got := iso.WhiteBackground().RGBAAt(9, 9); got != colorutil.White {
		t.Errorf("white background pixel = %v", got)
	}
	if got := iso.Transparent().NRGBAAt(9, 9).A; got != 0 {
		t.Errorf("transparent alpha = %d", got)
	}
	if got := iso.MaskedColor.RGBAAt(1, 1); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("region pixel = %v", got)
	}
}

func TestIsolate_DoesNotModifySource(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	fill(img, img.Bounds(), color.RGBA{R: 9, G: 9, B: 9, A: 255})
	m, bbox := triangle(t)
	iso, err := Isolate(img, bbox, m)
	if err != nil {
		t.Fatalf("Isolate: %v", err)
	}
	iso.Cropped.SetRGBA(0, 0, color.RGBA{R: 1, A: 255})
	if img.RGBAAt(2, 2) != (color.RGBA{R: 9, G: 9, B: 9, A: 255}) {
		t.Error("source image changed")
	}
}

func TestIsolate_SubImageCoordinates(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 40, 40))
	fill(full, image.Rect(10, 10, 40, 40), color.RGBA{G: 200, A: 255})
	sub := full.SubImage(image.Rect(10, 10, 40, 40))

	m, bbox, err := mask.Rasterize([]geometry.PointInt{
		geometry.Pt(0, 0), geometry.Pt(4, 0), geometry.Pt(4, 4), geometry.Pt(0, 4),
	})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	iso, err := Isolate(sub, bbox, m)
	if err != nil {
		t.Fatalf("Isolate: %v", err)
	}
	for _, c := range iso.Pixels() {
		if c != (colorutil.RGB{G: 200}) {
			t.Fatalf("pixel %v read from outside the sub-image", c)
		}
	}
}

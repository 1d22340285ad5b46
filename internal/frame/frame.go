// Package frame loads captured images and normalizes them before region
// processing.
package frame

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Load decodes a PNG, JPEG, BMP or TIFF file.
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// SquareCrop returns the largest centered square of img, rebased to (0,0).
func SquareCrop(img image.Image) *image.RGBA {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2

	out := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(out, out.Bounds(), img, image.Pt(x0, y0), draw.Src)
	return out
}

// Resize scales img to width x height.
func Resize(img image.Image, width, height int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}

// PrepareCapture crops a camera frame to 1:1 and scales it to side x side, the
// geometry regions are drawn against. A side of 0 keeps the cropped size.
func PrepareCapture(img image.Image, side int) *image.RGBA {
	sq := SquareCrop(img)
	if side <= 0 || side == sq.Bounds().Dx() {
		return sq
	}
	return Resize(sq, side, side)
}

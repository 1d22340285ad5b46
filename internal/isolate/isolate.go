// Package isolate crops a region out of an image and separates its pixels
// from the background of the bounding box.
package isolate

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"color-verifier/internal/mask"
	"color-verifier/pkg/colorutil"
	"color-verifier/pkg/geometry"

	"golang.org/x/image/draw"
)

// ErrOutOfBounds is returned when a bounding box extends past the image.
var ErrOutOfBounds = errors.New("region out of image bounds")

// Background is the sentinel written to masked-out pixels of MaskedColor.
var Background = colorutil.Black

// Isolation holds the per-region buffers produced by Isolate.
// All images share the bounding box's dimensions and start at (0,0).
type Isolation struct {
	BBox        geometry.RectInt
	Mask        *mask.Mask
	Cropped     *image.RGBA  // image pixels inside BBox
	MaskedColor *image.RGBA  // Cropped where the mask is set, Background elsewhere
	MaskedAlpha *image.Alpha // 255 where the mask is set, 0 elsewhere
}

// CheckBounds reports ErrOutOfBounds unless bbox, taken relative to the
// top-left pixel of bounds, lies inside bounds.
func CheckBounds(bounds image.Rectangle, bbox geometry.RectInt) error {
	abs := bbox
	abs.X += bounds.Min.X
	abs.Y += bounds.Min.Y
	if !abs.Within(bounds) {
		return fmt.Errorf("%w: bbox %v, image %dx%d", ErrOutOfBounds, bbox, bounds.Dx(), bounds.Dy())
	}
	return nil
}

// Isolate copies the bbox area out of img and applies m to it.
// The source image is never modified.
func Isolate(img image.Image, bbox geometry.RectInt, m *mask.Mask) (*Isolation, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if m == nil {
		return nil, errors.New("nil mask")
	}
	if m.Width != bbox.Width || m.Height != bbox.Height {
		return nil, fmt.Errorf("mask is %dx%d but bbox is %dx%d", m.Width, m.Height, bbox.Width, bbox.Height)
	}
	bounds := img.Bounds()
	if err := CheckBounds(bounds, bbox); err != nil {
		return nil, err
	}
	abs := bbox
	abs.X += bounds.Min.X
	abs.Y += bounds.Min.Y

	local := image.Rect(0, 0, bbox.Width, bbox.Height)
	cropped := image.NewRGBA(local)
	draw.Draw(cropped, local, img, image.Pt(abs.X, abs.Y), draw.Src)

	masked := image.NewRGBA(local)
	draw.Draw(masked, local, image.NewUniform(Background), image.Point{}, draw.Src)
	alpha := m.Alpha()
	draw.DrawMask(masked, local, cropped, image.Point{}, alpha, image.Point{}, draw.Over)

	return &Isolation{
		BBox:        bbox,
		Mask:        m,
		Cropped:     cropped,
		MaskedColor: masked,
		MaskedAlpha: alpha,
	}, nil
}

// Pixels returns the colors of the region's own pixels in row-major order.
// Background sentinel pixels are excluded.
func (iso *Isolation) Pixels() []colorutil.RGB {
	out := make([]colorutil.RGB, 0, iso.Mask.Count())
	for y := 0; y < iso.BBox.Height; y++ {
		for x := 0; x < iso.BBox.Width; x++ {
			if iso.MaskedAlpha.AlphaAt(x, y).A == 0 {
				continue
			}
			c := iso.Cropped.RGBAAt(x, y)
			out = append(out, colorutil.RGB{R: c.R, G: c.G, B: c.B})
		}
	}
	return out
}

// WhiteBackground returns the region composited over white.
func (iso *Isolation) WhiteBackground() *image.RGBA {
	local := iso.Cropped.Bounds()
	out := image.NewRGBA(local)
	draw.Draw(out, local, image.NewUniform(colorutil.White), image.Point{}, draw.Src)
	draw.DrawMask(out, local, iso.Cropped, image.Point{}, iso.MaskedAlpha, image.Point{}, draw.Over)
	return out
}

// Transparent returns the region with everything outside the mask fully
// transparent.
func (iso *Isolation) Transparent() *image.NRGBA {
	local := iso.Cropped.Bounds()
	out := image.NewNRGBA(local)
	for y := 0; y < local.Dy(); y++ {
		for x := 0; x < local.Dx(); x++ {
			a := iso.MaskedAlpha.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			c := iso.Cropped.RGBAAt(x, y)
			out.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: a})
		}
	}
	return out
}

// MaskImage returns the mask as an 8-bit grayscale image (255 inside).
func (iso *Isolation) MaskImage() *image.Gray {
	local := iso.Cropped.Bounds()
	out := image.NewGray(local)
	copy(out.Pix, iso.MaskedAlpha.Pix)
	return out
}

// Package mask rasterizes region polygons into binary pixel masks.
package mask

import (
	"errors"
	"fmt"
	"image"

	"color-verifier/pkg/geometry"
)

// MinVertices is the smallest vertex count that describes a polygon.
const MinVertices = 3

// ErrInvalidRegion is returned when a polygon has fewer than MinVertices vertices.
var ErrInvalidRegion = errors.New("invalid region")

// Mask is a binary grid local to a region's bounding box.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// New allocates a clear mask.
func New(width, height int) *Mask {
	width, height = max(width, 0), max(height, 0)
	return &Mask{Width: width, Height: height, bits: make([]bool, width*height)}
}

// At reports whether the pixel at local (x, y) is part of the region.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.bits[y*m.Width+x]
}

// Set marks the pixel at local (x, y).
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.bits[y*m.Width+x] = v
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Alpha renders the mask as an opacity channel: 255 where set, 0 elsewhere.
func (m *Mask) Alpha() *image.Alpha {
	a := image.NewAlpha(image.Rect(0, 0, m.Width, m.Height))
	for i, b := range m.bits {
		if b {
			a.Pix[i] = 0xff
		}
	}
	return a
}

// Rasterize fills the closed polygon described by vertices into a mask sized
// to the polygon's bounding box. Vertices are translated so the bounding box
// origin maps to (0,0). A pixel is set when its center lies inside the
// polygon under the even-odd rule.
func Rasterize(vertices []geometry.PointInt) (*Mask, geometry.RectInt, error) {
	if len(vertices) < MinVertices {
		return nil, geometry.RectInt{}, fmt.Errorf("%w: %d vertices, need at least %d",
			ErrInvalidRegion, len(vertices), MinVertices)
	}

	bbox := geometry.BoundingBox(vertices)
	local := geometry.ToFloat(geometry.Translate(vertices, bbox.Min()))
	m := New(bbox.Width, bbox.Height)

	for y := 0; y < m.Height; y++ {
		cy := float64(y) + 0.5
		for x := 0; x < m.Width; x++ {
			if geometry.PointInPolygon(geometry.Point2D{X: float64(x) + 0.5, Y: cy}, local) {
				m.Set(x, y, true)
			}
		}
	}

	return m, bbox, nil
}

// Package geometry provides the point and rectangle types used to describe regions.
package geometry

import (
	"encoding/json"
	"fmt"
	"image"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointInt represents a 2D point with integer coordinates.
// It serializes as a two element array, [x, y].
type PointInt struct {
	X int
	Y int
}

// Pt is shorthand for PointInt{X: x, Y: y}.
func Pt(x, y int) PointInt {
	return PointInt{X: x, Y: y}
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// Sub returns the difference of two points.
func (p PointInt) Sub(other PointInt) PointInt {
	return PointInt{X: p.X - other.X, Y: p.Y - other.Y}
}

// MarshalJSON encodes the point as [x, y].
func (p PointInt) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a point from [x, y].
func (p *PointInt) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("point: expected [x, y], got %d values", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// RectInt represents a rectangle with integer coordinates.
// It serializes as [x, y, width, height].
type RectInt struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Min returns the top-left corner.
func (r RectInt) Min() PointInt {
	return PointInt{X: r.X, Y: r.Y}
}

// Empty reports whether the rectangle covers no pixels.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Image converts to an image.Rectangle.
func (r RectInt) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Within returns true if r lies entirely inside bounds.
func (r RectInt) Within(bounds image.Rectangle) bool {
	return r.Width >= 0 && r.Height >= 0 &&
		r.X >= bounds.Min.X && r.Y >= bounds.Min.Y &&
		r.Width <= bounds.Max.X-r.X && r.Height <= bounds.Max.Y-r.Y
}

func (r RectInt) String() string {
	return fmt.Sprintf("[%d %d %d %d]", r.X, r.Y, r.Width, r.Height)
}

// MarshalJSON encodes the rectangle as [x, y, w, h].
func (r RectInt) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{r.X, r.Y, r.Width, r.Height})
}

// UnmarshalJSON decodes a rectangle from [x, y, w, h].
func (r *RectInt) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rect: %w", err)
	}
	if len(v) != 4 {
		return fmt.Errorf("rect: expected [x, y, w, h], got %d values", len(v))
	}
	r.X, r.Y, r.Width, r.Height = v[0], v[1], v[2], v[3]
	return nil
}

// BoundingBox computes the tightest axis-aligned box containing all points.
// Width and height are max-min, so a box around a single point is empty.
func BoundingBox(points []PointInt) RectInt {
	if len(points) == 0 {
		return RectInt{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return RectInt{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Translate returns a copy of points shifted by -origin.
func Translate(points []PointInt, origin PointInt) []PointInt {
	out := make([]PointInt, len(points))
	for i, p := range points {
		out[i] = p.Sub(origin)
	}
	return out
}

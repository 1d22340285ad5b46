package region

import (
	"errors"
	"fmt"
	"slices"

	"color-verifier/internal/mask"
	"color-verifier/pkg/geometry"
)

// ErrNoRegions is returned when a drawing session ends without any region.
var ErrNoRegions = errors.New("no regions defined")

// IDPrefix is prepended to the sequence number of built regions.
const IDPrefix = "ROI"

// Builder collects polygon vertices point by point, the way an operator
// clicks them on a reference image, and numbers finished regions ROI1, ROI2...
type Builder struct {
	points []geometry.PointInt
	set    *Set
	next   int
}

// NewBuilder starts an empty session.
func NewBuilder() *Builder {
	return &Builder{set: NewSet(), next: 1}
}

// AddPoint appends a vertex to the region being drawn.
func (b *Builder) AddPoint(x, y int) {
	b.points = append(b.points, geometry.Pt(x, y))
}

// RemoveLastPoint drops the most recent vertex. It returns false when there
// is nothing to remove.
func (b *Builder) RemoveLastPoint() bool {
	if len(b.points) == 0 {
		return false
	}
	b.points = b.points[:len(b.points)-1]
	return true
}

// Points returns the vertices of the region being drawn.
func (b *Builder) Points() []geometry.PointInt {
	return slices.Clone(b.points)
}

// FinishRegion closes the current polygon and adds it to the session.
func (b *Builder) FinishRegion() (Region, error) {
	if len(b.points) < mask.MinVertices {
		return Region{}, fmt.Errorf("%w: select at least %d points, have %d",
			mask.ErrInvalidRegion, mask.MinVertices, len(b.points))
	}
	r := Region{ID: fmt.Sprintf("%s%d", IDPrefix, b.next), Vertices: b.points}
	if err := b.set.Add(r); err != nil {
		return Region{}, err
	}
	b.points = nil
	b.next++
	return r, nil
}

// Done returns the regions drawn in this session.
func (b *Builder) Done() (*Set, error) {
	if b.set.Len() == 0 {
		return nil, ErrNoRegions
	}
	return b.set, nil
}

// Reset discards all points and regions.
func (b *Builder) Reset() {
	*b = *NewBuilder()
}

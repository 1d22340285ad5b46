// Package region defines user-drawn regions, the ordered collections the
// pipeline consumes, and the calibration and comparison records it produces.
package region

import (
	"errors"
	"fmt"
	"slices"

	"color-verifier/internal/mask"
	"color-verifier/pkg/colorutil"
	"color-verifier/pkg/geometry"
)

var (
	// ErrDuplicateID is returned when a set already holds a region id.
	ErrDuplicateID = errors.New("duplicate region id")

	// ErrMissingReference is returned when a region has no calibrated color.
	ErrMissingReference = errors.New("region has no reference color")
)

// Region is a polygon over an image, identified by a stable key.
type Region struct {
	ID       string
	Vertices []geometry.PointInt

	// Reference is the calibrated dominant color, nil before calibration.
	Reference *colorutil.RGB
}

// BBox returns the bounding box of the current vertices.
func (r Region) BBox() geometry.RectInt {
	return geometry.BoundingBox(r.Vertices)
}

// Validate checks the vertex count.
func (r Region) Validate() error {
	if len(r.Vertices) < mask.MinVertices {
		return fmt.Errorf("region %q: %w: %d vertices, need at least %d",
			r.ID, mask.ErrInvalidRegion, len(r.Vertices), mask.MinVertices)
	}
	return nil
}

// WithReference returns a copy of r carrying c as its reference color.
func (r Region) WithReference(c colorutil.RGB) Region {
	r.Vertices = slices.Clone(r.Vertices)
	r.Reference = &c
	return r
}

// Set is an insertion-ordered collection of regions keyed by id.
type Set struct {
	order []string
	byID  map[string]Region
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{byID: make(map[string]Region)}
}

// Add appends a region. Ids must be unique within the set.
func (s *Set) Add(r Region) error {
	if _, ok := s.byID[r.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, r.ID)
	}
	r.Vertices = slices.Clone(r.Vertices)
	s.order = append(s.order, r.ID)
	s.byID[r.ID] = r
	return nil
}

// Get returns the region with the given id.
func (s *Set) Get(id string) (Region, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// Len returns the number of regions.
func (s *Set) Len() int {
	return len(s.order)
}

// IDs returns region ids in insertion order.
func (s *Set) IDs() []string {
	return slices.Clone(s.order)
}

// Regions returns the regions in insertion order.
func (s *Set) Regions() []Region {
	out := make([]Region, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}

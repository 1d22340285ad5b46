package region

import (
	"color-verifier/pkg/colorutil"
	"color-verifier/pkg/geometry"
)

// CalibrationEntry is the calibrated state of one region.
type CalibrationEntry struct {
	ID          string              `json:"-"`
	Coordinates []geometry.PointInt `json:"coordinates"`
	MeanColor   colorutil.RGB       `json:"mean_color"`
	Extremes    geometry.RectInt    `json:"extremes_of_ROI"`
}

// Calibration is the ordered output of a calibration pass.
type Calibration struct {
	Entries []CalibrationEntry
}

// Set converts the calibration into a region set whose regions carry their
// reference colors, ready for comparison.
func (c *Calibration) Set() (*Set, error) {
	s := NewSet()
	for _, e := range c.Entries {
		r := Region{ID: e.ID, Vertices: e.Coordinates}.WithReference(e.MeanColor)
		if err := s.Add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MarshalJSON encodes the calibration as an object keyed by region id,
// in calibration order.
func (c *Calibration) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(c.Entries))
	values := make([]any, len(c.Entries))
	for i := range c.Entries {
		keys[i] = c.Entries[i].ID
		values[i] = c.Entries[i]
	}
	return marshalOrdered(keys, values)
}

// ComparisonEntry is the outcome for one region.
type ComparisonEntry struct {
	ID        string        `json:"-"`
	MeanColor colorutil.RGB `json:"mean_color"`
	Error     float64       `json:"error"`
	Success   bool          `json:"success_status"`
}

// Comparison is the ordered output of a comparison pass.
type Comparison struct {
	Margin  float64 // effective (clamped) margin used
	Entries []ComparisonEntry
}

// Passed reports whether every region matched.
func (c *Comparison) Passed() bool {
	for _, e := range c.Entries {
		if !e.Success {
			return false
		}
	}
	return true
}

// Failed returns the ids of regions that did not match.
func (c *Comparison) Failed() []string {
	var ids []string
	for _, e := range c.Entries {
		if !e.Success {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// MarshalJSON encodes the comparison as an object keyed by region id,
// in input order.
func (c *Comparison) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(c.Entries))
	values := make([]any, len(c.Entries))
	for i := range c.Entries {
		keys[i] = c.Entries[i].ID
		values[i] = c.Entries[i]
	}
	return marshalOrdered(keys, values)
}

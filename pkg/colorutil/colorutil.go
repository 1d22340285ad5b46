// Package colorutil provides the RGB color type shared by the calibration pipeline.
package colorutil

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
)

// Overlay colors used when rendering results.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// RGB is an 8-bit per channel color. It serializes as [R, G, B].
type RGB struct {
	R, G, B uint8
}

// FromColor converts any color.Color, dropping alpha.
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// FromFloats rounds each channel to the nearest integer and clamps to [0, 255].
func FromFloats(r, g, b float64) RGB {
	return RGB{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

func clampChannel(v float64) uint8 {
	v = math.Round(v)
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// RGBA returns the opaque color.RGBA equivalent.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Floats returns the channels as float64 values.
func (c RGB) Floats() [3]float64 {
	return [3]float64{float64(c.R), float64(c.G), float64(c.B)}
}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("[%d %d %d]", c.R, c.G, c.B)
}

// MarshalJSON encodes the color as [R, G, B].
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{int(c.R), int(c.G), int(c.B)})
}

// UnmarshalJSON decodes [R, G, B]. Extra trailing channels (alpha) are ignored.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	if len(v) < 3 {
		return fmt.Errorf("color: expected [R, G, B], got %d values", len(v))
	}
	for i := 0; i < 3; i++ {
		if v[i] < 0 || v[i] > 255 {
			return fmt.Errorf("color: channel %d out of range: %d", i, v[i])
		}
	}
	c.R, c.G, c.B = uint8(v[0]), uint8(v[1]), uint8(v[2])
	return nil
}

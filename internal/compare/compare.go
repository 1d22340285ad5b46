// Package compare scores how far an observed color is from a reference.
package compare

import (
	"math"

	"color-verifier/pkg/colorutil"
)

// Margin bounds.
const (
	MinMargin = 0.0
	MaxMargin = 100.0
)

// maxDistance is the Euclidean distance between black and white.
var maxDistance = 255 * math.Sqrt(3)

// Result is the outcome of one comparison.
type Result struct {
	Error   float64 // normalized distance, 0-100, two decimals
	Success bool    // Error < margin
}

// ClampMargin limits margin to [MinMargin, MaxMargin] and reports whether it
// had to be changed.
func ClampMargin(margin float64) (float64, bool) {
	switch {
	case math.IsNaN(margin) || margin < MinMargin:
		return MinMargin, true
	case margin > MaxMargin:
		return MaxMargin, true
	}
	return margin, false
}

// NormalizedError returns the RGB Euclidean distance scaled so black to white
// is 100, rounded to two decimals.
func NormalizedError(reference, observed colorutil.RGB) float64 {
	a, b := reference.Floats(), observed.Floats()
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Round(math.Sqrt(sum)*100/maxDistance*100) / 100
}

// Compare scores observed against reference. The margin is clamped first;
// an error equal to the margin is a failure.
func Compare(reference, observed colorutil.RGB, margin float64) Result {
	margin, _ = ClampMargin(margin)
	e := NormalizedError(reference, observed)
	return Result{Error: e, Success: e < margin}
}

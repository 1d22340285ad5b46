package geometry

// PointInPolygon tests if a point is inside a polygon using ray casting.
// The polygon is closed implicitly; the last vertex connects to the first.
// Points exactly on an edge are classified by the even-odd rule and may land
// on either side, so callers should test pixel centers, not pixel corners.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// Area returns the absolute area of a simple polygon (shoelace formula).
func Area(polygon []PointInt) float64 {
	if len(polygon) < 3 {
		return 0
	}
	var twice int
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		twice += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	if twice < 0 {
		twice = -twice
	}
	return float64(twice) / 2
}

// ToFloat converts integer vertices to floating-point vertices.
func ToFloat(points []PointInt) []Point2D {
	out := make([]Point2D, len(points))
	for i, p := range points {
		out[i] = p.ToFloat()
	}
	return out
}

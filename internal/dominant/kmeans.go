package dominant

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"color-verifier/pkg/colorutil"

	"gonum.org/v1/gonum/floats"
)

// point is a distinct color with the number of pixels that carry it.
// Clustering distinct colors with weights gives the same assignments as
// clustering every pixel, at a fraction of the cost for flat regions.
type point struct {
	color  colorutil.RGB
	coords []float64
	weight float64
}

// histogram collapses pixels into distinct colors sorted by channel value.
func histogram(pixels []colorutil.RGB) []point {
	counts := make(map[colorutil.RGB]int, 64)
	for _, c := range pixels {
		counts[c]++
	}
	pts := make([]point, 0, len(counts))
	for c, n := range counts {
		f := c.Floats()
		pts = append(pts, point{color: c, coords: f[:], weight: float64(n)})
	}
	slices.SortFunc(pts, func(a, b point) int {
		return compareRGB(a.color, b.color)
	})
	return pts
}

func compareRGB(a, b colorutil.RGB) int {
	switch {
	case a.R != b.R:
		return int(a.R) - int(b.R)
	case a.G != b.G:
		return int(a.G) - int(b.G)
	}
	return int(a.B) - int(b.B)
}

// seedFor picks the generator seed: wall clock when randomized, the explicit
// seed when set, and otherwise a hash of the color histogram.
func seedFor(pts []point, opts Options) uint64 {
	if opts.Randomize {
		return uint64(time.Now().UnixNano())
	}
	if opts.Seed != nil {
		return *opts.Seed
	}
	h := fnv.New64a()
	var buf [7]byte
	for _, p := range pts {
		buf[0], buf[1], buf[2] = p.color.R, p.color.G, p.color.B
		binary.LittleEndian.PutUint32(buf[3:], uint32(p.weight))
		h.Write(buf[:])
	}
	return h.Sum64()
}

func sqDist(scratch, a, b []float64) float64 {
	floats.SubTo(scratch, a, b)
	return floats.Dot(scratch, scratch)
}

// kmeansState runs Lloyd's algorithm over weighted points.
type kmeansState struct {
	pts     []point
	centers [][]float64
	labels  []int
	scratch []float64
}

// seedCenters chooses initial centers with k-means++ weighting.
// Fewer than k centers are chosen when the points have fewer distinct values.
func (s *kmeansState) seedCenters(k int, rng *rand.Rand) {
	var total float64
	for _, p := range s.pts {
		total += p.weight
	}
	first := pick(s.pts, rng.Float64()*total, func(i int) float64 { return s.pts[i].weight })
	s.centers = append(s.centers, slices.Clone(s.pts[first].coords))

	d2 := make([]float64, len(s.pts))
	for i, p := range s.pts {
		d2[i] = sqDist(s.scratch, p.coords, s.centers[0])
	}

	for len(s.centers) < k {
		var sum float64
		for i, p := range s.pts {
			sum += p.weight * d2[i]
		}
		if sum == 0 {
			break
		}
		next := pick(s.pts, rng.Float64()*sum, func(i int) float64 { return s.pts[i].weight * d2[i] })
		c := slices.Clone(s.pts[next].coords)
		s.centers = append(s.centers, c)
		for i, p := range s.pts {
			d2[i] = math.Min(d2[i], sqDist(s.scratch, p.coords, c))
		}
	}
}

// pick returns the index where the running sum of mass first exceeds target.
func pick(pts []point, target float64, mass func(int) float64) int {
	var acc float64
	last := 0
	for i := range pts {
		m := mass(i)
		if m <= 0 {
			continue
		}
		acc += m
		last = i
		if target < acc {
			return i
		}
	}
	return last
}

// assign labels each point with its nearest center. Ties go to the lower
// center index. Reports whether any label changed.
func (s *kmeansState) assign() bool {
	changed := false
	for i, p := range s.pts {
		best, bestD := 0, math.Inf(1)
		for c, center := range s.centers {
			if d := sqDist(s.scratch, p.coords, center); d < bestD {
				best, bestD = c, d
			}
		}
		if s.labels[i] != best {
			s.labels[i] = best
			changed = true
		}
	}
	return changed
}

// update moves each center to the weighted mean of its points.
// A center that lost all its points stays where it was.
func (s *kmeansState) update() {
	sums := make([][]float64, len(s.centers))
	weights := make([]float64, len(s.centers))
	for c := range sums {
		sums[c] = make([]float64, 3)
	}
	for i, p := range s.pts {
		c := s.labels[i]
		floats.AddScaled(sums[c], p.weight, p.coords)
		weights[c] += p.weight
	}
	for c := range s.centers {
		if weights[c] == 0 {
			continue
		}
		floats.Scale(1/weights[c], sums[c])
		copy(s.centers[c], sums[c])
	}
}

func (s *kmeansState) clusters() []Cluster {
	out := make([]Cluster, len(s.centers))
	var total float64
	for i, p := range s.pts {
		out[s.labels[i]].Count += int(p.weight)
		total += p.weight
	}
	for c, center := range s.centers {
		copy(out[c].Center[:], center)
		out[c].Frequency = float64(out[c].Count) / total
	}
	return out
}

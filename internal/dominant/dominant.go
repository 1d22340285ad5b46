// Package dominant finds the dominant color of a set of pixels by k-means
// clustering and picking the most populated cluster.
package dominant

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"color-verifier/pkg/colorutil"
)

// ErrEmptyRegion is returned when there are no pixels to cluster.
var ErrEmptyRegion = errors.New("region selects no pixels")

// Options configures clustering.
type Options struct {
	Clusters      int     // number of clusters (k)
	MaxIterations int     // Lloyd iteration cap
	Seed          *uint64 // nil derives the seed from the pixel data
	Randomize     bool    // seed from the wall clock; output is not reproducible
}

// DefaultOptions returns the clustering defaults.
func DefaultOptions() Options {
	return Options{
		Clusters:      2,
		MaxIterations: 300,
	}
}

// Cluster is one k-means cluster.
type Cluster struct {
	Center    [3]float64 // R, G, B
	Count     int        // pixels assigned
	Frequency float64    // Count / total pixels
}

// Color returns the cluster center rounded and clamped to 8-bit channels.
func (c Cluster) Color() colorutil.RGB {
	return colorutil.FromFloats(c.Center[0], c.Center[1], c.Center[2])
}

// KMeans partitions pixels into at most opts.Clusters clusters.
// Identical input and seed always yield identical clusters. When the iteration
// cap is reached before assignments settle, the last centers are returned.
func KMeans(pixels []colorutil.RGB, opts Options) ([]Cluster, error) {
	if len(pixels) == 0 {
		return nil, ErrEmptyRegion
	}
	if opts.Clusters < 1 {
		return nil, fmt.Errorf("cluster count must be at least 1, got %d", opts.Clusters)
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}

	pts := histogram(pixels)
	seed := seedFor(pts, opts)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	s := &kmeansState{
		pts:     pts,
		labels:  make([]int, len(pts)),
		scratch: make([]float64, 3),
	}
	for i := range s.labels {
		s.labels[i] = -1
	}
	s.seedCenters(opts.Clusters, rng)

	converged := false
	for iter := 0; iter < opts.MaxIterations; iter++ {
		if !s.assign() && iter > 0 {
			converged = true
			break
		}
		s.update()
	}
	if !converged {
		s.assign()
	}

	return s.clusters(), nil
}

// Dominant returns the cluster with the highest frequency. Ties are broken by
// the larger center, compared channel by channel.
func Dominant(clusters []Cluster) Cluster {
	sorted := slices.Clone(clusters)
	slices.SortStableFunc(sorted, compareClusters)
	return sorted[len(sorted)-1]
}

func compareClusters(a, b Cluster) int {
	if a.Frequency != b.Frequency {
		if a.Frequency < b.Frequency {
			return -1
		}
		return 1
	}
	for i := range a.Center {
		if a.Center[i] != b.Center[i] {
			if a.Center[i] < b.Center[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Extract returns the dominant color of pixels.
func Extract(pixels []colorutil.RGB, opts Options) (colorutil.RGB, error) {
	clusters, err := KMeans(pixels, opts)
	if err != nil {
		return colorutil.RGB{}, err
	}
	return Dominant(clusters).Color(), nil
}

// Package pipeline runs the mask, isolate, cluster and compare steps over an
// ordered set of regions.
//
// Regions are independent of each other. A failure in any region aborts the
// whole batch: a calibration or comparison record with a hole in it would be
// misaligned with the region configuration it belongs to.
package pipeline

import (
	"fmt"
	"image"
	"log/slog"
	"slices"
	"sync"

	"color-verifier/internal/compare"
	"color-verifier/internal/dominant"
	"color-verifier/internal/isolate"
	"color-verifier/internal/mask"
	"color-verifier/internal/region"
	"color-verifier/pkg/colorutil"
	"color-verifier/pkg/geometry"
)

// Pass identifies which run produced a set of diagnostics.
type Pass int

const (
	PassCalibration Pass = iota
	PassComparison
)

func (p Pass) String() string {
	switch p {
	case PassCalibration:
		return "calibration"
	case PassComparison:
		return "comparison"
	default:
		return "unknown"
	}
}

// DiagnosticSink receives the intermediate buffers of every region.
type DiagnosticSink interface {
	WriteRegion(id string, pass Pass, iso *isolate.Isolation) error
}

// RegionError reports which region stopped a batch.
type RegionError struct {
	ID  string
	Err error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("region %q: %v", e.ID, e.Err)
}

func (e *RegionError) Unwrap() error {
	return e.Err
}

// Options configures a Pipeline.
type Options struct {
	Dominant dominant.Options
	Workers  int // regions processed concurrently; <=1 runs sequentially
}

// DefaultOptions returns sequential processing with default clustering.
func DefaultOptions() Options {
	return Options{Dominant: dominant.DefaultOptions(), Workers: 1}
}

// Pipeline calibrates and evaluates region colors.
type Pipeline struct {
	opts   Options
	sink   DiagnosticSink
	logger *slog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithDiagnostics sends every region's isolation buffers to sink.
func WithDiagnostics(sink DiagnosticSink) Option {
	return func(p *Pipeline) { p.sink = sink }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a Pipeline.
func New(opts Options, options ...Option) *Pipeline {
	p := &Pipeline{opts: opts, logger: slog.Default()}
	for _, o := range options {
		o(p)
	}
	return p
}

type measurement struct {
	bbox  geometry.RectInt
	color colorutil.RGB
}

// measure finds the dominant color of one region. All buffers are local to
// the call and dropped when it returns.
func (p *Pipeline) measure(img image.Image, r region.Region, pass Pass) (measurement, error) {
	if err := r.Validate(); err != nil {
		return measurement{}, err
	}
	// Checked before rasterizing so the mask never outgrows the image.
	if err := isolate.CheckBounds(img.Bounds(), r.BBox()); err != nil {
		return measurement{}, err
	}
	m, bbox, err := mask.Rasterize(r.Vertices)
	if err != nil {
		return measurement{}, err
	}
	iso, err := isolate.Isolate(img, bbox, m)
	if err != nil {
		return measurement{}, err
	}
	if p.sink != nil {
		if err := p.sink.WriteRegion(r.ID, pass, iso); err != nil {
			p.logger.Warn("diagnostics write failed", "region", r.ID, "pass", pass, "error", err)
		}
	}
	c, err := dominant.Extract(iso.Pixels(), p.opts.Dominant)
	if err != nil {
		return measurement{}, err
	}
	return measurement{bbox: bbox, color: c}, nil
}

// Calibrate measures the dominant color of every region in order.
func (p *Pipeline) Calibrate(img image.Image, regions *region.Set) (*region.Calibration, error) {
	list := regions.Regions()
	entries := make([]region.CalibrationEntry, len(list))

	err := p.each(list, func(i int, r region.Region) error {
		m, err := p.measure(img, r, PassCalibration)
		if err != nil {
			return err
		}
		entries[i] = region.CalibrationEntry{
			ID:          r.ID,
			Coordinates: slices.Clone(r.Vertices),
			MeanColor:   m.color,
			Extremes:    m.bbox,
		}
		p.logger.Debug("region calibrated", "region", r.ID, "bbox", m.bbox, "color", m.color)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &region.Calibration{Entries: entries}, nil
}

// Evaluate measures every region and compares it with its reference color.
// margin is clamped to [0, 100] before use.
func (p *Pipeline) Evaluate(img image.Image, regions *region.Set, margin float64) (*region.Comparison, error) {
	effective, clamped := compare.ClampMargin(margin)
	if clamped {
		p.logger.Warn("error margin out of range, clamped", "margin", margin, "effective", effective)
	}

	list := regions.Regions()
	entries := make([]region.ComparisonEntry, len(list))

	err := p.each(list, func(i int, r region.Region) error {
		if r.Reference == nil {
			return region.ErrMissingReference
		}
		m, err := p.measure(img, r, PassComparison)
		if err != nil {
			return err
		}
		res := compare.Compare(*r.Reference, m.color, effective)
		entries[i] = region.ComparisonEntry{
			ID:        r.ID,
			MeanColor: m.color,
			Error:     res.Error,
			Success:   res.Success,
		}
		p.logger.Debug("region compared", "region", r.ID, "reference", *r.Reference,
			"observed", m.color, "error", res.Error, "success", res.Success)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &region.Comparison{Margin: effective, Entries: entries}, nil
}

// each calls fn for every region. With more than one worker the regions are
// split into contiguous stripes, one goroutine per stripe. The returned error
// is the one from the earliest region in input order.
func (p *Pipeline) each(list []region.Region, fn func(int, region.Region) error) error {
	numWorkers := min(p.opts.Workers, len(list))
	if numWorkers <= 1 {
		for i, r := range list {
			if err := fn(i, r); err != nil {
				return &RegionError{ID: r.ID, Err: err}
			}
		}
		return nil
	}

	errs := make([]error, len(list))
	perWorker := (len(list) + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := min(start+perWorker, len(list))
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if err := fn(i, list[i]); err != nil {
					errs[i] = err
					return
				}
			}
		}(start, end)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return &RegionError{ID: list[i].ID, Err: err}
		}
	}
	return nil
}

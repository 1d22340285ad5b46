// Package diag writes per-region diagnostic images and result overlays
// using OpenCV.
package diag

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"color-verifier/internal/isolate"
	"color-verifier/internal/pipeline"
	"color-verifier/internal/region"
	"color-verifier/pkg/colorutil"

	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
)

// File name suffixes, appended to the region id.
const (
	SuffixCropped     = "_cropped"
	SuffixMask        = "_mask"
	SuffixBlack       = "_blackmask"
	SuffixWhite       = "_whitemask"
	SuffixIsolated    = "_isolated"
	comparisonPrefix  = "_output"
	defaultExtension  = ".bmp"
	isolatedExtension = ".png"
)

// Writer saves the intermediate images of every processed region into Dir.
// It is safe for concurrent use as long as region ids are unique.
type Writer struct {
	Dir string
	Ext string // image extension, ".bmp" when empty
}

// NewWriter creates dir if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create diagnostics dir: %w", err)
	}
	return &Writer{Dir: dir}, nil
}

func (w *Writer) path(id string, pass pipeline.Pass, suffix, ext string) string {
	name := id
	if pass == pipeline.PassComparison {
		name += comparisonPrefix
	}
	return filepath.Join(w.Dir, name+suffix+ext)
}

// WriteRegion implements pipeline.DiagnosticSink.
func (w *Writer) WriteRegion(id string, pass pipeline.Pass, iso *isolate.Isolation) error {
	if iso.BBox.Empty() {
		return nil
	}
	ext := w.Ext
	if ext == "" {
		ext = defaultExtension
	}

	views := []struct {
		suffix string
		img    *image.RGBA
	}{
		{SuffixCropped, iso.Cropped},
		{SuffixBlack, iso.MaskedColor},
		{SuffixWhite, iso.WhiteBackground()},
	}
	for _, v := range views {
		mat, err := rgbaToMat(v.img)
		if err != nil {
			return err
		}
		err = write(w.path(id, pass, v.suffix, ext), mat)
		mat.Close()
		if err != nil {
			return err
		}
	}

	maskMat, err := grayToMat(iso.MaskImage())
	if err != nil {
		return err
	}
	err = write(w.path(id, pass, SuffixMask, ext), maskMat)
	maskMat.Close()
	if err != nil {
		return err
	}

	// BMP drops alpha, so the transparent view is always PNG.
	isoMat, err := nrgbaToMat(iso.Transparent())
	if err != nil {
		return err
	}
	defer isoMat.Close()
	return write(w.path(id, pass, SuffixIsolated, isolatedExtension), isoMat)
}

func write(path string, mat gocv.Mat) error {
	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("failed to write %s", path)
	}
	return nil
}

// DrawResults outlines every region on img, green when it matched and red
// when it did not, labelled "error / margin" above its bounding box.
// The result is written to path.
func DrawResults(path string, img image.Image, regions *region.Set, cmp *region.Comparison) error {
	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)
	mat, err := rgbaToMat(canvas)
	if err != nil {
		return err
	}
	defer mat.Close()

	for _, e := range cmp.Entries {
		r, ok := regions.Get(e.ID)
		if !ok {
			continue
		}
		outline := colorutil.Red
		if e.Success {
			outline = colorutil.Green
		}

		pts := make([]image.Point, len(r.Vertices))
		for i, v := range r.Vertices {
			pts[i] = image.Pt(v.X, v.Y)
		}
		pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
		gocv.Polylines(&mat, pv, true, outline, 3)
		pv.Close()

		bbox := r.BBox()
		label := fmt.Sprintf("%.2f / %.2f", e.Error, cmp.Margin)
		org := image.Pt(bbox.X, max(bbox.Y-8, 12))
		gocv.PutText(&mat, label, org, gocv.FontHersheySimplex, 0.4, colorutil.White, 1)
	}

	return write(path, mat)
}

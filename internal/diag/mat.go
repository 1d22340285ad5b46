package diag

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

// pixToMat converts 4-byte-per-pixel RGBA-ordered pixels to a BGR or BGRA
// Mat (OpenCV channel order). It serves both *image.RGBA and *image.NRGBA.
func pixToMat(pix []uint8, stride, w, h int, withAlpha bool) (gocv.Mat, error) {
	channels := 3
	mt := gocv.MatTypeCV8UC3
	if withAlpha {
		channels = 4
		mt = gocv.MatTypeCV8UC4
	}

	data := make([]byte, w*h*channels)
	parallelRows(h, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			src := pix[y*stride:]
			dst := data[y*w*channels:]
			for x := 0; x < w; x++ {
				s := src[x*4 : x*4+4]
				d := dst[x*channels:]
				d[0], d[1], d[2] = s[2], s[1], s[0]
				if withAlpha {
					d[3] = s[3]
				}
			}
		}
	})
	return gocv.NewMatFromBytes(h, w, mt, data)
}

func rgbaToMat(img *image.RGBA) (gocv.Mat, error) {
	b := img.Bounds()
	return pixToMat(img.Pix, img.Stride, b.Dx(), b.Dy(), false)
}

func nrgbaToMat(img *image.NRGBA) (gocv.Mat, error) {
	b := img.Bounds()
	return pixToMat(img.Pix, img.Stride, b.Dx(), b.Dy(), true)
}

// grayToMat converts a single channel image to a CV_8U Mat.
func grayToMat(img *image.Gray) (gocv.Mat, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(data[y*w:(y+1)*w], img.Pix[y*img.Stride:])
	}
	return gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, data)
}

// matToImage converts a BGR gocv.Mat to a Go image (parallelized)
func matToImage(mat gocv.Mat) (*image.RGBA, error) {
	if mat.Empty() {
		return nil, errors.New("empty mat")
	}
	if mat.Channels() != 3 {
		return nil, fmt.Errorf("expected 3 channels, got %d", mat.Channels())
	}
	h := mat.Rows()
	w := mat.Cols()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := img.Stride

	parallelRows(h, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			rowOffset := y * stride
			for x := 0; x < w; x++ {
				// OpenCV uses BGR format, write directly to Pix slice
				pixOffset := rowOffset + x*4
				img.Pix[pixOffset+0] = mat.GetUCharAt(y, x*3+2) // R
				img.Pix[pixOffset+1] = mat.GetUCharAt(y, x*3+1) // G
				img.Pix[pixOffset+2] = mat.GetUCharAt(y, x*3+0) // B
				img.Pix[pixOffset+3] = 255                      // A
			}
		}
	})

	return img, nil
}

// parallelRows splits [0, h) into horizontal stripes, one goroutine per CPU.
func parallelRows(h int, fn func(yStart, yEnd int)) {
	numWorkers := runtime.NumCPU()
	rowsPerWorker := (h + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := min(startY+rowsPerWorker, h)
		if startY >= h {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			fn(yStart, yEnd)
		}(startY, endY)
	}
	wg.Wait()
}

// LoadCV reads an image with OpenCV, which also handles formats the Go
// decoders do not.
func LoadCV(path string) (image.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to read image %s", path)
	}
	return matToImage(mat)
}

// Package export analyzes saved annotation masks: it extracts marked
// regions as bounding rectangles and aggregates coverage statistics.
package export

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"mask-annotator/internal/mask"
	"mask-annotator/pkg/geometry"
)

// Regions returns the bounding rectangles of the connected marked regions
// of a mask, dropping contours whose area is below minArea pixels.
func Regions(m *mask.Mask, minArea float64) ([]geometry.RectInt, error) {
	b := m.Bounds()
	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1, m.Gray().Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to convert mask: %w", err)
	}
	defer mat.Close()

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(mat, &binary, 127, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var regions []geometry.RectInt
	for i := 0; i < contours.Size(); i++ {
		if gocv.ContourArea(contours.At(i)) < minArea {
			continue
		}
		regions = append(regions, geometry.RectIntFromImageRect(gocv.BoundingRect(contours.At(i))))
	}
	return regions, nil
}

// Coverage returns the marked fraction of the mask in [0, 1].
func Coverage(m *mask.Mask) float64 {
	b := m.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	return float64(m.MarkedCount()) / float64(total)
}

// Summary reduces per-mask coverages to their mean and standard deviation.
func Summary(coverages []float64) (mean, stddev float64) {
	if len(coverages) == 0 {
		return 0, 0
	}
	mean = stat.Mean(coverages, nil)
	stddev = stat.StdDev(coverages, nil)
	if math.IsNaN(stddev) {
		stddev = 0
	}
	return mean, stddev
}

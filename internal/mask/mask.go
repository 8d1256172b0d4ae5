// Package mask holds the mutable ground-truth mask for one image and the
// square brush that paints it.
package mask

import (
	"image"
	"image/draw"

	"mask-annotator/pkg/geometry"
)

// Pixel values of the two mask colors.
const (
	Marked   uint8 = 255
	Unmarked uint8 = 0
)

// Mask is a single-channel raster the size of its source image. Painted
// pixels carry Marked, everything else Unmarked.
type Mask struct {
	gray *image.Gray
}

// New creates an all-unmarked mask of the given dimensions.
func New(w, h int) *Mask {
	return &Mask{gray: image.NewGray(image.Rect(0, 0, w, h))}
}

// FromImage converts a decoded mask file into a Mask. Grayscale sources
// keep their byte values; the two mark colors survive a save/load cycle
// unchanged.
func FromImage(img image.Image) *Mask {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return &Mask{gray: g}
}

// Bounds returns the mask extent.
func (m *Mask) Bounds() image.Rectangle {
	return m.gray.Bounds()
}

// Gray exposes the underlying buffer for rendering and encoding. Callers
// must not resize it.
func (m *Mask) Gray() *image.Gray {
	return m.gray
}

// Clone returns an independent copy.
func (m *Mask) Clone() *Mask {
	g := image.NewGray(m.gray.Bounds())
	copy(g.Pix, m.gray.Pix)
	return &Mask{gray: g}
}

// Set reports whether the pixel at p is marked.
func (m *Mask) Set(p geometry.PointInt) bool {
	if !p.ToImagePoint().In(m.gray.Bounds()) {
		return false
	}
	return m.gray.GrayAt(p.X, p.Y).Y == Marked
}

// MarkedCount returns the number of marked pixels.
func (m *Mask) MarkedCount() int {
	n := 0
	for _, v := range m.gray.Pix {
		if v == Marked {
			n++
		}
	}
	return n
}

// Paint writes a filled square of side 2*radius centered at center,
// half-open on both axes, clipped to the mask. set selects between the
// mark and clear colors. Painting the same square twice is a no-op the
// second time.
func (m *Mask) Paint(center geometry.PointInt, radius int, set bool) {
	if radius <= 0 {
		return
	}
	val := Unmarked
	if set {
		val = Marked
	}

	b := m.gray.Bounds()
	x0 := geometry.ClampInt(center.X-radius, b.Min.X, b.Max.X)
	x1 := geometry.ClampInt(center.X+radius, b.Min.X, b.Max.X)
	y0 := geometry.ClampInt(center.Y-radius, b.Min.Y, b.Max.Y)
	y1 := geometry.ClampInt(center.Y+radius, b.Min.Y, b.Max.Y)

	for y := y0; y < y1; y++ {
		start := m.gray.PixOffset(x0, y)
		row := m.gray.Pix[start : start+(x1-x0)]
		for i := range row {
			row[i] = val
		}
	}
}

// Package compose renders display frames: the source image blended with its
// mask, restricted to the viewport, magnified to the display size and
// decorated with reference rectangles, the cursor marker and the filename.
//
// Render is a pure function of its inputs; identical inputs produce
// identical frames byte for byte.
package compose

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"mask-annotator/internal/mask"
	"mask-annotator/pkg/geometry"
)

// Frame colors.
var (
	referenceColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	cursorColor    = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	labelColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	labelBackColor = color.RGBA{R: 32, G: 32, B: 32, A: 255}
)

const referenceThickness = 2

// Options controls a single frame render.
type Options struct {
	// BlendPercent is the mask overlay strength, 0 to 100.
	BlendPercent int

	// ReferenceRects are outlined in source coordinates when ShowReferences
	// is set.
	ReferenceRects []geometry.RectInt
	ShowReferences bool

	// Filename is printed in the frame corner when ShowFilename is set.
	Filename     string
	ShowFilename bool

	// Cursor is the pointer position in display coordinates; CursorRadius
	// is the mark radius whose footprint the indicator shows.
	Cursor       geometry.PointInt
	CursorRadius int
	ShowCursor   bool

	// DisplaySize is the output frame size in pixels.
	DisplaySize image.Point
}

// DefaultOptions returns the render settings of a freshly loaded image.
func DefaultOptions() Options {
	return Options{
		BlendPercent:   35,
		ShowReferences: true,
		CursorRadius:   5,
	}
}

// Render produces one display frame. The mask must have the same
// dimensions as src. An empty or degenerate viewport is clamped to one
// pixel; the display size is floored at 1x1.
func Render(src *image.RGBA, m *mask.Mask, vp geometry.RectInt, opts Options) *image.RGBA {
	bounds := geometry.RectIntFromImageRect(src.Bounds())
	if vp.Width < 1 {
		vp.Width = 1
	}
	if vp.Height < 1 {
		vp.Height = 1
	}
	vp = vp.Intersect(bounds)
	if vp.Empty() {
		vp = geometry.NewRectInt(bounds.X, bounds.Y, 1, 1)
	}

	blended := blendRegion(src, m, vp, opts.BlendPercent)

	if opts.ShowReferences {
		offset := geometry.NewPointInt(vp.X, vp.Y)
		for _, r := range opts.ReferenceRects {
			local := geometry.NewRectInt(r.X-offset.X, r.Y-offset.Y, r.Width, r.Height)
			drawRectOutline(blended, local, referenceColor, referenceThickness)
		}
	}

	dw, dh := opts.DisplaySize.X, opts.DisplaySize.Y
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), blended, blended.Bounds(), xdraw.Src, nil)

	if opts.ShowCursor && opts.CursorRadius > 0 {
		zoomFactor := float64(bounds.Width) / float64(vp.Width)
		half := int(math.Round(float64(opts.CursorRadius) * zoomFactor))
		square := geometry.NewRectInt(opts.Cursor.X-half, opts.Cursor.Y-half, 2*half, 2*half)
		drawRectOutline(out, square, cursorColor, 1)
	}

	if opts.ShowFilename && opts.Filename != "" {
		drawCornerLabel(out, opts.Filename)
	}

	return out
}

// blendRegion computes src + mask*percent/100 per channel over the region,
// saturating at 255. The region must lie inside src.
func blendRegion(src *image.RGBA, m *mask.Mask, region geometry.RectInt, percent int) *image.RGBA {
	beta := float64(geometry.ClampInt(percent, 0, 100)) / 100

	// The mask holds few distinct values, so the weighted contribution is
	// cheaper as a lookup table than as per-pixel float math.
	var add [256]int
	for v := range add {
		add[v] = int(math.Round(float64(v) * beta))
	}

	gray := m.Gray()
	out := image.NewRGBA(image.Rect(0, 0, region.Width, region.Height))
	for y := 0; y < region.Height; y++ {
		srcOff := src.PixOffset(region.X, region.Y+y)
		maskOff := gray.PixOffset(region.X, region.Y+y)
		outOff := out.PixOffset(0, y)
		for x := 0; x < region.Width; x++ {
			boost := add[gray.Pix[maskOff+x]]
			s := src.Pix[srcOff+x*4:]
			d := out.Pix[outOff+x*4:]
			d[0] = saturateAdd(s[0], boost)
			d[1] = saturateAdd(s[1], boost)
			d[2] = saturateAdd(s[2], boost)
			d[3] = 255
		}
	}
	return out
}

func saturateAdd(v uint8, boost int) uint8 {
	sum := int(v) + boost
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

// drawRectOutline paints a rectangle outline of the given thickness growing
// inward from the rectangle edges, clipped to the image.
func drawRectOutline(img *image.RGBA, r geometry.RectInt, col color.RGBA, thickness int) {
	if r.Empty() || thickness < 1 {
		return
	}
	fillRect(img, geometry.NewRectInt(r.X, r.Y, r.Width, thickness), col)
	fillRect(img, geometry.NewRectInt(r.X, r.Y+r.Height-thickness, r.Width, thickness), col)
	fillRect(img, geometry.NewRectInt(r.X, r.Y, thickness, r.Height), col)
	fillRect(img, geometry.NewRectInt(r.X+r.Width-thickness, r.Y, thickness, r.Height), col)
}

// fillRect paints a solid rectangle, clipped to the image.
func fillRect(img *image.RGBA, r geometry.RectInt, col color.RGBA) {
	clipped := r.Intersect(geometry.RectIntFromImageRect(img.Bounds()))
	if clipped.Empty() {
		return
	}
	for y := clipped.Y; y < clipped.Y+clipped.Height; y++ {
		off := img.PixOffset(clipped.X, y)
		for x := 0; x < clipped.Width; x++ {
			img.Pix[off+x*4+0] = col.R
			img.Pix[off+x*4+1] = col.G
			img.Pix[off+x*4+2] = col.B
			img.Pix[off+x*4+3] = col.A
		}
	}
}

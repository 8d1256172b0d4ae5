// Package viewport tracks the visible sub-rectangle of a source image and
// maps display coordinates back to source pixels.
package viewport

import (
	"image"
	"math"

	"mask-annotator/pkg/geometry"
)

// Direction identifies a pan direction.
type Direction int

const (
	PanLeft Direction = iota
	PanUp
	PanRight
	PanDown
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case PanLeft:
		return "left"
	case PanUp:
		return "up"
	case PanRight:
		return "right"
	case PanDown:
		return "down"
	}
	return "unknown"
}

// panFraction is the share of the current viewport moved per pan step.
const panFraction = 0.2

// Viewport is the rectangle of the source image currently on display.
// All operations keep the rectangle inside the image bounds with at least
// one pixel of extent on each axis.
type Viewport struct {
	imgW, imgH int
	rect       geometry.RectInt
}

// New creates a viewport covering the full w x h source image.
func New(w, h int) *Viewport {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	v := &Viewport{imgW: w, imgH: h}
	v.Reset()
	return v
}

// Rect returns the current viewport rectangle in source coordinates.
func (v *Viewport) Rect() geometry.RectInt {
	return v.rect
}

// ImageSize returns the source image dimensions.
func (v *Viewport) ImageSize() (int, int) {
	return v.imgW, v.imgH
}

// Reset restores the full-image view.
func (v *Viewport) Reset() {
	v.rect = geometry.NewRectInt(0, 0, v.imgW, v.imgH)
}

// ToSource maps a display-space point to the source pixel it shows.
// The mapping is proportional: source.x = rect.x + display.x * rect.w / displaySize.x.
func (v *Viewport) ToSource(display geometry.PointInt, displaySize image.Point) geometry.PointInt {
	if displaySize.X < 1 || displaySize.Y < 1 {
		return geometry.PointInt{X: v.rect.X, Y: v.rect.Y}
	}
	return geometry.PointInt{
		X: v.rect.X + int(float64(display.X)*float64(v.rect.Width)/float64(displaySize.X)),
		Y: v.rect.Y + int(float64(display.Y)*float64(v.rect.Height)/float64(displaySize.Y)),
	}
}

// Zoom scales the viewport by factor (<1 zooms in, >1 zooms out), keeping
// the source pixel under the display cursor stationary. When the resized
// rectangle has to be clamped against an image border the anchor drifts;
// containment wins over anchoring.
func (v *Viewport) Zoom(factor float64, cursor geometry.PointInt, displaySize image.Point) {
	if factor <= 0 || displaySize.X < 1 || displaySize.Y < 1 {
		return
	}

	// The anchor must be resolved against the rectangle as it is now,
	// before any resizing.
	anchor := v.ToSource(cursor, displaySize)
	widthRatio := float64(cursor.X) / float64(displaySize.X)
	heightRatio := float64(cursor.Y) / float64(displaySize.Y)

	v.rect.Width = geometry.ClampInt(int(math.Round(float64(v.rect.Width)*factor)), 1, v.imgW)
	v.rect.Height = geometry.ClampInt(int(math.Round(float64(v.rect.Height)*factor)), 1, v.imgH)
	v.rect.X = geometry.ClampInt(int(float64(anchor.X)-widthRatio*float64(v.rect.Width)), 0, v.imgW-v.rect.Width)
	v.rect.Y = geometry.ClampInt(int(float64(anchor.Y)-heightRatio*float64(v.rect.Height)), 0, v.imgH-v.rect.Height)
}

// Pan shifts the viewport by a fifth of its current extent, clamped to the
// image. At extreme zoom the step truncates to zero pixels.
func (v *Viewport) Pan(dir Direction) {
	dx := int(panFraction * float64(v.rect.Width))
	dy := int(panFraction * float64(v.rect.Height))

	switch dir {
	case PanLeft:
		v.rect.X = geometry.ClampInt(v.rect.X-dx, 0, v.imgW-v.rect.Width)
	case PanRight:
		v.rect.X = geometry.ClampInt(v.rect.X+dx, 0, v.imgW-v.rect.Width)
	case PanUp:
		v.rect.Y = geometry.ClampInt(v.rect.Y-dy, 0, v.imgH-v.rect.Height)
	case PanDown:
		v.rect.Y = geometry.ClampInt(v.rect.Y+dy, 0, v.imgH-v.rect.Height)
	}
}

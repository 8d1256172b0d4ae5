// Package annotator provides the fyne front end for an annotation
// session: the interactive image surface, the control sliders and the
// keyboard map.
package annotator

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/chewxy/math32"

	"mask-annotator/internal/session"
	"mask-annotator/pkg/geometry"
)

// Surface is the interactive image area. It renders session frames into a
// raster and forwards pointer input back as session events. Positions are
// reported in device-independent units; the raster draw callback runs in
// pixels and the session maps between the two.
type Surface struct {
	widget.BaseWidget

	sess      *session.Session
	raster    *fynecanvas.Raster
	modifiers func() session.Modifier
	onError   func(error)

	primaryHeld   bool
	secondaryHeld bool
}

// NewSurface creates the surface for a session. modifiers reports the
// modifier keys held when a wheel event arrives, onError receives
// dispatch failures.
func NewSurface(sess *session.Session, modifiers func() session.Modifier, onError func(error)) *Surface {
	s := &Surface{sess: sess, modifiers: modifiers, onError: onError}
	s.raster = fynecanvas.NewRaster(s.draw)
	s.raster.ScaleMode = fynecanvas.ImageScalePixels
	s.ExtendBaseWidget(s)
	return s
}

func (s *Surface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.raster)
}

// Resize reports the new display size to the session so pointer positions
// keep mapping onto the right source pixels.
func (s *Surface) Resize(size fyne.Size) {
	s.BaseWidget.Resize(size)
	s.dispatch(session.ResizeEvent{Size: image.Point{
		X: int(math32.Round(size.Width)),
		Y: int(math32.Round(size.Height)),
	}})
}

// Refresh redraws the raster from the current session state.
func (s *Surface) Refresh() {
	s.raster.Refresh()
	s.BaseWidget.Refresh()
}

func (s *Surface) draw(w, h int) image.Image {
	return s.sess.Frame(image.Point{X: w, Y: h})
}

func (s *Surface) dispatch(ev session.Event) {
	if err := s.sess.Dispatch(ev); err != nil && s.onError != nil {
		s.onError(err)
	}
}

func (s *Surface) pointer(pos fyne.Position) {
	s.dispatch(session.PointerEvent{
		Pos: geometry.NewPointInt(
			int(math32.Round(pos.X)),
			int(math32.Round(pos.Y)),
		),
		Primary:   s.primaryHeld,
		Secondary: s.secondaryHeld,
	})
}

// MouseDown starts painting (primary) or clearing (secondary).
func (s *Surface) MouseDown(ev *desktop.MouseEvent) {
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		s.primaryHeld = true
	case desktop.MouseButtonSecondary:
		s.secondaryHeld = true
	}
	s.pointer(ev.Position)
}

// MouseUp stops the active paint stroke.
func (s *Surface) MouseUp(ev *desktop.MouseEvent) {
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		s.primaryHeld = false
	case desktop.MouseButtonSecondary:
		s.secondaryHeld = false
	}
	s.pointer(ev.Position)
}

// MouseIn tracks the cursor as it enters the surface.
func (s *Surface) MouseIn(ev *desktop.MouseEvent) {
	s.pointer(ev.Position)
}

// MouseMoved tracks the cursor; with a button held it extends the stroke.
func (s *Surface) MouseMoved(ev *desktop.MouseEvent) {
	s.pointer(ev.Position)
}

// MouseOut ends any stroke at the surface edge.
func (s *Surface) MouseOut() {
	s.primaryHeld = false
	s.secondaryHeld = false
}

// Dragged extends the stroke while a button is held. Fyne delivers drag
// events instead of mouse moves once a button-down movement starts.
func (s *Surface) Dragged(ev *fyne.DragEvent) {
	s.pointer(ev.Position)
}

func (s *Surface) DragEnd() {}

// Scrolled adjusts the marker size, or with a modifier held the blend
// factor or zoom.
func (s *Surface) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY == 0 {
		return
	}
	s.dispatch(session.WheelEvent{In: ev.Scrolled.DY > 0, Mod: s.modifiers()})
}

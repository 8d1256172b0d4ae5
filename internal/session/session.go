// Package session drives one annotation run: it walks the image list,
// owns the per-image mask, viewport and cursor state, and turns input
// events into mask edits, view changes and persistence.
package session

import (
	"image"
	"io"
	"log/slog"
	"path/filepath"

	"mask-annotator/internal/compose"
	"mask-annotator/internal/imageio"
	"mask-annotator/internal/labels"
	"mask-annotator/internal/mask"
	"mask-annotator/internal/store"
	"mask-annotator/internal/viewport"
	"mask-annotator/pkg/geometry"
)

// State identifies where the session is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateInteractive
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateInteractive:
		return "interactive"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Change identifies a kind of session update listeners can subscribe to.
type Change int

const (
	// ImageChanged fires when a new image becomes interactive.
	ImageChanged Change = iota
	// ControlsChanged fires when the mark radius or blend factor moves.
	ControlsChanged
	// ViewChanged fires when the next frame will differ: viewport, cursor,
	// mask or display toggles.
	ViewChanged
	// SessionDone fires once when the session terminates.
	SessionDone
)

// Store is the persistence sink the session writes through. *store.Store
// satisfies it.
type Store interface {
	LoadMask(imageName string, w, h int) (*mask.Mask, error)
	SaveMask(imageName string, m *mask.Mask) error
	CompletedAtStart(id string) bool
	AppendCompleted(id string) error
}

// Mark radius and blend factor bounds.
const (
	MinMarkRadius = 1
	MaxMarkRadius = 50
	MinBlend      = 0
	MaxBlend      = 100
)

// Input step sizes. The wheel zooms in fine steps, the f and g keys in
// coarse ones.
const (
	zoomStepWheel = 0.95
	zoomStepKey   = 0.8
	blendStep     = 5
	radiusStepKey = 5
)

// Config carries the run parameters.
type Config struct {
	ImageDir     string
	OutputDir    string
	StartIndex   int
	SkipTo       string
	MarkRadius   int
	BlendPercent int
	Logger       *slog.Logger
}

// DefaultConfig returns the stock run parameters.
func DefaultConfig() Config {
	return Config{
		OutputDir:    "GT",
		MarkRadius:   5,
		BlendPercent: 35,
	}
}

// Session owns all run state. It is single-goroutine: the GUI adapter
// dispatches every event from its own event thread and the session never
// locks.
type Session struct {
	cfg    Config
	logger *slog.Logger
	store  Store
	refs   labels.Index
	images []string

	state   State
	idx     int
	reached bool // skip-to target reached (or none requested)

	img        *image.RGBA
	mask       *mask.Mask
	vp         *viewport.Viewport
	display    image.Point
	displaySet bool

	cursor   geometry.PointInt
	radius   int
	blend    int
	showRefs bool
	showName bool

	listeners map[Change][]func()
}

// New builds a session over the listed image paths. Loading does not start
// until Start is called.
func New(cfg Config, images []string, st Store, refs labels.Index) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		refs:      refs,
		images:    images,
		state:     StateIdle,
		idx:       cfg.StartIndex,
		reached:   cfg.SkipTo == "",
		radius:    geometry.ClampInt(cfg.MarkRadius, MinMarkRadius, MaxMarkRadius),
		blend:     geometry.ClampInt(cfg.BlendPercent, MinBlend, MaxBlend),
		showRefs:  true,
		listeners: make(map[Change][]func()),
	}
}

// On registers a listener for a change kind. Listeners run synchronously
// on the dispatching goroutine.
func (s *Session) On(c Change, fn func()) {
	s.listeners[c] = append(s.listeners[c], fn)
}

func (s *Session) emit(c Change) {
	for _, fn := range s.listeners[c] {
		fn()
	}
}

// Start loads the first image, honoring the start index, the skip-to
// target and the completion ledger. The session ends immediately when
// nothing is left to annotate.
func (s *Session) Start() {
	if s.state != StateIdle {
		return
	}
	s.load(1)
}

// load walks the image list from the current index in travel direction
// dir until an image opens interactively or the list runs out. Images
// already completed in an earlier run are skipped, as is everything
// before the skip-to target; unreadable files are reported and passed
// over.
func (s *Session) load(dir int) {
	s.state = StateLoading
	for {
		if s.idx < 0 || s.idx >= len(s.images) {
			s.finish()
			return
		}
		path := s.images[s.idx]
		name := filepath.Base(path)
		id := store.Identity(name)

		if !s.reached {
			if id != s.cfg.SkipTo {
				s.idx++
				continue
			}
			// The requested target always opens, completed or not.
			s.reached = true
		} else if s.store.CompletedAtStart(id) {
			s.logger.Info("already annotated, skipping", "image", name)
			s.idx += dir
			continue
		}

		img, err := imageio.Load(path)
		if err != nil {
			s.logger.Warn("cannot read image, skipping", "image", name, "error", err)
			s.idx += dir
			continue
		}

		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		m, err := s.store.LoadMask(name, w, h)
		if err != nil {
			// The stored mask stays untouched on disk; skipping avoids
			// overwriting whatever is wrong with it.
			s.logger.Error("cannot read stored mask, skipping image", "image", name, "error", err)
			s.idx += dir
			continue
		}

		s.img = img
		s.mask = m
		s.vp = viewport.New(w, h)
		if !s.displaySet {
			s.display = image.Point{X: w, Y: h}
		}
		s.state = StateInteractive
		s.logger.Info("image loaded",
			"image", name, "index", s.idx, "count", len(s.images),
			"size", w*h, "marked", m.MarkedCount())
		s.emit(ImageChanged)
		return
	}
}

func (s *Session) finish() {
	s.state = StateDone
	s.img = nil
	s.mask = nil
	s.vp = nil
	s.logger.Info("annotation session finished")
	s.emit(SessionDone)
}

// advance persists the current mask and ledger entry, then loads the
// image delta steps away. On a persistence failure the session stays
// interactive on the same image and the error is returned.
func (s *Session) advance(delta int) error {
	name := filepath.Base(s.images[s.idx])
	if err := s.store.SaveMask(name, s.mask); err != nil {
		return err
	}
	if err := s.store.AppendCompleted(store.Identity(name)); err != nil {
		return err
	}

	dir := 1
	if delta < 0 {
		dir = -1
	}
	s.idx += delta
	s.load(dir)
	return nil
}

// quit ends the session without persisting the in-progress mask.
func (s *Session) quit() {
	s.logger.Info("quit requested, discarding in-progress mask",
		"image", s.CurrentName())
	s.finish()
}

// Dispatch applies one input event to the session. Display size reports
// apply in every state; everything else is ignored outside the
// interactive state.
func (s *Session) Dispatch(ev Event) error {
	if e, ok := ev.(ResizeEvent); ok {
		if e.Size.X >= 1 && e.Size.Y >= 1 {
			s.display = e.Size
			s.displaySet = true
		}
		return nil
	}
	if s.state != StateInteractive {
		return nil
	}

	switch e := ev.(type) {
	case PointerEvent:
		s.cursor = e.Pos
		if e.Primary || e.Secondary {
			src := s.vp.ToSource(e.Pos, s.display)
			s.mask.Paint(src, s.radius, e.Primary)
		}
		s.emit(ViewChanged)

	case WheelEvent:
		switch e.Mod {
		case ModFine:
			factor := zoomStepWheel
			if !e.In {
				factor = 1 / zoomStepWheel
			}
			s.vp.Zoom(factor, s.cursor, s.display)
			s.emit(ViewChanged)
		case ModCoarse:
			step := blendStep
			if !e.In {
				step = -blendStep
			}
			s.SetBlendPercent(s.blend + step)
		default:
			step := 1
			if !e.In {
				step = -1
			}
			s.SetMarkRadius(s.radius + step)
		}

	case CommandEvent:
		return s.command(e.Cmd)
	}
	return nil
}

func (s *Session) command(cmd Command) error {
	switch cmd {
	case CmdNext:
		return s.advance(1)
	case CmdPrev:
		return s.advance(-1)
	case CmdQuit:
		s.quit()

	case CmdZoomIn, CmdZoomOut:
		// Key zoom is ignored while the pointer sits beyond the display.
		if s.cursor.X > s.display.X || s.cursor.Y > s.display.Y {
			return nil
		}
		factor := zoomStepKey
		if cmd == CmdZoomOut {
			factor = 1 / zoomStepKey
		}
		s.vp.Zoom(factor, s.cursor, s.display)
		s.emit(ViewChanged)
	case CmdZoomReset:
		s.vp.Reset()
		s.emit(ViewChanged)

	case CmdPanLeft:
		s.pan(viewport.PanLeft)
	case CmdPanUp:
		s.pan(viewport.PanUp)
	case CmdPanRight:
		s.pan(viewport.PanRight)
	case CmdPanDown:
		s.pan(viewport.PanDown)

	case CmdToggleRefs:
		s.showRefs = !s.showRefs
		s.emit(ViewChanged)
	case CmdToggleFilename:
		s.showName = !s.showName
		s.emit(ViewChanged)

	case CmdGrowRadius:
		s.SetMarkRadius(s.radius + radiusStepKey)
	case CmdShrinkRadius:
		s.SetMarkRadius(s.radius - radiusStepKey)
	}
	return nil
}

func (s *Session) pan(dir viewport.Direction) {
	s.vp.Pan(dir)
	s.emit(ViewChanged)
}

// SetMarkRadius clamps and applies a new mark radius.
func (s *Session) SetMarkRadius(r int) {
	r = geometry.ClampInt(r, MinMarkRadius, MaxMarkRadius)
	if r == s.radius {
		return
	}
	s.radius = r
	s.emit(ControlsChanged)
}

// SetBlendPercent clamps and applies a new blend factor.
func (s *Session) SetBlendPercent(b int) {
	b = geometry.ClampInt(b, MinBlend, MaxBlend)
	if b == s.blend {
		return
	}
	s.blend = b
	s.emit(ControlsChanged)
}

// Frame renders the current display frame at the requested pixel size.
// The cursor indicator is mapped from event units into frame pixels when
// the two differ.
func (s *Session) Frame(displaySize image.Point) *image.RGBA {
	if s.state != StateInteractive || s.img == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	if displaySize.X < 1 || displaySize.Y < 1 {
		displaySize = s.display
	}

	cursor := geometry.NewPointInt(
		s.cursor.X*displaySize.X/s.display.X,
		s.cursor.Y*displaySize.Y/s.display.Y,
	)

	opts := compose.Options{
		BlendPercent:   s.blend,
		ReferenceRects: s.refs.Lookup(s.Identity()),
		ShowReferences: s.showRefs,
		Filename:       s.CurrentName(),
		ShowFilename:   s.showName,
		Cursor:         cursor,
		CursorRadius:   s.radius,
		ShowCursor:     true,
		DisplaySize:    displaySize,
	}
	return compose.Render(s.img, s.mask, s.vp.Rect(), opts)
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Index returns the current position in the image list.
func (s *Session) Index() int {
	return s.idx
}

// Count returns the image list length.
func (s *Session) Count() int {
	return len(s.images)
}

// CurrentName returns the current image's file name, empty when the
// session is not interactive.
func (s *Session) CurrentName() string {
	if s.idx < 0 || s.idx >= len(s.images) {
		return ""
	}
	return filepath.Base(s.images[s.idx])
}

// Identity returns the current image's ledger identity.
func (s *Session) Identity() string {
	return store.Identity(s.CurrentName())
}

// MarkRadius returns the current mark radius.
func (s *Session) MarkRadius() int {
	return s.radius
}

// BlendPercent returns the current blend factor.
func (s *Session) BlendPercent() int {
	return s.blend
}

// ShowReferences reports the reference-rectangle toggle.
func (s *Session) ShowReferences() bool {
	return s.showRefs
}

// ShowFilename reports the filename overlay toggle.
func (s *Session) ShowFilename() bool {
	return s.showName
}

// DisplaySize returns the display size events are mapped against.
func (s *Session) DisplaySize() image.Point {
	return s.display
}

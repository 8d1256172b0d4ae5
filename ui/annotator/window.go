package annotator

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"mask-annotator/internal/session"
	"mask-annotator/ui/prefs"
)

const appTitle = "Annotation Tool"

// Window is the annotation main window: the image surface in the center,
// Size and Blending sliders on top, a status bar at the bottom.
type Window struct {
	fyne.Window
	app     fyne.App
	sess    *session.Session
	prefs   *prefs.Prefs
	surface *Surface
	status  *widget.Label
	size    *widget.Slider
	blend   *widget.Slider

	shiftHeld bool
	ctrlHeld  bool
}

// New creates the annotation window over a started session.
func New(fyneApp fyne.App, sess *session.Session, appPrefs *prefs.Prefs) *Window {
	fyneApp.Settings().SetTheme(&annotatorTheme{})
	win := fyneApp.NewWindow(appTitle)

	w := &Window{
		Window: win,
		app:    fyneApp,
		sess:   sess,
		prefs:  appPrefs,
	}

	w.setupUI()
	w.setupKeys()
	w.setupListeners()
	w.restorePrefs()

	return w
}

// setupUI creates the window layout.
func (w *Window) setupUI() {
	w.surface = NewSurface(w.sess, w.modifiers, w.showError)

	w.size = widget.NewSlider(session.MinMarkRadius, session.MaxMarkRadius)
	w.size.SetValue(float64(w.sess.MarkRadius()))
	w.size.OnChanged = func(val float64) {
		w.sess.SetMarkRadius(int(val))
	}

	w.blend = widget.NewSlider(session.MinBlend, session.MaxBlend)
	w.blend.SetValue(float64(w.sess.BlendPercent()))
	w.blend.OnChanged = func(val float64) {
		w.sess.SetBlendPercent(int(val))
	}

	controls := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Size"), nil, w.size),
		container.NewBorder(nil, nil, widget.NewLabel("Blending"), nil, w.blend),
	)

	w.status = widget.NewLabel("")

	content := container.NewBorder(
		controls,                      // top
		container.NewPadded(w.status), // bottom
		nil,                           // left
		nil,                           // right
		w.surface,                     // center
	)
	w.SetContent(content)
	w.updateStatus()
}

// setupKeys installs the keyboard map on the window canvas. Letter
// bindings arrive as runes, Return/Backspace/Escape as key events, and
// the modifier keys are tracked for wheel input.
func (w *Window) setupKeys() {
	w.Canvas().SetOnTypedRune(w.typedRune)
	w.Canvas().SetOnTypedKey(w.typedKey)

	if deskCanvas, ok := w.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			w.setModifier(ev.Name, true)
		})
		deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			w.setModifier(ev.Name, false)
		})
	}
}

// setupListeners registers for session events.
func (w *Window) setupListeners() {
	w.sess.On(session.ImageChanged, func() {
		w.surface.Refresh()
		w.updateStatus()
	})
	w.sess.On(session.ViewChanged, func() {
		w.surface.Refresh()
	})
	w.sess.On(session.ControlsChanged, func() {
		w.syncSliders()
		w.surface.Refresh()
		w.updateStatus()
	})
	w.sess.On(session.SessionDone, func() {
		w.Close()
	})

	w.SetOnClosed(w.savePrefs)
}

func (w *Window) restorePrefs() {
	w.Resize(fyne.NewSize(float32(w.prefs.WindowWidth), float32(w.prefs.WindowHeight)))

	if !w.prefs.ShowReferences {
		w.dispatch(session.CommandEvent{Cmd: session.CmdToggleRefs})
	}
	if w.prefs.ShowFilename {
		w.dispatch(session.CommandEvent{Cmd: session.CmdToggleFilename})
	}
}

func (w *Window) savePrefs() {
	size := w.Canvas().Size()
	w.prefs.WindowWidth = float64(size.Width)
	w.prefs.WindowHeight = float64(size.Height)
	w.prefs.ShowReferences = w.sess.ShowReferences()
	w.prefs.ShowFilename = w.sess.ShowFilename()
	if err := w.prefs.Save(); err != nil {
		fmt.Printf("Warning: could not save preferences: %v\n", err)
	}
}

func (w *Window) setModifier(name fyne.KeyName, held bool) {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		w.shiftHeld = held
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		w.ctrlHeld = held
	}
}

// modifiers maps the held modifier keys onto the wheel modes: control
// zooms, shift blends, unmodified adjusts the marker size.
func (w *Window) modifiers() session.Modifier {
	switch {
	case w.ctrlHeld:
		return session.ModFine
	case w.shiftHeld:
		return session.ModCoarse
	}
	return session.ModNone
}

func (w *Window) typedRune(r rune) {
	switch r {
	case 'n':
		w.dispatch(session.CommandEvent{Cmd: session.CmdNext})
	case 'p':
		w.dispatch(session.CommandEvent{Cmd: session.CmdPrev})
	case 'q':
		w.dispatch(session.CommandEvent{Cmd: session.CmdQuit})
	case 'f':
		w.dispatch(session.CommandEvent{Cmd: session.CmdZoomIn})
	case 'g':
		w.dispatch(session.CommandEvent{Cmd: session.CmdZoomOut})
	case 'G':
		w.dispatch(session.CommandEvent{Cmd: session.CmdZoomReset})
	case 'a':
		w.dispatch(session.CommandEvent{Cmd: session.CmdPanLeft})
	case 'w':
		w.dispatch(session.CommandEvent{Cmd: session.CmdPanUp})
	case 'd':
		w.dispatch(session.CommandEvent{Cmd: session.CmdPanRight})
	case 's':
		w.dispatch(session.CommandEvent{Cmd: session.CmdPanDown})
	case 'i':
		w.dispatch(session.CommandEvent{Cmd: session.CmdToggleFilename})
	case 'z':
		w.dispatch(session.CommandEvent{Cmd: session.CmdToggleRefs})
	case '+':
		w.dispatch(session.CommandEvent{Cmd: session.CmdGrowRadius})
	case '-':
		w.dispatch(session.CommandEvent{Cmd: session.CmdShrinkRadius})
	}
}

func (w *Window) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyReturn, fyne.KeyEnter:
		w.dispatch(session.CommandEvent{Cmd: session.CmdNext})
	case fyne.KeyBackspace:
		w.dispatch(session.CommandEvent{Cmd: session.CmdPrev})
	case fyne.KeyEscape:
		w.dispatch(session.CommandEvent{Cmd: session.CmdQuit})
	}
}

func (w *Window) dispatch(ev session.Event) {
	if err := w.sess.Dispatch(ev); err != nil {
		dialog.ShowError(err, w.Window)
	}
}

func (w *Window) showError(err error) {
	dialog.ShowError(err, w.Window)
}

// syncSliders pushes session values back into the sliders after wheel or
// key adjustments.
func (w *Window) syncSliders() {
	w.size.SetValue(float64(w.sess.MarkRadius()))
	w.blend.SetValue(float64(w.sess.BlendPercent()))
}

// updateStatus refreshes the status bar text.
func (w *Window) updateStatus() {
	w.status.SetText(fmt.Sprintf("%s  (%d/%d)  marker %dpx  blending %d%%",
		w.sess.CurrentName(), w.sess.Index()+1, w.sess.Count(),
		w.sess.MarkRadius(), w.sess.BlendPercent()))
}

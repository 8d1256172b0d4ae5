package session

import (
	"image"

	"mask-annotator/pkg/geometry"
)

// Event is one input occurrence delivered to Dispatch. Payloads are
// toolkit-agnostic; the GUI adapter translates its native events into
// these.
type Event interface {
	isEvent()
}

// PointerEvent reports the pointer position in display coordinates with
// the currently held buttons. A stream of these with a button held paints
// a continuous stroke; primary marks, secondary clears.
type PointerEvent struct {
	Pos       geometry.PointInt
	Primary   bool
	Secondary bool
}

// WheelEvent is one discrete wheel step. In means the step that zooms in
// when the fine modifier is held.
type WheelEvent struct {
	In  bool
	Mod Modifier
}

// CommandEvent carries a named operator command, usually from a key.
type CommandEvent struct {
	Cmd Command
}

// ResizeEvent reports the display surface size, in the units pointer
// coordinates arrive in.
type ResizeEvent struct {
	Size image.Point
}

func (PointerEvent) isEvent() {}
func (WheelEvent) isEvent()   {}
func (CommandEvent) isEvent() {}
func (ResizeEvent) isEvent()  {}

// Modifier selects what a wheel step adjusts.
type Modifier int

const (
	// ModNone steps the mark radius.
	ModNone Modifier = iota
	// ModFine steps the zoom.
	ModFine
	// ModCoarse steps the blend factor.
	ModCoarse
)

// Command identifies a discrete operator command.
type Command int

const (
	CmdNone Command = iota
	CmdNext
	CmdPrev
	CmdQuit
	CmdZoomIn
	CmdZoomOut
	CmdZoomReset
	CmdPanLeft
	CmdPanUp
	CmdPanRight
	CmdPanDown
	CmdToggleRefs
	CmdToggleFilename
	CmdGrowRadius
	CmdShrinkRadius
)

// String returns the command name for logs.
func (c Command) String() string {
	switch c {
	case CmdNext:
		return "next"
	case CmdPrev:
		return "previous"
	case CmdQuit:
		return "quit"
	case CmdZoomIn:
		return "zoom-in"
	case CmdZoomOut:
		return "zoom-out"
	case CmdZoomReset:
		return "zoom-out-full"
	case CmdPanLeft:
		return "pan-left"
	case CmdPanUp:
		return "pan-up"
	case CmdPanRight:
		return "pan-right"
	case CmdPanDown:
		return "pan-down"
	case CmdToggleRefs:
		return "toggle-reference-display"
	case CmdToggleFilename:
		return "toggle-filename-display"
	case CmdGrowRadius:
		return "grow-mark-radius"
	case CmdShrinkRadius:
		return "shrink-mark-radius"
	}
	return "none"
}

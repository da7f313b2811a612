// Package display defines the backend-agnostic contract between
// internal/app's event loop and a concrete rendering surface (GUI or
// headless). internal/displayfyne and internal/displaytcell each
// implement Backend.
package display

import (
	"image/color"

	"github.com/minitermproject/fyneterm/internal/engine"
)

// EventKind identifies the shape of an Event.
type EventKind int

const (
	EventResize EventKind = iota
	EventKeyPress
	EventMouseButton
	EventMouseMotion
	EventPaste
	EventClose
)

// MouseButton mirrors the three buttons the engine's mouse-reporting
// modes care about.
type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
	MouseWheelUp
	MouseWheelDown
)

// Event is a single input/lifecycle notification from a Backend.
type Event struct {
	Kind EventKind

	// EventResize
	Rows, Cols int

	// EventKeyPress
	Rune rune
	Key  string // named keys: "Enter", "Backspace", "Up", "Down", "Left", "Right", "Tab", "Escape", etc.
	Ctrl, Alt, Shift bool

	// EventMouseButton / EventMouseMotion
	Button     MouseButton
	Row, Col   int
	Pressed    bool

	// EventPaste
	Text string
}

// Clipboard abstracts the OS clipboard so displayfyne and displaytcell
// can each supply their own implementation (fyne's driver clipboard vs.
// github.com/atotto/clipboard for the headless backend).
type Clipboard interface {
	Content() string
	SetContent(s string)
}

// Backend is a rendering surface driven by internal/app. Draw is called
// after every engine mutation that could change on-screen content;
// implementations are expected to be cheap to call often rather than
// diffing internally.
type Backend interface {
	// FontMetrics reports the pixel size of one monospace cell, used to
	// compute PTY window-size pixel dimensions.
	FontMetrics() (cellWidth, cellHeight float32)

	// Draw renders the given scrollback window, live grid, and cursor
	// position; the selection is not highlighted. scrollOffset is zero or
	// negative: -scrollOffset scrollback lines above the live grid are
	// scrolled into view (0 means the live grid is fully visible).
	Draw(eng *engine.Engine, scrollOffset int)

	// Clipboard returns the backend's clipboard implementation.
	Clipboard() Clipboard

	// Events returns the channel of input/lifecycle events; closed when
	// the backend is torn down.
	Events() <-chan Event

	// SetTitle is called when the engine observes an OSC 0/2 title
	// change from the child process.
	SetTitle(title string)

	// Close tears down the backend's resources (window, screen).
	Close() error
}

// DefaultForeground and DefaultBackground are the theme colors a Backend
// substitutes for engine.DefaultColor; kept here rather than hardcoded
// in each backend so both agree on a fallback absent a theme.
var (
	DefaultForeground color.Color = color.White
	DefaultBackground color.Color = color.Black
)

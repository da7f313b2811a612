package engine

// BufferID selects which ScreenBuffer the engine is currently mutating.
type BufferID int

const (
	Primary BufferID = iota
	Alternate
)

// ScreenBuffer is a Grid plus its own cursor and saved-cursor slot (§3).
// Exactly two exist, one per BufferID; grid operations are written against
// whichever is currently active rather than branching on BufferID (§9).
type ScreenBuffer struct {
	Grid                 Grid
	CursorRow, CursorCol int
	SavedRow, SavedCol   int
}

// MouseMode tracks how much mouse activity is reported to the PTY.
type MouseMode int

const (
	MouseOff MouseMode = iota
	MouseNormal
	MouseButtonEvent
	MouseAnyEvent
)

// SgrState holds the palette indices used for newly written cells.
type SgrState struct {
	Fg, Bg uint8
}

// DefaultSgr returns the reset SGR state (both colors default).
func DefaultSgr() SgrState {
	return SgrState{Fg: DefaultColor, Bg: DefaultColor}
}

// Modes holds the DEC/ANSI toggle state that isn't part of a buffer.
type Modes struct {
	Wrap         bool
	MouseEnabled bool
	MouseMode    MouseMode
}

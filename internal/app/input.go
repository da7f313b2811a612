package app

import (
	"fmt"

	"github.com/minitermproject/fyneterm/internal/display"
	"github.com/minitermproject/fyneterm/internal/engine"
)

// MouseScrollLines is the fallback wheel-scroll distance used when an
// Engine carries no EngineOptions of its own (§6 configuration constants).
// Engine.Options.MouseScrollLines takes precedence when set.
const MouseScrollLines = 3

// encodeKey implements the keyboard→PTY byte translation table (§6).
// Shift+Up/Down are handled by the caller before reaching here, since
// they adjust scroll offset rather than writing to the PTY.
func encodeKey(ev display.Event) []byte {
	switch ev.Key {
	case "Enter", "Return":
		return []byte{'\r'}
	case "Backspace":
		return []byte{0x08}
	case "Tab":
		return []byte{'\t'}
	case "Up":
		return arrowBytes('A', ev)
	case "Down":
		return arrowBytes('B', ev)
	case "Right":
		return arrowBytes('C', ev)
	case "Left":
		return arrowBytes('D', ev)
	case "Escape":
		return []byte{0x1b}
	}

	if ev.Ctrl && ev.Rune == 'c' || ev.Ctrl && ev.Rune == 'C' {
		return []byte{0x03}
	}
	if ev.Rune != 0 {
		return []byte(string(ev.Rune))
	}
	return nil
}

// arrowBytes writes CSI <final> normally, or CSI 1;2 <final> when Shift
// is the only modifier held (§6, "Shift + arrow").
func arrowBytes(final byte, ev display.Event) []byte {
	if ev.Shift && !ev.Ctrl && !ev.Alt {
		return []byte(fmt.Sprintf("\x1b[1;2%c", final))
	}
	return []byte{0x1b, '[', final}
}

// encodeMouseButton implements the button press/release translation
// (§6 Mouse → PTY). Returns nil when mouse reporting is off.
func encodeMouseButton(eng *engine.Engine, ev display.Event) []byte {
	if eng.ModesState().MouseMode == engine.MouseOff {
		return nil
	}
	if ev.Pressed {
		return []byte{0x1b, '[', 'M', 32, byte(ev.Col + 1 + 32), byte(ev.Row + 1 + 32)}
	}
	return []byte{0x1b, '[', 'M', '!', byte(ev.Col + 1 + 32), byte(ev.Row + 1 + 32)}
}

// encodeMouseMotion implements motion-while-selecting reporting, only
// active in MouseButtonEvent mode or higher.
func encodeMouseMotion(eng *engine.Engine, ev display.Event) []byte {
	mode := eng.ModesState().MouseMode
	if mode != engine.MouseButtonEvent && mode != engine.MouseAnyEvent {
		return nil
	}
	return []byte{0x1b, '[', 'M', '"', byte(ev.Col + 1 + 32), byte(ev.Row + 1 + 32)}
}

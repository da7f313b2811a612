package engine

import (
	"golang.org/x/text/width"
)

// SanitizePaste prepares clipboard text for injection into the PTY. Cells
// are single printable bytes (§3 Non-goals: no Unicode shaping), so
// fullwidth/halfwidth variants are folded to their narrow form with
// width.Narrow before anything outside the printable ASCII range plus
// newline/carriage-return is dropped.
func SanitizePaste(s string) []byte {
	narrow := width.Narrow.String(s)

	out := make([]byte, 0, len(narrow))
	for _, r := range narrow {
		switch {
		case r == '\n' || r == '\r':
			out = append(out, byte(r))
		case r >= 0x20 && r < 0x7f:
			out = append(out, byte(r))
		}
	}
	return out
}

package engine

import "image/color"

// NumColors is the size of the fixed 16-entry ANSI color table (§3).
const NumColors = 16

// Palette is the fixed 16-entry color table that cells index into.
// Index 0..7 are the basic colors, 8..15 their bright counterparts.
type Palette [NumColors]color.Color

// DefaultPalette carries the same basic/bright RGBA values the fyne
// terminal widget falls back to when no theme override is present.
var DefaultPalette = Palette{
	&color.RGBA{0, 0, 0, 255},       // 0 black
	&color.RGBA{170, 0, 0, 255},     // 1 red
	&color.RGBA{0, 170, 0, 255},     // 2 green
	&color.RGBA{170, 170, 0, 255},   // 3 yellow
	&color.RGBA{0, 0, 170, 255},     // 4 blue
	&color.RGBA{170, 0, 170, 255},   // 5 magenta
	&color.RGBA{0, 255, 255, 255},   // 6 cyan
	&color.RGBA{170, 170, 170, 255}, // 7 white

	&color.RGBA{85, 85, 85, 255},    // 8 bright black (gray)
	&color.RGBA{255, 85, 85, 255},   // 9 bright red
	&color.RGBA{85, 255, 85, 255},   // 10 bright green
	&color.RGBA{255, 255, 85, 255},  // 11 bright yellow
	&color.RGBA{85, 85, 255, 255},   // 12 bright blue
	&color.RGBA{255, 85, 255, 255},  // 13 bright magenta
	&color.RGBA{85, 255, 255, 255},  // 14 bright cyan
	&color.RGBA{255, 255, 255, 255}, // 15 bright white
}

// DefaultColor is the sentinel fg/bg index a cell carries when no SGR
// color has been selected. It is outside the 16-entry table; rendering
// backends map it to a theme foreground/background rather than a
// palette slot.
const DefaultColor uint8 = NumColors

// Resolve returns the color for a cell's fg/bg index, falling back to
// the supplied default for the DefaultColor sentinel.
func (p Palette) Resolve(index uint8, fallback color.Color) color.Color {
	if int(index) >= len(p) {
		return fallback
	}
	return p[index]
}

// ThemeColorLookup asks a display theme for one of the 16 named ANSI
// colors ("ansiBlack".."ansiWhite", "ansiBrightBlack".."ansiBrightWhite"),
// returning ok=false when the theme has no opinion (transparent or nil).
// cmd/fyneterm supplies an implementation (ansiColorLookup) backed by
// fyne.Theme.Color.
type ThemeColorLookup func(name string) (c color.Color, ok bool)

var ansiColorNames = [NumColors]string{
	"ansiBlack", "ansiRed", "ansiGreen", "ansiYellow",
	"ansiBlue", "ansiMagenta", "ansiCyan", "ansiWhite",
	"ansiBrightBlack", "ansiBrightRed", "ansiBrightGreen", "ansiBrightYellow",
	"ansiBrightBlue", "ansiBrightMagenta", "ansiBrightCyan", "ansiBrightWhite",
}

// FromTheme builds a Palette by asking lookup for each of the 16 ANSI
// color names, falling back to DefaultPalette's hardcoded RGBA entry
// wherever the theme has no opinion (§4.6, mirrors getBasicColor /
// getBrightColor's theme-then-fallback pattern).
func FromTheme(lookup ThemeColorLookup) Palette {
	var p Palette
	for i, name := range ansiColorNames {
		if c, ok := lookup(name); ok {
			p[i] = c
			continue
		}
		p[i] = DefaultPalette[i]
	}
	return p
}

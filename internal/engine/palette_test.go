package engine

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteResolveInRange(t *testing.T) {
	fallback := color.White
	got := DefaultPalette.Resolve(1, fallback)
	assert.Equal(t, DefaultPalette[1], got)
}

func TestPaletteResolveSentinelUsesFallback(t *testing.T) {
	fallback := color.White
	got := DefaultPalette.Resolve(DefaultColor, fallback)
	assert.Equal(t, fallback, got)
}

func TestPaletteHasSixteenEntries(t *testing.T) {
	assert.Len(t, DefaultPalette, NumColors)
}

func TestFromThemeFallsBackPerEntry(t *testing.T) {
	custom := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	lookup := func(name string) (color.Color, bool) {
		if name == "ansiRed" {
			return custom, true
		}
		return nil, false
	}

	p := FromTheme(lookup)
	assert.Equal(t, custom, p[1])
	assert.Equal(t, DefaultPalette[0], p[0])
	assert.Equal(t, DefaultPalette[15], p[15])
}

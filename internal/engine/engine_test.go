package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// gridText renders a Grid's active rows×cols region as newline-joined rows,
// with zero cells as spaces, mirroring the teacher's content.Text() helper.
func gridText(g *Grid, rows, cols int) string {
	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ch := g.Cell(r, c).Ch
			if ch == 0 {
				ch = ' '
			}
			b.WriteByte(ch)
		}
		if r != rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func TestNewWithOptionsAppliesScrollbackCapacity(t *testing.T) {
	e := NewWithOptions(2, 5, EngineOptions{ScrollbackCapacity: 3})
	e.Write([]byte("a\nb\nc\nd\n"))
	assert.Equal(t, 3, e.Scrollback().Len(), "capacity 3 caps retained scrollback rows at 3")
}

func TestNewWithOptionsFallsBackToDefaultPaletteWhenUnset(t *testing.T) {
	e := NewWithOptions(2, 5, EngineOptions{})
	assert.Equal(t, DefaultPalette, e.Palette)
}

func TestNewUsesDefaultEngineOptions(t *testing.T) {
	e := New(2, 5)
	assert.Equal(t, DefaultEngineOptions().MouseScrollLines, e.Options.MouseScrollLines)
	assert.Equal(t, ScrollbackSize, e.Scrollback().Cap())
}

func TestWriteAdvancesCursorAndWraps(t *testing.T) {
	e := New(2, 5)
	e.Write([]byte("Hello"))
	row, col := e.Cursor()
	assert.Equal(t, 1, row, "writing exactly cols bytes with wrap set leaves the cursor at (1, 0)")
	assert.Equal(t, 0, col)

	e.Write([]byte("!"))
	row, col = e.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
	assert.Equal(t, "Hello\n!", strings.TrimRight(gridText(e.Grid(), 2, 5), "\n "))
}

// trimRows trims trailing spaces from each row of a gridText rendering
// independently, then rejoins, since a fixed-width grid always pads
// short rows out to cols.
func trimRows(text string) string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func TestNewlineAndCarriageReturn(t *testing.T) {
	e := New(2, 10)
	e.Write([]byte("Hi\n"))
	row, col := e.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)

	e.Write([]byte("world"))
	got := trimRows(gridText(e.Grid(), 2, 10))
	assert.Equal(t, "Hi\nworld", got)
}

func TestBackspaceIsDestructive(t *testing.T) {
	e := New(1, 5)
	e.Write([]byte("Hi"))
	e.Write([]byte{cC0Backspace})
	row, col := e.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, col)
	assert.Equal(t, "H", strings.TrimRight(gridText(e.Grid(), 1, 5), " "))
}

func TestCursorMotionCSI(t *testing.T) {
	e := New(5, 10)
	e.Write([]byte("\x1b[3;4H"))
	row, col := e.Cursor()
	assert.Equal(t, 2, row)
	assert.Equal(t, 3, col)

	e.Write([]byte("\x1b[2C"))
	_, col = e.Cursor()
	assert.Equal(t, 5, col)

	e.Write([]byte("\x1b[1A"))
	row, _ = e.Cursor()
	assert.Equal(t, 1, row)
}

func TestCursorMotionClampsToGrid(t *testing.T) {
	e := New(2, 2)
	e.Write([]byte("\x1b[99;99H"))
	row, col := e.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)

	e.Write([]byte("\x1b[50D"))
	_, col = e.Cursor()
	assert.Equal(t, 0, col)
}

func TestEraseInLine(t *testing.T) {
	e := New(2, 5)
	e.Write([]byte("Hello"))
	e.Write([]byte("\x1b[H\x1b[2C")) // home, then move right 2
	e.Write([]byte("\x1b[K"))
	got := strings.TrimRight(gridText(e.Grid(), 2, 5), " \n")
	assert.Equal(t, "He", got)
}

func TestEraseInDisplayModes(t *testing.T) {
	e := New(2, 5)
	e.Write([]byte("Hello"))
	e.Write([]byte("\x1b[2J"))
	assert.Equal(t, "", strings.TrimRight(gridText(e.Grid(), 2, 5), " \n"))
	row, col := e.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)
}

func TestSgrColorsRoundTrip(t *testing.T) {
	e := New(1, 5)
	e.Write([]byte("\x1b[31;44mX"))
	assert.Equal(t, uint8(1), e.active().Grid.Cell(0, 0).Fg)
	assert.Equal(t, uint8(4), e.active().Grid.Cell(0, 0).Bg)

	e.Write([]byte("\x1b[0mY"))
	assert.Equal(t, DefaultColor, e.active().Grid.Cell(0, 1).Fg)
	assert.Equal(t, DefaultColor, e.active().Grid.Cell(0, 1).Bg)
}

func TestSgrBrightColors(t *testing.T) {
	e := New(1, 2)
	e.Write([]byte("\x1b[91;102mX"))
	assert.Equal(t, uint8(9), e.active().Grid.Cell(0, 0).Fg)
	assert.Equal(t, uint8(10), e.active().Grid.Cell(0, 0).Bg)
}

func TestAlternateBufferRoundTrip(t *testing.T) {
	e := New(2, 5)
	e.Write([]byte("Hello"))
	e.Write([]byte("\x1b[?1049h"))
	assert.Equal(t, Alternate, e.ActiveBuffer())
	row, col := e.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)

	e.Write([]byte("Alt"))
	assert.Equal(t, "Alt", strings.TrimRight(gridText(e.Grid(), 2, 5), " \n"))

	e.Write([]byte("\x1b[?1049l"))
	assert.Equal(t, Primary, e.ActiveBuffer())
	row, col = e.Cursor()
	assert.Equal(t, 0, row, "returning from the alternate buffer resets to (0,0) rather than restoring")
	assert.Equal(t, 0, col)
	assert.Equal(t, "Hello", strings.TrimRight(gridText(e.Grid(), 2, 5), " \n"))
}

func TestScrollRegionConfinesScrolling(t *testing.T) {
	e := New(5, 10)
	e.Write([]byte("\x1b[2;4r")) // rows 2..4 (1-based) scroll
	top, bottom := e.ScrollRegion()
	assert.Equal(t, 1, top)
	assert.Equal(t, 3, bottom)

	for i := 1; i <= 5; i++ {
		e.Write([]byte("line\n"))
	}
	// cursor stays pinned at the region's bottom once it's been reached
	row, _ := e.Cursor()
	assert.Equal(t, 3, row)
}

func TestScrollPushesToScrollback(t *testing.T) {
	e := New(2, 5)
	e.Write([]byte("one\n"))
	e.Write([]byte("two\n"))
	assert.Equal(t, 1, e.Scrollback().Len())
	assert.Equal(t, byte('o'), e.Scrollback().At(0)[0].Ch)

	e.Write([]byte("three"))
	assert.Equal(t, 2, e.Scrollback().Len(), "writing a full row that wraps retires another line")
	assert.Equal(t, byte('t'), e.Scrollback().At(1)[0].Ch)
}

func TestCursorSaveRestore(t *testing.T) {
	e := New(5, 10)
	e.Write([]byte("\x1b[3;3H"))
	e.Write([]byte{cC0Escape, '7'})
	e.Write([]byte("\x1b[1;1H"))
	e.Write([]byte{cC0Escape, '8'})
	row, col := e.Cursor()
	assert.Equal(t, 2, row)
	assert.Equal(t, 2, col)
}

func TestInsertBlanksAndDeleteChars(t *testing.T) {
	e := New(2, 5)
	e.Write([]byte("Hello"))
	e.Write([]byte("\x1b[H\x1b[2C"))
	e.Write([]byte("\x1b[2@"))
	// inserting blanks within a fixed-width row shifts the first 'l' right
	// two and drops the trailing "lo" that no longer fits (§4.1
	// insert_blanks).
	assert.Equal(t, "He  l", strings.TrimRight(gridText(e.Grid(), 2, 5), " \n"))

	e.Write([]byte("\x1b[3P"))
	assert.Equal(t, "He", strings.TrimRight(gridText(e.Grid(), 2, 5), " \n"))
}

func TestEraseCharsDoesNotShift(t *testing.T) {
	e := New(2, 10)
	e.Write([]byte("Hello"))
	e.Write([]byte("\x1b[H\x1b[1C"))
	e.Write([]byte("\x1b[3X"))
	got := strings.TrimRight(gridText(e.Grid(), 2, 10), " \n")
	assert.Equal(t, "H   o", got)
}

func TestWrapModeCanBeDisabled(t *testing.T) {
	e := New(1, 3)
	e.Write([]byte("\x1b[?7l"))
	e.Write([]byte("abcdef"))
	_, col := e.Cursor()
	assert.Equal(t, 3, col)
	assert.Equal(t, "abf", gridText(e.Grid(), 1, 3), "once pinned at cols, further writes overwrite the rightmost cell")
}

func TestMouseModeToggles(t *testing.T) {
	e := New(5, 5)
	e.Write([]byte("\x1b[?1000h"))
	assert.True(t, e.ModesState().MouseEnabled)
	assert.Equal(t, MouseNormal, e.ModesState().MouseMode)

	e.Write([]byte("\x1b[?1000l"))
	assert.False(t, e.ModesState().MouseEnabled)
	assert.Equal(t, MouseOff, e.ModesState().MouseMode)
}

func TestOscTitleCallback(t *testing.T) {
	e := New(2, 5)
	var got string
	e.OnTitle = func(s string) { got = s }
	e.Write([]byte("\x1b]0;my title\x07"))
	assert.Equal(t, "my title", got)
}

func TestOscDirectoryCallback(t *testing.T) {
	e := New(2, 5)
	var got string
	e.OnDirectory = func(s string) { got = s }
	e.Write([]byte("\x1b]7;/home/me\x07"))
	assert.Equal(t, "/home/me", got)
}

func TestOscPromptMarkerCallback(t *testing.T) {
	e := New(2, 5)
	var markers []string
	e.OnPromptMarker = func(marker string) { markers = append(markers, marker) }
	e.Write([]byte("\x1b]133;A\x07\x1b]133;B\x07\x1b]133;C\x07\x1b]133;D;0\x07"))
	assert.Equal(t, []string{"A", "B", "C", "D"}, markers)
}

func TestApcHandlerDispatchesRegisteredPrefix(t *testing.T) {
	e := New(2, 5)
	var got string
	e.RegisterAPCHandler("tmux;", func(arg string) { got = arg })
	e.Write(append([]byte("\x1b_tmux;hello"), cC0Escape))
	assert.Equal(t, "hello", got)
}

func TestApcHandlerIgnoresUnregisteredPrefix(t *testing.T) {
	e := New(2, 5)
	called := false
	e.RegisterAPCHandler("tmux;", func(arg string) { called = true })
	e.Write(append([]byte("\x1b_screen;hello"), cC0Escape))
	assert.False(t, called)
}

func TestUnterminatedCsiDoesNotHang(t *testing.T) {
	e := New(2, 5)
	e.Write([]byte("\x1b["))
	for i := 0; i < maxCsiLen+10; i++ {
		e.Write([]byte("9"))
	}
	// the overflow must have returned the parser to Ground; a clean CSI
	// sequence right after should dispatch normally rather than being
	// swallowed as stray parameter bytes of a stuck sequence.
	e.Write([]byte("\x1b[1;1H"))
	row, col := e.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)
}

func TestSplitEscapeAcrossWrites(t *testing.T) {
	e := New(5, 10)
	e.Write([]byte("\x1b["))
	e.Write([]byte("3;"))
	e.Write([]byte("4H"))
	row, col := e.Cursor()
	assert.Equal(t, 2, row)
	assert.Equal(t, 3, col)
}

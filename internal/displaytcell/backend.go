// Package displaytcell implements display.Backend on top of
// gdamore/tcell/v2, the same library and event-pump shape
// daisied-aln's ui.Terminal uses (PostEventWait + HandleKey/HandleMouse),
// adapted to drive an internal/engine.Engine instead of owning ANSI
// parser state itself. It gives the terminal a second, headless-capable
// display so the engine/display contract is exercised without Fyne.
package displaytcell

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/minitermproject/fyneterm/internal/display"
	"github.com/minitermproject/fyneterm/internal/engine"
)

// Backend is a tcell-backed display.Backend.
type Backend struct {
	screen  tcell.Screen
	palette engine.Palette
	events  chan display.Event

	selecting bool
}

// NewScreen builds and initializes a real terminal tcell.Screen, the way
// daisied-aln's editor bootstraps its own screen before constructing a
// Terminal.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tcell: new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("tcell: init screen: %w", err)
	}
	screen.EnableMouse()
	return screen, nil
}

// New wraps an already-initialized tcell.Screen as a display.Backend.
func New(screen tcell.Screen) *Backend {
	return &Backend{
		screen:  screen,
		palette: engine.DefaultPalette,
		events:  make(chan display.Event, 64),
	}
}

// SetPalette overrides the default 16-entry palette.
func (b *Backend) SetPalette(p engine.Palette) {
	b.palette = p
}

// Size reports the screen's character-cell dimensions.
func (b *Backend) Size() (rows, cols int) {
	cols, rows = b.screen.Size()
	return rows, cols
}

// FontMetrics reports 1x1: a terminal screen's native unit is already a
// character cell, unlike Fyne's pixel canvas.
func (b *Backend) FontMetrics() (float32, float32) {
	return 1, 1
}

// Draw repaints the screen from eng's grid and scrollback, honoring
// scrollOffset exactly as displayfyne.Backend.Draw does, by walking the
// same unified scrollback+live coordinate space.
func (b *Backend) Draw(eng *engine.Engine, scrollOffset int) {
	rows, cols := eng.Rows, eng.Cols
	sb := eng.Scrollback()
	sbLen := sb.Len()
	cursorRow, cursorCol := eng.Cursor()

	for r := 0; r < rows; r++ {
		absoluteRow := sbLen + scrollOffset + r
		var cells []engine.Cell
		switch {
		case absoluteRow < sbLen:
			row := sb.At(absoluteRow)
			cells = row[:cols]
		default:
			liveRow := absoluteRow - sbLen
			if liveRow < 0 || liveRow >= rows {
				cells = make([]engine.Cell, cols)
			} else {
				g := eng.Grid()
				cells = make([]engine.Cell, cols)
				for c := 0; c < cols; c++ {
					cells[c] = g.Cell(liveRow, c)
				}
			}
		}

		for c := 0; c < cols; c++ {
			ch := rune(cells[c].Ch)
			if ch == 0 || runewidth.RuneWidth(ch) == 0 {
				ch = ' '
			}
			style := tcell.StyleDefault.
				Foreground(b.cellColor(cells[c].Fg, true)).
				Background(b.cellColor(cells[c].Bg, false))
			b.screen.SetContent(c, r, ch, nil, style)
		}
	}

	if scrollOffset == 0 && cursorRow < rows && cursorCol < cols {
		b.screen.ShowCursor(cursorCol, cursorRow)
	} else {
		b.screen.HideCursor()
	}
	b.screen.Show()
}

func (b *Backend) cellColor(idx uint8, fg bool) tcell.Color {
	def := display.DefaultBackground
	if fg {
		def = display.DefaultForeground
	}
	c := b.palette.Resolve(idx, def)
	r, g, bl, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(bl>>8))
}

// SetTitle writes the xterm OSC 0 title-setting sequence directly to the
// controlling terminal, since tcell.Screen exposes no title API of its
// own.
func (b *Backend) SetTitle(title string) {
	fmt.Fprintf(os.Stdout, "\x1b]0;%s\x07", title)
}

// Clipboard uses the OS clipboard via atotto/clipboard, letting this
// backend (and the cmd/fynetermcli driver built on it) copy/paste
// outside of any GUI event loop.
func (b *Backend) Clipboard() display.Clipboard {
	return osClipboard{}
}

type osClipboard struct{}

func (osClipboard) Content() string {
	text, _ := clipboard.ReadAll()
	return text
}

func (osClipboard) SetContent(s string) {
	_ = clipboard.WriteAll(s)
}

// Events implements display.Backend.
func (b *Backend) Events() <-chan display.Event {
	return b.events
}

// Close tears down the tcell screen.
func (b *Backend) Close() error {
	b.screen.Fini()
	close(b.events)
	return nil
}

// Pump blocks, translating tcell events into display.Events until the
// screen is finalized, mirroring the teacher's PostEventWait consumer
// loop but pushing onto this backend's event channel instead of directly
// mutating terminal state.
func (b *Backend) Pump() {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		switch e := ev.(type) {
		case *tcell.EventResize:
			cols, rows := e.Size()
			b.publish(display.Event{Kind: display.EventResize, Rows: rows, Cols: cols})

		case *tcell.EventKey:
			b.handleKey(e)

		case *tcell.EventMouse:
			b.handleMouse(e)
		}
	}
}

func (b *Backend) publish(ev display.Event) {
	select {
	case b.events <- ev:
	default:
	}
}

var namedKeys = map[tcell.Key]string{
	tcell.KeyEnter:     "Enter",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyTab:       "Tab",
	tcell.KeyUp:        "Up",
	tcell.KeyDown:      "Down",
	tcell.KeyLeft:      "Left",
	tcell.KeyRight:     "Right",
	tcell.KeyEscape:    "Escape",
}

func (b *Backend) handleKey(e *tcell.EventKey) {
	mod := e.Modifiers()
	base := display.Event{
		Kind:  display.EventKeyPress,
		Ctrl:  mod&tcell.ModCtrl != 0,
		Alt:   mod&tcell.ModAlt != 0,
		Shift: mod&tcell.ModShift != 0,
	}

	if name, ok := namedKeys[e.Key()]; ok {
		base.Key = name
		b.publish(base)
		return
	}

	if e.Key() == tcell.KeyRune {
		base.Rune = e.Rune()
		b.publish(base)
		return
	}

	// Ctrl+<letter> arrives as a control byte rather than KeyRune; recover
	// the letter so encodeKey's Ctrl-handling table still matches it.
	if e.Key() >= tcell.KeyCtrlA && e.Key() <= tcell.KeyCtrlZ {
		base.Ctrl = true
		base.Rune = rune('a' + (e.Key() - tcell.KeyCtrlA))
		b.publish(base)
	}
}

func (b *Backend) handleMouse(e *tcell.EventMouse) {
	col, row := e.Position()
	btns := e.Buttons()

	switch {
	case btns&tcell.WheelUp != 0:
		b.publish(display.Event{Kind: display.EventMouseButton, Button: display.MouseWheelUp, Row: row, Col: col})
		return
	case btns&tcell.WheelDown != 0:
		b.publish(display.Event{Kind: display.EventMouseButton, Button: display.MouseWheelDown, Row: row, Col: col})
		return
	}

	switch {
	case btns&tcell.Button1 != 0:
		if !b.selecting {
			b.selecting = true
			b.publish(display.Event{Kind: display.EventMouseButton, Pressed: true, Button: display.MouseButtonLeft, Row: row, Col: col})
			return
		}
		b.publish(display.Event{Kind: display.EventMouseMotion, Row: row, Col: col})
	case btns == tcell.ButtonNone && b.selecting:
		b.selecting = false
		b.publish(display.Event{Kind: display.EventMouseButton, Pressed: false, Button: display.MouseButtonLeft, Row: row, Col: col})
	}
}

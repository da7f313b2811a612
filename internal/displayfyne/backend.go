// Package displayfyne implements display.Backend using the Fyne GUI
// toolkit, adapted from the teacher's Terminal widget (term.go,
// render.go) to render an internal/engine.Engine instead of owning
// parser state itself.
package displayfyne

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	termwidget "github.com/minitermproject/fyneterm/internal/widget"

	"github.com/minitermproject/fyneterm/internal/display"
	"github.com/minitermproject/fyneterm/internal/engine"
)

// Backend is a Fyne-backed display.Backend. It embeds widget.BaseWidget
// so it can be placed directly into a Fyne container hierarchy.
type Backend struct {
	widget.BaseWidget

	win     fyne.Window
	content *termwidget.TermGrid
	palette engine.Palette

	events chan display.Event
	title  string
}

// New creates a Fyne display backend inside win, sized to rows×cols.
func New(win fyne.Window, rows, cols int) *Backend {
	b := &Backend{
		win:     win,
		content: termwidget.NewTermGrid(),
		palette: engine.DefaultPalette,
		events:  make(chan display.Event, 64),
	}
	b.ExtendBaseWidget(b)
	b.content.SetText("")
	win.SetContent(b)
	win.Resize(fyne.NewSize(float32(cols)*8, float32(rows)*16))
	win.Canvas().SetOnTypedRune(b.onTypedRune)
	win.Canvas().SetOnTypedKey(b.onTypedKey)
	b.setupShortcuts(win)
	return b
}

// setupShortcuts registers the modifier-bearing combinations spec.md's
// keyboard table requires but Fyne's plain TypedRune/TypedKey callbacks
// never carry modifier state for, mirroring the teacher's own
// setupShortcuts (term.go): Ctrl+C, Ctrl+Shift+C, Ctrl+V/Ctrl+Shift+V,
// and Shift+arrow.
func (b *Backend) setupShortcuts(win fyne.Window) {
	canvas := win.Canvas()

	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierControl},
		func(_ fyne.Shortcut) {
			b.publish(display.Event{Kind: display.EventKeyPress, Rune: 'c', Ctrl: true})
		})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierShift | fyne.KeyModifierShortcutDefault},
		func(_ fyne.Shortcut) {
			b.publish(display.Event{Kind: display.EventKeyPress, Rune: 'c', Ctrl: true, Shift: true})
		})

	canvas.AddShortcut(&fyne.ShortcutPaste{},
		func(_ fyne.Shortcut) {
			b.publish(display.Event{Kind: display.EventKeyPress, Rune: 'v', Ctrl: true})
		})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyV, Modifier: fyne.KeyModifierShift | fyne.KeyModifierShortcutDefault},
		func(_ fyne.Shortcut) {
			b.publish(display.Event{Kind: display.EventKeyPress, Rune: 'v', Ctrl: true, Shift: true})
		})

	for key, name := range map[fyne.KeyName]string{
		fyne.KeyUp: "Up", fyne.KeyDown: "Down", fyne.KeyLeft: "Left", fyne.KeyRight: "Right",
	} {
		key, name := key, name
		canvas.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierShift},
			func(_ fyne.Shortcut) {
				b.publish(display.Event{Kind: display.EventKeyPress, Key: name, Shift: true})
			})
	}
}

// CreateRenderer satisfies fyne.Widget by delegating straight to the
// embedded TermGrid; Backend itself adds no visuals of its own.
func (b *Backend) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.content)
}

// FontMetrics reports the monospace cell size the same way the
// teacher's guessCellSize does: measuring a rendered "M" at the current
// theme's text size.
func (b *Backend) FontMetrics() (float32, float32) {
	th := fyne.CurrentApp().Settings().Theme()
	fontSize := th.Size(theme.SizeNameText)
	size, _ := fyne.CurrentApp().Driver().RenderedTextSize("M", fontSize, fyne.TextStyle{Monospace: true}, th.Font(fyne.TextStyle{Monospace: true}))
	return float32(math.Round(float64(size.Width))), float32(math.Round(float64(size.Height)))
}

// Draw repaints the visible window: -scrollOffset lines of scrollback
// followed by the top of the live grid, each cell mapped through the
// palette. The
// cursor cell, when in view, is rendered by swapping its fg/bg, the way
// a TextGrid has no native cursor concept of its own.
func (b *Backend) Draw(eng *engine.Engine, scrollOffset int) {
	rows, cols := eng.Rows, eng.Cols
	sb := eng.Scrollback()
	cursorRow, cursorCol := eng.Cursor()

	textRows := make([]widget.TextGridRow, rows)
	for r := 0; r < rows; r++ {
		row := b.renderRow(rowCellsAt(eng, sb, scrollOffset, r, rows, cols), cols)
		if scrollOffset == 0 && r == cursorRow && cursorCol < cols {
			style := row.Cells[cursorCol].Style.(*widget.CustomTextGridStyle)
			style.FGColor, style.BGColor = style.BGColor, style.FGColor
		}
		textRows[r] = row
	}
	b.content.Rows = textRows
	b.content.Refresh()
}

// rowCellsAt resolves the engine.Cell slice for display row r, honoring
// scrollOffset the same way Selection.materialize treats the unified
// scrollback+live coordinate space.
func rowCellsAt(eng *engine.Engine, sb *engine.Scrollback, scrollOffset, r, rows, cols int) []engine.Cell {
	sbLen := sb.Len()
	absoluteRow := sbLen + scrollOffset + r
	if absoluteRow < sbLen {
		row := sb.At(absoluteRow)
		out := make([]engine.Cell, cols)
		copy(out, row[:cols])
		return out
	}
	liveRow := absoluteRow - sbLen
	out := make([]engine.Cell, cols)
	if liveRow >= 0 && liveRow < rows {
		g := eng.Grid()
		for c := 0; c < cols; c++ {
			out[c] = g.Cell(liveRow, c)
		}
	}
	return out
}

func (b *Backend) renderRow(cells []engine.Cell, cols int) widget.TextGridRow {
	row := widget.TextGridRow{Cells: make([]widget.TextGridCell, cols)}
	for c := 0; c < cols; c++ {
		cell := cells[c]
		ch := rune(cell.Ch)
		if ch == 0 {
			ch = ' '
		}
		row.Cells[c] = widget.TextGridCell{
			Rune: ch,
			Style: &widget.CustomTextGridStyle{
				FGColor: b.palette.Resolve(cell.Fg, display.DefaultForeground),
				BGColor: b.resolveBg(cell.Bg),
			},
		}
	}
	return row
}

func (b *Backend) resolveBg(idx uint8) color.Color {
	if idx == engine.DefaultColor {
		return color.Transparent
	}
	return b.palette.Resolve(idx, display.DefaultBackground)
}

// SetPalette replaces the palette used to resolve cell fg/bg indices,
// letting callers derive one from the active fyne.Theme via
// engine.FromTheme (§4.6) instead of DefaultPalette.
func (b *Backend) SetPalette(p engine.Palette) {
	b.palette = p
}

// SetTitle implements display.Backend.
func (b *Backend) SetTitle(title string) {
	b.title = title
	b.win.SetTitle(title)
}

// Clipboard implements display.Backend using the window's own Fyne
// clipboard, matching the teacher's driver-level clipboard access.
func (b *Backend) Clipboard() display.Clipboard {
	return fyneClipboard{c: b.win.Clipboard()}
}

type fyneClipboard struct{ c fyne.Clipboard }

func (f fyneClipboard) Content() string      { return f.c.Content() }
func (f fyneClipboard) SetContent(s string)  { f.c.SetContent(s) }

// Events implements display.Backend.
func (b *Backend) Events() <-chan display.Event {
	return b.events
}

// Close implements display.Backend.
func (b *Backend) Close() error {
	close(b.events)
	return nil
}

// Resize is called by Fyne's layout system; it resizes the underlying
// TermGrid and publishes an EventResize with the new character
// dimensions, mirroring Terminal.Resize in term.go.
func (b *Backend) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	b.content.Resize(size)

	cw, ch := b.FontMetrics()
	cols := int(size.Width / cw)
	rows := int(size.Height / ch)
	b.publish(display.Event{Kind: display.EventResize, Rows: rows, Cols: cols})
}

func (b *Backend) publish(ev display.Event) {
	select {
	case b.events <- ev:
	default:
		// backend event queue is full; drop rather than block the UI
		// thread, matching onConfigure's non-blocking send (term.go).
	}
}

func (b *Backend) onTypedRune(r rune) {
	b.publish(display.Event{Kind: display.EventKeyPress, Rune: r})
}

func (b *Backend) onTypedKey(ev *fyne.KeyEvent) {
	name, ok := namedKeys[ev.Name]
	if !ok {
		return
	}
	b.publish(display.Event{Kind: display.EventKeyPress, Key: name})
}

var namedKeys = map[fyne.KeyName]string{
	fyne.KeyReturn:    "Enter",
	fyne.KeyEnter:     "Enter",
	fyne.KeyBackspace: "Backspace",
	fyne.KeyTab:       "Tab",
	fyne.KeyUp:        "Up",
	fyne.KeyDown:      "Down",
	fyne.KeyLeft:      "Left",
	fyne.KeyRight:     "Right",
	fyne.KeyEscape:    "Escape",
}

// MouseDown implements desktop.Mouseable, forwarding button presses the
// way Terminal.MouseDown does (term.go), translated into a
// backend-agnostic display.Event rather than writing PTY bytes
// directly.
func (b *Backend) MouseDown(ev *desktop.MouseEvent) {
	row, col := b.cellAt(ev.Position)
	b.publish(display.Event{
		Kind: display.EventMouseButton, Row: row, Col: col,
		Pressed: true, Button: fyneButton(ev.Button),
		Shift: ev.Modifier&fyne.KeyModifierShift != 0,
		Ctrl:  ev.Modifier&fyne.KeyModifierControl != 0,
		Alt:   ev.Modifier&fyne.KeyModifierAlt != 0,
	})
}

func (b *Backend) MouseUp(ev *desktop.MouseEvent) {
	row, col := b.cellAt(ev.Position)
	b.publish(display.Event{
		Kind: display.EventMouseButton, Row: row, Col: col,
		Pressed: false, Button: fyneButton(ev.Button),
	})
}

func fyneButton(btn desktop.MouseButton) display.MouseButton {
	switch btn {
	case desktop.MouseButtonSecondary:
		return display.MouseButtonRight
	case desktop.MouseButtonTertiary:
		return display.MouseButtonMiddle
	default:
		return display.MouseButtonLeft
	}
}

// Dragged implements fyne.Draggable for motion-while-selecting reports.
func (b *Backend) Dragged(ev *fyne.DragEvent) {
	row, col := b.cellAt(ev.Position)
	b.publish(display.Event{Kind: display.EventMouseMotion, Row: row, Col: col})
}

func (b *Backend) DragEnd() {}

// Scrolled implements fyne.Scrollable for the scroll-wheel-adjusts-view
// behavior (§6).
func (b *Backend) Scrolled(ev *fyne.ScrollEvent) {
	btn := display.MouseWheelDown
	if ev.Scrolled.DY > 0 {
		btn = display.MouseWheelUp
	}
	b.publish(display.Event{Kind: display.EventMouseButton, Button: btn})
}

// cellAt converts a pixel position to a (row, col) grid cell (§6 pixel↔
// cell mapping), grounded on the teacher's getTermPosition (position.go).
func (b *Backend) cellAt(pos fyne.Position) (row, col int) {
	cw, ch := b.FontMetrics()
	x, y := pos.X, pos.Y
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return int(y / ch), int(x / cw)
}

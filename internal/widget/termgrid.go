// Package widget provides a monospaced character grid widget used by
// internal/displayfyne to render an engine.Engine's grid and scrollback.
package widget

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// TermGrid is a monospaced grid of characters, designed for a terminal
// emulator's live view plus scrollback window.
type TermGrid struct {
	widget.TextGrid
}

// TermGridRenderer wraps the base TextGrid renderer with overlay
// rectangles under literal underscore characters, which the base
// TextGrid renders too faintly to read at small font sizes.
type TermGridRenderer struct {
	grid               *TermGrid
	baseRenderer       fyne.WidgetRenderer
	underscoreOverlays []*canvas.Rectangle
}

// CreateRenderer is a private method to Fyne which links this widget to
// its renderer.
func (t *TermGrid) CreateRenderer() fyne.WidgetRenderer {
	t.ExtendBaseWidget(t)

	baseRenderer := t.TextGrid.CreateRenderer()
	return &TermGridRenderer{
		grid:         t,
		baseRenderer: baseRenderer,
	}
}

func (r *TermGridRenderer) Layout(size fyne.Size) {
	r.baseRenderer.Layout(size)
	r.updateUnderscoreOverlays(size)
}

func (r *TermGridRenderer) MinSize() fyne.Size {
	return r.baseRenderer.MinSize()
}

func (r *TermGridRenderer) Refresh() {
	r.baseRenderer.Refresh()
	r.updateUnderscoreOverlays(r.grid.Size())
}

func (r *TermGridRenderer) Objects() []fyne.CanvasObject {
	objects := r.baseRenderer.Objects()
	for _, overlay := range r.underscoreOverlays {
		objects = append(objects, overlay)
	}
	return objects
}

func (r *TermGridRenderer) Destroy() {
	r.baseRenderer.Destroy()
	r.underscoreOverlays = nil
}

func (r *TermGridRenderer) updateUnderscoreOverlays(size fyne.Size) {
	r.underscoreOverlays = r.underscoreOverlays[:0]

	if len(r.grid.Rows) == 0 {
		return
	}

	rows := float32(len(r.grid.Rows))
	cols := float32(0)
	if len(r.grid.Rows[0].Cells) > 0 {
		cols = float32(len(r.grid.Rows[0].Cells))
	}
	if rows == 0 || cols == 0 {
		return
	}

	cellWidth := size.Width / cols
	cellHeight := size.Height / rows

	for rowIdx, row := range r.grid.Rows {
		if row.Cells == nil {
			continue
		}
		for colIdx, cell := range row.Cells {
			if cell.Rune != '_' {
				continue
			}
			overlay := canvas.NewRectangle(underscoreColor(cell))
			x := float32(colIdx) * cellWidth
			y := float32(rowIdx)*cellHeight + cellHeight*0.90
			overlay.Move(fyne.NewPos(x, y))
			overlay.Resize(fyne.NewSize(cellWidth, cellHeight*0.10))
			r.underscoreOverlays = append(r.underscoreOverlays, overlay)
		}
	}
}

func underscoreColor(cell widget.TextGridCell) color.Color {
	if cell.Style != nil {
		if c := cell.Style.TextColor(); c != nil {
			return c
		}
	}
	return theme.Color(theme.ColorNameForeground)
}

// NewTermGrid creates a new empty TermGrid widget with scrolling
// disabled; internal/displayfyne drives scrollback itself via the scroll
// offset internal/app passes to Draw rather than the widget's own scroll
// container.
func NewTermGrid() *TermGrid {
	grid := &TermGrid{}
	grid.ExtendBaseWidget(grid)
	grid.Scroll = container.ScrollNone
	return grid
}

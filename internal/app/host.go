// Package app wires a ptyhost.Host, an internal/engine.Engine, and a
// display.Backend together into the single-threaded readiness loop that
// owns the terminal's lifetime, generalizing the teacher's
// Terminal.run() to work against any Backend rather than a Fyne widget.
package app

import (
	"io"
	"log"

	"github.com/minitermproject/fyneterm/internal/display"
	"github.com/minitermproject/fyneterm/internal/engine"
	"github.com/minitermproject/fyneterm/internal/ptyhost"
)

const readBufLen = 4096

// Host owns the PTY, the engine, and the display backend for one
// terminal session's lifetime.
type Host struct {
	PTY     ptyhost.Host
	Engine  *engine.Engine
	Backend display.Backend

	// Debug records the session's debug setting. Host itself does not
	// read it; the engine's trace logging is switched by Engine.Debug,
	// which callers set separately.
	Debug bool

	// ExitCode is set once Run returns after the PTY reports EOF: the
	// child's exit status, or 128+signal (§6/§7). It stays 0 if the
	// session ended some other way (backend closed, read error).
	ExitCode int

	scrollOffset int
}

// New constructs a Host and wires the engine's OSC title callback to the
// backend. The OSC 7 directory callback is left as the caller set it.
func New(pty ptyhost.Host, eng *engine.Engine, backend display.Backend) *Host {
	h := &Host{PTY: pty, Engine: eng, Backend: backend}
	eng.OnTitle = backend.SetTitle
	return h
}

// Run blocks, multiplexing PTY output and backend input events until
// the child exits or the backend requests close. It mirrors
// Terminal.run()'s read-dispatch-refresh cycle, plus an input side the
// teacher wires through widget callbacks instead of a single loop.
func (h *Host) Run() error {
	readDone := make(chan struct{})
	ptyBytes := make(chan []byte)
	ptyErr := make(chan error, 1)

	go func() {
		defer close(readDone)
		buf := make([]byte, readBufLen)
		for {
			n, err := h.PTY.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				ptyBytes <- chunk
			}
			if err != nil {
				ptyErr <- err
				return
			}
		}
	}()

	events := h.Backend.Events()
	for {
		select {
		case chunk := <-ptyBytes:
			h.Engine.Write(chunk)
			h.Backend.Draw(h.Engine, h.scrollOffset)

		case err := <-ptyErr:
			if err == io.EOF {
				h.ExitCode = ptyhost.ExitCode(h.PTY.Wait())
				return nil
			}
			log.Println("pty read error:", err)
			return err

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Kind == display.EventClose {
				return nil
			}
			h.handleEvent(ev)
			h.Backend.Draw(h.Engine, h.scrollOffset)
		}
	}
}

func (h *Host) handleEvent(ev display.Event) {
	switch ev.Kind {
	case display.EventResize:
		h.Engine.Rows, h.Engine.Cols = clampDims(ev.Rows, ev.Cols)
		cw, ch := h.Backend.FontMetrics()
		_ = h.PTY.Resize(h.Engine.Rows, h.Engine.Cols,
			int(cw*float32(h.Engine.Cols)), int(ch*float32(h.Engine.Rows)))

	case display.EventKeyPress:
		h.handleKeyPress(ev)

	case display.EventMouseButton:
		switch ev.Button {
		case display.MouseWheelUp:
			h.adjustScrollOffset(-h.mouseScrollLines())
		case display.MouseWheelDown:
			h.adjustScrollOffset(h.mouseScrollLines())
		default:
			if seq := encodeMouseButton(h.Engine, ev); seq != nil {
				h.PTY.Write(seq)
			}
		}

	case display.EventMouseMotion:
		if seq := encodeMouseMotion(h.Engine, ev); seq != nil {
			h.PTY.Write(seq)
		}

	case display.EventPaste:
		h.PTY.Write(engine.SanitizePaste(ev.Text))
	}
}

// handleKeyPress special-cases the key combinations that never write to
// the PTY (§6): Ctrl+Shift+C copies the selection, Ctrl+V/Ctrl+Shift+V
// pastes, Shift+Up/Down adjusts the scrollback view.
func (h *Host) handleKeyPress(ev display.Event) {
	switch {
	case ev.Ctrl && ev.Shift && (ev.Rune == 'c' || ev.Rune == 'C'):
		h.Backend.Clipboard().SetContent(string(h.Engine.MaterializeSelection()))
		return

	case ev.Ctrl && (ev.Rune == 'v' || ev.Rune == 'V'):
		h.PTY.Write(engine.SanitizePaste(h.Backend.Clipboard().Content()))
		return

	case ev.Shift && ev.Key == "Up":
		h.adjustScrollOffset(-1)
		return

	case ev.Shift && ev.Key == "Down":
		h.adjustScrollOffset(1)
		return
	}

	h.PTY.Write(encodeKey(ev))
}

// adjustScrollOffset moves the scrollback view by delta lines, clamped
// to [-scrollback.len, 0] (§6).
func (h *Host) adjustScrollOffset(delta int) {
	h.scrollOffset += delta
	if h.scrollOffset > 0 {
		h.scrollOffset = 0
	}
	if min := -h.Engine.Scrollback().Len(); h.scrollOffset < min {
		h.scrollOffset = min
	}
}

// mouseScrollLines returns how many scrollback lines a wheel tick moves,
// from the Engine's construction-time options, falling back to the
// package default when those options leave MouseScrollLines at zero or
// below (e.g. an Engine built with NewWithOptions and empty options).
func (h *Host) mouseScrollLines() int {
	if n := h.Engine.Options.MouseScrollLines; n > 0 {
		return n
	}
	return MouseScrollLines
}

func clampDims(rows, cols int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	if rows > engine.MaxRows {
		rows = engine.MaxRows
	}
	if cols < 1 {
		cols = 1
	}
	if cols > engine.MaxCols {
		cols = engine.MaxCols
	}
	return rows, cols
}

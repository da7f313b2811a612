// Package engine implements the terminal state engine: the escape-sequence
// parser, the grid/scrollback model with primary and alternate screen
// buffers, and the selection model. It owns all mutable terminal state and
// has no dependency on any display backend or PTY transport; callers feed
// it bytes from a PTY and read back grid/scrollback/selection state to
// render.
package engine

import (
	"log"
	"strconv"
	"strings"
)

// parserState is the escape-parser's explicit state machine (§4.3, §9).
type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateCsi
	stateOsc
	stateApc
)

// maxCsiLen bounds the CSI parameter accumulator; a sequence that grows
// past this without a final byte is discarded and the parser resets to
// Ground (§4.3 Robustness).
const maxCsiLen = 256

const (
	cC0Bell      = 0x07
	cC0Backspace = 0x08
	cC0Tab       = 0x09
	cC0LineFeed  = 0x0A
	cC0CR        = 0x0D
	cC0Escape    = 0x1B
)

// Engine owns the primary and alternate screen buffers, the scrollback
// ring, cursor/mode state, the escape parser, and the selection model.
// It is the single mutable-state owner described in §5: all methods are
// expected to be called from one goroutine.
type Engine struct {
	Rows, Cols int

	primary   ScreenBuffer
	alternate ScreenBuffer
	activeID  BufferID

	scrollback              Scrollback
	scrollTop, scrollBottom int

	sgr   SgrState
	modes Modes

	selection Selection
	Palette   Palette

	state     parserState
	csiAccum  []byte
	csiPriv   bool
	oscAccum  []byte
	apcAccum  []byte

	// Debug, when set, logs ignored/unrecognized sequences the way the
	// teacher's Terminal.debug flag does, via the standard log package.
	Debug bool

	// OnTitle and OnDirectory are invoked for OSC 0/2 and OSC 7
	// respectively; both are optional enrichments kept from the original
	// terminal (not part of the required CSI subset in §4.3).
	OnTitle     func(string)
	OnDirectory func(string)

	// OnPromptMarker is invoked with "A"/"B"/"C"/"D" for OSC 133 shell
	// integration prompt/command markers (§4.7).
	OnPromptMarker func(marker string)

	apcHandlers map[string]APCHandler

	// Options records the settings this Engine was constructed with, so
	// callers (the app/display layers) can read back MouseScrollLines
	// without threading it through separately.
	Options EngineOptions
}

// EngineOptions carries the settings a caller may want to override at
// startup instead of accepting the built-in defaults (§6): which palette
// resolves SGR color indices, how many scrollback lines are retained, and
// how many lines a single wheel tick scrolls. cmd/fyneterm and
// cmd/fynetermcli both expose these through flag rather than a config
// file parser — this is the full set of knobs §6 calls for, not a general
// settings surface.
type EngineOptions struct {
	Palette            Palette
	ScrollbackCapacity int
	MouseScrollLines   int
}

// DefaultEngineOptions returns the options New implicitly uses.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		Palette:            DefaultPalette,
		ScrollbackCapacity: ScrollbackSize,
		MouseScrollLines:   3,
	}
}

// New constructs an Engine with the given active grid dimensions and
// DefaultEngineOptions. rows and cols must not exceed MaxRows/MaxCols.
func New(rows, cols int) *Engine {
	return NewWithOptions(rows, cols, DefaultEngineOptions())
}

// NewWithOptions constructs an Engine the way New does, but with palette
// and scrollback capacity taken from opts instead of the defaults.
// opts.MouseScrollLines is not consulted here; callers read it back via
// the Engine's Options field since wheel-scroll handling lives in the
// display/app layer, not the engine.
func NewWithOptions(rows, cols int, opts EngineOptions) *Engine {
	if opts.Palette == (Palette{}) {
		opts.Palette = DefaultPalette
	}
	e := &Engine{
		Rows: rows, Cols: cols,
		scrollBottom: rows - 1,
		sgr:          DefaultSgr(),
		modes:        Modes{Wrap: true},
		Palette:      opts.Palette,
		scrollback:   NewScrollback(opts.ScrollbackCapacity),
		Options:      opts,
	}
	e.primary.Grid.ClearAll(rows, cols)
	e.alternate.Grid.ClearAll(rows, cols)
	return e
}

// active returns the ScreenBuffer the parser currently mutates.
func (e *Engine) active() *ScreenBuffer {
	if e.activeID == Alternate {
		return &e.alternate
	}
	return &e.primary
}

// ActiveBuffer reports which buffer is selected.
func (e *Engine) ActiveBuffer() BufferID {
	return e.activeID
}

// Cursor returns the active buffer's cursor position.
func (e *Engine) Cursor() (row, col int) {
	b := e.active()
	return b.CursorRow, b.CursorCol
}

// Grid returns the active buffer's grid, for rendering.
func (e *Engine) Grid() *Grid {
	return &e.active().Grid
}

// ScrollRegion returns the current (top, bottom) scroll region.
func (e *Engine) ScrollRegion() (top, bottom int) {
	return e.scrollTop, e.scrollBottom
}

// Sgr returns the current SGR colors applied to newly written cells.
func (e *Engine) Sgr() SgrState {
	return e.sgr
}

// ModesState returns the current mode flags.
func (e *Engine) ModesState() Modes {
	return e.modes
}

// Scrollback exposes the scrollback ring for rendering.
func (e *Engine) Scrollback() *Scrollback {
	return &e.scrollback
}

// SelectionState exposes the selection model.
func (e *Engine) SelectionState() *Selection {
	return &e.selection
}

// --- rowResolver for Selection.materialize ---

func (e *Engine) scrollbackLen() int { return e.scrollback.Len() }
func (e *Engine) liveRows() int      { return e.Rows }
func (e *Engine) cols() int          { return e.Cols }

func (e *Engine) selectionRowCells(row int) ScrollbackRow {
	sbLen := e.scrollback.Len()
	if row < sbLen {
		return e.scrollback.At(row)
	}
	liveRow := row - sbLen
	if liveRow < 0 || liveRow >= e.Rows {
		return ScrollbackRow{}
	}
	return e.active().Grid.Row(liveRow, e.Cols)
}

// MaterializeSelection walks the current selection and returns the
// selected text (§4.4).
func (e *Engine) MaterializeSelection() []byte {
	return e.selection.materialize(e)
}

// BeginSelection, ExtendSelection, EndSelection, and ResetSelection
// forward to the Selection model; kept as Engine methods so callers
// driving input events don't need to reach into SelectionState().
func (e *Engine) BeginSelection(row, col int)  { e.selection.Begin(row, col) }
func (e *Engine) ExtendSelection(row, col int) { e.selection.Extend(row, col) }
func (e *Engine) EndSelection()                { e.selection.End() }
func (e *Engine) ResetSelection()              { e.selection.Reset() }

// logIgnored mirrors the teacher's debug-gated logging for unrecognized
// or out-of-range escape input; it never affects parser state (§7).
func (e *Engine) logIgnored(format string, args ...any) {
	if e.Debug {
		log.Printf(format, args...)
	}
}

// Write feeds a batch of PTY bytes into the parser, one byte at a time,
// advancing the state machine and mutating grid/cursor/mode state. A
// partial escape sequence split across calls is preserved in Engine's
// own fields and continued on the next call (§5).
func (e *Engine) Write(buf []byte) {
	for _, b := range buf {
		e.step(b)
	}
}

func (e *Engine) step(b byte) {
	switch e.state {
	case stateGround:
		e.stepGround(b)
	case stateEscape:
		e.stepEscape(b)
	case stateCsi:
		e.stepCsi(b)
	case stateOsc:
		e.stepOsc(b)
	case stateApc:
		e.stepApc(b)
	}
}

func (e *Engine) stepGround(b byte) {
	switch {
	case b == cC0Escape:
		e.state = stateEscape
		e.csiAccum = e.csiAccum[:0]
		e.csiPriv = false
	case b == cC0LineFeed:
		e.newline()
	case b == cC0CR:
		e.setCol(0)
	case b == cC0Backspace:
		e.backspace()
	case b == cC0Tab:
		// Forwarded to the PTY-write path from the display layer; if it
		// ever arrives from the child it is a printable no-op here.
	case b >= 0x20 && b <= 0x7E:
		e.writeCell(b)
	default:
		// ignored C0/high byte
	}
}

func (e *Engine) stepEscape(b byte) {
	switch b {
	case '[':
		e.state = stateCsi
		e.csiAccum = e.csiAccum[:0]
		e.csiPriv = false
	case ']':
		e.state = stateOsc
		e.oscAccum = e.oscAccum[:0]
	case '_':
		e.state = stateApc
		e.apcAccum = e.apcAccum[:0]
	case '7':
		e.saveCursor()
		e.state = stateGround
	case '8':
		e.restoreCursor()
		e.state = stateGround
	default:
		// unimplemented final -> ignored, back to Ground
		e.state = stateGround
	}
}

func (e *Engine) stepCsi(b byte) {
	if b == '?' && len(e.csiAccum) == 0 {
		e.csiPriv = true
		return
	}
	if b >= 0x40 && b <= 0x7E {
		e.dispatchCsi(rune(b), string(e.csiAccum), e.csiPriv)
		e.state = stateGround
		return
	}
	if len(e.csiAccum) >= maxCsiLen {
		e.logIgnored("CSI parameter overflow, discarding")
		e.state = stateGround
		return
	}
	e.csiAccum = append(e.csiAccum, b)
}

func (e *Engine) stepOsc(b byte) {
	if b == cC0Bell || b == cC0Escape {
		e.handleOsc(string(e.oscAccum))
		e.state = stateGround
		return
	}
	e.oscAccum = append(e.oscAccum, b)
}

func (e *Engine) stepApc(b byte) {
	if b == cC0Escape || b == 0 {
		e.handleApc(string(e.apcAccum))
		e.state = stateGround
		return
	}
	e.apcAccum = append(e.apcAccum, b)
}

// --- cursor/line primitives ---

func (e *Engine) setCol(col int) {
	b := e.active()
	b.CursorCol = clamp(col, 0, e.Cols-1)
}

// setCursor positions the cursor for absolute/relative motion requests.
// col is clamped to [0, Cols-1]: the transient col==Cols state (§3) only
// ever arises from writeCell's own wrap bookkeeping, never from an
// explicit motion command.
func (e *Engine) setCursor(row, col int) {
	b := e.active()
	b.CursorRow = clamp(row, 0, e.Rows-1)
	b.CursorCol = clamp(col, 0, e.Cols-1)
}

func (e *Engine) moveCursorRel(dRow, dCol int) {
	b := e.active()
	e.setCursor(b.CursorRow+dRow, clamp(b.CursorCol+dCol, 0, e.Cols-1))
}

func (e *Engine) saveCursor() {
	b := e.active()
	b.SavedRow, b.SavedCol = b.CursorRow, b.CursorCol
}

func (e *Engine) restoreCursor() {
	b := e.active()
	e.setCursor(b.SavedRow, b.SavedCol)
}

func (e *Engine) backspace() {
	b := e.active()
	if b.CursorCol > 0 {
		b.CursorCol--
		b.Grid.SetCell(b.CursorRow, b.CursorCol, Cell{Ch: ' ', Fg: DefaultColor, Bg: DefaultColor})
	}
}

func (e *Engine) newline() {
	b := e.active()
	b.CursorCol = 0
	b.CursorRow++
	if b.CursorRow > e.scrollBottom {
		e.scrollUpInRegion()
		b.CursorRow = e.scrollBottom
	}
}

// scrollUpInRegion retires row scrollTop (primary only, into scrollback),
// shifts rows [top, bottom) up by one, and clears the bottom row (§4.1).
func (e *Engine) scrollUpInRegion() {
	b := e.active()
	if e.activeID == Primary {
		e.scrollback.Push(b.Grid.Row(e.scrollTop, e.Cols))
	}
	for r := e.scrollTop; r < e.scrollBottom; r++ {
		b.Grid.SetRow(r, b.Grid.Row(r+1, e.Cols))
	}
	b.Grid.ClearRow(e.scrollBottom, e.Cols)
}

// writeCell writes ch at the cursor and advances it. A cursor already
// pinned at col==cols from a prior no-wrap write overwrites the
// rightmost cell instead of advancing further (§4.3 line "If wrap is
// clear and cursor.col == cols, subsequent writes overwrite the
// rightmost cell").
func (e *Engine) writeCell(ch byte) {
	b := e.active()
	writeCol := b.CursorCol
	pinned := writeCol == e.Cols
	if pinned {
		writeCol = e.Cols - 1
	}
	b.Grid.SetCell(b.CursorRow, writeCol, Cell{Ch: ch, Fg: e.sgr.Fg, Bg: e.sgr.Bg})
	if pinned {
		return
	}
	b.CursorCol++
	if b.CursorCol == e.Cols && e.modes.Wrap {
		b.CursorCol = 0
		b.CursorRow++
		if b.CursorRow > e.scrollBottom {
			e.scrollUpInRegion()
			b.CursorRow = e.scrollBottom
		}
	}
}

// switchBuffer implements DECSET/DECRST 1049 (§4.3): on set, the
// alternate buffer is cleared and its cursor reset to (0,0); on reset,
// the primary buffer's cursor is likewise reset to (0,0), not restored
// (documented quirk, §9).
func (e *Engine) switchBuffer(toAlternate bool) {
	if toAlternate {
		if e.activeID == Alternate {
			// Idempotent per §8: clear again, but no switch occurs.
			e.alternate.Grid.ClearAll(e.Rows, e.Cols)
			e.alternate.CursorRow, e.alternate.CursorCol = 0, 0
			return
		}
		e.activeID = Alternate
		e.alternate.Grid.ClearAll(e.Rows, e.Cols)
		e.alternate.CursorRow, e.alternate.CursorCol = 0, 0
		return
	}
	e.activeID = Primary
	e.primary.CursorRow, e.primary.CursorCol = 0, 0
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- CSI dispatch (§4.3) ---

func (e *Engine) dispatchCsi(final rune, params string, private bool) {
	ints := parseParams(params)

	switch final {
	case 'A':
		e.moveCursorRel(-paramOr(ints, 0, 1), 0)
	case 'B':
		e.moveCursorRel(paramOr(ints, 0, 1), 0)
	case 'C':
		e.moveCursorRel(0, paramOr(ints, 0, 1))
	case 'D':
		e.moveCursorRel(0, -paramOr(ints, 0, 1))
	case 'H':
		row := paramOr(ints, 0, 1)
		col := paramOr(ints, 1, 1)
		e.setCursor(row-1, col-1)
	case 'J':
		e.eraseInDisplay(paramOr(ints, 0, 0))
	case 'K':
		e.eraseInLine()
	case 'm':
		e.applySgr(ints)
	case 'r':
		e.setScrollRegion(ints)
	case '@':
		e.insertBlanks(paramOr(ints, 0, 1))
	case 'X':
		b := e.active()
		b.Grid.EraseChars(b.CursorRow, b.CursorCol, e.Cols, paramOr(ints, 0, 1))
	case 'P':
		b := e.active()
		b.Grid.DeleteChars(b.CursorRow, b.CursorCol, e.Cols, paramOr(ints, 0, 1))
	case 'h':
		e.setMode(ints, private, true)
	case 'l':
		e.setMode(ints, private, false)
	default:
		e.logIgnored("unrecognized CSI final %q (params %q)", final, params)
	}
}

func (e *Engine) eraseInDisplay(mode int) {
	b := e.active()
	switch mode {
	case 0:
		b.Grid.ClearBelow(b.CursorRow, b.CursorCol, e.Rows, e.Cols)
	case 1:
		b.Grid.ClearAbove(b.CursorRow, b.CursorCol, e.Cols)
	case 2:
		b.Grid.ClearAll(e.Rows, e.Cols)
		e.setCursor(0, 0)
	default:
		e.logIgnored("unhandled CSI J mode %d", mode)
	}
}

func (e *Engine) eraseInLine() {
	b := e.active()
	b.Grid.ClearToEOL(b.CursorRow, b.CursorCol, e.Cols)
}

func (e *Engine) insertBlanks(n int) {
	b := e.active()
	b.Grid.InsertBlanks(b.CursorRow, b.CursorCol, e.Cols, n)
}

func (e *Engine) setScrollRegion(ints []int) {
	top := paramOr(ints, 0, 1) - 1
	bottom := paramOr(ints, 1, e.Rows) - 1
	top = clamp(top, 0, e.Rows-1)
	bottom = clamp(bottom, 0, e.Rows-1)
	if top > bottom {
		top, bottom = 0, e.Rows-1
	}
	e.scrollTop, e.scrollBottom = top, bottom
}

func (e *Engine) applySgr(ints []int) {
	if len(ints) == 0 {
		ints = []int{0}
	}
	for _, code := range ints {
		switch {
		case code == 0:
			e.sgr = DefaultSgr()
		case code >= 30 && code <= 37:
			e.sgr.Fg = uint8(code - 30)
		case code >= 40 && code <= 47:
			e.sgr.Bg = uint8(code - 40)
		case code >= 90 && code <= 97:
			e.sgr.Fg = uint8(code-90) + 8
		case code >= 100 && code <= 107:
			e.sgr.Bg = uint8(code-100) + 8
		default:
			e.logIgnored("unhandled SGR code %d", code)
		}
	}
}

func (e *Engine) setMode(ints []int, private, enable bool) {
	if !private {
		e.logIgnored("unhandled SM/RM (non-private) %v enable=%v", ints, enable)
		return
	}
	for _, code := range ints {
		switch code {
		case 7:
			e.modes.Wrap = enable
		case 25:
			// cursor visibility: no-op in the core engine contract (§4.3)
		case 1000:
			e.modes.MouseEnabled = enable
			if enable {
				e.modes.MouseMode = MouseNormal
			} else {
				e.modes.MouseMode = MouseOff
			}
		case 1002:
			e.modes.MouseEnabled = enable
			if enable {
				e.modes.MouseMode = MouseButtonEvent
			} else {
				e.modes.MouseMode = MouseOff
			}
		case 1003:
			e.modes.MouseEnabled = enable
			if enable {
				e.modes.MouseMode = MouseAnyEvent
			} else {
				e.modes.MouseMode = MouseOff
			}
		case 1049:
			e.switchBuffer(enable)
		case 1:
			// application cursor keys: no-op in this core
		default:
			e.logIgnored("unhandled DEC private mode %d enable=%v", code, enable)
		}
	}
}

// parseParams splits a CSI parameter string on ';' into decimal ints.
// Absent/empty fields parse as 0; callers apply their own default via
// paramOr.
func parseParams(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]int, len(parts))
	for i, p := range parts {
		if p == "" {
			out[i] = 0
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			out[i] = 0
			continue
		}
		out[i] = n
	}
	return out
}

// paramOr returns ints[i] if present and non-zero, else def. Cursor
// motion and CUP params default to 1 when absent or given as 0 (§4.3).
func paramOr(ints []int, i, def int) int {
	if i >= len(ints) || ints[i] == 0 {
		return def
	}
	return ints[i]
}

// --- OSC passthrough (enrichment, §4.7) ---

func (e *Engine) handleOsc(code string) {
	parts := strings.SplitN(code, ";", 2)
	if len(parts) < 2 {
		e.logIgnored("invalid OSC %q", code)
		return
	}
	num, err := strconv.Atoi(parts[0])
	if err != nil {
		e.logIgnored("invalid OSC command number %q", parts[0])
		return
	}
	data := parts[1]
	switch num {
	case 0, 2:
		if e.OnTitle != nil {
			e.OnTitle(data)
		}
	case 7:
		if e.OnDirectory != nil {
			e.OnDirectory(data)
		}
	case 133:
		e.handlePromptMarker(data)
	default:
		e.logIgnored("unrecognized OSC %d", num)
	}
}

// handlePromptMarker dispatches shell-integration prompt markers (OSC 133
// A/B/C/D) to OnPromptMarker, the same four-state split as the teacher's
// handleOSC133/handlePromptStart/handlePromptEnd/handleCommandStart/
// handleCommandEnd.
func (e *Engine) handlePromptMarker(data string) {
	letter := data
	if i := strings.IndexByte(data, ';'); i >= 0 {
		letter = data[:i]
	}
	switch letter {
	case "A", "B", "C", "D":
		if e.OnPromptMarker != nil {
			e.OnPromptMarker(letter)
			return
		}
		e.logIgnored("shell integration marker %s (no OnPromptMarker registered)", letter)
	default:
		e.logIgnored("OSC 133 sequence not implemented: %q", data)
	}
}

// --- APC passthrough (enrichment, §4.7) ---

// APCHandler processes one registered APC command's argument, mirroring
// the teacher's APCHandler func(*Terminal, string).
type APCHandler func(arg string)

func (e *Engine) handleApc(code string) {
	for prefix, handler := range e.apcHandlers {
		if strings.HasPrefix(code, prefix) {
			handler(code[len(prefix):])
			return
		}
	}
	e.logIgnored("unrecognised APC %q", code)
}

// RegisterAPCHandler registers a handler for APC sequences beginning with
// prefix, the same prefix-dispatch RegisterAPCHandler uses in apc.go.
func (e *Engine) RegisterAPCHandler(prefix string, handler APCHandler) {
	if e.apcHandlers == nil {
		e.apcHandlers = make(map[string]APCHandler)
	}
	e.apcHandlers[prefix] = handler
}

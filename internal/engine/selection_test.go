package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeRows is a rowResolver backed by a plain slice, for exercising
// Selection.materialize without a full Engine.
type fakeRows struct {
	sbLen int
	rows  []string
	width int
}

func (f fakeRows) scrollbackLen() int { return f.sbLen }
func (f fakeRows) liveRows() int      { return len(f.rows) - f.sbLen }
func (f fakeRows) cols() int          { return f.width }
func (f fakeRows) selectionRowCells(row int) ScrollbackRow {
	var out ScrollbackRow
	s := f.rows[row]
	for i := 0; i < len(s) && i < f.width; i++ {
		out[i] = Cell{Ch: s[i], Fg: DefaultColor, Bg: DefaultColor}
	}
	return out
}

func TestSelectionEmptyWithoutRange(t *testing.T) {
	var s Selection
	assert.Nil(t, s.materialize(fakeRows{}))
}

func TestSelectionSingleRow(t *testing.T) {
	var s Selection
	s.Begin(0, 1)
	s.Extend(0, 3)
	s.End()

	rows := fakeRows{rows: []string{"Hello"}, width: 5}
	assert.Equal(t, "ell", string(s.materialize(rows)))
}

func TestSelectionMultiRowSpansFirstAndLastPartially(t *testing.T) {
	var s Selection
	s.Begin(0, 2)
	s.Extend(2, 1)
	s.End()

	rows := fakeRows{rows: []string{"Hello", "World", "Again"}, width: 5}
	got := string(s.materialize(rows))
	assert.Equal(t, "llo\nWorld\nAg", got)
}

func TestSelectionNormalizesReversedAnchorFocus(t *testing.T) {
	var s Selection
	s.Begin(2, 1)
	s.Extend(0, 2)
	s.End()

	rows := fakeRows{rows: []string{"Hello", "World", "Again"}, width: 5}
	got := string(s.materialize(rows))
	assert.Equal(t, "llo\nWorld\nAg", got)
}

func TestSelectionSkipsBlankCells(t *testing.T) {
	var s Selection
	s.Begin(0, 0)
	s.Extend(0, 4)
	s.End()

	rows := fakeRows{rows: []string{"Hi"}, width: 5}
	got := string(s.materialize(rows))
	assert.Equal(t, "Hi", got, "zero cells past written content are omitted, not rendered as spaces")
}

func TestSelectionResetClearsRange(t *testing.T) {
	var s Selection
	s.Begin(0, 0)
	s.Extend(0, 3)
	s.End()
	assert.True(t, s.HasRange())

	s.Reset()
	assert.False(t, s.HasRange())
	assert.Nil(t, s.materialize(fakeRows{}))
}

func TestSelectionSpansScrollbackIntoLiveGrid(t *testing.T) {
	var s Selection
	// row 0 is the sole scrollback line, row 1 is the first live row.
	s.Begin(0, 3)
	s.Extend(1, 1)
	s.End()

	rows := fakeRows{sbLen: 1, rows: []string{"retired", "livetext"}, width: 8}
	got := string(s.materialize(rows))
	assert.Equal(t, "ired\nli", got)
}

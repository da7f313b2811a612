package engine

// Position is a coordinate in the unified selection row-space: rows
// [0, scrollbackLen) address scrollback (oldest first), rows
// [scrollbackLen, scrollbackLen+liveRows) address the live grid (§3).
type Position struct {
	Row, Col int
}

// Selection tracks an in-progress or completed user selection spanning
// scrollback and the live grid.
type Selection struct {
	Anchor, Focus *Position
	Active        bool
}

// Begin starts a new selection at (row, col), discarding any prior one.
func (s *Selection) Begin(row, col int) {
	p := Position{Row: row, Col: col}
	f := p
	s.Anchor = &p
	s.Focus = &f
	s.Active = true
}

// Extend moves the focus endpoint while a selection is active.
func (s *Selection) Extend(row, col int) {
	if !s.Active {
		return
	}
	s.Focus = &Position{Row: row, Col: col}
}

// End freezes the selection; it remains queryable until Begin is called
// again.
func (s *Selection) End() {
	s.Active = false
}

// Reset clears the selection entirely.
func (s *Selection) Reset() {
	s.Anchor = nil
	s.Focus = nil
	s.Active = false
}

// HasRange reports whether both endpoints are set, so there is something
// to materialize. The endpoints may be equal.
func (s *Selection) HasRange() bool {
	return s.Anchor != nil && s.Focus != nil
}

// rowResolver fetches the cell contents of a row in the unified
// selection coordinate space. Implemented by Engine.
type rowResolver interface {
	scrollbackLen() int
	liveRows() int
	cols() int
	selectionRowCells(row int) ScrollbackRow
}

// materialize walks rows from the earlier endpoint to the later one,
// resolving each row's cells via r, and returns the selected text. On the
// first row only columns from the earlier-row's column onward are kept;
// on the last row only columns up to the later-row's column; a
// single-row selection keeps only the span between the two columns;
// middle rows are kept in full. Non-zero cell bytes are emitted; rows are
// joined with '\n'.
func (s *Selection) materialize(r rowResolver) []byte {
	if !s.HasRange() {
		return nil
	}

	start, end := *s.Anchor, *s.Focus
	if start.Row > end.Row || (start.Row == end.Row && start.Col > end.Col) {
		start, end = end, start
	}

	cols := r.cols()
	var out []byte
	for row := start.Row; row <= end.Row; row++ {
		cells := r.selectionRowCells(row)

		fromCol, toCol := 0, cols-1
		switch {
		case start.Row == end.Row:
			fromCol, toCol = start.Col, end.Col
		case row == start.Row:
			fromCol = start.Col
		case row == end.Row:
			toCol = end.Col
		}
		if fromCol < 0 {
			fromCol = 0
		}
		if toCol >= cols {
			toCol = cols - 1
		}

		for c := fromCol; c <= toCol && c < cols; c++ {
			if cells[c].Ch != 0 {
				out = append(out, cells[c].Ch)
			}
		}
		if row != end.Row {
			out = append(out, '\n')
		}
	}
	return out
}

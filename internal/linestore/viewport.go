package linestore

// ViewRow is one screen row of the viewport: a logical row and the display
// column its segment starts at. Row is -1 above the first line.
type ViewRow struct {
	Row int
	Col int
}

// SetWidth sets the viewport width in display columns.
func (s *Store) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	s.width = w
	s.align()
}

// Width returns the viewport width.
func (s *Store) Width() int { return s.width }

// Position returns the scroll position: the logical row shown on the bottom
// screen row and the display column its segment starts at.
func (s *Store) Position() (row, col int) {
	s.align()
	return s.row, s.col
}

// align snaps the column back to a segment boundary after a width change.
func (s *Store) align() {
	if s.col > 0 && s.col%s.width != 0 {
		s.col = (s.col / s.width) * s.width
	}
}

// lastSegment returns the column of the final wrapped segment of row.
func (s *Store) lastSegment(row int) int {
	if n := s.cols[row]; n > s.width {
		return ((n - 1) / s.width) * s.width
	}
	return 0
}

// Up scrolls back n screen rows, stopping at the top.
func (s *Store) Up(n int) {
	s.align()
	for range n {
		switch {
		case s.col > 0:
			s.col -= s.width
		case s.row > 0:
			s.row--
			s.col = s.lastSegment(s.row)
		default:
			return
		}
	}
}

// Down scrolls forward n screen rows, stopping at the bottom.
func (s *Store) Down(n int) {
	s.align()
	for range n {
		switch {
		case s.col < s.cols[s.row]-s.width:
			s.col += s.width
		case s.row < len(s.lines)-1:
			s.row++
			s.col = 0
		default:
			return
		}
	}
}

// Home scrolls to the first line.
func (s *Store) Home() {
	s.row, s.col = 0, 0
}

// End scrolls to the segment of the last line that holds the cursor.
func (s *Store) End() {
	s.row = len(s.lines) - 1
	s.col = (s.cols[s.row] / s.width) * s.width
}

// ScrollTo puts row on the bottom screen row, at the wrapped segment that
// holds display column col. Out of range values are clamped.
func (s *Store) ScrollTo(row, col int) {
	s.row = min(max(row, 0), len(s.lines)-1)
	s.col = min((max(col, 0)/s.width)*s.width, s.lastSegment(s.row))
}

// Viewport lists the screen rows of a window of the given height, top to
// bottom, ending at the scroll position.
func (s *Store) Viewport(height int) []ViewRow {
	if height <= 0 {
		return nil
	}
	s.align()
	out := make([]ViewRow, height)
	r, c := s.row, s.col
	for i := height - 1; i >= 0; i-- {
		if r >= 0 {
			out[i] = ViewRow{Row: r, Col: c}
		} else {
			out[i] = ViewRow{Row: -1}
		}
		if c >= s.width {
			c -= s.width
			continue
		}
		r--
		c = 0
		if r >= 0 {
			c = s.lastSegment(r)
		}
	}
	return out
}

// CursorVisible reports whether the insertion cursor is on screen and, if
// so, its column on the bottom screen row. It is visible only when the
// scroll position is on the last line's final segment.
func (s *Store) CursorVisible() (col int, ok bool) {
	s.align()
	last := len(s.lines) - 1
	if s.row != last || s.cols[last]-s.col > s.width {
		return 0, false
	}
	return s.column(s.pos) % s.width, true
}

package log

import "strconv"

// Pos returns the fields for a position in a line buffer: a 0-based row and
// a column in whatever unit the caller works in.
func Pos(row, col int) []any {
	return []any{"row", row, "col", col}
}

// Span returns the fields for the byte range [start, end) of row.
func Span(row, start, end int) []any {
	return []any{"row", row, "span", strconv.Itoa(start) + ".." + strconv.Itoa(end)}
}

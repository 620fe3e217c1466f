package logoverlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// place splices fg into the centre of bg, a screen of width by height.
// Styling on either side of the box is kept.
func place(width, height int, fg, bg string) string {
	rows := strings.Split(bg, "\n")
	for len(rows) < height {
		rows = append(rows, "")
	}

	box := strings.Split(fg, "\n")
	x := max((width-lipgloss.Width(fg))/2, 0)
	y := max((height-len(box))/2, 0)

	for i, line := range box {
		r := y + i
		if r >= len(rows) {
			break
		}
		row := rows[r]
		left := ansi.Truncate(row, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ""
		if end := x + ansi.StringWidth(line); end < ansi.StringWidth(row) {
			right = ansi.TruncateLeft(row, end, "")
		}
		rows[r] = left + line + right
	}
	return strings.Join(rows, "\n")
}

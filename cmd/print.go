package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/render"
)

// paint renders line for a terminal. A line the theme cannot paint is
// written plain.
func paint(r *render.Renderer, line attr.Line) string {
	s, err := r.FullLine(line)
	if err != nil {
		log.ErrorErr(log.CatRender, "cannot paint line, writing plain", err)
		return line.Text()
	}
	return s
}

// writeLines prints lines, optionally prefixed with 1-based line numbers.
func writeLines(w io.Writer, r *render.Renderer, lines []attr.Line, number bool) error {
	digits := len(strconv.Itoa(len(lines)))
	for i, l := range lines {
		var err error
		if number {
			_, err = fmt.Fprintf(w, "%*d  %s\n", digits, i+1, paint(r, l))
		} else {
			_, err = fmt.Fprintln(w, paint(r, l))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

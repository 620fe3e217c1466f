package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/hilite/internal/attr"
)

// ANSISurface collects painted cells as a string with SGR sequences. Runs of
// cells in one style are rendered together through lipgloss.
type ANSISurface struct {
	out    strings.Builder
	run    strings.Builder
	style  lipgloss.Style
	active bool
}

// AttrOn implements Surface.
func (a *ANSISurface) AttrOn(st lipgloss.Style) {
	a.flush()
	a.style = st
	a.active = true
}

// AttrOff implements Surface.
func (a *ANSISurface) AttrOff(lipgloss.Style) {
	a.flush()
	a.active = false
}

// Put implements Surface.
func (a *ANSISurface) Put(cluster string) {
	if a.active {
		a.run.WriteString(cluster)
		return
	}
	a.out.WriteString(cluster)
}

func (a *ANSISurface) flush() {
	if a.run.Len() == 0 {
		return
	}
	a.out.WriteString(a.style.Render(a.run.String()))
	a.run.Reset()
}

// String returns everything painted so far.
func (a *ANSISurface) String() string {
	a.flush()
	return a.out.String()
}

// Reset clears the surface for the next line.
func (a *ANSISurface) Reset() {
	a.out.Reset()
	a.run.Reset()
	a.active = false
}

// Line renders one line to a string of exactly width cells.
func (r *Renderer) Line(line attr.Line, width, offset int) (string, error) {
	var s ANSISurface
	if err := r.Draw(&s, line, width, offset); err != nil {
		return "", err
	}
	return s.String(), nil
}

// FullLine renders a whole line to a string.
func (r *Renderer) FullLine(line attr.Line) (string, error) {
	var s ANSISurface
	if err := r.DrawFull(&s, line); err != nil {
		return "", err
	}
	return s.String(), nil
}

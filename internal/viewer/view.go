package viewer

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/log"
)

func (m Model) helpView() string {
	if !m.showHelp {
		return ""
	}
	return m.help.View(m.keys)
}

func (m Model) bodyHeight() int {
	h := m.height - 1
	if v := m.helpView(); v != "" {
		h -= lipgloss.Height(v)
	}
	return max(h, 0)
}

func (m Model) gutterWidth() int {
	if m.kind != KindSource {
		return 0
	}
	// Line number, selection marker and a blank.
	return len(strconv.Itoa(max(len(m.lines()), 1))) + 2
}

func (m Model) bodyWidth() int {
	return max(m.width-m.gutterWidth(), 0)
}

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	var b strings.Builder
	if m.kind == KindSource {
		m.sourceBody(&b)
	} else {
		m.outputBody(&b)
	}
	b.WriteString(m.statusLine())
	if v := m.helpView(); v != "" {
		b.WriteString("\n")
		b.WriteString(v)
	}
	return m.logs.Overlay(b.String())
}

func (m Model) sourceBody(b *strings.Builder) {
	lines := m.lines()
	digits := m.gutterWidth() - 2
	w := m.bodyWidth()
	for i := range m.bodyHeight() {
		row := m.top + i
		if row >= len(lines) {
			b.WriteString(m.theme.Muted.Render("~"))
			b.WriteString("\n")
			continue
		}
		num := fmt.Sprintf("%*d", digits, row+1)
		if row == m.selected {
			b.WriteString(m.theme.Prompt.Render(num + ">"))
		} else {
			b.WriteString(m.theme.Muted.Render(num + " "))
		}
		b.WriteString(" ")
		b.WriteString(m.paint(row, w, m.offset))
		b.WriteString("\n")
	}
}

func (m Model) outputBody(b *strings.Builder) {
	for _, vr := range m.store.Viewport(m.bodyHeight()) {
		if vr.Row >= 0 {
			b.WriteString(m.paint(vr.Row, m.width, vr.Col))
		}
		b.WriteString("\n")
	}
}

// paint renders width columns of row from offset. A line the theme cannot
// paint is shown plain.
func (m Model) paint(row, width, offset int) string {
	line := m.lineAt(row)
	s, err := m.renderer.Line(line, width, offset)
	if err == nil {
		return s
	}
	log.ErrorErr(log.CatRender, "cannot paint line, showing plain", err, "row", row)
	s, err = m.renderer.Line(attr.Plain(line.Text()), width, offset)
	if err != nil {
		return ""
	}
	return s
}

func (m Model) statusLine() string {
	if m.searching {
		return ansi.Truncate(m.input.View(), m.width, "")
	}

	left := m.title
	if m.kind == KindSource {
		left = "[no file]"
		if m.file != nil {
			left = filepath.Base(m.file.Path)
			if m.file.Language != "" {
				left += " (" + m.file.Language + ")"
			}
		}
		if len(m.paths) > 1 {
			left = fmt.Sprintf("%s [%d/%d]", left, m.index+1, len(m.paths))
		}
	}
	right := fmt.Sprintf("%d/%d", m.Selected()+1, len(m.lines()))

	msg := ""
	if m.status != "" {
		style := m.theme.StatusBar
		if m.statusErr {
			style = m.theme.Error
		}
		msg = style.Render(" " + m.status)
	}

	bar := left + msg
	gap := m.width - ansi.StringWidth(bar) - ansi.StringWidth(right)
	if gap < 1 {
		return ansi.Truncate(bar, m.width, "…")
	}
	return m.theme.StatusBar.Render(left) + msg + m.theme.StatusBar.Render(strings.Repeat(" ", gap)+right)
}

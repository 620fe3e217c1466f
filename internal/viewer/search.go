package viewer

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/cells"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/search"
)

func (m Model) beginSearch(dir search.Direction) (tea.Model, tea.Cmd) {
	if m.session.SuppressSearch() {
		m.setStatus("search unavailable while the debugger is busy", true)
		return m, nil
	}
	// A new search starts from the line the user is looking at.
	if sel := m.Selected(); sel != m.search.Row {
		m.search.Row = sel
		m.search.ColStart, m.search.ColEnd = 0, 0
	}
	m.searching = true
	m.direction = dir
	m.input.Prompt = "/"
	if dir == search.Reverse {
		m.input.Prompt = "?"
	}
	m.input.SetValue("")
	m.preview = nil
	m.previewRow = -1
	return m, m.input.Focus()
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.searchKeys.Cancel):
		m.endSearch()
		m.revert()
		return m, nil
	case key.Matches(msg, m.searchKeys.Confirm):
		pat := m.input.Value()
		m.endSearch()
		m.commit(pat)
		return m, nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.incremental(m.input.Value())
	}
	return m, cmd
}

func (m *Model) endSearch() {
	m.searching = false
	m.input.Blur()
}

func (m *Model) request(pat string, mode search.Mode) search.Request {
	return search.Request{
		Pattern:    pat,
		Direction:  m.direction,
		Mode:       mode,
		IgnoreCase: m.ignoreCase,
		WrapScan:   m.wrapScan,
	}
}

// incremental previews the first match of the pattern typed so far without
// moving the committed anchor.
func (m *Model) incremental(pat string) {
	st := m.search
	res, err := search.SearchContext(m.ctx, m.request(pat, search.Incremental), m.lines(), &st)
	if err != nil || !res.Found() {
		m.revert()
		return
	}
	m.preview = res.Highlight
	m.previewRow = res.Row
	m.show(res.Row, res.Start)
}

func (m *Model) commit(pat string) {
	res, err := search.SearchContext(m.ctx, m.request(pat, search.Permanent), m.lines(), &m.search)
	m.report(pat, res, err)
}

func (m *Model) repeatSearch(opposite bool) {
	if m.search.Pattern == "" {
		m.setStatus("no previous search", true)
		return
	}
	if m.session.SuppressSearch() {
		m.setStatus("search unavailable while the debugger is busy", true)
		return
	}
	res, err := search.Repeat(m.lines(), &m.search, opposite, m.wrapScan)
	m.report(m.search.Pattern, res, err)
}

func (m *Model) report(pat string, res search.Result, err error) {
	var pce *search.PatternCompileError
	switch {
	case errors.As(err, &pce):
		m.revert()
		m.setStatus(pce.Error(), true)
		return
	case err != nil:
		log.ErrorErr(log.CatUI, "search failed", err, "pattern", pat)
		m.revert()
		m.setStatus(err.Error(), true)
		return
	}

	switch res.Outcome {
	case search.EmptyPattern:
		m.revert()
	case search.NoMatch:
		m.revert()
		m.setStatus("Pattern not found: "+pat, true)
	case search.MatchedPermanent:
		line := m.lines()[res.Row]
		hl, err := search.HighlightSegment(line, res.Start, res.End)
		if err != nil {
			log.ErrorErr(log.CatUI, "cannot highlight match", err, log.Span(res.Row, res.Start, res.End)...)
			m.preview = nil
		} else {
			m.preview = &hl
		}
		m.previewRow = res.Row
		m.show(res.Row, res.Start)
	}
}

// revert drops the preview and returns to the committed match.
func (m *Model) revert() {
	m.preview = nil
	m.previewRow = -1
	if n := len(m.lines()); n > 0 {
		m.show(min(m.search.Row, n-1), m.search.ColStart)
	}
}

// show brings byte start of row into view.
func (m *Model) show(row, start int) {
	lines := m.lines()
	if row < 0 || row >= len(lines) {
		return
	}
	text := lines[row].Text()
	start = min(max(start, 0), len(text))

	if m.store != nil {
		m.store.ScrollTo(row, cells.StringWidth(text[:start]))
		return
	}
	m.selectRow(row)
	col := cells.ExpandedWidth(text[:start], m.renderer.TabStop())
	if w := m.bodyWidth(); w > 0 && (col < m.offset || col >= m.offset+w) {
		m.offset = max(0, col-w/2)
		m.clamp()
	}
}

// lineAt returns row as it should be painted, with any match preview.
func (m Model) lineAt(row int) attr.Line {
	line := m.lines()[row]
	// The open output line may have grown since the preview was taken.
	if m.preview != nil && row == m.previewRow && m.preview.Text() == line.Text() {
		return *m.preview
	}
	return line
}

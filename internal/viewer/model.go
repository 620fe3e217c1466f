// Package viewer is the interactive pager: a source file window with a
// selected line, or a scroller over debugger output, both searchable with
// incremental / and ? searches.
package viewer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/keys"
	"github.com/zjrosen/hilite/internal/linestore"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/pubsub"
	"github.com/zjrosen/hilite/internal/render"
	"github.com/zjrosen/hilite/internal/search"
	"github.com/zjrosen/hilite/internal/session"
	"github.com/zjrosen/hilite/internal/source"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/ui/logoverlay"
)

// Kind selects what the viewer shows.
type Kind int

const (
	// KindSource shows classified source files with a selected line.
	KindSource Kind = iota
	// KindOutput shows the line store, wrapped at the window width.
	KindOutput
)

// FileMsg installs a classified source file.
type FileMsg struct {
	File *source.File
}

// OutputMsg appends raw debugger output to the store.
type OutputMsg struct {
	Text string
}

type loadErrMsg struct {
	path string
	err  error
}

// Config carries the settings shared by both kinds of viewer.
type Config struct {
	Theme      *theme.Table
	TabStop    int
	WrapScan   bool
	IgnoreCase bool
	// Session, when set, refuses searches while the debugger is busy.
	Session *session.State
}

// Model is the pager state.
type Model struct {
	ctx  context.Context
	kind Kind

	// source mode
	highlighter *source.Highlighter
	listener    *pubsub.ContinuousListener[string]
	paths       []string
	index       int
	file        *source.File

	// output mode
	store *linestore.Store
	title string

	renderer   *render.Renderer
	theme      *theme.Table
	keys       keys.KeyMap
	searchKeys keys.SearchKeyMap
	help       help.Model
	showHelp   bool
	logs       logoverlay.Model
	session    *session.State

	search     search.State
	wrapScan   bool
	ignoreCase bool
	input      textinput.Model
	searching  bool
	direction  search.Direction

	// preview is a copy of line previewRow with a match overlaid.
	preview    *attr.Line
	previewRow int

	selected int // source mode selected line
	top      int // source mode first visible line
	offset   int // source mode horizontal scroll, display columns

	width  int
	height int

	status    string
	statusErr bool
}

func newModel(ctx context.Context, cfg Config, kind Kind) Model {
	th := cfg.Theme
	if th == nil {
		th = theme.Default()
	}
	in := textinput.New()
	in.Prompt = "/"
	in.PromptStyle = th.Prompt

	return Model{
		ctx:        ctx,
		kind:       kind,
		renderer:   render.New(th, render.WithTabStop(cfg.TabStop)),
		theme:      th,
		keys:       keys.DefaultKeyMap(),
		searchKeys: keys.DefaultSearchKeyMap(),
		help:       help.New(),
		logs:       logoverlay.New(ctx, th),
		session:    cfg.Session,
		wrapScan:   cfg.WrapScan,
		ignoreCase: cfg.IgnoreCase,
		input:      in,
		previewRow: -1,
	}
}

// NewSource returns a viewer over the source files at paths. Files are
// loaded through h; its ClassifiedEvents reload the file on screen.
func NewSource(ctx context.Context, cfg Config, h *source.Highlighter, paths []string) Model {
	m := newModel(ctx, cfg, KindSource)
	m.highlighter = h
	m.listener = pubsub.NewContinuousListener(ctx, h.Broker())
	m.paths = make([]string, 0, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		m.paths = append(m.paths, p)
	}
	return m
}

// NewOutput returns a scroller over store.
func NewOutput(ctx context.Context, cfg Config, store *linestore.Store, title string) Model {
	m := newModel(ctx, cfg, KindOutput)
	m.store = store
	m.title = title
	return m
}

func (m Model) Init() tea.Cmd {
	if m.kind != KindSource {
		return m.logs.Listen()
	}
	return tea.Batch(m.loadCmd(), m.listener.Listen(), m.logs.Listen())
}

func (m Model) loadCmd() tea.Cmd {
	if len(m.paths) == 0 {
		return nil
	}
	path := m.paths[m.index]
	h, ctx := m.highlighter, m.ctx
	return func() tea.Msg {
		f, err := h.Load(ctx, path)
		if err != nil {
			return loadErrMsg{path: path, err: err}
		}
		return FileMsg{File: f}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.logs.SetSize(msg.Width, msg.Height)
		if m.store != nil {
			m.store.SetWidth(max(1, m.width))
		}
		m.clamp()
		return m, nil

	case FileMsg:
		m.setFile(msg.File)
		return m, nil

	case loadErrMsg:
		log.ErrorErr(log.CatUI, "cannot load source file", msg.err, "path", msg.path)
		m.setStatus(fmt.Sprintf("cannot open %s: %v", filepath.Base(msg.path), msg.err), true)
		return m, nil

	case OutputMsg:
		if m.store != nil {
			m.store.AppendRaw(msg.Text)
		}
		return m, nil

	case pubsub.Event[string]:
		if msg.Type == pubsub.LoggedEvent {
			m.logs.Append(msg.Payload)
			return m, m.logs.Listen()
		}
		if m.listener == nil {
			return m, nil
		}
		var cmd tea.Cmd
		if msg.Type == pubsub.ClassifiedEvent && m.file != nil && msg.Payload == m.file.Path {
			cmd = m.loadCmd()
		}
		return m, tea.Batch(cmd, m.listener.Listen())

	case tea.KeyMsg:
		if m.logs.Visible() {
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *Model) setFile(f *source.File) {
	same := m.file != nil && m.file.Path == f.Path
	m.file = f
	m.preview = nil
	m.previewRow = -1
	if !same {
		m.selected, m.top, m.offset = 0, 0, 0
		m.search = search.State{}
	}
	if f.Fallback() {
		m.setStatus(f.Err.Error(), true)
	}
	m.clamp()
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.statusErr = "", false
	page := max(1, m.bodyHeight()-1)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.clamp()
	case key.Matches(msg, m.keys.Logs):
		m.logs.Toggle()
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.move(-page)
	case key.Matches(msg, m.keys.PageDown):
		m.move(page)
	case key.Matches(msg, m.keys.Top):
		if m.store != nil {
			m.store.Home()
		} else {
			m.selectRow(0)
		}
	case key.Matches(msg, m.keys.Bottom):
		if m.store != nil {
			m.store.End()
		} else {
			m.selectRow(len(m.lines()) - 1)
		}
	case key.Matches(msg, m.keys.Left):
		m.scrollHorizontal(-1)
	case key.Matches(msg, m.keys.Right):
		m.scrollHorizontal(1)
	case key.Matches(msg, m.keys.NextFile):
		return m.switchFile(1)
	case key.Matches(msg, m.keys.PrevFile):
		return m.switchFile(-1)
	case key.Matches(msg, m.keys.SearchForward):
		return m.beginSearch(search.Forward)
	case key.Matches(msg, m.keys.SearchReverse):
		return m.beginSearch(search.Reverse)
	case key.Matches(msg, m.keys.Next):
		m.repeatSearch(false)
	case key.Matches(msg, m.keys.Prev):
		m.repeatSearch(true)
	}
	return m, nil
}

func (m Model) switchFile(delta int) (tea.Model, tea.Cmd) {
	if m.kind != KindSource || len(m.paths) < 2 {
		return m, nil
	}
	m.index = (m.index + delta + len(m.paths)) % len(m.paths)
	return m, m.loadCmd()
}

// move shifts the selected line in source mode and scrolls in output mode.
func (m *Model) move(delta int) {
	if m.store != nil {
		if delta < 0 {
			m.store.Up(-delta)
		} else {
			m.store.Down(delta)
		}
		return
	}
	m.selectRow(m.selected + delta)
}

func (m *Model) selectRow(row int) {
	m.selected = row
	m.clamp()
	m.ensureVisible()
}

func (m *Model) scrollHorizontal(delta int) {
	if m.file == nil {
		return
	}
	m.offset = min(max(m.offset+delta, 0), max(0, m.file.MaxWidth-m.bodyWidth()))
}

// ensureVisible scrolls so the selected line is on screen, centring it when
// it was off screen.
func (m *Model) ensureVisible() {
	h := m.bodyHeight()
	if h <= 0 {
		return
	}
	if m.selected < m.top || m.selected >= m.top+h {
		m.top = max(0, m.selected-h/2)
	}
}

func (m *Model) clamp() {
	n := len(m.lines())
	m.selected = min(max(m.selected, 0), max(n-1, 0))
	m.top = min(max(m.top, 0), max(n-1, 0))
	if m.file != nil {
		m.offset = min(m.offset, max(0, m.file.MaxWidth-m.bodyWidth()))
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m Model) lines() []attr.Line {
	switch {
	case m.store != nil:
		return m.store.Lines()
	case m.file != nil:
		return m.file.Lines
	}
	return nil
}

// Selected returns the selected line in source mode, or the row on the
// bottom of the window in output mode.
func (m Model) Selected() int {
	if m.store != nil {
		row, _ := m.store.Position()
		return row
	}
	return m.selected
}

// Top returns the first visible source line.
func (m Model) Top() int { return m.top }

// Offset returns the horizontal scroll in display columns.
func (m Model) Offset() int { return m.offset }

// Searching reports whether a pattern is being typed.
func (m Model) Searching() bool { return m.searching }

// SearchState returns the committed search anchor.
func (m Model) SearchState() search.State { return m.search }

// Preview returns the row carrying a match highlight, if any.
func (m Model) Preview() (attr.Line, int, bool) {
	if m.preview == nil {
		return attr.Line{}, -1, false
	}
	return *m.preview, m.previewRow, true
}

// Status returns the status message and whether it is an error.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

// LogsVisible reports whether the debug log overlay is open.
func (m Model) LogsVisible() bool { return m.logs.Visible() }

// File returns the source file on screen.
func (m Model) File() *source.File { return m.file }

// Package logoverlay shows the live debug log in a box over the pager.
package logoverlay

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/theme"
)

const (
	maxEntries        = 1000
	viewportMaxHeight = 20
	viewportMinHeight = 3
	boxMaxWidth       = 140
	boxMinWidth       = 30
)

// Model is the log overlay state. Entries arrive through Append as the
// logger publishes them.
type Model struct {
	visible  bool
	minLevel log.Level
	entries  []string
	width    int
	height   int
	viewport viewport.Model
	listener *log.LogListener
	theme    *theme.Table
}

// New subscribes to the logger for the lifetime of ctx. With logging off the
// overlay stays empty.
func New(ctx context.Context, th *theme.Table) Model {
	if th == nil {
		th = theme.Default()
	}
	return Model{
		minLevel: log.LevelDebug,
		listener: log.NewListener(ctx),
		theme:    th,
	}
}

// Listen waits for the next log entry, or returns nil when logging is off.
func (m Model) Listen() tea.Cmd {
	if m.listener == nil {
		return nil
	}
	return m.listener.Listen()
}

// Append records a log entry, dropping the oldest past the limit. An open
// overlay that was scrolled to the end follows new entries.
func (m *Model) Append(entry string) {
	m.entries = append(m.entries, strings.TrimSuffix(entry, "\n"))
	if over := len(m.entries) - maxEntries; over > 0 {
		m.entries = m.entries[over:]
	}
	if m.visible {
		follow := m.viewport.AtBottom()
		m.refresh()
		if follow {
			m.viewport.GotoBottom()
		}
	}
}

// Entries returns the recorded entries, oldest first.
func (m Model) Entries() []string { return m.entries }

// Update handles keys while the overlay is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "c":
			m.entries = nil
			m.refresh()
		case "d":
			m.filter(log.LevelDebug)
		case "i":
			m.filter(log.LevelInfo)
		case "w":
			m.filter(log.LevelWarn)
		case "e":
			m.filter(log.LevelError)
		case "j", "down":
			m.viewport.ScrollDown(1)
		case "k", "up":
			m.viewport.ScrollUp(1)
		case "g":
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+x", "esc":
			m.visible = false
		}
	}
	return m, nil
}

func (m *Model) filter(l log.Level) {
	m.minLevel = l
	m.refresh()
}

// MinLevel returns the lowest level shown.
func (m Model) MinLevel() log.Level { return m.minLevel }

// Filtered returns the entries at or above the filter level.
func (m Model) Filtered() []string {
	var out []string
	for _, e := range m.entries {
		if levelOf(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

// levelOf reads the level tag of an entry. Untagged entries count as errors
// so no filter hides them.
func levelOf(entry string) log.Level {
	for _, l := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo, log.LevelDebug} {
		if strings.Contains(entry, "["+l.String()+"]") {
			return l
		}
	}
	return log.LevelError
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) contentWidth() int {
	return m.boxWidth() - 2
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// Title, two dividers, hint line and the border take six rows.
	h := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	m.viewport = viewport.New(m.contentWidth(), h)
	m.viewport.SetContent(m.content())
}

func (m Model) content() string {
	if m.listener == nil && len(m.entries) == 0 {
		return m.theme.Muted.Render("Logging is off. Run with --debug to capture entries.")
	}
	entries := m.Filtered()
	if len(entries) == 0 {
		return m.theme.Muted.Render("No log entries")
	}
	w := m.contentWidth()
	lines := make([]string, len(entries))
	for i, e := range entries {
		if ansi.StringWidth(e) > w {
			e = ansi.Truncate(e, w-1, "…")
		}
		lines[i] = m.styleFor(levelOf(e)).Render(e)
	}
	return strings.Join(lines, "\n")
}

func (m Model) styleFor(l log.Level) lipgloss.Style {
	switch l {
	case log.LevelError:
		return m.theme.Error
	case log.LevelWarn:
		return m.theme.Prompt
	case log.LevelDebug:
		return m.theme.Muted
	default:
		return lipgloss.NewStyle()
	}
}

func (m Model) hints() string {
	parts := []string{m.theme.Muted.Render("[c] clear")}
	for _, f := range []struct {
		key   string
		level log.Level
	}{{"d", log.LevelDebug}, {"i", log.LevelInfo}, {"w", log.LevelWarn}, {"e", log.LevelError}} {
		label := "[" + f.key + "] " + strings.ToLower(f.level.String())
		if f.level == m.minLevel {
			parts = append(parts, m.theme.Prompt.Render(label))
		} else {
			parts = append(parts, m.theme.Muted.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

// View renders the box, or "" when closed.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	w := m.boxWidth()
	divider := m.theme.Muted.Render(strings.Repeat("─", w-2))

	body := strings.Join([]string{
		m.theme.Prompt.Render(" Debug log"),
		divider,
		m.viewport.View(),
		divider,
		m.hints(),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Color(theme.TokenMuted))).
		Width(w - 2).
		Render(body)
}

// Overlay draws the box centred over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return place(m.width, m.height, m.View(), bg)
}

// Visible reports whether the overlay is open.
func (m Model) Visible() bool { return m.visible }

// Toggle opens or closes the overlay. It opens scrolled to the newest entry.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
}

// SetSize records the screen size.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.refresh()
}

package theme

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/hilite/internal/attr"
)

// Config mirrors config.ThemeConfig to avoid circular imports.
type Config struct {
	Preset string
	Colors map[string]string
}

// Table is a resolved theme. It implements render.StyleLookup.
type Table struct {
	name   string
	colors map[ColorToken]string
	groups map[attr.Group]lipgloss.Style

	StatusBar lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
	Muted     lipgloss.Style
}

// New builds a table.
// Order of application:
// 1. Start with default colors
// 2. Apply preset (if specified)
// 3. Apply individual color overrides
// 4. Build the styles
func New(cfg Config) (*Table, error) {
	colors := maps.Clone(DefaultPreset.Colors)
	name := DefaultPreset.Name

	if cfg.Preset != "" && cfg.Preset != DefaultPreset.Name {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
		name = preset.Name
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return nil, fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return nil, fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	t := &Table{name: name, colors: colors, groups: make(map[attr.Group]lipgloss.Style, len(groupTokens))}
	t.build()
	return t, nil
}

// Default returns the default theme.
func Default() *Table {
	t, _ := New(Config{})
	return t
}

func (t *Table) build() {
	c := func(tok ColorToken) lipgloss.AdaptiveColor {
		hex := t.colors[tok]
		return lipgloss.AdaptiveColor{Light: hex, Dark: hex}
	}

	base := lipgloss.NewStyle()
	t.groups[attr.Text] = base.Foreground(c(TokenText))
	t.groups[attr.Keyword] = base.Foreground(c(TokenKeyword)).Bold(true)
	t.groups[attr.Type] = base.Foreground(c(TokenType)).Bold(true)
	t.groups[attr.Literal] = base.Foreground(c(TokenLiteral)).Bold(true)
	t.groups[attr.Comment] = base.Foreground(c(TokenComment))
	t.groups[attr.Directive] = base.Foreground(c(TokenDirective)).Bold(true)
	t.groups[attr.Path] = base.Foreground(c(TokenPath))
	t.groups[attr.BacktraceFrame] = base.Foreground(c(TokenBacktraceFrame)).Bold(true)
	t.groups[attr.Hex] = base.Foreground(c(TokenHex))
	t.groups[attr.Search] = base.Foreground(c(TokenSearch)).Background(c(TokenSearchBg))

	t.StatusBar = base.Foreground(c(TokenStatusFg)).Background(c(TokenStatusBg))
	t.Error = base.Foreground(c(TokenStatusError)).Bold(true)
	t.Prompt = base.Foreground(c(TokenPrompt)).Bold(true)
	t.Muted = base.Foreground(c(TokenMuted))
}

// Name returns the preset the table was built from.
func (t *Table) Name() string { return t.name }

// Color returns the resolved hex value of tok.
func (t *Table) Color(tok ColorToken) string { return t.colors[tok] }

// AttrFor returns the style for g.
func (t *Table) AttrFor(g attr.Group) (lipgloss.Style, error) {
	st, ok := t.groups[g]
	if !ok {
		return lipgloss.Style{}, fmt.Errorf("%w: %d", attr.ErrUnknownGroup, uint8(g))
	}
	return st, nil
}

// PresetNames lists the built-in presets, default first.
func PresetNames() []string {
	names := slices.Collect(maps.Keys(Presets))
	sort.Slice(names, func(i, j int) bool {
		if names[i] == DefaultPreset.Name {
			return true
		}
		if names[j] == DefaultPreset.Name {
			return false
		}
		return names[i] < names[j]
	})
	return names
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}

// Package theme holds the colour presets and resolves highlight groups to
// Lip Gloss styles.
package theme

import "github.com/zjrosen/hilite/internal/attr"

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens. These are the keys users can override in their config.
const (
	// Highlight groups
	TokenText           ColorToken = "text"
	TokenKeyword        ColorToken = "keyword"
	TokenType           ColorToken = "type"
	TokenLiteral        ColorToken = "literal"
	TokenComment        ColorToken = "comment"
	TokenDirective      ColorToken = "directive"
	TokenPath           ColorToken = "path"
	TokenBacktraceFrame ColorToken = "backtrace_frame"
	TokenHex            ColorToken = "hex"
	TokenSearch         ColorToken = "search"
	TokenSearchBg       ColorToken = "search.bg"

	// Viewer chrome
	TokenStatusFg    ColorToken = "status.fg"
	TokenStatusBg    ColorToken = "status.bg"
	TokenStatusError ColorToken = "status.error"
	TokenPrompt      ColorToken = "prompt"
	TokenMuted       ColorToken = "muted"
)

// groupTokens maps every highlight group to its foreground token.
var groupTokens = map[attr.Group]ColorToken{
	attr.Text:           TokenText,
	attr.Keyword:        TokenKeyword,
	attr.Type:           TokenType,
	attr.Literal:        TokenLiteral,
	attr.Comment:        TokenComment,
	attr.Directive:      TokenDirective,
	attr.Path:           TokenPath,
	attr.BacktraceFrame: TokenBacktraceFrame,
	attr.Hex:            TokenHex,
	attr.Search:         TokenSearch,
}

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenText,
		TokenKeyword,
		TokenType,
		TokenLiteral,
		TokenComment,
		TokenDirective,
		TokenPath,
		TokenBacktraceFrame,
		TokenHex,
		TokenSearch,
		TokenSearchBg,

		TokenStatusFg,
		TokenStatusBg,
		TokenStatusError,
		TokenPrompt,
		TokenMuted,
	}
}

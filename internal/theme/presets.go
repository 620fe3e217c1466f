package theme

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":          DefaultPreset,
	"catppuccin-mocha": CatppuccinMochaPreset,
	"catppuccin-latte": CatppuccinLattePreset,
	"dracula":          DraculaPreset,
	"nord":             NordPreset,
	"high-contrast":    HighContrastPreset,
}

// DefaultPreset follows the classic debugger palette: blue keywords, green
// types, red literals, yellow comments, cyan directives.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Classic terminal debugger colors",
	Colors: map[ColorToken]string{
		TokenText:           "#CCCCCC",
		TokenKeyword:        "#54A0FF",
		TokenType:           "#73F59F",
		TokenLiteral:        "#FF8787",
		TokenComment:        "#FECA57",
		TokenDirective:      "#48DBFB",
		TokenPath:           "#48DBFB",
		TokenBacktraceFrame: "#FF9F43",
		TokenHex:            "#C792EA",
		TokenSearch:         "#000000",
		TokenSearchBg:       "#FECA57",

		TokenStatusFg:    "#FFFFFF",
		TokenStatusBg:    "#2D3436",
		TokenStatusError: "#FF8787",
		TokenPrompt:      "#54A0FF",
		TokenMuted:       "#696969",
	},
}

// CatppuccinMochaPreset is the Catppuccin Mocha (dark) theme.
// Colors from: https://catppuccin.com/palette
var CatppuccinMochaPreset = Preset{
	Name:        "catppuccin-mocha",
	Description: "Catppuccin Mocha - warm, cozy dark theme",
	Colors: map[ColorToken]string{
		TokenText:           "#CDD6F4", // text
		TokenKeyword:        "#CBA6F7", // mauve
		TokenType:           "#F9E2AF", // yellow
		TokenLiteral:        "#A6E3A1", // green
		TokenComment:        "#6C7086", // overlay0
		TokenDirective:      "#F5C2E7", // pink
		TokenPath:           "#89B4FA", // blue
		TokenBacktraceFrame: "#FAB387", // peach
		TokenHex:            "#94E2D5", // teal
		TokenSearch:         "#1E1E2E", // base
		TokenSearchBg:       "#F9E2AF", // yellow

		TokenStatusFg:    "#CDD6F4",
		TokenStatusBg:    "#313244", // surface0
		TokenStatusError: "#F38BA8", // red
		TokenPrompt:      "#89B4FA",
		TokenMuted:       "#6C7086",
	},
}

// CatppuccinLattePreset is the Catppuccin Latte (light) theme.
var CatppuccinLattePreset = Preset{
	Name:        "catppuccin-latte",
	Description: "Catppuccin Latte - soft light theme",
	Colors: map[ColorToken]string{
		TokenText:           "#4C4F69",
		TokenKeyword:        "#8839EF",
		TokenType:           "#DF8E1D",
		TokenLiteral:        "#40A02B",
		TokenComment:        "#9CA0B0",
		TokenDirective:      "#EA76CB",
		TokenPath:           "#1E66F5",
		TokenBacktraceFrame: "#FE640B",
		TokenHex:            "#179299",
		TokenSearch:         "#EFF1F5",
		TokenSearchBg:       "#DF8E1D",

		TokenStatusFg:    "#4C4F69",
		TokenStatusBg:    "#CCD0DA",
		TokenStatusError: "#D20F39",
		TokenPrompt:      "#1E66F5",
		TokenMuted:       "#9CA0B0",
	},
}

// DraculaPreset is the Dracula theme.
var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dracula - dark theme with vivid colors",
	Colors: map[ColorToken]string{
		TokenText:           "#F8F8F2",
		TokenKeyword:        "#FF79C6",
		TokenType:           "#8BE9FD",
		TokenLiteral:        "#F1FA8C",
		TokenComment:        "#6272A4",
		TokenDirective:      "#FF79C6",
		TokenPath:           "#50FA7B",
		TokenBacktraceFrame: "#FFB86C",
		TokenHex:            "#BD93F9",
		TokenSearch:         "#282A36",
		TokenSearchBg:       "#F1FA8C",

		TokenStatusFg:    "#F8F8F2",
		TokenStatusBg:    "#44475A",
		TokenStatusError: "#FF5555",
		TokenPrompt:      "#BD93F9",
		TokenMuted:       "#6272A4",
	},
}

// NordPreset is the Nord theme.
var NordPreset = Preset{
	Name:        "nord",
	Description: "Nord - arctic, north-bluish palette",
	Colors: map[ColorToken]string{
		TokenText:           "#D8DEE9",
		TokenKeyword:        "#81A1C1",
		TokenType:           "#8FBCBB",
		TokenLiteral:        "#A3BE8C",
		TokenComment:        "#616E88",
		TokenDirective:      "#5E81AC",
		TokenPath:           "#88C0D0",
		TokenBacktraceFrame: "#D08770",
		TokenHex:            "#B48EAD",
		TokenSearch:         "#2E3440",
		TokenSearchBg:       "#EBCB8B",

		TokenStatusFg:    "#ECEFF4",
		TokenStatusBg:    "#3B4252",
		TokenStatusError: "#BF616A",
		TokenPrompt:      "#88C0D0",
		TokenMuted:       "#4C566A",
	},
}

// HighContrastPreset maximises legibility.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast for accessibility",
	Colors: map[ColorToken]string{
		TokenText:           "#FFFFFF",
		TokenKeyword:        "#00FFFF",
		TokenType:           "#00FF00",
		TokenLiteral:        "#FF00FF",
		TokenComment:        "#FFFF00",
		TokenDirective:      "#00FFFF",
		TokenPath:           "#00FF00",
		TokenBacktraceFrame: "#FFFF00",
		TokenHex:            "#FF00FF",
		TokenSearch:         "#000000",
		TokenSearchBg:       "#FFFF00",

		TokenStatusFg:    "#000000",
		TokenStatusBg:    "#FFFFFF",
		TokenStatusError: "#FF0000",
		TokenPrompt:      "#FFFF00",
		TokenMuted:       "#AAAAAA",
	},
}

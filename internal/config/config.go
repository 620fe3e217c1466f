// Package config provides configuration types and defaults for hilite.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/output"
	"github.com/zjrosen/hilite/internal/source"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/tracing"
)

// Config holds all configuration options for hilite.
type Config struct {
	// TabStop is the tab width in display columns.
	TabStop int `mapstructure:"tab_stop"`

	// WrapScan lets a search continue from the other end of the buffer.
	WrapScan bool `mapstructure:"wrap_scan"`

	// IgnoreCase makes searches case-insensitive.
	IgnoreCase bool `mapstructure:"ignore_case"`

	// Highlight turns syntax and output highlighting on.
	Highlight bool `mapstructure:"highlight"`

	Source  SourceConfig    `mapstructure:"source"`
	Output  output.Patterns `mapstructure:"output"`
	Theme   ThemeConfig     `mapstructure:"theme"`
	Tracing tracing.Config  `mapstructure:"tracing"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// SourceConfig controls source file classification.
type SourceConfig struct {
	// CacheTTL is how long an unused classified file stays in memory.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// Watch reclassifies loaded files when they change on disk.
	Watch bool `mapstructure:"watch"`

	// LanguageOverrides force a lexer for files matching a glob, in order.
	LanguageOverrides []source.Override `mapstructure:"language_overrides"`
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	Preset string `mapstructure:"preset"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and quoted dot notation:
	//   colors:
	//     keyword: "#FF0000"
	//     "search.bg": "#FFFF00"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// Table resolves the theme into styles.
func (t ThemeConfig) Table() (*theme.Table, error) {
	return theme.New(theme.Config{Preset: t.Preset, Colors: t.FlattenedColors()})
}

func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// DefaultTracesFilePath returns ~/.config/hilite/traces/traces.jsonl, or ""
// when the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hilite", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()

	return Config{
		TabStop:    8,
		WrapScan:   true,
		IgnoreCase: false,
		Highlight:  true,
		Source: SourceConfig{
			CacheTTL: 30 * time.Minute,
			Watch:    true,
		},
		Output:  output.DefaultPatterns(),
		Tracing: tr,
		Flags:   map[string]bool{},
	}
}

// Validate checks the configuration for errors. Empty values that have a
// default are accepted.
func Validate(c Config) error {
	if c.TabStop < 1 || c.TabStop > 32 {
		return fmt.Errorf("tab_stop must be between 1 and 32, got %d", c.TabStop)
	}
	if c.Source.CacheTTL < 0 {
		return fmt.Errorf("source.cache_ttl must not be negative, got %s", c.Source.CacheTTL)
	}
	for i, o := range c.Source.LanguageOverrides {
		if o.Match == "" || o.Language == "" {
			return fmt.Errorf("source.language_overrides[%d]: match and language are required", i)
		}
		if _, err := filepath.Match(o.Match, ""); err != nil {
			return fmt.Errorf("source.language_overrides[%d]: bad glob %q: %w", i, o.Match, err)
		}
	}
	if _, err := c.Theme.Table(); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	if _, err := output.Compile(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tr.SampleRate)
	}

	if tr.Exporter != "" {
		switch tr.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
		}
	}

	if tr.Enabled {
		if tr.Exporter == "file" && tr.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tr.Exporter == "otlp" && tr.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# hilite configuration

# Tab width in display columns
tab_stop: 8

# Searches continue from the other end of the buffer
wrap_scan: true

# Case-insensitive search
ignore_case: false

# Syntax and debugger output highlighting
highlight: true

# Source files
source:
  cache_ttl: 30m   # how long an unused classified file stays in memory
  watch: true      # reclassify files when they change on disk
  # language_overrides:
  #   - match: "*.h"
  #     language: "C++"
  #   - match: "Buildfile"
  #     language: "Python"

# Debugger output recognisers (Go regular expression syntax)
# output:
#   path: '(?:[\w.~+\-]+/[\w.~+\-/]*|/[\w.~+\-][\w.~+\-/]*)(?::\d+)?'
#   frame: '#\d+'
#   hex: '0[xX][0-9A-Fa-f]+'

# Theme configuration
theme:
  # Use a preset (run 'hilite themes' to see available presets):
  # preset: catppuccin-mocha
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   keyword: "#FFFFFF"
  #   "search.bg": "#FFFF00"

# Tracing
# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp
#   file_path: ~/.config/hilite/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# Feature flags
# flags:
#   prehighlight: true     # classify every file given to 'hilite view' in the background
#   watch-sources: true    # follow source.watch
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// Package output highlights text printed by the debugger: file paths (with
// an optional :line suffix), backtrace frame numbers and hex literals.
// Everything else stays Text.
package output

import (
	"context"
	"regexp"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/pattern"
	"github.com/zjrosen/hilite/internal/tracing"
)

// Default sub-patterns. A path is a token holding a '/' with at least one
// other path character, optionally followed by :<line>.
const (
	DefaultPathPattern  = `(?:[\w.~+\-]+/[\w.~+\-/]*|/[\w.~+\-][\w.~+\-/]*)(?::\d+)?`
	DefaultFramePattern = `#\d+`
	DefaultHexPattern   = `0[xX][0-9A-Fa-f]+`
)

// Patterns holds the three recognisers. They are combined into one
// alternation in the order Path, BacktraceFrame, Hex, so when several could
// match at the same position the earlier one wins.
type Patterns struct {
	Path  string `mapstructure:"path"`
	Frame string `mapstructure:"frame"`
	Hex   string `mapstructure:"hex"`
}

// DefaultPatterns returns the built-in recognisers.
func DefaultPatterns() Patterns {
	return Patterns{Path: DefaultPathPattern, Frame: DefaultFramePattern, Hex: DefaultHexPattern}
}

// Span is a classified range of a chunk, in byte offsets.
type Span = attr.Span

// Classifier owns the compiled alternation for its lifetime.
type Classifier struct {
	re     *regexp.Regexp
	groups []attr.Group // indexed by submatch number; Text for unnamed groups
}

// New returns a classifier using the default patterns.
func New() *Classifier {
	c, err := Compile(DefaultPatterns())
	if err != nil {
		panic(err) // defaults are constant
	}
	return c
}

// Compile builds a classifier from p. Empty fields fall back to the defaults.
// Sub-patterns must not contain named groups of their own.
func Compile(p Patterns) (*Classifier, error) {
	def := DefaultPatterns()
	if p.Path == "" {
		p.Path = def.Path
	}
	if p.Frame == "" {
		p.Frame = def.Frame
	}
	if p.Hex == "" {
		p.Hex = def.Hex
	}

	expr := `(?P<path>` + p.Path + `)|(?P<frame>` + p.Frame + `)|(?P<hex>` + p.Hex + `)`
	re, err := pattern.Compile(expr, false)
	if err != nil {
		return nil, err
	}

	groups := make([]attr.Group, re.NumSubexp()+1)
	for i, name := range re.SubexpNames() {
		switch name {
		case "path":
			groups[i] = attr.Path
		case "frame":
			groups[i] = attr.BacktraceFrame
		case "hex":
			groups[i] = attr.Hex
		}
	}
	return &Classifier{re: re, groups: groups}, nil
}

// Spans classifies text and returns ordered, non-overlapping spans covering
// all of it. Runs between matches are Text; empty runs are omitted.
func (c *Classifier) Spans(text string) []Span {
	var spans []Span
	emit := func(start, end int, g attr.Group) {
		if end > start {
			spans = append(spans, Span{Start: start, End: end, Group: g})
		}
	}

	cursor := 0
	for cursor < len(text) {
		loc := c.re.FindStringSubmatchIndex(text[cursor:])
		if loc == nil {
			break
		}
		start, end := cursor+loc[0], cursor+loc[1]
		if end == start {
			// Zero-length match: step over one byte so the scan always advances.
			emit(cursor, start+1, attr.Text)
			cursor = start + 1
			continue
		}
		emit(cursor, start, attr.Text)
		emit(start, end, c.groupOf(loc))
		cursor = end
	}
	emit(cursor, len(text), attr.Text)
	return spans
}

// groupOf returns the group of the named alternative that participated.
func (c *Classifier) groupOf(loc []int) attr.Group {
	for i := 1; i < len(c.groups); i++ {
		if c.groups[i] != attr.Text && loc[2*i] >= 0 {
			return c.groups[i]
		}
	}
	return attr.Text
}

// Classify returns text as an attributed line.
func (c *Classifier) Classify(text string) attr.Line {
	return c.ClassifyContext(context.Background(), text)
}

// ClassifyContext is Classify with a tracing parent.
func (c *Classifier) ClassifyContext(ctx context.Context, text string) attr.Line {
	_, span := tracing.Start(ctx, tracing.SpanOutputClassify, attribute.Int(tracing.AttrTextLength, len(text)))

	spans := c.Spans(text)
	var b attr.Builder
	for _, s := range spans {
		b.Write(s.Group, text[s.Start:s.End])
	}
	if len(spans) > 0 && spans[len(spans)-1].Group != attr.Text {
		b.SetGroup(attr.Text)
	}

	span.SetAttributes(attribute.Int(tracing.AttrSpanCount, len(spans)))
	tracing.End(span, nil)
	log.Debug(log.CatOutput, "classified", "bytes", len(text), "spans", len(spans))
	return b.Line()
}

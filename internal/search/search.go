// Package search finds pattern matches across a buffer of attributed lines.
//
// Matching runs on the visible text of each line. A permanent search moves
// the committed anchor in State; an incremental search leaves State alone
// and returns a copy of the matched line with the match overlaid in the
// Search group, for display until the next redraw.
package search

import (
	"context"
	"fmt"
	"regexp"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/pattern"
	"github.com/zjrosen/hilite/internal/tracing"
)

// PatternCompileError reports a search pattern that does not compile.
type PatternCompileError = pattern.CompileError

// Direction of a search.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Reverse {
		return Forward
	}
	return Reverse
}

// Mode selects whether a match is committed.
type Mode int

const (
	// Incremental shows the match without moving the anchor.
	Incremental Mode = iota
	// Permanent commits the match as the new anchor.
	Permanent
)

func (m Mode) String() string {
	if m == Permanent {
		return "permanent"
	}
	return "incremental"
}

// Outcome classifies a search result.
type Outcome int

const (
	NoMatch Outcome = iota
	MatchedIncremental
	MatchedPermanent
	EmptyPattern
	InvalidPattern
)

func (o Outcome) String() string {
	switch o {
	case MatchedIncremental:
		return "incremental"
	case MatchedPermanent:
		return "permanent"
	case EmptyPattern:
		return "empty"
	case InvalidPattern:
		return "invalid"
	default:
		return "no-match"
	}
}

// State is the last committed match. The zero value anchors at the start of
// the buffer. Only permanent searches modify it.
type State struct {
	Row      int
	ColStart int
	ColEnd   int

	// Pattern, Direction and IgnoreCase of the last committed search, for
	// repeating it.
	Pattern    string
	Direction  Direction
	IgnoreCase bool
}

// Request describes one search.
type Request struct {
	Pattern    string
	Direction  Direction
	Mode       Mode
	IgnoreCase bool
	// WrapScan continues from the other end of the buffer when the scan
	// reaches the last (or first) line without a match.
	WrapScan bool
}

// Result is what the display should do after a search.
type Result struct {
	Outcome Outcome
	// Row is the line to select. On failure it is the committed row.
	Row int
	// Start and End bound the match in the visible text of Row.
	Start int
	End   int
	// Highlight is the matched line with the match overlaid, set only for
	// incremental matches.
	Highlight *attr.Line
}

// Found reports whether the search matched.
func (r Result) Found() bool {
	return r.Outcome == MatchedIncremental || r.Outcome == MatchedPermanent
}

// Search runs req over lines from the anchor in st.
func Search(req Request, lines []attr.Line, st *State) (Result, error) {
	return SearchContext(context.Background(), req, lines, st)
}

// SearchContext is Search with a tracing parent.
func SearchContext(ctx context.Context, req Request, lines []attr.Line, st *State) (res Result, err error) {
	_, span := tracing.Start(ctx, tracing.SpanSearchRun,
		attribute.String(tracing.AttrPattern, req.Pattern),
		attribute.String(tracing.AttrDirection, req.Direction.String()),
		attribute.String(tracing.AttrMode, req.Mode.String()),
	)
	defer func() {
		span.SetAttributes(
			attribute.String(tracing.AttrOutcome, res.Outcome.String()),
			attribute.Int(tracing.AttrRow, res.Row),
		)
		tracing.End(span, err)
	}()

	anchor := clampRow(st.Row, len(lines))
	res = Result{Outcome: NoMatch, Row: anchor}

	if req.Pattern == "" {
		res.Outcome = EmptyPattern
		return res, nil
	}

	re, err := pattern.Compile(req.Pattern, req.IgnoreCase)
	if err != nil {
		log.Warn(log.CatSearch, "pattern rejected", "pattern", req.Pattern, "error", err)
		res.Outcome = InvalidPattern
		return res, err
	}
	if len(lines) == 0 {
		return res, nil
	}

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text()
	}

	var m match
	var ok bool
	if req.Direction == Reverse {
		m, ok = scanReverse(re, texts, anchor, st.ColStart, req.WrapScan)
	} else {
		m, ok = scanForward(re, texts, anchor, st, req.WrapScan)
	}
	if !ok {
		log.Debug(log.CatSearch, "no match",
			append(log.Pos(anchor, st.ColEnd), "pattern", req.Pattern, "direction", req.Direction)...)
		return res, nil
	}

	res.Row, res.Start, res.End = m.row, m.start, m.end
	if req.Mode == Permanent {
		st.Row, st.ColStart, st.ColEnd = m.row, m.start, m.end
		st.Pattern, st.Direction, st.IgnoreCase = req.Pattern, req.Direction, req.IgnoreCase
		res.Outcome = MatchedPermanent
	} else {
		hl, err := HighlightSegment(lines[m.row], m.start, m.end)
		if err != nil {
			return Result{Outcome: NoMatch, Row: anchor}, fmt.Errorf("highlight match: %w", err)
		}
		res.Highlight = &hl
		res.Outcome = MatchedIncremental
	}
	log.Debug(log.CatSearch, "match",
		append(log.Span(m.row, m.start, m.end), "pattern", req.Pattern, "mode", req.Mode)...)
	return res, nil
}

// Repeat reruns the committed pattern as a permanent search, in the
// committed direction or its opposite.
func Repeat(lines []attr.Line, st *State, opposite, wrapScan bool) (Result, error) {
	dir := st.Direction
	if opposite {
		dir = dir.Opposite()
	}
	req := Request{
		Pattern:    st.Pattern,
		Direction:  dir,
		Mode:       Permanent,
		IgnoreCase: st.IgnoreCase,
		WrapScan:   wrapScan,
	}
	res, err := Search(req, lines, st)
	// Repeating keeps the original direction for the next n.
	if res.Outcome == MatchedPermanent && opposite {
		st.Direction = dir.Opposite()
	}
	return res, err
}

// HighlightSegment returns a copy of line with the visible bytes in
// [start, end) shown in the Search group. The group the line had at end is
// restored there.
func HighlightSegment(line attr.Line, start, end int) (attr.Line, error) {
	return line.Overlay(start, end, attr.Search)
}

// clampRow keeps row inside a buffer of n lines; row 0 when it is empty.
func clampRow(row, n int) int {
	return max(min(row, n-1), 0)
}

type match struct {
	row, start, end int
}

// scanForward scans from the anchor's committed end to the last line, then,
// with wrapScan, from the first line up to the anchor.
func scanForward(re *regexp.Regexp, texts []string, anchor int, st *State, wrapScan bool) (match, bool) {
	scan := func(from, to int) (match, bool) {
		for row := from; row < to; row++ {
			text := texts[row]
			off := 0
			if row == anchor {
				off = st.ColEnd
				if off >= len(text) {
					continue
				}
			}
			loc := re.FindStringIndex(text[off:])
			// Stepping over an empty match at a committed empty match keeps
			// repeated searches moving.
			if loc != nil && row == anchor && loc[0] == 0 && loc[1] == 0 && st.ColStart == st.ColEnd && off+1 <= len(text) {
				off++
				loc = re.FindStringIndex(text[off:])
			}
			if loc != nil {
				return match{row: row, start: off + loc[0], end: off + loc[1]}, true
			}
		}
		return match{}, false
	}

	if m, ok := scan(anchor, len(texts)); ok {
		return m, true
	}
	if !wrapScan || anchor == 0 {
		return match{}, false
	}
	return scan(0, anchor)
}

// scanReverse takes, on the anchor line, the rightmost match starting before
// colStart, then the rightmost match on each earlier line, then with wrapScan
// each line from the last down to just after the anchor.
func scanReverse(re *regexp.Regexp, texts []string, anchor, colStart int, wrapScan bool) (match, bool) {
	scan := func(from, to int) (match, bool) {
		for row := from; row >= to; row-- {
			limit := len(texts[row]) - 1
			if row == anchor {
				limit = colStart - 1
			}
			if m, ok := rightmost(re, texts[row], limit); ok {
				m.row = row
				return m, true
			}
		}
		return match{}, false
	}

	if m, ok := scan(anchor, 0); ok {
		return m, true
	}
	last := len(texts) - 1
	if !wrapScan || anchor == last {
		return match{}, false
	}
	return scan(last, anchor+1)
}

// rightmost returns the match with the greatest start at or before limit.
// Candidate starts are found by re-running the pattern on successive
// suffixes, so every start position is considered once.
func rightmost(re *regexp.Regexp, text string, limit int) (match, bool) {
	var best match
	found := false
	for pos := 0; pos <= limit && pos < len(text); {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		if start > limit {
			break
		}
		best, found = match{start: start, end: pos + loc[1]}, true
		pos = start + 1
	}
	return best, found
}

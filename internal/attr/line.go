package attr

import (
	"fmt"
	"slices"
	"strings"
)

// Mark switches the active group at a logical (visible-text) byte offset.
type Mark struct {
	Offset int
	Group  Group
}

// Span is a non-empty run of visible text rendered in one group.
type Span struct {
	Start int
	End   int
	Group Group
}

// Len returns the number of visible bytes in the span.
func (s Span) Len() int { return s.End - s.Start }

// Line is an immutable attributed line. The zero value is an empty Text line.
type Line struct {
	text  string
	marks []Mark
}

// Plain returns an unattributed line.
func Plain(text string) Line {
	return Line{text: text}
}

// NewLine builds a line from text and marks. Marks must be sorted by offset,
// lie within [0, len(text)] and name valid groups.
func NewLine(text string, marks []Mark) (Line, error) {
	prev := 0
	for i, m := range marks {
		if !m.Group.Valid() {
			return Line{}, fmt.Errorf("mark %d: %w: %d", i, ErrUnknownGroup, m.Group)
		}
		if m.Offset < prev || m.Offset > len(text) {
			return Line{}, fmt.Errorf("mark %d at offset %d: %w", i, m.Offset, ErrUnorderedMarks)
		}
		prev = m.Offset
	}
	return Line{text: text, marks: slices.Clone(marks)}, nil
}

// Text returns the visible text with every mark stripped.
func (l Line) Text() string { return l.text }

// Len returns the logical length (visible bytes).
func (l Line) Len() int { return len(l.text) }

// Marks returns a copy of the line's marks.
func (l Line) Marks() []Mark { return slices.Clone(l.marks) }

// IsPlain reports whether the line carries no marks.
func (l Line) IsPlain() bool { return len(l.marks) == 0 }

// GroupAt returns the group active for the visible byte at offset. Marks
// sitting exactly at offset apply. GroupAt(Len()) is the trailing group.
func (l Line) GroupAt(offset int) Group {
	g := Text
	for _, m := range l.marks {
		if m.Offset > offset {
			break
		}
		g = m.Group
	}
	return g
}

// TrailingGroup returns the group in effect after the last visible byte.
func (l Line) TrailingGroup() Group {
	if len(l.marks) == 0 {
		return Text
	}
	return l.marks[len(l.marks)-1].Group
}

// Spans returns the non-empty runs of the line in order. Adjacent runs in the
// same group are merged.
func (l Line) Spans() []Span {
	if len(l.text) == 0 {
		return nil
	}
	var spans []Span
	cur := Text
	start := 0
	emit := func(end int) {
		if end <= start {
			return
		}
		if n := len(spans); n > 0 && spans[n-1].Group == cur && spans[n-1].End == start {
			spans[n-1].End = end
		} else {
			spans = append(spans, Span{Start: start, End: end, Group: cur})
		}
		start = end
	}
	for _, m := range l.marks {
		emit(m.Offset)
		cur = m.Group
	}
	emit(len(l.text))
	return spans
}

// Overlay returns a copy of l with [start, end) shown in group g. Marks inside
// the range are suppressed and the group the original line has at end is
// restored there, so text after the range keeps its classification.
func (l Line) Overlay(start, end int, g Group) (Line, error) {
	mustValid(g)
	if start < 0 || end < start || end > len(l.text) {
		return Line{}, fmt.Errorf("%w: [%d, %d) on line of length %d", ErrInvalidRange, start, end, len(l.text))
	}

	restore := l.GroupAt(end)
	marks := make([]Mark, 0, len(l.marks)+2)
	for _, m := range l.marks {
		if m.Offset < start {
			marks = append(marks, m)
		}
	}
	marks = append(marks, Mark{Offset: start, Group: g}, Mark{Offset: end, Group: restore})
	for _, m := range l.marks {
		if m.Offset > end {
			marks = append(marks, m)
		}
	}
	return Line{text: l.text, marks: marks}, nil
}

// Equal reports whether both lines have the same text and the same marks.
func (l Line) Equal(o Line) bool {
	return l.text == o.text && slices.Equal(l.marks, o.marks)
}

// String renders the line with bracketed group names, e.g.
// "[keyword]int[text] x". Intended for logs and test failures.
func (l Line) String() string {
	var b strings.Builder
	prev := 0
	for _, m := range l.marks {
		b.WriteString(l.text[prev:m.Offset])
		b.WriteByte('[')
		b.WriteString(m.Group.String())
		b.WriteByte(']')
		prev = m.Offset
	}
	b.WriteString(l.text[prev:])
	return b.String()
}

// Builder accumulates text under an active group and produces a Line.
type Builder struct {
	buf   strings.Builder
	marks []Mark
}

// SetGroup switches the active group at the current end of the text.
// Passing an undeclared group panics: producers only use the constants.
func (b *Builder) SetGroup(g Group) {
	mustValid(g)
	b.marks = append(b.marks, Mark{Offset: b.buf.Len(), Group: g})
}

// WriteString appends visible text in the active group.
func (b *Builder) WriteString(s string) {
	b.buf.WriteString(s)
}

// Write appends s in group g and leaves g active.
func (b *Builder) Write(g Group, s string) {
	b.SetGroup(g)
	b.buf.WriteString(s)
}

// Len returns the visible length accumulated so far.
func (b *Builder) Len() int { return b.buf.Len() }

// Line returns the accumulated line. The builder can keep being used.
func (b *Builder) Line() Line {
	return Line{text: b.buf.String(), marks: slices.Clone(b.marks)}
}

// Reset clears the builder.
func (b *Builder) Reset() {
	b.buf.Reset()
	b.marks = b.marks[:0]
}

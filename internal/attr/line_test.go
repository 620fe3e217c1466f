package attr

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func buildLine(parts ...any) Line {
	var b Builder
	for i := 0; i+1 < len(parts); i += 2 {
		b.Write(parts[i].(Group), parts[i+1].(string))
	}
	return b.Line()
}

func TestGroup_String(t *testing.T) {
	seen := map[string]bool{}
	for _, g := range Groups() {
		require.True(t, g.Valid())
		require.False(t, seen[g.String()], "duplicate name %q", g.String())
		seen[g.String()] = true
	}

	require.Equal(t, "group(42)", Group(42).String())
	require.Len(t, Groups(), 10)
}

func TestNewLine_Validation(t *testing.T) {
	_, err := NewLine("abc", []Mark{{Offset: 2, Group: Keyword}, {Offset: 1, Group: Text}})
	require.ErrorIs(t, err, ErrUnorderedMarks)

	_, err = NewLine("abc", []Mark{{Offset: 4, Group: Keyword}})
	require.ErrorIs(t, err, ErrUnorderedMarks)

	_, err = NewLine("abc", []Mark{{Offset: 0, Group: Group(200)}})
	require.ErrorIs(t, err, ErrUnknownGroup)

	l, err := NewLine("abc", []Mark{{Offset: 0, Group: Keyword}, {Offset: 3, Group: Text}})
	require.NoError(t, err)
	require.Equal(t, "abc", l.Text())
}

func TestLine_GroupAt(t *testing.T) {
	l := buildLine(Text, "int ", Keyword, "return", Text, " 0;")

	require.Equal(t, Text, l.GroupAt(0))
	require.Equal(t, Keyword, l.GroupAt(4))
	require.Equal(t, Keyword, l.GroupAt(9))
	require.Equal(t, Text, l.GroupAt(10))
	require.Equal(t, Text, l.TrailingGroup())
	require.Equal(t, Text, Plain("x").GroupAt(0))
}

func TestLine_Spans(t *testing.T) {
	l := buildLine(Text, "", Keyword, "if", Text, " (", Literal, `"x"`, Text, ")")

	require.Equal(t, []Span{
		{Start: 0, End: 2, Group: Keyword},
		{Start: 2, End: 4, Group: Text},
		{Start: 4, End: 7, Group: Literal},
		{Start: 7, End: 8, Group: Text},
	}, l.Spans())
}

func TestLine_SpansMergesAdjacentSameGroup(t *testing.T) {
	l := buildLine(Text, "ab", Text, "cd", Comment, "")

	require.Equal(t, []Span{{Start: 0, End: 4, Group: Text}}, l.Spans())
	require.Nil(t, Plain("").Spans())
}

func TestLine_Overlay(t *testing.T) {
	l := buildLine(Text, "x = ", Literal, `"abc"`, Text, ";")

	got, err := l.Overlay(2, 6, Search)
	require.NoError(t, err)
	require.Equal(t, l.Text(), got.Text())

	require.Equal(t, []Span{
		{Start: 0, End: 2, Group: Text},
		{Start: 2, End: 6, Group: Search},
		{Start: 6, End: 9, Group: Literal},
		{Start: 9, End: 10, Group: Text},
	}, got.Spans())
}

func TestLine_OverlayWholeLine(t *testing.T) {
	l := buildLine(Text, "", Keyword, "while", Text, " 1")

	got, err := l.Overlay(0, l.Len(), Search)
	require.NoError(t, err)

	marks := got.Marks()
	require.Equal(t, Mark{Offset: 0, Group: Search}, marks[0])
	require.Equal(t, Mark{Offset: l.Len(), Group: Text}, marks[len(marks)-1])
	require.Equal(t, []Span{{Start: 0, End: 7, Group: Search}}, got.Spans())
}

func TestLine_OverlayRestoresMarkAtEnd(t *testing.T) {
	// A mark sitting exactly at the end of the range is the group restored.
	l := buildLine(Text, "ab", Comment, "cd")

	got, err := l.Overlay(0, 2, Search)
	require.NoError(t, err)
	require.Equal(t, Comment, got.GroupAt(2))
	require.Equal(t, Search, got.GroupAt(1))
}

func TestLine_OverlayEmptyRange(t *testing.T) {
	l := Plain("abc")

	got, err := l.Overlay(1, 1, Search)
	require.NoError(t, err)
	require.Equal(t, []Span{{Start: 0, End: 3, Group: Text}}, got.Spans())
}

func TestLine_OverlayInvalidRange(t *testing.T) {
	l := Plain("abc")
	for _, r := range [][2]int{{-1, 1}, {2, 1}, {0, 4}} {
		_, err := l.Overlay(r[0], r[1], Search)
		require.ErrorIs(t, err, ErrInvalidRange, "range %v", r)
	}
}

func TestLine_String(t *testing.T) {
	l := buildLine(Text, "", Keyword, "int", Text, " x")
	require.Equal(t, "[text][keyword]int[text] x", l.String())
}

func TestBuilder_PanicsOnUnknownGroup(t *testing.T) {
	var b Builder
	require.Panics(t, func() { b.SetGroup(Group(99)) })
}

func TestBuilder_Reset(t *testing.T) {
	var b Builder
	b.Write(Keyword, "abc")
	b.Reset()
	require.Equal(t, 0, b.Len())
	require.True(t, b.Line().Equal(Line{text: ""}))
}

// genLine draws an arbitrary attributed line from printable ASCII.
func genLine(t *rapid.T) Line {
	var b Builder
	n := rapid.IntRange(0, 8).Draw(t, "chunks")
	for i := 0; i < n; i++ {
		g := Group(rapid.IntRange(0, int(groupCount)-1).Draw(t, "group"))
		s := rapid.StringMatching(`[ -~]{0,12}`).Draw(t, "text")
		b.Write(g, s)
	}
	return b.Line()
}

func TestProperty_OverlayKeepsText(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := genLine(rt)
		start := rapid.IntRange(0, l.Len()).Draw(rt, "start")
		end := rapid.IntRange(start, l.Len()).Draw(rt, "end")

		got, err := l.Overlay(start, end, Search)
		require.NoError(rt, err)
		require.Equal(rt, l.Text(), got.Text())

		for i := 0; i < l.Len(); i++ {
			if i >= start && i < end {
				require.Equal(rt, Search, got.GroupAt(i))
			} else {
				require.Equal(rt, l.GroupAt(i), got.GroupAt(i))
			}
		}
	})
}

func TestProperty_SpansCoverText(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := genLine(rt)
		var joined string
		pos := 0
		for _, s := range l.Spans() {
			require.Equal(rt, pos, s.Start)
			require.Positive(rt, s.Len())
			joined += l.Text()[s.Start:s.End]
			pos = s.End
		}
		require.Equal(rt, l.Text(), joined)
	})
}

package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/cells"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)
}

// fakeStyles gives every group a distinct foreground equal to its ordinal.
type fakeStyles struct {
	missing map[attr.Group]bool
}

func (f fakeStyles) AttrFor(g attr.Group) (lipgloss.Style, error) {
	if f.missing[g] {
		return lipgloss.Style{}, errors.New("not in table")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprint(int(g) + 1))), nil
}

func fg(g attr.Group) string { return fmt.Sprint(int(g) + 1) }

type cell struct {
	text string
	fg   string
}

type recorder struct {
	cells  []cell
	events []string
	cur    string
	on     bool
}

func colorOf(st lipgloss.Style) string {
	c, _ := st.GetForeground().(lipgloss.Color)
	return string(c)
}

func (r *recorder) AttrOn(st lipgloss.Style) {
	r.cur, r.on = colorOf(st), true
	r.events = append(r.events, "on:"+r.cur)
}

func (r *recorder) AttrOff(st lipgloss.Style) {
	r.on = false
	r.events = append(r.events, "off:"+colorOf(st))
}

func (r *recorder) Put(c string) {
	f := ""
	if r.on {
		f = r.cur
	}
	r.cells = append(r.cells, cell{c, f})
}

func (r *recorder) text() string {
	var b strings.Builder
	for _, c := range r.cells {
		b.WriteString(c.text)
	}
	return b.String()
}

func (r *recorder) width() int {
	w := 0
	for _, c := range r.cells {
		w += cells.Width(c.text)
	}
	return w
}

func draw(t *testing.T, line attr.Line, width, offset int) *recorder {
	t.Helper()
	var rec recorder
	require.NoError(t, New(fakeStyles{}).Draw(&rec, line, width, offset))
	return &rec
}

func line(parts ...any) attr.Line {
	var b attr.Builder
	for i := 0; i+1 < len(parts); i += 2 {
		b.Write(parts[i].(attr.Group), parts[i+1].(string))
	}
	return b.Line()
}

func TestDraw_SingleTabIsEightBlanks(t *testing.T) {
	rec := draw(t, attr.Plain("\t"), 8, 0)
	require.Equal(t, strings.Repeat(" ", 8), rec.text())
	require.Len(t, rec.cells, 8)
}

func TestDraw_TabFromColumnFive(t *testing.T) {
	rec := draw(t, attr.Plain("abcde\tX"), 9, 0)
	require.Equal(t, "abcde   X", rec.text())
}

func TestDraw_PartialTabAtOffset(t *testing.T) {
	rec := draw(t, attr.Plain("\tX"), 6, 3)
	require.Equal(t, "     X", rec.text())
}

func TestDraw_TabClippedByWidth(t *testing.T) {
	rec := draw(t, attr.Plain("ab\tX"), 4, 0)
	require.Equal(t, "ab  ", rec.text())
}

func TestDraw_OffsetAndClip(t *testing.T) {
	rec := draw(t, attr.Plain("0123456789"), 4, 3)
	require.Equal(t, "3456", rec.text())
}

func TestDraw_PadsInFinalStyle(t *testing.T) {
	rec := draw(t, line(attr.Text, "x ", attr.Comment, "/*"), 6, 0)

	require.Equal(t, "x /*  ", rec.text())
	require.Equal(t, fg(attr.Comment), rec.cells[5].fg)
	require.Equal(t, fg(attr.Text), rec.cells[0].fg)
	require.Equal(t, []string{"on:" + fg(attr.Text), "off:" + fg(attr.Text), "on:" + fg(attr.Comment), "off:" + fg(attr.Comment)}, rec.events)
}

func TestDraw_EmptyLinePadsAsText(t *testing.T) {
	rec := draw(t, attr.Plain(""), 3, 0)
	require.Equal(t, "   ", rec.text())
	require.Equal(t, fg(attr.Text), rec.cells[0].fg)
	require.Equal(t, "off:"+fg(attr.Text), rec.events[len(rec.events)-1])
}

func TestDraw_SkippedGroupsNeverActivate(t *testing.T) {
	rec := draw(t, line(attr.Comment, "// ", attr.Keyword, "int"), 3, 3)

	require.Equal(t, "int", rec.text())
	require.Equal(t, []string{"on:" + fg(attr.Keyword), "off:" + fg(attr.Keyword)}, rec.events)
}

func TestDraw_WideRunes(t *testing.T) {
	rec := draw(t, attr.Plain("a世b"), 2, 0)
	require.Equal(t, "a ", rec.text())
	require.Equal(t, 2, rec.width())

	rec = draw(t, attr.Plain("a世b"), 3, 2)
	require.Equal(t, " b ", rec.text())

	rec = draw(t, attr.Plain("a世b"), 4, 0)
	require.Equal(t, "a世b", rec.text())
	require.Equal(t, 4, rec.width())
}

func TestDraw_ZeroWidth(t *testing.T) {
	rec := draw(t, attr.Plain("abc"), 0, 0)
	require.Empty(t, rec.cells)
	require.Empty(t, rec.events)
}

func TestDrawFull(t *testing.T) {
	var rec recorder
	require.NoError(t, New(fakeStyles{}).DrawFull(&rec, line(attr.Keyword, "if", attr.Text, "\tx")))

	require.Equal(t, "if      x", rec.text())
	require.Equal(t, "off:"+fg(attr.Text), rec.events[len(rec.events)-1])
}

func TestDraw_WithTabStop(t *testing.T) {
	var rec recorder
	require.NoError(t, New(fakeStyles{}, WithTabStop(4)).Draw(&rec, attr.Plain("a\tb"), 5, 0))
	require.Equal(t, "a   b", rec.text())
}

func TestDraw_StyleLookupFailure(t *testing.T) {
	var rec recorder
	r := New(fakeStyles{missing: map[attr.Group]bool{attr.Comment: true}})

	err := r.Draw(&rec, line(attr.Text, "x ", attr.Comment, "# c"), 10, 0)

	var le *StyleLookupError
	require.ErrorAs(t, err, &le)
	require.Equal(t, attr.Comment, le.Group)
	require.Empty(t, rec.cells)
}

func TestLine_ANSI(t *testing.T) {
	r := New(fakeStyles{})
	out, err := r.Line(line(attr.Keyword, "int", attr.Text, " x"), 8, 0)
	require.NoError(t, err)

	require.Contains(t, out, "\x1b[")
	require.Equal(t, "int x   ", ansi.Strip(out))
	require.Equal(t, 8, ansi.StringWidth(out))

	full, err := r.FullLine(attr.Plain("a\tb"))
	require.NoError(t, err)
	require.Equal(t, "a       b", ansi.Strip(full))
}

func TestProperty_ExactWidth(t *testing.T) {
	r := New(fakeStyles{})
	rapid.Check(t, func(rt *rapid.T) {
		var b attr.Builder
		n := rapid.IntRange(0, 6).Draw(rt, "chunks")
		for range n {
			g := attr.Group(rapid.IntRange(0, len(attr.Groups())-1).Draw(rt, "group"))
			b.Write(g, rapid.StringMatching(`[a-z \t世]{0,10}`).Draw(rt, "text"))
		}
		width := rapid.IntRange(1, 30).Draw(rt, "width")
		offset := rapid.IntRange(0, 40).Draw(rt, "offset")

		var rec recorder
		require.NoError(rt, r.Draw(&rec, b.Line(), width, offset))
		require.Equal(rt, width, rec.width())

		require.NotEmpty(rt, rec.events)
		require.True(rt, strings.HasPrefix(rec.events[len(rec.events)-1], "off:"))
		for _, c := range rec.cells {
			require.NotEmpty(rt, c.fg, "cell painted without an active style")
		}
	})
}

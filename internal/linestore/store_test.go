package linestore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/session"
)

func texts(s *Store) []string {
	var out []string
	for _, l := range s.Lines() {
		out = append(out, l.Text())
	}
	return out
}

func TestNew_StartsWithBlankLine(t *testing.T) {
	s := New()
	require.Equal(t, 1, s.LineCount())
	l, err := s.LineAt(0)
	require.NoError(t, err)
	require.Equal(t, "", l.Text())
}

func TestAppendRaw_Normalisation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"newlines split", "hello\nworld", []string{"hello", "world"}},
		{"trailing newline opens blank line", "hello\n", []string{"hello", ""}},
		{"backspace overwrites", "abc\bX", []string{"abX"}},
		{"backspace at column zero", "\b\bab", []string{"ab"}},
		{"delete acts like backspace", "abc\x7f\x7fZ", []string{"aZc"}},
		{"tab from column zero", "\tx", []string{"        x"}},
		{"tab from column five", "abcde\tx", []string{"abcde   x"}},
		{"tab at a stop", "abcdefgh\tx", []string{"abcdefgh        x"}},
		{"carriage return overwrites", "hello\rHE", []string{"HEllo"}},
		{"crlf", "one\r\ntwo", []string{"one", "two"}},
		{"controls dropped", "a\x01b\x1b[0mc", []string{"ab[0mc"}},
		{"trailing blanks past cursor trimmed", "abc   \r", []string{"abc"}},
		{"blank under cursor kept", "ab  \b\b", []string{"ab "}},
		{"wide rune tab", "世\tx", []string{"世      x"}},
		{"invalid utf8 dropped", "a\xffb", []string{"ab"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.AppendRaw(tt.raw)
			require.Equal(t, tt.want, texts(s))
		})
	}
}

func TestAppendRaw_CursorPersistsAcrossCalls(t *testing.T) {
	s := New()
	s.AppendRaw("abc")
	s.AppendRaw("\bd")
	s.AppendRaw("e")
	require.Equal(t, []string{"abde"}, texts(s))

	row, pos := s.Cursor()
	require.Equal(t, 0, row)
	require.Equal(t, 4, pos)

	s.AppendRaw("\r")
	s.AppendRaw("X\n")
	require.Equal(t, []string{"Xbde", ""}, texts(s))
	row, pos = s.Cursor()
	require.Equal(t, 1, row)
	require.Equal(t, 0, pos)
}

func TestAppendRaw_CursorCountsClusters(t *testing.T) {
	s := New()
	s.AppendRaw("héllo\b\b\bE")
	require.Equal(t, []string{"héElo"}, texts(s))
}

func TestAppendRaw_Classifies(t *testing.T) {
	upper := ClassifierFunc(func(text string) attr.Line {
		var b attr.Builder
		b.Write(attr.Keyword, text)
		return b.Line()
	})

	s := New(WithClassifier(upper))
	s.AppendRaw("break main\ncontinue")

	for row := range s.LineCount() {
		l, err := s.LineAt(row)
		require.NoError(t, err)
		require.Equal(t, attr.Keyword, l.GroupAt(0), "row %d", row)
	}
}

func TestAppendRaw_SessionSuppressesClassification(t *testing.T) {
	st := &session.State{Listing: true}
	s := New(
		WithSession(st),
		WithClassifier(ClassifierFunc(func(text string) attr.Line {
			var b attr.Builder
			b.Write(attr.Path, text)
			return b.Line()
		})),
	)

	s.AppendRaw("src/a.c\n")
	l, _ := s.LineAt(0)
	require.True(t, l.IsPlain())

	st.Reset()
	s.AppendRaw("src/b.c")
	l, _ = s.LineAt(1)
	require.Equal(t, attr.Path, l.GroupAt(0))
}

func TestAppendRaw_ClassifierMustKeepText(t *testing.T) {
	s := New(WithClassifier(ClassifierFunc(func(string) attr.Line {
		return attr.Plain("something else")
	})))
	s.AppendRaw("abc")
	l, _ := s.LineAt(0)
	require.Equal(t, "abc", l.Text())
}

func TestReplaceLine(t *testing.T) {
	s := New()
	s.AppendRaw("int x\n")

	var b attr.Builder
	b.Write(attr.Type, "int")
	b.Write(attr.Text, " x")
	require.NoError(t, s.ReplaceLine(0, b.Line()))

	l, err := s.LineAt(0)
	require.NoError(t, err)
	require.Equal(t, attr.Type, l.GroupAt(0))

	require.ErrorIs(t, s.ReplaceLine(5, b.Line()), ErrRowOutOfRange)
	require.ErrorIs(t, s.ReplaceLine(-1, b.Line()), ErrRowOutOfRange)
	require.ErrorIs(t, s.ReplaceLine(1, b.Line()), ErrTextMismatch)
}

func TestVisibleLength(t *testing.T) {
	s := New()
	s.AppendRaw("abc\n世界")

	n, err := s.VisibleLength(0)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = s.VisibleLength(1)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	_, err = s.LineAt(2)
	require.ErrorIs(t, err, ErrRowOutOfRange)
	_, err = s.VisibleLength(2)
	require.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestWithTabStop(t *testing.T) {
	s := New(WithTabStop(4))
	s.AppendRaw("ab\tc")
	require.Equal(t, []string{"ab  c"}, texts(s))
}

func TestProperty_NormalisedLines(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		raw := rapid.StringMatching(`[a-c \t\x08\x7f\r\n\x01\x1b]{0,60}`).Draw(rt, "raw")

		s := New()
		s.AppendRaw(raw)

		require.Equal(rt, strings.Count(raw, "\n")+1, s.LineCount())
		for _, text := range texts(s) {
			require.NotContains(rt, text, "\t")
			require.NotContains(rt, text, "\b")
			require.NotContains(rt, text, "\r")
			require.NotContains(rt, text, "\x7f")
			require.NotContains(rt, text, "\x01")
			require.NotContains(rt, text, "\x1b")
		}

		row, pos := s.Cursor()
		require.Equal(rt, s.LineCount()-1, row)
		n, err := s.VisibleLength(row)
		require.NoError(rt, err)
		require.LessOrEqual(rt, pos, n)
	})
}

package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/attr"
)

// fakeTokenizer returns canned tokens for every language it supports.
type fakeTokenizer struct {
	langs  map[string]bool
	tokens []Token
	err    error
	calls  int
}

func (f *fakeTokenizer) Supports(language string) bool { return f.langs[language] }

func (f *fakeTokenizer) Tokenize(_, _ string) ([]Token, error) {
	f.calls++
	return f.tokens, f.err
}

func TestGroupFor(t *testing.T) {
	cases := map[TokenKind]attr.Group{
		KindText:       attr.Text,
		KindKeyword:    attr.Keyword,
		KindType:       attr.Type,
		KindLiteral:    attr.Literal,
		KindNumber:     attr.Text,
		KindComment:    attr.Comment,
		KindDirective:  attr.Directive,
		KindIdentifier: attr.Text,
		KindError:      attr.Text,
	}
	for kind, want := range cases {
		got, err := groupFor(kind)
		require.NoError(t, err, kind.String())
		require.Equal(t, want, got, kind.String())
	}

	_, err := groupFor(TokenKind(200))
	require.ErrorIs(t, err, ErrUnknownTokenKind)
	require.Equal(t, "kind(200)", TokenKind(200).String())
}

func TestSplitLines(t *testing.T) {
	require.Nil(t, SplitLines(""))
	require.Equal(t, []string{""}, SplitLines("\n"))
	require.Equal(t, []string{"a"}, SplitLines("a"))
	require.Equal(t, []string{"a"}, SplitLines("a\n"))
	require.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb\n"))
	require.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\r\n"))
}

func TestClassifyTokens_NewlineStartsTextLine(t *testing.T) {
	tokens := []Token{
		{KindKeyword, "return"},
		{KindText, " "},
		{KindNumber, "0"},
		{KindText, ";\n"},
		{KindIdentifier, "x"},
		{KindText, "\n"},
	}
	lines, err := classifyTokens(tokens, []string{"return 0;", "x"})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	require.Equal(t, []attr.Mark{{Offset: 0, Group: attr.Keyword}, {Offset: 6, Group: attr.Text}}, lines[0].Marks())
	require.Equal(t, []attr.Mark{{Offset: 0, Group: attr.Text}}, lines[1].Marks())
}

func TestClassifyTokens_MultiLineToken(t *testing.T) {
	tokens := []Token{
		{KindComment, "/* a\n   b */"},
		{KindText, " x"},
	}
	lines, err := classifyTokens(tokens, []string{"/* a", "   b */ x"})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	require.Equal(t, attr.Comment, lines[0].GroupAt(0))
	require.Equal(t, attr.Comment, lines[1].GroupAt(0))
	require.Equal(t, attr.Comment, lines[1].GroupAt(6))
	require.Equal(t, attr.Text, lines[1].GroupAt(8))
	require.Equal(t, attr.Text, lines[1].Marks()[0].Group, "continuation line still opens with Text")
}

func TestClassifyTokens_BlankLines(t *testing.T) {
	tokens := []Token{{KindText, "a\n\n\nb"}}
	lines, err := classifyTokens(tokens, []string{"a", "", "", "b"})
	require.NoError(t, err)
	require.Len(t, lines, 4)
	require.Equal(t, "", lines[2].Text())
	require.Equal(t, "b", lines[3].Text())
}

func TestClassifyTokens_TextMismatch(t *testing.T) {
	_, err := classifyTokens([]Token{{KindText, "a\nb"}}, []string{"a", "c"})
	require.ErrorIs(t, err, ErrTextChanged)

	_, err = classifyTokens([]Token{{KindText, "a"}}, []string{"a", "b"})
	require.ErrorIs(t, err, ErrTextChanged)
}

func TestClassifyTokens_UnknownKind(t *testing.T) {
	_, err := classifyTokens([]Token{{TokenKind(99), "a"}}, []string{"a"})
	require.ErrorIs(t, err, ErrUnknownTokenKind)
}

func TestTokenizeError(t *testing.T) {
	cause := errors.New("lexer exploded")
	err := error(&TokenizeError{Path: "main.c", Language: "C", Err: cause})
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "main.c")

	var te *TokenizeError
	require.ErrorAs(t, err, &te)
	require.Equal(t, "C", te.Language)
}

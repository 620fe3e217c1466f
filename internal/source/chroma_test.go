package source

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/attr"
)

const cSource = `#include <stdio.h>
/* two
   lines */
int main(void) {
	return 0; // done
}
`

func TestKindFor(t *testing.T) {
	cases := []struct {
		tt   chroma.TokenType
		want TokenKind
	}{
		{chroma.KeywordType, KindType},
		{chroma.Keyword, KindKeyword},
		{chroma.KeywordReserved, KindKeyword},
		{chroma.CommentPreproc, KindDirective},
		{chroma.CommentPreprocFile, KindDirective},
		{chroma.CommentSingle, KindComment},
		{chroma.CommentMultiline, KindComment},
		{chroma.LiteralString, KindLiteral},
		{chroma.LiteralStringChar, KindLiteral},
		{chroma.LiteralNumberInteger, KindNumber},
		{chroma.NameFunction, KindIdentifier},
		{chroma.Operator, KindText},
		{chroma.Punctuation, KindText},
		{chroma.TextWhitespace, KindText},
		{chroma.Error, KindError},
	}
	for _, tc := range cases {
		got, err := kindFor(tc.tt)
		require.NoError(t, err, tc.tt.String())
		require.Equal(t, tc.want, got, tc.tt.String())
	}
}

func TestChromaTokenizer_Supports(t *testing.T) {
	tok := NewChromaTokenizer()
	require.True(t, tok.Supports("C"))
	require.True(t, tok.Supports("go"))
	require.False(t, tok.Supports(""))
	require.False(t, tok.Supports("no-such-language"))

	_, err := tok.Tokenize("no-such-language", "x")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestChromaTokenizer_ReproducesText(t *testing.T) {
	tokens, err := NewChromaTokenizer().Tokenize("C", cSource)
	require.NoError(t, err)

	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	require.Equal(t, cSource, b.String())
}

func TestHighlight_CSource(t *testing.T) {
	f := New().Highlight("main.c", "C", cSource)
	require.NoError(t, f.Err)
	require.Len(t, f.Lines, 6)

	for i, want := range SplitLines(cSource) {
		require.Equal(t, want, f.Lines[i].Text(), "line %d", i)
	}

	require.Equal(t, attr.Directive, f.Lines[0].GroupAt(0))
	require.Equal(t, attr.Comment, f.Lines[1].GroupAt(0))
	require.Equal(t, attr.Comment, f.Lines[2].GroupAt(3))
	require.Equal(t, attr.Type, f.Lines[3].GroupAt(0))
	require.Equal(t, attr.Text, f.Lines[3].GroupAt(4), "identifiers are plain")

	ret := f.Lines[4]
	require.Equal(t, attr.Keyword, ret.GroupAt(strings.Index(ret.Text(), "return")))
	require.Equal(t, attr.Text, ret.GroupAt(strings.Index(ret.Text(), "0")), "numbers are plain")
	require.Equal(t, attr.Comment, ret.GroupAt(strings.Index(ret.Text(), "//")))
}

func TestHighlight_GoStringLiteral(t *testing.T) {
	src := "package main\n\nvar s = \"hi\"\n"
	f := New().Highlight("main.go", "go", src)
	require.NoError(t, f.Err)
	require.Len(t, f.Lines, 3)

	require.Equal(t, attr.Keyword, f.Lines[0].GroupAt(0))
	last := f.Lines[2]
	require.Equal(t, attr.Literal, last.GroupAt(strings.Index(last.Text(), "\"hi\"")))
}

package source

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ChromaTokenizer tokenizes with the chroma lexer registry. Languages are
// chroma lexer names or aliases ("C", "go", "python").
type ChromaTokenizer struct{}

// NewChromaTokenizer returns the default Tokenizer.
func NewChromaTokenizer() *ChromaTokenizer {
	return &ChromaTokenizer{}
}

func (ChromaTokenizer) Supports(language string) bool {
	return language != "" && lexers.Get(language) != nil
}

func (ChromaTokenizer) Tokenize(language, src string) ([]Token, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return nil, fmt.Errorf("lexing: %w", err)
	}

	var tokens []Token
	for tok := it(); tok != chroma.EOF; tok = it() {
		kind, err := kindFor(tok.Type)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, Token{Kind: kind, Text: tok.Value})
	}
	return tokens, nil
}

// kindFor folds chroma's token hierarchy into TokenKind. Order matters:
// KeywordType and the preprocessor comments are checked before their
// parent categories.
func kindFor(t chroma.TokenType) (TokenKind, error) {
	switch {
	case t == chroma.KeywordType:
		return KindType, nil
	case t == chroma.CommentPreproc, t == chroma.CommentPreprocFile:
		return KindDirective, nil
	case t.InCategory(chroma.Comment):
		return KindComment, nil
	case t.InCategory(chroma.Keyword):
		return KindKeyword, nil
	case t.InSubCategory(chroma.LiteralString):
		return KindLiteral, nil
	case t.InSubCategory(chroma.LiteralNumber):
		return KindNumber, nil
	case t.InCategory(chroma.Literal):
		return KindLiteral, nil
	case t.InCategory(chroma.Name):
		return KindIdentifier, nil
	case t == chroma.Error:
		return KindError, nil
	case t == chroma.Other, t == chroma.None,
		t.InCategory(chroma.Text),
		t.InCategory(chroma.Operator),
		t.InCategory(chroma.Punctuation),
		t.InCategory(chroma.Generic):
		return KindText, nil
	default:
		return KindText, fmt.Errorf("%w: chroma %s", ErrUnknownTokenKind, t)
	}
}

// Package source turns whole source files into attributed lines.
//
// A Tokenizer splits a file into tokens of a small closed set of kinds;
// Highlight maps each kind to an attribute group and cuts the stream into
// lines. Files in languages no tokenizer supports are copied verbatim.
package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/hilite/internal/attr"
)

// TokenKind is the category a tokenizer assigns to a token.
type TokenKind uint8

const (
	KindText TokenKind = iota
	KindKeyword
	KindType
	KindLiteral
	KindNumber
	KindComment
	KindDirective
	KindIdentifier
	KindError
)

var kindNames = [...]string{
	KindText:       "text",
	KindKeyword:    "keyword",
	KindType:       "type",
	KindLiteral:    "literal",
	KindNumber:     "number",
	KindComment:    "comment",
	KindDirective:  "directive",
	KindIdentifier: "identifier",
	KindError:      "error",
}

func (k TokenKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Token is one lexeme. Text may span several lines.
type Token struct {
	Kind TokenKind
	Text string
}

// Tokenizer is the language-aware lexer collaborator.
type Tokenizer interface {
	// Supports reports whether language can be tokenized.
	Supports(language string) bool
	// Tokenize returns the tokens of src. Concatenating the token texts
	// must reproduce src, apart from a single trailing newline.
	Tokenize(language, src string) ([]Token, error)
}

var (
	// ErrUnknownTokenKind is returned for a token kind outside the closed set.
	ErrUnknownTokenKind = errors.New("unknown token kind")
	// ErrUnsupportedLanguage is returned by tokenizers asked for a language
	// they do not support. Highlight treats it as a verbatim copy.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrTextChanged is returned when the tokens do not reproduce the file.
	ErrTextChanged = errors.New("tokens do not reproduce source text")
)

// TokenizeError reports that a file could not be tokenized. The file is
// still shown, as plain lines.
type TokenizeError struct {
	Path     string
	Language string
	Err      error
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("tokenize %s as %s: %v", e.Path, e.Language, e.Err)
}

func (e *TokenizeError) Unwrap() error { return e.Err }

// groupFor maps a token kind to the group it is painted in. Numbers and
// identifiers stay plain.
func groupFor(k TokenKind) (attr.Group, error) {
	switch k {
	case KindKeyword:
		return attr.Keyword, nil
	case KindType:
		return attr.Type, nil
	case KindLiteral:
		return attr.Literal, nil
	case KindComment:
		return attr.Comment, nil
	case KindDirective:
		return attr.Directive, nil
	case KindText, KindNumber, KindIdentifier, KindError:
		return attr.Text, nil
	default:
		return attr.Text, fmt.Errorf("%w: %d", ErrUnknownTokenKind, uint8(k))
	}
}

// lineBuilder cuts a token stream into attributed lines. Every line after
// the first opens with an explicit Text directive.
type lineBuilder struct {
	b      attr.Builder
	active attr.Group
	lines  []attr.Line
}

func newLineBuilder() *lineBuilder {
	return &lineBuilder{active: attr.Text}
}

func (lb *lineBuilder) write(g attr.Group, s string) {
	for {
		nl := strings.IndexByte(s, '\n')
		chunk := s
		if nl >= 0 {
			chunk = s[:nl]
		}
		if chunk != "" {
			if g != lb.active {
				lb.b.SetGroup(g)
				lb.active = g
			}
			lb.b.WriteString(chunk)
		}
		if nl < 0 {
			return
		}
		lb.newline()
		s = s[nl+1:]
	}
}

func (lb *lineBuilder) newline() {
	lb.lines = append(lb.lines, lb.b.Line())
	lb.b.Reset()
	lb.b.SetGroup(attr.Text)
	lb.active = attr.Text
}

func (lb *lineBuilder) finish() []attr.Line {
	if lb.b.Len() > 0 {
		lb.lines = append(lb.lines, lb.b.Line())
	}
	return lb.lines
}

// classifyTokens converts tokens into lines and checks that they reproduce
// want, the file's plain lines.
func classifyTokens(tokens []Token, want []string) ([]attr.Line, error) {
	lb := newLineBuilder()
	for _, tok := range tokens {
		g, err := groupFor(tok.Kind)
		if err != nil {
			return nil, err
		}
		lb.write(g, tok.Text)
	}
	lines := lb.finish()

	if len(lines) != len(want) {
		return nil, fmt.Errorf("%w: %d lines, want %d", ErrTextChanged, len(lines), len(want))
	}
	for i, l := range lines {
		if l.Text() != want[i] {
			return nil, fmt.Errorf("%w: line %d", ErrTextChanged, i+1)
		}
	}
	return lines, nil
}

// SplitLines splits src into lines. A trailing newline terminates the last
// line rather than starting an empty one, and CRLF endings are accepted.
func SplitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if src == "" {
		return nil
	}
	src = strings.TrimSuffix(src, "\n")
	return strings.Split(src, "\n")
}

func plainLines(text []string) []attr.Line {
	lines := make([]attr.Line, len(text))
	for i, t := range text {
		lines[i] = attr.Plain(t)
	}
	return lines
}

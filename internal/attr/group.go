// Package attr defines the attributed-line model shared by the classifiers,
// the renderer and the search engine.
//
// A Line is visible text plus an ordered list of marks. Each mark switches the
// active highlight group from its logical offset onwards; a line with no marks
// is entirely Text. The sentinel byte stream used on the wire (see codec.go)
// is derived from this representation and parsed back into it.
package attr

import "fmt"

// Group is a highlighting category.
type Group uint8

// Highlight groups. Text is the implicit state at the start of every line.
const (
	Text Group = iota
	Keyword
	Type
	Literal
	Comment
	Directive
	Path
	BacktraceFrame
	Hex
	Search

	groupCount
)

var groupNames = [groupCount]string{
	Text:           "text",
	Keyword:        "keyword",
	Type:           "type",
	Literal:        "literal",
	Comment:        "comment",
	Directive:      "directive",
	Path:           "path",
	BacktraceFrame: "backtrace_frame",
	Hex:            "hex",
	Search:         "search",
}

// Valid reports whether g is one of the declared groups.
func (g Group) Valid() bool {
	return g < groupCount
}

func (g Group) String() string {
	if !g.Valid() {
		return fmt.Sprintf("group(%d)", uint8(g))
	}
	return groupNames[g]
}

// Groups returns every declared group in ordinal order.
func Groups() []Group {
	out := make([]Group, 0, groupCount)
	for g := Text; g < groupCount; g++ {
		out = append(out, g)
	}
	return out
}

func mustValid(g Group) {
	if !g.Valid() {
		panic(fmt.Sprintf("attr: %v is not a highlight group", g))
	}
}

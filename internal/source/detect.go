package source

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	enry "github.com/go-enry/go-enry/v2"
)

// enryAliases maps linguist language names to chroma lexer names where the
// lowercased linguist name is not already a chroma alias.
var enryAliases = map[string]string{
	"Shell":       "bash",
	"Emacs Lisp":  "emacslisp",
	"Vim Script":  "vim",
	"Objective-C": "objective-c",
}

// Override forces a lexer for files whose base name matches a glob.
type Override struct {
	Match    string `mapstructure:"match"`
	Language string `mapstructure:"language"`
}

// Matches reports whether the override applies to path. Globs are matched
// against the base name, case-insensitively.
func (o Override) Matches(path string) bool {
	ok, err := filepath.Match(strings.ToLower(o.Match), strings.ToLower(filepath.Base(path)))
	return err == nil && ok
}

// DetectLanguage picks a chroma lexer name for path. The first matching
// override wins over everything else. Then the file name is matched against
// the lexer registry, and finally the content's shebang or editor modeline
// is consulted. Returns "" when nothing matches.
func DetectLanguage(path string, content []byte, overrides []Override) string {
	for _, o := range overrides {
		if o.Matches(path) {
			return o.Language
		}
	}

	base := filepath.Base(path)

	if l := lexers.Match(base); l != nil {
		return l.Config().Name
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		if name := chromaName(lang); name != "" {
			return name
		}
	}
	if lang, safe := enry.GetLanguageByModeline(content); safe {
		if name := chromaName(lang); name != "" {
			return name
		}
	}
	return ""
}

func chromaName(enryName string) string {
	alias, ok := enryAliases[enryName]
	if !ok {
		alias = strings.ToLower(enryName)
	}
	if l := lexers.Get(alias); l != nil {
		return l.Config().Name
	}
	return ""
}

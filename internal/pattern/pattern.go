// Package pattern compiles user and configuration regular expressions.
package pattern

import (
	"fmt"
	"regexp"
)

// CompileError reports a pattern that failed to compile.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compile compiles expr, case-insensitively when ignoreCase is set.
func Compile(expr string, ignoreCase bool) (*regexp.Regexp, error) {
	src := expr
	if ignoreCase {
		src = "(?i)" + expr
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, &CompileError{Pattern: expr, Err: err}
	}
	return re, nil
}

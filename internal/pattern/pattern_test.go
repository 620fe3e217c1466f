package pattern

import (
	"errors"
	"regexp/syntax"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	re, err := Compile("main", false)
	require.NoError(t, err)
	require.False(t, re.MatchString("MAIN"))

	re, err = Compile("main", true)
	require.NoError(t, err)
	require.True(t, re.MatchString("MAIN"))
}

func TestCompile_Error(t *testing.T) {
	_, err := Compile("ma(in", true)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "ma(in", ce.Pattern)

	var se *syntax.Error
	require.True(t, errors.As(err, &se))
	require.Contains(t, err.Error(), `invalid pattern "ma(in"`)
}

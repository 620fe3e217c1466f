package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_WritesFiles(t *testing.T) {
	tree := NewBuilder(t).
		WithFile("a.c", "int x;\n").
		WithFile("sub/dir/b.txt", "plain\n").
		Build()

	require.True(t, filepath.IsAbs(tree.Dir))
	data, err := os.ReadFile(tree.Path("a.c"))
	require.NoError(t, err)
	require.Equal(t, "int x;\n", string(data))

	data, err = os.ReadFile(tree.Path("sub/dir/b.txt"))
	require.NoError(t, err)
	require.Equal(t, "plain\n", string(data))
	require.Equal(t, filepath.Join(tree.Dir, "sub", "dir", "b.txt"), tree.Path("sub/dir/b.txt"))
}

func TestBuilder_Options(t *testing.T) {
	tree := NewBuilder(t).
		WithFile("dos.c", "a\nb\n", CRLF()).
		WithFile("run", "#!/bin/sh\n", Executable()).
		Build()

	data, err := os.ReadFile(tree.Path("dos.c"))
	require.NoError(t, err)
	require.Equal(t, "a\r\nb\r\n", string(data))

	fi, err := os.Stat(tree.Path("run"))
	require.NoError(t, err)
	require.NotZero(t, fi.Mode()&0o100)
}

func TestTree_PathsAndRewrite(t *testing.T) {
	tree := NewBuilder(t).WithDemoSources().Build()
	paths := tree.Paths("demo.c", "rebuild")
	require.Len(t, paths, 2)
	require.Equal(t, tree.Path("rebuild"), paths[1])

	tree.Rewrite(t, "demo.c", "int y;\n")
	data, err := os.ReadFile(tree.Path("demo.c"))
	require.NoError(t, err)
	require.Equal(t, "int y;\n", string(data))
}

func TestTree_UnknownNamePanics(t *testing.T) {
	tree := NewBuilder(t).Build()
	require.Panics(t, func() { tree.Path("missing.c") })
}

func TestBacktraceInTranscript(t *testing.T) {
	require.Contains(t, GDBTranscript, Backtrace)
	require.Equal(t, "main", Backtrace[26:30])
}

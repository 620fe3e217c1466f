// Package testutil builds source trees and debugger transcripts for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fileData holds a file to be written.
type fileData struct {
	name    string
	content string
	mode    os.FileMode
	crlf    bool
}

// Builder accumulates files and writes them under a temp directory.
type Builder struct {
	t     *testing.T
	dir   string
	files []fileData
}

// NewBuilder creates a builder writing under a fresh t.TempDir().
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, dir: t.TempDir()}
}

// WithFile adds a file. name may contain slashes; parent directories are
// created.
func (b *Builder) WithFile(name, content string, opts ...FileOption) *Builder {
	f := fileData{name: name, content: content, mode: 0o644}
	for _, opt := range opts {
		opt(&f)
	}
	b.files = append(b.files, f)
	return b
}

// Build writes every file and returns the tree.
func (b *Builder) Build() *Tree {
	b.t.Helper()
	tree := &Tree{Dir: b.dir, paths: make(map[string]string, len(b.files))}
	for _, f := range b.files {
		path := filepath.Join(b.dir, filepath.FromSlash(f.name))
		require.NoError(b.t, os.MkdirAll(filepath.Dir(path), 0o755))

		content := f.content
		if f.crlf {
			content = strings.ReplaceAll(content, "\n", "\r\n")
		}
		require.NoError(b.t, os.WriteFile(path, []byte(content), f.mode))
		tree.paths[f.name] = path
	}
	return tree
}

// Tree is a written set of files.
type Tree struct {
	// Dir is the absolute root of the tree.
	Dir   string
	paths map[string]string
}

// Path returns the absolute path of a file added with WithFile. It panics
// on names that were never added so a typo fails the test loudly.
func (tr *Tree) Path(name string) string {
	p, ok := tr.paths[name]
	if !ok {
		panic("testutil: no file " + name + " in tree")
	}
	return p
}

// Paths returns the absolute paths of the named files, in order.
func (tr *Tree) Paths(names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = tr.Path(n)
	}
	return out
}

// Rewrite replaces a file's content, as an editor saving it would.
func (tr *Tree) Rewrite(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(tr.Path(name), []byte(content), 0o644))
}

package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/pubsub"
	"github.com/zjrosen/hilite/internal/watcher"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}

func waitFor(t *testing.T, ch <-chan pubsub.Event[string], typ pubsub.EventType, path string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Type == typ && ev.Payload == path {
				return
			}
		case <-deadline:
			t.Fatalf("no %s event for %s", typ, path)
		}
	}
}

func TestHighlight_UnsupportedLanguageIsVerbatim(t *testing.T) {
	tok := &fakeTokenizer{}
	h := New(WithTokenizer(tok))

	f := h.Highlight("notes.xyz", "", "alpha\n\tbeta\n")
	require.NoError(t, f.Err)
	require.False(t, f.Fallback())
	require.Equal(t, []attr.Line{attr.Plain("alpha"), attr.Plain("\tbeta")}, f.Lines)
	require.Equal(t, 12, f.MaxWidth, "tab expands to column 8")
	require.Zero(t, tok.calls)

	f = h.Highlight("notes.xyz", "cobol", "x")
	require.Equal(t, []attr.Line{attr.Plain("x")}, f.Lines)
	require.Zero(t, tok.calls)
}

func TestHighlight_UnrecognizedLanguageIsIdempotent(t *testing.T) {
	h := New()
	src := "alpha beta\n\tgamma 0x10\n\n"

	first := h.Highlight("notes.xyz", "", src)
	second := h.Highlight("notes.xyz", "", src)
	require.NoError(t, first.Err)
	require.Equal(t, first.Lines, second.Lines)
	require.Equal(t, first.MaxWidth, second.MaxWidth)
	for _, l := range first.Lines {
		require.True(t, l.IsPlain())
	}

	path := writeSource(t, "notes.xyz", src)
	loaded, err := h.Load(context.Background(), path)
	require.NoError(t, err)
	h.Invalidate(context.Background(), path)
	reloaded, err := h.Load(context.Background(), path)
	require.NoError(t, err)
	require.NotSame(t, loaded, reloaded)
	require.Equal(t, first.Lines, loaded.Lines)
	require.Equal(t, loaded.Lines, reloaded.Lines)
}

func TestHighlight_TokenizerFailureFallsBack(t *testing.T) {
	cause := errors.New("lexer failed")
	tok := &fakeTokenizer{langs: map[string]bool{"C": true}, err: cause}
	h := New(WithTokenizer(tok))

	f := h.Highlight("main.c", "C", "int x;\nint y;\n")
	require.True(t, f.Fallback())
	require.ErrorIs(t, f.Err, cause)

	var te *TokenizeError
	require.ErrorAs(t, f.Err, &te)
	require.Equal(t, "main.c", te.Path)
	require.Equal(t, []attr.Line{attr.Plain("int x;"), attr.Plain("int y;")}, f.Lines)

	again := h.Highlight("main.c", "C", "int x;\nint y;\n")
	require.Equal(t, f.Lines, again.Lines, "fallback is idempotent")
}

func TestHighlight_MismatchedTokensFallBack(t *testing.T) {
	tok := &fakeTokenizer{
		langs:  map[string]bool{"C": true},
		tokens: []Token{{KindKeyword, "int"}},
	}
	f := New(WithTokenizer(tok)).Highlight("main.c", "C", "int x;\n")
	require.ErrorIs(t, f.Err, ErrTextChanged)
	require.Equal(t, []attr.Line{attr.Plain("int x;")}, f.Lines)
}

func TestHighlight_Disabled(t *testing.T) {
	tok := &fakeTokenizer{langs: map[string]bool{"C": true}}
	f := New(WithTokenizer(tok), WithHighlighting(false)).Highlight("main.c", "C", "int x;")
	require.Equal(t, []attr.Line{attr.Plain("int x;")}, f.Lines)
	require.Zero(t, tok.calls)
}

func TestDetectLanguage(t *testing.T) {
	require.Equal(t, "C", DetectLanguage("src/main.c", nil, nil))
	require.Equal(t, "Go", DetectLanguage("cmd/root.go", nil, nil))

	overrides := []Override{
		{Match: "*.h", Language: "C++"},
		{Match: "Buildfile", Language: "Python"},
		{Match: "*", Language: "Fallback"},
	}
	require.Equal(t, "C++", DetectLanguage("include/x.H", nil, overrides))
	require.Equal(t, "Python", DetectLanguage("pkg/buildfile", nil, overrides))
	require.Equal(t, "Fallback", DetectLanguage("main.c", nil, overrides))

	bash := lexers.Get("bash").Config().Name
	require.Equal(t, bash, DetectLanguage("runme", []byte("#!/bin/bash\necho hi\n"), nil))

	require.Equal(t, "", DetectLanguage("runme", []byte("plain words\n"), nil))
}

func TestLoad_CachesPerPath(t *testing.T) {
	path := writeSource(t, "main.c", cSource)
	h := New()
	ctx := context.Background()

	first, err := h.Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, "C", first.Language)
	require.Equal(t, path, first.Path)

	second, err := h.Load(ctx, path)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, []string{path}, h.Cached())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "gone.c"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReload_SwapsAndPublishes(t *testing.T) {
	path := writeSource(t, "main.c", "int a;\n")
	h := New()
	defer func() { _ = h.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := h.Subscribe(ctx)

	old, err := h.Load(ctx, path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("int a;\nint b;\n"), 0o644))
	fresh, err := h.Reload(ctx, path)
	require.NoError(t, err)
	require.NotSame(t, old, fresh)
	require.Len(t, old.Lines, 1, "previous File is untouched")
	require.Len(t, fresh.Lines, 2)

	waitFor(t, events, pubsub.ChangedEvent, path)
	waitFor(t, events, pubsub.ClassifiedEvent, path)
}

func TestPrehighlight(t *testing.T) {
	a := writeSource(t, "a.c", "int a;\n")
	b := writeSource(t, "b.py", "x = 1\n")
	h := New()
	defer func() { _ = h.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := h.Subscribe(ctx)

	select {
	case <-h.Prehighlight(ctx, []string{a, b, "/definitely/not/here.c"}):
	case <-time.After(3 * time.Second):
		t.Fatal("prehighlight did not finish")
	}

	waitFor(t, events, pubsub.ClassifiedEvent, a)
	require.ElementsMatch(t, []string{a, b}, h.Cached())

	f, err := h.Load(ctx, b)
	require.NoError(t, err)
	require.Equal(t, "Python", f.Language)
}

func TestWatch_ReloadsChangedFile(t *testing.T) {
	path := writeSource(t, "main.c", "int a;\n")
	w, err := watcher.New(watcher.Config{Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	h := New(WithWatcher(w))
	defer func() { _ = h.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := h.Subscribe(ctx)

	_, err = h.Load(ctx, path)
	require.NoError(t, err)
	h.Watch(ctx)

	require.NoError(t, os.WriteFile(path, []byte("int a;\nint b;\nint c;\n"), 0o644))
	waitFor(t, events, pubsub.ClassifiedEvent, path)

	require.Eventually(t, func() bool {
		f, err := h.Load(ctx, path)
		return err == nil && len(f.Lines) == 3
	}, 3*time.Second, 20*time.Millisecond)
}

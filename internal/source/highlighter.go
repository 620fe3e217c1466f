package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/cachemanager"
	"github.com/zjrosen/hilite/internal/cells"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/pubsub"
	"github.com/zjrosen/hilite/internal/tracing"
	"github.com/zjrosen/hilite/internal/watcher"
)

// File is a classified source file. A File is never modified after it is
// returned; reclassification produces a new File.
type File struct {
	Path     string
	Language string // "" when no tokenizer applies
	Lines    []attr.Line
	// MaxWidth is the widest line in display columns, tabs expanded.
	MaxWidth int
	// Err is a *TokenizeError when the file fell back to plain lines.
	Err error
}

// Fallback reports whether tokenizing failed and Lines are plain.
func (f *File) Fallback() bool { return f.Err != nil }

// Highlighter classifies source files and caches the result per path.
type Highlighter struct {
	tokenizer Tokenizer
	overrides []Override
	tabStop   int
	ttl       time.Duration
	disabled  bool

	files  *cachemanager.ReadThroughCache[string, *File, string]
	broker *pubsub.Broker[string]
	watch  *watcher.Watcher
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithTokenizer replaces the chroma tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(h *Highlighter) { h.tokenizer = t }
}

// WithLanguageOverrides sets glob to lexer overrides, checked in order.
func WithLanguageOverrides(o []Override) Option {
	return func(h *Highlighter) { h.overrides = o }
}

// WithTabStop sets the tab width used for MaxWidth.
func WithTabStop(n int) Option {
	return func(h *Highlighter) {
		if n > 0 {
			h.tabStop = n
		}
	}
}

// WithCacheTTL sets how long an unused file stays cached.
func WithCacheTTL(d time.Duration) Option {
	return func(h *Highlighter) { h.ttl = d }
}

// WithHighlighting toggles classification. When off every file is copied
// verbatim.
func WithHighlighting(enabled bool) Option {
	return func(h *Highlighter) { h.disabled = !enabled }
}

// WithWatcher reclassifies loaded files when they change on disk. Call
// Watch to start consuming its events.
func WithWatcher(w *watcher.Watcher) Option {
	return func(h *Highlighter) { h.watch = w }
}

// New returns a Highlighter with an in-memory cache.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		tokenizer: NewChromaTokenizer(),
		tabStop:   cells.DefaultTabStop,
		ttl:       cachemanager.DefaultExpiration,
		broker:    pubsub.NewBroker[string](),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.files = cachemanager.NewReadThroughCache[string, *File, string](
		cachemanager.NewInMemoryCacheManager[string, *File]("source-files", h.ttl, 2*h.ttl),
		h.read,
		false,
	)
	return h
}

// Subscribe delivers ChangedEvent and ClassifiedEvent with the file path as
// payload.
func (h *Highlighter) Subscribe(ctx context.Context) <-chan pubsub.Event[string] {
	return h.broker.Subscribe(ctx)
}

// Broker exposes the event broker for tea listeners.
func (h *Highlighter) Broker() *pubsub.Broker[string] { return h.broker }

// Highlight classifies src. A tokenizer failure is recorded in File.Err and
// the lines are plain; an unsupported language is not a failure.
func (h *Highlighter) Highlight(path, language, src string) *File {
	text := SplitLines(src)
	f := &File{Path: path, Language: language}

	switch {
	case h.disabled || language == "" || !h.tokenizer.Supports(language):
		f.Lines = plainLines(text)
	default:
		lines, err := h.tokenize(language, text)
		if err != nil {
			f.Err = &TokenizeError{Path: path, Language: language, Err: err}
			f.Lines = plainLines(text)
			log.ErrorErr(log.CatSource, "falling back to plain lines", f.Err, "path", path)
		} else {
			f.Lines = lines
		}
	}

	for _, t := range text {
		f.MaxWidth = max(f.MaxWidth, cells.ExpandedWidth(t, h.tabStop))
	}
	return f
}

func (h *Highlighter) tokenize(language string, text []string) ([]attr.Line, error) {
	src := ""
	if len(text) > 0 {
		src = joinLines(text)
	}
	tokens, err := h.tokenizer.Tokenize(language, src)
	if err != nil {
		return nil, err
	}
	return classifyTokens(tokens, text)
}

func joinLines(text []string) string {
	n := len(text)
	for _, t := range text {
		n += len(t)
	}
	buf := make([]byte, 0, n)
	for _, t := range text {
		buf = append(buf, t...)
		buf = append(buf, '\n')
	}
	return string(buf)
}

// Load returns the classified file at path, from cache when possible.
// Only I/O failures are returned as errors.
func (h *Highlighter) Load(ctx context.Context, path string) (*File, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	ctx, span := tracing.Start(ctx, tracing.SpanSourceHighlight, attribute.String(tracing.AttrFilePath, key))
	missed := false
	f, err := h.files.Get(withMiss(ctx, &missed), key, key, h.ttl)
	span.SetAttributes(attribute.Bool(tracing.AttrCacheHit, !missed))
	if err != nil {
		tracing.End(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String(tracing.AttrLanguage, f.Language),
		attribute.Int(tracing.AttrLineCount, len(f.Lines)),
		attribute.Bool(tracing.AttrFallback, f.Fallback()),
	)
	tracing.End(span, nil)

	if missed && h.watch != nil {
		if err := h.watch.Add(key); err != nil {
			log.ErrorErr(log.CatWatcher, "cannot watch source file", err, "path", key)
		}
	}
	return f, nil
}

type missKey struct{}

func withMiss(ctx context.Context, missed *bool) context.Context {
	return context.WithValue(ctx, missKey{}, missed)
}

func (h *Highlighter) read(ctx context.Context, path string) (*File, error) {
	if missed, ok := ctx.Value(missKey{}).(*bool); ok {
		*missed = true
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	lang := DetectLanguage(path, content, h.overrides)
	f := h.Highlight(path, lang, string(content))
	log.Debug(log.CatSource, "classified file", "path", path, "language", lang, "lines", len(f.Lines))
	return f, nil
}

// Cached lists the paths currently cached.
func (h *Highlighter) Cached() []string { return h.files.Cached() }

// Invalidate drops paths from the cache and publishes a ChangedEvent for each.
func (h *Highlighter) Invalidate(ctx context.Context, paths ...string) {
	for _, p := range paths {
		key, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		h.files.Forget(ctx, key)
		h.broker.Publish(pubsub.ChangedEvent, key)
	}
}

// Reload reclassifies path and swaps the new File into the cache.
func (h *Highlighter) Reload(ctx context.Context, path string) (*File, error) {
	h.Invalidate(ctx, path)
	f, err := h.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	h.broker.Publish(pubsub.ClassifiedEvent, f.Path)
	return f, nil
}

// Prehighlight classifies paths in the background. Each file is built
// privately and published into the cache in one swap, followed by a
// ClassifiedEvent. The returned channel is closed when all paths are done.
func (h *Highlighter) Prehighlight(ctx context.Context, paths []string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, p := range paths {
			if ctx.Err() != nil {
				return
			}
			key, err := filepath.Abs(p)
			if err != nil {
				continue
			}
			f, err := h.read(ctx, key)
			if err != nil {
				log.ErrorErr(log.CatSource, "prehighlight failed", err, "path", key)
				continue
			}
			h.files.Store(ctx, key, f, h.ttl)
			h.broker.Publish(pubsub.ClassifiedEvent, key)
			if h.watch != nil {
				if err := h.watch.Add(key); err != nil {
					log.ErrorErr(log.CatWatcher, "cannot watch source file", err, "path", key)
				}
			}
		}
	}()
	return done
}

// Watch reloads changed files until ctx is done. It returns immediately
// when no watcher is configured.
func (h *Highlighter) Watch(ctx context.Context) {
	if h.watch == nil {
		return
	}
	changes := h.watch.Start()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case batch, ok := <-changes:
				if !ok {
					return
				}
				for _, p := range batch {
					if _, err := h.Reload(ctx, p); err != nil {
						if errors.Is(err, os.ErrNotExist) {
							log.Info(log.CatWatcher, "watched file removed", "path", p)
							continue
						}
						log.ErrorErr(log.CatWatcher, "reload failed", err, "path", p)
					}
				}
			}
		}
	}()
}

// Close releases the watcher and the event broker.
func (h *Highlighter) Close() error {
	h.broker.Close()
	if h.watch != nil {
		return h.watch.Stop()
	}
	return nil
}

package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer used by every hilite package.
const InstrumentationName = "github.com/zjrosen/hilite"

// Span names.
const (
	SpanSourceHighlight = "source.highlight"
	SpanOutputClassify  = "output.classify"
	SpanSearchRun       = "search.run"
)

// Span attribute keys.
const (
	AttrFilePath  = "file.path"
	AttrLanguage  = "source.language"
	AttrLineCount = "source.line_count"
	AttrCacheHit  = "source.cache_hit"
	AttrFallback  = "source.fallback"

	AttrTextLength = "output.text_length"
	AttrSpanCount  = "output.span_count"

	AttrPattern   = "search.pattern"
	AttrDirection = "search.direction"
	AttrMode      = "search.mode"
	AttrOutcome   = "search.outcome"
	AttrRow       = "search.row"
)

// Start opens a span on the global tracer. Packages call it instead of
// holding a tracer so that tests and the disabled configuration share the
// no-op default.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(InstrumentationName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

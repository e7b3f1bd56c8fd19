// Package otel records Meilisearch requests as OpenTelemetry spans.
//
//	client, err := meili.New(host,
//	    meili.WithAPIKey(key),
//	    meili.WithTelemetry(otel.NewHook()),
//	)
package otel

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/meili/core"
)

const instrumentationName = "github.com/petal-labs/meili/contrib/otel"

// Option configures a Hook.
type Option func(*Hook)

// WithTracerProvider sets the provider spans are created from.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Hook) {
		if tp != nil {
			h.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// WithAttributes adds attributes to every span, e.g. the server name.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(h *Hook) {
		h.attrs = append(h.attrs, attrs...)
	}
}

// Hook is a core.TelemetryHook that emits one client span per request.
// Spans are created when the request ends, backdated to its start, so no
// state is kept between the two callbacks.
type Hook struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// NewHook returns a hook using the global tracer provider unless
// WithTracerProvider is given.
func NewHook(opts ...Option) *Hook {
	h := &Hook{tracer: otel.Tracer(instrumentationName)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnRequestStart implements core.TelemetryHook.
func (h *Hook) OnRequestStart(core.RequestStartEvent) {}

// OnRequestEnd implements core.TelemetryHook.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	route := routeTemplate(e.Path)
	attrs := make([]attribute.KeyValue, 0, len(h.attrs)+5)
	attrs = append(attrs,
		attribute.String("http.request.method", e.Method),
		attribute.String("http.route", route),
		attribute.String("url.path", e.Path),
		attribute.String("db.system.name", "meilisearch"),
	)
	if e.Status != 0 {
		attrs = append(attrs, attribute.Int("http.response.status_code", e.Status))
	}
	attrs = append(attrs, h.attrs...)

	_, span := h.tracer.Start(e.Ctx, e.Method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(attrs...),
	)
	switch {
	case e.Err != nil:
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	case e.Status >= http.StatusBadRequest:
		span.SetStatus(codes.Error, http.StatusText(e.Status))
	}
	span.End(trace.WithTimestamp(e.End))
}

var _ core.TelemetryHook = (*Hook)(nil)

// placeholders maps a collection segment to the name of the identifier
// that follows it.
var placeholders = map[string]string{
	"indexes":   "{index_uid}",
	"documents": "{document_id}",
	"tasks":     "{task_uid}",
	"keys":      "{key}",
}

// actions are fixed segments that may follow a collection.
var actions = map[string]bool{
	"cancel":       true,
	"delete":       true,
	"delete-batch": true,
	"fetch":        true,
}

// routeTemplate replaces identifiers in path with placeholders, so
// "/indexes/movies/documents/42" becomes
// "/indexes/{index_uid}/documents/{document_id}". The query is dropped.
func routeTemplate(path string) string {
	path, _, _ = strings.Cut(path, "?")
	segs := strings.Split(path, "/")
	for i := 1; i < len(segs); i++ {
		p, ok := placeholders[segs[i-1]]
		if ok && segs[i] != "" && !actions[segs[i]] {
			segs[i] = p
		}
	}
	return strings.Join(segs, "/")
}

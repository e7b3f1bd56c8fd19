package otel

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/meili"
)

func newTracedClient(t *testing.T, status int, body string) (*meili.Client, *tracetest.InMemoryExporter) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	hook := NewHook(WithTracerProvider(tp), WithAttributes(attribute.String("server.name", "test")))
	c, err := meili.New(srv.URL, meili.WithAPIKey("masterKey"), meili.WithTelemetry(hook))
	require.NoError(t, err)
	return c, exporter
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestHookRecordsSpan(t *testing.T) {
	c, exporter := newTracedClient(t, http.StatusOK, `{"status":"available"}`)

	_, err := c.System.Health(context.Background())
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /health", span.Name)
	assert.Equal(t, trace.SpanKindClient, span.SpanKind)
	assert.Equal(t, codes.Unset, span.Status.Code)
	assert.False(t, span.EndTime.Before(span.StartTime))

	attrs := attrMap(span.Attributes)
	assert.Equal(t, "GET", attrs["http.request.method"].AsString())
	assert.Equal(t, "/health", attrs["url.path"].AsString())
	assert.Equal(t, "/health", attrs["http.route"].AsString())
	assert.Equal(t, int64(200), attrs["http.response.status_code"].AsInt64())
	assert.Equal(t, "test", attrs["server.name"].AsString())
	for _, kv := range span.Attributes {
		assert.NotContains(t, kv.Value.Emit(), "masterKey")
	}
}

func TestHookRecordsAPIError(t *testing.T) {
	c, exporter := newTracedClient(t, http.StatusNotFound,
		`{"message":"Index movies not found.","code":"index_not_found","type":"invalid_request","link":""}`)

	_, err := c.Indexes.Get(context.Background(), "movies")
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /indexes/{index_uid}", spans[0].Name)
	attrs := attrMap(spans[0].Attributes)
	assert.Equal(t, "/indexes/{index_uid}", attrs["http.route"].AsString())
	assert.Equal(t, "/indexes/movies", attrs["url.path"].AsString())
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestHookNestsUnderCallerSpan(t *testing.T) {
	c, exporter := newTracedClient(t, http.StatusOK, `{"status":"available"}`)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, parent := tp.Tracer("test").Start(context.Background(), "handler")
	_, err := c.System.Health(ctx)
	require.NoError(t, err)
	parent.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, parent.SpanContext().TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent.SpanID())
}

func TestSpanNamesDoNotCarryIdentifiers(t *testing.T) {
	c, exporter := newTracedClient(t, http.StatusAccepted, `{"taskUid":1,"indexUid":"movies","status":"enqueued","type":"documentDeletion","enqueuedAt":"2024-01-01T00:00:00Z"}`)
	ctx := context.Background()

	_, err := c.Index("movies").DeleteDocument(ctx, "42")
	require.NoError(t, err)
	_, err = c.Index("books").DeleteDocument(ctx, "7")
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "DELETE /indexes/{index_uid}/documents/{document_id}", spans[0].Name)
	assert.Equal(t, spans[0].Name, spans[1].Name)
	assert.Equal(t, "/indexes/books/documents/7", attrMap(spans[1].Attributes)["url.path"].AsString())
}

func TestRouteTemplate(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", "/health"},
		{"/indexes", "/indexes"},
		{"/indexes/movies", "/indexes/{index_uid}"},
		{"/indexes/movies/search", "/indexes/{index_uid}/search"},
		{"/indexes/movies/documents", "/indexes/{index_uid}/documents"},
		{"/indexes/movies/documents/42", "/indexes/{index_uid}/documents/{document_id}"},
		{"/indexes/movies/documents/delete-batch", "/indexes/{index_uid}/documents/delete-batch"},
		{"/indexes/movies/settings/stop-words", "/indexes/{index_uid}/settings/stop-words"},
		{"/indexes/keys/search", "/indexes/{index_uid}/search"},
		{"/tasks/17", "/tasks/{task_uid}"},
		{"/tasks/cancel", "/tasks/cancel"},
		{"/keys/6062abda-a5aa-4414-ac91-ecd7944c0f8d", "/keys/{key}"},
		{"/multi-search", "/multi-search"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, routeTemplate(tt.path))
		})
	}
}

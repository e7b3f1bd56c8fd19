package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Executor is the HTTP pipeline shared by every endpoint wrapper. It builds
// the request, dispatches it through the configured Doer exactly once,
// classifies the response and returns the decoded body or a typed error.
//
// Executor holds only immutable configuration and is safe for concurrent use.
type Executor struct {
	baseURL    string
	apiKey     Secret
	client     Doer
	serializer Serializer
	telemetry  TelemetryHook
	headers    http.Header
	timeout    time.Duration
}

// NewExecutor creates an Executor for the server at host.
func NewExecutor(host string, opts ...Option) (*Executor, error) {
	cfg := Config{
		Host:       host,
		HTTPClient: http.DefaultClient,
		ClientInfo: DefaultClientInfo,
		Serializer: JSON{},
		Telemetry:  NoopTelemetryHook{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Executor{
		baseURL:    strings.TrimRight(cfg.Host, "/"),
		apiKey:     cfg.APIKey,
		client:     cfg.HTTPClient,
		serializer: cfg.Serializer,
		telemetry:  cfg.Telemetry,
		headers:    cfg.buildHeaders(),
		timeout:    cfg.Timeout,
	}, nil
}

// Host returns the base URL requests are sent to.
func (e *Executor) Host() string {
	return e.baseURL
}

// APIKey returns the configured credential.
func (e *Executor) APIKey() Secret {
	return e.apiKey
}

// Serializer returns the serializer used for request and response bodies.
func (e *Executor) Serializer() Serializer {
	return e.serializer
}

// Get sends a GET request.
func (e *Executor) Get(ctx context.Context, path string, query Query) (any, error) {
	return e.Request(ctx, RequestSpec{Method: http.MethodGet, Path: path, Query: query})
}

// Post sends a POST request.
func (e *Executor) Post(ctx context.Context, path string, body Body, query Query) (any, error) {
	return e.Request(ctx, RequestSpec{Method: http.MethodPost, Path: path, Query: query, Body: body})
}

// Put sends a PUT request.
func (e *Executor) Put(ctx context.Context, path string, body Body, query Query) (any, error) {
	return e.Request(ctx, RequestSpec{Method: http.MethodPut, Path: path, Query: query, Body: body})
}

// Patch sends a PATCH request.
func (e *Executor) Patch(ctx context.Context, path string, body Body, query Query) (any, error) {
	return e.Request(ctx, RequestSpec{Method: http.MethodPatch, Path: path, Query: query, Body: body})
}

// Delete sends a DELETE request.
func (e *Executor) Delete(ctx context.Context, path string, query Query) (any, error) {
	return e.Request(ctx, RequestSpec{Method: http.MethodDelete, Path: path, Query: query})
}

// Request executes spec and returns the decoded response body.
// A nil value with a nil error means the server returned no content.
func (e *Executor) Request(ctx context.Context, spec RequestSpec) (any, error) {
	start := time.Now()
	e.telemetry.OnRequestStart(RequestStartEvent{
		Ctx:    ctx,
		Method: spec.Method,
		Path:   spec.Path,
		Start:  start,
	})

	status, result, err := e.roundTrip(ctx, spec)

	e.telemetry.OnRequestEnd(RequestEndEvent{
		Ctx:    ctx,
		Method: spec.Method,
		Path:   spec.Path,
		Status: status,
		Start:  start,
		End:    time.Now(),
		Err:    err,
	})

	return result, err
}

func (e *Executor) roundTrip(ctx context.Context, spec RequestSpec) (int, any, error) {
	payload, contentType, err := e.encodeBody(spec.Body)
	if err != nil {
		return 0, nil, err
	}

	if e.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}
	}

	target := e.buildURL(spec.Path, spec.Query)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, spec.Method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range e.headers {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for key, values := range spec.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return 0, nil, &TransportError{Method: spec.Method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Method: spec.Method, URL: target, Err: err}
	}

	result, err := e.classify(resp.StatusCode, resp.Header, respBody)
	return resp.StatusCode, result, err
}

// encodeBody returns the payload bytes (nil for NoBody) and an overriding
// content type, if any.
func (e *Executor) encodeBody(b Body) ([]byte, string, error) {
	switch b.kind {
	case bodyEmpty:
		return []byte{}, "", nil
	case bodyJSON:
		data, err := e.serializer.Encode(b.value)
		if err != nil {
			return nil, "", err
		}
		return data, "", nil
	case bodyRaw:
		data := b.raw
		if data == nil {
			data = []byte{}
		}
		return data, b.contentType, nil
	default:
		return nil, "", nil
	}
}

func (e *Executor) buildURL(path string, query Query) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := e.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}

// classify turns a status and body into a result or a typed error.
func (e *Executor) classify(status int, header http.Header, body []byte) (any, error) {
	if status >= http.StatusMultipleChoices {
		return nil, e.apiError(status, body)
	}

	// Emptiness wins over content type: an empty 2xx is "no content" even if
	// the server labels it text/plain.
	if status == http.StatusNoContent || len(body) == 0 {
		return nil, nil
	}

	contentType := header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return nil, &InvalidResponseBodyError{
			Status:      status,
			ContentType: contentType,
			Body:        string(body),
		}
	}

	return e.serializer.Decode(body)
}

// apiError builds an APIError from an error response. A body that does not
// decode into the error shape becomes the message verbatim.
func (e *Executor) apiError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: string(body)}

	decoded, err := e.serializer.Decode(body)
	fields, ok := decoded.(map[string]any)
	if err != nil || !ok {
		apiErr.Message = string(body)
		return apiErr
	}

	apiErr.Message = stringField(fields, "message")
	apiErr.Code = stringField(fields, "code")
	apiErr.Type = stringField(fields, "type")
	apiErr.Link = stringField(fields, "link")
	return apiErr
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

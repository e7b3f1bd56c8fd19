package core

import "net/http"

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyEmpty
	bodyJSON
	bodyRaw
)

// Body is the request payload. The zero value is NoBody.
//
// NoBody and EmptyBody are distinct on purpose: EmptyBody sends a
// zero-length payload, which some routes treat as an explicit no-op.
type Body struct {
	kind        bodyKind
	value       any
	raw         []byte
	contentType string
}

// NoBody sends no payload.
func NoBody() Body { return Body{kind: bodyNone} }

// EmptyBody sends a zero-length payload without serialization.
func EmptyBody() Body { return Body{kind: bodyEmpty} }

// JSONBody serializes v with the executor's Serializer.
func JSONBody(v any) Body { return Body{kind: bodyJSON, value: v} }

// RawBody sends data verbatim with the given content type,
// e.g. "application/x-ndjson" or "text/csv" for document imports.
func RawBody(data []byte, contentType string) Body {
	return Body{kind: bodyRaw, raw: data, contentType: contentType}
}

// IsNone reports whether no payload will be sent.
func (b Body) IsNone() bool { return b.kind == bodyNone }

// RequestSpec describes a single call. It is built per call and not modified
// by the executor.
type RequestSpec struct {
	Method string
	Path   string
	Query  Query
	Body   Body

	// Header holds per-request headers, applied after the defaults.
	Header http.Header
}

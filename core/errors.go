package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for classification.
var (
	ErrEncode              = errors.New("encode error")
	ErrDecode              = errors.New("decode error")
	ErrInvalidResponseBody = errors.New("invalid response body")
	ErrTransport           = errors.New("transport error")
	ErrAPI                 = errors.New("api error")
)

// Status classes reported by APIError through errors.Is.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
)

// APIError is returned when the server answers with a status >= 300.
// Callers are expected to branch on Code or Status.
type APIError struct {
	Status  int
	Message string
	Code    string
	Type    string
	Link    string

	// Body is the raw response text.
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("meilisearch: %s (status=%d, code=%s, type=%s)", msg, e.Status, e.Code, e.Type)
	}
	return fmt.Sprintf("meilisearch: %s (status=%d)", msg, e.Status)
}

// Is reports whether target is ErrAPI or the status class of this error.
func (e *APIError) Is(target error) bool {
	if target == ErrAPI {
		return true
	}
	return target == sentinelForStatus(e.Status)
}

// sentinelForStatus maps an HTTP status code to a status class sentinel.
func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	default:
		return nil
	}
}

// TransportError reports that the round trip itself did not complete
// (DNS, connection, timeout, truncated body). It is never retried here.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("meilisearch: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// InvalidResponseBodyError is returned for a successful status whose body is
// not JSON, typically an HTML page from a proxy or gateway.
type InvalidResponseBodyError struct {
	Status      int
	ContentType string
	Body        string
}

func (e *InvalidResponseBodyError) Error() string {
	return fmt.Sprintf("meilisearch: invalid response body (status=%d, content-type=%q): %s",
		e.Status, e.ContentType, e.Body)
}

func (e *InvalidResponseBodyError) Is(target error) bool { return target == ErrInvalidResponseBody }

// EncodingError reports a value that cannot be represented as JSON.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("meilisearch: encoding failed: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

func (e *EncodingError) Is(target error) bool { return target == ErrEncode }

// DecodingError reports a payload that could not be parsed.
// Payload holds at most the first snippetLimit bytes of the input.
type DecodingError struct {
	Payload string
	Err     error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("meilisearch: decoding failed: %v (payload: %q)", e.Err, e.Payload)
}

func (e *DecodingError) Unwrap() error { return e.Err }

func (e *DecodingError) Is(target error) bool { return target == ErrDecode }

const snippetLimit = 256

func snippet(data []byte) string {
	if len(data) > snippetLimit {
		return string(data[:snippetLimit]) + "..."
	}
	return string(data)
}

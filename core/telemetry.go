package core

import (
	"context"
	"time"
)

// TelemetryHook observes the request lifecycle.
//
// Events carry operational metadata only. API keys, headers and bodies are
// never included, so events are safe to export to external systems.
type TelemetryHook interface {
	// OnRequestStart is called before the request is dispatched.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called once the call has been classified.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent describes a request about to be sent.
type RequestStartEvent struct {
	Ctx    context.Context
	Method string
	Path   string
	Start  time.Time
}

// RequestEndEvent describes a completed call.
// Status is 0 when the transport failed before a response arrived.
type RequestEndEvent struct {
	Ctx    context.Context
	Method string
	Path   string
	Status int
	Start  time.Time
	End    time.Time
	Err    error
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook discards all events.
type NoopTelemetryHook struct{}

func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

var _ TelemetryHook = NoopTelemetryHook{}

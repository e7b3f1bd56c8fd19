// Package core provides the HTTP request pipeline shared by every Meilisearch
// endpoint wrapper.
//
// # Executor
//
// [Executor] builds a request from a method, path, ordered [Query] and
// [Body], attaches the default headers, dispatches it through an injected
// [Doer] and classifies the response:
//
//	exec, err := core.NewExecutor("http://localhost:7700",
//	    core.WithAPIKey(os.Getenv("MEILI_MASTER_KEY")),
//	    core.WithClientAgents("Meilisearch Symfony (v0.10.0)"),
//	)
//	if err != nil {
//	    return err
//	}
//	health, err := exec.Get(ctx, "/health", nil)
//
// Every call performs exactly one round trip. Retrying is left to the caller
// or to the transport.
//
// # Bodies
//
// [NoBody] and [EmptyBody] are different requests: the first sends nothing,
// the second sends a zero-length payload. [JSONBody] serializes a value with
// the configured [Serializer]; [RawBody] sends bytes verbatim with their own
// content type.
//
// # Error Handling
//
// Failures are returned as typed errors that also match sentinels:
//
//   - [APIError] matches [ErrAPI] and one of the status classes.
//   - [TransportError] matches [ErrTransport].
//   - [InvalidResponseBodyError] matches [ErrInvalidResponseBody].
//   - [EncodingError] and [DecodingError] match [ErrEncode] and [ErrDecode].
//
// The status classes are [ErrBadRequest], [ErrUnauthorized], [ErrNotFound],
// [ErrRateLimited] and [ErrServer]. Server error details are on [APIError]:
//
//	var apiErr *core.APIError
//	if errors.As(err, &apiErr) && apiErr.Code == "index_not_found" {
//	    // create it
//	}
//
// # Telemetry
//
// Implement [TelemetryHook] to observe request start and end. Events never
// carry headers, bodies or keys.
package core

// Package httputil provides the HTTP plumbing shared by the meshview API
// server: JSON responses, error-code to status mapping and middleware.
//
// # Responses
//
// Handlers answer with [WriteJSON] on success and [WriteError] on failure.
// WriteError maps the structured error code to an HTTP status with
// [StatusFor] and writes a body of the form:
//
//	{"error": {"code": "ROUTING_ERROR", "message": "unknown routing algorithm \"xy\""}}
//
// Internal errors never expose their cause to the client; the full error
// is logged instead.
//
// # Middleware
//
//   - [BodySizeLimit]: rejects request bodies above a byte limit
//   - [Recover]: turns handler panics into 500 responses
//   - [Observe]: reports requests to the HTTP observability hooks
package httputil

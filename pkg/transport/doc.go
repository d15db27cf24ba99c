// Package transport carries one HEOS CLI request/response exchange.
//
// Each call to Session.Execute opens a fresh TCP connection, writes the
// request followed by "\r\n", reads exactly one "\r\n"-terminated response
// frame and closes the connection before returning, whatever the outcome.
// There is no pooling, pipelining or retry.
//
// # Protocol Stack
//
//	┌──────────────────────────────┐
//	│  JSON response / heos:// URI │
//	├──────────────────────────────┤
//	│   CRLF line framing (ASCII)  │
//	├──────────────────────────────┤
//	│        TCP, port 1255        │
//	└──────────────────────────────┘
//
// # Failures
//
// Anything that prevents a complete frame from arriving is returned as a
// *response.TransportFailure carrying a FailureKind (timeout, refused,
// reset, closed, overflow or io) and the underlying error.
//
// # Capture
//
// A log.Logger configured on the session receives connection state
// changes, the raw frames in both directions and transport errors, all
// tagged with a per-exchange UUID.
package transport

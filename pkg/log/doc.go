// Package log records a machine-readable trace of HEOS protocol exchanges.
//
// It is separate from operational logging (zerolog in the binaries): a
// capture holds every request and response frame, connection state change
// and transport error, so a session can be replayed and inspected later
// with the heos-log tool.
//
// # Basic Usage
//
// Libraries accept a Logger and emit events to it:
//
//	// Console output through zerolog at debug level
//	logger := log.NewZerologAdapter(zl)
//
//	// Append to a capture file
//	logger, _ := log.NewFileLogger("/var/log/heos/session.hlog")
//
//	// Both; Combine drops nil and noop sinks
//	logger := log.Combine(console, file)
//
//	// Attribute events to one exchange
//	logger = log.Stamp(logger, log.Origin{ConnectionID: id, RemoteAddr: addr})
//
// # Event Types
//
// Events are captured at three layers:
//   - Transport: raw frame bytes (FrameEvent) and connection states
//   - Protocol: the decoded request/response pair (MessageEvent)
//   - Client: errors raised before any I/O
//
// # File Format
//
// Capture files are a plain sequence of CBOR-encoded events with integer
// keys, conventionally named *.hlog. Files are append-only. Every event
// carries exactly one payload; the Reader skips items that do not.
package log

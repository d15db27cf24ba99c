// Package response decodes HEOS CLI response frames.
//
// Decode never fails: a frame is either Structured (valid JSON) or
// Unparseable (anything else, including non-ASCII text). Failures below the
// protocol are reported by the transport as *TransportFailure, the third
// Result variant.
//
// A typical device reply looks like:
//
//	{"heos": {"command": "player/get_volume", "result": "success",
//	          "message": "pid=1234&level=30"}}
//
// Structured exposes the "heos" header, the parsed message, the optional
// "payload" member and, for result=fail, the device error code and text.
package response

// Package command builds HEOS CLI request strings.
//
// A request has the form
//
//	heos://<namespace>/<verb>?<key>=<value>&<key>=<value>
//
// and is sent to the device followed by "\r\n". This package only produces
// the string; it performs no I/O.
//
// # Building Requests
//
//	s, err := command.Build("player", "set_volume",
//	    command.P("pid", 1234),
//	    command.P("level", 40),
//	)
//	// s == "heos://player/set_volume?pid=1234&level=40"
//
// Parameters are emitted in the order given. Integer values are written in
// decimal, booleans as "on"/"off", and fmt.Stringer values through String().
// The characters '%', '&' and '=' inside values are percent-escaped.
//
// # Validation
//
// Every failure wraps ErrInvalidArgument or ErrEncoding, so callers can use
// errors.Is. Validation covers value ranges for well-known keys (level, step,
// sid, preset), line terminators and control characters, duplicate keys, and
// the required parameters and allowed values listed in the embedded command
// catalog (see Lookup and Catalog).
package command

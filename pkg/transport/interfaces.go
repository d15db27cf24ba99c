package transport

import (
	"context"
	"net"
)

// Dialer opens stream connections. *net.Dialer implements it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Executor performs one request/response exchange.
// Implemented by Session.
type Executor interface {
	Execute(ctx context.Context, request string) (RawResponse, error)
}

// FrameReadWriter provides CRLF frame I/O.
// Implemented by Framer.
type FrameReadWriter interface {
	ReadFrame() ([]byte, error)
	WriteFrame(request string) error
}

var (
	_ Dialer          = (*net.Dialer)(nil)
	_ Executor        = (*Session)(nil)
	_ FrameReadWriter = (*Framer)(nil)
)

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/heos-control/heos-go/pkg/command"
	"github.com/heos-control/heos-go/pkg/log"
	"github.com/heos-control/heos-go/pkg/response"
)

// DefaultTimeout bounds one exchange when the caller's context has no
// deadline.
const DefaultTimeout = 5 * time.Second

// ErrNoAddress indicates a session without a device address.
var ErrNoAddress = errors.New("device address is required")

// Config configures a Session.
type Config struct {
	// Address is the device's host:port.
	Address string

	// Timeout bounds connect, write and read together (default: 5s).
	Timeout time.Duration

	// MaxFrameSize bounds a response frame (default: 1 MiB).
	MaxFrameSize int

	// Dialer opens connections (default: *net.Dialer).
	Dialer Dialer

	// Logger receives capture events (optional).
	Logger log.Logger

	// PlayerID tags capture events (optional).
	PlayerID int64
}

// Session executes request/response exchanges against one device.
// It holds no connection between calls and is safe for concurrent use,
// though the device itself expects callers to serialize commands.
type Session struct {
	config Config
}

// RawResponse is one response frame as received.
type RawResponse struct {
	// Frame includes the trailing "\r\n".
	Frame []byte

	// ConnectionID identifies the exchange in capture events.
	ConnectionID string

	// Elapsed is the time from dial to the end of the frame.
	Elapsed time.Duration
}

// NewSession creates a session, applying defaults.
func NewSession(config Config) (*Session, error) {
	if config.Address == "" {
		return nil, ErrNoAddress
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxFrameSize <= 0 {
		config.MaxFrameSize = DefaultMaxFrameSize
	}
	if config.Dialer == nil {
		config.Dialer = &net.Dialer{}
	}
	config.Logger = log.OrNoop(config.Logger)
	return &Session{config: config}, nil
}

// Address returns the device address.
func (s *Session) Address() string {
	return s.config.Address
}

// Execute sends request and returns the first response frame. Requests
// that are not ASCII fail with command.ErrEncoding before any dial.
// Transport problems are returned as *response.TransportFailure; the
// connection is closed before Execute returns in every case.
func (s *Session) Execute(ctx context.Context, request string) (RawResponse, error) {
	if err := command.CheckASCII(request); err != nil {
		return RawResponse{}, err
	}
	if request == "" || strings.ContainsAny(request, "\r\n") {
		return RawResponse{}, fmt.Errorf("%w: request must be a single non-empty line", command.ErrInvalidArgument)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	t := newTracer(s.config.Logger, uuid.NewString(), s.config.Address, s.config.PlayerID)
	start := time.Now()

	t.transition(StateClosed, StateConnecting, "")
	// A failed dial yields no connection; the dialer releases its socket.
	conn, err := s.config.Dialer.DialContext(ctx, "tcp", s.config.Address)
	if err != nil {
		f := classify(ctx, "dial", err)
		t.failure("dial", f)
		t.transition(StateConnecting, StateClosed, f.Kind.String())
		return RawResponse{}, f
	}
	t.transition(StateConnecting, StateConnected, "")

	closeReason := "done"
	defer func() {
		conn.Close()
		t.transition(StateConnected, StateClosed, closeReason)
	}()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	// Unblock pending I/O when the context is cancelled.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	framer := NewFramer(conn, s.config.MaxFrameSize)
	framer.SetLogger(t, t.ConnectionID)

	if err := framer.WriteFrame(request); err != nil {
		f := classify(ctx, "write", err)
		closeReason = f.Kind.String()
		t.failure("write", f)
		return RawResponse{}, f
	}

	frame, err := framer.ReadFrame()
	if err != nil {
		f := classify(ctx, "read", err)
		closeReason = f.Kind.String()
		t.failure("read", f)
		return RawResponse{}, f
	}

	return RawResponse{
		Frame:        frame,
		ConnectionID: t.ConnectionID,
		Elapsed:      time.Since(start),
	}, nil
}

// classify maps an I/O error to a TransportFailure.
func classify(ctx context.Context, op string, err error) *response.TransportFailure {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &response.TransportFailure{Kind: response.FailureIO, Op: op, Err: context.Canceled}
	}

	kind := response.FailureIO
	var netErr net.Error
	switch {
	case errors.Is(err, ErrFrameTooLarge):
		kind = response.FailureOverflow
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed):
		kind = response.FailureClosed
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		kind = response.FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = response.FailureTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		kind = response.FailureRefused
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.ECONNABORTED), errors.Is(err, syscall.EPIPE):
		kind = response.FailureReset
	}
	return &response.TransportFailure{Kind: kind, Op: op, Err: err}
}

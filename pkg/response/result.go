package response

import (
	"errors"
	"fmt"
)

// Result is the outcome of one request/response exchange. Its concrete
// type is *Structured, *Unparseable or *TransportFailure.
type Result interface {
	result()
}

var (
	_ Result = (*Structured)(nil)
	_ Result = (*Unparseable)(nil)
	_ Result = (*TransportFailure)(nil)
	_ error  = (*TransportFailure)(nil)
)

// Structured is a response that parsed as JSON.
type Structured struct {
	// Raw is the frame without its line terminator.
	Raw []byte

	// Tree is the parsed document. Objects are map[string]any and numbers
	// are json.Number.
	Tree any
}

func (*Structured) result() {}

// Unparseable is a response that was received but is not valid JSON.
type Unparseable struct {
	RawText string
}

func (*Unparseable) result() {}

// ErrTransport matches every *TransportFailure with errors.Is.
var ErrTransport = errors.New("transport failure")

// FailureKind classifies a transport failure.
type FailureKind uint8

// Transport failure kinds.
const (
	FailureIO FailureKind = iota
	FailureTimeout
	FailureRefused
	FailureReset
	FailureClosed
	FailureOverflow
)

func (k FailureKind) String() string {
	switch k {
	case FailureIO:
		return "io"
	case FailureTimeout:
		return "timeout"
	case FailureRefused:
		return "refused"
	case FailureReset:
		return "reset"
	case FailureClosed:
		return "closed"
	case FailureOverflow:
		return "overflow"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// TransportFailure reports that no response frame could be obtained.
type TransportFailure struct {
	Kind FailureKind
	Op   string // dial, write or read
	Err  error
}

func (*TransportFailure) result() {}

func (f *TransportFailure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("transport %s: %s", f.Op, f.Kind)
	}
	return fmt.Sprintf("transport %s: %s: %v", f.Op, f.Kind, f.Err)
}

// Unwrap returns the underlying cause.
func (f *TransportFailure) Unwrap() error { return f.Err }

// Is reports ErrTransport as a match.
func (f *TransportFailure) Is(target error) bool { return target == ErrTransport }

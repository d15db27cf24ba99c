package transport

import (
	"time"

	"github.com/heos-control/heos-go/pkg/log"
)

// ConnectionState is the lifecycle state of one exchange's connection.
type ConnectionState int

const (
	StateClosed ConnectionState = iota
	StateConnecting
	StateConnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// tracer attributes capture events to one exchange.
type tracer struct {
	*log.Stamped
}

func newTracer(l log.Logger, connID, remote string, playerID int64) *tracer {
	return &tracer{log.Stamp(l, log.Origin{ConnectionID: connID, RemoteAddr: remote, PlayerID: playerID})}
}

func (t *tracer) transition(from, to ConnectionState, reason string) {
	t.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerTransport,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: from.String(),
			NewState: to.String(),
			Reason:   reason,
		},
	})
}

func (t *tracer) failure(op string, err error) {
	t.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerTransport,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Context: op,
		},
	})
}

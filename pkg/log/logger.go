package log

// Logger receives capture events. Implementations must be safe for
// concurrent use and should not block the exchange that emits them.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards all events. The zero value is ready to use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// OrNoop returns l, or NoopLogger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return l
}

// Origin identifies the exchange an event belongs to.
type Origin struct {
	ConnectionID string
	RemoteAddr   string
	PlayerID     int64
}

// Stamped fills the identity fields of every event from an Origin before
// passing it on. Fields the event already carries are kept.
type Stamped struct {
	Origin
	Next Logger
}

// Stamp returns a Logger that attributes events to o.
func Stamp(l Logger, o Origin) *Stamped {
	return &Stamped{Origin: o, Next: OrNoop(l)}
}

// Log stamps and forwards event.
func (s *Stamped) Log(event Event) {
	if event.ConnectionID == "" {
		event.ConnectionID = s.ConnectionID
	}
	if event.RemoteAddr == "" {
		event.RemoteAddr = s.RemoteAddr
	}
	if event.PlayerID == 0 {
		event.PlayerID = s.PlayerID
	}
	s.Next.Log(event)
}

// ExceptLayer returns a Logger that drops events of the given layer.
func ExceptLayer(l Logger, layer Layer) Logger {
	return LoggerFunc(func(event Event) {
		if event.Layer != layer {
			l.Log(event)
		}
	})
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(event Event)

// Log calls f(event).
func (f LoggerFunc) Log(event Event) { f(event) }

var (
	_ Logger = NoopLogger{}
	_ Logger = (*Stamped)(nil)
	_ Logger = LoggerFunc(nil)
)

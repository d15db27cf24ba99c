package log

// MultiLogger fans events out to several sinks, e.g. a ZerologAdapter for
// the console and a FileLogger for the capture.
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger returns a MultiLogger over the non-nil, non-noop sinks.
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range sinks {
		if live(l) {
			m.sinks = append(m.sinks, l)
		}
	}
	return m
}

// Combine returns the cheapest Logger covering sinks: NoopLogger when none
// is live, the sink itself when one is, a MultiLogger otherwise.
func Combine(sinks ...Logger) Logger {
	m := NewMultiLogger(sinks...)
	switch len(m.sinks) {
	case 0:
		return NoopLogger{}
	case 1:
		return m.sinks[0]
	}
	return m
}

// Len returns the number of sinks.
func (m *MultiLogger) Len() int {
	return len(m.sinks)
}

// Log hands the event to every sink in order.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.sinks {
		l.Log(event)
	}
}

func live(l Logger) bool {
	switch l.(type) {
	case nil, NoopLogger, *NoopLogger:
		return false
	}
	return true
}

var _ Logger = (*MultiLogger)(nil)

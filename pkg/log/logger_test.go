package log

import "testing"

type recordingLogger struct {
	events []Event
}

func (r *recordingLogger) Log(e Event) { r.events = append(r.events, e) }

func TestNoopLogger(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Log(Event{ConnectionID: "x"})
}

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(NoopLogger); !ok {
		t.Error("OrNoop(nil) should return NoopLogger")
	}
	r := &recordingLogger{}
	if OrNoop(r) != Logger(r) {
		t.Error("OrNoop should return its argument")
	}
}

func TestStampFillsMissingIdentity(t *testing.T) {
	r := &recordingLogger{}
	s := Stamp(r, Origin{ConnectionID: "conn-1", RemoteAddr: "192.168.1.20:1255", PlayerID: 5000000000})

	s.Log(Event{Layer: LayerTransport})
	s.Log(Event{ConnectionID: "other", PlayerID: 7})

	if len(r.events) != 2 {
		t.Fatalf("got %d events, want 2", len(r.events))
	}
	first := r.events[0]
	if first.ConnectionID != "conn-1" || first.RemoteAddr != "192.168.1.20:1255" || first.PlayerID != 5000000000 {
		t.Errorf("first event not stamped: %+v", first)
	}
	second := r.events[1]
	if second.ConnectionID != "other" || second.PlayerID != 7 {
		t.Errorf("stamp overwrote existing fields: %+v", second)
	}
	if second.RemoteAddr != "192.168.1.20:1255" {
		t.Errorf("RemoteAddr = %q, want stamped", second.RemoteAddr)
	}
}

func TestStampNilLogger(t *testing.T) {
	Stamp(nil, Origin{ConnectionID: "c"}).Log(Event{})
}

func TestExceptLayer(t *testing.T) {
	r := &recordingLogger{}
	l := ExceptLayer(r, LayerTransport)

	l.Log(Event{Layer: LayerTransport})
	l.Log(Event{Layer: LayerProtocol})
	l.Log(Event{Layer: LayerClient})

	if len(r.events) != 2 {
		t.Fatalf("got %d events, want 2", len(r.events))
	}
	for _, e := range r.events {
		if e.Layer == LayerTransport {
			t.Error("transport event passed through")
		}
	}
}

func TestMultiLogger(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	m := NewMultiLogger(a, nil, NoopLogger{}, b)
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}

	m.Log(Event{ConnectionID: "1"})
	m.Log(Event{ConnectionID: "2"})

	for name, r := range map[string]*recordingLogger{"a": a, "b": b} {
		if len(r.events) != 2 {
			t.Fatalf("%s: got %d events, want 2", name, len(r.events))
		}
		if r.events[1].ConnectionID != "2" {
			t.Errorf("%s: order not preserved", name)
		}
	}
}

func TestCombine(t *testing.T) {
	if _, ok := Combine().(NoopLogger); !ok {
		t.Error("Combine() should return NoopLogger")
	}
	if _, ok := Combine(nil, NoopLogger{}).(NoopLogger); !ok {
		t.Error("Combine of dead sinks should return NoopLogger")
	}

	r := &recordingLogger{}
	if Combine(nil, r) != Logger(r) {
		t.Error("Combine with one live sink should return it")
	}
	if m, ok := Combine(r, &recordingLogger{}).(*MultiLogger); !ok || m.Len() != 2 {
		t.Errorf("Combine of two sinks = %T", Combine(r, &recordingLogger{}))
	}
}

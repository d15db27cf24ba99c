package log

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestEnumStrings(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(9).String(), "UNKNOWN"},
		{LayerTransport.String(), "TRANSPORT"},
		{LayerProtocol.String(), "PROTOCOL"},
		{LayerClient.String(), "CLIENT"},
		{Layer(9).String(), "UNKNOWN"},
		{CategoryMessage.String(), "MESSAGE"},
		{CategoryState.String(), "STATE"},
		{CategoryError.String(), "ERROR"},
		{Category(9).String(), "UNKNOWN"},
		{MessageTypeRequest.String(), "REQUEST"},
		{MessageTypeResponse.String(), "RESPONSE"},
		{MessageType(9).String(), "UNKNOWN"},
		{StateEntityConnection.String(), "CONNECTION"},
		{StateEntity(9).String(), "UNKNOWN"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}
}

func TestNewFrameEvent(t *testing.T) {
	data := []byte("heos://system/heart_beat\r\n")

	fe := NewFrameEvent(data, 0)
	if fe.Size != len(data) || fe.Truncated || string(fe.Data) != string(data) {
		t.Errorf("unexpected frame event: %+v", fe)
	}

	fe = NewFrameEvent(data, 4)
	if fe.Size != len(data) {
		t.Errorf("Size: got %d, want %d", fe.Size, len(data))
	}
	if !fe.Truncated || string(fe.Data) != "heos" {
		t.Errorf("expected truncation to 4 bytes, got %q (truncated=%v)", fe.Data, fe.Truncated)
	}

	data[0] = 'X'
	if fe.Data[0] != 'h' {
		t.Error("frame data aliases the input")
	}
}

func TestEventRoundTrip(t *testing.T) {
	elapsed := 12 * time.Millisecond
	code := 2
	events := []Event{
		{
			Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 678901234, time.UTC),
			ConnectionID: "c1",
			Direction:    DirectionOut,
			Layer:        LayerProtocol,
			Category:     CategoryMessage,
			RemoteAddr:   "192.168.1.20:1255",
			PlayerID:     -1465850739,
			Message: &MessageEvent{
				Type:    MessageTypeResponse,
				Command: "player/get_volume",
				Result:  "success",
				Message: "pid=1&level=20",
				Elapsed: &elapsed,
			},
		},
		{
			Timestamp:   time.Now().UTC(),
			Category:    CategoryState,
			StateChange: &StateChangeEvent{Entity: StateEntityConnection, OldState: "CLOSED", NewState: "CONNECTING"},
		},
		{
			Timestamp: time.Now().UTC(),
			Category:  CategoryError,
			Error:     &ErrorEventData{Layer: LayerClient, Message: "boom", Code: &code, Context: "player/get_volume"},
		},
	}

	for i, ev := range events {
		data, err := EncodeEvent(ev)
		if err != nil {
			t.Fatalf("event %d: encode: %v", i, err)
		}
		got, err := DecodeEvent(data)
		if err != nil {
			t.Fatalf("event %d: decode: %v", i, err)
		}
		if !got.Timestamp.Equal(ev.Timestamp) {
			t.Errorf("event %d: Timestamp got %v, want %v", i, got.Timestamp, ev.Timestamp)
		}
		if got.PlayerID != ev.PlayerID {
			t.Errorf("event %d: PlayerID got %d, want %d", i, got.PlayerID, ev.PlayerID)
		}
		if (got.Message == nil) != (ev.Message == nil) ||
			(got.StateChange == nil) != (ev.StateChange == nil) ||
			(got.Error == nil) != (ev.Error == nil) {
			t.Errorf("event %d: payload kind changed", i)
		}
	}
}

func TestDecodeEventGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error decoding garbage")
	}
}

func TestEncodeEventRequiresOnePayload(t *testing.T) {
	cases := map[string]Event{
		"none": {ConnectionID: "c"},
		"two": {
			Frame:       &FrameEvent{Size: 1},
			StateChange: &StateChangeEvent{NewState: "CLOSED"},
		},
	}
	for name, ev := range cases {
		if _, err := EncodeEvent(ev); !errors.Is(err, ErrMalformedEvent) {
			t.Errorf("%s: got %v, want ErrMalformedEvent", name, err)
		}
	}
}

func TestFileLoggerCountsMalformedEvents(t *testing.T) {
	l, err := NewFileLogger(filepath.Join(t.TempDir(), "bad.hlog"))
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer l.Close()

	l.Log(Event{ConnectionID: "c"})
	l.Log(Event{ConnectionID: "c", Frame: &FrameEvent{Size: 1}})
	if l.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1", l.Errors())
	}
}

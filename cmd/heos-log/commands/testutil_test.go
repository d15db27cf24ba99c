package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/heos-control/heos-go/pkg/log"
)

var baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// sampleEvents is one set_volume exchange that the device rejects.
func sampleEvents() []log.Event {
	elapsed := 12 * time.Millisecond
	code := 2
	return []log.Event{
		{
			Timestamp: baseTime, ConnectionID: "abc12345-0000", Direction: log.DirectionOut,
			Layer: log.LayerTransport, Category: log.CategoryState, RemoteAddr: "192.168.1.20:1255",
			StateChange: &log.StateChangeEvent{Entity: log.StateEntityConnection, OldState: "CLOSED", NewState: "CONNECTED"},
		},
		{
			Timestamp: baseTime.Add(time.Millisecond), ConnectionID: "abc12345-0000", Direction: log.DirectionOut,
			Layer: log.LayerTransport, Category: log.CategoryMessage, RemoteAddr: "192.168.1.20:1255", PlayerID: 7,
			Frame: log.NewFrameEvent([]byte("heos://player/set_volume?pid=7&level=30\r\n"), 0),
		},
		{
			Timestamp: baseTime.Add(time.Millisecond), ConnectionID: "abc12345-0000", Direction: log.DirectionOut,
			Layer: log.LayerProtocol, Category: log.CategoryMessage, RemoteAddr: "192.168.1.20:1255", PlayerID: 7,
			Message: &log.MessageEvent{Type: log.MessageTypeRequest, Command: "player/set_volume", Request: "heos://player/set_volume?pid=7&level=30"},
		},
		{
			Timestamp: baseTime.Add(13 * time.Millisecond), ConnectionID: "abc12345-0000", Direction: log.DirectionIn,
			Layer: log.LayerProtocol, Category: log.CategoryMessage, RemoteAddr: "192.168.1.20:1255", PlayerID: 7,
			Message: &log.MessageEvent{Type: log.MessageTypeResponse, Command: "player/set_volume", Result: "fail",
				Message: "eid=2&text=ID Not Valid", Elapsed: &elapsed},
		},
		{
			Timestamp: baseTime.Add(13 * time.Millisecond), ConnectionID: "abc12345-0000", Direction: log.DirectionIn,
			Layer: log.LayerProtocol, Category: log.CategoryError, RemoteAddr: "192.168.1.20:1255", PlayerID: 7,
			Error: &log.ErrorEventData{Layer: log.LayerProtocol, Message: "ID Not Valid", Code: &code, Context: "player/set_volume"},
		},
		{
			Timestamp: baseTime.Add(2 * time.Second), ConnectionID: "def67890-1111", Direction: log.DirectionOut,
			Layer: log.LayerProtocol, Category: log.CategoryMessage, RemoteAddr: "192.168.1.20:1255",
			Message: &log.MessageEvent{Type: log.MessageTypeRequest, Command: "system/heart_beat", Request: "heos://system/heart_beat"},
		},
	}
}

func writeCapture(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.hlog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return path
}

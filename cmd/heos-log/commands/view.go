// Package commands implements the heos-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/heos-control/heos-go/pkg/log"
)

const timestampFormat = "2006-01-02T15:04:05.000000Z"

// RunView prints the matching events of path in human-readable form.
func RunView(path string, filter log.Filter, w io.Writer) error {
	return each(path, filter, func(event log.Event) error {
		formatEvent(w, event)
		return nil
	})
}

// eventType labels the payload an event carries.
func eventType(event log.Event) string {
	switch {
	case event.Frame != nil:
		return "Frame"
	case event.Message != nil:
		return event.Message.Type.String()
	case event.StateChange != nil:
		return "State"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [conn:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format(timestampFormat)
	fmt.Fprintf(w, "%s [conn:%s] %-3s %s %s\n",
		ts, shortenConnID(event.ConnectionID), event.Direction, event.Layer, eventType(event))

	if event.RemoteAddr != "" || event.PlayerID != 0 {
		fmt.Fprintf(w, "  Device: %s", event.RemoteAddr)
		if event.PlayerID != 0 {
			fmt.Fprintf(w, "  Player: %d", event.PlayerID)
		}
		fmt.Fprintln(w)
	}

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", strconv.Quote(string(frame.Data)))
		if frame.Truncated {
			fmt.Fprint(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	fmt.Fprintf(w, "  Command: %s\n", msg.Command)
	switch msg.Type {
	case log.MessageTypeRequest:
		fmt.Fprintf(w, "  Request: %s\n", msg.Request)
	case log.MessageTypeResponse:
		if msg.Result != "" {
			fmt.Fprintf(w, "  Result: %s\n", msg.Result)
		}
		if msg.Message != "" {
			fmt.Fprintf(w, "  Message: %s\n", msg.Message)
		}
		if msg.Elapsed != nil {
			fmt.Fprintf(w, "  Duration: %s\n", formatDuration(*msg.Elapsed))
		}
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity)
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer)
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *err.Code)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/heos-control/heos-go/pkg/log"
)

// FilterOptions holds the filter flags shared by every command.
type FilterOptions struct {
	ConnID    string
	PlayerID  int64
	Command   string
	TimeStart string
	TimeEnd   string
	Layer     string
	Direction string
	Category  string
}

// Build converts the flags to a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		ConnectionID: o.ConnID,
		PlayerID:     o.PlayerID,
		Command:      o.Command,
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	if o.Layer != "" {
		l, err := ParseLayer(o.Layer)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Layer = &l
	}
	if o.Direction != "" {
		d, err := ParseDirection(o.Direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}
	if o.Category != "" {
		c, err := ParseCategory(o.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}
	return filter, nil
}

// ParseLayer parses a layer name (case-insensitive).
func ParseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "protocol":
		return log.LayerProtocol, nil
	case "client":
		return log.LayerClient, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, protocol, or client)", s)
	}
}

// ParseDirection parses a direction name (case-insensitive).
func ParseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, state, or error)", s)
	}
}

// each calls fn for every event of path that matches filter.
func each(path string, filter log.Filter, fn func(log.Event) error) error {
	_, err := scan(path, filter, fn)
	return err
}

// scan is each, also reporting how many non-event items were skipped.
func scan(path string, filter log.Filter, fn func(log.Event) error) (int, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return reader.Skipped(), nil
		}
		if err != nil {
			return reader.Skipped(), fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(event); err != nil {
			return reader.Skipped(), err
		}
	}
}

// RunFilter copies the matching events of path into a new capture file.
func RunFilter(path, output string, filter log.Filter, w io.Writer) error {
	logger, err := log.NewFileLogger(output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}

	count := 0
	err = each(path, filter, func(event log.Event) error {
		logger.Log(event)
		count++
		return nil
	})
	if cerr := logger.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if n := logger.Errors(); n > 0 {
		return fmt.Errorf("%d events could not be written to %s", n, output)
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, output)
	return nil
}

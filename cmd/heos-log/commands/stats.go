package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/heos-control/heos-go/pkg/log"
	"github.com/heos-control/heos-go/pkg/response"
)

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Connections       map[string]*ConnectionStats
	Commands          map[string]*CommandStats
	DeviceErrors      map[int]int
	Errors            int
	Skipped           int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ConnectionStats holds statistics for a single connection.
type ConnectionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Remote    string
}

// CommandStats holds request counts and round-trip times per command.
type CommandStats struct {
	Requests  int
	Responses int
	Failures  int
	Total     time.Duration
}

// Mean is the average round-trip time of answered requests.
func (c *CommandStats) Mean() time.Duration {
	if c.Responses == 0 {
		return 0
	}
	return c.Total / time.Duration(c.Responses)
}

// Collect aggregates the matching events of path.
func Collect(path string, filter log.Filter) (*Stats, error) {
	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Connections:       make(map[string]*ConnectionStats),
		Commands:          make(map[string]*CommandStats),
		DeviceErrors:      make(map[int]int),
	}

	skipped, err := scan(path, filter, func(event log.Event) error {
		stats.add(event)
		return nil
	})
	if err != nil {
		return nil, err
	}
	stats.Skipped = skipped
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.ConnectionID != "" {
		conn, ok := s.Connections[event.ConnectionID]
		if !ok {
			conn = &ConnectionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			s.Connections[event.ConnectionID] = conn
		}
		conn.Events++
		if event.Timestamp.After(conn.LastSeen) {
			conn.LastSeen = event.Timestamp
		}
		if conn.Remote == "" {
			conn.Remote = event.RemoteAddr
		}
	}

	if m := event.Message; m != nil && m.Command != "" {
		cs, ok := s.Commands[m.Command]
		if !ok {
			cs = &CommandStats{}
			s.Commands[m.Command] = cs
		}
		switch m.Type {
		case log.MessageTypeRequest:
			cs.Requests++
		case log.MessageTypeResponse:
			cs.Responses++
			if m.Result == "fail" {
				cs.Failures++
			}
			if m.Elapsed != nil {
				cs.Total += *m.Elapsed
			}
		}
	}

	if event.Error != nil {
		s.Errors++
		if event.Error.Code != nil {
			s.DeviceErrors[*event.Error.Code]++
		}
	}
}

// RunStats analyzes the capture file and prints statistics.
func RunStats(path string, filter log.Filter, w io.Writer) error {
	stats, err := Collect(path, filter)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== HEOS Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	if stats.Skipped > 0 {
		fmt.Fprintf(w, "Skipped:      %d malformed\n", stats.Skipped)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerProtocol, log.LayerClient} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Connections: %d\n", len(stats.Connections))

	if len(stats.Commands) > 0 {
		names := make([]string, 0, len(stats.Commands))
		for name := range stats.Commands {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w)
		fmt.Fprintln(w, "Commands:")
		for _, name := range names {
			cs := stats.Commands[name]
			fmt.Fprintf(w, "  %-30s %d sent, %d answered, %d failed, mean %s\n",
				name, cs.Requests, cs.Responses, cs.Failures, formatDuration(cs.Mean()))
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)

		codes := make([]int, 0, len(stats.DeviceErrors))
		for code := range stats.DeviceErrors {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			fmt.Fprintf(w, "  eid %d %-28s %d\n", code, "("+response.CodeName(code)+"):", stats.DeviceErrors[code])
		}
	}
}

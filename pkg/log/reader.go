package log

import (
	"errors"
	"io"
	"os"
	"time"
)

// Filter selects events. Zero fields match everything.
type Filter struct {
	ConnectionID string
	Direction    *Direction
	Layer        *Layer
	Category     *Category

	// TimeStart matches events at or after this time.
	TimeStart *time.Time

	// TimeEnd matches events before this time.
	TimeEnd *time.Time

	PlayerID int64

	// Command matches message and error events for "namespace/verb".
	Command string
}

// Matches reports whether event satisfies every criterion.
func (f *Filter) Matches(event Event) bool {
	if f.ConnectionID != "" && event.ConnectionID != f.ConnectionID {
		return false
	}
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Layer != nil && event.Layer != *f.Layer {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	if f.PlayerID != 0 && event.PlayerID != f.PlayerID {
		return false
	}
	if f.Command != "" {
		switch {
		case event.Message != nil:
			return event.Message.Command == f.Command
		case event.Error != nil:
			return event.Error.Context == f.Command
		default:
			return false
		}
	}
	return true
}

// Reader streams events from a capture file.
type Reader struct {
	file    *os.File
	decoder *eventDecoder
	filter  Filter
	skipped int
}

// NewReader opens a capture file for reading all events.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a capture file, returning only matching events.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: newEventDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next matching event, or io.EOF at the end of the file.
// A file cut off in the middle of an event also ends with io.EOF.
func (r *Reader) Next() (Event, error) {
	for {
		event, err := r.decoder.Decode()
		if errors.Is(err, ErrMalformedEvent) {
			r.skipped++
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Skipped returns the number of well-formed CBOR items read so far that
// were not capture events.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Close closes the file.
func (r *Reader) Close() error {
	return r.file.Close()
}

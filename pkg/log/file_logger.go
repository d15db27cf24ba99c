package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileLogger appends CBOR-encoded events to a file. It is safe for
// concurrent use.
type FileLogger struct {
	file    *os.File
	encoder *eventEncoder
	mu      sync.Mutex
	closed  bool
	errs    int
}

// NewFileLogger opens path for appending, creating it and its parent
// directory if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating capture directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening capture file: %w", err)
	}
	return &FileLogger{
		file:    f,
		encoder: newEventEncoder(f),
	}, nil
}

// Log appends the event. Events logged after Close are dropped.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if err := l.encoder.Encode(event); err != nil {
		l.errs++
	}
}

// Errors returns the number of events that were malformed or failed to
// encode or write.
func (l *FileLogger) Errors() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errs
}

// Close closes the file. It is safe to call more than once.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)

package transport

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/heos-control/heos-go/pkg/command"
	"github.com/heos-control/heos-go/pkg/log"
)

// Framing constants.
const (
	// Terminator ends every request and response frame.
	Terminator = "\r\n"

	// DefaultMaxFrameSize bounds a response frame (1 MiB). Browse listings
	// can be large, so this is well above typical replies.
	DefaultMaxFrameSize = 1 << 20

	readBufferSize = 4096
)

// Framing errors.
var (
	// ErrFrameTooLarge indicates a response exceeded the maximum frame size.
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrInvalidRequest indicates a request that cannot be framed.
	ErrInvalidRequest = errors.New("invalid request frame")
)

var terminator = []byte(Terminator)

// FrameWriter writes CRLF-terminated request frames.
type FrameWriter struct {
	w io.Writer

	logger log.Logger
	connID string
}

// NewFrameWriter creates a frame writer.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// SetLogger configures capture for this writer. Pass nil to disable it.
func (fw *FrameWriter) SetLogger(logger log.Logger, connID string) {
	fw.logger = logger
	fw.connID = connID
}

// WriteFrame writes request followed by the terminator in a single write.
// The request must be non-empty ASCII without line breaks.
func (fw *FrameWriter) WriteFrame(request string) error {
	if request == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRequest)
	}
	if strings.ContainsAny(request, "\r\n") {
		return fmt.Errorf("%w: contains a line terminator", ErrInvalidRequest)
	}
	if err := command.CheckASCII(request); err != nil {
		return err
	}

	frame := make([]byte, 0, len(request)+len(terminator))
	frame = append(frame, request...)
	frame = append(frame, terminator...)
	if _, err := fw.w.Write(frame); err != nil {
		return err
	}

	if fw.logger != nil {
		fw.logger.Log(frameEvent(fw.connID, frame, log.DirectionOut))
	}
	return nil
}

// FrameReader reads CRLF-terminated response frames.
type FrameReader struct {
	r            *bufio.Reader
	maxFrameSize int

	logger log.Logger
	connID string
}

// NewFrameReader creates a frame reader with DefaultMaxFrameSize.
func NewFrameReader(r io.Reader) *FrameReader {
	return NewFrameReaderWithMaxSize(r, DefaultMaxFrameSize)
}

// NewFrameReaderWithMaxSize creates a frame reader with a custom limit.
func NewFrameReaderWithMaxSize(r io.Reader, maxSize int) *FrameReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxFrameSize
	}
	return &FrameReader{
		r:            bufio.NewReaderSize(r, min(readBufferSize, maxSize)),
		maxFrameSize: maxSize,
	}
}

// SetLogger configures capture for this reader. Pass nil to disable it.
func (fr *FrameReader) SetLogger(logger log.Logger, connID string) {
	fr.logger = logger
	fr.connID = connID
}

// ReadFrame reads up to and including the first "\r\n". A bare "\n" does
// not end the frame. It returns io.EOF if the stream ends before any byte
// and io.ErrUnexpectedEOF if it ends mid-frame.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	var frame []byte
	for {
		chunk, err := fr.r.ReadSlice('\n')
		if len(frame)+len(chunk) > fr.maxFrameSize {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrFrameTooLarge, fr.maxFrameSize)
		}
		frame = append(frame, chunk...)

		switch {
		case err == nil:
			if bytes.HasSuffix(frame, terminator) {
				if fr.logger != nil {
					fr.logger.Log(frameEvent(fr.connID, frame, log.DirectionIn))
				}
				return frame, nil
			}
		case errors.Is(err, bufio.ErrBufferFull):
		case errors.Is(err, io.EOF):
			if len(frame) == 0 {
				return nil, io.EOF
			}
			return nil, io.ErrUnexpectedEOF
		default:
			return nil, err
		}
	}
}

// Framer combines frame reading and writing on one connection.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a framer with a custom max response size.
func NewFramer(rw io.ReadWriter, maxSize int) *Framer {
	return &Framer{
		FrameReader: NewFrameReaderWithMaxSize(rw, maxSize),
		FrameWriter: NewFrameWriter(rw),
	}
}

// SetLogger configures capture for both directions.
func (f *Framer) SetLogger(logger log.Logger, connID string) {
	f.FrameReader.SetLogger(logger, connID)
	f.FrameWriter.SetLogger(logger, connID)
}

func frameEvent(connID string, data []byte, direction log.Direction) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Frame:        log.NewFrameEvent(data, log.DefaultMaxFrameData),
	}
}

package log

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// ErrMalformedEvent is returned when an event does not carry exactly one
// of Frame, Message, StateChange or Error.
var ErrMalformedEvent = errors.New("malformed capture event")

// captureCodec holds the CBOR modes of the .hlog format: canonical map
// order, definite lengths and RFC 3339 timestamps with nanoseconds.
type captureCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var codec = sync.OnceValue(func() captureCodec {
	enc, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("capture CBOR encoder mode: %v", err))
	}
	// Events are flat; anything deeper or wider is a corrupt file.
	dec, err := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyQuiet,
		IndefLength:      cbor.IndefLengthAllowed,
		MaxNestedLevels:  8,
		MaxMapPairs:      64,
		MaxArrayElements: 64,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("capture CBOR decoder mode: %v", err))
	}
	return captureCodec{enc: enc, dec: dec}
})

func checkEvent(event Event) error {
	n := 0
	for _, set := range []bool{event.Frame != nil, event.Message != nil, event.StateChange != nil, event.Error != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("%w: %d payloads", ErrMalformedEvent, n)
	}
	return nil
}

// EncodeEvent encodes a single event.
func EncodeEvent(event Event) ([]byte, error) {
	if err := checkEvent(event); err != nil {
		return nil, err
	}
	return codec().enc.Marshal(event)
}

// DecodeEvent decodes a single event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := codec().dec.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, checkEvent(event)
}

// eventEncoder appends events to a capture stream.
type eventEncoder struct {
	enc *cbor.Encoder
}

func newEventEncoder(w io.Writer) *eventEncoder {
	return &eventEncoder{enc: codec().enc.NewEncoder(w)}
}

func (e *eventEncoder) Encode(event Event) error {
	if err := checkEvent(event); err != nil {
		return err
	}
	return e.enc.Encode(event)
}

// eventDecoder reads events from a capture stream.
type eventDecoder struct {
	dec *cbor.Decoder
}

func newEventDecoder(r io.Reader) *eventDecoder {
	return &eventDecoder{dec: codec().dec.NewDecoder(r)}
}

func (d *eventDecoder) Decode() (Event, error) {
	var event Event
	if err := d.dec.Decode(&event); err != nil {
		return Event{}, err
	}
	return event, checkEvent(event)
}

package log

import "time"

// DefaultMaxFrameData bounds the frame bytes stored per event.
const DefaultMaxFrameData = 4096

// Event is a single captured protocol event. CBOR encoding uses integer
// keys.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the session that produced the event (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	Direction Direction `cbor:"3,keyasint"`
	Layer     Layer     `cbor:"4,keyasint"`
	Category  Category  `cbor:"5,keyasint"`

	// RemoteAddr is the device address (host:port).
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// PlayerID is the pid the client was bound to, if any.
	PlayerID int64 `cbor:"7,keyasint,omitempty"`

	// Exactly one of these is set.
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"`
}

// Direction indicates message flow relative to the client.
type Direction uint8

const (
	DirectionIn  Direction = 0
	DirectionOut Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where an event was captured.
type Layer uint8

const (
	// LayerTransport is the socket: frames and connection state.
	LayerTransport Layer = 0
	// LayerProtocol is the decoded heos:// request and JSON response.
	LayerProtocol Layer = 1
	// LayerClient is the device facade.
	LayerClient Layer = 2
)

func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerProtocol:
		return "PROTOCOL"
	case LayerClient:
		return "CLIENT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	CategoryMessage Category = 0
	CategoryState   Category = 1
	CategoryError   Category = 2
)

func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures the bytes of one line on the wire.
type FrameEvent struct {
	// Size is the full frame size including "\r\n".
	Size int `cbor:"1,keyasint"`

	// Data holds the frame bytes, possibly truncated.
	Data []byte `cbor:"2,keyasint,omitempty"`

	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// NewFrameEvent copies at most max bytes of data into a FrameEvent.
// max <= 0 selects DefaultMaxFrameData.
func NewFrameEvent(data []byte, max int) *FrameEvent {
	if max <= 0 {
		max = DefaultMaxFrameData
	}
	fe := &FrameEvent{Size: len(data)}
	if len(data) > max {
		fe.Data = append([]byte(nil), data[:max]...)
		fe.Truncated = true
	} else {
		fe.Data = append([]byte(nil), data...)
	}
	return fe
}

// MessageEvent captures a request or its response at the protocol layer.
type MessageEvent struct {
	Type MessageType `cbor:"1,keyasint"`

	// Command is "namespace/verb".
	Command string `cbor:"2,keyasint"`

	// Request is the encoded heos:// string (requests only).
	Request string `cbor:"3,keyasint,omitempty"`

	// Result is the header result ("success", "fail") or the decode
	// outcome ("unparseable") for responses.
	Result string `cbor:"4,keyasint,omitempty"`

	// Message is the raw header message for responses.
	Message string `cbor:"5,keyasint,omitempty"`

	// Elapsed is the round-trip time (responses only), in nanoseconds.
	Elapsed *time.Duration `cbor:"6,keyasint,omitempty"`
}

// MessageType distinguishes requests from responses.
type MessageType uint8

const (
	MessageTypeRequest  MessageType = 0
	MessageTypeResponse MessageType = 1
)

func (m MessageType) String() string {
	switch m {
	case MessageTypeRequest:
		return "REQUEST"
	case MessageTypeResponse:
		return "RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures connection lifecycle transitions.
type StateChangeEvent struct {
	Entity   StateEntity `cbor:"1,keyasint"`
	OldState string      `cbor:"2,keyasint,omitempty"`
	NewState string      `cbor:"3,keyasint"`
	Reason   string      `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what changed state.
type StateEntity uint8

const (
	StateEntityConnection StateEntity = 0
)

func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures an error at any layer.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`

	// Code is the device error code (eid), when there is one.
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context names the operation, e.g. "dial" or "player/set_volume".
	Context string `cbor:"4,keyasint,omitempty"`
}

package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Result values carried in the header.
const (
	ResultSuccess = "success"
	ResultFail    = "fail"
)

// messageUnderProcess marks an interim reply; the final one follows.
const messageUnderProcess = "command under process"

// ErrNoPayload is returned by DecodePayload when the response has none.
var ErrNoPayload = errors.New("response has no payload")

// Header is the "heos" member of a response.
type Header struct {
	Command string
	Result  string
	Message string
}

// Header returns the "heos" member, if the response has one.
func (s *Structured) Header() (Header, bool) {
	root, ok := s.Tree.(map[string]any)
	if !ok {
		return Header{}, false
	}
	h, ok := root["heos"].(map[string]any)
	if !ok {
		return Header{}, false
	}
	return Header{
		Command: str(h["command"]),
		Result:  str(h["result"]),
		Message: str(h["message"]),
	}, true
}

// Succeeded reports whether the device answered result=success.
func (s *Structured) Succeeded() bool {
	h, ok := s.Header()
	return ok && h.Result == ResultSuccess
}

// Message returns the parsed header message.
func (s *Structured) Message() map[string]string {
	h, _ := s.Header()
	return ParseMessage(h.Message)
}

// UnderProcess reports an interim "command under process" reply.
func (s *Structured) UnderProcess() bool {
	h, ok := s.Header()
	return ok && strings.Contains(h.Message, messageUnderProcess)
}

// DeviceError returns the device-reported error for result=fail, or nil.
func (s *Structured) DeviceError() *DeviceError {
	h, ok := s.Header()
	if !ok || h.Result != ResultFail {
		return nil
	}
	msg := ParseMessage(h.Message)
	de := &DeviceError{Code: -1, Text: "Unknown error"}
	if eid, err := strconv.Atoi(msg["eid"]); err == nil {
		de.Code = eid
	}
	if text, ok := msg["text"]; ok {
		de.Text = text
	}
	return de
}

// Payload returns the "payload" member, or nil.
func (s *Structured) Payload() any {
	root, ok := s.Tree.(map[string]any)
	if !ok {
		return nil
	}
	return root["payload"]
}

// DecodePayload unmarshals the "payload" member into v.
func (s *Structured) DecodePayload(v any) error {
	p := s.Payload()
	if p == nil {
		return ErrNoPayload
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("re-encoding payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}

// ParseMessage splits a "k=v&k=v" header message. Values are unescaped; a
// bare key maps to the empty string.
func ParseMessage(msg string) map[string]string {
	out := make(map[string]string)
	if msg == "" {
		return out
	}
	for _, part := range strings.Split(msg, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		if uv, err := url.PathUnescape(v); err == nil {
			v = uv
		}
		out[k] = v
	}
	return out
}

func str(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

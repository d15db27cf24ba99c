package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Structured(t *testing.T) {
	raw := []byte(`{"heos":{"command":"player/get_volume","result":"success","message":"pid=5&level=30"}}` + "\r\n")

	r := Decode(raw)
	s, ok := r.(*Structured)
	require.True(t, ok, "got %T", r)
	assert.Equal(t, raw[:len(raw)-2], s.Raw)

	root := s.Tree.(map[string]any)
	assert.Contains(t, root, "heos")
}

func TestDecode_Idempotent(t *testing.T) {
	raw := []byte(`{"heos":{"command":"system/heart_beat","result":"success","message":""}}` + "\r\n")
	assert.Equal(t, Decode(raw), Decode(raw))
}

func TestDecode_NumbersPreserved(t *testing.T) {
	s := Decode([]byte(`{"payload":{"pid":-1465850739}}`)).(*Structured)
	pid := s.Payload().(map[string]any)["pid"]
	assert.Equal(t, json.Number("-1465850739"), pid)
}

func TestDecode_Unparseable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"terminator only", "\r\n", ""},
		{"truncated", "{\"foo\":\r\n", "{\"foo\":"},
		{"plain text", "hello\r\n", "hello"},
		{"trailing data", "{}{}\r\n", "{}{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Decode([]byte(tt.raw))
			u, ok := r.(*Unparseable)
			require.True(t, ok, "got %T", r)
			assert.Equal(t, tt.want, u.RawText)
		})
	}
}

func TestDecode_NonASCIIIsUnparseable(t *testing.T) {
	// "Café" in Latin-1.
	raw := []byte{'{', '"', 'C', 'a', 'f', 0xe9, '"', '}', '\r', '\n'}
	r := Decode(raw)
	u, ok := r.(*Unparseable)
	require.True(t, ok, "got %T", r)
	assert.Equal(t, `{"Café"}`, u.RawText)
}

func TestDecode_NoTerminator(t *testing.T) {
	r := Decode([]byte(`{"a":1}`))
	_, ok := r.(*Structured)
	assert.True(t, ok)
}

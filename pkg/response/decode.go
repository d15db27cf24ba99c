package response

import (
	"bytes"
	"encoding/json"
	"io"

	"golang.org/x/text/encoding/charmap"
)

var terminator = []byte("\r\n")

// Decode converts a raw frame into a Result. It returns *Structured when
// the frame is ASCII JSON and *Unparseable otherwise.
func Decode(raw []byte) Result {
	line := bytes.TrimSuffix(raw, terminator)

	if !isASCII(line) {
		return &Unparseable{RawText: latin1(line)}
	}

	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return &Unparseable{RawText: string(line)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &Unparseable{RawText: string(line)}
	}

	return &Structured{Raw: bytes.Clone(line), Tree: tree}
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c > 0x7f {
			return false
		}
	}
	return true
}

// latin1 decodes every byte as ISO-8859-1, which cannot fail.
func latin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

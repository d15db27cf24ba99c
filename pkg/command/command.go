package command

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Scheme prefixes every HEOS CLI request.
const Scheme = "heos://"

// Validation errors.
var (
	// ErrInvalidArgument indicates a parameter failed local validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEncoding indicates the request cannot be represented in ASCII.
	ErrEncoding = errors.New("encoding error")
)

// Integer bounds for keys the device constrains.
var intRanges = map[string]struct{ min, max int64 }{
	"pid":    {math.MinInt64, math.MaxInt64},
	"gid":    {math.MinInt64, math.MaxInt64},
	"level":  {0, 100},
	"step":   {1, 10},
	"sid":    {1, math.MaxInt32},
	"preset": {1, math.MaxInt32},
}

var valueEscaper = strings.NewReplacer("%", "%25", "&", "%26", "=", "%3D")

// Param is a single key/value pair of a request.
type Param struct {
	Key   string
	Value any
}

// P is shorthand for Param{Key: key, Value: value}.
func P(key string, value any) Param {
	return Param{Key: key, Value: value}
}

// Command is a request before encoding.
type Command struct {
	Namespace string
	Verb      string
	Params    []Param
}

// New returns a Command with the given parameters in order.
func New(namespace, verb string, params ...Param) Command {
	return Command{Namespace: namespace, Verb: verb, Params: params}
}

// Build validates and encodes a request in one step.
func Build(namespace, verb string, params ...Param) (string, error) {
	return New(namespace, verb, params...).Encode()
}

// Name returns "namespace/verb".
func (c Command) Name() string {
	return c.Namespace + "/" + c.Verb
}

// Value returns the canonical value of key, if present.
func (c Command) Value(key string) (string, bool) {
	for _, p := range c.Params {
		if p.Key == key {
			v, err := canonical(p.Value)
			if err != nil {
				return "", false
			}
			return v, true
		}
	}
	return "", false
}

// String returns the encoded request, or a placeholder when it does not
// validate.
func (c Command) String() string {
	s, err := c.Encode()
	if err != nil {
		return fmt.Sprintf("%s%s (invalid: %v)", Scheme, c.Name(), err)
	}
	return s
}

// Encode validates the command and returns its wire form without the
// trailing line terminator.
func (c Command) Encode() (string, error) {
	if err := checkToken("namespace", c.Namespace); err != nil {
		return "", err
	}
	if err := checkToken("verb", c.Verb); err != nil {
		return "", err
	}

	values := make(map[string]string, len(c.Params))
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString(c.Namespace)
	b.WriteByte('/')
	b.WriteString(c.Verb)

	for i, p := range c.Params {
		if err := checkToken("parameter key", p.Key); err != nil {
			return "", err
		}
		if _, dup := values[p.Key]; dup {
			return "", fmt.Errorf("%w: duplicate parameter %q", ErrInvalidArgument, p.Key)
		}
		v, err := canonical(p.Value)
		if err != nil {
			return "", fmt.Errorf("%w: parameter %q: %v", ErrInvalidArgument, p.Key, err)
		}
		if err := checkValue(p.Key, v); err != nil {
			return "", err
		}
		values[p.Key] = v

		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(valueEscaper.Replace(v))
	}

	if spec, ok := Lookup(c.Namespace, c.Verb); ok {
		if err := spec.check(values); err != nil {
			return "", err
		}
	}

	out := b.String()
	if err := CheckASCII(out); err != nil {
		return "", err
	}
	return out, nil
}

// CheckASCII reports ErrEncoding when s contains a byte outside 7-bit ASCII.
func CheckASCII(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return fmt.Errorf("%w: non-ASCII byte 0x%02x at offset %d", ErrEncoding, s[i], i)
		}
	}
	return nil
}

// Parse reads a request string back into a Command. Values are unescaped
// and kept as strings. A trailing "\r\n" is ignored.
func Parse(s string) (Command, error) {
	s = strings.TrimSuffix(s, "\r\n")
	rest, ok := strings.CutPrefix(s, Scheme)
	if !ok {
		return Command{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidArgument, Scheme)
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	ns, verb, ok := strings.Cut(path, "/")
	if !ok || strings.Contains(verb, "/") {
		return Command{}, fmt.Errorf("%w: malformed path %q", ErrInvalidArgument, path)
	}
	c := Command{Namespace: ns, Verb: verb}
	if err := checkToken("namespace", ns); err != nil {
		return Command{}, err
	}
	if err := checkToken("verb", verb); err != nil {
		return Command{}, err
	}
	if !hasQuery || query == "" {
		return c, nil
	}

	for _, pair := range strings.Split(query, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if k == "" {
			return Command{}, fmt.Errorf("%w: empty parameter key", ErrInvalidArgument)
		}
		uv, err := url.PathUnescape(v)
		if err != nil {
			return Command{}, fmt.Errorf("%w: parameter %q: %v", ErrInvalidArgument, k, err)
		}
		c.Params = append(c.Params, Param{Key: k, Value: uv})
	}
	return c, nil
}

func canonical(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		if x {
			return "on", nil
		}
		return "off", nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case fmt.Stringer:
		return x.String(), nil
	case nil:
		return "", errors.New("nil value")
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// checkToken accepts lower-case identifiers as used for namespaces, verbs
// and keys.
func checkToken(what, s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty %s", ErrInvalidArgument, what)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		case c > 0x7f:
			return fmt.Errorf("%w: %s %q", ErrEncoding, what, s)
		default:
			return fmt.Errorf("%w: %s %q contains %q", ErrInvalidArgument, what, s, c)
		}
	}
	return nil
}

func checkValue(key, v string) error {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' {
			return fmt.Errorf("%w: parameter %q contains a line terminator", ErrInvalidArgument, key)
		}
		if c < 0x20 || c == 0x7f {
			return fmt.Errorf("%w: parameter %q contains control character 0x%02x", ErrInvalidArgument, key, c)
		}
	}

	r, ok := intRanges[key]
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: parameter %q must be an integer, got %q", ErrInvalidArgument, key, v)
	}
	if n < r.min || n > r.max {
		return fmt.Errorf("%w: parameter %q = %d outside [%d, %d]", ErrInvalidArgument, key, n, r.min, r.max)
	}
	return nil
}

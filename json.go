package structval

import (
	"errors"
	"math"
	"strconv"
)

// DefaultMaxDepth is the container nesting limit AppendJSON applies when no
// WithMaxDepth option is given. Well-formed data never gets close; the limit
// exists so a cyclic value turns into an error instead of a stack overflow.
const DefaultMaxDepth = 1000

// ErrMaxDepth is returned when rendering descends through more nested
// containers than the configured limit allows.
var ErrMaxDepth = errors.New("structval: max depth exceeded")

type renderConfig struct {
	maxDepth int
}

// RenderOption customizes AppendJSON.
type RenderOption func(*renderConfig)

// WithMaxDepth overrides the container nesting limit. Values below one are
// ignored and the default stays in effect.
func WithMaxDepth(n int) RenderOption {
	return func(cfg *renderConfig) {
		if n >= 1 {
			cfg.maxDepth = n
		}
	}
}

// AppendJSON renders v as a compact JSON document appended to dst and
// returns the extended slice. A nil v renders as null. Mapping keys appear
// in the order the value reports them; for adapters that is ascending key
// order, so output is deterministic.
//
// NaN and the infinities have no JSON representation and render as the
// strings "NaN", "+Inf" and "-Inf". If the nesting limit is exceeded the
// original dst is returned unchanged along with ErrMaxDepth.
func AppendJSON(dst []byte, v Value, opts ...RenderOption) ([]byte, error) {
	cfg := renderConfig{
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	w := jsonVisitor{buf: dst, limit: cfg.maxDepth}
	visitChild(&w, v)
	if w.err != nil {
		return dst, w.err
	}
	return w.buf, nil
}

// MarshalJSON renders the wrapped value with AppendJSON defaults, letting
// adapters embed directly in encoding/json output.
func (a Adapter) MarshalJSON() ([]byte, error) {
	return AppendJSON(nil, a)
}

// visitChild visits one child value, treating a nil Value as null.
func visitChild(w *jsonVisitor, v Value) {
	if v == nil {
		w.VisitNil()
		return
	}
	v.Visit(w)
}

// jsonVisitor renders a visitor walk into buf. The first error latches and
// turns every later callback into a no-op.
type jsonVisitor struct {
	buf   []byte
	depth int
	limit int
	err   error
}

func (w *jsonVisitor) VisitNil() {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, "null"...)
}

func (w *jsonVisitor) VisitBool(b bool) {
	if w.err != nil {
		return
	}
	w.buf = strconv.AppendBool(w.buf, b)
}

func (w *jsonVisitor) VisitInt64(n int64) {
	if w.err != nil {
		return
	}
	w.buf = strconv.AppendInt(w.buf, n, 10)
}

func (w *jsonVisitor) VisitUint64(n uint64) {
	if w.err != nil {
		return
	}
	w.buf = strconv.AppendUint(w.buf, n, 10)
}

func (w *jsonVisitor) VisitFloat64(f float64) {
	if w.err != nil {
		return
	}
	switch {
	case math.IsNaN(f):
		w.buf = append(w.buf, `"NaN"`...)
	case math.IsInf(f, 1):
		w.buf = append(w.buf, `"+Inf"`...)
	case math.IsInf(f, -1):
		w.buf = append(w.buf, `"-Inf"`...)
	default:
		w.buf = strconv.AppendFloat(w.buf, f, 'f', -1, 64)
	}
}

func (w *jsonVisitor) VisitString(s string) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, '"')
	w.buf = appendJSONString(w.buf, s)
	w.buf = append(w.buf, '"')
}

func (w *jsonVisitor) VisitSequence(items []Value) {
	if w.err != nil {
		return
	}
	if !w.descend() {
		return
	}
	w.buf = append(w.buf, '[')
	for i, item := range items {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		visitChild(w, item)
		if w.err != nil {
			return
		}
	}
	w.buf = append(w.buf, ']')
	w.depth--
}

func (w *jsonVisitor) VisitMapping(entries []Entry) {
	if w.err != nil {
		return
	}
	if !w.descend() {
		return
	}
	w.buf = append(w.buf, '{')
	for i, e := range entries {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.buf = append(w.buf, '"')
		w.buf = appendJSONString(w.buf, e.Key)
		w.buf = append(w.buf, `":`...)
		visitChild(w, e.Value)
		if w.err != nil {
			return
		}
	}
	w.buf = append(w.buf, '}')
	w.depth--
}

// descend counts one level of container nesting against the limit.
func (w *jsonVisitor) descend() bool {
	if w.depth >= w.limit {
		w.err = ErrMaxDepth
		return false
	}
	w.depth++
	return true
}

// appendJSONString appends the JSON-escaped form of s (without surrounding
// quotes) to dst. Bytes outside the ASCII range pass through untouched, so
// multibyte text is preserved exactly.
func appendJSONString(dst []byte, s string) []byte {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		// Flush unescaped prefix
		if start < i {
			dst = append(dst, s[start:i]...)
		}
		switch c {
		case '"':
			dst = append(dst, `\"`...)
		case '\\':
			dst = append(dst, `\\`...)
		case '\n':
			dst = append(dst, `\n`...)
		case '\r':
			dst = append(dst, `\r`...)
		case '\t':
			dst = append(dst, `\t`...)
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexChars[c>>4], hexChars[c&0x0f])
		}
		start = i + 1
	}
	// Flush remaining
	if start < len(s) {
		dst = append(dst, s[start:]...)
	}
	return dst
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

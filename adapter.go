package structval

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// Adapter exposes one JSON-like value through the Value capability so a
// logging call can accept it without knowing it originated as JSON. It is
// immutable once constructed and owns no state beyond the wrapped value;
// sharing semantics are whatever the wrapped value's own semantics are.
type Adapter struct {
	v any
}

// Wrap stores a JSON-like value in an Adapter. It is total: any input is
// accepted, and values outside the JSON-like model are coerced during the
// visitor walk as documented on Visit.
//
// Example:
//
//	doc := map[string]any{"id": "abc", "tags": []any{1, 2, 3}}
//	logger.Info("created", structvalzap.Field("order", structval.Wrap(doc)))
func Wrap(v any) Adapter {
	return Adapter{v: v}
}

// Unwrap returns the wrapped value. Wrapping the result again behaves
// identically to the original adapter.
func (a Adapter) Unwrap() any {
	return a.v
}

// Visit reports the wrapped value's variant to vis, recursing into
// sequences and mappings by handing out child adapters. The walk cannot
// fail and never panics on any input.
//
// Numbers follow one policy: a non-negative integer reports through
// VisitUint64, a negative integer through VisitInt64, and anything with a
// fractional or exponent part through VisitFloat64. JSON does not
// distinguish signedness, so the unsigned call is the tie-break for values
// that fit both. A json.Number representable as none of the three degrades
// to null.
//
// Values outside the JSON-like model (see Wrap) coerce to their fmt.Sprint
// form; arbitrary domain values belong in ToValue, which applies their
// encoding/json behavior instead.
func (a Adapter) Visit(vis Visitor) {
	visitAny(vis, a.v)
}

// ToValue serializes v through encoding/json and wraps the resulting
// JSON-like value. Struct tags apply exactly as encoding/json defines them.
// The returned error is the upstream serialization failure surface; once an
// adapter exists, visiting it cannot fail.
func ToValue(v any) (Adapter, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Adapter{}, fmt.Errorf("structval: serialize %T: %w", v, err)
	}
	return Parse(data)
}

// Parse decodes a single JSON document and wraps it. Numbers keep their
// integer/float distinction (the decoder runs with UseNumber). Empty input
// and trailing data after the first document are rejected.
func Parse(data []byte) (Adapter, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return Adapter{}, errors.New("structval: empty input")
		}
		return Adapter{}, fmt.Errorf("structval: parse: %w", err)
	}
	if dec.More() {
		return Adapter{}, errors.New("structval: trailing data after JSON document")
	}
	return Adapter{v: root}, nil
}

// visitAny dispatches one JSON-like value to the matching visitor callback.
func visitAny(vis Visitor, v any) {
	switch t := v.(type) {
	case nil:
		vis.VisitNil()
	case Value:
		t.Visit(vis)
	case bool:
		vis.VisitBool(t)
	case string:
		vis.VisitString(t)
	case json.Number:
		visitNumber(vis, t)
	case int:
		visitInt(vis, int64(t))
	case int8:
		visitInt(vis, int64(t))
	case int16:
		visitInt(vis, int64(t))
	case int32:
		visitInt(vis, int64(t))
	case int64:
		visitInt(vis, t)
	case uint:
		vis.VisitUint64(uint64(t))
	case uint8:
		vis.VisitUint64(uint64(t))
	case uint16:
		vis.VisitUint64(uint64(t))
	case uint32:
		vis.VisitUint64(uint64(t))
	case uint64:
		vis.VisitUint64(t)
	case float32:
		vis.VisitFloat64(float64(t))
	case float64:
		vis.VisitFloat64(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = Adapter{v: item}
		}
		vis.VisitSequence(items)
	case map[string]any:
		vis.VisitMapping(mapEntries(t))
	default:
		vis.VisitString(fmt.Sprint(t))
	}
}

// visitNumber applies the number policy to a json.Number: unsigned first
// for non-negative integer text, then signed, then float, then null.
func visitNumber(vis Visitor, n json.Number) {
	s := n.String()
	if s != "" && s[0] != '-' {
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			vis.VisitUint64(u)
			return
		}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		vis.VisitInt64(i)
		return
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		vis.VisitFloat64(f)
		return
	}
	vis.VisitNil()
}

// visitInt applies the signedness tie-break to native integers.
func visitInt(vis Visitor, n int64) {
	if n >= 0 {
		vis.VisitUint64(uint64(n))
		return
	}
	vis.VisitInt64(n)
}

// mapEntries wraps a mapping's values as child adapters in ascending key
// order. Go maps carry no insertion order, so sorting is the deterministic
// stand-in; mapping order is not part of the round-trip contract.
func mapEntries(m map[string]any) []Entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{Key: k, Value: Adapter{v: m[k]}}
	}
	return entries
}

// Package structvalzerolog bridges structval values into rs/zerolog
// events and marshalers using the event's typed field methods.
package structvalzerolog

import (
	"github.com/pjscruggs/structval"
	"github.com/rs/zerolog"
)

// maxDepthMarker replaces subtrees nested beyond structval.DefaultMaxDepth.
// The zerolog marshaler contracts cannot carry an error, so overly deep
// values truncate instead of failing the record.
const maxDepthMarker = "!max-depth"

// Object adapts v to a zerolog.LogObjectMarshaler. A value that does not
// visit as a mapping contributes no fields, leaving an empty object under
// the caller's key.
func Object(v structval.Value) zerolog.LogObjectMarshaler {
	return objectMarshaler{v: v}
}

// Array adapts v to a zerolog.LogArrayMarshaler. A value that does not
// visit as a sequence contributes no items.
func Array(v structval.Value) zerolog.LogArrayMarshaler {
	return arrayMarshaler{v: v}
}

// Add writes v under key using the event's typed methods and returns the
// event for chaining.
//
// Example:
//
//	doc, _ := structval.Parse(payload)
//	structvalzerolog.Add(log.Info(), "payload", doc).Msg("webhook received")
func Add(e *zerolog.Event, key string, v structval.Value) *zerolog.Event {
	if e == nil {
		return nil
	}
	w := eventVisitor{e: e, key: key}
	visitInto(&w, v)
	return e
}

type objectMarshaler struct {
	v structval.Value
}

func (m objectMarshaler) MarshalZerologObject(e *zerolog.Event) {
	entries, ok := mappingOf(m.v)
	if !ok {
		return
	}
	objectEntries{entries: entries, depth: 1}.MarshalZerologObject(e)
}

type arrayMarshaler struct {
	v structval.Value
}

func (m arrayMarshaler) MarshalZerologArray(arr *zerolog.Array) {
	items, ok := sequenceOf(m.v)
	if !ok {
		return
	}
	arrayItems{items: items, depth: 1}.MarshalZerologArray(arr)
}

// objectEntries marshals already-extracted mapping entries at a known depth.
type objectEntries struct {
	entries []structval.Entry
	depth   int
}

func (o objectEntries) MarshalZerologObject(e *zerolog.Event) {
	for _, entry := range o.entries {
		w := eventVisitor{e: e, key: entry.Key, depth: o.depth}
		visitInto(&w, entry.Value)
	}
}

// arrayItems marshals already-extracted sequence items at a known depth.
type arrayItems struct {
	items []structval.Value
	depth int
}

func (a arrayItems) MarshalZerologArray(arr *zerolog.Array) {
	for _, item := range a.items {
		w := elementVisitor{arr: arr, depth: a.depth}
		visitInto(&w, item)
	}
}

// eventVisitor writes one value under its key with the event's typed
// methods.
type eventVisitor struct {
	e     *zerolog.Event
	key   string
	depth int
}

func (v *eventVisitor) VisitNil()              { v.e.Interface(v.key, nil) }
func (v *eventVisitor) VisitBool(b bool)       { v.e.Bool(v.key, b) }
func (v *eventVisitor) VisitInt64(n int64)     { v.e.Int64(v.key, n) }
func (v *eventVisitor) VisitUint64(n uint64)   { v.e.Uint64(v.key, n) }
func (v *eventVisitor) VisitFloat64(f float64) { v.e.Float64(v.key, f) }
func (v *eventVisitor) VisitString(s string)   { v.e.Str(v.key, s) }

func (v *eventVisitor) VisitSequence(items []structval.Value) {
	if v.depth >= structval.DefaultMaxDepth {
		v.e.Str(v.key, maxDepthMarker)
		return
	}
	v.e.Array(v.key, arrayItems{items: items, depth: v.depth + 1})
}

func (v *eventVisitor) VisitMapping(entries []structval.Entry) {
	if v.depth >= structval.DefaultMaxDepth {
		v.e.Str(v.key, maxDepthMarker)
		return
	}
	v.e.Object(v.key, objectEntries{entries: entries, depth: v.depth + 1})
}

// elementVisitor writes one sequence item in place.
type elementVisitor struct {
	arr   *zerolog.Array
	depth int
}

func (v *elementVisitor) VisitNil()              { v.arr.Interface(nil) }
func (v *elementVisitor) VisitBool(b bool)       { v.arr.Bool(b) }
func (v *elementVisitor) VisitInt64(n int64)     { v.arr.Int64(n) }
func (v *elementVisitor) VisitUint64(n uint64)   { v.arr.Uint64(n) }
func (v *elementVisitor) VisitFloat64(f float64) { v.arr.Float64(f) }
func (v *elementVisitor) VisitString(s string)   { v.arr.Str(s) }

// VisitSequence reconstructs nested sequences as plain values; the zerolog
// array contract has no nested-array method.
func (v *elementVisitor) VisitSequence(items []structval.Value) {
	if v.depth >= structval.DefaultMaxDepth {
		v.arr.Str(maxDepthMarker)
		return
	}
	seq := make([]any, len(items))
	for i, item := range items {
		seq[i] = rebuild(item, v.depth+1)
	}
	v.arr.Interface(seq)
}

func (v *elementVisitor) VisitMapping(entries []structval.Entry) {
	if v.depth >= structval.DefaultMaxDepth {
		v.arr.Str(maxDepthMarker)
		return
	}
	v.arr.Object(objectEntries{entries: entries, depth: v.depth + 1})
}

// rebuild mirrors structval.AsInterface with the depth cap applied.
func rebuild(v structval.Value, depth int) any {
	if v == nil {
		return nil
	}
	r := rebuildVisitor{depth: depth}
	v.Visit(&r)
	return r.out
}

type rebuildVisitor struct {
	depth int
	out   any
}

func (r *rebuildVisitor) VisitNil()              { r.out = nil }
func (r *rebuildVisitor) VisitBool(v bool)       { r.out = v }
func (r *rebuildVisitor) VisitInt64(n int64)     { r.out = n }
func (r *rebuildVisitor) VisitUint64(n uint64)   { r.out = n }
func (r *rebuildVisitor) VisitFloat64(v float64) { r.out = v }
func (r *rebuildVisitor) VisitString(s string)   { r.out = s }

func (r *rebuildVisitor) VisitSequence(items []structval.Value) {
	if r.depth >= structval.DefaultMaxDepth {
		r.out = maxDepthMarker
		return
	}
	seq := make([]any, len(items))
	for i, item := range items {
		seq[i] = rebuild(item, r.depth+1)
	}
	r.out = seq
}

func (r *rebuildVisitor) VisitMapping(entries []structval.Entry) {
	if r.depth >= structval.DefaultMaxDepth {
		r.out = maxDepthMarker
		return
	}
	m := make(map[string]any, len(entries))
	for _, e := range entries {
		m[e.Key] = rebuild(e.Value, r.depth+1)
	}
	r.out = m
}

// shapeVisitor captures container payloads so marshalers can check the
// variant they require.
type shapeVisitor struct {
	isMapping  bool
	isSequence bool
	entries    []structval.Entry
	items      []structval.Value
}

func (s *shapeVisitor) VisitNil()            {}
func (s *shapeVisitor) VisitBool(bool)       {}
func (s *shapeVisitor) VisitInt64(int64)     {}
func (s *shapeVisitor) VisitUint64(uint64)   {}
func (s *shapeVisitor) VisitFloat64(float64) {}
func (s *shapeVisitor) VisitString(string)   {}

func (s *shapeVisitor) VisitSequence(items []structval.Value) {
	s.isSequence = true
	s.items = items
}

func (s *shapeVisitor) VisitMapping(entries []structval.Entry) {
	s.isMapping = true
	s.entries = entries
}

// mappingOf returns the entries when v visits as a mapping.
func mappingOf(v structval.Value) ([]structval.Entry, bool) {
	if v == nil {
		return nil, false
	}
	var s shapeVisitor
	v.Visit(&s)
	return s.entries, s.isMapping
}

// sequenceOf returns the items when v visits as a sequence.
func sequenceOf(v structval.Value) ([]structval.Value, bool) {
	if v == nil {
		return nil, false
	}
	var s shapeVisitor
	v.Visit(&s)
	return s.items, s.isSequence
}

// visitInto visits v, treating a nil Value as null.
func visitInto(vis structval.Visitor, v structval.Value) {
	if v == nil {
		vis.VisitNil()
		return
	}
	v.Visit(vis)
}

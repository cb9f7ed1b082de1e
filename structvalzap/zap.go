// Package structvalzap bridges structval values into go.uber.org/zap
// fields and marshalers, so a wrapped document logs as real structure
// through zap's encoders.
package structvalzap

import (
	"errors"

	"github.com/pjscruggs/structval"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	errNotMapping  = errors.New("structvalzap: value is not a mapping")
	errNotSequence = errors.New("structvalzap: value is not a sequence")
)

// Object adapts v to a zapcore.ObjectMarshaler. The value must visit as a
// mapping; any other variant makes MarshalLogObject return an error, which
// zap reports on the field instead of dropping the record.
func Object(v structval.Value) zapcore.ObjectMarshaler {
	return objectMarshaler{v: v}
}

// Array adapts v to a zapcore.ArrayMarshaler. The value must visit as a
// sequence.
func Array(v structval.Value) zapcore.ArrayMarshaler {
	return arrayMarshaler{v: v}
}

// Field converts v into the best-fitting zap field for key: typed scalar
// fields, zap.Object for mappings, zap.Array for sequences and a reflected
// nil for null.
//
// Example:
//
//	doc, _ := structval.Parse(payload)
//	logger.Info("webhook received", structvalzap.Field("payload", doc))
func Field(key string, v structval.Value) zap.Field {
	// Skip stands in when v fires no callback at all.
	b := fieldBuilder{key: key, field: zap.Skip()}
	visitInto(&b, v)
	return b.field
}

// Any serializes v through structval.ToValue and converts the result with
// Field. A serialization failure degrades to a named error field so the
// log line still ships.
func Any(key string, v any) zap.Field {
	adapted, err := structval.ToValue(v)
	if err != nil {
		return zap.NamedError(key, err)
	}
	return Field(key, adapted)
}

type objectMarshaler struct {
	v structval.Value
}

func (m objectMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	entries, ok := mappingOf(m.v)
	if !ok {
		return errNotMapping
	}
	return addEntries(enc, entries, 1)
}

type arrayMarshaler struct {
	v structval.Value
}

func (m arrayMarshaler) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	items, ok := sequenceOf(m.v)
	if !ok {
		return errNotSequence
	}
	return appendItems(enc, items, 1)
}

// objectEntries marshals already-extracted mapping entries at a known depth.
type objectEntries struct {
	entries []structval.Entry
	depth   int
}

func (o objectEntries) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return addEntries(enc, o.entries, o.depth)
}

// arrayItems marshals already-extracted sequence items at a known depth.
type arrayItems struct {
	items []structval.Value
	depth int
}

func (a arrayItems) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	return appendItems(enc, a.items, a.depth)
}

// addEntries encodes mapping entries into an object encoder, aggregating
// per-entry errors so one bad entry does not hide its siblings.
func addEntries(enc zapcore.ObjectEncoder, entries []structval.Entry, depth int) error {
	if depth > structval.DefaultMaxDepth {
		return structval.ErrMaxDepth
	}
	var errs error
	for _, e := range entries {
		f := fieldVisitor{enc: enc, key: e.Key, depth: depth}
		visitInto(&f, e.Value)
		errs = multierr.Append(errs, f.err)
	}
	return errs
}

// appendItems encodes sequence items into an array encoder.
func appendItems(enc zapcore.ArrayEncoder, items []structval.Value, depth int) error {
	if depth > structval.DefaultMaxDepth {
		return structval.ErrMaxDepth
	}
	var errs error
	for _, item := range items {
		e := elementVisitor{enc: enc, depth: depth}
		visitInto(&e, item)
		errs = multierr.Append(errs, e.err)
	}
	return errs
}

// fieldVisitor encodes one mapping entry's value under its key.
type fieldVisitor struct {
	enc   zapcore.ObjectEncoder
	key   string
	depth int
	err   error
}

func (f *fieldVisitor) VisitNil()              { f.err = f.enc.AddReflected(f.key, nil) }
func (f *fieldVisitor) VisitBool(b bool)       { f.enc.AddBool(f.key, b) }
func (f *fieldVisitor) VisitInt64(n int64)     { f.enc.AddInt64(f.key, n) }
func (f *fieldVisitor) VisitUint64(n uint64)   { f.enc.AddUint64(f.key, n) }
func (f *fieldVisitor) VisitFloat64(v float64) { f.enc.AddFloat64(f.key, v) }
func (f *fieldVisitor) VisitString(s string)   { f.enc.AddString(f.key, s) }

func (f *fieldVisitor) VisitSequence(items []structval.Value) {
	f.err = f.enc.AddArray(f.key, arrayItems{items: items, depth: f.depth + 1})
}

func (f *fieldVisitor) VisitMapping(entries []structval.Entry) {
	f.err = f.enc.AddObject(f.key, objectEntries{entries: entries, depth: f.depth + 1})
}

// elementVisitor encodes one sequence item in place.
type elementVisitor struct {
	enc   zapcore.ArrayEncoder
	depth int
	err   error
}

func (e *elementVisitor) VisitNil()              { e.err = e.enc.AppendReflected(nil) }
func (e *elementVisitor) VisitBool(b bool)       { e.enc.AppendBool(b) }
func (e *elementVisitor) VisitInt64(n int64)     { e.enc.AppendInt64(n) }
func (e *elementVisitor) VisitUint64(n uint64)   { e.enc.AppendUint64(n) }
func (e *elementVisitor) VisitFloat64(v float64) { e.enc.AppendFloat64(v) }
func (e *elementVisitor) VisitString(s string)   { e.enc.AppendString(s) }

func (e *elementVisitor) VisitSequence(items []structval.Value) {
	e.err = e.enc.AppendArray(arrayItems{items: items, depth: e.depth + 1})
}

func (e *elementVisitor) VisitMapping(entries []structval.Entry) {
	e.err = e.enc.AppendObject(objectEntries{entries: entries, depth: e.depth + 1})
}

// fieldBuilder picks the zap field constructor matching the visited variant.
type fieldBuilder struct {
	key   string
	field zap.Field
}

func (b *fieldBuilder) VisitNil()              { b.field = zap.Reflect(b.key, nil) }
func (b *fieldBuilder) VisitBool(v bool)       { b.field = zap.Bool(b.key, v) }
func (b *fieldBuilder) VisitInt64(n int64)     { b.field = zap.Int64(b.key, n) }
func (b *fieldBuilder) VisitUint64(n uint64)   { b.field = zap.Uint64(b.key, n) }
func (b *fieldBuilder) VisitFloat64(v float64) { b.field = zap.Float64(b.key, v) }
func (b *fieldBuilder) VisitString(s string)   { b.field = zap.String(b.key, s) }

func (b *fieldBuilder) VisitSequence(items []structval.Value) {
	b.field = zap.Array(b.key, arrayItems{items: items, depth: 1})
}

func (b *fieldBuilder) VisitMapping(entries []structval.Entry) {
	b.field = zap.Object(b.key, objectEntries{entries: entries, depth: 1})
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

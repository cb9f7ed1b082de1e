// Package structvalslog bridges structval values into log/slog values and
// attributes. Mappings become groups so nested documents nest natively in
// any slog handler; sequences travel as plain any values since slog has no
// array kind.
package structvalslog

import (
	"log/slog"

	"github.com/pjscruggs/structval"
)

// maxDepthMarker replaces subtrees nested beyond structval.DefaultMaxDepth.
// The slog.Value contract cannot carry an error, so overly deep values
// truncate instead of failing the record.
const maxDepthMarker = "!max-depth"

// Value converts v into the closest slog.Value: typed scalars, GroupValue
// for mappings, AnyValue of a reconstructed []any for sequences and a nil
// AnyValue for null. Empty mappings become empty groups, which handlers may
// elide under the slog handler contract.
func Value(v structval.Value) slog.Value {
	return valueAt(v, 0)
}

// Attr pairs key with Value(v).
//
// Example:
//
//	doc, _ := structval.Parse(payload)
//	logger.LogAttrs(ctx, slog.LevelInfo, "webhook received",
//		structvalslog.Attr("payload", doc))
func Attr(key string, v structval.Value) slog.Attr {
	return slog.Attr{Key: key, Value: Value(v)}
}

// Valuer defers the walk until a handler resolves the value, for call
// sites that build attributes ahead of knowing whether the record is
// enabled.
func Valuer(v structval.Value) slog.LogValuer {
	return lazyValue{v: v}
}

type lazyValue struct {
	v structval.Value
}

func (l lazyValue) LogValue() slog.Value { return Value(l.v) }

func valueAt(v structval.Value, depth int) slog.Value {
	if v == nil {
		return slog.AnyValue(nil)
	}
	b := valueBuilder{depth: depth}
	v.Visit(&b)
	return b.val
}

// valueBuilder picks the slog.Value constructor matching the visited
// variant.
type valueBuilder struct {
	depth int
	val   slog.Value
}

func (b *valueBuilder) VisitNil()              { b.val = slog.AnyValue(nil) }
func (b *valueBuilder) VisitBool(v bool)       { b.val = slog.BoolValue(v) }
func (b *valueBuilder) VisitInt64(n int64)     { b.val = slog.Int64Value(n) }
func (b *valueBuilder) VisitUint64(n uint64)   { b.val = slog.Uint64Value(n) }
func (b *valueBuilder) VisitFloat64(v float64) { b.val = slog.Float64Value(v) }
func (b *valueBuilder) VisitString(s string)   { b.val = slog.StringValue(s) }

func (b *valueBuilder) VisitSequence(items []structval.Value) {
	if b.depth >= structval.DefaultMaxDepth {
		b.val = slog.StringValue(maxDepthMarker)
		return
	}
	seq := make([]any, len(items))
	for i, item := range items {
		seq[i] = rebuild(item, b.depth+1)
	}
	b.val = slog.AnyValue(seq)
}

func (b *valueBuilder) VisitMapping(entries []structval.Entry) {
	if b.depth >= structval.DefaultMaxDepth {
		b.val = slog.StringValue(maxDepthMarker)
		return
	}
	attrs := make([]slog.Attr, len(entries))
	for i, e := range entries {
		attrs[i] = slog.Attr{Key: e.Key, Value: valueAt(e.Value, b.depth+1)}
	}
	b.val = slog.GroupValue(attrs...)
}

// rebuild mirrors structval.AsInterface with the depth cap applied, for
// the sequence payloads slog carries as plain values.
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

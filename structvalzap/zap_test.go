package structvalzap

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/pjscruggs/structval"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestFieldScalars checks every scalar variant lands as the typed zap
// value.
func TestFieldScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"null", nil, nil},
		{"bool", true, true},
		{"string", "hey", "hey"},
		{"unsigned", json.Number("42"), uint64(42)},
		{"signed", json.Number("-1"), int64(-1)},
		{"float", 3.14, 3.14},
	}
	for _, tt := range tests {
		enc := zapcore.NewMapObjectEncoder()
		Field("k", structval.Wrap(tt.in)).AddTo(enc)

		got, ok := enc.Fields["k"]
		if !ok {
			t.Fatalf("%s: field missing from encoder", tt.name)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("%s: expected %v (%T), got %v (%T)", tt.name, tt.want, tt.want, got, got)
		}
	}
}

// TestFieldNestedDocument verifies a parsed document structures into
// nested maps and slices, not a flattened string.
func TestFieldNestedDocument(t *testing.T) {
	doc, err := structval.Parse([]byte(`{"id":"abc","tags":[1,2,3],"meta":null}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	enc := zapcore.NewMapObjectEncoder()
	Field("order", doc).AddTo(enc)

	want := map[string]any{
		"id":   "abc",
		"meta": nil,
		"tags": []any{uint64(1), uint64(2), uint64(3)},
	}
	if got := enc.Fields["order"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

// TestFieldNilValue treats a nil Value as a null field.
func TestFieldNilValue(t *testing.T) {
	enc := zapcore.NewMapObjectEncoder()
	Field("k", nil).AddTo(enc)

	got, ok := enc.Fields["k"]
	if !ok {
		t.Fatalf("expected null field to be present")
	}
	if got != nil {
		t.Fatalf("expected nil, got %v (%T)", got, got)
	}
}

// TestObjectRequiresMapping ensures non-mapping values error instead of
// encoding garbage.
func TestObjectRequiresMapping(t *testing.T) {
	enc := zapcore.NewMapObjectEncoder()
	if err := Object(structval.Wrap("nope")).MarshalLogObject(enc); err == nil {
		t.Fatalf("expected error for non-mapping value")
	}
	if err := Object(nil).MarshalLogObject(enc); err == nil {
		t.Fatalf("expected error for nil value")
	}
	if err := Object(structval.Wrap(map[string]any{"a": true})).MarshalLogObject(enc); err != nil {
		t.Fatalf("expected mapping to marshal, got %v", err)
	}
	if got := enc.Fields["a"]; got != true {
		t.Fatalf("expected entry to be encoded, got %v", got)
	}
}

// TestArrayRequiresSequence mirrors the mapping check for sequences.
func TestArrayRequiresSequence(t *testing.T) {
	enc := zapcore.NewMapObjectEncoder()
	if err := enc.AddArray("k", Array(structval.Wrap(true))); err == nil {
		t.Fatalf("expected error for non-sequence value")
	}
	if err := enc.AddArray("ok", Array(structval.Wrap([]any{"x", nil}))); err != nil {
		t.Fatalf("expected sequence to marshal, got %v", err)
	}
	if want := []any{"x", nil}; !reflect.DeepEqual(enc.Fields["ok"], want) {
		t.Fatalf("expected %v, got %v", want, enc.Fields["ok"])
	}
}

// TestObjectDepthLimit asserts the walk fails closed with ErrMaxDepth on
// runaway nesting.
func TestObjectDepthLimit(t *testing.T) {
	var v any = true
	for i := 0; i < structval.DefaultMaxDepth+1; i++ {
		v = map[string]any{"n": v}
	}

	err := Object(structval.Wrap(v)).MarshalLogObject(zapcore.NewMapObjectEncoder())
	if !errors.Is(err, structval.ErrMaxDepth) {
		t.Fatalf("expected ErrMaxDepth, got %v", err)
	}
}

// TestObjectAggregatesEntryErrors confirms one bad entry does not hide its
// siblings.
func TestObjectAggregatesEntryErrors(t *testing.T) {
	var deep any = true
	for i := 0; i < structval.DefaultMaxDepth+1; i++ {
		deep = map[string]any{"n": deep}
	}
	doc := structval.Wrap(map[string]any{"first": deep, "second": deep})

	err := Object(doc).MarshalLogObject(zapcore.NewMapObjectEncoder())
	if errs := multierr.Errors(err); len(errs) != 2 {
		t.Fatalf("expected 2 aggregated errors, got %d (%v)", len(errs), err)
	}
}

// TestAnySerializesDomainValues checks struct tags apply before encoding
// and serialization failures degrade to an error field.
func TestAnySerializesDomainValues(t *testing.T) {
	in := struct {
		Name   string `json:"name"`
		Secret string `json:"-"`
	}{Name: "n", Secret: "hidden"}

	enc := zapcore.NewMapObjectEncoder()
	Any("payload", in).AddTo(enc)

	want := map[string]any{"name": "n"}
	if got := enc.Fields["payload"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}

	bad := zapcore.NewMapObjectEncoder()
	Any("bad", make(chan int)).AddTo(bad)
	msg, ok := bad.Fields["bad"].(string)
	if !ok || !strings.Contains(msg, "serialize") {
		t.Fatalf("expected serialization error field, got %v", bad.Fields["bad"])
	}
}

// TestFieldThroughLogger drives a real zap logger with an observer core.
func TestFieldThroughLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	doc, err := structval.Parse([]byte(`{"ok":true,"count":2}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	logger.Info("event", Field("doc", doc))

	all := logs.All()
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}
	want := map[string]any{"count": uint64(2), "ok": true}
	if got := all[0].ContextMap()["doc"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

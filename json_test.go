package structval

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

// TestAppendJSONScalars renders each scalar variant and compares the exact
// output.
func TestAppendJSONScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"null", nil, `null`},
		{"true", true, `true`},
		{"false", false, `false`},
		{"zero", json.Number("0"), `0`},
		{"negative", json.Number("-1"), `-1`},
		{"uint64-max", uint64(math.MaxUint64), `18446744073709551615`},
		{"float", 3.14, `3.14`},
		{"empty-string", "", `""`},
		{"string", "hey", `"hey"`},
	}
	for _, tt := range tests {
		out, err := AppendJSON(nil, Wrap(tt.in))
		if err != nil {
			t.Fatalf("%s: AppendJSON failed: %v", tt.name, err)
		}
		if string(out) != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.name, tt.want, out)
		}
	}
}

// TestAppendJSONEscapesStrings checks quoting, control characters and
// multibyte passthrough.
func TestAppendJSONEscapesStrings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"common-escapes", "l1\nl2\tl3\r", `"l1\nl2\tl3\r"`},
		{"nul", "x\x00y", `"x\u0000y"`},
		{"control", "\x1f", `"\u001f"`},
		{"multibyte", "héllo 世界 🚀", `"héllo 世界 🚀"`},
	}
	for _, tt := range tests {
		out, err := AppendJSON(nil, Wrap(tt.in))
		if err != nil {
			t.Fatalf("%s: AppendJSON failed: %v", tt.name, err)
		}
		if string(out) != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.name, tt.want, out)
		}
	}
}

// TestAppendJSONSpecialFloats verifies the non-finite values render as
// quoted strings instead of invalid JSON.
func TestAppendJSONSpecialFloats(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"nan", math.NaN(), `"NaN"`},
		{"positive-infinity", math.Inf(1), `"+Inf"`},
		{"negative-infinity", math.Inf(-1), `"-Inf"`},
	}
	for _, tt := range tests {
		out, err := AppendJSON(nil, Wrap(tt.in))
		if err != nil {
			t.Fatalf("%s: AppendJSON failed: %v", tt.name, err)
		}
		if string(out) != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.name, tt.want, out)
		}
	}
}

// TestAppendJSONNestedDocument renders a parsed document and expects keys
// in ascending order.
func TestAppendJSONNestedDocument(t *testing.T) {
	doc, err := Parse([]byte(`{"id":"abc","tags":[1,2,3],"meta":null}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out, err := AppendJSON(nil, doc)
	if err != nil {
		t.Fatalf("AppendJSON failed: %v", err)
	}
	if want := `{"id":"abc","meta":null,"tags":[1,2,3]}`; string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

// TestAppendJSONEmptyContainers ensures empty containers render as such.
func TestAppendJSONEmptyContainers(t *testing.T) {
	out, err := AppendJSON(nil, Wrap([]any{}))
	if err != nil || string(out) != `[]` {
		t.Fatalf("expected [], got %s (err=%v)", out, err)
	}
	out, err = AppendJSON(nil, Wrap(map[string]any{}))
	if err != nil || string(out) != `{}` {
		t.Fatalf("expected {}, got %s (err=%v)", out, err)
	}
}

// TestAppendJSONAppendsToDst confirms existing dst content is preserved.
func TestAppendJSONAppendsToDst(t *testing.T) {
	out, err := AppendJSON([]byte("doc: "), Wrap(true))
	if err != nil {
		t.Fatalf("AppendJSON failed: %v", err)
	}
	if string(out) != "doc: true" {
		t.Fatalf("expected prefix to survive, got %s", out)
	}
}

// TestAppendJSONNilValue treats a nil Value as null.
func TestAppendJSONNilValue(t *testing.T) {
	out, err := AppendJSON(nil, nil)
	if err != nil || string(out) != `null` {
		t.Fatalf("expected null, got %s (err=%v)", out, err)
	}
}

// TestAppendJSONDepthLimit exercises the nesting guard: errors leave dst
// untouched, a big enough limit succeeds, and invalid limits are ignored.
func TestAppendJSONDepthLimit(t *testing.T) {
	var v any = json.Number("1")
	for i := 0; i < 10; i++ {
		v = []any{v}
	}
	deep := Wrap(v)

	dst := []byte("prefix:")
	out, err := AppendJSON(dst, deep, WithMaxDepth(9))
	if !errors.Is(err, ErrMaxDepth) {
		t.Fatalf("expected ErrMaxDepth, got %v", err)
	}
	if string(out) != "prefix:" {
		t.Fatalf("expected dst unchanged on error, got %s", out)
	}

	if _, err := AppendJSON(nil, deep, WithMaxDepth(10)); err != nil {
		t.Fatalf("expected depth 10 to fit limit 10, got %v", err)
	}
	if _, err := AppendJSON(nil, deep); err != nil {
		t.Fatalf("expected default limit to fit, got %v", err)
	}
	if _, err := AppendJSON(nil, deep, WithMaxDepth(0), WithMaxDepth(-5)); err != nil {
		t.Fatalf("expected invalid limits to be ignored, got %v", err)
	}
}

// TestAppendJSONRoundTrip re-parses rendered output and expects an equal
// value.
func TestAppendJSONRoundTrip(t *testing.T) {
	src := `{"id":"abc","meta":null,"nested":{"empty":[],"f":3.14,"neg":-1,"s":"x\u0000y"},"tags":[1,2,3]}`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out, err := AppendJSON(nil, doc)
	if err != nil {
		t.Fatalf("AppendJSON failed: %v", err)
	}
	back, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if !reflect.DeepEqual(AsInterface(back), AsInterface(doc)) {
		t.Fatalf("round trip diverged: %s", out)
	}
}

// TestMarshalJSONEmbedsAdapter verifies adapters marshal inside ordinary
// encoding/json documents.
func TestMarshalJSONEmbedsAdapter(t *testing.T) {
	doc, err := Parse([]byte(`{"id":"abc","tags":[1,2,3],"meta":null}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out, err := json.Marshal(struct {
		Doc Adapter `json:"doc"`
	}{Doc: doc})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if want := `{"doc":{"id":"abc","meta":null,"tags":[1,2,3]}}`; string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

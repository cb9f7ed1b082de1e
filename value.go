package structval

// Visitor is the callback contract a structured value reports into. Exactly
// one method is invoked per Visit call, identifying the value's variant and
// carrying its content. Consumers recurse into sequences and mappings by
// calling Visit on the child values they receive.
type Visitor interface {
	// VisitNil reports a JSON null.
	VisitNil()

	// VisitBool reports a boolean.
	VisitBool(b bool)

	// VisitInt64 reports a negative integer. Non-negative integers arrive
	// through VisitUint64 instead; see the number policy on Adapter.Visit.
	VisitInt64(n int64)

	// VisitUint64 reports a non-negative integer.
	VisitUint64(n uint64)

	// VisitFloat64 reports a floating-point number.
	VisitFloat64(f float64)

	// VisitString reports a string. The string is shared, not copied.
	VisitString(s string)

	// VisitSequence reports an ordered sequence. Each item is wrapped in a
	// fresh adapter; slice order is the sequence's original order.
	VisitSequence(items []Value)

	// VisitMapping reports a string-keyed mapping. Entries arrive in
	// ascending key order; see Entry.
	VisitMapping(entries []Entry)
}

// Value is a structured value that can be asked to report its variant and
// content to a Visitor. It is the capability a logging backend consumes
// without knowing the value's concrete origin.
type Value interface {
	Visit(v Visitor)
}

// Entry is one key/value pair of a visited mapping.
type Entry struct {
	Key   string
	Value Value
}

// AsInterface reconstructs a native Go value from a Value's visitor walk.
// The result uses the decoded-JSON shapes: nil, bool, uint64, int64,
// float64, string, []any, and map[string]any. It is the inverse of Wrap up
// to the documented number policy.
func AsInterface(v Value) any {
	if v == nil {
		return nil
	}
	var r rebuildVisitor
	v.Visit(&r)
	return r.out
}

// rebuildVisitor materializes a visitor walk back into native Go values.
type rebuildVisitor struct {
	out any
}

func (r *rebuildVisitor) VisitNil()              { r.out = nil }
func (r *rebuildVisitor) VisitBool(b bool)       { r.out = b }
func (r *rebuildVisitor) VisitInt64(n int64)     { r.out = n }
func (r *rebuildVisitor) VisitUint64(n uint64)   { r.out = n }
func (r *rebuildVisitor) VisitFloat64(f float64) { r.out = f }
func (r *rebuildVisitor) VisitString(s string)   { r.out = s }

func (r *rebuildVisitor) VisitSequence(items []Value) {
	seq := make([]any, len(items))
	for i, item := range items {
		seq[i] = AsInterface(item)
	}
	r.out = seq
}

func (r *rebuildVisitor) VisitMapping(entries []Entry) {
	m := make(map[string]any, len(entries))
	for _, e := range entries {
		m[e.Key] = AsInterface(e.Value)
	}
	r.out = m
}

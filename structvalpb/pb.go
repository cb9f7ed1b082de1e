// Package structvalpb adapts protobuf Struct values (the
// google.protobuf.Struct JSON value model) to structval values, so
// documents arriving through protobuf APIs log as structure too.
package structvalpb

import (
	"slices"

	"github.com/pjscruggs/structval"
	"google.golang.org/protobuf/types/known/structpb"
)

// Value adapts one structpb.Value. A nil message or a value with no kind
// set visits as null. Numbers always visit as float64: the proto3 Struct
// model carries every number as a double.
func Value(v *structpb.Value) structval.Value {
	return pbValue{v: v}
}

// Struct adapts a structpb.Struct. It visits as a mapping in ascending key
// order; a nil message visits as null.
func Struct(s *structpb.Struct) structval.Value {
	return pbStruct{s: s}
}

// List adapts a structpb.ListValue. It visits as a sequence; a nil message
// visits as null.
func List(l *structpb.ListValue) structval.Value {
	return pbList{l: l}
}

type pbValue struct {
	v *structpb.Value
}

func (p pbValue) Visit(vis structval.Visitor) {
	switch k := p.v.GetKind().(type) {
	case *structpb.Value_NullValue:
		vis.VisitNil()
	case *structpb.Value_BoolValue:
		vis.VisitBool(k.BoolValue)
	case *structpb.Value_NumberValue:
		vis.VisitFloat64(k.NumberValue)
	case *structpb.Value_StringValue:
		vis.VisitString(k.StringValue)
	case *structpb.Value_ListValue:
		pbList{l: k.ListValue}.Visit(vis)
	case *structpb.Value_StructValue:
		pbStruct{s: k.StructValue}.Visit(vis)
	default:
		vis.VisitNil()
	}
}

type pbStruct struct {
	s *structpb.Struct
}

func (p pbStruct) Visit(vis structval.Visitor) {
	if p.s == nil {
		vis.VisitNil()
		return
	}

	fields := p.s.GetFields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	entries := make([]structval.Entry, len(keys))
	for i, k := range keys {
		entries[i] = structval.Entry{Key: k, Value: pbValue{v: fields[k]}}
	}
	vis.VisitMapping(entries)
}

type pbList struct {
	l *structpb.ListValue
}

func (p pbList) Visit(vis structval.Visitor) {
	if p.l == nil {
		vis.VisitNil()
		return
	}

	values := p.l.GetValues()
	items := make([]structval.Value, len(values))
	for i, v := range values {
		items[i] = pbValue{v: v}
	}
	vis.VisitSequence(items)
}

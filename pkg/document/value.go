// SPDX-License-Identifier: MPL-2.0

package document

import (
	"strconv"
)

const (
	// KindNull is an explicit null, or a CUE value that is not concrete.
	KindNull Kind = iota
	// KindBool is a boolean.
	KindBool
	// KindNumber is an integer or floating-point number.
	KindNumber
	// KindString is a string.
	KindString
	// KindList is an ordered sequence.
	KindList
	// KindObject is an ordered set of key/value fields.
	KindObject
)

type (
	// Kind classifies a Value.
	Kind int

	// Value is one node of a decoded document.
	Value struct {
		Kind Kind
		// Bool holds the value of a KindBool node.
		Bool bool
		// Text holds the string of a KindString node, or the literal
		// spelling of a KindNumber node.
		Text string
		// Items holds the elements of a KindList node.
		Items []Value
		// Fields holds the members of a KindObject node in source order.
		// A key may appear more than once.
		Fields []Field
	}

	// Field is one key/value member of an object.
	Field struct {
		Key   string
		Value Value
		// Line is the 1-based source line of the key, or 0 when unknown.
		Line int
	}
)

// String returns a lower-case name for the kind, as used in messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Null returns a null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Number returns a number value from its literal spelling (e.g. "42", "1.5e3").
func Number(lit string) Value { return Value{Kind: KindNumber, Text: lit} }

// List returns a list value.
func List(items ...Value) Value { return Value{Kind: KindList, Items: items} }

// Object returns an object value with fields in the given order.
func Object(fields ...Field) Value { return Value{Kind: KindObject, Fields: fields} }

// F is shorthand for a Field without position information.
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Lookup returns the first field named key. The boolean is false when v is
// not an object or has no such field.
func (v Value) Lookup(key string) (Value, bool) {
	if f, ok := v.Field(key); ok {
		return f.Value, true
	}
	return Value{}, false
}

// Field returns the first field named key, including its position.
func (v Value) Field(key string) (Field, bool) {
	if v.Kind != KindObject {
		return Field{}, false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys returns the object's keys in source order, duplicates included.
func (v Value) Keys() []string {
	keys := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Duplicates returns every field whose key already appeared earlier in the
// object, in source order.
func (v Value) Duplicates() []Field {
	seen := make(map[string]bool, len(v.Fields))
	var dups []Field
	for _, f := range v.Fields {
		if seen[f.Key] {
			dups = append(dups, f)
			continue
		}
		seen[f.Key] = true
	}
	return dups
}

// Interface converts v to plain Go values: nil, bool, int64, float64, string,
// []any and map[string]any. For repeated keys the first occurrence wins.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		if i, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v.Text, 64); err == nil {
			return f
		}
		return v.Text
	case KindString:
		return v.Text
	case KindList:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			if _, exists := out[f.Key]; !exists {
				out[f.Key] = f.Value.Interface()
			}
		}
		return out
	default:
		return nil
	}
}

package finmemo

import (
	"reflect"
	"strings"
)

// Kind tags a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindSeq
	KindMap
)

// Value is a tagged tree used for deep presence tests. Payload sections are
// converted with ValueOf.
type Value struct {
	Kind   Kind
	String string
	Seq    []Value
	Map    map[string]Value
}

// String returns a string leaf.
func String(s string) Value { return Value{Kind: KindString, String: s} }

// Number returns a numeric leaf. Numbers are always present, zero included.
func Number() Value { return Value{Kind: KindNumber} }

// Seq returns an ordered sequence.
func Seq(items ...Value) Value { return Value{Kind: KindSeq, Seq: items} }

// Map returns a keyed group.
func Map(fields map[string]Value) Value { return Value{Kind: KindMap, Map: fields} }

// Present reports whether v holds at least one non-blank leaf. Strings count
// when they contain a non-whitespace rune, numbers always count, sequences
// and maps count when any descendant does.
func Present(v Value) bool {
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.String) != ""
	case KindNumber:
		return true
	case KindSeq:
		for _, item := range v.Seq {
			if Present(item) {
				return true
			}
		}
	case KindMap:
		for _, field := range v.Map {
			if Present(field) {
				return true
			}
		}
	}
	return false
}

// HasAnyValue reports whether v, or anything nested in it, is present.
// It is the presence helper handed to the body template.
func HasAnyValue(v any) bool {
	return Present(ValueOf(v))
}

// ValueOf converts Go values into a Value tree: strings (any string kind,
// Text and template.URL included), numbers, slices, arrays, maps with string keys, structs
// (exported fields) and pointers. Booleans, nil and everything else are null.
func ValueOf(v any) Value {
	switch val := v.(type) {
	case nil:
		return Value{}
	case Value:
		return val
	case Text:
		return String(string(val))
	case string:
		return String(val)
	}
	return valueOf(reflect.ValueOf(v))
}

func valueOf(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return Value{}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}
		}
		return valueOf(rv.Elem())
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number()
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = valueOf(rv.Index(i))
		}
		return Seq(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}
		}
		fields := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fields[iter.Key().String()] = valueOf(iter.Value())
		}
		return Map(fields)
	case reflect.Struct:
		t := rv.Type()
		fields := make(map[string]Value, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			fields[t.Field(i).Name] = valueOf(rv.Field(i))
		}
		return Map(fields)
	}
	return Value{}
}

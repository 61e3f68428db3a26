package ast

import (
	"reflect"
	"strings"

	"github.com/bsharp-lang/bsharp/pkg/span"
)

// EncodeJSON converts n into a tree of maps and slices ready for
// encoding/json: every node becomes {"kind": <concrete type name>,
// <snake_case field>: <value>, ...}, children encoded recursively in
// source order. When spans is non-nil, each node that has a recorded
// span additionally carries {"span": {"start": s, "end": e}} with its
// half-open byte range.
//
// The encoding is driven by reflection over the node structs rather than
// a per-variant MarshalJSON method, for the same reason traversal is
// driven by the single Children primitive: one implementation covers
// every variant, and adding a node kind never requires touching this
// file.
func EncodeJSON(n Node, spans *span.Table) any {
	return encodeValue(reflect.ValueOf(n), spans)
}

func encodeValue(v reflect.Value, spans *span.Table) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Interface {
			return encodeValue(v.Elem(), spans)
		}
		if v.Elem().Kind() == reflect.Struct {
			return encodeStruct(v, spans)
		}
		return encodeValue(v.Elem(), spans)

	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, encodeValue(v.Index(i), spans))
		}
		return out

	case reflect.Struct:
		if v.CanAddr() {
			return encodeStruct(v.Addr(), spans)
		}
		pv := reflect.New(v.Type())
		pv.Elem().Set(v)
		return encodeStruct(pv, spans)

	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return nil
	}
}

// encodeStruct encodes the struct behind pointer value pv as an object.
// The embedded Base field is folded into an optional "span" entry rather
// than serialized as a field of its own.
func encodeStruct(pv reflect.Value, spans *span.Table) any {
	sv := pv.Elem()
	st := sv.Type()

	obj := map[string]any{"kind": st.Name()}

	if spans != nil {
		if n, ok := pv.Interface().(Node); ok {
			if sp, found := spans.Lookup(n.ID()); found {
				obj["span"] = map[string]any{
					"start": sp.Bytes.Start,
					"end":   sp.Bytes.End,
				}
			}
		}
	}

	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() || (f.Anonymous && f.Type == reflect.TypeOf(Base{})) {
			continue
		}
		fv := sv.Field(i)
		if isEmpty(fv) {
			continue
		}
		key := snakeCase(f.Name)
		if _, taken := obj[key]; taken {
			// a node's own Kind field must not clobber the type
			// discriminator: LiteralExpr.Kind becomes literal_expr_kind
			key = snakeCase(st.Name()) + "_" + key
		}
		obj[key] = encodeValue(fv, spans)
	}
	return obj
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	case reflect.String:
		return v.Len() == 0
	}
	return false
}

// snakeCase converts a Go field name to a snake_case JSON key, keeping
// initialisms together: "IsAsync" -> "is_async", "FQN" -> "fqn".
func snakeCase(name string) string {
	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			prevLower := i > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if i > 0 && (prevLower || nextLower) {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

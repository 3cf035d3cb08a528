package serde

import (
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-schemabridge/pkg/engine"
)

// Serialize runs the framework's native per-field serialization over a plain
// mapping: each descriptor formats its value for the wire and writes it
// under its data key. Fields absent from the mapping fall back to their dump
// default or are skipped. Load-only fields never appear in output.
func Serialize(order []string, fields map[string]*Field, data map[string]any) map[string]any {
	out := make(map[string]any, len(order))
	for _, name := range order {
		field, ok := fields[name]
		if !ok || field.LoadOnly {
			continue
		}
		value, present := data[name]
		if !present {
			if IsMissing(field.DumpDefault) {
				continue
			}
			value = field.DumpDefault
		}
		key := name
		if field.DataKey != "" {
			key = field.DataKey
		}
		out[key] = SerializeValue(field, value)
	}
	return out
}

// SerializeValue formats one value according to its field descriptor.
func SerializeValue(field *Field, value any) any {
	if value == nil || field == nil {
		return value
	}

	switch field.Kind {
	case FieldDateTime:
		if ts, ok := value.(time.Time); ok {
			return ts.Format(time.RFC3339)
		}
		return value
	case FieldUUID, FieldEmail, FieldURL, FieldIP:
		if s, ok := value.(string); ok {
			return s
		}
		if str, ok := value.(fmt.Stringer); ok {
			return str.String()
		}
		return fmt.Sprint(value)
	case FieldList:
		return serializeSequence(field.Inner, value)
	case FieldTuple:
		return serializeTuple(field.TupleFields, value)
	case FieldDict:
		return serializeMapping(field.ValueField, value)
	case FieldNested:
		return serializeNested(field.Nested, value)
	case FieldEnum:
		if str, ok := value.(fmt.Stringer); ok {
			return str.String()
		}
		return value
	default:
		return value
	}
}

func serializeSequence(inner *Field, value any) any {
	items, ok := asSlice(value)
	if !ok {
		return value
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = SerializeValue(inner, item)
	}
	return out
}

func serializeTuple(fields []*Field, value any) any {
	items, ok := asSlice(value)
	if !ok {
		return value
	}
	out := make([]any, len(items))
	for i, item := range items {
		var field *Field
		if i < len(fields) {
			field = fields[i]
		}
		out[i] = SerializeValue(field, item)
	}
	return out
}

func serializeMapping(valueField *Field, value any) any {
	entries, ok := asStringMap(value)
	if !ok {
		return value
	}
	out := make(map[string]any, len(entries))
	for key, item := range entries {
		out[key] = SerializeValue(valueField, item)
	}
	return out
}

func serializeNested(nested NestedSchema, value any) any {
	if nested == nil {
		return value
	}
	var data map[string]any
	switch v := value.(type) {
	case map[string]any:
		data = v
	case engine.Instance:
		data = v.Fields()
	default:
		wrapper, ok := nested.(interface {
			WrapNested(obj any) (engine.Instance, bool)
		})
		if !ok {
			return value
		}
		inst, ok := wrapper.WrapNested(value)
		if !ok {
			return value
		}
		data = inst.Fields()
	}
	return Serialize(nested.FieldOrder(), nested.Fields(), data)
}

func asSlice(value any) ([]any, bool) {
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func asStringMap(value any) (map[string]any, bool) {
	if entries, ok := value.(map[string]any); ok {
		return entries, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}

// Package jsonschemagen exports synthesized schema classes as JSON Schema
// documents (draft 2020-12), the companion to the OpenAPI exporter for
// tooling that speaks bare JSON Schema.
package jsonschemagen

import (
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

const dialect = "https://json-schema.org/draft/2020-12/schema"

// Export renders a schema class as a standalone JSON Schema document.
func Export(class serde.NestedSchema) map[string]any {
	doc := object(class)
	doc["$schema"] = dialect
	return doc
}

func object(class serde.NestedSchema) map[string]any {
	properties := map[string]any{}
	var required []string

	fields := class.Fields()
	for _, name := range class.FieldOrder() {
		field, ok := fields[name]
		if !ok {
			continue
		}
		key := name
		if field.DataKey != "" {
			key = field.DataKey
		}
		properties[key] = property(field)
		if field.Required && !field.DumpOnly {
			required = append(required, key)
		}
	}

	doc := map[string]any{
		"title":      class.Name(),
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func property(field *serde.Field) map[string]any {
	schema := typeSchema(field)
	if field.AllowNone {
		// Nullable renders as a type union with null.
		if t, ok := schema["type"]; ok {
			schema["type"] = []any{t, "null"}
		}
	}
	if !serde.IsMissing(field.LoadDefault) {
		schema["default"] = field.LoadDefault
	}
	if field.DumpOnly {
		schema["readOnly"] = true
	}
	if field.LoadOnly {
		schema["writeOnly"] = true
	}
	return schema
}

func typeSchema(field *serde.Field) map[string]any {
	if field == nil {
		return map[string]any{}
	}
	switch field.Kind {
	case serde.FieldString:
		return map[string]any{"type": "string"}
	case serde.FieldInteger:
		return map[string]any{"type": "integer"}
	case serde.FieldFloat:
		return map[string]any{"type": "number"}
	case serde.FieldBoolean:
		return map[string]any{"type": "boolean"}
	case serde.FieldDateTime:
		return map[string]any{"type": "string", "format": "date-time"}
	case serde.FieldUUID:
		return map[string]any{"type": "string", "format": "uuid"}
	case serde.FieldEmail:
		return map[string]any{"type": "string", "format": "email"}
	case serde.FieldURL:
		return map[string]any{"type": "string", "format": "uri"}
	case serde.FieldIP:
		return map[string]any{"type": "string", "format": "ip"}
	case serde.FieldEnum:
		schema := map[string]any{"type": "string"}
		if field.Enum != nil {
			schema["enum"] = append([]any(nil), field.Enum.Values...)
		}
		return schema
	case serde.FieldList:
		return map[string]any{"type": "array", "items": typeSchema(field.Inner)}
	case serde.FieldTuple:
		items := make([]any, len(field.TupleFields))
		for i, elem := range field.TupleFields {
			items[i] = typeSchema(elem)
		}
		return map[string]any{"type": "array", "prefixItems": items}
	case serde.FieldDict:
		return map[string]any{"type": "object", "additionalProperties": typeSchema(field.ValueField)}
	case serde.FieldNested:
		if field.Nested != nil {
			return object(field.Nested)
		}
		return map[string]any{"type": "object"}
	default:
		return map[string]any{}
	}
}

// Package openapigen exports synthesized schema classes as OpenAPI 3 schema
// objects, so model-derived schemas can feed documentation and client
// generation pipelines directly.
package openapigen

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// Schema renders a schema class as an OpenAPI object schema. Field order is
// preserved in the required list; wire names (data keys) are used as property
// names. Load-only fields surface as writeOnly, dump-only as readOnly.
func Schema(class serde.NestedSchema) *openapi3.Schema {
	obj := openapi3.NewObjectSchema()
	obj.Title = class.Name()

	fields := class.Fields()
	for _, name := range class.FieldOrder() {
		field, ok := fields[name]
		if !ok {
			continue
		}
		prop := fieldSchema(field)
		prop.Nullable = field.AllowNone
		prop.ReadOnly = field.DumpOnly
		prop.WriteOnly = field.LoadOnly
		if !serde.IsMissing(field.LoadDefault) {
			prop.Default = field.LoadDefault
		}

		key := name
		if field.DataKey != "" {
			key = field.DataKey
		}
		obj.WithPropertyRef(key, openapi3.NewSchemaRef("", prop))
		if field.Required && !field.DumpOnly {
			obj.Required = append(obj.Required, key)
		}
	}
	return obj
}

// SchemaRef wraps Schema in an inline reference, the shape component maps
// expect.
func SchemaRef(class serde.NestedSchema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", Schema(class))
}

func fieldSchema(field *serde.Field) *openapi3.Schema {
	if field == nil {
		return openapi3.NewSchema()
	}
	switch field.Kind {
	case serde.FieldString:
		return openapi3.NewStringSchema()
	case serde.FieldInteger:
		return openapi3.NewIntegerSchema()
	case serde.FieldFloat:
		return openapi3.NewFloat64Schema()
	case serde.FieldBoolean:
		return openapi3.NewBoolSchema()
	case serde.FieldDateTime:
		return openapi3.NewDateTimeSchema()
	case serde.FieldUUID:
		return openapi3.NewUUIDSchema()
	case serde.FieldEmail:
		return openapi3.NewStringSchema().WithFormat("email")
	case serde.FieldURL:
		return openapi3.NewStringSchema().WithFormat("uri")
	case serde.FieldIP:
		return openapi3.NewStringSchema().WithFormat("ip")
	case serde.FieldEnum:
		schema := openapi3.NewStringSchema()
		if field.Enum != nil {
			schema.Enum = append(schema.Enum, field.Enum.Values...)
		}
		return schema
	case serde.FieldList:
		return openapi3.NewArraySchema().WithItems(fieldSchema(field.Inner))
	case serde.FieldTuple:
		schema := openapi3.NewArraySchema().WithItems(openapi3.NewSchema())
		n := uint64(len(field.TupleFields))
		schema.MinItems = n
		schema.MaxItems = &n
		return schema
	case serde.FieldDict:
		return openapi3.NewObjectSchema().WithAdditionalProperties(fieldSchema(field.ValueField))
	case serde.FieldNested:
		if field.Nested != nil {
			return Schema(field.Nested)
		}
		return openapi3.NewObjectSchema()
	default:
		return openapi3.NewSchema()
	}
}

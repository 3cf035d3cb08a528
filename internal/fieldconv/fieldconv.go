// Package fieldconv turns one engine field descriptor into one fully
// configured serialization field: required/optional status, load and dump
// defaults, wire-name overrides, and nullability. It is the single
// conversion path shared by class construction, the synthesis factory, and
// instance-level setup, so the three can never disagree.
package fieldconv

import (
	"github.com/goliatone/go-schemabridge/internal/typemap"
	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// Convert builds the serialization field for one declared model field.
func Convert(meta engine.FieldMeta, mapper *typemap.Mapper) *serde.Field {
	field := mapper.Map(meta.Type)

	field.LoadDefault = serde.Missing
	field.DumpDefault = serde.Missing

	switch {
	case !engine.IsUndefined(meta.Default):
		field.Required = false
		field.LoadDefault = meta.Default
		field.DumpDefault = meta.Default
	case meta.DefaultFactory != nil:
		// Factories run lazily, once per load that needs them.
		field.Required = false
		field.DefaultFactory = meta.DefaultFactory
	default:
		// Optional fields without a default accept absence as none.
		field.Required = !meta.Type.IsOptional()
	}

	if meta.Alias != "" {
		field.DataKey = meta.Alias
	}
	if meta.Type.IsOptional() {
		field.AllowNone = true
	}

	return field
}

// ConvertComputed builds the read-only serialization field for a computed
// property. Required/default handling does not apply: computed fields never
// accept input.
func ConvertComputed(meta engine.ComputedMeta, mapper *typemap.Mapper) *serde.Field {
	field := mapper.Map(meta.Return)
	field.DumpOnly = true
	field.LoadDefault = serde.Missing
	field.DumpDefault = serde.Missing
	return field
}

// Package typemap maps declared type expressions onto serialization field
// descriptors. It is deliberately infallible: any expression the validation
// engine accepts maps to *some* descriptor, degrading to the permissive raw
// kind rather than rejecting — a type this layer cannot describe statically
// is still validated correctly by the engine at load time.
package typemap

import (
	"strings"

	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// NestedBuilder synthesizes schemas for nested-model fields. BuildNested
// reports ok=false when the model is already mid-synthesis (a self-reference
// or mutual cycle); the mapper then degrades that edge to a raw field so
// synthesis terminates.
type NestedBuilder interface {
	BuildNested(model engine.Model) (serde.NestedSchema, bool)
}

// Mapper resolves type expressions to field descriptors.
type Mapper struct {
	nested NestedBuilder
}

// New builds a Mapper. A nil builder is allowed; nested models then always
// degrade to raw fields.
func New(nested NestedBuilder) *Mapper {
	return &Mapper{nested: nested}
}

// Map resolves one type expression. The resolution order mirrors the
// framework's own field selection, first match wins.
func (m *Mapper) Map(expr engine.TypeExpr) *serde.Field {
	switch expr.Kind {
	case engine.KindNone:
		return &serde.Field{Kind: serde.FieldRaw, AllowNone: true}

	case engine.KindLiteral:
		// The engine enforces the literal constraint; this layer only
		// needs to not reject it.
		return &serde.Field{Kind: serde.FieldRaw}

	case engine.KindUnion:
		branches := expr.NonNoneVariants()
		if len(branches) == 1 {
			field := m.Map(branches[0])
			if expr.IsOptional() {
				field.AllowNone = true
			}
			return field
		}
		// A true union has no single safe concrete kind.
		return &serde.Field{Kind: serde.FieldRaw, AllowNone: true}

	case engine.KindEnum:
		return &serde.Field{Kind: serde.FieldEnum, Enum: expr.Enum}

	case engine.KindModel:
		return m.mapModel(expr.Model)

	case engine.KindList, engine.KindSet:
		// Sets share the list representation: the wire format has no
		// native set type.
		inner := &serde.Field{Kind: serde.FieldRaw}
		if expr.Elem != nil {
			inner = m.Map(*expr.Elem)
		}
		return &serde.Field{Kind: serde.FieldList, Inner: inner}

	case engine.KindMap:
		key := &serde.Field{Kind: serde.FieldString}
		value := &serde.Field{Kind: serde.FieldRaw}
		if expr.Key != nil {
			key = m.Map(*expr.Key)
		}
		if expr.Value != nil {
			value = m.Map(*expr.Value)
		}
		return &serde.Field{Kind: serde.FieldDict, KeyField: key, ValueField: value}

	case engine.KindTuple:
		if len(expr.Variants) > 0 {
			elems := make([]*serde.Field, len(expr.Variants))
			for i, variant := range expr.Variants {
				elems[i] = m.Map(variant)
			}
			return &serde.Field{Kind: serde.FieldTuple, TupleFields: elems}
		}
		return &serde.Field{Kind: serde.FieldList, Inner: &serde.Field{Kind: serde.FieldRaw}}

	case engine.KindNamed:
		if kind, ok := matchNamed(expr.Name); ok {
			return &serde.Field{Kind: kind}
		}
		if kind, ok := serde.BaseTypeMapping[expr.Underlying]; ok {
			return &serde.Field{Kind: kind}
		}
		return &serde.Field{Kind: serde.FieldRaw}

	default:
		if kind, ok := serde.BaseTypeMapping[expr.Kind]; ok {
			return &serde.Field{Kind: kind}
		}
		// Unknown kinds degrade rather than fail.
		return &serde.Field{Kind: serde.FieldRaw}
	}
}

func (m *Mapper) mapModel(model engine.Model) *serde.Field {
	if model == nil || m.nested == nil {
		return &serde.Field{Kind: serde.FieldRaw}
	}
	nested, ok := m.nested.BuildNested(model)
	if !ok {
		// Cycle: degrade this edge only, the engine still enforces the
		// recursive structure.
		return &serde.Field{Kind: serde.FieldRaw}
	}
	return &serde.Field{Kind: serde.FieldNested, Nested: nested}
}

// matchNamed recognizes special string subtypes by declared type name.
func matchNamed(name string) (serde.FieldKind, bool) {
	switch {
	case strings.Contains(name, "Email"):
		return serde.FieldEmail, true
	case strings.Contains(name, "Url"), strings.Contains(name, "URL"):
		return serde.FieldURL, true
	case strings.Contains(name, "UUID"):
		return serde.FieldUUID, true
	case strings.Contains(name, "IP"):
		return serde.FieldIP, true
	}
	return serde.FieldRaw, false
}

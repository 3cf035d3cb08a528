// Package schemabridge makes validation-engine models consumable by the
// serialization framework's ecosystem: it synthesizes schema classes from
// model descriptors, orchestrates load/dump pipelines that keep the engine as
// the validation authority, and translates engine failures into the
// framework's error shape.
//
// The root package re-exports the common surface; pkg/bridge, pkg/engine,
// pkg/serde and pkg/reflectengine hold the full APIs.
package schemabridge

import (
	"github.com/goliatone/go-schemabridge/pkg/bridge"
	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/reflectengine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// Class is a synthesized schema class bound to a model.
type Class = bridge.Class

// Schema is one call-site instance of a class.
type Schema = bridge.Schema

// Error is the bridge's validation failure with valid-data tracking.
type Error = bridge.Error

// PartialMode controls which required fields may be absent during a load.
type PartialMode = bridge.PartialMode

// Field describes one field's wire shape.
type Field = serde.Field

// Context is the key-value bag hooks and validators receive.
type Context = serde.Context

// Unknown selects the policy for undeclared input keys.
type Unknown = serde.Unknown

// ValidationError is the framework's failure contract.
type ValidationError = serde.ValidationError

// Model is the engine-side handle a schema class binds to.
type Model = engine.Model

// Unknown-field policies, re-exported for call sites that only import the
// root package.
const (
	Raise          = serde.Raise
	ExcludeUnknown = serde.Exclude
	IncludeUnknown = serde.Include
)

// SchemaFor builds (or returns the cached) schema class for a model.
func SchemaFor(model engine.Model, opts ...bridge.ClassOption) *bridge.Class {
	return bridge.SchemaFor(model, opts...)
}

// NewClass constructs a schema class without the cache.
func NewClass(opts ...bridge.ClassOption) *bridge.Class {
	return bridge.NewClass(opts...)
}

// Attach synthesizes the class for a model and returns a default schema
// instance, the shortest path from a model to a working schema.
func Attach(model engine.Model, opts ...bridge.ClassOption) *bridge.Schema {
	return bridge.SchemaFor(model, opts...).New()
}

// ModelFor derives the reflection-backed model for a struct type.
func ModelFor[T any]() *reflectengine.Model {
	return reflectengine.ModelFor[T]()
}

// PartialAll allows every field to be absent during a load.
func PartialAll() PartialMode { return bridge.PartialAll() }

// PartialOf allows only the named fields to be absent during a load.
func PartialOf(fields ...string) PartialMode { return bridge.PartialOf(fields...) }

package engine

// undefined is the sentinel type behind Undefined.
type undefined struct{}

func (undefined) String() string { return "<undefined>" }

// Undefined marks the absence of a static default on a field descriptor.
// It is distinct from a nil default, which is a legitimate value.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// FieldMeta describes one declared field of a model. The bridge reads it but
// never mutates it.
type FieldMeta struct {
	Name string

	// Type is the declared type expression.
	Type TypeExpr

	// Default is the static default value, or Undefined when the field has
	// none. A nil Default is a real default of nil.
	Default any

	// DefaultFactory produces a fresh default per load. Nil when absent.
	// Mutually exclusive with a static Default in practice; when both are
	// set the static default wins.
	DefaultFactory func() any

	// Alias is the wire-name override, empty when the field name is used.
	Alias string

	// ErrorMessages optionally substitutes engine messages per error type.
	// The "default" key applies when no specific type matches.
	ErrorMessages map[string]string
}

// HasDefault reports whether the field carries a static default or a factory.
func (m FieldMeta) HasDefault() bool {
	return !IsUndefined(m.Default) || m.DefaultFactory != nil
}

// ComputedMeta describes one computed (derived, read-only) property.
type ComputedMeta struct {
	Name   string
	Return TypeExpr
}

// Descriptor is the ordered field inventory of a model.
type Descriptor struct {
	// Name is the model's declared name, used for synthesized schema names
	// and error reporting.
	Name string

	// Fields lists declared fields in declaration order.
	Fields []FieldMeta

	// Computed lists derived properties in declaration order.
	Computed []ComputedMeta
}

// Field looks up a declared field by name.
func (d *Descriptor) Field(name string) (FieldMeta, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldMeta{}, false
}

// FieldNames returns declared field names in declaration order.
func (d *Descriptor) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// Model is the engine-side handle for a model class. Implementations must be
// comparable (pointer receivers) because the bridge uses Model values as
// cache keys.
type Model interface {
	// Descriptor returns the field inventory. The result is treated as
	// immutable for the process lifetime.
	Descriptor() *Descriptor

	// Validate runs full validation and coercion over the raw mapping.
	// On failure the returned error is a *Failure carrying every error
	// detail, not just the first.
	Validate(data map[string]any) (Instance, error)

	// Construct builds an instance without validation from already-vetted
	// values, recording which fields were explicitly provided. It backs
	// partial loads, where missing fields are filled with defaults or nil.
	Construct(values map[string]any, fieldsSet []string) Instance
}

// Instance is a typed model instance produced by Validate or Construct.
type Instance interface {
	// ModelRef returns the owning model handle.
	ModelRef() Model

	// Get returns the current value of a declared or computed field.
	Get(name string) (any, bool)

	// Fields returns the declared field values attribute by attribute,
	// the engine's native dump.
	Fields() map[string]any

	// FieldsSet lists the fields explicitly assigned at construction, as
	// opposed to filled from defaults.
	FieldsSet() []string
}

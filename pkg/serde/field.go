package serde

import (
	"github.com/goliatone/go-schemabridge/pkg/engine"
)

// FieldKind enumerates the wire shapes a serialization field can take.
type FieldKind int

const (
	// FieldRaw passes values through untouched. It is the permissive
	// fallback: the validation engine remains the authority, this layer
	// only degrades its static description.
	FieldRaw FieldKind = iota
	FieldString
	FieldInteger
	FieldFloat
	FieldBoolean
	FieldDateTime
	FieldList
	FieldDict
	FieldTuple
	FieldEnum
	FieldNested
	FieldEmail
	FieldURL
	FieldIP
	FieldUUID
)

var fieldKindNames = map[FieldKind]string{
	FieldRaw:      "raw",
	FieldString:   "string",
	FieldInteger:  "integer",
	FieldFloat:    "float",
	FieldBoolean:  "boolean",
	FieldDateTime: "datetime",
	FieldList:     "list",
	FieldDict:     "dict",
	FieldTuple:    "tuple",
	FieldEnum:     "enum",
	FieldNested:   "nested",
	FieldEmail:    "email",
	FieldURL:      "url",
	FieldIP:       "ip",
	FieldUUID:     "uuid",
}

func (k FieldKind) String() string {
	if name, ok := fieldKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// missing is the sentinel type behind Missing.
type missing struct{}

func (missing) String() string { return "<missing>" }

// Missing marks the absence of a load/dump default on a field descriptor,
// distinguishable from a nil default.
var Missing any = missing{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

// NestedSchema is the minimal view of a synthesized schema class a nested
// field needs: an ordered descriptor set and a display name. The bridge's
// Class type satisfies it.
type NestedSchema interface {
	FieldOrder() []string
	Fields() map[string]*Field
	Name() string
}

// Field is the bridge's description of one field's wire shape. Instances are
// created once per (model, field, filter options) during synthesis and are
// immutable afterwards.
type Field struct {
	Kind FieldKind

	// Required is true when the field has no default of any sort.
	Required bool

	// LoadDefault is the value used when input omits the field, Missing
	// when none exists. When DefaultFactory is set it is invoked lazily
	// per load instead.
	LoadDefault    any
	DefaultFactory func() any

	// DumpDefault is used on output when the source omits the field.
	DumpDefault any

	// DataKey overrides the wire name; empty means the field name is used.
	DataKey string

	// AllowNone marks the field nullable.
	AllowNone bool

	// DumpOnly fields (computed/derived) never accept input during load.
	DumpOnly bool
	LoadOnly bool

	// Inner is the element descriptor for list fields.
	Inner *Field

	// KeyField and ValueField describe dict fields.
	KeyField   *Field
	ValueField *Field

	// TupleFields describe fixed-arity tuple fields, in order.
	TupleFields []*Field

	// Enum binds an enum field to its enumeration.
	Enum *engine.EnumType

	// Nested is the synthesized schema for nested-model fields.
	Nested NestedSchema
}

// Clone returns a shallow copy. Synthesis uses it when instance options need
// a per-schema variant (load_only/dump_only) without mutating the class copy.
func (f *Field) Clone() *Field {
	dup := *f
	return &dup
}

// BaseTypeMapping is the framework's built-in scalar type→field table. The
// type mapper delegates here for kinds it has no special handling for, so
// the two layers cannot drift apart.
var BaseTypeMapping = map[engine.Kind]FieldKind{
	engine.KindString: FieldString,
	engine.KindInt:    FieldInteger,
	engine.KindFloat:  FieldFloat,
	engine.KindBool:   FieldBoolean,
	engine.KindBytes:  FieldString,
	engine.KindTime:   FieldDateTime,
	engine.KindAny:    FieldRaw,
}

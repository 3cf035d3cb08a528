package engine

// Kind enumerates the shapes a declared field type can take. It is the
// canonical type IR consumed by the bridge's type mapper; engines translate
// whatever their host representation is (reflect.Type, schema documents)
// into this algebra.
type Kind int

const (
	KindInvalid Kind = iota
	// KindAny is the permissive catch-all; the engine still validates it.
	KindAny
	// KindNone is the none/null unit type, usually appearing as a union
	// branch to signal optionality.
	KindNone
	KindString
	KindInt
	KindFloat
	KindBool
	KindBytes
	KindTime
	// KindLiteral constrains a value to one of a fixed set of literals.
	KindLiteral
	// KindUnion is a set of alternative branches (Variants).
	KindUnion
	// KindEnum is a named enumeration (Enum).
	KindEnum
	// KindModel is a nested model reference (Model).
	KindModel
	KindList
	KindMap
	KindSet
	// KindTuple is a fixed-arity heterogeneous sequence (Variants).
	KindTuple
	// KindNamed is a named scalar type; Name/Module feed the special
	// string-subtype matching (email/URL/IP/UUID) and Underlying is the
	// base shape it degrades to when no pattern matches.
	KindNamed
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindAny:     "any",
	KindNone:    "none",
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindBool:    "bool",
	KindBytes:   "bytes",
	KindTime:    "time",
	KindLiteral: "literal",
	KindUnion:   "union",
	KindEnum:    "enum",
	KindModel:   "model",
	KindList:    "list",
	KindMap:     "map",
	KindSet:     "set",
	KindTuple:   "tuple",
	KindNamed:   "named",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// TypeExpr describes one declared field type. Only the fields relevant to
// Kind are populated; everything else stays zero.
type TypeExpr struct {
	Kind Kind

	// Elem is the element type for list/set expressions.
	Elem *TypeExpr

	// Key and Value describe map expressions. Untyped maps leave both nil
	// (string keys, permissive values are assumed downstream).
	Key   *TypeExpr
	Value *TypeExpr

	// Variants holds union branches or tuple element types, in order.
	Variants []TypeExpr

	// Literals holds the admissible values for KindLiteral.
	Literals []any

	// Enum points at the enumeration for KindEnum.
	Enum *EnumType

	// Model is the nested model handle for KindModel.
	Model Model

	// Name and Module identify a KindNamed scalar for pattern matching.
	Name   string
	Module string

	// Underlying is the base shape a KindNamed scalar degrades to.
	Underlying Kind
}

// EnumType names an enumeration and lists its admissible values in
// declaration order.
type EnumType struct {
	Name   string
	Values []any
}

// Optional wraps expr in a union with the none type, the shorthand engines
// use for nullable fields.
func Optional(expr TypeExpr) TypeExpr {
	return TypeExpr{Kind: KindUnion, Variants: []TypeExpr{expr, {Kind: KindNone}}}
}

// Scalar builds a bare TypeExpr for the given kind.
func Scalar(kind Kind) TypeExpr {
	return TypeExpr{Kind: kind}
}

// ListOf builds a list expression. A nil element yields an untyped list.
func ListOf(elem *TypeExpr) TypeExpr {
	return TypeExpr{Kind: KindList, Elem: elem}
}

// MapOf builds a map expression. Nil key/value yield an untyped map.
func MapOf(key, value *TypeExpr) TypeExpr {
	return TypeExpr{Kind: KindMap, Key: key, Value: value}
}

// Named builds a named-scalar expression with its degradation base.
func Named(name, module string, underlying Kind) TypeExpr {
	return TypeExpr{Kind: KindNamed, Name: name, Module: module, Underlying: underlying}
}

// IsOptional reports whether the expression admits none, either directly or
// through a union branch.
func (t TypeExpr) IsOptional() bool {
	if t.Kind == KindNone {
		return true
	}
	if t.Kind != KindUnion {
		return false
	}
	for _, branch := range t.Variants {
		if branch.Kind == KindNone {
			return true
		}
	}
	return false
}

// NonNoneVariants returns the union branches that are not the none type.
// Calling it on a non-union expression returns nil.
func (t TypeExpr) NonNoneVariants() []TypeExpr {
	if t.Kind != KindUnion {
		return nil
	}
	out := make([]TypeExpr, 0, len(t.Variants))
	for _, branch := range t.Variants {
		if branch.Kind != KindNone {
			out = append(out, branch)
		}
	}
	return out
}

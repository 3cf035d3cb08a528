package typemap

import (
	"testing"

	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

type stubModel struct {
	desc engine.Descriptor
}

func (s *stubModel) Descriptor() *engine.Descriptor { return &s.desc }
func (s *stubModel) Validate(map[string]any) (engine.Instance, error) {
	return nil, nil
}
func (s *stubModel) Construct(map[string]any, []string) engine.Instance { return nil }

type stubBuilder struct {
	schema serde.NestedSchema
	ok     bool
	calls  int
}

func (b *stubBuilder) BuildNested(engine.Model) (serde.NestedSchema, bool) {
	b.calls++
	return b.schema, b.ok
}

type stubSchema struct{}

func (stubSchema) FieldOrder() []string            { return nil }
func (stubSchema) Fields() map[string]*serde.Field { return nil }
func (stubSchema) Name() string                    { return "Stub" }

func TestMapResolution(t *testing.T) {
	mapper := New(nil)

	cases := []struct {
		name string
		expr engine.TypeExpr
		want serde.FieldKind
	}{
		{"string", engine.Scalar(engine.KindString), serde.FieldString},
		{"int", engine.Scalar(engine.KindInt), serde.FieldInteger},
		{"float", engine.Scalar(engine.KindFloat), serde.FieldFloat},
		{"bool", engine.Scalar(engine.KindBool), serde.FieldBoolean},
		{"bytes", engine.Scalar(engine.KindBytes), serde.FieldString},
		{"time", engine.Scalar(engine.KindTime), serde.FieldDateTime},
		{"any", engine.Scalar(engine.KindAny), serde.FieldRaw},
		{"literal", engine.TypeExpr{Kind: engine.KindLiteral, Literals: []any{"a", "b"}}, serde.FieldRaw},
		{"invalid degrades", engine.Scalar(engine.KindInvalid), serde.FieldRaw},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapper.Map(tc.expr)
			if got.Kind != tc.want {
				t.Fatalf("Map(%s) kind = %s, want %s", tc.name, got.Kind, tc.want)
			}
		})
	}
}

func TestMapNone(t *testing.T) {
	field := New(nil).Map(engine.Scalar(engine.KindNone))
	if field.Kind != serde.FieldRaw || !field.AllowNone {
		t.Fatalf("none should map to nullable raw, got kind=%s allowNone=%v", field.Kind, field.AllowNone)
	}
}

func TestMapOptionalSingleBranch(t *testing.T) {
	field := New(nil).Map(engine.Optional(engine.Scalar(engine.KindInt)))
	if field.Kind != serde.FieldInteger {
		t.Fatalf("optional int kind = %s, want integer", field.Kind)
	}
	if !field.AllowNone {
		t.Fatal("optional int should allow none")
	}
}

func TestMapHeterogeneousUnion(t *testing.T) {
	expr := engine.TypeExpr{Kind: engine.KindUnion, Variants: []engine.TypeExpr{
		engine.Scalar(engine.KindInt),
		engine.Scalar(engine.KindString),
	}}
	field := New(nil).Map(expr)
	if field.Kind != serde.FieldRaw {
		t.Fatalf("multi-branch union kind = %s, want raw", field.Kind)
	}
}

func TestMapEnum(t *testing.T) {
	enum := &engine.EnumType{Name: "Color", Values: []any{"red", "green"}}
	field := New(nil).Map(engine.TypeExpr{Kind: engine.KindEnum, Enum: enum})
	if field.Kind != serde.FieldEnum {
		t.Fatalf("enum kind = %s, want enum", field.Kind)
	}
	if field.Enum != enum {
		t.Fatal("enum reference not preserved")
	}
}

func TestMapListAndSet(t *testing.T) {
	elem := engine.Scalar(engine.KindString)
	for _, kind := range []engine.Kind{engine.KindList, engine.KindSet} {
		field := New(nil).Map(engine.TypeExpr{Kind: kind, Elem: &elem})
		if field.Kind != serde.FieldList {
			t.Fatalf("%s kind = %s, want list", kind, field.Kind)
		}
		if field.Inner == nil || field.Inner.Kind != serde.FieldString {
			t.Fatalf("%s inner = %+v, want string", kind, field.Inner)
		}
	}
}

func TestMapUntypedMap(t *testing.T) {
	field := New(nil).Map(engine.TypeExpr{Kind: engine.KindMap})
	if field.Kind != serde.FieldDict {
		t.Fatalf("map kind = %s, want dict", field.Kind)
	}
	if field.KeyField.Kind != serde.FieldString {
		t.Fatalf("untyped map key = %s, want string", field.KeyField.Kind)
	}
	if field.ValueField.Kind != serde.FieldRaw {
		t.Fatalf("untyped map value = %s, want raw", field.ValueField.Kind)
	}
}

func TestMapTuple(t *testing.T) {
	expr := engine.TypeExpr{Kind: engine.KindTuple, Variants: []engine.TypeExpr{
		engine.Scalar(engine.KindString),
		engine.Scalar(engine.KindInt),
	}}
	field := New(nil).Map(expr)
	if field.Kind != serde.FieldTuple {
		t.Fatalf("tuple kind = %s, want tuple", field.Kind)
	}
	if len(field.TupleFields) != 2 || field.TupleFields[1].Kind != serde.FieldInteger {
		t.Fatalf("tuple fields = %+v", field.TupleFields)
	}
}

func TestMapNamedSubtypes(t *testing.T) {
	cases := []struct {
		typeName string
		want     serde.FieldKind
	}{
		{"EmailStr", serde.FieldEmail},
		{"HttpUrl", serde.FieldURL},
		{"AnyURL", serde.FieldURL},
		{"UUID", serde.FieldUUID},
		{"IPvAnyAddress", serde.FieldIP},
	}
	mapper := New(nil)
	for _, tc := range cases {
		field := mapper.Map(engine.Named(tc.typeName, "", engine.KindString))
		if field.Kind != tc.want {
			t.Fatalf("named %q kind = %s, want %s", tc.typeName, field.Kind, tc.want)
		}
	}
}

func TestMapNamedFallsBackToUnderlying(t *testing.T) {
	field := New(nil).Map(engine.Named("SecretStr", "", engine.KindString))
	if field.Kind != serde.FieldString {
		t.Fatalf("named fallback kind = %s, want string", field.Kind)
	}
}

func TestMapModelUsesBuilder(t *testing.T) {
	builder := &stubBuilder{schema: stubSchema{}, ok: true}
	model := &stubModel{desc: engine.Descriptor{Name: "Sub"}}

	field := New(builder).Map(engine.TypeExpr{Kind: engine.KindModel, Model: model})
	if field.Kind != serde.FieldNested {
		t.Fatalf("model kind = %s, want nested", field.Kind)
	}
	if builder.calls != 1 {
		t.Fatalf("builder calls = %d, want 1", builder.calls)
	}
}

func TestMapModelCycleDegrades(t *testing.T) {
	builder := &stubBuilder{ok: false}
	model := &stubModel{desc: engine.Descriptor{Name: "Cyclic"}}

	field := New(builder).Map(engine.TypeExpr{Kind: engine.KindModel, Model: model})
	if field.Kind != serde.FieldRaw {
		t.Fatalf("cyclic model kind = %s, want raw", field.Kind)
	}
}

func TestMapModelWithoutBuilder(t *testing.T) {
	model := &stubModel{desc: engine.Descriptor{Name: "Sub"}}
	field := New(nil).Map(engine.TypeExpr{Kind: engine.KindModel, Model: model})
	if field.Kind != serde.FieldRaw {
		t.Fatalf("model without builder kind = %s, want raw", field.Kind)
	}
}

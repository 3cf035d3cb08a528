package fieldconv

import (
	"testing"

	"github.com/goliatone/go-schemabridge/internal/typemap"
	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

func TestConvertRequiredWithoutDefault(t *testing.T) {
	meta := engine.FieldMeta{
		Name:    "name",
		Type:    engine.Scalar(engine.KindString),
		Default: engine.Undefined,
	}
	field := Convert(meta, typemap.New(nil))

	if !field.Required {
		t.Fatal("field without default should be required")
	}
	if !serde.IsMissing(field.LoadDefault) || !serde.IsMissing(field.DumpDefault) {
		t.Fatal("defaults should stay at the missing sentinel")
	}
}

func TestConvertStaticDefault(t *testing.T) {
	meta := engine.FieldMeta{
		Name:    "age",
		Type:    engine.Scalar(engine.KindInt),
		Default: 21,
	}
	field := Convert(meta, typemap.New(nil))

	if field.Required {
		t.Fatal("field with default should not be required")
	}
	if field.LoadDefault != 21 || field.DumpDefault != 21 {
		t.Fatalf("defaults = %v/%v, want 21/21", field.LoadDefault, field.DumpDefault)
	}
}

func TestConvertNilDefaultIsReal(t *testing.T) {
	meta := engine.FieldMeta{
		Name:    "note",
		Type:    engine.Optional(engine.Scalar(engine.KindString)),
		Default: nil,
	}
	field := Convert(meta, typemap.New(nil))

	if field.Required {
		t.Fatal("nil default still counts as a default")
	}
	if serde.IsMissing(field.LoadDefault) {
		t.Fatal("nil default should not read as missing")
	}
	if field.LoadDefault != nil {
		t.Fatalf("load default = %v, want nil", field.LoadDefault)
	}
}

func TestConvertDefaultFactory(t *testing.T) {
	calls := 0
	meta := engine.FieldMeta{
		Name:           "tags",
		Type:           engine.ListOf(nil),
		Default:        engine.Undefined,
		DefaultFactory: func() any { calls++; return []any{} },
	}
	field := Convert(meta, typemap.New(nil))

	if field.Required {
		t.Fatal("field with factory should not be required")
	}
	if field.DefaultFactory == nil {
		t.Fatal("factory should be carried over")
	}
	if calls != 0 {
		t.Fatalf("factory ran %d times during conversion, want 0", calls)
	}
	field.DefaultFactory()
	if calls != 1 {
		t.Fatal("factory should run when invoked")
	}
}

func TestConvertAliasBecomesDataKey(t *testing.T) {
	meta := engine.FieldMeta{
		Name:    "full_name",
		Type:    engine.Scalar(engine.KindString),
		Default: engine.Undefined,
		Alias:   "fullName",
	}
	field := Convert(meta, typemap.New(nil))

	if field.DataKey != "fullName" {
		t.Fatalf("data key = %q, want %q", field.DataKey, "fullName")
	}
}

func TestConvertOptionalAllowsNone(t *testing.T) {
	meta := engine.FieldMeta{
		Name:    "nickname",
		Type:    engine.Optional(engine.Scalar(engine.KindString)),
		Default: engine.Undefined,
	}
	field := Convert(meta, typemap.New(nil))

	if !field.AllowNone {
		t.Fatal("optional field should allow none")
	}
	if field.Required {
		t.Fatal("optional field without default should not be required")
	}
}

func TestConvertComputedIsDumpOnly(t *testing.T) {
	meta := engine.ComputedMeta{Name: "display_name", Return: engine.Scalar(engine.KindString)}
	field := ConvertComputed(meta, typemap.New(nil))

	if !field.DumpOnly {
		t.Fatal("computed field should be dump-only")
	}
	if field.Required {
		t.Fatal("computed field should never be required")
	}
	if field.Kind != serde.FieldString {
		t.Fatalf("computed kind = %s, want string", field.Kind)
	}
}

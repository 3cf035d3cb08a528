package bridge_test

import (
	"testing"

	"github.com/goliatone/go-schemabridge/pkg/bridge"
	"github.com/goliatone/go-schemabridge/pkg/reflectengine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
	"github.com/goliatone/go-schemabridge/pkg/testsupport"
)

func TestSchemaForCachesByModelAndOptions(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()

	a := bridge.SchemaFor(model)
	b := bridge.SchemaFor(model)
	if a != b {
		t.Fatal("same model and options should return the identical class")
	}

	c := bridge.SchemaFor(model, bridge.WithFields("name", "age"))
	if c == a {
		t.Fatal("different options should synthesize a different class")
	}
}

func TestSchemaForOptionOrderInsensitive(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()

	a := bridge.SchemaFor(model, bridge.WithFields("name", "age"), bridge.WithName("X"))
	b := bridge.SchemaFor(model, bridge.WithName("X"), bridge.WithFields("age", "name"))
	if a != b {
		t.Fatal("equal options in different order should hit the same cache entry")
	}
}

func TestSchemaForFunctionOptionsBypassCache(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	validator := func(value any, ctx serde.Context) error { return nil }

	a := bridge.SchemaFor(model, bridge.WithFieldValidator("age", validator))
	b := bridge.SchemaFor(model, bridge.WithFieldValidator("age", validator))
	if a == b {
		t.Fatal("function-valued options cannot be canonicalized and must bypass the cache")
	}
}

func TestSynthesizedFieldOrder(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User]())

	want := []string{"name", "email", "age", "nickname", "display_name"}
	got := class.FieldOrder()
	if len(got) != len(want) {
		t.Fatalf("field order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field order = %v, want %v", got, want)
		}
	}
}

func TestComputedFieldIsDumpOnly(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User]())
	field := class.Fields()["display_name"]
	if field == nil || !field.DumpOnly {
		t.Fatal("computed property should synthesize as a dump-only field")
	}
}

func TestWithoutComputed(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User](), bridge.WithoutComputed())
	if _, ok := class.Fields()["display_name"]; ok {
		t.Fatal("WithoutComputed should skip computed properties")
	}
}

func TestWithFieldsWhitelist(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User](), bridge.WithFields("name"))
	if len(class.FieldOrder()) != 1 || class.FieldOrder()[0] != "name" {
		t.Fatalf("whitelisted order = %v, want [name]", class.FieldOrder())
	}
}

func TestExcludeDeferredToInstance(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	class := bridge.SchemaFor(model, bridge.WithExclude("age"))

	if _, ok := class.Fields()["age"]; !ok {
		t.Fatal("class-level exclude should not remove the field from the class")
	}

	schema := class.New()
	if _, ok := schema.Fields()["age"]; ok {
		t.Fatal("instance binding should apply the deferred exclude")
	}
}

func TestDefaultClassName(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User]())
	if class.Name() != "UserSchema" {
		t.Fatalf("class name = %q, want UserSchema", class.Name())
	}
}

func TestNestedModelSharesCache(t *testing.T) {
	customer := bridge.SchemaFor(reflectengine.ModelFor[testsupport.Customer]())
	address := bridge.SchemaFor(reflectengine.ModelFor[testsupport.Address]())

	addresses := customer.Fields()["addresses"]
	if addresses == nil || addresses.Inner == nil {
		t.Fatal("addresses field should carry an inner descriptor")
	}
	if addresses.Inner.Kind != serde.FieldNested {
		t.Fatalf("addresses inner kind = %s, want nested", addresses.Inner.Kind)
	}
	if addresses.Inner.Nested != address {
		t.Fatal("nested class should come from the shared cache")
	}
}

func TestSelfReferentialSynthesisTerminates(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.TreeNode]())

	children := class.Fields()["children"]
	if children == nil || children.Kind != serde.FieldList {
		t.Fatalf("children field = %+v, want list", children)
	}
	if children.Inner.Kind != serde.FieldRaw {
		t.Fatalf("cyclic nested edge kind = %s, want raw degradation", children.Inner.Kind)
	}
}

func TestExplicitFieldsAreAuthoritative(t *testing.T) {
	class := bridge.NewClass(
		bridge.WithModel(reflectengine.ModelFor[testsupport.User]()),
		bridge.WithField("only_field", &serde.Field{Kind: serde.FieldString, Required: true}),
	)
	if len(class.FieldOrder()) != 1 || class.FieldOrder()[0] != "only_field" {
		t.Fatalf("explicit fields should suppress synthesis, got %v", class.FieldOrder())
	}
}

package openapigen_test

import (
	"testing"

	"github.com/goliatone/go-schemabridge/pkg/bridge"
	"github.com/goliatone/go-schemabridge/pkg/openapigen"
	"github.com/goliatone/go-schemabridge/pkg/reflectengine"
	"github.com/goliatone/go-schemabridge/pkg/testsupport"
)

func TestSchemaRequiredAndFormats(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User]())
	schema := openapigen.Schema(class)

	if !schema.Type.Is("object") {
		t.Fatalf("type = %v, want object", schema.Type)
	}

	want := []string{"name", "email", "age"}
	if len(schema.Required) != len(want) {
		t.Fatalf("required = %v, want %v", schema.Required, want)
	}
	for i, name := range want {
		if schema.Required[i] != name {
			t.Fatalf("required = %v, want %v", schema.Required, want)
		}
	}

	email := schema.Properties["email"].Value
	if !email.Type.Is("string") || email.Format != "email" {
		t.Fatalf("email schema = type %v format %q", email.Type, email.Format)
	}
	age := schema.Properties["age"].Value
	if !age.Type.Is("integer") {
		t.Fatalf("age type = %v, want integer", age.Type)
	}
}

func TestSchemaOptionalIsNullableNotRequired(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User]())
	schema := openapigen.Schema(class)

	nickname := schema.Properties["nickname"].Value
	if !nickname.Nullable {
		t.Fatal("optional field should render nullable")
	}
	for _, name := range schema.Required {
		if name == "nickname" {
			t.Fatal("optional field must not be required")
		}
	}
}

func TestSchemaComputedIsReadOnly(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User]())
	schema := openapigen.Schema(class)

	display, ok := schema.Properties["display_name"]
	if !ok {
		t.Fatalf("properties = %v, want display_name", schema.Properties)
	}
	if !display.Value.ReadOnly {
		t.Fatal("computed property should render readOnly")
	}
	for _, name := range schema.Required {
		if name == "display_name" {
			t.Fatal("computed property must not be required")
		}
	}
}

func TestSchemaNestedAndCollections(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.Customer]())
	schema := openapigen.Schema(class)

	if _, ok := schema.Properties["fullName"]; !ok {
		t.Fatalf("properties = %v, want wire name fullName", schema.Properties)
	}

	addresses := schema.Properties["addresses"].Value
	if !addresses.Type.Is("array") {
		t.Fatalf("addresses type = %v, want array", addresses.Type)
	}
	address := addresses.Items.Value
	if !address.Type.Is("object") {
		t.Fatalf("address items type = %v, want object", address.Type)
	}
	if _, ok := address.Properties["zip_code"]; !ok {
		t.Fatalf("address properties = %v, want zip_code", address.Properties)
	}

	tags := schema.Properties["tags"].Value
	if !tags.Type.Is("object") || tags.AdditionalProperties.Schema == nil {
		t.Fatalf("tags schema = %v, want string-valued mapping", tags)
	}
	if !tags.AdditionalProperties.Schema.Value.Type.Is("string") {
		t.Fatal("tags values should be strings")
	}
}

func TestSchemaEnumAndDefault(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.Palette]())
	schema := openapigen.Schema(class)

	primary := schema.Properties["primary"].Value
	if len(primary.Enum) != 3 {
		t.Fatalf("enum = %v, want three members", primary.Enum)
	}
	if primary.Default != "red" {
		t.Fatalf("default = %v, want red", primary.Default)
	}
}

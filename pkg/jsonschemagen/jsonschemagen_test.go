package jsonschemagen_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemabridge/pkg/bridge"
	"github.com/goliatone/go-schemabridge/pkg/jsonschemagen"
	"github.com/goliatone/go-schemabridge/pkg/reflectengine"
	"github.com/goliatone/go-schemabridge/pkg/testsupport"
)

func TestExportDocumentShape(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User]())
	doc := jsonschemagen.Export(class)

	if doc["$schema"] != "https://json-schema.org/draft/2020-12/schema" {
		t.Fatalf("$schema = %v", doc["$schema"])
	}
	if doc["type"] != "object" {
		t.Fatalf("type = %v, want object", doc["type"])
	}
	if diff := cmp.Diff([]string{"name", "email", "age"}, doc["required"]); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
}

func TestExportPropertyTypes(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User]())
	properties := jsonschemagen.Export(class)["properties"].(map[string]any)

	email := properties["email"].(map[string]any)
	if email["type"] != "string" || email["format"] != "email" {
		t.Fatalf("email schema = %v", email)
	}

	nickname := properties["nickname"].(map[string]any)
	if diff := cmp.Diff([]any{"string", "null"}, nickname["type"]); diff != "" {
		t.Fatalf("nullable type mismatch (-want +got):\n%s", diff)
	}

	display := properties["display_name"].(map[string]any)
	if display["readOnly"] != true {
		t.Fatalf("computed property schema = %v, want readOnly", display)
	}
}

func TestExportNestedObjects(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.Customer]())
	properties := jsonschemagen.Export(class)["properties"].(map[string]any)

	if _, ok := properties["fullName"]; !ok {
		t.Fatalf("properties = %v, want wire name fullName", properties)
	}

	addresses := properties["addresses"].(map[string]any)
	if addresses["type"] != "array" {
		t.Fatalf("addresses = %v, want array", addresses)
	}
	address := addresses["items"].(map[string]any)
	nestedProps := address["properties"].(map[string]any)
	if _, ok := nestedProps["zip_code"]; !ok {
		t.Fatalf("nested properties = %v, want zip_code", nestedProps)
	}

	tags := properties["tags"].(map[string]any)
	inner := tags["additionalProperties"].(map[string]any)
	if inner["type"] != "string" {
		t.Fatalf("tags values = %v, want string", inner)
	}
}

func TestExportMatchesGolden(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.User]())

	encoded, err := json.Marshal(jsonschemagen.Export(class))
	if err != nil {
		t.Fatalf("marshal export: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}

	const golden = "testdata/user_schema.json"
	testsupport.WriteGolden(t, golden, got)
	want := testsupport.MustLoadGoldenJSON[map[string]any](t, golden)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("exported document drifted from golden (-want +got):\n%s", diff)
	}
}

func TestExportEnumWithDefault(t *testing.T) {
	class := bridge.SchemaFor(reflectengine.ModelFor[testsupport.Palette]())
	properties := jsonschemagen.Export(class)["properties"].(map[string]any)

	primary := properties["primary"].(map[string]any)
	if diff := cmp.Diff([]any{"red", "green", "blue"}, primary["enum"]); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	if primary["default"] != "red" {
		t.Fatalf("default = %v, want red", primary["default"])
	}
}

package bridge_test

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemabridge/pkg/bridge"
	"github.com/goliatone/go-schemabridge/pkg/reflectengine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
	"github.com/goliatone/go-schemabridge/pkg/testsupport"
)

func TestValidateEmptyOnSuccess(t *testing.T) {
	messages := userSchema().Validate(validUser())
	if len(messages) != 0 {
		t.Fatalf("messages = %v, want empty", messages)
	}
}

func TestValidateReportsMessages(t *testing.T) {
	data := validUser()
	delete(data, "name")

	messages := userSchema().Validate(data)
	if !testsupport.MessagesContain(messages, "name", "required") {
		t.Fatalf("messages = %v, want a name entry mentioning required", messages)
	}
}

func TestValidateNonValidationErrorUnderSchemaKey(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	schema := bridge.NewClass(
		bridge.WithModel(model),
		bridge.WithPreLoad(func(data map[string]any, ctx serde.Context) (map[string]any, error) {
			return nil, errors.New("upstream unavailable")
		}),
	).New()

	messages := schema.Validate(validUser())
	want := map[string][]string{serde.SchemaErrorKey: {"upstream unavailable"}}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadsRejectsInvalidJSON(t *testing.T) {
	_, err := userSchema().Loads(`{"name": `)
	berr := bridgeError(t, err)

	want := map[string][]string{serde.SchemaErrorKey: {"Invalid JSON document."}}
	if diff := cmp.Diff(want, berr.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadsDecodesDocument(t *testing.T) {
	result, err := userSchema().Loads(`{"name":"Ada","email":"ada@example.com","age":36}`)
	if err != nil {
		t.Fatalf("loads: %v", err)
	}
	user, ok := reflectengine.Unwrap[testsupport.User](result)
	if !ok {
		t.Fatalf("result is %T, want a User instance", result)
	}
	if user.Age != 36 {
		t.Fatalf("age = %d, want 36", user.Age)
	}
}

func TestDumpsEncodesJSON(t *testing.T) {
	inst := loadedUser(t, validUser())

	doc, err := userSchema().Dumps(inst)
	if err != nil {
		t.Fatalf("dumps: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(doc), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["display_name"] != "Ada" {
		t.Fatalf("decoded = %v, want computed display_name", decoded)
	}
}

func TestOnlyRestrictsBoundFields(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	schema := bridge.SchemaFor(model).New(bridge.Only("name", "age"))

	want := []string{"name", "age"}
	if diff := cmp.Diff(want, schema.FieldOrder()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestOnlyLimitsDumpOutput(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	schema := bridge.SchemaFor(model).New(bridge.Only("name"))

	out, err := schema.Dump(loadedUser(t, validUser()))
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := map[string]any{"name": "Ada"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestBindFieldVisitsEveryBoundField(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	var visited []string
	schema := bridge.SchemaFor(model).New(bridge.BindField(func(name string, field *serde.Field) {
		visited = append(visited, name)
	}))

	sort.Strings(visited)
	want := append([]string(nil), schema.FieldOrder()...)
	sort.Strings(want)
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Fatalf("visited mismatch (-want +got):\n%s", diff)
	}
}

func TestBindFieldAdjustmentsStayLocal(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	class := bridge.SchemaFor(model)

	tweaked := class.New(bridge.BindField(func(name string, field *serde.Field) {
		if name == "email" {
			field.LoadOnly = true
		}
	}))
	plain := class.New()

	if !tweaked.Fields()["email"].LoadOnly {
		t.Fatal("bind callback changes should apply to the instance")
	}
	if plain.Fields()["email"].LoadOnly {
		t.Fatal("bind callback changes must not leak into the class copy")
	}
}

func TestContextReachesValidators(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	var seen any
	schema := bridge.NewClass(
		bridge.WithModel(model),
		bridge.WithFieldValidator("name", func(value any, ctx serde.Context) error {
			seen = ctx["tenant"]
			return nil
		}),
	).New(bridge.Context(serde.Context{"tenant": "acme"}))

	if _, err := schema.Load(validUser()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if seen != "acme" {
		t.Fatalf("validator saw context %v, want acme", seen)
	}
}

func TestSetContextReplacesBag(t *testing.T) {
	schema := userSchema()
	schema.SetContext(serde.Context{"k": 1})

	if schema.Context()["k"] != 1 {
		t.Fatalf("context = %v", schema.Context())
	}
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	schemabridge "github.com/goliatone/go-schemabridge"
	"github.com/goliatone/go-schemabridge/pkg/bridge"
	"github.com/goliatone/go-schemabridge/pkg/openapigen"
	"github.com/goliatone/go-schemabridge/pkg/reflectengine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// User is the demo model the CLI validates payloads against.
type User struct {
	Name     string              `validate:"minlen=1"`
	Email    reflectengine.Email `bridge:"email"`
	Age      int                 `validate:"min=0,max=150"`
	Nickname *string
}

// ComputedDisplayName derives the user's display name.
func (u *User) ComputedDisplayName() string {
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	return u.Name
}

// Address is the nested demo model.
type Address struct {
	Street  string
	City    string
	ZipCode string `validate:"pattern=^[0-9]{5}$"`
}

// Customer exercises nested models and collections.
type Customer struct {
	FullName  string    `bridge:"full_name,alias=fullName"`
	Addresses []Address `validate:"minlen=1"`
}

func main() {
	schemaName := flag.String("schema", "user", "schema to validate against (user, customer)")
	input := flag.String("input", "", "payload file, JSON or YAML (stdin if empty)")
	many := flag.Bool("many", false, "treat the payload as a collection")
	partial := flag.Bool("partial", false, "allow required fields to be absent")
	unknown := flag.String("unknown", "raise", "unknown-field policy (raise, exclude, include)")
	openapi := flag.Bool("openapi", false, "print the schema as OpenAPI JSON and exit")
	interactive := flag.Bool("interactive", false, "prompt for payload values instead of reading input")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	schema, err := schemaByName(*schemaName, *unknown)
	if err != nil {
		log.Fatalf("invalid schema: %v", err)
	}

	if *openapi {
		payload, err := json.MarshalIndent(openapigen.Schema(schema.Class()), "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode OpenAPI schema: %v", err)
		}
		writeOutput(*output, append(payload, '\n'))
		return
	}

	var payload any
	if *interactive {
		payload, err = promptPayload(*schemaName)
	} else {
		payload, err = readPayload(*input)
	}
	if err != nil {
		log.Fatalf("Failed to read payload: %v", err)
	}

	var loadOpts []bridge.LoadOption
	if *many {
		loadOpts = append(loadOpts, bridge.LoadMany())
	}
	if *partial {
		loadOpts = append(loadOpts, bridge.LoadPartial(bridge.PartialAll()))
	}

	messages := schema.Validate(payload, loadOpts...)
	if len(messages) > 0 {
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, strings.Join(messages[key], "; "))
		}
		os.Exit(1)
	}

	result, err := schema.Load(payload, append(loadOpts, bridge.LoadAsMap())...)
	if err != nil {
		log.Fatalf("Failed to load payload: %v", err)
	}
	dumped, err := schema.Dump(result)
	if err != nil {
		log.Fatalf("Failed to dump result: %v", err)
	}
	encoded, err := json.MarshalIndent(dumped, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	writeOutput(*output, append(encoded, '\n'))
}

func schemaByName(name, unknown string) (*bridge.Schema, error) {
	policy, err := parsePolicy(unknown)
	if err != nil {
		return nil, err
	}
	opts := []bridge.ClassOption{bridge.WithUnknown(policy)}
	switch name {
	case "user":
		return schemabridge.Attach(schemabridge.ModelFor[User](), opts...), nil
	case "customer":
		return schemabridge.Attach(schemabridge.ModelFor[Customer](), opts...), nil
	}
	return nil, fmt.Errorf("unknown schema %q (supported: user, customer)", name)
}

func parsePolicy(raw string) (serde.Unknown, error) {
	switch raw {
	case "raise":
		return serde.Raise, nil
	case "exclude":
		return serde.Exclude, nil
	case "include":
		return serde.Include, nil
	}
	return "", fmt.Errorf("unknown policy %q (supported: raise, exclude, include)", raw)
}

// readPayload decodes JSON or YAML from a file or stdin. YAML is detected by
// extension; stdin is assumed JSON unless it fails to parse.
func readPayload(path string) (any, error) {
	var (
		raw []byte
		err error
	)
	if path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		var out any
		if err := yaml.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		return out, nil
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		var fallback any
		if yamlErr := yaml.Unmarshal(raw, &fallback); yamlErr == nil {
			return fallback, nil
		}
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return out, nil
}

// promptPayload collects a payload interactively for the user schema.
func promptPayload(schemaName string) (any, error) {
	if schemaName != "user" {
		return nil, fmt.Errorf("interactive mode supports only the user schema")
	}

	answers := struct {
		Name     string
		Email    string
		Age      int
		Nickname string
	}{}
	questions := []*survey.Question{
		{Name: "name", Prompt: &survey.Input{Message: "Name:"}},
		{Name: "email", Prompt: &survey.Input{Message: "Email:"}},
		{Name: "age", Prompt: &survey.Input{Message: "Age:"}},
		{Name: "nickname", Prompt: &survey.Input{Message: "Nickname (optional):"}},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"name":  answers.Name,
		"email": answers.Email,
		"age":   answers.Age,
	}
	if answers.Nickname != "" {
		payload["nickname"] = answers.Nickname
	}
	return payload, nil
}

func writeOutput(path string, data []byte) {
	if path == "" {
		fmt.Print(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Output written to %s\n", path)
}

// Package testsupport holds the fixture models and golden-file helpers shared
// by package tests across the module.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemabridge/pkg/reflectengine"
)

// User is the basic fixture: a required name, a validated email, a bounded
// age, an optional nickname and a computed display name.
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

// Address is the nested fixture used by Customer.
type Address struct {
	Street  string
	City    string
	ZipCode string `validate:"pattern=^[0-9]{5}$"`
}

// Customer exercises nested models, collections and aliases.
type Customer struct {
	FullName  string    `bridge:"full_name,alias=fullName"`
	Addresses []Address `validate:"minlen=1"`
	Tags      map[string]string
}

// TreeNode is the self-referential fixture for cycle handling.
type TreeNode struct {
	Label    string
	Children []TreeNode
}

// Color is the enumeration fixture.
type Color string

// EnumValues implements reflectengine.Enumerated.
func (Color) EnumValues() []string { return []string{"red", "green", "blue"} }

func (c Color) String() string { return string(c) }

// Palette binds an enum field with a default.
type Palette struct {
	Primary   Color `default:"red"`
	Secondary *Color
}

// MustLoadGoldenJSON reads a golden file into the given shape.
func MustLoadGoldenJSON[T any](t *testing.T, path string) T {
	t.Helper()
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	return out
}

// WriteGolden writes a value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MessagesContain reports whether the messages mapping carries the given
// fragment under the given key. Tests assert on fragments rather than full
// strings so message rewording stays cheap.
func MessagesContain(messages map[string][]string, key, fragment string) bool {
	for _, msg := range messages[key] {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

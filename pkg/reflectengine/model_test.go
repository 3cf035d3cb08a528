package reflectengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/reflectengine"
	"github.com/goliatone/go-schemabridge/pkg/testsupport"
)

type tagged struct {
	UserID   int
	FullName string `bridge:"full_name,alias=fullName"`
	Renamed  string `bridge:"wire_name"`
	Ignored  string `bridge:"-"`
	Age      int    `validate:"min=0,max=150" default:"21"`
	Note     string `errmsg:"string_type:custom type message;default:custom fallback"`
	internal string
}

func TestDescriptorDerivation(t *testing.T) {
	model := reflectengine.ModelFor[tagged]()
	desc := model.Descriptor()

	assert.Equal(t, "tagged", desc.Name)
	assert.Equal(t, []string{"user_id", "full_name", "wire_name", "age", "note"}, desc.FieldNames())

	full, ok := desc.Field("full_name")
	require.True(t, ok)
	assert.Equal(t, "fullName", full.Alias)

	age, ok := desc.Field("age")
	require.True(t, ok)
	assert.Equal(t, int64(21), age.Default)
	assert.True(t, age.HasDefault())

	note, ok := desc.Field("note")
	require.True(t, ok)
	assert.Equal(t, "custom type message", note.ErrorMessages["string_type"])
	assert.Equal(t, "custom fallback", note.ErrorMessages["default"])
}

func TestModelCaching(t *testing.T) {
	a := reflectengine.ModelFor[tagged]()
	b := reflectengine.ModelFor[tagged]()
	assert.Same(t, a, b)
}

func TestComputedScan(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	desc := model.Descriptor()

	require.Len(t, desc.Computed, 1)
	assert.Equal(t, "display_name", desc.Computed[0].Name)
	assert.Equal(t, engine.KindString, desc.Computed[0].Return.Kind)
}

func TestSelfReferentialModelTerminates(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.TreeNode]()
	desc := model.Descriptor()

	children, ok := desc.Field("children")
	require.True(t, ok)
	require.Equal(t, engine.KindList, children.Type.Kind)
	require.NotNil(t, children.Type.Elem)
	assert.Equal(t, engine.KindModel, children.Type.Elem.Kind)
	assert.Equal(t, model, children.Type.Elem.Model)
}

func TestEnumDerivation(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.Palette]()
	primary, ok := model.Descriptor().Field("primary")
	require.True(t, ok)
	require.Equal(t, engine.KindEnum, primary.Type.Kind)
	assert.Equal(t, []any{"red", "green", "blue"}, primary.Type.Enum.Values)
	assert.Equal(t, "red", primary.Default)
}

func TestOptionalPointerFields(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	nickname, ok := model.Descriptor().Field("nickname")
	require.True(t, ok)
	assert.True(t, nickname.Type.IsOptional())
}

func TestOptionalEnumDerivation(t *testing.T) {
	type banner struct {
		Accent *testsupport.Color
	}
	model := reflectengine.ModelFor[banner]()

	accent, ok := model.Descriptor().Field("accent")
	require.True(t, ok)
	require.True(t, accent.Type.IsOptional())
	require.Equal(t, engine.KindUnion, accent.Type.Kind)
	assert.Equal(t, engine.KindEnum, accent.Type.Variants[0].Kind)
	assert.Equal(t, []any{"red", "green", "blue"}, accent.Type.Variants[0].Enum.Values)
}

func TestNamedStringSubtypes(t *testing.T) {
	model := reflectengine.ModelFor[testsupport.User]()
	email, ok := model.Descriptor().Field("email")
	require.True(t, ok)
	assert.Equal(t, engine.KindNamed, email.Type.Kind)
	assert.Equal(t, "Email", email.Type.Name)
	assert.Equal(t, engine.KindString, email.Type.Underlying)
}

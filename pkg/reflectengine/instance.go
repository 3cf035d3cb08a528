package reflectengine

import (
	"reflect"

	"github.com/goliatone/go-schemabridge/pkg/engine"
)

// instance wraps a populated struct value behind the engine.Instance
// contract. The struct lives behind a pointer so computed methods with
// pointer receivers resolve.
type instance struct {
	model     *Model
	value     reflect.Value
	fieldsSet []string
}

func (i *instance) ModelRef() engine.Model { return i.model }

// Get returns a declared field value or evaluates a computed property.
// Single-level pointers are dereferenced so optional fields read as their
// value or nil.
func (i *instance) Get(name string) (any, bool) {
	if index, ok := i.model.fieldIndex[name]; ok {
		return deref(i.value.Elem().FieldByIndex(index)), true
	}
	if method, ok := i.model.computed[name]; ok {
		return i.value.Method(method).Call(nil)[0].Interface(), true
	}
	return nil, false
}

func (i *instance) Fields() map[string]any {
	out := make(map[string]any, len(i.model.desc.Fields))
	for _, meta := range i.model.desc.Fields {
		out[meta.Name] = deref(i.value.Elem().FieldByIndex(i.model.fieldIndex[meta.Name]))
	}
	return out
}

func (i *instance) FieldsSet() []string {
	return append([]string(nil), i.fieldsSet...)
}

// Wrap adapts an existing struct value or pointer into an instance without
// validation, for dumping objects that did not come from a load. Every
// declared field counts as explicitly set.
func (m *Model) Wrap(obj any) engine.Instance {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer {
		ptr := reflect.New(m.typ)
		ptr.Elem().Set(rv)
		rv = ptr
	}
	names := make([]string, len(m.desc.Fields))
	for i, meta := range m.desc.Fields {
		names[i] = meta.Name
	}
	return &instance{model: m, value: rv, fieldsSet: names}
}

// TryWrap is Wrap for values of uncertain provenance: it reports false
// instead of panicking when obj is not this model's struct type.
func (m *Model) TryWrap(obj any) (engine.Instance, bool) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != m.typ {
		return nil, false
	}
	return m.Wrap(rv.Interface()), true
}

func deref(v reflect.Value) any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}

// Unwrap recovers the concrete struct pointer from an instance produced by
// the matching model, typically after a successful load:
//
//	result, err := schema.Load(data)
//	user, ok := reflectengine.Unwrap[User](result)
func Unwrap[T any](result any) (*T, bool) {
	inst, ok := result.(*instance)
	if !ok {
		return nil, false
	}
	typed, ok := inst.value.Interface().(*T)
	return typed, ok
}

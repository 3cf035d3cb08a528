package schemabridge

import (
	"fmt"

	"github.com/goliatone/go-schemabridge/pkg/bridge"
	"github.com/goliatone/go-schemabridge/pkg/reflectengine"
)

// Hybrid pairs a struct type with its synthesized schema, giving typed
// load/dump round trips without manual unwrapping:
//
//	users := schemabridge.NewHybrid[User]()
//	user, err := users.Load(payload)
type Hybrid[T any] struct {
	schema *bridge.Schema
}

// NewHybrid derives the model for T, synthesizes its class, and binds a
// default schema instance. Class options customize synthesis; instance
// options are applied through Schema().
func NewHybrid[T any](opts ...bridge.ClassOption) *Hybrid[T] {
	model := reflectengine.ModelFor[T]()
	classOpts := append([]bridge.ClassOption{bridge.WithModel(model)}, opts...)
	return &Hybrid[T]{schema: bridge.SchemaFor(model, classOpts...).New()}
}

// Schema exposes the underlying schema instance for untyped operations and
// instance-level configuration.
func (h *Hybrid[T]) Schema() *bridge.Schema { return h.schema }

// Load validates input and returns the typed result.
func (h *Hybrid[T]) Load(data any, opts ...bridge.LoadOption) (*T, error) {
	result, err := h.schema.Load(data, opts...)
	if err != nil {
		return nil, err
	}
	typed, ok := reflectengine.Unwrap[T](result)
	if !ok {
		return nil, fmt.Errorf("load result is %T, not a %T instance", result, (*T)(nil))
	}
	return typed, nil
}

// LoadSlice validates a collection and returns the typed elements.
func (h *Hybrid[T]) LoadSlice(data any, opts ...bridge.LoadOption) ([]*T, error) {
	result, err := h.schema.Load(data, append(opts, bridge.LoadMany())...)
	if err != nil {
		return nil, err
	}
	items, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("load result is %T, not a collection", result)
	}
	typed := make([]*T, len(items))
	for i, item := range items {
		elem, ok := reflectengine.Unwrap[T](item)
		if !ok {
			return nil, fmt.Errorf("element %d is %T, not a %T instance", i, item, (*T)(nil))
		}
		typed[i] = elem
	}
	return typed, nil
}

// Loads decodes a JSON document and loads it.
func (h *Hybrid[T]) Loads(doc string, opts ...bridge.LoadOption) (*T, error) {
	result, err := h.schema.Loads(doc, opts...)
	if err != nil {
		return nil, err
	}
	typed, ok := reflectengine.Unwrap[T](result)
	if !ok {
		return nil, fmt.Errorf("load result is %T, not a %T instance", result, (*T)(nil))
	}
	return typed, nil
}

// Dump serializes a typed value into wire shape.
func (h *Hybrid[T]) Dump(obj *T, opts ...bridge.DumpOption) (any, error) {
	inst := reflectengine.ModelFor[T]().Wrap(obj)
	return h.schema.Dump(inst, opts...)
}

// Dumps serializes a typed value and encodes it as JSON.
func (h *Hybrid[T]) Dumps(obj *T, opts ...bridge.DumpOption) (string, error) {
	inst := reflectengine.ModelFor[T]().Wrap(obj)
	return h.schema.Dumps(inst, opts...)
}

// Validate reports validation messages for input, empty when valid.
func (h *Hybrid[T]) Validate(data any, opts ...bridge.LoadOption) map[string][]string {
	return h.schema.Validate(data, opts...)
}

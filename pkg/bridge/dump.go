package bridge

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// DumpOption adjusts a single Dump call.
type DumpOption func(*dumpConfig)

type dumpConfig struct {
	many    bool
	manySet bool

	excludeUnset    bool
	excludeDefaults bool
	excludeNone     bool
	skipComputed    bool
}

// DumpMany treats the input as a collection for this call.
func DumpMany() DumpOption {
	return func(c *dumpConfig) { c.many, c.manySet = true, true }
}

// ExcludeUnset omits fields that were never explicitly assigned on the
// instance. Only meaningful for typed instances; mappings carry no
// assignment record.
func ExcludeUnset() DumpOption {
	return func(c *dumpConfig) { c.excludeUnset = true }
}

// ExcludeDefaults omits fields whose value equals their declared default.
func ExcludeDefaults() DumpOption {
	return func(c *dumpConfig) { c.excludeDefaults = true }
}

// ExcludeNone omits nil-valued fields, computed ones included.
func ExcludeNone() DumpOption {
	return func(c *dumpConfig) { c.excludeNone = true }
}

// SkipComputed omits computed properties from output.
func SkipComputed() DumpOption {
	return func(c *dumpConfig) { c.skipComputed = true }
}

// Dump serializes a typed instance or a plain mapping into wire shape. Dump
// never validates; it reports an error only for inputs it cannot interpret
// at all.
func (s *Schema) Dump(obj any, opts ...DumpOption) (any, error) {
	cfg := dumpConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if !cfg.manySet {
		cfg.many = s.many
	}

	if cfg.many {
		items, ok := asAnySlice(obj)
		if !ok {
			return nil, fmt.Errorf("dump: expected a slice or array, got %T", obj)
		}
		results := make([]any, len(items))
		for i, item := range items {
			result, err := s.dumpOne(item, cfg)
			if err != nil {
				return nil, fmt.Errorf("dump: element %d: %w", i, err)
			}
			results[i] = result
		}
		return results, nil
	}
	return s.dumpOne(obj, cfg)
}

func (s *Schema) dumpOne(obj any, cfg dumpConfig) (map[string]any, error) {
	var (
		data map[string]any
		inst engine.Instance
	)
	switch v := obj.(type) {
	case engine.Instance:
		inst = v
		data = v.Fields()
	default:
		coerced, ok := asAnyMap(obj)
		if !ok {
			return nil, fmt.Errorf("dump: unsupported type %T", obj)
		}
		data = coerced
	}

	working := make(map[string]any, len(data))
	for key, value := range data {
		working[key] = value
	}

	var err error
	for _, hook := range s.class.preDump {
		if working, err = hook(working, s.context); err != nil {
			return nil, err
		}
	}

	for _, name := range s.excludedOnDump(working, inst, cfg) {
		delete(working, name)
	}

	result := serde.Serialize(s.order, s.fields, working)

	if !cfg.skipComputed && inst != nil {
		s.mergeComputed(result, inst, cfg)
	}
	if cfg.skipComputed {
		s.stripComputed(result)
	}

	for _, hook := range s.class.postDump {
		if result, err = hook(result, s.context); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// excludedOnDump applies the exclude_unset/exclude_defaults/exclude_none
// family over the declared fields present in the working mapping.
func (s *Schema) excludedOnDump(working map[string]any, inst engine.Instance, cfg dumpConfig) []string {
	if !cfg.excludeUnset && !cfg.excludeDefaults && !cfg.excludeNone {
		return nil
	}

	var assigned map[string]struct{}
	if cfg.excludeUnset && inst != nil {
		set := inst.FieldsSet()
		assigned = make(map[string]struct{}, len(set))
		for _, name := range set {
			assigned[name] = struct{}{}
		}
	}

	var excluded []string
	for _, name := range s.order {
		field := s.fields[name]
		value, present := working[name]
		if !present || field.DumpOnly {
			continue
		}
		if cfg.excludeNone && value == nil {
			excluded = append(excluded, name)
			continue
		}
		if assigned != nil {
			if _, ok := assigned[name]; !ok {
				excluded = append(excluded, name)
				continue
			}
		}
		if cfg.excludeDefaults && equalsDefault(field, value) {
			excluded = append(excluded, name)
		}
	}
	return excluded
}

// equalsDefault compares in wire form so typed values (enums, timestamps)
// match their declared defaults.
func equalsDefault(field *serde.Field, value any) bool {
	var def any
	switch {
	case !serde.IsMissing(field.LoadDefault):
		def = field.LoadDefault
	case field.DefaultFactory != nil:
		def = field.DefaultFactory()
	default:
		return false
	}
	return reflect.DeepEqual(serde.SerializeValue(field, value), serde.SerializeValue(field, def))
}

// mergeComputed evaluates the instance's computed properties and writes them
// into the result under their wire keys. The engine's native dump carries
// declared fields only, so computed values are pulled through the instance
// accessor.
func (s *Schema) mergeComputed(result map[string]any, inst engine.Instance, cfg dumpConfig) {
	if s.class.model == nil {
		return
	}
	for _, meta := range s.class.model.Descriptor().Computed {
		field, bound := s.fields[meta.Name]
		if !bound || field.LoadOnly {
			continue
		}
		value, ok := inst.Get(meta.Name)
		if !ok {
			continue
		}
		if cfg.excludeNone && value == nil {
			continue
		}
		key := meta.Name
		if field.DataKey != "" {
			key = field.DataKey
		}
		result[key] = serde.SerializeValue(field, value)
	}
}

// stripComputed removes computed keys that reached the result through a plain
// mapping input.
func (s *Schema) stripComputed(result map[string]any) {
	if s.class.model == nil {
		return
	}
	for _, meta := range s.class.model.Descriptor().Computed {
		key := meta.Name
		if field, bound := s.fields[meta.Name]; bound && field.DataKey != "" {
			key = field.DataKey
		}
		delete(result, key)
	}
}

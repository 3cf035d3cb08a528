package bridge

import (
	"errors"
	"reflect"
	"sort"
	"strconv"

	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// LoadOption adjusts a single Load call, overriding the instance defaults.
type LoadOption func(*loadConfig)

type loadConfig struct {
	many       bool
	manySet    bool
	partial    PartialMode
	partialSet bool
	unknown    serde.Unknown
	asMap      bool
}

// LoadMany treats the input as a collection for this call.
func LoadMany() LoadOption {
	return func(c *loadConfig) { c.many, c.manySet = true, true }
}

// LoadPartial sets the partial mode for this call.
func LoadPartial(mode PartialMode) LoadOption {
	return func(c *loadConfig) { c.partial, c.partialSet = mode, true }
}

// LoadUnknown overrides the unknown-field policy for this call.
func LoadUnknown(policy serde.Unknown) LoadOption {
	return func(c *loadConfig) { c.unknown = policy }
}

// LoadAsMap returns the validated mapping instead of a typed instance. With
// the include policy this is also where unknown extras become reachable.
func LoadAsMap() LoadOption {
	return func(c *loadConfig) { c.asMap = true }
}

func (s *Schema) loadConfig(opts []LoadOption) loadConfig {
	cfg := loadConfig{many: s.many, partial: s.partial, unknown: s.unknown}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if !cfg.manySet {
		cfg.many = s.many
	}
	if !cfg.partialSet {
		cfg.partial = s.partial
	}
	if cfg.unknown == "" {
		cfg.unknown = s.class.unknown
	}
	return cfg
}

// Load validates and deserializes input. On success it returns the typed
// instance produced by the validation engine (or a mapping under LoadAsMap,
// or a slice of results under many). On failure it returns a single *Error
// aggregating every problem found.
func (s *Schema) Load(data any, opts ...LoadOption) (any, error) {
	cfg := s.loadConfig(opts)
	var (
		result any
		err    error
	)
	if cfg.many {
		result, err = s.loadCollection(data, cfg)
	} else {
		result, err = s.loadOne(data, cfg)
	}
	if err != nil {
		return nil, s.observe(err, data)
	}
	return result, nil
}

// loadCollection loads each element independently, then reports all element
// failures as one error whose keys carry the element index prefix
// ("1.age"). A non-collection input fails with a single schema-level error.
func (s *Schema) loadCollection(data any, cfg loadConfig) (any, error) {
	items, ok := asAnySlice(data)
	if !ok {
		return nil, newError(map[string][]string{
			serde.SchemaErrorKey: {msgExpectedList},
		}, data, nil)
	}

	results := make([]any, 0, len(items))
	merged := map[string][]string{}
	for i, item := range items {
		result, err := s.loadOne(item, cfg)
		if err != nil {
			var verr serde.ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			for key, msgs := range verr.Messages() {
				indexed := strconv.Itoa(i) + "." + key
				merged[indexed] = append(merged[indexed], msgs...)
			}
			continue
		}
		results = append(results, result)
	}
	if len(merged) > 0 {
		return nil, newError(merged, data, nil)
	}
	return results, nil
}

// loadOne runs the single-object pipeline: coerce input, pre-load hooks,
// unknown policy, engine validation, field validators, schema validators,
// result shaping, post-load hooks.
func (s *Schema) loadOne(data any, cfg loadConfig) (any, error) {
	input, ok := asAnyMap(data)
	if !ok {
		return nil, newError(map[string][]string{
			serde.SchemaErrorKey: {msgInvalidInput},
		}, data, nil)
	}

	working := input
	var err error
	for _, hook := range s.class.preLoad {
		if working, err = hook(working, s.context); err != nil {
			return nil, err
		}
	}

	working, extras, unknownErr := s.applyUnknown(working, cfg.unknown)
	if unknownErr != nil {
		return nil, unknownErr
	}
	working = dropSentinels(working)

	var result any
	if cfg.partial.Enabled() {
		result, err = s.loadPartial(working, cfg)
	} else {
		result, err = s.loadValidated(working, extras, cfg)
	}
	if err != nil {
		return nil, err
	}

	for _, hook := range s.class.postLoad {
		if result, err = hook(result, s.context); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// loadValidated is the full (non-partial) validation path.
func (s *Schema) loadValidated(working, extras map[string]any, cfg loadConfig) (any, error) {
	acc := map[string][]string{}

	var inst engine.Instance
	if s.class.model != nil {
		validated, err := s.class.model.Validate(working)
		if err != nil {
			var failure *engine.Failure
			if !errors.As(err, &failure) {
				return nil, err
			}
			serde.MergeMessages(acc, Translate(failure, s.class.model, nil).Messages())
		} else {
			inst = validated
		}
	}

	// Validators inspect the coerced instance values when validation
	// succeeded and the raw input otherwise, so field validators still run
	// on fields the engine had no complaint about.
	values := working
	if inst != nil {
		values = inst.Fields()
	}

	s.runFieldValidators(values, acc)
	s.runSchemaValidators(values, acc)

	if len(acc) > 0 {
		return nil, newError(acc, working, validSubset(working, s.known(), acc))
	}

	if cfg.asMap {
		out := make(map[string]any, len(values)+len(extras))
		for key, value := range values {
			out[key] = value
		}
		for key, value := range extras {
			out[key] = value
		}
		return out, nil
	}
	if inst != nil {
		return inst, nil
	}
	return values, nil
}

func (s *Schema) runFieldValidators(values map[string]any, acc map[string][]string) {
	if len(s.class.fieldValidators) == 0 {
		return
	}
	fields := make([]string, 0, len(s.class.fieldValidators))
	for field := range s.class.fieldValidators {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value, present := values[field]
		if !present {
			continue
		}
		for _, fn := range s.class.fieldValidators[field] {
			err := fn(value, s.context)
			if err == nil {
				continue
			}
			var verr serde.ValidationError
			if errors.As(err, &verr) {
				for _, msgs := range verr.Messages() {
					acc[field] = append(acc[field], msgs...)
				}
				continue
			}
			acc[field] = append(acc[field], err.Error())
		}
	}
}

func (s *Schema) runSchemaValidators(values map[string]any, acc map[string][]string) {
	for _, entry := range s.class.schemaValidators {
		if entry.skipOnFieldErrors && hasFieldErrors(acc) {
			continue
		}
		err := entry.fn(values, s.context)
		if err == nil {
			continue
		}
		var verr serde.ValidationError
		if errors.As(err, &verr) {
			serde.MergeMessages(acc, verr.Messages())
			continue
		}
		acc[serde.SchemaErrorKey] = append(acc[serde.SchemaErrorKey], err.Error())
	}
}

// applyUnknown partitions input into declared and undeclared keys per the
// policy. Raise reports every unknown key together; exclude drops them;
// include sets them aside for merge-back into mapping results.
func (s *Schema) applyUnknown(data map[string]any, policy serde.Unknown) (map[string]any, map[string]any, error) {
	known := s.known()
	var unknownKeys []string
	for key := range data {
		if _, ok := known[key]; !ok {
			unknownKeys = append(unknownKeys, key)
		}
	}
	if len(unknownKeys) == 0 {
		return data, nil, nil
	}

	switch policy {
	case serde.Raise:
		sort.Strings(unknownKeys)
		messages := make(map[string][]string, len(unknownKeys))
		for _, key := range unknownKeys {
			messages[key] = []string{msgUnknownField}
		}
		return nil, nil, newError(messages, data, validSubset(data, known, messages))
	case serde.Include:
		extras := make(map[string]any, len(unknownKeys))
		filtered := make(map[string]any, len(data))
		for key, value := range data {
			if _, ok := known[key]; ok {
				filtered[key] = value
			} else {
				extras[key] = value
			}
		}
		return filtered, extras, nil
	default: // serde.Exclude
		filtered := make(map[string]any, len(data))
		for key, value := range data {
			if _, ok := known[key]; ok {
				filtered[key] = value
			}
		}
		return filtered, nil, nil
	}
}

// known maps the input keys a load may legitimately carry to their canonical
// field name: the model's declared names and aliases when a model is bound,
// otherwise the instance's bound field names and data keys. Fields marked
// dump-only never accept input, so their keys are pruned and route through
// the unknown policy.
func (s *Schema) known() map[string]string {
	if s.class.model != nil {
		declared := declaredNames(s.class.model)
		var pruned map[string]string
		for _, name := range s.order {
			field := s.fields[name]
			if !field.DumpOnly {
				continue
			}
			_, byName := declared[name]
			_, byKey := declared[field.DataKey]
			if !byName && !byKey {
				continue
			}
			if pruned == nil {
				pruned = make(map[string]string, len(declared))
				for key, canonical := range declared {
					pruned[key] = canonical
				}
			}
			delete(pruned, name)
			delete(pruned, field.DataKey)
		}
		if pruned != nil {
			return pruned
		}
		return declared
	}
	known := make(map[string]string, len(s.order)*2)
	for _, name := range s.order {
		field := s.fields[name]
		if field.DumpOnly {
			continue
		}
		known[name] = name
		if dk := field.DataKey; dk != "" {
			known[dk] = name
		}
	}
	return known
}

// validSubset returns the declared input entries whose field has no recorded
// error. Input keys resolve through their canonical field name, so a value
// supplied under an alias is still excluded when its field erred; the result
// keys are always disjoint from the error keys.
func validSubset(data map[string]any, known map[string]string, messages map[string][]string) map[string]any {
	failed := make(map[string]struct{}, len(messages))
	for key := range messages {
		failed[topField(key)] = struct{}{}
	}
	valid := make(map[string]any)
	for key, value := range data {
		name, ok := known[key]
		if !ok {
			continue
		}
		if _, bad := failed[name]; bad {
			continue
		}
		valid[key] = value
	}
	return valid
}

func topField(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i]
		}
	}
	return key
}

func hasFieldErrors(acc map[string][]string) bool {
	for key := range acc {
		if key != serde.SchemaErrorKey {
			return true
		}
	}
	return false
}

// dropSentinels strips explicit missing markers so they behave exactly like
// absent keys.
func dropSentinels(data map[string]any) map[string]any {
	clean := data
	copied := false
	for key, value := range data {
		if !serde.IsMissing(value) {
			continue
		}
		if !copied {
			clean = make(map[string]any, len(data))
			for k, v := range data {
				clean[k] = v
			}
			copied = true
		}
		delete(clean, key)
	}
	return clean
}

func asAnyMap(data any) (map[string]any, bool) {
	if m, ok := data.(map[string]any); ok {
		return m, true
	}
	if data == nil {
		return nil, false
	}
	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func asAnySlice(data any) ([]any, bool) {
	if items, ok := data.([]any); ok {
		return items, true
	}
	if data == nil {
		return nil, false
	}
	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

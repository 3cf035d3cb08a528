package bridge

import (
	"errors"
	"sort"

	"github.com/goliatone/go-schemabridge/pkg/engine"
)

// loadPartial validates a deliberately incomplete input. The engine has no
// native notion of a partial document, so the bridge completes the mapping
// with defaults (nil where none exists), runs full validation, then filters
// both the result and any errors down to the fields the caller actually
// provided. Fields excused by the mode may be absent; required fields outside
// it still must appear.
func (s *Schema) loadPartial(working map[string]any, cfg loadConfig) (any, error) {
	acc := map[string][]string{}
	provided := s.providedFields(working)

	for _, name := range s.order {
		field := s.fields[name]
		if field.DumpOnly {
			continue
		}
		if _, ok := provided[name]; ok {
			continue
		}
		if cfg.partial.allows(name) || !field.Required {
			continue
		}
		acc[name] = append(acc[name], msgMissingRequired)
	}

	// Missing-required failures stop the pipeline before the engine or any
	// custom validator runs.
	if len(acc) > 0 {
		return nil, newError(acc, working, validAgainst(provided, acc))
	}

	if s.class.model == nil {
		s.runFieldValidators(provided, acc)
		s.runSchemaValidators(provided, acc)
		if len(acc) > 0 {
			return nil, newError(acc, working, validAgainst(provided, acc))
		}
		return provided, nil
	}

	completed := s.completeForValidation(working)
	inst, err := s.class.model.Validate(completed)
	if err != nil {
		var failure *engine.Failure
		if !errors.As(err, &failure) {
			return nil, err
		}
		// Only errors on fields the caller provided count; complaints about
		// the filler values are an artifact of completion.
		for _, detail := range failure.Details {
			top := detail.TopField()
			if _, ok := provided[top]; !ok {
				continue
			}
			acc[top] = append(acc[top], messageFor(detail, s.class.model))
		}
	}

	// Custom validators still run under partial, over the provided fields
	// only, coerced where the engine accepted them.
	values := make(map[string]any, len(provided))
	for name, raw := range provided {
		values[name] = raw
		if inst != nil {
			if v, ok := inst.Get(name); ok {
				values[name] = v
			}
		}
	}
	s.runFieldValidators(values, acc)
	s.runSchemaValidators(values, acc)

	if len(acc) > 0 {
		return nil, newError(acc, working, validAgainst(provided, acc))
	}

	providedNames := make([]string, 0, len(provided))
	for name := range provided {
		providedNames = append(providedNames, name)
	}
	sort.Strings(providedNames)

	if cfg.asMap {
		return values, nil
	}
	return s.class.model.Construct(values, providedNames), nil
}

// providedFields resolves the input keys to bound field names, honoring
// data-key and alias spellings, and returns name→raw value.
func (s *Schema) providedFields(working map[string]any) map[string]any {
	provided := make(map[string]any, len(working))
	for _, name := range s.order {
		field := s.fields[name]
		if field.DumpOnly {
			continue
		}
		if value, ok := working[name]; ok {
			provided[name] = value
			continue
		}
		if field.DataKey != "" {
			if value, ok := working[field.DataKey]; ok {
				provided[name] = value
			}
		}
	}
	return provided
}

// completeForValidation copies the input and fills every absent declared
// field with its default, or nil when it has none, so full validation can
// run over it.
func (s *Schema) completeForValidation(working map[string]any) map[string]any {
	completed := make(map[string]any, len(working))
	for key, value := range working {
		completed[key] = value
	}
	for _, meta := range s.class.model.Descriptor().Fields {
		if _, ok := completed[meta.Name]; ok {
			continue
		}
		if meta.Alias != "" {
			if _, ok := completed[meta.Alias]; ok {
				continue
			}
		}
		switch {
		case !engine.IsUndefined(meta.Default):
			completed[meta.Name] = meta.Default
		case meta.DefaultFactory != nil:
			completed[meta.Name] = meta.DefaultFactory()
		default:
			completed[meta.Name] = nil
		}
	}
	return completed
}

// validAgainst returns the provided entries whose field has no recorded
// error.
func validAgainst(provided map[string]any, acc map[string][]string) map[string]any {
	valid := make(map[string]any, len(provided))
	for name, value := range provided {
		if _, bad := acc[name]; bad {
			continue
		}
		valid[name] = value
	}
	return valid
}

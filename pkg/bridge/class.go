package bridge

import (
	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// Class is a synthesized schema class: the bound model, the converted field
// descriptor set, and the validator/hook registries. Classes are immutable
// once constructed and safe for concurrent use.
type Class struct {
	model   engine.Model
	name    string
	unknown serde.Unknown
	exclude []string

	order  []string
	fields map[string]*serde.Field

	fieldValidators  map[string][]serde.FieldValidator
	schemaValidators []schemaValidatorEntry

	preLoad  []serde.LoadHook
	postLoad []serde.PostLoadHook
	preDump  []serde.DumpHook
	postDump []serde.DumpHook
}

// NewClass runs the two-phase class construction: phase one computes the
// synthesized descriptor set for the bound model (honoring only the
// include-style whitelist; exclusion is deferred to instance binding), phase
// two assembles the class with its merged validator registry. Explicit
// WithField declarations are authoritative and suppress synthesis entirely.
// Without a determinable model the class is an ordinary schema with only the
// explicitly declared fields.
func NewClass(opts ...ClassOption) *Class {
	cfg := newClassConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return newClassFromConfig(cfg, newSynthesizer())
}

func newClassFromConfig(cfg *classConfig, synth *synthesizer) *Class {
	cls := &Class{
		model:            cfg.model,
		name:             cfg.name,
		unknown:          cfg.unknown,
		exclude:          append([]string(nil), cfg.exclude...),
		schemaValidators: append([]schemaValidatorEntry(nil), cfg.schemaValidators...),
		preLoad:          cfg.preLoad,
		postLoad:         cfg.postLoad,
		preDump:          cfg.preDump,
		postDump:         cfg.postDump,
	}

	switch {
	case len(cfg.declared) > 0:
		// Pre-filtered fields were injected directly; they are already
		// filtered, so nothing more is synthesized.
		cls.order = append([]string(nil), cfg.declaredOrder...)
		cls.fields = make(map[string]*serde.Field, len(cfg.declared))
		for name, field := range cfg.declared {
			cls.fields[name] = field
		}
	case cfg.model != nil:
		cls.order, cls.fields = synth.synthesize(cfg.model, cfg.include, nil, cfg.includeComputed)
	default:
		cls.fields = map[string]*serde.Field{}
	}

	if cls.name == "" {
		if cfg.model != nil {
			cls.name = cfg.model.Descriptor().Name + "Schema"
		} else {
			cls.name = "Schema"
		}
	}

	if cfg.transform != nil {
		for _, name := range cls.order {
			cfg.transform(name, cls.fields[name])
		}
	}

	cls.fieldValidators = mergeFieldValidators(cfg, cls.model)
	cls.schemaValidators = append(cls.schemaValidators, legacySchemaValidatorsFor(cls.model)...)

	return cls
}

// mergeFieldValidators folds the option-registered validators and the
// package-level legacy registry into one mapping, consulted by a single
// invocation step during load. Both registration mechanisms remain
// supported; only one code path runs them.
func mergeFieldValidators(cfg *classConfig, model engine.Model) map[string][]serde.FieldValidator {
	merged := make(map[string][]serde.FieldValidator, len(cfg.fieldValidators))
	for _, field := range cfg.validatorOrder {
		merged[field] = append(merged[field], cfg.fieldValidators[field]...)
	}
	for field, fns := range legacyFieldValidatorsFor(model) {
		merged[field] = append(merged[field], fns...)
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Model returns the bound model handle, nil for plain schemas.
func (c *Class) Model() engine.Model { return c.model }

// FieldOrder returns field names in declaration order, regular fields first,
// computed fields appended.
func (c *Class) FieldOrder() []string { return c.order }

// Fields returns the field descriptor mapping. Callers must not mutate it.
func (c *Class) Fields() map[string]*serde.Field { return c.fields }

// Unknown returns the class-level unknown-field policy.
func (c *Class) Unknown() serde.Unknown { return c.unknown }

// WrapNested adapts a raw nested value into an engine instance when the
// bound model can, so nested struct values serialize through their schema
// instead of passing through opaque.
func (c *Class) WrapNested(obj any) (engine.Instance, bool) {
	type tryWrapper interface {
		TryWrap(obj any) (engine.Instance, bool)
	}
	if w, ok := c.model.(tryWrapper); ok {
		return w.TryWrap(obj)
	}
	return nil, false
}

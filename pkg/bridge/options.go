package bridge

import (
	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// PartialMode controls which required fields may legitimately be absent from
// input during a load.
type PartialMode struct {
	all    bool
	fields []string
}

// PartialAll allows every field to be absent.
func PartialAll() PartialMode { return PartialMode{all: true} }

// PartialOf allows only the named fields to be absent.
func PartialOf(fields ...string) PartialMode {
	return PartialMode{fields: append([]string(nil), fields...)}
}

// Enabled reports whether partial loading is active at all.
func (p PartialMode) Enabled() bool { return p.all || len(p.fields) > 0 }

func (p PartialMode) allows(name string) bool {
	if p.all {
		return true
	}
	for _, field := range p.fields {
		if field == name {
			return true
		}
	}
	return false
}

// schemaValidatorEntry pairs a schema validator with its skip behavior.
type schemaValidatorEntry struct {
	fn                serde.SchemaValidator
	skipOnFieldErrors bool
}

// classConfig accumulates ClassOption settings before construction.
type classConfig struct {
	model           engine.Model
	name            string
	unknown         serde.Unknown
	include         []string
	exclude         []string
	includeComputed bool

	declared      map[string]*serde.Field
	declaredOrder []string

	fieldValidators  map[string][]serde.FieldValidator
	validatorOrder   []string
	schemaValidators []schemaValidatorEntry

	preLoad  []serde.LoadHook
	postLoad []serde.PostLoadHook
	preDump  []serde.DumpHook
	postDump []serde.DumpHook

	transform func(name string, field *serde.Field)
}

func newClassConfig() *classConfig {
	return &classConfig{
		unknown:         serde.Raise,
		includeComputed: true,
	}
}

// cacheable reports whether the configuration can be canonicalized into a
// cache key. Function-valued options (validators, hooks, transforms) and
// explicit field declarations make two configurations incomparable, so such
// classes bypass the cache silently.
func (c *classConfig) cacheable() bool {
	return c.transform == nil &&
		len(c.declared) == 0 &&
		len(c.fieldValidators) == 0 &&
		len(c.schemaValidators) == 0 &&
		len(c.preLoad) == 0 && len(c.postLoad) == 0 &&
		len(c.preDump) == 0 && len(c.postDump) == 0
}

// ClassOption customises schema class construction.
type ClassOption func(*classConfig)

// WithModel binds the validation-engine model the class derives its fields
// from. Without a model the class behaves as a plain framework schema.
func WithModel(model engine.Model) ClassOption {
	return func(c *classConfig) { c.model = model }
}

// WithName overrides the synthesized class name (default "<Model>Schema").
func WithName(name string) ClassOption {
	return func(c *classConfig) { c.name = name }
}

// WithUnknown sets the class-level unknown-field policy. The default is
// serde.Raise, matching the engine's strict posture.
func WithUnknown(policy serde.Unknown) ClassOption {
	return func(c *classConfig) { c.unknown = policy }
}

// WithFields whitelists the declared fields to synthesize. Applied during
// synthesis, before anything else sees the field set.
func WithFields(names ...string) ClassOption {
	return func(c *classConfig) { c.include = append(c.include, names...) }
}

// WithExclude blacklists fields. Deliberately deferred to instance binding:
// the framework applies exclusion after all fields are declared, and
// applying it during synthesis as well would be order-dependent.
func WithExclude(names ...string) ClassOption {
	return func(c *classConfig) { c.exclude = append(c.exclude, names...) }
}

// WithoutComputed skips computed properties during synthesis.
func WithoutComputed() ClassOption {
	return func(c *classConfig) { c.includeComputed = false }
}

// WithField declares a field explicitly. Explicit declarations are
// authoritative: when any are present the class synthesizes nothing and uses
// only what was declared, mirroring classes built from pre-filtered field
// sets.
func WithField(name string, field *serde.Field) ClassOption {
	return func(c *classConfig) {
		if c.declared == nil {
			c.declared = make(map[string]*serde.Field)
		}
		if _, exists := c.declared[name]; !exists {
			c.declaredOrder = append(c.declaredOrder, name)
		}
		c.declared[name] = field
	}
}

// WithFieldValidator registers a field-level validator, invoked in
// registration order during load step four.
func WithFieldValidator(field string, fn serde.FieldValidator) ClassOption {
	return func(c *classConfig) {
		if c.fieldValidators == nil {
			c.fieldValidators = make(map[string][]serde.FieldValidator)
		}
		if _, exists := c.fieldValidators[field]; !exists {
			c.validatorOrder = append(c.validatorOrder, field)
		}
		c.fieldValidators[field] = append(c.fieldValidators[field], fn)
	}
}

// WithSchemaValidator registers a schema-level validator that is skipped
// when field-level errors already exist, so cross-field checks can assume
// clean per-field data.
func WithSchemaValidator(fn serde.SchemaValidator) ClassOption {
	return func(c *classConfig) {
		c.schemaValidators = append(c.schemaValidators, schemaValidatorEntry{fn: fn, skipOnFieldErrors: true})
	}
}

// WithSchemaValidatorAlways registers a schema-level validator that runs
// even when field-level errors exist.
func WithSchemaValidatorAlways(fn serde.SchemaValidator) ClassOption {
	return func(c *classConfig) {
		c.schemaValidators = append(c.schemaValidators, schemaValidatorEntry{fn: fn, skipOnFieldErrors: false})
	}
}

// WithPreLoad appends a pre-load hook.
func WithPreLoad(hook serde.LoadHook) ClassOption {
	return func(c *classConfig) { c.preLoad = append(c.preLoad, hook) }
}

// WithPostLoad appends a post-load hook.
func WithPostLoad(hook serde.PostLoadHook) ClassOption {
	return func(c *classConfig) { c.postLoad = append(c.postLoad, hook) }
}

// WithPreDump appends a pre-dump hook.
func WithPreDump(hook serde.DumpHook) ClassOption {
	return func(c *classConfig) { c.preDump = append(c.preDump, hook) }
}

// WithPostDump appends a post-dump hook.
func WithPostDump(hook serde.DumpHook) ClassOption {
	return func(c *classConfig) { c.postDump = append(c.postDump, hook) }
}

// WithFieldTransform applies fn to every synthesized field descriptor. A
// transform makes the options non-canonical, so the class cache is bypassed
// for this construction.
func WithFieldTransform(fn func(name string, field *serde.Field)) ClassOption {
	return func(c *classConfig) { c.transform = fn }
}

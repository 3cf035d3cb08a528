package bridge

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// Framework-compatible message strings; downstream tooling matches on them.
const (
	msgUnknownField    = "Unknown field."
	msgMissingRequired = "Missing data for required field."
	msgExpectedList    = "Expected a list."
	msgInvalidInput    = "Invalid input type."
	msgInvalidJSON     = "Invalid JSON document."
)

// Schema is one call-site instance of a Class: the bound class plus
// instance-level filtering overrides, partial mode, unknown-policy override
// and the context bag. Instances are cheap and not cached.
type Schema struct {
	class *Class

	only        map[string]struct{}
	excludeOpt  map[string]struct{}
	loadOnly    map[string]struct{}
	dumpOnly    map[string]struct{}
	partial     PartialMode
	unknown     serde.Unknown
	many        bool
	context     serde.Context
	onError     func(err error, data any)
	onBindField func(name string, field *serde.Field)

	order  []string
	fields map[string]*serde.Field
}

// Option customises a schema instance.
type Option func(*Schema)

// Only restricts the instance to the named fields.
func Only(names ...string) Option {
	return func(s *Schema) { s.only = nameSet(names) }
}

// Exclude removes the named fields from the instance. Combined with the
// class-level blacklist; this is where deferred exclusion is finally
// applied, exactly once.
func Exclude(names ...string) Option {
	return func(s *Schema) { s.excludeOpt = nameSet(names) }
}

// LoadOnly marks fields as input-only: they never appear in dump output.
func LoadOnly(names ...string) Option {
	return func(s *Schema) { s.loadOnly = nameSet(names) }
}

// DumpOnly marks fields as output-only: they never accept input.
func DumpOnly(names ...string) Option {
	return func(s *Schema) { s.dumpOnly = nameSet(names) }
}

// Partial sets the instance-level partial mode.
func Partial(mode PartialMode) Option {
	return func(s *Schema) { s.partial = mode }
}

// UnknownPolicy overrides the class-level unknown-field policy.
func UnknownPolicy(policy serde.Unknown) Option {
	return func(s *Schema) { s.unknown = policy }
}

// Many makes the instance expect collections by default.
func Many() Option {
	return func(s *Schema) { s.many = true }
}

// Context seeds the context bag visible to hooks and validators.
func Context(ctx serde.Context) Option {
	return func(s *Schema) { s.context = ctx }
}

// OnError installs an error-observation hook invoked with every validation
// failure before it is returned. Observation only; the error propagates
// regardless.
func OnError(fn func(err error, data any)) Option {
	return func(s *Schema) { s.onError = fn }
}

// BindField installs a per-field binding callback, invoked once per bound
// field at construction. The callback receives the instance's own copy of
// the descriptor and may adjust it.
func BindField(fn func(name string, field *serde.Field)) Option {
	return func(s *Schema) { s.onBindField = fn }
}

// New instantiates the class, applying instance options and binding the
// filtered field set.
func (c *Class) New(opts ...Option) *Schema {
	s := &Schema{class: c, context: serde.Context{}}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.bind()
	return s
}

func (s *Schema) bind() {
	exclude := make(map[string]struct{}, len(s.class.exclude)+len(s.excludeOpt))
	for _, name := range s.class.exclude {
		exclude[name] = struct{}{}
	}
	for name := range s.excludeOpt {
		exclude[name] = struct{}{}
	}

	s.order = make([]string, 0, len(s.class.order))
	s.fields = make(map[string]*serde.Field, len(s.class.order))

	for _, name := range s.class.order {
		if s.only != nil {
			if _, keep := s.only[name]; !keep {
				continue
			}
		}
		if _, skip := exclude[name]; skip {
			continue
		}

		field := s.class.fields[name]
		_, markLoadOnly := s.loadOnly[name]
		_, markDumpOnly := s.dumpOnly[name]
		if markLoadOnly || markDumpOnly || s.onBindField != nil {
			field = field.Clone()
			field.LoadOnly = field.LoadOnly || markLoadOnly
			field.DumpOnly = field.DumpOnly || markDumpOnly
		}
		if s.onBindField != nil {
			s.onBindField(name, field)
		}

		s.order = append(s.order, name)
		s.fields[name] = field
	}
}

// Class returns the schema's class.
func (s *Schema) Class() *Class { return s.class }

// Fields returns the instance's bound field descriptors.
func (s *Schema) Fields() map[string]*serde.Field { return s.fields }

// FieldOrder returns the instance's bound field names in order.
func (s *Schema) FieldOrder() []string { return s.order }

// Context returns the context bag.
func (s *Schema) Context() serde.Context { return s.context }

// SetContext replaces the context bag.
func (s *Schema) SetContext(ctx serde.Context) { s.context = ctx }

// Validate loads without surfacing the result, returning the messages
// mapping instead of an error: empty when the input is valid.
func (s *Schema) Validate(data any, opts ...LoadOption) map[string][]string {
	if _, err := s.Load(data, opts...); err != nil {
		var verr serde.ValidationError
		if errors.As(err, &verr) {
			return verr.Messages()
		}
		return map[string][]string{serde.SchemaErrorKey: {err.Error()}}
	}
	return map[string][]string{}
}

// Loads decodes a JSON document and loads it.
func (s *Schema) Loads(doc string, opts ...LoadOption) (any, error) {
	if !gjson.Valid(doc) {
		return nil, s.observe(newError(map[string][]string{
			serde.SchemaErrorKey: {msgInvalidJSON},
		}, doc, nil), doc)
	}
	return s.Load(gjson.Parse(doc).Value(), opts...)
}

// Dumps serializes an object and encodes the result as JSON.
func (s *Schema) Dumps(obj any, opts ...DumpOption) (string, error) {
	result, err := s.Dump(obj, opts...)
	if err != nil {
		return "", err
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// observe runs the error hook, then hands the error back for returning.
func (s *Schema) observe(err error, data any) error {
	if s.onError != nil {
		s.onError(err, data)
	}
	return err
}

package bridge

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-schemabridge/internal/fieldconv"
	"github.com/goliatone/go-schemabridge/internal/typemap"
	"github.com/goliatone/go-schemabridge/pkg/engine"
	"github.com/goliatone/go-schemabridge/pkg/serde"
)

// classCache memoizes synthesized classes by (model, canonical options).
// Write-once per key, never evicted: the key space is bounded by the number
// of distinct model/option pairs a program uses, not by request volume.
// LoadOrStore keeps concurrent synthesis safe — a racing duplicate wastes
// one allocation and loses.
var classCache sync.Map // classKey → *Class

type classKey struct {
	model   engine.Model
	options string
}

// SchemaFor builds (or returns the cached) schema class for a model. Two
// calls with the same model and equal options — regardless of option
// ordering — return the identical class object. Configurations carrying
// function-valued options cannot be canonicalized and silently skip the
// cache.
func SchemaFor(model engine.Model, opts ...ClassOption) *Class {
	cfg := newClassConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	cfg.model = model

	if !cfg.cacheable() {
		return newClassFromConfig(cfg, newSynthesizer())
	}

	key := classKey{model: model, options: cfg.canonical()}
	if cached, ok := classCache.Load(key); ok {
		return cached.(*Class)
	}
	cls := newClassFromConfig(cfg, newSynthesizer())
	actual, _ := classCache.LoadOrStore(key, cls)
	return actual.(*Class)
}

// canonical renders the cacheable options as a deterministic key fragment.
func (c *classConfig) canonical() string {
	var b strings.Builder
	b.WriteString("name=")
	b.WriteString(c.name)
	b.WriteString(";unknown=")
	b.WriteString(string(c.unknown))
	b.WriteString(";fields=")
	b.WriteString(strings.Join(sortedCopy(c.include), ","))
	b.WriteString(";exclude=")
	b.WriteString(strings.Join(sortedCopy(c.exclude), ","))
	if !c.includeComputed {
		b.WriteString(";computed=off")
	}
	return b.String()
}

func sortedCopy(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// synthesizer runs one synthesis pass. Its active set tracks models
// currently mid-synthesis so self-referential and mutually-recursive models
// terminate: the cyclic edge degrades to a raw field, everything else keeps
// its full description.
type synthesizer struct {
	active map[engine.Model]struct{}
}

func newSynthesizer() *synthesizer {
	return &synthesizer{active: make(map[engine.Model]struct{})}
}

// synthesize enumerates the model's declared fields in declaration order
// under the include/exclude filters, converting each, then appends computed
// properties under the same filters.
func (s *synthesizer) synthesize(model engine.Model, include, exclude []string, includeComputed bool) ([]string, map[string]*serde.Field) {
	s.active[model] = struct{}{}
	defer delete(s.active, model)

	mapper := typemap.New(s)
	includeSet := nameSet(include)
	excludeSet := nameSet(exclude)
	desc := model.Descriptor()

	order := make([]string, 0, len(desc.Fields)+len(desc.Computed))
	fields := make(map[string]*serde.Field, len(desc.Fields)+len(desc.Computed))

	admit := func(name string) bool {
		if _, skip := excludeSet[name]; skip {
			return false
		}
		if includeSet != nil {
			_, keep := includeSet[name]
			return keep
		}
		return true
	}

	for _, meta := range desc.Fields {
		if !admit(meta.Name) {
			continue
		}
		order = append(order, meta.Name)
		fields[meta.Name] = fieldconv.Convert(meta, mapper)
	}

	if includeComputed {
		for _, meta := range desc.Computed {
			if !admit(meta.Name) {
				continue
			}
			order = append(order, meta.Name)
			fields[meta.Name] = fieldconv.ConvertComputed(meta, mapper)
		}
	}

	return order, fields
}

// BuildNested satisfies typemap.NestedBuilder. Nested schemas are
// synthesized with default options and share this pass's active set, so a
// model referenced while already being synthesized reports a cycle.
func (s *synthesizer) BuildNested(model engine.Model) (serde.NestedSchema, bool) {
	if _, busy := s.active[model]; busy {
		return nil, false
	}

	key := classKey{model: model, options: defaultCanonical}
	if cached, ok := classCache.Load(key); ok {
		return cached.(*Class), true
	}
	cfg := newClassConfig()
	cfg.model = model
	cls := newClassFromConfig(cfg, s)
	actual, _ := classCache.LoadOrStore(key, cls)
	return actual.(*Class), true
}

var defaultCanonical = newClassConfig().canonical()

func nameSet(names []string) map[string]struct{} {
	if names == nil {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// fieldNameCache holds, per model, the accepted input keys (declared field
// names plus wire aliases) mapped to their canonical field name, consulted on
// the unknown-policy hot path.
var fieldNameCache sync.Map // engine.Model → map[string]string

func declaredNames(model engine.Model) map[string]string {
	if cached, ok := fieldNameCache.Load(model); ok {
		return cached.(map[string]string)
	}
	desc := model.Descriptor()
	names := make(map[string]string, len(desc.Fields)*2)
	for _, meta := range desc.Fields {
		names[meta.Name] = meta.Name
		if meta.Alias != "" {
			names[meta.Alias] = meta.Name
		}
	}
	actual, _ := fieldNameCache.LoadOrStore(model, names)
	return actual.(map[string]string)
}

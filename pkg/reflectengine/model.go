package reflectengine

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-schemabridge/pkg/engine"
)

// Model is the reflection-backed engine.Model for one struct type. Models are
// built once per type and cached; all methods are safe for concurrent use.
type Model struct {
	typ  reflect.Type
	desc *engine.Descriptor

	rules      map[string]rules
	fieldIndex map[string][]int
	computed   map[string]int
}

type rules struct {
	min, max       *float64
	minLen, maxLen *int
	pattern        *regexp.Regexp
}

var modelCache sync.Map // reflect.Type → *Model

// ModelFor returns the cached model for the struct type T.
func ModelFor[T any]() *Model {
	return ModelOf(reflect.TypeOf((*T)(nil)).Elem())
}

// ModelOf returns the cached model for a struct type, dereferencing a pointer
// type first. It panics on non-struct types; models describe shapes, and a
// non-struct shape is a programming error.
func ModelOf(t reflect.Type) *Model {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("reflectengine: %s is not a struct type", t))
	}
	return modelOf(t, map[reflect.Type]*Model{})
}

// modelOf resolves a struct type to its model, threading the in-progress set
// so self-referential types terminate: a type already being built returns its
// placeholder, whose descriptor is completed by the outer call.
func modelOf(t reflect.Type, seen map[reflect.Type]*Model) *Model {
	if cached, ok := modelCache.Load(t); ok {
		return cached.(*Model)
	}
	if building, ok := seen[t]; ok {
		return building
	}

	m := &Model{
		typ:        t,
		desc:       &engine.Descriptor{Name: t.Name()},
		rules:      map[string]rules{},
		fieldIndex: map[string][]int{},
		computed:   map[string]int{},
	}
	seen[t] = m
	m.scanFields(t, nil, seen)
	m.scanComputed()

	actual, _ := modelCache.LoadOrStore(t, m)
	return actual.(*Model)
}

func (m *Model) scanFields(t reflect.Type, prefix []int, seen map[reflect.Type]*Model) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			m.scanFields(sf.Type, index, seen)
			continue
		}
		if !sf.IsExported() {
			continue
		}

		name, alias, skip := parseBridgeTag(sf)
		if skip {
			continue
		}

		expr := typeExprOf(sf.Type, seen)
		meta := engine.FieldMeta{
			Name:          name,
			Type:          expr,
			Default:       engine.Undefined,
			Alias:         alias,
			ErrorMessages: parseErrmsgTag(sf.Tag.Get("errmsg")),
		}
		if raw, ok := sf.Tag.Lookup("default"); ok {
			meta.Default = parseDefault(raw, expr)
		}
		if r, ok := parseValidateTag(sf.Tag.Get("validate")); ok {
			m.rules[name] = r
		}

		m.desc.Fields = append(m.desc.Fields, meta)
		m.fieldIndex[name] = index
	}
}

// scanComputed promotes pointer-receiver methods named ComputedXxx with a
// single return value to computed properties named xxx.
func (m *Model) scanComputed() {
	ptr := reflect.PointerTo(m.typ)
	for i := 0; i < ptr.NumMethod(); i++ {
		method := ptr.Method(i)
		if !strings.HasPrefix(method.Name, "Computed") || len(method.Name) == len("Computed") {
			continue
		}
		if method.Type.NumIn() != 1 || method.Type.NumOut() != 1 {
			continue
		}
		name := snakeCase(strings.TrimPrefix(method.Name, "Computed"))
		m.desc.Computed = append(m.desc.Computed, engine.ComputedMeta{
			Name:   name,
			Return: typeExprOf(method.Type.Out(0), map[reflect.Type]*Model{}),
		})
		m.computed[name] = i
	}
}

// Descriptor implements engine.Model.
func (m *Model) Descriptor() *engine.Descriptor { return m.desc }

// Type returns the underlying struct type.
func (m *Model) Type() reflect.Type { return m.typ }

func parseBridgeTag(sf reflect.StructField) (name, alias string, skip bool) {
	name = snakeCase(sf.Name)
	tag := sf.Tag.Get("bridge")
	if tag == "" {
		return name, "", false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		return "", "", true
	}
	if parts[0] != "" {
		name = parts[0]
	}
	for _, part := range parts[1:] {
		if value, ok := strings.CutPrefix(part, "alias="); ok {
			alias = value
		}
	}
	return name, alias, false
}

func parseValidateTag(tag string) (rules, bool) {
	if tag == "" {
		return rules{}, false
	}
	var r rules
	any := false
	for _, part := range strings.Split(tag, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch key {
		case "min":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				r.min, any = &f, true
			}
		case "max":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				r.max, any = &f, true
			}
		case "minlen":
			if n, err := strconv.Atoi(value); err == nil {
				r.minLen, any = &n, true
			}
		case "maxlen":
			if n, err := strconv.Atoi(value); err == nil {
				r.maxLen, any = &n, true
			}
		case "pattern":
			if re, err := regexp.Compile(value); err == nil {
				r.pattern, any = re, true
			}
		}
	}
	return r, any
}

func parseErrmsgTag(tag string) map[string]string {
	if tag == "" {
		return nil
	}
	messages := map[string]string{}
	for _, part := range strings.Split(tag, ";") {
		key, msg, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		messages[strings.TrimSpace(key)] = strings.TrimSpace(msg)
	}
	if len(messages) == 0 {
		return nil
	}
	return messages
}

func parseDefault(raw string, expr engine.TypeExpr) any {
	kind := expr.Kind
	if expr.IsOptional() {
		variants := expr.NonNoneVariants()
		if len(variants) == 1 {
			kind = variants[0].Kind
		}
	}
	switch kind {
	case engine.KindInt:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	case engine.KindFloat:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case engine.KindBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case engine.KindNone:
		return nil
	}
	if raw == "nil" || raw == "null" {
		return nil
	}
	return raw
}

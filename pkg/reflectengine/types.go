package reflectengine

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-schemabridge/pkg/engine"
)

// Email is a string field validated as an email address.
type Email string

// URL is a string field validated as an absolute URL.
type URL string

// IP is a string field validated as an IPv4 or IPv6 address.
type IP string

// Enumerated marks a named type as an enumeration. Values returns the
// accepted wire values; String must render the current value as one of them.
type Enumerated interface {
	EnumValues() []string
	String() string
}

var (
	timeType       = reflect.TypeOf(time.Time{})
	uuidType       = reflect.TypeOf(uuid.UUID{})
	emailType      = reflect.TypeOf(Email(""))
	urlType        = reflect.TypeOf(URL(""))
	ipType         = reflect.TypeOf(IP(""))
	enumeratedType = reflect.TypeOf((*Enumerated)(nil)).Elem()
)

// typeExprOf translates a Go type into the engine's type algebra. Pointers
// become optional unions; named string subtypes keep their identity so the
// mapper can specialize them.
func typeExprOf(t reflect.Type, seen map[reflect.Type]*Model) engine.TypeExpr {
	switch t {
	case timeType:
		return engine.TypeExpr{Kind: engine.KindTime}
	case uuidType:
		return engine.TypeExpr{Kind: engine.KindNamed, Name: "UUID", Underlying: engine.KindString}
	case emailType:
		return engine.TypeExpr{Kind: engine.KindNamed, Name: "Email", Underlying: engine.KindString}
	case urlType:
		return engine.TypeExpr{Kind: engine.KindNamed, Name: "URL", Underlying: engine.KindString}
	case ipType:
		return engine.TypeExpr{Kind: engine.KindNamed, Name: "IP", Underlying: engine.KindString}
	}

	// Value-receiver methods promote to the pointer type, so a *Color would
	// match Enumerated here; pointers must take the optional branch first or
	// EnumValues runs through a nil receiver.
	if t.Kind() != reflect.Pointer && t.Implements(enumeratedType) {
		zero := reflect.Zero(t).Interface().(Enumerated)
		names := zero.EnumValues()
		values := make([]any, len(names))
		for i, name := range names {
			values[i] = name
		}
		return engine.TypeExpr{
			Kind: engine.KindEnum,
			Enum: &engine.EnumType{Name: t.Name(), Values: values},
		}
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner := typeExprOf(t.Elem(), seen)
		return engine.Optional(inner)
	case reflect.String:
		return engine.TypeExpr{Kind: engine.KindString}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return engine.TypeExpr{Kind: engine.KindInt}
	case reflect.Float32, reflect.Float64:
		return engine.TypeExpr{Kind: engine.KindFloat}
	case reflect.Bool:
		return engine.TypeExpr{Kind: engine.KindBool}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return engine.TypeExpr{Kind: engine.KindBytes}
		}
		elem := typeExprOf(t.Elem(), seen)
		return engine.TypeExpr{Kind: engine.KindList, Elem: &elem}
	case reflect.Array:
		elem := typeExprOf(t.Elem(), seen)
		variants := make([]engine.TypeExpr, t.Len())
		for i := range variants {
			variants[i] = elem
		}
		return engine.TypeExpr{Kind: engine.KindTuple, Variants: variants}
	case reflect.Map:
		key := typeExprOf(t.Key(), seen)
		value := typeExprOf(t.Elem(), seen)
		return engine.TypeExpr{Kind: engine.KindMap, Key: &key, Value: &value}
	case reflect.Struct:
		return engine.TypeExpr{Kind: engine.KindModel, Model: modelOf(t, seen)}
	case reflect.Interface:
		return engine.TypeExpr{Kind: engine.KindAny}
	default:
		return engine.TypeExpr{Kind: engine.KindAny}
	}
}

// snakeCase converts an exported Go name to its wire spelling: UserID →
// user_id, HTTPPort → http_port.
func snakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	runes := []rune(name)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			prevLower := i > 0 && isLower(runes[i-1])
			nextLower := i+1 < len(runes) && isLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

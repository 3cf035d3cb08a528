package reflectengine

import (
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-schemabridge/pkg/engine"
)

// Validate implements engine.Model: it coerces and checks every field,
// accumulating all error details rather than stopping at the first, and
// materializes a typed instance on success.
func (m *Model) Validate(data map[string]any) (engine.Instance, error) {
	ptr := reflect.New(m.typ)
	var (
		details   []engine.ErrorDetail
		fieldsSet []string
	)

	for _, meta := range m.desc.Fields {
		value, present := lookupField(data, meta)
		if !present {
			switch {
			case !engine.IsUndefined(meta.Default):
				value = meta.Default
			case meta.DefaultFactory != nil:
				value = meta.DefaultFactory()
			case meta.Type.IsOptional():
				value = nil
			default:
				details = append(details, engine.ErrorDetail{
					Loc:     []any{meta.Name},
					Message: "Field required",
					Type:    "missing",
				})
				continue
			}
		} else {
			fieldsSet = append(fieldsSet, meta.Name)
		}

		target := ptr.Elem().FieldByIndex(m.fieldIndex[meta.Name])
		loc := []any{meta.Name}
		if errs := assign(target, meta.Type, value, loc); len(errs) > 0 {
			details = append(details, errs...)
			continue
		}
		details = append(details, checkRules(m.rules[meta.Name], target, loc)...)
	}

	if len(details) > 0 {
		return nil, &engine.Failure{Model: m.desc.Name, Details: details}
	}
	return &instance{model: m, value: ptr, fieldsSet: fieldsSet}, nil
}

// Construct implements engine.Model: it builds an instance from already-vetted
// values without validation. Absent fields take their declared default (or
// stay zero when none exists); values that cannot be coerced leave their
// field at the zero value.
func (m *Model) Construct(values map[string]any, fieldsSet []string) engine.Instance {
	ptr := reflect.New(m.typ)
	for _, meta := range m.desc.Fields {
		value, ok := values[meta.Name]
		if !ok {
			switch {
			case !engine.IsUndefined(meta.Default):
				value = meta.Default
			case meta.DefaultFactory != nil:
				value = meta.DefaultFactory()
			default:
				continue
			}
		}
		target := ptr.Elem().FieldByIndex(m.fieldIndex[meta.Name])
		assign(target, meta.Type, value, nil)
	}
	return &instance{model: m, value: ptr, fieldsSet: append([]string(nil), fieldsSet...)}
}

func lookupField(data map[string]any, meta engine.FieldMeta) (any, bool) {
	if value, ok := data[meta.Name]; ok {
		return value, true
	}
	if meta.Alias != "" {
		if value, ok := data[meta.Alias]; ok {
			return value, true
		}
	}
	return nil, false
}

func detail(loc []any, message, errType string) engine.ErrorDetail {
	return engine.ErrorDetail{Loc: append([]any(nil), loc...), Message: message, Type: errType}
}

// assign coerces value into target per the declared type expression,
// returning every error found under the given location prefix.
func assign(target reflect.Value, expr engine.TypeExpr, value any, loc []any) []engine.ErrorDetail {
	switch expr.Kind {
	case engine.KindUnion:
		return assignUnion(target, expr, value, loc)

	case engine.KindNone:
		if value != nil {
			return []engine.ErrorDetail{detail(loc, "Input should be None", "none_required")}
		}
		return nil

	case engine.KindString:
		s, ok := value.(string)
		if !ok {
			return []engine.ErrorDetail{detail(loc, "Input should be a valid string", "string_type")}
		}
		return setConverted(target, reflect.ValueOf(s), loc)

	case engine.KindInt:
		n, ok := asInt64(value)
		if !ok {
			return []engine.ErrorDetail{detail(loc, "Input should be a valid integer", "int_type")}
		}
		return setInt(target, n, loc)

	case engine.KindFloat:
		f, ok := asFloat64(value)
		if !ok {
			return []engine.ErrorDetail{detail(loc, "Input should be a valid number", "float_type")}
		}
		return setConverted(target, reflect.ValueOf(f), loc)

	case engine.KindBool:
		b, ok := value.(bool)
		if !ok {
			return []engine.ErrorDetail{detail(loc, "Input should be a valid boolean", "bool_type")}
		}
		return setConverted(target, reflect.ValueOf(b), loc)

	case engine.KindBytes:
		switch v := value.(type) {
		case []byte:
			return setConverted(target, reflect.ValueOf(v), loc)
		case string:
			return setConverted(target, reflect.ValueOf([]byte(v)), loc)
		}
		return []engine.ErrorDetail{detail(loc, "Input should be valid bytes", "bytes_type")}

	case engine.KindTime:
		ts, errs := asTime(value, loc)
		if errs != nil {
			return errs
		}
		return setConverted(target, reflect.ValueOf(ts), loc)

	case engine.KindNamed:
		return assignNamed(target, expr, value, loc)

	case engine.KindEnum:
		return assignEnum(target, expr, value, loc)

	case engine.KindModel:
		return assignModel(target, expr, value, loc)

	case engine.KindList, engine.KindSet:
		return assignList(target, expr, value, loc)

	case engine.KindTuple:
		return assignTuple(target, expr, value, loc)

	case engine.KindMap:
		return assignMap(target, expr, value, loc)

	case engine.KindLiteral:
		for _, admitted := range expr.Literals {
			if reflect.DeepEqual(value, admitted) {
				return setAny(target, value, loc)
			}
		}
		return []engine.ErrorDetail{detail(loc, fmt.Sprintf("Input should be one of: %v", expr.Literals), "literal_error")}

	default:
		return setAny(target, value, loc)
	}
}

func assignUnion(target reflect.Value, expr engine.TypeExpr, value any, loc []any) []engine.ErrorDetail {
	if value == nil {
		// Leave the zero value: nil pointer, nil interface, zero scalar.
		return nil
	}
	branches := expr.NonNoneVariants()
	if len(branches) == 1 {
		if target.Kind() == reflect.Pointer {
			elem := reflect.New(target.Type().Elem())
			if errs := assign(elem.Elem(), branches[0], value, loc); len(errs) > 0 {
				return errs
			}
			target.Set(elem)
			return nil
		}
		return assign(target, branches[0], value, loc)
	}
	// Heterogeneous unions land in interface-typed fields; the bridge layer
	// already treats them permissively.
	return setAny(target, value, loc)
}

func assignNamed(target reflect.Value, expr engine.TypeExpr, value any, loc []any) []engine.ErrorDetail {
	switch expr.Name {
	case "UUID":
		switch v := value.(type) {
		case uuid.UUID:
			return setConverted(target, reflect.ValueOf(v), loc)
		case string:
			parsed, err := uuid.Parse(v)
			if err != nil {
				return []engine.ErrorDetail{detail(loc, "Input should be a valid UUID", "uuid_parsing")}
			}
			return setConverted(target, reflect.ValueOf(parsed), loc)
		}
		return []engine.ErrorDetail{detail(loc, "Input should be a valid UUID", "uuid_type")}

	case "Email":
		s, ok := value.(string)
		if ok {
			if _, err := mail.ParseAddress(s); err != nil {
				ok = false
			}
		}
		if !ok {
			return []engine.ErrorDetail{detail(loc, "value is not a valid email address", "value_error")}
		}
		return setConverted(target, reflect.ValueOf(s), loc)

	case "URL":
		s, ok := value.(string)
		if ok {
			parsed, err := url.Parse(s)
			if err != nil || parsed.Scheme == "" || parsed.Host == "" {
				ok = false
			}
		}
		if !ok {
			return []engine.ErrorDetail{detail(loc, "Input should be a valid URL", "url_parsing")}
		}
		return setConverted(target, reflect.ValueOf(s), loc)

	case "IP":
		s, ok := value.(string)
		if !ok || net.ParseIP(s) == nil {
			return []engine.ErrorDetail{detail(loc, "Input should be a valid IP address", "ip_any_parsing")}
		}
		return setConverted(target, reflect.ValueOf(s), loc)
	}

	// Unrecognized named scalar: validate as its underlying shape.
	return assign(target, engine.Scalar(expr.Underlying), value, loc)
}

func assignEnum(target reflect.Value, expr engine.TypeExpr, value any, loc []any) []engine.ErrorDetail {
	rendered := value
	if str, ok := value.(fmt.Stringer); ok {
		rendered = str.String()
	}
	if expr.Enum != nil {
		admitted := false
		for _, v := range expr.Enum.Values {
			if reflect.DeepEqual(rendered, v) {
				admitted = true
				break
			}
		}
		if !admitted {
			return []engine.ErrorDetail{detail(loc, fmt.Sprintf("Input should be one of: %v", expr.Enum.Values), "enum")}
		}
	}
	if s, ok := rendered.(string); ok && target.Kind() == reflect.String {
		target.SetString(s)
		return nil
	}
	return setAny(target, value, loc)
}

func assignModel(target reflect.Value, expr engine.TypeExpr, value any, loc []any) []engine.ErrorDetail {
	sub, ok := expr.Model.(*Model)
	if !ok || sub == nil {
		return setAny(target, value, loc)
	}

	// An already-validated instance or a raw struct value passes through.
	if inst, isInst := value.(*instance); isInst {
		return setConverted(target, inst.value.Elem(), loc)
	}
	rv := reflect.ValueOf(value)
	if rv.IsValid() && rv.Type() == sub.typ {
		return setConverted(target, rv, loc)
	}

	nested, mapOK := anyMap(value)
	if !mapOK {
		return []engine.ErrorDetail{detail(loc, "Input should be a valid dictionary", "model_type")}
	}
	validated, err := sub.Validate(nested)
	if err != nil {
		failure, isFailure := err.(*engine.Failure)
		if !isFailure {
			return []engine.ErrorDetail{detail(loc, err.Error(), "model_error")}
		}
		out := make([]engine.ErrorDetail, 0, len(failure.Details))
		for _, d := range failure.Details {
			out = append(out, engine.ErrorDetail{
				Loc:     append(append([]any(nil), loc...), d.Loc...),
				Message: d.Message,
				Type:    d.Type,
			})
		}
		return out
	}
	return setConverted(target, validated.(*instance).value.Elem(), loc)
}

func assignList(target reflect.Value, expr engine.TypeExpr, value any, loc []any) []engine.ErrorDetail {
	items, ok := anySlice(value)
	if !ok {
		return []engine.ErrorDetail{detail(loc, "Input should be a valid list", "list_type")}
	}
	elemExpr := engine.TypeExpr{Kind: engine.KindAny}
	if expr.Elem != nil {
		elemExpr = *expr.Elem
	}

	out := reflect.MakeSlice(target.Type(), len(items), len(items))
	var details []engine.ErrorDetail
	for i, item := range items {
		details = append(details, assign(out.Index(i), elemExpr, item, append(loc, i))...)
	}
	if len(details) > 0 {
		return details
	}
	target.Set(out)
	return nil
}

func assignTuple(target reflect.Value, expr engine.TypeExpr, value any, loc []any) []engine.ErrorDetail {
	items, ok := anySlice(value)
	if !ok {
		return []engine.ErrorDetail{detail(loc, "Input should be a valid tuple", "tuple_type")}
	}
	if len(expr.Variants) > 0 && len(items) != len(expr.Variants) {
		return []engine.ErrorDetail{detail(loc,
			fmt.Sprintf("Tuple should have %d items after validation, not %d", len(expr.Variants), len(items)),
			"tuple_length")}
	}

	var details []engine.ErrorDetail
	for i, item := range items {
		elemExpr := engine.TypeExpr{Kind: engine.KindAny}
		if i < len(expr.Variants) {
			elemExpr = expr.Variants[i]
		}
		if target.Kind() == reflect.Array && i < target.Len() {
			details = append(details, assign(target.Index(i), elemExpr, item, append(loc, i))...)
		}
	}
	return details
}

func assignMap(target reflect.Value, expr engine.TypeExpr, value any, loc []any) []engine.ErrorDetail {
	entries, ok := anyMap(value)
	if !ok {
		return []engine.ErrorDetail{detail(loc, "Input should be a valid dictionary", "dict_type")}
	}
	valueExpr := engine.TypeExpr{Kind: engine.KindAny}
	if expr.Value != nil {
		valueExpr = *expr.Value
	}

	out := reflect.MakeMapWithSize(target.Type(), len(entries))
	var details []engine.ErrorDetail
	for key, item := range entries {
		elem := reflect.New(target.Type().Elem()).Elem()
		if errs := assign(elem, valueExpr, item, append(loc, key)); len(errs) > 0 {
			details = append(details, errs...)
			continue
		}
		out.SetMapIndex(reflect.ValueOf(key).Convert(target.Type().Key()), elem)
	}
	if len(details) > 0 {
		return details
	}
	target.Set(out)
	return nil
}

func setConverted(target reflect.Value, value reflect.Value, loc []any) []engine.ErrorDetail {
	if value.Type().AssignableTo(target.Type()) {
		target.Set(value)
		return nil
	}
	if value.Type().ConvertibleTo(target.Type()) {
		target.Set(value.Convert(target.Type()))
		return nil
	}
	return []engine.ErrorDetail{detail(loc,
		fmt.Sprintf("Input of type %s cannot be assigned to %s", value.Type(), target.Type()), "assignment")}
}

func setInt(target reflect.Value, n int64, loc []any) []engine.ErrorDetail {
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		target.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 {
			return []engine.ErrorDetail{detail(loc, "Input should be greater than or equal to 0", "greater_than_equal")}
		}
		target.SetUint(uint64(n))
		return nil
	}
	return setConverted(target, reflect.ValueOf(n), loc)
}

func setAny(target reflect.Value, value any, loc []any) []engine.ErrorDetail {
	if value == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	return setConverted(target, reflect.ValueOf(value), loc)
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		// JSON numbers decode as float64; whole values coerce losslessly.
		if v == float64(int64(v)) {
			return int64(v), true
		}
	case float32:
		if float64(v) == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		if n, ok := asInt64(value); ok {
			return float64(n), true
		}
	}
	return 0, false
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func asTime(value any, loc []any) (time.Time, []engine.ErrorDetail) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, []engine.ErrorDetail{detail(loc, "Input should be a valid datetime", "datetime_parsing")}
	}
	return time.Time{}, []engine.ErrorDetail{detail(loc, "Input should be a valid datetime", "datetime_type")}
}

func checkRules(r rules, target reflect.Value, loc []any) []engine.ErrorDetail {
	value := target
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}

	var details []engine.ErrorDetail
	if f, ok := numericValue(value); ok {
		if r.min != nil && f < *r.min {
			details = append(details, detail(loc,
				fmt.Sprintf("Input should be greater than or equal to %v", *r.min), "greater_than_equal"))
		}
		if r.max != nil && f > *r.max {
			details = append(details, detail(loc,
				fmt.Sprintf("Input should be less than or equal to %v", *r.max), "less_than_equal"))
		}
	}
	if value.Kind() == reflect.String {
		s := value.String()
		if r.minLen != nil && len(s) < *r.minLen {
			details = append(details, detail(loc,
				fmt.Sprintf("String should have at least %d characters", *r.minLen), "string_too_short"))
		}
		if r.maxLen != nil && len(s) > *r.maxLen {
			details = append(details, detail(loc,
				fmt.Sprintf("String should have at most %d characters", *r.maxLen), "string_too_long"))
		}
		if r.pattern != nil && !r.pattern.MatchString(s) {
			details = append(details, detail(loc,
				fmt.Sprintf("String should match pattern '%s'", r.pattern), "string_pattern_mismatch"))
		}
	}
	if value.Kind() == reflect.Slice || value.Kind() == reflect.Map {
		n := value.Len()
		if r.minLen != nil && n < *r.minLen {
			details = append(details, detail(loc,
				fmt.Sprintf("Collection should have at least %d items", *r.minLen), "too_short"))
		}
		if r.maxLen != nil && n > *r.maxLen {
			details = append(details, detail(loc,
				fmt.Sprintf("Collection should have at most %d items", *r.maxLen), "too_long"))
		}
	}
	return details
}

func numericValue(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

func anySlice(value any) ([]any, bool) {
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func anyMap(value any) (map[string]any, bool) {
	if entries, ok := value.(map[string]any); ok {
		return entries, true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// Type names a field type in a schema file.
type Type string

// Field types.
const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeBool   Type = "bool"
	TypeTime   Type = "time"
	TypeAny    Type = "any"
)

var goTypes = map[Type]reflect.Type{
	TypeString: reflect.TypeFor[string](),
	TypeInt:    reflect.TypeFor[int](),
	TypeFloat:  reflect.TypeFor[float64](),
	TypeBool:   reflect.TypeFor[bool](),
	TypeTime:   reflect.TypeFor[time.Time](),
	TypeAny:    reflect.TypeFor[any](),
}

// Types returns the recognized type names.
func Types() []Type {
	return []Type{TypeString, TypeInt, TypeFloat, TypeBool, TypeTime, TypeAny}
}

// ParseType resolves a type name. The empty name is TypeAny.
func ParseType(name string) (Type, reflect.Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if t == "" {
		t = TypeAny
	}
	rt, ok := goTypes[t]
	if !ok {
		return "", nil, errors.WithHintf(
			errors.Wrapf(ErrUnknownType, "%q", name),
			"valid types: %s", joinTypes())
	}
	return t, rt, nil
}

func joinTypes() string {
	names := make([]string, 0, len(goTypes))
	for _, t := range Types() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// TypeError reports a record value that cannot be converted to the field's
// declared type.
type TypeError struct {
	Want reflect.Type
	Got  any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("expected %s, got %s", describe(e.Want), describeValue(e.Got))
}

// Coerce converts a decoded record value to the declared Go type. JSON, YAML
// and TOML decoders produce different representations of the same number or
// timestamp; Coerce maps them onto int, float64 and time.Time. A nil value is
// returned unchanged. Unconvertible values yield a *TypeError.
func Coerce(value any, want reflect.Type) (any, error) {
	if value == nil || want == nil || want.Kind() == reflect.Interface {
		return value, nil
	}

	switch want {
	case goTypes[TypeString]:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case goTypes[TypeInt]:
		if n, ok := toInt(value); ok {
			return n, nil
		}
	case goTypes[TypeFloat]:
		if f, ok := toFloat(value); ok {
			return f, nil
		}
	case goTypes[TypeBool]:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case goTypes[TypeTime]:
		if t, ok := toTime(value); ok {
			return t, nil
		}
	default:
		if rv := reflect.ValueOf(value); rv.Type().ConvertibleTo(want) {
			return rv.Convert(want).Interface(), nil
		}
	}

	return nil, &TypeError{Want: want, Got: value}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return toInt(i)
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case toml.LocalDateTime:
		return t.AsTime(time.UTC), true
	case toml.LocalDate:
		return t.AsTime(time.UTC), true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func describe(t reflect.Type) string {
	for name, rt := range goTypes {
		if rt == t {
			return string(name)
		}
	}
	return t.String()
}

func describeValue(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, uint64, float64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	}
	return fmt.Sprintf("%T", v)
}

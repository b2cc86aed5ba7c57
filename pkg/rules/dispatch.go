package rules

import "reflect"

// Dispatcher validates field values against one provider's rules.
// It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	registry *Registry
	provider Provider
}

// Validate runs the rules registered for kind against value.
//
// When optional is set and value is empty, no rule runs and the outcome is a
// success. Otherwise the provider's table is built if needed, candidates are
// selected for the value, and each is invoked in registration order. The
// first non-empty message becomes the field's failure and the remaining
// candidates are skipped.
//
// Unknown kinds and kinds without a matching function return a
// *ConfigurationError. A panicking rule function is not recovered.
func (d *Dispatcher) Validate(value any, kind Kind, optional bool, field *Field) (Outcome, error) {
	if field == nil {
		field = &Field{}
	}

	if optional && IsEmpty(value) {
		return Success(field.Name), nil
	}

	table, err := d.registry.Build(d.provider)
	if err != nil {
		return Outcome{}, err
	}

	candidates, err := table.candidates(kind, field.DeclaredType, value, field.Name)
	if err != nil {
		return Outcome{}, err
	}

	args := Args{
		Value:        value,
		Field:        field,
		DeclaredType: field.DeclaredType,
	}
	for _, fn := range candidates {
		if msg := fn.Call(args); msg != "" {
			return Failure(field.Name, msg), nil
		}
	}

	return Success(field.Name), nil
}

// IsEmpty reports whether value counts as absent for optional fields: nil, a
// nil pointer, map, slice, interface, func or channel, or the empty string.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

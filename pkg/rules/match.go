package rules

import (
	"reflect"

	"github.com/cockroachdb/errors"
)

// Candidates returns the functions registered for kind whose value parameter
// accepts the value, in registration order.
//
// The value's runtime type is used for matching. When value is nil, the
// field's declared type is used instead, so that rules such as "required"
// still run and can reject the missing value. When both are absent only
// functions whose value parameter can hold nil match.
//
// An unknown kind, or a kind with no matching function, is a *ConfigurationError.
func (t *Table) Candidates(kind Kind, declared reflect.Type, value any) ([]Func, error) {
	return t.candidates(kind, declared, value, "")
}

func (t *Table) candidates(kind Kind, declared reflect.Type, value any, field string) ([]Func, error) {
	fns, ok := t.funcs[kind]
	if !ok {
		err := configError(t.provider, "", kind, ErrUnknownKind,
			"tag a function in provider %q with kind %q", t.provider, string(kind))
		err.Field = field
		return nil, err
	}

	bind := declared
	if value != nil {
		bind = reflect.TypeOf(value)
	}

	matched := make([]Func, 0, len(fns))
	for _, fn := range fns {
		if accepts(fn.Value, bind) {
			matched = append(matched, fn)
		}
	}

	if len(matched) == 0 {
		err := configError(t.provider, "", kind, errors.Wrapf(ErrNoCandidates, "value of type %s", typeName(bind)),
			"register a function tagged %q whose value parameter accepts %s", string(kind), typeName(bind))
		err.Field = field
		return nil, err
	}
	return matched, nil
}

// accepts reports whether a parameter of type param can be bound to a value of type bind.
func accepts(param, bind reflect.Type) bool {
	if param == nil {
		return false
	}
	if bind == nil {
		return nillable(param)
	}
	if bind.AssignableTo(param) {
		return true
	}
	return bind.Kind() == param.Kind() &&
		param.Kind() != reflect.Interface &&
		bind.ConvertibleTo(param)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

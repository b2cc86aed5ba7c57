package rules

import (
	"reflect"
	"strings"
)

// Field describes the field under validation. It is bound to RoleContext parameters.
type Field struct {
	// Name is the field's name in the model.
	Name string
	// DisplayName is a human-facing label; Label falls back to Name when empty.
	DisplayName string
	// DeclaredType is the field's static type. It may be nil when unknown.
	DeclaredType reflect.Type
	// Model is the model instance the field belongs to, if the host has one.
	Model any
}

// Label returns the display name, or the field name when no display name is set.
func (f *Field) Label() string {
	if f == nil {
		return ""
	}
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

// Args are the arguments bound to a rule function's parameters.
type Args struct {
	Value        any
	Field        *Field
	DeclaredType reflect.Type
}

// Func is a stateless rule function registered with a provider.
//
// Params lists the function's parameters by role, in order. Value is the type
// accepted by the RoleValue parameter and drives candidate matching. Call
// receives the bound arguments and returns "" on success or a failure message.
//
// Use Check, CheckField, CheckType or CheckTypeField to build a Func from an
// ordinary Go function; the compiler then enforces the return contract.
type Func struct {
	Name   string
	Kinds  []Kind
	Params []Role
	Value  reflect.Type
	Call   func(Args) string
}

// Signature renders the parameter list, e.g. "(value string, context)".
func (f Func) Signature() string {
	parts := make([]string, 0, len(f.Params))
	for _, r := range f.Params {
		if r == RoleValue {
			parts = append(parts, "value "+typeName(f.Value))
			continue
		}
		parts = append(parts, r.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (f Func) String() string {
	return f.Name + f.Signature()
}

// Check registers fn as a rule function taking only the value.
func Check[T any](name string, fn func(T) string, kinds ...Kind) Func {
	f := newFunc[T](name, kinds, RoleValue)
	if fn != nil {
		f.Call = func(a Args) string {
			return fn(valueAs[T](a.Value))
		}
	}
	return f
}

// CheckField registers fn as a rule function taking the value and the field context.
func CheckField[T any](name string, fn func(T, *Field) string, kinds ...Kind) Func {
	f := newFunc[T](name, kinds, RoleValue, RoleContext)
	if fn != nil {
		f.Call = func(a Args) string {
			return fn(valueAs[T](a.Value), a.Field)
		}
	}
	return f
}

// CheckType registers fn as a rule function taking the value and the declared type.
func CheckType[T any](name string, fn func(T, reflect.Type) string, kinds ...Kind) Func {
	f := newFunc[T](name, kinds, RoleValue, RoleDeclaredType)
	if fn != nil {
		f.Call = func(a Args) string {
			return fn(valueAs[T](a.Value), a.DeclaredType)
		}
	}
	return f
}

// CheckTypeField registers fn as a rule function taking the value, the
// declared type and the field context.
func CheckTypeField[T any](name string, fn func(T, reflect.Type, *Field) string, kinds ...Kind) Func {
	f := newFunc[T](name, kinds, RoleValue, RoleDeclaredType, RoleContext)
	if fn != nil {
		f.Call = func(a Args) string {
			return fn(valueAs[T](a.Value), a.DeclaredType, a.Field)
		}
	}
	return f
}

func newFunc[T any](name string, kinds []Kind, params ...Role) Func {
	return Func{
		Name:   name,
		Kinds:  kinds,
		Params: params,
		Value:  reflect.TypeFor[T](),
	}
}

// valueAs converts v to T. A nil v yields T's zero value; values of a
// convertible named type are converted.
func valueAs[T any](v any) T {
	var zero T
	if v == nil {
		return zero
	}
	if t, ok := v.(T); ok {
		return t
	}
	rv := reflect.ValueOf(v)
	target := reflect.TypeFor[T]()
	if rv.Type().ConvertibleTo(target) {
		if t, ok := rv.Convert(target).Interface().(T); ok {
			return t
		}
	}
	return zero
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

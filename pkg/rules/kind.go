package rules

import (
	"fmt"
	"strings"
)

// Kind identifies a rule category within one provider.
// Kinds are compared by value; the empty Kind is never a valid tag.
type Kind string

// NoKind is the zero Kind. It is rejected wherever a Kind is required.
const NoKind Kind = ""

// Valid reports whether k names a kind (non-empty after trimming).
func (k Kind) Valid() bool {
	return strings.TrimSpace(string(k)) != ""
}

func (k Kind) String() string {
	return string(k)
}

// Role describes what a rule function parameter is bound to at dispatch time.
type Role int

const (
	// RoleValue binds the value being validated.
	RoleValue Role = iota + 1
	// RoleContext binds the *Field describing the field under validation.
	RoleContext
	// RoleDeclaredType binds the field's statically declared reflect.Type.
	RoleDeclaredType
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r >= RoleValue && r <= RoleDeclaredType
}

func (r Role) String() string {
	switch r {
	case RoleValue:
		return "value"
	case RoleContext:
		return "context"
	case RoleDeclaredType:
		return "declared type"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

package rules

import (
	"go/token"
	"reflect"
	"slices"

	"github.com/cockroachdb/errors"
)

// Table is the immutable result of scanning a provider: its rule functions
// grouped by kind, each group in registration order.
type Table struct {
	provider string
	kinds    []Kind
	funcs    map[Kind][]Func
	size     int
}

// Build scans p once and checks every function against the rule contract.
// It does no caching; use a Registry for the once-per-provider behavior.
func Build(p Provider) (*Table, error) {
	if isNilProvider(p) {
		return nil, nilProviderError()
	}

	id := p.ID()
	domain := kindDomain(p)

	t := &Table{
		provider: id,
		funcs:    make(map[Kind][]Func),
	}

	for _, fn := range p.Funcs() {
		if err := checkFunc(id, fn); err != nil {
			return nil, err
		}

		fn.Kinds = slices.Clone(fn.Kinds)
		fn.Params = slices.Clone(fn.Params)

		tagged := make(map[Kind]bool, len(fn.Kinds))
		for _, k := range fn.Kinds {
			if err := checkKind(id, fn.Name, k, domain); err != nil {
				return nil, err
			}
			if tagged[k] {
				continue
			}
			tagged[k] = true

			if _, ok := t.funcs[k]; !ok {
				t.kinds = append(t.kinds, k)
			}
			t.funcs[k] = append(t.funcs[k], fn)
		}
		t.size++
	}

	return t, nil
}

// Provider returns the ID of the provider the table was built from.
func (t *Table) Provider() string {
	return t.provider
}

// Kinds returns the registered kinds in order of first registration.
func (t *Table) Kinds() []Kind {
	return slices.Clone(t.kinds)
}

// Has reports whether any function is registered for k.
func (t *Table) Has(k Kind) bool {
	_, ok := t.funcs[k]
	return ok
}

// Funcs returns the functions registered for k in registration order.
func (t *Table) Funcs(k Kind) []Func {
	return slices.Clone(t.funcs[k])
}

// Len returns the number of rule functions scanned.
func (t *Table) Len() int {
	return t.size
}

func checkFunc(provider string, fn Func) error {
	switch {
	case fn.Call == nil:
		return configError(provider, fn.Name, NoKind, ErrNotCallable,
			"build the function with rules.Check, rules.CheckField, rules.CheckType or rules.CheckTypeField")
	case !token.IsIdentifier(fn.Name) || !token.IsExported(fn.Name):
		return configError(provider, fn.Name, NoKind, errors.Wrapf(ErrNotExported, "%q", fn.Name),
			"name rule functions like exported Go functions, for example ValidatePhoneNumber")
	case len(fn.Kinds) == 0:
		return configError(provider, fn.Name, NoKind, ErrUntagged,
			"pass at least one kind when registering the function")
	}

	if err := checkParams(fn.Params); err != nil {
		return configError(provider, fn.Name, NoKind, err,
			"declare one value parameter, optionally with one context and one declared-type parameter")
	}
	if fn.Value == nil {
		return configError(provider, fn.Name, NoKind, errors.Wrap(ErrSignature, "value parameter type is not declared"),
			"set Func.Value to the type the value parameter accepts")
	}

	return nil
}

func checkParams(params []Role) error {
	if n := len(params); n < 1 || n > 3 {
		return errors.Wrapf(ErrSignature, "%d parameters, want 1 to 3", n)
	}

	seen := make(map[Role]bool, len(params))
	for i, r := range params {
		if !r.Valid() {
			return errors.Wrapf(ErrSignature, "parameter %d has %s", i, r)
		}
		if seen[r] {
			return errors.Wrapf(ErrSignature, "more than one %s parameter", r)
		}
		seen[r] = true
	}

	if !seen[RoleValue] {
		return errors.Wrap(ErrSignature, "missing value parameter")
	}
	return nil
}

func checkKind(provider, fn string, k Kind, domain map[Kind]struct{}) error {
	if !k.Valid() {
		return configError(provider, fn, k, errors.Wrap(ErrInvalidKind, "empty kind"),
			"tag the function with a non-empty kind")
	}
	if domain == nil {
		return nil
	}
	if _, ok := domain[k]; !ok {
		return configError(provider, fn, k, errors.Wrapf(ErrInvalidKind, "%q is not in the provider's kind domain", string(k)),
			"add %q to the kinds passed to the provider, or fix the tag", string(k))
	}
	return nil
}

func kindDomain(p Provider) map[Kind]struct{} {
	d, ok := p.(Domain)
	if !ok {
		return nil
	}
	kinds := d.Kinds()
	if len(kinds) == 0 {
		return nil
	}
	domain := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		domain[k] = struct{}{}
	}
	return domain
}

func isNilProvider(p Provider) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func nilProviderError() *ConfigurationError {
	return configError("", "", NoKind, ErrNilProvider, "attach a provider to every declaration")
}

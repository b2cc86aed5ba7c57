package rules

import "slices"

// Provider is a collection of stateless rule functions tagged by kind.
//
// Funcs is the provider's scan: a Registry calls it once per provider ID and
// caches the checked result. Adding functions after that first call has no
// effect on an existing Registry.
type Provider interface {
	// ID identifies the provider. Registries cache tables by ID.
	ID() string
	// Funcs returns the provider's rule functions in registration order.
	Funcs() []Func
}

// Domain is implemented by providers that restrict which kinds may be used as tags.
// An empty domain places no restriction.
type Domain interface {
	Kinds() []Kind
}

// Library is the stock Provider: a named, ordered list of rule functions with
// an optional kind domain. Populate it at startup; it is not safe for
// concurrent Add.
type Library struct {
	id    string
	kinds []Kind
	funcs []Func
}

// NewLibrary creates an empty library. When kinds are given, every tag used by
// the library's functions must be one of them.
func NewLibrary(id string, kinds ...Kind) *Library {
	return &Library{
		id:    id,
		kinds: slices.Clone(kinds),
	}
}

// Add appends rule functions and returns the library for chaining.
func (l *Library) Add(fns ...Func) *Library {
	l.funcs = append(l.funcs, fns...)
	return l
}

// ID returns the library's provider ID.
func (l *Library) ID() string {
	return l.id
}

// Funcs returns a copy of the registered functions.
func (l *Library) Funcs() []Func {
	return slices.Clone(l.funcs)
}

// Kinds returns the declared kind domain, or nil when unrestricted.
func (l *Library) Kinds() []Kind {
	return slices.Clone(l.kinds)
}

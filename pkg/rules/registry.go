package rules

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
)

// Registry caches one Table per provider ID. The first caller for a provider
// performs the scan; concurrent callers block until it finishes and then share
// the same table, or the same build error. Reads after that take no lock.
//
// A Registry is safe for concurrent use. Construct one at startup and share it.
type Registry struct {
	entries sync.Map // provider ID -> *entry
	builds  atomic.Int64
	logger  *slog.Logger
}

type entry struct {
	once  sync.Once
	table *Table
	err   error
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for build events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build returns the table for p, scanning p on first use. If p.Funcs panics,
// the panic reaches the scanning caller and later calls return an
// ErrScanPanicked configuration error.
func (r *Registry) Build(p Provider) (*Table, error) {
	if isNilProvider(p) {
		return nil, nilProviderError()
	}

	id := p.ID()
	v, ok := r.entries.Load(id)
	if !ok {
		v, _ = r.entries.LoadOrStore(id, &entry{})
	}
	e := v.(*entry)

	e.once.Do(func() {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				e.table = nil
				e.err = configError(id, "", NoKind,
					errors.Wrapf(ErrScanPanicked, "%v", rec),
					"fix the panic in %s Funcs", id)
				r.builds.Add(1)
				panic(rec)
			}
		}()
		e.table, e.err = Build(p)
		r.builds.Add(1)

		if e.err != nil {
			r.logger.Debug("rule table build failed", "provider", id, "error", e.err)
			return
		}
		r.logger.Debug("rule table built",
			"provider", id,
			"kinds", len(e.table.kinds),
			"funcs", e.table.size,
			"elapsed", time.Since(start))
	})

	return e.table, e.err
}

// Builds returns how many provider scans this registry has performed.
func (r *Registry) Builds() int64 {
	return r.builds.Load()
}

// Dispatcher returns a dispatcher that validates against p's rules.
func (r *Registry) Dispatcher(p Provider) *Dispatcher {
	return &Dispatcher{
		registry: r,
		provider: p,
	}
}

// Validate validates value against one declaration.
func (r *Registry) Validate(decl Declaration, value any, field *Field) (Outcome, error) {
	return r.Dispatcher(decl.Provider).Validate(value, decl.Kind, decl.Optional, field)
}

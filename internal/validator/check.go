package validator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"slices"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/rulebook/internal/logging"
	"github.com/thoreinstein/rulebook/internal/record"
	"github.com/thoreinstein/rulebook/internal/schema"
	"github.com/thoreinstein/rulebook/pkg/rules"
)

// Options tune Check.
type Options struct {
	// Parallelism bounds the number of fields validated at once.
	// Zero or less uses GOMAXPROCS.
	Parallelism int
	// FailFast stops evaluating a field's remaining declarations after its
	// first failure.
	FailFast bool
	// Logger receives per-field debug events. Defaults to the context logger.
	Logger *slog.Logger
}

type fieldResult struct {
	issues  []Issue
	checked bool
	panic   any
	stack   []byte
}

// Check validates rec against every declared field of s. Fields are
// validated independently and concurrently; issues are returned in field
// order, then declaration order. Record fields the model does not declare
// become warnings.
//
// A *rules.ConfigurationError from any field aborts the check and is returned
// as the error; it never becomes an Issue. A rule function that panics
// panics the caller once all running fields have finished, even when another
// field returned an error. The panicking goroutine's stack is logged first.
func Check(ctx context.Context, reg *rules.Registry, s *rules.Schema, rec record.Record, opts Options) (*Result, error) {
	if reg == nil || s == nil {
		return nil, errors.New("validator: registry and schema are required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	fields := s.Fields()
	results := make([]fieldResult, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, f := range fields {
		if len(f.Declarations) == 0 {
			continue
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i].panic = r
					results[i].stack = debug.Stack()
				}
			}()
			issues, err := checkField(gctx, reg, f, rec, opts.FailFast, logger)
			results[i] = fieldResult{issues: issues, checked: true}
			return err
		})
	}

	err := g.Wait()
	for i, fr := range results {
		if fr.panic != nil {
			logger.Error("rule panicked",
				"model", s.Name(),
				"field", fields[i].Name,
				"panic", fmt.Sprint(fr.panic),
				"stack", string(fr.stack))
			panic(fr.panic)
		}
	}
	if err != nil {
		return nil, err
	}

	result := &Result{Model: s.Name()}
	for _, fr := range results {
		if fr.checked {
			result.Checked++
		}
		result.Issues = append(result.Issues, fr.issues...)
	}

	for _, name := range undeclared(fields, rec) {
		result.AddWarning(name, fmt.Sprintf("not declared in model %s", s.Name()), nil)
	}

	logger.Debug("checked record",
		"model", s.Name(),
		"fields", result.Checked,
		"errors", len(result.Errors()))

	return result, nil
}

func checkField(ctx context.Context, reg *rules.Registry, f rules.FieldSchema, rec record.Record, failFast bool, logger *slog.Logger) ([]Issue, error) {
	raw, _ := rec.Get(f.Name)

	value, err := schema.Coerce(raw, f.Type)
	if err != nil {
		return []Issue{{
			Severity: SeverityError,
			Field:    f.Name,
			Message:  fmt.Sprintf("%s: %s", f.Name, err),
			Value:    raw,
		}}, nil
	}

	field := f.Context(rec)
	var issues []Issue
	for _, d := range f.Declarations {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "validation canceled")
		}

		outcome, err := reg.Dispatcher(d.Provider).Validate(value, d.Kind, d.Optional, field)
		if err != nil {
			return nil, err
		}

		logger.Debug("validated field",
			"field", f.Name,
			"kind", d.Kind.String(),
			"valid", outcome.Valid,
			"value", fmt.Sprint(raw))

		if outcome.Failed() {
			issues = append(issues, FromOutcome(outcome, d.Kind, raw))
			if failFast {
				break
			}
		}
	}
	return issues, nil
}

func undeclared(fields []rules.FieldSchema, rec record.Record) []string {
	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.Name] = true
	}

	var names []string
	for name := range rec {
		if !declared[name] {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

package rules

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrConfiguration matches every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("rule configuration error")

// Causes carried by a ConfigurationError.
var (
	// ErrNilProvider indicates a declaration or dispatcher without a provider.
	ErrNilProvider = errors.New("provider is nil")

	// ErrNotCallable indicates a rule function without an implementation.
	ErrNotCallable = errors.New("rule function has no implementation")

	// ErrNotExported indicates a rule function whose name is not an exported identifier.
	ErrNotExported = errors.New("rule function name must be an exported identifier")

	// ErrSignature indicates a parameter list that violates the role constraints.
	ErrSignature = errors.New("rule function has an invalid parameter list")

	// ErrUntagged indicates a registered rule function carrying no kind.
	ErrUntagged = errors.New("rule function is not tagged with any kind")

	// ErrInvalidKind indicates an empty kind or one outside the provider's domain.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrUnknownKind indicates a declared kind with no registered rule function.
	ErrUnknownKind = errors.New("no rule function registered for kind")

	// ErrNoCandidates indicates that no function registered for a kind accepts the field's type.
	ErrNoCandidates = errors.New("no rule function accepts the field type")

	// ErrScanPanicked indicates a provider whose Funcs panicked during the scan.
	ErrScanPanicked = errors.New("provider scan panicked")
)

// ConfigurationError reports a defect in how rules are registered or declared.
// It is never a validation failure: hosts should let it abort the operation.
type ConfigurationError struct {
	// Provider is the ID of the provider involved.
	Provider string
	// Func is the offending rule function, if any.
	Func string
	// Kind is the kind being registered or resolved, if any.
	Kind Kind
	// Field is the field being validated when the defect surfaced, if any.
	Field string
	// Err is the cause; one of the sentinel errors above, possibly wrapped.
	Err error
}

func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "provider %q", e.Provider)
	if e.Func != "" {
		fmt.Fprintf(&sb, ", func %s", e.Func)
	}
	if e.Kind != NoKind {
		fmt.Fprintf(&sb, ", kind %q", string(e.Kind))
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, ", field %q", e.Field)
	}
	sb.WriteString(": ")
	if e.Err == nil {
		sb.WriteString(ErrConfiguration.Error())
	} else {
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the cause so errors.Is can match the sentinels.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// Hint returns the remediation hints attached to err, joined by newlines.
func Hint(err error) string {
	return errors.FlattenHints(err)
}

func configError(provider, fn string, kind Kind, cause error, hint string, args ...any) *ConfigurationError {
	if hint != "" {
		cause = errors.WithHintf(cause, hint, args...)
	}
	return &ConfigurationError{
		Provider: provider,
		Func:     fn,
		Kind:     kind,
		Err:      cause,
	}
}

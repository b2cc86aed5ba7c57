package doctor

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/rulebook/pkg/rules"
)

// ProviderCheck verifies that rule providers build into tables.
type ProviderCheck struct {
	registry  *rules.Registry
	providers []rules.Provider
}

var _ Check = (*ProviderCheck)(nil)

// NewProviderCheck creates a check that builds each provider through reg.
func NewProviderCheck(reg *rules.Registry, providers ...rules.Provider) *ProviderCheck {
	return &ProviderCheck{registry: reg, providers: providers}
}

// Name returns the unique identifier for this check.
func (c *ProviderCheck) Name() string {
	return "providers"
}

// Category returns the grouping for this check.
func (c *ProviderCheck) Category() string {
	return "rules"
}

// Run builds every provider and reports the first configuration error of each.
func (c *ProviderCheck) Run() *CheckResult {
	result := newResult(c)

	if len(c.providers) == 0 {
		return result.set(SeverityInfo, "no rule providers registered")
	}

	tables := make(map[string]any, len(c.providers))
	var failed []string
	var hints []string
	for i, p := range c.providers {
		table, err := c.registry.Build(p)
		if err != nil {
			id := providerID(err, i)
			tables[id] = map[string]any{"error": err.Error()}
			failed = append(failed, id)
			if hint := rules.Hint(err); hint != "" {
				hints = append(hints, hint)
			}
			continue
		}

		kinds := make([]string, 0, len(table.Kinds()))
		for _, k := range table.Kinds() {
			kinds = append(kinds, k.String())
		}
		tables[table.Provider()] = map[string]any{
			"kinds": kinds,
			"funcs": table.Len(),
		}
	}
	result.Details["providers"] = tables

	if len(failed) > 0 {
		result.FixHint = strings.Join(hints, "; ")
		return result.set(SeverityError, "%d of %d provider(s) failed to build: %s",
			len(failed), len(c.providers), strings.Join(failed, ", "))
	}

	return result.set(SeverityPass, "%d provider(s) built", len(c.providers))
}

func providerID(err error, i int) string {
	var cfgErr *rules.ConfigurationError
	if errors.As(err, &cfgErr) && cfgErr.Provider != "" {
		return cfgErr.Provider
	}
	return fmt.Sprintf("provider #%d", i+1)
}

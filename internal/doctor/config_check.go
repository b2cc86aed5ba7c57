package doctor

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/rulebook/internal/config"
)

// ConfigCheck validates the loaded rulebook configuration.
type ConfigCheck struct {
	cfg     *config.Config
	file    string
	loadErr error
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a check of cfg. file names the configuration file
// cfg was read from; empty means defaults and environment only.
func NewConfigCheck(cfg *config.Config, file string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, file: file}
}

// WithLoadError records why reading the configuration failed. It is reported
// when the check has no config.
func (c *ConfigCheck) WithLoadError(err error) *ConfigCheck {
	c.loadErr = err
	return c
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "config"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run validates the configuration values.
func (c *ConfigCheck) Run() *CheckResult {
	result := newResult(c)
	result.Details["file"] = c.source()

	if c.cfg == nil {
		result.Status = SeverityError
		result.Message = "no configuration loaded"
		if c.loadErr != nil {
			result.Message = "configuration could not be read: " + c.loadErr.Error()
		}
		result.FixHint = "run rulebook with --config pointing at a readable config.yaml"
		return result
	}

	result.Details["schema_dirs"] = c.cfg.SchemaDirs
	result.Details["output_format"] = c.cfg.OutputFormat
	result.Details["workers"] = c.cfg.Workers()

	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		return result.set(SeverityPass, "configuration is valid (%s)", c.source())
	}

	problems := make([]string, 0, len(errs))
	var hints []string
	for _, err := range errs {
		problems = append(problems, err.Error())
		if hint := errors.FlattenHints(err); hint != "" {
			hints = append(hints, hint)
		}
	}
	result.Details["problems"] = problems
	result.set(SeverityError, "%d configuration problem(s)", len(errs))
	switch {
	case len(hints) > 0:
		result.FixHint = strings.Join(hints, "; ")
	case c.file != "":
		result.FixHint = "edit " + c.file
	default:
		result.FixHint = "check the " + config.EnvPrefix + "_* environment variables"
	}
	return result
}

func (c *ConfigCheck) source() string {
	if c.file == "" {
		return "defaults"
	}
	return c.file
}

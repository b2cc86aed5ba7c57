// Package config provides configuration management for rulebook using Viper.
package config

import (
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/rulebook/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "RULEBOOK"

// Config represents the top-level configuration structure.
type Config struct {
	Version      int      `mapstructure:"version" yaml:"version"`
	SchemaDirs   []string `mapstructure:"schema_dirs" yaml:"schema_dirs"`
	OutputFormat string   `mapstructure:"output_format" yaml:"output_format"`
	Parallelism  int      `mapstructure:"parallelism" yaml:"parallelism"`
	Color        bool     `mapstructure:"color" yaml:"color"`
}

// Workers returns the effective number of concurrent field validations.
func (c *Config) Workers() int {
	if c == nil || c.Parallelism <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Parallelism
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:      1,
		SchemaDirs:   []string{".", paths.SchemaDir()},
		OutputFormat: "text",
		Parallelism:  0,
		Color:        true,
	}
}

// Init resets Viper and registers defaults, search paths and environment
// bindings. Call this once at application startup before accessing config
// values.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	def := Default()
	viper.SetDefault("version", def.Version)
	viper.SetDefault("schema_dirs", def.SchemaDirs)
	viper.SetDefault("output_format", def.OutputFormat)
	viper.SetDefault("parallelism", def.Parallelism)
	viper.SetDefault("color", def.Color)
}

// Load reads and validates the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}

	return cfg, nil
}

// Read is Load without validation. The doctor uses it to report every
// problem of a configuration that Load would reject.
func Read(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// implicit load without a file uses defaults
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}

// Used returns the path of the config file in effect, or "" when running on
// defaults.
func Used() string {
	return viper.ConfigFileUsed()
}

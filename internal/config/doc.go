// Package config provides configuration management for the rulebook CLI.
//
// # Configuration File
//
// config.yaml is searched in the current directory, then in
// $RULEBOOK_CONFIG_DIR or ~/.config/rulebook/:
//
//	version: 1
//	schema_dirs:
//	  - ./schemas
//	  - /srv/shared/schemas
//	output_format: text   # text or json
//	parallelism: 0        # 0 uses GOMAXPROCS
//	color: true
//
// Every key can be overridden by an environment variable with the RULEBOOK_
// prefix, e.g. RULEBOOK_PARALLELISM=4.
//
// # Loading Configuration
//
// Call [Init] once, then [Load]. An empty path searches the default locations
// and falls back to [Default] values:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return errors.Wrap(err, "loading config")
//	}
//
// # Validation
//
// [Load] validates automatically. [Validate] returns every problem at once:
//
//	for _, e := range config.Validate(cfg) {
//	    fmt.Println(e)
//	}
package config

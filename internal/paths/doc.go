// Package paths provides path resolution for rulebook's configuration and
// schema files.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux and macOS, paths follow XDG conventions
// (~/.config, ~/.local/share).
//
//	paths.ConfigDir() // ~/.config/rulebook/ or $RULEBOOK_CONFIG_DIR
//	paths.SchemaDir() // ~/.local/share/rulebook/schemas/
//
// # Schema Resolution
//
// [ResolveSchema] accepts either a file path or a bare schema name. Bare names
// are looked up in the configured schema directories, trying each of
// [SchemaExtensions] in order:
//
//	path, err := paths.ResolveSchema("contact", []string{".", paths.SchemaDir()})
//	if errors.Is(err, paths.ErrSchemaNotFound) {
//	    // report the searched directories from errors.GetAllHints(err)
//	}
package paths

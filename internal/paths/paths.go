package paths

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the application directories under the XDG base directories.
const AppName = "rulebook"

// ConfigDirEnv overrides the configuration directory when set.
const ConfigDirEnv = "RULEBOOK_CONFIG_DIR"

// SchemaExtensions lists the file extensions recognized as schema files, in
// resolution order.
var SchemaExtensions = []string{".yaml", ".yml", ".toml", ".json", ".md"}

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")

	// ErrSchemaNotFound indicates no schema file matched the requested name.
	ErrSchemaNotFound = errors.New("schema not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return errors.Wrapf(os.MkdirAll(path, perm), "creating %s", path)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns the directory searched for config.yaml.
// Returns $RULEBOOK_CONFIG_DIR when set, otherwise <ConfigHome>/rulebook/.
func ConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// SchemaDir returns the default directory for shared schema files.
// Returns: <DataHome>/rulebook/schemas/
func SchemaDir() string {
	return filepath.Join(DataHome(), AppName, "schemas")
}

// IsSchemaFile reports whether path has a recognized schema extension.
func IsSchemaFile(path string) bool {
	return slices.Contains(SchemaExtensions, strings.ToLower(filepath.Ext(path)))
}

// ResolveSchema locates a schema file. A name that is an existing file is
// returned as is. Otherwise each directory in dirs is searched for name, then
// for name with each of SchemaExtensions appended.
//
// Returns ErrSchemaNotFound if nothing matches and ErrInvalidPath for an
// empty name or one containing a null byte.
func ResolveSchema(name string, dirs []string) (string, error) {
	if name == "" || strings.ContainsRune(name, '\x00') {
		return "", errors.Wrapf(ErrInvalidPath, "schema name %q", name)
	}

	if isFile(name) {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", errors.Wrapf(ErrSchemaNotFound, "%s", name)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isFile(candidate) {
			return candidate, nil
		}
		if filepath.Ext(name) != "" {
			continue
		}
		for _, ext := range SchemaExtensions {
			if isFile(candidate + ext) {
				return candidate + ext, nil
			}
		}
	}

	return "", errors.WithHintf(
		errors.Wrapf(ErrSchemaNotFound, "%s", name),
		"searched: %s", strings.Join(dirs, ", "))
}

// SchemaFiles lists the schema files directly inside dir, sorted by name.
// A missing directory yields no files and no error.
func SchemaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsSchemaFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

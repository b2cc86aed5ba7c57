// Package fileutil provides file system utilities including atomic write
// operations and bounded reads.
package fileutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFilePerm is the permission of files written without an explicit mode.
const DefaultFilePerm = 0o644

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// Interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
// Permissions are applied to the final file via the perm parameter.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, ".rulebook-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "syncing temp file")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	renamed = true

	return nil
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// Uses 2-space indentation and appends a trailing newline.
func AtomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(path, append(data, '\n'), DefaultFilePerm)
}

// AtomicWriteYAML writes v as YAML to path atomically.
func AtomicWriteYAML(path string, v any) (err error) {
	// yaml.Marshal panics on unmarshalable types
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}

	return AtomicWriteFile(path, ensureNewline(buf.Bytes()), DefaultFilePerm)
}

// AtomicWriteTOML writes v as TOML to path atomically.
func AtomicWriteTOML(path string, v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling TOML")
	}
	return AtomicWriteFile(path, ensureNewline(data), DefaultFilePerm)
}

// AtomicWriteEncoded writes v atomically, choosing the encoding from the
// extension of path: .yaml and .yml write YAML, .toml writes TOML, anything
// else writes JSON.
func AtomicWriteEncoded(path string, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return AtomicWriteYAML(path, v)
	case ".toml":
		return AtomicWriteTOML(path, v)
	default:
		return AtomicWriteJSON(path, v)
	}
}

func ensureNewline(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data
}

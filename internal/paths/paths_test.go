package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/rulebook/internal/errors"
)

func TestResolveHome(t *testing.T) {
	got, err := ResolveHome()
	want, _ := os.UserHomeDir()

	if err != nil {
		if !errors.Is(err, ErrHomeDirNotFound) {
			t.Errorf("unexpected error type: %v", err)
		}
	} else if got != want {
		t.Errorf("ResolveHome() = %q, want %q", got, want)
	}
}

func TestConfigHome(t *testing.T) {
	got := ConfigHome()
	if got == "" {
		t.Error("ConfigHome() returned empty string")
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ConfigHome() = %q, want absolute path", got)
	}
}

func TestDataHome(t *testing.T) {
	got := DataHome()
	if got == "" {
		t.Error("DataHome() returned empty string")
	}
	if !filepath.IsAbs(got) {
		t.Errorf("DataHome() = %q, want absolute path", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv(ConfigDirEnv, "")
		got := ConfigDir()
		if !strings.HasSuffix(got, AppName) {
			t.Errorf("ConfigDir() = %q, want suffix %q", got, AppName)
		}
	})

	t.Run("override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(ConfigDirEnv, dir)
		if got := ConfigDir(); got != dir {
			t.Errorf("ConfigDir() = %q, want %q", got, dir)
		}
	})
}

func TestSchemaDir(t *testing.T) {
	got := SchemaDir()
	wantSuffix := filepath.Join(AppName, "schemas")
	if !strings.HasSuffix(got, wantSuffix) {
		t.Errorf("SchemaDir() = %q, want suffix %q", got, wantSuffix)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if !info.IsDir() {
		t.Error("EnsureDir() did not create a directory")
	}

	// idempotent
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("second EnsureDir() error: %v", err)
	}
}

func TestIsSchemaFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"contact.yaml", true},
		{"contact.YML", true},
		{"contact.toml", true},
		{"contact.json", true},
		{"contact.md", true},
		{"contact.txt", false},
		{"contact", false},
	}
	for _, tt := range tests {
		if got := IsSchemaFile(tt.path); got != tt.want {
			t.Errorf("IsSchemaFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResolveSchema(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	write := func(dir, name string) string {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("models: []\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}

	contactTOML := write(second, "contact.toml")
	contactYAML := write(second, "contact.yaml")
	people := write(first, "people.json")
	if err := os.Mkdir(filepath.Join(first, "dir.yaml"), 0o700); err != nil {
		t.Fatal(err)
	}

	dirs := []string{first, second}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"existing path", people, people, nil},
		{"bare name with extension", "people.json", people, nil},
		{"bare name prefers yaml", "contact", contactYAML, nil},
		{"explicit toml", "contact.toml", contactTOML, nil},
		{"missing", "orders", "", ErrSchemaNotFound},
		{"directory is not a schema", "dir.yaml", "", ErrSchemaNotFound},
		{"absolute missing", filepath.Join(first, "nope.yaml"), "", ErrSchemaNotFound},
		{"empty", "", "", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSchema(tt.input, dirs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveSchema(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveSchema(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ResolveSchema(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveSchema_HintListsDirs(t *testing.T) {
	dir := t.TempDir()
	_, err := ResolveSchema("missing", []string{dir})
	if err == nil {
		t.Fatal("expected error")
	}
	hints := errors.GetAllHints(err)
	if len(hints) == 0 || !strings.Contains(hints[0], dir) {
		t.Errorf("hints = %v, want one mentioning %s", hints, dir)
	}
}

func TestSchemaFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.toml", "a.yaml", "notes.txt", "c.MD"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := SchemaFiles(dir)
	if err != nil {
		t.Fatalf("SchemaFiles() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.toml"),
		filepath.Join(dir, "c.MD"),
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("SchemaFiles() = %v, want %v", files, want)
	}

	files, err = SchemaFiles(filepath.Join(dir, "missing"))
	if err != nil || len(files) != 0 {
		t.Errorf("SchemaFiles(missing) = %v, %v; want none", files, err)
	}
}

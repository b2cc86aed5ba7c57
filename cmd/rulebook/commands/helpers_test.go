package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulebook/internal/paths"
)

const (
	contactSchema = "../../../internal/schema/testdata/contact.yaml"
	validRecord   = "../../../internal/record/testdata/valid.json"
	invalidRecord = "../../../internal/record/testdata/invalid.yaml"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// resetFlags restores every flag variable to its default, since cobra binds
// flags to package state that outlives a single Execute.
func resetFlags() {
	verbosity, quiet, logFormat, logFile, configPath = 0, false, "text", "", ""
	validateModel, validateJSON, validateFailFast = "", false, false
	describeModel, describeOutput = "", ""
	kindsJSON, kindsInteractive = false, false
	doctorJSON, doctorQuiet, doctorVerbose, doctorFix = false, false, false, false
	_ = genDocCmd.Flags().Set("dir", "")
}

// resetContexts clears the context cobra saved on each command, so a run does
// not inherit a context canceled by an earlier test.
func resetContexts(cmd *cobra.Command) {
	cmd.SetContext(nil) //nolint:staticcheck // cobra only replaces nil contexts
	for _, c := range cmd.Commands() {
		resetContexts(c)
	}
}

// execute runs the root command with args and returns what it wrote to
// stdout. The user config directory is isolated per test.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv(paths.ConfigDirEnv, t.TempDir())
	t.Setenv(debugEnv, "")
	resetFlags()
	resetContexts(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		resetFlags()
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetContexts(rootCmd)
	})

	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// schemaDirConfig writes a config file whose only schema directory is dir.
func schemaDirConfig(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "config.yaml",
		"version: 1\nschema_dirs:\n  - "+dir+"\noutput_format: text\n")
}

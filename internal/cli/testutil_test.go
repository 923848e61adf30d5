package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/emiliopalmerini/pricepaid/internal/testutil"
)

// testEnv is an isolated artifact base dir and history database.
type testEnv struct {
	baseDir string
	dbURL   string
}

func newTestEnv(t *testing.T, a testutil.Artifacts) testEnv {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	return testEnv{
		baseDir: testutil.Layout(t, a).BaseDir,
		dbURL:   "file:" + filepath.Join(t.TempDir(), "history.db"),
	}
}

// run executes the root command with the environment's base dir and
// database, and returns what the command wrote to stdout.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	full := append([]string{"--base-dir", e.baseDir, "--database", e.dbURL, "--log-level", "error"}, args...)
	return executeCommand(t, full...)
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// resetFlags restores every flag of cmd and its children to its default so
// values do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func assertNotContains(t *testing.T, out string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(out, u) {
			t.Errorf("output unexpectedly contains %q:\n%s", u, out)
		}
	}
}

package cli

// This file contains test utilities and mocks for testing CLI functions.
// These helpers are only available in test files (*_test.go).

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is an isolated eureka setup: a temporary HOME, a file store, a
// templates directory and a config file pointing at them.
type testEnv struct {
	t            *testing.T
	dir          string
	templatesDir string
	configPath   string
}

// newTestEnv creates a testEnv. extraConfig is appended to the generated
// config file verbatim.
func newTestEnv(t *testing.T, extraConfig ...string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("NO_COLOR", "1")

	env := &testEnv{
		t:            t,
		dir:          dir,
		templatesDir: filepath.Join(dir, "templates"),
		configPath:   filepath.Join(dir, "config.yaml"),
	}

	cfg := fmt.Sprintf(`store:
  backend: file
  dir: %s
templates:
  dir: %s
log:
  file: %s
`, filepath.Join(dir, "data"), env.templatesDir, filepath.Join(dir, "eureka.log"))
	for _, extra := range extraConfig {
		cfg += extra
	}
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o600))

	t.Cleanup(CloseLogFile)
	return env
}

// run executes the root command with args and returns everything written
// to stdout and stderr.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// mustRun is run that fails the test on error.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()

	out, err := e.run(args...)
	require.NoError(e.t, err, out)
	return out
}

// writeFile writes content to name inside the environment directory.
func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()

	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// mockTerminalCheckFunc returns a function that can replace terminalCheck in tests.
// The returned cleanup function should be deferred to restore the original.
func mockTerminalCheckFunc(isTerminal bool) func() {
	original := terminalCheck
	terminalCheck = func() bool { return isTerminal }
	return func() { terminalCheck = original }
}

// mockConfirmFunc replaces confirmPrompt with one answering answer.
func mockConfirmFunc(answer bool, err error) func() {
	original := confirmPrompt
	confirmPrompt = func(string, bool) (bool, error) { return answer, err }
	return func() { confirmPrompt = original }
}

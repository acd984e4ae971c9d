package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/eureka/internal/errors"
)

func TestRootCmd_Help(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Eureka")
	assert.Contains(t, output, "template")
	assert.Contains(t, output, "task")
	assert.Contains(t, output, "deps")
	assert.Contains(t, output, "--output")
	assert.Contains(t, output, "--config")
	assert.Contains(t, output, "--version")
}

func TestRootCmd_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		info           BuildInfo
		expectContains []string
	}{
		{
			name:           "full version info",
			info:           BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2026-01-01"},
			expectContains: []string{"1.0.0", "abc1234", "2026-01-01"},
		},
		{
			name:           "default dev version",
			info:           BuildInfo{},
			expectContains: []string{"dev", "none", "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd := newRootCmd(&GlobalFlags{}, tc.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"--version"})

			require.NoError(t, cmd.Execute())
			for _, expected := range tc.expectContains {
				assert.Contains(t, buf.String(), expected)
			}
		})
	}
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("template", "list", "--output", "xml")
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_VerboseQuietMutuallyExclusive(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("template", "list", "--verbose", "--quiet")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "template", "list"})

	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, errors.ErrConfigNotFound)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile("config.yaml", "store:\n  backend: postgres\n")

	_, err := env.run("task", "list", "p1")
	require.ErrorIs(t, err, errors.ErrConfigInvalidStore)
}

func TestRootCmd_SetsGlobalLogger(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("template", "list", "--verbose")
	logger := GetLogger()
	assert.Equal(t, "debug", logger.GetLevel().String())
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.2.3 (commit: abc, built: today)", formatVersion(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"}))
	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
}

func TestExecutionContext_RoundTrip(t *testing.T) {
	t.Parallel()

	assert.Nil(t, GetExecutionContext(context.Background()))

	ec := &ExecutionContext{ConfigPath: "x.yaml"}
	ctx := WithExecutionContext(context.Background(), ec)
	assert.Same(t, ec, GetExecutionContext(ctx))
}

func TestExecutionContext_TemplatePath(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile("templates/chores.yml", "name: chore\nfields:\n  - {id: what, label: What, type: text}\n")

	ec, err := ResolveExecutionContext(context.Background(), env.configPath)
	require.NoError(t, err)

	_, err = ec.Registry(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.templatesDir, "chores.yml"), ec.TemplatePath("chore"))
	assert.Equal(t, filepath.Join(env.templatesDir, "bug.yaml"), ec.TemplatePath("bug"))
}

func TestReportError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var text bytes.Buffer
	reportError(&text, "xml", fmt.Errorf("show: %w", errors.ErrTemplateNotFound))
	assert.Contains(t, text.String(), "✗ show: template not found")
	assert.Contains(t, text.String(), "Try: Run 'eureka template list'")

	var js bytes.Buffer
	reportError(&js, OutputJSON, fmt.Errorf("add: %w", errors.ErrDependencyCycle))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(js.Bytes(), &payload))
	assert.Equal(t, "error", payload["type"])
	assert.Contains(t, payload["suggestion"], "eureka deps path")
}

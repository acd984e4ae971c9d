package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/eureka/internal/errors"
)

func TestGlobalFlags_Defaults(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	assert.Equal(t, OutputText, flags.Output)
	assert.False(t, flags.Verbose)
	assert.False(t, flags.Quiet)
	assert.Empty(t, flags.Config)
}

func TestAddGlobalFlags(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	outputFlag := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, OutputText, outputFlag.DefValue)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	quietFlag := cmd.PersistentFlags().Lookup("quiet")
	require.NotNil(t, quietFlag)
	assert.Equal(t, "q", quietFlag.Shorthand)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Empty(t, configFlag.DefValue)
}

func TestAddGlobalFlags_ParsesCorrectly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		args            []string
		expectedOutput  string
		expectedVerbose bool
		expectedQuiet   bool
		expectedConfig  string
	}{
		{
			name:           "default values",
			args:           []string{},
			expectedOutput: OutputText,
		},
		{
			name:           "output shorthand",
			args:           []string{"-o", "json"},
			expectedOutput: OutputJSON,
		},
		{
			name:            "verbose shorthand",
			args:            []string{"-v"},
			expectedOutput:  OutputText,
			expectedVerbose: true,
		},
		{
			name:           "quiet flag",
			args:           []string{"--quiet"},
			expectedOutput: OutputText,
			expectedQuiet:  true,
		},
		{
			name:           "config file",
			args:           []string{"--config", "/tmp/eureka.yaml", "-o", "json"},
			expectedOutput: OutputJSON,
			expectedConfig: "/tmp/eureka.yaml",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			flags := &GlobalFlags{}
			cmd := &cobra.Command{
				Use: "test",
				RunE: func(_ *cobra.Command, _ []string) error {
					return nil
				},
			}
			AddGlobalFlags(cmd, flags)

			cmd.SetArgs(tc.args)
			require.NoError(t, cmd.Execute())

			assert.Equal(t, tc.expectedOutput, flags.Output)
			assert.Equal(t, tc.expectedVerbose, flags.Verbose)
			assert.Equal(t, tc.expectedQuiet, flags.Quiet)
			assert.Equal(t, tc.expectedConfig, flags.Config)
		})
	}
}

func TestBindGlobalFlags(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	require.NoError(t, BindGlobalFlags(v, cmd))

	require.NoError(t, cmd.PersistentFlags().Set("output", "json"))
	require.NoError(t, cmd.PersistentFlags().Set("config", "custom.yaml"))

	assert.Equal(t, "json", v.GetString("output"))
	assert.Equal(t, "custom.yaml", v.GetString("config"))
}

func TestBindGlobalFlags_ConfigFromEnvironment(t *testing.T) {
	t.Setenv("EUREKA_CONFIG", "/etc/eureka.yaml")

	flags := &GlobalFlags{}
	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	require.NoError(t, BindGlobalFlags(v, cmd))
	assert.Equal(t, "/etc/eureka.yaml", v.GetString("config"))
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   string
		expected bool
	}{
		{"text is valid", OutputText, true},
		{"json is valid", OutputJSON, true},
		{"xml is invalid", "xml", false},
		{"empty is invalid", "", false},
		{"uppercase JSON is invalid", "JSON", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, IsValidOutputFormat(tc.format))
		})
	}
}

//nolint:err113 // Test cases intentionally use dynamic errors to simulate Cobra error messages
func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{
			name:         "nil error returns success",
			err:          nil,
			expectedCode: ExitSuccess,
		},
		{
			name:         "wrapped ErrInvalidOutputFormat returns invalid input",
			err:          fmt.Errorf("validation failed: %w", errors.ErrInvalidOutputFormat),
			expectedCode: ExitInvalidInput,
		},
		{
			name:         "exit code 2 wrapper returns invalid input",
			err:          errors.NewExitCode2Error(stderrors.New("bad template")),
			expectedCode: ExitInvalidInput,
		},
		{
			name:         "invalid id returns invalid input",
			err:          fmt.Errorf("task %w: %q", errors.ErrInvalidID, "../x"),
			expectedCode: ExitInvalidInput,
		},
		{
			name:         "missing required field returns invalid input",
			err:          stderrors.Join(fmt.Errorf("summary: %w", errors.ErrRequiredFieldMissing)),
			expectedCode: ExitInvalidInput,
		},
		{
			name:         "unknown flag error returns invalid input",
			err:          stderrors.New("unknown flag: --foo"),
			expectedCode: ExitInvalidInput,
		},
		{
			name:         "mutually exclusive flags error returns invalid input",
			err:          stderrors.New("if any flags in the group [verbose quiet] are set none of the others can be"),
			expectedCode: ExitInvalidInput,
		},
		{
			name:         "dependency cycle returns error code",
			err:          fmt.Errorf("add: %w", errors.ErrDependencyCycle),
			expectedCode: ExitError,
		},
		{
			name:         "generic error returns error code",
			err:          stderrors.New("something went wrong"),
			expectedCode: ExitError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expectedCode, ExitCodeForError(tc.err))
		})
	}
}

func TestIsInvalidInputError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		errMsg   string
		expected bool
	}{
		{"unknown flag", "unknown flag: --foo", true},
		{"flag needs argument", "flag needs an argument: --output", true},
		{"invalid argument", "invalid argument \"foo\"", true},
		{"required flag", "required flag \"--config\" not set", true},
		{"unknown command", "unknown command \"bar\"", true},
		{"generic error", "something went wrong", false},
		{"empty message", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, isInvalidInputError(tc.errMsg))
		})
	}
}

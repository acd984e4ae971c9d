// Package cli provides the command-line interface for eureka.
package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/logging"
	"github.com/mrz1836/eureka/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
// Access is protected by globalLoggerMu for thread safety.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// IMPORTANT: This function MUST only be called after the root command's
// PersistentPreRunE has executed. Calling it before initialization will
// return a zero-value logger that discards all log output.
//
// This function is safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates and returns the root command for the eureka CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "eureka",
		Short: "Eureka - task templates and dependency tracking",
		Long: `Eureka manages project tasks: templates define the fields a task carries,
tasks store validated field values, and dependencies between tasks are
checked so the "depends on" graph never forms a cycle.

Features:
  • Typed template fields (text, number, date, single and multi select)
  • Field validation with defaults and per-field error messages
  • File, memory and Redis task stores
  • Cycle-safe dependency editing with the offending path reported`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ec, err := ResolveExecutionContext(ctx, v.GetString("config"))
			if err != nil {
				return err
			}

			logger := InitLogger(flags.Verbose, flags.Quiet, ec.Config.Log)
			globalLoggerMu.Lock()
			globalLogger = logger
			globalLoggerMu.Unlock()

			logger.Debug().
				Str("backend", ec.Config.Store.Backend).
				Str("redis_url", logging.SafeValue("redis_url", ec.Config.Store.RedisURL)).
				Str("templates_dir", ec.Config.Templates.Dir).
				Bool("snapshot", ec.Config.Dependencies.Snapshot).
				Msg("configuration resolved")

			ctx = logger.WithContext(ctx)
			cmd.SetContext(WithExecutionContext(ctx, ec))
			return nil
		},
		// SilenceUsage prevents printing usage on error
		// (we handle our own error messages)
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddTemplateCommand(cmd)
	AddTaskCommand(cmd)
	AddDepsCommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(cmd.ErrOrStderr(), flags.Output, err)
	}
	return err
}

// reportError writes err with its suggested action in the requested format,
// falling back to text when the format itself was the problem.
func reportError(w io.Writer, format string, err error) {
	if !IsValidOutputFormat(format) {
		format = OutputText
	}
	tui.NewOutput(w, format).Error(err)
}

package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/eureka/internal/dependency"
	"github.com/mrz1836/eureka/internal/store"
	"github.com/mrz1836/eureka/internal/tui"
)

// AddDepsCommand adds the deps command group to the root command.
func AddDepsCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "deps",
		Aliases: []string{"dependencies"},
		Short:   "Check and edit task dependencies",
		Long: `A task may depend on other tasks of the same project. Dependencies are
checked before they are written so the "depends on" graph never forms a cycle.
Tasks missing from the store are treated as dead ends.`,
	}

	addDepsCheckCmd(cmd)
	addDepsAddCmd(cmd)
	addDepsRemoveCmd(cmd)
	addDepsPathCmd(cmd)

	root.AddCommand(cmd)
}

// depsSession holds the store and service of one deps command.
type depsSession struct {
	ec  *ExecutionContext
	st  store.TaskStore
	svc *dependency.Service
}

func openDepsSession(ctx context.Context) (*depsSession, error) {
	ec, err := executionContext(ctx)
	if err != nil {
		return nil, err
	}
	st, err := ec.OpenStore()
	if err != nil {
		return nil, err
	}
	svc, err := ec.NewService(st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &depsSession{ec: ec, st: st, svc: svc}, nil
}

func (s *depsSession) close(ctx context.Context) {
	s.ec.logMetrics(ctx)
	_ = s.st.Close()
}

func addDepsCheckCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "check <project> <task-id> <dependency-id>...",
		Short: "Check whether dependencies can be added without a cycle",
		Long: `Report whether the task may depend on every given task. Nothing is
written. Exits non-zero and prints the cycle when one would be created.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsCheck(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1], args[2:])
		},
	}
	parent.AddCommand(cmd)
}

func runDepsCheck(ctx context.Context, cmd *cobra.Command, w io.Writer, projectID, taskID string, depIDs []string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	session, err := openDepsSession(ctx)
	if err != nil {
		return err
	}
	defer session.close(ctx)

	out := tui.NewOutput(w, outputFormat(cmd))
	err = session.svc.Check(ctx, projectID, taskID, depIDs...)

	var cycleErr *dependency.CycleError
	switch {
	case err == nil:
		if outputFormat(cmd) == OutputJSON {
			return out.JSON(map[string]any{"task_id": taskID, "dependencies": depIDs, "cycle": false})
		}
		out.Success(fmt.Sprintf("'%s' can depend on %s without a cycle", taskID, strings.Join(depIDs, ", ")))
		return nil
	case stderrors.As(err, &cycleErr):
		if outputFormat(cmd) == OutputJSON {
			_ = out.JSON(map[string]any{
				"task_id":    taskID,
				"dependency": cycleErr.DependencyID,
				"cycle":      true,
				"path":       cycleErr.Path,
			})
		} else {
			out.Warning("Cycle: " + strings.Join(cycleErr.Path, " → "))
		}
		return err
	default:
		return err
	}
}

func addDepsAddCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add <project> <task-id> <dependency-id>...",
		Short: "Add dependencies to a task",
		Long: `Add dependencies to a task. The task and every dependency must exist.
Edges already present are skipped; if any new edge would create a cycle,
nothing is written.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsAdd(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1], args[2:])
		},
	}
	parent.AddCommand(cmd)
}

func runDepsAdd(ctx context.Context, cmd *cobra.Command, w io.Writer, projectID, taskID string, depIDs []string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	session, err := openDepsSession(ctx)
	if err != nil {
		return err
	}
	defer session.close(ctx)

	task, err := session.svc.AddDependencies(ctx, projectID, taskID, depIDs...)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, outputFormat(cmd))
	if outputFormat(cmd) == OutputJSON {
		return out.JSON(task)
	}
	out.Success(fmt.Sprintf("'%s' now depends on %s", taskID, orDash(strings.Join(task.DependingOnTasks, ", "))))
	return nil
}

func addDepsRemoveCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "remove <project> <task-id> <dependency-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a dependency from a task",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsRemove(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1], args[2])
		},
	}
	parent.AddCommand(cmd)
}

func runDepsRemove(ctx context.Context, cmd *cobra.Command, w io.Writer, projectID, taskID, depID string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	session, err := openDepsSession(ctx)
	if err != nil {
		return err
	}
	defer session.close(ctx)

	task, err := session.svc.RemoveDependency(ctx, projectID, taskID, depID)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, outputFormat(cmd))
	if outputFormat(cmd) == OutputJSON {
		return out.JSON(task)
	}
	out.Success(fmt.Sprintf("'%s' no longer depends on '%s'", taskID, depID))
	return nil
}

func addDepsPathCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "path <project> <task-id> <dependency-id>",
		Short: "Show the cycle a dependency would create",
		Long: `Print the path of the cycle that adding the dependency would close,
starting and ending at the task, or report that there is none.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsPath(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1], args[2])
		},
	}
	parent.AddCommand(cmd)
}

func runDepsPath(ctx context.Context, cmd *cobra.Command, w io.Writer, projectID, taskID, depID string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	session, err := openDepsSession(ctx)
	if err != nil {
		return err
	}
	defer session.close(ctx)

	path, err := session.svc.CyclePath(ctx, projectID, taskID, depID)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, outputFormat(cmd))
	if outputFormat(cmd) == OutputJSON {
		if path == nil {
			path = []string{}
		}
		return out.JSON(map[string]any{"task_id": taskID, "dependency": depID, "cycle": len(path) > 0, "path": path})
	}
	if len(path) == 0 {
		out.Info(fmt.Sprintf("No cycle: '%s' can depend on '%s'", taskID, depID))
		return nil
	}
	out.Warning("Cycle: " + strings.Join(path, " → "))
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/eureka/internal/constants"
	"github.com/mrz1836/eureka/internal/domain"
	"github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/schema"
	"github.com/mrz1836/eureka/internal/store"
	"github.com/mrz1836/eureka/internal/template"
	"github.com/mrz1836/eureka/internal/tui"
)

// AddTaskCommand adds the task command group to the root command.
func AddTaskCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, inspect and delete project tasks",
		Long: `Tasks belong to a project and may carry field values entered against a
template. Values are validated before a task is saved, and new dependencies
are checked for cycles.`,
	}

	addTaskPutCmd(cmd)
	addTaskGetCmd(cmd)
	addTaskListCmd(cmd)
	addTaskDeleteCmd(cmd)

	root.AddCommand(cmd)
}

// taskPutOptions are the flags of task put.
type taskPutOptions struct {
	title      string
	template   string
	valuesFile string
	sets       []string
	dependsOn  []string
}

func addTaskPutCmd(parent *cobra.Command) {
	var opts taskPutOptions
	cmd := &cobra.Command{
		Use:   "put <project> <task-id>",
		Short: "Create or replace a task",
		Long: `Create a task or replace a stored one. With --template the field values
are checked against the template, empty fields take their defaults, and every
failing field is reported. Dependencies the stored task does not have yet are
checked for cycles before anything is written.

Examples:
  eureka task put android-app t1 --title "Login screen" --template feature \
    --set title="Login screen" --set estimate=4 --set areas=auth,ui
  eureka task put android-app t2 --title "Wire login" --depends-on t1
  eureka task put android-app t3 --template bug --values bug.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskPut(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "task title")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "template the field values are entered against")
	cmd.Flags().StringVar(&opts.valuesFile, "values", "", "YAML or JSON file of field values")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "field value as id=value (repeatable; comma separated for multi-select)")
	cmd.Flags().StringSliceVar(&opts.dependsOn, "depends-on", nil, "ids of tasks this task depends on")

	parent.AddCommand(cmd)
}

func runTaskPut(ctx context.Context, cmd *cobra.Command, w io.Writer, projectID, taskID string, opts taskPutOptions) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}
	if err := store.ValidateID("project", projectID); err != nil {
		return err
	}
	if err := store.ValidateID("task", taskID); err != nil {
		return err
	}

	ec, err := executionContext(ctx)
	if err != nil {
		return err
	}
	out := tui.NewOutput(w, outputFormat(cmd))

	task := &domain.Task{
		TaskID:           taskID,
		ProjectID:        projectID,
		Title:            opts.title,
		Template:         opts.template,
		DependingOnTasks: opts.dependsOn,
		SchemaVersion:    constants.TaskSchemaVersion,
	}

	if opts.template != "" {
		fields, err := taskFields(ctx, ec, opts)
		if err != nil {
			if errors.IsExitCode2Error(err) {
				reportFieldErrors(cmd, out, err)
			}
			return err
		}
		task.Fields = fields
	} else if opts.valuesFile != "" || len(opts.sets) > 0 {
		// Without a template there is no schema; values are stored as given.
		fields, err := collectRawValues(schema.Empty(), opts.valuesFile, opts.sets)
		if err != nil {
			return err
		}
		task.Fields = fields
	}

	st, err := ec.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	svc, err := ec.NewService(st)
	if err != nil {
		return err
	}
	defer ec.logMetrics(ctx)

	if err := svc.SaveTask(ctx, task); err != nil {
		return err
	}

	if outputFormat(cmd) == OutputJSON {
		return out.JSON(task)
	}
	out.Success(fmt.Sprintf("Saved task '%s' in project '%s'", taskID, projectID))
	return nil
}

// taskFields validates the put values against the named template and
// returns them in their stored form.
func taskFields(ctx context.Context, ec *ExecutionContext, opts taskPutOptions) (map[string]any, error) {
	registry, err := ec.Registry(ctx)
	if err != nil {
		return nil, err
	}
	t, err := registry.Get(opts.template)
	if err != nil {
		return nil, err
	}

	raw, err := collectRawValues(t.Schema, opts.valuesFile, opts.sets)
	if err != nil {
		return nil, err
	}
	values, err := prepareValues(t.Schema, raw)
	if err != nil {
		return nil, err
	}
	return template.RawValues(values), nil
}

func addTaskGetCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "get <project> <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskGet(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1])
		},
	}
	parent.AddCommand(cmd)
}

func runTaskGet(ctx context.Context, cmd *cobra.Command, w io.Writer, projectID, taskID string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	ec, err := executionContext(ctx)
	if err != nil {
		return err
	}
	st, err := ec.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	task, err := st.GetTaskByID(ctx, projectID, taskID)
	if err != nil {
		return err
	}

	if outputFormat(cmd) == OutputJSON {
		return tui.NewOutput(w, OutputJSON).JSON(task)
	}

	tui.CheckNoColor()
	_, _ = fmt.Fprintln(w, tui.StyleBold.Render(task.TaskID)+"  "+task.Title)
	rows := [][]string{
		{"project", task.ProjectID},
		{"template", orDash(task.Template)},
		{"depends on", orDash(strings.Join(task.DependingOnTasks, ", "))},
		{"created", tui.RelativeTime(task.CreatedAt)},
		{"updated", tui.RelativeTime(task.UpdatedAt)},
	}
	for _, key := range task.FieldKeys() {
		rows = append(rows, []string{"field " + key, formatRaw(task.Fields[key])})
	}
	tui.NewTTYOutput(w).Table([]string{"KEY", "VALUE"}, rows)
	return nil
}

func addTaskListCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "list <project>",
		Aliases: []string{"ls"},
		Short:   "List the tasks of a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskList(cmd.Context(), cmd, cmd.OutOrStdout(), args[0])
		},
	}
	parent.AddCommand(cmd)
}

func runTaskList(ctx context.Context, cmd *cobra.Command, w io.Writer, projectID string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	ec, err := executionContext(ctx)
	if err != nil {
		return err
	}
	st, err := ec.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	tasks, err := st.ListTasks(ctx, projectID)
	if err != nil {
		return err
	}

	if outputFormat(cmd) == OutputJSON {
		if tasks == nil {
			tasks = []*domain.Task{}
		}
		return tui.NewOutput(w, OutputJSON).JSON(tasks)
	}

	if len(tasks) == 0 {
		_, _ = fmt.Fprintf(w, "No tasks in project '%s'. Run 'eureka task put %s <task-id>' to create one.\n", projectID, projectID)
		return nil
	}

	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, []string{
			task.TaskID,
			task.Title,
			orDash(task.Template),
			orDash(strings.Join(task.DependingOnTasks, ", ")),
			tui.RelativeTime(task.UpdatedAt),
		})
	}
	tui.NewTTYOutput(w).Table([]string{"ID", "TITLE", "TEMPLATE", "DEPENDS ON", "UPDATED"}, rows)
	return nil
}

func addTaskDeleteCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete <project> <task-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Long: `Delete a task. Tasks that depend on it keep their edge; the cycle check
treats the missing task as a dead end.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskDelete(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1])
		},
	}
	parent.AddCommand(cmd)
}

func runTaskDelete(ctx context.Context, cmd *cobra.Command, w io.Writer, projectID, taskID string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	ec, err := executionContext(ctx)
	if err != nil {
		return err
	}
	st, err := ec.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteTask(ctx, projectID, taskID); err != nil {
		return err
	}

	out := tui.NewOutput(w, outputFormat(cmd))
	if outputFormat(cmd) == OutputJSON {
		return out.JSON(map[string]string{"project_id": projectID, "task_id": taskID, "status": "deleted"})
	}
	out.Success(fmt.Sprintf("Deleted task '%s' from project '%s'", taskID, projectID))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatRaw renders a stored field value for display.
func formatRaw(v any) string {
	switch val := v.(type) {
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	case float64:
		return schema.FormatValue(schema.NumberValue{Value: &val})
	default:
		return fmt.Sprint(v)
	}
}

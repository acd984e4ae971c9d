package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/eureka/internal/domain"
	"github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/schema"
	"github.com/mrz1836/eureka/internal/template"
	"github.com/mrz1836/eureka/internal/tui"
)

// terminalCheck is a variable for the terminal check function, allowing tests to override it.
//
//nolint:gochecknoglobals // Required for test injection of terminal detection
var terminalCheck = tui.IsInteractive

// confirmPrompt asks a yes/no question, allowing tests to override it.
//
//nolint:gochecknoglobals // Required for test injection of the huh prompt
var confirmPrompt = tui.Confirm

// fieldFlags are the per-attribute flags of field add and update. A flag
// only applies when it was set on the command line.
type fieldFlags struct {
	spec        string
	id          string
	label       string
	fieldType   string
	required    bool
	description string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.spec, "spec", "", "field definition as inline YAML or JSON (id, label, type, constraints, default)")
	cmd.Flags().StringVar(&f.id, "id", "", "field id")
	cmd.Flags().StringVar(&f.label, "label", "", "field label")
	cmd.Flags().StringVar(&f.fieldType, "type", "", "field type (text|number|date|single_select|multi_select)")
	cmd.Flags().BoolVar(&f.required, "required", false, "require a value")
	cmd.Flags().StringVar(&f.description, "description", "", "field description (markdown)")
}

// apply overlays --spec and then the set flags onto base.
func (f *fieldFlags) apply(cmd *cobra.Command, base template.FileField) (template.FileField, error) {
	flags := cmd.Flags()
	spec := strings.TrimSpace(f.spec)

	var patch template.FileField
	if spec != "" {
		if err := yaml.Unmarshal([]byte(spec), &patch); err != nil {
			return base, fmt.Errorf("%w: --spec: %w", errors.ErrInvalidArgument, err)
		}
	}
	newType := patch.Type
	if flags.Changed("type") {
		newType = f.fieldType
	}
	// A type change drops the old type's constraints and default.
	if newType != "" && newType != base.Type {
		base = template.FileField{ID: base.ID, Label: base.Label, Required: base.Required, Description: base.Description}
	}
	if spec != "" {
		if err := yaml.Unmarshal([]byte(spec), &base); err != nil {
			return base, fmt.Errorf("%w: --spec: %w", errors.ErrInvalidArgument, err)
		}
	}

	if flags.Changed("id") {
		base.ID = f.id
	}
	if flags.Changed("label") {
		base.Label = f.label
	}
	if flags.Changed("type") {
		base.Type = f.fieldType
	}
	if flags.Changed("required") {
		base.Required = f.required
	}
	if flags.Changed("description") {
		base.Description = f.description
	}
	return base, nil
}

func addTemplateFieldCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Edit the fields of a template",
		Long: `Add, update, remove, move and duplicate template fields. Edits are saved to
the template's file in the templates directory; editing a built-in template
saves an override file named after it.`,
	}

	addFieldAddCmd(cmd)
	addFieldUpdateCmd(cmd)
	addFieldRemoveCmd(cmd)
	addFieldMoveCmd(cmd)
	addFieldDuplicateCmd(cmd)

	parent.AddCommand(cmd)
}

func addFieldAddCmd(parent *cobra.Command) {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "add <template>",
		Short: "Append a field to a template",
		Long: `Append a field to a template. The definition comes from --spec and the
individual attribute flags, the flags winning.

Examples:
  eureka template field add bug --id platform --label Platform --type single_select \
    --spec '{options: [{value: ios, label: iOS}, {value: android, label: Android}]}'
  eureka template field add feature --spec '{id: budget, label: Budget, type: number, min: 0, unit: USD}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFieldAdd(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], &ff)
		},
	}
	ff.register(cmd)
	parent.AddCommand(cmd)
}

func runFieldAdd(ctx context.Context, cmd *cobra.Command, w io.Writer, name string, ff *fieldFlags) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	t, ec, err := loadTemplate(ctx, name)
	if err != nil {
		return err
	}

	fileField, err := ff.apply(cmd, template.FileField{})
	if err != nil {
		return err
	}
	def, err := fileField.ToFieldDefinition()
	if err != nil {
		return errors.NewExitCode2Error(err)
	}
	updated, err := t.Schema.AddField(def)
	if err != nil {
		return errors.NewExitCode2Error(err)
	}

	return finishFieldEdit(ctx, cmd, w, ec, t, updated, fmt.Sprintf("Added field '%s' to template '%s'", def.ID, t.Name))
}

func addFieldUpdateCmd(parent *cobra.Command) {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "update <template> <field-id>",
		Short: "Change a field's definition",
		Long: `Change a field's definition in place. Keys in --spec and the attribute
flags replace the current values; everything else is kept. Changing the type
drops the old type's constraints and default. The id cannot change.

Examples:
  eureka template field update bug summary --spec '{max_length: 80}'
  eureka template field update feature estimate --required`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFieldUpdate(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1], &ff)
		},
	}
	ff.register(cmd)
	parent.AddCommand(cmd)
}

func runFieldUpdate(ctx context.Context, cmd *cobra.Command, w io.Writer, name, fieldID string, ff *fieldFlags) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	t, ec, err := loadTemplate(ctx, name)
	if err != nil {
		return err
	}

	current, ok := t.Schema.Field(fieldID)
	if !ok {
		return fmt.Errorf("%w: %q in template '%s'", errors.ErrFieldNotFound, fieldID, t.Name)
	}

	fileField, err := ff.apply(cmd, template.FromFieldDefinition(current))
	if err != nil {
		return err
	}
	def, err := fileField.ToFieldDefinition()
	if err != nil {
		return errors.NewExitCode2Error(err)
	}
	updated, err := t.Schema.UpdateField(fieldID, def)
	if err != nil {
		return errors.NewExitCode2Error(err)
	}

	return finishFieldEdit(ctx, cmd, w, ec, t, updated, fmt.Sprintf("Updated field '%s' in template '%s'", fieldID, t.Name))
}

func addFieldRemoveCmd(parent *cobra.Command) {
	var force bool
	cmd := &cobra.Command{
		Use:     "remove <template> <field-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a field from a template",
		Long: `Remove a field from a template. Values already stored on tasks are not
touched. Asks for confirmation unless --force is given; without a terminal
--force is required.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFieldRemove(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1], force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	parent.AddCommand(cmd)
}

func runFieldRemove(ctx context.Context, cmd *cobra.Command, w io.Writer, name, fieldID string, force bool) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	t, ec, err := loadTemplate(ctx, name)
	if err != nil {
		return err
	}
	if !t.Schema.HasField(fieldID) {
		return fmt.Errorf("%w: %q in template '%s'", errors.ErrFieldNotFound, fieldID, t.Name)
	}

	if !force {
		if !terminalCheck() {
			return fmt.Errorf("cannot remove field: %w", errors.ErrNonInteractiveMode)
		}
		confirmed, err := confirmPrompt(fmt.Sprintf("Remove field '%s' from template '%s'?", fieldID, t.Name), false)
		if err != nil {
			return fmt.Errorf("failed to get confirmation: %w", err)
		}
		if !confirmed {
			tui.NewOutput(w, outputFormat(cmd)).Info("Field removal canceled")
			return nil
		}
	}

	return finishFieldEdit(ctx, cmd, w, ec, t, t.Schema.RemoveField(fieldID),
		fmt.Sprintf("Removed field '%s' from template '%s'", fieldID, t.Name))
}

func addFieldMoveCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "move <template> <field> <position>",
		Short: "Move a field to another position",
		Long: `Move a field, given by id or position, to a zero-based position. The
fields in between shift by one.

Examples:
  eureka template field move bug priority 0
  eureka template field move feature 3 1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFieldMove(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1], args[2])
		},
	}
	parent.AddCommand(cmd)
}

func runFieldMove(ctx context.Context, cmd *cobra.Command, w io.Writer, name, fieldRef, position string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	t, ec, err := loadTemplate(ctx, name)
	if err != nil {
		return err
	}

	from, err := fieldIndex(t.Schema, fieldRef)
	if err != nil {
		return err
	}
	to, err := fieldIndex(t.Schema, position)
	if err != nil {
		return err
	}

	id := t.Schema.Fields()[from].ID
	return finishFieldEdit(ctx, cmd, w, ec, t, t.Schema.ReorderField(from, to),
		fmt.Sprintf("Moved field '%s' to position %d in template '%s'", id, to, t.Name))
}

func addFieldDuplicateCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "duplicate <template> <field-id>",
		Aliases: []string{"dup"},
		Short:   "Copy a field",
		Long: `Insert a copy of a field right after it. The copy gets a fresh id and
its label suffixed with " (copy)".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFieldDuplicate(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], args[1])
		},
	}
	parent.AddCommand(cmd)
}

func runFieldDuplicate(ctx context.Context, cmd *cobra.Command, w io.Writer, name, fieldID string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	t, ec, err := loadTemplate(ctx, name)
	if err != nil {
		return err
	}
	idx := t.Schema.IndexOf(fieldID)
	if idx < 0 {
		return fmt.Errorf("%w: %q in template '%s'", errors.ErrFieldNotFound, fieldID, t.Name)
	}

	updated := t.Schema.DuplicateField(fieldID)
	copyID := updated.Fields()[idx+1].ID
	return finishFieldEdit(ctx, cmd, w, ec, t, updated,
		fmt.Sprintf("Duplicated field '%s' as '%s' in template '%s'", fieldID, copyID, t.Name))
}

// finishFieldEdit saves t with its new schema and reports the result.
func finishFieldEdit(
	ctx context.Context,
	cmd *cobra.Command,
	w io.Writer,
	ec *ExecutionContext,
	t *domain.TaskTemplate,
	updated *schema.Schema,
	message string,
) error {
	t.Schema = updated
	path, err := saveTemplate(ctx, ec, t)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, outputFormat(cmd))
	if outputFormat(cmd) == OutputJSON {
		return out.JSON(map[string]any{"message": message, "path": path, "template": template.ToFileTemplate(t)})
	}
	out.Success(message)
	return nil
}

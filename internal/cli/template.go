package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/eureka/internal/domain"
	"github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/schema"
	"github.com/mrz1836/eureka/internal/store"
	"github.com/mrz1836/eureka/internal/template"
	"github.com/mrz1836/eureka/internal/tui"
)

// AddTemplateCommand adds the template command group to the root command.
func AddTemplateCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"tmpl"},
		Short:   "Inspect, validate and edit task templates",
		Long: `Task templates define the fields a task carries. The built-in templates
(bug, feature) can be overridden and extended by YAML or JSON files in the
templates directory (templates.dir, default .eureka/templates).`,
	}

	addTemplateListCmd(cmd)
	addTemplateShowCmd(cmd)
	addTemplateValidateCmd(cmd)
	addTemplateCheckCmd(cmd)
	addTemplateFieldCmd(cmd)

	root.AddCommand(cmd)
}

func addTemplateListCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTemplateList(cmd.Context(), cmd, cmd.OutOrStdout())
		},
	}
	parent.AddCommand(cmd)
}

// templateSummary is the JSON form of one row of template list.
type templateSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Fields      int    `json:"fields"`
	Required    int    `json:"required"`
	Source      string `json:"source"`
}

func runTemplateList(ctx context.Context, cmd *cobra.Command, w io.Writer) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	ec, err := executionContext(ctx)
	if err != nil {
		return err
	}
	registry, err := ec.Registry(ctx)
	if err != nil {
		return err
	}

	summaries := make([]templateSummary, 0)
	for _, t := range registry.List() {
		source := "built-in"
		if path, ok := ec.templateFiles[t.Name]; ok {
			source = path
		}
		summaries = append(summaries, templateSummary{
			Name:        t.Name,
			Description: firstLine(t.Description),
			Fields:      t.Schema.Len(),
			Required:    len(t.Schema.RequiredFields()),
			Source:      source,
		})
	}

	out := tui.NewOutput(w, outputFormat(cmd))
	if outputFormat(cmd) == OutputJSON {
		return out.JSON(summaries)
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Fields), strconv.Itoa(s.Required), s.Source, s.Description})
	}
	out.Table([]string{"NAME", "FIELDS", "REQUIRED", "SOURCE", "DESCRIPTION"}, rows)
	return nil
}

func addTemplateShowCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a template's fields",
		Long: `Display a template's description and a table of its fields with their
types, constraints and default values.

Examples:
  eureka template show bug
  eureka template show feature --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplateShow(cmd.Context(), cmd, cmd.OutOrStdout(), args[0])
		},
	}
	parent.AddCommand(cmd)
}

func runTemplateShow(ctx context.Context, cmd *cobra.Command, w io.Writer, name string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	t, _, err := loadTemplate(ctx, name)
	if err != nil {
		return err
	}

	if outputFormat(cmd) == OutputJSON {
		return tui.NewOutput(w, OutputJSON).JSON(template.ToFileTemplate(t))
	}
	tui.RenderTemplate(w, t)
	return nil
}

func addTemplateValidateCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a template file",
		Long: `Load a YAML or JSON template file and report whether every field
definition, constraint and default value is valid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplateValidate(cmd.Context(), cmd, cmd.OutOrStdout(), args[0])
		},
	}
	parent.AddCommand(cmd)
}

func runTemplateValidate(ctx context.Context, cmd *cobra.Command, w io.Writer, path string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	out := tui.NewOutput(w, outputFormat(cmd))
	t, err := template.NewLoader("").LoadFromFile(path)
	if err != nil {
		logger := GetLogger()
		logger.Debug().Err(err).Str("path", path).Msg("template file rejected")
		return errors.NewExitCode2Error(err)
	}

	if outputFormat(cmd) == OutputJSON {
		return out.JSON(map[string]any{"name": t.Name, "valid": true, "fields": t.Schema.Len()})
	}
	out.Success(fmt.Sprintf("Template '%s' is valid (%d fields)", t.Name, t.Schema.Len()))
	return nil
}

func addTemplateCheckCmd(parent *cobra.Command) {
	var (
		valuesFile string
		sets       []string
	)

	cmd := &cobra.Command{
		Use:   "check <name>",
		Short: "Check field values against a template",
		Long: `Validate a set of field values against a template without saving anything.
Defaults are applied to empty fields first. Every failing field is reported.

Examples:
  eureka template check bug --set summary="Crash on launch" --set priority=high
  eureka template check feature --values values.yaml
  eureka template check feature --set areas=sync,storage`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplateCheck(cmd.Context(), cmd, cmd.OutOrStdout(), args[0], valuesFile, sets)
		},
	}

	cmd.Flags().StringVar(&valuesFile, "values", "", "YAML or JSON file of field values")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as id=value (repeatable; comma separated for multi-select)")

	parent.AddCommand(cmd)
}

// fieldFailure is the JSON form of a failed field.
type fieldFailure struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func runTemplateCheck(ctx context.Context, cmd *cobra.Command, w io.Writer, name, valuesFile string, sets []string) error {
	if err := checkCanceled(ctx); err != nil {
		return err
	}

	t, _, err := loadTemplate(ctx, name)
	if err != nil {
		return err
	}

	raw, err := collectRawValues(t.Schema, valuesFile, sets)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, outputFormat(cmd))
	values, err := prepareValues(t.Schema, raw)
	if err != nil {
		reportFieldErrors(cmd, out, err)
		return err
	}

	if outputFormat(cmd) == OutputJSON {
		return out.JSON(map[string]any{"template": t.Name, "valid": true, "values": template.RawValues(values)})
	}
	out.Success(fmt.Sprintf("All fields valid for template '%s'", t.Name))
	return nil
}

// reportFieldErrors writes one line (or JSON entry) per failing field.
func reportFieldErrors(cmd *cobra.Command, out tui.Output, err error) {
	failures := fieldErrors(err)
	if outputFormat(cmd) == OutputJSON {
		list := make([]fieldFailure, 0, len(failures))
		for _, fe := range failures {
			list = append(list, fieldFailure{Field: fe.FieldID, Message: fe.Err.Error()})
		}
		_ = out.JSON(map[string]any{"valid": false, "errors": list})
		return
	}
	for _, fe := range failures {
		if fe.FieldID == "" {
			out.Warning(fe.Err.Error())
			continue
		}
		out.Warning(fmt.Sprintf("%s: %s", fe.FieldID, fe.Err.Error()))
	}
}

// loadTemplate resolves the execution context and looks up the named template.
func loadTemplate(ctx context.Context, name string) (*domain.TaskTemplate, *ExecutionContext, error) {
	ec, err := executionContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	registry, err := ec.Registry(ctx)
	if err != nil {
		return nil, nil, err
	}
	t, err := registry.Get(name)
	if err != nil {
		return nil, nil, err
	}
	return t, ec, nil
}

// saveTemplate writes t to its template file.
func saveTemplate(ctx context.Context, ec *ExecutionContext, t *domain.TaskTemplate) (string, error) {
	if err := store.ValidateID("template", t.Name); err != nil {
		return "", err
	}
	path := ec.TemplatePath(t.Name)
	if err := template.NewLoader("").SaveToFile(path, t); err != nil {
		return "", err
	}
	zerolog.Ctx(ctx).Info().
		Str("template", t.Name).
		Str("path", path).
		Int("fields", t.Schema.Len()).
		Msg("template saved")
	return path, nil
}

// fieldIndex resolves a field given by position or by id.
func fieldIndex(s *schema.Schema, ref string) (int, error) {
	if idx, err := strconv.Atoi(ref); err == nil {
		if idx < 0 || idx >= s.Len() {
			return 0, fmt.Errorf("%w: position %d out of range 0..%d", errors.ErrInvalidArgument, idx, s.Len()-1)
		}
		return idx, nil
	}
	if idx := s.IndexOf(ref); idx >= 0 {
		return idx, nil
	}
	return 0, fmt.Errorf("%w: %q", errors.ErrFieldNotFound, ref)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

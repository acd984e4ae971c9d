package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/schema"
	"github.com/mrz1836/eureka/internal/template"
)

// checkCanceled returns ctx's error once it is done.
func checkCanceled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// outputFormat returns the global --output flag of cmd.
func outputFormat(cmd *cobra.Command) string {
	if f := cmd.Flag("output"); f != nil {
		return f.Value.String()
	}
	return OutputText
}

// parseAssignments splits id=value pairs. The value may be empty; the id may not.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		id, value, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("%w: expected id=value, got %q", errors.ErrInvalidArgument, pair)
		}
		out[id] = value
	}
	return out, nil
}

// readValuesFile decodes a YAML or JSON mapping of field id to value.
func readValuesFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from the user's --values flag
	if err != nil {
		return nil, fmt.Errorf("failed to read values file: %w", err)
	}

	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: values file %s: %w", errors.ErrInvalidArgument, path, err)
	}
	return values, nil
}

// collectRawValues merges the values file (if any) with --set assignments,
// the assignments winning. Assignments to multi-select fields are split on
// commas.
func collectRawValues(s *schema.Schema, valuesFile string, sets []string) (map[string]any, error) {
	raw := make(map[string]any)
	if valuesFile != "" {
		fileValues, err := readValuesFile(valuesFile)
		if err != nil {
			return nil, err
		}
		raw = fileValues
	}

	assignments, err := parseAssignments(sets)
	if err != nil {
		return nil, err
	}
	for id, value := range assignments {
		if f, ok := s.Field(id); ok && f.Type.Key() == schema.FieldTypeMultiSelect {
			raw[id] = splitList(value)
			continue
		}
		raw[id] = value
	}
	return raw, nil
}

// splitList splits a comma separated list, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// fieldErrors flattens a joined validation error into its field failures.
// Failures that are not tied to a field are returned as a single entry with
// an empty FieldID.
func fieldErrors(err error) []*schema.FieldError {
	if err == nil {
		return nil
	}

	errs := []error{err}
	var joined interface{ Unwrap() []error }
	if stderrors.As(err, &joined) {
		errs = joined.Unwrap()
	}

	out := make([]*schema.FieldError, 0, len(errs))
	for _, e := range errs {
		var fe *schema.FieldError
		if stderrors.As(e, &fe) {
			out = append(out, fe)
			continue
		}
		out = append(out, &schema.FieldError{Err: e})
	}
	return out
}

// prepareValues parses raw values against s, fills defaults and validates
// the result. Invalid input is reported as an exit code 2 error.
func prepareValues(s *schema.Schema, raw map[string]any) (map[string]schema.FieldValue, error) {
	values, err := template.ParseValues(s, raw)
	if err != nil {
		return nil, errors.NewExitCode2Error(err)
	}
	values = s.ApplyDefaults(values)
	if err := s.ValidateValues(values); err != nil {
		return values, errors.NewExitCode2Error(err)
	}
	return values, nil
}

package template

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/schema"
)

// ValidateTemplate validates a template has all required fields and valid values.
// Returns nil if the template is valid, otherwise returns a descriptive error.
func ValidateTemplate(t *domain.TaskTemplate) error {
	if t == nil {
		return eurekaerrors.ErrTemplateNil
	}

	if strings.TrimSpace(t.Name) == "" {
		return eurekaerrors.ErrTemplateNameEmpty
	}

	if t.Schema == nil {
		return fmt.Errorf("%w: %s: schema is required", eurekaerrors.ErrTemplateInvalid, t.Name)
	}

	// Re-check every field; schemas built through NewSchema already pass,
	// this catches definitions assembled by hand.
	if _, err := schema.NewSchema(t.Schema.Fields()...); err != nil {
		return fmt.Errorf("%w: %s: %w", eurekaerrors.ErrTemplateInvalid, t.Name, err)
	}

	return nil
}

// ValidateTaskFields converts a task's raw field values with the template's
// field types and checks them against the schema. Every failure is reported.
func ValidateTaskFields(t *domain.TaskTemplate, fields map[string]any) error {
	values, err := ParseValues(t.Schema, fields)
	if err != nil {
		return err
	}
	return t.Schema.ValidateValues(values)
}

// ParseValues converts raw field values keyed by field id into typed values.
// Ids unknown to the schema are kept as text so ValidateValues can report them.
// Values that cannot be converted are all reported, joined in id order.
func ParseValues(s *schema.Schema, raw map[string]any) (map[string]schema.FieldValue, error) {
	values := make(map[string]schema.FieldValue, len(raw))
	var errs []error
	for _, id := range slices.Sorted(maps.Keys(raw)) {
		v := raw[id]
		f, ok := s.Field(id)
		if !ok {
			values[id] = schema.TextValue{Value: fmt.Sprint(v)}
			continue
		}
		parsed, err := schema.ParseFieldValue(f.Type, v)
		if err != nil {
			errs = append(errs, &schema.FieldError{FieldID: id, Err: err})
			continue
		}
		values[id] = parsed
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return values, nil
}

// RawValues is the inverse of ParseValues.
func RawValues(values map[string]schema.FieldValue) map[string]any {
	raw := make(map[string]any, len(values))
	for id, v := range values {
		if schema.IsEmpty(v) {
			continue
		}
		raw[id] = schema.RawValue(v)
	}
	return raw
}

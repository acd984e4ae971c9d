package schema

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// FieldError ties a validation failure to the field it belongs to.
type FieldError struct {
	FieldID string
	Err     error
}

// Error returns the field id followed by the failure.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.FieldID, e.Err)
}

// Unwrap returns the underlying failure.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// ApplyDefaults returns a copy of values with each missing or empty field
// filled from its default value.
func (s *Schema) ApplyDefaults(values map[string]FieldValue) map[string]FieldValue {
	out := make(map[string]FieldValue, len(values)+s.Len())
	maps.Copy(out, values)

	for _, f := range s.Fields() {
		if f.DefaultValue == nil {
			continue
		}
		if IsEmpty(out[f.ID]) {
			out[f.ID] = cloneValue(f.DefaultValue)
		}
	}
	return out
}

// ValidateValues checks a full set of answers against the schema. Empty
// answers are skipped unless the field is required. All failures are
// returned joined, each as a *FieldError: fields first in schema order,
// then unknown ids sorted.
func (s *Schema) ValidateValues(values map[string]FieldValue) error {
	var errs []error

	for _, f := range s.Fields() {
		v := values[f.ID]
		if IsEmpty(v) {
			if f.Required {
				errs = append(errs, &FieldError{FieldID: f.ID, Err: eurekaerrors.ErrRequiredFieldMissing})
			}
			continue
		}
		if err := f.Type.Validate(v); err != nil {
			errs = append(errs, &FieldError{FieldID: f.ID, Err: err})
		}
	}

	for _, id := range slices.Sorted(maps.Keys(values)) {
		if !s.HasField(id) {
			errs = append(errs, &FieldError{FieldID: id, Err: eurekaerrors.ErrUnknownField})
		}
	}

	return errors.Join(errs...)
}

package schema

import (
	"fmt"
	"reflect"
	"strings"

	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// FieldDefinition is one configured field of a template.
type FieldDefinition struct {
	// ID is the stable key of the field, unique within a schema.
	ID    string
	Label string
	Type  FieldType

	Required    bool
	Description string

	// DefaultValue, when set, must be of the same variant as Type and
	// satisfy its constraints.
	DefaultValue FieldValue
}

// DefinitionOption configures optional parts of a FieldDefinition.
type DefinitionOption func(*FieldDefinition)

// Required marks the field as required.
func Required() DefinitionOption {
	return func(f *FieldDefinition) {
		f.Required = true
	}
}

// WithDescription sets the help text shown under the field.
func WithDescription(description string) DefinitionOption {
	return func(f *FieldDefinition) {
		f.Description = description
	}
}

// WithDefaultValue sets the value pre-filled for new tasks.
func WithDefaultValue(v FieldValue) DefinitionOption {
	return func(f *FieldDefinition) {
		f.DefaultValue = v
	}
}

// NewFieldDefinition builds a field and checks it.
func NewFieldDefinition(id, label string, fieldType FieldType, opts ...DefinitionOption) (FieldDefinition, error) {
	f := FieldDefinition{
		ID:    id,
		Label: label,
		Type:  fieldType,
	}
	for _, opt := range opts {
		opt(&f)
	}

	if err := f.Check(); err != nil {
		return FieldDefinition{}, err
	}
	return f, nil
}

// Check verifies id and label are not blank, the type is valid, and any
// default value satisfies the type.
func (f FieldDefinition) Check() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: id must not be blank", eurekaerrors.ErrInvalidFieldDefinition)
	}
	if strings.TrimSpace(f.Label) == "" {
		return fmt.Errorf("%w: field %q: label must not be blank", eurekaerrors.ErrInvalidFieldDefinition, f.ID)
	}
	if f.Type == nil {
		return fmt.Errorf("%w: field %q: type is required", eurekaerrors.ErrInvalidFieldDefinition, f.ID)
	}
	if err := f.Type.Check(); err != nil {
		return fmt.Errorf("field %q: %w", f.ID, err)
	}
	if f.DefaultValue != nil {
		if err := f.Type.Validate(f.DefaultValue); err != nil {
			return fmt.Errorf("%w: %w", eurekaerrors.ErrInvalidDefaultValue, err)
		}
	}
	return nil
}

// Equal reports whether two definitions have the same content.
func (f FieldDefinition) Equal(other FieldDefinition) bool {
	return reflect.DeepEqual(f, other)
}

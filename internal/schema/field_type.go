// Package schema implements the typed field schema behind task templates.
//
// A schema is an ordered list of field definitions. Each field has a
// FieldType (one of five closed variants carrying per-type constraints) and an
// optional default FieldValue of the matching variant. Constraint
// combinations are checked when a type is constructed; values are checked
// against a type with FieldType.Validate.
//
// Schema values are immutable: every structural edit returns a new *Schema.
//
// IMPORTANT: This package may import internal/errors only.
package schema

import (
	"fmt"
	"strings"

	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// FieldTypeKey tags which variant a FieldType or FieldValue is.
type FieldTypeKey string

// Field type keys. The string values are the persisted form.
const (
	FieldTypeText         FieldTypeKey = "TEXT"
	FieldTypeNumber       FieldTypeKey = "NUMBER"
	FieldTypeDate         FieldTypeKey = "DATE"
	FieldTypeSingleSelect FieldTypeKey = "SINGLE_SELECT"
	FieldTypeMultiSelect  FieldTypeKey = "MULTI_SELECT"
)

// String returns the string representation of the key.
func (k FieldTypeKey) String() string {
	return string(k)
}

// ValidFieldTypeKeys returns all field type keys in declaration order.
func ValidFieldTypeKeys() []FieldTypeKey {
	return []FieldTypeKey{
		FieldTypeText,
		FieldTypeNumber,
		FieldTypeDate,
		FieldTypeSingleSelect,
		FieldTypeMultiSelect,
	}
}

// IsValid reports whether k is one of the five known keys.
func (k FieldTypeKey) IsValid() bool {
	switch k {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeSingleSelect, FieldTypeMultiSelect:
		return true
	default:
		return false
	}
}

// ParseFieldTypeKey parses a key case-insensitively, accepting '-' and ' '
// as word separators ("single-select", "Single Select", "SINGLE_SELECT").
func ParseFieldTypeKey(s string) (FieldTypeKey, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	key := FieldTypeKey(normalized)
	if !key.IsValid() {
		return "", fmt.Errorf("%w: unknown type %q, must be one of %v", eurekaerrors.ErrInvalidFieldType, s, ValidFieldTypeKeys())
	}
	return key, nil
}

// FieldType is the closed set of field variants: TextType, NumberType,
// DateType, SingleSelectType and MultiSelectType. Consumers switch on the
// concrete type; the unexported marker keeps the set closed.
type FieldType interface {
	// Key returns the variant tag.
	Key() FieldTypeKey

	// Check verifies the constraint combination is valid.
	Check() error

	// Validate checks a value against the constraints. Failures are
	// *ValueError values carrying a human-readable reason.
	Validate(value FieldValue) error

	fieldType()
}

// Ptr returns a pointer to v. It is used to set optional constraints:
//
//	schema.NewTextType(schema.TextType{MaxLength: schema.Ptr(80)})
func Ptr[T any](v T) *T {
	return &v
}

// invalidType builds a construction error for a field type.
func invalidType(format string, args ...any) error {
	return fmt.Errorf("%w: %s", eurekaerrors.ErrInvalidFieldType, fmt.Sprintf(format, args...))
}

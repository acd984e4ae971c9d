package schema

import (
	"fmt"
	"slices"

	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// Schema is an ordered list of field definitions keyed by id.
//
// A Schema is immutable. AddField, RemoveField, UpdateField, ReorderField and
// DuplicateField return a new *Schema and leave the receiver untouched, even
// when the edit turns out to be a no-op.
type Schema struct {
	fields []FieldDefinition
}

// NewSchema builds a schema from fields, rejecting invalid definitions and
// repeated ids.
func NewSchema(fields ...FieldDefinition) (*Schema, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if err := f.Check(); err != nil {
			return nil, err
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("%w: %q", eurekaerrors.ErrDuplicateFieldID, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return &Schema{fields: cloneFields(fields)}, nil
}

// Empty returns a schema with no fields.
func Empty() *Schema {
	return &Schema{}
}

// Fields returns a deep copy of the definitions in order.
func (s *Schema) Fields() []FieldDefinition {
	if s == nil {
		return nil
	}
	return cloneFields(s.fields)
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// IndexOf returns the position of the field with id, or -1.
func (s *Schema) IndexOf(id string) int {
	if s == nil {
		return -1
	}
	return slices.IndexFunc(s.fields, func(f FieldDefinition) bool { return f.ID == id })
}

// Field returns the field with id.
func (s *Schema) Field(id string) (FieldDefinition, bool) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return FieldDefinition{}, false
	}
	return s.fields[idx].clone(), true
}

// HasField reports whether a field with id exists.
func (s *Schema) HasField(id string) bool {
	return s.IndexOf(id) >= 0
}

// RequiredFields returns the required fields in schema order.
func (s *Schema) RequiredFields() []FieldDefinition {
	var required []FieldDefinition
	for _, f := range s.Fields() {
		if f.Required {
			required = append(required, f)
		}
	}
	return required
}

// AddField appends f. It fails if f is invalid or its id is already used.
func (s *Schema) AddField(f FieldDefinition) (*Schema, error) {
	if err := f.Check(); err != nil {
		return nil, err
	}
	if s.HasField(f.ID) {
		return nil, fmt.Errorf("%w: %q", eurekaerrors.ErrDuplicateFieldID, f.ID)
	}
	return &Schema{fields: append(s.Fields(), f.clone())}, nil
}

// RemoveField drops the field with id. A missing id leaves the fields as they are.
func (s *Schema) RemoveField(id string) *Schema {
	fields := s.Fields()
	return &Schema{fields: slices.DeleteFunc(fields, func(f FieldDefinition) bool { return f.ID == id })}
}

// UpdateField replaces the field with id in place. The id itself cannot
// change through an update.
func (s *Schema) UpdateField(id string, f FieldDefinition) (*Schema, error) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", eurekaerrors.ErrFieldNotFound, id)
	}
	if f.ID != id {
		return nil, fmt.Errorf("%w: cannot change id %q to %q", eurekaerrors.ErrFieldIDMismatch, id, f.ID)
	}
	if err := f.Check(); err != nil {
		return nil, err
	}

	fields := s.Fields()
	fields[idx] = f.clone()
	return &Schema{fields: fields}, nil
}

// ReorderField moves the field at from to position to, shifting the fields
// in between. Out-of-range indexes or from == to leave the order unchanged.
func (s *Schema) ReorderField(from, to int) *Schema {
	fields := s.Fields()
	n := len(fields)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return &Schema{fields: fields}
	}

	moved := fields[from]
	fields = slices.Delete(fields, from, from+1)
	fields = slices.Insert(fields, to, moved)
	return &Schema{fields: fields}
}

// DuplicateField inserts a copy of the field with id right after it. The
// copy gets a fresh id and its label suffixed with " (copy)"; type,
// required flag, description and default value are kept. A missing id
// leaves the fields as they are.
func (s *Schema) DuplicateField(id string) *Schema {
	fields := s.Fields()
	idx := s.IndexOf(id)
	if idx < 0 {
		return &Schema{fields: fields}
	}

	dup := fields[idx]
	dup.ID = newFieldID(dup.ID, s.HasField)
	dup.Label += copySuffix

	return &Schema{fields: slices.Insert(fields, idx+1, dup)}
}

// Equal reports whether both schemas hold equal fields in the same order.
func (s *Schema) Equal(other *Schema) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i, f := range s.Fields() {
		if !f.Equal(other.fields[i]) {
			return false
		}
	}
	return true
}

func cloneFields(fields []FieldDefinition) []FieldDefinition {
	if fields == nil {
		return nil
	}
	out := make([]FieldDefinition, len(fields))
	for i, f := range fields {
		out[i] = f.clone()
	}
	return out
}

// clone copies f so that no option slice, constraint pointer or default
// value is shared with the copy.
func (f FieldDefinition) clone() FieldDefinition {
	f.Type = cloneType(f.Type)
	f.DefaultValue = cloneValue(f.DefaultValue)
	return f
}

func cloneType(ft FieldType) FieldType {
	switch t := ft.(type) {
	case TextType:
		t.MinLength = clonePtr(t.MinLength)
		t.MaxLength = clonePtr(t.MaxLength)
		return t
	case NumberType:
		t.Min = clonePtr(t.Min)
		t.Max = clonePtr(t.Max)
		t.Step = clonePtr(t.Step)
		return t
	case SingleSelectType:
		t.Options = slices.Clone(t.Options)
		return t
	case MultiSelectType:
		t.Options = slices.Clone(t.Options)
		t.MinSelections = clonePtr(t.MinSelections)
		t.MaxSelections = clonePtr(t.MaxSelections)
		return t
	default:
		return ft
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return Ptr(*p)
}

// cloneValue copies the backing storage of values that hold slices or pointers.
func cloneValue(v FieldValue) FieldValue {
	switch val := v.(type) {
	case MultiSelectValue:
		return MultiSelectValue{Values: slices.Clone(val.Values)}
	case NumberValue:
		return NumberValue{Value: clonePtr(val.Value)}
	default:
		return v
	}
}

package domain

import "github.com/mrz1836/eureka/internal/schema"

// TaskTemplate is a named, reusable field schema. Tasks created from a
// template have their field values checked against its schema.
type TaskTemplate struct {
	// Name is the unique identifier for this template (e.g., "bug", "feature").
	Name string

	// Description explains what this template is used for. It may contain markdown.
	Description string

	// Schema is the ordered field list. Schemas are immutable and safe to share.
	Schema *schema.Schema
}

// Clone returns a copy of the template. The schema pointer is shared since
// schemas never change after construction.
func (t *TaskTemplate) Clone() *TaskTemplate {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

// Package domain provides the shared domain types for eureka.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, internal/schema, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

import (
	"maps"
	"slices"
	"time"
)

// Task is a unit of work inside a project. Tasks form a directed
// "depends-on" graph through DependingOnTasks.
//
// Example JSON representation:
//
//	{
//	    "task_id": "t2",
//	    "project_id": "android-app",
//	    "title": "Wire login screen",
//	    "template": "feature",
//	    "fields": {"priority": "high", "estimate": 3},
//	    "depending_on_tasks": ["t1"],
//	    "created_at": "2026-01-12T10:00:00Z",
//	    "updated_at": "2026-01-12T10:05:00Z",
//	    "schema_version": 1
//	}
type Task struct {
	// TaskID is unique within the project.
	TaskID string `json:"task_id"`

	// ProjectID is the project that owns the task.
	ProjectID string `json:"project_id"`

	Title string `json:"title"`

	// Template names the task template the fields were entered against.
	Template string `json:"template,omitempty"`

	// Fields holds the entered field values in their plain JSON form,
	// keyed by field id.
	Fields map[string]any `json:"fields,omitempty"`

	// DependingOnTasks lists the ids of tasks this task depends on.
	DependingOnTasks []string `json:"depending_on_tasks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// SchemaVersion indicates the version of the Task struct schema.
	SchemaVersion int `json:"schema_version"`
}

// DependsOn reports whether t already has an edge to id.
func (t *Task) DependsOn(id string) bool {
	return slices.Contains(t.DependingOnTasks, id)
}

// Clone returns a deep copy of t. Nil stays nil.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	clone.DependingOnTasks = slices.Clone(t.DependingOnTasks)
	if t.Fields != nil {
		clone.Fields = make(map[string]any, len(t.Fields))
		for k, v := range t.Fields {
			if list, ok := v.([]any); ok {
				v = slices.Clone(list)
			}
			if list, ok := v.([]string); ok {
				v = slices.Clone(list)
			}
			clone.Fields[k] = v
		}
	}
	return &clone
}

// FieldKeys returns the field ids that have a value, sorted.
func (t *Task) FieldKeys() []string {
	return slices.Sorted(maps.Keys(t.Fields))
}

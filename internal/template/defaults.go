package template

import (
	"github.com/mrz1836/eureka/internal/domain"
	"github.com/mrz1836/eureka/internal/schema"
)

// NewDefaultRegistry creates a registry with all built-in templates.
// Templates are compiled into the binary (not external files).
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	// Errors are ignored as template names are guaranteed unique
	_ = r.Register(NewBugTemplate())
	_ = r.Register(NewFeatureTemplate())

	return r
}

func priorityOptions() []schema.SelectOption {
	return []schema.SelectOption{
		{Value: "low", Label: "Low"},
		{Value: "medium", Label: "Medium"},
		{Value: "high", Label: "High", Description: "Blocks a release"},
	}
}

// mustSchema builds a built-in schema. Built-in definitions are covered by
// tests, so a failure here is a programming error.
func mustSchema(fields ...schema.FieldDefinition) *schema.Schema {
	s, err := schema.NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// NewBugTemplate returns the built-in "bug" template.
func NewBugTemplate() *domain.TaskTemplate {
	return &domain.TaskTemplate{
		Name:        "bug",
		Description: "Report a **defect** with enough detail to reproduce it.",
		Schema: mustSchema(
			schema.FieldDefinition{
				ID:       "summary",
				Label:    "Summary",
				Type:     schema.TextType{MinLength: schema.Ptr(5), MaxLength: schema.Ptr(120)},
				Required: true,
			},
			schema.FieldDefinition{
				ID:          "steps",
				Label:       "Steps to reproduce",
				Type:        schema.TextType{Placeholder: "1. Open the app\n2. ..."},
				Description: "Numbered steps, one per line.",
			},
			schema.FieldDefinition{
				ID:           "priority",
				Label:        "Priority",
				Type:         schema.SingleSelectType{Options: priorityOptions()},
				Required:     true,
				DefaultValue: schema.SingleSelectValue{Value: "medium"},
			},
			schema.FieldDefinition{
				ID:    "found_on",
				Label: "Found on",
				Type:  schema.DateType{},
			},
		),
	}
}

// NewFeatureTemplate returns the built-in "feature" template.
func NewFeatureTemplate() *domain.TaskTemplate {
	return &domain.TaskTemplate{
		Name:        "feature",
		Description: "Plan a new capability and size it.",
		Schema: mustSchema(
			schema.FieldDefinition{
				ID:       "title",
				Label:    "Title",
				Type:     schema.TextType{MaxLength: schema.Ptr(80)},
				Required: true,
			},
			schema.FieldDefinition{
				ID:           "estimate",
				Label:        "Estimate",
				Type:         schema.NumberType{Min: schema.Ptr(0.0), Max: schema.Ptr(100.0), Step: schema.Ptr(0.5), Decimals: 1, Unit: "h"},
				DefaultValue: schema.NumberValue{Value: schema.Ptr(1.0)},
			},
			schema.FieldDefinition{
				ID:    "areas",
				Label: "Areas",
				Type: schema.MultiSelectType{
					Options: []schema.SelectOption{
						{Value: "ui", Label: "UI"},
						{Value: "sync", Label: "Sync"},
						{Value: "notifications", Label: "Notifications"},
					},
					MinSelections: schema.Ptr(1),
					AllowCustom:   true,
				},
				Required: true,
			},
			schema.FieldDefinition{
				ID:    "due",
				Label: "Due date",
				Type:  schema.DateType{IncludeTime: true},
			},
		),
	}
}

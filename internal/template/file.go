package template

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/schema"
)

// FileTemplate represents the YAML/JSON structure for template files.
// Field names use both yaml and json tags for dual format support.
type FileTemplate struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []FileField `yaml:"fields" json:"fields"`
}

// FileField represents one field in the YAML/JSON file. Constraint keys are
// flat; only the ones belonging to Type may be set.
type FileField struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Type        string `yaml:"type" json:"type"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`

	// text
	MinLength   *int   `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength   *int   `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Pattern     string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// number
	Min      *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max      *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Step     *float64 `yaml:"step,omitempty" json:"step,omitempty"`
	Decimals int      `yaml:"decimals,omitempty" json:"decimals,omitempty"`
	Unit     string   `yaml:"unit,omitempty" json:"unit,omitempty"`

	// date
	MinDate     string `yaml:"min_date,omitempty" json:"min_date,omitempty"`
	MaxDate     string `yaml:"max_date,omitempty" json:"max_date,omitempty"`
	IncludeTime bool   `yaml:"include_time,omitempty" json:"include_time,omitempty"`
	Format      string `yaml:"format,omitempty" json:"format,omitempty"`

	// single_select, multi_select
	Options       []schema.SelectOption `yaml:"options,omitempty" json:"options,omitempty"`
	AllowCustom   bool                  `yaml:"allow_custom,omitempty" json:"allow_custom,omitempty"`
	MinSelections *int                  `yaml:"min_selections,omitempty" json:"min_selections,omitempty"`
	MaxSelections *int                  `yaml:"max_selections,omitempty" json:"max_selections,omitempty"`
}

// constraintKeys lists the constraint keys set on f.
func (f *FileField) constraintKeys() []string {
	var keys []string
	add := func(set bool, key string) {
		if set {
			keys = append(keys, key)
		}
	}
	add(f.MinLength != nil, "min_length")
	add(f.MaxLength != nil, "max_length")
	add(f.Placeholder != "", "placeholder")
	add(f.Pattern != "", "pattern")
	add(f.Min != nil, "min")
	add(f.Max != nil, "max")
	add(f.Step != nil, "step")
	add(f.Decimals != 0, "decimals")
	add(f.Unit != "", "unit")
	add(f.MinDate != "", "min_date")
	add(f.MaxDate != "", "max_date")
	add(f.IncludeTime, "include_time")
	add(f.Format != "", "format")
	add(len(f.Options) > 0, "options")
	add(f.AllowCustom, "allow_custom")
	add(f.MinSelections != nil, "min_selections")
	add(f.MaxSelections != nil, "max_selections")
	return keys
}

// allowedKeys maps each field type to the constraint keys it accepts.
var allowedKeys = map[schema.FieldTypeKey][]string{ //nolint:gochecknoglobals // read-only lookup table
	schema.FieldTypeText:         {"min_length", "max_length", "placeholder", "pattern"},
	schema.FieldTypeNumber:       {"min", "max", "step", "decimals", "unit"},
	schema.FieldTypeDate:         {"min_date", "max_date", "include_time", "format"},
	schema.FieldTypeSingleSelect: {"options", "allow_custom"},
	schema.FieldTypeMultiSelect:  {"options", "allow_custom", "min_selections", "max_selections"},
}

// ToFieldDefinition converts a file field into a checked field definition.
func (f *FileField) ToFieldDefinition() (schema.FieldDefinition, error) {
	key, err := schema.ParseFieldTypeKey(f.Type)
	if err != nil {
		return schema.FieldDefinition{}, err
	}

	for _, k := range f.constraintKeys() {
		if !slices.Contains(allowedKeys[key], k) {
			return schema.FieldDefinition{}, fmt.Errorf("%w: %s does not apply to %s fields", eurekaerrors.ErrInvalidFieldDefinition, k, key)
		}
	}

	var ft schema.FieldType
	switch key {
	case schema.FieldTypeText:
		ft, err = schema.NewTextType(schema.TextType{
			MinLength: f.MinLength, MaxLength: f.MaxLength, Placeholder: f.Placeholder, Pattern: f.Pattern,
		})
	case schema.FieldTypeNumber:
		ft, err = schema.NewNumberType(schema.NumberType{
			Min: f.Min, Max: f.Max, Step: f.Step, Decimals: f.Decimals, Unit: f.Unit,
		})
	case schema.FieldTypeDate:
		ft, err = schema.NewDateType(schema.DateType{
			MinDate: f.MinDate, MaxDate: f.MaxDate, IncludeTime: f.IncludeTime, Format: f.Format,
		})
	case schema.FieldTypeSingleSelect:
		ft, err = schema.NewSingleSelectType(schema.SingleSelectType{
			Options: slices.Clone(f.Options), AllowCustom: f.AllowCustom,
		})
	case schema.FieldTypeMultiSelect:
		ft, err = schema.NewMultiSelectType(schema.MultiSelectType{
			Options: slices.Clone(f.Options), AllowCustom: f.AllowCustom,
			MinSelections: f.MinSelections, MaxSelections: f.MaxSelections,
		})
	}
	if err != nil {
		return schema.FieldDefinition{}, err
	}

	opts := []schema.DefinitionOption{schema.WithDescription(f.Description)}
	if f.Required {
		opts = append(opts, schema.Required())
	}
	if f.Default != nil {
		def, parseErr := schema.ParseFieldValue(ft, f.Default)
		if parseErr != nil {
			return schema.FieldDefinition{}, fmt.Errorf("default: %w", parseErr)
		}
		opts = append(opts, schema.WithDefaultValue(def))
	}

	return schema.NewFieldDefinition(f.ID, f.Label, ft, opts...)
}

// FromFieldDefinition converts a field definition into its file form.
func FromFieldDefinition(d schema.FieldDefinition) FileField {
	f := FileField{
		ID:          d.ID,
		Label:       d.Label,
		Required:    d.Required,
		Description: d.Description,
		Default:     schema.RawValue(d.DefaultValue),
	}

	switch t := d.Type.(type) {
	case schema.TextType:
		f.Type = "text"
		f.MinLength, f.MaxLength, f.Placeholder, f.Pattern = t.MinLength, t.MaxLength, t.Placeholder, t.Pattern
	case schema.NumberType:
		f.Type = "number"
		f.Min, f.Max, f.Step, f.Decimals, f.Unit = t.Min, t.Max, t.Step, t.Decimals, t.Unit
	case schema.DateType:
		f.Type = "date"
		f.MinDate, f.MaxDate, f.IncludeTime, f.Format = t.MinDate, t.MaxDate, t.IncludeTime, t.Format
	case schema.SingleSelectType:
		f.Type = "single_select"
		f.Options, f.AllowCustom = slices.Clone(t.Options), t.AllowCustom
	case schema.MultiSelectType:
		f.Type = "multi_select"
		f.Options, f.AllowCustom = slices.Clone(t.Options), t.AllowCustom
		f.MinSelections, f.MaxSelections = t.MinSelections, t.MaxSelections
	}
	return f
}

// toTemplate converts a FileTemplate to a domain.TaskTemplate.
func toTemplate(f *FileTemplate) (*domain.TaskTemplate, error) {
	fields := make([]schema.FieldDefinition, 0, len(f.Fields))
	for i := range f.Fields {
		def, err := f.Fields[i].ToFieldDefinition()
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", i, f.Fields[i].ID, err)
		}
		fields = append(fields, def)
	}

	s, err := schema.NewSchema(fields...)
	if err != nil {
		return nil, err
	}

	return &domain.TaskTemplate{
		Name:        strings.TrimSpace(f.Name),
		Description: f.Description,
		Schema:      s,
	}, nil
}

// ToFileTemplate converts a template into its file form.
func ToFileTemplate(t *domain.TaskTemplate) *FileTemplate {
	f := &FileTemplate{
		Name:        t.Name,
		Description: t.Description,
		Fields:      []FileField{},
	}
	for _, d := range t.Schema.Fields() {
		f.Fields = append(f.Fields, FromFieldDefinition(d))
	}
	return f
}

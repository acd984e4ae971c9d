package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/eureka/internal/domain"
	"github.com/mrz1836/eureka/internal/schema"
)

func TestFieldTypeName(t *testing.T) {
	assert.Equal(t, "Text", FieldTypeName(schema.FieldTypeText))
	assert.Equal(t, "Number", FieldTypeName(schema.FieldTypeNumber))
	assert.Equal(t, "Single Select", FieldTypeName(schema.FieldTypeSingleSelect))
	assert.Equal(t, "Multi Select", FieldTypeName(schema.FieldTypeMultiSelect))
}

func TestDescribeConstraints(t *testing.T) {
	tests := []struct {
		name string
		ft   schema.FieldType
		want string
	}{
		{name: "plain text", ft: schema.TextType{}, want: ""},
		{
			name: "text",
			ft:   schema.TextType{MinLength: schema.Ptr(1), MaxLength: schema.Ptr(10), Pattern: "[a-z]+"},
			want: "min length 1, max length 10, pattern [a-z]+",
		},
		{
			name: "number",
			ft:   schema.NumberType{Min: schema.Ptr(0.0), Max: schema.Ptr(2.5), Unit: "h"},
			want: "min 0, max 2.5, unit h",
		},
		{
			name: "date",
			ft:   schema.DateType{MinDate: "2024-01-01", IncludeTime: true},
			want: "from 2024-01-01, with time",
		},
		{
			name: "multi",
			ft: schema.MultiSelectType{
				Options:       []schema.SelectOption{{Value: "a", Label: "A"}},
				MaxSelections: schema.Ptr(1),
				AllowCustom:   true,
			},
			want: "1 options, pick at most 1, custom allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeConstraints(tt.ft))
		})
	}
}

func TestTable_Truncates(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	CheckNoColor()
	var buf bytes.Buffer

	table := NewTable(&buf, []TableColumn{
		{Name: "N", Width: 3, Align: AlignRight},
		{Name: "NAME", Width: 5},
	})
	table.WriteRow("7", "abcdefgh")

	assert.Equal(t, "  7 abcd…\n", buf.String())
}

func TestRenderTemplate(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	s, err := schema.NewSchema(
		schema.FieldDefinition{ID: "title", Label: "Title", Type: schema.TextType{}, Required: true},
		schema.FieldDefinition{
			ID:           "size",
			Label:        "Size",
			Type:         schema.NumberType{Max: schema.Ptr(8.0)},
			Description:  "Hours of work.",
			DefaultValue: schema.NumberValue{Value: schema.Ptr(2.0)},
		},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderTemplate(&buf, &domain.TaskTemplate{Name: "chore", Description: "Small jobs.", Schema: s})

	out := buf.String()
	assert.Contains(t, out, "chore")
	assert.Contains(t, out, "Small jobs.")
	assert.Contains(t, out, "CONSTRAINTS")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "Number")
	assert.Contains(t, out, "max 8")
	assert.Contains(t, out, "Hours of work.")
}

func TestRenderTemplate_NoFields(t *testing.T) {
	var buf bytes.Buffer
	RenderTemplate(&buf, &domain.TaskTemplate{Name: "empty", Schema: schema.Empty()})
	assert.Contains(t, buf.String(), "(no fields)")
}

package tui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mrz1836/eureka/internal/domain"
	"github.com/mrz1836/eureka/internal/schema"
)

// Column widths of the field table.
const (
	colIndexWidth       = 3
	colIDWidth          = 16
	colLabelWidth       = 22
	colTypeWidth        = 13
	colRequiredWidth    = 3
	colConstraintsWidth = 36
	colDefaultWidth     = 16
)

// RenderTemplate writes a template's name, its markdown description and a
// table of its fields. Field descriptions follow the table.
func RenderTemplate(w io.Writer, t *domain.TaskTemplate) {
	CheckNoColor()

	_, _ = fmt.Fprintln(w, StyleBold.Render(t.Name))
	if desc := RenderMarkdown(t.Description); desc != "" {
		_, _ = fmt.Fprintln(w, desc)
	}
	_, _ = fmt.Fprintln(w)

	if t.Schema.Len() == 0 {
		_, _ = fmt.Fprintln(w, StyleDim.Render("(no fields)"))
		return
	}

	table := NewTable(w, []TableColumn{
		{Name: "#", Width: colIndexWidth, Align: AlignRight},
		{Name: "ID", Width: colIDWidth},
		{Name: "LABEL", Width: colLabelWidth},
		{Name: "TYPE", Width: colTypeWidth},
		{Name: "REQ", Width: colRequiredWidth},
		{Name: "CONSTRAINTS", Width: colConstraintsWidth},
		{Name: "DEFAULT", Width: colDefaultWidth},
	})
	table.WriteHeader()

	colors := FieldTypeColors()
	fields := t.Schema.Fields()
	for i, f := range fields {
		required := ""
		if f.Required {
			required = "*"
		}
		table.WriteStyledRow([]string{
			strconv.Itoa(i),
			f.ID,
			f.Label,
			FieldTypeName(f.Type.Key()),
			required,
			DescribeConstraints(f.Type),
			schema.FormatValue(f.DefaultValue),
		}, 3, colors[f.Type.Key()])
	}

	for _, f := range fields {
		if f.Description == "" {
			continue
		}
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, StyleBold.Render(f.Label))
		_, _ = fmt.Fprintln(w, RenderMarkdown(f.Description))
	}
}

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/eureka/internal/schema"
)

// FieldTypeName returns the display name of a field type key,
// e.g. "Single Select" for SINGLE_SELECT.
func FieldTypeName(key schema.FieldTypeKey) string {
	words := strings.ReplaceAll(strings.ToLower(key.String()), "_", " ")
	return cases.Title(language.English).String(words)
}

// DescribeConstraints summarizes the constraints of a field type in one line.
func DescribeConstraints(ft schema.FieldType) string {
	var parts []string
	add := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}

	switch t := ft.(type) {
	case schema.TextType:
		if t.MinLength != nil {
			add("min length %d", *t.MinLength)
		}
		if t.MaxLength != nil {
			add("max length %d", *t.MaxLength)
		}
		if t.Pattern != "" {
			add("pattern %s", t.Pattern)
		}
	case schema.NumberType:
		if t.Min != nil {
			add("min %s", formatFloat(*t.Min))
		}
		if t.Max != nil {
			add("max %s", formatFloat(*t.Max))
		}
		if t.Step != nil {
			add("step %s", formatFloat(*t.Step))
		}
		if t.Unit != "" {
			add("unit %s", t.Unit)
		}
	case schema.DateType:
		if t.MinDate != "" {
			add("from %s", t.MinDate)
		}
		if t.MaxDate != "" {
			add("until %s", t.MaxDate)
		}
		if t.IncludeTime {
			add("with time")
		}
	case schema.SingleSelectType:
		add("%d options", len(t.Options))
		if t.AllowCustom {
			add("custom allowed")
		}
	case schema.MultiSelectType:
		add("%d options", len(t.Options))
		if t.MinSelections != nil {
			add("pick at least %d", *t.MinSelections)
		}
		if t.MaxSelections != nil {
			add("pick at most %d", *t.MaxSelections)
		}
		if t.AllowCustom {
			add("custom allowed")
		}
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

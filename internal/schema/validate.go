package schema

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// ValueError is a value-against-type validation failure. Error returns the
// human-readable reason, ready to show inline next to the field.
type ValueError struct {
	Reason string
}

// Error returns the failure reason.
func (e *ValueError) Error() string {
	return e.Reason
}

// Unwrap lets callers match ErrInvalidFieldValue with errors.Is.
func (e *ValueError) Unwrap() error {
	return eurekaerrors.ErrInvalidFieldValue
}

func invalidValue(format string, args ...any) error {
	return &ValueError{Reason: fmt.Sprintf(format, args...)}
}

func mismatch(want FieldTypeKey, got FieldValue) error {
	if got == nil {
		return invalidValue("Expected %s value but got none", want)
	}
	return invalidValue("Expected %s value but got %s", want, got.Key())
}

// Validate checks v is a TextValue within the length bounds and pattern.
// Length is counted in characters, not bytes.
func (t TextType) Validate(v FieldValue) error {
	tv, ok := v.(TextValue)
	if !ok {
		return mismatch(FieldTypeText, v)
	}

	length := utf8.RuneCountInString(tv.Value)
	if t.MinLength != nil && length < *t.MinLength {
		return invalidValue("Text is shorter than minLength of %d characters", *t.MinLength)
	}
	if t.MaxLength != nil && length > *t.MaxLength {
		return invalidValue("Text is longer than maxLength of %d characters", *t.MaxLength)
	}
	if t.Pattern != "" {
		re, err := compilePattern(t.Pattern)
		if err != nil {
			return invalidValue("Pattern %s is not a valid regular expression", t.Pattern)
		}
		if !re.MatchString(tv.Value) {
			return invalidValue("Text does not match pattern %s", t.Pattern)
		}
	}
	return nil
}

// Validate checks v is a NumberValue within the bounds. A nil number passes.
func (n NumberType) Validate(v FieldValue) error {
	nv, ok := v.(NumberValue)
	if !ok {
		return mismatch(FieldTypeNumber, v)
	}
	if nv.Value == nil {
		return nil
	}

	x := *nv.Value
	if !isFinite(x) {
		return invalidValue("Number is not a valid number")
	}
	if n.Min != nil && x < *n.Min {
		return invalidValue("Number is less than minimum of %s", formatNumber(*n.Min))
	}
	if n.Max != nil && x > *n.Max {
		return invalidValue("Number is greater than maximum of %s", formatNumber(*n.Max))
	}
	return nil
}

// isFinite reports whether x is neither NaN nor an infinity.
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// dateTimeLayouts are accepted in addition to a plain date when IncludeTime is set.
var dateTimeLayouts = []string{ //nolint:gochecknoglobals // read-only layout table
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Validate checks v is a DateValue that parses and lies within the bounds.
// Bounds are compared on the calendar date only.
func (d DateType) Validate(v FieldValue) error {
	dv, ok := v.(DateValue)
	if !ok {
		return mismatch(FieldTypeDate, v)
	}

	date, ok := parseDate(strings.TrimSpace(dv.Value), d.IncludeTime)
	if !ok {
		return invalidValue("Invalid date format: %s", dv.Value)
	}
	if d.MinDate != "" && date < d.MinDate {
		return invalidValue("Date is before minimum date of %s", d.MinDate)
	}
	if d.MaxDate != "" && date > d.MaxDate {
		return invalidValue("Date is after maximum date of %s", d.MaxDate)
	}
	return nil
}

// parseDate returns the YYYY-MM-DD part of s if s is a valid value.
func parseDate(s string, includeTime bool) (string, bool) {
	if t, err := time.Parse(isoDate, s); err == nil {
		return t.Format(isoDate), true
	}
	if !includeTime {
		return "", false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), true
		}
	}
	return "", false
}

// Validate checks v is a SingleSelectValue naming an option, or any
// non-blank value when AllowCustom is set.
func (s SingleSelectType) Validate(v FieldValue) error {
	sv, ok := v.(SingleSelectValue)
	if !ok {
		return mismatch(FieldTypeSingleSelect, v)
	}
	if err := checkValueShape(sv); err != nil {
		return err
	}
	if s.AllowCustom {
		return nil
	}

	allowed := optionValues(s.Options)
	if !slices.Contains(allowed, sv.Value) {
		return invalidValue("Value '%s' is not in allowed options: %s", sv.Value, formatList(allowed))
	}
	return nil
}

// Validate checks v is a MultiSelectValue whose entries are options (unless
// AllowCustom is set) and whose size is within the selection bounds.
func (m MultiSelectType) Validate(v FieldValue) error {
	mv, ok := v.(MultiSelectValue)
	if !ok {
		return mismatch(FieldTypeMultiSelect, v)
	}
	if err := checkValueShape(mv); err != nil {
		return err
	}

	if !m.AllowCustom {
		allowed := optionValues(m.Options)
		var invalid []string
		for _, value := range mv.Values {
			if !slices.Contains(allowed, value) {
				invalid = append(invalid, value)
			}
		}
		if len(invalid) > 0 {
			return invalidValue("Values %s are not in allowed options: %s", formatList(invalid), formatList(allowed))
		}
	}

	if m.MinSelections != nil && len(mv.Values) < *m.MinSelections {
		return invalidValue("Must select at least %d options", *m.MinSelections)
	}
	if m.MaxSelections != nil && len(mv.Values) > *m.MaxSelections {
		return invalidValue("Must select at most %d options", *m.MaxSelections)
	}
	return nil
}

// formatList renders values as "[a, b, c]".
func formatList(values []string) string {
	return "[" + strings.Join(values, ", ") + "]"
}

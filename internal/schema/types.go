package schema

import (
	"fmt"
	"regexp"
	"time"

	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// isoDate is the layout of DateType bounds and plain date values.
const isoDate = "2006-01-02"

// TextType is a free-text field.
type TextType struct {
	MinLength   *int   `json:"minLength,omitempty"`
	MaxLength   *int   `json:"maxLength,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	// Pattern is a regular expression the whole value must match.
	Pattern string `json:"pattern,omitempty"`
}

// NewTextType returns t after checking its constraints.
func NewTextType(t TextType) (TextType, error) {
	if err := t.Check(); err != nil {
		return TextType{}, err
	}
	return t, nil
}

// Key returns FieldTypeText.
func (TextType) Key() FieldTypeKey { return FieldTypeText }

func (TextType) fieldType() {}

// Check verifies the length bounds and pattern.
func (t TextType) Check() error {
	if t.MinLength != nil && *t.MinLength < 0 {
		return invalidType("minLength must be >= 0")
	}
	if t.MaxLength != nil && *t.MaxLength < 0 {
		return invalidType("maxLength must be >= 0")
	}
	if t.MinLength != nil && t.MaxLength != nil && *t.MaxLength < *t.MinLength {
		return invalidType("maxLength must be >= minLength")
	}
	if t.Pattern != "" {
		if _, err := compilePattern(t.Pattern); err != nil {
			return invalidType("pattern %q is not a valid regular expression: %v", t.Pattern, err)
		}
	}
	return nil
}

// compilePattern anchors p so it must match the whole value.
func compilePattern(p string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + p + `)$`)
}

// NumberType is a numeric field.
type NumberType struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
	// Decimals is the number of fraction digits shown to the user.
	Decimals int    `json:"decimals,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// NewNumberType returns n after checking its constraints.
func NewNumberType(n NumberType) (NumberType, error) {
	if err := n.Check(); err != nil {
		return NumberType{}, err
	}
	return n, nil
}

// Key returns FieldTypeNumber.
func (NumberType) Key() FieldTypeKey { return FieldTypeNumber }

func (NumberType) fieldType() {}

// Check verifies bounds, step and decimals.
func (n NumberType) Check() error {
	if n.Min != nil && !isFinite(*n.Min) {
		return invalidType("min must be a finite number")
	}
	if n.Max != nil && !isFinite(*n.Max) {
		return invalidType("max must be a finite number")
	}
	if n.Step != nil && !isFinite(*n.Step) {
		return invalidType("step must be a finite number")
	}
	if n.Min != nil && n.Max != nil && *n.Max < *n.Min {
		return invalidType("max must be >= min")
	}
	if n.Step != nil && *n.Step < 0 {
		return invalidType("step must be >= 0")
	}
	if n.Decimals < 0 {
		return invalidType("decimals must be >= 0")
	}
	return nil
}

// DateType is a calendar date field. Bounds are ISO dates (YYYY-MM-DD).
type DateType struct {
	MinDate     string `json:"minDate,omitempty"`
	MaxDate     string `json:"maxDate,omitempty"`
	IncludeTime bool   `json:"includeTime,omitempty"`
	// Format is the display format hint for clients.
	Format string `json:"format,omitempty"`
}

// NewDateType returns d after checking its constraints.
func NewDateType(d DateType) (DateType, error) {
	if err := d.Check(); err != nil {
		return DateType{}, err
	}
	return d, nil
}

// Key returns FieldTypeDate.
func (DateType) Key() FieldTypeKey { return FieldTypeDate }

func (DateType) fieldType() {}

// Check verifies the bounds parse and are ordered.
func (d DateType) Check() error {
	if d.MinDate != "" {
		if _, err := time.Parse(isoDate, d.MinDate); err != nil {
			return invalidType("minDate must be an ISO date (YYYY-MM-DD), got %q", d.MinDate)
		}
	}
	if d.MaxDate != "" {
		if _, err := time.Parse(isoDate, d.MaxDate); err != nil {
			return invalidType("maxDate must be an ISO date (YYYY-MM-DD), got %q", d.MaxDate)
		}
	}
	if d.MinDate != "" && d.MaxDate != "" && d.MaxDate < d.MinDate {
		return invalidType("maxDate must be >= minDate")
	}
	return nil
}

// SingleSelectType lets the user pick one option.
type SingleSelectType struct {
	Options []SelectOption `json:"options"`
	// AllowCustom accepts any non-blank value, not only listed options.
	AllowCustom bool `json:"allowCustom,omitempty"`
}

// NewSingleSelectType returns s after checking its options.
func NewSingleSelectType(s SingleSelectType) (SingleSelectType, error) {
	if err := s.Check(); err != nil {
		return SingleSelectType{}, err
	}
	return s, nil
}

// Key returns FieldTypeSingleSelect.
func (SingleSelectType) Key() FieldTypeKey { return FieldTypeSingleSelect }

func (SingleSelectType) fieldType() {}

// Check verifies the option list.
func (s SingleSelectType) Check() error {
	return checkOptions(s.Options)
}

// MultiSelectType lets the user pick several options.
type MultiSelectType struct {
	Options       []SelectOption `json:"options"`
	MinSelections *int           `json:"minSelections,omitempty"`
	MaxSelections *int           `json:"maxSelections,omitempty"`
	AllowCustom   bool           `json:"allowCustom,omitempty"`
}

// NewMultiSelectType returns m after checking its options and cardinality bounds.
func NewMultiSelectType(m MultiSelectType) (MultiSelectType, error) {
	if err := m.Check(); err != nil {
		return MultiSelectType{}, err
	}
	return m, nil
}

// Key returns FieldTypeMultiSelect.
func (MultiSelectType) Key() FieldTypeKey { return FieldTypeMultiSelect }

func (MultiSelectType) fieldType() {}

// Check verifies the option list and selection bounds.
func (m MultiSelectType) Check() error {
	if err := checkOptions(m.Options); err != nil {
		return err
	}
	if m.MinSelections != nil && *m.MinSelections < 0 {
		return invalidType("minSelections must be >= 0")
	}
	if m.MaxSelections != nil && *m.MaxSelections <= 0 {
		return invalidType("maxSelections must be > 0")
	}
	if m.MinSelections != nil && m.MaxSelections != nil && *m.MaxSelections < *m.MinSelections {
		return invalidType("maxSelections must be >= minSelections")
	}
	return nil
}

// checkOptions requires a non-empty list of valid options with unique values.
func checkOptions(options []SelectOption) error {
	if len(options) == 0 {
		return invalidType("options must not be empty")
	}
	seen := make(map[string]struct{}, len(options))
	for i, opt := range options {
		if err := opt.Check(); err != nil {
			return fmt.Errorf("%w: option %d: %w", eurekaerrors.ErrInvalidFieldType, i, err)
		}
		if _, dup := seen[opt.Value]; dup {
			return invalidType("option values must be unique, %q appears more than once", opt.Value)
		}
		seen[opt.Value] = struct{}{}
	}
	return nil
}

// optionValues returns the option values in order.
func optionValues(options []SelectOption) []string {
	values := make([]string, len(options))
	for i, opt := range options {
		values[i] = opt.Value
	}
	return values
}

// Compile-time checks that every variant implements FieldType.
var (
	_ FieldType = TextType{}
	_ FieldType = NumberType{}
	_ FieldType = DateType{}
	_ FieldType = SingleSelectType{}
	_ FieldType = MultiSelectType{}
)

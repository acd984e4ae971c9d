package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// FieldValue is the closed set of value variants, one per FieldType variant.
type FieldValue interface {
	// Key returns the variant tag.
	Key() FieldTypeKey

	fieldValue()
}

// TextValue holds a text answer.
type TextValue struct {
	Value string
}

// NumberValue holds a number answer. A nil Value means "no number".
type NumberValue struct {
	Value *float64
}

// DateValue holds an ISO date, or date-time when the field includes time.
type DateValue struct {
	Value string
}

// SingleSelectValue holds the chosen option value.
type SingleSelectValue struct {
	Value string
}

// MultiSelectValue holds the chosen option values.
type MultiSelectValue struct {
	Values []string
}

// Key returns FieldTypeText.
func (TextValue) Key() FieldTypeKey { return FieldTypeText }

// Key returns FieldTypeNumber.
func (NumberValue) Key() FieldTypeKey { return FieldTypeNumber }

// Key returns FieldTypeDate.
func (DateValue) Key() FieldTypeKey { return FieldTypeDate }

// Key returns FieldTypeSingleSelect.
func (SingleSelectValue) Key() FieldTypeKey { return FieldTypeSingleSelect }

// Key returns FieldTypeMultiSelect.
func (MultiSelectValue) Key() FieldTypeKey { return FieldTypeMultiSelect }

func (TextValue) fieldValue()         {}
func (NumberValue) fieldValue()       {}
func (DateValue) fieldValue()         {}
func (SingleSelectValue) fieldValue() {}
func (MultiSelectValue) fieldValue()  {}

// NewSingleSelectValue rejects a blank value.
func NewSingleSelectValue(value string) (SingleSelectValue, error) {
	v := SingleSelectValue{Value: value}
	if err := checkValueShape(v); err != nil {
		return SingleSelectValue{}, err
	}
	return v, nil
}

// NewMultiSelectValue rejects blank or repeated values. The slice is copied.
func NewMultiSelectValue(values ...string) (MultiSelectValue, error) {
	v := MultiSelectValue{Values: append([]string(nil), values...)}
	if err := checkValueShape(v); err != nil {
		return MultiSelectValue{}, err
	}
	return v, nil
}

// checkValueShape enforces the invariants of select values that exist
// independently of any field type.
func checkValueShape(value FieldValue) error {
	switch v := value.(type) {
	case SingleSelectValue:
		if strings.TrimSpace(v.Value) == "" {
			return invalidValue("Value must not be blank")
		}
	case MultiSelectValue:
		seen := make(map[string]struct{}, len(v.Values))
		for _, s := range v.Values {
			if strings.TrimSpace(s) == "" {
				return invalidValue("Values must not be blank")
			}
			if _, dup := seen[s]; dup {
				return invalidValue("Values must be unique, '%s' appears more than once", s)
			}
			seen[s] = struct{}{}
		}
	}
	return nil
}

// IsEmpty reports whether v carries no answer: nil, blank text or date,
// a nil number, a blank single selection or no multi selections.
func IsEmpty(v FieldValue) bool {
	switch val := v.(type) {
	case nil:
		return true
	case TextValue:
		return strings.TrimSpace(val.Value) == ""
	case NumberValue:
		return val.Value == nil
	case DateValue:
		return strings.TrimSpace(val.Value) == ""
	case SingleSelectValue:
		return strings.TrimSpace(val.Value) == ""
	case MultiSelectValue:
		return len(val.Values) == 0
	default:
		return false
	}
}

// ParseFieldValue converts a decoded YAML or JSON scalar/list into the value
// variant matching ft. A nil raw value yields a nil FieldValue.
func ParseFieldValue(ft FieldType, raw any) (FieldValue, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent value is not an error
	}
	if ft == nil {
		return nil, fmt.Errorf("%w: field type is required", eurekaerrors.ErrInvalidFieldType)
	}

	switch ft.Key() {
	case FieldTypeText:
		s, err := scalarString(raw)
		if err != nil {
			return nil, err
		}
		return TextValue{Value: s}, nil

	case FieldTypeNumber:
		f, err := scalarNumber(raw)
		if err != nil {
			return nil, err
		}
		return NumberValue{Value: &f}, nil

	case FieldTypeDate:
		if t, ok := raw.(time.Time); ok {
			if dt, isDate := ft.(DateType); isDate && dt.IncludeTime {
				return DateValue{Value: t.Format(time.RFC3339)}, nil
			}
			return DateValue{Value: t.Format(isoDate)}, nil
		}
		s, err := scalarString(raw)
		if err != nil {
			return nil, err
		}
		return DateValue{Value: s}, nil

	case FieldTypeSingleSelect:
		s, err := scalarString(raw)
		if err != nil {
			return nil, err
		}
		return NewSingleSelectValue(s)

	case FieldTypeMultiSelect:
		values, err := stringList(raw)
		if err != nil {
			return nil, err
		}
		return NewMultiSelectValue(values...)
	}

	return nil, fmt.Errorf("%w: unknown type %q", eurekaerrors.ErrInvalidFieldType, ft.Key())
}

// RawValue is the inverse of ParseFieldValue: it returns the plain Go value
// used when encoding v to YAML or JSON.
func RawValue(v FieldValue) any {
	switch val := v.(type) {
	case TextValue:
		return val.Value
	case NumberValue:
		if val.Value == nil {
			return nil
		}
		return *val.Value
	case DateValue:
		return val.Value
	case SingleSelectValue:
		return val.Value
	case MultiSelectValue:
		return append([]string(nil), val.Values...)
	default:
		return nil
	}
}

// FormatValue renders v for display.
func FormatValue(v FieldValue) string {
	switch val := v.(type) {
	case nil:
		return ""
	case NumberValue:
		if val.Value == nil {
			return ""
		}
		return formatNumber(*val.Value)
	case MultiSelectValue:
		return strings.Join(val.Values, ", ")
	default:
		return fmt.Sprint(RawValue(v))
	}
}

func scalarString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("%w: expected a string, got %T", eurekaerrors.ErrInvalidFieldValue, raw)
	}
}

func scalarNumber(raw any) (float64, error) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", eurekaerrors.ErrInvalidFieldValue, v)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: expected a number, got %T", eurekaerrors.ErrInvalidFieldValue, raw)
	}
	if !isFinite(f) {
		return 0, fmt.Errorf("%w: %v is not a finite number", eurekaerrors.ErrInvalidFieldValue, raw)
	}
	return f, nil
}

func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := scalarString(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list of strings, got %T", eurekaerrors.ErrInvalidFieldValue, raw)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var (
	_ FieldValue = TextValue{}
	_ FieldValue = NumberValue{}
	_ FieldValue = DateValue{}
	_ FieldValue = SingleSelectValue{}
	_ FieldValue = MultiSelectValue{}
)

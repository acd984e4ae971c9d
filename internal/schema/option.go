package schema

import (
	"fmt"
	"strings"

	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// SelectOption is one choice of a select field.
type SelectOption struct {
	Value       string `json:"value" yaml:"value"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewSelectOption returns an option after checking value and label are not blank.
func NewSelectOption(value, label, description string) (SelectOption, error) {
	opt := SelectOption{Value: value, Label: label, Description: description}
	if err := opt.Check(); err != nil {
		return SelectOption{}, err
	}
	return opt, nil
}

// Check verifies value and label are not blank.
func (o SelectOption) Check() error {
	if strings.TrimSpace(o.Value) == "" {
		return fmt.Errorf("%w: value must not be blank", eurekaerrors.ErrInvalidSelectOption)
	}
	if strings.TrimSpace(o.Label) == "" {
		return fmt.Errorf("%w: label must not be blank", eurekaerrors.ErrInvalidSelectOption)
	}
	return nil
}

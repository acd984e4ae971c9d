// Package errors provides centralized error handling for eureka.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrInvalidFieldType indicates a field type was built with an invalid
	// constraint combination (e.g. maxLength below minLength).
	ErrInvalidFieldType = errors.New("invalid field type")

	// ErrInvalidSelectOption indicates a select option has a blank value or label.
	ErrInvalidSelectOption = errors.New("invalid select option")

	// ErrInvalidFieldValue indicates a field value does not satisfy its type constraints.
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrInvalidFieldDefinition indicates a field definition is missing an id,
	// label or type.
	ErrInvalidFieldDefinition = errors.New("invalid field definition")

	// ErrInvalidDefaultValue indicates a field's default value does not match
	// or satisfy the field type.
	ErrInvalidDefaultValue = errors.New("invalid default value")

	// ErrDuplicateFieldID indicates two fields in a schema share the same id.
	ErrDuplicateFieldID = errors.New("duplicate field id")

	// ErrFieldNotFound indicates the requested field id is not part of the schema.
	ErrFieldNotFound = errors.New("field not found")

	// ErrFieldIDMismatch indicates an update tried to change a field's id.
	ErrFieldIDMismatch = errors.New("field id cannot be changed")

	// ErrRequiredFieldMissing indicates a required field has no value.
	ErrRequiredFieldMissing = errors.New("required field missing")

	// ErrUnknownField indicates a value was supplied for a field the schema does not define.
	ErrUnknownField = errors.New("unknown field")

	// ErrDependencyCycle indicates adding a dependency would create a circular dependency.
	ErrDependencyCycle = errors.New("circular dependency")

	// ErrTaskNotFound indicates that a task was not found in a project.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidID indicates a project or task id contains characters that are
	// not allowed in storage keys.
	ErrInvalidID = errors.New("invalid id")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrLockTimeout indicates a file lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrStoreUnavailable indicates the configured task store could not be reached.
	ErrStoreUnavailable = errors.New("task store unavailable")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidStore indicates an invalid store configuration value.
	ErrConfigInvalidStore = errors.New("invalid store configuration")

	// ErrConfigInvalidLog indicates an invalid log configuration value.
	ErrConfigInvalidLog = errors.New("invalid log configuration")

	// ErrConfigNotFound indicates that the configuration file was not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrTemplateNotFound indicates the requested template does not exist in the registry.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateNil indicates a nil template was provided.
	ErrTemplateNil = errors.New("template cannot be nil")

	// ErrTemplateNameEmpty indicates a template has an empty name.
	ErrTemplateNameEmpty = errors.New("template name is required")

	// ErrTemplateDuplicate indicates a template with the same name already exists.
	ErrTemplateDuplicate = errors.New("template already registered")

	// ErrTemplateInvalid indicates a template failed validation.
	ErrTemplateInvalid = errors.New("invalid template")

	// ErrTemplateLoadFailed indicates a template file could not be loaded.
	ErrTemplateLoadFailed = errors.New("template load failed")

	// ErrTemplateFileMissing indicates the template file does not exist.
	ErrTemplateFileMissing = errors.New("template file not found")

	// ErrTemplateParseError indicates the template file has invalid YAML/JSON syntax.
	ErrTemplateParseError = errors.New("template parse error")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOperationCanceled indicates the user canceled an operation.
	ErrOperationCanceled = errors.New("operation canceled by user")

	// ErrNonInteractiveMode indicates that an operation requiring confirmation
	// was attempted in non-interactive mode without the force flag.
	ErrNonInteractiveMode = errors.New("use --force in non-interactive mode")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

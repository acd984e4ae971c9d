package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// This single source of truth ensures UserMessage and Actionable stay in sync.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Template schema
	// ===================
	{
		err: ErrInvalidFieldType,
		info: ErrorInfo{
			Message: "A field type has conflicting constraints.",
			Action:  "Check min/max lengths, bounds and select options in the template file.",
		},
	},
	{
		err: ErrInvalidSelectOption,
		info: ErrorInfo{
			Message: "A select option is missing its value or label.",
			Action:  "Give every option a non-blank value and label.",
		},
	},
	{
		err: ErrInvalidDefaultValue,
		info: ErrorInfo{
			Message: "A field's default value does not satisfy the field type.",
			Action:  "Change the default value or relax the field constraints.",
		},
	},
	{
		err: ErrInvalidFieldDefinition,
		info: ErrorInfo{
			Message: "A field definition is incomplete.",
			Action:  "Every field needs a non-blank id, label and type.",
		},
	},
	{
		err: ErrDuplicateFieldID,
		info: ErrorInfo{
			Message: "Two fields share the same id.",
			Action:  "Rename one of the fields so every id is unique.",
		},
	},
	{
		err: ErrFieldNotFound,
		info: ErrorInfo{
			Message: "The specified field does not exist in the template.",
			Action:  "Run 'eureka template show <template>' to see field ids.",
		},
	},
	{
		err: ErrFieldIDMismatch,
		info: ErrorInfo{
			Message: "A field's id cannot be changed by an update.",
			Action:  "Duplicate the field and remove the original instead.",
		},
	},
	{
		err: ErrRequiredFieldMissing,
		info: ErrorInfo{
			Message: "A required field has no value.",
			Action:  "Provide values for every required field.",
		},
	},
	{
		err: ErrUnknownField,
		info: ErrorInfo{
			Message: "A value was given for a field the template does not define.",
			Action:  "Remove the value or add the field to the template.",
		},
	},
	{
		err: ErrInvalidFieldValue,
		info: ErrorInfo{
			Message: "A field value does not satisfy the field constraints.",
			Action:  "Fix the value reported above and retry.",
		},
	},

	// ===================
	// Tasks & dependencies
	// ===================
	{
		err: ErrDependencyCycle,
		info: ErrorInfo{
			Message: "Adding this dependency would create a circular dependency.",
			Action:  "Run 'eureka deps path' to see the cycle and pick a different dependency.",
		},
	},
	{
		err: ErrTaskNotFound,
		info: ErrorInfo{
			Message: "The specified task was not found.",
			Action:  "Run 'eureka task list --project <id>' to see current tasks.",
		},
	},
	{
		err: ErrInvalidID,
		info: ErrorInfo{
			Message: "The id contains characters that are not allowed.",
			Action:  "Use letters, digits, '.', '_' and '-' only.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Could not acquire lock. Another process may be using the resource.",
			Action:  "Wait and try again, or check for stuck processes.",
		},
	},
	{
		err: ErrStoreUnavailable,
		info: ErrorInfo{
			Message: "The task store could not be reached.",
			Action:  "Check the 'store' section in your config and that the backend is running.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNotFound,
		info: ErrorInfo{
			Message: "Configuration file not found.",
			Action:  "Create .eureka/config.yaml or ~/.eureka/config.yaml.",
		},
	},
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure the config file exists and is valid YAML.",
		},
	},
	{
		err: ErrConfigInvalidStore,
		info: ErrorInfo{
			Message: "Invalid store configuration.",
			Action:  "Check the 'store' section in your config for invalid values.",
		},
	},
	{
		err: ErrConfigInvalidLog,
		info: ErrorInfo{
			Message: "Invalid log configuration.",
			Action:  "Check the 'log' section in your config for invalid values.",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required value was not provided.",
			Action:  "Provide the required value and try again.",
		},
	},

	// ===================
	// Templates
	// ===================
	{
		err: ErrTemplateNotFound,
		info: ErrorInfo{
			Message: "The specified template does not exist.",
			Action:  "Run 'eureka template list' to see available templates.",
		},
	},
	{
		err: ErrTemplateInvalid,
		info: ErrorInfo{
			Message: "The template failed validation.",
			Action:  "Check the template file for invalid fields.",
		},
	},
	{
		err: ErrTemplateFileMissing,
		info: ErrorInfo{
			Message: "The template file does not exist.",
			Action:  "Check the file path and ensure the template file exists.",
		},
	},
	{
		err: ErrTemplateParseError,
		info: ErrorInfo{
			Message: "The template file has invalid YAML or JSON syntax.",
			Action:  "Check the template file for syntax errors.",
		},
	},

	// ===================
	// User Interaction
	// ===================
	{
		err: ErrOperationCanceled,
		info: ErrorInfo{
			Message: "Operation was canceled.",
			Action:  "",
		},
	},
	{
		err: ErrNonInteractiveMode,
		info: ErrorInfo{
			Message: "This operation requires confirmation in non-interactive mode.",
			Action:  "Use --force flag to skip confirmation.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
// Built once from errorInfoEntries during package initialization.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

// buildErrorInfoMap creates a map from the errorInfoEntries slice.
// This is called once during package init for O(1) direct lookups.
func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries O(1) direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	// Fast path: O(1) lookup for direct sentinel errors
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	// Slow path: errors.Is() for wrapped errors
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// This function maps sentinel errors to helpful, actionable messages
// that are suitable for display to end users.
//
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that are not recoverable or have no clear action, the action
// string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}

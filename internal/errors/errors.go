package errors

import (
	"fmt"
)

// ElsError is the structured error type for amanels.
// It carries enough context for logging, JSON output and CLI hints.
type ElsError struct {
	// Code is the unique error code (e.g., "ERR_402_INVALID_RANGE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is derived from the code range.
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable hint for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *ElsError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ElsError) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so errors.Is works against package-level values.
func (e *ElsError) Is(target error) bool {
	if t, ok := target.(*ElsError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *ElsError) WithDetail(key, value string) *ElsError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *ElsError) WithSuggestion(suggestion string) *ElsError {
	e.Suggestion = suggestion
	return e
}

// New creates a new ElsError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *ElsError {
	return &ElsError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates an ElsError from an existing error.
func Wrap(code string, err error) *ElsError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *ElsError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *ElsError {
	return New(ErrCodeFileNotFound, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *ElsError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *ElsError {
	return New(ErrCodeInternal, message, cause)
}

// As returns the first *ElsError in err's chain.
func As(err error) (*ElsError, bool) {
	for err != nil {
		if ee, ok := err.(*ElsError); ok {
			return ee, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if ee, ok := As(err); ok {
		return ee.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	if ee, ok := As(err); ok {
		return ee.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code, or "" if err carries none.
func GetCode(err error) string {
	if ee, ok := As(err); ok {
		return ee.Code
	}
	return ""
}

// GetCategory extracts the category, or "" if err carries none.
func GetCategory(err error) Category {
	if ee, ok := As(err); ok {
		return ee.Category
	}
	return ""
}
